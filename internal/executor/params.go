package executor

import (
	"fmt"
	"strings"
)

// Params are the decoded arguments of a tool call.
type Params map[string]any

// String returns the trimmed string form of key, or def when absent or
// blank.
func (p Params) String(key, def string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// Bool reads key as a boolean, accepting quoted forms like "true" or
// "yes" that small models often emit.
func (p Params) Bool(key string, def bool) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "y", "1":
			return true
		case "false", "no", "n", "0":
			return false
		}
	}
	return def
}
