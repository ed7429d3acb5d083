package executor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// Result is the normalized outcome of one tool call.
type Result struct {
	Success bool
	Payload any
	Error   string
}

// OK wraps a successful payload.
func OK(payload any) Result {
	return Result{Success: true, Payload: payload}
}

// Fail builds a failed result from a formatted message.
func Fail(format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// Text renders the result as prompt evidence. The output is always valid
// UTF-8 and holds no control characters other than newline and tab.
func (r Result) Text() string {
	if !r.Success {
		return "[Tool Error: " + sanitize(r.Error) + "]"
	}
	return sanitize(render(r.Payload))
}

func render(payload any) string {
	switch v := payload.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case []string:
		return strings.Join(v, "\n")
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}

	rv := reflect.ValueOf(payload)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		lines := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			lines = append(lines, renderItem(rv.Index(i).Interface()))
		}
		return strings.Join(lines, "\n")
	}
	return marshalIndent(payload)
}

func renderItem(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	rv := reflect.ValueOf(item)
	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Pointer:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(item); err == nil {
			return strings.TrimSpace(buf.String())
		}
	}
	return fmt.Sprint(item)
}

func marshalIndent(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// sanitize forces valid UTF-8 and replaces control characters other than
// \n and \t with spaces.
func sanitize(s string) string {
	s = strings.ToValidUTF8(s, "�")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}
