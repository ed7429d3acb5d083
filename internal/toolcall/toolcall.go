// Package toolcall finds structured tool invocations of the form
// {"name": "...", "parameters": {...}} inside free-form model output.
package toolcall

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Call is a parsed tool invocation.
type Call struct {
	Name       string
	Parameters map[string]any
	// Raw is the exact span of model text the call was decoded from.
	Raw string
}

type wireCall struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// JSON renders the call in its canonical wire form.
func (c Call) JSON() string {
	params := c.Parameters
	if params == nil {
		params = map[string]any{}
	}
	data, err := json.Marshal(wireCall{Name: c.Name, Parameters: params})
	if err != nil {
		return c.Raw
	}
	return string(data)
}

// Parse returns the first well-formed tool call in text. The second return
// value is false when the text holds no call; that is the normal outcome
// for a final answer.
func Parse(text string) (Call, bool) {
	for _, span := range Spans(text) {
		if call, ok := decode(text[span.Start:span.End]); ok {
			return call, true
		}
	}
	return Call{}, false
}

// Span is a half-open byte range of a balanced top-level {...} block.
type Span struct {
	Start, End int
}

// Spans lists the balanced top-level brace blocks in text, left to right,
// in a single pass. Quotes delimit strings only inside a block, so stray
// apostrophes and quotes in prose do not hide later blocks. A brace that
// never closes is ignored and the blocks inside it are reported.
func Spans(text string) []Span {
	spans, _ := scan(text)
	return spans
}

// scan returns the reported spans plus the offsets of braces that never
// close, both in text order.
func scan(text string) ([]Span, []int) {
	var (
		spans    []Span
		openers  []int
		children [][]Span
		inString bool
		escaped  bool
	)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if len(openers) > 0 {
				inString = true
			}
		case '{':
			openers = append(openers, i)
			children = append(children, nil)
		case '}':
			if len(openers) == 0 {
				continue
			}
			top := len(openers) - 1
			span := Span{Start: openers[top], End: i + 1}
			openers, children = openers[:top], children[:top]
			if top == 0 {
				spans = append(spans, span)
			} else {
				children[top-1] = append(children[top-1], span)
			}
		}
	}
	// Blocks closed inside a brace that never closed surface at top level.
	for _, pending := range children {
		spans = append(spans, pending...)
	}
	return spans, openers
}

func decode(candidate string) (Call, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return Call{}, false
	}
	rawName, hasName := obj["name"]
	rawParams, hasParams := obj["parameters"]
	if !hasName || !hasParams {
		return Call{}, false
	}
	var name string
	if err := json.Unmarshal(rawName, &name); err != nil {
		return Call{}, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Call{}, false
	}
	params := map[string]any{}
	if trimmed := strings.TrimSpace(string(rawParams)); trimmed != "null" {
		if err := json.Unmarshal(rawParams, &params); err != nil {
			return Call{}, false
		}
		if params == nil {
			params = map[string]any{}
		}
	}
	return Call{Name: name, Parameters: params, Raw: candidate}, true
}

var (
	danglingFragment = regexp.MustCompile(`^\{\s*"name"`)
	blankRuns        = regexp.MustCompile(`\n{3,}`)
)

// StripFragments removes tool-call debris from an answer: every balanced
// block shaped like a call and any unterminated {"name" tail. Other JSON
// the model writes as part of its answer is kept.
func StripFragments(text string) string {
	spans, unclosed := scan(text)
	cut := len(text)
	for _, start := range unclosed {
		if danglingFragment.MatchString(text[start:]) {
			cut = start
			break
		}
	}

	var b strings.Builder
	last := 0
	for _, span := range spans {
		if span.End > cut {
			break
		}
		if !looksLikeCall(text[span.Start:span.End]) {
			continue
		}
		b.WriteString(text[last:span.Start])
		last = span.End
	}
	if last < cut {
		b.WriteString(text[last:cut])
	}
	out := blankRuns.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}

// looksLikeCall reports whether block decodes as a call or, when it is not
// valid JSON, still names both call keys.
func looksLikeCall(block string) bool {
	if _, ok := decode(block); ok {
		return true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(block), &obj); err == nil {
		_, hasName := obj["name"]
		_, hasParams := obj["parameters"]
		return hasName && hasParams
	}
	return strings.Contains(block, `"name"`) && strings.Contains(block, `"parameters"`)
}
