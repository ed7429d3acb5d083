package toolcall

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmbeddedCall(t *testing.T) {
	call, ok := Parse(`Let me check. {"name":"get_weather","parameters":{}}`)
	require.True(t, ok)
	assert.Equal(t, "get_weather", call.Name)
	assert.Empty(t, call.Parameters)
	assert.Equal(t, `{"name":"get_weather","parameters":{}}`, call.Raw)
}

func TestParseNoCall(t *testing.T) {
	for _, text := range []string{
		"",
		"You're free all afternoon. Enjoy!",
		"a stray } and { never closed",
		`{"name": "get_weather"}`,
		`{"parameters": {}}`,
		`{"name": 12, "parameters": {}}`,
		`{"name": "", "parameters": {}}`,
		`{"name": "get_weather", "parameters": [1, 2]}`,
		`{"name": "get_weather", "parameters": {"city": }`,
	} {
		_, ok := Parse(text)
		assert.False(t, ok, "text %q", text)
	}
}

func TestParseNestedParameters(t *testing.T) {
	text := "Sure!\n" + `{"name": "get_calendar", "parameters": {"date": "monday", "filter": {"tag": "a}b"}}}` + "\nthanks"
	call, ok := Parse(text)
	require.True(t, ok)
	assert.Equal(t, "get_calendar", call.Name)
	assert.Equal(t, "monday", call.Parameters["date"])
	assert.Equal(t, map[string]any{"tag": "a}b"}, call.Parameters["filter"])
}

func TestParseSkipsMalformedThenFinds(t *testing.T) {
	text := `{not json} then {"other": 1} then {"name":"get_current_time","parameters":null}`
	call, ok := Parse(text)
	require.True(t, ok)
	assert.Equal(t, "get_current_time", call.Name)
	assert.NotNil(t, call.Parameters)
	assert.Empty(t, call.Parameters)
}

func TestParseRecoversFromUnclosedBrace(t *testing.T) {
	text := `Thinking { about it... {"name":"get_next_event","parameters":{}}`
	call, ok := Parse(text)
	require.True(t, ok)
	assert.Equal(t, "get_next_event", call.Name)
}

func TestParseIgnoresQuotesInProse(t *testing.T) {
	text := `It's "sunny" I'd guess, but {"name":"get_weather","parameters":{"city":"Boston"}}`
	call, ok := Parse(text)
	require.True(t, ok)
	assert.Equal(t, "Boston", call.Parameters["city"])
}

func TestParseFirstCallWins(t *testing.T) {
	text := `{"name":"a","parameters":{}} {"name":"b","parameters":{}}`
	call, ok := Parse(text)
	require.True(t, ok)
	assert.Equal(t, "a", call.Name)
}

func TestParseEscapedQuotes(t *testing.T) {
	text := `{"name":"create_reminder","parameters":{"name":"say \"hi\" {now}"}}`
	call, ok := Parse(text)
	require.True(t, ok)
	assert.Equal(t, `say "hi" {now}`, call.Parameters["name"])
}

func TestCallJSON(t *testing.T) {
	call := Call{Name: "get_weather"}
	assert.Equal(t, `{"name":"get_weather","parameters":{}}`, call.JSON())
}

func TestStripFragments(t *testing.T) {
	cases := map[string]string{
		`You're free! {"name":"get_calendar","parameters":{"date":"today"}}`: "You're free!",
		`Sunny today. {"name": "get_weather", "parame`:                       "Sunny today.",
		`Keep {"braces": true} that are data.`:                                `Keep {"braces": true} that are data.`,
		`Your profile: {"name": "Sri", "role": "student"}`:                    `Your profile: {"name": "Sri", "role": "student"}`,
		`Done. {"name": "get_weather", "parameters": {"city": }}`:             "Done.",
		"Plain answer.":                                                        "Plain answer.",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripFragments(in), "input %q", in)
	}
}

func TestSpansSinglePassOverUnclosedBraces(t *testing.T) {
	text := strings.Repeat("{", 50000) + `{"name":"get_current_time","parameters":{}}`
	spans := Spans(text)
	require.Len(t, spans, 1)
	assert.Equal(t, 50000, spans[0].Start)

	call, ok := Parse(text)
	require.True(t, ok)
	assert.Equal(t, "get_current_time", call.Name)
}

func TestSpansReportsBlocksInsideUnclosedBraces(t *testing.T) {
	text := `{"a":1} then { oops {"b":2} and { again {"c":3}`
	var got []string
	for _, sp := range Spans(text) {
		got = append(got, text[sp.Start:sp.End])
	}
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`, `{"c":3}`}, got)
}

func TestParseProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("never panics on arbitrary input", prop.ForAll(
		func(s string) bool {
			Parse(s)
			StripFragments(s)
			return true
		},
		gen.AnyString(),
	))

	properties.Property("never panics on brace-heavy input", prop.ForAll(
		func(parts []string) bool {
			Parse(strings.Join(parts, ""))
			return true
		},
		gen.SliceOf(gen.OneConstOf("{", "}", `"`, `\`, "name", `"name":`, `"parameters":`, ":", ",", "x", " ")),
	))

	properties.Property("finds a call embedded in prose", prop.ForAll(
		func(prefix, suffix, value string) bool {
			embedded := fmt.Sprintf(`%s {"name":"get_weather","parameters":{"city":%q}} %s`, prefix, value, suffix)
			call, ok := Parse(embedded)
			return ok && call.Name == "get_weather" && call.Parameters["city"] == value
		},
		gen.AlphaString(), gen.AlphaString(), gen.AlphaString(),
	))

	properties.TestingRun(t)
}
