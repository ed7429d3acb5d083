package catalog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsDuplicates(t *testing.T) {
	c := New()
	require.NoError(t, c.Register(Tool{Name: "ping"}))

	err := c.Register(Tool{Name: "ping", Description: "again"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateTool))

	got, ok := c.Get("ping")
	require.True(t, ok)
	assert.Empty(t, got.Description, "first registration must win")
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	assert.Error(t, New().Register(Tool{Name: "  "}))
}

func TestDefaultOrder(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{
		GetCalendar, GetNextEvent, CheckAvailability, GetWeather,
		GetCurrentTime, GetUserInfo, GetReminders, CreateReminder,
	}, c.Names())

	schemas := c.SchemasForPrompt()
	require.Len(t, schemas, 8)
	for i, name := range c.Names() {
		assert.Equal(t, name, schemas[i]["name"])
	}
}

func TestPromptJSONDeterministic(t *testing.T) {
	a, err := Default().PromptJSON()
	require.NoError(t, err)
	b, err := Default().PromptJSON()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(a), &decoded))
	params := decoded[2]["parameters"].(map[string]any)
	props := params["properties"].(map[string]any)
	tod := props["time_of_day"].(map[string]any)
	assert.ElementsMatch(t, []any{"morning", "afternoon", "evening", "night", "all_day"}, tod["enum"])
	assert.Equal(t, []any{"date"}, params["required"])
}

func TestValidate(t *testing.T) {
	c := Default()

	assert.NoError(t, c.Validate(GetCalendar, map[string]any{"date": "today"}))
	assert.NoError(t, c.Validate(GetNextEvent, nil))
	assert.NoError(t, c.Validate(GetReminders, map[string]any{"due_soon": "true"}))
	assert.NoError(t, c.Validate(CheckAvailability, map[string]any{"date": "today", "time_of_day": "brunch"}),
		"enum values are handled by the handler")
	assert.NoError(t, c.Validate(CreateReminder, map[string]any{"name": "x", "list_name": "Other"}))

	err := c.Validate(GetCalendar, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")

	err = c.Validate(GetCalendar, map[string]any{"date": 7})
	require.Error(t, err)

	err = c.Validate("nope", nil)
	assert.True(t, errors.Is(err, ErrUnknownTool))
}
