package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewHTTP(context.Background(), srv.URL+"/", srv.Client(), time.UTC)
	require.NoError(t, err)
	return c
}

func TestListCalendarsPrimaryFirst(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/users/me/calendarList"), r.URL.Path)
		fmt.Fprint(w, `{"items":[{"id":"team@group"},{"id":"me@example.com","primary":true}]}`)
	})
	ids, err := c.ListCalendars(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"me@example.com", "team@group"}, ids)
}

func TestEventsConvertsTimes(t *testing.T) {
	var query map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/calendars/primary/events")
		q := r.URL.Query()
		query = map[string]string{
			"singleEvents": q.Get("singleEvents"),
			"orderBy":      q.Get("orderBy"),
			"maxResults":   q.Get("maxResults"),
			"timeMin":      q.Get("timeMin"),
		}
		fmt.Fprint(w, `{"items":[
			{"summary":"Standup","location":"Zoom","start":{"dateTime":"2025-01-15T09:00:00-05:00"},"end":{"dateTime":"2025-01-15T09:15:00-05:00"}},
			{"summary":"Holiday","start":{"date":"2025-01-16"},"end":{"date":"2025-01-17"}},
			{"summary":"Gone","status":"cancelled","start":{"dateTime":"2025-01-15T10:00:00Z"}},
			{"start":{"dateTime":"2025-01-15T12:00:00Z"}}
		]}`)
	})

	start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	events, err := c.Events(context.Background(), start, start.Add(48*time.Hour), "")
	require.NoError(t, err)

	assert.Equal(t, "true", query["singleEvents"])
	assert.Equal(t, "startTime", query["orderBy"])
	assert.Equal(t, "20", query["maxResults"])
	assert.Equal(t, "2025-01-15T00:00:00Z", query["timeMin"])

	require.Len(t, events, 3)
	assert.Equal(t, "Standup", events[0].Title)
	assert.Equal(t, "Zoom", events[0].Location)
	assert.Equal(t, 14, events[0].Start.Hour())
	assert.Equal(t, "primary", events[0].Source)
	assert.True(t, events[1].AllDay)
	assert.Equal(t, "Untitled", events[2].Title)
}

func TestEventsSurfacesAPIErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":401,"message":"bad token"}}`)
	})
	_, err := c.Events(context.Background(), time.Now(), time.Now().Add(time.Hour), "primary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary")
}

func TestNilClientNotAuthenticated(t *testing.T) {
	var c *Client
	assert.False(t, c.IsAuthenticated())
	_, err := c.ListCalendars(context.Background())
	assert.True(t, errors.Is(err, ErrNotAuthenticated))
}

func TestLoadTokenMissing(t *testing.T) {
	_, err := loadToken(filepath.Join(t.TempDir(), "token.json"))
	assert.True(t, errors.Is(err, ErrNotAuthenticated))
}
