package reminders

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Srimaan215/Roku-AI/internal/clock"
)

// Wednesday, January 15 2025 at 10:00.
var refNow = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) (*Store, *clock.Fixed) {
	t.Helper()
	c := clock.NewFixed(refNow)
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "reminders.db"),
		WithClock(c), WithLocation(time.UTC))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, c
}

func ptr(t time.Time) *time.Time { return &t }

func TestCreateAndList(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, Reminder{Name: "  Buy milk ", Due: ptr(refNow.Add(2 * time.Hour)), List: "Task Master"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Name)

	_, err = s.Create(ctx, Reminder{Name: "Someday", List: "Task Master"})
	require.NoError(t, err)
	_, err = s.Create(ctx, Reminder{Name: "Other list", List: "Errands"})
	require.NoError(t, err)

	got, err := s.List(ctx, "Task Master", false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Buy milk", got[0].Name, "dated reminders sort before undated")
	assert.Nil(t, got[1].Due)
	require.NotNil(t, got[0].Due)
	assert.True(t, got[0].Due.Equal(refNow.Add(2*time.Hour)))

	all, err := s.List(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreateRequiresName(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := s.Create(context.Background(), Reminder{Name: " "})
	assert.Error(t, err)
}

func TestCompleteHidesReminder(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	r, err := s.Create(ctx, Reminder{Name: "Call mom", List: "Task Master"})
	require.NoError(t, err)
	require.NoError(t, s.Complete(ctx, r.ID))

	open, err := s.List(ctx, "Task Master", false)
	require.NoError(t, err)
	assert.Empty(t, open)

	withDone, err := s.List(ctx, "Task Master", true)
	require.NoError(t, err)
	require.Len(t, withDone, 1)
	assert.True(t, withDone[0].Completed)

	err = s.Complete(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDueSoonAndOverdue(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	mustCreate := func(name string, due *time.Time) {
		_, err := s.Create(ctx, Reminder{Name: name, Due: due, List: "Task Master"})
		require.NoError(t, err)
	}
	mustCreate("late", ptr(refNow.Add(-time.Hour)))
	mustCreate("soon", ptr(refNow.Add(5*time.Hour)))
	mustCreate("later", ptr(refNow.Add(72*time.Hour)))
	mustCreate("all day today", ptr(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)))
	mustCreate("all day yesterday", ptr(time.Date(2025, time.January, 14, 0, 0, 0, 0, time.UTC)))
	mustCreate("undated", nil)

	soon, err := s.DueSoon(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"all day yesterday", "all day today", "late", "soon"}, names(soon))

	overdue, err := s.Overdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"all day yesterday", "late"}, names(overdue))
}

func names(rs []Reminder) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}

func TestFormatDue(t *testing.T) {
	cases := []struct {
		name string
		due  *time.Time
		want string
	}{
		{"none", nil, "No due date"},
		{"overdue", ptr(refNow.Add(-2 * time.Hour)), "Overdue (Jan 15)"},
		{"today at", ptr(time.Date(2025, time.January, 15, 15, 0, 0, 0, time.UTC)), "Today at 3:00 PM"},
		{"today all day", ptr(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)), "Due today"},
		{"tomorrow at", ptr(time.Date(2025, time.January, 16, 9, 30, 0, 0, time.UTC)), "Tomorrow at 9:30 AM"},
		{"tomorrow all day", ptr(time.Date(2025, time.January, 16, 0, 0, 0, 0, time.UTC)), "Due tomorrow"},
		{"this week", ptr(time.Date(2025, time.January, 18, 14, 0, 0, 0, time.UTC)), "Saturday at 2:00 PM"},
		{"this week all day", ptr(time.Date(2025, time.January, 18, 0, 0, 0, 0, time.UTC)), "Due Saturday"},
		{"far", ptr(time.Date(2025, time.February, 3, 8, 0, 0, 0, time.UTC)), "Feb 03 at 8:00 AM"},
		{"far all day", ptr(time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)), "Due Feb 03"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Reminder{Due: tc.due}.FormatDue(refNow))
		})
	}
}

func TestParseDue(t *testing.T) {
	cases := []struct {
		date, clock string
		want        time.Time
		ok          bool
	}{
		{"today", "", time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC), true},
		{"now", "3pm", time.Date(2025, time.January, 15, 15, 0, 0, 0, time.UTC), true},
		{"Tomorrow", "10:30am", time.Date(2025, time.January, 16, 10, 30, 0, 0, time.UTC), true},
		{"wednesday", "14:00", time.Date(2025, time.January, 22, 14, 0, 0, 0, time.UTC), true},
		{"friday", "12am", time.Date(2025, time.January, 17, 0, 0, 0, 0, time.UTC), true},
		{"march 14", "", time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC), true},
		{"Feb 5", "2pm", time.Date(2025, time.February, 5, 14, 0, 0, 0, time.UTC), true},
		{"1/10", "", time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC), true},
		{"12-25", "", time.Date(2025, time.December, 25, 9, 0, 0, 0, time.UTC), true},
		{"2025-06-01", "", time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC), true},
		{"someday", "", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.date+"/"+tc.clock, func(t *testing.T) {
			got, ok := ParseDue(tc.date, tc.clock, refNow)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, tc.want.Equal(got), "got %v, want %v", got, tc.want)
			}
		})
	}
}
