package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Srimaan215/Roku-AI/internal/integrations/reminders"
	"github.com/Srimaan215/Roku-AI/internal/integrations/weather"
)

func (e *Executor) getWeather(ctx context.Context, params Params) Result {
	if e.weather == nil {
		return Fail("Weather not configured")
	}
	if !e.weather.IsConfigured() {
		return Fail("Weather API key not set")
	}
	city := params.String("city", "")
	data, err := withTimeout(ctx, e.timeout, func(c context.Context) (*weather.Conditions, error) {
		return e.weather.Current(c, city)
	})
	if err != nil {
		return Fail("Could not fetch weather data: %v", err)
	}
	if data == nil {
		return Fail("Could not fetch weather data")
	}
	text := data.FormatContext()
	if s := data.Suggestions(); s != "" {
		text += "\n" + s
	}
	return OK(text)
}

// PeriodOf buckets an hour into morning, afternoon, evening or night using
// the same boundaries as availability checks.
func PeriodOf(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// DayType returns "weekend" or "weekday".
func DayType(t time.Time) string {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return "weekend"
	}
	return "weekday"
}

func (e *Executor) getCurrentTime(_ context.Context, _ Params) Result {
	now := e.clock.Now()
	return OK(fmt.Sprintf("Current time: %s on %s (%s, %s)",
		now.Format("03:04 PM"), now.Format("Monday, January 02, 2006"), DayType(now), PeriodOf(now.Hour())))
}

func (e *Executor) displayName() string {
	if e.username != "" {
		return e.username
	}
	if e.profile != nil && e.profile.Username() != "" {
		return e.profile.Username()
	}
	return "User"
}

func (e *Executor) getUserInfo(_ context.Context, params Params) Result {
	if e.profile == nil || len(e.profile.Categories()) == 0 {
		return Fail("No user profile available")
	}
	name := strings.ToLower(params.String("category", "identity"))
	cat, ok := e.profile.Category(name)
	if !ok {
		return Fail("Category '%s' not found. Available: %s", name, strings.Join(e.profile.Categories(), ", "))
	}
	user := e.displayName()
	if !cat.IsMapping() {
		return OK(fmt.Sprintf("%s's %s: %s", user, cat.Name, cat.Scalar))
	}
	lines := []string{fmt.Sprintf("%s's %s:", user, cat.Name)}
	for _, f := range cat.Fields {
		lines = append(lines, fmt.Sprintf("  %s: %s", f.Key, f.Value))
	}
	return OK(strings.Join(lines, "\n"))
}

func (e *Executor) getReminders(ctx context.Context, params Params) Result {
	if e.reminders == nil {
		return Fail("Reminders not connected")
	}
	dueSoon := params.Bool("due_soon", false)
	includeOverdue := params.Bool("include_overdue", true)

	var (
		items  []reminders.Reminder
		header string
		err    error
	)
	if dueSoon {
		header = "Reminders due in the next 24 hours"
		items, err = withTimeout(ctx, e.timeout, func(c context.Context) ([]reminders.Reminder, error) {
			return e.reminders.DueSoon(c, 24*time.Hour)
		})
	} else {
		header = "Your reminders in " + e.reminderList
		items, err = withTimeout(ctx, e.timeout, func(c context.Context) ([]reminders.Reminder, error) {
			return e.reminders.List(c, e.reminderList, false)
		})
	}
	if err != nil {
		return Fail("Reminders error: %v", err)
	}

	if includeOverdue {
		overdue, err := withTimeout(ctx, e.timeout, e.reminders.Overdue)
		if err != nil {
			return Fail("Reminders error: %v", err)
		}
		seen := make(map[string]struct{}, len(items))
		for _, r := range items {
			seen[r.ID] = struct{}{}
		}
		var prefix []reminders.Reminder
		for _, r := range overdue {
			if _, dup := seen[r.ID]; !dup {
				prefix = append(prefix, r)
				seen[r.ID] = struct{}{}
			}
		}
		items = append(prefix, items...)
	}

	if len(items) == 0 {
		return OK(fmt.Sprintf("No %s found. All caught up!", strings.ToLower(header)))
	}

	now := e.clock.Now()
	lines := []string{header + ":"}
	for _, r := range items {
		line := "  - " + r.Name
		if r.Due != nil {
			line += " (" + r.FormatDue(now) + ")"
		}
		if r.List != "" && r.List != reminders.DefaultList {
			line += " [" + r.List + "]"
		}
		lines = append(lines, line)
	}
	return OK(strings.Join(lines, "\n"))
}

// createReminder always files into the configured list. Any list name the
// model supplies is ignored.
func (e *Executor) createReminder(ctx context.Context, params Params) Result {
	if e.reminders == nil {
		return Fail("Reminders not connected")
	}
	name := params.String("name", "")
	if name == "" {
		return Fail("Reminder name is required")
	}

	now := e.clock.Now()
	dueDate := params.String("due_date", "")
	dueTime := params.String("due_time", "")
	if dueDate == "" && dueTime != "" {
		dueDate = "today"
	}
	var due *time.Time
	if dueDate != "" {
		if t, ok := reminders.ParseDue(dueDate, dueTime, now); ok {
			due = &t
		}
	}

	created, err := withTimeout(ctx, e.timeout, func(c context.Context) (reminders.Reminder, error) {
		return e.reminders.Create(c, reminders.Reminder{
			Name:  name,
			Notes: params.String("notes", ""),
			Due:   due,
			List:  e.reminderList,
		})
	})
	if err != nil {
		return Fail("Error creating reminder: %v", err)
	}

	msg := fmt.Sprintf("Reminder created: '%s'", created.Name)
	if created.Due != nil {
		msg += " (due " + created.Due.Format("Monday, Jan 02 at 03:04 PM") + ")"
	}
	if created.List != reminders.DefaultList {
		msg += fmt.Sprintf(" in '%s'", created.List)
	}
	return OK(msg)
}
