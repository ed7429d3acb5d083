// Package reminders stores the user's to-do items in a local SQLite
// database and parses the loose due-date phrases the model produces.
package reminders

import (
	"time"
)

// DefaultList is the list name that carries no tag in listings.
const DefaultList = "Reminders"

// Priority follows the common 0 none, 1 high, 5 medium, 9 low scale.
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 5
	PriorityLow    Priority = 9
)

// Reminder is one to-do item.
type Reminder struct {
	ID        string
	Name      string
	Notes     string
	Due       *time.Time
	Completed bool
	List      string
	Priority  Priority
	CreatedAt time.Time
}

// IsAllDay reports whether the reminder is due on a day rather than at a
// time. All-day reminders are stored at midnight.
func (r Reminder) IsAllDay() bool {
	if r.Due == nil {
		return false
	}
	return r.Due.Hour() == 0 && r.Due.Minute() == 0
}

// IsOverdue reports whether the reminder is incomplete and past due at now.
// All-day reminders only become overdue once their day has ended.
func (r Reminder) IsOverdue(now time.Time) bool {
	if r.Due == nil || r.Completed {
		return false
	}
	if r.IsAllDay() {
		return dayOf(now).After(dayOf(r.Due.In(now.Location())))
	}
	return now.After(*r.Due)
}

// FormatDue renders the due date relative to now.
func (r Reminder) FormatDue(now time.Time) string {
	if r.Due == nil {
		return "No due date"
	}
	due := r.Due.In(now.Location())
	allDay := r.IsAllDay()

	if r.IsOverdue(now) {
		return "Overdue (" + due.Format("Jan 02") + ")"
	}

	today := dayOf(now)
	switch dueDay := dayOf(due); {
	case dueDay.Equal(today):
		if allDay {
			return "Due today"
		}
		return "Today at " + due.Format("3:04 PM")
	case dueDay.Equal(today.AddDate(0, 0, 1)):
		if allDay {
			return "Due tomorrow"
		}
		return "Tomorrow at " + due.Format("3:04 PM")
	case due.Sub(now) < 7*24*time.Hour:
		if allDay {
			return "Due " + due.Format("Monday")
		}
		return due.Format("Monday at 3:04 PM")
	default:
		if allDay {
			return "Due " + due.Format("Jan 02")
		}
		return due.Format("Jan 02 at 3:04 PM")
	}
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
