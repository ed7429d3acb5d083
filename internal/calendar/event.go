// Package calendar defines the event model shared by every calendar-like
// source and the merge rules applied when several sources answer the same
// query.
package calendar

import (
	"sort"
	"strings"
	"time"
)

// Event is a single calendar entry from any source.
type Event struct {
	Title    string
	Start    time.Time
	End      time.Time
	AllDay   bool
	Location string
	// Source names where the event came from, e.g. "primary" or an ICS
	// feed name.
	Source string
}

const clockLayout = "3:04 PM"

// TimeRange formats the event's wall-clock span, or "All day".
func (e Event) TimeRange() string {
	if e.AllDay {
		return "All day"
	}
	if e.End.IsZero() || e.End.Equal(e.Start) {
		return e.Start.Format(clockLayout)
	}
	return e.Start.Format(clockLayout) + " - " + e.End.Format(clockLayout)
}

// Line renders the event as a context line without indentation.
func (e Event) Line() string {
	line := e.TimeRange() + ": " + e.Title
	if loc := strings.TrimSpace(e.Location); loc != "" {
		line += " @ " + loc
	}
	return line
}

// Overlaps reports whether the event intersects the inclusive window
// [start, end].
func (e Event) Overlaps(start, end time.Time) bool {
	evEnd := e.End
	if evEnd.IsZero() || evEnd.Before(e.Start) {
		evEnd = e.Start
	}
	if e.Start.After(end) {
		return false
	}
	if evEnd.Equal(e.Start) {
		return !e.Start.Before(start)
	}
	return evEnd.After(start)
}

type dedupKey struct {
	title string
	day   string
}

func keyOf(e Event) dedupKey {
	return dedupKey{title: e.Title, day: e.Start.Format("2006-01-02")}
}

// Merge flattens batches in order, keeps the first event seen for each
// (title, start date) pair and sorts the survivors by start time. Batches
// earlier in the argument list win ties.
func Merge(batches ...[]Event) []Event {
	seen := make(map[dedupKey]struct{})
	var out []Event
	for _, batch := range batches {
		for _, ev := range batch {
			k := keyOf(ev)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, ev)
		}
	}
	sortByStart(out)
	return out
}

// SortByStart returns a copy of events ordered by start time. Unlike
// Merge it keeps repeated titles.
func SortByStart(events []Event) []Event {
	out := append([]Event(nil), events...)
	sortByStart(out)
	return out
}

func sortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}

// Within returns the events that overlap [start, end].
func Within(events []Event, start, end time.Time) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.Overlaps(start, end) {
			out = append(out, ev)
		}
	}
	return out
}
