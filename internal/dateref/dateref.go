// Package dateref turns the date tokens a model emits ("today", "friday",
// "next week", "2025-03-14") into concrete time windows.
package dateref

import (
	"strings"
	"time"

	"github.com/Srimaan215/Roku-AI/internal/clock"
)

// IsoLayout is the literal calendar date form accepted by Resolve.
const IsoLayout = "2006-01-02"

// Range is a resolved window. A nil End means a single day starting at
// Start; otherwise both bounds are inclusive and End sits at 23:59:59.999
// of the last day.
type Range struct {
	Start time.Time
	End   *time.Time
}

// IsRange reports whether the range spans more than a single day token.
func (r Range) IsRange() bool {
	return r.End != nil
}

// Last returns the inclusive end of the window. Single days end at the
// close of Start's day.
func (r Range) Last() time.Time {
	if r.End != nil {
		return *r.End
	}
	return EndOfDay(r.Start)
}

// Resolver resolves tokens against a clock.
type Resolver struct {
	clock clock.Clock
}

// New returns a Resolver reading "now" from c. A nil clock uses the system
// clock.
func New(c clock.Clock) *Resolver {
	if c == nil {
		c = clock.System{}
	}
	return &Resolver{clock: c}
}

// Resolve resolves token relative to the resolver's current time.
func (r *Resolver) Resolve(token string) Range {
	return ResolveAt(token, r.clock.Now())
}

// ResolveAt resolves token relative to ref. Unrecognized tokens resolve to
// ref's day.
func ResolveAt(token string, ref time.Time) Range {
	tok := normalize(token)
	day := StartOfDay(ref)

	switch tok {
	case "today", "":
		return Range{Start: day}
	case "tomorrow":
		return Range{Start: day.AddDate(0, 0, 1)}
	case "yesterday":
		return Range{Start: day.AddDate(0, 0, -1)}
	case "this week":
		untilSunday := (7 - int(day.Weekday())) % 7
		end := EndOfDay(day.AddDate(0, 0, untilSunday))
		return Range{Start: day, End: &end}
	case "next week":
		untilMonday := (int(time.Monday) - int(day.Weekday()) + 7) % 7
		if untilMonday == 0 {
			untilMonday = 7
		}
		start := day.AddDate(0, 0, untilMonday)
		end := EndOfDay(start.AddDate(0, 0, 6))
		return Range{Start: start, End: &end}
	}

	if wd, ok := weekdays[tok]; ok {
		return Range{Start: nextWeekday(day, wd)}
	}

	if parsed, err := time.ParseInLocation(IsoLayout, tok, ref.Location()); err == nil {
		return Range{Start: parsed}
	}

	return Range{Start: day}
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// nextWeekday returns the first day strictly after day that falls on wd.
func nextWeekday(day time.Time, wd time.Weekday) time.Time {
	ahead := (int(wd) - int(day.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return day.AddDate(0, 0, ahead)
}

func normalize(token string) string {
	return strings.Join(strings.Fields(strings.ToLower(token)), " ")
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
