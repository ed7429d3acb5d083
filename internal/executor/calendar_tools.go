package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/Srimaan215/Roku-AI/internal/calendar"
	"github.com/Srimaan215/Roku-AI/internal/dateref"
)

const primaryCalendar = "primary"

// source is one independently queried calendar.
type source struct {
	name  string
	fetch func(ctx context.Context, start, end time.Time) ([]calendar.Event, error)
}

// sourceFailure records why a calendar source contributed nothing.
type sourceFailure struct {
	name string
	err  error
}

func (e *Executor) hasCalendarSources() bool {
	calendarUp := e.calendar != nil && e.calendar.IsAuthenticated()
	feedsUp := e.feeds != nil && len(e.feeds.Feeds()) > 0
	return calendarUp || feedsUp
}

// sources lists the primary account's calendars followed by each ICS feed.
// Listing the account's calendars is itself a provider call and can fail.
func (e *Executor) sources(ctx context.Context) ([]source, []sourceFailure) {
	var (
		out      []source
		failures []sourceFailure
	)
	if e.calendar != nil && e.calendar.IsAuthenticated() {
		ids, err := withTimeout(ctx, e.timeout, e.calendar.ListCalendars)
		if err != nil {
			failures = append(failures, sourceFailure{name: "google calendar", err: err})
		}
		for _, id := range ids {
			out = append(out, source{
				name: id,
				fetch: func(ctx context.Context, start, end time.Time) ([]calendar.Event, error) {
					return e.calendar.Events(ctx, start, end, id)
				},
			})
		}
	}
	if e.feeds != nil {
		for _, feed := range e.feeds.Feeds() {
			out = append(out, source{
				name: feed,
				fetch: func(ctx context.Context, start, end time.Time) ([]calendar.Event, error) {
					return e.feeds.Events(ctx, start, end, feed)
				},
			})
		}
	}
	return out, failures
}

// collect queries every source concurrently. Results land in source order
// regardless of completion order, so merge priority is stable.
func (e *Executor) collect(ctx context.Context, start, end time.Time) ([]calendar.Event, []sourceFailure, bool) {
	srcs, failures := e.sources(ctx)
	batches := make([][]calendar.Event, len(srcs))
	errs := make([]error, len(srcs))

	var wg conc.WaitGroup
	for i, src := range srcs {
		wg.Go(func() {
			batches[i], errs[i] = withTimeout(ctx, e.timeout, func(c context.Context) ([]calendar.Event, error) {
				return src.fetch(c, start, end)
			})
		})
	}
	wg.Wait()

	answered := 0
	for i, err := range errs {
		if err != nil {
			failures = append(failures, sourceFailure{name: srcs[i].name, err: err})
			batches[i] = nil
			continue
		}
		answered++
	}
	if answered == 0 && len(failures) > 0 {
		return nil, failures, false
	}
	return calendar.Within(calendar.Merge(batches...), start, end), failures, true
}

func failureNote(failures []sourceFailure) string {
	if len(failures) == 0 {
		return ""
	}
	names := make([]string, 0, len(failures))
	for _, f := range failures {
		names = append(names, f.name)
	}
	return "\n(Unavailable sources: " + strings.Join(names, ", ") + ")"
}

func failureError(failures []sourceFailure) Result {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.name, f.err))
	}
	return Fail("Calendar error: %s", strings.Join(parts, "; "))
}

func (e *Executor) getCalendar(ctx context.Context, params Params) Result {
	if !e.hasCalendarSources() {
		return Fail("No calendar sources connected")
	}

	r := e.resolver.Resolve(params.String("date", "today"))
	start, end, isRange := r.Start, r.Last(), r.IsRange()
	if endToken := params.String("end_date", ""); endToken != "" {
		end = e.resolver.Resolve(endToken).Last()
		if end.Before(start) {
			end = dateref.EndOfDay(start)
		}
		isRange = true
	}

	events, failures, ok := e.collect(ctx, start, end)
	if !ok {
		return failureError(failures)
	}
	note := failureNote(failures)

	if len(events) == 0 {
		if isRange {
			return OK(fmt.Sprintf("No events found from %s to %s. You are free!", start.Format("Jan 02"), end.Format("Jan 02")) + note)
		}
		return OK(fmt.Sprintf("No events found for %s. You are free that day.", start.Format("Monday, January 02")) + note)
	}

	var lines []string
	if isRange {
		lines = append(lines, fmt.Sprintf("Events from %s to %s:", start.Format("Jan 02"), end.Format("Jan 02")))
		current := ""
		for _, ev := range events {
			day := ev.Start.Format("Monday, Jan 02")
			if day != current {
				lines = append(lines, "\n"+day+":")
				current = day
			}
			lines = append(lines, "  - "+ev.Line())
		}
	} else {
		lines = append(lines, fmt.Sprintf("Events for %s:", start.Format("Monday, January 02, 2006")))
		for _, ev := range events {
			lines = append(lines, "  - "+ev.Line())
		}
	}
	return OK(strings.Join(lines, "\n") + note)
}

func (e *Executor) getNextEvent(ctx context.Context, _ Params) Result {
	if e.calendar == nil || !e.calendar.IsAuthenticated() {
		return Fail("Calendar not connected")
	}
	now := e.clock.Now()
	events, err := withTimeout(ctx, e.timeout, func(c context.Context) ([]calendar.Event, error) {
		return e.calendar.Events(c, now, now.Add(24*time.Hour), primaryCalendar)
	})
	if err != nil {
		return Fail("Calendar error: %v", err)
	}

	var next *calendar.Event
	for _, ev := range calendar.SortByStart(events) {
		if ev.Start.After(now) {
			next = &ev
			break
		}
	}
	if next == nil {
		return OK("No upcoming events in the next 24 hours.")
	}

	until := next.Start.Sub(now)
	hours := int(until.Hours())
	mins := int(until.Minutes()) % 60
	when := fmt.Sprintf("%d minutes", mins)
	if hours > 0 {
		when = fmt.Sprintf("%d hours and %d minutes", hours, mins)
	}
	return OK(fmt.Sprintf("Next event: '%s' in %s (%s)", next.Title, when, next.TimeRange()))
}

type hourWindow struct {
	start, end int
}

var timeOfDayWindows = map[string]hourWindow{
	"morning":   {6, 12},
	"afternoon": {12, 17},
	"evening":   {17, 21},
	"night":     {21, 24},
	"all_day":   {0, 24},
}

// bucketWindow returns [day+start:00, day+(end-1):59:59.999].
func bucketWindow(day time.Time, w hourWindow) (time.Time, time.Time) {
	y, m, d := day.Date()
	loc := day.Location()
	return time.Date(y, m, d, w.start, 0, 0, 0, loc),
		time.Date(y, m, d, w.end-1, 59, 59, int(999*time.Millisecond), loc)
}

func (e *Executor) checkAvailability(ctx context.Context, params Params) Result {
	if !e.hasCalendarSources() {
		return Fail("No calendar sources connected")
	}

	r := e.resolver.Resolve(params.String("date", "today"))
	tod := strings.ToLower(params.String("time_of_day", "all_day"))
	window, known := timeOfDayWindows[tod]
	if !known {
		tod, window = "all_day", timeOfDayWindows["all_day"]
	}

	firstDay, lastDay := r.Start, dateref.StartOfDay(r.Last())
	queryStart, _ := bucketWindow(firstDay, window)
	_, queryEnd := bucketWindow(lastDay, window)

	events, failures, ok := e.collect(ctx, queryStart, queryEnd)
	if !ok {
		return failureError(failures)
	}
	note := failureNote(failures)

	var busy []calendar.Event
	for _, ev := range events {
		if tod != "all_day" && ev.AllDay {
			continue
		}
		for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
			ws, we := bucketWindow(day, window)
			if ev.Overlaps(ws, we) {
				busy = append(busy, ev)
				break
			}
		}
	}

	display := firstDay.Format("Monday, January 02")
	if r.IsRange() {
		display = firstDay.Format("Jan 02") + " to " + lastDay.Format("Jan 02")
	}

	if len(busy) == 0 {
		if tod == "all_day" {
			return OK(fmt.Sprintf("You are FREE on %s. No events scheduled.", display) + note)
		}
		return OK(fmt.Sprintf("You are FREE on %s %s. No events during that time.", display, tod) + note)
	}

	lines := []string{fmt.Sprintf("You have %d event(s) on %s:", len(busy), display)}
	for _, ev := range busy {
		if r.IsRange() {
			lines = append(lines, "  - "+ev.Start.Format("Monday, Jan 02")+", "+ev.Line())
			continue
		}
		lines = append(lines, "  - "+ev.Line())
	}
	return OK(strings.Join(lines, "\n") + note)
}
