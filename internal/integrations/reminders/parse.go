package reminders

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
}

var monthDayLayouts = []string{"January 2", "Jan 2", "1/2", "1-2"}

// ParseDue turns a date phrase and optional time phrase into a due time in
// now's location. Times default to 9:00 AM. Month/day dates already past
// this year roll into next year. The second result is false when the date
// phrase is not understood.
func ParseDue(date, clock string, now time.Time) (time.Time, bool) {
	hour, minute := parseClock(clock)
	loc := now.Location()
	today := dayOf(now)

	phrase := strings.Join(strings.Fields(strings.ToLower(date)), " ")
	var target time.Time
	switch phrase {
	case "today", "now":
		target = today
	case "tomorrow":
		target = today.AddDate(0, 0, 1)
	default:
		if wd, ok := weekdayNames[phrase]; ok {
			ahead := (int(wd) - int(today.Weekday()) + 7) % 7
			if ahead == 0 {
				ahead = 7
			}
			target = today.AddDate(0, 0, ahead)
			break
		}
		if iso, err := time.ParseInLocation("2006-01-02", phrase, loc); err == nil {
			target = iso
			break
		}
		parsed, ok := parseMonthDay(phrase)
		if !ok {
			return time.Time{}, false
		}
		target = time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc)
		if target.Before(today) {
			target = target.AddDate(1, 0, 0)
		}
	}
	return time.Date(target.Year(), target.Month(), target.Day(), hour, minute, 0, 0, loc), true
}

func parseMonthDay(phrase string) (time.Time, bool) {
	for _, layout := range monthDayLayouts {
		if t, err := time.Parse(layout, phrase); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseClock reads "3pm", "10:30am" or "14:00". Anything else is 9:00.
func parseClock(clock string) (int, int) {
	m := clockPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(clock)))
	if m == nil {
		return 9, 0
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch {
	case m[3] == "pm" && hour < 12:
		hour += 12
	case m[3] == "am" && hour == 12:
		hour = 0
	}
	if hour > 23 || minute > 59 {
		return 9, 0
	}
	return hour, minute
}
