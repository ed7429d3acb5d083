// Package ics reads calendar events from subscribed iCalendar feeds
// (Canvas, iCloud and similar) with a short per-URL cache.
package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"golang.org/x/sync/singleflight"

	"github.com/Srimaan215/Roku-AI/internal/calendar"
	"github.com/Srimaan215/Roku-AI/internal/clock"
	"github.com/Srimaan215/Roku-AI/internal/logging"
)

// DefaultCacheTTL bounds how long a fetched feed is reused.
const DefaultCacheTTL = 5 * time.Minute

// ErrUnknownFeed is returned when a feed name is not configured.
var ErrUnknownFeed = errors.New("unknown feed")

// Feed is a named subscription URL.
type Feed struct {
	Name string `json:"name" mapstructure:"name"`
	URL  string `json:"url" mapstructure:"url"`
}

var assignmentKeywords = []string{"assignment", "quiz", "lab", "homework", "hw", "due", "exam", "test", "midterm", "final"}

// IsAssignment reports whether an event title looks like coursework.
func IsAssignment(ev calendar.Event) bool {
	title := strings.ToLower(ev.Title)
	for _, kw := range assignmentKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// Client fetches and caches feeds.
type Client struct {
	feeds  []Feed
	http   *http.Client
	cache  *feedCache
	group  singleflight.Group
	loc    *time.Location
	clock  clock.Clock
	maxAge time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default 10 second client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithClock sets the clock used for cache expiry.
func WithClock(k clock.Clock) Option {
	return func(c *Client) {
		if k != nil {
			c.clock = k
		}
	}
}

// WithLocation sets the zone floating and date-only times are read in and
// every event is reported in.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithCacheTTL sets the cache lifetime. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.maxAge = ttl }
}

// New returns a client for feeds. Feeds without a URL are dropped.
func New(feeds []Feed, opts ...Option) *Client {
	c := &Client{
		http:   &http.Client{Timeout: 10 * time.Second},
		loc:    time.Local,
		clock:  clock.System{},
		maxAge: DefaultCacheTTL,
	}
	for _, f := range feeds {
		if strings.TrimSpace(f.URL) == "" {
			continue
		}
		if f.Name == "" {
			f.Name = f.URL
		}
		c.feeds = append(c.feeds, f)
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = newFeedCache(c.maxAge, c.clock, 32)
	return c
}

// Feeds returns the configured feed names in order.
func (c *Client) Feeds() []string {
	out := make([]string, 0, len(c.feeds))
	for _, f := range c.feeds {
		out = append(out, f.Name)
	}
	return out
}

// Events returns events overlapping [start, end] from the named feed, or
// from every feed when name is empty. With several feeds, a failure is
// only returned when every feed failed.
func (c *Client) Events(ctx context.Context, start, end time.Time, name string) ([]calendar.Event, error) {
	feeds := c.feeds
	if name != "" {
		f, ok := c.feed(name)
		if !ok {
			return nil, fmt.Errorf("ics: %w: %s", ErrUnknownFeed, name)
		}
		feeds = []Feed{f}
	}

	var (
		batches [][]calendar.Event
		errs    []error
	)
	for _, f := range feeds {
		events, err := c.load(ctx, f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		batches = append(batches, calendar.Within(events, start, end))
	}
	if len(errs) > 0 && len(batches) == 0 {
		return nil, errors.Join(errs...)
	}
	return calendar.Merge(batches...), nil
}

// Assignments returns coursework-looking events in [start, end].
func (c *Client) Assignments(ctx context.Context, start, end time.Time) ([]calendar.Event, error) {
	events, err := c.Events(ctx, start, end, "")
	if err != nil {
		return nil, err
	}
	out := events[:0]
	for _, ev := range events {
		if IsAssignment(ev) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Refresh drops the cached copy of every feed.
func (c *Client) Refresh() {
	for _, f := range c.feeds {
		c.cache.invalidate(f.URL)
	}
}

func (c *Client) feed(name string) (Feed, bool) {
	for _, f := range c.feeds {
		if f.Name == name {
			return f, true
		}
	}
	return Feed{}, false
}

// load returns the parsed feed, from cache when fresh. Concurrent misses
// for one URL share a single fetch.
func (c *Client) load(ctx context.Context, f Feed) ([]calendar.Event, error) {
	if events, ok := c.cache.get(f.URL); ok {
		return events, nil
	}
	v, err, _ := c.group.Do(f.URL, func() (any, error) {
		if events, ok := c.cache.get(f.URL); ok {
			return events, nil
		}
		events, err := c.fetch(ctx, f)
		if err != nil {
			return nil, err
		}
		c.cache.set(f.URL, events)
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]calendar.Event), nil
}

func (c *Client) fetch(ctx context.Context, f Feed) ([]calendar.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("ics: build request for %s: %w", f.Name, err)
	}
	logging.LogRequest("ROKU->ICS", req.URL.Host, f.Name, "", req.URL.Path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ics: fetch %s: %w", f.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ics: fetch %s returned %s: %s", f.Name, resp.Status, strings.TrimSpace(string(body)))
	}
	events, err := Parse(resp.Body, f.Name, c.loc)
	if err != nil {
		return nil, fmt.Errorf("ics: parse %s: %w", f.Name, err)
	}
	return events, nil
}

// Parse decodes an iCalendar document. Events without DTSTART are
// skipped; a missing DTEND means the event ends when it starts.
func Parse(r io.Reader, source string, loc *time.Location) ([]calendar.Event, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, err
	}
	var out []calendar.Event
	for _, ve := range cal.Events() {
		startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
		if startProp == nil {
			continue
		}
		start, allDay, err := decodeTime(startProp, loc)
		if err != nil {
			continue
		}
		end := start
		if endProp := ve.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
			if t, _, err := decodeTime(endProp, loc); err == nil {
				end = t
			}
		}
		title := "Untitled"
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil && strings.TrimSpace(p.Value) != "" {
			title = unescape(p.Value)
		}
		ev := calendar.Event{
			Title:  title,
			Start:  start,
			End:    end,
			AllDay: allDay,
			Source: source,
		}
		if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
			ev.Location = unescape(p.Value)
		}
		out = append(out, ev)
	}
	return out, nil
}

const (
	utcLayout      = "20060102T150405Z"
	floatingLayout = "20060102T150405"
	dateLayout     = "20060102"
)

// decodeTime reads a DATE or DATE-TIME property, honouring TZID. Results
// are converted to loc.
func decodeTime(p *ical.IANAProperty, loc *time.Location) (time.Time, bool, error) {
	val := strings.TrimSpace(p.Value)
	isDate := len(val) == len(dateLayout)
	if vals, ok := p.ICalParameters["VALUE"]; ok && len(vals) > 0 && strings.EqualFold(vals[0], "DATE") {
		isDate = true
	}
	if isDate {
		t, err := time.ParseInLocation(dateLayout, val, loc)
		return t, true, err
	}
	if strings.HasSuffix(val, "Z") {
		t, err := time.Parse(utcLayout, val)
		return t.In(loc), false, err
	}
	zone := loc
	if tzids, ok := p.ICalParameters["TZID"]; ok && len(tzids) > 0 {
		if l, err := time.LoadLocation(strings.Trim(tzids[0], `"`)); err == nil {
			zone = l
		}
	}
	t, err := time.ParseInLocation(floatingLayout, val, zone)
	return t.In(loc), false, err
}

var icalUnescaper = strings.NewReplacer(`\,`, ",", `\;`, ";", `\n`, " ", `\N`, " ", `\\`, `\`)

func unescape(s string) string {
	return strings.TrimSpace(icalUnescaper.Replace(s))
}
