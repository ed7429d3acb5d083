// Package gcal adapts the Google Calendar API to the assistant's event
// model.
package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/Srimaan215/Roku-AI/internal/calendar"
	"github.com/Srimaan215/Roku-AI/internal/logging"
)

// ErrNotAuthenticated is returned when no usable OAuth token is present.
var ErrNotAuthenticated = errors.New("google calendar not authenticated")

// PrimaryID is the calendar id Google resolves to the user's own calendar.
const PrimaryID = "primary"

const defaultMaxResults = 20

// Client queries Google Calendar.
type Client struct {
	svc        *gcalendar.Service
	loc        *time.Location
	maxResults int64
}

// NewWithService wraps an already configured service.
func NewWithService(svc *gcalendar.Service, loc *time.Location) *Client {
	if loc == nil {
		loc = time.Local
	}
	return &Client{svc: svc, loc: loc, maxResults: defaultMaxResults}
}

// NewFromFiles builds a client from an OAuth client secret file and a
// saved token file. A missing token yields ErrNotAuthenticated.
func NewFromFiles(ctx context.Context, credentialsFile, tokenFile string, loc *time.Location) (*Client, error) {
	cfg, err := oauthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}
	tok, err := loadToken(tokenFile)
	if err != nil {
		return nil, err
	}
	return newFromToken(ctx, cfg, tok, loc)
}

func newFromToken(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, loc *time.Location) (*Client, error) {
	svc, err := gcalendar.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("gcal: create service: %w", err)
	}
	return NewWithService(svc, loc), nil
}

// NewHTTP builds a client against endpoint using httpClient as is. It
// exists for emulators and tests.
func NewHTTP(ctx context.Context, endpoint string, httpClient *http.Client, loc *time.Location) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := gcalendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcal: create service: %w", err)
	}
	return NewWithService(svc, loc), nil
}

// IsAuthenticated reports whether the client holds a service handle.
func (c *Client) IsAuthenticated() bool {
	return c != nil && c.svc != nil
}

// ListCalendars returns the ids of every calendar on the user's list,
// primary first.
func (c *Client) ListCalendars(ctx context.Context) ([]string, error) {
	if !c.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	list, err := c.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gcal: list calendars: %w", err)
	}
	ids := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		if item.Primary {
			ids = append([]string{item.Id}, ids...)
			continue
		}
		ids = append(ids, item.Id)
	}
	return ids, nil
}

// Events returns single (expanded) events in calendarID between start and
// end ordered by start time.
func (c *Client) Events(ctx context.Context, start, end time.Time, calendarID string) ([]calendar.Event, error) {
	if !c.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if calendarID == "" {
		calendarID = PrimaryID
	}
	logging.LogRequest("ROKU->GCAL", "googleapis", calendarID, "", fmt.Sprintf("%s..%s", start.Format(time.RFC3339), end.Format(time.RFC3339)))
	resp, err := c.svc.Events.List(calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(c.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("gcal: list events for %s: %w", calendarID, err)
	}
	out := make([]calendar.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev, ok := c.convert(item, calendarID)
		if ok {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (c *Client) convert(item *gcalendar.Event, source string) (calendar.Event, bool) {
	if item == nil || item.Start == nil || item.Status == "cancelled" {
		return calendar.Event{}, false
	}
	start, allDay, ok := c.parseWhen(item.Start)
	if !ok {
		return calendar.Event{}, false
	}
	end := start
	if item.End != nil {
		if t, _, ok := c.parseWhen(item.End); ok {
			end = t
		}
	}
	title := strings.TrimSpace(item.Summary)
	if title == "" {
		title = "Untitled"
	}
	return calendar.Event{
		Title:    title,
		Start:    start,
		End:      end,
		AllDay:   allDay,
		Location: item.Location,
		Source:   source,
	}, true
}

func (c *Client) parseWhen(w *gcalendar.EventDateTime) (time.Time, bool, bool) {
	if w.DateTime != "" {
		t, err := time.Parse(time.RFC3339, w.DateTime)
		if err != nil {
			return time.Time{}, false, false
		}
		return t.In(c.loc), false, true
	}
	if w.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", w.Date, c.loc)
		if err != nil {
			return time.Time{}, false, false
		}
		return t, true, true
	}
	return time.Time{}, false, false
}

func oauthConfig(credentialsFile string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("gcal: read credentials %q: %w", credentialsFile, err)
	}
	cfg, err := google.ConfigFromJSON(b, gcalendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("gcal: parse credentials: %w", err)
	}
	return cfg, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no token at %s", ErrNotAuthenticated, path)
		}
		return nil, fmt.Errorf("gcal: open token: %w", err)
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("gcal: decode token: %w", err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("gcal: save token: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tok)
}
