package executor

import (
	"context"
	"time"

	"github.com/Srimaan215/Roku-AI/internal/calendar"
	"github.com/Srimaan215/Roku-AI/internal/integrations/profile"
	"github.com/Srimaan215/Roku-AI/internal/integrations/reminders"
	"github.com/Srimaan215/Roku-AI/internal/integrations/weather"
)

// CalendarService is the primary calendar account.
type CalendarService interface {
	IsAuthenticated() bool
	ListCalendars(ctx context.Context) ([]string, error)
	Events(ctx context.Context, start, end time.Time, calendarID string) ([]calendar.Event, error)
}

// FeedSource serves subscribed ICS feeds. An empty feed name means all.
type FeedSource interface {
	Feeds() []string
	Events(ctx context.Context, start, end time.Time, feed string) ([]calendar.Event, error)
}

// WeatherService is any current-conditions backend.
type WeatherService = weather.Provider

// ReminderStore holds to-do items.
type ReminderStore interface {
	List(ctx context.Context, list string, includeCompleted bool) ([]reminders.Reminder, error)
	DueSoon(ctx context.Context, within time.Duration) ([]reminders.Reminder, error)
	Overdue(ctx context.Context) ([]reminders.Reminder, error)
	Create(ctx context.Context, r reminders.Reminder) (reminders.Reminder, error)
}

// ProfileStore is the static user profile.
type ProfileStore interface {
	Username() string
	Categories() []string
	Category(name string) (profile.Category, bool)
}

// Pinger is implemented by providers that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Recorder receives one observation per executed call.
type Recorder interface {
	RecordTool(name string, success bool, elapsed time.Duration)
}
