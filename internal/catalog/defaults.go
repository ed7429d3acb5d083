package catalog

// Names of the built-in tools.
const (
	GetCalendar       = "get_calendar"
	GetNextEvent      = "get_next_event"
	CheckAvailability = "check_availability"
	GetWeather        = "get_weather"
	GetCurrentTime    = "get_current_time"
	GetUserInfo       = "get_user_info"
	GetReminders      = "get_reminders"
	CreateReminder    = "create_reminder"
)

// TimesOfDay are the availability buckets advertised to the model.
var TimesOfDay = []string{"morning", "afternoon", "evening", "night", "all_day"}

// ProfileCategories are the profile sections advertised to the model.
var ProfileCategories = []string{"identity", "work", "goals", "schedule", "preferences", "location"}

// DefaultTools returns the built-in tool table in prompt order.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        GetCalendar,
			Description: "Get calendar events for a specific date or date range. Use this when the user asks about their schedule, events, classes, or meetings on a specific day.",
			Parameters: []Parameter{
				{Name: "date", Type: "string", Required: true, Description: "The date to check. Can be 'today', 'tomorrow', 'monday', 'tuesday', etc., 'this week', 'next week', or a specific date like '2026-02-03'."},
				{Name: "end_date", Type: "string", Description: "Optional end date for a range query. If not provided, only the single date is checked."},
			},
		},
		{
			Name:        GetNextEvent,
			Description: "Get the next upcoming calendar event. Use this when the user asks 'what's next' or 'what do I have coming up'.",
		},
		{
			Name:        CheckAvailability,
			Description: "Check if the user is free at a specific time or on a specific day. Use this when the user asks 'am I free tonight?', 'do I have anything on Saturday?', etc.",
			Parameters: []Parameter{
				{Name: "date", Type: "string", Required: true, Description: "The date to check availability for."},
				{Name: "time_of_day", Type: "string", Enum: TimesOfDay, Description: "Optional: specific time of day to check."},
			},
		},
		{
			Name:        GetWeather,
			Description: "Get current weather conditions. Use this when the user asks about weather, temperature, or if they should bring an umbrella/jacket.",
			Parameters: []Parameter{
				{Name: "city", Type: "string", Description: "Optional city name. Defaults to user's location if not provided."},
			},
		},
		{
			Name:        GetCurrentTime,
			Description: "Get the current date and time. Use this when the user asks about the time or date.",
		},
		{
			Name:        GetUserInfo,
			Description: "Get information about the user from their profile. Use this when answering questions about the user's work, goals, preferences, or personal details.",
			Parameters: []Parameter{
				{Name: "category", Type: "string", Required: true, Enum: ProfileCategories, Description: "The category of information to retrieve."},
			},
		},
		{
			Name:        GetReminders,
			Description: "Get the user's reminders and to-do items. Use this when the user asks what they need to do, what is due, or about their tasks.",
			Parameters: []Parameter{
				{Name: "due_soon", Type: "boolean", Description: "Only return reminders due in the next 24 hours."},
				{Name: "include_overdue", Type: "boolean", Description: "Include overdue reminders. Defaults to true."},
			},
		},
		{
			Name:        CreateReminder,
			Description: "Create a new reminder. Use this when the user asks to be reminded about something or to add a task.",
			Parameters: []Parameter{
				{Name: "name", Type: "string", Required: true, Description: "What to be reminded about."},
				{Name: "due_date", Type: "string", Description: "Optional due date: 'today', 'tomorrow', a weekday, or a date like 'March 14' or '3/14'."},
				{Name: "due_time", Type: "string", Description: "Optional due time like '3pm' or '15:30'. Defaults to 9:00 AM."},
				{Name: "notes", Type: "string", Description: "Optional extra notes."},
			},
		},
	}
}

// Default returns a catalog holding DefaultTools.
func Default() *Catalog {
	c := New()
	c.MustRegister(DefaultTools()...)
	return c
}
