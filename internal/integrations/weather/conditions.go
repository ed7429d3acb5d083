// Package weather fetches current conditions from OpenWeatherMap or
// Open-Meteo and phrases them for the model.
package weather

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Conditions are current weather readings in imperial units.
type Conditions struct {
	City        string
	Description string
	Temperature float64
	FeelsLike   float64
	Humidity    int
	WindSpeed   float64
	Icon        string
}

// FormatContext renders the one-line summary injected into the prompt.
func (c Conditions) FormatContext() string {
	return fmt.Sprintf("Current weather in %s: %s, %.0f°F (feels like %.0f°F), humidity %d%%, wind %.0f mph.",
		c.City, c.Description, round(c.Temperature), round(c.FeelsLike), c.Humidity, round(c.WindSpeed))
}

// round avoids printing "-0".
func round(v float64) float64 {
	r := math.Round(v)
	if r == 0 {
		return 0
	}
	return r
}

// Suggestions derives activity guidance from temperature bands and
// condition keywords. It returns "" when nothing applies.
func (c Conditions) Suggestions() string {
	var out []string
	switch t := c.Temperature; {
	case t < 32:
		out = append(out, "It's freezing - dress warmly if going outside.")
	case t < 50:
		out = append(out, "It's cold - a jacket is recommended.")
	case t > 85:
		out = append(out, "It's hot - stay hydrated and seek shade.")
	case t >= 65 && t <= 80:
		out = append(out, "Great weather for outdoor activities!")
	}

	desc := strings.ToLower(c.Description)
	switch {
	case strings.Contains(desc, "rain"), strings.Contains(desc, "drizzle"), strings.Contains(desc, "shower"):
		out = append(out, "Rain expected - bring an umbrella.")
	case strings.Contains(desc, "snow"):
		out = append(out, "Snow expected - be careful on roads.")
	case strings.Contains(desc, "clear"), strings.Contains(desc, "sunny"):
		out = append(out, "Clear skies - good visibility.")
	case strings.Contains(desc, "cloud"), strings.Contains(desc, "overcast"):
		out = append(out, "Overcast conditions.")
	}
	return strings.Join(out, " ")
}

// Provider is a current-conditions backend.
type Provider interface {
	// IsConfigured reports whether the backend has what it needs (an API
	// key for keyed services) to answer.
	IsConfigured() bool
	// Current returns conditions for city, or the default city when empty.
	Current(ctx context.Context, city string) (*Conditions, error)
	// Name identifies the backend in status output.
	Name() string
}

// Default home location.
const (
	DefaultCity = "Amherst, MA"
	DefaultLat  = 42.3732
	DefaultLon  = -72.5199
)

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
