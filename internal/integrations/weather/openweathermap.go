package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Srimaan215/Roku-AI/internal/logging"
)

// OpenWeatherMapURL is the production API base.
const OpenWeatherMapURL = "https://api.openweathermap.org/data/2.5"

type owmResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// OpenWeatherMap queries the keyed /weather endpoint in imperial units.
type OpenWeatherMap struct {
	baseURL     string
	apiKey      string
	defaultCity string
	client      *http.Client
}

// NewOpenWeatherMap returns a backend for apiKey. An empty baseURL uses the
// production API.
func NewOpenWeatherMap(baseURL, apiKey, defaultCity string) *OpenWeatherMap {
	if baseURL == "" {
		baseURL = OpenWeatherMapURL
	}
	if defaultCity == "" {
		defaultCity = DefaultCity
	}
	return &OpenWeatherMap{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      strings.TrimSpace(apiKey),
		defaultCity: defaultCity,
		client:      &http.Client{Timeout: 5 * time.Second},
	}
}

func (o *OpenWeatherMap) Name() string { return "openweathermap" }

func (o *OpenWeatherMap) IsConfigured() bool {
	return o.apiKey != ""
}

func (o *OpenWeatherMap) Current(ctx context.Context, city string) (*Conditions, error) {
	if !o.IsConfigured() {
		return nil, fmt.Errorf("openweathermap: api key not set")
	}
	if strings.TrimSpace(city) == "" {
		city = o.defaultCity
	}
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", o.apiKey)
	q.Set("units", "imperial")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("openweathermap: build request: %w", err)
	}
	logging.LogRequest("ROKU->WEATHER", o.baseURL, o.Name(), "", city)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openweathermap: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openweathermap: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openweathermap: /weather returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var raw owmResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("openweathermap: decode response: %w", err)
	}
	c := &Conditions{
		City:        raw.Name,
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
	}
	if c.City == "" {
		c.City = city
	}
	if len(raw.Weather) > 0 {
		c.Description = capitalize(raw.Weather[0].Description)
		c.Icon = raw.Weather[0].Icon
	}
	return c, nil
}
