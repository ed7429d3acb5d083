package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Srimaan215/Roku-AI/internal/logging"
)

// Production endpoints for the keyless backend.
const (
	NominatimURL = "https://nominatim.openstreetmap.org"
	OpenMeteoURL = "https://api.open-meteo.com"
)

// nominatimResponse defines the fields we need from OpenStreetMap.
type nominatimResponse struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// openMeteoResponse defines the fields we need from Open-Meteo.
type openMeteoResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Time                string  `json:"time"`
		Temperature         float64 `json:"temperature_2m"`
		RelativeHumidity    int     `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		WindSpeed10M        float64 `json:"wind_speed_10m"`
		WeatherCode         int     `json:"weather_code"`
		IsDay               int     `json:"is_day"`
	} `json:"current"`
}

// OpenMeteo geocodes through Nominatim and reads the Open-Meteo forecast.
// It needs no API key.
type OpenMeteo struct {
	geocodeURL  string
	forecastURL string
	defaultCity string
	userAgent   string
	client      *http.Client
	// Nominatim's usage policy allows one request per second.
	geocodeLimit *rate.Limiter
}

// NewOpenMeteo returns the keyless backend. Empty URLs use production.
func NewOpenMeteo(geocodeURL, forecastURL, defaultCity string) *OpenMeteo {
	if geocodeURL == "" {
		geocodeURL = NominatimURL
	}
	if forecastURL == "" {
		forecastURL = OpenMeteoURL
	}
	if defaultCity == "" {
		defaultCity = DefaultCity
	}
	return &OpenMeteo{
		geocodeURL:   strings.TrimRight(geocodeURL, "/"),
		forecastURL:  strings.TrimRight(forecastURL, "/"),
		defaultCity:  defaultCity,
		userAgent:    "roku-assistant/1.0",
		client:       &http.Client{Timeout: 10 * time.Second},
		geocodeLimit: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (o *OpenMeteo) Name() string { return "openmeteo" }

func (o *OpenMeteo) IsConfigured() bool { return true }

func (o *OpenMeteo) Current(ctx context.Context, city string) (*Conditions, error) {
	if strings.TrimSpace(city) == "" {
		city = o.defaultCity
	}
	lat, lon, err := o.geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,wind_speed_10m,weather_code,is_day")
	q.Set("timezone", "auto")
	q.Set("wind_speed_unit", "mph")
	q.Set("temperature_unit", "fahrenheit")

	var raw openMeteoResponse
	if err := o.getJSON(ctx, o.forecastURL+"/v1/forecast?"+q.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("openmeteo: weather request failed: %w", err)
	}
	return &Conditions{
		City:        city,
		Description: describeWMO(raw.Current.WeatherCode),
		Temperature: raw.Current.Temperature,
		FeelsLike:   raw.Current.ApparentTemperature,
		Humidity:    raw.Current.RelativeHumidity,
		WindSpeed:   raw.Current.WindSpeed10M,
	}, nil
}

func (o *OpenMeteo) geocode(ctx context.Context, city string) (float64, float64, error) {
	if strings.EqualFold(strings.TrimSpace(city), DefaultCity) {
		return DefaultLat, DefaultLon, nil
	}
	if err := o.geocodeLimit.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("openmeteo: geocoding rate limit: %w", err)
	}
	geoURL := fmt.Sprintf("%s/search?q=%s&format=jsonv2&limit=1", o.geocodeURL, url.QueryEscape(city))

	var hits []nominatimResponse
	if err := o.getJSON(ctx, geoURL, &hits); err != nil {
		return 0, 0, fmt.Errorf("openmeteo: geocoding request failed: %w", err)
	}
	if len(hits) == 0 {
		return 0, 0, fmt.Errorf("openmeteo: location not found: '%s'", city)
	}
	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("openmeteo: bad latitude %q: %w", hits[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("openmeteo: bad longitude %q: %w", hits[0].Lon, err)
	}
	return lat, lon, nil
}

func (o *OpenMeteo) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", o.userAgent)
	logging.LogRequest("ROKU->WEATHER", req.URL.Host, o.Name(), "", req.URL.Path)

	resp, err := o.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service returned status: %s", resp.Status)
	}
	return json.Unmarshal(body, out)
}

// describeWMO maps WMO weather interpretation codes to words.
func describeWMO(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code == 1:
		return "Mainly clear"
	case code == 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast clouds"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code >= 95:
		return "Thunderstorm with rain"
	default:
		return "Unknown conditions"
	}
}
