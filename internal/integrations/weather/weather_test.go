package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatContext(t *testing.T) {
	c := Conditions{City: "Amherst", Description: "Light rain", Temperature: 45.4, FeelsLike: 40.6, Humidity: 81, WindSpeed: 7.2}
	assert.Equal(t, "Current weather in Amherst: Light rain, 45°F (feels like 41°F), humidity 81%, wind 7 mph.", c.FormatContext())
}

func TestSuggestions(t *testing.T) {
	cases := []struct {
		temp float64
		desc string
		want string
	}{
		{20, "Snow", "It's freezing - dress warmly if going outside. Snow expected - be careful on roads."},
		{45, "Light rain", "It's cold - a jacket is recommended. Rain expected - bring an umbrella."},
		{90, "Clear sky", "It's hot - stay hydrated and seek shade. Clear skies - good visibility."},
		{70, "Overcast clouds", "Great weather for outdoor activities! Overcast conditions."},
		{60, "Fog", ""},
	}
	for _, tc := range cases {
		got := Conditions{Temperature: tc.temp, Description: tc.desc}.Suggestions()
		assert.Equal(t, tc.want, got, "temp=%v desc=%q", tc.temp, tc.desc)
	}
}

func TestOpenWeatherMapCurrent(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = map[string]string{
			"q":     r.URL.Query().Get("q"),
			"appid": r.URL.Query().Get("appid"),
			"units": r.URL.Query().Get("units"),
		}
		fmt.Fprint(w, `{"name":"Boston","main":{"temp":71.2,"feels_like":70.1,"humidity":40},"weather":[{"description":"clear sky","icon":"01d"}],"wind":{"speed":3.4}}`)
	}))
	defer srv.Close()

	owm := NewOpenWeatherMap(srv.URL, "k123", "")
	require.True(t, owm.IsConfigured())
	c, err := owm.Current(context.Background(), "Boston")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"q": "Boston", "appid": "k123", "units": "imperial"}, gotQuery)
	assert.Equal(t, "Boston", c.City)
	assert.Equal(t, "Clear sky", c.Description)
	assert.Equal(t, 40, c.Humidity)

	_, err = owm.Current(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCity, gotQuery["q"])
}

func TestOpenWeatherMapErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOpenWeatherMap(srv.URL, "k", "").Current(context.Background(), "Nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	unkeyed := NewOpenWeatherMap(srv.URL, " ", "")
	assert.False(t, unkeyed.IsConfigured())
	_, err = unkeyed.Current(context.Background(), "")
	assert.Error(t, err)
}

func TestOpenMeteoCurrent(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Paris", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, `[{"lat":"48.8566","lon":"2.3522","display_name":"Paris"}]`)
	}))
	defer geo.Close()
	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "48.8566", r.URL.Query().Get("latitude"))
		assert.Equal(t, "fahrenheit", r.URL.Query().Get("temperature_unit"))
		fmt.Fprint(w, `{"timezone":"Europe/Paris","current":{"temperature_2m":55.1,"relative_humidity_2m":70,"apparent_temperature":52.3,"wind_speed_10m":9.9,"weather_code":61,"is_day":1}}`)
	}))
	defer forecast.Close()

	om := NewOpenMeteo(geo.URL, forecast.URL, "")
	c, err := om.Current(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris", c.City)
	assert.Equal(t, "Rain", c.Description)
	assert.Equal(t, 70, c.Humidity)
	assert.Contains(t, c.Suggestions(), "umbrella")
}

func TestOpenMeteoLocationNotFound(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer geo.Close()

	_, err := NewOpenMeteo(geo.URL, geo.URL, "").Current(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location not found")
}
