// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout bounds a single model generation.
	defaultRequestTimeout = 120 * time.Second
	// defaultProviderTimeout bounds a single calendar, weather or reminder call.
	defaultProviderTimeout = 10 * time.Second
	// defaultMaxToolCalls is the per-question tool budget.
	defaultMaxToolCalls = 3
	defaultCacheTTL     = 5 * time.Minute

	defaultModelType   = "ollama"
	defaultModelURL    = "http://localhost:11434"
	defaultModelName   = "llama3.2"
	defaultMaxTokens   = 300
	defaultTemperature = 0.7
	defaultStop        = "<|eot_id|>"

	defaultReminderList = "Task Master"
	defaultReminderDB   = "data/reminders.db"
	defaultProfilePath  = "config/profile.yaml"
	defaultUsername     = "user"
)

// Model types.
const (
	ModelOllama = "ollama"
	ModelOpenAI = "openai"
)

// Weather backends.
const (
	WeatherOpenWeatherMap = "openweathermap"
	WeatherOpenMeteo      = "openmeteo"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug         bool            `json:"debug" mapstructure:"debug"`
	LogFile       string          `json:"logFile,omitempty" mapstructure:"logFile"`
	Metrics       bool            `json:"metrics" mapstructure:"metrics"`
	ToolCallLimit int             `json:"maxToolCalls,omitempty" mapstructure:"maxToolCalls"`
	Timezone      string          `json:"timezone,omitempty" mapstructure:"timezone"`
	Timeouts      Timeouts        `json:"timeouts" mapstructure:"timeouts"`
	Model         ModelConfig     `json:"model" mapstructure:"model"`
	Profile       ProfileConfig   `json:"profile" mapstructure:"profile"`
	Calendar      CalendarConfig  `json:"calendar" mapstructure:"calendar"`
	ICS           ICSConfig       `json:"ics" mapstructure:"ics"`
	Weather       WeatherConfig   `json:"weather" mapstructure:"weather"`
	Reminders     RemindersConfig `json:"reminders" mapstructure:"reminders"`
	ConfigPath    string          `json:"-" mapstructure:"-"`
}

// Timeouts are in seconds.
type Timeouts struct {
	Request  int `json:"request,omitempty" mapstructure:"request"`
	Provider int `json:"provider,omitempty" mapstructure:"provider"`
}

// ModelConfig selects and tunes the language model backend.
type ModelConfig struct {
	Type        string   `json:"type" mapstructure:"type"`
	URL         string   `json:"url" mapstructure:"url"`
	Name        string   `json:"name" mapstructure:"name"`
	APIKey      string   `json:"apiKey,omitempty" mapstructure:"apiKey"`
	MaxTokens   int      `json:"maxTokens,omitempty" mapstructure:"maxTokens"`
	Temperature *float64 `json:"temperature,omitempty" mapstructure:"temperature"`
	Stop        []string `json:"stop,omitempty" mapstructure:"stop"`
	// Fallback is tried when this backend fails a generation.
	Fallback *ModelConfig `json:"fallback,omitempty" mapstructure:"fallback"`
}

// ProfileConfig locates the user profile document.
type ProfileConfig struct {
	Username string `json:"username" mapstructure:"username"`
	Path     string `json:"path" mapstructure:"path"`
}

// CalendarConfig holds the Google Calendar OAuth files.
type CalendarConfig struct {
	Enabled         bool   `json:"enabled" mapstructure:"enabled"`
	CredentialsFile string `json:"credentialsFile" mapstructure:"credentialsFile"`
	TokenFile       string `json:"tokenFile" mapstructure:"tokenFile"`
}

// Feed is one subscribed ICS calendar.
type Feed struct {
	Name string `json:"name" mapstructure:"name"`
	URL  string `json:"url" mapstructure:"url"`
}

// ICSConfig lists subscribed feeds. CacheTTL is in seconds.
type ICSConfig struct {
	Feeds    []Feed `json:"feeds" mapstructure:"feeds"`
	CacheTTL int    `json:"cacheTTL,omitempty" mapstructure:"cacheTTL"`
}

// WeatherConfig selects the weather backend.
type WeatherConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Backend    string `json:"backend" mapstructure:"backend"`
	APIKey     string `json:"apiKey,omitempty" mapstructure:"apiKey"`
	City       string `json:"city" mapstructure:"city"`
	BaseURL    string `json:"baseURL,omitempty" mapstructure:"baseURL"`
	GeocodeURL string `json:"geocodeURL,omitempty" mapstructure:"geocodeURL"`
}

// RemindersConfig points at the local reminders database.
type RemindersConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Database string `json:"database" mapstructure:"database"`
	List     string `json:"list" mapstructure:"list"`
}

// SetDefaults registers every default with v so flags, env and file
// values layer on top of a complete configuration.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("logFile", "roku.log")
	v.SetDefault("metrics", false)
	v.SetDefault("maxToolCalls", defaultMaxToolCalls)
	v.SetDefault("timezone", "")
	v.SetDefault("timeouts.request", int(defaultRequestTimeout.Seconds()))
	v.SetDefault("timeouts.provider", int(defaultProviderTimeout.Seconds()))

	v.SetDefault("model.type", defaultModelType)
	v.SetDefault("model.url", defaultModelURL)
	v.SetDefault("model.name", defaultModelName)
	v.SetDefault("model.maxTokens", defaultMaxTokens)
	v.SetDefault("model.temperature", defaultTemperature)
	v.SetDefault("model.stop", []string{defaultStop})

	v.SetDefault("profile.username", defaultUsername)
	v.SetDefault("profile.path", defaultProfilePath)

	v.SetDefault("calendar.enabled", false)
	v.SetDefault("calendar.credentialsFile", "config/credentials.json")
	v.SetDefault("calendar.tokenFile", "config/token.json")

	v.SetDefault("ics.cacheTTL", int(defaultCacheTTL.Seconds()))

	v.SetDefault("weather.enabled", true)
	v.SetDefault("weather.backend", WeatherOpenMeteo)

	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.database", defaultReminderDB)
	v.SetDefault("reminders.list", defaultReminderList)
}

// Validate rejects configurations no backend can serve.
func (c Config) Validate() error {
	if err := validModelType(c.Model.Type); err != nil {
		return err
	}
	if fb := c.Model.Fallback; fb != nil {
		if err := validModelType(fb.Type); err != nil {
			return fmt.Errorf("fallback model: %w", err)
		}
		if fb.Fallback != nil {
			return errors.New("fallback model cannot declare its own fallback")
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Weather.Backend)) {
	case "", WeatherOpenWeatherMap, WeatherOpenMeteo:
	default:
		return fmt.Errorf("unsupported weather backend %q", c.Weather.Backend)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
	}
	for i, f := range c.ICS.Feeds {
		if strings.TrimSpace(f.URL) == "" {
			return fmt.Errorf("ics feed %d (%q) has no url", i, f.Name)
		}
	}
	return nil
}

func validModelType(t string) error {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", ModelOllama, ModelOpenAI:
		return nil
	}
	return fmt.Errorf("unsupported model type %q (want %q or %q)", t, ModelOllama, ModelOpenAI)
}

// FallbackConfig returns a copy of c whose Model is the fallback backend,
// or false when none is configured.
func (c Config) FallbackConfig() (Config, bool) {
	if c.Model.Fallback == nil {
		return Config{}, false
	}
	alt := c
	alt.Model = *c.Model.Fallback
	alt.Model.Fallback = nil
	return alt, true
}

// RequestTimeout returns the timeout duration for model requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.Timeouts.Request <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.Timeouts.Request) * time.Second
}

// ProviderTimeout bounds each calendar, feed, weather and reminder call.
func (c Config) ProviderTimeout() time.Duration {
	if c.Timeouts.Provider <= 0 {
		return defaultProviderTimeout
	}
	return time.Duration(c.Timeouts.Provider) * time.Second
}

// MaxToolCalls returns the per-question tool budget.
func (c Config) MaxToolCalls() int {
	if c.ToolCallLimit <= 0 {
		return defaultMaxToolCalls
	}
	return c.ToolCallLimit
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "roku.log"
}

// Location resolves Timezone, falling back to the system zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ModelType is the lowercased backend type, defaulting to ollama.
func (c Config) ModelType() string {
	if t := strings.ToLower(strings.TrimSpace(c.Model.Type)); t != "" {
		return t
	}
	return defaultModelType
}

// ModelURL returns the model endpoint.
func (c Config) ModelURL() string {
	if u := strings.TrimSpace(c.Model.URL); u != "" {
		return u
	}
	if c.ModelType() == ModelOpenAI {
		return ""
	}
	return defaultModelURL
}

// ModelName returns the model identifier.
func (c Config) ModelName() string {
	if n := strings.TrimSpace(c.Model.Name); n != "" {
		return n
	}
	return defaultModelName
}

// MaxTokens caps generated tokens per round.
func (c Config) MaxTokens() int {
	if c.Model.MaxTokens <= 0 {
		return defaultMaxTokens
	}
	return c.Model.MaxTokens
}

// Temperature returns the sampling temperature. An explicit 0 is honored.
func (c Config) Temperature() float64 {
	if c.Model.Temperature == nil {
		return defaultTemperature
	}
	return *c.Model.Temperature
}

// StopSequences returns the generation stop list.
func (c Config) StopSequences() []string {
	if len(c.Model.Stop) == 0 {
		return []string{defaultStop}
	}
	return append([]string(nil), c.Model.Stop...)
}

// Username is the profile owner.
func (c Config) Username() string {
	if u := strings.TrimSpace(c.Profile.Username); u != "" {
		return u
	}
	return defaultUsername
}

// ProfilePath returns the profile document path.
func (c Config) ProfilePath() string {
	if p := strings.TrimSpace(c.Profile.Path); p != "" {
		return p
	}
	return defaultProfilePath
}

// CacheTTL is how long a fetched ICS feed stays fresh.
func (c Config) CacheTTL() time.Duration {
	if c.ICS.CacheTTL <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(c.ICS.CacheTTL) * time.Second
}

// ReminderList is the list every new reminder is filed into.
func (c Config) ReminderList() string {
	if l := strings.TrimSpace(c.Reminders.List); l != "" {
		return l
	}
	return defaultReminderList
}

// ReminderDatabase is the SQLite file path.
func (c Config) ReminderDatabase() string {
	if p := strings.TrimSpace(c.Reminders.Database); p != "" {
		return p
	}
	return defaultReminderDB
}

// WeatherBackend is the lowercased backend name, defaulting to Open-Meteo
// when no API key is configured.
func (c Config) WeatherBackend() string {
	if b := strings.ToLower(strings.TrimSpace(c.Weather.Backend)); b != "" {
		return b
	}
	if c.Weather.APIKey != "" {
		return WeatherOpenWeatherMap
	}
	return WeatherOpenMeteo
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if err := config.Validate(); err != nil {
			return Config{}, err
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				if err := config.Validate(); err != nil {
					return Config{}, err
				}
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// ResolvePath returns the config file to read for path. The default path
// falls back to the legacy location when only the latter exists.
func ResolvePath(path string) string {
	if path == "" {
		path = DefaultConfigPath
	}
	if _, err := os.Stat(path); err == nil || path != DefaultConfigPath {
		return path
	}
	if _, err := os.Stat(legacyConfigPath); err == nil {
		return legacyConfigPath
	}
	return path
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.Timeouts.Request <= 0 {
		config.Timeouts.Request = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
