package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary. Secrets are masked.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	c := fallback
	if cfg != nil {
		c = *cfg
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", c.Debug)
	fmt.Fprintf(out, "  Metrics:         %v\n", c.Metrics)
	fmt.Fprintf(out, "  Log File:        %s\n", c.LogFilePath())
	fmt.Fprintf(out, "  Timezone:        %s\n", c.Location())
	fmt.Fprintf(out, "  Max Tool Calls:  %d\n", c.MaxToolCalls())
	fmt.Fprintf(out, "  Request Timeout: %s\n", c.RequestTimeout())
	fmt.Fprintf(out, "  Provider Timeout: %s\n", c.ProviderTimeout())

	fmt.Fprintln(out, "\nModel:")
	fmt.Fprintf(out, "  Type:            %s\n", c.ModelType())
	fmt.Fprintf(out, "  URL:             %s\n", c.ModelURL())
	fmt.Fprintf(out, "  Name:            %s\n", c.ModelName())
	fmt.Fprintf(out, "  API Key:         %s\n", mask(c.Model.APIKey))
	fmt.Fprintf(out, "  Max Tokens:      %d\n", c.MaxTokens())
	fmt.Fprintf(out, "  Temperature:     %.2f\n", c.Temperature())
	fmt.Fprintf(out, "  Stop:            %q\n", c.StopSequences())
	if fb, ok := c.FallbackConfig(); ok {
		fmt.Fprintf(out, "  Fallback:        %s/%s\n", fb.ModelType(), fb.ModelName())
	}

	fmt.Fprintln(out, "\nProviders:")
	fmt.Fprintf(out, "  Profile:         %s (%s)\n", c.ProfilePath(), c.Username())
	fmt.Fprintf(out, "  Calendar:        %v\n", c.Calendar.Enabled)
	if c.Calendar.Enabled {
		fmt.Fprintf(out, "    Credentials:   %s\n", c.Calendar.CredentialsFile)
		fmt.Fprintf(out, "    Token:         %s\n", c.Calendar.TokenFile)
	}
	fmt.Fprintf(out, "  ICS Feeds:       %d (cache %s)\n", len(c.ICS.Feeds), c.CacheTTL())
	for _, f := range c.ICS.Feeds {
		fmt.Fprintf(out, "    %s\n", f.Name)
	}
	fmt.Fprintf(out, "  Weather:         %v (%s)\n", c.Weather.Enabled, c.WeatherBackend())
	if c.Weather.Enabled {
		fmt.Fprintf(out, "    City:          %s\n", c.Weather.City)
		fmt.Fprintf(out, "    API Key:       %s\n", mask(c.Weather.APIKey))
	}
	fmt.Fprintf(out, "  Reminders:       %v\n", c.Reminders.Enabled)
	if c.Reminders.Enabled {
		fmt.Fprintf(out, "    Database:      %s\n", c.ReminderDatabase())
		fmt.Fprintf(out, "    List:          %s\n", c.ReminderList())
	}
}

func mask(secret string) string {
	secret = strings.TrimSpace(secret)
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) <= 4:
		return "****"
	default:
		return "****" + secret[len(secret)-4:]
	}
}
