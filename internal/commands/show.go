// internal/commands/show.go
package roku

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Srimaan215/Roku-AI/internal/appconfig"
)

var showDump bool

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
}

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags and environment variables accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			Debug:   viper.GetBool("debug"),
			Metrics: viper.GetBool("metrics"),
			LogFile: viper.GetString("logFile"),
		}
		out := cmd.OutOrStdout()
		appconfig.ShowConfig(out, viper.ConfigFileUsed(), GetConfig(), fallback)
		if showDump && GetConfig() != nil {
			pp.ColoringEnabled = false
			cfg := *GetConfig()
			cfg.Model.APIKey = maskSecret(cfg.Model.APIKey)
			cfg.Weather.APIKey = maskSecret(cfg.Weather.APIKey)
			pp.Fprintln(out, cfg)
		}
	},
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

func init() {
	showConfigCmd.Flags().BoolVar(&showDump, "dump", false, "also dump the full merged configuration struct")
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
