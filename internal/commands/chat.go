// internal/commands/chat.go
package roku

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Srimaan215/Roku-AI/internal/chat"
	"github.com/Srimaan215/Roku-AI/internal/metrics"
	"github.com/Srimaan215/Roku-AI/internal/tui"
)

var (
	// startGUI is a function alias to tui.Start for the full-screen chat.
	startGUI = tui.Start
	// startREPL is a function alias to chat.REPL for the line-oriented chat.
	startREPL = chat.REPL

	chatPlain bool
)

// chatCmd represents the 'chat' command, which starts an interactive chat session.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a chat session",
	Long:  `The 'chat' command starts an interactive session with the assistant. Use --plain for a line-based prompt instead of the full-screen interface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openAssistant(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := GetConfig()
		opts := chat.Options{
			Plain:       chatPlain,
			HistoryFile: filepath.Join(filepath.Dir(cfg.ReminderDatabase()), "chat_history"),
			ShowTimings: cfg.Debug,
		}
		if cfg.Metrics {
			opts.Stats = func(w io.Writer) { printMetrics(w, metrics.GetInstance().Snapshot()) }
		}
		return chat.Run(cmd.Context(), opts,
			func(ctx context.Context) error {
				return startGUI(ctx, a, tui.Options{
					Model:       a.Agent().ModelName(),
					User:        a.UserName(),
					Status:      a.Status(ctx),
					ShowTimings: cfg.Debug,
				})
			},
			func(ctx context.Context) error {
				return startREPL(ctx, a, cmd.OutOrStdout(), opts)
			},
		)
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "use a line-based prompt instead of the full-screen interface")
	rootCmd.AddCommand(chatCmd)
}
