package roku

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Srimaan215/Roku-AI/internal/agent"
	"github.com/Srimaan215/Roku-AI/internal/assistant"
)

var askTrace bool

// askCmd implements 'ask', which answers a single question and exits.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question",
	Long:  `The 'ask' command sends one question through the assistant, running any tools the model requests, and prints the answer.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var transcript agent.Transcript
		a, err := openAssistant(cmd.Context(), assistant.WithTranscript(func(t agent.Transcript) { transcript = t }))
		if err != nil {
			return err
		}
		defer a.Close()

		answer, err := a.Ask(cmd.Context(), strings.Join(args, " "))
		if askTrace {
			printTranscript(cmd.ErrOrStderr(), transcript)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

// printTranscript shows each round: the model output, the detected call
// and the tool result.
func printTranscript(out io.Writer, t agent.Transcript) {
	head := color.New(color.FgCyan, color.Bold)
	tool := color.New(color.FgYellow)
	fail := color.New(color.FgRed)

	head.Fprintf(out, "request %s\n", t.RequestID)
	for _, r := range t.Rounds {
		head.Fprintf(out, "round %d [%s] %.1fs\n", r.Index, r.State, r.Elapsed.Seconds())
		fmt.Fprintf(out, "  model: %s\n", ansi.Truncate(strings.TrimSpace(r.Output), 200, "…"))
		if r.Call != nil {
			tool.Fprintf(out, "  call:  %s\n", r.Call.JSON())
		}
		if r.Result != nil {
			c := tool
			if !r.Result.Success {
				c = fail
			}
			c.Fprintf(out, "  tool:  %s\n", ansi.Truncate(r.Result.Text(), 400, "…"))
		}
	}
}

func init() {
	askCmd.Flags().BoolVar(&askTrace, "trace", false, "print every round of the tool loop to stderr")
	rootCmd.AddCommand(askCmd)
}
