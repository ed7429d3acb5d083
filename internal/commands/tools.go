package roku

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Srimaan215/Roku-AI/internal/catalog"
	"github.com/Srimaan215/Roku-AI/internal/executor"
	"github.com/Srimaan215/Roku-AI/internal/metrics"
)

var toolsStats bool

// toolsCmd implements 'tools', the diagnostic listing of every tool the
// model is offered and the state of each provider behind them.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List tools and provider status",
	Long:  `The 'tools' command lists the tools offered to the model with their parameters, then reports whether the model backend and each provider are reachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openAssistant(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		printTools(out, a.Agent().Tools())
		fmt.Fprintln(out)
		printStatus(out, a.Status(cmd.Context()))
		fmt.Fprintf(out, "\nMax tool calls per question: %d\n", a.Agent().MaxToolCalls())

		if toolsStats {
			fmt.Fprintln(out)
			printMetrics(out, metrics.GetInstance().Snapshot())
		}
		return nil
	},
}

func printTools(out io.Writer, tools []catalog.Tool) {
	nodeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	paramStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	fmt.Fprintln(out, nodeStyle.Render(fmt.Sprintf("Tools (%d):", len(tools))))
	for _, t := range tools {
		fmt.Fprintf(out, "  %s  %s\n", nameStyle.Render(t.Name), t.Description)
		for _, p := range t.Parameters {
			req := ""
			if p.Required {
				req = ", required"
			}
			line := fmt.Sprintf("      %s (%s%s)", p.Name, p.Type, req)
			if len(p.Enum) > 0 {
				line += " one of " + strings.Join(p.Enum, "|")
			}
			fmt.Fprintln(out, paramStyle.Render(line))
		}
	}
}

func printStatus(out io.Writer, status []executor.ProviderStatus) {
	nodeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	onStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	offStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	fmt.Fprintln(out, nodeStyle.Render("Providers:"))
	for _, s := range status {
		mark, style := "[off]", offStyle
		if s.Connected {
			mark, style = "[ok] ", onStyle
		}
		fmt.Fprintf(out, "  %s %-10s %s\n", style.Render(mark), s.Name, s.Detail)
	}
}

func printMetrics(out io.Writer, snap metrics.Snapshot) {
	nodeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)

	fmt.Fprintln(out, nodeStyle.Render("Model metrics:"))
	if len(snap.Models) == 0 {
		fmt.Fprintln(out, "  (none recorded)")
	}
	for _, m := range snap.Models {
		s := m.OverallStats
		fmt.Fprintf(out, "  %s: %d requests, %d failures, latency %.0fms avg (±%.0f), %.1f tok/s\n",
			m.ModelName, s.TotalRequests, s.Failures, s.LatencyMillis.Mean, s.LatencyMillis.StdDev(), s.TokensPerSecond.Mean)
	}

	fmt.Fprintln(out, nodeStyle.Render("Tool metrics:"))
	if len(snap.Tools) == 0 {
		fmt.Fprintln(out, "  (none recorded)")
	}
	for _, t := range snap.Tools {
		fmt.Fprintf(out, "  %s: %d calls, %d failures, latency %.0fms avg (max %.0fms)\n",
			t.Name, t.Calls, t.Failures, t.LatencyMillis.Mean, t.LatencyMillis.Max)
	}
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsStats, "stats", false, "include recorded model and tool metrics")
	rootCmd.AddCommand(toolsCmd)
}
