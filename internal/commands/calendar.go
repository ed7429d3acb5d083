package roku

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Srimaan215/Roku-AI/internal/catalog"
	"github.com/Srimaan215/Roku-AI/internal/dateref"
	"github.com/Srimaan215/Roku-AI/internal/integrations/gcal"
	"github.com/Srimaan215/Roku-AI/internal/toolcall"
)

// calendarCmd groups calendar account and lookup subcommands.
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Calendar account and lookups",
}

var calendarAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Google Calendar access",
	Long:  `The 'auth' subcommand runs the OAuth consent flow using the configured credentials file and saves the resulting token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return errors.New("configuration is not loaded")
		}
		if err := gcal.Authorize(cmd.Context(), cfg.Calendar.CredentialsFile, cfg.Calendar.TokenFile, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nToken saved to %s\n", cfg.Calendar.TokenFile)
		return nil
	},
}

// calendarShowCmd runs the get_calendar tool directly, bypassing the model.
var calendarShowCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show events for a date or range (default today)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openAssistant(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		date := "today"
		if len(args) > 0 {
			date = strings.Join(args, " ")
		}
		res := a.Executor().Execute(cmd.Context(), toolcall.Call{
			Name:       catalog.GetCalendar,
			Parameters: map[string]any{"date": date},
		})
		if !res.Success {
			return errors.New(res.Error)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Text())
		return nil
	},
}

var (
	assignmentDays int
	// calendarClock supplies "now" for the assignments window.
	calendarClock = time.Now
)

// calendarAssignmentsCmd lists coursework-looking entries from the ICS feeds.
var calendarAssignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "List upcoming assignments from subscribed ICS feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		if assignmentDays <= 0 {
			return fmt.Errorf("--days must be positive, got %d", assignmentDays)
		}
		a, err := openAssistant(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		feeds := a.Feeds()
		if feeds == nil {
			return errors.New("no ICS feeds configured")
		}
		now := calendarClock().In(GetConfig().Location())
		start := dateref.StartOfDay(now)
		end := dateref.EndOfDay(start.AddDate(0, 0, assignmentDays-1))
		events, err := feeds.Assignments(cmd.Context(), start, end)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintf(out, "No assignments in the next %d days.\n", assignmentDays)
			return nil
		}
		fmt.Fprintf(out, "Assignments (next %d days):\n", assignmentDays)
		for _, ev := range events {
			fmt.Fprintf(out, "  %s  %s\n", ev.Start.Format("Mon Jan 02"), ev.Line())
		}
		return nil
	},
}

func init() {
	calendarAssignmentsCmd.Flags().IntVar(&assignmentDays, "days", 7, "number of days to look ahead, including today")
	calendarCmd.AddCommand(calendarAuthCmd, calendarShowCmd, calendarAssignmentsCmd)
	rootCmd.AddCommand(calendarCmd)
}
