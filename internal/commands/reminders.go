package roku

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Srimaan215/Roku-AI/internal/integrations/reminders"
)

var (
	remindersAll   bool
	remindersList  string
	reminderDue    string
	reminderAt     string
	reminderNotes  string
	remindersClock = time.Now
)

// remindersCmd groups subcommands that read and edit the reminder store
// without going through the model.
var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Manage reminders directly",
}

var remindersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openReminders(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		list := remindersList
		if list == "" {
			list = GetConfig().ReminderList()
		}
		items, err := store.List(cmd.Context(), list, remindersAll)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintf(out, "No reminders in %s.\n", list)
			return nil
		}
		now := remindersClock().In(GetConfig().Location())
		overdue := color.New(color.FgRed)
		done := color.New(color.FgHiBlack)
		fmt.Fprintf(out, "Reminders in %s:\n", list)
		for _, r := range items {
			line := fmt.Sprintf("  %s  %s (%s)", shortID(r.ID), r.Name, r.FormatDue(now))
			switch {
			case r.Completed:
				done.Fprintln(out, line+" done")
			case r.IsOverdue(now):
				overdue.Fprintln(out, line)
			default:
				fmt.Fprintln(out, line)
			}
		}
		return nil
	},
}

var remindersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a reminder",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openReminders(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		now := remindersClock().In(GetConfig().Location())
		date := reminderDue
		if date == "" && reminderAt != "" {
			date = "today"
		}
		r := reminders.Reminder{
			Name:  strings.Join(args, " "),
			Notes: reminderNotes,
			List:  GetConfig().ReminderList(),
		}
		if date != "" {
			due, ok := reminders.ParseDue(date, reminderAt, now)
			if !ok {
				return fmt.Errorf("could not understand due date %q", date)
			}
			r.Due = &due
		}

		created, err := store.Create(cmd.Context(), r)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s (%s)\n", shortID(created.ID), created.Name, created.FormatDue(now))
		return nil
	},
}

var remindersCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a reminder done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openReminders(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := resolveID(cmd.Context(), store, args[0])
		if err != nil {
			return err
		}
		if err := store.Complete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Completed %s\n", shortID(id))
		return nil
	},
}

func openReminders(ctx context.Context) (*reminders.Store, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, errors.New("configuration is not loaded")
	}
	if !cfg.Reminders.Enabled {
		return nil, errors.New("reminders are disabled in the configuration")
	}
	return reminders.Open(ctx, cfg.ReminderDatabase(), reminders.WithLocation(cfg.Location()))
}

// resolveID expands a unique id prefix, as printed by list, to the full id.
func resolveID(ctx context.Context, store *reminders.Store, prefix string) (string, error) {
	items, err := store.List(ctx, "", true)
	if err != nil {
		return "", err
	}
	var match string
	for _, r := range items {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", reminders.ErrNotFound, prefix)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	remindersListCmd.Flags().BoolVar(&remindersAll, "all", false, "include completed reminders")
	remindersListCmd.Flags().StringVar(&remindersList, "list", "", "list name (defaults to the configured list)")
	remindersAddCmd.Flags().StringVar(&reminderDue, "due", "", "due date: today, tomorrow, a weekday, 'March 14' or '3/14'")
	remindersAddCmd.Flags().StringVar(&reminderAt, "at", "", "due time like 3pm or 15:30")
	remindersAddCmd.Flags().StringVar(&reminderNotes, "notes", "", "extra notes")

	remindersCmd.AddCommand(remindersListCmd, remindersAddCmd, remindersCompleteCmd)
	rootCmd.AddCommand(remindersCmd)
}
