// Package chat runs interactive sessions: the full-screen interface by
// default, or a line-oriented REPL for plain terminals.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

// Asker answers one question.
type Asker interface {
	Ask(ctx context.Context, query string) (string, error)
}

// LineReader is the subset of *readline.Instance the REPL uses.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Options select the interface.
type Options struct {
	Plain bool
	// HistoryFile keeps REPL input across sessions. Empty disables it.
	HistoryFile string
	ShowTimings bool
	// Stats, when set, answers the /stats command.
	Stats func(io.Writer)
}

// Run starts the TUI, or the REPL when opts.Plain is set.
func Run(
	ctx context.Context,
	opts Options,
	startGUI func(context.Context) error,
	startREPL func(context.Context) error,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.Plain {
		return startREPL(ctx)
	}
	return startGUI(ctx)
}

// REPL reads questions from the terminal until the user exits.
func REPL(ctx context.Context, asker Asker, out io.Writer, opts Options) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          color.CyanString("You: "),
		HistoryFile:     opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	return Loop(ctx, asker, rl, out, opts)
}

// Loop drives the REPL over any LineReader. It closes lr on return.
func Loop(ctx context.Context, asker Asker, lr LineReader, out io.Writer, opts Options) error {
	defer lr.Close()

	name := color.New(color.FgMagenta, color.Bold)
	errColor := color.New(color.FgRed)
	meta := color.New(color.FgHiBlack)

	fmt.Fprintln(out, "Roku is ready. Type 'exit' to quit.")
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := lr.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if strings.TrimSpace(line) == "" {
					break
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		query := strings.TrimSpace(line)
		switch strings.ToLower(query) {
		case "":
			continue
		case "exit", "quit", "q":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "/stats":
			if opts.Stats == nil {
				meta.Fprintln(out, "Metrics are disabled. Start with --metrics to record them.")
			} else {
				opts.Stats(out)
			}
			continue
		}

		started := time.Now()
		answer, err := asker.Ask(ctx, query)
		if err != nil {
			errColor.Fprintf(out, "Error: %v\n", err)
			continue
		}
		name.Fprint(out, "Roku: ")
		fmt.Fprintln(out, answer)
		if opts.ShowTimings {
			meta.Fprintf(out, "  >>> [%.1fs]\n", time.Since(started).Seconds())
		}
	}
	fmt.Fprintln(out, "Goodbye!")
	return nil
}
