package chat

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

type scriptedReader struct {
	lines  []string
	errs   []error
	closed bool
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line, err := r.lines[0], r.errs[0]
	r.lines, r.errs = r.lines[1:], r.errs[1:]
	return line, err
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func reader(lines ...string) *scriptedReader {
	return &scriptedReader{lines: lines, errs: make([]error, len(lines))}
}

type echoAsker struct {
	queries []string
	err     error
}

func (a *echoAsker) Ask(_ context.Context, q string) (string, error) {
	a.queries = append(a.queries, q)
	if a.err != nil {
		return "", a.err
	}
	return "echo " + q, nil
}

func init() {
	color.NoColor = true
}

func TestRunPlainUsesREPL(t *testing.T) {
	calledGUI, calledREPL := 0, 0
	err := Run(context.Background(), Options{Plain: true},
		func(context.Context) error {
			calledGUI++
			return nil
		},
		func(ctx context.Context) error {
			if ctx == nil {
				t.Fatalf("expected context")
			}
			calledREPL++
			return nil
		},
	)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if calledREPL != 1 || calledGUI != 0 {
		t.Fatalf("expected REPL once and GUI never, got repl=%d gui=%d", calledREPL, calledGUI)
	}
}

func TestRunDefaultsToGUI(t *testing.T) {
	err := Run(context.Background(), Options{},
		func(context.Context) error { return errors.New("boom") },
		func(context.Context) error {
			t.Fatalf("REPL should not run")
			return nil
		},
	)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected GUI error to propagate, got %v", err)
	}
}

func TestLoopAnswersUntilExit(t *testing.T) {
	r := reader("  hello ", "", "what's up", "exit", "never read")
	asker := &echoAsker{}
	var out bytes.Buffer

	if err := Loop(context.Background(), asker, r, &out, Options{}); err != nil {
		t.Fatalf("Loop error: %v", err)
	}
	if len(asker.queries) != 2 || asker.queries[0] != "hello" {
		t.Fatalf("unexpected queries: %q", asker.queries)
	}
	got := out.String()
	if !strings.Contains(got, "Roku: echo hello\n") || !strings.Contains(got, "Roku: echo what's up\n") {
		t.Fatalf("unexpected output: %s", got)
	}
	if !strings.HasSuffix(got, "Goodbye!\n") {
		t.Fatalf("expected goodbye, got: %s", got)
	}
	if !r.closed {
		t.Fatalf("expected reader closed")
	}
}

func TestLoopReportsErrorsAndContinues(t *testing.T) {
	r := reader("one", "two")
	asker := &echoAsker{err: errors.New("model down")}
	var out bytes.Buffer

	if err := Loop(context.Background(), asker, r, &out, Options{}); err != nil {
		t.Fatalf("Loop error: %v", err)
	}
	if len(asker.queries) != 2 {
		t.Fatalf("expected both questions asked, got %d", len(asker.queries))
	}
	if strings.Count(out.String(), "Error: model down") != 2 {
		t.Fatalf("expected two error lines, got: %s", out.String())
	}
}

func TestLoopInterrupt(t *testing.T) {
	r := &scriptedReader{
		lines: []string{"half typed", "", "unused"},
		errs:  []error{readline.ErrInterrupt, readline.ErrInterrupt, nil},
	}
	asker := &echoAsker{}
	var out bytes.Buffer

	if err := Loop(context.Background(), asker, r, &out, Options{ShowTimings: true}); err != nil {
		t.Fatalf("Loop error: %v", err)
	}
	if len(asker.queries) != 0 {
		t.Fatalf("expected no questions, got %q", asker.queries)
	}
}

func TestLoopTimings(t *testing.T) {
	var out bytes.Buffer
	if err := Loop(context.Background(), &echoAsker{}, reader("hi"), &out, Options{ShowTimings: true}); err != nil {
		t.Fatalf("Loop error: %v", err)
	}
	if !strings.Contains(out.String(), ">>> [") {
		t.Fatalf("expected timing line, got: %s", out.String())
	}
}

func TestLoopStatsCommand(t *testing.T) {
	var out bytes.Buffer
	asker := &echoAsker{}
	opts := Options{Stats: func(w io.Writer) { io.WriteString(w, "Model metrics:\n") }}
	if err := Loop(context.Background(), asker, reader("/stats", "exit"), &out, opts); err != nil {
		t.Fatalf("Loop error: %v", err)
	}
	if !strings.Contains(out.String(), "Model metrics:") {
		t.Fatalf("expected stats output, got: %s", out.String())
	}
	if len(asker.queries) != 0 {
		t.Fatalf("expected /stats not sent to the model, got %q", asker.queries)
	}

	out.Reset()
	if err := Loop(context.Background(), asker, reader("/STATS"), &out, Options{}); err != nil {
		t.Fatalf("Loop error: %v", err)
	}
	if !strings.Contains(out.String(), "Metrics are disabled") {
		t.Fatalf("expected disabled notice, got: %s", out.String())
	}
}
