// Package tui provides the full-screen chat interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Srimaan215/Roku-AI/internal/executor"
)

// Asker answers one question.
type Asker interface {
	Ask(ctx context.Context, query string) (string, error)
}

// Options describe the session shown in the header.
type Options struct {
	Model  string
	User   string
	Status []executor.ProviderStatus
	// ShowTimings prints how long each answer took.
	ShowTimings bool
}

const (
	roleUser      = "user"
	roleAssistant = "assistant"
	roleError     = "error"
)

type chatMessage struct {
	role    string
	content string
	elapsed time.Duration
}

// model is the Bubble Tea model for the chat screen.
type model struct {
	ctx              context.Context
	asker            Asker
	opts             Options
	isLoading        bool
	textArea         textarea.Model
	viewport         viewport.Model
	spinner          spinner.Model
	history          []chatMessage
	width, height    int
	requestStartTime time.Time
}

// answerMsg carries a finished answer back to Update.
type answerMsg struct {
	text    string
	elapsed time.Duration
}

// answerErr is sent when the model call fails.
type answerErr struct{ error }

// tickMsg keeps the thinking timer moving while a request is in flight.
type tickMsg time.Time

func initialModel(ctx context.Context, asker Asker, opts Options) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Send a message..."
	ta.Focus()
	ta.Prompt = "Ask Anything: "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return &model{
		ctx:      ctx,
		asker:    asker,
		opts:     opts,
		spinner:  s,
		textArea: ta,
		viewport: viewport.New(100, 5),
	}
}

func askCmd(ctx context.Context, asker Asker, query string) tea.Cmd {
	return func() tea.Msg {
		started := time.Now()
		answer, err := asker.Ask(ctx, query)
		if err != nil {
			return answerErr{error: err}
		}
		return answerMsg{text: answer, elapsed: time.Since(started)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the spinner.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles keys, resizes and finished answers.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textArea.SetWidth(msg.Width - 3)
		headerHeight := 3
		footerHeight := 3
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)

	case answerMsg:
		m.isLoading = false
		m.history = append(m.history, chatMessage{role: roleAssistant, content: msg.text, elapsed: msg.elapsed})
		m.textArea.Focus()
		m.viewport.GotoBottom()
		return m, nil

	case answerErr:
		m.isLoading = false
		m.history = append(m.history, chatMessage{role: roleError, content: msg.Error()})
		m.textArea.Focus()
		m.viewport.GotoBottom()
		return m, nil

	case tickMsg:
		if m.isLoading {
			return m, tickCmd()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.isLoading {
		m.textArea, cmd = m.textArea.Update(msg)
		cmds = append(cmds, cmd)

		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			query := strings.TrimSpace(m.textArea.Value())
			if query != "" {
				m.history = append(m.history, chatMessage{role: roleUser, content: query})
				m.textArea.Reset()
				m.isLoading = true
				m.requestStartTime = time.Now()
				cmds = append(cmds, m.spinner.Tick, askCmd(m.ctx, m.asker, query), tickCmd())
			}
		}
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the header, the transcript and the input line.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var builder strings.Builder
	builder.WriteString(m.header() + "\n\n")

	userStyle := lipgloss.NewStyle().Bold(true)
	assistantStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	var historyBuilder strings.Builder
	for _, msg := range m.history {
		var role string
		content := msg.content
		switch msg.role {
		case roleAssistant:
			role = assistantStyle.Render("Roku: ")
		case roleError:
			role = errorStyle.Render("Error: ")
		default:
			role = userStyle.Render("You: ")
		}
		if width := m.width - lipgloss.Width(role) - 2; width > 0 {
			content = lipgloss.NewStyle().Width(width).Render(content)
		}
		historyBuilder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, role, content) + "\n")
		if m.opts.ShowTimings && msg.role == roleAssistant {
			historyBuilder.WriteString(metaStyle.Render(fmt.Sprintf("  >>> [%.1fs]", msg.elapsed.Seconds())) + "\n")
		}
	}

	m.viewport.SetContent(historyBuilder.String())
	builder.WriteString(m.viewport.View())

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		builder.WriteString("\n" + m.spinner.View() + fmt.Sprintf(" Roku is thinking... %ss", timer))
	} else {
		builder.WriteString("\n" + m.textArea.View())
	}

	return builder.String()
}

func (m *model) header() string {
	labelStyle := lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1).MarginLeft(1)

	parts := []string{labelStyle.Render("Roku")}
	if m.opts.User != "" {
		parts = append(parts, headerStyle.Render("User: "+m.opts.User))
	}
	if m.opts.Model != "" {
		parts = append(parts, headerStyle.Render("Model: "+ansi.Truncate(m.opts.Model, 32, "…")))
	}
	parts = append(parts, renderStatusBadges(m.opts.Status)...)
	help := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(" (esc to quit)")
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + help
}

// Start runs the chat screen until the user quits.
func Start(ctx context.Context, asker Asker, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := initialModel(ctx, asker, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
