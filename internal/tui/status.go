package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Srimaan215/Roku-AI/internal/executor"
)

// formatStatusIndicator returns a short label for one provider.
func formatStatusIndicator(s executor.ProviderStatus) string {
	if s.Connected {
		return s.Name + ": on"
	}
	return s.Name + ": off"
}

// renderStatusBadges returns one Lipgloss badge per provider, green when
// connected.
func renderStatusBadges(status []executor.ProviderStatus) []string {
	on := lipgloss.NewStyle().Background(lipgloss.Color("40")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	off := lipgloss.NewStyle().Background(lipgloss.Color("240")).Foreground(lipgloss.Color("255")).Padding(0, 1).MarginLeft(1)

	badges := make([]string, 0, len(status))
	for _, s := range status {
		if s.Name == "model" {
			continue
		}
		style := off
		if s.Connected {
			style = on
		}
		badges = append(badges, style.Render(formatStatusIndicator(s)))
	}
	return badges
}
