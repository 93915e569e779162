package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var lines []string
	lines = append(lines, m.input.View())
	if suggestions := m.renderSuggestions(); suggestions != "" {
		lines = append(lines, suggestions)
	}
	lines = append(lines, "")

	if errText := m.session.Err(); errText != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(errorColor).Render("error: "+errText))
	} else {
		lines = append(lines, lipgloss.NewStyle().Foreground(statusColor).Render(m.statusLine()))
	}

	output := strings.Join(lines, "\n")
	return m.zoneManager.Scan(output)
}
