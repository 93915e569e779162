package editor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func suggestionZoneID(i int) string {
	return fmt.Sprintf("suggestion-%d", i)
}

func (m *Model) suggestionHeight() int {
	return len(m.session.Suggestions())
}

func (m *Model) renderSuggestions() string {
	suggestions := m.session.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}
	normalStyle := lipgloss.NewStyle().Foreground(metaColor)
	selectedStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)

	lines := make([]string, 0, len(suggestions))
	for i, suggestion := range suggestions {
		prefix := "  "
		style := normalStyle
		if i == m.session.Selection() {
			prefix = "> "
			style = selectedStyle
		}
		line := prefix + suggestion
		if m.width > 0 {
			line = truncateLine(line, m.width)
		}
		lines = append(lines, m.zoneManager.Mark(suggestionZoneID(i), style.Render(line)))
	}
	return strings.Join(lines, "\n")
}

// acceptSuggestion appends the chosen suggestion to the buffer and
// clears the list. The resulting buffer change re-enters the debounce
// pipeline; accepting itself never fires a request directly.
func (m *Model) acceptSuggestion() tea.Cmd {
	if _, ok := m.session.Accept(); !ok {
		return nil
	}
	m.input.SetValue(m.session.Text())
	m.input.CursorEnd()
	m.lastInputValue = m.input.Value()
	m.resize()
	return m.scheduleDebounce()
}

// dismissSuggestions is the Esc path: list gone, selection gone, buffer
// untouched.
func (m *Model) dismissSuggestions() {
	m.session.ClearSuggestions()
	m.resize()
}

func truncateLine(line string, width int) string {
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
