package editor

import tea "github.com/charmbracelet/bubbletea"

func (m *Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	for i := range m.session.Suggestions() {
		if m.zoneManager.Get(suggestionZoneID(i)).InBounds(msg) {
			// Click selects the row and accepts it in one motion.
			m.session.Select(i)
			return m, m.acceptSuggestion()
		}
	}
	return m, nil
}
