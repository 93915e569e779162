package editor

import tea "github.com/charmbracelet/bubbletea"

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyCtrlP:
		m.status = "pinging..."
		return m, m.pingCmd()
	case tea.KeyCtrlY:
		if err := copyToClipboard(m.session.Text()); err != nil {
			m.status = err.Error()
		} else {
			m.status = "copied buffer"
		}
		return m, nil
	}

	if handled, cmd := m.handleSuggestionKeys(msg); handled {
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, tea.Batch(cmd, m.syncFromInput())
}

func (m *Model) handleSuggestionKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	if len(m.session.Suggestions()) == 0 {
		return false, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.dismissSuggestions()
		return true, nil
	case tea.KeyUp:
		m.session.SelectPrev()
		return true, nil
	case tea.KeyDown:
		m.session.SelectNext()
		return true, nil
	case tea.KeyTab:
		// Tab accepts the highlight, or the first suggestion when
		// nothing is highlighted yet.
		return true, m.acceptSuggestion()
	}
	return false, nil
}
