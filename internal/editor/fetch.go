package editor

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dsiddharth/autocomplete-demo/internal/config"
	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

// debounceMsg fires when a debounce window expires. Only the message
// matching the model's current sequence triggers a fetch; rapid edits
// re-arm the timer and orphan earlier sequences.
type debounceMsg struct {
	seq int
}

// completionMsg carries one resolved request back onto the event loop.
// The token decides whether it may touch visible state.
type completionMsg struct {
	token       uint64
	result      *types.CompletionResult
	err         error
	roundTripMs float64
}

// pingMsg carries a probe measurement.
type pingMsg struct {
	roundTripMs float64
	err         error
}

// configMsg carries a live config reload.
type configMsg struct {
	cfg *config.Config
}

func (m *Model) debounce() time.Duration {
	ms := m.client.DebounceMs
	if ms <= 0 {
		ms = types.DefaultDebounceMs
	}
	return time.Duration(ms) * time.Millisecond
}

// scheduleDebounce restarts the debounce window. Any pending window is
// abandoned by advancing the sequence.
func (m *Model) scheduleDebounce() tea.Cmd {
	m.debounceSeq++
	seq := m.debounceSeq
	return tea.Tick(m.debounce(), func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// syncFromInput propagates a changed textarea value into the session and
// re-arms the debounce window. Returns nil when nothing changed.
func (m *Model) syncFromInput() tea.Cmd {
	value := m.input.Value()
	if value == m.lastInputValue {
		return nil
	}
	m.lastInputValue = value
	m.session.SetText(value)
	return m.scheduleDebounce()
}

func (m *Model) handleDebounceMsg(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.debounceSeq {
		// A later edit superseded this window.
		return m, nil
	}
	text := m.session.Text()
	if strings.TrimSpace(text) == "" {
		m.session.ClearSuggestions()
		m.resize()
		return m, nil
	}
	token := m.session.StartRequest()
	return m, m.fetchCmd(token, m.client.Request(text))
}

// fetchCmd runs one Send off the event loop and posts the outcome back.
// The request is never aborted; a stale token just gets dropped on
// arrival.
func (m *Model) fetchCmd(token uint64, req types.CompletionRequest) tea.Cmd {
	t := m.transport
	return func() tea.Msg {
		start := time.Now()
		result, err := t.Send(context.Background(), req)
		return completionMsg{
			token:       token,
			result:      result,
			err:         err,
			roundTripMs: float64(time.Since(start)) / float64(time.Millisecond),
		}
	}
}

func (m *Model) handleCompletionMsg(msg completionMsg) (tea.Model, tea.Cmd) {
	if m.session.ApplyResult(msg.token, msg.result, msg.err) {
		m.session.RecordRoundTrip(msg.roundTripMs)
		m.resize()
	}
	return m, nil
}

func (m *Model) pingCmd() tea.Cmd {
	t := m.transport
	return func() tea.Msg {
		ms, err := t.Ping(context.Background())
		return pingMsg{roundTripMs: ms, err: err}
	}
}

func (m *Model) handlePingMsg(msg pingMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "service unreachable"
		return m, nil
	}
	m.session.RecordRoundTrip(msg.roundTripMs)
	m.status = ""
	return m, nil
}

// waitForConfig blocks on the reload channel and posts the next config.
func waitForConfig(updates <-chan *config.Config) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-updates
		if !ok {
			return nil
		}
		return configMsg{cfg: cfg}
	}
}

func (m *Model) handleConfigMsg(msg configMsg) (tea.Model, tea.Cmd) {
	m.client = msg.cfg.Client
	// A prompt or parameter change re-enters the debounce pipeline the
	// same way an edit does.
	return m, tea.Batch(m.scheduleDebounce(), waitForConfig(m.configUpdates))
}
