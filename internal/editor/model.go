// Package editor implements the interactive autocompleting editor: a
// textarea whose contents are sent to the completion service after each
// pause in typing, with the returned suggestions shown below the input
// for keyboard or mouse acceptance.
package editor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/dsiddharth/autocomplete-demo/internal/config"
	"github.com/dsiddharth/autocomplete-demo/internal/session"
	"github.com/dsiddharth/autocomplete-demo/internal/transport"
)

// Options configure the editor.
type Options struct {
	Client config.ClientConfig
	// ConfigUpdates, when non-nil, delivers live config reloads.
	ConfigUpdates <-chan *config.Config
}

// Run starts the editor UI and blocks until the user quits. The final
// buffer contents are returned.
func Run(t transport.Transport, opts Options) (string, error) {
	model := NewModel(t, opts)
	fmt.Printf("\033]0;%s\007", "draft")

	program := tea.NewProgram(model, tea.WithMouseCellMotion())
	final, err := program.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(*Model); ok {
		return m.session.Text(), nil
	}
	return model.session.Text(), nil
}

// Model implements the editor UI.
type Model struct {
	session       *session.Session
	transport     transport.Transport
	client        config.ClientConfig
	configUpdates <-chan *config.Config

	input       textarea.Model
	spin        spinner.Model
	zoneManager *zone.Manager

	width  int
	height int

	// debounceSeq identifies the newest pending debounce window; ticks
	// carrying an older sequence are discarded.
	debounceSeq    int
	lastInputValue string

	status   string
	quitting bool
}

// NewModel creates an editor model.
func NewModel(t transport.Transport, opts Options) *Model {
	input := textarea.New()
	input.Placeholder = "Start typing..."
	input.Prompt = "┃ "
	input.CharLimit = 0
	input.ShowLineNumbers = false
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = lipgloss.NewStyle().Foreground(loadingColor)

	return &Model{
		session:       session.New(),
		transport:     t,
		client:        opts.Client,
		configUpdates: opts.ConfigUpdates,
		input:         input,
		spin:          spin,
		zoneManager:   zone.New(),
	}
}

// Init kicks off the spinner, an initial ping probe, and the config
// watch subscription.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.spin.Tick, m.pingCmd()}
	if m.configUpdates != nil {
		cmds = append(cmds, waitForConfig(m.configUpdates))
	}
	return tea.Batch(cmds...)
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.input.SetWidth(m.width)
	inputHeight := m.height - m.suggestionHeight() - statusReserved
	if inputHeight < 1 {
		inputHeight = 1
	}
	m.input.SetHeight(inputHeight)
}
