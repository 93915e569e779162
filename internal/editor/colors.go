package editor

import "github.com/charmbracelet/lipgloss"

var (
	metaColor    = lipgloss.Color("243")
	accentColor  = lipgloss.Color("111")
	statusColor  = lipgloss.Color("240")
	errorColor   = lipgloss.Color("203")
	loadingColor = lipgloss.Color("183")
)
