package editor

import (
	"fmt"
	"strings"
)

// statusReserved is the number of rows kept below the input for the
// margin and status line.
const statusReserved = 2

// statusLine builds the bottom row: loading spinner or latency readout,
// error text, and transient notices.
func (m *Model) statusLine() string {
	var parts []string

	if m.session.Loading() {
		parts = append(parts, m.spin.View()+" fetching")
	} else if sample, ok := m.session.Latency(); ok {
		if sample.HasServerMs {
			parts = append(parts, fmt.Sprintf("%.0fms rtt · %.0fms server", sample.RoundTripMs, sample.ServerMs))
		} else {
			parts = append(parts, fmt.Sprintf("%.0fms rtt", sample.RoundTripMs))
		}
	}

	if m.status != "" {
		parts = append(parts, m.status)
	}

	if len(m.session.Suggestions()) > 0 {
		parts = append(parts, "↑/↓ select · tab accept · esc dismiss")
	}

	return strings.Join(parts, "  ·  ")
}
