// Package session holds the editor's interaction state: the text
// buffer, the current suggestion list, the highlighted suggestion, and
// the request token that gates which network result may touch any of it.
//
// A Session is owned by a single event loop and is not safe for
// concurrent use. Results arriving from the network must be funneled
// back onto that loop and applied through ApplyResult, which rejects
// anything minted before the latest request.
package session

import (
	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

// Unselected is the selection sentinel: no suggestion highlighted.
const Unselected = -1

// Session is the editor's mutable state.
type Session struct {
	text        string
	suggestions []string
	selection   int
	loading     bool
	errText     string
	latest      uint64
	latency     types.LatencySample
	hasLatency  bool
}

// New returns an empty session.
func New() *Session {
	return &Session{selection: Unselected}
}

// Text returns the buffer contents.
func (s *Session) Text() string { return s.text }

// SetText replaces the buffer. Selection is untouched here; it resets
// when the next suggestion list replaces the current one.
func (s *Session) SetText(text string) {
	s.text = text
}

// Suggestions returns the visible suggestion list.
func (s *Session) Suggestions() []string { return s.suggestions }

// Selection returns the highlighted index, or Unselected.
func (s *Session) Selection() int { return s.selection }

// Loading reports whether the latest request is still in flight.
func (s *Session) Loading() bool { return s.loading }

// Err returns the visible error message, empty when none.
func (s *Session) Err() string { return s.errText }

// Latency returns the most recent timing sample.
func (s *Session) Latency() (types.LatencySample, bool) {
	return s.latency, s.hasLatency
}

// StartRequest mints a new request token, marking it the only token
// whose result may be applied. Loading turns on and any error clears.
func (s *Session) StartRequest() uint64 {
	s.latest++
	s.loading = true
	s.errText = ""
	return s.latest
}

// ApplyResult applies a completed request if token is still the latest.
// Stale results, success or failure, are discarded without touching any
// visible state. Returns whether the result was applied.
func (s *Session) ApplyResult(token uint64, result *types.CompletionResult, err error) bool {
	if token != s.latest {
		return false
	}
	s.loading = false
	if err != nil {
		s.errText = err.Error()
		s.suggestions = nil
		s.selection = Unselected
		return true
	}
	s.errText = ""
	s.suggestions = result.Suggestions
	s.selection = Unselected
	s.latency.ServerMs = result.ServerProcessing
	s.latency.HasServerMs = true
	s.hasLatency = true
	return true
}

// RecordRoundTrip stores the latest round-trip measurement.
func (s *Session) RecordRoundTrip(ms float64) {
	s.latency.RoundTripMs = ms
	s.hasLatency = true
}

// ClearSuggestions empties the list and resets the selection. It also
// supersedes any in-flight request so a late result cannot resurrect
// the list: this is the empty-input path, not an error.
func (s *Session) ClearSuggestions() {
	s.suggestions = nil
	s.selection = Unselected
	s.loading = false
	s.latest++
}

// SelectNext moves the highlight down, wrapping. From Unselected it
// starts at the top. No-op on an empty list.
func (s *Session) SelectNext() {
	if len(s.suggestions) == 0 {
		return
	}
	if s.selection < 0 {
		s.selection = 0
		return
	}
	s.selection++
	if s.selection >= len(s.suggestions) {
		s.selection = 0
	}
}

// SelectPrev moves the highlight up, wrapping. From Unselected it
// starts at the bottom. No-op on an empty list.
func (s *Session) SelectPrev() {
	if len(s.suggestions) == 0 {
		return
	}
	if s.selection < 0 {
		s.selection = len(s.suggestions) - 1
		return
	}
	s.selection--
	if s.selection < 0 {
		s.selection = len(s.suggestions) - 1
	}
}

// Select highlights index j. Out-of-range is a no-op.
func (s *Session) Select(j int) {
	if j < 0 || j >= len(s.suggestions) {
		return
	}
	s.selection = j
}

// Accept appends the highlighted suggestion to the buffer and clears
// the list. With no explicit highlight the first suggestion is taken.
// Returns the accepted string, or false when the list is empty.
func (s *Session) Accept() (string, bool) {
	if len(s.suggestions) == 0 {
		return "", false
	}
	idx := s.selection
	if idx < 0 {
		idx = 0
	}
	chosen := s.suggestions[idx]
	s.text += chosen
	s.suggestions = nil
	s.selection = Unselected
	return chosen, true
}
