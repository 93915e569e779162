package session

import (
	"errors"
	"testing"

	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

func result(suggestions ...string) *types.CompletionResult {
	return &types.CompletionResult{Suggestions: suggestions, ServerProcessing: 12.5}
}

func TestApplyResultLatestToken(t *testing.T) {
	s := New()
	token := s.StartRequest()
	if !s.Loading() {
		t.Fatal("expected loading after StartRequest")
	}
	if !s.ApplyResult(token, result("a", "b", "c"), nil) {
		t.Fatal("latest token result should apply")
	}
	if s.Loading() {
		t.Error("loading should clear after apply")
	}
	if got := s.Suggestions(); len(got) != 3 || got[0] != "a" {
		t.Errorf("suggestions = %v, want [a b c]", got)
	}
	if s.Selection() != Unselected {
		t.Errorf("fresh suggestion list should start Unselected, got %d", s.Selection())
	}
}

func TestApplyResultStaleDiscarded(t *testing.T) {
	s := New()
	first := s.StartRequest()
	second := s.StartRequest()

	// The later request resolves first.
	if !s.ApplyResult(second, result("newer"), nil) {
		t.Fatal("second token should apply")
	}
	// The earlier request resolves afterwards; it must be dropped.
	if s.ApplyResult(first, result("older"), nil) {
		t.Fatal("stale token must not apply")
	}
	if got := s.Suggestions(); len(got) != 1 || got[0] != "newer" {
		t.Errorf("suggestions = %v, want [newer]", got)
	}
}

func TestApplyResultStaleErrorDiscarded(t *testing.T) {
	s := New()
	first := s.StartRequest()
	second := s.StartRequest()

	if !s.ApplyResult(second, result("keep"), nil) {
		t.Fatal("second token should apply")
	}
	if s.ApplyResult(first, nil, errors.New("connection refused")) {
		t.Fatal("stale error must not apply")
	}
	if s.Err() != "" {
		t.Errorf("stale error leaked into visible state: %q", s.Err())
	}
	if got := s.Suggestions(); len(got) != 1 || got[0] != "keep" {
		t.Errorf("suggestions = %v, want [keep]", got)
	}
}

func TestApplyResultError(t *testing.T) {
	s := New()
	token := s.StartRequest()
	s.SetText("hello ")
	if !s.ApplyResult(token, nil, errors.New("connection refused")) {
		t.Fatal("latest token error should apply")
	}
	if s.Text() != "hello " {
		t.Errorf("text changed on error: %q", s.Text())
	}
	if s.Err() == "" {
		t.Error("expected visible error")
	}
	if len(s.Suggestions()) != 0 {
		t.Error("suggestions should clear on error")
	}
	if s.Loading() {
		t.Error("loading should clear on error")
	}

	// The next successful cycle clears the error.
	token = s.StartRequest()
	if s.Err() != "" {
		t.Error("StartRequest should clear the error")
	}
	s.ApplyResult(token, result("x"), nil)
	if s.Err() != "" {
		t.Errorf("error still visible after success: %q", s.Err())
	}
}

func TestClearSuggestionsSupersedesInFlight(t *testing.T) {
	s := New()
	token := s.StartRequest()
	s.ClearSuggestions()
	if s.Loading() {
		t.Error("loading should clear")
	}
	if s.ApplyResult(token, result("late"), nil) {
		t.Fatal("result from before ClearSuggestions must be stale")
	}
	if len(s.Suggestions()) != 0 {
		t.Errorf("suggestions = %v, want empty", s.Suggestions())
	}
}

func TestNavigationWraparound(t *testing.T) {
	s := New()
	s.ApplyResult(s.StartRequest(), result("a", "b", "c"), nil)

	s.SelectNext()
	if s.Selection() != 0 {
		t.Fatalf("ArrowDown from Unselected = %d, want 0", s.Selection())
	}
	s.SelectNext()
	if s.Selection() != 1 {
		t.Fatalf("ArrowDown from 0 = %d, want 1", s.Selection())
	}
	s.SelectNext()
	s.SelectNext()
	if s.Selection() != 0 {
		t.Fatalf("ArrowDown wrap = %d, want 0", s.Selection())
	}
	s.SelectPrev()
	if s.Selection() != 2 {
		t.Fatalf("ArrowUp wrap from 0 = %d, want 2", s.Selection())
	}
}

func TestNavigationFromUnselectedUp(t *testing.T) {
	s := New()
	s.ApplyResult(s.StartRequest(), result("a", "b", "c"), nil)
	s.SelectPrev()
	if s.Selection() != 2 {
		t.Fatalf("ArrowUp from Unselected = %d, want n-1", s.Selection())
	}
}

func TestNavigationEmptyListNoop(t *testing.T) {
	s := New()
	s.SelectNext()
	s.SelectPrev()
	s.Select(0)
	if s.Selection() != Unselected {
		t.Errorf("navigation on empty list moved selection to %d", s.Selection())
	}
}

func TestAcceptAppends(t *testing.T) {
	s := New()
	s.SetText("hello ")
	s.ApplyResult(s.StartRequest(), result("world", "there"), nil)
	s.Select(0)

	got, ok := s.Accept()
	if !ok || got != "world" {
		t.Fatalf("Accept = %q, %v; want \"world\", true", got, ok)
	}
	if s.Text() != "hello world" {
		t.Errorf("text = %q, want \"hello world\"", s.Text())
	}
	if len(s.Suggestions()) != 0 {
		t.Error("suggestions should clear on accept")
	}
	if s.Selection() != Unselected {
		t.Error("selection should reset on accept")
	}
}

func TestAcceptDefaultsToFirst(t *testing.T) {
	s := New()
	s.SetText("x")
	s.ApplyResult(s.StartRequest(), result("one", "two"), nil)

	got, ok := s.Accept()
	if !ok || got != "one" {
		t.Fatalf("Accept with no selection = %q, %v; want \"one\", true", got, ok)
	}
}

func TestAcceptEmptyNoop(t *testing.T) {
	s := New()
	s.SetText("keep")
	if _, ok := s.Accept(); ok {
		t.Fatal("Accept on empty list should be a no-op")
	}
	if s.Text() != "keep" {
		t.Errorf("text = %q, want unchanged", s.Text())
	}
}

func TestListReplacementResetsSelection(t *testing.T) {
	s := New()
	s.ApplyResult(s.StartRequest(), result("a", "b"), nil)
	s.SelectNext()
	s.SelectNext()
	if s.Selection() != 1 {
		t.Fatalf("selection = %d, want 1", s.Selection())
	}
	s.ApplyResult(s.StartRequest(), result("c", "d"), nil)
	if s.Selection() != Unselected {
		t.Errorf("selection carried across list replacement: %d", s.Selection())
	}
}

func TestLatencySample(t *testing.T) {
	s := New()
	s.RecordRoundTrip(42)
	s.ApplyResult(s.StartRequest(), result("a"), nil)
	sample, ok := s.Latency()
	if !ok {
		t.Fatal("expected a latency sample")
	}
	if sample.RoundTripMs != 42 {
		t.Errorf("round trip = %v, want 42", sample.RoundTripMs)
	}
	if !sample.HasServerMs || sample.ServerMs != 12.5 {
		t.Errorf("server ms = %v (has %v), want 12.5", sample.ServerMs, sample.HasServerMs)
	}
}
