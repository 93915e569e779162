package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

func TestHTTPSend(t *testing.T) {
	var gotReq types.CompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/complete" {
			t.Errorf("path = %s, want /api/complete", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(types.CompletionResult{
			Suggestions:      []string{"world", "there"},
			ServerProcessing: 9.5,
		})
	}))
	defer server.Close()

	tr := NewHTTP(server.URL)
	defer tr.Close()

	result, err := tr.Send(context.Background(), types.NewCompletionRequest("hello ", ""))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotReq.Text != "hello " {
		t.Errorf("request text = %q, want \"hello \"", gotReq.Text)
	}
	if gotReq.MaxTokens != types.DefaultMaxTokens || gotReq.NumSuggestions != types.DefaultNumSuggestions {
		t.Errorf("defaults not applied: %+v", gotReq)
	}
	if len(result.Suggestions) != 2 || result.Suggestions[0] != "world" {
		t.Errorf("suggestions = %v", result.Suggestions)
	}
	if result.ServerProcessing != 9.5 {
		t.Errorf("server processing = %v, want 9.5", result.ServerProcessing)
	}
}

func TestHTTPSendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	tr := NewHTTP(server.URL)
	defer tr.Close()

	_, err := tr.Send(context.Background(), types.NewCompletionRequest("x", ""))
	if err == nil {
		t.Fatal("expected error")
	}
	var connErr *ConnError
	if !errors.As(err, &connErr) {
		t.Errorf("error type = %T, want *ConnError", err)
	}
}

func TestHTTPSendUnreachable(t *testing.T) {
	tr := NewHTTP("http://127.0.0.1:1")
	defer tr.Close()

	_, err := tr.Send(context.Background(), types.NewCompletionRequest("x", ""))
	var connErr *ConnError
	if !errors.As(err, &connErr) {
		t.Fatalf("error = %v, want *ConnError", err)
	}
}

func TestHTTPPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ping" {
			t.Errorf("path = %s, want /api/ping", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	tr := NewHTTP(server.URL)
	defer tr.Close()

	ms, err := tr.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if ms < 0 {
		t.Errorf("round trip = %v, want non-negative", ms)
	}
}

func TestNewStrategy(t *testing.T) {
	if _, err := New("http", "http://x", ""); err != nil {
		t.Errorf("http strategy: %v", err)
	}
	if _, err := New("", "http://x", ""); err != nil {
		t.Errorf("default strategy: %v", err)
	}
	if _, err := New("stream", "", "127.0.0.1:9"); err != nil {
		t.Errorf("stream strategy: %v", err)
	}
	if _, err := New("carrier-pigeon", "", ""); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
