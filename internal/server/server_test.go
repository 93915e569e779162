package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dsiddharth/autocomplete-demo/internal/config"
	"github.com/dsiddharth/autocomplete-demo/internal/transport"
	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

// newUpstreamStub serves an OpenAI-compatible chat completions endpoint
// that echoes a fixed choice per requested n, counting calls.
func newUpstreamStub(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("upstream path = %s", r.URL.Path)
		}
		calls.Add(1)
		var req upstreamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding upstream request: %v", err)
		}
		resp := upstreamResponse{}
		for i := 0; i < req.N; i++ {
			choice := struct {
				Message upstreamMessage `json:"message"`
			}{Message: upstreamMessage{Role: "assistant", Content: " continuation"}}
			resp.Choices = append(resp.Choices, choice)
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestServer(t *testing.T, upstreamURL string) *Server {
	t.Helper()
	cfg := config.Default().Server
	cfg.UpstreamURL = upstreamURL
	srv := New(cfg)
	t.Cleanup(srv.Close)
	return srv
}

func postComplete(t *testing.T, handler http.Handler, req types.CompletionRequest) (*httptest.ResponseRecorder, types.CompletionResult) {
	t.Helper()
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/api/complete", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httpReq)

	var result types.CompletionResult
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
	return rec, result
}

func TestHandleComplete(t *testing.T) {
	var calls atomic.Int64
	upstream := newUpstreamStub(t, &calls)
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL)
	rec, result := postComplete(t, srv.Handler(), types.NewCompletionRequest("the capital of France", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(result.Suggestions) != types.DefaultNumSuggestions {
		t.Errorf("suggestions = %v", result.Suggestions)
	}
	if result.ServerProcessing < 0 {
		t.Errorf("server processing = %v, want non-negative", result.ServerProcessing)
	}
}

func TestHandleCompleteCacheHit(t *testing.T) {
	var calls atomic.Int64
	upstream := newUpstreamStub(t, &calls)
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL)
	handler := srv.Handler()

	postComplete(t, handler, types.NewCompletionRequest("machine learning is", ""))
	// Same text modulo whitespace and case hits the cache.
	postComplete(t, handler, types.NewCompletionRequest("  Machine   Learning is ", ""))
	if got := calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestHandleCompleteEmptyText(t *testing.T) {
	var calls atomic.Int64
	upstream := newUpstreamStub(t, &calls)
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL)
	rec, result := postComplete(t, srv.Handler(), types.NewCompletionRequest("   \n\t ", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("suggestions = %v, want empty", result.Suggestions)
	}
	if calls.Load() != 0 {
		t.Error("whitespace input must not reach the upstream")
	}
}

func TestHandleCompleteUpstreamDown(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")
	rec, _ := postComplete(t, srv.Handler(), types.NewCompletionRequest("hello", ""))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandlePing(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestStreamRoundTrip(t *testing.T) {
	var calls atomic.Int64
	upstream := newUpstreamStub(t, &calls)
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL)

	client, service := net.Pipe()
	go srv.ServeConn(context.Background(), service)

	tr := transport.NewStreamConn(client)
	defer tr.Close()

	if _, err := tr.Ping(context.Background()); err != nil {
		t.Fatalf("Ping over stream: %v", err)
	}
	result, err := tr.Send(context.Background(), types.NewCompletionRequest("i need to buy", ""))
	if err != nil {
		t.Fatalf("Send over stream: %v", err)
	}
	if len(result.Suggestions) == 0 {
		t.Error("expected suggestions over stream")
	}
}

func TestCleanInput(t *testing.T) {
	tests := []struct {
		in       string
		maxWords int
		want     string
	}{
		{"hello  world", 512, "hello world"},
		{"  spaced\tout\ntext  ", 512, "spaced out text"},
		{"a b c d e", 3, "c d e"},
		{"", 512, ""},
		{"   ", 512, ""},
	}
	for _, tt := range tests {
		if got := cleanInput(tt.in, tt.maxWords); got != tt.want {
			t.Errorf("cleanInput(%q, %d) = %q, want %q", tt.in, tt.maxWords, got, tt.want)
		}
	}
}
