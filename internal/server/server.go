// Package server implements the completion relay: it accepts editor
// requests over HTTP or a persistent msgpack stream, forwards them to an
// OpenAI-compatible upstream, and answers with ranked suggestions plus
// the time spent producing them.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dsiddharth/autocomplete-demo/internal/config"
	"github.com/dsiddharth/autocomplete-demo/internal/logger"
	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

// Server relays completion requests to the upstream model service.
type Server struct {
	cfg      config.ServerConfig
	upstream *upstreamClient
	cache    *completionCache
	log      *log.Logger
}

// New creates a relay server from cfg.
func New(cfg config.ServerConfig) *Server {
	return &Server{
		cfg:      cfg,
		upstream: newUpstreamClient(cfg.UpstreamURL, cfg.UpstreamModel),
		cache:    newCompletionCache(time.Duration(cfg.CacheTTLSec)*time.Second, cfg.CacheSize),
		log:      logger.New("serve"),
	}
}

// Close releases the cache.
func (s *Server) Close() {
	s.cache.Close()
}

// complete produces suggestions for req, consulting the cache first.
// Cache hits report zero processing time, matching what the editor
// shows for work the model never did.
func (s *Server) complete(ctx context.Context, req types.CompletionRequest) (*types.CompletionResult, error) {
	cleaned := cleanInput(req.Text, s.cfg.MaxContextWord)
	if cleaned == "" {
		return &types.CompletionResult{Suggestions: []string{}}, nil
	}

	if cached, ok := s.cache.get(cleaned); ok {
		return &types.CompletionResult{Suggestions: cached}, nil
	}

	req.Text = cleaned
	start := time.Now()
	suggestions, err := s.upstream.complete(ctx, req)
	if err != nil {
		return nil, err
	}
	elapsed := float64(time.Since(start)) / float64(time.Millisecond)

	s.cache.set(cleaned, suggestions)
	return &types.CompletionResult{
		Suggestions:      suggestions,
		ServerProcessing: elapsed,
	}, nil
}

// Handler returns the HTTP mux: POST /api/complete and GET /api/ping.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/complete", s.handleComplete)
	mux.HandleFunc("/api/ping", s.handlePing)
	return mux
}

// ListenAndServe runs the HTTP listener until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()
	s.log.Info("listening", "addr", s.cfg.ListenAddr)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) setCORS(w http.ResponseWriter, r *http.Request) {
	origin := s.cfg.AllowOrigin
	if origin == "" {
		origin = "*"
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
		w.Header().Set("Access-Control-Allow-Headers", requested)
	} else {
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	}
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	s.setCORS(w, r)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	reqID := uuid.NewString()
	var req types.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		s.log.Error("bad request", "id", reqID, "err", err)
		return
	}
	applyRequestDefaults(&req)

	result, err := s.complete(r.Context(), req)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		s.log.Error("completion failed", "id", reqID, "err", err)
		return
	}

	s.log.Info("completed", "id", reqID,
		"suggestions", len(result.Suggestions),
		"server_ms", result.ServerProcessing)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.setCORS(w, r)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// applyRequestDefaults fills generation parameters a client left unset.
func applyRequestDefaults(req *types.CompletionRequest) {
	if req.SystemPrompt == "" {
		req.SystemPrompt = types.DefaultSystemPrompt
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = types.DefaultMaxTokens
	}
	if req.NumSuggestions <= 0 {
		req.NumSuggestions = types.DefaultNumSuggestions
	}
	if req.Temperature <= 0 {
		req.Temperature = types.DefaultTemperature
	}
}
