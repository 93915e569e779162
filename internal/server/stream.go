package server

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dsiddharth/autocomplete-demo/internal/transport"
	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

// ListenAndServeStream accepts persistent duplex connections and answers
// msgpack exchanges on each until the peer disconnects or ctx is done.
func (s *Server) ListenAndServeStream(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.StreamAddr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()
	s.log.Info("stream listening", "addr", s.cfg.StreamAddr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.serveConn(ctx, conn)
	}
}

// ServeConn answers exchanges on conn until EOF. Exported so tests can
// drive it over net.Pipe.
func (s *Server) ServeConn(ctx context.Context, conn io.ReadWriteCloser) {
	s.serveConn(ctx, conn)
}

func (s *Server) serveConn(ctx context.Context, conn io.ReadWriteCloser) {
	defer conn.Close()
	dec := msgpack.NewDecoder(conn)
	enc := msgpack.NewEncoder(conn)

	for {
		var req transport.StreamRequest
		if err := dec.Decode(&req); err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				s.log.Debug("stream decode", "err", err)
			}
			return
		}

		resp := s.handleStreamRequest(ctx, req)
		if err := enc.Encode(resp); err != nil {
			s.log.Debug("stream encode", "err", err)
			return
		}
	}
}

func (s *Server) handleStreamRequest(ctx context.Context, req transport.StreamRequest) transport.StreamResponse {
	switch req.Op {
	case transport.OpPing:
		return transport.StreamResponse{ID: req.ID, Ack: true}
	case transport.OpComplete:
		creq := types.CompletionRequest{
			Text:           req.Text,
			SystemPrompt:   req.SystemPrompt,
			MaxTokens:      req.MaxTokens,
			NumSuggestions: req.NumSuggestions,
			Temperature:    req.Temperature,
		}
		applyRequestDefaults(&creq)
		result, err := s.complete(ctx, creq)
		if err != nil {
			s.log.Error("stream completion failed", "id", req.ID, "err", err)
			return transport.StreamResponse{ID: req.ID, Error: err.Error()}
		}
		return transport.StreamResponse{
			ID:          req.ID,
			Suggestions: result.Suggestions,
			ServerMs:    result.ServerProcessing,
		}
	default:
		return transport.StreamResponse{ID: req.ID, Error: "unknown op: " + req.Op}
	}
}
