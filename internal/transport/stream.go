package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

const dialTimeout = 5 * time.Second

// StreamTransport keeps one duplex connection open and runs each logical
// request as a single msgpack exchange on it. Exchanges are serialized;
// a failed exchange drops the connection so the next call redials.
type StreamTransport struct {
	addr string

	mu   sync.Mutex
	conn io.ReadWriteCloser
	enc  *msgpack.Encoder
	dec  *msgpack.Decoder
}

// NewStream creates a stream transport for addr ("host:port"). The
// connection is established on first use.
func NewStream(addr string) *StreamTransport {
	return &StreamTransport{addr: addr}
}

// NewStreamConn wraps an already-open connection. Used by tests.
func NewStreamConn(conn io.ReadWriteCloser) *StreamTransport {
	t := &StreamTransport{}
	t.attach(conn)
	return t
}

func (t *StreamTransport) attach(conn io.ReadWriteCloser) {
	t.conn = conn
	t.enc = msgpack.NewEncoder(conn)
	t.dec = msgpack.NewDecoder(conn)
}

// ensureConn dials if there is no live connection. Caller holds mu.
func (t *StreamTransport) ensureConn() error {
	if t.conn != nil {
		return nil
	}
	if t.addr == "" {
		return fmt.Errorf("connection closed")
	}
	conn, err := net.DialTimeout("tcp", t.addr, dialTimeout)
	if err != nil {
		return err
	}
	t.attach(conn)
	return nil
}

func (t *StreamTransport) dropConn() {
	if t.conn != nil {
		_ = t.conn.Close()
		t.conn = nil
		t.enc = nil
		t.dec = nil
	}
}

// exchange writes one frame and reads its answer.
func (t *StreamTransport) exchange(req StreamRequest) (*StreamResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureConn(); err != nil {
		return nil, err
	}
	if err := t.enc.Encode(req); err != nil {
		t.dropConn()
		return nil, err
	}
	var resp StreamResponse
	if err := t.dec.Decode(&resp); err != nil {
		t.dropConn()
		return nil, err
	}
	if resp.ID != req.ID {
		t.dropConn()
		return nil, fmt.Errorf("exchange id mismatch: sent %s, got %s", req.ID, resp.ID)
	}
	return &resp, nil
}

// Send runs one completion exchange.
func (t *StreamTransport) Send(ctx context.Context, req types.CompletionRequest) (*types.CompletionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, connErr("send", err)
	}
	resp, err := t.exchange(StreamRequest{
		ID:             uuid.NewString(),
		Op:             OpComplete,
		Text:           req.Text,
		SystemPrompt:   req.SystemPrompt,
		MaxTokens:      req.MaxTokens,
		NumSuggestions: req.NumSuggestions,
		Temperature:    req.Temperature,
	})
	if err != nil {
		return nil, connErr("send", err)
	}
	if resp.Error != "" {
		return nil, connErr("send", fmt.Errorf("service error: %s", resp.Error))
	}
	return &types.CompletionResult{
		Suggestions:      resp.Suggestions,
		ServerProcessing: resp.ServerMs,
	}, nil
}

// Ping runs one ping exchange and reports the local round trip.
func (t *StreamTransport) Ping(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, connErr("ping", err)
	}
	start := time.Now()
	resp, err := t.exchange(StreamRequest{ID: uuid.NewString(), Op: OpPing})
	elapsed := time.Since(start)
	if err != nil {
		return 0, connErr("ping", err)
	}
	if !resp.Ack {
		return 0, connErr("ping", fmt.Errorf("service did not acknowledge"))
	}
	return float64(elapsed) / float64(time.Millisecond), nil
}

// Close drops the connection. Subsequent calls fail unless the transport
// was created with an address to redial.
func (t *StreamTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dropConn()
	t.addr = ""
	return nil
}
