package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

const httpTimeout = 30 * time.Second

// HTTPTransport talks to the service with one JSON POST per request.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTP creates an HTTP transport against baseURL, e.g.
// "http://127.0.0.1:8000".
func NewHTTP(baseURL string) *HTTPTransport {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = httpTimeout
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Send posts req to /api/complete.
func (t *HTTPTransport) Send(ctx context.Context, req types.CompletionRequest) (*types.CompletionResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding completion request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/complete", bytes.NewReader(body))
	if err != nil {
		return nil, connErr("send", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, connErr("send", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, connErr("send", fmt.Errorf("service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	var result types.CompletionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, connErr("send", fmt.Errorf("decoding response: %w", err))
	}
	return &result, nil
}

// Ping measures the round trip of a GET /api/ping. The model is not
// involved; any acknowledgment counts.
func (t *HTTPTransport) Ping(ctx context.Context) (float64, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/api/ping", nil)
	if err != nil {
		return 0, connErr("ping", err)
	}
	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return 0, connErr("ping", err)
	}
	elapsed := time.Since(start)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, connErr("ping", fmt.Errorf("service returned %d", resp.StatusCode))
	}
	return float64(elapsed) / float64(time.Millisecond), nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
