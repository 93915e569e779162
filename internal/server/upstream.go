package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

// apiKeyEnv names the env var holding the upstream API key, if any.
const apiKeyEnv = "DRAFT_UPSTREAM_API_KEY"

var whitespaceRe = regexp.MustCompile(`\s+`)

// stopSequences end a suggestion at sentence punctuation so the model
// returns short continuations rather than whole paragraphs.
var stopSequences = []string{"\n", ".", "!", "?", ";", ":", ","}

// upstreamClient calls an OpenAI-compatible chat completions endpoint.
type upstreamClient struct {
	client   *http.Client
	endpoint string
	model    string
}

func newUpstreamClient(baseURL, model string) *upstreamClient {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = 30 * time.Second
	return &upstreamClient{
		client:   client,
		endpoint: strings.TrimRight(baseURL, "/") + "/v1/chat/completions",
		model:    model,
	}
}

type upstreamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type upstreamRequest struct {
	Model       string            `json:"model,omitempty"`
	Messages    []upstreamMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	N           int               `json:"n"`
	Temperature float64           `json:"temperature"`
	TopP        float64           `json:"top_p"`
	Stop        []string          `json:"stop,omitempty"`
}

type upstreamResponse struct {
	Choices []struct {
		Message upstreamMessage `json:"message"`
	} `json:"choices"`
}

// complete asks the upstream model for continuations of req.Text.
func (u *upstreamClient) complete(ctx context.Context, req types.CompletionRequest) ([]string, error) {
	body, err := json.Marshal(upstreamRequest{
		Model: u.model,
		Messages: []upstreamMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.Text},
		},
		MaxTokens:   req.MaxTokens,
		N:           req.NumSuggestions,
		Temperature: req.Temperature,
		TopP:        0.9,
		Stop:        stopSequences,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding upstream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if key := os.Getenv(apiKeyEnv); key != "" {
		httpReq.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := u.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("upstream returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding upstream response: %w", err)
	}

	suggestions := make([]string, 0, len(parsed.Choices))
	for _, choice := range parsed.Choices {
		text := strings.TrimSpace(choice.Message.Content)
		if text != "" {
			suggestions = append(suggestions, text)
		}
	}
	return suggestions, nil
}

// cleanInput collapses whitespace and truncates to the trailing
// maxWords words so long buffers stay within the model's context.
func cleanInput(text string, maxWords int) string {
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	words := strings.Fields(text)
	if maxWords > 0 && len(words) > maxWords {
		words = words[len(words)-maxWords:]
		return strings.Join(words, " ")
	}
	return text
}
