package transport

// Frame types for the stream strategy, shared with the relay's stream
// listener. Each exchange is one msgpack request frame answered by one
// response frame, correlated by ID.

// Stream operations.
const (
	OpComplete = "complete"
	OpPing     = "ping"
)

// StreamRequest is a client frame.
type StreamRequest struct {
	ID             string  `msgpack:"id"`
	Op             string  `msgpack:"op"`
	Text           string  `msgpack:"text,omitempty"`
	SystemPrompt   string  `msgpack:"sys,omitempty"`
	MaxTokens      int     `msgpack:"max,omitempty"`
	NumSuggestions int     `msgpack:"n,omitempty"`
	Temperature    float64 `msgpack:"temp,omitempty"`
}

// StreamResponse is a service frame. Ping exchanges carry only ID and Ack.
type StreamResponse struct {
	ID          string   `msgpack:"id"`
	Suggestions []string `msgpack:"s,omitempty"`
	ServerMs    float64  `msgpack:"t,omitempty"`
	Ack         bool     `msgpack:"ack,omitempty"`
	Error       string   `msgpack:"e,omitempty"`
}
