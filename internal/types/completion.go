package types

// DefaultSystemPrompt is the instruction passed verbatim to the
// completion service. It is tuned to keep the model from prefacing
// suggestions with filler.
const DefaultSystemPrompt = "You are an autocomplete assistant. Your task is to suggest ONLY the next few words that would naturally complete the user's text. IMPORTANT: Do not start suggestions with phrases like 'Based on', 'I would', 'You should', or any other filler words. Get straight to the point with the actual continuation. Do not add any context, explanations, or new sentences. Return only the direct continuation of the existing text. Keep suggestions concise and focused on completing the current thought."

// Generation defaults shared by the editor, the one-shot command, and
// the relay service.
const (
	DefaultMaxTokens      = 5
	DefaultNumSuggestions = 3
	DefaultTemperature    = 0.1
	DefaultDebounceMs     = 100
)

// CompletionRequest is one request to the completion service.
// Constructed fresh per debounce firing and never mutated.
type CompletionRequest struct {
	Text           string  `json:"text"`
	SystemPrompt   string  `json:"system_prompt"`
	MaxTokens      int     `json:"max_tokens"`
	NumSuggestions int     `json:"num_suggestions"`
	Temperature    float64 `json:"temperature"`
}

// NewCompletionRequest builds a request for text with the default
// generation parameters.
func NewCompletionRequest(text, systemPrompt string) CompletionRequest {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return CompletionRequest{
		Text:           text,
		SystemPrompt:   systemPrompt,
		MaxTokens:      DefaultMaxTokens,
		NumSuggestions: DefaultNumSuggestions,
		Temperature:    DefaultTemperature,
	}
}

// CompletionResult is the service's answer: ranked continuation strings
// plus the time the service spent producing them.
type CompletionResult struct {
	Suggestions      []string `json:"suggestions"`
	ServerProcessing float64  `json:"server_processing_time_ms"`
}

// LatencySample is the most recent timing measurement. Overwritten per
// request, never aggregated.
type LatencySample struct {
	RoundTripMs float64
	ServerMs    float64
	HasServerMs bool
}
