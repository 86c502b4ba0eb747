package llm

import "context"

// Provider is one transport to a remote text-generation service.
// Implementations return free text; callers never assume the text is
// well-formed JSON or even non-empty.
type Provider interface {
	// Generate sends the conversation and returns the model's reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt. Empty means none.
	System string

	// Messages is the conversation history in order.
	Messages []Message

	// MaxTokens bounds the reply length. Zero selects DefaultMaxTokens.
	MaxTokens int

	// Temperature controls randomness. Zero selects DefaultTemperature.
	Temperature float64
}

const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
)

// withDefaults fills unset generation parameters.
func (r Request) withDefaults() Request {
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	if r.Temperature <= 0 {
		r.Temperature = DefaultTemperature
	}
	return r
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model's output.
type Response struct {
	// Text is the raw reply.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
