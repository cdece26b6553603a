package driven

import "context"

// LLMService produces grounded answers from a conversation transcript.
// This is an optional service - when nil, chat degrades to plain
// retrieval output.
//
// Implementations may include:
//   - OpenAI (gpt-4o, gpt-4o-mini)
//   - Compatible inference servers behind the same REST shape
type LLMService interface {
	// Chat conducts a conversation and returns the assistant's reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
