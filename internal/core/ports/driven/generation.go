package driven

import (
	"context"
)

// ChatMessage is one message in a chat-completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions tunes a single generation request.
type ChatOptions struct {
	// MaxTokens is a hint for maximum completion length (0 = provider default).
	MaxTokens int

	// Temperature controls sampling randomness.
	Temperature float32
}

// GenerationService produces natural-language text from an assembled prompt.
type GenerationService interface {
	// Chat runs a chat completion over the given messages.
	// Provider failures and rate limits surface as
	// domain.ErrGenerationUnavailable; there is no internal retry.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the generation service is available
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the generation service
	Close() error
}
