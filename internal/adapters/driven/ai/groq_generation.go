package ai

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Ankush70788/vidqa-core/internal/core/ports/driven"
)

// Ensure GroqGeneration implements GenerationService
var _ driven.GenerationService = (*GroqGeneration)(nil)

// Default Groq configuration. Groq exposes an OpenAI-compatible API, so the
// OpenAI client is pointed at its base URL.
const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "moonshotai/kimi-k2-instruct-0905"
)

// GroqGeneration implements GenerationService using Groq's chat completion API
type GroqGeneration struct {
	client *openai.Client
	model  string
}

// NewGroqGeneration creates a new Groq generation service
func NewGroqGeneration(apiKey, model, baseURL string) (driven.GenerationService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Groq API key is required")
	}
	if model == "" {
		model = DefaultGroqModel
	}
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &GroqGeneration{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Chat runs a chat completion over the given messages
func (g *GroqGeneration) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	// The request struct marks Temperature omitempty, so an explicit 0 must
	// go through the client's near-zero sentinel or Groq falls back to its
	// own default.
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    chatMessages,
		Temperature: temperature,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// Model returns the model name being used
func (g *GroqGeneration) Model() string {
	return g.model
}

// HealthCheck verifies the generation service is available. It lists models
// rather than running a completion, so readiness probes consume no tokens.
func (g *GroqGeneration) HealthCheck(ctx context.Context) error {
	_, err := g.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("groq list models: %w", err)
	}
	return nil
}

// Close releases resources held by the generation service
func (g *GroqGeneration) Close() error {
	return nil
}
