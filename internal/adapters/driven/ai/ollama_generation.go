package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ankush70788/vidqa-core/internal/core/ports/driven"
)

// Ensure OllamaGeneration implements GenerationService
var _ driven.GenerationService = (*OllamaGeneration)(nil)

// DefaultOllamaGenerationModel is the default chat model.
const DefaultOllamaGenerationModel = "llama3.2"

// OllamaGeneration implements GenerationService using a local Ollama instance
type OllamaGeneration struct {
	baseURL string
	model   string
	client  *http.Client
}

// ollamaChatRequest is the Ollama /api/chat request format
type ollamaChatRequest struct {
	Model    string             `json:"model"`
	Messages []ollamaChatMsg    `json:"messages"`
	Stream   bool               `json:"stream"`
	Options  map[string]float64 `json:"options,omitempty"`
}

type ollamaChatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ollamaChatResponse is the Ollama /api/chat response format
type ollamaChatResponse struct {
	Message ollamaChatMsg `json:"message"`
	Done    bool          `json:"done"`
}

// NewOllamaGeneration creates a new Ollama generation service
func NewOllamaGeneration(baseURL, model string) (driven.GenerationService, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if model == "" {
		model = DefaultOllamaGenerationModel
	}

	return &OllamaGeneration{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}, nil
}

// Chat runs a chat completion over the given messages
func (g *OllamaGeneration) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	chatMessages := make([]ollamaChatMsg, len(messages))
	for i, msg := range messages {
		chatMessages[i] = ollamaChatMsg{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	reqBody := ollamaChatRequest{
		Model:    g.model,
		Messages: chatMessages,
		Stream:   false,
		Options: map[string]float64{
			"temperature": float64(opts.Temperature),
		},
	}
	if opts.MaxTokens > 0 {
		reqBody.Options["num_predict"] = float64(opts.MaxTokens)
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	return chatResp.Message.Content, nil
}

// Model returns the model name being used
func (g *OllamaGeneration) Model() string {
	return g.model
}

// HealthCheck verifies the generation service is available
func (g *OllamaGeneration) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources held by the generation service
func (g *OllamaGeneration) Close() error {
	g.client.CloseIdleConnections()
	return nil
}
