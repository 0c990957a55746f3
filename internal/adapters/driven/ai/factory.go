package ai

import (
	"fmt"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
	"github.com/Ankush70788/vidqa-core/internal/core/ports/driven"
)

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGroq   = "groq"
)

// EmbeddingSettings selects and configures an embedding provider.
type EmbeddingSettings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// GenerationSettings selects and configures a generation provider.
type GenerationSettings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// Factory creates AI services based on configuration
type Factory struct{}

// NewFactory creates a new AI service factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateEmbeddingService creates an embedding service from settings
func (f *Factory) CreateEmbeddingService(settings EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case ProviderOpenAI:
		return NewOpenAIEmbedding(settings.APIKey, settings.Model, settings.BaseURL)
	case ProviderOllama:
		return NewOllamaEmbedding(settings.BaseURL, settings.Model)
	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrInvalidProvider, settings.Provider)
	}
}

// CreateGenerationService creates a generation service from settings
func (f *Factory) CreateGenerationService(settings GenerationSettings) (driven.GenerationService, error) {
	switch settings.Provider {
	case ProviderGroq:
		return NewGroqGeneration(settings.APIKey, settings.Model, settings.BaseURL)
	case ProviderOllama:
		return NewOllamaGeneration(settings.BaseURL, settings.Model)
	default:
		return nil, fmt.Errorf("%w: generation provider %q", domain.ErrInvalidProvider, settings.Provider)
	}
}
