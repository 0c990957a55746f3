package domain

import (
	"fmt"
	"time"
)

// Default engine configuration values.
const (
	DefaultChunkWindowSize   = 1000
	DefaultChunkOverlap      = 200
	DefaultRetrievalK        = 4
	DefaultMaxSessions       = 100
	DefaultHistoryWindow     = 10
	DefaultContextBudget     = 6000
	DefaultSessionIdleTTL    = 30 * time.Minute
	DefaultTranscriptTimeout = 30 * time.Second
	DefaultEmbeddingTimeout  = 60 * time.Second
	DefaultGenerationTimeout = 120 * time.Second
)

// EngineConfig holds the tunable knobs of the answering engine.
type EngineConfig struct {
	// ChunkWindowSize is the chunk size in characters.
	ChunkWindowSize int

	// ChunkOverlap is the number of characters shared by consecutive chunks.
	ChunkOverlap int

	// RetrievalK is the number of chunks retrieved per question.
	RetrievalK int

	// MaxSessions bounds the number of concurrently resident sessions.
	MaxSessions int

	// HistoryWindow is the number of most recent conversation turns included
	// in the prompt.
	HistoryWindow int

	// ContextBudget is the character budget for retrieved passages in the
	// prompt.
	ContextBudget int

	// SessionIdleTTL evicts sessions not accessed for this long. Zero
	// disables idle eviction.
	SessionIdleTTL time.Duration

	// Per-call timeouts for the external capabilities.
	TranscriptTimeout time.Duration
	EmbeddingTimeout  time.Duration
	GenerationTimeout time.Duration
}

// DefaultEngineConfig returns the default configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ChunkWindowSize:   DefaultChunkWindowSize,
		ChunkOverlap:      DefaultChunkOverlap,
		RetrievalK:        DefaultRetrievalK,
		MaxSessions:       DefaultMaxSessions,
		HistoryWindow:     DefaultHistoryWindow,
		ContextBudget:     DefaultContextBudget,
		SessionIdleTTL:    DefaultSessionIdleTTL,
		TranscriptTimeout: DefaultTranscriptTimeout,
		EmbeddingTimeout:  DefaultEmbeddingTimeout,
		GenerationTimeout: DefaultGenerationTimeout,
	}
}

// Validate checks the configuration for internal consistency.
func (c EngineConfig) Validate() error {
	if c.ChunkWindowSize <= 0 {
		return fmt.Errorf("%w: chunk window size must be positive, got %d", ErrInvalidConfig, c.ChunkWindowSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk overlap must be non-negative, got %d", ErrInvalidConfig, c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkWindowSize {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than window size %d",
			ErrInvalidConfig, c.ChunkOverlap, c.ChunkWindowSize)
	}
	if c.RetrievalK <= 0 {
		return fmt.Errorf("%w: retrieval k must be positive, got %d", ErrInvalidConfig, c.RetrievalK)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("%w: max sessions must be positive, got %d", ErrInvalidConfig, c.MaxSessions)
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("%w: history window must be non-negative, got %d", ErrInvalidConfig, c.HistoryWindow)
	}
	if c.ContextBudget <= 0 {
		return fmt.Errorf("%w: context budget must be positive, got %d", ErrInvalidConfig, c.ContextBudget)
	}
	return nil
}
