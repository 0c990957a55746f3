package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultEngineConfig(t *testing.T) {
	cfg := DefaultEngineConfig()

	if cfg.ChunkWindowSize != 1000 {
		t.Errorf("expected window size 1000, got %d", cfg.ChunkWindowSize)
	}
	if cfg.ChunkOverlap != 200 {
		t.Errorf("expected overlap 200, got %d", cfg.ChunkOverlap)
	}
	if cfg.RetrievalK != 4 {
		t.Errorf("expected retrieval k 4, got %d", cfg.RetrievalK)
	}
	if cfg.MaxSessions != 100 {
		t.Errorf("expected max sessions 100, got %d", cfg.MaxSessions)
	}
	if cfg.SessionIdleTTL != 30*time.Minute {
		t.Errorf("expected idle TTL 30m, got %v", cfg.SessionIdleTTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestEngineConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"zero window", func(c *EngineConfig) { c.ChunkWindowSize = 0 }},
		{"negative overlap", func(c *EngineConfig) { c.ChunkOverlap = -1 }},
		{"overlap equals window", func(c *EngineConfig) { c.ChunkOverlap = c.ChunkWindowSize }},
		{"zero retrieval k", func(c *EngineConfig) { c.RetrievalK = 0 }},
		{"zero max sessions", func(c *EngineConfig) { c.MaxSessions = 0 }},
		{"negative history window", func(c *EngineConfig) { c.HistoryWindow = -1 }},
		{"zero context budget", func(c *EngineConfig) { c.ContextBudget = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEngineConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
