package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ankush70788/vidqa-core/internal/adapters/driven/ai"
	"github.com/Ankush70788/vidqa-core/internal/adapters/driven/memory"
	"github.com/Ankush70788/vidqa-core/internal/adapters/driven/youtube"
	"github.com/Ankush70788/vidqa-core/internal/adapters/driving/http"
	"github.com/Ankush70788/vidqa-core/internal/core/domain"
	"github.com/Ankush70788/vidqa-core/internal/core/services"
)

var version = "dev"

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	log.Printf("vidqa-core %s starting", version)

	// Configuration from environment
	port := getEnvInt("PORT", 8000)
	allowedOrigins := strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",")
	languages := strings.Split(getEnv("TRANSCRIPT_LANGUAGES", "en"), ",")

	engine := domain.EngineConfig{
		ChunkWindowSize:   getEnvInt("CHUNK_WINDOW_SIZE", domain.DefaultChunkWindowSize),
		ChunkOverlap:      getEnvInt("CHUNK_OVERLAP", domain.DefaultChunkOverlap),
		RetrievalK:        getEnvInt("RETRIEVAL_K", domain.DefaultRetrievalK),
		MaxSessions:       getEnvInt("MAX_SESSIONS", domain.DefaultMaxSessions),
		HistoryWindow:     getEnvInt("HISTORY_WINDOW", domain.DefaultHistoryWindow),
		ContextBudget:     getEnvInt("CONTEXT_BUDGET", domain.DefaultContextBudget),
		SessionIdleTTL:    getEnvDuration("SESSION_IDLE_TTL", domain.DefaultSessionIdleTTL),
		TranscriptTimeout: getEnvDuration("TRANSCRIPT_TIMEOUT", domain.DefaultTranscriptTimeout),
		EmbeddingTimeout:  getEnvDuration("EMBEDDING_TIMEOUT", domain.DefaultEmbeddingTimeout),
		GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", domain.DefaultGenerationTimeout),
	}
	if err := engine.Validate(); err != nil {
		log.Fatalf("Invalid engine configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ===== AI providers =====
	factory := ai.NewFactory()

	embeddingProvider := getEnv("EMBEDDING_PROVIDER", ai.ProviderOpenAI)
	embeddings, err := factory.CreateEmbeddingService(ai.EmbeddingSettings{
		Provider: embeddingProvider,
		APIKey:   getEnv("OPENAI_API_KEY", ""),
		Model:    getEnv("EMBEDDING_MODEL", ""),
		BaseURL:  embeddingBaseURL(embeddingProvider),
	})
	if err != nil {
		log.Fatalf("Failed to create embedding service: %v", err)
	}
	defer embeddings.Close()
	log.Printf("Embedding provider: %s (model %s, %d dims)", embeddingProvider, embeddings.Model(), embeddings.Dimensions())

	generationProvider := getEnv("GENERATION_PROVIDER", ai.ProviderGroq)
	generation, err := factory.CreateGenerationService(ai.GenerationSettings{
		Provider: generationProvider,
		APIKey:   getEnv("GROQ_API_KEY", ""),
		Model:    getEnv("GENERATION_MODEL", ""),
		BaseURL:  generationBaseURL(generationProvider),
	})
	if err != nil {
		log.Fatalf("Failed to create generation service: %v", err)
	}
	defer generation.Close()
	log.Printf("Generation provider: %s (model %s)", generationProvider, generation.Model())

	// ===== Transcript source =====
	transcripts := youtube.NewTranscriptSource(youtube.Config{
		BaseURL: getEnv("TIMEDTEXT_BASE_URL", ""),
		Timeout: engine.TranscriptTimeout,
	})

	// ===== Session cache =====
	cache, err := memory.NewSessionCache(memory.Config{
		MaxSessions: engine.MaxSessions,
		IdleTTL:     engine.SessionIdleTTL,
		Logger:      slog.Default(),
	})
	if err != nil {
		log.Fatalf("Failed to create session cache: %v", err)
	}
	cache.StartJanitor(ctx)
	defer cache.StopJanitor()

	// ===== Core service =====
	assistant, err := services.NewAssistantService(services.AssistantConfig{
		Transcripts: transcripts,
		Embeddings:  embeddings,
		Generation:  generation,
		Cache:       cache,
		Engine:      engine,
		Languages:   languages,
		Logger:      slog.Default(),
	})
	if err != nil {
		log.Fatalf("Failed to create assistant service: %v", err)
	}

	log.Printf("Engine config: window=%d overlap=%d k=%d max_sessions=%d history_window=%d",
		engine.ChunkWindowSize, engine.ChunkOverlap, engine.RetrievalK,
		engine.MaxSessions, engine.HistoryWindow)

	// ===== HTTP server =====
	server := http.NewServer(
		http.Config{
			Host:           getEnv("HOST", "0.0.0.0"),
			Port:           port,
			Version:        version,
			AllowedOrigins: allowedOrigins,
		},
		assistant,
		embeddings,
		generation,
	)

	log.Printf("API server starting on :%d", port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func embeddingBaseURL(provider string) string {
	if provider == ai.ProviderOllama {
		return getEnv("OLLAMA_URL", "")
	}
	return getEnv("OPENAI_BASE_URL", "")
}

func generationBaseURL(provider string) string {
	if provider == ai.ProviderOllama {
		return getEnv("OLLAMA_URL", "")
	}
	return getEnv("GROQ_BASE_URL", "")
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
