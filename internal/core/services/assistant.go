package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
	"github.com/Ankush70788/vidqa-core/internal/core/ports/driven"
	"github.com/Ankush70788/vidqa-core/internal/core/ports/driving"
)

// StatusReady is the status reported after a successful process call.
const StatusReady = "ready"

// Ensure assistantService implements AssistantService
var _ driving.AssistantService = (*assistantService)(nil)

// AssistantConfig holds the dependencies of the assistant service.
type AssistantConfig struct {
	Transcripts driven.TranscriptSource
	Embeddings  driven.EmbeddingService
	Generation  driven.GenerationService
	Cache       driven.SessionCache
	Engine      domain.EngineConfig
	Languages   []string // preferred transcript languages, in order
	Logger      *slog.Logger
}

// assistantService orchestrates the per-video pipeline: transcript fetch,
// chunking, embedding, index build and session caching on the process side;
// retrieval, prompt assembly and generation on the answer side.
type assistantService struct {
	transcripts driven.TranscriptSource
	embeddings  driven.EmbeddingService
	generation  driven.GenerationService
	cache       driven.SessionCache
	chunker     *Chunker
	prompts     *PromptBuilder
	engine      domain.EngineConfig
	languages   []string
	logger      *slog.Logger

	// inflight coalesces concurrent process calls for the same video so an
	// expensive embedding pass runs at most once per video at a time.
	inflight singleflight.Group
}

// NewAssistantService creates an AssistantService from its dependencies.
func NewAssistantService(cfg AssistantConfig) (driving.AssistantService, error) {
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}

	chunker, err := NewChunker(cfg.Engine.ChunkWindowSize, cfg.Engine.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &assistantService{
		transcripts: cfg.Transcripts,
		embeddings:  cfg.Embeddings,
		generation:  cfg.Generation,
		cache:       cfg.Cache,
		chunker:     chunker,
		prompts:     NewPromptBuilder(cfg.Engine.HistoryWindow, cfg.Engine.ContextBudget),
		engine:      cfg.Engine,
		languages:   cfg.Languages,
		logger:      logger,
	}, nil
}

// ProcessVideo builds and publishes the session for a video. The session is
// assembled fully off to the side and only published into the cache on
// success, so a failed build never overwrites a prior ready session.
func (s *assistantService) ProcessVideo(ctx context.Context, videoID string) (*domain.ProcessResult, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: empty video id", domain.ErrInvalidInput)
	}

	v, err, shared := s.inflight.Do(videoID, func() (interface{}, error) {
		// The build serves every coalesced caller, so it must not die with
		// the first caller's context. The per-stage timeouts still bound it.
		return s.buildSession(context.WithoutCancel(ctx), videoID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("process call coalesced onto in-flight build", "video_id", videoID)
	}
	return v.(*domain.ProcessResult), nil
}

func (s *assistantService) buildSession(ctx context.Context, videoID string) (*domain.ProcessResult, error) {
	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, s.engine.TranscriptTimeout)
	doc, err := s.transcripts.Fetch(fetchCtx, videoID, s.languages)
	cancel()
	if err != nil {
		return nil, s.wrapTranscriptErr(videoID, err)
	}

	chunks := s.chunker.Split(doc)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: video %s", domain.ErrEmptyTranscript, videoID)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.engine.EmbeddingTimeout)
	vectors, err := s.embeddings.Embed(embedCtx, texts)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	index, err := domain.BuildVideoIndex(videoID, chunks, vectors)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, domain.NewSession(videoID, index)); err != nil {
		return nil, err
	}

	s.logger.Info("video processed",
		"video_id", videoID,
		"language", doc.Language,
		"transcript_chars", len(doc.Text),
		"chunks", len(chunks),
		"dimensions", index.Dimensions(),
		"took", time.Since(start),
	)

	return &domain.ProcessResult{
		VideoID:    videoID,
		Status:     StatusReady,
		ChunkCount: len(chunks),
		Language:   doc.Language,
	}, nil
}

// AskQuestion answers one question against a processed video. A failed call
// never mutates the session's history, so a caller retry sees clean state.
func (s *assistantService) AskQuestion(ctx context.Context, videoID, question string, history []domain.ConversationTurn) (*domain.Answer, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: empty video id", domain.ErrInvalidInput)
	}
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	session, err := s.cache.Get(ctx, videoID)
	if err != nil {
		return nil, err
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.engine.EmbeddingTimeout)
	queryVector, err := s.embeddings.EmbedQuery(embedCtx, question)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	chunks, err := session.Index.Retrieve(queryVector, s.engine.RetrievalK)
	if err != nil {
		return nil, err
	}

	// A caller-supplied history makes the call stateless: it replaces the
	// session history and the exchange is not recorded.
	stateless := history != nil
	if !stateless {
		history = session.History
	}

	messages := s.prompts.Build(question, chunks, history)

	genCtx, cancel := context.WithTimeout(ctx, s.engine.GenerationTimeout)
	answer, err := s.generation.Chat(genCtx, messages, driven.ChatOptions{Temperature: 0})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}

	if !stateless {
		err := s.cache.AppendTurns(ctx, videoID,
			domain.ConversationTurn{Role: domain.RoleUser, Text: question},
			domain.ConversationTurn{Role: domain.RoleAssistant, Text: answer},
		)
		if errors.Is(err, domain.ErrSessionNotFound) {
			// Session was evicted while the answer was generated; the answer
			// is still valid, the conversation just starts over.
			s.logger.Warn("session evicted mid-answer, history dropped", "video_id", videoID)
		} else if err != nil {
			return nil, err
		}
	}

	return &domain.Answer{
		VideoID: videoID,
		Answer:  answer,
	}, nil
}

// ResetSession evicts a video's session. Resetting an absent session is a no-op.
func (s *assistantService) ResetSession(ctx context.Context, videoID string) error {
	if videoID == "" {
		return fmt.Errorf("%w: empty video id", domain.ErrInvalidInput)
	}
	return s.cache.Evict(ctx, videoID)
}

// wrapTranscriptErr keeps domain errors intact and folds everything else
// into ErrTranscriptUnavailable.
func (s *assistantService) wrapTranscriptErr(videoID string, err error) error {
	switch {
	case errors.Is(err, domain.ErrTranscriptNotFound),
		errors.Is(err, domain.ErrEmptyTranscript),
		errors.Is(err, domain.ErrTranscriptUnavailable):
		return err
	default:
		return fmt.Errorf("%w: video %s: %v", domain.ErrTranscriptUnavailable, videoID, err)
	}
}
