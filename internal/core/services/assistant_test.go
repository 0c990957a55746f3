package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
	"github.com/Ankush70788/vidqa-core/internal/core/ports/driven/mocks"
	"github.com/Ankush70788/vidqa-core/internal/core/ports/driving"
)

type testFixture struct {
	transcripts *mocks.MockTranscriptSource
	embeddings  *mocks.MockEmbeddingService
	generation  *mocks.MockGenerationService
	cache       *mocks.MockSessionCache
	svc         driving.AssistantService
}

// newTestFixture wires the assistant service with all mocks. The embedding
// mock uses a term vocabulary so retrieval similarity tracks word overlap.
func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	transcripts := mocks.NewMockTranscriptSource()
	embeddings := mocks.NewMockEmbeddingService()
	embeddings.SetVocabulary([]string{"sky", "blue", "grass", "green", "alice", "bob", "color"})
	generation := mocks.NewMockGenerationService()
	cache := mocks.NewMockSessionCache()

	cfg := domain.DefaultEngineConfig()
	cfg.ChunkWindowSize = 30
	cfg.ChunkOverlap = 5
	cfg.RetrievalK = 1

	svc, err := NewAssistantService(AssistantConfig{
		Transcripts: transcripts,
		Embeddings:  embeddings,
		Generation:  generation,
		Cache:       cache,
		Engine:      cfg,
		Languages:   []string{"en"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return &testFixture{
		transcripts: transcripts,
		embeddings:  embeddings,
		generation:  generation,
		cache:       cache,
		svc:         svc,
	}
}

const testTranscript = "Alice said the sky is blue. Bob said the grass is green."

func TestAssistantService_ProcessVideo(t *testing.T) {
	f := newTestFixture(t)
	f.transcripts.SetTranscript("video-1", testTranscript)

	result, err := f.svc.ProcessVideo(context.Background(), "video-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.VideoID != "video-1" {
		t.Errorf("expected video ID 'video-1', got %s", result.VideoID)
	}
	if result.Status != StatusReady {
		t.Errorf("expected status %s, got %s", StatusReady, result.Status)
	}
	if result.ChunkCount != 3 {
		t.Errorf("expected 3 chunks, got %d", result.ChunkCount)
	}
	if f.cache.Len() != 1 {
		t.Errorf("expected 1 resident session, got %d", f.cache.Len())
	}
}

func TestAssistantService_ProcessVideo_EmptyID(t *testing.T) {
	f := newTestFixture(t)

	_, err := f.svc.ProcessVideo(context.Background(), "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAssistantService_ProcessVideo_TranscriptNotFound(t *testing.T) {
	f := newTestFixture(t)

	_, err := f.svc.ProcessVideo(context.Background(), "missing-video")
	if !errors.Is(err, domain.ErrTranscriptNotFound) {
		t.Errorf("expected ErrTranscriptNotFound, got %v", err)
	}
	if f.cache.Len() != 0 {
		t.Errorf("expected no sessions after failure, got %d", f.cache.Len())
	}
}

func TestAssistantService_ProcessVideo_EmbeddingFailure(t *testing.T) {
	f := newTestFixture(t)
	f.transcripts.SetTranscript("video-1", testTranscript)

	f.embeddings.SetFailNext(true)
	_, err := f.svc.ProcessVideo(context.Background(), "video-1")
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
	}
	if f.cache.Len() != 0 {
		t.Errorf("expected no sessions after failure, got %d", f.cache.Len())
	}
}

func TestAssistantService_ProcessVideo_FailureKeepsPriorSession(t *testing.T) {
	f := newTestFixture(t)
	f.transcripts.SetTranscript("video-1", testTranscript)

	if _, err := f.svc.ProcessVideo(context.Background(), "video-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AskQuestion(context.Background(), "video-1", "what color is the sky", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A failed re-process must not disturb the ready session or its history.
	f.embeddings.SetFailNext(true)
	if _, err := f.svc.ProcessVideo(context.Background(), "video-1"); err == nil {
		t.Fatal("expected re-process to fail")
	}

	session, err := f.cache.Get(context.Background(), "video-1")
	if err != nil {
		t.Fatalf("expected session to survive failed re-process: %v", err)
	}
	if len(session.History) != 2 {
		t.Errorf("expected 2 history turns, got %d", len(session.History))
	}
}

func TestAssistantService_ProcessVideo_ReprocessDiscardsHistory(t *testing.T) {
	f := newTestFixture(t)
	f.transcripts.SetTranscript("video-1", testTranscript)

	if _, err := f.svc.ProcessVideo(context.Background(), "video-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AskQuestion(context.Background(), "video-1", "what color is the sky", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.ProcessVideo(context.Background(), "video-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session, err := f.cache.Get(context.Background(), "video-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(session.History) != 0 {
		t.Errorf("expected fresh history after re-process, got %d turns", len(session.History))
	}
}

func TestAssistantService_ProcessVideo_Coalesced(t *testing.T) {
	f := newTestFixture(t)
	f.transcripts.SetTranscript("video-1", testTranscript)
	f.transcripts.SetDelay(50 * time.Millisecond)

	var wg sync.WaitGroup
	errs := make([]error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.ProcessVideo(context.Background(), "video-1")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}
	if calls := f.embeddings.EmbedCalls(); calls != 1 {
		t.Errorf("expected 1 embedding pass for concurrent process calls, got %d", calls)
	}
}

func TestAssistantService_ProcessVideo_SurvivesCallerCancellation(t *testing.T) {
	f := newTestFixture(t)
	f.transcripts.SetTranscript("video-1", testTranscript)
	f.transcripts.SetDelay(100 * time.Millisecond)

	// The first caller gives up mid-build; the coalesced caller must still
	// get a completed session.
	cancelCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = f.svc.ProcessVideo(cancelCtx, "video-1")
	}()
	go func() {
		defer wg.Done()
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	// Join the in-flight build started by the cancelled caller.
	time.Sleep(10 * time.Millisecond)
	result, err := f.svc.ProcessVideo(context.Background(), "video-1")
	wg.Wait()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusReady {
		t.Errorf("expected status %s, got %s", StatusReady, result.Status)
	}
	if f.cache.Len() != 1 {
		t.Errorf("expected 1 resident session, got %d", f.cache.Len())
	}
}

func TestAssistantService_AskQuestion(t *testing.T) {
	f := newTestFixture(t)
	f.transcripts.SetTranscript("video-1", testTranscript)
	f.generation.SetAnswer("The sky is blue.")

	if _, err := f.svc.ProcessVideo(context.Background(), "video-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answer, err := f.svc.AskQuestion(context.Background(), "video-1", "what color is the sky", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Answer != "The sky is blue." {
		t.Errorf("expected canned answer, got %q", answer.Answer)
	}

	// The top passage handed to generation must contain the matching span.
	messages := f.generation.LastChat()
	if len(messages) == 0 {
		t.Fatal("expected chat messages")
	}
	if messages[0].Role != "system" {
		t.Errorf("expected system message first, got %s", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "sky is blue") {
		t.Errorf("expected retrieved passage with 'sky is blue' in system message, got %q", messages[0].Content)
	}

	// The exchange is recorded in order.
	session, err := f.cache.Get(context.Background(), "video-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(session.History) != 2 {
		t.Fatalf("expected 2 history turns, got %d", len(session.History))
	}
	if session.History[0].Role != domain.RoleUser || session.History[1].Role != domain.RoleAssistant {
		t.Errorf("expected user then assistant turns, got %s then %s",
			session.History[0].Role, session.History[1].Role)
	}
}

func TestAssistantService_AskQuestion_Validation(t *testing.T) {
	f := newTestFixture(t)

	if _, err := f.svc.AskQuestion(context.Background(), "", "question", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty video id, got %v", err)
	}
	if _, err := f.svc.AskQuestion(context.Background(), "video-1", "", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty question, got %v", err)
	}
}

func TestAssistantService_AskQuestion_UnprocessedVideo(t *testing.T) {
	f := newTestFixture(t)

	_, err := f.svc.AskQuestion(context.Background(), "video-1", "question", nil)
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAssistantService_AskQuestion_GenerationFailureKeepsHistory(t *testing.T) {
	f := newTestFixture(t)
	f.transcripts.SetTranscript("video-1", testTranscript)

	if _, err := f.svc.ProcessVideo(context.Background(), "video-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AskQuestion(context.Background(), "video-1", "first question", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.generation.SetFailNext(true)
	_, err := f.svc.AskQuestion(context.Background(), "video-1", "second question", nil)
	if !errors.Is(err, domain.ErrGenerationUnavailable) {
		t.Errorf("expected ErrGenerationUnavailable, got %v", err)
	}

	// The failed exchange must not be recorded.
	session, err := f.cache.Get(context.Background(), "video-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(session.History) != 2 {
		t.Errorf("expected history unchanged at 2 turns, got %d", len(session.History))
	}
}

func TestAssistantService_AskQuestion_StatelessHistory(t *testing.T) {
	f := newTestFixture(t)
	f.transcripts.SetTranscript("video-1", testTranscript)

	if _, err := f.svc.ProcessVideo(context.Background(), "video-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	supplied := []domain.ConversationTurn{
		{Role: domain.RoleUser, Text: "earlier question"},
		{Role: domain.RoleAssistant, Text: "earlier answer"},
	}
	if _, err := f.svc.AskQuestion(context.Background(), "video-1", "follow-up", supplied); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Supplied history is used in the prompt but the exchange is not recorded.
	messages := f.generation.LastChat()
	found := false
	for _, msg := range messages {
		if msg.Content == "earlier question" {
			found = true
		}
	}
	if !found {
		t.Error("expected supplied history in the prompt")
	}

	session, err := f.cache.Get(context.Background(), "video-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(session.History) != 0 {
		t.Errorf("expected session history untouched, got %d turns", len(session.History))
	}
}

func TestAssistantService_ResetSession(t *testing.T) {
	f := newTestFixture(t)
	f.transcripts.SetTranscript("video-1", testTranscript)

	if _, err := f.svc.ProcessVideo(context.Background(), "video-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.ResetSession(context.Background(), "video-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.svc.AskQuestion(context.Background(), "video-1", "question", nil)
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after reset, got %v", err)
	}

	// Resetting an absent session is a no-op.
	if err := f.svc.ResetSession(context.Background(), "video-1"); err != nil {
		t.Errorf("expected no-op reset, got %v", err)
	}
}

func TestNewAssistantService_InvalidConfig(t *testing.T) {
	cfg := domain.DefaultEngineConfig()
	cfg.ChunkOverlap = cfg.ChunkWindowSize

	_, err := NewAssistantService(AssistantConfig{
		Transcripts: mocks.NewMockTranscriptSource(),
		Embeddings:  mocks.NewMockEmbeddingService(),
		Generation:  mocks.NewMockGenerationService(),
		Cache:       mocks.NewMockSessionCache(),
		Engine:      cfg,
	})
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
