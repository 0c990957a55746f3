package driving

import (
	"context"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
)

// AssistantService exposes the two public pipeline operations plus explicit
// session reset. It is consumed by the transport layer.
type AssistantService interface {
	// ProcessVideo fetches, chunks, embeds and indexes a video's transcript
	// and publishes the resulting session. Re-processing a video replaces
	// its session. Concurrent calls for the same video coalesce onto one
	// in-flight build.
	ProcessVideo(ctx context.Context, videoID string) (*domain.ProcessResult, error)

	// AskQuestion answers a question about a processed video using retrieved
	// transcript passages and the session's conversation history. A non-nil
	// history overrides the session history for this call and the exchange
	// is not recorded. Fails with domain.ErrSessionNotFound if the video was
	// never processed or its session was evicted.
	AskQuestion(ctx context.Context, videoID, question string, history []domain.ConversationTurn) (*domain.Answer, error)

	// ResetSession evicts a video's session. Idempotent.
	ResetSession(ctx context.Context, videoID string) error
}
