package driven

import (
	"context"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
)

// SessionCache owns the live sessions of the engine, keyed by video ID.
// It is bounded: when the configured number of resident sessions is exceeded,
// the least-recently-accessed session is evicted. Implementations must be
// safe for concurrent use.
type SessionCache interface {
	// Put stores a session, atomically replacing any existing session for
	// the same video ID. The replaced session's conversation history is
	// discarded: a re-processed video starts a fresh conversation.
	Put(ctx context.Context, session *domain.Session) error

	// Get returns a snapshot of the session for a video and marks it as
	// recently used. The snapshot's index is a shared immutable reference
	// that stays valid even if the session is evicted afterwards.
	// Fails with domain.ErrSessionNotFound on a miss.
	Get(ctx context.Context, videoID string) (*domain.Session, error)

	// AppendTurns appends conversation turns to a resident session in call
	// order and marks it as recently used.
	// Fails with domain.ErrSessionNotFound if the session was evicted.
	AppendTurns(ctx context.Context, videoID string, turns ...domain.ConversationTurn) error

	// Evict removes a session. Evicting an absent video ID is a no-op.
	Evict(ctx context.Context, videoID string) error

	// Len returns the number of resident sessions.
	Len() int
}
