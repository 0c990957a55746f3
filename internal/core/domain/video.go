package domain

import "time"

// TranscriptDocument is the full normalized transcript of one video.
// It is created once per process call and never mutated; only the index
// derived from it outlives the processing pipeline.
type TranscriptDocument struct {
	VideoID   string    `json:"video_id"`
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Chunk is a bounded contiguous span of transcript text treated as one
// retrieval unit. ID is the chunk's ordinal within its video. Offsets are
// character positions into the normalized transcript, kept for future
// citation support.
type Chunk struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}

// Conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one utterance in the running dialogue for a session.
type ConversationTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is the live, queryable state associated with one processed video:
// its vector index plus the conversation so far. Sessions are owned by the
// session cache and keyed by video ID; at most one exists per video at any
// time. Re-processing a video replaces its session and discards the history.
type Session struct {
	VideoID        string             `json:"video_id"`
	Index          *VideoIndex        `json:"-"`
	History        []ConversationTurn `json:"history"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
}

// NewSession creates a session for a freshly built index with an empty history.
func NewSession(videoID string, index *VideoIndex) *Session {
	now := time.Now()
	return &Session{
		VideoID:        videoID,
		Index:          index,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

// Snapshot returns a copy of the session safe to use outside the cache lock.
// The history slice is copied; the index is shared, which is safe because an
// index is immutable after build and remains valid even if the session is
// evicted while the snapshot is in use.
func (s *Session) Snapshot() *Session {
	cp := *s
	cp.History = make([]ConversationTurn, len(s.History))
	copy(cp.History, s.History)
	return &cp
}

// ProcessResult is the outcome of a successful process operation.
type ProcessResult struct {
	VideoID    string `json:"video_id"`
	Status     string `json:"status"`
	ChunkCount int    `json:"chunk_count"`
	Language   string `json:"language,omitempty"`
}

// Answer is the outcome of a successful ask operation.
type Answer struct {
	VideoID string `json:"video_id"`
	Answer  string `json:"answer"`
}
