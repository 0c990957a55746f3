package driven

import (
	"context"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
)

// TranscriptSource fetches the transcript of a video.
type TranscriptSource interface {
	// Fetch returns the normalized transcript for a video.
	// preferredLanguages are tried in order; an empty list accepts any
	// available caption track.
	//
	// Fails with domain.ErrTranscriptNotFound if the video has no caption
	// track, domain.ErrTranscriptUnavailable on provider or network failure,
	// and domain.ErrEmptyTranscript if the resolved text is blank after
	// normalization. Transient failures are not retried here; that decision
	// belongs to the caller.
	Fetch(ctx context.Context, videoID string, preferredLanguages []string) (*domain.TranscriptDocument, error)
}
