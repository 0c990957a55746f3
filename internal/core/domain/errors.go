package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrTranscriptNotFound indicates the video has no caption track
	ErrTranscriptNotFound = errors.New("transcript not found")

	// ErrTranscriptUnavailable indicates the transcript provider could not be reached
	ErrTranscriptUnavailable = errors.New("transcript unavailable")

	// ErrEmptyTranscript indicates the transcript was blank after normalization
	ErrEmptyTranscript = errors.New("empty transcript")

	// ErrInvalidConfig indicates invalid engine configuration
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidVideoURL indicates the URL does not resolve to a video identifier
	ErrInvalidVideoURL = errors.New("invalid video url")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrEmbeddingUnavailable indicates the embedding provider failed or timed out
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrGenerationUnavailable indicates the generation provider failed or timed out
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrEmptyIndex indicates an index build was attempted with zero entries
	ErrEmptyIndex = errors.New("empty index")

	// ErrSessionNotFound indicates the video was never processed or was evicted
	ErrSessionNotFound = errors.New("session not found")
)
