package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
)

// MockTranscriptSource is a mock implementation of TranscriptSource for testing
type MockTranscriptSource struct {
	mu          sync.Mutex
	transcripts map[string]string
	fetchCalls  int
	nextErr     error
	delay       time.Duration
}

// NewMockTranscriptSource creates a new MockTranscriptSource
func NewMockTranscriptSource() *MockTranscriptSource {
	return &MockTranscriptSource{
		transcripts: make(map[string]string),
	}
}

// SetTranscript registers a transcript for a video ID
func (m *MockTranscriptSource) SetTranscript(videoID, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transcripts[videoID] = text
}

// SetNextError makes every subsequent Fetch fail with err until cleared
func (m *MockTranscriptSource) SetNextError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextErr = err
}

// SetDelay makes Fetch sleep before returning, for concurrency tests
func (m *MockTranscriptSource) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// FetchCalls returns the number of Fetch invocations
func (m *MockTranscriptSource) FetchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

func (m *MockTranscriptSource) Fetch(ctx context.Context, videoID string, preferredLanguages []string) (*domain.TranscriptDocument, error) {
	m.mu.Lock()
	m.fetchCalls++
	text, ok := m.transcripts[videoID]
	err := m.nextErr
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrTranscriptNotFound
	}
	if text == "" {
		return nil, domain.ErrEmptyTranscript
	}

	return &domain.TranscriptDocument{
		VideoID:   videoID,
		Text:      text,
		Language:  "en",
		FetchedAt: time.Now(),
	}, nil
}
