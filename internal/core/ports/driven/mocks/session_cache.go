package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
)

// MockSessionCache is an unbounded map-backed SessionCache for testing
type MockSessionCache struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	putErr   error
}

// NewMockSessionCache creates a new MockSessionCache
func NewMockSessionCache() *MockSessionCache {
	return &MockSessionCache{
		sessions: make(map[string]*domain.Session),
	}
}

// SetPutError makes every subsequent Put fail with err until cleared
func (m *MockSessionCache) SetPutError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putErr = err
}

func (m *MockSessionCache) Put(ctx context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.putErr != nil {
		return m.putErr
	}
	m.sessions[session.VideoID] = session
	return nil
}

func (m *MockSessionCache) Get(ctx context.Context, videoID string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[videoID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	session.LastAccessedAt = time.Now()
	return session.Snapshot(), nil
}

func (m *MockSessionCache) AppendTurns(ctx context.Context, videoID string, turns ...domain.ConversationTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[videoID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.History = append(session.History, turns...)
	session.LastAccessedAt = time.Now()
	return nil
}

func (m *MockSessionCache) Evict(ctx context.Context, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, videoID)
	return nil
}

func (m *MockSessionCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
