package mocks

import (
	"context"
	"sync"

	"github.com/Ankush70788/vidqa-core/internal/core/ports/driven"
)

// MockGenerationService is a mock implementation of GenerationService for testing
type MockGenerationService struct {
	mu        sync.Mutex
	model     string
	answer    string
	failNext  bool
	lastChat  []driven.ChatMessage
	chatCalls int
}

// NewMockGenerationService creates a new MockGenerationService
func NewMockGenerationService() *MockGenerationService {
	return &MockGenerationService{
		model:  "mock-generation-model",
		answer: "mock answer",
	}
}

func (m *MockGenerationService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.chatCalls++
	m.lastChat = append([]driven.ChatMessage(nil), messages...)
	if m.failNext {
		m.failNext = false
		return "", context.DeadlineExceeded
	}
	return m.answer, nil
}

func (m *MockGenerationService) Model() string {
	return m.model
}

func (m *MockGenerationService) HealthCheck(ctx context.Context) error {
	return nil
}

func (m *MockGenerationService) Close() error {
	return nil
}

// Helper methods for testing

// SetAnswer sets the canned answer returned by Chat
func (m *MockGenerationService) SetAnswer(answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answer = answer
}

// SetFailNext makes the next Chat call fail
func (m *MockGenerationService) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

// LastChat returns the messages passed to the most recent Chat call
func (m *MockGenerationService) LastChat() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]driven.ChatMessage(nil), m.lastChat...)
}

// ChatCalls returns the number of Chat invocations
func (m *MockGenerationService) ChatCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chatCalls
}
