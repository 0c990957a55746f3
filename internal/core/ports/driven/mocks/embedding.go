package mocks

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
)

// MockEmbeddingService is a mock implementation of EmbeddingService for testing.
// By default it produces deterministic hash-based vectors; tests that need
// meaningful similarity can switch to term-overlap vectors with a vocabulary.
type MockEmbeddingService struct {
	mu         sync.Mutex
	dimensions int
	model      string
	failNext   bool
	vocabulary []string
	embedCalls int
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{
		dimensions: 384,
		model:      "mock-embedding-model",
	}
}

func (m *MockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.embedCalls++
	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}

	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.generateEmbedding(text)
	}
	return result, nil
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}
	return m.generateEmbedding(query), nil
}

func (m *MockEmbeddingService) Dimensions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dimensions
}

func (m *MockEmbeddingService) Model() string {
	return m.model
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	return nil
}

func (m *MockEmbeddingService) Close() error {
	return nil
}

// generateEmbedding produces a deterministic vector. With a vocabulary set,
// component i counts occurrences of vocabulary[i] in the lowercased text, so
// cosine similarity tracks term overlap. Without one, the vector is derived
// from a hash of the text.
func (m *MockEmbeddingService) generateEmbedding(text string) []float32 {
	if len(m.vocabulary) > 0 {
		embedding := make([]float32, len(m.vocabulary))
		lower := strings.ToLower(text)
		for i, term := range m.vocabulary {
			embedding[i] = float32(strings.Count(lower, term))
		}
		return embedding
	}

	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		// Deterministic pseudo-random values
		seed = seed*1103515245 + 12345
		embedding[i] = float32(seed%1000) / 1000.0
	}
	return embedding
}

// Helper methods for testing

// SetFailNext makes the next Embed or EmbedQuery call fail
func (m *MockEmbeddingService) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

// SetDimensions changes the hash-based vector size
func (m *MockEmbeddingService) SetDimensions(dim int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimensions = dim
}

// SetVocabulary switches to term-overlap embeddings over the given terms
func (m *MockEmbeddingService) SetVocabulary(terms []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vocabulary = terms
	m.dimensions = len(terms)
}

// EmbedCalls returns the number of batch Embed invocations
func (m *MockEmbeddingService) EmbedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls
}
