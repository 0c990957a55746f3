package services

import (
	"fmt"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
)

// Chunker splits normalized transcript text into overlapping fixed-size
// passages. Splitting is deterministic and pure: the same input always
// yields identical chunk boundaries.
type Chunker struct {
	windowSize int
	overlap    int
}

// NewChunker creates a chunker with the given window size and overlap, both
// in characters. The overlap keeps semantically relevant spans retrievable
// when they would otherwise be split exactly at a chunk boundary.
func NewChunker(windowSize, overlap int) (*Chunker, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: chunk window size must be positive, got %d", domain.ErrInvalidConfig, windowSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must be non-negative, got %d", domain.ErrInvalidConfig, overlap)
	}
	if overlap >= windowSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than window size %d",
			domain.ErrInvalidConfig, overlap, windowSize)
	}

	return &Chunker{
		windowSize: windowSize,
		overlap:    overlap,
	}, nil
}

// Split produces the ordered chunks of a transcript document. Chunks start
// at offsets 0, W-O, 2(W-O), ... until the text is exhausted; the final
// chunk may be shorter than the window. Text no longer than one window
// yields exactly one chunk.
func (c *Chunker) Split(doc *domain.TranscriptDocument) []domain.Chunk {
	if doc.Text == "" {
		return nil
	}

	// Window, overlap and offsets count characters, not bytes, so chunk
	// boundaries never land inside a multi-byte rune.
	text := []rune(doc.Text)

	// Text that fits one window is exactly one chunk.
	if len(text) <= c.windowSize {
		return []domain.Chunk{{
			ID:          0,
			Text:        doc.Text,
			StartOffset: 0,
			EndOffset:   len(text),
		}}
	}

	stride := c.windowSize - c.overlap
	chunks := make([]domain.Chunk, 0, len(text)/stride+1)

	for start := 0; start < len(text); start += stride {
		end := start + c.windowSize
		if end > len(text) {
			end = len(text)
		}

		chunks = append(chunks, domain.Chunk{
			ID:          len(chunks),
			Text:        string(text[start:end]),
			StartOffset: start,
			EndOffset:   end,
		})
	}

	return chunks
}

// WindowSize returns the configured chunk size in characters.
func (c *Chunker) WindowSize() int {
	return c.windowSize
}

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int {
	return c.overlap
}
