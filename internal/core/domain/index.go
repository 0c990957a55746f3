package domain

import (
	"fmt"
	"math"
	"sort"
)

// IndexEntry pairs a chunk with its embedding vector. Vectors are
// L2-normalized at build time so retrieval reduces to a dot product.
type IndexEntry struct {
	Chunk  Chunk
	Vector []float32
}

// VideoIndex holds the embedded chunks of exactly one video and supports
// nearest-neighbor retrieval by cosine similarity. The index is built once
// and never mutated afterwards, so Retrieve is safe for concurrent use
// without locking, and a reference handed out to a caller stays valid even
// after the index is dropped from the session cache.
type VideoIndex struct {
	videoID    string
	entries    []IndexEntry
	dimensions int
}

// BuildVideoIndex constructs an index from parallel chunk and vector slices.
// It fails with ErrEmptyIndex when there are no entries: a transcript that
// chunked to nothing is an ingestion failure, not a silently empty index.
// All vectors must share one dimension.
func BuildVideoIndex(videoID string, chunks []Chunk, vectors [][]float32) (*VideoIndex, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: video %s produced no chunks", ErrEmptyIndex, videoID)
	}
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("%w: %d chunks but %d vectors", ErrInvalidInput, len(chunks), len(vectors))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-dimension embedding", ErrInvalidInput)
	}

	entries := make([]IndexEntry, len(chunks))
	for i, chunk := range chunks {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("%w: embedding %d has dimension %d, want %d",
				ErrInvalidInput, i, len(vectors[i]), dim)
		}
		entries[i] = IndexEntry{
			Chunk:  chunk,
			Vector: l2Normalized(vectors[i]),
		}
	}

	// Entries ordered by chunk ID so equally-similar results tie-break by
	// document order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Chunk.ID < entries[j].Chunk.ID
	})

	return &VideoIndex{
		videoID:    videoID,
		entries:    entries,
		dimensions: dim,
	}, nil
}

// VideoID returns the identifier of the video this index was built from.
func (x *VideoIndex) VideoID() string {
	return x.videoID
}

// Len returns the number of indexed chunks.
func (x *VideoIndex) Len() int {
	return len(x.entries)
}

// Dimensions returns the embedding dimension shared by all entries.
func (x *VideoIndex) Dimensions() int {
	return x.dimensions
}

// Retrieve returns up to k chunks ranked by descending cosine similarity to
// the query vector. k is clamped to [1, Len]. Ties preserve ascending chunk
// ID order.
func (x *VideoIndex) Retrieve(query []float32, k int) ([]Chunk, error) {
	if len(query) != x.dimensions {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d",
			ErrInvalidInput, len(query), x.dimensions)
	}

	if k < 1 {
		k = 1
	}
	if k > len(x.entries) {
		k = len(x.entries)
	}

	q := l2Normalized(query)

	type scored struct {
		chunk Chunk
		score float32
	}
	results := make([]scored, len(x.entries))
	for i, entry := range x.entries {
		results[i] = scored{chunk: entry.Chunk, score: dot(q, entry.Vector)}
	}

	// Stable sort over entries already in chunk-ID order keeps ties ordered
	// by ascending chunk ID.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	chunks := make([]Chunk, k)
	for i := 0; i < k; i++ {
		chunks[i] = results[i].chunk
	}
	return chunks, nil
}

// l2Normalized returns a unit-length copy of v. A zero vector is returned
// as an all-zero copy rather than dividing by zero.
func l2Normalized(v []float32) []float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}

	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}

	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
