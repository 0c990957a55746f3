package domain

import (
	"errors"
	"math"
	"testing"
)

func TestBuildVideoIndex(t *testing.T) {
	chunks := []Chunk{
		{ID: 0, Text: "first"},
		{ID: 1, Text: "second"},
	}
	vectors := [][]float32{
		{3, 4},
		{0, 1},
	}

	index, err := BuildVideoIndex("video-1", chunks, vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index.VideoID() != "video-1" {
		t.Errorf("expected video ID 'video-1', got %s", index.VideoID())
	}
	if index.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", index.Len())
	}
	if index.Dimensions() != 2 {
		t.Errorf("expected 2 dimensions, got %d", index.Dimensions())
	}
}

func TestBuildVideoIndex_Empty(t *testing.T) {
	_, err := BuildVideoIndex("video-1", nil, nil)
	if !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("expected ErrEmptyIndex, got %v", err)
	}
}

func TestBuildVideoIndex_LengthMismatch(t *testing.T) {
	chunks := []Chunk{{ID: 0, Text: "only"}}
	vectors := [][]float32{{1, 0}, {0, 1}}

	_, err := BuildVideoIndex("video-1", chunks, vectors)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildVideoIndex_DimensionMismatch(t *testing.T) {
	chunks := []Chunk{{ID: 0}, {ID: 1}}
	vectors := [][]float32{{1, 0}, {0, 1, 0}}

	_, err := BuildVideoIndex("video-1", chunks, vectors)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildVideoIndex_ZeroDimension(t *testing.T) {
	chunks := []Chunk{{ID: 0}}
	vectors := [][]float32{{}}

	_, err := BuildVideoIndex("video-1", chunks, vectors)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestVideoIndex_Retrieve_Ranking(t *testing.T) {
	// Orthogonal-ish vectors so similarity order is unambiguous.
	chunks := []Chunk{
		{ID: 0, Text: "about cats"},
		{ID: 1, Text: "about dogs"},
		{ID: 2, Text: "about fish"},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}

	index, err := BuildVideoIndex("video-1", chunks, vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Query closest to chunk 1, then chunk 0, then chunk 2.
	results, err := index.Retrieve([]float32{0.4, 0.9, 0.1}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].ID != 1 || results[1].ID != 0 || results[2].ID != 2 {
		t.Errorf("expected order [1 0 2], got [%d %d %d]", results[0].ID, results[1].ID, results[2].ID)
	}
}

func TestVideoIndex_Retrieve_SelfSimilarityTopOne(t *testing.T) {
	chunks := []Chunk{{ID: 0}, {ID: 1}, {ID: 2}}
	vectors := [][]float32{
		{0.2, 0.8, 0.1},
		{0.9, 0.1, 0.3},
		{0.1, 0.2, 0.9},
	}

	index, err := BuildVideoIndex("video-1", chunks, vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Querying with an indexed vector must return that chunk first.
	for i, v := range vectors {
		results, err := index.Retrieve(v, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results[0].ID != chunks[i].ID {
			t.Errorf("query %d: expected chunk %d first, got %d", i, chunks[i].ID, results[0].ID)
		}
	}
}

func TestVideoIndex_Retrieve_TieBreakByChunkID(t *testing.T) {
	// Identical vectors force equal scores; order must follow chunk IDs.
	chunks := []Chunk{
		{ID: 2, Text: "c"},
		{ID: 0, Text: "a"},
		{ID: 1, Text: "b"},
	}
	vectors := [][]float32{
		{1, 1},
		{1, 1},
		{1, 1},
	}

	index, err := BuildVideoIndex("video-1", chunks, vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := index.Retrieve([]float32{1, 1}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []int{0, 1, 2} {
		if results[i].ID != want {
			t.Errorf("position %d: expected chunk %d, got %d", i, want, results[i].ID)
		}
	}
}

func TestVideoIndex_Retrieve_KClamping(t *testing.T) {
	chunks := []Chunk{{ID: 0}, {ID: 1}}
	vectors := [][]float32{{1, 0}, {0, 1}}

	index, err := BuildVideoIndex("video-1", chunks, vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// k above the entry count clamps down.
	results, err := index.Retrieve([]float32{1, 0}, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results for oversized k, got %d", len(results))
	}

	// k below 1 clamps up.
	results, err = index.Retrieve([]float32{1, 0}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result for k=0, got %d", len(results))
	}
	if results[0].ID != 0 {
		t.Errorf("expected chunk 0 first, got %d", results[0].ID)
	}
}

func TestVideoIndex_Retrieve_QueryDimensionMismatch(t *testing.T) {
	chunks := []Chunk{{ID: 0}}
	vectors := [][]float32{{1, 0, 0}}

	index, err := BuildVideoIndex("video-1", chunks, vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = index.Retrieve([]float32{1, 0}, 1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestL2Normalized(t *testing.T) {
	v := l2Normalized([]float32{3, 4})
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("expected [0.6 0.8], got %v", v)
	}

	// Zero vectors stay zero instead of producing NaN.
	z := l2Normalized([]float32{0, 0, 0})
	for i, x := range z {
		if x != 0 {
			t.Errorf("position %d: expected 0, got %f", i, x)
		}
	}
}
