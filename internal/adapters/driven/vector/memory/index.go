// Package memory provides an in-memory vector index. It serves tests and
// single-node setups where running a vector database is not worth it.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex using exact
// cosine similarity.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	points     map[string]driven.VectorPoint
}

// NewIndex creates a new in-memory vector index.
func NewIndex() *Index {
	return &Index{
		points: make(map[string]driven.VectorPoint),
	}
}

// EnsureCollection records the expected dimension.
func (ix *Index) EnsureCollection(_ context.Context, dimensions int) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.dimensions != 0 && ix.dimensions != dimensions {
		return domain.ErrDimensionMismatch
	}
	ix.dimensions = dimensions
	return nil
}

// Upsert writes the batch under one lock. Existing ids are overwritten.
func (ix *Index) Upsert(_ context.Context, points []driven.VectorPoint) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, p := range points {
		if ix.dimensions != 0 && len(p.Vector) != ix.dimensions {
			return domain.ErrDimensionMismatch
		}
		ix.points[p.ID] = p
	}
	return nil
}

// Search scores every point by cosine similarity and returns the topK.
func (ix *Index) Search(_ context.Context, vector []float32, topK int) ([]driven.VectorHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(ix.points))
	for _, p := range ix.points {
		hits = append(hits, driven.VectorHit{
			ID:      p.ID,
			Score:   cosine(vector, p.Vector),
			Payload: p.Payload,
		})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Drop removes all points.
func (ix *Index) Drop(_ context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.points = make(map[string]driven.VectorPoint)
	ix.dimensions = 0
	return nil
}

// Close releases resources.
func (ix *Index) Close() error {
	return nil
}

// cosine computes cosine similarity; zero vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
