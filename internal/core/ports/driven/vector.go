package driven

import (
	"context"

	"github.com/passim-search/passim/internal/core/domain"
)

// VectorPoint is one vector with its persisted payload.
type VectorPoint struct {
	// ID is the deterministic point id (stable across re-ingestion).
	ID string

	// Vector is the embedding.
	Vector []float32

	// Payload is the chunk metadata stored with the vector.
	Payload domain.ChunkPayload
}

// VectorHit is a similarity search result with its payload.
type VectorHit struct {
	ID      string
	Score   float64
	Payload domain.ChunkPayload
}

// VectorIndex provides dense nearest-neighbour search over chunk vectors.
type VectorIndex interface {
	// EnsureCollection creates the collection for the given dimension if
	// it does not already exist.
	EnsureCollection(ctx context.Context, dimensions int) error

	// Upsert writes a batch of points as one logical operation. Existing
	// ids are overwritten, not duplicated. A reader must never observe a
	// partially written batch.
	Upsert(ctx context.Context, points []VectorPoint) error

	// Search finds the topK nearest neighbours to the query vector.
	Search(ctx context.Context, vector []float32, topK int) ([]VectorHit, error)

	// Drop removes the collection and all its points.
	Drop(ctx context.Context) error

	// Close releases resources.
	Close() error
}
