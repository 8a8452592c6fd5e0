package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

func point(id string, vec []float32) driven.VectorPoint {
	return driven.VectorPoint{
		ID:     id,
		Vector: vec,
		Payload: domain.ChunkPayload{
			DocID:      "d1",
			DocTitle:   "Guide",
			SourcePath: "/docs/guide.md",
		},
	}
}

func TestSearchOrdersByCosine(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex()
	require.NoError(t, ix.EnsureCollection(ctx, 2))
	require.NoError(t, ix.Upsert(ctx, []driven.VectorPoint{
		point("a", []float32{1, 0}),
		point("b", []float32{0, 1}),
		point("c", []float32{0.9, 0.1}),
	}))

	hits, err := ix.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "c", hits[1].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
}

func TestUpsertOverwritesByID(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex()
	require.NoError(t, ix.EnsureCollection(ctx, 2))
	require.NoError(t, ix.Upsert(ctx, []driven.VectorPoint{point("a", []float32{1, 0})}))
	require.NoError(t, ix.Upsert(ctx, []driven.VectorPoint{point("a", []float32{0, 1})}))

	hits, err := ix.Search(ctx, []float32{0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
}

func TestUpsertDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex()
	require.NoError(t, ix.EnsureCollection(ctx, 3))

	err := ix.Upsert(ctx, []driven.VectorPoint{point("a", []float32{1, 0})})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestEnsureCollectionRejectsDimensionChange(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex()
	require.NoError(t, ix.EnsureCollection(ctx, 2))
	assert.ErrorIs(t, ix.EnsureCollection(ctx, 3), domain.ErrDimensionMismatch)
	assert.NoError(t, ix.EnsureCollection(ctx, 2))
}

func TestDropClearsPoints(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex()
	require.NoError(t, ix.EnsureCollection(ctx, 2))
	require.NoError(t, ix.Upsert(ctx, []driven.VectorPoint{point("a", []float32{1, 0})}))
	require.NoError(t, ix.Drop(ctx))

	hits, err := ix.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
