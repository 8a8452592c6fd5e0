package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func lexDoc(docID string, idx int, content string) driven.LexicalDoc {
	return driven.LexicalDoc{
		DocID:       docID,
		ChunkID:     docID + ":" + string(rune('0'+idx)),
		Title:       "Guide",
		Section:     "Intro",
		Content:     content,
		Pages:       []int{1, 2},
		ContentType: domain.ContentText,
	}
}

func TestNewStoreCreatesDatabase(t *testing.T) {
	store := newTestStore(t)
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStoreIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Re-opening must not re-run migrations destructively.
	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestChunkStoreReplaceAndReadBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	chunks := store.ChunkStore()

	require.NoError(t, chunks.ReplaceDocument(ctx, "d1", []driven.LexicalDoc{
		lexDoc("d1", 0, "alpha"),
		lexDoc("d1", 1, "beta"),
	}))

	all, err := chunks.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Content)
	assert.Equal(t, []int{1, 2}, all[0].Pages)
	assert.Equal(t, domain.ContentText, all[0].ContentType)
}

func TestChunkStoreReplaceDropsOldRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	chunks := store.ChunkStore()

	require.NoError(t, chunks.ReplaceDocument(ctx, "d1", []driven.LexicalDoc{
		lexDoc("d1", 0, "old one"),
		lexDoc("d1", 1, "old two"),
		lexDoc("d1", 2, "old three"),
	}))
	require.NoError(t, chunks.ReplaceDocument(ctx, "d1", []driven.LexicalDoc{
		lexDoc("d1", 0, "new one"),
	}))

	all, err := chunks.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "new one", all[0].Content)
}

func TestChunkStoreReplaceRejectsForeignDocID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	chunks := store.ChunkStore()

	err := chunks.ReplaceDocument(ctx, "d1", []driven.LexicalDoc{lexDoc("d2", 0, "x")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// The failed transaction must not leave partial rows.
	all, err := chunks.AllChunks(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestChunkStoreWipe(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	chunks := store.ChunkStore()

	require.NoError(t, chunks.ReplaceDocument(ctx, "d1", []driven.LexicalDoc{lexDoc("d1", 0, "x")}))
	require.NoError(t, chunks.Wipe(ctx))

	all, err := chunks.AllChunks(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestIngestionLogRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	log := store.IngestionLog()

	ingested := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, log.Record(ctx, driven.FileRecord{
		Path:        "/docs/guide.md",
		Fingerprint: 0xDEADBEEF,
		IngestedAt:  ingested,
	}))

	rec, err := log.Lookup(ctx, "/docs/guide.md")
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEF), rec.Fingerprint)
	assert.True(t, rec.IngestedAt.Equal(ingested))
}

func TestIngestionLogLookupMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.IngestionLog().Lookup(context.Background(), "/absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestionLogRecordUpdates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	log := store.IngestionLog()

	require.NoError(t, log.Record(ctx, driven.FileRecord{Path: "/a", Fingerprint: 1}))
	require.NoError(t, log.Record(ctx, driven.FileRecord{Path: "/a", Fingerprint: 2}))

	rec, err := log.Lookup(ctx, "/a")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rec.Fingerprint)
	assert.False(t, rec.IngestedAt.IsZero())
}

func TestIngestionLogWipe(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	log := store.IngestionLog()

	require.NoError(t, log.Record(ctx, driven.FileRecord{Path: "/a", Fingerprint: 1}))
	require.NoError(t, log.Wipe(ctx))

	_, err := log.Lookup(ctx, "/a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestionLogLargeFingerprint(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	log := store.IngestionLog()

	// Fingerprints above math.MaxInt64 must survive the int64 column.
	fp := uint64(1) << 63
	require.NoError(t, log.Record(ctx, driven.FileRecord{Path: "/big", Fingerprint: fp}))

	rec, err := log.Lookup(ctx, "/big")
	require.NoError(t, err)
	assert.Equal(t, fp, rec.Fingerprint)
}
