package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passim-search/passim/internal/core/ports/driven"
)

func TestWipeDropsCollectionOnly(t *testing.T) {
	vec := &mockVectorIndex{}
	lex := &mockLexicalIndex{stored: storeOf(storedDoc("a", 0, "alpha", "text"))}
	store := &mockChunkStore{replaced: map[string][]driven.LexicalDoc{"a": {}}}
	log := &mockIngestionLog{records: map[string]driven.FileRecord{"/f": {Path: "/f"}}}

	svc := NewAdminService(vec, lex, store, log)
	require.NoError(t, svc.Wipe(context.Background(), false))

	assert.True(t, vec.dropped)
	assert.False(t, lex.wiped)
	assert.NotNil(t, store.replaced)
	assert.NotNil(t, log.records)
}

func TestWipeEverything(t *testing.T) {
	vec := &mockVectorIndex{}
	lex := &mockLexicalIndex{stored: storeOf(storedDoc("a", 0, "alpha", "text"))}
	store := &mockChunkStore{replaced: map[string][]driven.LexicalDoc{"a": {}}}
	log := &mockIngestionLog{records: map[string]driven.FileRecord{"/f": {Path: "/f"}}}

	svc := NewAdminService(vec, lex, store, log)
	require.NoError(t, svc.Wipe(context.Background(), true))

	assert.True(t, vec.dropped)
	assert.True(t, lex.wiped)
	assert.Nil(t, store.replaced)
	assert.Nil(t, log.records)
}

func TestWipeDropFailureAborts(t *testing.T) {
	vec := &mockVectorIndex{dropErr: errors.New("qdrant down")}
	lex := &mockLexicalIndex{}
	store := &mockChunkStore{replaced: map[string][]driven.LexicalDoc{"a": {}}}

	svc := NewAdminService(vec, lex, store, nil)
	err := svc.Wipe(context.Background(), true)
	require.Error(t, err)
	assert.NotNil(t, store.replaced)
}
