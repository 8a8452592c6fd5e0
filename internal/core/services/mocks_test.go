package services

import (
	"context"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	dims      int
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits       []driven.VectorHit
	searchErr  error
	upsertErr  error
	dropErr    error
	upserted   []driven.VectorPoint
	ensuredDim int
	dropped    bool
}

func (m *mockVectorIndex) EnsureCollection(_ context.Context, dim int) error {
	m.ensuredDim = dim
	return nil
}

func (m *mockVectorIndex) Upsert(_ context.Context, points []driven.VectorPoint) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, points...)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, topK int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if topK > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:topK], nil
}

func (m *mockVectorIndex) Drop(_ context.Context) error {
	if m.dropErr != nil {
		return m.dropErr
	}
	m.dropped = true
	return nil
}

func (m *mockVectorIndex) Close() error { return nil }

// mockLexicalIndex implements driven.LexicalIndex for testing.
type mockLexicalIndex struct {
	hits      []driven.LexicalHit
	searchErr error
	writeErr  error
	stored    map[string]driven.LexicalDoc
	batches   [][]driven.LexicalDoc
	docs      []domain.DocumentInfo
	wiped     bool
}

func (m *mockLexicalIndex) WriteBatch(_ context.Context, docs []driven.LexicalDoc) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if m.stored == nil {
		m.stored = make(map[string]driven.LexicalDoc)
	}
	for _, d := range docs {
		m.stored[d.ChunkID] = d
	}
	m.batches = append(m.batches, docs)
	return nil
}

func (m *mockLexicalIndex) Search(_ context.Context, _ string, topK int) ([]driven.LexicalHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if topK > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:topK], nil
}

func (m *mockLexicalIndex) GetByChunkID(_ context.Context, chunkID string) (*driven.LexicalDoc, error) {
	doc, ok := m.stored[chunkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *mockLexicalIndex) Documents(_ context.Context) ([]domain.DocumentInfo, error) {
	return m.docs, nil
}

func (m *mockLexicalIndex) Wipe(_ context.Context) error {
	m.stored = nil
	m.wiped = true
	return nil
}

func (m *mockLexicalIndex) Close() error { return nil }

// mockReranker implements driven.Reranker for testing.
type mockReranker struct {
	scores    map[string]float64
	rerankErr error
	calls     int
	lastPairs []string
}

func (m *mockReranker) Rerank(_ context.Context, _ string, passages []string) ([]float64, error) {
	m.calls++
	m.lastPairs = passages
	if m.rerankErr != nil {
		return nil, m.rerankErr
	}
	out := make([]float64, len(passages))
	for i, p := range passages {
		out[i] = m.scores[p]
	}
	return out, nil
}

func (m *mockReranker) ModelName() string { return "mock-rerank" }

func (m *mockReranker) Close() error { return nil }

// mockChunkStore implements driven.ChunkStore for testing.
type mockChunkStore struct {
	replaced map[string][]driven.LexicalDoc
}

func (m *mockChunkStore) ReplaceDocument(_ context.Context, docID string, docs []driven.LexicalDoc) error {
	if m.replaced == nil {
		m.replaced = make(map[string][]driven.LexicalDoc)
	}
	m.replaced[docID] = docs
	return nil
}

func (m *mockChunkStore) AllChunks(_ context.Context) ([]driven.LexicalDoc, error) {
	var all []driven.LexicalDoc
	for _, docs := range m.replaced {
		all = append(all, docs...)
	}
	return all, nil
}

func (m *mockChunkStore) Wipe(_ context.Context) error {
	m.replaced = nil
	return nil
}

func (m *mockChunkStore) Close() error { return nil }

// mockIngestionLog implements driven.IngestionLog for testing.
type mockIngestionLog struct {
	records map[string]driven.FileRecord
}

func (m *mockIngestionLog) Lookup(_ context.Context, path string) (*driven.FileRecord, error) {
	rec, ok := m.records[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (m *mockIngestionLog) Record(_ context.Context, rec driven.FileRecord) error {
	if m.records == nil {
		m.records = make(map[string]driven.FileRecord)
	}
	m.records[rec.Path] = rec
	return nil
}

func (m *mockIngestionLog) Wipe(_ context.Context) error {
	m.records = nil
	return nil
}

// mockAnswerProvider implements driven.AnswerProvider for testing.
type mockAnswerProvider struct {
	name   string
	answer string
	err    error
	calls  int
}

func (m *mockAnswerProvider) Name() string { return m.name }

func (m *mockAnswerProvider) Generate(_ context.Context, _ string, _ []domain.Passage) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

// mockRetrievalService implements driving.RetrievalService for testing.
type mockRetrievalService struct {
	passages []domain.Passage
	err      error
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, _ domain.RetrieveOptions) ([]domain.Passage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.passages, nil
}

func (m *mockRetrievalService) Documents(_ context.Context) ([]domain.DocumentInfo, error) {
	return nil, nil
}
