package driven

import (
	"context"

	"github.com/passim-search/passim/internal/core/domain"
)

// LexicalDoc is one chunk as stored in the lexical index.
type LexicalDoc struct {
	// DocID is the owning document id.
	DocID string

	// ChunkID is the unique key "{doc_id}:{chunk_index}".
	ChunkID string

	// Title is the document title.
	Title string

	// Section is the chunk's heading trail.
	Section string

	// Content is the chunk text (tables are markdown, so BM25 applies
	// uniformly).
	Content string

	// Pages are the page numbers the chunk spans.
	Pages []int

	// ContentType is text or table.
	ContentType domain.ContentType
}

// LexicalHit is a term search result with its stored fields.
type LexicalHit struct {
	Score float64
	Doc   LexicalDoc
}

// LexicalIndex provides BM25-weighted term search with stored fields.
type LexicalIndex interface {
	// WriteBatch adds or replaces one document's chunks atomically:
	// a reader never observes some of a batch's chunks without the rest.
	WriteBatch(ctx context.Context, docs []LexicalDoc) error

	// Search runs a BM25-ranked term query over chunk content.
	Search(ctx context.Context, query string, topK int) ([]LexicalHit, error)

	// GetByChunkID loads the stored fields for a chunk key, or
	// domain.ErrNotFound.
	GetByChunkID(ctx context.Context, chunkID string) (*LexicalDoc, error)

	// Documents lists the distinct ingested documents.
	Documents(ctx context.Context) ([]domain.DocumentInfo, error)

	// Wipe removes everything from the index.
	Wipe(ctx context.Context) error

	// Close releases resources.
	Close() error
}
