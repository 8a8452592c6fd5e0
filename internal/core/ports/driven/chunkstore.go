package driven

import "context"

// ChunkStore durably persists chunk rows so the in-process lexical index
// can be rebuilt at startup. Writes for one document are transactional.
type ChunkStore interface {
	// ReplaceDocument atomically deletes a document's previous chunk rows
	// and inserts the new batch.
	ReplaceDocument(ctx context.Context, docID string, docs []LexicalDoc) error

	// AllChunks streams every stored chunk row (used to rebuild the
	// lexical index).
	AllChunks(ctx context.Context) ([]LexicalDoc, error)

	// Wipe removes all chunk rows.
	Wipe(ctx context.Context) error

	// Close releases resources.
	Close() error
}
