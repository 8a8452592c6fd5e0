package domain

import (
	"crypto/sha1"
	"encoding/hex"
)

// Document identifies an ingested source file.
type Document struct {
	// ID is a stable hash of the source path.
	ID string

	// Title is the human-readable title (defaults to the file name).
	Title string

	// SourcePath is the absolute path the document was ingested from.
	SourcePath string
}

// DocumentID computes the stable document id for a source path.
// Re-ingesting the same path always yields the same id.
func DocumentID(sourcePath string) string {
	sum := sha1.Sum([]byte(sourcePath))
	return hex.EncodeToString(sum[:])
}

// DocumentInfo is a listing entry: one ingested document.
type DocumentInfo struct {
	DocID      string `json:"doc_id"`
	Title      string `json:"title"`
	ChunkCount int    `json:"chunks"`
}

// IngestOutcome classifies the result of ingesting one document.
type IngestOutcome string

// Ingestion outcomes.
const (
	// IngestOK means chunks were embedded and persisted.
	IngestOK IngestOutcome = "ok"

	// IngestNoChunks means parsing/chunking yielded nothing usable.
	IngestNoChunks IngestOutcome = "no_chunks"

	// IngestNoVectors means the embedding call returned nothing.
	IngestNoVectors IngestOutcome = "no_vectors"
)

// IngestResult reports one document's ingestion.
type IngestResult struct {
	DocID      string        `json:"doc_id"`
	ChunkCount int           `json:"chunks"`
	Outcome    IngestOutcome `json:"outcome"`
}
