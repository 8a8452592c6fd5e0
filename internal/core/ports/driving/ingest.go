package driving

import (
	"context"

	"github.com/passim-search/passim/internal/core/domain"
)

// FileReport is the per-file outcome of a directory ingestion.
type FileReport struct {
	// File is the base name of the ingested file.
	File string `json:"file"`

	// Result is set when ingestion ran (including no_chunks/no_vectors).
	Result *domain.IngestResult `json:"result,omitempty"`

	// Skipped is true when the file was unchanged since last ingestion.
	Skipped bool `json:"skipped,omitempty"`

	// Error holds the failure message for this file, if any. A failed
	// file never aborts its siblings.
	Error string `json:"error,omitempty"`
}

// IngestionService ingests documents into the indexes.
type IngestionService interface {
	// IngestFile parses, chunks, embeds and persists one document.
	// title may be empty; the file name is used.
	IngestFile(ctx context.Context, path, title string) (*domain.IngestResult, error)

	// IngestDirectory ingests every regular file in dir, isolating
	// per-file failures and skipping unchanged files.
	IngestDirectory(ctx context.Context, dir string) ([]FileReport, error)
}
