package driven

import (
	"context"
	"time"
)

// FileRecord is one entry in the ingestion log.
type FileRecord struct {
	// Path is the absolute source path.
	Path string

	// Fingerprint is a hash of the file content at ingestion time.
	Fingerprint uint64

	// IngestedAt is when the file was last ingested.
	IngestedAt time.Time
}

// IngestionLog remembers which files have been ingested and with what
// content fingerprint, so unchanged files are skipped on re-ingestion.
type IngestionLog interface {
	// Lookup returns the record for a path, or domain.ErrNotFound.
	Lookup(ctx context.Context, path string) (*FileRecord, error)

	// Record stores or updates a file's record.
	Record(ctx context.Context, rec FileRecord) error

	// Wipe clears the log.
	Wipe(ctx context.Context) error
}
