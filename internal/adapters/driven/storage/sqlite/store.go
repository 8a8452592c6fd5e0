package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/passim-search/passim/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// chunk store and the ingestion log through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.passim/data/passim.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".passim", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "passim.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// IngestionLog returns an IngestionLog interface backed by this store.
func (s *Store) IngestionLog() driven.IngestionLog {
	return &ingestionLog{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// ReplaceDocument atomically swaps one document's chunk rows.
func (s *chunkStore) ReplaceDocument(ctx context.Context, docID string, docs []driven.LexicalDoc) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("deleting old chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, doc_id, title, section, content, pages, content_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		if doc.DocID != docID {
			return domain.ErrInvalidInput
		}
		pagesJSON, err := json.Marshal(doc.Pages)
		if err != nil {
			return fmt.Errorf("marshalling pages: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ChunkID, doc.DocID, doc.Title,
			doc.Section, doc.Content, string(pagesJSON), string(doc.ContentType)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// AllChunks returns every stored chunk row ordered by doc and chunk id.
func (s *chunkStore) AllChunks(ctx context.Context) ([]driven.LexicalDoc, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT chunk_id, doc_id, title, section, content, pages, content_type
		FROM chunks ORDER BY doc_id, chunk_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var docs []driven.LexicalDoc //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc driven.LexicalDoc
		var pagesJSON, contentType string
		if err := rows.Scan(&doc.ChunkID, &doc.DocID, &doc.Title, &doc.Section,
			&doc.Content, &pagesJSON, &contentType); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(pagesJSON), &doc.Pages); err != nil {
			return nil, fmt.Errorf("unmarshaling pages: %w", err)
		}
		doc.ContentType = domain.ContentType(contentType)
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return docs, nil
}

// Wipe removes all chunk rows.
func (s *chunkStore) Wipe(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("wiping chunks: %w", err)
	}
	return nil
}

// Close closes the underlying store.
func (s *chunkStore) Close() error {
	return s.store.Close()
}

// ==================== Ingestion Log ====================

// ingestionLog implements driven.IngestionLog.
type ingestionLog struct {
	store *Store
}

var _ driven.IngestionLog = (*ingestionLog)(nil)

// Lookup returns the record for a path.
func (s *ingestionLog) Lookup(ctx context.Context, path string) (*driven.FileRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT path, fingerprint, ingested_at
		FROM ingestion_log WHERE path = ?
	`, path)

	var rec driven.FileRecord
	var fingerprint int64
	var ingestedAt sql.NullTime
	if err := row.Scan(&rec.Path, &fingerprint, &ingestedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning file record: %w", err)
	}

	rec.Fingerprint = uint64(fingerprint)
	if ingestedAt.Valid {
		rec.IngestedAt = ingestedAt.Time
	}

	return &rec, nil
}

// Record stores or updates a file's record.
func (s *ingestionLog) Record(ctx context.Context, rec driven.FileRecord) error {
	if rec.IngestedAt.IsZero() {
		rec.IngestedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ingestion_log (path, fingerprint, ingested_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			ingested_at = excluded.ingested_at
	`, rec.Path, int64(rec.Fingerprint), rec.IngestedAt)

	if err != nil {
		return fmt.Errorf("saving file record: %w", err)
	}
	return nil
}

// Wipe clears the log.
func (s *ingestionLog) Wipe(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM ingestion_log"); err != nil {
		return fmt.Errorf("wiping ingestion log: %w", err)
	}
	return nil
}
