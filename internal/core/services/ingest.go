package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/minio/highwayhash"

	"github.com/passim-search/passim/internal/chunker"
	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
	"github.com/passim-search/passim/internal/core/ports/driving"
	"github.com/passim-search/passim/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// fingerprintKey seeds the content hash. It only needs to be stable, not
// secret.
var fingerprintKey = []byte("passim-ingestion-fingerprint-v1")

// IngestionService turns source files into indexed chunks: parse, chunk,
// embed, then persist to the vector index, the chunk store and the
// lexical index.
type IngestionService struct {
	parsers   driven.ParserRegistry
	embedder  driven.EmbeddingService
	vector    driven.VectorIndex
	chunks    driven.ChunkStore
	lexical   driven.LexicalIndex
	log       driven.IngestionLog
	chunkOpts chunker.Options
}

// NewIngestionService creates a new ingestion service. The ingestion log
// is optional; without it every file is re-ingested.
func NewIngestionService(
	parsers driven.ParserRegistry,
	embedder driven.EmbeddingService,
	vector driven.VectorIndex,
	chunks driven.ChunkStore,
	lexical driven.LexicalIndex,
	log driven.IngestionLog,
	chunkOpts chunker.Options,
) *IngestionService {
	if chunkOpts.MaxTokens <= 0 {
		chunkOpts = chunker.DefaultOptions()
	}
	return &IngestionService{
		parsers:   parsers,
		embedder:  embedder,
		vector:    vector,
		chunks:    chunks,
		lexical:   lexical,
		log:       log,
		chunkOpts: chunkOpts,
	}
}

// IngestFile parses, chunks, embeds and persists one document.
func (s *IngestionService) IngestFile(ctx context.Context, path, title string) (*domain.IngestResult, error) {
	logger.Section("Ingestion")
	logger.Info("Ingesting %s", path)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if title == "" {
		title = filepath.Base(absPath)
	}
	docID := domain.DocumentID(absPath)

	parser, err := s.parsers.ParserFor(absPath)
	if err != nil {
		return nil, err
	}

	blocks, err := parser.Parse(ctx, absPath)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", absPath, err)
	}

	chunks := chunker.ChunkBlocks(blocks, s.chunkOpts)
	logger.Debug("Document %s: %d blocks, %d chunks", docID, len(blocks), len(chunks))
	if len(chunks) == 0 {
		logger.Warn("No usable chunks in %s", path)
		return &domain.IngestResult{DocID: docID, Outcome: domain.IngestNoChunks}, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) == 0 {
		logger.Warn("Embedding returned no vectors for %s", path)
		return &domain.IngestResult{DocID: docID, Outcome: domain.IngestNoVectors}, nil
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	dim := s.embedder.Dimensions()
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(vec), dim)
		}
	}

	if err := s.vector.EnsureCollection(ctx, dim); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	createdAt := time.Now().Unix()
	points := make([]driven.VectorPoint, len(chunks))
	lexDocs := make([]driven.LexicalDoc, len(chunks))
	for i, c := range chunks {
		chunkID := fmt.Sprintf("%s:%d", docID, c.ChunkIndex)
		points[i] = driven.VectorPoint{
			ID:     PointID(docID, c.ChunkIndex),
			Vector: vectors[i],
			Payload: domain.ChunkPayload{
				DocID:           docID,
				DocTitle:        title,
				SourcePath:      absPath,
				SectionTitle:    c.Heading,
				PageNums:        c.Pages,
				ChunkIndex:      c.ChunkIndex,
				ContentType:     c.ContentType,
				TableID:         c.TableID,
				TableChunkIndex: c.TableChunkIndex,
				TableRows:       c.RowCount,
				CreatedAt:       createdAt,
			},
		}
		lexDocs[i] = driven.LexicalDoc{
			DocID:       docID,
			ChunkID:     chunkID,
			Title:       title,
			Section:     c.Heading,
			Content:     c.Text,
			Pages:       c.Pages,
			ContentType: c.ContentType,
		}
	}

	if err := s.vector.Upsert(ctx, points); err != nil {
		return nil, fmt.Errorf("upsert vectors: %w", err)
	}
	if err := s.chunks.ReplaceDocument(ctx, docID, lexDocs); err != nil {
		return nil, fmt.Errorf("persist chunks: %w", err)
	}
	if err := s.lexical.WriteBatch(ctx, lexDocs); err != nil {
		return nil, fmt.Errorf("index chunks: %w", err)
	}

	if s.log != nil {
		if fp, err := Fingerprint(absPath); err == nil {
			if err := s.log.Record(ctx, driven.FileRecord{
				Path:        absPath,
				Fingerprint: fp,
				IngestedAt:  time.Now().UTC(),
			}); err != nil {
				logger.Warn("Recording ingestion of %s failed: %v", path, err)
			}
		}
	}

	logger.Info("Ingested %s: %d chunks", path, len(chunks))
	return &domain.IngestResult{
		DocID:      docID,
		ChunkCount: len(chunks),
		Outcome:    domain.IngestOK,
	}, nil
}

// IngestDirectory ingests every regular file in dir. Unsupported and
// unchanged files are reported, not fatal; a failing file never aborts
// its siblings.
func (s *IngestionService) IngestDirectory(ctx context.Context, dir string) ([]driving.FileReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	reports := make([]driving.FileReport, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		report := driving.FileReport{File: name}

		if s.unchanged(ctx, path) {
			logger.Debug("Skipping unchanged file %s", name)
			report.Skipped = true
			reports = append(reports, report)
			continue
		}

		result, err := s.IngestFile(ctx, path, "")
		if err != nil {
			logger.Warn("Ingesting %s failed: %v", name, err)
			report.Error = err.Error()
		} else {
			report.Result = result
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// unchanged reports whether the file's content fingerprint matches its
// ingestion-log record.
func (s *IngestionService) unchanged(ctx context.Context, path string) bool {
	if s.log == nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rec, err := s.log.Lookup(ctx, absPath)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Ingestion log lookup for %s failed: %v", path, err)
		}
		return false
	}
	fp, err := Fingerprint(absPath)
	if err != nil {
		return false
	}
	return fp == rec.Fingerprint
}

// PointID derives the deterministic vector point id for a chunk. The same
// document and index always map to the same UUID, so re-ingestion
// overwrites instead of duplicating.
func PointID(docID string, chunkIndex int) string {
	name := fmt.Sprintf("%s:%d", docID, chunkIndex)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// Fingerprint hashes a file's content for change detection.
func Fingerprint(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	key := make([]byte, 32)
	copy(key, fingerprintKey)
	h, err := highwayhash.New64(key)
	if err != nil {
		return 0, fmt.Errorf("init hash: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("hash %s: %w", path, err)
	}
	return h.Sum64(), nil
}
