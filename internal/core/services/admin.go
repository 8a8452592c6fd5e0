package services

import (
	"context"
	"fmt"

	"github.com/passim-search/passim/internal/core/ports/driven"
	"github.com/passim-search/passim/internal/core/ports/driving"
	"github.com/passim-search/passim/internal/logger"
)

// Ensure AdminService implements the interface.
var _ driving.AdminService = (*AdminService)(nil)

// AdminService clears index state.
type AdminService struct {
	vector  driven.VectorIndex
	lexical driven.LexicalIndex
	chunks  driven.ChunkStore
	log     driven.IngestionLog
}

// NewAdminService creates a new admin service. The ingestion log is
// optional.
func NewAdminService(
	vector driven.VectorIndex,
	lexical driven.LexicalIndex,
	chunks driven.ChunkStore,
	log driven.IngestionLog,
) *AdminService {
	return &AdminService{
		vector:  vector,
		lexical: lexical,
		chunks:  chunks,
		log:     log,
	}
}

// Wipe drops the vector collection and, when wipeStore is set, clears the
// chunk store, the lexical index and the ingestion log.
func (s *AdminService) Wipe(ctx context.Context, wipeStore bool) error {
	logger.Section("Wipe")

	if err := s.vector.Drop(ctx); err != nil {
		return fmt.Errorf("drop vector collection: %w", err)
	}
	logger.Info("Vector collection dropped")

	if !wipeStore {
		return nil
	}

	if err := s.chunks.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe chunk store: %w", err)
	}
	if err := s.lexical.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe lexical index: %w", err)
	}
	if s.log != nil {
		if err := s.log.Wipe(ctx); err != nil {
			return fmt.Errorf("wipe ingestion log: %w", err)
		}
	}
	logger.Info("Chunk store, lexical index and ingestion log wiped")
	return nil
}
