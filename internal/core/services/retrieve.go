package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
	"github.com/passim-search/passim/internal/core/ports/driving"
	"github.com/passim-search/passim/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// rrfK dampens the reciprocal-rank contribution so top ranks do not
// dominate the fusion.
const rrfK = 60

// Default pipeline depths.
const (
	DefaultDenseTopK   = 50
	DefaultLexicalTopK = 50
	DefaultRerankTopK  = 30
	DefaultFinalK      = 8
)

// RetrievalConfig tunes the hybrid retrieval pipeline depths.
type RetrievalConfig struct {
	DenseTopK   int
	LexicalTopK int
	RerankTopK  int
	FinalK      int
}

// RetrievalService runs the hybrid retrieval pipeline: dense and lexical
// search in parallel, reciprocal rank fusion, pairwise reranking and a
// per-document diversity pass.
type RetrievalService struct {
	lexical  driven.LexicalIndex
	vector   driven.VectorIndex
	embedder driven.EmbeddingService
	reranker driven.Reranker
	cfg      RetrievalConfig
}

// NewRetrievalService creates a new retrieval service. The reranker is
// optional; without it candidates keep their fusion order.
func NewRetrievalService(
	lexical driven.LexicalIndex,
	vector driven.VectorIndex,
	embedder driven.EmbeddingService,
	reranker driven.Reranker,
	cfg RetrievalConfig,
) *RetrievalService {
	if cfg.DenseTopK <= 0 {
		cfg.DenseTopK = DefaultDenseTopK
	}
	if cfg.LexicalTopK <= 0 {
		cfg.LexicalTopK = DefaultLexicalTopK
	}
	if cfg.RerankTopK <= 0 {
		cfg.RerankTopK = DefaultRerankTopK
	}
	if cfg.FinalK <= 0 {
		cfg.FinalK = DefaultFinalK
	}
	return &RetrievalService{
		lexical:  lexical,
		vector:   vector,
		embedder: embedder,
		reranker: reranker,
		cfg:      cfg,
	}
}

// Retrieve returns at most opts.FinalK passages for the query.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) ([]domain.Passage, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	finalK := opts.FinalK
	if finalK <= 0 {
		finalK = s.cfg.FinalK
	}

	// Both sides run in parallel. A failure on either side fails the
	// whole query: silently degrading to one-sided results would make
	// ranking quality flap with infrastructure health.
	var denseHits []domain.RetrievalCandidate
	var lexicalHits []domain.RetrievalCandidate
	var denseErr, lexicalErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		denseHits, denseErr = s.denseSearch(ctx, query)
	}()

	go func() {
		defer wg.Done()
		lexicalHits, lexicalErr = s.lexicalSearch(ctx, query)
	}()

	wg.Wait()

	if denseErr != nil {
		return nil, fmt.Errorf("dense search: %w", denseErr)
	}
	if lexicalErr != nil {
		return nil, fmt.Errorf("lexical search: %w", lexicalErr)
	}

	logger.Debug("Dense hits: %d, lexical hits: %d", len(denseHits), len(lexicalHits))

	fused := fuse(denseHits, lexicalHits)
	if len(fused) > s.cfg.RerankTopK {
		fused = fused[:s.cfg.RerankTopK]
	}

	hydrated, err := s.hydrate(ctx, fused)
	if err != nil {
		return nil, fmt.Errorf("hydrate candidates: %w", err)
	}

	ranked, err := s.rerank(ctx, query, hydrated)
	if err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}

	selected := diversify(ranked, finalK)
	selected = filterMode(selected, opts.Mode)
	logger.Info("Final passages: %d", len(selected))

	passages := make([]domain.Passage, len(selected))
	for i, c := range selected {
		passages[i] = c.passage
	}
	return passages, nil
}

// Documents lists the ingested documents.
func (s *RetrievalService) Documents(ctx context.Context) ([]domain.DocumentInfo, error) {
	return s.lexical.Documents(ctx)
}

// denseSearch embeds the query and searches the vector index.
func (s *RetrievalService) denseSearch(ctx context.Context, query string) ([]domain.RetrievalCandidate, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vector.Search(ctx, embedding, s.cfg.DenseTopK)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.RetrievalCandidate, len(hits))
	for i, hit := range hits {
		candidates[i] = domain.RetrievalCandidate{
			ID:           hit.ID,
			Score:        hit.Score,
			DocID:        hit.Payload.DocID,
			DocTitle:     hit.Payload.DocTitle,
			SectionTitle: hit.Payload.SectionTitle,
			Pages:        hit.Payload.PageNums,
			ChunkIndex:   hit.Payload.ChunkIndex,
			ContentType:  hit.Payload.ContentType,
		}
	}
	return candidates, nil
}

// lexicalSearch runs the BM25 side.
func (s *RetrievalService) lexicalSearch(ctx context.Context, query string) ([]domain.RetrievalCandidate, error) {
	hits, err := s.lexical.Search(ctx, query, s.cfg.LexicalTopK)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.RetrievalCandidate, len(hits))
	for i, hit := range hits {
		candidates[i] = domain.RetrievalCandidate{
			ID:           hit.Doc.ChunkID,
			Score:        hit.Score,
			DocID:        hit.Doc.DocID,
			DocTitle:     hit.Doc.Title,
			SectionTitle: hit.Doc.Section,
			Pages:        hit.Doc.Pages,
			ChunkIndex:   chunkIndexFromID(hit.Doc.ChunkID),
			ContentType:  hit.Doc.ContentType,
		}
	}
	return candidates, nil
}

// chunkIndexFromID parses the trailing index of a "{doc_id}:{index}" key.
func chunkIndexFromID(chunkID string) int {
	i := strings.LastIndex(chunkID, ":")
	if i < 0 {
		return -1
	}
	n, err := strconv.Atoi(chunkID[i+1:])
	if err != nil {
		return -1
	}
	return n
}

// fuse merges the two ranked lists with reciprocal rank fusion over
// 0-based ranks: a rank-0 hit contributes 1/rrfK. A candidate absent
// from one side is charged domain.MissingRank there, so presence on
// both sides always beats a single strong appearance.
func fuse(dense, lexical []domain.RetrievalCandidate) []domain.FusedCandidate {
	denseRank := make(map[string]int, len(dense))
	for rank, c := range dense {
		if _, ok := denseRank[c.ChunkID()]; !ok {
			denseRank[c.ChunkID()] = rank
		}
	}
	lexicalRank := make(map[string]int, len(lexical))
	for rank, c := range lexical {
		if _, ok := lexicalRank[c.ChunkID()]; !ok {
			lexicalRank[c.ChunkID()] = rank
		}
	}

	byID := make(map[string]domain.RetrievalCandidate)
	for _, c := range dense {
		if _, ok := byID[c.ChunkID()]; !ok {
			byID[c.ChunkID()] = c
		}
	}
	for _, c := range lexical {
		if _, ok := byID[c.ChunkID()]; !ok {
			byID[c.ChunkID()] = c
		}
	}

	fused := make([]domain.FusedCandidate, 0, len(byID))
	for id, c := range byID {
		dr, ok := denseRank[id]
		if !ok {
			dr = domain.MissingRank
		}
		lr, ok := lexicalRank[id]
		if !ok {
			lr = domain.MissingRank
		}
		fused = append(fused, domain.FusedCandidate{
			RetrievalCandidate: c,
			FusionScore:        1.0/float64(rrfK+dr) + 1.0/float64(rrfK+lr),
			DenseRank:          dr,
			LexicalRank:        lr,
		})
	}

	sort.Slice(fused, func(i, j int) bool {
		a, b := fused[i], fused[j]
		if a.FusionScore != b.FusionScore {
			return a.FusionScore > b.FusionScore
		}
		if a.DenseRank != b.DenseRank {
			return a.DenseRank < b.DenseRank
		}
		if a.LexicalRank != b.LexicalRank {
			return a.LexicalRank < b.LexicalRank
		}
		return a.ChunkID() < b.ChunkID()
	})
	return fused
}

// hydratedCandidate carries a fused candidate with its resolved passage.
type hydratedCandidate struct {
	domain.FusedCandidate
	passage domain.Passage
}

// hydrate resolves chunk text from the lexical index's stored fields.
// Candidates whose chunk has been deleted since indexing are dropped.
func (s *RetrievalService) hydrate(
	ctx context.Context, fused []domain.FusedCandidate,
) ([]hydratedCandidate, error) {
	out := make([]hydratedCandidate, 0, len(fused))
	for _, c := range fused {
		doc, err := s.lexical.GetByChunkID(ctx, c.ChunkID())
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Dropping stale candidate %s", c.ChunkID())
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", c.ChunkID(), err)
		}
		out = append(out, hydratedCandidate{
			FusedCandidate: c,
			passage: domain.Passage{
				ChunkID:      c.ChunkID(),
				DocTitle:     doc.Title,
				SectionTitle: doc.Section,
				Pages:        doc.Pages,
				ChunkIndex:   c.ChunkIndex,
				ContentType:  doc.ContentType,
				Text:         doc.Content,
			},
		})
	}
	return out, nil
}

// rerank scores all (query, passage) pairs in one batch and re-sorts by
// the pairwise score. Without a reranker the fusion order stands.
func (s *RetrievalService) rerank(
	ctx context.Context, query string, candidates []hydratedCandidate,
) ([]hydratedCandidate, error) {
	if s.reranker == nil || len(candidates) == 0 {
		return candidates, nil
	}

	pairs := make([]string, len(candidates))
	for i, c := range candidates {
		pairs[i] = pairText(c.passage)
	}

	scores, err := s.reranker.Rerank(ctx, query, pairs)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(candidates) {
		return nil, fmt.Errorf("reranker returned %d scores for %d passages", len(scores), len(candidates))
	}

	type scored struct {
		hydratedCandidate
		score float64
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{hydratedCandidate: c, score: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]hydratedCandidate, len(ranked))
	for i, r := range ranked {
		out[i] = r.hydratedCandidate
	}
	return out, nil
}

// pairText builds the passage side of a rerank pair: document context
// first, a table tag when applicable, then the chunk text.
func pairText(p domain.Passage) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(p.DocTitle)
	b.WriteString("] ")
	b.WriteString(p.SectionTitle)
	b.WriteString("\n")
	if p.ContentType == domain.ContentTable {
		b.WriteString("[TABLE]\n")
	}
	b.WriteString(p.Text)
	return b.String()
}

// diversify selects up to finalK candidates with a two-pass scan: first
// the best chunk of each document, then remaining slots filled by overall
// rank from the not-yet-taken candidates.
func diversify(ranked []hydratedCandidate, finalK int) []hydratedCandidate {
	if finalK <= 0 || len(ranked) == 0 {
		return nil
	}

	taken := make(map[string]bool, finalK)
	seenDoc := make(map[string]bool)
	out := make([]hydratedCandidate, 0, finalK)

	for _, c := range ranked {
		if len(out) >= finalK {
			break
		}
		if seenDoc[c.DocID] {
			continue
		}
		seenDoc[c.DocID] = true
		taken[c.ChunkID()] = true
		out = append(out, c)
	}

	for _, c := range ranked {
		if len(out) >= finalK {
			break
		}
		if taken[c.ChunkID()] {
			continue
		}
		taken[c.ChunkID()] = true
		out = append(out, c)
	}

	return out
}

// filterMode applies the content-type filter softly: if it would remove
// everything the unfiltered set is kept.
func filterMode(selected []hydratedCandidate, mode domain.RetrievalMode) []hydratedCandidate {
	var want domain.ContentType
	switch mode {
	case domain.ModeText:
		want = domain.ContentText
	case domain.ModeTable:
		want = domain.ContentTable
	default:
		return selected
	}

	filtered := make([]hydratedCandidate, 0, len(selected))
	for _, c := range selected {
		if c.passage.ContentType == want {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		logger.Debug("Mode filter %q removed all results, keeping unfiltered set", mode)
		return selected
	}
	return filtered
}
