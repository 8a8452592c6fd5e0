package services

import (
	"context"
	"fmt"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
	"github.com/passim-search/passim/internal/core/ports/driving"
	"github.com/passim-search/passim/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// AnswerService retrieves passages and generates an answer through an
// ordered provider chain. A provider that reports itself unavailable is
// skipped; the extractive provider at the end of the chain never fails.
type AnswerService struct {
	retrieval driving.RetrievalService
	providers []driven.AnswerProvider
}

// NewAnswerService creates a new answer service. Providers are consulted
// in the given order.
func NewAnswerService(retrieval driving.RetrievalService, providers ...driven.AnswerProvider) *AnswerService {
	return &AnswerService{
		retrieval: retrieval,
		providers: providers,
	}
}

// Answer retrieves passages for the question and generates a grounded
// answer with citations.
func (s *AnswerService) Answer(
	ctx context.Context, question string, opts domain.RetrieveOptions,
) (*domain.Answer, []domain.Passage, error) {
	passages, err := s.retrieval.Retrieve(ctx, question, opts)
	if err != nil {
		return nil, nil, err
	}

	if len(passages) == 0 {
		logger.Info("No passages retrieved, answering without generation")
		return &domain.Answer{
			Answer:   "Not found in the indexed documents.",
			Provider: "none",
		}, passages, nil
	}

	var lastErr error
	for _, provider := range s.providers {
		text, err := provider.Generate(ctx, question, passages)
		if err != nil {
			logger.Warn("Answer provider %s failed: %v", provider.Name(), err)
			lastErr = err
			continue
		}
		logger.Info("Answer generated by %s", provider.Name())
		return &domain.Answer{
			Answer:    text,
			Citations: citations(passages),
			Provider:  provider.Name(),
		}, passages, nil
	}

	if lastErr != nil {
		return nil, nil, fmt.Errorf("all answer providers failed: %w", lastErr)
	}
	return nil, nil, fmt.Errorf("no answer providers configured")
}

// citations maps the retrieved passages to citation entries in order.
func citations(passages []domain.Passage) []domain.Citation {
	out := make([]domain.Citation, len(passages))
	for i, p := range passages {
		out[i] = domain.Citation{
			ChunkID:  p.ChunkID,
			DocTitle: p.DocTitle,
			Pages:    p.Pages,
		}
	}
	return out
}
