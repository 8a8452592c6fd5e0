package driving

import (
	"context"

	"github.com/passim-search/passim/internal/core/domain"
)

// RetrievalService answers queries with the hybrid retrieval pipeline.
type RetrievalService interface {
	// Retrieve returns at most opts.FinalK passages for the query.
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) ([]domain.Passage, error)

	// Documents lists the ingested documents.
	Documents(ctx context.Context) ([]domain.DocumentInfo, error)
}

// AnswerService generates answers over retrieved passages.
type AnswerService interface {
	// Answer retrieves passages for the question and generates an answer
	// with citations.
	Answer(ctx context.Context, question string, opts domain.RetrieveOptions) (*domain.Answer, []domain.Passage, error)
}
