package driven

import "context"

// Reranker scores the relevance of (query, passage) pairs with a pairwise
// cross-encoder model. Scoring is batched: one call per query over the
// whole candidate set, never one call per candidate.
type Reranker interface {
	// Rerank returns one relevance score per passage, in input order.
	Rerank(ctx context.Context, query string, passages []string) ([]float64, error)

	// ModelName returns the name of the reranker model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
