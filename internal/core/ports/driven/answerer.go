package driven

import (
	"context"

	"github.com/passim-search/passim/internal/core/domain"
)

// AnswerProvider generates a natural-language answer from a question and
// the final retrieved passages. Providers are tried in an ordered chain;
// one that cannot serve returns domain.ErrProviderUnavailable so the next
// is consulted.
type AnswerProvider interface {
	// Name identifies the provider ("openai", "ollama", "extractive").
	Name() string

	// Generate produces an answer grounded only in the given passages.
	Generate(ctx context.Context, question string, passages []domain.Passage) (string, error)
}
