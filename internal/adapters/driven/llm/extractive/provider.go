// Package extractive provides a deterministic fallback answer provider.
// It stitches excerpts from the strongest passages together so a question
// still gets a grounded response when no LLM is reachable.
package extractive

import (
	"context"
	"fmt"
	"strings"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.AnswerProvider = (*Provider)(nil)

// Excerpt limits.
const (
	maxPassages     = 3
	maxExcerptWords = 80
)

// Provider builds an extractive answer from the top passages. It never
// fails, which makes it the terminal link of the provider chain.
type Provider struct{}

// NewProvider creates a new extractive answer provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return "extractive"
}

// Generate concatenates excerpts of the top passages with citation
// markers. Passages arrive already ranked, so the first few are used.
func (p *Provider) Generate(_ context.Context, _ string, passages []domain.Passage) (string, error) {
	if len(passages) == 0 {
		return "Not found in the indexed documents.", nil
	}

	n := len(passages)
	if n > maxPassages {
		n = maxPassages
	}

	var b strings.Builder
	b.WriteString("Based on the indexed documents:\n\n")
	for i := 0; i < n; i++ {
		b.WriteString(fmt.Sprintf("[%d] %s\n", i+1, excerpt(passages[i].Text)))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// excerpt truncates text to the first maxExcerptWords words.
func excerpt(text string) string {
	words := strings.Fields(text)
	if len(words) <= maxExcerptWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxExcerptWords], " ") + "..."
}
