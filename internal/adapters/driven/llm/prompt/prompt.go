// Package prompt builds the grounded-answer prompt shared by the LLM
// answer providers.
package prompt

import (
	"fmt"
	"strings"

	"github.com/passim-search/passim/internal/core/domain"
)

// DefaultContextBudget caps the passage context in characters so the
// prompt stays within small local-model windows.
const DefaultContextBudget = 18000

// System instructs the model to answer only from the provided context.
const System = `You are a careful assistant answering questions about a private document collection.
Answer using ONLY the numbered context passages. Cite passages inline as [1], [2] and so on.
If the context does not contain the answer, say you could not find it. Do not invent facts.`

// BuildContext renders numbered passage sections within the character
// budget. Passages that would overflow the budget are dropped whole.
func BuildContext(passages []domain.Passage, budget int) string {
	if budget <= 0 {
		budget = DefaultContextBudget
	}

	var b strings.Builder
	for i, p := range passages {
		section := formatPassage(i+1, p)
		if b.Len()+len(section) > budget {
			break
		}
		b.WriteString(section)
	}
	return strings.TrimRight(b.String(), "\n")
}

// User renders the final user message from the question and the built
// context.
func User(question, context string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer:", context, question)
}

func formatPassage(n int, p domain.Passage) string {
	header := fmt.Sprintf("[%d] %s", n, p.DocTitle)
	if p.SectionTitle != "" {
		header += " - " + p.SectionTitle
	}
	if len(p.Pages) > 0 {
		header += fmt.Sprintf(" (p. %s)", joinPages(p.Pages))
	}
	return header + "\n" + p.Text + "\n\n"
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}
