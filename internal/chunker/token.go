package chunker

import (
	"math"
	"strings"
)

// MinChunkTokens is the floor below which chunks are dropped before
// persistence.
const MinChunkTokens = 4

// EstimateTokens approximates the token count of a piece of text as
// max(1, round(words * 1.3)). It is a deliberately cheap proxy, not a
// tokenizer; the same estimate is the budget currency everywhere.
func EstimateTokens(s string) int {
	words := len(strings.Fields(s))
	n := int(math.Round(float64(words) * 1.3))
	if n < 1 {
		return 1
	}
	return n
}

// estimateRowTokens approximates a table row's token cost as
// max(1, round(words(joined cells) * 1.2)).
func estimateRowTokens(row []string) int {
	words := len(strings.Fields(strings.Join(row, " ")))
	n := int(math.Round(float64(words) * 1.2))
	if n < 1 {
		return 1
	}
	return n
}
