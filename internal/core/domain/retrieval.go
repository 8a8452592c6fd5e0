package domain

import "fmt"

// RetrievalMode selects which content types a caller wants back.
// The filter is soft: when filtering would remove every result the
// unfiltered set is returned instead.
type RetrievalMode string

// Retrieval modes.
const (
	ModeHybrid RetrievalMode = "hybrid"
	ModeText   RetrievalMode = "text"
	ModeTable  RetrievalMode = "table"
)

// RetrieveOptions configures one retrieval request.
type RetrieveOptions struct {
	// FinalK is the number of passages to return (default 8).
	FinalK int

	// Mode optionally restricts results to text or table chunks.
	Mode RetrievalMode
}

// MissingRank is the penalty rank assigned when a candidate is absent from
// one of the two ranked lists. Absence must not zero out a strong
// appearance on the other side, so a large constant is used instead.
const MissingRank = 10000

// RetrievalCandidate is the common shape returned by either index backend.
type RetrievalCandidate struct {
	// ID is the backend's identifier for the hit. It is not assumed to be
	// directly loadable from the other backend.
	ID string

	// Score is the backend-native relevance score.
	Score float64

	DocID        string
	DocTitle     string
	SectionTitle string
	Pages        []int
	ChunkIndex   int
	ContentType  ContentType
}

// ChunkID derives the composite lexical key for a candidate. Vector-side
// ids are deterministic UUIDs, so the key is always rebuilt from payload
// fields rather than trusted from the raw id.
func (c RetrievalCandidate) ChunkID() string {
	if c.DocID != "" && c.ChunkIndex >= 0 {
		return fmt.Sprintf("%s:%d", c.DocID, c.ChunkIndex)
	}
	return c.ID
}

// FusedCandidate is a candidate after reciprocal rank fusion.
type FusedCandidate struct {
	RetrievalCandidate

	// FusionScore is the summed reciprocal-rank score.
	FusionScore float64

	// DenseRank and LexicalRank are the 0-based ranks in each source list,
	// or MissingRank when the candidate was absent from that side.
	DenseRank   int
	LexicalRank int
}

// RerankedCandidate is a fused candidate after pairwise rescoring.
type RerankedCandidate struct {
	FusedCandidate

	// RerankScore is the pairwise scorer's relevance for (query, passage).
	RerankScore float64
}

// Passage is a final retrieval result with resolved chunk text.
type Passage struct {
	ChunkID      string      `json:"chunk_id"`
	DocTitle     string      `json:"doc_title"`
	SectionTitle string      `json:"section_title"`
	Pages        []int       `json:"pages"`
	ChunkIndex   int         `json:"chunk_index"`
	ContentType  ContentType `json:"content_type"`
	Text         string      `json:"text"`
}
