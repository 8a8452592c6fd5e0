package chunker

import (
	"github.com/passim-search/passim/internal/core/domain"
)

// ChunkBlocks converts a document's normalised blocks into the final chunk
// sequence: text blocks packed with overlap, table blocks grouped by rows,
// trivial chunks (under MinChunkTokens) filtered out, and ChunkIndex
// assigned densely over the filtered set.
func ChunkBlocks(blocks []domain.Block, opts Options) []domain.Chunk {
	var textBlocks, tableBlocks []domain.Block
	for _, b := range blocks {
		switch b.Kind {
		case domain.BlockTable:
			tableBlocks = append(tableBlocks, b)
		default:
			textBlocks = append(textBlocks, b)
		}
	}

	chunks := ChunkText(textBlocks, opts)
	chunks = append(chunks, ChunkTable(tableBlocks, DerivedTableOptions(opts))...)

	out := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if EstimateTokens(c.Text) < MinChunkTokens {
			continue
		}
		c.ChunkIndex = len(out)
		out = append(out, c)
	}
	return out
}
