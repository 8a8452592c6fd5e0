package domain

// BlockKind discriminates normalised parser output.
type BlockKind string

// Block kinds produced by document parsers.
const (
	BlockText  BlockKind = "text"
	BlockTable BlockKind = "table"
)

// Block is the uniform unit emitted by document parsers. Text-bearing
// sources produce one text block per page (or one for the whole document
// when the format has no pagination); every detected table becomes its own
// table block with row 0 as the header.
type Block struct {
	// Kind is text or table.
	Kind BlockKind

	// Page is the 1-based page number the block was extracted from.
	Page int

	// Heading is an optional heading supplied by the parser.
	// Heading detection for text content is done by the chunker, not here.
	Heading string

	// Text is the raw text for text blocks.
	Text string

	// Rows holds table cells for table blocks, row 0 being the header.
	Rows [][]string

	// ColumnCount is the number of columns in the widest row.
	ColumnCount int

	// TableID identifies the table within its document (e.g. "table:1").
	TableID string
}
