package domain

// ContentType distinguishes text chunks from rendered table chunks.
type ContentType string

// Chunk content types.
const (
	ContentText  ContentType = "text"
	ContentTable ContentType = "table"
)

// Chunk is a bounded unit of document content sized for embedding and
// retrieval. Table chunks carry their markdown rendering in Text so that
// both kinds are scored through the same field.
type Chunk struct {
	// ContentType is text or table.
	ContentType ContentType

	// Text is the content used for embedding and lexical indexing.
	// Never empty after filtering.
	Text string

	// Pages is the sorted set of page numbers the chunk spans.
	Pages []int

	// Heading is the most recent heading trail, truncated to 300 chars.
	Heading string

	// ChunkIndex is a dense 0-based index, assigned after filtering,
	// unique within one ingestion of one document.
	ChunkIndex int

	// TableID identifies the source table; empty for text chunks.
	TableID string

	// TableChunkIndex is the row-group index within the table; -1 for text.
	TableChunkIndex int

	// RowCount is the number of rows in the group, header included;
	// 0 for text chunks.
	RowCount int
}

// IsTable reports whether the chunk renders tabular content.
func (c Chunk) IsTable() bool {
	return c.ContentType == ContentTable
}

// ChunkPayload is the metadata persisted alongside each chunk in the
// vector index. It carries enough fields that retrieval never needs to
// re-read the original document.
type ChunkPayload struct {
	DocID           string      `json:"doc_id"`
	DocTitle        string      `json:"doc_title"`
	SourcePath      string      `json:"source_path"`
	SectionTitle    string      `json:"section_title"`
	PageNums        []int       `json:"page_nums"`
	ChunkIndex      int         `json:"chunk_index"`
	ContentType     ContentType `json:"content_type"`
	TableID         string      `json:"table_id"`
	TableChunkIndex int         `json:"table_chunk_index"`
	TableRows       int         `json:"n_table_rows"`
	CreatedAt       int64       `json:"created_at"`
}
