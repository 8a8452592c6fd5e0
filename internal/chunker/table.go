package chunker

import (
	"strings"

	"github.com/passim-search/passim/internal/core/domain"
)

// maxRenderColumns caps how many columns are rendered for wide tables.
// RowCount still reflects the full group.
const maxRenderColumns = 12

// TableOptions tunes the table chunker.
type TableOptions struct {
	// MinRowTokens is the minimum group size before a flush may happen.
	MinRowTokens int

	// MaxRowTokens is the row-group budget.
	MaxRowTokens int
}

// DerivedTableOptions derives table tuning from the text settings:
// tables get a smaller minimum and a tighter cap.
func DerivedTableOptions(opts Options) TableOptions {
	minRows := int(float64(opts.MinTokens) * 0.25)
	if minRows < 8 {
		minRows = 8
	}
	maxRows := int(float64(opts.MaxTokens) * 0.5)
	if maxRows < 32 {
		maxRows = 32
	}
	return TableOptions{MinRowTokens: minRows, MaxRowTokens: maxRows}
}

// ChunkTable groups each table block's rows into row-budgeted chunks,
// repeating the header row at the start of every group, and renders each
// group as compact markdown. Groups rendering to empty text are dropped.
func ChunkTable(blocks []domain.Block, opts TableOptions) []domain.Chunk {
	var chunks []domain.Chunk

	for _, b := range blocks {
		if b.Kind != domain.BlockTable || len(b.Rows) == 0 {
			continue
		}

		maxCols := maxRenderColumns
		if b.ColumnCount > 0 && b.ColumnCount < maxCols {
			maxCols = b.ColumnCount
		}

		page := b.Page
		if page < 1 {
			page = 1
		}

		for i, group := range groupRows(b.Rows, opts) {
			md := renderMarkdown(group, maxCols)
			if strings.TrimSpace(md) == "" {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				ContentType:     domain.ContentTable,
				Text:            md,
				Pages:           []int{page},
				Heading:         b.Heading,
				TableID:         b.TableID,
				TableChunkIndex: i,
				RowCount:        len(group),
			})
		}
	}

	return chunks
}

// groupRows accumulates data rows into header-seeded groups by estimated
// token cost. A group flushes when the next row would exceed MaxRowTokens,
// the group already holds MinRowTokens, and it contains more than just the
// header. Row order within a group matches source order.
func groupRows(rows [][]string, opts TableOptions) [][][]string {
	header := rows[0]
	dataRows := rows[1:]

	var (
		groups    [][][]string
		buf       [][]string
		curTokens int
	)

	reseed := func() {
		buf = [][]string{header}
		curTokens = estimateRowTokens(header)
	}
	reseed()

	for _, row := range dataRows {
		tokens := estimateRowTokens(row)
		if curTokens+tokens > opts.MaxRowTokens && curTokens >= opts.MinRowTokens && len(buf) > 1 {
			groups = append(groups, buf)
			reseed()
		}
		buf = append(buf, row)
		curTokens += tokens
	}

	if len(buf) > 1 {
		groups = append(groups, buf)
	}

	return groups
}

// renderMarkdown renders a row group to compact GitHub-flavoured markdown:
// header row, separator row of dashes, body rows. Cells are sanitised and
// wide rows are silently truncated to maxCols in the rendered text.
func renderMarkdown(rows [][]string, maxCols int) string {
	if len(rows) == 0 {
		return ""
	}

	header := truncateRow(rows[0], maxCols)
	headerCells := make([]string, len(header))
	for i, c := range header {
		s := sanitizeCell(c)
		if s == "" {
			s = " "
		}
		headerCells[i] = s
	}

	dashes := make([]string, len(header))
	for i := range dashes {
		dashes[i] = "---"
	}

	parts := []string{
		"| " + strings.Join(headerCells, " | ") + " |",
		"| " + strings.Join(dashes, " | ") + " |",
	}

	for _, row := range rows[1:] {
		row = truncateRow(row, maxCols)
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = sanitizeCell(c)
		}
		parts = append(parts, "| "+strings.Join(cells, " | ")+" |")
	}

	return strings.Join(parts, "\n")
}

// truncateRow limits a row to maxCols cells.
func truncateRow(row []string, maxCols int) []string {
	if maxCols > 0 && len(row) > maxCols {
		return row[:maxCols]
	}
	return row
}

// sanitizeCell stringifies a cell: tabs become spaces, surrounding
// whitespace is trimmed.
func sanitizeCell(c string) string {
	return strings.TrimSpace(strings.ReplaceAll(c, "\t", " "))
}
