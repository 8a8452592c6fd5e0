// Package markdown parses Markdown files, separating GFM pipe tables from
// the running text so tables can be chunked row-wise.
package markdown

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Parser handles Markdown documents.
type Parser struct{}

// New creates a new Markdown parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions handled.
func (p *Parser) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Parse returns one text block with table lines removed, followed by one
// table block per detected pipe table.
func (p *Parser) Parse(_ context.Context, path string) ([]domain.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	lines := strings.Split(string(data), "\n")
	tables := detectTables(lines)

	removed := make(map[int]bool)
	for _, t := range tables {
		for i := t.start; i < t.end; i++ {
			removed[i] = true
		}
	}

	var textLines []string
	for i, line := range lines {
		if !removed[i] {
			textLines = append(textLines, line)
		}
	}

	var blocks []domain.Block
	if text := strings.Join(textLines, "\n"); strings.TrimSpace(text) != "" {
		blocks = append(blocks, domain.Block{
			Kind: domain.BlockText,
			Page: 1,
			Text: text,
		})
	}
	for i, t := range tables {
		blocks = append(blocks, domain.Block{
			Kind:        domain.BlockTable,
			Page:        1,
			Rows:        t.rows,
			ColumnCount: t.columnCount,
			TableID:     fmt.Sprintf("table:%d", i+1),
		})
	}
	return blocks, nil
}

// pipeTable is a contiguous run of pipe-table lines.
type pipeTable struct {
	start, end  int // line span [start, end)
	rows        [][]string
	columnCount int
}

// detectTables captures contiguous pipe-table blocks. This is a
// lightweight GFM detector: a table line starts and ends with "|".
func detectTables(lines []string) []pipeTable {
	var spans [][2]int
	start := -1
	for i, line := range lines {
		if isTableLine(line) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, [2]int{start, len(lines)})
	}

	tables := make([]pipeTable, 0, len(spans))
	for _, span := range spans {
		t := pipeTable{start: span[0], end: span[1]}
		for _, line := range lines[span[0]:span[1]] {
			cells := parseRow(line)
			if isSeparatorRow(cells) {
				continue
			}
			if len(cells) > t.columnCount {
				t.columnCount = len(cells)
			}
			t.rows = append(t.rows, cells)
		}
		tables = append(tables, t)
	}
	return tables
}

func isTableLine(line string) bool {
	s := strings.TrimSpace(line)
	return len(s) >= 2 && strings.HasPrefix(s, "|") && strings.HasSuffix(s, "|")
}

// parseRow splits a pipe-table line into trimmed cells.
func parseRow(line string) []string {
	s := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(s, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// isSeparatorRow reports whether every cell is a dash/colon alignment run
// (the "---" row under a GFM header).
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c == "" {
			return false
		}
		for _, r := range c {
			if r != '-' && r != ':' {
				return false
			}
		}
	}
	return true
}
