// Package pdf parses PDF documents into one text block per page.
// Table detection inside PDFs is left to the text chunker's structural
// heuristics; the extractor yields plain page text only.
package pdf

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Parser handles PDF documents.
type Parser struct{}

// New creates a new PDF parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions handled.
func (p *Parser) Extensions() []string {
	return []string{".pdf"}
}

// Parse extracts one text block per page. A page whose text extraction
// fails contributes an empty block rather than failing the document.
func (p *Parser) Parse(_ context.Context, path string) ([]domain.Block, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	blocks := make([]domain.Block, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		text := ""
		if !page.V.IsNull() {
			if t, err := page.GetPlainText(nil); err == nil {
				text = t
			}
		}
		blocks = append(blocks, domain.Block{
			Kind: domain.BlockText,
			Page: i,
			Text: text,
		})
	}
	return blocks, nil
}
