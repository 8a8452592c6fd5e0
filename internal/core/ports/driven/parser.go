package driven

import (
	"context"

	"github.com/passim-search/passim/internal/core/domain"
)

// DocumentParser extracts text pages and detected tables from one file
// format and normalises them into blocks.
//
// Implementations must not silently drop tables detected during parsing;
// a table block with zero rows is a no-op downstream, not an error.
type DocumentParser interface {
	// Extensions returns the lowercased file extensions handled,
	// including the leading dot (e.g. ".pdf").
	Extensions() []string

	// Parse reads the file and returns the ordered block sequence:
	// one text block per page (or per document when unpaginated),
	// one table block per detected table with row 0 as the header.
	Parse(ctx context.Context, path string) ([]domain.Block, error)
}

// ParserRegistry dispatches files to parsers by extension.
type ParserRegistry interface {
	// ParserFor returns the parser for the path's extension, or
	// domain.ErrUnsupportedFormat when none is registered.
	ParserFor(path string) (DocumentParser, error)
}
