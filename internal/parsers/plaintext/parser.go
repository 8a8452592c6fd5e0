// Package plaintext parses plain text files into a single text block.
package plaintext

import (
	"context"
	"fmt"
	"os"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Parser handles plain text documents.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions handled.
func (p *Parser) Extensions() []string {
	return []string{".txt"}
}

// Parse reads the whole file as one unpaginated text block.
func (p *Parser) Parse(_ context.Context, path string) ([]domain.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return []domain.Block{{
		Kind: domain.BlockText,
		Page: 1,
		Text: string(data),
	}}, nil
}
