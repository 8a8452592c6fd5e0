package parsers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry dispatches files to parsers by extension.
type Registry struct {
	byExt map[string]driven.DocumentParser
}

// NewRegistry builds a registry from the given parsers. Later parsers win
// on extension collisions.
func NewRegistry(parsers ...driven.DocumentParser) *Registry {
	r := &Registry{byExt: make(map[string]driven.DocumentParser)}
	for _, p := range parsers {
		for _, ext := range p.Extensions() {
			r.byExt[strings.ToLower(ext)] = p
		}
	}
	return r
}

// ParserFor returns the parser for the path's extension.
func (r *Registry) ParserFor(path string) (driven.DocumentParser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
	return p, nil
}
