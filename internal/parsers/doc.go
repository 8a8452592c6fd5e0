// Package parsers extracts normalised blocks from source documents.
// Each format parser emits one text block per page (or per document when
// the format has no pagination) and one table block per detected table,
// so the chunkers downstream see a uniform sequence regardless of format.
package parsers
