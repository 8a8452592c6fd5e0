package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no parser handles the file extension.
	// Fatal for that document, non-fatal for a directory batch.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrDimensionMismatch indicates the embedding output size disagrees
	// with the configured vector dimension. Ingestion must fail fast rather
	// than write wrong-sized vectors.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyQuery indicates a blank question. Rejected before any
	// index call.
	ErrEmptyQuery = errors.New("empty query")

	// ErrIndexUnavailable indicates the vector or lexical backend is
	// unreachable. Fatal for the call; callers retry with backoff.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrProviderUnavailable indicates an answer provider cannot serve the
	// request (not configured, unreachable). The next provider in the
	// chain is tried.
	ErrProviderUnavailable = errors.New("answer provider unavailable")
)
