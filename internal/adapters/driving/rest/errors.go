package rest

import "errors"

// Errors returned by the REST server.
var (
	ErrMissingIngestionService = errors.New("missing ingestion service")
	ErrMissingRetrievalService = errors.New("missing retrieval service")
)
