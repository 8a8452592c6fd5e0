package rest

import (
	"github.com/passim-search/passim/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the REST
// server. This provides a single injection point for dependency injection.
type Ports struct {
	// Ingestion ingests uploaded documents.
	Ingestion driving.IngestionService

	// Retrieval answers queries.
	Retrieval driving.RetrievalService

	// Answer generates grounded answers. Optional; without it the
	// /answer endpoint reports 503.
	Answer driving.AnswerService

	// Admin wipes the indexes. Optional; without it DELETE /index
	// reports 503.
	Admin driving.AdminService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ingestion == nil {
		return ErrMissingIngestionService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
