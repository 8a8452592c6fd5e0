// Package services contains the core application services: document
// ingestion, hybrid retrieval and answer generation. Services depend only
// on the port interfaces, never on concrete adapters.
package services
