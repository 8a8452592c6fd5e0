// Package domain contains the core types shared across the ingestion and
// retrieval pipelines. It has no dependencies on adapters or services.
package domain
