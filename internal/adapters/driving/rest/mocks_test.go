package rest

import (
	"context"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driving"
)

// --- Mock implementations ---

// mockIngestion implements driving.IngestionService for testing.
type mockIngestion struct {
	reports []driving.FileReport
	err     error
	lastDir string
}

func (m *mockIngestion) IngestFile(_ context.Context, path, _ string) (*domain.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.IngestResult{DocID: domain.DocumentID(path), Outcome: domain.IngestOK}, nil
}

func (m *mockIngestion) IngestDirectory(_ context.Context, dir string) ([]driving.FileReport, error) {
	m.lastDir = dir
	if m.err != nil {
		return nil, m.err
	}
	return m.reports, nil
}

// mockRetrieval implements driving.RetrievalService for testing.
type mockRetrieval struct {
	passages []domain.Passage
	docs     []domain.DocumentInfo
	err      error
	lastOpts domain.RetrieveOptions
}

func (m *mockRetrieval) Retrieve(_ context.Context, _ string, opts domain.RetrieveOptions) ([]domain.Passage, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.passages, nil
}

func (m *mockRetrieval) Documents(_ context.Context) ([]domain.DocumentInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

// mockAnswer implements driving.AnswerService for testing.
type mockAnswer struct {
	answer   *domain.Answer
	passages []domain.Passage
	err      error
}

func (m *mockAnswer) Answer(_ context.Context, _ string, _ domain.RetrieveOptions) (*domain.Answer, []domain.Passage, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.answer, m.passages, nil
}

// mockAdmin implements driving.AdminService for testing.
type mockAdmin struct {
	err       error
	wiped     bool
	wipeStore bool
}

func (m *mockAdmin) Wipe(_ context.Context, wipeStore bool) error {
	if m.err != nil {
		return m.err
	}
	m.wiped = true
	m.wipeStore = wipeStore
	return nil
}
