package cli

import (
	"context"
	"errors"

	"github.com/passim-search/passim/internal/config"
	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockRetrievalService struct {
	passages []domain.Passage
	docs     []domain.DocumentInfo
	err      error
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, _ domain.RetrieveOptions) ([]domain.Passage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.passages, nil
}

func (m *mockRetrievalService) Documents(_ context.Context) ([]domain.DocumentInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

type mockIngestionService struct {
	result  *domain.IngestResult
	reports []driving.FileReport
	err     error
}

func (m *mockIngestionService) IngestFile(_ context.Context, _, _ string) (*domain.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockIngestionService) IngestDirectory(_ context.Context, _ string) ([]driving.FileReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reports, nil
}

type mockAnswerService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, _ domain.RetrieveOptions) (*domain.Answer, []domain.Passage, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.answer, nil, nil
}

type mockAdminService struct {
	err       error
	wiped     bool
	wipeStore bool
}

func (m *mockAdminService) Wipe(_ context.Context, wipeStore bool) error {
	if m.err != nil {
		return m.err
	}
	m.wiped = true
	m.wipeStore = wipeStore
	return nil
}

var errMockFailure = errors.New("mock failure")

// setupTestServices installs mock services and returns a cleanup that
// restores the previous ones.
func setupTestServices() func() {
	oldCfg := cfg
	oldIngestion := ingestionService
	oldRetrieval := retrievalService
	oldAnswer := answerService
	oldAdmin := adminService

	defaults := config.Default()
	cfg = &defaults
	ingestionService = &mockIngestionService{
		result: &domain.IngestResult{DocID: "doc", ChunkCount: 2, Outcome: domain.IngestOK},
	}
	retrievalService = &mockRetrievalService{
		passages: []domain.Passage{
			{ChunkID: "doc:0", DocTitle: "Manual", SectionTitle: "Fuses", Pages: []int{3}, Text: "The fuse is rated at 5 amps."},
		},
		docs: []domain.DocumentInfo{{DocID: "doc", Title: "Manual", ChunkCount: 4}},
	}
	answerService = &mockAnswerService{
		answer: &domain.Answer{
			Answer:    "The fuse is rated at 5 amps [1].",
			Provider:  "openai",
			Citations: []domain.Citation{{ChunkID: "doc:0", DocTitle: "Manual", Pages: []int{3}}},
		},
	}
	adminService = &mockAdminService{}

	return func() {
		cfg = oldCfg
		ingestionService = oldIngestion
		retrievalService = oldRetrieval
		answerService = oldAnswer
		adminService = oldAdmin
	}
}
