package mcp

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	details   *driving.DocumentDetails
	record    *domain.AnswerRecord
	err       error

	lastRaw      *domain.RawDocument
	lastQuestion string
	lastUsername string
}

func (m *mockDocumentService) Ingest(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	m.lastRaw = raw
	return m.document, m.err
}

func (m *mockDocumentService) Reprocess(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Ask(_ context.Context, _, question, username string) (*domain.AnswerRecord, error) {
	m.lastQuestion = question
	m.lastUsername = username
	return m.record, m.err
}

func (m *mockDocumentService) History(_ context.Context, _ domain.HistoryFilter) ([]domain.AnswerRecord, error) {
	return nil, m.err
}

func (m *mockDocumentService) Wait() {}

// mockQAService is a mock implementation of driving.QAService.
type mockQAService struct {
	cleared []string
	err     error
}

func (m *mockQAService) ProcessDocument(_ context.Context, id, _ string) (*domain.ProcessResult, error) {
	return &domain.ProcessResult{DocumentID: id}, m.err
}

func (m *mockQAService) AnswerQuestion(_ context.Context, _, _ string) (*domain.Answer, error) {
	return &domain.Answer{}, m.err
}

func (m *mockQAService) ClearDocument(_ context.Context, id string) error {
	m.cleared = append(m.cleared, id)
	return m.err
}

func (m *mockQAService) Tiers() []domain.Tier {
	return domain.AllTiers()
}
