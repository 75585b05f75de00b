package tui

import (
	"context"
	"sync"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	mu       sync.Mutex
	inbox    chan domain.SessionMessage
	opened   []string
	closed   int
	asked    []string
	username string
	err      error
}

func newMockChatService() *mockChatService {
	return &mockChatService{inbox: make(chan domain.SessionMessage, 8)}
}

func (m *mockChatService) Open(sessionID string) (<-chan domain.SessionMessage, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = append(m.opened, sessionID)
	return m.inbox, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.closed++
	}
}

func (m *mockChatService) Ask(_ context.Context, _, _, question, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asked = append(m.asked, question)
	m.username = username
	return m.err
}

func (m *mockChatService) Wait() {}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	document *domain.Document
	err      error
}

func (m *mockDocumentService) Ingest(_ context.Context, _ *domain.RawDocument) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Reprocess(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return nil, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return nil, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Ask(_ context.Context, _, _, _ string) (*domain.AnswerRecord, error) {
	return nil, m.err
}

func (m *mockDocumentService) History(_ context.Context, _ domain.HistoryFilter) ([]domain.AnswerRecord, error) {
	return nil, m.err
}

func (m *mockDocumentService) Wait() {}
