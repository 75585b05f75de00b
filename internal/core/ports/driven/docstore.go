package driven

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// DocumentStore persists uploaded documents.
// Backed by SQLite, or memory for ephemeral runs.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document.
	DeleteDocument(ctx context.Context, id string) error
}

// AnswerLog persists question and answer records.
type AnswerLog interface {
	// Record stores a record.
	Record(ctx context.Context, rec *domain.AnswerRecord) error

	// List returns records matching the filter, newest first.
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.AnswerRecord, error)

	// Count returns the number of records for a document.
	Count(ctx context.Context, documentID string) (int, error)

	// DeleteForDocument removes every record of a document.
	DeleteForDocument(ctx context.Context, documentID string) error
}
