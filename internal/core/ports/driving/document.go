package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// DocumentService manages uploaded documents and questions about them.
type DocumentService interface {
	// Ingest extracts text, stores the document and processes it for answering.
	// Processing failures degrade the summary but never fail the upload.
	Ingest(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// Reprocess clears and processes an existing document again.
	Reprocess(ctx context.Context, documentID string) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetDetails returns display metadata for a document.
	GetDetails(ctx context.Context, documentID string) (*DocumentDetails, error)

	// List returns all documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete clears the document from every tier and removes it.
	Delete(ctx context.Context, documentID string) error

	// Ask answers a question and records it in the answer log.
	Ask(ctx context.Context, documentID, question, username string) (*domain.AnswerRecord, error)

	// History lists logged answers, newest first.
	History(ctx context.Context, filter domain.HistoryFilter) ([]domain.AnswerRecord, error)

	// Wait blocks until background processing started by Ingest has finished.
	Wait()
}

// DocumentDetails provides a display view of document metadata.
type DocumentDetails struct {
	// ID is the unique document identifier.
	ID string

	// Title is the document title.
	Title string

	// URI is the original location.
	URI string

	// Summary is the stored summary.
	Summary string

	// ContentLength is the number of characters of extracted text.
	ContentLength int

	// Questions is the number of logged questions.
	Questions int

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time

	// Metadata contains flattened key-value pairs for display.
	Metadata map[string]string
}
