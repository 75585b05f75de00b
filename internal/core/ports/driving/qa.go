package driving

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// QAService is the retrieval-augmented question answering core.
// It owns no durable state; it coordinates the configured tiers.
type QAService interface {
	// ProcessDocument chunks and indexes content with the first available tier.
	// Callers log a returned error and continue; ingestion is never aborted.
	ProcessDocument(ctx context.Context, documentID, content string) (*domain.ProcessResult, error)

	// AnswerQuestion answers with the first available tier, falling back to
	// the next tier once on failure. The returned answer text is always set.
	AnswerQuestion(ctx context.Context, documentID, question string) (*domain.Answer, error)

	// ClearDocument removes the document's chunks from every tier.
	ClearDocument(ctx context.Context, documentID string) error

	// Tiers returns the active tiers in priority order.
	Tiers() []domain.Tier
}
