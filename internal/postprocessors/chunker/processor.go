// Package chunker provides the paragraph and sentence chunking processor.
package chunker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// DefaultMaxLength is the default soft chunk size in characters.
const DefaultMaxLength = 1000

// Processor splits document content into paragraph and sentence bounded chunks.
// It implements the PostProcessor interface.
type Processor struct {
	maxLength int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxLength sets the soft chunk size in characters.
func WithMaxLength(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxLength = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxLength: DefaultMaxLength,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MaxLength returns the configured soft chunk size.
func (p *Processor) MaxLength() int {
	return p.maxLength
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	spans := Split(doc.Content, p.maxLength)
	if len(spans) == 0 {
		return nil, nil
	}

	now := time.Now()
	chunks := make([]domain.Chunk, 0, len(spans))
	for i, span := range spans {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    span,
			Position:   i,
			CreatedAt:  now,
		})
	}

	return chunks, nil
}
