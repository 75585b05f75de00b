package driven

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// Extractor turns uploaded bytes into document text.
// Each extractor handles specific MIME types (e.g., PDF, Markdown).
type Extractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract builds a document with Title and Content populated.
	// The ID is assigned by the caller.
	Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}

// ExtractorRegistry selects the appropriate extractor for a document.
type ExtractorRegistry interface {
	// Extract uses the highest priority extractor for the MIME type.
	// Returns domain.ErrUnsupportedType when none matches.
	Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// SupportedMIMETypes returns all MIME types that can be extracted.
	SupportedMIMETypes() []string
}
