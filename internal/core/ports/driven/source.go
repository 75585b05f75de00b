package driven

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// DocumentSource enumerates and watches files to upload.
type DocumentSource interface {
	// Root returns the location the source reads from.
	Root() string

	// Scan emits every supported file once. Both channels are closed when
	// the scan ends; a missing root is reported on the error channel.
	Scan(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch reports file changes until ctx is cancelled or Close is called.
	Watch(ctx context.Context) (<-chan domain.Change, error)

	// Close stops watching. Safe to call more than once.
	Close() error
}

// SourceFactory opens a document source rooted at path.
type SourceFactory func(path string) DocumentSource
