package driven

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// VectorStore persists chunk text and embeddings per document and answers
// exact nearest-chunk queries. Ranking is exact over all chunks of the
// target document; no approximate index is involved.
type VectorStore interface {
	// Store persists one row per chunk. Chunks must carry embeddings.
	Store(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// Query returns at most k chunks of documentID ordered by ascending
	// cosine distance to embedding. Ties keep insertion order.
	Query(ctx context.Context, documentID string, embedding []float32, k int) ([]domain.Chunk, error)

	// Clear deletes every chunk of documentID.
	Clear(ctx context.Context, documentID string) error

	// Close releases resources.
	Close() error
}
