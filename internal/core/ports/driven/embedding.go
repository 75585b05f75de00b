package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, the vector tier is disabled.
//
// Note: This is separate from VectorStore which stores and ranks vectors.
// EmbeddingService generates vectors; VectorStore stores them.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbeddingCache memoises embeddings keyed by the exact input text.
// It is never consulted for correctness; losing entries only costs
// additional provider calls.
type EmbeddingCache interface {
	// Get returns the cached vector and true on a hit.
	Get(ctx context.Context, text string) ([]float32, bool, error)

	// Put stores a vector for the text.
	Put(ctx context.Context, text string, embedding []float32) error

	// Len returns the number of cached entries.
	Len(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
