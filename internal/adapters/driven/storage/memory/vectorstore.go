package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/storage/rank"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore keeps chunk embeddings in process memory.
type VectorStore struct {
	mu     sync.RWMutex
	chunks map[string][]domain.Chunk
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		chunks: make(map[string][]domain.Chunk),
	}
}

// Store appends chunks to the document's set.
func (s *VectorStore) Store(_ context.Context, documentID string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		c.DocumentID = documentID
		s.chunks[documentID] = append(s.chunks[documentID], c)
	}
	return nil
}

// Query returns the k chunks nearest to embedding.
func (s *VectorStore) Query(_ context.Context, documentID string, embedding []float32, k int) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rank.TopK(s.chunks[documentID], embedding, k), nil
}

// Clear deletes every chunk of the document.
func (s *VectorStore) Clear(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, documentID)
	return nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}
