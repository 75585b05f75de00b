package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Strategy is one complete retrieval and answering tier.
type Strategy interface {
	// Tier identifies the strategy.
	Tier() domain.Tier

	// Process chunks and indexes content, replacing any previous chunks.
	// Returns the number of chunks indexed.
	Process(ctx context.Context, documentID, content string) (int, error)

	// Answer retrieves context for the question and answers it.
	Answer(ctx context.Context, documentID, question string) (string, error)

	// Clear removes the document's chunks.
	Clear(ctx context.Context, documentID string) error
}

// Ensure strategies implement the interface.
var (
	_ Strategy = (*VectorStrategy)(nil)
	_ Strategy = (*KeywordStrategy)(nil)
	_ Strategy = (*LegacyLLMStrategy)(nil)
)

// VectorStrategy embeds every chunk, ranks chunks by cosine distance to the
// question embedding and answers with the LLM.
type VectorStrategy struct {
	pipeline  driven.PostProcessorPipeline
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	generator *LLMAnswerGenerator
	topK      int
}

// NewVectorStrategy creates the vector tier. A non-positive topK uses the default.
func NewVectorStrategy(
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	generator *LLMAnswerGenerator,
	topK int,
) *VectorStrategy {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &VectorStrategy{
		pipeline:  pipeline,
		embedder:  embedder,
		store:     store,
		generator: generator,
		topK:      topK,
	}
}

// Tier returns domain.TierVector.
func (s *VectorStrategy) Tier() domain.Tier {
	return domain.TierVector
}

// Process embeds all chunks before touching the store, so a provider
// failure leaves the previous chunk set intact.
func (s *VectorStrategy) Process(ctx context.Context, documentID, content string) (int, error) {
	chunks := chunkContent(ctx, s.pipeline, documentID, content)
	logger.Debug("Vector tier: %s split into %d chunks", documentID, len(chunks))

	for i := range chunks {
		vec, err := s.embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d of %s: %w", i, documentID, err)
		}
		chunks[i].Embedding = vec
	}

	if err := s.store.Clear(ctx, documentID); err != nil {
		return 0, fmt.Errorf("clear %s: %w", documentID, err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := s.store.Store(ctx, documentID, chunks); err != nil {
		return 0, fmt.Errorf("store %s: %w", documentID, err)
	}
	return len(chunks), nil
}

// Answer returns domain.ErrNotFound when the document has no stored chunks.
func (s *VectorStrategy) Answer(ctx context.Context, documentID, question string) (string, error) {
	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	chunks, err := s.store.Query(ctx, documentID, vec, s.topK)
	if err != nil {
		return "", fmt.Errorf("query %s: %w", documentID, err)
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("no chunks stored for %s: %w", documentID, domain.ErrNotFound)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	logger.Debug("Vector tier: %d nearest chunks for %s", len(texts), documentID)

	answer, err := s.generator.Generate(ctx, question, texts)
	if err != nil {
		return "", err
	}
	return answer, nil
}

// Clear deletes the document's stored chunks.
func (s *VectorStrategy) Clear(ctx context.Context, documentID string) error {
	if err := s.store.Clear(ctx, documentID); err != nil {
		return fmt.Errorf("clear %s: %w", documentID, err)
	}
	return nil
}

// KeywordStrategy answers from keyword matched chunks without any provider call.
type KeywordStrategy struct {
	retriever *KeywordRetriever
	answerer  *HeuristicAnswerer
}

// NewKeywordStrategy creates the keyword tier.
func NewKeywordStrategy(retriever *KeywordRetriever, answerer *HeuristicAnswerer) *KeywordStrategy {
	return &KeywordStrategy{
		retriever: retriever,
		answerer:  answerer,
	}
}

// Tier returns domain.TierKeyword.
func (s *KeywordStrategy) Tier() domain.Tier {
	return domain.TierKeyword
}

// Process indexes the document's chunks in memory.
func (s *KeywordStrategy) Process(ctx context.Context, documentID, content string) (int, error) {
	return s.retriever.IndexContent(ctx, documentID, content), nil
}

// Answer composes a heuristic answer from the retrieved chunks.
func (s *KeywordStrategy) Answer(ctx context.Context, documentID, question string) (string, error) {
	chunks, err := s.retriever.Retrieve(ctx, question, documentID)
	if err != nil {
		return "", err
	}
	return s.answerer.Compose(question, chunks), nil
}

// Clear forgets the document.
func (s *KeywordStrategy) Clear(_ context.Context, documentID string) error {
	s.retriever.Remove(documentID)
	return nil
}

// LegacyLLMStrategy retrieves by keyword overlap and answers with the LLM.
// It needs an API key but no vector store.
type LegacyLLMStrategy struct {
	retriever *KeywordRetriever
	generator *LLMAnswerGenerator
}

// NewLegacyLLMStrategy creates the legacy tier.
func NewLegacyLLMStrategy(retriever *KeywordRetriever, generator *LLMAnswerGenerator) *LegacyLLMStrategy {
	return &LegacyLLMStrategy{
		retriever: retriever,
		generator: generator,
	}
}

// Tier returns domain.TierLegacy.
func (s *LegacyLLMStrategy) Tier() domain.Tier {
	return domain.TierLegacy
}

// Process indexes the document's chunks in memory.
func (s *LegacyLLMStrategy) Process(ctx context.Context, documentID, content string) (int, error) {
	return s.retriever.IndexContent(ctx, documentID, content), nil
}

// Answer returns domain.ErrNotFound for a document without content.
func (s *LegacyLLMStrategy) Answer(ctx context.Context, documentID, question string) (string, error) {
	chunks, err := s.retriever.Retrieve(ctx, question, documentID)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("no chunks for %s: %w", documentID, domain.ErrNotFound)
	}

	answer, err := s.generator.Generate(ctx, question, chunks)
	if err != nil {
		return "", err
	}
	return answer, nil
}

// Clear forgets the document.
func (s *LegacyLLMStrategy) Clear(_ context.Context, documentID string) error {
	s.retriever.Remove(documentID)
	return nil
}
