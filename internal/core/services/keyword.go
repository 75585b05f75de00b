package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

const (
	// minKeywordLength is the rune count a question token must exceed to match.
	minKeywordLength = 3

	// keywordFallbackChunks is the number of leading chunks returned when
	// nothing matches.
	keywordFallbackChunks = 3
)

// ContentLoader returns the stored text of a document so a retriever can
// rebuild its chunks after a restart.
type ContentLoader interface {
	LoadContent(ctx context.Context, documentID string) (string, error)
}

// ContentLoaderFunc adapts a function to ContentLoader.
type ContentLoaderFunc func(ctx context.Context, documentID string) (string, error)

// LoadContent calls f.
func (f ContentLoaderFunc) LoadContent(ctx context.Context, documentID string) (string, error) {
	return f(ctx, documentID)
}

// DocumentContentLoader loads content from a document store.
func DocumentContentLoader(store driven.DocumentStore) ContentLoader {
	return ContentLoaderFunc(func(ctx context.Context, documentID string) (string, error) {
		doc, err := store.GetDocument(ctx, documentID)
		if err != nil {
			return "", err
		}
		return doc.Content, nil
	})
}

// KeywordRetriever selects chunks by case-insensitive keyword overlap.
// It owns an in-memory chunk list per document and never calls a provider.
type KeywordRetriever struct {
	mu       sync.RWMutex
	chunks   map[string][]string
	pipeline driven.PostProcessorPipeline
	loader   ContentLoader
}

// NewKeywordRetriever creates a retriever that chunks with pipeline.
// The loader is optional; without it unknown documents are not found.
func NewKeywordRetriever(pipeline driven.PostProcessorPipeline, loader ContentLoader) *KeywordRetriever {
	return &KeywordRetriever{
		chunks:   make(map[string][]string),
		pipeline: pipeline,
		loader:   loader,
	}
}

// IndexContent chunks content and replaces the document's chunk list.
// Returns the number of chunks.
func (r *KeywordRetriever) IndexContent(ctx context.Context, documentID, content string) int {
	chunks := chunkContent(ctx, r.pipeline, documentID, content)

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	r.Index(documentID, texts)
	return len(texts)
}

// Index replaces the chunk list of a document.
func (r *KeywordRetriever) Index(documentID string, chunks []string) {
	stored := append([]string(nil), chunks...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks[documentID] = stored
}

// Remove forgets a document.
func (r *KeywordRetriever) Remove(documentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chunks, documentID)
}

// indexed returns true if the document's chunks are held in memory.
func (r *KeywordRetriever) indexed(documentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.chunks[documentID]
	return ok
}

// Retrieve returns the chunks containing any question token longer than
// three characters, in chunk order. When nothing matches the first three
// chunks are returned instead, so the result is only empty for a document
// without content.
func (r *KeywordRetriever) Retrieve(ctx context.Context, question, documentID string) ([]string, error) {
	chunks, err := r.load(ctx, documentID)
	if err != nil {
		return nil, err
	}

	tokens := keywordTokens(question)
	var matches []string
	for _, chunk := range chunks {
		lower := strings.ToLower(chunk)
		for _, token := range tokens {
			if strings.Contains(lower, token) {
				matches = append(matches, chunk)
				break
			}
		}
	}

	if len(matches) == 0 {
		n := min(keywordFallbackChunks, len(chunks))
		logger.Debug("No keyword matches in %s, using first %d chunks", documentID, n)
		return append([]string(nil), chunks[:n]...), nil
	}

	logger.Debug("Keyword matches in %s: %d of %d chunks", documentID, len(matches), len(chunks))
	return matches, nil
}

func (r *KeywordRetriever) load(ctx context.Context, documentID string) ([]string, error) {
	r.mu.RLock()
	chunks, ok := r.chunks[documentID]
	r.mu.RUnlock()
	if ok {
		return chunks, nil
	}

	if r.loader == nil {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	content, err := r.loader.LoadContent(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", documentID, err)
	}

	logger.Debug("Rebuilding keyword chunks for %s", documentID)
	r.IndexContent(ctx, documentID, content)

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.chunks[documentID], nil
}

// chunkContent runs the pipeline over content. Segmentation failures are
// logged and yield an empty chunk set.
func chunkContent(
	ctx context.Context, pipeline driven.PostProcessorPipeline, documentID, content string,
) []domain.Chunk {
	chunks, err := pipeline.Process(ctx, &domain.Document{ID: documentID, Content: content})
	if err != nil {
		logger.Warn("Chunking %s failed, continuing with no chunks: %v", documentID, err)
		return nil
	}
	return chunks
}

// keywordTokens lowercases the question, splits it on whitespace and keeps
// tokens longer than minKeywordLength runes.
func keywordTokens(question string) []string {
	var tokens []string
	for _, field := range strings.Fields(strings.ToLower(question)) {
		if utf8.RuneCountInString(field) > minKeywordLength {
			tokens = append(tokens, field)
		}
	}
	return tokens
}
