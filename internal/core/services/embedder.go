package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure CachingEmbedder implements the interface.
var _ driven.EmbeddingService = (*CachingEmbedder)(nil)

// CachingEmbedder memoises an EmbeddingService by exact input text.
// Cache failures are logged and treated as misses; they never fail a call.
type CachingEmbedder struct {
	service driven.EmbeddingService
	cache   driven.EmbeddingCache
	metrics driven.Metrics
}

// NewCachingEmbedder wraps service with cache. Metrics may be nil.
func NewCachingEmbedder(
	service driven.EmbeddingService,
	cache driven.EmbeddingCache,
	metrics driven.Metrics,
) *CachingEmbedder {
	return &CachingEmbedder{
		service: service,
		cache:   cache,
		metrics: metrics,
	}
}

// Embed returns the cached vector for text, fetching it on a miss.
func (e *CachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.cache != nil {
		vec, ok, err := e.cache.Get(ctx, text)
		if err != nil {
			logger.Warn("embedding cache read failed: %v", err)
		}
		e.observe(ok && err == nil)
		if ok && err == nil {
			return vec, nil
		}
	}

	vec, err := e.service.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, text, vec); err != nil {
			logger.Warn("embedding cache write failed: %v", err)
		}
	}
	return vec, nil
}

// CacheLen reports the number of cached embeddings, or -1 when unknown.
func (e *CachingEmbedder) CacheLen(ctx context.Context) int {
	if e.cache == nil {
		return 0
	}
	n, err := e.cache.Len(ctx)
	if err != nil {
		logger.Debug("embedding cache size unavailable: %v", err)
		return -1
	}
	return n
}

// Dimensions returns the wrapped service's vector size.
func (e *CachingEmbedder) Dimensions() int {
	return e.service.Dimensions()
}

// ModelName returns the wrapped service's model.
func (e *CachingEmbedder) ModelName() string {
	return e.service.ModelName()
}

// Ping checks the wrapped service.
func (e *CachingEmbedder) Ping(ctx context.Context) error {
	return e.service.Ping(ctx)
}

// Close closes the service and the cache.
func (e *CachingEmbedder) Close() error {
	err := e.service.Close()
	if e.cache != nil {
		if cerr := e.cache.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (e *CachingEmbedder) observe(hit bool) {
	if e.metrics != nil {
		e.metrics.ObserveEmbeddingCache(hit)
	}
}
