// Package openai provides an embedding service adapter using the OpenAI API.
package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/openaiclient"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL. Can be changed for compatible APIs.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-3-small).
	Model string

	// HTTPClient sends requests, normally with retries.
	HTTPClient openai.HTTPDoer
}

// EmbeddingService generates embeddings using the OpenAI API.
type EmbeddingService struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewEmbeddingService creates a new OpenAI embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = domain.DefaultEmbeddingModel
	}

	client, err := openaiclient.New(openaiclient.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	dimensions, ok := domain.EmbeddingDimensions()[cfg.Model]
	if !ok {
		dimensions = domain.DefaultEmbeddingDimensions
	}

	return &EmbeddingService{
		client:     client,
		model:      cfg.Model,
		dimensions: dimensions,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("embed: %w: empty text", domain.ErrInvalidInput)
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, openaiclient.MapError("embed", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embed: %w: no embedding returned", domain.ErrUpstreamUnavailable)
	}

	src := resp.Data[0].Embedding
	embedding := make([]float32, len(src))
	for i := range src {
		embedding[i] = float32(src[i])
	}
	return embedding, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the API key by listing models.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return openaiclient.MapError("ping", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
