// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"time"

	openaiembed "github.com/custodia-labs/askdoc/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/askdoc/internal/adapters/driven/httpretry"
	openaillm "github.com/custodia-labs/askdoc/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// requestTimeout bounds a single provider attempt.
const requestTimeout = 60 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues that disabled a service.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates the provider services that the settings allow.
// Without an API key both services are nil and only the keyword tier runs.
func Init(settings *domain.AppSettings, metrics driven.Metrics) *InitResult {
	result := &InitResult{}
	if settings == nil || !settings.OpenAI.IsConfigured() {
		return result
	}

	client := NewHTTPClient(settings.Retry, metrics)

	embedding, err := CreateEmbeddingService(settings, client)
	if err != nil {
		result.Warnings = append(result.Warnings, "embedding service disabled: "+err.Error())
	}
	result.EmbeddingService = embedding

	llm, err := CreateLLMService(settings, client)
	if err != nil {
		result.Warnings = append(result.Warnings, "LLM service disabled: "+err.Error())
	}
	result.LLMService = llm

	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}
	return result
}

// NewHTTPClient builds the retrying transport shared by provider adapters.
// Retries are reported to metrics when it is non-nil.
func NewHTTPClient(settings domain.RetrySettings, metrics driven.Metrics) *httpretry.Client {
	cfg := httpretry.Config{
		MaxAttempts:       settings.MaxAttempts,
		BaseDelay:         settings.BaseDelay,
		MaxDelay:          settings.MaxDelay,
		RequestsPerSecond: settings.RequestsPerSecond,
		Timeout:           requestTimeout,
	}
	if metrics != nil {
		cfg.OnRetry = metrics.ObserveRetry
	}
	return httpretry.New(cfg)
}

// CreateEmbeddingService creates the OpenAI embedding service.
// Returns nil if no API key is configured.
func CreateEmbeddingService(settings *domain.AppSettings, client *httpretry.Client) (driven.EmbeddingService, error) {
	if settings == nil || !settings.OpenAI.IsConfigured() {
		return nil, nil
	}

	cfg := openaiembed.Config{
		APIKey:  settings.OpenAI.APIKey,
		BaseURL: settings.OpenAI.BaseURL,
		Model:   settings.Embedding.Model,
	}
	if client != nil {
		cfg.HTTPClient = client
	}

	svc, err := openaiembed.NewEmbeddingService(cfg)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// CreateLLMService creates the OpenAI chat service.
// Returns nil if no API key is configured.
func CreateLLMService(settings *domain.AppSettings, client *httpretry.Client) (driven.LLMService, error) {
	if settings == nil || !settings.OpenAI.IsConfigured() {
		return nil, nil
	}

	cfg := openaillm.LLMConfig{
		APIKey:  settings.OpenAI.APIKey,
		BaseURL: settings.OpenAI.BaseURL,
		Model:   settings.LLM.Model,
	}
	if client != nil {
		cfg.HTTPClient = client
	}

	svc, err := openaillm.NewLLMService(cfg)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
