// Package openaiclient builds go-openai clients for askdoc and maps their
// errors onto domain sentinels.
package openaiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// DefaultBaseURL is the public OpenAI endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config holds connection settings shared by the embedding and chat adapters.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the endpoint for compatible APIs.
	BaseURL string

	// HTTPClient sends requests. Usually an httpretry.Client.
	HTTPClient openai.HTTPDoer
}

// New creates a go-openai client.
func New(cfg Config) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w: API key is required", domain.ErrNotConfigured)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	} else {
		clientCfg.HTTPClient = http.DefaultClient
	}

	return openai.NewClientWithConfig(clientCfg), nil
}

// MapError wraps a go-openai error with the matching domain sentinel.
// Errors already carrying a sentinel (from the retrying transport) keep it.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUpstreamUnavailable) || errors.Is(err, domain.ErrUpstreamClient) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
	}

	if status := statusCode(err); status != 0 {
		switch {
		case status == http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w: %w: %w", op, domain.ErrUpstreamUnavailable, domain.ErrRateLimited, err)
		case status >= http.StatusInternalServerError:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
		case status >= http.StatusBadRequest:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamClient, err)
		}
	}

	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
