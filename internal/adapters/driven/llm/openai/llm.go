// Package openai provides an LLM service adapter using the OpenAI chat API.
package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/openaiclient"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// LLMConfig holds configuration for the OpenAI LLM service.
type LLMConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL. Can be changed for compatible APIs.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// HTTPClient sends requests, normally with retries.
	HTTPClient openai.HTTPDoer
}

// LLMService provides chat completion using the OpenAI API.
type LLMService struct {
	client *openai.Client
	model  string
}

// NewLLMService creates a new OpenAI LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.Model == "" {
		cfg.Model = domain.DefaultLLMModel
	}

	client, err := openaiclient.New(openaiclient.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	return &LLMService{client: client, model: cfg.Model}, nil
}

// Chat sends the conversation and returns the first choice's content.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	for i, msg := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", openaiclient.MapError("chat", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat: %w: no choices returned", domain.ErrUpstreamUnavailable)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the API key by listing models.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return openaiclient.MapError("ping", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
