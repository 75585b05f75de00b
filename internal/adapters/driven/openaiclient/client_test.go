package openaiclient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	client, err := New(Config{APIKey: "sk-test", BaseURL: "http://localhost:9999/v1"})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    []error
		notWant []error
	}{
		{
			name:    "unauthorised",
			err:     &openai.APIError{HTTPStatusCode: 401, Message: "bad key"},
			want:    []error{domain.ErrUpstreamClient},
			notWant: []error{domain.ErrUpstreamUnavailable},
		},
		{
			name: "rate limited",
			err:  &openai.APIError{HTTPStatusCode: 429},
			want: []error{domain.ErrUpstreamUnavailable, domain.ErrRateLimited},
		},
		{
			name:    "server error",
			err:     &openai.RequestError{HTTPStatusCode: 503, Err: errors.New("unavailable")},
			want:    []error{domain.ErrUpstreamUnavailable},
			notWant: []error{domain.ErrUpstreamClient},
		},
		{
			name: "exhausted retries keep their sentinels",
			err:  fmt.Errorf("POST /embeddings: %w: %w", domain.ErrUpstreamUnavailable, domain.ErrRateLimited),
			want: []error{domain.ErrUpstreamUnavailable, domain.ErrRateLimited},
		},
		{
			name: "deadline",
			err:  context.DeadlineExceeded,
			want: []error{domain.ErrUpstreamUnavailable, context.DeadlineExceeded},
		},
		{
			name: "unknown",
			err:  errors.New("decode failure"),
			want: []error{domain.ErrUpstreamUnavailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapError("embed", tt.err)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "embed: ")
			for _, want := range tt.want {
				assert.ErrorIs(t, err, want)
			}
			for _, notWant := range tt.notWant {
				assert.NotErrorIs(t, err, notWant)
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, MapError("chat", nil))
}
