package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/httpretry"
	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func noSleep(context.Context, time.Duration) error { return nil }

func newService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewEmbeddingService(Config{
		APIKey:     "sk-test",
		BaseURL:    srv.URL + "/v1",
		HTTPClient: httpretry.New(httpretry.Config{MaxAttempts: 3}, httpretry.WithSleep(noSleep)),
	})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "sk-test"})
	require.NoError(t, err)

	assert.Equal(t, "text-embedding-3-small", svc.ModelName())
	assert.Equal(t, 1536, svc.Dimensions())
	assert.NoError(t, svc.Close())
}

func TestNewEmbeddingService_LargeModel(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, svc.Dimensions())
}

func TestNewEmbeddingService_MissingKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestEmbed_Success(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)
		assert.Equal(t, []string{"hello world"}, req.Input)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}],"model":"text-embedding-3-small"}`))
	})

	vec, err := svc.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.1, 0.2, 0.3}, vec, 1e-6)
}

func TestEmbed_EmptyText(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "sk-test"})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEmbed_Unauthorised(t *testing.T) {
	var calls int32
	svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})

	_, err := svc.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrUpstreamClient)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestEmbed_QuotaExhausted(t *testing.T) {
	var calls int32
	svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestEmbed_EmptyData(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	})

	_, err := svc.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestPing(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	})

	assert.NoError(t, svc.Ping(context.Background()))
}
