package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

func scrape(t *testing.T, p *Prometheus) string {
	t.Helper()
	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheus_ObserveAnswer(t *testing.T) {
	p := NewPrometheus()

	p.ObserveAnswer(domain.TierVector, driven.OutcomeSuccess, 200*time.Millisecond)
	p.ObserveAnswer(domain.TierVector, driven.OutcomeSuccess, time.Second)
	p.ObserveAnswer(domain.TierKeyword, driven.OutcomeFallback, time.Millisecond)

	out := scrape(t, p)
	assert.Contains(t, out, `askdoc_answers_total{outcome="success",tier="vector"} 2`)
	assert.Contains(t, out, `askdoc_answers_total{outcome="fallback",tier="keyword"} 1`)
	assert.Contains(t, out, `askdoc_answer_duration_seconds_count{tier="vector"} 2`)
}

func TestPrometheus_ObserveProcess(t *testing.T) {
	p := NewPrometheus()

	p.ObserveProcess(domain.TierVector, driven.OutcomeSuccess, 4)
	p.ObserveProcess(domain.TierVector, driven.OutcomeFailure, 0)
	p.ObserveProcess("", driven.OutcomeFailure, 0)

	out := scrape(t, p)
	assert.Contains(t, out, `askdoc_documents_processed_total{outcome="success",tier="vector"} 1`)
	assert.Contains(t, out, `askdoc_documents_processed_total{outcome="failure",tier="none"} 1`)
	assert.Contains(t, out, `askdoc_chunks_indexed_total{tier="vector"} 4`)
}

func TestPrometheus_ObserveEmbeddingCache(t *testing.T) {
	p := NewPrometheus()

	p.ObserveEmbeddingCache(true)
	p.ObserveEmbeddingCache(false)
	p.ObserveEmbeddingCache(false)

	out := scrape(t, p)
	assert.Contains(t, out, `askdoc_embedding_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, out, `askdoc_embedding_cache_lookups_total{result="miss"} 2`)
}

func TestPrometheus_ObserveRetry(t *testing.T) {
	p := NewPrometheus()

	p.ObserveRetry("rate_limited", 2*time.Second)

	out := scrape(t, p)
	assert.Contains(t, out, `askdoc_upstream_retries_total{reason="rate_limited"} 1`)
	assert.Contains(t, out, `askdoc_upstream_retry_delay_seconds_count 1`)
}

func TestPrometheus_InstancesAreIndependent(t *testing.T) {
	a := NewPrometheus()
	b := NewPrometheus()

	a.ObserveEmbeddingCache(true)

	assert.NotContains(t, scrape(t, b), `askdoc_embedding_cache_lookups_total{result="hit"}`)
	assert.NotNil(t, a.Registry())
}
