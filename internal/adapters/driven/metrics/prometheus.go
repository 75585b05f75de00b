// Package metrics records pipeline counters with Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

const namespace = "askdoc"

// Ensure Prometheus implements the interface.
var _ driven.Metrics = (*Prometheus)(nil)

// Prometheus implements driven.Metrics on a private registry so tests and
// multiple instances never collide on the default registerer.
type Prometheus struct {
	registry *prometheus.Registry

	answers        *prometheus.CounterVec
	answerDuration *prometheus.HistogramVec
	processed      *prometheus.CounterVec
	chunks         *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	retries        *prometheus.CounterVec
	retryDelay     prometheus.Histogram
}

// NewPrometheus creates the collectors and registers them with Go runtime
// and process collectors.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Question answering attempts by tier and outcome.",
		}, []string{"tier", "outcome"}),
		answerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_duration_seconds",
			Help:      "Time spent answering with one tier.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"tier"}),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_processed_total",
			Help:      "Document processing attempts by tier and outcome.",
		}, []string{"tier", "outcome"}),
		chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_indexed_total",
			Help:      "Chunks produced by document processing.",
		}, []string{"tier"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_lookups_total",
			Help:      "Embedding cache lookups by result.",
		}, []string{"result"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_retries_total",
			Help:      "Retries of outbound provider calls by reason.",
		}, []string{"reason"}),
		retryDelay: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_retry_delay_seconds",
			Help:      "Delay before each outbound retry.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 6),
		}),
	}

	p.registry.MustRegister(
		p.answers, p.answerDuration, p.processed, p.chunks,
		p.cacheLookups, p.retries, p.retryDelay,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// ObserveAnswer records one tier attempt for a question.
func (p *Prometheus) ObserveAnswer(tier domain.Tier, outcome string, elapsed time.Duration) {
	p.answers.WithLabelValues(tierLabel(tier), outcome).Inc()
	p.answerDuration.WithLabelValues(tierLabel(tier)).Observe(elapsed.Seconds())
}

// ObserveProcess records one document processing attempt.
func (p *Prometheus) ObserveProcess(tier domain.Tier, outcome string, chunks int) {
	p.processed.WithLabelValues(tierLabel(tier), outcome).Inc()
	if chunks > 0 {
		p.chunks.WithLabelValues(tierLabel(tier)).Add(float64(chunks))
	}
}

// ObserveEmbeddingCache records a cache lookup.
func (p *Prometheus) ObserveEmbeddingCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveRetry records an outbound retry.
func (p *Prometheus) ObserveRetry(reason string, delay time.Duration) {
	p.retries.WithLabelValues(reason).Inc()
	p.retryDelay.Observe(delay.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

func tierLabel(t domain.Tier) string {
	if t == "" {
		return "none"
	}
	return string(t)
}
