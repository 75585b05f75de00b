package driven

import (
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// Answer outcomes reported to Metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeFallback = "fallback"
)

// Metrics records pipeline counters. Implementations must be safe for
// concurrent use.
type Metrics interface {
	// ObserveAnswer records one tier attempt for a question.
	ObserveAnswer(tier domain.Tier, outcome string, elapsed time.Duration)

	// ObserveProcess records one document processing attempt.
	ObserveProcess(tier domain.Tier, outcome string, chunks int)

	// ObserveEmbeddingCache records a cache lookup.
	ObserveEmbeddingCache(hit bool)

	// ObserveRetry records an outbound retry with its reason
	// ("rate_limited", "server_error", "transport").
	ObserveRetry(reason string, delay time.Duration)
}
