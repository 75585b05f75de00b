package domain

import "time"

const unknownDescription = "Unknown"

// Tier identifies a complete retrieval and answering strategy.
type Tier string

// Available tiers, highest value first.
const (
	// TierVector embeds chunks and answers from the nearest chunks with an LLM.
	TierVector Tier = "vector"

	// TierKeyword retrieves chunks by keyword overlap and answers without an LLM.
	TierKeyword Tier = "keyword"

	// TierLegacy retrieves chunks by keyword overlap and answers with an LLM.
	TierLegacy Tier = "legacy"
)

// IsValid returns true if the tier is recognised.
func (t Tier) IsValid() bool {
	switch t {
	case TierVector, TierKeyword, TierLegacy:
		return true
	default:
		return false
	}
}

// RequiresLLM returns true if the tier calls the LLM provider.
func (t Tier) RequiresLLM() bool {
	return t == TierVector || t == TierLegacy
}

// RequiresVectorStore returns true if the tier needs a vector store.
func (t Tier) RequiresVectorStore() bool {
	return t == TierVector
}

// String returns the string representation.
func (t Tier) String() string {
	return string(t)
}

// Description returns a human-readable description of the tier.
func (t Tier) Description() string {
	switch t {
	case TierVector:
		return "Vector (embedding similarity + LLM)"
	case TierKeyword:
		return "Keyword (keyword overlap, no AI)"
	case TierLegacy:
		return "Legacy LLM (keyword overlap + LLM)"
	default:
		return unknownDescription
	}
}

// AllTiers returns every tier in priority order.
func AllTiers() []Tier {
	return []Tier{TierVector, TierKeyword, TierLegacy}
}

// Answer is the outcome of answering one question.
type Answer struct {
	// Text is the answer shown to the user. It is always set,
	// including when every tier failed.
	Text string

	// Tier is the tier that produced Text. Empty when no tier succeeded.
	Tier Tier

	// Degraded is true when Text came from a non-AI fallback or is a failure message.
	Degraded bool

	// FellBack is true when the first tier failed and a lower tier answered.
	FellBack bool
}

// AnswerRecord is a logged question and its answer.
type AnswerRecord struct {
	ID         string
	DocumentID string
	Username   string
	Question   string
	Answer     string
	Tier       Tier
	Degraded   bool
	CreatedAt  time.Time
}

// HistoryFilter narrows an answer log listing.
type HistoryFilter struct {
	// DocumentID restricts records to one document when set.
	DocumentID string

	// Username restricts records to one user when set.
	Username string

	// Limit caps the number of records. Zero means no limit.
	Limit int
}
