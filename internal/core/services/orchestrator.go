package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.QAService = (*Orchestrator)(nil)

// User-readable answers for failed questions.
const (
	MessageNotFound      = "Document not found."
	MessageRateLimited   = "OpenAI API quota exceeded. Please try again later."
	MessageClientError   = "The AI provider rejected the request. Please check your API key and settings."
	MessageUnavailable   = "The AI service is currently unavailable. Please try again later."
	MessageStorage       = "The document index is currently unavailable. Please try again later."
	MessageNoTier        = "RAG service not available."
	MessageGenericFailed = "Sorry, I encountered an error while answering your question."
)

// FailureMessage maps an answering error to the text shown to the user.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return MessageNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return MessageRateLimited
	case errors.Is(err, domain.ErrUpstreamClient):
		return MessageClientError
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return MessageUnavailable
	case errors.Is(err, domain.ErrStorage):
		return MessageStorage
	case errors.Is(err, domain.ErrNoTierAvailable):
		return MessageNoTier
	default:
		return MessageGenericFailed
	}
}

// Orchestrator runs questions against the highest available tier and falls
// back to the next tier once when it fails.
type Orchestrator struct {
	strategies []Strategy
	metrics    driven.Metrics
}

// NewOrchestrator creates an orchestrator over strategies in priority order.
// Nil strategies are skipped. Metrics may be nil.
func NewOrchestrator(strategies []Strategy, metrics driven.Metrics) *Orchestrator {
	active := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			active = append(active, s)
		}
	}
	return &Orchestrator{
		strategies: active,
		metrics:    metrics,
	}
}

// Tiers returns the active tiers in priority order.
func (o *Orchestrator) Tiers() []domain.Tier {
	tiers := make([]domain.Tier, len(o.strategies))
	for i, s := range o.strategies {
		tiers[i] = s.Tier()
	}
	return tiers
}

// ProcessDocument indexes content with the first tier only. Lower tiers
// build their chunks on demand when they are asked.
func (o *Orchestrator) ProcessDocument(
	ctx context.Context, documentID, content string,
) (*domain.ProcessResult, error) {
	if len(o.strategies) == 0 {
		o.observeProcess("", driven.OutcomeFailure, 0)
		return nil, fmt.Errorf("process document %s: %w", documentID, domain.ErrNoTierAvailable)
	}

	first := o.strategies[0]
	logger.Info("Processing %s with %s tier", documentID, first.Tier())

	n, err := first.Process(ctx, documentID, content)
	if err != nil {
		o.observeProcess(first.Tier(), driven.OutcomeFailure, 0)
		return nil, fmt.Errorf("process document %s with %s tier: %w", documentID, first.Tier(), err)
	}

	o.observeProcess(first.Tier(), driven.OutcomeSuccess, n)
	logger.Info("Processed %s into %d chunks", documentID, n)
	return &domain.ProcessResult{DocumentID: documentID, Tier: first.Tier(), Chunks: n}, nil
}

// AnswerQuestion answers with the first tier and, if it fails, with the
// next tier once. When both fail the answer is a fixed user-readable
// message with Degraded set. The error return is reserved for a nil
// orchestrator.
func (o *Orchestrator) AnswerQuestion(ctx context.Context, documentID, question string) (*domain.Answer, error) {
	if o == nil {
		return nil, fmt.Errorf("answer question: orchestrator: %w", domain.ErrNotConfigured)
	}
	if len(o.strategies) == 0 {
		logger.Warn("No answering tier available")
		return &domain.Answer{Text: MessageNoTier, Degraded: true}, nil
	}

	first := o.strategies[0]
	text, firstErr := o.attempt(ctx, first, documentID, question, driven.OutcomeSuccess)
	if firstErr == nil {
		return &domain.Answer{Text: text, Tier: first.Tier(), Degraded: !first.Tier().RequiresLLM()}, nil
	}
	logger.Warn("%s tier failed for %s: %v", first.Tier(), documentID, firstErr)

	if len(o.strategies) < 2 {
		return failedAnswer(firstErr, nil), nil
	}

	next := o.strategies[1]
	logger.Info("Falling back to %s tier", next.Tier())
	text, nextErr := o.attempt(ctx, next, documentID, question, driven.OutcomeFallback)
	if nextErr == nil {
		return &domain.Answer{
			Text:     text,
			Tier:     next.Tier(),
			Degraded: !next.Tier().RequiresLLM(),
			FellBack: true,
		}, nil
	}
	logger.Warn("%s tier failed for %s: %v", next.Tier(), documentID, nextErr)

	return failedAnswer(firstErr, nextErr), nil
}

// ClearDocument clears the document from every tier and joins the errors.
func (o *Orchestrator) ClearDocument(ctx context.Context, documentID string) error {
	var errs []error
	for _, s := range o.strategies {
		if err := s.Clear(ctx, documentID); err != nil {
			errs = append(errs, fmt.Errorf("clear %s tier: %w", s.Tier(), err))
		}
	}
	return errors.Join(errs...)
}

func (o *Orchestrator) attempt(
	ctx context.Context, s Strategy, documentID, question, successOutcome string,
) (string, error) {
	start := time.Now()
	text, err := s.Answer(ctx, documentID, question)
	outcome := successOutcome
	if err != nil {
		outcome = driven.OutcomeFailure
	}
	if o.metrics != nil {
		o.metrics.ObserveAnswer(s.Tier(), outcome, time.Since(start))
	}
	return text, err
}

func (o *Orchestrator) observeProcess(tier domain.Tier, outcome string, chunks int) {
	if o.metrics != nil {
		o.metrics.ObserveProcess(tier, outcome, chunks)
	}
}

// failedAnswer prefers the message of the last attempt unless only the
// first error was recognised.
func failedAnswer(firstErr, lastErr error) *domain.Answer {
	msg := FailureMessage(firstErr)
	if lastErr != nil {
		if last := FailureMessage(lastErr); last != MessageGenericFailed {
			msg = last
		}
	}
	return &domain.Answer{Text: msg, Degraded: true}
}
