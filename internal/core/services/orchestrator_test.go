package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

func TestOrchestrator_FirstTierAnswers(t *testing.T) {
	vector := &mockStrategy{tier: domain.TierVector, answer: "From vectors."}
	keyword := &mockStrategy{tier: domain.TierKeyword, answer: "From keywords."}
	metrics := &mockMetrics{}
	o := NewOrchestrator([]Strategy{vector, keyword}, metrics)

	got, err := o.AnswerQuestion(context.Background(), "doc-1", "q")

	require.NoError(t, err)
	assert.Equal(t, &domain.Answer{Text: "From vectors.", Tier: domain.TierVector}, got)
	assert.Zero(t, keyword.Asked())
	assert.Equal(t, []string{"vector:success"}, metrics.answers)
}

func TestOrchestrator_FallsBackOnce(t *testing.T) {
	vector := &mockStrategy{tier: domain.TierVector, answerErr: domain.ErrRateLimited}
	keyword := &mockStrategy{tier: domain.TierKeyword, answer: "From keywords."}
	legacy := &mockStrategy{tier: domain.TierLegacy, answer: "never"}
	metrics := &mockMetrics{}
	o := NewOrchestrator([]Strategy{vector, keyword, legacy}, metrics)

	got, err := o.AnswerQuestion(context.Background(), "doc-1", "q")

	require.NoError(t, err)
	assert.Equal(t, "From keywords.", got.Text)
	assert.Equal(t, domain.TierKeyword, got.Tier)
	assert.True(t, got.FellBack)
	assert.True(t, got.Degraded)
	assert.Zero(t, legacy.Asked())
	assert.Equal(t, []string{"vector:failure", "keyword:fallback"}, metrics.answers)
}

func TestOrchestrator_BothTiersFail(t *testing.T) {
	vector := &mockStrategy{tier: domain.TierVector, answerErr: errors.New("boom")}
	legacy := &mockStrategy{tier: domain.TierLegacy, answerErr: fmt.Errorf("chat: %w", domain.ErrRateLimited)}
	keyword := &mockStrategy{tier: domain.TierKeyword, answer: "never"}
	o := NewOrchestrator([]Strategy{vector, legacy, keyword}, nil)

	got, err := o.AnswerQuestion(context.Background(), "doc-1", "q")

	require.NoError(t, err)
	assert.Equal(t, MessageRateLimited, got.Text)
	assert.True(t, got.Degraded)
	assert.Empty(t, got.Tier)
	assert.Zero(t, keyword.Asked())
}

func TestOrchestrator_BothFailKeepsRecognisedFirstError(t *testing.T) {
	vector := &mockStrategy{tier: domain.TierVector, answerErr: domain.ErrUpstreamUnavailable}
	keyword := &mockStrategy{tier: domain.TierKeyword, answerErr: errors.New("boom")}
	o := NewOrchestrator([]Strategy{vector, keyword}, nil)

	got, err := o.AnswerQuestion(context.Background(), "doc-1", "q")

	require.NoError(t, err)
	assert.Equal(t, MessageUnavailable, got.Text)
}

func TestOrchestrator_SingleTierFailure(t *testing.T) {
	keyword := &mockStrategy{tier: domain.TierKeyword, answerErr: domain.ErrNotFound}
	o := NewOrchestrator([]Strategy{keyword}, nil)

	got, err := o.AnswerQuestion(context.Background(), "doc-1", "q")

	require.NoError(t, err)
	assert.Equal(t, &domain.Answer{Text: MessageNotFound, Degraded: true}, got)
}

func TestOrchestrator_NoTiers(t *testing.T) {
	o := NewOrchestrator([]Strategy{nil}, nil)

	got, err := o.AnswerQuestion(context.Background(), "doc-1", "q")

	require.NoError(t, err)
	assert.Equal(t, MessageNoTier, got.Text)
	assert.True(t, got.Degraded)
	assert.Empty(t, o.Tiers())
}

func TestOrchestrator_Nil(t *testing.T) {
	var o *Orchestrator

	_, err := o.AnswerQuestion(context.Background(), "doc-1", "q")

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestOrchestrator_KeywordOnlyAnswersWithoutProvider(t *testing.T) {
	deps := TierDeps{
		Settings:  &domain.AppSettings{QA: domain.QASettings{Tiers: domain.AllTiers()}},
		Pipelines: chunkingPipeline,
	}
	strategies, warnings, err := BuildStrategies(deps)
	require.NoError(t, err)
	assert.Len(t, warnings, 2)

	o := NewOrchestrator(strategies, nil)
	ctx := context.Background()
	_, err = o.ProcessDocument(ctx, "doc-1", paragraphs("apple pie recipe", "car engine repair"))
	require.NoError(t, err)

	got, err := o.AnswerQuestion(ctx, "doc-1", "how to repair a car")

	require.NoError(t, err)
	assert.Equal(t, domain.TierKeyword, got.Tier)
	assert.True(t, got.Degraded)
	assert.Contains(t, got.Text, "car engine repair")
	assert.False(t, got.FellBack)
}

func TestOrchestrator_ProcessUsesFirstTierOnly(t *testing.T) {
	vector := &mockStrategy{tier: domain.TierVector, chunks: 4}
	keyword := &mockStrategy{tier: domain.TierKeyword}
	metrics := &mockMetrics{}
	o := NewOrchestrator([]Strategy{vector, keyword}, metrics)

	got, err := o.ProcessDocument(context.Background(), "doc-1", "content")

	require.NoError(t, err)
	assert.Equal(t, &domain.ProcessResult{DocumentID: "doc-1", Tier: domain.TierVector, Chunks: 4}, got)
	assert.Equal(t, []string{"doc-1"}, vector.processed)
	assert.Empty(t, keyword.processed)
	assert.Equal(t, []string{"vector:success:4"}, metrics.process)
}

func TestOrchestrator_ProcessFailure(t *testing.T) {
	vector := &mockStrategy{tier: domain.TierVector, processErr: domain.ErrUpstreamUnavailable}
	metrics := &mockMetrics{}
	o := NewOrchestrator([]Strategy{vector}, metrics)

	_, err := o.ProcessDocument(context.Background(), "doc-1", "content")

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, []string{"vector:failure:0"}, metrics.process)
}

func TestOrchestrator_ProcessWithoutTiers(t *testing.T) {
	o := NewOrchestrator(nil, nil)

	_, err := o.ProcessDocument(context.Background(), "doc-1", "content")

	assert.ErrorIs(t, err, domain.ErrNoTierAvailable)
}

func TestOrchestrator_ClearDocumentJoinsErrors(t *testing.T) {
	vector := &mockStrategy{tier: domain.TierVector, clearErr: domain.ErrStorage}
	keyword := &mockStrategy{tier: domain.TierKeyword}
	legacy := &mockStrategy{tier: domain.TierLegacy, clearErr: domain.ErrNotFound}
	o := NewOrchestrator([]Strategy{vector, keyword, legacy}, nil)

	err := o.ClearDocument(context.Background(), "doc-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"doc-1"}, keyword.cleared)
}

func TestOrchestrator_Tiers(t *testing.T) {
	o := NewOrchestrator([]Strategy{
		&mockStrategy{tier: domain.TierVector},
		nil,
		&mockStrategy{tier: domain.TierLegacy},
	}, nil)

	assert.Equal(t, []domain.Tier{domain.TierVector, domain.TierLegacy}, o.Tiers())
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", fmt.Errorf("x: %w", domain.ErrNotFound), MessageNotFound},
		{"rate limited", domain.ErrRateLimited, MessageRateLimited},
		{"client", domain.ErrUpstreamClient, MessageClientError},
		{"unavailable", domain.ErrUpstreamUnavailable, MessageUnavailable},
		{"storage", domain.ErrStorage, MessageStorage},
		{"no tier", domain.ErrNoTierAvailable, MessageNoTier},
		{"other", errors.New("boom"), MessageGenericFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FailureMessage(tt.err))
		})
	}
}
