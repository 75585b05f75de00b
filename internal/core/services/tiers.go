package services

import (
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// PipelineFactory builds a chunking pipeline for a soft chunk size.
type PipelineFactory func(maxLength int) (driven.PostProcessorPipeline, error)

// TierDeps holds what the tiers may need. Nil services disable the tiers
// that depend on them.
type TierDeps struct {
	Settings    *domain.AppSettings
	Pipelines   PipelineFactory
	Embedder    driven.EmbeddingService
	LLM         driven.LLMService
	VectorStore driven.VectorStore
	Prompts     driven.PromptStore
	Loader      ContentLoader
}

// BuildStrategies constructs the available tiers in priority order.
// A tier is built only when it is enabled in settings and its
// dependencies are present; skipped tiers are reported as warnings.
func BuildStrategies(deps TierDeps) ([]Strategy, []string, error) {
	settings := deps.Settings
	if settings == nil {
		defaults := domain.DefaultAppSettings()
		settings = &defaults
	}

	var (
		strategies []Strategy
		warnings   []string
	)

	long, err := deps.Pipelines(settings.Chunker.MaxLength)
	if err != nil {
		return nil, nil, err
	}

	chatOpts := driven.ChatOptions{MaxTokens: settings.LLM.MaxTokens, Temperature: settings.LLM.Temperature}

	if settings.QA.Enabled(domain.TierVector) {
		switch {
		case deps.Embedder == nil || deps.LLM == nil:
			warnings = append(warnings, "vector tier disabled: no OpenAI API key configured")
		case deps.VectorStore == nil:
			warnings = append(warnings, "vector tier disabled: no vector store configured")
		default:
			gen := NewLLMAnswerGenerator(deps.LLM, deps.Prompts, chatOpts)
			strategies = append(strategies,
				NewVectorStrategy(long, deps.Embedder, deps.VectorStore, gen, settings.Vector.TopK))
		}
	}

	if settings.QA.Enabled(domain.TierKeyword) {
		short, err := deps.Pipelines(settings.Chunker.KeywordMaxLength)
		if err != nil {
			return nil, nil, err
		}
		retriever := NewKeywordRetriever(short, deps.Loader)
		strategies = append(strategies, NewKeywordStrategy(retriever, NewHeuristicAnswerer()))
	}

	if settings.QA.Enabled(domain.TierLegacy) {
		if deps.LLM == nil {
			warnings = append(warnings, "legacy tier disabled: no OpenAI API key configured")
		} else {
			legacyOpts := chatOpts
			legacyOpts.Temperature = settings.LLM.LegacyTemperature
			gen := NewLLMAnswerGenerator(deps.LLM, deps.Prompts, legacyOpts)
			strategies = append(strategies,
				NewLegacyLLMStrategy(NewKeywordRetriever(long, deps.Loader), gen))
		}
	}

	for _, w := range warnings {
		logger.Debug("%s", w)
	}
	return strategies, warnings, nil
}
