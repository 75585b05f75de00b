package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
)

const (
	// summaryContentLimit is the number of runes of content sent for summarising.
	summaryContentLimit = 4000

	noContentSummary     = "No content available for summarization."
	builtinSummaryPrompt = "Please provide a concise summary of the following document content in 2-3 sentences:\n\n%s"
)

// BasicSummary describes a document that could not be summarised with AI.
func BasicSummary(content string) string {
	return fmt.Sprintf("Document processed without AI. Content length: %d characters.", len([]rune(content)))
}

// Summariser writes short document summaries with the LLM.
type Summariser struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	opts    driven.ChatOptions
}

// NewSummariser creates a summariser. The prompt store is optional.
func NewSummariser(llm driven.LLMService, prompts driven.PromptStore, opts driven.ChatOptions) *Summariser {
	return &Summariser{llm: llm, prompts: prompts, opts: opts}
}

// Summarise returns a 2-3 sentence summary of content. Empty content gets a
// fixed note without calling the provider. A nil Summariser returns
// domain.ErrNotConfigured.
func (s *Summariser) Summarise(ctx context.Context, content string) (string, error) {
	if s == nil || s.llm == nil {
		return "", fmt.Errorf("summarise: %w", domain.ErrNotConfigured)
	}
	if strings.TrimSpace(content) == "" {
		return noContentSummary, nil
	}

	limited := content
	if runes := []rune(content); len(runes) > summaryContentLimit {
		limited = string(runes[:summaryContentLimit]) + "..."
	}

	template := builtinSummaryPrompt
	if s.prompts != nil {
		if p, err := s.prompts.Load(driven.PromptSummarise); err == nil {
			template = p
		}
	}

	summary, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleUser, Content: fmt.Sprintf(template, limited)},
	}, s.opts)
	if err != nil {
		return "", fmt.Errorf("summarise: %w", err)
	}
	return strings.TrimSpace(summary), nil
}
