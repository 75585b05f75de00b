package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// FailedAnswerText is returned alongside the error when generation fails.
const FailedAnswerText = "Failed to generate answer from OpenAI."

// Built-in prompts used when no prompt store is configured.
const (
	builtinAnswerSystem = "You are a helpful assistant that answers questions based on the provided document context. " +
		"Only use information from the context to answer questions. If the context doesn't contain " +
		"enough information to answer the question, say so. Be concise and accurate."
	builtinAnswerUser = "Context:\n%s\n\nQuestion: %s"
)

// LLMAnswerGenerator answers from retrieved chunks with a chat completion.
type LLMAnswerGenerator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	opts    driven.ChatOptions
}

// NewLLMAnswerGenerator creates a generator. The prompt store is optional.
func NewLLMAnswerGenerator(llm driven.LLMService, prompts driven.PromptStore, opts driven.ChatOptions) *LLMAnswerGenerator {
	return &LLMAnswerGenerator{
		llm:     llm,
		prompts: prompts,
		opts:    opts,
	}
}

// Generate joins chunks with blank lines into a context block and asks the
// model to answer only from it. On failure it returns FailedAnswerText
// together with the error so callers can either show or fall back.
func (g *LLMAnswerGenerator) Generate(ctx context.Context, question string, chunks []string) (string, error) {
	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: g.prompt(driven.PromptAnswerSystem, builtinAnswerSystem)},
		{Role: driven.RoleUser, Content: g.userMessage(question, chunks)},
	}

	logger.Debug("Generating answer from %d chunks (model %s, temperature %.1f)",
		len(chunks), g.llm.ModelName(), g.opts.Temperature)

	answer, err := g.llm.Chat(ctx, messages, g.opts)
	if err != nil {
		return FailedAnswerText, fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// Temperature returns the sampling temperature used for answers.
func (g *LLMAnswerGenerator) Temperature() float32 {
	return g.opts.Temperature
}

func (g *LLMAnswerGenerator) userMessage(question string, chunks []string) string {
	block := strings.Join(chunks, "\n\n")
	return fmt.Sprintf(g.prompt(driven.PromptAnswerUser, builtinAnswerUser), block, question)
}

func (g *LLMAnswerGenerator) prompt(name, fallback string) string {
	if g.prompts == nil {
		return fallback
	}
	p, err := g.prompts.Load(name)
	if err != nil {
		logger.Warn("prompt %s unavailable, using built-in: %v", name, err)
		return fallback
	}
	return p
}

// Heuristic answer text.
const (
	heuristicHeader  = "Based on the document content, here's what I found:"
	heuristicNoMatch = "I couldn't find specific information about your question in the document. " +
		"Please try rephrasing your question or check if the information is in a different section."
	heuristicDisclaimer = "---\n*Note: This is a fallback response generated without AI. " +
		"For AI-powered answers, configure an OpenAI API key.*"

	hintQuantity = "💡 **Hint**: Look for specific numbers or quantities in the sections above."
	hintTemporal = "💡 **Hint**: Look for dates or time references in the sections above."
	hintGeneric  = "💡 **Hint**: The sections above are the parts of the document most related to your question."

	// previewRunes is the number of runes of each chunk shown in a heuristic answer.
	previewRunes = 300
)

// HeuristicAnswerer composes an answer from retrieved chunks without an LLM.
type HeuristicAnswerer struct{}

// NewHeuristicAnswerer creates a heuristic answerer.
func NewHeuristicAnswerer() *HeuristicAnswerer {
	return &HeuristicAnswerer{}
}

// Compose lists a preview of each chunk followed by a hint chosen from the
// question words. The result always ends with a disclaimer that no AI was used.
func (h *HeuristicAnswerer) Compose(question string, chunks []string) string {
	var b strings.Builder

	if len(chunks) == 0 {
		b.WriteString(heuristicNoMatch)
	} else {
		b.WriteString(heuristicHeader)
		b.WriteString("\n\n")
		for _, chunk := range chunks {
			b.WriteString("• ")
			b.WriteString(preview(chunk, previewRunes))
			b.WriteString("\n\n")
		}
		b.WriteString(questionHint(question))
	}

	b.WriteString("\n\n")
	b.WriteString(heuristicDisclaimer)
	return b.String()
}

// preview truncates s to n runes, marking truncation with "...".
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func questionHint(question string) string {
	lower := strings.ToLower(question)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	has := func(w string) bool {
		for _, word := range words {
			if word == w {
				return true
			}
		}
		return false
	}

	switch {
	case strings.Contains(strings.Join(words, " "), "how many") || has("number"):
		return hintQuantity
	case has("when") || has("date"):
		return hintTemporal
	default:
		return hintGeneric
	}
}
