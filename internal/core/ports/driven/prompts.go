package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the embedded
	// default when one exists, or an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptAnswerSystem constrains answers to the supplied context.
	// This prompt has no format placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerUser wraps the context block and question.
	// The template expects two %s placeholders: context, then question.
	PromptAnswerUser = "answer_user"

	// PromptSummarise creates summaries of document content.
	// The template expects one %s placeholder for the content.
	PromptSummarise = "summarise"
)
