package driven

// Prompt template names recognised by the PromptStore.
const (
	// PromptSummarise condenses a conversation history into a short
	// session summary.
	PromptSummarise = "summarise"

	// PromptRefine rewrites a user message against the session summary,
	// resolving pronouns and anaphora.
	PromptRefine = "refine"

	// PromptAnswer is the grounding prompt for answer generation.
	PromptAnswer = "answer"
)

// PromptStore loads LLM prompt templates.
//
// Implementations may serve user-editable files with embedded
// defaults as fallback.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
