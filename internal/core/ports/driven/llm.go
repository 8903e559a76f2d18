package driven

import "context"

// LLMService provides language model completion for the chat pipeline.
//
// Implementations may include:
//   - OpenAI (gpt-4o, gpt-4o-mini)
//   - Ollama (local models)
type LLMService interface {
	// Complete sends a system prompt and a user message and returns the
	// model's text. All three pipeline calls (summarise, refine, answer)
	// go through this method with different system prompts.
	Complete(ctx context.Context, systemPrompt, userMessage string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures a completion call.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
