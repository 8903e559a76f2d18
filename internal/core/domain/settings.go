package domain

import "fmt"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// RetrievalSettings configure the retrieve/rerank stages of the chat
// pipeline. They are fixed at startup; an inconsistent combination is
// rejected before the first request is served.
type RetrievalSettings struct {
	// NTopContent is the number of chunks fetched from the vector index.
	NTopContent int

	// NTopRerank is the number of chunks kept after cross-encoder
	// reranking. Only meaningful when UseReranker is set.
	NTopRerank int

	// UseReranker enables the second-stage cross-encoder pass.
	UseReranker bool
}

// Validate checks the settings for internal consistency.
func (s RetrievalSettings) Validate() error {
	if s.NTopContent <= 0 {
		return fmt.Errorf("%w: n_top_content must be positive, got %d", ErrInvalidConfig, s.NTopContent)
	}
	if s.UseReranker {
		if s.NTopRerank <= 0 {
			return fmt.Errorf("%w: n_top_rerank must be positive, got %d", ErrInvalidConfig, s.NTopRerank)
		}
		if s.NTopRerank > s.NTopContent {
			return fmt.Errorf("%w: n_top_rerank (%d) must not exceed n_top_content (%d)",
				ErrInvalidConfig, s.NTopRerank, s.NTopContent)
		}
	}
	return nil
}
