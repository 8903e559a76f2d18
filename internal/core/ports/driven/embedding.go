package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The embedding dimension is a process-wide constant fixed at startup;
// every stored vector and every query vector must have exactly
// Dimensions() components. Backends are deterministic for a fixed model
// version.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. The result
	// has exactly one vector per input text, in input order. A backend
	// failure wraps domain.ErrEmbedding and is non-retryable within the
	// request.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
