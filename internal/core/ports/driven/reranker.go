package driven

import "context"

// Reranker scores (query, text) pairs with a cross-encoder.
//
// This is an optional service - when nil, the rerank stage is skipped
// and first-stage retrieval order stands.
type Reranker interface {
	// Score returns one relevance score per candidate text, in input
	// order. Each pair is scored independently; there is no
	// cross-candidate interaction. Higher is more relevant.
	Score(ctx context.Context, query string, texts []string) ([]float64, error)

	// ModelName returns the name of the cross-encoder model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
