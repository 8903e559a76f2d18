package driven

import (
	"context"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// VectorIndex provides semantic similarity search over chunk embeddings.
//
// Implementations must agree on ranking semantics: results ascend by
// cosine distance, ties break by insertion order (ascending chunk key),
// and a search on an empty index returns an empty slice, not an error.
// An upsert and a concurrent search may interleave; a search is not
// required to observe an upsert that commits while it runs.
type VectorIndex interface {
	// Upsert inserts or replaces vectors for the given chunks. Every
	// embedding must match the index dimension.
	Upsert(ctx context.Context, chunks []domain.DocumentChunk) error

	// Search finds the k nearest chunks to the query vector, nearest
	// first. The result has at most k hits.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Delete removes vectors by key. Unknown keys are ignored.
	Delete(ctx context.Context, keys []domain.ChunkKey) error

	// Len returns the number of stored vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// Key identifies the matched chunk.
	Key domain.ChunkKey

	// Distance is the cosine distance (1 - cosine similarity).
	Distance float64
}
