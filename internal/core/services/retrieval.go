package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// retriever runs the shared retrieve/rerank stages for chat and search.
type retriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	docStore driven.DocumentStore
	reranker driven.Reranker
	settings domain.RetrievalSettings
}

// retrieve embeds the query, fetches the nearest chunks, and optionally
// reranks them with the cross-encoder. Results come back rank-ordered,
// best match first.
func (r *retriever) retrieve(ctx context.Context, query string) ([]domain.SimilarityResult, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.index.Search(ctx, vec, r.settings.NTopContent)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search returned %d hits (k=%d)", len(hits), r.settings.NTopContent)

	results := make([]domain.SimilarityResult, 0, len(hits))
	for _, hit := range hits {
		chunk, err := r.docStore.GetChunk(ctx, hit.Key)
		if err != nil {
			// The index can briefly lag behind the store after an
			// archive toggle; a missing chunk just drops out.
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Indexed chunk %s/%d missing from store", hit.Key.FileID, hit.Key.ChunkID)
				continue
			}
			return nil, fmt.Errorf("hydrate chunk: %w", err)
		}
		if chunk.IsArchived {
			continue
		}
		results = append(results, domain.SimilarityResult{Chunk: *chunk, Distance: hit.Distance})
	}

	if r.settings.UseReranker && r.reranker != nil && len(results) > 1 {
		results = r.rerank(ctx, query, results)
	}
	return results, nil
}

// rerank reorders candidates by cross-encoder score and truncates to
// the configured depth. A scoring failure keeps the retrieval order.
func (r *retriever) rerank(ctx context.Context, query string, results []domain.SimilarityResult) []domain.SimilarityResult {
	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.Chunk.Text
	}

	scores, err := r.reranker.Score(ctx, query, texts)
	if err != nil || len(scores) != len(results) {
		logger.Warn("Reranking failed, keeping retrieval order: %v", err)
		return results
	}

	for i := range results {
		score := scores[i]
		results[i].RerankScore = &score
	}
	sort.SliceStable(results, func(a, b int) bool {
		return *results[a].RerankScore > *results[b].RerankScore
	})

	if n := r.settings.NTopRerank; n > 0 && len(results) > n {
		results = results[:n]
	}
	logger.Debug("Reranked to %d candidates", len(results))
	return results
}
