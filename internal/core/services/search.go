package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers single-turn queries against the document
// corpus. It shares the retrieve/rerank/generate stages with the chat
// pipeline but skips history refinement and conversation persistence.
type SearchService struct {
	queryStore driven.QueryStore
	retriever  retriever
	answerer   answerer
}

// NewSearchService creates a search service. The query store may be
// nil, which disables query auditing.
func NewSearchService(
	queryStore driven.QueryStore,
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	reranker driven.Reranker,
	prompts driven.PromptStore,
	settings domain.RetrievalSettings,
) *SearchService {
	return &SearchService{
		queryStore: queryStore,
		retriever: retriever{
			embedder: embedder,
			index:    index,
			docStore: docStore,
			reranker: reranker,
			settings: settings,
		},
		answerer: answerer{llm: llm, prompts: prompts},
	}
}

// Search runs one retrieval-augmented query.
func (s *SearchService) Search(ctx context.Context, query domain.UserQuery) (*domain.SearchAnswer, error) {
	text := strings.TrimSpace(query.QueryText)
	if text == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	logger.Section("Search")
	logger.Debug("Query: %q", text)

	if s.queryStore != nil {
		query.QueryText = text
		if _, err := s.queryStore.SaveQuery(ctx, query); err != nil {
			logger.Warn("Query audit failed: %v", err)
		}
	}

	results, err := s.retriever.retrieve(ctx, text)
	if err != nil {
		return nil, err
	}

	answer, err := s.answerer.generate(ctx, text, results)
	if err != nil {
		return nil, err
	}

	logger.Info("Search answered with %d supporting chunks", len(results))
	return &domain.SearchAnswer{
		Response:         answer.AnswerText,
		ResponseMetadata: results,
	}, nil
}
