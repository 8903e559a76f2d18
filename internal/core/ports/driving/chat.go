package driving

import (
	"context"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// ChatService handles multi-turn retrieval-augmented chat.
type ChatService interface {
	// Chat runs one conversation turn: refine against history, embed,
	// retrieve, optionally rerank, generate a grounded answer, persist
	// both turns.
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)

	// History returns the turns of a conversation.
	// Returns domain.ErrNotFound when the conversation has no turns.
	History(ctx context.Context, chatID string) (domain.ChatHistory, error)
}

// SearchService answers single-turn search queries.
type SearchService interface {
	// Search embeds the query, retrieves similar chunks, optionally
	// reranks, and generates a grounded answer. The query row is
	// persisted for audit.
	Search(ctx context.Context, query domain.UserQuery) (*domain.SearchAnswer, error)
}
