package driven

import (
	"context"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// ChatStore persists conversation turns.
//
// A request row is written before the model call and a response row
// after it; neither is ever modified once written.
type ChatStore interface {
	// SaveRequest persists a user turn and returns it with RequestID
	// and CreatedAt populated.
	SaveRequest(ctx context.Context, req domain.ChatRequest) (*domain.ChatRequest, error)

	// SaveResponse persists a model turn and returns it with ResponseID
	// and CreatedAt populated.
	SaveResponse(ctx context.Context, resp domain.ChatResponse) (*domain.ChatResponse, error)

	// GetHistory returns the interleaved turns of a conversation ordered
	// by creation time. An unknown chat id yields an empty history, not
	// an error; callers decide whether that is a 404.
	GetHistory(ctx context.Context, chatID string) (domain.ChatHistory, error)
}

// FeedbackStore persists user feedback.
type FeedbackStore interface {
	// SaveFeedback persists a feedback entry and returns it with
	// FeedbackID and CreatedAt populated.
	SaveFeedback(ctx context.Context, fb domain.Feedback) (*domain.Feedback, error)

	// GetFeedbackByChatID returns feedback for a conversation.
	// Returns domain.ErrNotFound when none exists.
	GetFeedbackByChatID(ctx context.Context, chatID string) (*domain.Feedback, error)

	// ListFeedbackByUser returns all feedback submitted by a user.
	ListFeedbackByUser(ctx context.Context, userName string) ([]domain.Feedback, error)
}

// QueryStore persists single-turn search queries for audit.
type QueryStore interface {
	// SaveQuery persists a query and returns it with QueryID populated.
	SaveQuery(ctx context.Context, q domain.UserQuery) (*domain.UserQuery, error)
}
