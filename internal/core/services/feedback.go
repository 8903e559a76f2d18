package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
)

// Ensure FeedbackService implements the interface.
var _ driving.FeedbackService = (*FeedbackService)(nil)

// FeedbackService records and retrieves user feedback on conversations.
type FeedbackService struct {
	store driven.FeedbackStore
}

// NewFeedbackService creates a feedback service.
func NewFeedbackService(store driven.FeedbackStore) *FeedbackService {
	return &FeedbackService{store: store}
}

// Submit validates and persists a feedback entry.
func (s *FeedbackService) Submit(ctx context.Context, fb domain.Feedback) (*domain.Feedback, error) {
	if err := fb.Validate(); err != nil {
		return nil, fmt.Errorf("feedback for chat %q: %w", fb.ChatID, err)
	}
	saved, err := s.store.SaveFeedback(ctx, fb)
	if err != nil {
		return nil, fmt.Errorf("persist feedback: %w", err)
	}
	return saved, nil
}

// ByChatID returns feedback for a conversation.
func (s *FeedbackService) ByChatID(ctx context.Context, chatID string) (*domain.Feedback, error) {
	if chatID == "" {
		return nil, fmt.Errorf("%w: empty chat id", domain.ErrInvalidInput)
	}
	return s.store.GetFeedbackByChatID(ctx, chatID)
}

// ByUser returns all feedback submitted by a user.
func (s *FeedbackService) ByUser(ctx context.Context, userName string) ([]domain.Feedback, error) {
	if userName == "" {
		return nil, fmt.Errorf("%w: empty user name", domain.ErrInvalidInput)
	}
	return s.store.ListFeedbackByUser(ctx, userName)
}
