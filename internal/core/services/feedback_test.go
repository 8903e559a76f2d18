package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docuchat/internal/core/domain"
)

func TestSubmit_ValidFeedback(t *testing.T) {
	svc := NewFeedbackService(memory.NewFeedbackStore())

	saved, err := svc.Submit(context.Background(), domain.Feedback{
		ChatID:   "chat-1",
		UserName: "alex",
		Rating:   4,
		Comment:  "helpful",
	})
	require.NoError(t, err)

	assert.NotZero(t, saved.FeedbackID)
	assert.False(t, saved.CreatedAt.IsZero())
}

func TestSubmit_InvalidRating(t *testing.T) {
	svc := NewFeedbackService(memory.NewFeedbackStore())

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), domain.Feedback{ChatID: "c", Rating: rating})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestSubmit_MissingChatID(t *testing.T) {
	svc := NewFeedbackService(memory.NewFeedbackStore())

	_, err := svc.Submit(context.Background(), domain.Feedback{Rating: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestByChatID_ReturnsLatest(t *testing.T) {
	svc := NewFeedbackService(memory.NewFeedbackStore())

	ctx := context.Background()
	_, err := svc.Submit(ctx, domain.Feedback{ChatID: "chat-1", UserName: "alex", Rating: 2})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, domain.Feedback{ChatID: "chat-1", UserName: "alex", Rating: 5})
	require.NoError(t, err)

	fb, err := svc.ByChatID(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, 5, fb.Rating)
}

func TestByChatID_Unknown(t *testing.T) {
	svc := NewFeedbackService(memory.NewFeedbackStore())

	_, err := svc.ByChatID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestByUser_FiltersByName(t *testing.T) {
	svc := NewFeedbackService(memory.NewFeedbackStore())

	ctx := context.Background()
	for _, f := range []domain.Feedback{
		{ChatID: "c1", UserName: "alex", Rating: 3},
		{ChatID: "c2", UserName: "sam", Rating: 4},
		{ChatID: "c3", UserName: "alex", Rating: 5},
	} {
		_, err := svc.Submit(ctx, f)
		require.NoError(t, err)
	}

	list, err := svc.ByUser(ctx, "alex")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c1", list[0].ChatID)
	assert.Equal(t, "c3", list[1].ChatID)
}
