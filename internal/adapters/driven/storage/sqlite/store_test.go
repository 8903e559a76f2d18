package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDocumentStore_SaveAndGetChunks(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	chunks := []domain.DocumentChunk{
		{FileID: "f1", FileName: "a.pdf", ChunkID: 0, Text: "first", Embedding: []float32{0.1, -0.2, 0.3}},
		{FileID: "f1", FileName: "a.pdf", ChunkID: 1, Text: "second", Embedding: []float32{1, 2, 3}},
	}
	require.NoError(t, docs.SaveChunks(ctx, chunks))

	got, err := docs.GetChunk(ctx, domain.ChunkKey{FileID: "f1", ChunkID: 1})
	require.NoError(t, err)
	assert.Equal(t, "second", got.Text)
	assert.Equal(t, []float32{1, 2, 3}, got.Embedding)
	assert.False(t, got.CreatedAt.IsZero())

	all, err := docs.GetChunks(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 0, all[0].ChunkID)
	assert.Equal(t, []float32{0.1, -0.2, 0.3}, all[0].Embedding)
}

func TestDocumentStore_GetChunk_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.DocumentStore().GetChunk(context.Background(), domain.ChunkKey{FileID: "nope", ChunkID: 0})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListAndArchive(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, docs.SaveChunks(ctx, []domain.DocumentChunk{
		{FileID: "f1", FileName: "a.pdf", ChunkID: 0, Text: "a0", Embedding: []float32{1}, CreatedAt: early},
		{FileID: "f1", FileName: "a.pdf", ChunkID: 1, Text: "a1", Embedding: []float32{2}, CreatedAt: early},
		{FileID: "f2", FileName: "b.txt", ChunkID: 0, Text: "b0", Embedding: []float32{3}, CreatedAt: early.Add(time.Hour)},
	}))

	infos, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "f1", infos[0].FileID)
	assert.Equal(t, 2, infos[0].TotalChunks)
	assert.False(t, infos[0].IsArchived)

	require.NoError(t, docs.SetArchived(ctx, "f1", true))

	infos, err = docs.ListDocuments(ctx)
	require.NoError(t, err)
	assert.True(t, infos[0].IsArchived)

	live, err := docs.ListUnarchivedChunks(ctx)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "f2", live[0].FileID)

	require.NoError(t, docs.SetArchived(ctx, "f1", false))
	live, err = docs.ListUnarchivedChunks(ctx)
	require.NoError(t, err)
	assert.Len(t, live, 3)
}

func TestDocumentStore_SetArchived_UnknownFile(t *testing.T) {
	store := newTestStore(t)

	err := store.DocumentStore().SetArchived(context.Background(), "missing", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	chats := store.ChatStore()
	ctx := context.Background()

	original := "what about it?"
	summary := "discussing the manual"
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	req, err := chats.SaveRequest(ctx, domain.ChatRequest{
		ChatID:          "chat-1",
		UserID:          "u1",
		Message:         "what does the manual say about it?",
		MessageOriginal: &original,
		SessionSummary:  &summary,
		CreatedAt:       base,
	})
	require.NoError(t, err)
	assert.NotZero(t, req.RequestID)

	score := 0.8
	resp, err := chats.SaveResponse(ctx, domain.ChatResponse{
		RequestID: req.RequestID,
		ChatID:    "chat-1",
		Response:  "It says X.",
		ResponseMetadata: []domain.SimilarityResult{
			{
				Chunk:       domain.DocumentChunk{FileID: "f1", FileName: "m.pdf", ChunkID: 2, Text: "X"},
				Distance:    0.12,
				RerankScore: &score,
			},
		},
		CreatedAt: base.Add(time.Second),
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ResponseID)

	history, err := chats.GetHistory(ctx, "chat-1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	gotReq := history[0].Request
	require.NotNil(t, gotReq)
	assert.Equal(t, "what does the manual say about it?", gotReq.Message)
	require.NotNil(t, gotReq.MessageOriginal)
	assert.Equal(t, original, *gotReq.MessageOriginal)
	require.NotNil(t, gotReq.SessionSummary)
	assert.Equal(t, summary, *gotReq.SessionSummary)

	gotResp := history[1].Response
	require.NotNil(t, gotResp)
	assert.Equal(t, "It says X.", gotResp.Response)
	require.Len(t, gotResp.ResponseMetadata, 1)
	meta := gotResp.ResponseMetadata[0]
	assert.Equal(t, "m.pdf", meta.Chunk.FileName)
	assert.Equal(t, 0.12, meta.Distance)
	require.NotNil(t, meta.RerankScore)
	assert.Equal(t, 0.8, *meta.RerankScore)
	// Embeddings are not persisted in response metadata.
	assert.Empty(t, meta.Chunk.Embedding)
}

func TestChatStore_GetHistory_UnknownChatIsEmpty(t *testing.T) {
	store := newTestStore(t)

	history, err := store.ChatStore().GetHistory(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestFeedbackStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	feedback := store.FeedbackStore()
	ctx := context.Background()

	_, err := feedback.SaveFeedback(ctx, domain.Feedback{ChatID: "c1", UserName: "alex", Rating: 3})
	require.NoError(t, err)
	saved, err := feedback.SaveFeedback(ctx, domain.Feedback{ChatID: "c1", UserName: "alex", Rating: 5, Comment: "better"})
	require.NoError(t, err)
	assert.NotZero(t, saved.FeedbackID)

	latest, err := feedback.GetFeedbackByChatID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 5, latest.Rating)
	assert.Equal(t, "better", latest.Comment)

	list, err := feedback.ListFeedbackByUser(ctx, "alex")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = feedback.GetFeedbackByChatID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryStore_SaveQuery(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.QueryStore().SaveQuery(context.Background(), domain.UserQuery{
		QueryText:     "how?",
		QueryMetadata: map[string]any{"source": "api"},
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.QueryID)
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}
