package bruteforce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

func chunk(fileID string, chunkID int, vec []float32) domain.DocumentChunk {
	return domain.DocumentChunk{FileID: fileID, ChunkID: chunkID, Embedding: vec}
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_OrdersByDistanceAscending(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.DocumentChunk{
		chunk("f", 0, []float32{0, 1}),   // orthogonal to query
		chunk("f", 1, []float32{1, 0}),   // identical direction
		chunk("f", 2, []float32{1, 1}),   // 45 degrees
	}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 1, hits[0].Key.ChunkID)
	assert.Equal(t, 2, hits[1].Key.ChunkID)
	assert.Equal(t, 0, hits[2].Key.ChunkID)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}
	assert.InDelta(t, 0, hits[0].Distance, 1e-9)
}

func TestSearch_TiesBreakByInsertionOrder(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	// Two vectors at the same angle from the query, inserted in a
	// known order.
	require.NoError(t, idx.Upsert(ctx, []domain.DocumentChunk{
		chunk("b", 3, []float32{0, 1}),
		chunk("a", 0, []float32{0, 2}), // same direction, same distance
	}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, domain.ChunkKey{FileID: "b", ChunkID: 3}, hits[0].Key)
	assert.Equal(t, domain.ChunkKey{FileID: "a", ChunkID: 0}, hits[1].Key)
}

func TestSearch_NeverExceedsK(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	var chunks []domain.DocumentChunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, chunk("f", i, []float32{float32(i + 1), 1}))
	}
	require.NoError(t, idx.Upsert(ctx, chunks))

	hits, err := idx.Search(ctx, []float32{1, 0}, 4)
	require.NoError(t, err)
	assert.Len(t, hits, 4)
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)

	err = idx.Upsert(context.Background(), []domain.DocumentChunk{
		chunk("f", 0, []float32{1, 2}),
	})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.DocumentChunk{
		chunk("f", 0, []float32{1, 2, 3}),
	}))

	_, err = idx.Search(ctx, []float32{1, 2}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestUpsert_ReplaceKeepsSequence(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.DocumentChunk{
		chunk("f", 0, []float32{0, 1}),
	}))
	require.NoError(t, idx.Upsert(ctx, []domain.DocumentChunk{
		chunk("f", 0, []float32{1, 0}),
	}))

	assert.Equal(t, 1, idx.Len())
	hits, err := idx.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 0, hits[0].Distance, 1e-9)
}

func TestDelete(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.DocumentChunk{
		chunk("f", 0, []float32{1, 0}),
		chunk("f", 1, []float32{0, 1}),
	}))

	require.NoError(t, idx.Delete(ctx, []domain.ChunkKey{{FileID: "f", ChunkID: 0}}))
	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Key.ChunkID)
}
