package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docuchat/internal/adapters/driven/vectorindex/bruteforce"
	"github.com/custodia-labs/docuchat/internal/core/domain"
)

func newDocumentFixture(t *testing.T) (*DocumentService, *memory.DocumentStore, *bruteforce.Index) {
	t.Helper()

	index, err := bruteforce.New(2)
	require.NoError(t, err)

	docStore := memory.NewDocumentStore()
	return NewDocumentService(docStore, index), docStore, index
}

func seedDocuments(t *testing.T, docStore *memory.DocumentStore, index *bruteforce.Index) {
	t.Helper()
	ctx := context.Background()
	chunks := []domain.DocumentChunk{
		testChunk("file-a", "a.pdf", 0, "a0", []float32{1, 0}),
		testChunk("file-a", "a.pdf", 1, "a1", []float32{0, 1}),
		testChunk("file-b", "b.txt", 0, "b0", []float32{1, 1}),
	}
	require.NoError(t, docStore.SaveChunks(ctx, chunks))
	require.NoError(t, index.Upsert(ctx, chunks))
}

func TestList_RollsUpPerFile(t *testing.T) {
	svc, docStore, index := newDocumentFixture(t)
	seedDocuments(t, docStore, index)

	infos, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "file-a", infos[0].FileID)
	assert.Equal(t, "a.pdf", infos[0].FileName)
	assert.Equal(t, 2, infos[0].TotalChunks)
	assert.False(t, infos[0].IsArchived)
	assert.Equal(t, "file-b", infos[1].FileID)
	assert.Equal(t, 1, infos[1].TotalChunks)
}

func TestSetArchived_RemovesFromIndex(t *testing.T) {
	svc, docStore, index := newDocumentFixture(t)
	seedDocuments(t, docStore, index)

	ctx := context.Background()
	require.NoError(t, svc.SetArchived(ctx, "file-a", true))
	assert.Equal(t, 1, index.Len())

	infos, err := svc.List(ctx)
	require.NoError(t, err)
	assert.True(t, infos[0].IsArchived)
	assert.False(t, infos[1].IsArchived)
}

func TestSetArchived_UnarchiveRestoresIndex(t *testing.T) {
	svc, docStore, index := newDocumentFixture(t)
	seedDocuments(t, docStore, index)

	ctx := context.Background()
	require.NoError(t, svc.SetArchived(ctx, "file-a", true))
	require.NoError(t, svc.SetArchived(ctx, "file-a", false))
	assert.Equal(t, 3, index.Len())

	hits, err := index.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "file-a", hits[0].Key.FileID)
}

func TestSetArchived_UnknownFile(t *testing.T) {
	svc, _, _ := newDocumentFixture(t)

	err := svc.SetArchived(context.Background(), "no-such-file", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetArchived_EmptyFileID(t *testing.T) {
	svc, _, _ := newDocumentFixture(t)

	err := svc.SetArchived(context.Background(), "", true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRebuildIndex_SkipsArchivedChunks(t *testing.T) {
	svc, docStore, index := newDocumentFixture(t)
	seedDocuments(t, docStore, index)

	ctx := context.Background()
	require.NoError(t, svc.SetArchived(ctx, "file-b", true))

	// Simulate a restart with a fresh index.
	fresh, err := bruteforce.New(2)
	require.NoError(t, err)
	rebuilt := NewDocumentService(docStore, fresh)

	n, err := rebuilt.RebuildIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, fresh.Len())
}
