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

func newSearchFixture(t *testing.T) (*SearchService, *memory.QueryStore, *stubLLM, *stubEmbedder, *memory.DocumentStore, *bruteforce.Index) {
	t.Helper()

	index, err := bruteforce.New(3)
	require.NoError(t, err)

	queryStore := memory.NewQueryStore()
	docStore := memory.NewDocumentStore()
	embedder := newStubEmbedder(3)
	llm := &stubLLM{}

	svc := NewSearchService(
		queryStore, docStore, index,
		embedder, llm, nil, nil,
		domain.RetrievalSettings{NTopContent: 2},
	)
	return svc, queryStore, llm, embedder, docStore, index
}

func TestSearch_AnswersFromCorpus(t *testing.T) {
	svc, queryStore, llm, embedder, docStore, index := newSearchFixture(t)

	ctx := context.Background()
	chunks := []domain.DocumentChunk{
		testChunk("f1", "manual.pdf", 0, "relevant text", []float32{1, 0, 0}),
		testChunk("f1", "manual.pdf", 1, "other text", []float32{0, 1, 0}),
	}
	require.NoError(t, docStore.SaveChunks(ctx, chunks))
	require.NoError(t, index.Upsert(ctx, chunks))

	embedder.set("how does it work?", []float32{1, 0, 0})
	llm.responses = []string{answerJSON("Like this.", "relevant text")}

	answer, err := svc.Search(ctx, domain.UserQuery{
		QueryText:     "how does it work?",
		QueryMetadata: map[string]any{"source": "unit-test"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Like this.", answer.Response)
	require.Len(t, answer.ResponseMetadata, 2)
	assert.Equal(t, "relevant text", answer.ResponseMetadata[0].Chunk.Text)

	// The query row was persisted for audit.
	queries := queryStore.Queries()
	require.Len(t, queries, 1)
	assert.Equal(t, "how does it work?", queries[0].QueryText)
	assert.Equal(t, "unit-test", queries[0].QueryMetadata["source"])
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc, _, _, _, _, _ := newSearchFixture(t)

	_, err := svc.Search(context.Background(), domain.UserQuery{QueryText: " \t"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch_EmptyCorpus(t *testing.T) {
	svc, _, llm, _, _, _ := newSearchFixture(t)
	llm.responses = []string{answerJSON("FAILED")}

	answer, err := svc.Search(context.Background(), domain.UserQuery{QueryText: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "FAILED", answer.Response)
	assert.Empty(t, answer.ResponseMetadata)
}

func TestSearch_QueryAuditFailureDoesNotAbort(t *testing.T) {
	index, err := bruteforce.New(3)
	require.NoError(t, err)

	llm := &stubLLM{responses: []string{answerJSON("ok")}}
	svc := NewSearchService(
		nil, memory.NewDocumentStore(), index,
		newStubEmbedder(3), llm, nil, nil,
		domain.RetrievalSettings{NTopContent: 2},
	)

	answer, err := svc.Search(context.Background(), domain.UserQuery{QueryText: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "ok", answer.Response)
}
