package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
)

func TestComplete(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "the answer"},
			Done:    true,
		})
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL, Model: "test-model"})

	out, err := svc.Complete(context.Background(), "system prompt", "user question", driven.CompleteOptions{
		MaxTokens:   100,
		Temperature: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "the answer", out)

	assert.Equal(t, "test-model", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "system prompt", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	require.NotNil(t, gotReq.Options)
	assert.Equal(t, 100, gotReq.Options.NumPredict)
}

func TestComplete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	_, err := svc.Complete(context.Background(), "s", "u", driven.CompleteOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestComplete_Unreachable(t *testing.T) {
	svc := NewLLMService(Config{BaseURL: "http://127.0.0.1:1"})

	_, err := svc.Complete(context.Background(), "s", "u", driven.CompleteOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
