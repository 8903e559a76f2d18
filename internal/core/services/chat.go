package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService orchestrates the retrieval-augmented chat pipeline.
//
// A turn runs through a fixed sequence: refine the message against the
// conversation, persist the request, retrieve and optionally rerank
// similar chunks, generate a grounded answer, persist the response.
// The request row is written before generation so it survives a model
// failure.
type ChatService struct {
	chatStore driven.ChatStore
	refiner   *Refiner
	retriever retriever
	answerer  answerer
}

// NewChatService creates a chat service. The reranker may be nil, which
// disables the rerank stage regardless of settings.
func NewChatService(
	chatStore driven.ChatStore,
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	reranker driven.Reranker,
	prompts driven.PromptStore,
	settings domain.RetrievalSettings,
) *ChatService {
	return &ChatService{
		chatStore: chatStore,
		refiner:   NewRefiner(llm, prompts),
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

// Chat runs one conversation turn.
func (s *ChatService) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}
	if req.ChatID == "" {
		req.ChatID = uuid.NewString()
		logger.Debug("New conversation %s", req.ChatID)
	}

	logger.Section("Chat Turn")
	logger.Debug("Chat %s user %s: %q", req.ChatID, req.UserID, message)

	history, err := s.chatStore.GetHistory(ctx, req.ChatID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	refined := s.refiner.Refine(ctx, history, message)
	req.Message = refined.Message
	req.MessageOriginal = refined.Original
	req.SessionSummary = refined.Summary

	saved, err := s.chatStore.SaveRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("persist request: %w", err)
	}

	results, err := s.retriever.retrieve(ctx, refined.Message)
	if err != nil {
		return nil, err
	}

	answer, err := s.answerer.generate(ctx, refined.Message, results)
	if err != nil {
		return nil, err
	}

	resp, err := s.chatStore.SaveResponse(ctx, domain.ChatResponse{
		RequestID:        saved.RequestID,
		ChatID:           saved.ChatID,
		Response:         answer.AnswerText,
		ResponseMetadata: results,
	})
	if err != nil {
		return nil, fmt.Errorf("persist response: %w", err)
	}

	logger.Info("Chat %s answered with %d supporting chunks", resp.ChatID, len(results))
	return resp, nil
}

// History returns the turns of a conversation.
func (s *ChatService) History(ctx context.Context, chatID string) (domain.ChatHistory, error) {
	if chatID == "" {
		return nil, fmt.Errorf("%w: empty chat id", domain.ErrInvalidInput)
	}

	history, err := s.chatStore.GetHistory(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	return history, nil
}
