package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
)

var (
	_ driven.ChatStore     = (*ChatStore)(nil)
	_ driven.FeedbackStore = (*FeedbackStore)(nil)
	_ driven.QueryStore    = (*QueryStore)(nil)
)

// ChatStore keeps conversation turns in process memory.
type ChatStore struct {
	mu        sync.RWMutex
	requests  []domain.ChatRequest
	responses []domain.ChatResponse
	nextID    int64

	// clock makes turn ordering deterministic in tests.
	clock func() time.Time
}

// NewChatStore creates an empty chat store.
func NewChatStore() *ChatStore {
	return &ChatStore{nextID: 1, clock: time.Now}
}

// SetClock overrides the timestamp source.
func (s *ChatStore) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// SaveRequest persists a user turn.
func (s *ChatStore) SaveRequest(_ context.Context, req domain.ChatRequest) (*domain.ChatRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.RequestID = s.nextID
	s.nextID++
	if req.CreatedAt.IsZero() {
		req.CreatedAt = s.clock().UTC()
	}
	s.requests = append(s.requests, req)
	return &req, nil
}

// SaveResponse persists a model turn.
func (s *ChatStore) SaveResponse(_ context.Context, resp domain.ChatResponse) (*domain.ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp.ResponseID = s.nextID
	s.nextID++
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = s.clock().UTC()
	}
	s.responses = append(s.responses, resp)
	return &resp, nil
}

// GetHistory returns the interleaved turns of a conversation ordered by
// creation time. An unknown chat id yields an empty history.
func (s *ChatStore) GetHistory(_ context.Context, chatID string) (domain.ChatHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history domain.ChatHistory
	for i := range s.requests {
		if s.requests[i].ChatID == chatID {
			req := s.requests[i]
			history = append(history, domain.ChatTurn{Request: &req})
		}
	}
	for i := range s.responses {
		if s.responses[i].ChatID == chatID {
			resp := s.responses[i]
			history = append(history, domain.ChatTurn{Response: &resp})
		}
	}

	sort.SliceStable(history, func(a, b int) bool {
		return history[a].Time().Before(history[b].Time())
	})
	return history, nil
}

// FeedbackStore keeps feedback entries in process memory.
type FeedbackStore struct {
	mu      sync.RWMutex
	entries []domain.Feedback
	nextID  int64
}

// NewFeedbackStore creates an empty feedback store.
func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{nextID: 1}
}

// SaveFeedback persists a feedback entry.
func (s *FeedbackStore) SaveFeedback(_ context.Context, fb domain.Feedback) (*domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fb.FeedbackID = s.nextID
	s.nextID++
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	s.entries = append(s.entries, fb)
	return &fb, nil
}

// GetFeedbackByChatID returns the latest feedback for a conversation.
func (s *FeedbackStore) GetFeedbackByChatID(_ context.Context, chatID string) (*domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].ChatID == chatID {
			fb := s.entries[i]
			return &fb, nil
		}
	}
	return nil, fmt.Errorf("feedback for chat %s: %w", chatID, domain.ErrNotFound)
}

// ListFeedbackByUser returns all feedback submitted by a user.
func (s *FeedbackStore) ListFeedbackByUser(_ context.Context, userName string) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Feedback
	for _, fb := range s.entries {
		if fb.UserName == userName {
			out = append(out, fb)
		}
	}
	return out, nil
}

// QueryStore keeps search queries in process memory.
type QueryStore struct {
	mu      sync.Mutex
	queries []domain.UserQuery
	nextID  int64
}

// NewQueryStore creates an empty query store.
func NewQueryStore() *QueryStore {
	return &QueryStore{nextID: 1}
}

// SaveQuery persists a query.
func (s *QueryStore) SaveQuery(_ context.Context, q domain.UserQuery) (*domain.UserQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q.QueryID = s.nextID
	s.nextID++
	s.queries = append(s.queries, q)
	return &q, nil
}

// Queries returns a snapshot of all persisted queries.
func (s *QueryStore) Queries() []domain.UserQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.UserQuery(nil), s.queries...)
}
