package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
)

// ==================== Chat Store ====================

// chatStore implements driven.ChatStore.
type chatStore struct {
	store *Store
}

var _ driven.ChatStore = (*chatStore)(nil)

// metadataEntry is the persisted form of a similarity result.
// Embeddings are dropped: they are large and reconstructible from the
// document store.
type metadataEntry struct {
	FileID      string   `json:"file_id"`
	FileName    string   `json:"file_name"`
	ChunkID     int      `json:"chunk_id"`
	Text        string   `json:"text"`
	Distance    float64  `json:"distance"`
	RerankScore *float64 `json:"rerank_score,omitempty"`
}

func marshalMetadata(results []domain.SimilarityResult) (string, error) {
	entries := make([]metadataEntry, len(results))
	for i, r := range results {
		entries[i] = metadataEntry{
			FileID:      r.Chunk.FileID,
			FileName:    r.Chunk.FileName,
			ChunkID:     r.Chunk.ChunkID,
			Text:        r.Chunk.Text,
			Distance:    r.Distance,
			RerankScore: r.RerankScore,
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshalling response metadata: %w", err)
	}
	return string(data), nil
}

func unmarshalMetadata(data string) ([]domain.SimilarityResult, error) {
	var entries []metadataEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("unmarshaling response metadata: %w", err)
	}
	results := make([]domain.SimilarityResult, len(entries))
	for i, e := range entries {
		results[i] = domain.SimilarityResult{
			Chunk: domain.DocumentChunk{
				FileID:   e.FileID,
				FileName: e.FileName,
				ChunkID:  e.ChunkID,
				Text:     e.Text,
			},
			Distance:    e.Distance,
			RerankScore: e.RerankScore,
		}
	}
	return results, nil
}

// SaveRequest persists a user turn.
func (c *chatStore) SaveRequest(ctx context.Context, req domain.ChatRequest) (*domain.ChatRequest, error) {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	res, err := c.store.db.ExecContext(ctx, `
		INSERT INTO chat_requests (chat_id, user_id, message, message_original, session_summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, req.ChatID, req.UserID, req.Message,
		nullString(req.MessageOriginal), nullString(req.SessionSummary), req.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving chat request: %w", err)
	}

	req.RequestID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading request id: %w", err)
	}
	return &req, nil
}

// SaveResponse persists a model turn.
func (c *chatStore) SaveResponse(ctx context.Context, resp domain.ChatResponse) (*domain.ChatResponse, error) {
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now().UTC()
	}

	metadata, err := marshalMetadata(resp.ResponseMetadata)
	if err != nil {
		return nil, err
	}

	res, err := c.store.db.ExecContext(ctx, `
		INSERT INTO chat_responses (request_id, chat_id, response, response_metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, resp.RequestID, resp.ChatID, resp.Response, metadata, resp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving chat response: %w", err)
	}

	resp.ResponseID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading response id: %w", err)
	}
	return &resp, nil
}

// GetHistory returns the interleaved turns of a conversation ordered
// by creation time. An unknown chat id yields an empty history.
func (c *chatStore) GetHistory(ctx context.Context, chatID string) (domain.ChatHistory, error) {
	var history domain.ChatHistory

	rows, err := c.store.db.QueryContext(ctx, `
		SELECT request_id, chat_id, user_id, message, message_original, session_summary, created_at
		FROM chat_requests WHERE chat_id = ?
		ORDER BY created_at, request_id
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("querying chat requests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var req domain.ChatRequest
		var original, summary sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(&req.RequestID, &req.ChatID, &req.UserID,
			&req.Message, &original, &summary, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat request: %w", err)
		}
		if original.Valid {
			req.MessageOriginal = &original.String
		}
		if summary.Valid {
			req.SessionSummary = &summary.String
		}
		if createdAt.Valid {
			req.CreatedAt = createdAt.Time
		}
		history = append(history, domain.ChatTurn{Request: &req})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat requests: %w", err)
	}

	respRows, err := c.store.db.QueryContext(ctx, `
		SELECT response_id, request_id, chat_id, response, response_metadata, created_at
		FROM chat_responses WHERE chat_id = ?
		ORDER BY created_at, response_id
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("querying chat responses: %w", err)
	}
	defer respRows.Close()

	for respRows.Next() {
		var resp domain.ChatResponse
		var metadata string
		var createdAt sql.NullTime
		if err := respRows.Scan(&resp.ResponseID, &resp.RequestID, &resp.ChatID,
			&resp.Response, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat response: %w", err)
		}
		if resp.ResponseMetadata, err = unmarshalMetadata(metadata); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			resp.CreatedAt = createdAt.Time
		}
		history = append(history, domain.ChatTurn{Response: &resp})
	}
	if err := respRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat responses: %w", err)
	}

	// Interleave requests and responses chronologically. A response
	// never precedes its request, so a stable sort keeps pairs adjacent
	// even with equal timestamps.
	sort.SliceStable(history, func(a, b int) bool {
		return history[a].Time().Before(history[b].Time())
	})
	return history, nil
}

// ==================== Feedback Store ====================

// feedbackStore implements driven.FeedbackStore.
type feedbackStore struct {
	store *Store
}

var _ driven.FeedbackStore = (*feedbackStore)(nil)

// SaveFeedback persists a feedback entry.
func (f *feedbackStore) SaveFeedback(ctx context.Context, fb domain.Feedback) (*domain.Feedback, error) {
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	res, err := f.store.db.ExecContext(ctx, `
		INSERT INTO feedback (chat_id, user_name, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, fb.ChatID, fb.UserName, fb.Rating, fb.Comment, fb.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving feedback: %w", err)
	}

	fb.FeedbackID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading feedback id: %w", err)
	}
	return &fb, nil
}

// GetFeedbackByChatID returns the latest feedback for a conversation.
func (f *feedbackStore) GetFeedbackByChatID(ctx context.Context, chatID string) (*domain.Feedback, error) {
	row := f.store.db.QueryRowContext(ctx, `
		SELECT feedback_id, chat_id, user_name, rating, comment, created_at
		FROM feedback WHERE chat_id = ?
		ORDER BY feedback_id DESC LIMIT 1
	`, chatID)

	var fb domain.Feedback
	var createdAt sql.NullTime
	if err := row.Scan(&fb.FeedbackID, &fb.ChatID, &fb.UserName,
		&fb.Rating, &fb.Comment, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("feedback for chat %s: %w", chatID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning feedback: %w", err)
	}
	if createdAt.Valid {
		fb.CreatedAt = createdAt.Time
	}
	return &fb, nil
}

// ListFeedbackByUser returns all feedback submitted by a user.
func (f *feedbackStore) ListFeedbackByUser(ctx context.Context, userName string) ([]domain.Feedback, error) {
	rows, err := f.store.db.QueryContext(ctx, `
		SELECT feedback_id, chat_id, user_name, rating, comment, created_at
		FROM feedback WHERE user_name = ?
		ORDER BY feedback_id
	`, userName)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var list []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		var createdAt sql.NullTime
		if err := rows.Scan(&fb.FeedbackID, &fb.ChatID, &fb.UserName,
			&fb.Rating, &fb.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		if createdAt.Valid {
			fb.CreatedAt = createdAt.Time
		}
		list = append(list, fb)
	}
	return list, rows.Err()
}

// ==================== Query Store ====================

// queryStore implements driven.QueryStore.
type queryStore struct {
	store *Store
}

var _ driven.QueryStore = (*queryStore)(nil)

// SaveQuery persists a query for audit.
func (q *queryStore) SaveQuery(ctx context.Context, query domain.UserQuery) (*domain.UserQuery, error) {
	metadata, err := json.Marshal(query.QueryMetadata)
	if err != nil {
		return nil, fmt.Errorf("marshalling query metadata: %w", err)
	}

	res, err := q.store.db.ExecContext(ctx, `
		INSERT INTO user_queries (query_text, query_metadata, created_at)
		VALUES (?, ?, ?)
	`, query.QueryText, string(metadata), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("saving query: %w", err)
	}

	query.QueryID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading query id: %w", err)
	}
	return &query, nil
}

// nullString converts an optional string to its SQL representation.
func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
