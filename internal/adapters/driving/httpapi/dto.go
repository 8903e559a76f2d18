package httpapi

import (
	"time"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// ingestResponse reports a completed upload.
type ingestResponse struct {
	FileID      string `json:"file_id"`
	FileName    string `json:"file_name"`
	TotalChunks int    `json:"total_chunks"`
}

// chatRequest is the POST /chat body.
type chatRequest struct {
	ChatID  string `json:"chat_id"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// similarityEntry is one retrieved chunk in a response payload.
type similarityEntry struct {
	Rank        int      `json:"rank"`
	FileID      string   `json:"file_id"`
	FileName    string   `json:"file_name"`
	ChunkID     int      `json:"chunk_id"`
	Text        string   `json:"text"`
	Distance    float64  `json:"distance"`
	RerankScore *float64 `json:"rerank_score,omitempty"`
}

func toSimilarityEntries(results []domain.SimilarityResult) []similarityEntry {
	entries := make([]similarityEntry, len(results))
	for i, r := range results {
		entries[i] = similarityEntry{
			Rank:        i,
			FileID:      r.Chunk.FileID,
			FileName:    r.Chunk.FileName,
			ChunkID:     r.Chunk.ChunkID,
			Text:        r.Chunk.Text,
			Distance:    r.Distance,
			RerankScore: r.RerankScore,
		}
	}
	return entries
}

// chatResponse is the POST /chat reply.
type chatResponse struct {
	ChatID           string            `json:"chat_id"`
	RequestID        int64             `json:"request_id"`
	ResponseID       int64             `json:"response_id"`
	Response         string            `json:"response"`
	ResponseMetadata []similarityEntry `json:"response_metadata"`
	CreatedAt        time.Time         `json:"created_at"`
}

// historyTurn is one entry of GET /chat/{chat_id}. Human turns carry
// the refinement fields when the turn was rewritten; AI turns carry
// the chunks the answer was grounded on.
type historyTurn struct {
	Role             string            `json:"role"`
	RequestID        int64             `json:"request_id"`
	Message          string            `json:"message"`
	MessageOriginal  *string           `json:"message_original,omitempty"`
	SessionSummary   *string           `json:"session_summary,omitempty"`
	ResponseMetadata []similarityEntry `json:"response_metadata,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

func toHistoryTurns(history domain.ChatHistory) []historyTurn {
	turns := make([]historyTurn, 0, len(history))
	for _, t := range history {
		switch {
		case t.Request != nil:
			turns = append(turns, historyTurn{
				Role:            "human",
				RequestID:       t.Request.RequestID,
				Message:         t.Request.Message,
				MessageOriginal: t.Request.MessageOriginal,
				SessionSummary:  t.Request.SessionSummary,
				CreatedAt:       t.Request.CreatedAt,
			})
		case t.Response != nil:
			turns = append(turns, historyTurn{
				Role:             "ai",
				RequestID:        t.Response.RequestID,
				Message:          t.Response.Response,
				ResponseMetadata: toSimilarityEntries(t.Response.ResponseMetadata),
				CreatedAt:        t.Response.CreatedAt,
			})
		}
	}
	return turns
}

// historyResponse is the GET /chat/{chat_id} reply.
type historyResponse struct {
	ChatID string        `json:"chat_id"`
	Turns  []historyTurn `json:"turns"`
}

// searchRequest is the POST /search body.
type searchRequest struct {
	Query    string         `json:"query_text"`
	Metadata map[string]any `json:"query_metadata"`
}

// searchResponse is the POST /search reply.
type searchResponse struct {
	Response         string            `json:"response"`
	ResponseMetadata []similarityEntry `json:"response_metadata"`
}

// documentEntry is one entry of GET /documents.
type documentEntry struct {
	FileID      string    `json:"file_id"`
	FileName    string    `json:"file_name"`
	TotalChunks int       `json:"total_chunks"`
	IsArchived  bool      `json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`
}

// archiveRequest is the POST /documents/{file_id}/archive body.
type archiveRequest struct {
	Archived bool `json:"archived"`
}

// feedbackRequest is the POST /feedback body.
type feedbackRequest struct {
	ChatID   string `json:"chat_id"`
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// feedbackResponse is a persisted feedback entry.
type feedbackResponse struct {
	FeedbackID int64     `json:"feedback_id"`
	ChatID     string    `json:"chat_id"`
	UserName   string    `json:"user_name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func toFeedbackResponse(fb domain.Feedback) feedbackResponse {
	return feedbackResponse{
		FeedbackID: fb.FeedbackID,
		ChatID:     fb.ChatID,
		UserName:   fb.UserName,
		Rating:     fb.Rating,
		Comment:    fb.Comment,
		CreatedAt:  fb.CreatedAt,
	}
}
