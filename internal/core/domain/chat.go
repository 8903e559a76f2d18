package domain

import "time"

// ChatRequest is one user turn in a conversation.
//
// Message holds the text the pipeline actually used: when the session
// history refiner rewrote the turn, MessageOriginal preserves the
// verbatim input and SessionSummary the summary the rewrite was
// grounded on. For the first turn of a conversation both stay nil.
type ChatRequest struct {
	// RequestID is assigned by the chat store on save.
	RequestID int64

	// ChatID groups turns of one conversation. Generated when absent.
	ChatID string

	// UserID identifies the authenticated principal.
	UserID string

	// Message is the (possibly refined) user message.
	Message string

	// MessageOriginal is the verbatim input when Message was rewritten.
	MessageOriginal *string

	// SessionSummary is the conversation summary used for refinement.
	SessionSummary *string

	// CreatedAt is when the request was persisted.
	CreatedAt time.Time
}

// ChatResponse is the model answer to one ChatRequest.
type ChatResponse struct {
	// ResponseID is assigned by the chat store on save.
	ResponseID int64

	// RequestID links back to the request this answers.
	RequestID int64

	// ChatID mirrors the request's conversation id.
	ChatID string

	// Response is the answer text returned to the user.
	Response string

	// ResponseMetadata holds the retrieved chunk snapshots in rank
	// order. Rank is positional; index 0 is the best match.
	ResponseMetadata []SimilarityResult

	// CreatedAt is when the response was persisted.
	CreatedAt time.Time
}

// ChatTurn is either a ChatRequest or a ChatResponse inside a history.
type ChatTurn struct {
	// Request is set for user turns, Response for model turns.
	// Exactly one of the two is non-nil.
	Request  *ChatRequest
	Response *ChatResponse
}

// Time returns the creation time of the underlying turn.
func (t ChatTurn) Time() time.Time {
	if t.Request != nil {
		return t.Request.CreatedAt
	}
	if t.Response != nil {
		return t.Response.CreatedAt
	}
	return time.Time{}
}

// ChatHistory is the interleaved request/response sequence of one
// conversation, ordered by creation time. It is append-only: every
// chat turn reads it to build context and never mutates it.
type ChatHistory []ChatTurn
