package driving

import (
	"context"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// IngestionService turns uploaded files into indexed chunks.
type IngestionService interface {
	// Ingest chunks the file bytes, embeds every chunk, persists the
	// chunks, and upserts them into the vector index. Returns the
	// generated file id and the number of chunks produced.
	Ingest(ctx context.Context, fileName string, data []byte) (*IngestResult, error)
}

// IngestResult reports a completed ingestion.
type IngestResult struct {
	FileID      string
	FileName    string
	TotalChunks int
}

// DocumentService exposes read and administrative operations on
// ingested documents.
type DocumentService interface {
	// List returns one rollup per ingested file.
	List(ctx context.Context) ([]domain.DocumentInfo, error)

	// SetArchived toggles the archived flag on a file and removes or
	// restores its chunks in the vector index.
	SetArchived(ctx context.Context, fileID string, archived bool) error
}

// FeedbackService records and retrieves user feedback.
type FeedbackService interface {
	// Submit validates and persists a feedback entry.
	Submit(ctx context.Context, fb domain.Feedback) (*domain.Feedback, error)

	// ByChatID returns feedback for a conversation.
	ByChatID(ctx context.Context, chatID string) (*domain.Feedback, error)

	// ByUser returns all feedback submitted by a user.
	ByUser(ctx context.Context, userName string) ([]domain.Feedback, error)
}
