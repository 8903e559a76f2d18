package driven

import (
	"context"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// DocumentStore persists document chunks.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// SaveChunks stores all chunks of one uploaded file atomically.
	SaveChunks(ctx context.Context, chunks []domain.DocumentChunk) error

	// GetChunk retrieves a chunk by key.
	GetChunk(ctx context.Context, key domain.ChunkKey) (*domain.DocumentChunk, error)

	// GetChunks retrieves all chunks of a file ordered by position.
	GetChunks(ctx context.Context, fileID string) ([]domain.DocumentChunk, error)

	// ListDocuments returns one rollup per ingested file.
	ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error)

	// SetArchived toggles the archived flag on every chunk of a file.
	// Returns domain.ErrNotFound for an unknown file id.
	SetArchived(ctx context.Context, fileID string, archived bool) error

	// ListUnarchivedChunks returns every live chunk, in file/position
	// order. Used to rebuild the vector index at startup.
	ListUnarchivedChunks(ctx context.Context) ([]domain.DocumentChunk, error)
}
