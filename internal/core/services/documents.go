package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes read and administrative operations on
// ingested documents.
type DocumentService struct {
	docStore driven.DocumentStore
	index    driven.VectorIndex
}

// NewDocumentService creates a document service.
func NewDocumentService(docStore driven.DocumentStore, index driven.VectorIndex) *DocumentService {
	return &DocumentService{docStore: docStore, index: index}
}

// List returns one rollup per ingested file.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	infos, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return infos, nil
}

// SetArchived toggles the archived flag on a file. Archiving removes
// its chunks from the vector index; unarchiving re-indexes them from
// the store.
func (s *DocumentService) SetArchived(ctx context.Context, fileID string, archived bool) error {
	if fileID == "" {
		return fmt.Errorf("%w: empty file id", domain.ErrInvalidInput)
	}

	if err := s.docStore.SetArchived(ctx, fileID, archived); err != nil {
		return fmt.Errorf("archive %s: %w", fileID, err)
	}

	chunks, err := s.docStore.GetChunks(ctx, fileID)
	if err != nil {
		return fmt.Errorf("load chunks of %s: %w", fileID, err)
	}

	if archived {
		keys := make([]domain.ChunkKey, len(chunks))
		for i, c := range chunks {
			keys[i] = c.Key()
		}
		if err := s.index.Delete(ctx, keys); err != nil {
			return fmt.Errorf("deindex %s: %w", fileID, err)
		}
		logger.Info("Archived %s, removed %d chunks from index", fileID, len(keys))
		return nil
	}

	if err := s.index.Upsert(ctx, chunks); err != nil {
		return fmt.Errorf("reindex %s: %w", fileID, err)
	}
	logger.Info("Unarchived %s, restored %d chunks to index", fileID, len(chunks))
	return nil
}

// RebuildIndex loads every live chunk from the store and upserts it
// into the vector index. Called at startup when the index is empty.
func (s *DocumentService) RebuildIndex(ctx context.Context) (int, error) {
	chunks, err := s.docStore.ListUnarchivedChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := s.index.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}
	logger.Info("Rebuilt vector index with %d chunks", len(chunks))
	return len(chunks), nil
}
