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

var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore keeps document chunks in process memory.
type DocumentStore struct {
	mu     sync.RWMutex
	chunks map[domain.ChunkKey]domain.DocumentChunk
	order  []domain.ChunkKey
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		chunks: make(map[domain.ChunkKey]domain.DocumentChunk),
	}
}

// SaveChunks stores all chunks of one uploaded file.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.DocumentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, c := range chunks {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		key := c.Key()
		if _, exists := s.chunks[key]; !exists {
			s.order = append(s.order, key)
		}
		s.chunks[key] = c
	}
	return nil
}

// GetChunk retrieves a chunk by key.
func (s *DocumentStore) GetChunk(_ context.Context, key domain.ChunkKey) (*domain.DocumentChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chunks[key]
	if !ok {
		return nil, fmt.Errorf("chunk %s/%d: %w", key.FileID, key.ChunkID, domain.ErrNotFound)
	}
	return &c, nil
}

// GetChunks retrieves all chunks of a file ordered by position.
func (s *DocumentStore) GetChunks(_ context.Context, fileID string) ([]domain.DocumentChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.DocumentChunk
	for _, key := range s.order {
		if key.FileID == fileID {
			out = append(out, s.chunks[key])
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ChunkID < out[b].ChunkID })
	return out, nil
}

// ListDocuments returns one rollup per ingested file, oldest first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make(map[string]*domain.DocumentInfo)
	var fileOrder []string
	for _, key := range s.order {
		c := s.chunks[key]
		info, ok := infos[c.FileID]
		if !ok {
			info = &domain.DocumentInfo{
				FileID:     c.FileID,
				FileName:   c.FileName,
				IsArchived: c.IsArchived,
				CreatedAt:  c.CreatedAt,
			}
			infos[c.FileID] = info
			fileOrder = append(fileOrder, c.FileID)
		}
		info.TotalChunks++
	}

	out := make([]domain.DocumentInfo, 0, len(fileOrder))
	for _, id := range fileOrder {
		out = append(out, *infos[id])
	}
	return out, nil
}

// SetArchived toggles the archived flag on every chunk of a file.
func (s *DocumentStore) SetArchived(_ context.Context, fileID string, archived bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for key, c := range s.chunks {
		if key.FileID == fileID {
			c.IsArchived = archived
			s.chunks[key] = c
			found = true
		}
	}
	if !found {
		return fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	return nil
}

// ListUnarchivedChunks returns every live chunk in insertion order.
func (s *DocumentStore) ListUnarchivedChunks(_ context.Context) ([]domain.DocumentChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.DocumentChunk
	for _, key := range s.order {
		if c := s.chunks[key]; !c.IsArchived {
			out = append(out, c)
		}
	}
	return out, nil
}
