package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docuchat/internal/chunker"
	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService turns uploaded files into indexed chunks.
type IngestionService struct {
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	docStore driven.DocumentStore
	index    driven.VectorIndex
}

// NewIngestionService creates an ingestion service.
func NewIngestionService(
	ck *chunker.Chunker,
	embedder driven.EmbeddingService,
	docStore driven.DocumentStore,
	index driven.VectorIndex,
) *IngestionService {
	return &IngestionService{
		chunker:  ck,
		embedder: embedder,
		docStore: docStore,
		index:    index,
	}
}

// Ingest chunks the file, embeds every chunk, persists the chunks, and
// upserts them into the vector index.
func (s *IngestionService) Ingest(ctx context.Context, fileName string, data []byte) (*driving.IngestResult, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: empty file name", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", fileName, domain.ErrEmptyContent)
	}

	logger.Section("Ingestion")
	logger.Debug("File %q, %d bytes", fileName, len(data))

	texts, err := s.chunker.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}
	logger.Info("Parsed %q into %d chunks", fileName, len(texts))

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", fileName, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embed %s: %w: got %d vectors for %d chunks",
			fileName, domain.ErrEmbedding, len(vectors), len(texts))
	}

	fileID := uuid.NewString()
	chunks := make([]domain.DocumentChunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.DocumentChunk{
			FileID:    fileID,
			FileName:  fileName,
			ChunkID:   i,
			Text:      text,
			Embedding: vectors[i],
		}
	}

	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("persist chunks of %s: %w", fileName, err)
	}
	if err := s.index.Upsert(ctx, chunks); err != nil {
		return nil, fmt.Errorf("index chunks of %s: %w", fileName, err)
	}

	logger.Info("Ingested %q as %s (%d chunks)", fileName, fileID, len(chunks))
	return &driving.IngestResult{
		FileID:      fileID,
		FileName:    fileName,
		TotalChunks: len(chunks),
	}, nil
}
