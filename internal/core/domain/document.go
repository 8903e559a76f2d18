package domain

import "time"

// DocumentChunk represents one indexed unit of an uploaded document.
// It is created once at ingestion and never modified afterwards, with
// the single exception of the archived flag.
type DocumentChunk struct {
	// FileID groups all chunks produced from one upload.
	FileID string

	// FileName is the original name of the uploaded file.
	FileName string

	// ChunkID is the zero-based position of this chunk within the file.
	ChunkID int

	// Text is the extracted chunk text.
	Text string

	// Embedding is the dense vector representation of Text.
	// Its length must equal the process-wide embedding dimension.
	Embedding []float32

	// IsArchived marks a chunk excluded by administrative action.
	IsArchived bool

	// CreatedAt is when the chunk was ingested.
	CreatedAt time.Time
}

// Key returns the identity of a chunk inside the vector index.
// Chunks are addressed by file and position; the pair is stable
// for the lifetime of the deployment.
func (c DocumentChunk) Key() ChunkKey {
	return ChunkKey{FileID: c.FileID, ChunkID: c.ChunkID}
}

// ChunkKey identifies a stored chunk.
type ChunkKey struct {
	FileID  string
	ChunkID int
}

// SimilarityResult is a single retrieval hit. It is produced per query
// and never persisted.
type SimilarityResult struct {
	// Chunk is a snapshot of the matched chunk.
	Chunk DocumentChunk

	// Distance is the cosine distance (1 - cosine similarity) between
	// the query vector and the chunk embedding. Smaller is closer.
	Distance float64

	// RerankScore is the cross-encoder relevance score, populated only
	// when the reranking stage ran.
	RerankScore *float64
}

// DocumentInfo is a per-file rollup used for document listings.
type DocumentInfo struct {
	FileID      string
	FileName    string
	TotalChunks int
	IsArchived  bool
	CreatedAt   time.Time
}
