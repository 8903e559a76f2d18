package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates an upload that is neither a PDF nor
	// decodable text. User-correctable: surfaced as a 4xx.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyContent indicates an upload from which no non-whitespace
	// text could be extracted. User-correctable: surfaced as a 4xx.
	ErrEmptyContent = errors.New("no text content extracted")

	// ErrEmbedding indicates the embedding backend failed. Non-retryable
	// within the request; the whole request may safely be retried later.
	ErrEmbedding = errors.New("embedding backend failure")

	// ErrInvalidConfig indicates an inconsistent configuration, such as
	// a rerank depth larger than the retrieval depth. Fatal at startup,
	// never a per-request condition.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLLMUnavailable indicates the language model call itself failed.
	// A chat turn hitting this during generation fails; the persisted
	// request row is retained for diagnostics and retry.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrDimensionMismatch indicates a vector whose length does not
	// match the index dimension. This is an invariant violation, not a
	// recoverable condition.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
