// Package domain defines the core business entities for docuchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentChunk: An indexed unit of an uploaded document
//   - SimilarityResult: A single retrieval hit with its distance
//   - ChatRequest / ChatResponse / ChatHistory: Conversation turns
//   - Feedback: A user rating of a conversation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
