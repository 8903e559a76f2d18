// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - VectorIndex: Stores chunk vectors and answers nearest-neighbour queries
//   - LLMService: Language model completion for refinement and answering
//   - DocumentStore: Chunk persistence
//   - ChatStore: Conversation persistence
//   - PromptStore: User-editable prompt templates
//
// # Optional Interfaces
//
//   - Reranker: Cross-encoder second-stage scoring. Nil disables the
//     rerank stage; retrieval order is used as-is.
//   - FeedbackStore / QueryStore: Side-channel persistence for the
//     feedback and search surfaces.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
