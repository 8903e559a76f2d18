// Package services implements the application's business logic,
// independent of specific infrastructure.
//
// Services implement driving port interfaces (what external actors
// call) and depend on driven port interfaces (what infrastructure
// provides). The chat pipeline is a fixed sequence of stages; every
// stage that can degrade gracefully does so, and every stage that
// cannot surfaces a domain error for the transport layer to map.
//
// # Import Rules
//
//   - Can Import: domain, ports/driven, ports/driving, chunker, rag, logger
//   - Cannot Import: Any adapter package
package services
