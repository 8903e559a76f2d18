// Package memory provides in-memory implementations of the persistence
// ports. They back the test suite and the ephemeral server mode where
// no database path is configured.
package memory
