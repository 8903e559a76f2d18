// Package sqlite provides SQLite-backed implementations of the
// persistence ports. A single database file holds document chunks,
// conversation turns, feedback, and the query audit log; facet
// accessors expose each port interface over the shared connection.
package sqlite
