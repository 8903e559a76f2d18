// Package httpapi exposes the chat, ingestion, search, document and
// feedback services over HTTP. It is a thin driving adapter: handlers
// decode requests, call a driving port, and map domain errors to
// status codes. No business logic lives here.
package httpapi
