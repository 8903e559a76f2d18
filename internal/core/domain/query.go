package domain

// UserQuery is a single-turn search query.
type UserQuery struct {
	// QueryID is assigned by the query store on save.
	QueryID int64

	// QueryText is the raw query text.
	QueryText string

	// QueryMetadata carries arbitrary caller-supplied key-value pairs.
	QueryMetadata map[string]any
}

// SearchAnswer is the response to a single-turn search query.
type SearchAnswer struct {
	// Response is the answer text.
	Response string

	// ResponseMetadata holds the retrieved chunk snapshots in rank order.
	ResponseMetadata []SimilarityResult
}
