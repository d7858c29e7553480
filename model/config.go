package model

// ChunkConfig controls the generic sliding-window strategy and the notes
// force-flush bound.
type ChunkConfig struct {
	// ChunkSize is the target chunk size in whitespace tokens.
	ChunkSize int `json:"chunk_size"`
	// ChunkOverlap is the number of tokens consecutive generic chunks share.
	ChunkOverlap int `json:"chunk_overlap"`
}

// DefaultChunkConfig returns the reference configuration: 512-token windows
// with 50 tokens of overlap.
func DefaultChunkConfig() *ChunkConfig {
	return &ChunkConfig{
		ChunkSize:    512,
		ChunkOverlap: 50,
	}
}

// QueryConfig represents configuration for a retrieval query.
type QueryConfig struct {
	TopK   int    `json:"top_k"`
	Filter Filter `json:"filter,omitempty"`
}

// DefaultQueryConfig returns a sensible default configuration.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK: 5,
	}
}
