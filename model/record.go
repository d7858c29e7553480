package model

import (
	"time"

	"github.com/google/uuid"
)

// IndexedRecord is a chunk as stored in the vector index: content plus its
// embedding, metadata and content-derived identifier. Similarity is only set
// on rows returned from a similarity query.
type IndexedRecord struct {
	RID        uuid.UUID `json:"rid"`
	DocumentID int       `json:"document_id"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding,omitempty"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Similarity float64   `json:"similarity,omitempty"`
}
