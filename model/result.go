package model

// RetrievalResult is one retrieved chunk with its relevance score.
// Score is 1 - cosine distance, so higher is more relevant. Results are
// ephemeral and never persisted.
type RetrievalResult struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
	Score    float64  `json:"relevance_score"`
}

// SourceDocument returns the source document identifier from the result
// metadata, or "Unknown" when missing.
func (r *RetrievalResult) SourceDocument() string {
	if v, ok := r.Metadata[MetaSourceDocument]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "Unknown"
}
