package retrieval

import (
	"fmt"

	"github.com/uniassist/uniassist/core/pipeline"
	"github.com/uniassist/uniassist/database"
	"github.com/uniassist/uniassist/model"
)

// Engine performs semantic search over the indexed chunks. It embeds the
// query with the same embedder used at ingestion time and ranks records by
// cosine similarity in the database.
type Engine struct {
	records  database.RecordsDBHandlerFunctions
	embedder pipeline.EmbedFunc
}

// NewEngine creates a new retrieval engine.
func NewEngine(records database.RecordsDBHandlerFunctions, embedder pipeline.EmbedFunc) *Engine {
	return &Engine{
		records:  records,
		embedder: embedder,
	}
}

// Retrieve returns the topK most similar chunks for the query, in descending
// similarity order. The filter restricts candidates by metadata containment
// before ranking. An empty index yields an empty result, not an error.
func (e *Engine) Retrieve(query string, topK int, filter model.Filter) ([]*model.RetrievalResult, error) {
	if topK <= 0 {
		topK = model.DefaultQueryConfig().TopK
	}

	embeddings, err := e.embedder([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("expected 1 query embedding, got %d", len(embeddings))
	}

	records, err := e.records.SelectRecordsBySimilarity(embeddings[0], topK, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	results := make([]*model.RetrievalResult, 0, len(records))
	for _, record := range records {
		results = append(results, &model.RetrievalResult{
			Text:     record.Content,
			Metadata: record.Metadata,
			Score:    record.Similarity,
		})
	}
	return results, nil
}
