package pipeline

import (
	"fmt"

	"github.com/uniassist/uniassist/model"
)

// ChunkFunc is a function that splits an extracted document into chunks.
// The strategy may depend on the document type.
type ChunkFunc func(doc *model.Document) ([]*model.Chunk, error)

// EmbedFunc is a function that generates embeddings for a batch of texts.
// It returns one vector per input text, in the same order.
type EmbedFunc func(texts []string) ([][]float32, error)

// Pipeline combines chunking and embedding functions
type Pipeline struct {
	Chunker  ChunkFunc
	Embedder EmbedFunc
}

// NewPipeline creates a new processing pipeline
func NewPipeline(chunker ChunkFunc, embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Chunker:  chunker,
		Embedder: embedder,
	}
}

// ProcessingResult contains the chunks of a document together with their embeddings.
// Chunks and Embeddings are parallel slices.
type ProcessingResult struct {
	Chunks     []*model.Chunk
	Embeddings [][]float32
}

// Process runs a document through the pipeline, returning chunks with embeddings.
// Chunks with no content after trimming are dropped before embedding.
func (p *Pipeline) Process(doc *model.Document) (*ProcessingResult, error) {
	chunks, err := p.Chunker(doc)
	if err != nil {
		return nil, err
	}

	var kept []*model.Chunk
	var texts []string
	for _, chunk := range chunks {
		if chunk.Text == "" {
			continue
		}
		kept = append(kept, chunk)
		texts = append(texts, chunk.Text)
	}

	if len(kept) == 0 {
		return &ProcessingResult{Chunks: []*model.Chunk{}, Embeddings: [][]float32{}}, nil
	}

	embeddings, err := p.Embedder(texts)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(kept) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(kept))
	}

	return &ProcessingResult{Chunks: kept, Embeddings: embeddings}, nil
}
