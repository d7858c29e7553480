package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ChunkType tags how a chunk was carved out of its source document.
type ChunkType string

const (
	ChunkTypeQuestion ChunkType = "question"
	ChunkTypeSection  ChunkType = "section"
	ChunkTypeSlide    ChunkType = "slide"
	ChunkTypeGeneric  ChunkType = "generic"
)

// Metadata keys shared by all chunks plus the strategy-specific ones.
const (
	MetaSourceDocument = "source_document"
	MetaDocType        = "doc_type"
	MetaChunkType      = "chunk_type"
	MetaCourse         = "course"
	MetaCourseCode     = "course_code"
	MetaWordCount      = "word_count"
	MetaQuestionID     = "question_id"
	MetaSectionHeading = "section_heading"
	MetaPageNumber     = "page_number"
	MetaHasImages      = "has_images"
	MetaChunkID        = "chunk_id"
)

// chunkNamespace scopes content-derived chunk identifiers.
var chunkNamespace = uuid.MustParse("8f2a1f6e-4c52-41d8-9d4b-6b1f2a7c9e03")

// Chunk is the atomic retrievable unit. Chunks are immutable after creation;
// a changed chunk is a new chunk with a new identifier.
type Chunk struct {
	RID            uuid.UUID    `json:"rid"`
	Text           string       `json:"text"`
	Type           ChunkType    `json:"chunk_type"`
	SourceDocument string       `json:"source_document"`
	DocType        DocumentType `json:"doc_type"`
	Course         string       `json:"course"`
	CourseCode     string       `json:"course_code"`
	WordCount      int          `json:"word_count"`
	CharCount      int          `json:"char_count"`
	Metadata       Metadata     `json:"metadata,omitempty"`
}

// NewChunk builds a chunk with the uniform envelope filled in. The locator
// must identify the chunk within its source document (question id, heading
// plus flush index, page number, window index); together with the source
// document it derives a stable identifier, so re-ingesting unchanged content
// produces the same ids.
func NewChunk(doc *Document, chunkType ChunkType, text string, locator string, meta Metadata) *Chunk {
	text = strings.TrimSpace(text)
	if meta == nil {
		meta = Metadata{}
	}
	return &Chunk{
		RID:            uuid.NewSHA1(chunkNamespace, []byte(doc.Filename+"|"+locator)),
		Text:           text,
		Type:           chunkType,
		SourceDocument: doc.Filename,
		DocType:        doc.Type,
		Course:         doc.Course,
		CourseCode:     doc.CourseCode,
		WordCount:      len(strings.Fields(text)),
		CharCount:      len(text),
		Metadata:       meta,
	}
}

// EnvelopeMetadata returns the full metadata map persisted with the chunk:
// the uniform envelope merged with the strategy-specific metadata. This is
// what lets retrieval and citation code stay strategy-agnostic.
func (c *Chunk) EnvelopeMetadata() Metadata {
	out := Metadata{
		MetaSourceDocument: c.SourceDocument,
		MetaDocType:        string(c.DocType),
		MetaChunkType:      string(c.Type),
		MetaCourse:         c.Course,
		MetaCourseCode:     c.CourseCode,
		MetaWordCount:      c.WordCount,
	}
	for k, v := range c.Metadata {
		out[k] = v
	}
	return out
}

// Locator reconstructs the chunk's position inside its source document from
// metadata alone, without re-reading the source.
func (c *Chunk) Locator() string {
	switch c.Type {
	case ChunkTypeQuestion:
		if v, ok := c.Metadata[MetaQuestionID]; ok {
			return fmt.Sprintf("%v", v)
		}
	case ChunkTypeSection:
		if v, ok := c.Metadata[MetaSectionHeading]; ok {
			return fmt.Sprintf("%v", v)
		}
	case ChunkTypeSlide:
		if v, ok := c.Metadata[MetaPageNumber]; ok {
			return fmt.Sprintf("page %v", v)
		}
	case ChunkTypeGeneric:
		if v, ok := c.Metadata[MetaChunkID]; ok {
			return fmt.Sprintf("chunk %v", v)
		}
	}
	return ""
}
