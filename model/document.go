package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentType classifies a source document and selects its chunking strategy.
// Unknown labels map to DocTypeGeneric so the fallback path is always explicit.
type DocumentType string

const (
	DocTypeExamPaper DocumentType = "exam_paper"
	DocTypeNotes     DocumentType = "notes"
	DocTypeSlides    DocumentType = "slides"
	DocTypeGeneric   DocumentType = "generic"
)

// ParseDocumentType maps a free-form label to a DocumentType.
// Anything unrecognized becomes DocTypeGeneric.
func ParseDocumentType(label string) DocumentType {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "exam_paper", "exam-paper", "past_paper", "past-paper":
		return DocTypeExamPaper
	case "notes":
		return DocTypeNotes
	case "slides":
		return DocTypeSlides
	default:
		return DocTypeGeneric
	}
}

// ImageRef points to an image extracted from a document page.
type ImageRef struct {
	Filename string `json:"filename"`
	Path     string `json:"path,omitempty"`
	Page     int    `json:"page"`
	Index    int    `json:"index"`
}

// Page is a single extracted page of a document.
type Page struct {
	PageNumber int        `json:"page_number"`
	Text       string     `json:"text"`
	Images     []ImageRef `json:"images,omitempty"`
}

// HasImages reports whether at least one image was extracted from the page.
func (p Page) HasImages() bool {
	return len(p.Images) > 0
}

// Document is an extracted source unit. It is produced once by the extraction
// layer and consumed exactly once by the chunker; nothing mutates it afterwards.
type Document struct {
	Filename    string       `json:"filename"`
	Path        string       `json:"path,omitempty"`
	Type        DocumentType `json:"doc_type"`
	Course      string       `json:"course"`
	CourseCode  string       `json:"course_code"`
	FullText    string       `json:"full_text"`
	Pages       []Page       `json:"pages,omitempty"`
	WordCount   int          `json:"word_count"`
	ProcessedAt time.Time    `json:"processed_at"`
}

// NewDocument creates a Document from raw text with the word count computed.
// Pages are optional; documents without page structure chunk generically.
func NewDocument(filename string, docType DocumentType, text string) *Document {
	return &Document{
		Filename:    filename,
		Type:        docType,
		FullText:    text,
		WordCount:   len(strings.Fields(text)),
		ProcessedAt: time.Now(),
	}
}

// DocumentRecord is the persisted registry row for an ingested document.
type DocumentRecord struct {
	ID         int          `json:"id"`
	RID        uuid.UUID    `json:"rid"`
	Filename   string       `json:"filename"`
	Type       DocumentType `json:"doc_type"`
	Course     string       `json:"course"`
	CourseCode string       `json:"course_code"`
	WordCount  int          `json:"word_count"`
	PageCount  int          `json:"page_count"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
