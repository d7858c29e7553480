package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/uniassist/uniassist/model"
)

// questionMarkerRegex matches question markers like "Q1.", "Q2)", "Question 3:".
var questionMarkerRegex = regexp.MustCompile(`(?i)(Q\d+[.):]|Question\s+\d+[.):])`)

// Heading patterns recognised by the notes chunker.
var headingRegexes = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z\s]{3,}$`),
	regexp.MustCompile(`^\d+\.`),
	regexp.MustCompile(`^Chapter\s+\d+`),
	regexp.MustCompile(`^Section\s+\d+`),
	regexp.MustCompile(`^[IVX]+\.`),
}

// DocumentChunker creates a chunker that picks a splitting strategy based on
// the document type. Exam papers split on question markers, notes split on
// section headings, slides split per page and everything else falls back to a
// sliding word window. Strategies that find no usable structure fall back to
// the sliding window as well.
func DocumentChunker(config *model.ChunkConfig) ChunkFunc {
	return func(doc *model.Document) ([]*model.Chunk, error) {
		if config == nil {
			config = model.DefaultChunkConfig()
		}
		if config.ChunkSize <= 0 {
			return nil, fmt.Errorf("chunk size must be positive")
		}
		if config.ChunkOverlap < 0 || config.ChunkOverlap >= config.ChunkSize {
			return nil, fmt.Errorf("chunk overlap must be in [0, chunk size)")
		}

		switch doc.Type {
		case model.DocTypeExamPaper:
			return chunkExamPaper(doc, config), nil
		case model.DocTypeNotes:
			return chunkNotes(doc, config), nil
		case model.DocTypeSlides:
			return chunkSlides(doc), nil
		default:
			return chunkGeneric(doc, config), nil
		}
	}
}

// chunkExamPaper splits the document on question markers so that every chunk
// holds exactly one question. Text before the first marker (cover page,
// instructions) is discarded. With fewer than two markers the document is not
// really marker structured, so the generic strategy takes over.
func chunkExamPaper(doc *model.Document, config *model.ChunkConfig) []*model.Chunk {
	markers := questionMarkerRegex.FindAllStringIndex(doc.FullText, -1)
	if len(markers) < 2 {
		return chunkGeneric(doc, config)
	}

	var chunks []*model.Chunk
	for i, marker := range markers {
		start := marker[0]
		end := len(doc.FullText)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		questionID := strings.TrimSpace(doc.FullText[marker[0]:marker[1]])
		text := doc.FullText[start:end]
		locator := fmt.Sprintf("question:%d:%s", i, questionID)
		chunk := model.NewChunk(doc, model.ChunkTypeQuestion, text, locator, model.Metadata{
			model.MetaQuestionID: questionID,
		})
		if chunk.Text == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}

	if len(chunks) == 0 {
		return chunkGeneric(doc, config)
	}
	return chunks
}

// chunkNotes splits the document on section headings, keeping each heading
// with its body. Sections growing past 1.5x the configured chunk size are
// flushed early so a single runaway section cannot swallow the document.
func chunkNotes(doc *model.Document, config *model.ChunkConfig) []*model.Chunk {
	maxSectionWords := config.ChunkSize + config.ChunkSize/2

	var chunks []*model.Chunk
	heading := "Introduction"
	var section strings.Builder
	sectionWords := 0
	sectionIndex := 0

	flush := func() {
		text := section.String()
		if strings.TrimSpace(text) == "" {
			return
		}
		locator := fmt.Sprintf("section:%d:%s", sectionIndex, heading)
		chunks = append(chunks, model.NewChunk(doc, model.ChunkTypeSection, text, locator, model.Metadata{
			model.MetaSectionHeading: heading,
		}))
		sectionIndex++
		section.Reset()
		sectionWords = 0
	}

	for _, line := range strings.Split(doc.FullText, "\n") {
		trimmed := strings.TrimSpace(line)
		if isHeading(trimmed) {
			flush()
			heading = trimmed
		}
		section.WriteString(line)
		section.WriteString("\n")
		sectionWords += len(strings.Fields(line))
		if sectionWords > maxSectionWords {
			flush()
		}
	}
	flush()

	if len(chunks) == 0 {
		return chunkGeneric(doc, config)
	}
	return chunks
}

func isHeading(line string) bool {
	if line == "" {
		return false
	}
	for _, re := range headingRegexes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// chunkSlides emits one chunk per non-empty page. Slide decks are already
// split into self-contained units, so page boundaries are the chunk
// boundaries.
func chunkSlides(doc *model.Document) []*model.Chunk {
	var chunks []*model.Chunk
	for _, page := range doc.Pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		meta := model.Metadata{
			model.MetaPageNumber: page.PageNumber,
			model.MetaHasImages:  page.HasImages(),
		}
		if page.HasImages() {
			names := make([]string, 0, len(page.Images))
			for _, image := range page.Images {
				names = append(names, image.Filename)
			}
			meta["images"] = names
		}
		locator := fmt.Sprintf("slide:%d", page.PageNumber)
		chunks = append(chunks, model.NewChunk(doc, model.ChunkTypeSlide, page.Text, locator, meta))
	}
	return chunks
}

// chunkGeneric splits the document into fixed-size word windows with overlap.
// The final partial window is kept, so no trailing words are lost.
func chunkGeneric(doc *model.Document, config *model.ChunkConfig) []*model.Chunk {
	words := strings.Fields(doc.FullText)
	if len(words) == 0 {
		return []*model.Chunk{}
	}

	stride := config.ChunkSize - config.ChunkOverlap
	var chunks []*model.Chunk
	chunkID := 0
	for start := 0; start < len(words); start += stride {
		end := start + config.ChunkSize
		if end > len(words) {
			end = len(words)
		}
		text := strings.Join(words[start:end], " ")
		locator := fmt.Sprintf("window:%d", chunkID)
		chunks = append(chunks, model.NewChunk(doc, model.ChunkTypeGeneric, text, locator, model.Metadata{
			model.MetaChunkID: chunkID,
		}))
		chunkID++
		if end == len(words) {
			break
		}
	}
	return chunks
}
