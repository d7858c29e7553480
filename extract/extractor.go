package extract

import (
	"regexp"

	"github.com/uniassist/uniassist/model"
)

// Extractor turns a file on disk into a Document ready for chunking.
// The docType is a hint; implementations may promote it when the content
// clearly indicates a more specific type.
type Extractor interface {
	Extract(path string, docType model.DocumentType) (*model.Document, error)
}

// Indicators that a document is a past exam paper.
var pastPaperRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Q\d+[.):]`),
	regexp.MustCompile(`(?i)Question\s+\d+`),
	regexp.MustCompile(`(?i)Total\s+Marks`),
	regexp.MustCompile(`(?i)Exam\s+Time`),
	regexp.MustCompile(`(?i)Final\s+Exam`),
	regexp.MustCompile(`(?i)Midterm\s+Exam`),
	regexp.MustCompile(`(?i)Quiz`),
}

var questionMarkerRegex = regexp.MustCompile(`(?i)(Q\d+|Question\s+\d+)[.):]`)

// IsPastPaper reports whether the text looks like a past exam paper.
func IsPastPaper(text string) bool {
	for _, re := range pastPaperRegexes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// QuestionMarkers returns the question markers found in the text, in order.
func QuestionMarkers(text string) []string {
	return questionMarkerRegex.FindAllString(text, -1)
}
