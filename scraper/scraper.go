package scraper

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/uniassist/uniassist/helper"
	"github.com/uniassist/uniassist/model"
)

// Scraper fetches tutorial and course pages from the web and turns them
// into generic documents for ingestion.
type Scraper struct {
	client *http.Client
	logger *slog.Logger
}

// NewScraper creates a web scraper with a sensible request timeout.
func NewScraper(logger *slog.Logger) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// FetchPage downloads the page and returns it as a generic Document. The
// page title becomes the document filename; navigation, scripts and styles
// are stripped before the text is collected.
func (s *Scraper) FetchPage(url string) (*model.Document, error) {
	resp, err := s.client.Get(url)
	if err != nil {
		return nil, helper.NewError("fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, helper.NewError("fetch", fmt.Errorf("unexpected status %s for %s", resp.Status, url))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, helper.NewError("parse html", err)
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = url
	}

	// Prefer the article body when the page has one.
	content := doc.Find("article, main").First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}

	text := normalizeWhitespace(content.Text())
	if text == "" {
		return nil, helper.NewError("parse html", fmt.Errorf("no text content at %s", url))
	}

	document := model.NewDocument(title, model.DocTypeGeneric, text)
	document.Path = url
	return document, nil
}

// FetchPages downloads a list of pages, logging and skipping failures.
func (s *Scraper) FetchPages(urls []string) []*model.Document {
	var docs []*model.Document
	for _, url := range urls {
		doc, err := s.FetchPage(url)
		if err != nil {
			s.logger.Warn("Skipping page",
				slog.String("url", url),
				slog.Any("error", err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// normalizeWhitespace collapses runs of blank lines and trims each line, so
// scraped text chunks cleanly.
func normalizeWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
