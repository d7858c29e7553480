package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/uniassist/uniassist/helper"
	"github.com/uniassist/uniassist/model"
)

// PDFExtractor extracts per-page text and image references from PDF files
// using pdfcpu.
type PDFExtractor struct {
	logger    *slog.Logger
	tempDir   string
	imagesDir string
	config    *pdfmodel.Configuration
}

// NewPDFExtractor creates a PDF extractor. Extracted images are written
// below imagesDir; pass an empty string to keep them in a temp directory.
func NewPDFExtractor(imagesDir string, logger *slog.Logger) (*PDFExtractor, error) {
	tempDir := filepath.Join(os.TempDir(), "uniassist-pdf")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, helper.NewError("mkdir", err)
	}
	if imagesDir == "" {
		imagesDir = filepath.Join(tempDir, "images")
	}
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, helper.NewError("mkdir", err)
	}

	return &PDFExtractor{
		logger:    logger,
		tempDir:   tempDir,
		imagesDir: imagesDir,
		config:    pdfmodel.NewDefaultConfiguration(),
	}, nil
}

// Extract reads the PDF and returns a Document with per-page text and image
// references. A generic docType gets promoted to exam paper when the text
// shows past paper indicators. Unreadable files return nil and an error.
func (e *PDFExtractor) Extract(path string, docType model.DocumentType) (*model.Document, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, helper.NewError("read pdf", err)
	}
	pageCount := pdfCtx.PageCount

	pageTexts, err := e.extractPageTexts(path, pageCount)
	if err != nil {
		return nil, err
	}
	pageImages := e.extractPageImages(path)

	pages := make([]model.Page, 0, pageCount)
	var fullText strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text := pageTexts[pageNum]
		if fullText.Len() > 0 {
			fullText.WriteString("\n\n")
		}
		fullText.WriteString(text)
		pages = append(pages, model.Page{
			PageNumber: pageNum,
			Text:       text,
			Images:     pageImages[pageNum],
		})
	}

	if docType == model.DocTypeGeneric && IsPastPaper(fullText.String()) {
		docType = model.DocTypeExamPaper
	}

	doc := model.NewDocument(filepath.Base(path), docType, fullText.String())
	doc.Path = path
	doc.Pages = pages
	return doc, nil
}

// ExtractDirectory extracts every PDF in the directory. Files that cannot
// be read are logged and skipped, so one broken file does not abort a batch.
func (e *PDFExtractor) ExtractDirectory(dir string, docType model.DocumentType) ([]*model.Document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, helper.NewError("glob", err)
	}

	var docs []*model.Document
	for _, path := range paths {
		doc, err := e.Extract(path, docType)
		if err != nil {
			e.logger.Warn("Skipping unreadable PDF",
				slog.String("path", path),
				slog.Any("error", err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// extractPageTexts extracts the text content of every page into a map keyed
// by 1-based page number. pdfcpu writes one content file per page; pages
// whose content cannot be read come back empty rather than failing the
// whole document.
func (e *PDFExtractor) extractPageTexts(path string, pageCount int) (map[int]string, error) {
	outDir := filepath.Join(e.tempDir, fmt.Sprintf("content_%d", os.Getpid()))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, helper.NewError("mkdir", err)
	}
	defer os.RemoveAll(outDir)

	pageTexts := make(map[int]string, pageCount)
	if err := api.ExtractContentFile(path, outDir, nil, e.config); err != nil {
		e.logger.Warn("Failed to extract PDF content",
			slog.String("path", path),
			slog.Any("error", err))
		return pageTexts, nil
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return nil, helper.NewError("read dir", err)
	}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		pageNum, ok := pageNumberFromFilename(file.Name())
		if !ok {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		pageTexts[pageNum] = string(content)
	}
	return pageTexts, nil
}

// extractPageImages extracts embedded images into the images directory and
// returns references grouped by 1-based page number. Image extraction is
// best effort.
func (e *PDFExtractor) extractPageImages(path string) map[int][]model.ImageRef {
	outDir := filepath.Join(e.imagesDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil
	}

	if err := api.ExtractImagesFile(path, outDir, nil, e.config); err != nil {
		e.logger.Debug("No images extracted",
			slog.String("path", path),
			slog.Any("error", err))
		return nil
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return nil
	}

	pageImages := make(map[int][]model.ImageRef)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		pageNum, ok := pageNumberFromFilename(file.Name())
		if !ok {
			continue
		}
		pageImages[pageNum] = append(pageImages[pageNum], model.ImageRef{
			Filename: file.Name(),
			Path:     filepath.Join(outDir, file.Name()),
			Page:     pageNum,
			Index:    len(pageImages[pageNum]),
		})
	}
	return pageImages
}

// pageNumberFromFilename pulls the page number out of a pdfcpu output
// filename. pdfcpu names extracted files like "doc_page_3.txt" or
// "doc_3_Im0.png", so the page number is the first numeric underscore
// segment after the base name.
func pageNumberFromFilename(name string) (int, bool) {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	for _, part := range strings.Split(name, "_") {
		var pageNum int
		if _, err := fmt.Sscanf(part, "%d", &pageNum); err == nil && pageNum > 0 {
			return pageNum, true
		}
	}
	return 0, false
}
