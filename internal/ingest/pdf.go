package ingest

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/decisionpipe/decisionpipe/internal/entity"
)

// PageExtractor is the boundary to the PDF text collaborator. ExtractPages
// returns per-page text with real page numbers; ExtractWhole is the degraded
// path returning the entire document as one string.
type PageExtractor interface {
	ExtractPages(doc entity.Document) ([]entity.DocumentPage, error)
	ExtractWhole(doc entity.Document) (string, error)
}

// PDFExtractor implements PageExtractor over raw PDF bytes.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

func (e *PDFExtractor) ExtractPages(doc entity.Document) ([]entity.DocumentPage, error) {
	reader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf %q: %w", doc.FileName, err)
	}

	numPages := reader.NumPage()
	pages := make([]entity.DocumentPage, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read page %d of %q: %w", i, doc.FileName, err)
		}
		pages = append(pages, entity.DocumentPage{PageNumber: i, Text: text})
	}

	e.logger.Info("ingest.pdf.pages_ok", "file", doc.FileName, "pages", len(pages))
	return pages, nil
}

func (e *PDFExtractor) ExtractWhole(doc entity.Document) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return "", fmt.Errorf("open pdf %q: %w", doc.FileName, err)
	}
	r, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf %q: %w", doc.FileName, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("read pdf %q: %w", doc.FileName, err)
	}

	e.logger.Info("ingest.pdf.whole_ok", "file", doc.FileName, "chars", buf.Len())
	return buf.String(), nil
}
