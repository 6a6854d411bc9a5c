package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/decisionpipe/decisionpipe/constants"
	"github.com/decisionpipe/decisionpipe/internal/common"
	"github.com/decisionpipe/decisionpipe/internal/entity"
)

// Result is the normalizer's output: budget-trimmed pages plus truncation
// bookkeeping and per-document warnings.
type Result struct {
	Pages     []entity.PageRecord
	Truncated bool
	Warnings  []string
}

// Normalizer collects pasted text and raw documents into an ordered,
// size-capped sequence of page records.
type Normalizer struct {
	cfg    common.PipelineConfig
	pdf    PageExtractor
	logger *slog.Logger
}

func NewNormalizer(cfg common.PipelineConfig, pdf PageExtractor, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{cfg: cfg, pdf: pdf, logger: logger}
}

// Normalize emits pasted text first as a synthetic single page, then each
// document's pages in original order, trimming blanks and enforcing the
// global page and character budgets. Zero resulting pages is the caller's
// no-input condition, not an error here.
func (n *Normalizer) Normalize(memoText string, docs []entity.Document) Result {
	res := Result{}
	total := 0
	full := false // page or char budget exhausted, stop taking pages

	take := func(fileName string, pageNumber int, text string) {
		if full {
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		if len(res.Pages) >= n.cfg.MaxPages || total >= n.cfg.MaxTotalChars {
			res.Truncated = true
			full = true
			return
		}
		if remaining := n.cfg.MaxTotalChars - total; len(text) > remaining {
			text = text[:remaining]
			res.Truncated = true
		}
		res.Pages = append(res.Pages, entity.PageRecord{
			FileName:   fileName,
			PageNumber: pageNumber,
			Text:       text,
		})
		total += len(text)
	}

	if strings.TrimSpace(memoText) != "" {
		take(constants.PastedTextFileName, 1, memoText)
	}

	for i, doc := range docs {
		if full {
			break
		}
		name := strings.TrimSpace(doc.FileName)
		if name == "" {
			name = fmt.Sprintf("Document %d", i+1)
		}
		pages, warning := n.extractDocument(doc, name)
		if warning != "" {
			res.Warnings = append(res.Warnings, warning)
		}
		for _, p := range pages {
			take(name, p.PageNumber, p.Text)
		}
	}

	if res.Truncated {
		res.Warnings = append(res.Warnings,
			"Input was truncated to stay within the page and size limits; trailing content was not analyzed.")
	}

	n.logger.Info("ingest.normalize.ok",
		"pages", len(res.Pages),
		"chars", total,
		"truncated", res.Truncated,
		"warnings", len(res.Warnings),
	)
	return res
}

// extractDocument resolves one document to its pages. Failures degrade in
// two steps: per-page extraction, then whole-document fallback (single page,
// approximate citations), then skip with a warning. The warning is part of
// the return value; errors never propagate past this point.
func (n *Normalizer) extractDocument(doc entity.Document, name string) ([]entity.DocumentPage, string) {
	if len(doc.Pages) > 0 {
		return doc.Pages, ""
	}
	if len(doc.Data) == 0 {
		return nil, fmt.Sprintf("%q contained no readable content and was skipped.", name)
	}
	if n.pdf == nil {
		return nil, fmt.Sprintf("%q could not be read (no PDF support configured) and was skipped.", name)
	}

	pages, err := n.pdf.ExtractPages(doc)
	if err == nil {
		return pages, ""
	}
	n.logger.Warn("ingest.normalize.page_extract_failed", "file", name, "error", err)

	whole, werr := n.pdf.ExtractWhole(doc)
	if werr != nil {
		n.logger.Warn("ingest.normalize.whole_extract_failed", "file", name, "error", werr)
		return nil, fmt.Sprintf("%q could not be read and was skipped.", name)
	}
	return []entity.DocumentPage{{PageNumber: 1, Text: whole}},
		fmt.Sprintf("%q was read without page boundaries; page citations for this file are approximate.", name)
}
