package extractor

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/decisionpipe/decisionpipe/internal/common"
	"github.com/decisionpipe/decisionpipe/internal/entity"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeCandidate is the single validation boundary between untrusted
// model output and the merger: a raw item either becomes a fully-populated
// Candidate or is dropped (ok == false). Nothing is defaulted into validity.
func NormalizeCandidate(raw entity.RawCandidate, chunk entity.Chunk, cfg common.PipelineConfig) (entity.Candidate, bool) {
	decision := collapseWhitespace(raw.Decision)
	evidence := collapseWhitespace(raw.Evidence)
	if decision == "" || evidence == "" {
		return entity.Candidate{}, false
	}

	decision = capitalizeFirst(decision)
	evidence = truncateAtWord(evidence, cfg.EvidenceMaxLen)

	source := entity.SourceRef{FileName: chunk.FileName, Page: chunk.FirstPage()}
	if raw.Source != nil {
		if name := strings.TrimSpace(raw.Source.FileName); name != "" {
			source.FileName = name
		}
		if page, ok := coercePage(raw.Source.Page); ok {
			source.Page = page
		}
	}

	var tags []string
	for _, t := range raw.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	return entity.Candidate{
		ID:           entity.CandidateID(decision, source.FileName, source.Page),
		Decision:     decision,
		Evidence:     evidence,
		Source:       source,
		Tags:         tags,
		QualityScore: QualityScore(decision, evidence, cfg.Score),
	}, true
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// truncateAtWord cuts s to at most limit bytes, preferring the last word
// boundary before the limit, and appends an ellipsis marker.
func truncateAtWord(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := s[:limit]
	if idx := strings.LastIndexByte(cut, ' '); idx > limit/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:") + "…"
}

// coercePage accepts a JSON number or a numeric string; anything else, or a
// non-positive value, is rejected so the chunk's first page wins.
func coercePage(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if page := int(num); page > 0 {
			return page, true
		}
		return 0, false
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if page, err := strconv.Atoi(strings.TrimSpace(str)); err == nil && page > 0 {
			return page, true
		}
	}
	return 0, false
}
