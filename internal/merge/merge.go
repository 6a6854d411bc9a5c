package merge

import (
	"sort"
	"strings"
	"unicode"

	"github.com/decisionpipe/decisionpipe/internal/common"
	"github.com/decisionpipe/decisionpipe/internal/entity"
)

// Key normalizes decision text into the deduplication key: lowercased,
// punctuation stripped, whitespace collapsed. Two candidates sharing a key
// are the same decision regardless of the model's wording across chunks.
func Key(decision string) string {
	var b strings.Builder
	b.Grow(len(decision))
	for _, r := range decision {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Dedupe collapses candidates with equal keys (higher quality score wins,
// first-seen wins on ties, loser's provenance folded into Sources), ranks
// the survivors by score descending with a stable sort, and caps the list.
// The input order must be the deterministic pre-rank chunk order; ties then
// stay deterministic too.
func Dedupe(candidates []entity.Candidate, cfg common.PipelineConfig) []entity.Candidate {
	byKey := make(map[string]int, len(candidates))
	var merged []entity.Candidate

	for _, cand := range candidates {
		key := Key(cand.Decision)
		idx, seen := byKey[key]
		if !seen {
			cand.Sources = addSource(cand.Sources, cand.Source)
			byKey[key] = len(merged)
			merged = append(merged, cand)
			continue
		}

		existing := merged[idx]
		if cand.QualityScore > existing.QualityScore {
			cand.Sources = existing.Sources
			cand.Sources = addSource(cand.Sources, cand.Source)
			merged[idx] = cand
		} else {
			merged[idx].Sources = addSource(existing.Sources, cand.Source)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].QualityScore > merged[j].QualityScore
	})

	if len(merged) > cfg.MaxDecisions {
		merged = merged[:cfg.MaxDecisions]
	}
	return merged
}

// AdvisoryWarning returns a non-error nudge when the run produced notably
// few decisions; richer input usually helps. Empty string means no advisory.
func AdvisoryWarning(finalCount int, cfg common.PipelineConfig) string {
	if finalCount > 0 && finalCount < cfg.AdvisoryMinDecisions {
		return "Few decisions were found; richer or more specific source material may improve coverage."
	}
	return ""
}

func addSource(sources []entity.SourceRef, ref entity.SourceRef) []entity.SourceRef {
	for _, s := range sources {
		if s == ref {
			return sources
		}
	}
	return append(sources, ref)
}
