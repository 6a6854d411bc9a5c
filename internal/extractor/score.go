package extractor

import (
	"regexp"

	"github.com/decisionpipe/decisionpipe/internal/common"
)

// Temporal-commitment markers: years, quarters, halves, fiscal years, and
// the common deadline phrasings.
var temporalRe = regexp.MustCompile(`(?i)\b(19|20)\d{2}\b|\bq[1-4]\b|\bh[12]\b|\bfy ?\d{2,4}\b|\bby (the )?end\b|\bend of (year|quarter|month)\b|\bnext (year|quarter|month|week)\b|\bwithin \d+\b`)

var digitRe = regexp.MustCompile(`\d`)

// QualityScore rates how decision-like a candidate is: concrete, falsifiable,
// time-bound evidence scores above vague statements. Deterministic over the
// candidate text alone; never re-derived from the model.
func QualityScore(decision, evidence string, cfg common.ScoreConfig) int {
	score := cfg.Base
	if temporalRe.MatchString(evidence) {
		score += cfg.DateBonus
	}
	if digitRe.MatchString(evidence) {
		score += cfg.DigitBonus
	}
	if len(decision) > cfg.LengthThreshold {
		score += cfg.LengthBonus
	}
	if score > cfg.Max {
		score = cfg.Max
	}
	return score
}
