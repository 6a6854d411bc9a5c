package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// RawSource is the untrusted source reference inside a model response.
// Page is left loosely typed because models return both numbers and
// numeric strings; coercion happens during normalization.
type RawSource struct {
	FileName string          `json:"fileName"`
	Page     json.RawMessage `json:"page,omitempty"`
}

// RawCandidate is the untrusted per-item shape inside the extraction model's
// response. Never crosses into the merger without validation.
type RawCandidate struct {
	Decision string     `json:"decision"`
	Evidence string     `json:"evidence"`
	Source   *RawSource `json:"source,omitempty"`
	Tags     []string   `json:"tags,omitempty"`
}

// SourceRef is a validated page citation.
type SourceRef struct {
	FileName string `json:"fileName"`
	Page     int    `json:"page"`
}

// Candidate is a validated, scored decision record. QualityScore is
// internal-only and never serialized to the caller.
type Candidate struct {
	ID           string      `json:"id"`
	Decision     string      `json:"decision"`
	Evidence     string      `json:"evidence"`
	Source       SourceRef   `json:"source"`
	Sources      []SourceRef `json:"sources,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	QualityScore int         `json:"-"`
}

// CandidateID derives the deterministic candidate id from the normalized
// decision text and its citation. Re-running extraction on identical model
// output yields identical ids.
func CandidateID(decision, fileName string, page int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%d", decision, fileName, page))
	return hex.EncodeToString(sum[:])[:16]
}
