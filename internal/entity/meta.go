package entity

import "github.com/decisionpipe/decisionpipe/constants"

// PipelineMeta is the one-way telemetry record accumulated across stages.
// Owned by the orchestrator; stages report into it, never read through it.
type PipelineMeta struct {
	Stage               constants.Stage `json:"stage"`
	PagesProcessed      int             `json:"pages_processed"`
	ChunksProcessed     int             `json:"chunks_processed"`
	CandidatesExtracted int             `json:"candidates_extracted"`
	DecisionsFinal      int             `json:"decisions_final"`
	Truncated           bool            `json:"truncated"`
	Warnings            []string        `json:"warnings"`
	TimingMS            int64           `json:"timing_ms"`
}

// Warn appends a human-readable warning to the telemetry trail.
func (m *PipelineMeta) Warn(msg string) {
	m.Warnings = append(m.Warnings, msg)
}

// KeyDecision is one entry of the narrative summary.
type KeyDecision struct {
	Decision     string     `json:"decision"`
	WhyItMatters string     `json:"why_it_matters,omitempty"`
	Source       *SourceRef `json:"source,omitempty"`
}

// SummaryPayload is the narrative summary. Either fully valid or absent;
// never partially populated.
type SummaryPayload struct {
	KeyDecisions []KeyDecision `json:"key_decisions"`
	Themes       []string      `json:"themes,omitempty"`
	Unknowns     []string      `json:"unknowns,omitempty"`
}
