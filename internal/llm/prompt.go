package llm

import (
	"fmt"
	"strings"

	"github.com/decisionpipe/decisionpipe/internal/entity"
)

// BuildExtractionSystemPrompt composes the system message for one chunk's
// extraction call. Single-sourced so every call site shares one contract.
func BuildExtractionSystemPrompt(maxCandidates, evidenceMaxLen int) string {
	parts := []string{
		"You are a decision extractor. Return ONLY JSON matching this exact schema:",
		`{ "candidates": [ { "decision": string, "evidence": string, "source": { "fileName"?: string, "page"?: number }, "tags"?: string[] } ] }`,
		"A decision is a stated committed intent under constraint, not a generic statement.",
		"Start each 'decision' with a verb (e.g., Launch, Hire, Migrate, Discontinue).",
		fmt.Sprintf("'evidence' must be a short verbatim excerpt supporting the decision, at most %d characters.", evidenceMaxLen),
		fmt.Sprintf("Return at most %d candidates. Prefer concrete, time-bound commitments over vague intentions.", maxCandidates),
		"Set 'source.page' to the page the evidence appears on, using the PAGE markers in the text.",
		"If no decisions are present, return {\"candidates\": []}.",
		"Never output null. If a field is not present, omit it.",
	}
	return strings.Join(parts, " ")
}

// BuildExtractionUserPrompt packages one chunk's file name, page list, and
// marker-prefixed text.
func BuildExtractionUserPrompt(chunk entity.Chunk) string {
	var b strings.Builder
	b.WriteString("File: ")
	b.WriteString(chunk.FileName)
	b.WriteString("\nPages: ")
	for i, n := range chunk.PageNumbers() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", n)
	}
	b.WriteString("\n\nText:\n")
	b.WriteString(chunk.Text)
	return b.String()
}

// BuildSummarySystemPrompt composes the system message for the narrative
// summary call.
func BuildSummarySystemPrompt() string {
	parts := []string{
		"You are a decision summarizer. Return ONLY JSON matching this exact schema:",
		`{ "key_decisions": [ { "decision": string, "why_it_matters"?: string, "source"?: { "fileName": string, "page": number } } ], "themes"?: string[], "unknowns"?: string[] }`,
		"Given a ranked list of extracted decisions, pick the few that matter most,",
		"name the recurring themes, and list open unknowns the documents leave unresolved.",
		"Keep 'why_it_matters' to one sentence.",
		"Never output null. If a field is not present, omit it.",
	}
	return strings.Join(parts, " ")
}

// BuildSummaryUserPrompt renders the decision list sent to the summary model.
// Only decision, evidence, and source cross this boundary; internal fields
// like scores and ids are withheld.
func BuildSummaryUserPrompt(decisions []entity.Candidate) string {
	var b strings.Builder
	b.WriteString("Extracted decisions (ranked):\n")
	for i, d := range decisions {
		fmt.Fprintf(&b, "%d. %s\n   Evidence: %s\n   Source: %s p.%d\n",
			i+1, d.Decision, d.Evidence, d.Source.FileName, d.Source.Page)
	}
	return b.String()
}
