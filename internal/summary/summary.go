package summary

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/decisionpipe/decisionpipe/internal/entity"
	"github.com/decisionpipe/decisionpipe/internal/llm"
)

const (
	TimeoutWarning = "Timed out while generating the summary."
	FailureWarning = "Summary unavailable for this run."
)

// maxDecisionsSent bounds the summary prompt; beyond this the tail adds
// tokens, not signal.
const maxDecisionsSent = 40

// Summarizer issues the single narrative-summary call over the final ranked
// decisions, with the same timeout/parse/fallback discipline as extraction.
type Summarizer struct {
	client llm.ChatClient
	logger *slog.Logger
}

func NewSummarizer(client llm.ChatClient, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{client: client, logger: logger}
}

// Summarize returns a fully-valid payload or nil plus a warning; never an
// error, and never a partially-populated payload.
func (s *Summarizer) Summarize(ctx context.Context, decisions []entity.Candidate) (*entity.SummaryPayload, string) {
	if len(decisions) == 0 {
		return nil, ""
	}
	start := time.Now()

	sent := decisions
	if len(sent) > maxDecisionsSent {
		sent = sent[:maxDecisionsSent]
	}

	content, err := s.client.Complete(ctx, llm.Request{
		System: llm.BuildSummarySystemPrompt(),
		User:   llm.BuildSummaryUserPrompt(sent),
	})
	if err != nil {
		warning := FailureWarning
		if errors.Is(err, context.DeadlineExceeded) {
			warning = TimeoutWarning
		}
		s.logger.Warn("summary.call_failed", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, warning
	}

	obj, err := llm.RecoverJSONObject(content)
	if err != nil {
		s.logger.Warn("summary.unparseable", "error", err)
		return nil, FailureWarning
	}
	if err := llm.ValidateJSONAgainstSchema(llm.BuildSummaryJSONSchema(), obj); err != nil {
		s.logger.Warn("summary.schema_mismatch", "error", err)
		return nil, FailureWarning
	}

	var payload entity.SummaryPayload
	if err := json.Unmarshal(obj, &payload); err != nil {
		s.logger.Warn("summary.decode_failed", "error", err)
		return nil, FailureWarning
	}

	s.logger.Info("summary.ok",
		"key_decisions", len(payload.KeyDecisions),
		"themes", len(payload.Themes),
		"unknowns", len(payload.Unknowns),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &payload, ""
}
