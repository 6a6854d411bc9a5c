package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/decisionpipe/decisionpipe/constants"
	"github.com/decisionpipe/decisionpipe/internal/chunker"
	"github.com/decisionpipe/decisionpipe/internal/common"
	"github.com/decisionpipe/decisionpipe/internal/entity"
	"github.com/decisionpipe/decisionpipe/internal/extractor"
	"github.com/decisionpipe/decisionpipe/internal/ingest"
	"github.com/decisionpipe/decisionpipe/internal/llm"
	"github.com/decisionpipe/decisionpipe/internal/merge"
	"github.com/decisionpipe/decisionpipe/internal/summary"
)

// Mode selects which stages the caller wants.
type Mode string

const (
	ModeExtract          Mode = "extract"
	ModeSummarize        Mode = "summarize"
	ModeExtractSummarize Mode = "extract+summarize"
)

func (m Mode) IncludesSummary() bool {
	return m == ModeSummarize || m == ModeExtractSummarize
}

// Request is the pipeline entrypoint payload.
type Request struct {
	MemoText  string
	Documents []entity.Document
	Mode      Mode
}

// ErrorInfo is the structured failure payload. ErrorID correlates the
// response with operator-side logs; raw internals never cross this boundary.
type ErrorInfo struct {
	Message string `json:"message"`
	ErrorID string `json:"errorId"`
}

// Response is the pipeline result. Meta is populated on every outcome,
// success or failure, so callers can render partial-success state.
type Response struct {
	Summary   *entity.SummaryPayload `json:"summary"`
	Decisions []entity.Candidate     `json:"decisions"`
	Meta      entity.PipelineMeta    `json:"meta"`
	Error     *ErrorInfo             `json:"error,omitempty"`
}

// Pipeline sequences normalize → chunk → extract → merge → summarize.
// Stages run strictly forward; the only fan-out is the extraction pool.
type Pipeline struct {
	cfg        common.PipelineConfig
	normalizer *ingest.Normalizer
	pool       *extractor.Pool
	summarizer *summary.Summarizer
	logger     *slog.Logger
}

func New(cfg common.PipelineConfig, client llm.ChatClient, pdf ingest.PageExtractor, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	worker := extractor.NewWorker(client, cfg, logger)
	return &Pipeline{
		cfg:        cfg,
		normalizer: ingest.NewNormalizer(cfg, pdf, logger),
		pool:       extractor.NewPool(worker, cfg.ChunkConcurrency, logger),
		summarizer: summary.NewSummarizer(client, logger),
		logger:     logger,
	}
}

// Run executes one request end to end. Per-unit failures (one document, one
// chunk, the summary call) degrade into meta warnings; only no-input and
// unexpected panics produce a terminal error, and then still with meta
// attached. The returned error is ErrNoInput-classed or ErrInternal-classed
// for the transport layer to map.
func (p *Pipeline) Run(ctx context.Context, req Request) (resp Response, err error) {
	start := time.Now()
	meta := entity.PipelineMeta{Stage: constants.StageStart, Warnings: []string{}}

	defer func() {
		if r := recover(); r != nil {
			errorID := uuid.New().String()
			meta.Stage = constants.StageError
			meta.TimingMS = time.Since(start).Milliseconds()
			p.logger.Error("pipeline.panic", "error_id", errorID, "stage", meta.Stage, "panic", r)
			resp = Response{
				Meta:  meta,
				Error: &ErrorInfo{Message: "An internal error occurred while processing the request.", ErrorID: errorID},
			}
			err = common.NewAppError("PIPELINE_PANIC", "unexpected failure", common.ErrInternal)
		}
	}()

	mode := req.Mode
	if mode == "" {
		mode = ModeExtract
	}

	p.logger.Info("pipeline.start",
		"mode", string(mode),
		"memo_chars", len(req.MemoText),
		"documents", len(req.Documents),
	)

	// Stage: extract_text
	meta.Stage = constants.StageExtractText
	norm := p.normalizer.Normalize(req.MemoText, req.Documents)
	meta.PagesProcessed = len(norm.Pages)
	meta.Truncated = norm.Truncated
	meta.Warnings = append(meta.Warnings, norm.Warnings...)

	if len(norm.Pages) == 0 {
		errorID := uuid.New().String()
		meta.Stage = constants.StageError
		meta.TimingMS = time.Since(start).Milliseconds()
		p.logger.Info("pipeline.no_input", "error_id", errorID)
		return Response{
			Meta:  meta,
			Error: &ErrorInfo{Message: "No readable text was found in the provided input.", ErrorID: errorID},
		}, common.NewAppError("NO_INPUT", "no readable input", common.ErrNoInput)
	}

	// Stage: chunk
	meta.Stage = constants.StageChunk
	chunks, cut := chunker.Build(norm.Pages, p.cfg)
	meta.ChunksProcessed = len(chunks)
	if cut {
		meta.Truncated = true
		meta.Warn("The input produced more chunks than the processing limit; later pages were not analyzed.")
	}

	// Stage: extract_candidates
	meta.Stage = constants.StageExtractCandidates
	results := p.pool.Run(ctx, chunks)
	var candidates []entity.Candidate
	for _, r := range results {
		candidates = append(candidates, r.Candidates...)
		if r.Warning != "" {
			meta.Warn(r.Warning)
		}
	}
	meta.CandidatesExtracted = len(candidates)

	// Stage: merge
	meta.Stage = constants.StageMerge
	decisions := merge.Dedupe(candidates, p.cfg)
	if decisions == nil {
		decisions = []entity.Candidate{}
	}
	meta.DecisionsFinal = len(decisions)
	if advisory := merge.AdvisoryWarning(len(decisions), p.cfg); advisory != "" {
		meta.Warn(advisory)
	}

	// Stage: summarize (optional)
	var summaryPayload *entity.SummaryPayload
	if mode.IncludesSummary() && len(decisions) > 0 {
		meta.Stage = constants.StageSummarize
		payload, warning := p.summarizer.Summarize(ctx, decisions)
		summaryPayload = payload
		if warning != "" {
			meta.Warn(warning)
		}
	}

	meta.Stage = constants.StageDone
	meta.TimingMS = time.Since(start).Milliseconds()

	p.logger.Info("pipeline.done",
		"pages", meta.PagesProcessed,
		"chunks", meta.ChunksProcessed,
		"candidates", meta.CandidatesExtracted,
		"decisions", meta.DecisionsFinal,
		"truncated", meta.Truncated,
		"warnings", len(meta.Warnings),
		"elapsed_ms", meta.TimingMS,
	)

	return Response{
		Summary:   summaryPayload,
		Decisions: decisions,
		Meta:      meta,
	}, nil
}
