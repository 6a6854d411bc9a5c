package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/decisionpipe/decisionpipe/internal/common"
	"github.com/decisionpipe/decisionpipe/internal/entity"
	"github.com/decisionpipe/decisionpipe/internal/llm"
)

// Warning texts are stable: callers and tests match on them, and the timeout
// case is deliberately distinct from a generic failure.
const (
	TimeoutWarning = "Timed out while extracting decisions from one chunk."
	FailureWarning = "Could not extract decisions from one chunk."
	ParseWarning   = "Could not read the model's response for one chunk."
)

// Result is one chunk's extraction outcome. A failed chunk contributes zero
// candidates and one warning; it never takes the pipeline down.
type Result struct {
	Candidates []entity.Candidate
	Warning    string
}

// Worker wraps one model call per chunk: prompt, invoke, defensively parse,
// normalize. ExtractChunk never returns an error.
type Worker struct {
	client llm.ChatClient
	cfg    common.PipelineConfig
	logger *slog.Logger
}

func NewWorker(client llm.ChatClient, cfg common.PipelineConfig, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{client: client, cfg: cfg, logger: logger}
}

func (w *Worker) ExtractChunk(ctx context.Context, chunk entity.Chunk) Result {
	start := time.Now()

	content, err := w.client.Complete(ctx, llm.Request{
		System: llm.BuildExtractionSystemPrompt(w.cfg.MaxCandidatesPerChunk, w.cfg.EvidenceMaxLen),
		User:   llm.BuildExtractionUserPrompt(chunk),
	})
	if err != nil {
		warning := FailureWarning
		if errors.Is(err, context.DeadlineExceeded) {
			warning = TimeoutWarning
		}
		w.logger.Warn("extractor.chunk.call_failed",
			"file", chunk.FileName,
			"first_page", chunk.FirstPage(),
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{Warning: warning}
	}

	obj, err := llm.RecoverJSONObject(content)
	if err != nil {
		w.logger.Warn("extractor.chunk.unparseable",
			"file", chunk.FileName, "first_page", chunk.FirstPage(), "error", err)
		return Result{Warning: ParseWarning}
	}
	if err := llm.ValidateJSONAgainstSchema(llm.BuildCandidatesJSONSchema(), obj); err != nil {
		w.logger.Warn("extractor.chunk.schema_mismatch",
			"file", chunk.FileName, "first_page", chunk.FirstPage(), "error", err)
		return Result{Warning: ParseWarning}
	}

	// Items are decoded one by one so a single malformed entry costs only
	// itself, not the chunk.
	var envelope struct {
		Candidates []json.RawMessage `json:"candidates"`
	}
	if err := json.Unmarshal(obj, &envelope); err != nil {
		w.logger.Warn("extractor.chunk.decode_failed",
			"file", chunk.FileName, "first_page", chunk.FirstPage(), "error", err)
		return Result{Warning: ParseWarning}
	}

	items := envelope.Candidates
	if len(items) > w.cfg.MaxCandidatesPerChunk {
		items = items[:w.cfg.MaxCandidatesPerChunk]
	}

	var candidates []entity.Candidate
	dropped := 0
	for _, item := range items {
		var raw entity.RawCandidate
		if err := json.Unmarshal(item, &raw); err != nil {
			dropped++
			continue
		}
		cand, ok := NormalizeCandidate(raw, chunk, w.cfg)
		if !ok {
			dropped++
			continue
		}
		candidates = append(candidates, cand)
	}

	w.logger.Info("extractor.chunk.ok",
		"file", chunk.FileName,
		"first_page", chunk.FirstPage(),
		"candidates", len(candidates),
		"dropped", dropped,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{Candidates: candidates}
}
