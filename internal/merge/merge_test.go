package merge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decisionpipe/decisionpipe/internal/common"
	"github.com/decisionpipe/decisionpipe/internal/entity"
)

func cand(decision string, score int, file string, page int) entity.Candidate {
	return entity.Candidate{
		ID:           entity.CandidateID(decision, file, page),
		Decision:     decision,
		Evidence:     "some evidence",
		Source:       entity.SourceRef{FileName: file, Page: page},
		QualityScore: score,
	}
}

func TestKey(t *testing.T) {
	t.Run("Should collapse wording differences into one key", func(t *testing.T) {
		a := Key("Launch the beta in Q3 2025.")
		b := Key("launch   the beta, in Q3-2025!")
		assert.Equal(t, a, b)
	})

	t.Run("Should strip punctuation and lowercase", func(t *testing.T) {
		assert.Equal(t, "hire two engineers", Key("  Hire; two ENGINEERS!! "))
	})

	t.Run("Should keep distinct decisions distinct", func(t *testing.T) {
		assert.NotEqual(t, Key("Launch the beta"), Key("Cancel the beta"))
	})
}

func TestDedupe(t *testing.T) {
	cfg := common.DefaultPipelineConfig()

	t.Run("Should keep the higher-scored variant of a duplicate", func(t *testing.T) {
		out := Dedupe([]entity.Candidate{
			cand("Launch the beta", 60, "a.pdf", 1),
			cand("Launch the beta!", 80, "a.pdf", 3),
		}, cfg)
		require.Len(t, out, 1)
		assert.Equal(t, 80, out[0].QualityScore)
		assert.Equal(t, 3, out[0].Source.Page)
	})

	t.Run("Should keep the first-seen variant on an exact tie", func(t *testing.T) {
		out := Dedupe([]entity.Candidate{
			cand("Launch the beta", 70, "a.pdf", 1),
			cand("Launch the beta", 70, "b.pdf", 2),
		}, cfg)
		require.Len(t, out, 1)
		assert.Equal(t, "a.pdf", out[0].Source.FileName)
	})

	t.Run("Should union provenance from merged duplicates", func(t *testing.T) {
		out := Dedupe([]entity.Candidate{
			cand("Launch the beta", 60, "a.pdf", 1),
			cand("Launch the beta", 80, "b.pdf", 2),
			cand("Launch the beta", 50, "b.pdf", 2), // identical ref, no double count
		}, cfg)
		require.Len(t, out, 1)
		assert.ElementsMatch(t, []entity.SourceRef{
			{FileName: "a.pdf", Page: 1},
			{FileName: "b.pdf", Page: 2},
		}, out[0].Sources)
	})

	t.Run("Should rank by score descending with stable ties", func(t *testing.T) {
		out := Dedupe([]entity.Candidate{
			cand("First at seventy", 70, "a.pdf", 1),
			cand("The ninety one", 90, "a.pdf", 1),
			cand("Second at seventy", 70, "a.pdf", 2),
		}, cfg)
		require.Len(t, out, 3)
		assert.Equal(t, "The ninety one", out[0].Decision)
		assert.Equal(t, "First at seventy", out[1].Decision)
		assert.Equal(t, "Second at seventy", out[2].Decision)
	})

	t.Run("Should cap the final list", func(t *testing.T) {
		var in []entity.Candidate
		for i := 0; i < cfg.MaxDecisions+25; i++ {
			in = append(in, cand(fmt.Sprintf("Decision number %d", i), 55+i%40, "a.pdf", 1+i%9))
		}
		out := Dedupe(in, cfg)
		assert.Len(t, out, cfg.MaxDecisions)
	})
}

func TestAdvisoryWarning(t *testing.T) {
	cfg := common.DefaultPipelineConfig()

	t.Run("Should advise on sparse results", func(t *testing.T) {
		assert.NotEmpty(t, AdvisoryWarning(3, cfg))
	})

	t.Run("Should stay quiet on zero or rich results", func(t *testing.T) {
		assert.Empty(t, AdvisoryWarning(0, cfg))
		assert.Empty(t, AdvisoryWarning(cfg.AdvisoryMinDecisions, cfg))
	})
}
