package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decisionpipe/decisionpipe/internal/common"
	"github.com/decisionpipe/decisionpipe/internal/entity"
)

func page(file string, num int, text string) entity.PageRecord {
	return entity.PageRecord{FileName: file, PageNumber: num, Text: text}
}

func testCfg() common.PipelineConfig {
	cfg := common.DefaultPipelineConfig()
	cfg.ChunkCharLimit = 100
	cfg.ChunkPageLimit = 2
	cfg.MaxChunks = 4
	return cfg
}

func TestBuild(t *testing.T) {
	t.Run("Should put one small page in one chunk", func(t *testing.T) {
		chunks, truncated := Build([]entity.PageRecord{page("memo.pdf", 1, "short text")}, testCfg())
		require.Len(t, chunks, 1)
		assert.False(t, truncated)
		assert.Equal(t, "memo.pdf", chunks[0].FileName)
		assert.Contains(t, chunks[0].Text, "FILE: memo.pdf | PAGE: 1")
		assert.Contains(t, chunks[0].Text, "short text")
	})

	t.Run("Should respect the page limit per chunk", func(t *testing.T) {
		pages := []entity.PageRecord{
			page("a.pdf", 1, "one"),
			page("a.pdf", 2, "two"),
			page("a.pdf", 3, "three"),
		}
		chunks, truncated := Build(pages, testCfg())
		require.Len(t, chunks, 2)
		assert.False(t, truncated)
		assert.Len(t, chunks[0].Pages, 2)
		assert.Len(t, chunks[1].Pages, 1)
	})

	t.Run("Should start a new chunk when chars would overflow", func(t *testing.T) {
		cfg := testCfg()
		cfg.ChunkPageLimit = 10
		pages := []entity.PageRecord{
			page("a.pdf", 1, strings.Repeat("x", 70)),
			page("a.pdf", 2, strings.Repeat("y", 70)),
		}
		chunks, _ := Build(pages, cfg)
		require.Len(t, chunks, 2)
		assert.Equal(t, []int{1}, chunks[0].PageNumbers())
		assert.Equal(t, []int{2}, chunks[1].PageNumbers())
	})

	t.Run("Should never mix files in one chunk", func(t *testing.T) {
		pages := []entity.PageRecord{
			page("a.pdf", 1, "a1"),
			page("b.pdf", 1, "b1"),
			page("a.pdf", 2, "a2"),
		}
		chunks, _ := Build(pages, testCfg())
		for _, c := range chunks {
			for _, p := range c.Pages {
				assert.Equal(t, c.FileName, p.FileName)
			}
		}
		// encounter order of files is preserved
		require.Len(t, chunks, 2)
		assert.Equal(t, "a.pdf", chunks[0].FileName)
		assert.Equal(t, "b.pdf", chunks[1].FileName)
	})

	t.Run("Should split an oversized page into even slices", func(t *testing.T) {
		cfg := testCfg()
		text := strings.Repeat("z", 250) // limit 100 -> 3 slices
		chunks, truncated := Build([]entity.PageRecord{page("big.pdf", 4, text)}, cfg)
		require.Len(t, chunks, 3)
		assert.False(t, truncated)
		joined := ""
		for _, c := range chunks {
			require.Len(t, c.Pages, 1)
			assert.Equal(t, 4, c.Pages[0].PageNumber)
			assert.LessOrEqual(t, len(c.Pages[0].Text), cfg.ChunkCharLimit)
			joined += c.Pages[0].Text
		}
		assert.Equal(t, text, joined)
	})

	t.Run("Should cap total chunk count and flag truncation", func(t *testing.T) {
		cfg := testCfg()
		var pages []entity.PageRecord
		for i := 1; i <= 20; i++ {
			pages = append(pages, page(fmt.Sprintf("f%d.pdf", i), 1, "text"))
		}
		chunks, truncated := Build(pages, cfg)
		assert.Len(t, chunks, cfg.MaxChunks)
		assert.True(t, truncated)
		// first MaxChunks in file order survive
		assert.Equal(t, "f1.pdf", chunks[0].FileName)
		assert.Equal(t, fmt.Sprintf("f%d.pdf", cfg.MaxChunks), chunks[cfg.MaxChunks-1].FileName)
	})

	t.Run("Should return no chunks for no pages", func(t *testing.T) {
		chunks, truncated := Build(nil, testCfg())
		assert.Empty(t, chunks)
		assert.False(t, truncated)
	})
}
