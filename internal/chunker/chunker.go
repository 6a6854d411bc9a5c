package chunker

import (
	"fmt"
	"strings"

	"github.com/decisionpipe/decisionpipe/internal/common"
	"github.com/decisionpipe/decisionpipe/internal/entity"
)

// Build groups pages into bounded extraction chunks. Pages are grouped by
// file in encounter order and never reordered within a file; a chunk never
// mixes files. Returns the chunks plus whether the natural chunk count
// exceeded MaxChunks and was cut.
func Build(pages []entity.PageRecord, cfg common.PipelineConfig) ([]entity.Chunk, bool) {
	groups, order := groupByFile(pages)

	var chunks []entity.Chunk
	for _, fileName := range order {
		chunks = append(chunks, chunkFile(fileName, groups[fileName], cfg)...)
	}

	if len(chunks) > cfg.MaxChunks {
		return chunks[:cfg.MaxChunks], true
	}
	return chunks, false
}

func groupByFile(pages []entity.PageRecord) (map[string][]entity.PageRecord, []string) {
	groups := make(map[string][]entity.PageRecord)
	var order []string
	for _, p := range pages {
		if _, ok := groups[p.FileName]; !ok {
			order = append(order, p.FileName)
		}
		groups[p.FileName] = append(groups[p.FileName], p)
	}
	return groups, order
}

// chunkFile greedily accumulates one file's pages into chunks, starting a
// new chunk when the next page would exceed the page limit, or the char
// limit on a non-empty chunk. A single page larger than the char limit is
// split into same-size slices, each its own chunk — the only case where a
// chunk holds a partial page.
func chunkFile(fileName string, pages []entity.PageRecord, cfg common.PipelineConfig) []entity.Chunk {
	var chunks []entity.Chunk
	var current []entity.PageRecord
	currentChars := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, newChunk(fileName, current))
		current = nil
		currentChars = 0
	}

	for _, p := range pages {
		if len(p.Text) > cfg.ChunkCharLimit {
			flush()
			for _, slice := range sliceEvenly(p.Text, cfg.ChunkCharLimit) {
				part := entity.PageRecord{FileName: fileName, PageNumber: p.PageNumber, Text: slice}
				chunks = append(chunks, newChunk(fileName, []entity.PageRecord{part}))
			}
			continue
		}
		if len(current) >= cfg.ChunkPageLimit {
			flush()
		} else if len(current) > 0 && currentChars+len(p.Text) > cfg.ChunkCharLimit {
			flush()
		}
		current = append(current, p)
		currentChars += len(p.Text)
	}
	flush()
	return chunks
}

// sliceEvenly splits text into the fewest slices that each fit limit, all of
// near-equal size.
func sliceEvenly(text string, limit int) []string {
	count := (len(text) + limit - 1) / limit
	size := (len(text) + count - 1) / count
	slices := make([]string, 0, count)
	for start := 0; start < len(text); start += size {
		end := min(start+size, len(text))
		slices = append(slices, text[start:end])
	}
	return slices
}

func newChunk(fileName string, pages []entity.PageRecord) entity.Chunk {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "FILE: %s | PAGE: %d\n", p.FileName, p.PageNumber)
		b.WriteString(p.Text)
	}
	return entity.Chunk{FileName: fileName, Pages: pages, Text: b.String()}
}
