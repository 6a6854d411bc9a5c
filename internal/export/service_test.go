package export

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/decisionpipe/decisionpipe/internal/entity"
)

func TestDecisionsXLSX(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger)

	t.Run("Should write one row per decision in rank order", func(t *testing.T) {
		decisions := []entity.Candidate{
			{
				Decision: "Launch the beta by Q3 2025",
				Evidence: "launch the beta by Q3 2025",
				Source:   entity.SourceRef{FileName: "memo.pdf", Page: 2},
				Tags:     []string{"product", "timeline"},
			},
			{
				Decision: "Hire a platform lead",
				Evidence: "hire a platform lead",
				Source:   entity.SourceRef{FileName: "memo.pdf", Page: 3},
			},
		}

		data, err := svc.DecisionsXLSX(decisions)
		require.NoError(t, err)
		require.NotEmpty(t, data)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Decisions")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Rank", "Decision", "Evidence", "Source File", "Page", "Tags"}, rows[0])
		assert.Equal(t, "1", rows[1][0])
		assert.Equal(t, "Launch the beta by Q3 2025", rows[1][1])
		assert.Equal(t, "product, timeline", rows[1][5])
		assert.Equal(t, "Hire a platform lead", rows[2][1])
	})

	t.Run("Should produce a valid workbook for zero decisions", func(t *testing.T) {
		data, err := svc.DecisionsXLSX(nil)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Decisions")
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})
}
