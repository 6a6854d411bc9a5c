package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/decisionpipe/decisionpipe/internal/entity"
)

// Service produces XLSX bytes from a ranked decision list.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// DecisionsXLSX returns an XLSX workbook (as bytes) with one row per
// decision, in rank order.
func (s *Service) DecisionsXLSX(decisions []entity.Candidate) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Decisions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet so the workbook opens on Decisions.
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Rank",
		"Decision",
		"Evidence",
		"Source File",
		"Page",
		"Tags",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for i, d := range decisions {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, i+1)
		write(2, d.Decision)
		write(3, d.Evidence)
		write(4, d.Source.FileName)
		write(5, d.Source.Page)
		write(6, strings.Join(d.Tags, ", "))
		row++
	}

	// Widen the text-heavy columns
	_ = f.SetColWidth(sheet, "A", "A", 6)
	_ = f.SetColWidth(sheet, "B", "B", 48)
	_ = f.SetColWidth(sheet, "C", "C", 64)
	_ = f.SetColWidth(sheet, "D", "D", 28)
	_ = f.SetColWidth(sheet, "E", "E", 8)
	_ = f.SetColWidth(sheet, "F", "F", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(decisions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
