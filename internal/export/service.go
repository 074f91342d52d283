package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/receipts-renamer/internal/pipeline"
)

const (
	sheetOutcomes = "Outcomes"
	sheetSummary  = "Summary"
)

// Service writes run reports as XLSX workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// RunReportXLSX renders one row per outcome plus a summary sheet.
func (s *Service) RunReportXLSX(sum pipeline.Summary) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if _, err := f.NewSheet(sheetOutcomes); err != nil {
		return nil, err
	}
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(sheetOutcomes)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Document ID", "Original Name", "New Name", "Status", "Error"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetOutcomes, cell, h)
	}

	row := 2
	for _, o := range sum.Outcomes {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetOutcomes, cell, v)
		}
		write(1, o.DocumentID)
		write(2, o.Name)
		write(3, o.NewName)
		write(4, string(o.Status))
		write(5, truncate(o.ErrorText(), 200))
		row++
	}

	_ = f.SetColWidth(sheetOutcomes, "A", "A", 36)
	_ = f.SetColWidth(sheetOutcomes, "B", "C", 44)
	_ = f.SetColWidth(sheetOutcomes, "D", "D", 18)
	_ = f.SetColWidth(sheetOutcomes, "E", "E", 60)

	summaryRows := [][]any{
		{"Run ID", sum.RunID},
		{"Started", sum.StartedAt.Format(time.RFC3339)},
		{"Finished", sum.FinishedAt.Format(time.RFC3339)},
		{"Scanned", sum.Scanned},
		{"Renamed", sum.Renamed},
		{"Skipped", sum.Skipped},
		{"Failed", sum.Failed},
		{"Root failures", sum.RootFailures},
		{"Walk errors", sum.WalkErrors},
	}
	for i, r := range summaryRows {
		_ = f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", i+1), &r)
	}
	_ = f.SetColWidth(sheetSummary, "A", "A", 16)
	_ = f.SetColWidth(sheetSummary, "B", "B", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"run_id", sum.RunID,
		"rows", len(sum.Outcomes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteRunReport renders the report and writes it to path, creating parent directories.
func (s *Service) WriteRunReport(path string, sum pipeline.Summary) error {
	b, err := s.RunReportXLSX(sum)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
