package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"cargocli/internal/config"
	"cargocli/internal/dataprocessing"
	"cargocli/pkg/contracts/domain"
)

// Sheet names in the summary workbook
const (
	SheetNormalized  = "Normalized"
	SheetByContainer = "By Container"
	SheetByFactory   = "By Factory"
	SheetSummary     = "Summary"
)

// ExcelExporter writes the multi-sheet summary workbook
type ExcelExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewExcelExporter creates a new Excel workbook exporter
func NewExcelExporter(paths *config.Paths, logger *slog.Logger) *ExcelExporter {
	return &ExcelExporter{
		paths:  paths,
		logger: logger.With(slog.String("component", "excel_exporter")),
	}
}

// SummaryInput carries everything the summary workbook renders.
type SummaryInput struct {
	Rows        []domain.NormalizedRow
	ByContainer []domain.RollupRecord
	ByFactory   []domain.RollupRecord
	// FactorySummary is the priority-ordered factory table, optional.
	FactorySummary []domain.RollupRecord
}

// ExportSummaryWorkbook writes the summary workbook to outputPath. The
// workbook has one sheet of normalized rows and one per rollup dimension.
func (e *ExcelExporter) ExportSummaryWorkbook(input SummaryInput, outputPath string) error {
	if !filepath.IsAbs(outputPath) {
		outputPath = e.paths.GetReportPath(outputPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeNormalizedSheet(f, input.Rows); err != nil {
		return err
	}
	if err := e.writeRollupSheet(f, SheetByContainer, "Container", input.ByContainer); err != nil {
		return err
	}
	if err := e.writeRollupSheet(f, SheetByFactory, "Factory", input.ByFactory); err != nil {
		return err
	}
	if err := e.writeSummarySheet(f, input); err != nil {
		return err
	}

	// The default sheet excelize creates is replaced by Normalized
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Summary workbook written",
		slog.String("path", outputPath),
		slog.Int("rows", len(input.Rows)))

	return nil
}

func (e *ExcelExporter) writeNormalizedSheet(f *excelize.File, rows []domain.NormalizedRow) error {
	if _, err := f.NewSheet(SheetNormalized); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetNormalized, err)
	}

	headers, extraHeaders := combinedHeaders(rows)
	if err := writeRow(f, SheetNormalized, 1, headers); err != nil {
		return err
	}

	for i := range rows {
		row := &rows[i]
		record := make([]string, 0, len(headers))
		for _, col := range domain.CanonicalColumns() {
			record = append(record, row.Get(col))
		}
		record = append(record, string(dataprocessing.Classify(row.Remarks)))
		for _, h := range extraHeaders {
			record = append(record, row.Get(h))
		}
		if err := writeRow(f, SheetNormalized, i+2, record); err != nil {
			return err
		}
	}

	return nil
}

func (e *ExcelExporter) writeRollupSheet(f *excelize.File, sheet, groupName string, records []domain.RollupRecord) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := writeRow(f, sheet, 1, rollupHeaders(groupName)); err != nil {
		return err
	}

	rowNum := 2
	var allRecord *domain.RollupRecord
	for i := range records {
		if records[i].GroupKey == domain.RollupGroupAll {
			allRecord = &records[i]
			continue
		}
		if err := writeRollupRow(f, sheet, rowNum, records[i]); err != nil {
			return err
		}
		rowNum++
	}
	if allRecord != nil {
		if err := writeRollupRow(f, sheet, rowNum, *allRecord); err != nil {
			return err
		}
	}

	return nil
}

func (e *ExcelExporter) writeSummarySheet(f *excelize.File, input SummaryInput) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetSummary, err)
	}

	records := input.FactorySummary
	if len(records) == 0 {
		records = input.ByFactory
	}

	if err := writeRow(f, SheetSummary, 1, rollupHeaders("Factory")); err != nil {
		return err
	}

	// The summary sheet keeps the given order: factory priority first when
	// a FactorySummary is supplied.
	rowNum := 2
	for _, rec := range records {
		if err := writeRollupRow(f, SheetSummary, rowNum, rec); err != nil {
			return err
		}
		rowNum++
	}

	return nil
}

func writeRollupRow(f *excelize.File, sheet string, rowNum int, rec domain.RollupRecord) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &[]interface{}{
		rec.GroupKey, rec.Total, rec.FinishedCount, rec.RemainingCount, rec.CompletionPercent,
	})
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheet, cell, &row)
}
