package exporter

import (
	"fmt"
	"strings"

	"cargocli/internal/config"
	"cargocli/pkg/contracts/domain"
)

// RollupExporter writes rollup analytics to CSV
type RollupExporter struct {
	csvWriter *CSVWriter
}

// NewRollupExporter creates a new rollup exporter
func NewRollupExporter(paths *config.Paths) *RollupExporter {
	return &RollupExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// rollupHeaders returns the CSV headers for a rollup, with the group column
// named after the grouping dimension ("Container", "Factory", ...).
func rollupHeaders(groupName string) []string {
	return []string{groupName, "Total", "Finished", "Remaining", "CompletionPercent"}
}

// rollupToCSVRow converts a rollup record to a CSV row
func rollupToCSVRow(rec domain.RollupRecord) []string {
	return []string{
		rec.GroupKey,
		formatInt(int64(rec.Total)),
		formatInt(int64(rec.FinishedCount)),
		formatInt(int64(rec.RemainingCount)),
		formatInt(int64(rec.CompletionPercent)),
	}
}

// ExportRollupCSV writes rollup records to a CSV file. The ALL record is
// written last, after the group records.
func (e *RollupExporter) ExportRollupCSV(records []domain.RollupRecord, groupName, outputPath string) error {
	var csvRecords [][]string
	var allRecord *domain.RollupRecord

	for i := range records {
		if records[i].GroupKey == domain.RollupGroupAll {
			allRecord = &records[i]
			continue
		}
		csvRecords = append(csvRecords, rollupToCSVRow(records[i]))
	}
	if allRecord != nil {
		csvRecords = append(csvRecords, rollupToCSVRow(*allRecord))
	}

	if err := e.csvWriter.WriteSimpleCSV(outputPath, rollupHeaders(groupName), csvRecords); err != nil {
		return fmt.Errorf("failed to write %s rollup: %w", strings.ToLower(groupName), err)
	}
	return nil
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// sanitizeFilename strips path separators and extensions from a dataset name
// so it can be used as a report file name.
func sanitizeFilename(name string) string {
	name = strings.TrimSuffix(name, ".xlsx")
	name = strings.TrimSuffix(name, ".xls")
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")
	return replacer.Replace(name)
}
