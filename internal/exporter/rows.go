package exporter

import (
	"fmt"
	"path/filepath"

	"cargocli/internal/config"
	"cargocli/internal/dataprocessing"
	"cargocli/pkg/contracts/domain"
)

// RowExporter writes normalized inspection rows to CSV
type RowExporter struct {
	csvWriter *CSVWriter
}

// NewRowExporter creates a new normalized-row exporter
func NewRowExporter(paths *config.Paths) *RowExporter {
	return &RowExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// combinedHeaders returns the canonical columns plus the derived Status
// column and the union of extra headers, in first-seen order.
func combinedHeaders(rows []domain.NormalizedRow) ([]string, []string) {
	var extraHeaders []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, ex := range row.Extras {
			if !seen[ex.Header] {
				seen[ex.Header] = true
				extraHeaders = append(extraHeaders, ex.Header)
			}
		}
	}

	headers := append([]string{}, domain.CanonicalColumns()...)
	headers = append(headers, "Status")
	headers = append(headers, extraHeaders...)
	return headers, extraHeaders
}

// ExportCombinedCSV writes all rows to a single CSV file. Each record carries
// the canonical columns, the classified status, and any extra fields.
func (e *RowExporter) ExportCombinedCSV(rows []domain.NormalizedRow, outputPath string) error {
	headers, extraHeaders := combinedHeaders(rows)

	records := make([][]string, 0, len(rows))
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
		records = append(records, record)
	}

	if err := e.csvWriter.WriteSimpleCSV(outputPath, headers, records); err != nil {
		return fmt.Errorf("failed to write combined CSV: %w", err)
	}
	return nil
}

// ExportDatasetCSVs writes one CSV per dataset into outputDir, named after
// the dataset.
func (e *RowExporter) ExportDatasetCSVs(datasets map[string][]domain.NormalizedRow, outputDir string) error {
	for name, rows := range datasets {
		path := filepath.Join(outputDir, datasetCSVName(name))
		if err := e.ExportCombinedCSV(rows, path); err != nil {
			return fmt.Errorf("failed to export dataset %s: %w", name, err)
		}
	}
	return nil
}

func datasetCSVName(name string) string {
	return fmt.Sprintf("%s.csv", sanitizeFilename(name))
}
