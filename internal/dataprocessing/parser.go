package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"cargocli/internal/schema"
	"cargocli/pkg/contracts/domain"
)

// headerScanDepth is how many leading rows of a sheet are probed for the
// header row. Operator sheets often carry a title block above the table.
const headerScanDepth = 10

// minHeaderHits is the number of cells in a candidate row that must map to
// canonical columns for the row to be accepted as the header.
const minHeaderHits = 3

// ParseFile reads an inspection workbook and extracts its raw rows. Sheet
// selection walks the workbook in order and takes the first sheet with a
// recognizable header row; the caller receives the rows of that sheet only.
func ParseFile(path string) ([]domain.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	aliases := schema.DefaultAliases()
	columns := domain.CanonicalColumns()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}

		headerIdx := findHeaderRow(rows, aliases, columns)
		if headerIdx < 0 {
			continue
		}

		slog.Info("found inspection data sheet",
			slog.String("path", path),
			slog.String("sheet", name),
			slog.Int("header_row", headerIdx),
			slog.Int("total_rows", len(rows)))

		return extractRows(rows, headerIdx), nil
	}

	return nil, fmt.Errorf("could not find inspection data sheet in %s", path)
}

// ParseSheet converts an already-decoded grid (header row first) into raw
// rows. Used by ingestion collaborators that hand over cell grids directly.
func ParseSheet(grid [][]string) []domain.RawRow {
	if len(grid) == 0 {
		return nil
	}
	return extractRows(grid, 0)
}

// findHeaderRow scans the first rows for the one whose cells best resolve
// to canonical columns.
func findHeaderRow(rows [][]string, aliases schema.AliasTable, columns []string) int {
	depth := headerScanDepth
	if len(rows) < depth {
		depth = len(rows)
	}
	for i := 0; i < depth; i++ {
		hits := 0
		for _, cell := range rows[i] {
			if _, ok := aliases.CanonicalCandidate(cell, columns); ok {
				hits++
			}
		}
		if hits >= minHeaderHits {
			return i
		}
	}
	return -1
}

// extractRows builds RawRows from the data rows following the header.
// Blank rows are skipped; short rows are padded implicitly (missing cells
// read as empty). Duplicate headers keep their first occurrence only.
func extractRows(rows [][]string, headerIdx int) []domain.RawRow {
	header := rows[headerIdx]
	headers := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		headers = append(headers, h)
	}

	// column position per kept header, from the original row
	positions := make(map[string]int, len(headers))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := positions[h]; !ok && h != "" {
			positions[h] = i
		}
	}

	var out []domain.RawRow
	for i := headerIdx + 1; i < len(rows); i++ {
		cells := rows[i]
		hasData := false
		for _, c := range cells {
			if strings.TrimSpace(c) != "" {
				hasData = true
				break
			}
		}
		if !hasData {
			continue
		}

		raw := domain.RawRow{
			Headers: append([]string(nil), headers...),
			Cells:   make(map[string]string, len(headers)),
		}
		for _, h := range headers {
			pos := positions[h]
			if pos < len(cells) {
				raw.Cells[h] = strings.TrimSpace(cells[pos])
			} else {
				raw.Cells[h] = ""
			}
		}
		out = append(out, raw)
	}
	return out
}
