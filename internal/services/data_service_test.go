package services

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cargocli/internal/config"
	"cargocli/internal/dataset"
	"cargocli/pkg/contracts/domain"
)

// captureNotifier records broadcast calls for assertions.
type captureNotifier struct {
	loaded  []string
	removed []string
	edited  []int
}

func (c *captureNotifier) BroadcastDatasetLoaded(id, name string, rowCount int) {
	c.loaded = append(c.loaded, name)
}

func (c *captureNotifier) BroadcastDatasetRemoved(id string) {
	c.removed = append(c.removed, id)
}

func (c *captureNotifier) BroadcastRowEdited(datasetID string, rowIndex int) {
	c.edited = append(c.edited, rowIndex)
}

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	root := t.TempDir()
	reports := filepath.Join(root, "data", "reports")
	return &config.Paths{
		ExecutableDir:      root,
		DataDir:            filepath.Join(root, "data"),
		InputDir:           filepath.Join(root, "data", "input"),
		ReportsDir:         reports,
		LogsDir:            filepath.Join(root, "logs"),
		WebDir:             filepath.Join(root, "web"),
		StaticDir:          filepath.Join(root, "web", "static"),
		CombinedCSV:        filepath.Join(reports, config.CombinedCSVName),
		ContainerRollupCSV: filepath.Join(reports, config.ContainerRollupCSVName),
		FactoryRollupCSV:   filepath.Join(reports, config.FactoryRollupCSVName),
		SummaryWorkbook:    filepath.Join(reports, config.SummaryWorkbookName),
	}
}

func testService(t *testing.T) (*DataService, *captureNotifier) {
	t.Helper()
	cfg := config.Default()
	cfg.Analytics.FactoryPriority = []string{"FactoryB", "FactoryA"}

	svc, err := NewDataService(cfg, testPaths(t), slog.Default())
	require.NoError(t, err)

	notifier := &captureNotifier{}
	svc.SetNotifier(notifier)
	return svc, notifier
}

var testHeader = []string{
	"NO", "Container No", "Box No", "Container", "Box Description",
	"Qty", "Kits", "Supplier", "REMARKS", "Inspector",
}

var testRows = [][]string{
	{"1", "C-100", "B-01", "CTR-A", "Box one", "10", "2", "FactoryA", "done", "alice"},
	{"2", "C-100", "B-02", "CTR-A", "Box two", "5", "1", "FactoryB", "in progress", "bob"},
	{"3", "C-200", "B-03", "CTR-B", "Box three", "8", "2", "FactoryA", "", "alice"},
}

func writeWorkbook(t *testing.T, path string, header []string, rows [][]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	f := excelize.NewFile()
	defer f.Close()

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &cells))

	for r, row := range rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &cells))
	}

	require.NoError(t, f.SaveAs(path))
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := strings.TrimPrefix(string(data), "\xef\xbb\xbf")
	records, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestNormalizeGrid(t *testing.T) {
	n, err := NewNormalizer()
	require.NoError(t, err)

	grid := append([][]string{testHeader}, testRows...)
	rows := n.NormalizeGrid(grid)
	require.Len(t, rows, 3)

	assert.Equal(t, "1", rows[0].NO)
	assert.Equal(t, "C-100", rows[0].ContainerNum)
	assert.Equal(t, "B-01", rows[0].BoxNum)
	assert.Equal(t, "CTR-A", rows[0].Container)
	assert.Equal(t, "Box one", rows[0].BoxName)
	assert.Equal(t, "10", rows[0].ItemCount)
	assert.Equal(t, "2", rows[0].Kits)
	assert.Equal(t, "FactoryA", rows[0].Factory)
	assert.Equal(t, "done", rows[0].Remarks)

	// Unrecognized columns survive as extras
	assert.Equal(t, "alice", rows[0].Get("Inspector"))
}

func TestLoadFile(t *testing.T) {
	svc, notifier := testService(t)

	path := filepath.Join(t.TempDir(), "shipment.xlsx")
	writeWorkbook(t, path, testHeader, testRows)

	d, err := svc.LoadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "shipment.xlsx", d.Name)
	assert.NotEmpty(t, d.ID)
	assert.Len(t, d.Rows, 3)
	assert.Equal(t, []string{"shipment.xlsx"}, notifier.loaded)
}

func TestLoadFileUnreadable(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	svc, notifier := testService(t)

	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "b.xlsx"), testHeader, testRows[:2])
	writeWorkbook(t, filepath.Join(dir, "a.xlsx"), testHeader, testRows[2:])
	// A corrupt workbook is skipped, not fatal
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xlsx"), []byte("not a workbook"), 0644))
	// Non-workbook files are ignored entirely
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644))

	loaded, err := svc.LoadDirectory(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Registration order follows file name order
	assert.Equal(t, "a.xlsx", loaded[0].Name)
	assert.Equal(t, "b.xlsx", loaded[1].Name)
	assert.Len(t, loaded[0].Rows, 1)
	assert.Len(t, loaded[1].Rows, 2)
	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, notifier.loaded)
}

func TestLoadDirectoryEmpty(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.LoadDirectory(context.Background(), t.TempDir())
	require.Error(t, err)
}

func TestRowsFilterAndStatus(t *testing.T) {
	svc, _ := testService(t)
	path := filepath.Join(t.TempDir(), "shipment.xlsx")
	writeWorkbook(t, path, testHeader, testRows)
	d, err := svc.LoadFile(context.Background(), path)
	require.NoError(t, err)

	all, err := svc.Rows(d.ID, dataset.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.StatusCompleted, all[0].Status)
	assert.Equal(t, domain.StatusInProgress, all[1].Status)
	assert.Equal(t, domain.StatusNotStarted, all[2].Status)

	completed, err := svc.Rows(d.ID, dataset.Filter{Status: domain.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "B-01", completed[0].BoxNum)

	factoryA, err := svc.Rows(d.ID, dataset.Filter{Factory: "FactoryA"})
	require.NoError(t, err)
	assert.Len(t, factoryA, 2)

	_, err = svc.Rows("no-such-dataset", dataset.Filter{})
	require.Error(t, err)
}

func TestApplyEdit(t *testing.T) {
	svc, notifier := testService(t)
	path := filepath.Join(t.TempDir(), "shipment.xlsx")
	writeWorkbook(t, path, testHeader, testRows)
	d, err := svc.LoadFile(context.Background(), path)
	require.NoError(t, err)

	edited := d.Rows[1]
	edited.Remarks = "done"

	idx, err := svc.ApplyEdit(context.Background(), d.ID, edited)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "done", d.Rows[1].Remarks)
	assert.Equal(t, []int{1}, notifier.edited)
}

func TestApplyEditNoMatch(t *testing.T) {
	svc, notifier := testService(t)
	path := filepath.Join(t.TempDir(), "shipment.xlsx")
	writeWorkbook(t, path, testHeader, testRows)
	d, err := svc.LoadFile(context.Background(), path)
	require.NoError(t, err)

	ghost := domain.NormalizedRow{NO: "99", BoxNum: "B-99", ContainerNum: "C-999"}
	idx, err := svc.ApplyEdit(context.Background(), d.ID, ghost)
	require.NoError(t, err, "unmatched edits are dropped, not errors")
	assert.Equal(t, dataset.NotFound, idx)
	assert.Empty(t, notifier.edited)
}

func TestRollups(t *testing.T) {
	svc, _ := testService(t)
	path := filepath.Join(t.TempDir(), "shipment.xlsx")
	writeWorkbook(t, path, testHeader, testRows)
	d, err := svc.LoadFile(context.Background(), path)
	require.NoError(t, err)

	set, err := svc.Rollups(d.ID, dataset.Filter{})
	require.NoError(t, err)

	// ByContainer: CTR-A, CTR-B, then ALL
	require.Len(t, set.ByContainer, 3)
	assert.Equal(t, "CTR-A", set.ByContainer[0].GroupKey)
	assert.Equal(t, 2, set.ByContainer[0].Total)
	assert.Equal(t, 1, set.ByContainer[0].FinishedCount)
	assert.Equal(t, domain.RollupGroupAll, set.ByContainer[2].GroupKey)
	assert.Equal(t, 3, set.ByContainer[2].Total)

	// FactorySummary honors the configured priority order
	require.Len(t, set.FactorySummary, 3)
	assert.Equal(t, "FactoryB", set.FactorySummary[0].GroupKey)
	assert.Equal(t, "FactoryA", set.FactorySummary[1].GroupKey)
	assert.Equal(t, domain.RollupGroupAll, set.FactorySummary[2].GroupKey)
}

func TestCombinedRollups(t *testing.T) {
	svc, _ := testService(t)
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "a.xlsx"), testHeader, testRows[:2])
	writeWorkbook(t, filepath.Join(dir, "b.xlsx"), testHeader, testRows[2:])
	_, err := svc.LoadDirectory(context.Background(), dir)
	require.NoError(t, err)

	set := svc.CombinedRollups(dataset.Filter{})
	all := set.ByContainer[len(set.ByContainer)-1]
	assert.Equal(t, domain.RollupGroupAll, all.GroupKey)
	assert.Equal(t, 3, all.Total)
}

func TestExport(t *testing.T) {
	svc, _ := testService(t)
	path := filepath.Join(t.TempDir(), "shipment.xlsx")
	writeWorkbook(t, path, testHeader, testRows)
	_, err := svc.LoadFile(context.Background(), path)
	require.NoError(t, err)

	result, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)

	combined := readCSVFile(t, result.CombinedCSV)
	require.Len(t, combined, 4, "header plus three rows")
	assert.Contains(t, combined[0], "Status")
	assert.Contains(t, combined[0], "Inspector")

	byFactory := readCSVFile(t, result.FactoryRollupCSV)
	assert.Equal(t, "Factory", byFactory[0][0])
	assert.Equal(t, domain.RollupGroupAll, byFactory[len(byFactory)-1][0])

	assert.True(t, config.FileExists(result.ContainerRollupCSV))
	assert.True(t, config.FileExists(result.SummaryWorkbook))

	// Each dataset also gets its own CSV next to the combined file
	perDataset := readCSVFile(t, filepath.Join(svc.paths.ReportsDir, "shipment.csv"))
	assert.Len(t, perDataset, 4)
}

func TestRemoveDataset(t *testing.T) {
	svc, notifier := testService(t)
	path := filepath.Join(t.TempDir(), "shipment.xlsx")
	writeWorkbook(t, path, testHeader, testRows)
	d, err := svc.LoadFile(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveDataset(context.Background(), d.ID))
	assert.Equal(t, []string{d.ID}, notifier.removed)
	assert.Empty(t, svc.Datasets())

	err = svc.RemoveDataset(context.Background(), d.ID)
	require.Error(t, err, "removing twice is an error")
}
