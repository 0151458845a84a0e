package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"cargocli/internal/config"
	"cargocli/internal/dataprocessing"
	"cargocli/internal/dataset"
	apperrors "cargocli/internal/errors"
	"cargocli/internal/exporter"
	"cargocli/internal/infrastructure"
	"cargocli/internal/ingest"
	"cargocli/pkg/contracts/domain"
)

// loadConcurrency bounds parallel workbook parsing in LoadDirectory.
const loadConcurrency = 4

var workbookRe = regexp.MustCompile(config.WorkbookPattern)

// Notifier receives dataset change events for push delivery to clients.
// The websocket hub implements it; the batch processor runs without one.
type Notifier interface {
	BroadcastDatasetLoaded(id, name string, rowCount int)
	BroadcastDatasetRemoved(id string)
	BroadcastRowEdited(datasetID string, rowIndex int)
}

// RowView is a normalized row plus its derived status, the shape the API
// and reports expose.
type RowView struct {
	domain.NormalizedRow
	Status domain.StatusCategory `json:"status"`
}

// RollupSet bundles the rollup views computed over one row collection.
type RollupSet struct {
	ByContainer    []domain.RollupRecord `json:"by_container"`
	ByFactory      []domain.RollupRecord `json:"by_factory"`
	FactorySummary []domain.RollupRecord `json:"factory_summary,omitempty"`
}

// ExportResult reports where the export pass wrote each artifact.
type ExportResult struct {
	CombinedCSV        string `json:"combined_csv"`
	ContainerRollupCSV string `json:"container_rollup_csv"`
	FactoryRollupCSV   string `json:"factory_rollup_csv"`
	SummaryWorkbook    string `json:"summary_workbook"`
	Rows               int    `json:"rows"`
}

// DataService owns dataset lifecycle: ingestion, normalization, analytics,
// edits and report export.
type DataService struct {
	cfg        *config.Config
	paths      *config.Paths
	store      *dataset.Store
	normalizer *Normalizer
	aggregator *dataprocessing.Aggregator

	rowExporter    *exporter.RowExporter
	rollupExporter *exporter.RollupExporter
	excelExporter  *exporter.ExcelExporter

	notifier Notifier
	metrics  *infrastructure.BusinessMetrics

	logger *slog.Logger
}

// NewDataService creates a data service with its own empty dataset store.
func NewDataService(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*DataService, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = logger.With(slog.String("component", "data_service"))

	normalizer, err := NewNormalizer()
	if err != nil {
		return nil, err
	}

	return &DataService{
		cfg:            cfg,
		paths:          paths,
		store:          dataset.NewStore(),
		normalizer:     normalizer,
		aggregator:     dataprocessing.NewAggregator(logger),
		rowExporter:    exporter.NewRowExporter(paths),
		rollupExporter: exporter.NewRollupExporter(paths),
		excelExporter:  exporter.NewExcelExporter(paths, logger),
		logger:         logger,
	}, nil
}

// SetNotifier attaches a change notifier. Must be called before the service
// starts handling requests.
func (s *DataService) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetMetrics attaches business metrics instruments. Optional; a nil metrics
// set disables recording.
func (s *DataService) SetMetrics(m *infrastructure.BusinessMetrics) {
	s.metrics = m
}

// LoadFile loads one inspection workbook and registers it as a dataset.
func (s *DataService) LoadFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	start := time.Now()

	rows, err := s.normalizer.NormalizeFile(path)
	infrastructure.RecordLoadMetrics(ctx, s.metrics, path, len(rows), time.Since(start), err)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to load workbook %s", filepath.Base(path)), err).
			WithContext("path", path)
	}

	d := s.store.Add(filepath.Base(path), rows)

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("dataset_id", d.ID),
		slog.String("name", d.Name),
		slog.Int("rows", len(rows)),
		slog.Duration("duration", time.Since(start)))

	if s.notifier != nil {
		s.notifier.BroadcastDatasetLoaded(d.ID, d.Name, len(rows))
	}
	return d, nil
}

// LoadDirectory loads every workbook in dir, in name order. Files are
// parsed concurrently but registered deterministically; files that fail to
// parse are logged and skipped. An error is returned only when the
// directory is unreadable or no workbook loads.
func (s *DataService) LoadDirectory(ctx context.Context, dir string) ([]*dataset.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read input directory %s", dir), err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !workbookRe.MatchString(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no workbooks found in %s", dir), nil)
	}

	type parsed struct {
		rows []domain.NormalizedRow
		err  error
	}
	results := make([]parsed, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			rows, err := s.normalizer.NormalizeFile(filepath.Join(dir, name))
			infrastructure.RecordLoadMetrics(gctx, s.metrics, name, len(rows), time.Since(start), err)
			results[i] = parsed{rows: rows, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var loaded []*dataset.Dataset
	for i, name := range names {
		if results[i].err != nil {
			s.logger.WarnContext(ctx, "skipping unparseable workbook",
				slog.String("file", name),
				slog.String("error", results[i].err.Error()))
			continue
		}
		d := s.store.Add(name, results[i].rows)
		loaded = append(loaded, d)
		if s.notifier != nil {
			s.notifier.BroadcastDatasetLoaded(d.ID, d.Name, len(d.Rows))
		}
	}

	if len(loaded) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("no workbook in %s could be parsed", dir), nil)
	}

	s.logger.InfoContext(ctx, "input directory loaded",
		slog.String("dir", dir),
		slog.Int("datasets", len(loaded)),
		slog.Int("skipped", len(names)-len(loaded)))

	return loaded, nil
}

// LoadSheet fetches the configured remote spreadsheet range and registers
// it as a dataset.
func (s *DataService) LoadSheet(ctx context.Context, src *ingest.SheetsSource) (*dataset.Dataset, error) {
	if src == nil {
		return nil, apperrors.NewConfigError("sheets ingestion is not configured", nil)
	}

	start := time.Now()
	grid, err := src.FetchGrid(ctx)
	if err != nil {
		infrastructure.RecordLoadMetrics(ctx, s.metrics, src.Name(), 0, time.Since(start), err)
		return nil, err
	}

	rows := s.normalizer.NormalizeGrid(grid)
	infrastructure.RecordLoadMetrics(ctx, s.metrics, src.Name(), len(rows), time.Since(start), nil)

	d := s.store.Add(src.Name(), rows)

	s.logger.InfoContext(ctx, "remote sheet loaded",
		slog.String("dataset_id", d.ID),
		slog.String("source", src.Name()),
		slog.Int("rows", len(rows)))

	if s.notifier != nil {
		s.notifier.BroadcastDatasetLoaded(d.ID, d.Name, len(rows))
	}
	return d, nil
}

// Datasets lists loaded datasets in load order.
func (s *DataService) Datasets() []*dataset.Dataset {
	return s.store.List()
}

// Dataset resolves one dataset by id.
func (s *DataService) Dataset(id string) (*dataset.Dataset, error) {
	d, err := s.store.Get(id)
	if err != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("dataset %s not found", id), err)
	}
	return d, nil
}

// Rows returns the dataset's rows matching the filter, each annotated with
// its derived status.
func (s *DataService) Rows(id string, f dataset.Filter) ([]RowView, error) {
	d, err := s.Dataset(id)
	if err != nil {
		return nil, err
	}

	filtered := f.Apply(d.Rows)
	views := make([]RowView, 0, len(filtered))
	for i := range filtered {
		views = append(views, RowView{
			NormalizedRow: filtered[i],
			Status:        dataprocessing.Classify(filtered[i].Remarks),
		})
	}
	return views, nil
}

// ApplyEdit replays an edited row snapshot onto the dataset it came from.
// When no stored row carries the snapshot's identity the edit is dropped:
// the row index comes back as dataset.NotFound and no error is raised.
func (s *DataService) ApplyEdit(ctx context.Context, datasetID string, edited domain.NormalizedRow) (int, error) {
	d, err := s.Dataset(datasetID)
	if err != nil {
		return dataset.NotFound, err
	}

	idx := dataset.FindMatch(&edited, d.Rows)
	infrastructure.RecordEditMetrics(ctx, s.metrics, datasetID, idx != dataset.NotFound)

	if idx == dataset.NotFound {
		s.logger.WarnContext(ctx, "edit matched no row, dropping",
			slog.String("dataset_id", datasetID),
			slog.String("no", edited.NO),
			slog.String("box_num", edited.BoxNum),
			slog.String("container_num", edited.ContainerNum))
		return dataset.NotFound, nil
	}

	d.Rows[idx] = edited

	s.logger.InfoContext(ctx, "row edit applied",
		slog.String("dataset_id", datasetID),
		slog.Int("row_index", idx))

	if s.notifier != nil {
		s.notifier.BroadcastRowEdited(datasetID, idx)
	}
	return idx, nil
}

// Rollups computes the rollup views over one dataset's rows after applying
// the filter.
func (s *DataService) Rollups(id string, f dataset.Filter) (*RollupSet, error) {
	d, err := s.Dataset(id)
	if err != nil {
		return nil, err
	}
	return s.rollups(f.Apply(d.Rows)), nil
}

// CombinedRollups computes the rollup views over every loaded dataset.
func (s *DataService) CombinedRollups(f dataset.Filter) *RollupSet {
	return s.rollups(f.Apply(s.allRows()))
}

func (s *DataService) rollups(rows []domain.NormalizedRow) *RollupSet {
	set := &RollupSet{
		ByContainer: s.aggregator.ByContainer(rows),
		ByFactory:   s.aggregator.ByFactory(rows),
	}
	if len(s.cfg.Analytics.FactoryPriority) > 0 {
		set.FactorySummary = s.aggregator.FactorySummary(rows, s.cfg.Analytics.FactoryPriority)
	}
	return set
}

func (s *DataService) allRows() []domain.NormalizedRow {
	var all []domain.NormalizedRow
	for _, d := range s.store.List() {
		all = append(all, d.Rows...)
	}
	return all
}

// Export writes the full report set over every loaded dataset: the
// combined CSV, both rollup CSVs and the multi-sheet summary workbook.
func (s *DataService) Export(ctx context.Context) (*ExportResult, error) {
	start := time.Now()
	rows := s.allRows()
	set := s.rollups(rows)

	if err := s.rowExporter.ExportCombinedCSV(rows, s.paths.CombinedCSV); err != nil {
		infrastructure.RecordExportMetrics(ctx, s.metrics, "csv", time.Since(start), false)
		return nil, apperrors.NewStorageError("failed to export combined CSV", err)
	}

	perDataset := make(map[string][]domain.NormalizedRow)
	for _, d := range s.store.List() {
		perDataset[d.Name] = d.Rows
	}
	if err := s.rowExporter.ExportDatasetCSVs(perDataset, s.paths.ReportsDir); err != nil {
		infrastructure.RecordExportMetrics(ctx, s.metrics, "csv", time.Since(start), false)
		return nil, apperrors.NewStorageError("failed to export per-dataset CSVs", err)
	}
	if err := s.rollupExporter.ExportRollupCSV(set.ByContainer, "Container", s.paths.ContainerRollupCSV); err != nil {
		infrastructure.RecordExportMetrics(ctx, s.metrics, "csv", time.Since(start), false)
		return nil, apperrors.NewStorageError("failed to export container rollup", err)
	}
	if err := s.rollupExporter.ExportRollupCSV(set.ByFactory, "Factory", s.paths.FactoryRollupCSV); err != nil {
		infrastructure.RecordExportMetrics(ctx, s.metrics, "csv", time.Since(start), false)
		return nil, apperrors.NewStorageError("failed to export factory rollup", err)
	}

	summary := exporter.SummaryInput{
		Rows:           rows,
		ByContainer:    set.ByContainer,
		ByFactory:      set.ByFactory,
		FactorySummary: set.FactorySummary,
	}
	if err := s.excelExporter.ExportSummaryWorkbook(summary, s.paths.SummaryWorkbook); err != nil {
		infrastructure.RecordExportMetrics(ctx, s.metrics, "xlsx", time.Since(start), false)
		return nil, apperrors.NewStorageError("failed to export summary workbook", err)
	}

	infrastructure.RecordExportMetrics(ctx, s.metrics, "full", time.Since(start), true)

	s.logger.InfoContext(ctx, "report export complete",
		slog.Int("rows", len(rows)),
		slog.Duration("duration", time.Since(start)))

	return &ExportResult{
		CombinedCSV:        s.paths.CombinedCSV,
		ContainerRollupCSV: s.paths.ContainerRollupCSV,
		FactoryRollupCSV:   s.paths.FactoryRollupCSV,
		SummaryWorkbook:    s.paths.SummaryWorkbook,
		Rows:               len(rows),
	}, nil
}

// RemoveDataset discards a dataset and notifies clients.
func (s *DataService) RemoveDataset(ctx context.Context, id string) error {
	if !s.store.Remove(id) {
		return apperrors.NewNotFoundError(fmt.Sprintf("dataset %s not found", id), nil)
	}

	s.logger.InfoContext(ctx, "dataset removed", slog.String("dataset_id", id))

	if s.notifier != nil {
		s.notifier.BroadcastDatasetRemoved(id)
	}
	return nil
}
