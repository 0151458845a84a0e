// Package ingest loads inspection rows from remote sources. The only remote
// source today is Google Sheets; local workbooks go through the
// dataprocessing parser directly.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"cargocli/internal/config"
	apperrors "cargocli/internal/errors"
)

// SheetsSource reads inspection grids from a Google Sheets spreadsheet
type SheetsSource struct {
	service *sheets.Service
	cfg     config.SheetsConfig
	logger  *slog.Logger
}

// NewSheetsSource creates a Sheets source from configuration. The returned
// source is nil when Sheets ingestion is not configured.
func NewSheetsSource(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (*SheetsSource, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	opts := []option.ClientOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to create sheets service", err)
	}

	return &SheetsSource{
		service: service,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "sheets_source")),
	}, nil
}

// Name identifies the source in dataset listings and logs.
func (s *SheetsSource) Name() string {
	return fmt.Sprintf("sheets:%s", s.cfg.SpreadsheetID)
}

// FetchGrid fetches the configured range and returns it as a raw cell grid,
// the same shape the workbook parser consumes.
func (s *SheetsSource) FetchGrid(ctx context.Context) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.cfg.SpreadsheetID, s.cfg.ReadRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to fetch spreadsheet values", err).
			WithContext("spreadsheet_id", s.cfg.SpreadsheetID).
			WithContext("range", s.cfg.ReadRange)
	}

	grid := valueRangeToGrid(resp)

	s.logger.InfoContext(ctx, "fetched spreadsheet range",
		slog.String("spreadsheet_id", s.cfg.SpreadsheetID),
		slog.String("range", s.cfg.ReadRange),
		slog.Int("rows", len(grid)))

	return grid, nil
}

// valueRangeToGrid converts a sheets ValueRange to a string grid. Cells come
// back as interface{} and may be numbers; everything is rendered as text.
func valueRangeToGrid(vr *sheets.ValueRange) [][]string {
	if vr == nil {
		return nil
	}

	grid := make([][]string, 0, len(vr.Values))
	for _, row := range vr.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprintf("%v", cell))
		}
		grid = append(grid, cells)
	}
	return grid
}
