package ingest

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/sheets/v4"

	"cargocli/internal/config"
)

func TestNewSheetsSourceDisabled(t *testing.T) {
	src, err := NewSheetsSource(context.Background(), config.SheetsConfig{}, slog.Default())
	require.NoError(t, err)
	assert.Nil(t, src, "no source when no spreadsheet is configured")
}

func TestValueRangeToGrid(t *testing.T) {
	vr := &sheets.ValueRange{
		Values: [][]interface{}{
			{"NO", "Box No", "REMARKS"},
			{float64(1), "B-01", "Done"},
			{float64(2), "B-02"},
		},
	}

	grid := valueRangeToGrid(vr)
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"NO", "Box No", "REMARKS"}, grid[0])
	assert.Equal(t, "1", grid[1][0])
	// Short rows stay short; the parser pads them
	assert.Len(t, grid[2], 2)
}

func TestValueRangeToGridNil(t *testing.T) {
	assert.Nil(t, valueRangeToGrid(nil))
}

func TestSourceName(t *testing.T) {
	s := &SheetsSource{cfg: config.SheetsConfig{SpreadsheetID: "1abc"}}
	assert.Equal(t, "sheets:1abc", s.Name())
}
