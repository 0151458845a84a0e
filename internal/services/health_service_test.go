package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargocli/internal/config"
)

type fakeCounter struct{ n int }

func (f fakeCounter) ClientCount() int { return f.n }

func TestHealthEmpty(t *testing.T) {
	hs := NewHealthService(nil, nil, slog.Default())

	status := hs.Health()
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, config.AppVersion, status.Version)
	assert.Zero(t, status.Datasets)
	assert.Zero(t, status.Rows)
	assert.Zero(t, status.WSClients)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthCounts(t *testing.T) {
	svc, _ := testService(t)
	path := filepath.Join(t.TempDir(), "shipment.xlsx")
	writeWorkbook(t, path, testHeader, testRows)
	_, err := svc.LoadFile(context.Background(), path)
	require.NoError(t, err)

	hs := NewHealthService(svc, fakeCounter{n: 2}, slog.Default())

	status := hs.Health()
	assert.Equal(t, 1, status.Datasets)
	assert.Equal(t, 3, status.Rows)
	assert.Equal(t, 2, status.WSClients)
	assert.NotEmpty(t, status.Uptime)
}
