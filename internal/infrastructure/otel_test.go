package infrastructure

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOTelConfig(t *testing.T) {
	cfg := DefaultOTelConfig()

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, ServiceVersion, cfg.ServiceVersion)
	assert.True(t, cfg.EnableMetrics)
	assert.True(t, cfg.EnableTracing)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestInitializeOTelDisabled(t *testing.T) {
	cfg := &OTelConfig{
		ServiceName:    "test",
		ServiceVersion: "0.0.1",
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "none",
		EnableTracing:  true,
		EnableMetrics:  true,
	}

	providers, err := InitializeOTel(cfg, slog.Default())
	require.NoError(t, err)
	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelRejectsUnknownExporters(t *testing.T) {
	cfg := &OTelConfig{
		ServiceName:    "test",
		ServiceVersion: "0.0.1",
		TraceExporter:  "jaeger",
		EnableTracing:  true,
	}

	_, err := InitializeOTel(cfg, slog.Default())
	assert.Error(t, err)
}

func TestCreateBusinessMetrics(t *testing.T) {
	cfg := &OTelConfig{
		ServiceName:    "test",
		ServiceVersion: "0.0.1",
		Environment:    "test",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
	}

	providers, err := InitializeOTel(cfg, slog.Default())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	// Recording must not panic and nil metrics must be a no-op
	ctx := context.Background()
	RecordLoadMetrics(ctx, metrics, "shipment.xlsx", 40, 120*time.Millisecond, nil)
	RecordLoadMetrics(ctx, metrics, "broken.xlsx", 0, 0, assert.AnError)
	RecordEditMetrics(ctx, metrics, "ds-1", true)
	RecordEditMetrics(ctx, metrics, "ds-1", false)
	RecordExportMetrics(ctx, metrics, "csv", 30*time.Millisecond, true)

	RecordLoadMetrics(ctx, nil, "x", 0, 0, nil)
	RecordEditMetrics(ctx, nil, "x", true)
	RecordExportMetrics(ctx, nil, "csv", 0, false)
}

func TestTraceIDFromContextWithoutSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
