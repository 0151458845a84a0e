package http

import (
	"context"

	"cargocli/internal/dataset"
	"cargocli/internal/services"
	"cargocli/pkg/contracts/domain"
)

// DataServiceInterface is the view of the data service the handlers need.
// Defined on the consumer side so tests can substitute a stub.
type DataServiceInterface interface {
	Datasets() []*dataset.Dataset
	Rows(id string, f dataset.Filter) ([]services.RowView, error)
	Rollups(id string, f dataset.Filter) (*services.RollupSet, error)
	CombinedRollups(f dataset.Filter) *services.RollupSet
	ApplyEdit(ctx context.Context, datasetID string, edited domain.NormalizedRow) (int, error)
	RemoveDataset(ctx context.Context, id string) error
	LoadDirectory(ctx context.Context, dir string) ([]*dataset.Dataset, error)
	Export(ctx context.Context) (*services.ExportResult, error)
}

// HealthServiceInterface is the view of the health service the handlers need.
type HealthServiceInterface interface {
	Health() services.HealthStatus
}
