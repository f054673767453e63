package repository

import (
	"context"
	"time"

	"github.com/GeneralMillz/polymarket-relay/internal/models"
)

// WarehouseRepository is the read-only view of the warehouse the dashboard needs.
// Implementations return store errors as-is; turning them into displayable data
// is the service layer's job.
type WarehouseRepository interface {
	MaxTimestamp(ctx context.Context, table Table) (*time.Time, error)
	LatestRows(ctx context.Context, table Table, limit int) (Frame, error)
	DistinctValues(ctx context.Context, selector Selector, limit int) ([]string, error)
	SeriesRows(ctx context.Context, series Series, value string) (Frame, error)
	ListSignals(ctx context.Context) ([]models.MarketSignal, error)
	ListEvents(ctx context.Context, limit int) ([]models.Event, error)
	GetSchemaStatus(ctx context.Context) (*models.SchemaStatus, error)
}

// Frame is an untyped result set that keeps the column order of the query.
type Frame struct {
	Columns []string
	Rows    [][]any
}
