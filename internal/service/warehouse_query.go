package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GeneralMillz/polymarket-relay/internal/models"
	"github.com/GeneralMillz/polymarket-relay/internal/repository"
)

const (
	TimestampLayout = "2006-01-02 15:04:05"
	NoData          = "No data"
)

// WarehouseQueryService is the dashboard's only path to the warehouse. Store
// failures are returned as data (error-tagged tables, strings) because the
// page renders whatever comes back and must not fail on a transient error.
type WarehouseQueryService struct {
	Repo   repository.WarehouseRepository
	Logger *zap.Logger
	Now    func() time.Time
}

// Table is a rendered-ready result set. Error is set when the query failed,
// in which case Columns and Rows are empty.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Error   string   `json:"error,omitempty"`
}

func errorTable(err error) Table {
	return Table{Columns: []string{}, Rows: [][]any{}, Error: err.Error()}
}

func (t Table) Failed() bool { return t.Error != "" }

func (t Table) Empty() bool { return len(t.Rows) == 0 }

// ColumnIndex returns the position of name, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

type SignalsResult struct {
	Rows  []models.MarketSignal `json:"rows"`
	Error string                `json:"error,omitempty"`
}

type EventsResult struct {
	Rows  []models.Event `json:"rows"`
	Error string         `json:"error,omitempty"`
}

func (s *WarehouseQueryService) LastUpdated(ctx context.Context, table repository.Table) string {
	ts, err := s.Repo.MaxTimestamp(ctx, table)
	if err != nil {
		s.logger().Warn("last updated query failed", zap.String("table", table.String()), zap.Error(err))
		return "Error: " + err.Error()
	}
	if ts == nil || ts.IsZero() {
		return NoData
	}
	return ts.Format(TimestampLayout)
}

func (s *WarehouseQueryService) LoadRows(ctx context.Context, table repository.Table, limit int) Table {
	frame, err := s.Repo.LatestRows(ctx, table, limit)
	if err != nil {
		s.logger().Warn("load rows failed", zap.String("table", table.String()), zap.Error(err))
		return errorTable(err)
	}
	return tableFromFrame(frame)
}

// DistinctIDs never returns more than limit values and never repeats a value.
// Failures yield an empty list.
func (s *WarehouseQueryService) DistinctIDs(ctx context.Context, selector repository.Selector, limit int) []string {
	if limit <= 0 {
		return []string{}
	}
	values, err := s.Repo.DistinctValues(ctx, selector, limit)
	if err != nil {
		s.logger().Warn("distinct ids failed",
			zap.String("table", selector.Table().String()),
			zap.String("column", selector.Column()),
			zap.Error(err),
		)
		return []string{}
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

// FilteredSeries returns the rows for one id ordered ascending by the series'
// timestamp column.
func (s *WarehouseQueryService) FilteredSeries(ctx context.Context, series repository.Series, value string) Table {
	frame, err := s.Repo.SeriesRows(ctx, series, value)
	if err != nil {
		s.logger().Warn("filtered series failed",
			zap.String("table", series.Table().String()),
			zap.String("value", value),
			zap.Error(err),
		)
		return errorTable(err)
	}
	t := tableFromFrame(frame)
	sortAscending(t, series.OrderBy())
	return t
}

func (s *WarehouseQueryService) Signals(ctx context.Context) SignalsResult {
	rows, err := s.Repo.ListSignals(ctx)
	if err != nil {
		s.logger().Warn("signals query failed", zap.Error(err))
		return SignalsResult{Rows: []models.MarketSignal{}, Error: err.Error()}
	}
	if rows == nil {
		rows = []models.MarketSignal{}
	}
	return SignalsResult{Rows: rows}
}

func (s *WarehouseQueryService) Events(ctx context.Context, limit int) EventsResult {
	rows, err := s.Repo.ListEvents(ctx, limit)
	if err != nil {
		s.logger().Warn("events query failed", zap.Error(err))
		return EventsResult{Rows: []models.Event{}, Error: err.Error()}
	}
	if rows == nil {
		rows = []models.Event{}
	}
	return EventsResult{Rows: rows}
}

func (s *WarehouseQueryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *WarehouseQueryService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func tableFromFrame(frame repository.Frame) Table {
	t := Table{Columns: frame.Columns, Rows: frame.Rows}
	if t.Columns == nil {
		t.Columns = []string{}
	}
	if t.Rows == nil {
		t.Rows = [][]any{}
	}
	return t
}

// sortAscending keeps rows non-decreasing by column. The store already orders
// them; this only guards against a driver handing back mixed order.
func sortAscending(t Table, column string) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return lessCell(t.Rows[i][idx], t.Rows[j][idx])
	})
}

func lessCell(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b != nil
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Before(tb)
		}
	}
	da, errA := decimal.NewFromString(fmt.Sprint(a))
	db, errB := decimal.NewFromString(fmt.Sprint(b))
	if errA == nil && errB == nil {
		return da.LessThan(db)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b)) < 0
}
