package dashboard

import (
	"context"

	"github.com/GeneralMillz/polymarket-relay/internal/repository"
	"github.com/GeneralMillz/polymarket-relay/internal/service"
)

type stubWarehouse struct {
	lastUpdated string
	rows        map[repository.Table]service.Table
	ids         map[repository.Selector][]string
	series      map[repository.Series]service.Table
	status      service.SchemaStatusResult
	signals     service.SignalsResult
	events      service.EventsResult

	seriesValue string
}

func (s *stubWarehouse) LastUpdated(ctx context.Context, table repository.Table) string {
	return s.lastUpdated
}

func (s *stubWarehouse) LoadRows(ctx context.Context, table repository.Table, limit int) service.Table {
	if t, ok := s.rows[table]; ok {
		return t
	}
	return service.Table{Columns: []string{}, Rows: [][]any{}}
}

func (s *stubWarehouse) DistinctIDs(ctx context.Context, selector repository.Selector, limit int) []string {
	return s.ids[selector]
}

func (s *stubWarehouse) FilteredSeries(ctx context.Context, series repository.Series, value string) service.Table {
	s.seriesValue = value
	if t, ok := s.series[series]; ok {
		return t
	}
	return service.Table{Columns: []string{}, Rows: [][]any{}}
}

func (s *stubWarehouse) SchemaStatus(ctx context.Context) service.SchemaStatusResult {
	return s.status
}

func (s *stubWarehouse) Signals(ctx context.Context) service.SignalsResult {
	return s.signals
}

func (s *stubWarehouse) Events(ctx context.Context, limit int) service.EventsResult {
	return s.events
}
