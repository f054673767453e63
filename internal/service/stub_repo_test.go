package service

import (
	"context"
	"time"

	"github.com/GeneralMillz/polymarket-relay/internal/models"
	"github.com/GeneralMillz/polymarket-relay/internal/repository"
)

// stubRepo is a test-only in-memory repository.WarehouseRepository.
type stubRepo struct {
	err       error
	maxTS     map[repository.Table]*time.Time
	frames    map[repository.Table]repository.Frame
	distinct  map[repository.Selector][]string
	series    map[repository.Series]repository.Frame
	signals   []models.MarketSignal
	events    []models.Event
	status    *models.SchemaStatus
	lastValue string
}

func (s *stubRepo) MaxTimestamp(ctx context.Context, table repository.Table) (*time.Time, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.maxTS[table], nil
}

func (s *stubRepo) LatestRows(ctx context.Context, table repository.Table, limit int) (repository.Frame, error) {
	if s.err != nil {
		return repository.Frame{}, s.err
	}
	return s.frames[table], nil
}

func (s *stubRepo) DistinctValues(ctx context.Context, selector repository.Selector, limit int) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.distinct[selector], nil
}

func (s *stubRepo) SeriesRows(ctx context.Context, series repository.Series, value string) (repository.Frame, error) {
	s.lastValue = value
	if s.err != nil {
		return repository.Frame{}, s.err
	}
	return s.series[series], nil
}

func (s *stubRepo) ListSignals(ctx context.Context) ([]models.MarketSignal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.signals, nil
}

func (s *stubRepo) ListEvents(ctx context.Context, limit int) ([]models.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func (s *stubRepo) GetSchemaStatus(ctx context.Context) (*models.SchemaStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.status, nil
}
