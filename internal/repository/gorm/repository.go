package gormrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/GeneralMillz/polymarket-relay/internal/models"
	"github.com/GeneralMillz/polymarket-relay/internal/repository"
)

var (
	errNoDB           = errors.New("warehouse connection unavailable")
	errUnknownTable   = errors.New("unknown warehouse table")
	errNoTimestampCol = errors.New("table has no timestamp column")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) MaxTimestamp(ctx context.Context, table repository.Table) (*time.Time, error) {
	if s == nil || s.db == nil {
		return nil, errNoDB
	}
	if !table.Valid() {
		return nil, errUnknownTable
	}
	col := table.TimestampColumn()
	if col == "" {
		return nil, fmt.Errorf("%s: %w", table, errNoTimestampCol)
	}
	var row struct {
		LastUpdated *time.Time
	}
	err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT MAX(%s) AS last_updated FROM %s", col, table)).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("max %s from %s: %w", col, table, err)
	}
	return row.LastUpdated, nil
}

func (s *Store) LatestRows(ctx context.Context, table repository.Table, limit int) (repository.Frame, error) {
	if s == nil || s.db == nil {
		return repository.Frame{}, errNoDB
	}
	if !table.Valid() {
		return repository.Frame{}, errUnknownTable
	}
	limit = normalizeLimit(limit, 100)
	q := fmt.Sprintf("SELECT * FROM %s ORDER BY %s DESC LIMIT ?", table, table.OrderColumn())
	rows, err := s.db.WithContext(ctx).Raw(q, limit).Rows()
	if err != nil {
		return repository.Frame{}, fmt.Errorf("load %s: %w", table, err)
	}
	return frameFromRows(rows)
}

func (s *Store) DistinctValues(ctx context.Context, selector repository.Selector, limit int) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, errNoDB
	}
	if !selector.Valid() {
		return nil, errUnknownTable
	}
	limit = normalizeLimit(limit, 100)
	col := selector.Column()
	q := fmt.Sprintf(
		"SELECT DISTINCT %[1]s FROM %[2]s WHERE %[1]s IS NOT NULL ORDER BY %[1]s DESC LIMIT ?",
		col, selector.Table(),
	)
	var out []string
	if err := s.db.WithContext(ctx).Raw(q, limit).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("distinct %s from %s: %w", col, selector.Table(), err)
	}
	return out, nil
}

func (s *Store) SeriesRows(ctx context.Context, series repository.Series, value string) (repository.Frame, error) {
	if s == nil || s.db == nil {
		return repository.Frame{}, errNoDB
	}
	if !series.Valid() {
		return repository.Frame{}, errUnknownTable
	}
	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ? ORDER BY %s ASC",
		strings.Join(series.Columns(), ", "), series.Table(), series.FilterColumn(), series.OrderBy(),
	)
	rows, err := s.db.WithContext(ctx).Raw(q, value).Rows()
	if err != nil {
		return repository.Frame{}, fmt.Errorf("series %s: %w", series.Table(), err)
	}
	return frameFromRows(rows)
}

func (s *Store) ListSignals(ctx context.Context) ([]models.MarketSignal, error) {
	if s == nil || s.db == nil {
		return nil, errNoDB
	}
	var items []models.MarketSignal
	if err := s.db.WithContext(ctx).
		Model(&models.MarketSignal{}).
		Order("priority_score DESC NULLS LAST").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListEvents(ctx context.Context, limit int) ([]models.Event, error) {
	if s == nil || s.db == nil {
		return nil, errNoDB
	}
	limit = normalizeLimit(limit, 100)
	var items []models.Event
	if err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("ts_utc IS NOT NULL").
		Order("ts_utc DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetSchemaStatus(ctx context.Context) (*models.SchemaStatus, error) {
	if s == nil || s.db == nil {
		return nil, errNoDB
	}
	var items []models.SchemaStatus
	if err := s.db.WithContext(ctx).
		Model(&models.SchemaStatus{}).
		Limit(1).
		Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// frameFromRows drains rows into a Frame and always closes them.
func frameFromRows(rows *sql.Rows) (repository.Frame, error) {
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return repository.Frame{}, err
	}
	frame := repository.Frame{Columns: cols, Rows: make([][]any, 0)}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return repository.Frame{}, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		frame.Rows = append(frame.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return repository.Frame{}, err
	}
	return frame, nil
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
