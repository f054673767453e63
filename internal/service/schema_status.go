package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type Freshness string

const (
	Fresh Freshness = "fresh"
	Aging Freshness = "aging"
	Stale Freshness = "stale"
)

// Fixed policy: 0-3 days fresh, 4-7 aging, 8+ stale.
const (
	agingAfterDays = 3
	staleAfterDays = 7
)

var errNoSchemaStatus = errors.New("schema status row missing")

// ClassifyFreshness buckets the whole days elapsed since lastMigration.
// A timestamp in the future counts as fresh.
func ClassifyFreshness(lastMigration, now time.Time) (Freshness, int) {
	days := int(now.Sub(lastMigration) / (24 * time.Hour))
	switch {
	case days > staleAfterDays:
		return Stale, days
	case days > agingAfterDays:
		return Aging, days
	default:
		return Fresh, days
	}
}

type SchemaStatusResult struct {
	TotalMarkets     int64     `json:"total_markets"`
	OrderbookEnabled bool      `json:"orderbook_enabled"`
	ActiveMarkets    int64     `json:"active_markets"`
	LastMigration    string    `json:"last_migration"`
	DeltaDays        int       `json:"delta_days"`
	Freshness        Freshness `json:"freshness"`
	Error            string    `json:"error,omitempty"`
}

func (r SchemaStatusResult) Failed() bool { return r.Error != "" }

func (s *WarehouseQueryService) SchemaStatus(ctx context.Context) SchemaStatusResult {
	row, err := s.Repo.GetSchemaStatus(ctx)
	if err != nil {
		s.logger().Warn("schema status query failed", zap.Error(err))
		return SchemaStatusResult{Error: err.Error()}
	}
	if row == nil {
		return SchemaStatusResult{Error: errNoSchemaStatus.Error()}
	}
	out := SchemaStatusResult{
		TotalMarkets:     row.TotalMarkets,
		OrderbookEnabled: row.OrderbookEnabled,
		ActiveMarkets:    row.ActiveMarkets,
	}
	if row.LastMigration == nil {
		out.Error = "schema status has no last_migration"
		return out
	}
	out.LastMigration = row.LastMigration.Format(TimestampLayout)
	out.Freshness, out.DeltaDays = ClassifyFreshness(*row.LastMigration, s.now())
	return out
}
