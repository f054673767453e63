package service

import (
	"context"

	"go.uber.org/zap"
)

// OpsReporter forwards notable events to the remote operation log.
type OpsReporter interface {
	Report(ctx context.Context, action, level string, details map[string]any) error
}

// FreshnessWatch periodically reads the schema status row and logs when the
// ingestion side has stopped migrating. It only reads.
type FreshnessWatch struct {
	Query    *WarehouseQueryService
	Logger   *zap.Logger
	Reporter OpsReporter
}

func (w *FreshnessWatch) Check(ctx context.Context) SchemaStatusResult {
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	status := w.Query.SchemaStatus(ctx)
	if status.Failed() {
		logger.Warn("schema status unavailable", zap.String("error", status.Error))
		w.report(ctx, "relay_schema_status_unavailable", "warn", map[string]any{"error": status.Error})
		return status
	}
	fields := []zap.Field{
		zap.String("freshness", string(status.Freshness)),
		zap.Int("delta_days", status.DeltaDays),
		zap.String("last_migration", status.LastMigration),
		zap.Int64("active_markets", status.ActiveMarkets),
	}
	switch status.Freshness {
	case Stale:
		logger.Warn("warehouse schema is stale", fields...)
		w.report(ctx, "relay_schema_stale", "warn", map[string]any{
			"delta_days":     status.DeltaDays,
			"last_migration": status.LastMigration,
		})
	case Aging:
		logger.Info("warehouse schema is aging", fields...)
	default:
		logger.Debug("warehouse schema is fresh", fields...)
	}
	return status
}

func (w *FreshnessWatch) report(ctx context.Context, action, level string, details map[string]any) {
	if w.Reporter == nil {
		return
	}
	if err := w.Reporter.Report(ctx, action, level, details); err != nil && w.Logger != nil {
		w.Logger.Debug("ops log report failed", zap.String("action", action), zap.Error(err))
	}
}
