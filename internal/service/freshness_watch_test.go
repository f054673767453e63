package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"

	"github.com/GeneralMillz/polymarket-relay/internal/models"
)

type recordingReporter struct {
	actions []string
	err     error
}

func (r *recordingReporter) Report(ctx context.Context, action, level string, details map[string]any) error {
	r.actions = append(r.actions, action)
	return r.err
}

func newWatch(status *models.SchemaStatus, repoErr error, now time.Time) (*FreshnessWatch, *recordingReporter, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	rep := &recordingReporter{}
	q := &WarehouseQueryService{
		Repo: &stubRepo{status: status, err: repoErr},
		Now:  func() time.Time { return now },
	}
	return &FreshnessWatch{Query: q, Logger: zap.New(core), Reporter: rep}, rep, logs
}

func TestFreshnessWatch_Stale(t *testing.T) {
	now := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)
	last := now.Add(-10 * 24 * time.Hour)
	w, rep, logs := newWatch(&models.SchemaStatus{LastMigration: &last}, nil, now)

	res := w.Check(context.Background())
	if res.Freshness != Stale {
		t.Fatalf("freshness=%s want stale", res.Freshness)
	}
	if len(rep.actions) != 1 || rep.actions[0] != "relay_schema_stale" {
		t.Fatalf("actions=%v", rep.actions)
	}
	if logs.FilterMessage("warehouse schema is stale").Len() != 1 {
		t.Fatalf("expected stale warning, got %v", logs.All())
	}
}

func TestFreshnessWatch_FreshDoesNotReport(t *testing.T) {
	now := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)
	last := now.Add(-time.Hour)
	w, rep, _ := newWatch(&models.SchemaStatus{LastMigration: &last}, nil, now)

	if res := w.Check(context.Background()); res.Freshness != Fresh {
		t.Fatalf("freshness=%s want fresh", res.Freshness)
	}
	if len(rep.actions) != 0 {
		t.Fatalf("actions=%v want none", rep.actions)
	}
}

func TestFreshnessWatch_Unavailable(t *testing.T) {
	w, rep, logs := newWatch(nil, errors.New("db down"), time.Now())
	rep.err = errors.New("ops log offline")

	res := w.Check(context.Background())
	if !res.Failed() {
		t.Fatalf("expected failure")
	}
	if len(rep.actions) != 1 || rep.actions[0] != "relay_schema_status_unavailable" {
		t.Fatalf("actions=%v", rep.actions)
	}
	if logs.FilterMessage("ops log report failed").Len() != 1 {
		t.Fatalf("expected report failure to be logged")
	}
}

func TestFreshnessWatch_NoReporter(t *testing.T) {
	now := time.Now()
	last := now.Add(-20 * 24 * time.Hour)
	w, _, _ := newWatch(&models.SchemaStatus{LastMigration: &last}, nil, now)
	w.Reporter = nil
	if res := w.Check(context.Background()); res.Freshness != Stale {
		t.Fatalf("freshness=%s", res.Freshness)
	}
}
