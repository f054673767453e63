package cronrunner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Add schedules job under name. An empty spec leaves the job disabled and
// returns ok=false without error.
func (r *Runner) Add(name, spec string, job func(context.Context)) (bool, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		r.logger.Info("cron job disabled", zap.String("job", name))
		return false, nil
	}
	if _, err := r.cron.AddFunc(spec, r.wrap(name, job)); err != nil {
		return false, fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	r.logger.Info("cron job scheduled", zap.String("job", name), zap.String("spec", spec))
	return true, nil
}

func (r *Runner) wrap(name string, job func(context.Context)) func() {
	return func() {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("cron job panicked",
					zap.String("job", name),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
			}
		}()
		job(r.baseCtx)
		r.logger.Debug("cron job finished", zap.String("job", name), zap.Duration("elapsed", time.Since(start)))
	}
}

// Entries is the number of scheduled jobs.
func (r *Runner) Entries() int {
	return len(r.cron.Entries())
}

func (r *Runner) Start() {
	r.logger.Info("cron started")
	r.cron.Start()
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}
