package cachejanitor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

type Evictor interface {
	Evict(ctx context.Context) (int, error)
}

// Worker drops in-memory query cache entries past their retention.
type Worker struct {
	store    Evictor
	schedule string
	logger   *slog.Logger
	cron     *cron.Cron
}

func NewWorker(store Evictor, schedule string, logger *slog.Logger) *Worker {
	return &Worker{
		store:    store,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(),
	}
}

func (w *Worker) Name() string {
	return "cache-janitor"
}

func (w *Worker) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, func() { w.run(context.Background()) }); err != nil {
		return fmt.Errorf("failed to schedule cache janitor: %w", err)
	}
	w.cron.Start()
	w.logger.Info("Cache janitor started", "schedule", w.schedule)
	return nil
}

func (w *Worker) Stop() {
	<-w.cron.Stop().Done()
}

func (w *Worker) run(ctx context.Context) {
	n, err := w.store.Evict(ctx)
	if err != nil {
		w.logger.Error("Cache eviction failed", "error", err)
		return
	}
	if n > 0 {
		w.logger.Debug("Evicted cache entries", "count", n)
	}
}
