package depositcheck

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"smm-storefront/internal/stories/payment"
)

const checkTimeout = 30 * time.Second

// Worker polls YooKassa for pending deposits and settles them.
type Worker struct {
	paymentService PaymentService
	schedule       string
	logger         *slog.Logger
	cron           *cron.Cron

	// deposits being checked, so a slow check is not started twice
	processing sync.Map
	wg         sync.WaitGroup
}

func NewWorker(paymentService PaymentService, schedule string, logger *slog.Logger) *Worker {
	return &Worker{
		paymentService: paymentService,
		schedule:       schedule,
		logger:         logger,
		cron:           cron.New(),
	}
}

func (w *Worker) Name() string {
	return "deposit-check"
}

func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("Panic in deposit check worker", "panic", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		if err := w.run(ctx); err != nil {
			w.logger.Error("Deposit check worker failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule deposit check worker: %w", err)
	}

	w.cron.Start()
	w.logger.Info("Deposit check worker started", "schedule", w.schedule)
	return nil
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping deposit check worker")
	<-w.cron.Stop().Done()
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) error {
	pending, err := w.paymentService.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending deposits: %w", err)
	}

	for _, d := range pending {
		if _, loaded := w.processing.LoadOrStore(d.ID, true); loaded {
			continue
		}

		w.wg.Add(1)
		go func(d *payment.Deposit) {
			defer w.wg.Done()
			defer w.processing.Delete(d.ID)

			checked, err := w.paymentService.CheckDepositStatus(ctx, d.ID)
			if err != nil {
				w.logger.Error("Failed to check deposit",
					"deposit_id", d.ID,
					"error", err)
				return
			}
			if checked.Status != payment.StatusPending {
				w.logger.Info("Deposit settled",
					"deposit_id", d.ID,
					"status", checked.Status)
			}
		}(d)
	}

	// each tick waits for its own checks so the timeout bounds them
	w.wg.Wait()
	return nil
}
