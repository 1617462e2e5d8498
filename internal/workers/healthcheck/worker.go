package healthcheck

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	checkInterval = 30 * time.Second
	httpTimeout   = 10 * time.Second
)

// Worker probes the panel API and tells the staff chat when it goes down or
// recovers. Up feeds the readiness probe.
type Worker struct {
	endpoint   string
	notifier   Notifier
	logger     *slog.Logger
	httpClient *http.Client
	interval   time.Duration

	statusMu     sync.RWMutex
	up           bool
	checked      bool
	failureCount int
	downSince    time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWorker creates the panel probe. notifier may be nil.
func NewWorker(endpoint string, notifier Notifier, logger *slog.Logger) *Worker {
	return &Worker{
		endpoint: endpoint,
		notifier: notifier,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
		interval: checkInterval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (w *Worker) Name() string {
	return "healthcheck"
}

func (w *Worker) Start() error {
	w.logger.Info("Starting panel health check worker",
		"interval", w.interval,
		"endpoint", w.endpoint)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("Panic in healthcheck worker goroutine", "panic", r)
			}
		}()
		w.run()
	}()
	return nil
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping health check worker")
	close(w.stopCh)
	<-w.doneCh
}

// Up reports whether the last probe reached the panel. Before the first
// probe the panel is assumed up.
func (w *Worker) Up() bool {
	w.statusMu.RLock()
	defer w.statusMu.RUnlock()
	return !w.checked || w.up
}

func (w *Worker) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.check(ctx)
	for {
		select {
		case <-ticker.C:
			w.check(ctx)
		case <-w.stopCh:
			return
		}
	}
}

func (w *Worker) check(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint, nil)
	if err != nil {
		w.logger.Error("Failed to create health check request", "error", err)
		w.updateStatus(ctx, false)
		return
	}

	resp, err := w.httpClient.Do(req)
	// any answer below 500 means the panel is serving
	isHealthy := err == nil && resp.StatusCode < http.StatusInternalServerError
	if resp != nil {
		resp.Body.Close()
	}

	if err != nil {
		w.logger.Warn("Health check failed", "endpoint", w.endpoint, "error", err)
	} else if !isHealthy {
		w.logger.Warn("Health check returned server error", "endpoint", w.endpoint, "status", resp.StatusCode)
	} else {
		w.logger.Debug("Health check passed", "endpoint", w.endpoint)
	}

	w.updateStatus(ctx, isHealthy)
}

func (w *Worker) updateStatus(ctx context.Context, isUp bool) {
	w.statusMu.Lock()
	now := time.Now()
	wasUp := !w.checked || w.up
	w.checked = true
	w.up = isUp

	var message string
	switch {
	case wasUp && !isUp:
		w.failureCount = 1
		w.downSince = now
		message = fmt.Sprintf("Panel API down\nEndpoint: %s\nTime: %s", w.endpoint, now.Format("2006-01-02 15:04:05"))
	case !wasUp && !isUp:
		w.failureCount++
	case !wasUp && isUp:
		message = fmt.Sprintf("Panel API recovered after %s (%d failed checks)",
			formatDuration(now.Sub(w.downSince)), w.failureCount)
		w.failureCount = 0
	}
	w.statusMu.Unlock()

	if message != "" && w.notifier != nil {
		if err := w.notifier.Notify(ctx, message); err != nil {
			w.logger.Error("Failed to send health notification", "error", err)
		}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d sec", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d min %d sec", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%d h %d min", int(d.Hours()), int(d.Minutes())%60)
}
