package healthcheck

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type fakeNotifier struct {
	texts []string
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func TestCheckTracksTransitions(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusNotFound)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	notifier := &fakeNotifier{}
	w := NewWorker(srv.URL, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	if !w.Up() {
		t.Fatal("Up() before first probe = false")
	}

	w.check(ctx)
	if !w.Up() || len(notifier.texts) != 0 {
		t.Fatalf("404 treated as down: up=%v texts=%v", w.Up(), notifier.texts)
	}

	status.Store(http.StatusBadGateway)
	w.check(ctx)
	w.check(ctx)
	if w.Up() || len(notifier.texts) != 1 || !strings.Contains(notifier.texts[0], "down") {
		t.Fatalf("after outage up=%v texts=%v", w.Up(), notifier.texts)
	}

	status.Store(http.StatusOK)
	w.check(ctx)
	if !w.Up() || len(notifier.texts) != 2 || !strings.Contains(notifier.texts[1], "2 failed checks") {
		t.Errorf("after recovery up=%v texts=%v", w.Up(), notifier.texts)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		30 * time.Second:            "30 sec",
		90 * time.Second:            "1 min 30 sec",
		2*time.Hour + 5*time.Minute: "2 h 5 min",
	}
	for d, want := range tests {
		if got := formatDuration(d); got != want {
			t.Errorf("formatDuration(%s) = %q, want %q", d, got, want)
		}
	}
}
