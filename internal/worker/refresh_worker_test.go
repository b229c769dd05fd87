package worker

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	applog "expenses/internal/log"
)

type countingLoader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (l *countingLoader) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.err
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: &bytes.Buffer{}})
}

func TestNewRefreshWorkerRejectsBadSchedule(t *testing.T) {
	if _, err := NewRefreshWorker(&countingLoader{}, "not a schedule", 0, quietLogger()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestDisabledWorkerWaitsForContext(t *testing.T) {
	w, err := NewRefreshWorker(&countingLoader{}, "", 0, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if w.Enabled() {
		t.Fatal("empty schedule should disable the worker")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRefreshCallsLoader(t *testing.T) {
	loader := &countingLoader{}
	w, err := NewRefreshWorker(loader, "@every 1h", time.Second, quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	w.refresh()
	loader.err = errors.New("remote down")
	w.refresh()

	if loader.calls != 2 || w.Runs() != 2 {
		t.Fatalf("calls=%d runs=%d", loader.calls, w.Runs())
	}
}

func TestScheduledRefresh(t *testing.T) {
	loader := &countingLoader{}
	w, err := NewRefreshWorker(loader, "@every 1s", time.Second, quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if w.Runs() < 1 {
		t.Fatal("expected at least one scheduled refresh")
	}
}
