package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	applog "expenses/internal/log"
)

// Loader re-populates the mirror from the persistence layer.
type Loader interface {
	Load(ctx context.Context) error
}

// RefreshWorker reloads the mirror on a cron schedule. A reload never
// merges; it replaces the mirror or empties it on failure.
type RefreshWorker struct {
	cron     *cron.Cron
	loader   Loader
	schedule string
	timeout  time.Duration
	logger   *applog.Logger

	mu   sync.Mutex
	runs int
}

// NewRefreshWorker parses schedule (standard five field syntax or
// descriptors such as "@every 5m"). An empty schedule yields a worker whose
// Run only waits for ctx.
func NewRefreshWorker(loader Loader, schedule string, timeout time.Duration, logger *applog.Logger) (*RefreshWorker, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	w := &RefreshWorker{
		cron:     cron.New(),
		loader:   loader,
		schedule: schedule,
		timeout:  timeout,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
	if schedule == "" {
		return w, nil
	}
	if _, err := w.cron.AddFunc(schedule, w.refresh); err != nil {
		return nil, fmt.Errorf("register refresh task: %w", err)
	}
	return w, nil
}

// Enabled reports whether a schedule was configured.
func (w *RefreshWorker) Enabled() bool { return w.schedule != "" }

// Run starts the scheduler and blocks until ctx is done, then waits for a
// running refresh to finish.
func (w *RefreshWorker) Run(ctx context.Context) error {
	if !w.Enabled() {
		w.logger.Info("Refresh worker disabled")
		<-ctx.Done()
		return nil
	}

	w.cron.Start()
	w.logger.Info("Refresh worker started", "schedule", w.schedule)

	<-ctx.Done()
	<-w.cron.Stop().Done()
	w.logger.Info("Refresh worker stopped")
	return nil
}

// Runs returns how many refreshes have been attempted.
func (w *RefreshWorker) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

func (w *RefreshWorker) refresh() {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	w.mu.Lock()
	w.runs++
	w.mu.Unlock()

	start := time.Now()
	if err := w.loader.Load(ctx); err != nil {
		w.logger.Error("Scheduled refresh failed",
			applog.FieldOperation, applog.OpRefresh,
			applog.FieldError, err)
		return
	}
	w.logger.Debug("Scheduled refresh done",
		applog.FieldOperation, applog.OpRefresh,
		applog.FieldDuration, time.Since(start).Milliseconds())
}
