package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTrigger submits its tasks to a scheduler on a fixed interval
type IntervalTrigger struct {
	interval  time.Duration
	runAtBoot bool
	scheduler *Scheduler
	tasks     []Task
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// TriggerOption configures an IntervalTrigger
type TriggerOption func(*IntervalTrigger)

// WithRunAtStart submits every task once as soon as the trigger starts
func WithRunAtStart() TriggerOption {
	return func(t *IntervalTrigger) { t.runAtBoot = true }
}

// NewIntervalTrigger creates a trigger for tasks
func NewIntervalTrigger(interval time.Duration, scheduler *Scheduler, logger *zap.Logger, tasks []Task, opts ...TriggerOption) *IntervalTrigger {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &IntervalTrigger{
		interval:  interval,
		scheduler: scheduler,
		tasks:     tasks,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start starts the trigger loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	if t.interval <= 0 {
		return ErrInvalidConfig
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Interval trigger started",
		zap.Duration("interval", t.interval),
		zap.Int("tasks", len(t.tasks)),
	)
	return nil
}

// Stop stops the trigger loop
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.cancel()
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Interval trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.runAtBoot {
		t.fire()
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fire()
		}
	}
}

// fire submits every task once
func (t *IntervalTrigger) fire() {
	for _, task := range t.tasks {
		if _, err := t.scheduler.SubmitTask(task); err != nil {
			t.logger.Warn("Failed to submit scheduled task",
				zap.String("task", task.Name()),
				zap.Error(err),
			)
		}
	}
}
