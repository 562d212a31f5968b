package shopping

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/shopping"
)

// ErrQueueClosed is returned by Submit after Close
var ErrQueueClosed = errors.New("command queue is closed")

// Result is what a list command produces
type Result struct {
	Entry *shopping.Entry
	// Moved counts entries transferred by a merge
	Moved int
}

// Task is one unit of work run in a list's slot
type Task func(ctx context.Context) (Result, error)

// QueueConfig holds configuration for the command queue
type QueueConfig struct {
	// Buffer is how many commands may wait per list before Submit blocks
	Buffer int
	// IdleTimeout is how long a list's worker lingers without work
	IdleTimeout time.Duration
}

// DefaultQueueConfig returns the default configuration
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{Buffer: 16, IdleTimeout: 30 * time.Second}
}

// CommandQueue runs tasks for the same (owner, kind) strictly one at a time
// while different lists proceed in parallel. Each active list has its own
// worker goroutine, which exits after IdleTimeout without work.
//
// Thread Safety: Safe for concurrent use.
type CommandQueue struct {
	config QueueConfig

	mu      sync.Mutex
	workers map[shopping.Target]*listWorker
	closed  bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

type listWorker struct {
	jobs    chan job
	wake    chan struct{}
	pending int // guarded by CommandQueue.mu
}

type job struct {
	ctx   context.Context
	task  Task
	reply chan outcome
}

type outcome struct {
	result Result
	err    error
}

// NewCommandQueue creates a new CommandQueue
func NewCommandQueue(cfg QueueConfig) *CommandQueue {
	def := DefaultQueueConfig()
	if cfg.Buffer <= 0 {
		cfg.Buffer = def.Buffer
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}
	return &CommandQueue{
		config:  cfg,
		workers: make(map[shopping.Target]*listWorker),
		quit:    make(chan struct{}),
	}
}

// Do runs task in target's slot and waits for its result. If ctx ends while
// the task is still queued, Do returns ctx.Err() and the task runs with the
// cancelled context.
func (q *CommandQueue) Do(ctx context.Context, target shopping.Target, task Task) (Result, error) {
	w, err := q.acquire(target)
	if err != nil {
		return Result{}, err
	}

	j := job{ctx: ctx, task: task, reply: make(chan outcome, 1)}
	select {
	case w.jobs <- j:
	case <-ctx.Done():
		q.abandon(w)
		return Result{}, ctx.Err()
	}

	select {
	case o := <-j.reply:
		return o.result, o.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Active returns the number of lists that currently have a worker
func (q *CommandQueue) Active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.workers)
}

// Close stops accepting work, lets every queued task finish and waits for all
// workers to exit. Safe to call multiple times.
func (q *CommandQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.quit)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *CommandQueue) acquire(target shopping.Target) (*listWorker, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, ErrQueueClosed
	}
	w, ok := q.workers[target]
	if !ok {
		w = &listWorker{
			jobs: make(chan job, q.config.Buffer),
			wake: make(chan struct{}, 1),
		}
		q.workers[target] = w
		q.wg.Add(1)
		go q.run(target, w)
	}
	w.pending++
	return w, nil
}

// abandon releases a slot that was acquired but never sent
func (q *CommandQueue) abandon(w *listWorker) {
	q.mu.Lock()
	w.pending--
	q.mu.Unlock()
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (q *CommandQueue) run(target shopping.Target, w *listWorker) {
	defer q.wg.Done()

	idle := time.NewTimer(q.config.IdleTimeout)
	defer idle.Stop()
	quit := q.quit

	for {
		select {
		case j := <-w.jobs:
			j.reply <- execute(j)
			q.mu.Lock()
			w.pending--
			q.mu.Unlock()
			if q.retire(target, w, false) {
				return
			}
			idle.Reset(q.config.IdleTimeout)
		case <-w.wake:
			if q.retire(target, w, false) {
				return
			}
		case <-quit:
			quit = nil
			if q.retire(target, w, false) {
				return
			}
		case <-idle.C:
			if q.retire(target, w, true) {
				return
			}
			idle.Reset(q.config.IdleTimeout)
		}
	}
}

// retire removes the worker once nothing is pending. Outside an idle timeout
// it only does so while the queue is closing.
func (q *CommandQueue) retire(target shopping.Target, w *listWorker, idle bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if w.pending > 0 || (!idle && !q.closed) {
		return false
	}
	if q.workers[target] == w {
		delete(q.workers, target)
	}
	return true
}

func execute(j job) (o outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = outcome{err: fmt.Errorf("list command panicked: %v", r)}
		}
	}()
	result, err := j.task(j.ctx)
	return outcome{result: result, err: err}
}
