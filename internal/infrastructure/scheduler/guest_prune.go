package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// GuestPruneTaskName identifies the guest list prune in logs
const GuestPruneTaskName = "guest_list_prune"

// GuestListPruner deletes guest list entries untouched since cutoff
type GuestListPruner interface {
	PruneGuestLists(ctx context.Context, cutoff time.Time) (int64, error)
}

// PruneRecorder receives the number of entries removed by each run
type PruneRecorder interface {
	RecordGuestPrune(ctx context.Context, removed int64)
}

// GuestPruneTask removes carts left behind by guest sessions that expired
// without signing in. Guest sessions cannot outlive maxAge, so anything older
// is unreachable.
type GuestPruneTask struct {
	pruner   GuestListPruner
	maxAge   time.Duration
	recorder PruneRecorder
	now      func() time.Time
	logger   *zap.Logger
}

// NewGuestPruneTask creates the prune task
func NewGuestPruneTask(pruner GuestListPruner, maxAge time.Duration, logger *zap.Logger) *GuestPruneTask {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuestPruneTask{
		pruner: pruner,
		maxAge: maxAge,
		now:    time.Now,
		logger: logger,
	}
}

// SetRecorder attaches a metrics recorder
func (t *GuestPruneTask) SetRecorder(r PruneRecorder) {
	t.recorder = r
}

func (t *GuestPruneTask) Name() string { return GuestPruneTaskName }

// Run deletes every guest entry last updated before now - maxAge
func (t *GuestPruneTask) Run(ctx context.Context) error {
	cutoff := t.now().Add(-t.maxAge)
	removed, err := t.pruner.PruneGuestLists(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune guest lists: %w", err)
	}
	if t.recorder != nil {
		t.recorder.RecordGuestPrune(ctx, removed)
	}
	if removed > 0 {
		t.logger.Info("Pruned abandoned guest lists",
			zap.Int64("entries_removed", removed),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}
