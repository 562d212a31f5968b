package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// StoreMetrics tracks storefront activity: sign-ins, list mutations,
// checkouts, backend calls and catalog cache efficiency.
type StoreMetrics struct {
	logger *zap.Logger

	signInTotal      *Counter
	listCommandTotal *Counter
	orderTotal       *Counter
	orderAmountTotal *Counter
	cacheTotal       *Counter
	denialTotal      *Counter
	remoteDuration   *Histogram
	listEntries      *Gauge
	prunedTotal      *Counter

	listStats ListStatsProvider

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
	wg          sync.WaitGroup
}

// ListEntryCount is the stored entry count for one (kind, owner type) pair
type ListEntryCount struct {
	Kind      string
	OwnerType string
	Entries   int64
}

// ListStatsProvider reports persisted cart and wishlist sizes
type ListStatsProvider interface {
	CountEntries(ctx context.Context) ([]ListEntryCount, error)
}

// StoreMetricsConfig holds configuration for store metrics.
type StoreMetricsConfig struct {
	Meter     metric.Meter
	Logger    *zap.Logger
	ListStats ListStatsProvider
}

// NewStoreMetrics creates the storefront instruments.
func NewStoreMetrics(cfg StoreMetricsConfig) (*StoreMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &StoreMetrics{
		logger:    logger,
		listStats: cfg.ListStats,
		stopChan:  make(chan struct{}),
	}

	var err error
	if sm.signInTotal, err = NewCounter(cfg.Meter, "store_sign_in_total", "Sign-in attempts by outcome", "{attempts}"); err != nil {
		return nil, err
	}
	if sm.listCommandTotal, err = NewCounter(cfg.Meter, "store_list_command_total", "Cart and wishlist commands by kind, operation and outcome", "{commands}"); err != nil {
		return nil, err
	}
	if sm.orderTotal, err = NewCounter(cfg.Meter, "store_order_placed_total", "Orders placed through checkout", "{orders}"); err != nil {
		return nil, err
	}
	if sm.orderAmountTotal, err = NewCounter(cfg.Meter, "store_order_amount_total", "Placed order amount in cents", "{cents}"); err != nil {
		return nil, err
	}
	if sm.cacheTotal, err = NewCounter(cfg.Meter, "store_catalog_cache_total", "Catalog cache lookups by outcome", "{lookups}"); err != nil {
		return nil, err
	}
	if sm.denialTotal, err = NewCounter(cfg.Meter, "store_session_gate_denied_total", "Requests turned away by the session gate", "{requests}"); err != nil {
		return nil, err
	}
	if sm.remoteDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "store_backend_request_duration_seconds",
		Description: "Latency of calls to the REST backend",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if sm.prunedTotal, err = NewCounter(cfg.Meter, "store_guest_entries_pruned_total", "Abandoned guest list entries removed by the janitor", "{entries}"); err != nil {
		return nil, err
	}
	if sm.listEntries, err = NewGauge(cfg.Meter, "store_list_entries", "Persisted cart and wishlist entries", "{entries}"); err != nil {
		return nil, err
	}
	return sm, nil
}

// RecordSignIn counts one sign-in attempt
func (sm *StoreMetrics) RecordSignIn(ctx context.Context, ok bool) {
	sm.signInTotal.Inc(ctx, AttrOutcome.String(outcome(ok)))
}

// RecordListCommand counts one applied or rejected list command
func (sm *StoreMetrics) RecordListCommand(ctx context.Context, kind, operation string, err error) {
	sm.listCommandTotal.Inc(ctx,
		AttrListKind.String(kind),
		AttrListOperation.String(operation),
		AttrOutcome.String(outcome(err == nil)),
	)
}

// RecordOrder counts a placed order and its amount
func (sm *StoreMetrics) RecordOrder(ctx context.Context, paymentMethod string, amount decimal.Decimal) {
	attrs := AttrPaymentMethod.String(paymentMethod)
	sm.orderTotal.Inc(ctx, attrs)
	sm.orderAmountTotal.Add(ctx, amount.Shift(2).IntPart(), attrs)
}

// RecordCacheLookup counts a catalog cache hit or miss
func (sm *StoreMetrics) RecordCacheLookup(ctx context.Context, kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	sm.cacheTotal.Inc(ctx, AttrResourceKind.String(kind), AttrOutcome.String(result))
}

// RecordDenial counts a request rejected by a role guard
func (sm *StoreMetrics) RecordDenial(ctx context.Context, policy, code string) {
	sm.denialTotal.Inc(ctx, AttrPolicy.String(policy), AttrErrorCode.String(code))
}

// RecordRemoteCall records latency of one backend request
func (sm *StoreMetrics) RecordRemoteCall(ctx context.Context, method string, status int, d time.Duration) {
	sm.remoteDuration.RecordDuration(ctx, d,
		AttrRemoteMethod.String(method),
		AttrRemoteStatus.Int(status),
	)
}

// RecordGuestPrune counts entries removed by one janitor run
func (sm *StoreMetrics) RecordGuestPrune(ctx context.Context, removed int64) {
	sm.prunedTotal.Add(ctx, removed)
}

// StartPeriodicCollection samples list sizes every interval until Stop or ctx is done.
func (sm *StoreMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if sm.listStats == nil {
		return
	}
	sm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		sm.wg.Add(1)
		go sm.runPeriodicCollection(ctx, interval)
	})
}

func (sm *StoreMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	defer sm.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sm.collectListStats(ctx)
	for {
		select {
		case <-sm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.collectListStats(ctx)
		}
	}
}

func (sm *StoreMetrics) collectListStats(ctx context.Context) {
	counts, err := sm.listStats.CountEntries(ctx)
	if err != nil {
		sm.logger.Warn("Failed to collect list statistics", zap.Error(err))
		return
	}
	for _, c := range counts {
		sm.listEntries.Record(ctx, c.Entries, AttrListKind.String(c.Kind), AttrOwnerType.String(c.OwnerType))
	}
}

// Stop ends periodic collection and waits for the collector to exit.
func (sm *StoreMetrics) Stop() {
	sm.stopOnce.Do(func() {
		close(sm.stopChan)
	})
	sm.wg.Wait()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewStoreMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
