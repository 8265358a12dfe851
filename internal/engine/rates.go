package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/utility-hub/internal/domain"
	"github.com/couchcryptid/utility-hub/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// SnapshotPublisher forwards a resolved rate snapshot to an external sink.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap domain.RateSnapshot) error
}

// RateProvider fetches the currency rate table once, in the background, and
// publishes it atomically. Any fetch failure publishes the offline fallback
// table instead; there is no retry and no refresh.
type RateProvider struct {
	fetcher   domain.RateFetcher
	publisher SnapshotPublisher
	timeout   time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	snapshot atomic.Pointer[domain.RateSnapshot]
	once     sync.Once
	done     chan struct{}

	mu    sync.Mutex // guards hooks and serializes publish against OnPublish
	hooks []func(domain.RateSnapshot)
}

// NewRateProvider creates a RateProvider. A nil fetcher always yields offline
// rates, a nil publisher disables the external sink, and a nil clock uses real time.
func NewRateProvider(fetcher domain.RateFetcher, publisher SnapshotPublisher, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *RateProvider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RateProvider{
		fetcher:   fetcher,
		publisher: publisher,
		timeout:   timeout,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		done:      make(chan struct{}),
	}
}

// Start launches the fetch in its own goroutine. Only the first call has any effect.
func (p *RateProvider) Start(ctx context.Context) {
	p.once.Do(func() {
		go p.run(ctx)
	})
}

// OnPublish registers fn to run once the table is published. If the table is
// already published, fn runs immediately on the caller's goroutine.
func (p *RateProvider) OnPublish(fn func(domain.RateSnapshot)) {
	p.mu.Lock()
	snap := p.snapshot.Load()
	if snap == nil {
		p.hooks = append(p.hooks, fn)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	fn(*snap)
}

// Rates returns the published table, or nil before publication. Callers must not modify it.
func (p *RateProvider) Rates() domain.RateTable {
	if snap := p.snapshot.Load(); snap != nil {
		return snap.Rates
	}
	return nil
}

// Snapshot returns the published snapshot and true, or false before publication.
func (p *RateProvider) Snapshot() (domain.RateSnapshot, bool) {
	if snap := p.snapshot.Load(); snap != nil {
		return *snap, true
	}
	return domain.RateSnapshot{}, false
}

// Loaded reports whether a rate table has been published.
func (p *RateProvider) Loaded() bool {
	return p.snapshot.Load() != nil
}

// Status returns the human-readable rate status label.
func (p *RateProvider) Status() string {
	if snap := p.snapshot.Load(); snap != nil {
		return snap.Status
	}
	return domain.StatusFetching
}

// CheckReadiness returns nil once rates are published, so the ops listener
// reports ready only when currency conversion can succeed.
func (p *RateProvider) CheckReadiness(_ context.Context) error {
	if !p.Loaded() {
		return errors.New("currency rates have not been published yet")
	}
	return nil
}

// Wait blocks until the snapshot is published, hooks have run, and the
// external sink (if any) has been attempted, or until ctx is cancelled.
func (p *RateProvider) Wait(ctx context.Context) (domain.RateSnapshot, error) {
	select {
	case <-p.done:
		snap, _ := p.Snapshot()
		return snap, nil
	case <-ctx.Done():
		return domain.RateSnapshot{}, ctx.Err()
	}
}

func (p *RateProvider) run(ctx context.Context) {
	defer close(p.done)

	snap := p.resolve(ctx)
	p.publish(snap)
	p.forward(ctx, snap)
}

// resolve fetches live rates, degrading to the fallback table on any failure.
func (p *RateProvider) resolve(ctx context.Context) domain.RateSnapshot {
	snap := domain.RateSnapshot{
		ID:   uuid.NewString(),
		Base: domain.BaseCurrency,
	}

	rates, err := p.fetch(ctx)
	snap.FetchedAt = p.clock.Now()
	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrMissingAPIKey) {
			outcome = "skipped"
		}
		p.metrics.RateFetches.WithLabelValues(outcome).Inc()
		p.logger.Warn("using offline currency rates",
			"error", fmt.Errorf("%w: %w", domain.ErrRemoteFetchFailed, err),
			"outcome", outcome,
		)
		snap.Rates = domain.FallbackRates()
		snap.Source = domain.RateSourceOffline
		snap.Status = domain.StatusOffline
		return snap
	}

	p.metrics.RateFetches.WithLabelValues("success").Inc()
	snap.Rates = rates
	snap.Source = domain.RateSourceLive
	snap.Status = domain.UpdatedStatus(snap.FetchedAt.Format("15:04"))
	return snap
}

func (p *RateProvider) fetch(ctx context.Context) (domain.RateTable, error) {
	if p.fetcher == nil {
		return nil, domain.ErrMissingAPIKey
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	rates, err := p.fetcher.FetchRates(fetchCtx, domain.BaseCurrency)
	if err != nil {
		return nil, err
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return rates.Clone(), nil
}

// publish stores the snapshot in one atomic swap and runs the registered hooks.
func (p *RateProvider) publish(snap domain.RateSnapshot) {
	p.mu.Lock()
	p.snapshot.Store(&snap)
	hooks := slices.Clone(p.hooks)
	p.hooks = nil
	p.mu.Unlock()

	p.metrics.RatesLoaded.Set(1)
	if snap.Offline() {
		p.metrics.RatesOffline.Set(1)
	}
	p.logger.Info("currency rates published",
		"snapshot_id", snap.ID,
		"source", snap.Source,
		"currencies", len(snap.Rates),
		"status", snap.Status,
	)

	for _, fn := range hooks {
		fn(snap)
	}
}

// forward hands the snapshot to the external sink. Failures are logged only.
func (p *RateProvider) forward(ctx context.Context, snap domain.RateSnapshot) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishSnapshot(ctx, snap); err != nil {
		p.metrics.SnapshotsPublished.WithLabelValues("error").Inc()
		p.logger.Error("publish rate snapshot failed", "snapshot_id", snap.ID, "error", err)
		return
	}
	p.metrics.SnapshotsPublished.WithLabelValues("success").Inc()
}
