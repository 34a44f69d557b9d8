package bridge

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"token_pulse/internal/domain"
	"token_pulse/internal/infra"
	"token_pulse/internal/store"

	"github.com/benbjohnson/clock"
)

// DefaultRetryDelay is how long an activation on an empty store waits before looking again.
const DefaultRetryDelay = 100 * time.Millisecond

// Store is the part of the token store the bridge needs.
type Store interface {
	All() []domain.Token
	ApplyPriceUpdate(u domain.PriceUpdate) (domain.TokenStatus, bool)
	OnChange(fn func(store.Change)) (unsubscribe func())
}

// Bridge keeps a price feed subscribed to the store's current token set and
// writes every received batch back into the store.
type Bridge struct {
	store      Store
	feed       domain.PriceFeed
	clock      clock.Clock
	metrics    *infra.Metrics
	retryDelay time.Duration

	// active is read on the delivery path without mu.
	active atomic.Bool
	// delivery is held for reading while a batch is written to the store.
	// Deactivate takes it for writing to wait out the batch in flight.
	delivery sync.RWMutex

	mu          sync.Mutex
	unsubscribe func()
	unwatch     func()
	retry       *clock.Timer
	retryGen    uint64
}

// New creates an inactive bridge. A nil clock means the wall clock; a non-positive
// retryDelay means DefaultRetryDelay.
func New(s Store, feed domain.PriceFeed, clk clock.Clock, metrics *infra.Metrics, retryDelay time.Duration) *Bridge {
	if clk == nil {
		clk = clock.New()
	}
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Bridge{
		store:      s,
		feed:       feed,
		clock:      clk,
		metrics:    metrics,
		retryDelay: retryDelay,
	}
}

// Activate starts the feed with the store's combined token set. On an empty store it
// retries once after the retry delay and otherwise waits for the store to be seeded.
// Calling Activate on an active bridge does nothing.
func (b *Bridge) Activate() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active.Load() {
		return
	}
	b.active.Store(true)
	b.unwatch = b.store.OnChange(b.onStoreChange)

	if !b.syncLocked() {
		b.scheduleRetryLocked()
	}
	slog.Info("Feed bridge activated", slog.Bool("feed_running", b.feed.Running()))
}

// Deactivate unsubscribes from the feed and then stops it. Once it returns no
// further update reaches the store. Calling it on an inactive bridge does nothing.
// It must not be called from a store watcher, which runs inside batch delivery.
func (b *Bridge) Deactivate() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active.Load() {
		return
	}
	b.active.Store(false)
	b.cancelRetryLocked()

	// 진행 중인 배치가 끝날 때까지 대기
	b.delivery.Lock()
	b.delivery.Unlock()

	if b.unwatch != nil {
		b.unwatch()
		b.unwatch = nil
	}
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.feed.Stop()
	slog.Info("Feed bridge deactivated")
}

// Active reports whether the bridge is between Activate and Deactivate.
func (b *Bridge) Active() bool {
	return b.active.Load()
}

// syncLocked pushes the current token set to the feed. A running feed gets its
// baseline rebuilt to exactly that set so the ticker keeps its schedule; an emptied
// store stops it. It reports false when the store had nothing to register.
// Must be called with lock held.
func (b *Bridge) syncLocked() bool {
	tokens := b.store.All()
	if len(tokens) == 0 {
		if b.feed.Running() {
			b.feed.Stop()
			slog.Info("Price feed paused: store emptied")
		}
		return false
	}
	b.cancelRetryLocked()

	if b.unsubscribe == nil {
		b.unsubscribe = b.feed.Subscribe(b.handleBatch)
	}
	if b.feed.Running() {
		b.feed.ReplaceTokens(tokens)
		return true
	}
	b.feed.Start(tokens)
	return true
}

// scheduleRetryLocked must be called with lock held.
func (b *Bridge) scheduleRetryLocked() {
	b.retryGen++
	gen := b.retryGen
	b.retry = b.clock.AfterFunc(b.retryDelay, func() { b.retryOnce(gen) })
	slog.Debug("Feed bridge waiting for tokens", slog.Duration("retry_in", b.retryDelay))
}

// cancelRetryLocked must be called with lock held.
func (b *Bridge) cancelRetryLocked() {
	if b.retry == nil {
		return
	}
	b.retry.Stop()
	b.retry = nil
	b.retryGen++
}

func (b *Bridge) retryOnce(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active.Load() || gen != b.retryGen {
		return
	}
	b.retry = nil
	if !b.syncLocked() {
		slog.Debug("Feed bridge idle: store still empty after retry")
	}
}

func (b *Bridge) onStoreChange(change store.Change) {
	// Price writes come from this bridge; only membership changes matter here.
	if change.Kind != store.ChangeMembership {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active.Load() {
		return
	}
	b.syncLocked()
}

// handleBatch resolves every update against the store as it is now, not as it was
// when the feed was started.
func (b *Bridge) handleBatch(batch domain.Batch) {
	b.delivery.RLock()
	defer b.delivery.RUnlock()

	var applied, dropped int
	for _, u := range batch.Updates {
		if !b.active.Load() {
			break
		}

		if _, ok := b.store.ApplyPriceUpdate(u); !ok {
			dropped++
			slog.Debug("Price update dropped: unknown token",
				slog.String("token_id", u.TokenID),
				slog.Uint64("seq", batch.Seq),
			)
			continue
		}
		applied++
	}

	b.metrics.RecordApplied(applied)
	b.metrics.RecordDropped(dropped)
}
