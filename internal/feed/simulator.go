package feed

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"token_pulse/internal/domain"
	"token_pulse/internal/infra"
	"token_pulse/pkg/listeners"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
)

const (
	// DefaultInterval is the time between two batches.
	DefaultInterval = 2 * time.Second
	// DefaultMaxChange bounds the per-tick relative price change to ±10%.
	DefaultMaxChange = 0.10
)

// DefaultMinPrice is the floor a simulated price can never go below.
var DefaultMinPrice = decimal.New(1, -6)

// Config holds the simulator tunables.
type Config struct {
	Interval  time.Duration
	MaxChange float64         // symmetric bound of the per-tick relative change
	MinPrice  decimal.Decimal // price floor, must be positive
	Seed      uint64          // 0 picks a random seed
}

// DefaultConfig returns the dashboard defaults: 2s ticks, ±10%, floor 1e-6.
func DefaultConfig() Config {
	return Config{
		Interval:  DefaultInterval,
		MaxChange: DefaultMaxChange,
		MinPrice:  DefaultMinPrice,
	}
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.MaxChange <= 0 {
		c.MaxChange = DefaultMaxChange
	}
	if !c.MinPrice.IsPositive() {
		c.MinPrice = DefaultMinPrice
	}
	return c
}

// Status is a point-in-time view of the simulator, the stand-in for a socket's connection state.
type Status struct {
	Running       bool
	Registered    int
	Subscribers   int
	Ticks         uint64
	LastBatchAt   time.Time
	LastBatchSize int
}

// Simulator produces a batch of random-walk price updates for every registered token on each tick.
// It implements domain.PriceFeed.
type Simulator struct {
	cfg     Config
	clock   clock.Clock
	metrics *infra.Metrics

	mu            sync.Mutex
	rng           *rand.Rand
	baseline      map[string]domain.Token
	order         []string // registration order, the order updates appear in a batch
	running       bool
	gen           uint64 // bumped on every start/stop so stale ticks can tell
	cancel        context.CancelFunc
	ticker        *clock.Ticker
	seq           uint64
	ticks         uint64
	lastBatchAt   time.Time
	lastBatchSize int

	subscribers listeners.Set[func(domain.Batch)]
	wg          sync.WaitGroup
}

// NewSimulator creates a stopped simulator. A nil clock means the wall clock.
func NewSimulator(cfg Config, clk clock.Clock, metrics *infra.Metrics) *Simulator {
	cfg = cfg.withDefaults()
	if clk == nil {
		clk = clock.New()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Simulator{
		cfg:     cfg,
		clock:   clk,
		metrics: metrics,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Start registers tokens and begins ticking. A running simulator is stopped first,
// so Start always replaces the registered set. An empty set leaves the simulator stopped.
func (f *Simulator) Start(tokens []domain.Token) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running {
		f.stopLocked()
	}
	if len(tokens) == 0 {
		slog.Debug("Price feed start skipped: no tokens")
		return
	}

	f.baseline = make(map[string]domain.Token, len(tokens))
	f.order = make([]string, 0, len(tokens))
	f.registerLocked(tokens)

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.gen++
	f.running = true
	f.ticker = f.clock.Ticker(f.cfg.Interval)

	f.wg.Add(1)
	go f.run(ctx, f.ticker, f.gen)

	f.metrics.SetFeedRunning(true)
	slog.Info("Price feed started",
		slog.Int("tokens", len(f.order)),
		slog.Duration("interval", f.cfg.Interval),
	)
}

// Stop cancels the ticker and discards the registered set. Safe to call when stopped.
// It does not wait for an in-flight dispatch; use Close for that.
func (f *Simulator) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()
}

// Close stops the simulator and waits for its goroutine to exit.
// Must not be called from a subscriber.
func (f *Simulator) Close() {
	f.Stop()
	f.wg.Wait()
}

// stopLocked must be called with lock held.
func (f *Simulator) stopLocked() {
	if !f.running {
		return
	}
	f.ticker.Stop()
	f.cancel()
	f.ticker = nil
	f.cancel = nil
	f.running = false
	f.gen++
	f.baseline = nil
	f.order = nil

	f.metrics.SetFeedRunning(false)
	slog.Info("Price feed stopped")
}

// Subscribe registers fn for every batch. The returned function removes exactly this
// registration and may be called from inside fn.
func (f *Simulator) Subscribe(fn func(domain.Batch)) (unsubscribe func()) {
	remove := f.subscribers.Add(fn)
	f.metrics.SetSubscribers(f.subscribers.Len())
	return func() {
		remove()
		f.metrics.SetSubscribers(f.subscribers.Len())
	}
}

// UpdateTokens refreshes the baseline of the given tokens without touching the ticker.
// Unknown IDs are added to the walk. It is a no-op while stopped or for an empty set.
func (f *Simulator) UpdateTokens(tokens []domain.Token) {
	if len(tokens) == 0 {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		slog.Debug("Price feed baseline update ignored: not running", slog.Int("tokens", len(tokens)))
		return
	}
	f.registerLocked(tokens)
}

// ReplaceTokens rebuilds the baseline to exactly the given set without touching the ticker.
// IDs missing from tokens leave the walk. It is a no-op while stopped or for an empty set.
func (f *Simulator) ReplaceTokens(tokens []domain.Token) {
	if len(tokens) == 0 {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		slog.Debug("Price feed baseline replace ignored: not running", slog.Int("tokens", len(tokens)))
		return
	}
	f.baseline = make(map[string]domain.Token, len(tokens))
	f.order = make([]string, 0, len(tokens))
	f.registerLocked(tokens)
}

// Running reports whether the ticker is active.
func (f *Simulator) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Status returns a snapshot of the simulator state.
func (f *Simulator) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Status{
		Running:       f.running,
		Registered:    len(f.order),
		Subscribers:   f.subscribers.Len(),
		Ticks:         f.ticks,
		LastBatchAt:   f.lastBatchAt,
		LastBatchSize: f.lastBatchSize,
	}
}

// registerLocked must be called with lock held.
func (f *Simulator) registerLocked(tokens []domain.Token) {
	for _, t := range tokens {
		if t.ID == "" {
			continue
		}
		if _, ok := f.baseline[t.ID]; !ok {
			f.order = append(f.order, t.ID)
		}
		f.baseline[t.ID] = t
	}
}

func (f *Simulator) run(ctx context.Context, ticker *clock.Ticker, gen uint64) {
	defer f.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.tick(gen)
		}
	}
}

func (f *Simulator) tick(gen uint64) {
	started := time.Now()

	batch, ok := f.nextBatch(gen)
	if !ok {
		return
	}

	for _, fn := range f.subscribers.Snapshot() {
		if !f.isCurrent(gen) {
			// Stopped mid-dispatch: remaining subscribers never see this batch.
			return
		}
		f.deliver(fn, batch)
	}

	f.metrics.RecordTick(batch.Len(), time.Since(started))
}

// nextBatch advances the random walk one step for every registered token.
func (f *Simulator) nextBatch(gen uint64) (domain.Batch, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running || gen != f.gen || len(f.order) == 0 {
		return domain.Batch{}, false
	}

	now := f.clock.Now()
	updates := make([]domain.PriceUpdate, 0, len(f.order))
	for _, id := range f.order {
		t := f.baseline[id]

		change := (f.rng.Float64()*2 - 1) * f.cfg.MaxChange
		price := Perturb(t.Price, change, f.cfg.MinPrice)
		u := domain.PriceUpdate{
			TokenID:        id,
			Price:          price,
			PriceChange24h: ChangePercent(change),
			Timestamp:      now,
		}
		if !t.MarketCap.IsZero() {
			mc := ScaleByRatio(t.MarketCap, t.Price, price)
			u.MarketCap = &mc
			t.MarketCap = mc
		}

		t.Price = u.Price
		t.PriceChange24h = u.PriceChange24h
		f.baseline[id] = t
		updates = append(updates, u)
	}

	f.seq++
	f.ticks++
	f.lastBatchAt = now
	f.lastBatchSize = len(updates)
	return domain.Batch{Seq: f.seq, At: now, Updates: updates}, true
}

func (f *Simulator) isCurrent(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running && gen == f.gen
}

func (f *Simulator) deliver(fn func(domain.Batch), batch domain.Batch) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Price feed subscriber panic recovered",
				slog.Any("panic", r),
				slog.Uint64("seq", batch.Seq),
			)
		}
	}()
	fn(batch)
}

var _ domain.PriceFeed = (*Simulator)(nil)
