package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"token_pulse/internal/bridge"
	"token_pulse/internal/domain"
	"token_pulse/internal/feed"
	"token_pulse/internal/infra"
	"token_pulse/internal/store"
	"token_pulse/internal/view"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

// Options configures a DashboardService. Zero values fall back to the feed and bridge defaults.
type Options struct {
	Feed       feed.Config
	RetryDelay time.Duration
	Clock      clock.Clock
	Metrics    *infra.Metrics
}

// DashboardService wires the token store, the price feed, the bridge between them
// and the per-column views into one dashboard session.
type DashboardService struct {
	catalog domain.TokenCatalog
	clock   clock.Clock
	metrics *infra.Metrics

	store  *store.Store
	feed   *feed.Simulator
	bridge *bridge.Bridge
	board  *view.Board

	mu        sync.RWMutex
	sessionID string
	seededAt  time.Time
}

// NewDashboardService creates a stopped, empty dashboard. catalog may be nil when
// the caller seeds through Reset only.
func NewDashboardService(catalog domain.TokenCatalog, opts Options) (*DashboardService, error) {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	st := store.New()
	board, err := view.NewBoard(st)
	if err != nil {
		return nil, err
	}
	sim := feed.NewSimulator(opts.Feed, clk, opts.Metrics)

	return &DashboardService{
		catalog: catalog,
		clock:   clk,
		metrics: opts.Metrics,
		store:   st,
		feed:    sim,
		bridge:  bridge.New(st, sim, clk, opts.Metrics, opts.RetryDelay),
		board:   board,
	}, nil
}

// Seed loads the catalog into the store, replacing the current session.
func (s *DashboardService) Seed() error {
	if s.catalog == nil {
		return fmt.Errorf("seed: no catalog configured")
	}
	seed, err := s.catalog.LoadSeed()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return s.Reset(seed)
}

// Reset replaces every column and starts a new session. A running feed keeps its
// schedule and picks up the new token set.
func (s *DashboardService) Reset(seed domain.Seed) error {
	if err := s.store.Reset(seed); err != nil {
		return err
	}

	s.mu.Lock()
	s.sessionID = uuid.NewString()
	s.seededAt = s.clock.Now()
	id := s.sessionID
	s.mu.Unlock()

	slog.Info("Dashboard seeded",
		slog.String("session", id),
		slog.Int("tokens", seed.Len()),
	)
	return nil
}

// Start connects the feed to the store.
func (s *DashboardService) Start() {
	s.bridge.Activate()
}

// Stop disconnects the feed. No update reaches the store after it returns.
func (s *DashboardService) Stop() {
	s.bridge.Deactivate()
}

// Close stops the dashboard and waits for the feed goroutine.
func (s *DashboardService) Close() {
	s.Stop()
	s.feed.Close()
}

// Running reports whether the feed is ticking.
func (s *DashboardService) Running() bool {
	return s.feed.Running()
}

// View returns one projected column.
func (s *DashboardService) View(status domain.TokenStatus) (view.ColumnView, error) {
	return s.board.View(status)
}

// Views returns every projected column in display order.
func (s *DashboardService) Views() []view.ColumnView {
	return s.board.Views()
}

// CycleSort advances the column's header sort.
func (s *DashboardService) CycleSort(status domain.TokenStatus) (domain.SortSpec, error) {
	return s.board.CycleSort(status)
}

// SelectSort sorts the column by key, or flips the direction if key is already in effect.
func (s *DashboardService) SelectSort(status domain.TokenStatus, key domain.SortKey) (domain.SortSpec, error) {
	return s.board.SelectSort(status, key)
}

// ToggleDirection flips the column's sort direction.
func (s *DashboardService) ToggleDirection(status domain.TokenStatus) (domain.SortSpec, error) {
	return s.board.ToggleDirection(status)
}

// SetFilter sets the column's search text.
func (s *DashboardService) SetFilter(status domain.TokenStatus, text string) error {
	return s.board.SetFilter(status, text)
}

// Move transfers a token to another column.
func (s *DashboardService) Move(id string, to domain.TokenStatus) error {
	if err := s.store.Move(id, to); err != nil {
		return err
	}
	slog.Info("Token moved", slog.String("token_id", id), slog.String("to", string(to)))
	return nil
}

// Lookup returns the live record for id.
func (s *DashboardService) Lookup(id string) (domain.Token, domain.TokenStatus, bool) {
	return s.store.Lookup(id)
}

// SessionID identifies the current seeding. It is empty before the first Reset.
func (s *DashboardService) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// FeedStatus returns the feed's connection-like state.
func (s *DashboardService) FeedStatus() feed.Status {
	return s.feed.Status()
}
