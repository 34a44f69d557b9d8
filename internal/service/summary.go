package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"token_pulse/internal/domain"
	"token_pulse/internal/feed"
	"token_pulse/internal/infra"
	"token_pulse/internal/view"

	"github.com/shopspring/decimal"
)

// ColumnSummary aggregates one column.
type ColumnSummary struct {
	Status    domain.TokenStatus
	Title     string
	Count     int
	MarketCap decimal.Decimal
	Volume    decimal.Decimal
	Holders   int64
	TopMover  string // ID with the largest absolute 24h change
	TopChange decimal.Decimal
}

// Summary is a point-in-time digest of the dashboard.
type Summary struct {
	SessionID string
	SeededAt  time.Time
	Columns   []ColumnSummary
	Feed      feed.Status
	Metrics   infra.MetricsSnapshot
}

// Summary aggregates the store by column, in display order.
func (s *DashboardService) Summary() Summary {
	s.mu.RLock()
	sum := Summary{SessionID: s.sessionID, SeededAt: s.seededAt}
	s.mu.RUnlock()

	for _, status := range domain.Statuses {
		sum.Columns = append(sum.Columns, summarize(status, s.store.Column(status)))
	}
	sum.Feed = s.feed.Status()
	sum.Metrics = s.metrics.Snapshot()
	return sum
}

func summarize(status domain.TokenStatus, tokens []domain.Token) ColumnSummary {
	c := ColumnSummary{Status: status, Title: status.Title(), Count: len(tokens)}
	for _, t := range tokens {
		c.MarketCap = c.MarketCap.Add(t.MarketCap)
		c.Volume = c.Volume.Add(t.Volume)
		c.Holders += t.Holders
		if c.TopMover == "" || t.PriceChange24h.Abs().GreaterThan(c.TopChange.Abs()) {
			c.TopMover = t.ID
			c.TopChange = t.PriceChange24h
		}
	}
	return c
}

// Tokens returns the total number of tokens across columns.
func (s Summary) Tokens() int {
	n := 0
	for _, c := range s.Columns {
		n += c.Count
	}
	return n
}

// String renders the summary as the console's text table.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "session %s | feed running=%t ticks=%d subscribers=%d\n",
		s.SessionID, s.Feed.Running, s.Feed.Ticks, s.Feed.Subscribers)
	for _, c := range s.Columns {
		fmt.Fprintf(&b, "  %-14s %4d tokens  MC %-10s Vol %-10s holders %s",
			c.Title, c.Count, view.FormatCurrency(c.MarketCap), view.FormatCurrency(c.Volume), view.FormatCount(c.Holders))
		if c.TopMover != "" {
			fmt.Fprintf(&b, "  top %s %s", c.TopMover, view.FormatPercent(c.TopChange))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  updates applied=%s dropped=%s",
		view.FormatCount(int64(s.Metrics.UpdatesApplied)), view.FormatCount(int64(s.Metrics.UpdatesDropped)))
	return b.String()
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("session", s.SessionID),
		slog.Bool("feed_running", s.Feed.Running),
		slog.Uint64("ticks", s.Feed.Ticks),
		slog.Uint64("applied", s.Metrics.UpdatesApplied),
		slog.Uint64("dropped", s.Metrics.UpdatesDropped),
	}
	for _, c := range s.Columns {
		attrs = append(attrs, slog.Group(string(c.Status),
			slog.Int("count", c.Count),
			slog.String("market_cap", c.MarketCap.StringFixed(2)),
			slog.String("top_mover", c.TopMover),
		))
	}
	return slog.GroupValue(attrs...)
}
