package app

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"token_pulse/internal/domain"
	"token_pulse/internal/service"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCatalog domain.Seed

func (c fixedCatalog) LoadSeed() (domain.Seed, error) {
	return domain.Seed(c), nil
}

func newConsole(t *testing.T) (*Console, *service.DashboardService, *bytes.Buffer) {
	t.Helper()
	catalog := fixedCatalog{
		domain.StatusNew: {
			{ID: "pepe", Symbol: "PEPE", Price: decimal.RequireFromString("0.000012"), MarketCap: decimal.NewFromInt(120_000), Age: "4m"},
			{ID: "bonk", Symbol: "BONK", Price: decimal.RequireFromString("0.00002"), MarketCap: decimal.NewFromInt(900_000), Age: "2s"},
		},
	}
	svc, err := service.NewDashboardService(catalog, service.Options{Clock: clock.NewMock()})
	require.NoError(t, err)
	require.NoError(t, svc.Seed())
	t.Cleanup(svc.Close)

	out := &bytes.Buffer{}
	return NewConsole(svc, out), svc, out
}

func TestConsole_SortAndShow(t *testing.T) {
	c, svc, out := newConsole(t)

	assert.True(t, c.Exec("sort new"))
	assert.Contains(t, out.String(), "New Pairs: MC desc")

	out.Reset()
	c.Exec("show n")
	text := out.String()
	assert.Less(t, strings.Index(text, "bonk"), strings.Index(text, "pepe"), text)
	assert.Contains(t, text, "$900.00K")

	out.Reset()
	c.Exec("dir new")
	assert.Contains(t, out.String(), "New Pairs: MC asc")

	out.Reset()
	c.Exec("sort new Age")
	assert.Contains(t, out.String(), "New Pairs: Age desc")
	assert.Equal(t, domain.SortAge, svc.Views()[0].Sort.Key)

	out.Reset()
	c.Exec("sort new none")
	assert.Contains(t, out.String(), "New Pairs: store order")
}

func TestConsole_FilterAndMove(t *testing.T) {
	c, svc, out := newConsole(t)

	c.Exec("filter new bon")
	v, _ := svc.View(domain.StatusNew)
	require.Len(t, v.Tokens, 1)
	assert.Equal(t, "bonk", v.Tokens[0].ID)

	c.Exec("filter new")
	v, _ = svc.View(domain.StatusNew)
	assert.Len(t, v.Tokens, 2)

	c.Exec("move pepe migrated")
	_, status, _ := svc.Lookup("pepe")
	assert.Equal(t, domain.StatusMigrated, status)
	assert.Empty(t, out.String())

	c.Exec("move ghost new")
	assert.Contains(t, out.String(), "token not found")
}

func TestConsole_ResetAndErrors(t *testing.T) {
	c, svc, out := newConsole(t)
	first := svc.SessionID()

	c.Exec("reset")
	assert.NotEqual(t, first, svc.SessionID())
	assert.Contains(t, out.String(), "reseeded")

	out.Reset()
	c.Exec("sort archived")
	assert.Contains(t, out.String(), "invalid token status")

	out.Reset()
	c.Exec("sort new fee")
	assert.Contains(t, out.String(), "invalid sort key")

	out.Reset()
	c.Exec("launch")
	assert.Contains(t, out.String(), "unknown command")

	assert.True(t, c.Exec("   "))
	assert.False(t, c.Exec("quit"))
}

func TestConsole_RunStopsOnQuit(t *testing.T) {
	c, _, out := newConsole(t)

	done := make(chan struct{})
	go func() {
		c.Run(context.Background(), strings.NewReader("summary\nquit\nshow\n"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("console did not exit on quit")
	}
	assert.Contains(t, out.String(), "New Pairs")
	assert.NotContains(t, out.String(), "==", "commands after quit are not run")
}

func TestConsole_StatusAndChangeMarkers(t *testing.T) {
	c, svc, out := newConsole(t)

	c.Exec("status")
	assert.Contains(t, out.String(), "feed stopped: 0 tokens")

	out.Reset()
	svc.Start()
	c.Exec("status")
	assert.Contains(t, out.String(), "feed running: 2 tokens, 1 subscribers, 0 ticks")
	assert.Contains(t, out.String(), svc.SessionID())

	require.NoError(t, svc.Reset(domain.Seed{domain.StatusNew: {
		{ID: "up", Price: decimal.NewFromInt(1), PriceChange24h: decimal.NewFromInt(5)},
		{ID: "down", Price: decimal.NewFromInt(1), PriceChange24h: decimal.NewFromInt(-3)},
		{ID: "flat", Price: decimal.NewFromInt(1)},
	}}))
	out.Reset()
	c.Exec("show new")
	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[1], "▲")
	assert.Contains(t, lines[2], "▼")
	assert.Contains(t, lines[3], "·")
}
