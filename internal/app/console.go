package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"token_pulse/internal/domain"
	"token_pulse/internal/service"
	"token_pulse/internal/view"
)

const consoleHelp = `commands:
  show [col]            print columns (new, final, migrated)
  sort <col> [key]      advance the sort, or pick key (marketCap volume price holders transactions age none)
  dir <col>             flip the sort direction
  filter <col> [text]   filter by name/symbol/address; no text clears
  move <id> <col>       move a token to another column
  reset                 reseed from the catalog
  summary               print the dashboard summary
  status                print the feed state
  quit`

// Console is the line-oriented control surface on stdin.
type Console struct {
	svc *service.DashboardService
	out io.Writer
}

// NewConsole creates a console writing to out.
func NewConsole(svc *service.DashboardService, out io.Writer) *Console {
	return &Console{svc: svc, out: out}
}

// Run reads commands until in is exhausted, "quit" is entered or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !c.Exec(line) {
				return
			}
		}
	}
}

// Exec runs one command line. It returns false when the console should exit.
func (c *Console) Exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	var err error
	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "quit", "exit":
		return false
	case "help", "?":
		fmt.Fprintln(c.out, consoleHelp)
	case "show":
		err = c.show(args)
	case "sort":
		err = c.sort(args)
	case "dir":
		err = c.withColumn(args, 1, func(status domain.TokenStatus) error {
			spec, err := c.svc.ToggleDirection(status)
			if err != nil {
				return err
			}
			c.printSpec(status, spec)
			return nil
		})
	case "filter":
		err = c.filter(args)
	case "move":
		err = c.move(args)
	case "reset":
		if err = c.svc.Seed(); err == nil {
			fmt.Fprintf(c.out, "reseeded, session %s\n", c.svc.SessionID())
		}
	case "summary":
		fmt.Fprintln(c.out, c.svc.Summary())
	case "status":
		c.printStatus()
	default:
		err = fmt.Errorf("unknown command %q (try help)", cmd)
	}

	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	return true
}

func (c *Console) show(args []string) error {
	if len(args) == 0 {
		for _, v := range c.svc.Views() {
			c.printView(v)
		}
		return nil
	}
	status, err := parseColumn(args[0])
	if err != nil {
		return err
	}
	v, err := c.svc.View(status)
	if err != nil {
		return err
	}
	c.printView(v)
	return nil
}

func (c *Console) sort(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("usage: sort <col> [key]")
	}
	status, err := parseColumn(args[0])
	if err != nil {
		return err
	}

	var spec domain.SortSpec
	if len(args) == 1 {
		spec, err = c.svc.CycleSort(status)
	} else {
		spec, err = c.svc.SelectSort(status, parseSortKey(args[1]))
	}
	if err != nil {
		return err
	}
	c.printSpec(status, spec)
	return nil
}

func (c *Console) filter(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: filter <col> [text]")
	}
	status, err := parseColumn(args[0])
	if err != nil {
		return err
	}
	return c.svc.SetFilter(status, strings.Join(args[1:], " "))
}

func (c *Console) move(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: move <id> <col>")
	}
	status, err := parseColumn(args[1])
	if err != nil {
		return err
	}
	return c.svc.Move(args[0], status)
}

func (c *Console) withColumn(args []string, n int, fn func(domain.TokenStatus) error) error {
	if len(args) != n {
		return fmt.Errorf("expected %d argument(s)", n)
	}
	status, err := parseColumn(args[0])
	if err != nil {
		return err
	}
	return fn(status)
}

func (c *Console) printSpec(status domain.TokenStatus, spec domain.SortSpec) {
	if spec.Key == domain.SortNone {
		fmt.Fprintf(c.out, "%s: store order\n", status.Title())
		return
	}
	fmt.Fprintf(c.out, "%s: %s %s\n", status.Title(), spec.Key.Label(), spec.Direction)
}

func (c *Console) printView(v view.ColumnView) {
	fmt.Fprintf(c.out, "== %s (%d/%d) [%s", v.Title, len(v.Tokens), v.Total, v.Sort.Key.Label())
	if v.Sort.Key != domain.SortNone {
		fmt.Fprintf(c.out, " %s", v.Sort.Direction)
	}
	if v.Filter != "" {
		fmt.Fprintf(c.out, " | %q", v.Filter)
	}
	fmt.Fprintln(c.out, "]")

	for _, t := range v.Tokens {
		fmt.Fprintf(c.out, "  %-12s %-8s %-14s %s %8s  MC %-9s Vol %-9s H %-7s TX %-7s %4s  %s\n",
			t.ID, t.Symbol, view.FormatPrice(t.Price), changeMarker(t), view.FormatPercent(t.PriceChange24h),
			view.FormatCurrency(t.MarketCap), view.FormatCurrency(t.Volume),
			view.FormatNumber(t.Holders), view.FormatNumber(t.Transactions),
			t.Age, view.TruncateAddress(t.Address, 4, 4))
	}
}

func (c *Console) printStatus() {
	st := c.svc.FeedStatus()
	state := "stopped"
	if st.Running {
		state = "running"
	}
	fmt.Fprintf(c.out, "feed %s: %d tokens, %d subscribers, %d ticks", state, st.Registered, st.Subscribers, st.Ticks)
	if !st.LastBatchAt.IsZero() {
		fmt.Fprintf(c.out, ", last batch %d updates at %s", st.LastBatchSize, st.LastBatchAt.Format(time.TimeOnly))
	}
	fmt.Fprintf(c.out, " (session %s)\n", c.svc.SessionID())
}

func changeMarker(t domain.Token) string {
	switch t.ChangeDirection() {
	case "positive":
		return "▲"
	case "negative":
		return "▼"
	default:
		return "·"
	}
}

// parseColumn accepts a status or a short alias.
func parseColumn(s string) (domain.TokenStatus, error) {
	switch strings.ToLower(s) {
	case "new", "n":
		return domain.StatusNew, nil
	case "final", "final-stretch", "f":
		return domain.StatusFinalStretch, nil
	case "migrated", "m":
		return domain.StatusMigrated, nil
	}
	return domain.ParseStatus(s)
}

// parseSortKey matches keys case-insensitively and maps "none" to SortNone.
func parseSortKey(s string) domain.SortKey {
	if strings.EqualFold(s, "none") {
		return domain.SortNone
	}
	for _, k := range domain.SortKeys {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, k.Label()) {
			return k
		}
	}
	return domain.SortKey(s)
}
