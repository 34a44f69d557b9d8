package view

import (
	"testing"

	"token_pulse/internal/domain"

	"github.com/shopspring/decimal"
)

func TestParseAge(t *testing.T) {
	tests := []struct {
		age  string
		want int64
	}{
		{"2s", 2},
		{"4m", 240},
		{"1h", 3600},
		{"3d", 259200},
		{"1w", 604800},
		{"1y", 31536000},
		{"17s", 17},
		{"old", 0},
		{"", 0},
		{"4 m", 0},
		{"-4m", 0},
		{"4mo", 0},
		{"m4", 0},
		{"1.5h", 0},
		{"99999999999999999999s", 0},
	}

	for _, tt := range tests {
		if got := ParseAge(tt.age); got != tt.want {
			t.Errorf("ParseAge(%q) = %d, want %d", tt.age, got, tt.want)
		}
	}
}

func row(id string, mc int64, holders int64, age string) domain.Token {
	return domain.Token{
		ID:        id,
		MarketCap: decimal.NewFromInt(mc),
		Price:     decimal.NewFromInt(mc).Div(decimal.NewFromInt(1000)),
		Holders:   holders,
		Age:       age,
	}
}

func ids(tokens []domain.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProject_NoKeyIsIdentity(t *testing.T) {
	input := []domain.Token{row("c", 3, 0, "1m"), row("a", 1, 0, "1s"), row("b", 2, 0, "1h")}

	for _, dir := range []domain.SortDirection{domain.SortAsc, domain.SortDesc} {
		got := Project(input, domain.SortNone, dir)
		if len(got) != len(input) || &got[0] != &input[0] {
			t.Errorf("Project with no key should return the input slice itself (%s)", dir)
		}
	}

	if got := Project(nil, domain.SortNone, domain.SortDesc); got != nil {
		t.Errorf("Project(nil) = %v, want nil", got)
	}
}

func TestProject_Orders(t *testing.T) {
	input := []domain.Token{
		row("mid", 500, 20, "4m"),
		row("big", 9000, 5, "2s"),
		row("small", 10, 300, "1y"),
	}

	tests := []struct {
		name string
		key  domain.SortKey
		dir  domain.SortDirection
		want []string
	}{
		{"market cap desc", domain.SortMarketCap, domain.SortDesc, []string{"big", "mid", "small"}},
		{"market cap asc", domain.SortMarketCap, domain.SortAsc, []string{"small", "mid", "big"}},
		{"price desc", domain.SortPrice, domain.SortDesc, []string{"big", "mid", "small"}},
		{"holders desc", domain.SortHolders, domain.SortDesc, []string{"small", "mid", "big"}},
		{"age asc", domain.SortAge, domain.SortAsc, []string{"big", "mid", "small"}},
		{"age desc", domain.SortAge, domain.SortDesc, []string{"small", "mid", "big"}},
		{"unknown key", domain.SortKey("fee"), domain.SortAsc, []string{"mid", "big", "small"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Project(input, tt.key, tt.dir))
			if !equalIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if got := ids(input); !equalIDs(got, []string{"mid", "big", "small"}) {
		t.Errorf("Project mutated its input: %v", got)
	}
}

func TestProject_IsStable(t *testing.T) {
	input := []domain.Token{
		row("a", 100, 1, "5m"),
		row("b", 200, 1, "bogus"),
		row("c", 100, 1, "5m"),
		row("d", 200, 1, "0s"),
		row("e", 100, 1, "300s"),
	}

	tests := []struct {
		key  domain.SortKey
		dir  domain.SortDirection
		want []string
	}{
		{domain.SortMarketCap, domain.SortAsc, []string{"a", "c", "e", "b", "d"}},
		{domain.SortMarketCap, domain.SortDesc, []string{"b", "d", "a", "c", "e"}},
		{domain.SortHolders, domain.SortDesc, []string{"a", "b", "c", "d", "e"}},
		// "bogus" and "0s" both parse to zero; "5m" and "300s" are the same age.
		{domain.SortAge, domain.SortAsc, []string{"b", "d", "a", "c", "e"}},
		{domain.SortAge, domain.SortDesc, []string{"a", "c", "e", "b", "d"}},
	}

	for _, tt := range tests {
		got := ids(Project(input, tt.key, tt.dir))
		if !equalIDs(got, tt.want) {
			t.Errorf("Project(%s, %s) = %v, want %v", tt.key, tt.dir, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	input := []domain.Token{
		{ID: "1", Name: "Pepe Classic", Symbol: "PEPE", Address: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"},
		{ID: "2", Name: "Bonk", Symbol: "BONK", Address: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"},
		{ID: "pepe-3", Name: "Other", Symbol: "OTH", Address: "So11111111111111111111111111111111111111112"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"1", "2", "pepe-3"}},
		{"   ", []string{"1", "2", "pepe-3"}},
		{"pepe", []string{"1", "pepe-3"}},
		{"BoNk", []string{"2"}},
		{"so111", []string{"pepe-3"}},
		{"nothing", []string{}},
	}

	for _, tt := range tests {
		got := ids(Filter(input, tt.query))
		if !equalIDs(got, tt.want) {
			t.Errorf("Filter(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"currency billions", FormatCurrency(decimal.NewFromInt(2_500_000_000)), "$2.50B"},
		{"currency millions", FormatCurrency(decimal.NewFromInt(1_230_000)), "$1.23M"},
		{"currency thousands", FormatCurrency(decimal.NewFromInt(12_340)), "$12.34K"},
		{"currency small", FormatCurrency(decimal.NewFromFloat(9.5)), "$9.50"},
		{"number thousands", FormatNumber(4_200), "4.20K"},
		{"number small", FormatNumber(42), "42"},
		{"count", FormatCount(1_234_567), "1,234,567"},
		{"price sub-cent", FormatPrice(decimal.NewFromFloat(0.000042)), "$0.000042"},
		{"price", FormatPrice(decimal.NewFromFloat(1.5)), "$1.5000"},
		{"percent up", FormatPercent(decimal.NewFromFloat(7.34)), "+7.34%"},
		{"percent down", FormatPercent(decimal.NewFromFloat(-2.5)), "-2.50%"},
		{"percent flat", FormatPercent(decimal.Zero), "0.00%"},
		{"address", TruncateAddress("So11111111111111111111111111111111111111112", 4, 4), "So11...1112"},
		{"short address", TruncateAddress("abcdefgh", 4, 4), "abcdefgh"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
