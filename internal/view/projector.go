package view

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"token_pulse/internal/domain"
)

var agePattern = regexp.MustCompile(`^(\d+)([smhdwy])$`)

var ageUnitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 60 * 60,
	"d": 24 * 60 * 60,
	"w": 7 * 24 * 60 * 60,
	"y": 365 * 24 * 60 * 60,
}

// ParseAge converts an age label such as "4m" into seconds.
// Anything that is not <integer><unit> yields 0.
func ParseAge(age string) int64 {
	m := agePattern.FindStringSubmatch(age)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return n * ageUnitSeconds[m[2]]
}

// Project orders tokens by key without touching the input slice.
// SortNone, or a key it does not know, returns tokens as given.
// Records with equal keys keep their input order.
func Project(tokens []domain.Token, key domain.SortKey, dir domain.SortDirection) []domain.Token {
	compare := comparator(key)
	if compare == nil {
		return tokens
	}

	out := slices.Clone(tokens)
	slices.SortStableFunc(out, func(a, b domain.Token) int {
		if dir == domain.SortAsc {
			return compare(a, b)
		}
		return compare(b, a)
	})
	return out
}

func comparator(key domain.SortKey) func(a, b domain.Token) int {
	switch key {
	case domain.SortMarketCap:
		return func(a, b domain.Token) int { return a.MarketCap.Cmp(b.MarketCap) }
	case domain.SortVolume:
		return func(a, b domain.Token) int { return a.Volume.Cmp(b.Volume) }
	case domain.SortPrice:
		return func(a, b domain.Token) int { return a.Price.Cmp(b.Price) }
	case domain.SortHolders:
		return func(a, b domain.Token) int { return cmp.Compare(a.Holders, b.Holders) }
	case domain.SortTransactions:
		return func(a, b domain.Token) int { return cmp.Compare(a.Transactions, b.Transactions) }
	case domain.SortAge:
		return func(a, b domain.Token) int { return cmp.Compare(ParseAge(a.Age), ParseAge(b.Age)) }
	default:
		return nil
	}
}

// Filter keeps tokens whose name, symbol, address or ID contains query, ignoring case.
// A blank query returns tokens as given.
func Filter(tokens []domain.Token, query string) []domain.Token {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tokens
	}

	out := make([]domain.Token, 0, len(tokens))
	for _, t := range tokens {
		if matches(t, q) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t domain.Token, q string) bool {
	for _, field := range []string{t.Name, t.Symbol, t.Address, t.ID} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
