package infra

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"token_pulse/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const sampleSeed = `
columns:
  new:
    - id: pepe
      name: Pepe
      symbol: PEPE
      price: "0.000012"
      market_cap: 120000
      holders: 340
      age: 4m
    - name: Unnamed
      price: 1.5
  final-stretch:
    - id: bonk
      name: Bonk
      price: "0.00002"
      bonding: "87.5"
      metrics:
        holders_percent: 12.5
  migrated: []
`

func TestParseSeed(t *testing.T) {
	seed, err := ParseSeed([]byte(sampleSeed))
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}

	if seed.Len() != 3 {
		t.Fatalf("Expected 3 tokens, got %d", seed.Len())
	}

	pepe := seed[domain.StatusNew][0]
	if pepe.ID != "pepe" || pepe.Status != domain.StatusNew {
		t.Errorf("Unexpected first token: %+v", pepe)
	}
	if !pepe.Price.Equal(decimal.RequireFromString("0.000012")) {
		t.Errorf("Expected price 0.000012, got %s", pepe.Price)
	}
	if !pepe.MarketCap.Equal(decimal.NewFromInt(120000)) || pepe.Holders != 340 || pepe.Age != "4m" {
		t.Errorf("Unexpected numeric fields: %+v", pepe)
	}

	unnamed := seed[domain.StatusNew][1]
	if _, err := uuid.Parse(unnamed.ID); err != nil {
		t.Errorf("Expected generated uuid, got %q", unnamed.ID)
	}

	bonk := seed[domain.StatusFinalStretch][0]
	if bonk.Bonding == nil || !bonk.Bonding.Equal(decimal.NewFromFloat(87.5)) {
		t.Errorf("Expected bonding 87.5, got %v", bonk.Bonding)
	}
	if bonk.Metrics.HoldersPercent != 12.5 {
		t.Errorf("Expected holders percent 12.5, got %v", bonk.Metrics.HoldersPercent)
	}
	if bonk.Status != domain.StatusFinalStretch {
		t.Errorf("Expected final-stretch status, got %q", bonk.Status)
	}
}

func TestParseSeed_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown column", "columns:\n  graduated:\n    - id: x\n", domain.ErrInvalidStatus},
		{"duplicate across columns", "columns:\n  new:\n    - id: x\n  migrated:\n    - id: x\n", domain.ErrDuplicateToken},
		{"duplicate in column", "columns:\n  new:\n    - id: x\n    - id: x\n", domain.ErrDuplicateToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSeed([]byte(tt.doc)); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSeedFile_LoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.yaml")
	if err := os.WriteFile(path, []byte(sampleSeed), 0644); err != nil {
		t.Fatal(err)
	}

	seed, err := SeedFile{Path: path}.LoadSeed()
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if len(seed[domain.StatusFinalStretch]) != 1 {
		t.Errorf("Expected 1 final-stretch token, got %d", len(seed[domain.StatusFinalStretch]))
	}

	if _, err := (SeedFile{Path: path + ".missing"}).LoadSeed(); !errors.Is(err, domain.ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestSeedFile_Shipped(t *testing.T) {
	seed, err := SeedFile{Path: "../../configs/tokens.yaml"}.LoadSeed()
	if err != nil {
		t.Fatalf("shipped seed should load: %v", err)
	}
	for _, status := range domain.Statuses {
		if len(seed[status]) == 0 {
			t.Errorf("Expected tokens in column %q", status)
		}
		for _, tok := range seed[status] {
			if !tok.Price.IsPositive() {
				t.Errorf("Token %s has non-positive price %s", tok.ID, tok.Price)
			}
		}
	}
}
