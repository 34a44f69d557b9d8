package infra

import (
	"errors"
	"fmt"
	"os"

	"token_pulse/internal/domain"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SeedFile reads initial column content from a YAML file:
//
//	columns:
//	  new:
//	    - id: pepe
//	      name: Pepe
//	      price: "0.000012"
//	  final-stretch: [...]
//	  migrated: [...]
//
// Rows without an id get a random one.
type SeedFile struct {
	Path string
}

type seedDocument struct {
	Columns map[domain.TokenStatus][]domain.Token `yaml:"columns"`
}

// LoadSeed implements domain.TokenCatalog.
func (f SeedFile) LoadSeed() (domain.Seed, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, f.Path)
		}
		return nil, err
	}
	return ParseSeed(data)
}

// ParseSeed decodes a seed document and stamps each record with its column.
func ParseSeed(data []byte) (domain.Seed, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seed := make(domain.Seed, len(domain.Statuses))
	seen := make(map[string]domain.TokenStatus)
	for status, tokens := range doc.Columns {
		if !status.Valid() {
			return nil, fmt.Errorf("seed column %q: %w", status, domain.ErrInvalidStatus)
		}
		for i := range tokens {
			t := &tokens[i]
			if t.ID == "" {
				t.ID = uuid.NewString()
			}
			if prev, dup := seen[t.ID]; dup {
				return nil, fmt.Errorf("seed column %q: %w: %s (also in %q)", status, domain.ErrDuplicateToken, t.ID, prev)
			}
			seen[t.ID] = status
			t.Status = status
		}
		seed[status] = tokens
	}
	return seed, nil
}
