package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"token_pulse/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Catalog is the sqlite-backed source of seed records.
// Prices are never written back; the live values exist only in the token store.
type Catalog struct {
	db *gorm.DB
}

// Open connects to the catalog at path, creating the file and schema if needed.
func Open(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.TokenEntity{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close releases the underlying connection.
func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ======================================================================================
// Token Operations
// ======================================================================================

// ImportSeed writes every column of seed in one transaction, keeping column order as position.
func (c *Catalog) ImportSeed(seed domain.Seed) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		for _, status := range domain.Statuses {
			for i, t := range seed[status] {
				if t.ID == "" {
					return domain.ErrEmptyTokenID
				}
				t.Status = status
				if err := tx.Save(domain.NewTokenEntity(t, i)).Error; err != nil {
					return fmt.Errorf("import %s: %w", t.ID, err)
				}
			}
		}
		return nil
	})
}

// LoadSeed implements domain.TokenCatalog. Rows with an unknown status are skipped.
func (c *Catalog) LoadSeed() (domain.Seed, error) {
	var rows []domain.TokenEntity
	if err := c.db.Order("status").Order("position").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	seed := make(domain.Seed, len(domain.Statuses))
	for i := range rows {
		if !rows[i].Status.Valid() {
			continue
		}
		seed[rows[i].Status] = append(seed[rows[i].Status], rows[i].Token())
	}
	return seed, nil
}

// Count returns the number of catalog rows.
func (c *Catalog) Count() (int64, error) {
	var n int64
	err := c.db.Model(&domain.TokenEntity{}).Count(&n).Error
	return n, err
}

var _ domain.TokenCatalog = (*Catalog)(nil)
