package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"token_pulse/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	seed := `
columns:
  new:
    - id: a
      price: "1"
  migrated:
    - id: m
      price: "2"
`
	seedPath := filepath.Join(dir, "tokens.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seed), 0644))

	cfg := fmt.Sprintf(`
storage:
  path: %s
  seed_file: %s
logging:
  level: error
  dir: %s
debug:
  enabled: false
summary:
  schedule: "@every 1h"
`, filepath.Join(dir, "db", "catalog.db"), seedPath, filepath.Join(dir, "logs"))
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))
	return cfgPath
}

func TestBootstrap_RunAndShutdown(t *testing.T) {
	b := NewBootstrap()
	require.NoError(t, b.Initialize(writeTestConfig(t)))
	assert.Nil(t, b.Debug)
	assert.Equal(t, 1, b.Scheduler.Jobs())

	require.NoError(t, b.Run())
	assert.True(t, b.Service.Running())
	assert.NotEmpty(t, b.Service.SessionID())

	_, status, ok := b.Service.Lookup("m")
	require.True(t, ok)
	assert.Equal(t, domain.StatusMigrated, status)

	n, err := b.Catalog.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// A populated catalog is not re-imported.
	require.NoError(t, b.SyncSeed())
	n, _ = b.Catalog.Count()
	assert.Equal(t, int64(2), n)

	require.NoError(t, b.Shutdown(context.Background()))
	assert.False(t, b.Service.Running())
}

func TestBootstrap_MissingConfig(t *testing.T) {
	err := NewBootstrap().Initialize(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestBootstrap_FailedInitializeReleasesCatalog(t *testing.T) {
	b := NewBootstrap()
	require.NoError(t, b.Initialize(writeTestConfig(t)))
	catalog := b.Catalog
	t.Cleanup(b.Service.Close)

	cause := errors.New("service setup failed")
	assert.Same(t, cause, b.closeCatalog(cause))
	assert.Nil(t, b.Catalog)

	_, err := catalog.Count()
	assert.Error(t, err, "catalog connection is closed")

	// Shutdown after a failed Initialize skips the released catalog.
	b.Service = nil
	assert.NoError(t, b.Shutdown(context.Background()))
}
