package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations_EmbeddedFilesInOrder(t *testing.T) {
	pending, err := pendingMigrations(migrationsFS, map[string]bool{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"001_client_storage.sql",
		"002_client_storage_namespace.sql",
		"003_payroll_ledger.sql",
		"004_client_storage_default_namespace.sql",
	}, pending)
}

func TestPendingMigrations_SkipsAppliedAndNonSQL(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/003_c.sql":   {Data: []byte("SELECT 3")},
		"migrations/001_a.sql":   {Data: []byte("SELECT 1")},
		"migrations/002_b.sql":   {Data: []byte("SELECT 2")},
		"migrations/README.md":   {Data: []byte("notes")},
		"migrations/sub/004.sql": {Data: []byte("SELECT 4")},
	}

	pending, err := pendingMigrations(fsys, map[string]bool{"001_a.sql": true})
	require.NoError(t, err)

	assert.Equal(t, []string{"002_b.sql", "003_c.sql"}, pending)
}

func TestPendingMigrations_MissingDirectory(t *testing.T) {
	_, err := pendingMigrations(fstest.MapFS{}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read migrations directory")
}
