package database

import (
	"context"
	"io/fs"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/memocast/internal/config"
)

func TestNewPool_RequiresURL(t *testing.T) {
	_, err := NewPool(context.Background(), config.DatabaseConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestNewPool_RejectsMalformedURL(t *testing.T) {
	_, err := NewPool(context.Background(), config.DatabaseConfig{URL: "postgres://localhost:notaport/memocast", MaxConns: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database URL")
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrationFiles, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "migrations/001_create_memos.sql")

	sql, err := migrationFiles.ReadFile("migrations/001_create_memos.sql")
	require.NoError(t, err)
	assert.Contains(t, string(sql), "memos")
}

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_add_index.sql":    {Data: []byte("SELECT 2")},
		"migrations/001_create_memos.sql": {Data: []byte("SELECT 1")},
		"migrations/003_backfill.sql":     {Data: []byte("SELECT 3")},
		"migrations/README.md":            {Data: []byte("notes")},
	}

	pending, err := pendingMigrations(fsys, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"migrations/001_create_memos.sql",
		"migrations/002_add_index.sql",
		"migrations/003_backfill.sql",
	}, pending)

	pending, err = pendingMigrations(fsys, map[string]bool{"001_create_memos.sql": true, "003_backfill.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations/002_add_index.sql"}, pending)
}

// Requires a disposable database: TEST_DATABASE_URL=postgres://... go test ./internal/database
func TestRunMigrations(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := NewPool(ctx, config.DatabaseConfig{URL: url, MaxConns: 2, MinConns: 0})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	require.NoError(t, RunMigrations(ctx, pool), "second run must be a no-op")

	var applied int
	err = pool.QueryRow(ctx,
		"SELECT count(*) FROM schema_migrations WHERE version = $1", "001_create_memos.sql").Scan(&applied)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	var table *string
	require.NoError(t, pool.QueryRow(ctx, "SELECT to_regclass('memos')::text").Scan(&table))
	require.NotNil(t, table)
	assert.Equal(t, "memos", *table)
}
