package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/reddy-lalith/PlayDex/internal/config"
)

func seedAndCompare(t *testing.T, store *SQLStore) {
	t.Helper()
	ctx := context.Background()

	ds, err := EmbeddedDataset()
	require.NoError(t, err)

	var rows int
	require.NoError(t, store.SeedWithProgress(ctx, ds, func(table string, done, total int) {
		rows++
		assert.LessOrEqual(t, done, total, table)
	}))
	assert.Equal(t, len(ds.Players)+len(ds.Teams)+len(ds.Roster)+len(ds.KnownPlays), rows)

	// seeding twice replaces rather than duplicates
	require.NoError(t, store.Seed(ctx, ds))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ds.Players, loaded.Players)
	assert.Equal(t, ds.Teams, loaded.Teams)
	assert.Len(t, loaded.Roster, len(ds.Roster))
	assert.ElementsMatch(t, ds.KnownPlays, loaded.KnownPlays)

	p, err := store.PlayerByName(ctx, "Stephen Curry")
	require.NoError(t, err)
	assert.Equal(t, int64(201939), p.ID)

	_, err = store.PlayerByName(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reference.db")

	store, err := OpenSQLStore(ctx, DialectSQLite, path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	seedAndCompare(t, store)
}

func TestLoadReferenceFromSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reference.db")

	store, err := OpenSQLStore(ctx, DialectSQLite, path)
	require.NoError(t, err)
	ds, err := EmbeddedDataset()
	require.NoError(t, err)
	require.NoError(t, store.Seed(ctx, ds))
	require.NoError(t, store.Close())

	ref, err := LoadReference(ctx, config.ReferenceConfig{Source: "sqlite", SQLitePath: path})
	require.NoError(t, err)
	_, ok := ref.PlayerByName("giannis antetokounmpo")
	assert.True(t, ok)
}

func TestOpenSourceUnknown(t *testing.T) {
	_, err := OpenSource(context.Background(), config.ReferenceConfig{Source: "csv"})
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("playdex_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	})

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/playdex_test?sslmode=disable", host, port.Port())

	store, err := OpenSQLStore(ctx, DialectPostgres, dsn)
	require.NoError(t, err)
	defer store.Close()

	seedAndCompare(t, store)
}
