package stores_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whtpst/config"
	"whtpst/core"
	"whtpst/stores"
	"whtpst/stores/aws"
	"whtpst/stores/bolt"
	"whtpst/stores/filesystem"
	"whtpst/stores/memory"
	"whtpst/stores/redis"
	"whtpst/stores/sqlite"
	"whtpst/stores/storetest"
)

func TestStoreImplementations(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(*testing.T) (core.PasteRepository, func())
	}{
		{
			name: "Store implementation backed by a map",
			setup: func(*testing.T) (core.PasteRepository, func()) {
				return memory.NewPasteStore(), func() {}
			},
		},
		{
			name: "Store implementation backed by SQLite in memory",
			setup: func(t *testing.T) (core.PasteRepository, func()) {
				store, err := sqlite.NewPasteStore(":memory:")
				require.NoError(t, err)
				return store, func() { assert.NoError(t, store.Close()) }
			},
		},
		{
			name: "Store implementation backed by a SQLite file",
			setup: func(t *testing.T) (core.PasteRepository, func()) {
				store, err := sqlite.NewPasteStore(filepath.Join(t.TempDir(), "pastes.db"))
				require.NoError(t, err)
				return store, func() { assert.NoError(t, store.Close()) }
			},
		},
		{
			name: "Store implementation backed by a host filesystem directory",
			setup: func(t *testing.T) (core.PasteRepository, func()) {
				store, err := filesystem.NewPasteStore(filepath.Join(t.TempDir(), "pastes"))
				require.NoError(t, err)
				return store, func() {}
			},
		},
		{
			name: "Store implementation backed by a BoltDB",
			setup: func(t *testing.T) (core.PasteRepository, func()) {
				store, err := bolt.NewPasteStore(filepath.Join(t.TempDir(), "pastes.bolt"))
				require.NoError(t, err)
				return store, func() { assert.NoError(t, store.Close()) }
			},
		},
		{
			name: "Store implementation backed by redis",
			setup: func(t *testing.T) (core.PasteRepository, func()) {
				addr := os.Getenv("REDIS_ADDR")
				if addr == "" {
					t.Skip("REDIS_ADDR not set")
				}
				store, err := redis.NewPasteStore(context.Background(), addr, "", 0)
				require.NoError(t, err)
				return store, func() { assert.NoError(t, store.Close()) }
			},
		},
		{
			name: "Store implementation backed by S3",
			setup: func(t *testing.T) (core.PasteRepository, func()) {
				bucket := os.Getenv("S3_BUCKET_NAME")
				if bucket == "" {
					t.Skip("S3_BUCKET_NAME not set")
				}
				store, err := aws.NewPasteStore(context.Background(), bucket, os.Getenv("S3_REGION"))
				require.NoError(t, err)
				return store, func() {}
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, teardown := tc.setup(t)
			defer teardown()
			storetest.Run(t, store)
		})
	}
}

func TestPersistentStoresSurviveReopen(t *testing.T) {
	ctx := context.Background()
	paste := core.NewPaste{ID: "kept", Content: "still here"}

	t.Run("sqlite", func(t *testing.T) {
		dsn := filepath.Join(t.TempDir(), "pastes.db")
		store, err := sqlite.NewPasteStore(dsn)
		require.NoError(t, err)
		require.NoError(t, store.Insert(ctx, paste))
		require.NoError(t, store.Close())

		store, err = sqlite.NewPasteStore(dsn)
		require.NoError(t, err)
		defer store.Close()
		got, err := store.FindOne(ctx, paste.ID)
		require.NoError(t, err)
		assert.Equal(t, paste.Content, got)
	})

	t.Run("bolt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pastes.bolt")
		store, err := bolt.NewPasteStore(path)
		require.NoError(t, err)
		require.NoError(t, store.Insert(ctx, paste))
		require.NoError(t, store.Close())

		store, err = bolt.NewPasteStore(path)
		require.NoError(t, err)
		defer store.Close()
		got, err := store.FindOne(ctx, paste.ID)
		require.NoError(t, err)
		assert.Equal(t, paste.Content, got)
	})

	t.Run("filesystem", func(t *testing.T) {
		dir := t.TempDir()
		store, err := filesystem.NewPasteStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.Insert(ctx, paste))

		store, err = filesystem.NewPasteStore(dir)
		require.NoError(t, err)
		got, err := store.FindOne(ctx, paste.ID)
		require.NoError(t, err)
		assert.Equal(t, paste.Content, got)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temporary files left behind")
	})
}

func TestWriteFailuresAreReported(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pastes")
	store, err := filesystem.NewPasteStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	err = store.Insert(context.Background(), core.NewPaste{ID: "abc", Content: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrWriteFailure)
	assert.Contains(t, err.Error(), "Failed to write: ")
}

func TestGetStore(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to memory", func(t *testing.T) {
		store, closeFn, err := stores.GetStore(ctx, config.StorageConfig{})
		require.NoError(t, err)
		assert.IsType(t, &memory.PasteStore{}, store)
		assert.NoError(t, closeFn())
	})

	t.Run("sqlite", func(t *testing.T) {
		store, closeFn, err := stores.GetStore(ctx, config.StorageConfig{
			Type:           config.StorageSQLite,
			DataSourceName: filepath.Join(t.TempDir(), "p.db"),
		})
		require.NoError(t, err)
		assert.IsType(t, &sqlite.PasteStore{}, store)
		assert.NoError(t, closeFn())
	})

	t.Run("filesystem", func(t *testing.T) {
		store, closeFn, err := stores.GetStore(ctx, config.StorageConfig{
			Type:             config.StorageFilesystem,
			LocalStoragePath: t.TempDir(),
		})
		require.NoError(t, err)
		assert.IsType(t, &filesystem.PasteStore{}, store)
		assert.NoError(t, closeFn())
	})

	t.Run("bolt", func(t *testing.T) {
		store, closeFn, err := stores.GetStore(ctx, config.StorageConfig{
			Type:     config.StorageBolt,
			BoltPath: filepath.Join(t.TempDir(), "p.bolt"),
		})
		require.NoError(t, err)
		assert.IsType(t, &bolt.PasteStore{}, store)
		assert.NoError(t, closeFn())
	})

	t.Run("unknown type", func(t *testing.T) {
		_, _, err := stores.GetStore(ctx, config.StorageConfig{Type: "tape"})
		assert.Error(t, err)
	})

	t.Run("construction errors are returned", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(file, nil, 0644))
		_, _, err := stores.GetStore(ctx, config.StorageConfig{
			Type:             config.StorageFilesystem,
			LocalStoragePath: filepath.Join(file, "pastes"),
		})
		assert.Error(t, err)
	})
}
