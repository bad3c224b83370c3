package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/metalagman/bughunt/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTasks = `[{"completed":false,"createdAt":1760000000123,"id":"a","text":"buy milk"}]`

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	got, err := store.Get(ctx, "bug-hunt-tasks")
	require.NoError(t, err)
	assert.Nil(t, got, "missing key must read as nil")

	require.NoError(t, store.Set(ctx, "bug-hunt-tasks", []byte(sampleTasks)))
	require.NoError(t, store.Set(ctx, "bug-hunt-found", []byte(`["duplicate-tasks"]`)))

	got, err = store.Get(ctx, "bug-hunt-tasks")
	require.NoError(t, err)
	assert.JSONEq(t, sampleTasks, string(got))

	got, err = store.Get(ctx, "bug-hunt-found")
	require.NoError(t, err)
	assert.JSONEq(t, `["duplicate-tasks"]`, string(got))

	require.NoError(t, store.Set(ctx, "bug-hunt-found", []byte(`[]`)))
	got, err = store.Get(ctx, "bug-hunt-found")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(got))
}

func TestMemory(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestMemory_CopiesValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemory()
	value := []byte(`["a"]`)
	require.NoError(t, store.Set(ctx, "k", value))
	value[2] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(got))

	got[2] = 'q'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(again))
}

func TestFile_Formats(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"state.json", "state.yaml", "state.toml"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), name)
			store, err := NewFile(path, "")
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })

			exerciseStore(t, store)

			_, err = os.Stat(path)
			require.NoError(t, err)
		})
	}
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.yml")

	first, err := NewFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "yaml", first.Format())
	require.NoError(t, first.Set(ctx, "bug-hunt-tasks", []byte(sampleTasks)))
	require.NoError(t, first.Close())

	second, err := NewFile(path, "yaml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	got, err := second.Get(ctx, "bug-hunt-tasks")
	require.NoError(t, err)
	assert.JSONEq(t, sampleTasks, string(got))
}

func TestFile_NullRemovesKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewFile(filepath.Join(t.TempDir(), "state.json"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set(ctx, "k", []byte(`["x"]`)))
	require.NoError(t, store.Set(ctx, "k", []byte(`null`)))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFile_RejectsUnknownFormatAndBadJSON(t *testing.T) {
	t.Parallel()

	_, err := NewFile(filepath.Join(t.TempDir(), "state.ini"), "ini")
	require.Error(t, err)

	store, err := NewFile(filepath.Join(t.TempDir(), "state.json"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.Error(t, store.Set(context.Background(), "k", []byte(`{not json`)))
}

func TestFile_HonorsCanceledContext(t *testing.T) {
	t.Parallel()

	store, err := NewFile(filepath.Join(t.TempDir(), "state.json"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Set(ctx, "k", []byte(`[]`)), context.Canceled)
}

func TestOpen_SelectsDriver(t *testing.T) {
	dir := t.TempDir()

	mem, err := Open(config.Storage{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, mem)
	exerciseStore(t, mem)

	file, err := Open(config.Storage{Driver: config.DriverFile, Path: filepath.Join(dir, "nested", "state.toml")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	assert.IsType(t, &File{}, file)
	exerciseStore(t, file)

	sqlite, err := Open(config.Storage{Driver: config.DriverSQLite, Path: filepath.Join(dir, "db", "bughunt.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	exerciseStore(t, sqlite)

	_, err = Open(config.Storage{Driver: "redis"})
	require.Error(t, err)
}
