package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/metalagman/bughunt/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(context.Context, string, []byte) error   { return f.err }

func newTestStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	return NewStore(mem, func() time.Time { return fixedNow }), mem
}

func TestStore_EmptyByDefault(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	tasks, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestStore_TreatsNullAndEmptyAsEmptyList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, raw := range []string{"", "null", "  null  ", "[]"} {
		store, mem := newTestStore(t)
		require.NoError(t, mem.Set(ctx, StorageKey, []byte(raw)))
		tasks, err := store.List(ctx)
		require.NoError(t, err, "raw %q", raw)
		assert.Empty(t, tasks, "raw %q", raw)
	}
}

func TestStore_CorruptValueIsAnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mem := newTestStore(t)
	require.NoError(t, mem.Set(ctx, StorageKey, []byte("{broken")))
	_, err := store.List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode tasks")
}

func TestStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mem := newTestStore(t)

	a, added, err := store.Add(ctx, "a")
	require.NoError(t, err)
	require.True(t, added)
	assert.Equal(t, fixedNow.UnixMilli(), a.CreatedAt)

	_, added, err = store.Add(ctx, "   ")
	require.NoError(t, err)
	assert.False(t, added)

	b, _, err := store.Add(ctx, "b")
	require.NoError(t, err)
	c, _, err := store.Add(ctx, "c")
	require.NoError(t, err)

	tasks, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, texts(tasks))

	tasks, err = store.Toggle(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, tasks[1].Completed)

	tasks, err = store.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, texts(tasks))

	tasks, err = store.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids(tasks))

	tasks, err = store.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids(tasks))

	raw, err := mem.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"createdAt":`)
	assert.Contains(t, string(raw), `"completed":false`)

	require.NoError(t, store.Clear(ctx))
	tasks, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestStore_PropagatesBackendErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	store := NewStore(failingKV{err: boom}, nil)
	ctx := context.Background()

	_, err := store.List(ctx)
	assert.ErrorIs(t, err, boom)
	_, _, err = store.Add(ctx, "x")
	assert.ErrorIs(t, err, boom)
	_, err = store.Toggle(ctx, "x")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, store.Clear(ctx), boom)
}
