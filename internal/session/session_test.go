package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/metalagman/bughunt/internal/config"
	"github.com/metalagman/bughunt/internal/defect"
	"github.com/metalagman/bughunt/internal/kv"
	"github.com/metalagman/bughunt/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 19, 10, 0, 0, 0, time.UTC)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(kv.NewMemory(), opts...)
}

func TestSnapshot_EmptySession(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	view, err := s.Snapshot(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, task.ModeAll, view.Mode)
	assert.Empty(t, view.Tasks)
	assert.Zero(t, view.Total)
	assert.Zero(t, view.Active)
	assert.Zero(t, view.Progress)
	assert.Zero(t, view.FoundCount)
	assert.Equal(t, 10, view.CatalogSize)
	assert.False(t, view.Complete)
	assert.False(t, view.HintsVisible)
}

func TestSnapshot_FiltersAndCounts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSession(t)
	milk, _, err := s.AddTask(ctx, "Buy milk")
	require.NoError(t, err)
	_, _, err = s.AddTask(ctx, "walk dog")
	require.NoError(t, err)
	_, _, err = s.AddTask(ctx, "MILK the cow")
	require.NoError(t, err)
	require.NoError(t, s.ToggleTask(ctx, milk.ID))

	view, err := s.Snapshot(ctx, task.ModeActive, "milk")
	require.NoError(t, err)
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, "MILK the cow", view.Tasks[0].Text)
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, 2, view.Active)
	assert.Equal(t, 1, view.Completed)
	assert.InDelta(t, 100.0/3, view.Progress, 1e-9)

	view, err = s.Snapshot(ctx, task.ModeCompleted, "")
	require.NoError(t, err)
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, milk.ID, view.Tasks[0].ID)
}

func TestReport_CompletesOnTenthDistinctDefect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSession(t)
	entries := defect.Catalog()

	for i, e := range entries {
		r, err := s.Report(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, defect.OutcomeAccepted, r.Outcome)
		assert.Equal(t, e.Title, r.Entry.Title)
		assert.Equal(t, i == len(entries)-1, r.Completed, "entry %d", i)

		view, err := s.Snapshot(ctx, task.ModeAll, "")
		require.NoError(t, err)
		assert.Equal(t, i == len(entries)-1, view.Complete)
		assert.Equal(t, i+1, view.FoundCount)
	}

	r, err := s.Report(ctx, entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, defect.OutcomeAlreadyReported, r.Outcome)
	assert.False(t, r.Completed, "completion fires once")

	_, err = s.Report(ctx, "bogus")
	assert.ErrorIs(t, err, defect.ErrUnknownDefect)
}

func TestReset_ClearsTasksAndDefects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSession(t)
	_, _, err := s.AddTask(ctx, "a")
	require.NoError(t, err)
	_, err = s.Report(ctx, defect.DuplicateTasks)
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))
	view, err := s.Snapshot(ctx, task.ModeAll, "")
	require.NoError(t, err)
	assert.Empty(t, view.Tasks)
	assert.Zero(t, view.FoundCount)
}

func TestCatalog_HidesHintsUntilThreshold(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSession(t, WithHintThreshold(2))

	items, visible, err := s.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, items, defect.CatalogSize)
	assert.False(t, visible)
	for _, it := range items {
		assert.Empty(t, it.Hint)
		assert.False(t, it.Found)
	}

	_, err = s.Report(ctx, defect.AddEmptyTask)
	require.NoError(t, err)
	_, err = s.Report(ctx, defect.DuplicateTasks)
	require.NoError(t, err)

	items, visible, err = s.Catalog(ctx)
	require.NoError(t, err)
	assert.True(t, visible)
	for _, it := range items {
		assert.NotEmpty(t, it.Hint)
		assert.Equal(t, it.ID == defect.AddEmptyTask || it.ID == defect.DuplicateTasks, it.Found)
	}
}

func TestSession_DeleteAndClearCompleted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSession(t)
	a, _, err := s.AddTask(ctx, "a")
	require.NoError(t, err)
	b, _, err := s.AddTask(ctx, "b")
	require.NoError(t, err)
	_, added, err := s.AddTask(ctx, "  ")
	require.NoError(t, err)
	assert.False(t, added)

	require.NoError(t, s.ToggleTask(ctx, a.ID))
	require.NoError(t, s.ClearCompleted(ctx))
	require.NoError(t, s.DeleteTask(ctx, "missing"))

	view, err := s.Snapshot(ctx, task.ModeAll, "")
	require.NoError(t, err)
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, b.ID, view.Tasks[0].ID)

	require.NoError(t, s.DeleteTask(ctx, b.ID))
	view, err = s.Snapshot(ctx, task.ModeAll, "")
	require.NoError(t, err)
	assert.Empty(t, view.Tasks)
}

func TestSession_SurvivesRestartOnSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.Storage{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "bughunt.db")}

	store, err := kv.Open(cfg)
	require.NoError(t, err)
	s := New(store)
	_, _, err = s.AddTask(ctx, "persist me")
	require.NoError(t, err)
	_, err = s.Report(ctx, defect.ProgressOver100)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = kv.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	view, err := New(store).Snapshot(ctx, task.ModeAll, "")
	require.NoError(t, err)
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, "persist me", view.Tasks[0].Text)
	assert.Equal(t, 1, view.FoundCount)
}
