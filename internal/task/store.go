package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// StorageKey is the key that holds the task list.
const StorageKey = "bug-hunt-tasks"

// KV is the key-value capability the store persists through.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store manages task persistence. Every mutation is one read-modify-write of StorageKey.
type Store struct {
	kv  KV
	now func() time.Time
}

// NewStore creates a task store. A nil now uses time.Now.
func NewStore(kv KV, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{kv: kv, now: now}
}

// List returns the stored tasks in order. A missing or null value is an empty list.
func (s *Store) List(ctx context.Context) ([]Task, error) {
	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return decode(raw)
}

// Add appends a task. Blank text is not stored and reports added=false.
func (s *Store) Add(ctx context.Context, text string) (Task, bool, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return Task{}, false, err
	}
	out, added := Add(tasks, text, s.now())
	if !added {
		log.Debug().Msg("blank task rejected")
		return Task{}, false, nil
	}
	if err := s.save(ctx, out); err != nil {
		return Task{}, false, err
	}
	created := out[len(out)-1]
	log.Debug().Str("task_id", created.ID).Msg("task added")
	return created, true, nil
}

// Delete removes the task with id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) ([]Task, error) {
	return s.update(ctx, func(tasks []Task) []Task { return DeleteByID(tasks, id) })
}

// Toggle flips the completion flag of the task with id. Unknown ids are a no-op.
func (s *Store) Toggle(ctx context.Context, id string) ([]Task, error) {
	return s.update(ctx, func(tasks []Task) []Task { return ToggleByID(tasks, id) })
}

// ClearCompleted removes every completed task.
func (s *Store) ClearCompleted(ctx context.Context) ([]Task, error) {
	return s.update(ctx, ClearCompleted)
}

// Clear removes every task.
func (s *Store) Clear(ctx context.Context) error {
	return s.save(ctx, []Task{})
}

func (s *Store) update(ctx context.Context, fn func([]Task) []Task) ([]Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := fn(tasks)
	if err := s.save(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) save(ctx context.Context, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

func decode(raw []byte) ([]Task, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []Task{}, nil
	}
	var tasks []Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}
