package task

import (
	"context"
)

// Tracker defines the interface for task list management.
type Tracker interface {
	List(ctx context.Context) ([]Task, error)
	Add(ctx context.Context, text string) (Task, bool, error)
	Delete(ctx context.Context, id string) ([]Task, error)
	Toggle(ctx context.Context, id string) ([]Task, error)
	ClearCompleted(ctx context.Context) ([]Task, error)
	Clear(ctx context.Context) error
}

var _ Tracker = (*Store)(nil)
