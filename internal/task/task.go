// Package task implements the ordered task list: pure transformations over
// task slices plus a Store that persists the list through a key-value backend.
package task

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Task describes a task record.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
}

// Created returns CreatedAt as a time.
func (t Task) Created() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// Mode selects which tasks Filter keeps.
type Mode string

const (
	ModeAll       Mode = "all"
	ModeActive    Mode = "active"
	ModeCompleted Mode = "completed"
)

// ErrUnknownMode is returned by ParseMode for names outside all|active|completed.
var ErrUnknownMode = errors.New("unknown filter mode")

// ParseMode parses a filter name. Empty means ModeAll.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAll:
		return ModeAll, nil
	case ModeActive:
		return ModeActive, nil
	case ModeCompleted:
		return ModeCompleted, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownMode, s)
	}
}

// IsBlank reports whether text has no non-whitespace content.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Add appends one new incomplete task to the end. Blank text is rejected and
// the input is returned with added=false.
func Add(tasks []Task, text string, now time.Time) (out []Task, added bool) {
	if IsBlank(text) {
		return tasks, false
	}
	out = make([]Task, 0, len(tasks)+1)
	out = append(out, tasks...)
	out = append(out, Task{
		ID:        uuid.NewString(),
		Text:      text,
		Completed: false,
		CreatedAt: now.UnixMilli(),
	})
	return out, true
}

// DeleteByID removes the task with id. Unknown ids leave the list unchanged.
func DeleteByID(tasks []Task, id string) []Task {
	idx := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return tasks
	}
	out := make([]Task, 0, len(tasks)-1)
	out = append(out, tasks[:idx]...)
	return append(out, tasks[idx+1:]...)
}

// ToggleByID flips Completed on the task with id. Unknown ids leave the list unchanged.
func ToggleByID(tasks []Task, id string) []Task {
	idx := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return tasks
	}
	out := slices.Clone(tasks)
	out[idx].Completed = !out[idx].Completed
	return out
}

// ClearCompleted keeps only incomplete tasks, in order.
func ClearCompleted(tasks []Task) []Task {
	return Filter(tasks, ModeActive)
}

// Filter returns the tasks selected by mode. Unknown modes behave like ModeAll.
func Filter(tasks []Task, mode Mode) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		switch mode {
		case ModeActive:
			if t.Completed {
				continue
			}
		case ModeCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Search keeps tasks whose text contains query, ignoring case. An empty query
// returns the input unchanged.
func Search(tasks []Task, query string) []Task {
	if query == "" {
		return tasks
	}
	folder := cases.Fold()
	needle := folder.String(query)
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(folder.String(t.Text), needle) {
			out = append(out, t)
		}
	}
	return out
}

// CountActive returns the number of incomplete tasks.
func CountActive(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// CountCompleted returns the number of completed tasks.
func CountCompleted(tasks []Task) int {
	return len(tasks) - CountActive(tasks)
}

// Progress returns the completed share of tasks as a percentage in [0, 100].
// An empty list has progress 0.
func Progress(tasks []Task) float64 {
	total := len(tasks)
	if total == 0 {
		return 0
	}
	p := float64(CountCompleted(tasks)) / float64(total) * 100
	return min(max(p, 0), 100)
}
