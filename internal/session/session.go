// Package session owns one run of the exercise: the task list, the found
// defects, and the derived view presenters render.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/metalagman/bughunt/internal/defect"
	"github.com/metalagman/bughunt/internal/kv"
	"github.com/metalagman/bughunt/internal/task"
	"github.com/rs/zerolog/log"
)

// View is everything a presenter needs to draw one frame.
type View struct {
	Mode         task.Mode      `json:"mode"`
	Query        string         `json:"query"`
	Tasks        []task.Task    `json:"tasks"`
	Total        int            `json:"total"`
	Active       int            `json:"active"`
	Completed    int            `json:"completed"`
	Progress     float64        `json:"progress"`
	Found        []defect.Entry `json:"found"`
	FoundCount   int            `json:"foundCount"`
	CatalogSize  int            `json:"catalogSize"`
	Complete     bool           `json:"complete"`
	HintsVisible bool           `json:"hintsVisible"`
}

// CatalogItem is a catalog entry annotated for the report picker.
type CatalogItem struct {
	defect.Entry
	Found bool `json:"found"`
}

// Report is the result of recording a defect. Completed is true only on the
// report that finds the last catalog entry.
type Report struct {
	Outcome   defect.Outcome `json:"outcome"`
	Entry     defect.Entry   `json:"entry"`
	Completed bool           `json:"complete"`
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source for task creation.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithHintThreshold sets how many finds reveal hints.
func WithHintThreshold(n int) Option {
	return func(s *Session) { s.hintThreshold = n }
}

// Session serializes user actions over a task store and a defect tracker.
type Session struct {
	mu            sync.Mutex
	tasks         task.Tracker
	defects       *defect.Tracker
	now           func() time.Time
	hintThreshold int
}

// New creates a session over store.
func New(store kv.Store, opts ...Option) *Session {
	s := &Session{
		now:           time.Now,
		hintThreshold: defect.DefaultHintThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = task.NewStore(store, s.now)
	s.defects = defect.NewTracker(store)
	return s
}

// Snapshot returns the list filtered by mode and query with derived counts.
// Counts and progress always cover the whole list.
func (s *Session) Snapshot(ctx context.Context, mode task.Mode, query string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return View{}, err
	}
	found, err := s.defects.Found(ctx)
	if err != nil {
		return View{}, err
	}
	if mode == "" {
		mode = task.ModeAll
	}

	entries := make([]defect.Entry, 0, len(found))
	for _, id := range found {
		if e, ok := defect.Lookup(id); ok {
			entries = append(entries, e)
		}
	}
	return View{
		Mode:         mode,
		Query:        query,
		Tasks:        task.Search(task.Filter(tasks, mode), query),
		Total:        len(tasks),
		Active:       task.CountActive(tasks),
		Completed:    task.CountCompleted(tasks),
		Progress:     task.Progress(tasks),
		Found:        entries,
		FoundCount:   len(found),
		CatalogSize:  defect.CatalogSize,
		Complete:     defect.IsComplete(found),
		HintsVisible: defect.HintsVisible(found, s.hintThreshold),
	}, nil
}

// Catalog returns every defect with its found flag. Hints of found entries are
// kept; hints of unfound entries are blanked until HintsVisible.
func (s *Session) Catalog(ctx context.Context) ([]CatalogItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.defects.Found(ctx)
	if err != nil {
		return nil, false, err
	}
	visible := defect.HintsVisible(found, s.hintThreshold)
	entries := defect.Catalog()
	items := make([]CatalogItem, 0, len(entries))
	for _, e := range entries {
		item := CatalogItem{Entry: e}
		for _, id := range found {
			if id == e.ID {
				item.Found = true
				break
			}
		}
		if !item.Found && !visible {
			item.Hint = ""
		}
		items = append(items, item)
	}
	return items, visible, nil
}

// AddTask appends a task. Blank text reports added=false.
func (s *Session) AddTask(ctx context.Context, text string) (task.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Add(ctx, text)
}

// DeleteTask removes a task by id.
func (s *Session) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.tasks.Delete(ctx, id)
	return err
}

// ToggleTask flips a task's completion flag.
func (s *Session) ToggleTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.tasks.Toggle(ctx, id)
	return err
}

// ClearCompleted removes completed tasks.
func (s *Session) ClearCompleted(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.tasks.ClearCompleted(ctx)
	return err
}

// Report records a found defect.
func (s *Session) Report(ctx context.Context, id defect.ID) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := defect.Lookup(id)
	if !ok {
		return Report{}, fmt.Errorf("%w %q", defect.ErrUnknownDefect, id)
	}
	outcome, found, err := s.defects.Record(ctx, id)
	if err != nil {
		return Report{}, err
	}
	r := Report{Outcome: outcome, Entry: entry}
	l := log.Info().Str("defect_id", string(id)).Str("outcome", string(outcome)).Int("found", len(found))
	if outcome == defect.OutcomeAccepted && defect.IsComplete(found) {
		r.Completed = true
		l = l.Bool("complete", true)
	}
	l.Msg("defect reported")
	return r, nil
}

// Reset clears the task list and the found set.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tasks.Clear(ctx); err != nil {
		return err
	}
	if err := s.defects.Reset(ctx); err != nil {
		return err
	}
	log.Info().Msg("session reset")
	return nil
}
