package defect

import (
	"errors"
	"fmt"
	"strings"
)

// ID names one catalog entry.
type ID string

// The closed set of defects the exercise asks the player to find.
const (
	AddEmptyTask            ID = "add-empty-task"
	DeleteWrongTask         ID = "delete-wrong-task"
	CounterOffByOne         ID = "counter-off-by-one"
	FilterNotWorking        ID = "filter-not-working"
	CompleteToggleBackwards ID = "complete-toggle-backwards"
	DuplicateTasks          ID = "duplicate-tasks"
	ClearAllClearsActive    ID = "clear-all-clears-active"
	TaskOrderReversed       ID = "task-order-reversed"
	ProgressOver100         ID = "progress-over-100"
	SearchCaseSensitive     ID = "search-case-sensitive"
)

// Entry is the static description of one defect.
type Entry struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Hint        string `json:"hint"`
}

var catalog = [...]Entry{
	{AddEmptyTask, "Empty Task Creation", "You can add tasks with no text", "Try adding a task without typing anything"},
	{DeleteWrongTask, "Delete Wrong Task", "Clicking delete removes the wrong task", "Try deleting the second task in a list of 3+"},
	{CounterOffByOne, "Task Counter Wrong", "The active task counter is always off by one", "Check the active task count vs actual active tasks"},
	{FilterNotWorking, "Completed Filter Broken", "The Completed filter shows active tasks instead", "Switch to the Completed tab and see what shows"},
	{CompleteToggleBackwards, "Toggle Works Backwards", "Checking a task marks it as incomplete, unchecking completes it", "Try checking and unchecking tasks"},
	{DuplicateTasks, "Duplicate Task Bug", "Adding a task creates it twice", "Add a task and count how many appear"},
	{ClearAllClearsActive, "Clear Completed Deletes Active", "Clear Completed button deletes active tasks instead", "Try using the Clear Completed button"},
	{TaskOrderReversed, "Tasks Added in Reverse", "New tasks appear at the bottom instead of top", "Add multiple tasks and watch where they appear"},
	{ProgressOver100, "Progress Bar Over 100%", "Progress bar can show more than 100%", "Complete all tasks and check the progress bar"},
	{SearchCaseSensitive, "Search Case Sensitive", "Search only works with exact case matching", "Try searching for tasks with different capitalization"},
}

// CatalogSize is the number of defects to find.
const CatalogSize = len(catalog)

// ErrUnknownDefect is returned for ids outside the catalog.
var ErrUnknownDefect = errors.New("unknown defect")

// Catalog returns every entry in catalog order. The slice is a copy.
func Catalog() []Entry {
	out := make([]Entry, CatalogSize)
	copy(out, catalog[:])
	return out
}

// Lookup returns the entry for id.
func Lookup(id ID) (Entry, bool) {
	for _, e := range catalog {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Valid reports whether id is a catalog member.
func (id ID) Valid() bool {
	_, ok := Lookup(id)
	return ok
}

// ParseID parses a catalog id, ignoring surrounding space and case.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownDefect, s)
	}
	return id, nil
}
