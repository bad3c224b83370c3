// Package tui is the terminal front end for a bughunt session.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/metalagman/bughunt/internal/defect"
	"github.com/metalagman/bughunt/internal/session"
	"github.com/metalagman/bughunt/internal/task"
)

type screen int

const (
	screenList screen = iota
	screenAdd
	screenSearch
	screenReport
)

// Model is the bubbletea model for the task list and the report picker.
type Model struct {
	ctx     context.Context
	session *session.Session

	screen  screen
	mode    task.Mode
	query   string
	cursor  int
	pick    int
	input   textinput.Model
	bar     progress.Model
	view    session.View
	catalog []session.CatalogItem
	notice  string
	err     error
	quit    bool
}

// New creates a model bound to sess and loads the first snapshot.
func New(ctx context.Context, sess *session.Session) Model {
	in := textinput.New()
	m := Model{
		ctx:     ctx,
		session: sess,
		mode:    task.ModeAll,
		input:   in,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
	m.refresh()
	return m
}

// Run starts the program on the terminal.
func Run(ctx context.Context, sess *session.Session) error {
	p := tea.NewProgram(New(ctx, sess), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "ctrl+c" {
		m.quit = true
		return m, tea.Quit
	}
	switch m.screen {
	case screenAdd, screenSearch:
		return m.updateInput(key)
	case screenReport:
		return m.updateReport(key)
	default:
		return m.updateList(key)
	}
}

func (m Model) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch key.String() {
	case "q", "esc":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Tasks)-1 {
			m.cursor++
		}
	case "a":
		m.screen = screenAdd
		m.input.Placeholder = "Add a new task..."
		m.input.SetValue("")
		return m, m.input.Focus()
	case "/":
		m.screen = screenSearch
		m.input.Placeholder = "Search tasks..."
		m.input.SetValue(m.query)
		return m, m.input.Focus()
	case " ", "x":
		if t, ok := m.selected(); ok {
			m.err = m.session.ToggleTask(m.ctx, t.ID)
		}
	case "d":
		if t, ok := m.selected(); ok {
			m.err = m.session.DeleteTask(m.ctx, t.ID)
		}
	case "c":
		m.err = m.session.ClearCompleted(m.ctx)
	case "1":
		m.mode = task.ModeAll
	case "2":
		m.mode = task.ModeActive
	case "3":
		m.mode = task.ModeCompleted
	case "tab":
		m.mode = nextMode(m.mode)
	case "r":
		m.screen = screenReport
		m.pick = 0
	case "R":
		m.err = m.session.Reset(m.ctx)
		if m.err == nil {
			m.notice = "Challenge reset!"
		}
	}
	m.refresh()
	return m, nil
}

func (m Model) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.screen = screenList
		m.input.Blur()
		return m, nil
	case "enter":
		value := m.input.Value()
		if m.screen == screenAdd {
			_, added, err := m.session.AddTask(m.ctx, value)
			m.err = err
			if err == nil && !added {
				m.notice = "Task text cannot be empty"
			}
		} else {
			m.query = value
			m.cursor = 0
		}
		m.screen = screenList
		m.input.Blur()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m Model) updateReport(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "q":
		m.screen = screenList
	case "up", "k":
		if m.pick > 0 {
			m.pick--
		}
	case "down", "j":
		if m.pick < len(m.catalog)-1 {
			m.pick++
		}
	case "enter":
		if m.pick < len(m.catalog) {
			r, err := m.session.Report(m.ctx, m.catalog[m.pick].ID)
			m.err = err
			if err == nil {
				m.notice = reportNotice(r)
				if r.Outcome == defect.OutcomeAccepted {
					m.screen = screenList
				}
			}
		}
	}
	m.refresh()
	return m, nil
}

func reportNotice(r session.Report) string {
	switch {
	case r.Outcome == defect.OutcomeAlreadyReported:
		return "You already found this bug!"
	case r.Completed:
		return fmt.Sprintf("Congratulations! You found all %d bugs!", defect.CatalogSize)
	default:
		return "Bug found! " + r.Entry.Title
	}
}

func (m *Model) refresh() {
	view, err := m.session.Snapshot(m.ctx, m.mode, m.query)
	if err != nil {
		m.err = err
		return
	}
	items, _, err := m.session.Catalog(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	m.view = view
	m.catalog = items
	if m.cursor >= len(view.Tasks) {
		m.cursor = max(len(view.Tasks)-1, 0)
	}
}

func (m Model) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Tasks) {
		return task.Task{}, false
	}
	return m.view.Tasks[m.cursor], true
}

func nextMode(mode task.Mode) task.Mode {
	switch mode {
	case task.ModeAll:
		return task.ModeActive
	case task.ModeActive:
		return task.ModeCompleted
	default:
		return task.ModeAll
	}
}
