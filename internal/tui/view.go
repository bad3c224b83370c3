package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/bughunt/internal/task"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	hintStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	winStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).
			Border(lipgloss.RoundedBorder()).Padding(0, 2)
	activeTab   = lipgloss.NewStyle().Bold(true).Underline(true)
)

func (m Model) View() string {
	if m.quit {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Bug Hunter Challenge"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Bugs found: %d / %d\n", m.view.FoundCount, m.view.CatalogSize)
	for _, e := range m.view.Found {
		b.WriteString(dimStyle.Render("  ✓ " + e.Title))
		b.WriteString("\n")
	}
	if m.view.Complete {
		b.WriteString(winStyle.Render(fmt.Sprintf("Challenge complete! You found all %d bugs. Press R to reset.", m.view.CatalogSize)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.screen == screenReport {
		b.WriteString(m.reportView())
	} else {
		b.WriteString(m.listView())
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) listView() string {
	var b strings.Builder
	for _, mode := range []task.Mode{task.ModeAll, task.ModeActive, task.ModeCompleted} {
		label := string(mode)
		if mode == m.mode {
			label = activeTab.Render(label)
		}
		b.WriteString(label + "  ")
	}
	b.WriteString("\n")

	noun := "tasks"
	if m.view.Active == 1 {
		noun = "task"
	}
	fmt.Fprintf(&b, "%d active %s", m.view.Active, noun)
	if m.query != "" {
		fmt.Fprintf(&b, "  search: %q", m.query)
	}
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.view.Progress / 100))
	b.WriteString("\n\n")

	if len(m.view.Tasks) == 0 {
		b.WriteString(dimStyle.Render("No tasks to show"))
		b.WriteString("\n")
	}
	for i, t := range m.view.Tasks {
		box := "[ ]"
		text := t.Text
		if t.Completed {
			box = "[x]"
			text = doneStyle.Render(text)
		}
		line := fmt.Sprintf("%s %s", box, text)
		if i == m.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	switch m.screen {
	case screenAdd, screenSearch:
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter: submit • esc: cancel"))
	default:
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("a: add • x: toggle • d: delete • c: clear completed • /: search • tab: filter • r: report bug • R: reset • q: quit"))
	}
	return b.String()
}

func (m Model) reportView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Report a Bug"))
	b.WriteString("\n")
	for i, item := range m.catalog {
		prefix := "  "
		if i == m.pick {
			prefix = cursorStyle.Render("> ")
		}
		title := item.Title
		if item.Found {
			title = dimStyle.Render(title + " (found)")
		}
		fmt.Fprintf(&b, "%s%s\n", prefix, title)
		fmt.Fprintf(&b, "    %s\n", dimStyle.Render(item.Description))
		if !item.Found && item.Hint != "" {
			fmt.Fprintf(&b, "    %s\n", hintStyle.Render("Hint: "+item.Hint))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: report • esc: back"))
	return b.String()
}
