package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/display"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui/components"
	"github.com/pablasso/todo/internal/tui/msgs"
	"github.com/pablasso/todo/internal/tui/styles"
)

// TaskListModel is the model for the task list view.
type TaskListModel struct {
	store  task.Store
	tasks  []task.Task
	filter task.Filter
	cursor int
	width  int
	height int

	pending   int
	completed int
	notice    string
	err       error
}

// NewTaskListModel creates a TaskListModel and loads tasks from the store.
func NewTaskListModel(store task.Store) TaskListModel {
	m := TaskListModel{
		store:  store,
		filter: task.FilterAll,
	}
	m.reload()
	return m
}

// reload refreshes tasks and counts from the store and clamps the cursor.
func (m *TaskListModel) reload() {
	tasks, err := m.store.List(m.filter)
	if err != nil {
		m.err = err
		return
	}
	m.tasks = tasks

	if m.pending, err = m.store.CountPending(); err != nil {
		m.err = err
	}
	if m.completed, err = m.store.CountCompleted(); err != nil {
		m.err = err
	}

	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selectID moves the cursor onto the task with the given id, if listed.
func (m *TaskListModel) selectID(id int64) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

// Init implements tea.Model.
func (m TaskListModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m TaskListModel) Update(msg tea.Msg) (TaskListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case msgs.TaskAddedMsg:
		m.err = msg.Err
		m.notice = fmt.Sprintf("Task #%d added", msg.Task.ID)
		m.reload()
		m.selectID(msg.Task.ID)
		return m, nil

	case tea.KeyMsg:
		m.notice = ""

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "a":
			return m, func() tea.Msg { return msgs.GoToAddMsg{} }
		case "f":
			m.filter = m.filter.Next()
			m.cursor = 0
			m.reload()
			return m, nil
		case "r":
			m.err = nil
			m.reload()
			return m, nil
		}

		// Remaining keys act on the selected task
		if len(m.tasks) == 0 {
			return m, nil
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case " ", "x", "enter":
			selected := m.tasks[m.cursor]
			updated, err := m.store.Toggle(selected.ID)
			m.err = err
			if err == nil {
				if updated.IsComplete() {
					m.notice = fmt.Sprintf("Task #%d marked complete", updated.ID)
				} else {
					m.notice = fmt.Sprintf("Task #%d marked pending", updated.ID)
				}
			}
			m.reload()
		case "d", "delete":
			selected := m.tasks[m.cursor]
			err := m.store.Delete(selected.ID)
			m.err = err
			if err == nil {
				m.notice = fmt.Sprintf("Task #%d deleted", selected.ID)
			}
			m.reload()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m TaskListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := styles.TitleStyle.Render(m.titleText())
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n")

	var lines []string
	if len(m.tasks) == 0 {
		lines = append(lines, styles.SubtleStyle.Render(m.emptyText()))
	}
	for i, t := range m.tasks {
		lines = append(lines, m.formatTaskLine(i, t))
	}

	// Status bar + title + message line
	available := m.height - 4
	if available < 1 {
		available = 1
	}
	lines = visibleWindow(lines, m.cursor, available)

	body := strings.Join(lines, "\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body))

	used := strings.Count(b.String(), "\n") + 1
	if pad := m.height - used - 2; pad > 0 {
		b.WriteString(strings.Repeat("\n", pad))
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
	case m.notice != "":
		b.WriteString(styles.SuccessStyle.Render(m.notice))
	}
	b.WriteString("\n")

	info := display.FormatSummary(m.pending, m.completed)
	statusItems := []string{"↑↓ Navigate", "Space Toggle", "a Add", "d Delete", "f Filter", "q Quit"}
	b.WriteString(components.NewStatusBar().RenderWithInfo(m.width, info, statusItems))

	return b.String()
}

func (m TaskListModel) titleText() string {
	switch m.filter {
	case task.FilterPending:
		return "Pending Tasks"
	case task.FilterCompleted:
		return "Completed Tasks"
	default:
		return "All Tasks"
	}
}

func (m TaskListModel) emptyText() string {
	if m.filter == task.FilterAll {
		return "No tasks yet. Press 'a' to add one."
	}
	return fmt.Sprintf("No %s tasks. Press 'f' to change the filter.", m.filter)
}

// formatTaskLine formats a single task line for display.
func (m TaskListModel) formatTaskLine(index int, t task.Task) string {
	indicator := "○"
	if index == m.cursor {
		indicator = "●"
	}

	line := fmt.Sprintf("%s %s", indicator, display.FormatTaskLine(t))

	if index == m.cursor {
		return styles.SelectedStyle.Render(line)
	}
	if t.IsComplete() {
		return styles.DoneStyle.Render(line)
	}
	return line
}

// visibleWindow returns at most height lines, scrolled so cursor is visible.
func visibleWindow(lines []string, cursor, height int) []string {
	if len(lines) <= height {
		return lines
	}
	start := cursor - height + 1
	if start < 0 {
		start = 0
	}
	return lines[start : start+height]
}

// SetSize updates the model dimensions.
func (m *TaskListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Tasks returns the tasks currently listed.
func (m TaskListModel) Tasks() []task.Task {
	return m.tasks
}

// Cursor returns the current cursor position.
func (m TaskListModel) Cursor() int {
	return m.cursor
}

// Filter returns the active filter.
func (m TaskListModel) Filter() task.Filter {
	return m.filter
}

// Err returns the last store error shown in the view.
func (m TaskListModel) Err() error {
	return m.err
}
