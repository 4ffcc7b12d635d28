// Package tui implements the interactive terminal interface for the task store.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui/msgs"
	"github.com/pablasso/todo/internal/tui/views"
)

// View represents the different screens in the TUI.
type View int

const (
	ViewList View = iota
	ViewAdd
)

// Model is the main Bubble Tea model that orchestrates all views.
type Model struct {
	currentView View
	width       int
	height      int

	store task.Store
	list  views.TaskListModel
	form  views.TaskFormModel
}

// Run starts the TUI application.
func Run(store task.Store) error {
	p := tea.NewProgram(
		NewModel(store),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// NewModel creates the root model showing the task list.
func NewModel(store task.Store) Model {
	return Model{
		currentView: ViewList,
		store:       store,
		list:        views.NewTaskListModel(store),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.list.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)
		m.form.SetSize(msg.Width, msg.Height)
		return m, nil

	case msgs.GoToAddMsg:
		m.currentView = ViewAdd
		m.form = views.NewTaskFormModel(m.store)
		m.form.SetSize(m.width, m.height)
		return m, m.form.Init()

	case msgs.GoToListMsg:
		m.currentView = ViewList
		return m, nil

	case msgs.TaskAddedMsg:
		m.currentView = ViewList
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewAdd:
		m.form, cmd = m.form.Update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.currentView == ViewAdd {
		return m.form.View()
	}
	return m.list.View()
}

// CurrentView returns the active screen.
func (m Model) CurrentView() View {
	return m.currentView
}
