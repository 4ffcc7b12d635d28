package views

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui/components"
	"github.com/pablasso/todo/internal/tui/msgs"
	"github.com/pablasso/todo/internal/tui/styles"
)

// FormField identifies the focused input in the add-task form.
type FormField int

const (
	FieldTitle FormField = iota
	FieldDescription
)

// TaskFormModel is the model for the add-task form.
type TaskFormModel struct {
	store       task.Store
	title       textinput.Model
	description textinput.Model
	focus       FormField
	err         error

	width  int
	height int
}

// NewTaskFormModel creates a form with the title input focused.
func NewTaskFormModel(store task.Store) TaskFormModel {
	title := textinput.New()
	title.Placeholder = "What needs to be done?"
	title.CharLimit = 256
	title.Width = 50
	title.Focus()

	desc := textinput.New()
	desc.Placeholder = "Optional details"
	desc.CharLimit = 1024
	desc.Width = 50

	return TaskFormModel{
		store:       store,
		title:       title,
		description: desc,
		focus:       FieldTitle,
	}
}

// Init implements tea.Model.
func (m TaskFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m TaskFormModel) Update(msg tea.Msg) (TaskFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m, func() tea.Msg { return msgs.GoToListMsg{} }
		case "tab", "shift+tab", "up", "down":
			return m, m.switchFocus()
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focus == FieldTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

// switchFocus moves focus to the other input.
func (m *TaskFormModel) switchFocus() tea.Cmd {
	if m.focus == FieldTitle {
		m.focus = FieldDescription
		m.title.Blur()
		return m.description.Focus()
	}
	m.focus = FieldTitle
	m.description.Blur()
	return m.title.Focus()
}

// submit adds the task. Validation errors keep the form open; a task that
// was created but failed to persist still returns to the list with the error.
func (m TaskFormModel) submit() (TaskFormModel, tea.Cmd) {
	var desc *string
	if text := m.description.Value(); strings.TrimSpace(text) != "" {
		desc = &text
	}

	created, err := m.store.Add(m.title.Value(), desc)
	if err != nil && !errors.Is(err, task.ErrStorage) {
		m.err = err
		return m, nil
	}

	m.err = nil
	return m, func() tea.Msg { return msgs.TaskAddedMsg{Task: created, Err: err} }
}

// View implements tea.Model.
func (m TaskFormModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := styles.TitleStyle.Render("New Task")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n")

	var form strings.Builder
	form.WriteString(styles.LabelStyle.Render("Title"))
	form.WriteString("\n")
	form.WriteString(m.title.View())
	form.WriteString("\n\n")
	form.WriteString(styles.LabelStyle.Render("Description"))
	form.WriteString("\n")
	form.WriteString(m.description.View())

	box := styles.BoxStyle.Render(form.String())
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box))
	b.WriteString("\n")

	if m.err != nil {
		msg := styles.ErrorStyle.Render("Error: " + m.err.Error())
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, msg))
	}

	used := strings.Count(b.String(), "\n") + 1
	if pad := m.height - used - 1; pad > 0 {
		b.WriteString(strings.Repeat("\n", pad))
	}
	b.WriteString("\n")

	statusItems := []string{"Tab Next field", "Enter Save", "Esc Cancel"}
	b.WriteString(components.NewStatusBar().Render(m.width, statusItems))

	return b.String()
}

// SetSize updates the model dimensions.
func (m *TaskFormModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Focused returns the field that currently has focus.
func (m TaskFormModel) Focused() FormField {
	return m.focus
}

// Err returns the last validation error shown in the form.
func (m TaskFormModel) Err() error {
	return m.err
}

// Values returns the current title and description input text.
func (m TaskFormModel) Values() (string, string) {
	return m.title.Value(), m.description.Value()
}
