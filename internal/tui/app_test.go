package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui/msgs"
)

// send applies msg and feeds any resulting message back, one level deep.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	model := next.(Model)
	if cmd == nil {
		return model
	}
	switch follow := cmd().(type) {
	case msgs.GoToAddMsg, msgs.GoToListMsg, msgs.TaskAddedMsg:
		next, _ = model.Update(follow)
		model = next.(Model)
	}
	return model
}

func TestModel_StartsOnList(t *testing.T) {
	m := NewModel(task.New())
	if m.CurrentView() != ViewList {
		t.Errorf("expected ViewList, got %v", m.CurrentView())
	}
}

func TestModel_AddTaskFlow(t *testing.T) {
	store := task.New()
	m := NewModel(store)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if m.CurrentView() != ViewAdd {
		t.Fatalf("expected ViewAdd, got %v", m.CurrentView())
	}
	if !strings.Contains(m.View(), "New Task") {
		t.Errorf("expected form view, got: %s", m.View())
	}

	for _, r := range "Buy milk" {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.CurrentView() != ViewList {
		t.Fatalf("expected ViewList after submit, got %v", m.CurrentView())
	}
	if !strings.Contains(m.View(), "[TODO] #1: Buy milk") {
		t.Errorf("expected new task in list, got: %s", m.View())
	}
	if count, _ := store.CountAll(); count != 1 {
		t.Errorf("expected 1 task, got %d", count)
	}
}

func TestModel_EscCancelsForm(t *testing.T) {
	store := task.New()
	m := NewModel(store)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.CurrentView() != ViewList {
		t.Errorf("expected ViewList after esc, got %v", m.CurrentView())
	}
	if empty, _ := store.IsEmpty(); !empty {
		t.Error("expected no task to be added")
	}
}
