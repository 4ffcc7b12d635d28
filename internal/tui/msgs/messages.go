// Package msgs defines shared message types for TUI view transitions.
package msgs

import "github.com/pablasso/todo/internal/task"

// GoToListMsg signals transition to the task list view.
type GoToListMsg struct{}

// GoToAddMsg signals transition to the add-task form.
type GoToAddMsg struct{}

// TaskAddedMsg is sent when the form created a task. Err carries a storage
// failure that happened after the task was created in memory.
type TaskAddedMsg struct {
	Task task.Task
	Err  error
}
