package task

// Store is the task store contract shared by the in-memory, JSON-file and
// relational variants.
type Store interface {
	Add(title string, description *string) (Task, error)
	Get(id int64) (Task, error)
	Update(id int64, title, description *string) (Task, error)
	Delete(id int64) error
	MarkComplete(id int64) (Task, error)
	MarkIncomplete(id int64) (Task, error)
	Toggle(id int64) (Task, error)

	List(filter Filter) ([]Task, error)
	ListAll() ([]Task, error)
	ListPending() ([]Task, error)
	ListCompleted() ([]Task, error)

	CountAll() (int, error)
	CountPending() (int, error)
	CountCompleted() (int, error)

	Exists(id int64) (bool, error)
	IsEmpty() (bool, error)
}

// Compile-time interface check.
var _ Store = (*Manager)(nil)
