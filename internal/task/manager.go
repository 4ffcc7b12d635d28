package task

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

// Manager is the authoritative in-memory task collection. With a backing
// path it synchronizes the full state to a JSON document after every
// mutation; without one it is purely in-memory.
type Manager struct {
	mu     sync.RWMutex
	tasks  map[int64]*Task
	order  []int64 // creation order
	nextID int64

	path     string
	autoSave bool
	dirty    bool

	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for created_at/completed_at.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger used for load/save diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithAutoSave controls whether mutations write the backing file before
// returning. When disabled, callers flush with Save.
func WithAutoSave(enabled bool) Option {
	return func(m *Manager) {
		m.autoSave = enabled
	}
}

// New creates an empty, purely in-memory Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		tasks:    make(map[int64]*Task),
		nextID:   1,
		autoSave: true,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open creates a Manager backed by the JSON document at path, hydrating it
// from the file when the file exists and is non-empty.
func Open(path string, opts ...Option) (*Manager, error) {
	m := New(opts...)
	m.path = path

	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		m.logger.Debug("starting with empty task list", "path", path)
		return m, nil
	}

	m.hydrate(doc)
	m.logger.Debug("loaded tasks", "path", path, "count", len(m.order), "next_id", m.nextID)
	return m, nil
}

// hydrate replaces the current state with the document contents.
func (m *Manager) hydrate(doc *Document) {
	m.tasks = make(map[int64]*Task, len(doc.Tasks))
	m.order = make([]int64, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		c := t.clone()
		m.tasks[c.ID] = &c
		m.order = append(m.order, c.ID)
	}

	m.nextID = doc.NextID
	if m.nextID < 1 {
		m.nextID = 1
	}
	// validate rejects an id at the int64 maximum, so this cannot wrap
	if highest := doc.maxID(); m.nextID <= highest {
		m.logger.Warn("next_id not above existing ids, raising it",
			"path", m.path, "next_id", doc.NextID, "max_id", highest)
		m.nextID = highest + 1
	}
}

// Path returns the backing file path, or "" for an in-memory store.
func (m *Manager) Path() string {
	return m.path
}

// NextID returns the id the next Add will assign.
func (m *Manager) NextID() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nextID
}

// Dirty reports whether in-memory state has changes not yet on disk.
func (m *Manager) Dirty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirty
}

// Add creates a pending task and returns it.
func (m *Manager) Add(title string, description *string) (Task, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nextID == math.MaxInt64 {
		return Task{}, ErrIDsExhausted
	}

	t := &Task{
		ID:          m.nextID,
		Title:       title,
		Description: NormalizeDescription(description),
		Status:      StatusPending,
		CreatedAt:   m.now(),
	}
	m.nextID++
	m.tasks[t.ID] = t
	m.order = append(m.order, t.ID)

	return t.clone(), m.persistLocked()
}

// Get returns the task with the given id.
func (m *Manager) Get(id int64) (Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[id]
	if !ok {
		return Task{}, notFound(id)
	}
	return t.clone(), nil
}

// Update changes the supplied fields only. A nil argument leaves the field
// as is; a blank description clears it.
func (m *Manager) Update(id int64, title, description *string) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return Task{}, notFound(id)
	}

	if title != nil {
		normalized, err := NormalizeTitle(*title)
		if err != nil {
			return Task{}, err
		}
		t.Title = normalized
	}
	if description != nil {
		t.Description = NormalizeDescription(description)
	}

	return t.clone(), m.persistLocked()
}

// Delete removes the task. Its id is never reassigned.
func (m *Manager) Delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return notFound(id)
	}

	delete(m.tasks, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return m.persistLocked()
}

// MarkComplete marks the task complete. Completing an already complete task
// keeps its original completed_at.
func (m *Manager) MarkComplete(id int64) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return Task{}, notFound(id)
	}
	if t.IsComplete() {
		return t.clone(), nil
	}
	m.completeLocked(t)

	return t.clone(), m.persistLocked()
}

// MarkIncomplete reverts the task to pending and clears completed_at.
func (m *Manager) MarkIncomplete(id int64) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return Task{}, notFound(id)
	}
	if !t.IsComplete() {
		return t.clone(), nil
	}
	reopen(t)

	return t.clone(), m.persistLocked()
}

// Toggle flips the completion status of the task.
func (m *Manager) Toggle(id int64) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return Task{}, notFound(id)
	}
	if t.IsComplete() {
		reopen(t)
	} else {
		m.completeLocked(t)
	}

	return t.clone(), m.persistLocked()
}

// completeLocked stamps t complete. Caller must hold m.mu.
func (m *Manager) completeLocked(t *Task) {
	completedAt := StampCompletion(t.CreatedAt, m.now())
	t.Status = StatusComplete
	t.CompletedAt = &completedAt
}

func reopen(t *Task) {
	t.Status = StatusPending
	t.CompletedAt = nil
}

// List returns the tasks matching filter in creation order.
func (m *Manager) List(filter Filter) ([]Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Task, 0, len(m.order))
	for _, id := range m.order {
		t := m.tasks[id]
		if filter.Match(*t) {
			result = append(result, t.clone())
		}
	}
	return result, nil
}

// ListAll returns every task in creation order.
func (m *Manager) ListAll() ([]Task, error) {
	return m.List(FilterAll)
}

// ListPending returns pending tasks in creation order.
func (m *Manager) ListPending() ([]Task, error) {
	return m.List(FilterPending)
}

// ListCompleted returns completed tasks in creation order.
func (m *Manager) ListCompleted() ([]Task, error) {
	return m.List(FilterCompleted)
}

func (m *Manager) count(filter Filter) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, t := range m.tasks {
		if filter.Match(*t) {
			n++
		}
	}
	return n
}

// CountAll returns the number of stored tasks.
func (m *Manager) CountAll() (int, error) {
	return m.count(FilterAll), nil
}

// CountPending returns the number of pending tasks.
func (m *Manager) CountPending() (int, error) {
	return m.count(FilterPending), nil
}

// CountCompleted returns the number of completed tasks.
func (m *Manager) CountCompleted() (int, error) {
	return m.count(FilterCompleted), nil
}

// Exists reports whether a task with the given id is stored.
func (m *Manager) Exists(id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tasks[id]
	return ok, nil
}

// IsEmpty reports whether the store holds no tasks.
func (m *Manager) IsEmpty() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks) == 0, nil
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Document {
	doc := Document{
		Tasks:  make([]Task, 0, len(m.order)),
		NextID: m.nextID,
	}
	for _, id := range m.order {
		doc.Tasks = append(doc.Tasks, m.tasks[id].clone())
	}
	return doc
}

// Save writes the full state to the backing file. It is a no-op for an
// in-memory store. Use it to retry after a StorageError or to flush when
// auto-save is disabled.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked()
}

// persistLocked runs after each mutation. Caller must hold m.mu.
func (m *Manager) persistLocked() error {
	if m.path == "" {
		return nil
	}
	if !m.autoSave {
		m.dirty = true
		return nil
	}
	return m.saveLocked()
}

func (m *Manager) saveLocked() error {
	if m.path == "" {
		return nil
	}

	doc := m.snapshotLocked()
	if err := SaveDocument(m.path, &doc); err != nil {
		m.dirty = true
		m.logger.Error("failed to save tasks", "path", m.path, "error", err)
		return err
	}

	m.dirty = false
	m.logger.Debug("saved tasks", "path", m.path, "count", len(doc.Tasks), "next_id", doc.NextID)
	return nil
}
