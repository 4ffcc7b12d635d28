// Package sqlstore implements the task store contract on a relational
// database through gorm and SQLite.
package sqlstore

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pablasso/todo/internal/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is a task.Store backed by a SQLite database.
type Store struct {
	db     *gorm.DB
	path   string
	now    func() time.Time
	debug  bool
	logger *slog.Logger
}

// Compile-time interface check.
var _ task.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for created_at/completed_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithDebug enables gorm's SQL logging.
func WithDebug(enabled bool) Option {
	return func(s *Store) {
		s.debug = enabled
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Open connects to the SQLite database at path and runs migrations.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	logLevel := logger.Silent
	if s.debug {
		logLevel = logger.Info
	}

	s.logger.Debug("connecting to SQLite database", "path", path)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, s.storageErr("open", fmt.Errorf("failed to connect to database: %w", err))
	}
	s.db = db

	if err := s.migrate(); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// migrate creates the schema and makes sure the id counter is ahead of every
// stored id.
func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(&taskRecord{}, &counter{}); err != nil {
		return s.storageErr("migrate", fmt.Errorf("failed to run migrations: %w", err))
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var c counter
		if err := tx.Where(counter{Name: taskSequence}).
			Attrs(counter{NextID: 1}).
			FirstOrCreate(&c).Error; err != nil {
			return err
		}

		var maxID int64
		if err := tx.Model(&taskRecord{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		if maxID == math.MaxInt64 {
			return fmt.Errorf("task id %d is out of range", maxID)
		}
		if c.NextID <= maxID {
			s.logger.Warn("task counter behind stored ids, raising it", "next_id", c.NextID, "max_id", maxID)
			return tx.Model(&counter{}).Where("name = ?", taskSequence).Update("next_id", maxID+1).Error
		}
		return nil
	})
	if err != nil {
		return s.storageErr("migrate", fmt.Errorf("failed to initialize counter: %w", err))
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// NextID returns the id the next Add will assign.
func (s *Store) NextID() (int64, error) {
	var c counter
	if err := s.db.First(&c, "name = ?", taskSequence).Error; err != nil {
		return 0, s.storageErr("query", err)
	}
	return c.NextID, nil
}

// Add creates a pending task and returns it.
func (s *Store) Add(title string, description *string) (task.Task, error) {
	title, err := task.NormalizeTitle(title)
	if err != nil {
		return task.Task{}, err
	}

	var rec taskRecord
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var c counter
		if err := tx.First(&c, "name = ?", taskSequence).Error; err != nil {
			return err
		}
		if c.NextID == math.MaxInt64 {
			return task.ErrIDsExhausted
		}

		rec = taskRecord{
			ID:          c.NextID,
			Title:       title,
			Description: task.NormalizeDescription(description),
			Status:      string(task.StatusPending),
			CreatedAt:   s.now(),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		return tx.Model(&counter{}).Where("name = ?", taskSequence).Update("next_id", c.NextID+1).Error
	})
	if errors.Is(err, task.ErrIDsExhausted) {
		return task.Task{}, err
	}
	if err != nil {
		return task.Task{}, s.storageErr("insert", fmt.Errorf("failed to create task: %w", err))
	}

	return rec.toTask(), nil
}

// Get returns the task with the given id.
func (s *Store) Get(id int64) (task.Task, error) {
	rec, err := s.find(s.db, id)
	if err != nil {
		return task.Task{}, err
	}
	return rec.toTask(), nil
}

// find loads a record or maps a missing row to task.ErrNotFound.
func (s *Store) find(db *gorm.DB, id int64) (*taskRecord, error) {
	var rec taskRecord
	if err := db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, task.NotFoundError(id)
		}
		return nil, s.storageErr("query", fmt.Errorf("failed to find task: %w", err))
	}
	return &rec, nil
}

// modify loads a record, applies fn and saves it in one transaction.
// fn returns false when nothing changed; an error from fn aborts without saving.
func (s *Store) modify(id int64, fn func(rec *taskRecord) (bool, error)) (task.Task, error) {
	var out taskRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rec, err := s.find(tx, id)
		if err != nil {
			return err
		}
		changed, err := fn(rec)
		if err != nil {
			return err
		}
		if changed {
			if err := tx.Save(rec).Error; err != nil {
				return s.storageErr("update", fmt.Errorf("failed to update task: %w", err))
			}
		}
		out = *rec
		return nil
	})
	if err != nil {
		if errors.Is(err, task.ErrNotFound) || errors.Is(err, task.ErrValidation) || errors.Is(err, task.ErrStorage) {
			return task.Task{}, err
		}
		return task.Task{}, s.storageErr("update", err)
	}
	return out.toTask(), nil
}

// Update changes the supplied fields only. A blank description clears it.
func (s *Store) Update(id int64, title, description *string) (task.Task, error) {
	return s.modify(id, func(rec *taskRecord) (bool, error) {
		if title != nil {
			normalized, err := task.NormalizeTitle(*title)
			if err != nil {
				return false, err
			}
			rec.Title = normalized
		}
		if description != nil {
			rec.Description = task.NormalizeDescription(description)
		}
		return title != nil || description != nil, nil
	})
}

// Delete removes the task. Its id is never reassigned.
func (s *Store) Delete(id int64) error {
	result := s.db.Delete(&taskRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		return s.storageErr("delete", fmt.Errorf("failed to delete task: %w", err))
	}
	if result.RowsAffected == 0 {
		return task.NotFoundError(id)
	}
	return nil
}

// MarkComplete marks the task complete, keeping an existing completed_at.
func (s *Store) MarkComplete(id int64) (task.Task, error) {
	return s.modify(id, func(rec *taskRecord) (bool, error) {
		if rec.Status == string(task.StatusComplete) {
			return false, nil
		}
		completedAt := task.StampCompletion(rec.CreatedAt, s.now())
		rec.Status = string(task.StatusComplete)
		rec.CompletedAt = &completedAt
		return true, nil
	})
}

// MarkIncomplete reverts the task to pending and clears completed_at.
func (s *Store) MarkIncomplete(id int64) (task.Task, error) {
	return s.modify(id, func(rec *taskRecord) (bool, error) {
		if rec.Status == string(task.StatusPending) {
			return false, nil
		}
		rec.Status = string(task.StatusPending)
		rec.CompletedAt = nil
		return true, nil
	})
}

// Toggle flips the completion status of the task.
func (s *Store) Toggle(id int64) (task.Task, error) {
	return s.modify(id, func(rec *taskRecord) (bool, error) {
		if rec.Status == string(task.StatusComplete) {
			rec.Status = string(task.StatusPending)
			rec.CompletedAt = nil
			return true, nil
		}
		completedAt := task.StampCompletion(rec.CreatedAt, s.now())
		rec.Status = string(task.StatusComplete)
		rec.CompletedAt = &completedAt
		return true, nil
	})
}

// scoped applies the status condition for filter to a query.
func scoped(db *gorm.DB, filter task.Filter) *gorm.DB {
	switch filter {
	case task.FilterPending:
		return db.Where("status = ?", string(task.StatusPending))
	case task.FilterCompleted:
		return db.Where("status = ?", string(task.StatusComplete))
	default:
		return db
	}
}

// List returns the tasks matching filter in creation order.
func (s *Store) List(filter task.Filter) ([]task.Task, error) {
	var recs []taskRecord
	if err := scoped(s.db, filter).Order("id asc").Find(&recs).Error; err != nil {
		return nil, s.storageErr("query", fmt.Errorf("failed to list tasks: %w", err))
	}

	tasks := make([]task.Task, 0, len(recs))
	for _, r := range recs {
		tasks = append(tasks, r.toTask())
	}
	return tasks, nil
}

// ListAll returns every task in creation order.
func (s *Store) ListAll() ([]task.Task, error) {
	return s.List(task.FilterAll)
}

// ListPending returns pending tasks in creation order.
func (s *Store) ListPending() ([]task.Task, error) {
	return s.List(task.FilterPending)
}

// ListCompleted returns completed tasks in creation order.
func (s *Store) ListCompleted() ([]task.Task, error) {
	return s.List(task.FilterCompleted)
}

func (s *Store) count(filter task.Filter) (int, error) {
	var n int64
	if err := scoped(s.db.Model(&taskRecord{}), filter).Count(&n).Error; err != nil {
		return 0, s.storageErr("query", fmt.Errorf("failed to count tasks: %w", err))
	}
	return int(n), nil
}

// CountAll returns the number of stored tasks.
func (s *Store) CountAll() (int, error) {
	return s.count(task.FilterAll)
}

// CountPending returns the number of pending tasks.
func (s *Store) CountPending() (int, error) {
	return s.count(task.FilterPending)
}

// CountCompleted returns the number of completed tasks.
func (s *Store) CountCompleted() (int, error) {
	return s.count(task.FilterCompleted)
}

// Exists reports whether a task with the given id is stored.
func (s *Store) Exists(id int64) (bool, error) {
	var n int64
	if err := s.db.Model(&taskRecord{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, s.storageErr("query", err)
	}
	return n > 0, nil
}

// IsEmpty reports whether the store holds no tasks.
func (s *Store) IsEmpty() (bool, error) {
	n, err := s.CountAll()
	return n == 0, err
}

func (s *Store) storageErr(op string, err error) error {
	return &task.StorageError{Op: op, Path: s.path, Err: err}
}
