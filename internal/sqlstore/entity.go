package sqlstore

import (
	"time"

	"github.com/pablasso/todo/internal/task"
)

// taskRecord is the gorm model for a task row.
type taskRecord struct {
	ID          int64      `gorm:"primaryKey;autoIncrement:false"`
	Title       string     `gorm:"size:500;not null"`
	Description *string    `gorm:"size:2000"`
	Status      string     `gorm:"size:16;not null;index"`
	CreatedAt   time.Time  `gorm:"not null"`
	CompletedAt *time.Time
}

// TableName returns the table name for taskRecord.
func (taskRecord) TableName() string {
	return "tasks"
}

func (r taskRecord) toTask() task.Task {
	return task.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      task.Status(r.Status),
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
	}
}

// counter holds the next id to assign for a sequence. Ids are handed out from
// here rather than from the table's rowid so deleted ids are never reused.
type counter struct {
	Name   string `gorm:"primaryKey;size:32"`
	NextID int64  `gorm:"not null"`
}

// TableName returns the table name for counter.
func (counter) TableName() string {
	return "counters"
}

const taskSequence = "tasks"
