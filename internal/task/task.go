package task

import (
	"strings"
	"time"
)

// Status is the completion state of a task.
type Status string

// Task status constants
const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusComplete
}

// Task is a single to-do item.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// IsComplete returns true if the task has been marked complete.
func (t Task) IsComplete() bool {
	return t.Status == StatusComplete
}

// DescriptionText returns the description, or "" when none is set.
func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// clone returns a copy that shares no pointers with t.
func (t Task) clone() Task {
	c := t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	return c
}

// Filter selects which tasks a listing returns.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Match reports whether t passes the filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterPending:
		return !t.IsComplete()
	case FilterCompleted:
		return t.IsComplete()
	default:
		return true
	}
}

// Next cycles all -> pending -> completed -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll, "":
		return FilterPending
	case FilterPending:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// NormalizeTitle trims the title and rejects blank values.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	return trimmed, nil
}

// NormalizeDescription trims a description. Blank descriptions become nil.
func NormalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// StampCompletion returns the completion timestamp for a task created at
// createdAt, never earlier than createdAt.
func StampCompletion(createdAt, now time.Time) time.Time {
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}
