package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Document is the persisted snapshot of a store.
type Document struct {
	Tasks  []Task `json:"tasks"`
	NextID int64  `json:"next_id"`
}

// LoadDocument reads and parses a task document. A missing or empty file
// yields (nil, nil).
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &StorageError{Op: "load", Path: path, Err: fmt.Errorf("failed to read file: %w", err)}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &StorageError{Op: "load", Path: path, Err: fmt.Errorf("failed to parse file: %w", err)}
	}

	if err := doc.validate(); err != nil {
		return nil, &StorageError{Op: "load", Path: path, Err: err}
	}

	return &doc, nil
}

// SaveDocument atomically writes doc to path.
// Uses a temp file in the same directory + rename so readers never see a
// partial document.
func SaveDocument(path string, doc *Document) error {
	if doc.Tasks == nil {
		doc.Tasks = []Task{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &StorageError{Op: "save", Path: path, Err: fmt.Errorf("failed to marshal tasks: %w", err)}
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StorageError{Op: "save", Path: path, Err: fmt.Errorf("failed to create directory: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return &StorageError{Op: "save", Path: path, Err: fmt.Errorf("failed to create temp file: %w", err)}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StorageError{Op: "save", Path: path, Err: fmt.Errorf("failed to write temp file: %w", err)}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StorageError{Op: "save", Path: path, Err: fmt.Errorf("failed to sync temp file: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "save", Path: path, Err: fmt.Errorf("failed to close temp file: %w", err)}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "save", Path: path, Err: fmt.Errorf("failed to set permissions: %w", err)}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Clean up temp file on failure
		os.Remove(tmpPath)
		return &StorageError{Op: "save", Path: path, Err: fmt.Errorf("failed to rename temp file: %w", err)}
	}

	return nil
}

// validate checks the task invariants of a loaded document.
func (d *Document) validate() error {
	seen := make(map[int64]bool, len(d.Tasks))
	for i, t := range d.Tasks {
		if t.ID <= 0 {
			return fmt.Errorf("task at index %d has invalid id %d", i, t.ID)
		}
		if t.ID == math.MaxInt64 {
			return fmt.Errorf("task id %d is out of range", t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = true

		if _, err := NormalizeTitle(t.Title); err != nil {
			return fmt.Errorf("task %d: %w", t.ID, err)
		}
		if !t.Status.Valid() {
			return fmt.Errorf("task %d has unknown status %q", t.ID, t.Status)
		}
		if t.IsComplete() && t.CompletedAt == nil {
			return fmt.Errorf("task %d is complete but has no completed_at", t.ID)
		}
		if !t.IsComplete() && t.CompletedAt != nil {
			return fmt.Errorf("task %d is pending but has completed_at", t.ID)
		}
		if t.CompletedAt != nil && t.CompletedAt.Before(t.CreatedAt) {
			return fmt.Errorf("task %d completed_at precedes created_at", t.ID)
		}
	}
	return nil
}

// maxID returns the largest task id in the document, or 0.
func (d *Document) maxID() int64 {
	var highest int64
	for _, t := range d.Tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest
}
