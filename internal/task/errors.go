package task

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when input fails validation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a task id is unknown.
	ErrNotFound = errors.New("task not found")

	// ErrStorage is matched by every *StorageError.
	ErrStorage = errors.New("storage failure")

	// ErrIDsExhausted is returned by Add once the id counter reaches the int64 maximum.
	ErrIDsExhausted = errors.New("task ids exhausted")

	// ErrEmptyTitle is returned for empty or whitespace-only titles.
	ErrEmptyTitle = fmt.Errorf("%w: title cannot be empty", ErrValidation)
)

// notFound builds an ErrNotFound error for the given id.
func notFound(id int64) error {
	return fmt.Errorf("%w: %d", ErrNotFound, id)
}

// NotFoundError builds an ErrNotFound error for the given id. Exported for
// alternate store implementations.
func NotFoundError(id int64) error {
	return notFound(id)
}

// StorageError reports a failure reading or writing the backing store.
// When returned from a mutation, the in-memory state already reflects the
// change; only the durable copy is stale.
type StorageError struct {
	Op   string // "load", "save", "query", ...
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s failed: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) true for any StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
