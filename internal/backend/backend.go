// Package backend opens the task store variant selected by configuration.
package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pablasso/todo/internal/config"
	"github.com/pablasso/todo/internal/sqlstore"
	"github.com/pablasso/todo/internal/task"
)

// Handle owns an open store and whatever resources back it.
type Handle struct {
	Store   task.Store
	Backend string
	Path    string

	manager *task.Manager
	lock    *task.FileLock
	db      *sqlstore.Store
}

// Open opens the store described by cfg.
func Open(cfg *config.Config, logger *slog.Logger) (*Handle, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case config.BackendMemory:
		m := task.New(task.WithLogger(logger))
		return &Handle{Store: m, Backend: cfg.Backend, manager: m}, nil

	case config.BackendJSON:
		return openJSON(cfg, logger)

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := sqlstore.Open(cfg.Database,
			sqlstore.WithLogger(logger),
			sqlstore.WithDebug(cfg.Level() <= slog.LevelDebug),
		)
		if err != nil {
			return nil, err
		}
		return &Handle{Store: db, Backend: cfg.Backend, Path: cfg.Database, db: db}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func openJSON(cfg *config.Config, logger *slog.Logger) (*Handle, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create task directory: %w", err)
	}

	lock := task.NewFileLock(cfg.File)
	if err := lock.Acquire(); err != nil {
		return nil, err
	}

	m, err := task.Open(cfg.File,
		task.WithLogger(logger),
		task.WithAutoSave(cfg.AutoSaveEnabled()),
	)
	if err != nil {
		lock.Release()
		return nil, err
	}

	return &Handle{
		Store:   m,
		Backend: cfg.Backend,
		Path:    cfg.File,
		manager: m,
		lock:    lock,
	}, nil
}

// Close flushes unsaved JSON changes and releases the lock or database.
func (h *Handle) Close() error {
	var errs []error

	if h.manager != nil && h.manager.Dirty() {
		if err := h.manager.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	if h.lock != nil {
		if err := h.lock.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	if h.db != nil {
		if err := h.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
