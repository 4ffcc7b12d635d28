package backend

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pablasso/todo/internal/config"
	"github.com/pablasso/todo/internal/task"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	disabled := false
	return &config.Config{
		Backend:  backend,
		File:     filepath.Join(dir, "tasks.json"),
		Database: filepath.Join(dir, "tasks.db"),
		AutoSave: &disabled,
		LogLevel: "warn",
	}
}

func TestOpen_Variants(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendJSON, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			h, err := Open(testConfig(t, backend), nil)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer h.Close()

			created, err := h.Store.Add("Buy groceries", nil)
			if err != nil {
				t.Fatalf("Add failed: %v", err)
			}
			if created.ID != 1 {
				t.Errorf("got id %d, want 1", created.ID)
			}
			if h.Backend != backend {
				t.Errorf("got backend %q, want %q", h.Backend, backend)
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(testConfig(t, "postgres"), nil)
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestOpen_JSONLockAndFlush(t *testing.T) {
	cfg := testConfig(t, config.BackendJSON)

	h, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	t.Run("second open is refused while locked", func(t *testing.T) {
		_, err := Open(cfg, nil)
		if !errors.Is(err, task.ErrLocked) {
			t.Fatalf("expected ErrLocked, got %v", err)
		}
	})

	if _, err := h.Store.Add("Deferred write", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := os.Stat(cfg.File); !os.IsNotExist(err) {
		t.Fatal("expected no file before Close with auto-save disabled")
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(cfg.File + ".lock"); !os.IsNotExist(err) {
		t.Error("expected lock file to be released")
	}

	reopened, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	n, _ := reopened.Store.CountAll()
	if n != 1 {
		t.Errorf("expected flushed task after reopen, got %d tasks", n)
	}
}
