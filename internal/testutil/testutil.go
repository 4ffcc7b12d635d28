// Package testutil provides testing utilities for the todo project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestDir creates a temp directory, resolves symlinks (for macOS),
// changes to it, and registers cleanup to restore the original working directory.
// TODO_PATH is pointed at the directory so no test touches ~/.todo.
// Returns the resolved temp directory path.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	// Resolve symlinks for macOS (/var -> /private/var)
	if resolved, err := filepath.EvalSymlinks(tmpDir); err != nil {
		t.Logf("warning: could not resolve symlinks for temp dir: %v", err)
	} else {
		tmpDir = resolved
	}

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change to temp dir: %v", err)
	}

	t.Cleanup(func() {
		os.Chdir(originalWd)
	})

	t.Setenv("TODO_PATH", tmpDir)
	for _, key := range []string{"TODO_BACKEND", "TODO_FILE", "TODO_DB", "TODO_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	return tmpDir
}
