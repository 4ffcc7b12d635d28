package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/testutil"
)

func runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRunDeinit(t *testing.T) {
	t.Run("not initialized fails", func(t *testing.T) {
		testutil.SetupTestDir(t)

		_, err := runCmd(t, "deinit", "--force")
		if err == nil || !strings.Contains(err.Error(), "not initialized") {
			t.Errorf("expected not initialized error, got %v", err)
		}
	})

	t.Run("force removes config and tasks", func(t *testing.T) {
		dir := testutil.SetupTestDir(t)

		mustRun(t, "init")
		mustRun(t, "add", "Buy milk")

		out := mustRun(t, "deinit", "--force")
		if !strings.Contains(out, "Todo data has been removed.") {
			t.Errorf("unexpected output: %q", out)
		}

		for _, name := range []string{"config.yaml", "tasks.json"} {
			if fileExists(filepath.Join(dir, name)) {
				t.Errorf("expected %s to be removed", name)
			}
		}
	})

	t.Run("removes sqlite database", func(t *testing.T) {
		dir := testutil.SetupTestDir(t)

		mustRun(t, "--backend", "sqlite", "init")
		mustRun(t, "add", "Buy milk")

		mustRun(t, "deinit", "-f")
		if fileExists(filepath.Join(dir, "tasks.db")) {
			t.Error("expected tasks.db to be removed")
		}
	})

	t.Run("declined prompt keeps files", func(t *testing.T) {
		dir := testutil.SetupTestDir(t)

		mustRun(t, "add", "Buy milk")

		out, err := runWithInput(t, "n\n", "deinit")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Continue? [y/N]") || !strings.Contains(out, "Aborted.") {
			t.Errorf("unexpected output: %q", out)
		}
		if !fileExists(filepath.Join(dir, "tasks.json")) {
			t.Error("expected tasks.json to be kept")
		}
	})

	t.Run("confirmed prompt removes files", func(t *testing.T) {
		dir := testutil.SetupTestDir(t)

		mustRun(t, "add", "Buy milk")

		if _, err := runWithInput(t, "yes\n", "deinit"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fileExists(filepath.Join(dir, "tasks.json")) {
			t.Error("expected tasks.json to be removed")
		}
	})

	t.Run("refuses while the task file is locked", func(t *testing.T) {
		dir := testutil.SetupTestDir(t)

		mustRun(t, "add", "Buy milk")
		lockPath := filepath.Join(dir, "tasks.json.lock")
		if err := os.WriteFile(lockPath, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
			t.Fatalf("failed to write lock: %v", err)
		}

		_, err := runCmd(t, "deinit", "--force")
		if !errors.Is(err, task.ErrLocked) {
			t.Errorf("expected ErrLocked, got %v", err)
		}
		if !fileExists(filepath.Join(dir, "tasks.json")) {
			t.Error("expected tasks.json to be kept")
		}
	})
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0B"},
		{512, "512B"},
		{1536, "1.5KB"},
		{2 * 1024 * 1024, "2.0MB"},
	}

	for _, tt := range tests {
		if got := formatSize(tt.bytes); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
