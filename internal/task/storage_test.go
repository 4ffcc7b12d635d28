package task

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveDocument(t *testing.T) {
	t.Run("writes expected fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
		completed := created.Add(time.Hour)

		doc := &Document{
			Tasks: []Task{
				{ID: 1, Title: "Buy groceries", Description: strPtr("For Sunday dinner"),
					Status: StatusComplete, CreatedAt: created, CompletedAt: &completed},
				{ID: 2, Title: "Clean house", Status: StatusPending, CreatedAt: created},
			},
			NextID: 3,
		}

		if err := SaveDocument(path, doc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		data, _ := os.ReadFile(path)
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if raw["next_id"].(float64) != 3 {
			t.Errorf("got next_id %v, want 3", raw["next_id"])
		}

		tasks := raw["tasks"].([]any)
		second := tasks[1].(map[string]any)
		if second["description"] != nil || second["completed_at"] != nil {
			t.Errorf("expected null description and completed_at, got %v", second)
		}
		if second["status"] != "pending" {
			t.Errorf("got status %v", second["status"])
		}
		first := tasks[0].(map[string]any)
		if first["completed_at"] != "2025-01-01T11:00:00Z" {
			t.Errorf("got completed_at %v", first["completed_at"])
		}
	})

	t.Run("empty store writes empty task array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		if err := SaveDocument(path, &Document{NextID: 1}); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
		data, _ := os.ReadFile(path)
		if !strings.Contains(string(data), `"tasks": []`) {
			t.Errorf("expected empty tasks array, got %s", data)
		}
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tasks.json")
		for i := 0; i < 3; i++ {
			if err := SaveDocument(path, &Document{NextID: int64(i + 1)}); err != nil {
				t.Fatalf("SaveDocument failed: %v", err)
			}
		}

		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("expected only tasks.json, got %v", names)
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.json")
		if err := SaveDocument(path, &Document{NextID: 1}); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}
	})
}

func TestLoadDocument_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "duplicate ids",
			content: `{"tasks":[{"id":1,"title":"a","status":"pending","created_at":"2025-01-01T10:00:00Z"},{"id":1,"title":"b","status":"pending","created_at":"2025-01-01T10:00:00Z"}],"next_id":2}`,
			wantMsg: "duplicate task id 1",
		},
		{
			name:    "unknown status",
			content: `{"tasks":[{"id":1,"title":"a","status":"done","created_at":"2025-01-01T10:00:00Z"}],"next_id":2}`,
			wantMsg: "unknown status",
		},
		{
			name:    "complete without completed_at",
			content: `{"tasks":[{"id":1,"title":"a","status":"complete","created_at":"2025-01-01T10:00:00Z","completed_at":null}],"next_id":2}`,
			wantMsg: "has no completed_at",
		},
		{
			name:    "pending with completed_at",
			content: `{"tasks":[{"id":1,"title":"a","status":"pending","created_at":"2025-01-01T10:00:00Z","completed_at":"2025-01-01T11:00:00Z"}],"next_id":2}`,
			wantMsg: "pending but has completed_at",
		},
		{
			name:    "completed before created",
			content: `{"tasks":[{"id":1,"title":"a","status":"complete","created_at":"2025-01-01T10:00:00Z","completed_at":"2025-01-01T09:00:00Z"}],"next_id":2}`,
			wantMsg: "precedes created_at",
		},
		{
			name:    "blank title",
			content: `{"tasks":[{"id":1,"title":"  ","status":"pending","created_at":"2025-01-01T10:00:00Z"}],"next_id":2}`,
			wantMsg: "title cannot be empty",
		},
		{
			name:    "non-positive id",
			content: `{"tasks":[{"id":0,"title":"a","status":"pending","created_at":"2025-01-01T10:00:00Z"}],"next_id":2}`,
			wantMsg: "invalid id",
		},
		{
			name:    "id at int64 maximum",
			content: `{"tasks":[{"id":9223372036854775807,"title":"a","status":"pending","created_at":"2025-01-01T10:00:00Z"}],"next_id":0}`,
			wantMsg: "out of range",
		},
		{
			name:    "wrong shape",
			content: `{"tasks": "nope", "next_id": 1}`,
			wantMsg: "failed to parse file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}

			_, err := LoadDocument(path)
			if !errors.Is(err, ErrStorage) {
				t.Fatalf("expected ErrStorage, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadDocument_PreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	content := `{"next_id": 10, "tasks": [
		{"id": 9, "title": "nine", "status": "pending", "created_at": "2025-01-01T10:00:00Z"},
		{"id": 3, "title": "three", "status": "pending", "created_at": "2025-01-01T10:00:00Z"}
	]}`
	os.WriteFile(path, []byte(content), 0644)

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	all, _ := m.ListAll()
	if got := ids(all); !equalIDs(got, []int64{9, 3}) {
		t.Errorf("got order %v, want [9 3]", got)
	}
}
