package display

import (
	"strings"
	"testing"
	"time"

	"github.com/pablasso/todo/internal/task"
)

func TestFormatTaskLine(t *testing.T) {
	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	completed := created.Add(time.Minute)

	tests := []struct {
		name string
		task task.Task
		want string
	}{
		{
			name: "pending",
			task: task.Task{ID: 2, Title: "Cook dinner", Status: task.StatusPending, CreatedAt: created},
			want: "[TODO] #2: Cook dinner",
		},
		{
			name: "complete",
			task: task.Task{ID: 1, Title: "Buy groceries", Status: task.StatusComplete, CreatedAt: created, CompletedAt: &completed},
			want: "[DONE] #1: Buy groceries",
		},
		{
			name: "long title truncated",
			task: task.Task{ID: 3, Title: strings.Repeat("x", 70), Status: task.StatusPending},
			want: "[TODO] #3: " + strings.Repeat("x", 57) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTaskLine(tt.task); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTaskDetail(t *testing.T) {
	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	completed := created.Add(90 * time.Second)
	desc := "For Sunday dinner"

	t.Run("pending without description", func(t *testing.T) {
		out := FormatTaskDetail(task.Task{ID: 4, Title: "Call Mom", Status: task.StatusPending, CreatedAt: created})

		if !strings.HasPrefix(out, "[TODO] #4: Call Mom\n") {
			t.Errorf("unexpected header: %q", out)
		}
		if strings.Contains(out, "Description:") {
			t.Error("expected no description line")
		}
		if strings.Contains(out, "Completed:") {
			t.Error("expected no completed line")
		}
		if !strings.Contains(out, "Created: "+created.Local().Format(timeLayout)) {
			t.Errorf("missing created line: %q", out)
		}
	})

	t.Run("complete with description", func(t *testing.T) {
		out := FormatTaskDetail(task.Task{
			ID: 1, Title: "Buy groceries", Description: &desc,
			Status: task.StatusComplete, CreatedAt: created, CompletedAt: &completed,
		})

		if !strings.Contains(out, "Description: For Sunday dinner") {
			t.Errorf("missing description: %q", out)
		}
		if !strings.Contains(out, "(after 01:30)") {
			t.Errorf("missing elapsed time: %q", out)
		}
	})
}

func TestFormatSummary(t *testing.T) {
	if got := FormatSummary(3, 2); got != "Summary: 3 pending, 2 complete" {
		t.Errorf("got %q", got)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{-5 * time.Second, "00:00"},
		{59 * time.Second, "00:59"},
		{61*time.Second + 400*time.Millisecond, "01:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{26*time.Hour + 5*time.Second, "1d 02:00:05"},
	}

	for _, tt := range tests {
		if got := FormatElapsed(tt.in); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
