package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/pablasso/todo/internal/task"
)

const timeLayout = "2006-01-02 15:04:05"

// maxTitleWidth is the widest title shown in single-line output.
const maxTitleWidth = 60

// StatusTag returns the bracketed marker used in task lines.
func StatusTag(t task.Task) string {
	if t.IsComplete() {
		return "[DONE]"
	}
	return "[TODO]"
}

// FormatTaskLine renders a task as "[TODO] #2: title".
func FormatTaskLine(t task.Task) string {
	return fmt.Sprintf("%s #%d: %s", StatusTag(t), t.ID, truncate(t.Title, maxTitleWidth))
}

// FormatTaskDetail renders every field of a task, one per line.
func FormatTaskDetail(t task.Task) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s #%d: %s\n", StatusTag(t), t.ID, t.Title)
	if t.Description != nil {
		fmt.Fprintf(&b, "       Description: %s\n", *t.Description)
	}
	fmt.Fprintf(&b, "       Created: %s\n", t.CreatedAt.Local().Format(timeLayout))
	if t.CompletedAt != nil {
		fmt.Fprintf(&b, "       Completed: %s (after %s)\n",
			t.CompletedAt.Local().Format(timeLayout),
			FormatElapsed(t.CompletedAt.Sub(t.CreatedAt)))
	}

	return b.String()
}

// FormatSummary renders the pending/complete counts.
func FormatSummary(pending, completed int) string {
	return fmt.Sprintf("Summary: %d pending, %d complete", pending, completed)
}

// FormatElapsed renders a duration as mm:ss, or hh:mm:ss past an hour.
// Durations of a day or more are shown as days plus hh:mm:ss.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, h, m, s)
	}
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// truncate shortens s to width runes, ending with "..." when cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
