package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/tui/styles"
)

// StatusBar renders a bottom help bar showing contextual help items.
type StatusBar struct{}

// NewStatusBar creates a new StatusBar instance.
func NewStatusBar() StatusBar {
	return StatusBar{}
}

// Render returns the status bar string for the given width and items.
// Items are joined with " • " separator and padded to fill the width.
func (s StatusBar) Render(width int, items []string) string {
	return s.RenderWithInfo(width, "", items)
}

// RenderWithInfo renders info on the left and the help items right-aligned.
// When both do not fit, the help items are dropped.
func (s StatusBar) RenderWithInfo(width int, info string, items []string) string {
	help := strings.Join(items, " • ")

	switch {
	case info == "":
		return styles.StatusBarStyle.Width(width).Render(help)
	case help == "":
		return styles.StatusBarStyle.Width(width).Render(info)
	}

	gap := width - lipgloss.Width(info) - lipgloss.Width(help)
	if gap < 2 {
		return styles.StatusBarStyle.Width(width).Render(info)
	}

	return styles.StatusBarStyle.Width(width).Render(info + strings.Repeat(" ", gap) + help)
}
