package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/habitr/internal/habit"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHabits viewState = iota
	viewStats
	viewSettings
)

var viewNames = []string{"Habits", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// dataChangedMsg tells every view to reload from the tracker.
type dataChangedMsg struct{}

type themeChangedMsg struct {
	theme habit.Theme
}

// --- Helpers ---

// progressBar renders pct (0-100) as a bar of width cells.
func progressBar(pct float64, width int) string {
	if width < 1 {
		return ""
	}
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(width, filled))
	return successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}

func formatStreak(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
