// Package habit holds the habit records and every operation that mutates
// them. The whole list is mirrored to a slot store after each change.
package habit

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Slot keys.
const (
	KeyHabits    = "habits"
	KeyLastReset = "lastReset"
	KeyTheme     = "theme"
)

// DefaultColor is used when a habit is created without an accent color.
const DefaultColor = "#6366f1"

type Category string

const (
	Health       Category = "health"
	Learning     Category = "learning"
	Productivity Category = "productivity"
	Mindfulness  Category = "mindfulness"
	Other        Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{Health, Learning, Productivity, Mindfulness, Other}

var (
	ErrNotFound        = errors.New("habit not found")
	ErrEmptyName       = errors.New("habit name is empty")
	ErrUnknownCategory = errors.New("unknown category")
)

// PersistenceError reports that a mutation was applied in memory but the
// slot write failed. The caller may keep going; the next successful write
// carries the full list again.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Categories, c) {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Label is the display form of a category.
func (c Category) Label() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

type Habit struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Category          Category  `json:"category"`
	Color             string    `json:"color"`
	Streak            int       `json:"streak"`
	TotalCompletions  int       `json:"totalCompletions"`
	CompletedToday    bool      `json:"completedToday"`
	CreatedAt         time.Time `json:"createdAt"`
	CompletionHistory []string  `json:"completionHistory"`
}

// CompletedOn reports whether date (YYYY-MM-DD) is in the history.
func (h Habit) CompletedOn(date string) bool {
	return slices.Contains(h.CompletionHistory, date)
}

func (h Habit) clone() Habit {
	h.CompletionHistory = slices.Clone(h.CompletionHistory)
	if h.CompletionHistory == nil {
		h.CompletionHistory = []string{}
	}
	return h
}
