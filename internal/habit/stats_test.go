package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	habits := []Habit{
		{Streak: 3, CompletedToday: true},
		{Streak: 1, CompletedToday: false},
		{Streak: 0, CompletedToday: true},
	}
	s := Summarize(habits)
	assert.Equal(t, Summary{TotalStreak: 4, CompletedToday: 2, TotalHabits: 3, SuccessRate: 67}, s)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestWeekOfSundayStart(t *testing.T) {
	// 2026-10-21 is a Wednesday.
	today := time.Date(2026, 10, 21, 15, 0, 0, 0, time.Local)
	habits := []Habit{
		{CompletionHistory: []string{"2026-10-18", "2026-10-21"}},
		{CompletionHistory: []string{"2026-10-21", "2026-10-24"}},
		{CompletionHistory: []string{"2026-10-17"}}, // previous week
		{},
	}

	week := WeekOf(habits, today, time.Sunday)
	require.Len(t, week, 7)
	assert.Equal(t, "2026-10-18", week[0].Date)
	assert.Equal(t, "Sun", week[0].Label)
	assert.Equal(t, "2026-10-24", week[6].Date)

	assert.Equal(t, 1, week[0].Completions)
	assert.Equal(t, 25.0, week[0].Percent)
	assert.Equal(t, 2, week[3].Completions)
	assert.Equal(t, 50.0, week[3].Percent)
	assert.True(t, week[3].IsToday)
	assert.Equal(t, 1, week[6].Completions)

	for i, d := range week {
		if i != 3 {
			assert.False(t, d.IsToday, "day %d", i)
		}
	}
}

func TestWeekOfMondayStart(t *testing.T) {
	// Sunday is the last day of a Monday-based week.
	today := time.Date(2026, 10, 25, 8, 0, 0, 0, time.Local)
	week := WeekOf(nil, today, time.Monday)
	assert.Equal(t, "2026-10-19", week[0].Date)
	assert.Equal(t, "Mon", week[0].Label)
	assert.Equal(t, "2026-10-25", week[6].Date)
	assert.True(t, week[6].IsToday)
	assert.Zero(t, week[6].Percent)
}

func TestProgress(t *testing.T) {
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(9*24*time.Hour + time.Hour) // ceil -> 10 days

	assert.Zero(t, Progress(Habit{CreatedAt: created}, now))
	assert.InDelta(t, 50.0, Progress(Habit{CreatedAt: created, TotalCompletions: 5}, now), 1e-9)
	// Drifted totals larger than the elapsed days cap at 100.
	assert.Equal(t, 100.0, Progress(Habit{CreatedAt: created, TotalCompletions: 40}, now))
}

func TestTrackerStatsAndWeek(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	a, _ := tr.Create("A", Health, "")
	tr.Create("B", Health, "")
	tr.Toggle(a.ID)

	s := tr.Stats()
	assert.Equal(t, 2, s.TotalHabits)
	assert.Equal(t, 1, s.CompletedToday)
	assert.Equal(t, 50, s.SuccessRate)
	assert.Equal(t, 1, s.TotalStreak)

	week := tr.Week(time.Sunday)
	var today DayCount
	for _, d := range week {
		if d.IsToday {
			today = d
		}
	}
	assert.Equal(t, "2026-10-19", today.Date)
	assert.Equal(t, 1, today.Completions)

	h, _ := tr.Get(a.ID)
	assert.Equal(t, 100.0, tr.Progress(h))
}
