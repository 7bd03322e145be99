package habit

import (
	"math"
	"time"

	"github.com/sadopc/habitr/internal/clock"
)

// Summary is the aggregate shown in the stats view.
type Summary struct {
	TotalStreak    int `json:"total_streak"`
	CompletedToday int `json:"completed_today"`
	TotalHabits    int `json:"total_habits"`
	SuccessRate    int `json:"success_rate"` // percent, rounded
}

// DayCount is one bar of the weekly chart.
type DayCount struct {
	Date        string  `json:"date"`
	Label       string  `json:"label"`
	Completions int     `json:"completions"`
	Percent     float64 `json:"percent"`
	IsToday     bool    `json:"is_today"`
}

func Summarize(habits []Habit) Summary {
	s := Summary{TotalHabits: len(habits)}
	for _, h := range habits {
		s.TotalStreak += h.Streak
		if h.CompletedToday {
			s.CompletedToday++
		}
	}
	if s.TotalHabits > 0 {
		s.SuccessRate = int(math.Round(float64(s.CompletedToday) / float64(s.TotalHabits) * 100))
	}
	return s
}

// WeekOf counts completions for each day of the week containing today.
// The week begins on start.
func WeekOf(habits []Habit, today time.Time, start time.Weekday) []DayCount {
	today = clock.StartOfDay(today)
	offset := (int(today.Weekday()) - int(start) + 7) % 7
	first := today.AddDate(0, 0, -offset)

	days := make([]DayCount, 7)
	for i := range days {
		d := first.AddDate(0, 0, i)
		date := d.Format(clock.DateLayout)
		n := 0
		for _, h := range habits {
			if h.CompletedOn(date) {
				n++
			}
		}
		var pct float64
		if len(habits) > 0 {
			pct = float64(n) / float64(len(habits)) * 100
		}
		days[i] = DayCount{
			Date:        date,
			Label:       d.Format("Mon"),
			Completions: n,
			Percent:     pct,
			IsToday:     i == offset,
		}
	}
	return days
}

// Progress is the share of days since creation on which the habit was
// completed, capped at 100.
func Progress(h Habit, now time.Time) float64 {
	if h.TotalCompletions == 0 {
		return 0
	}
	days := math.Ceil(now.Sub(h.CreatedAt).Hours() / 24)
	maxPossible := math.Max(days, float64(h.TotalCompletions))
	return math.Min(100, float64(h.TotalCompletions)/maxPossible*100)
}

func (t *Tracker) Stats() Summary {
	return Summarize(t.List(""))
}

func (t *Tracker) Week(start time.Weekday) []DayCount {
	return WeekOf(t.List(""), t.clock.Now(), start)
}

// Progress of h as of the tracker's clock.
func (t *Tracker) Progress(h Habit) float64 {
	return Progress(h, t.clock.Now())
}
