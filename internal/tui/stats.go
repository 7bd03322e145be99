package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/habit"
)

type statsModel struct {
	tracker   *habit.Tracker
	weekStart time.Weekday
	width     int
	height    int

	summary habit.Summary
	week    []habit.DayCount
	habits  []habit.Habit

	chart barchart.Model
}

func newStatsModel(tr *habit.Tracker, weekStart time.Weekday) statsModel {
	return statsModel{
		tracker:   tr,
		weekStart: weekStart,
		chart:     barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
	s.buildChart()
}

type statsDataMsg struct {
	summary habit.Summary
	week    []habit.DayCount
	habits  []habit.Habit
}

func (s statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return statsDataMsg{
			summary: s.tracker.Stats(),
			week:    s.tracker.Week(s.weekStart),
			habits:  s.tracker.List(""),
		}
	}
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if msg, ok := msg.(statsDataMsg); ok {
		s.summary = msg.summary
		s.week = msg.week
		s.habits = msg.habits
		s.buildChart()
	}
	return s, nil
}

func (s *statsModel) buildChart() {
	chartWidth := max(s.width-8, 20)
	chartHeight := 10
	if s.height > 30 {
		chartHeight = 14
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, d := range s.week {
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if d.IsToday {
			style = lipgloss.NewStyle().Foreground(colorAccent)
		}
		bars = append(bars, barchart.BarData{
			Label: d.Label,
			Values: []barchart.BarValue{{
				Name:  d.Date,
				Value: float64(d.Completions),
				Style: style,
			}},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	header := titleStyle.Render("Statistics")
	if len(s.week) == 7 {
		header += mutedStyle.Render(fmt.Sprintf("  week of %s to %s", s.week[0].Date, s.week[6].Date))
	}

	cards := s.renderCards()

	var chartView string
	if s.summary.TotalHabits == 0 {
		chartView = mutedStyle.Render("  No habits yet. Add one from the Habits view.")
	} else {
		chartView = s.chart.View()
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", cards, "", titleStyle.Render("This Week"), chartView, "", s.renderStreaks(),
		),
	)
}

func (s statsModel) renderCards() string {
	card := func(label, value string) string {
		return lipgloss.JoinVertical(lipgloss.Left,
			mutedStyle.Render(label),
			highlightStyle.Bold(true).Render(value),
		)
	}
	gap := lipgloss.NewStyle().Width(4).Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Streak", formatStreak(s.summary.TotalStreak)), gap,
		card("Completed Today", fmt.Sprintf("%d/%d", s.summary.CompletedToday, s.summary.TotalHabits)), gap,
		card("Success Rate", fmt.Sprintf("%d%%", s.summary.SuccessRate)),
	)
}

// renderStreaks lists per-habit streaks, longest first.
func (s statsModel) renderStreaks() string {
	if len(s.habits) == 0 {
		return ""
	}
	sorted := make([]habit.Habit, len(s.habits))
	copy(sorted, s.habits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Streak > sorted[j].Streak })

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-28s %10s %8s", "Habit", "Streak", "Total")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", 48)))
	for _, h := range sorted {
		rows = append(rows, fmt.Sprintf("  %s %-26s %10s %8d",
			dot(h.Color), truncate(h.Name, 26), formatStreak(h.Streak), h.TotalCompletions))
	}
	return strings.Join(rows, "\n")
}
