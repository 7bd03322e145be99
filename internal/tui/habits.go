package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/habit"
)

var habitColors = []string{"#6366f1", "#10b981", "#f59e0b", "#ef4444", "#ec4899", "#06b6d4", "#8b5cf6", "#84cc16"}

type habitsModel struct {
	tracker *habit.Tracker
	width   int
	height  int

	habits     []habit.Habit
	cursor     int
	filter     habit.Category // empty = all
	confirming bool           // waiting for y to delete

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName     *string
	formCategory *string
	formColor    *string
}

func newHabitsModel(tr *habit.Tracker) habitsModel {
	name, cat, color := "", string(habit.Health), habitColors[0]
	return habitsModel{
		tracker:      tr,
		formName:     &name,
		formCategory: &cat,
		formColor:    &color,
	}
}

func (p *habitsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type habitsDataMsg struct {
	habits []habit.Habit
}

func (p habitsModel) refresh() tea.Cmd {
	filter := p.filter
	return func() tea.Msg {
		return habitsDataMsg{habits: p.tracker.List(filter)}
	}
}

func (p habitsModel) selected() (habit.Habit, bool) {
	if p.cursor < 0 || p.cursor >= len(p.habits) {
		return habit.Habit{}, false
	}
	return p.habits[p.cursor], true
}

func (p habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		p.habits = msg.habits
		if p.cursor >= len(p.habits) {
			p.cursor = max(0, len(p.habits)-1)
		}
		return p, nil

	case tea.KeyMsg:
		if p.confirming {
			return p.updateConfirm(msg)
		}
		return p.updateList(msg)
	}
	return p, nil
}

func (p habitsModel) updateList(msg tea.KeyMsg) (habitsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.habits)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
		if h, ok := p.selected(); ok {
			updated, err := p.tracker.Toggle(h.ID)
			return p, tea.Batch(dataChanged, toggleStatus(updated, err))
		}
	case key.Matches(msg, keys.New):
		return p.showNewHabitForm()
	case key.Matches(msg, keys.Delete):
		if len(p.habits) > 0 {
			p.confirming = true
		}
	case key.Matches(msg, keys.Filter):
		p.filter = nextFilter(p.filter)
		p.cursor = 0
		return p, p.refresh()
	}
	return p, nil
}

func (p habitsModel) updateConfirm(msg tea.KeyMsg) (habitsModel, tea.Cmd) {
	p.confirming = false
	if !key.Matches(msg, keys.Confirm) {
		return p, nil
	}
	h, ok := p.selected()
	if !ok {
		return p, nil
	}
	err := p.tracker.Delete(h.ID)
	switch {
	case errors.Is(err, habit.ErrNotFound):
		// Already gone; just resync.
		return p, dataChanged
	case err != nil:
		return p, tea.Batch(dataChanged, errorStatus(err))
	}
	return p, tea.Batch(dataChanged, status("Habit deleted"))
}

// nextFilter cycles all -> each category -> all.
func nextFilter(c habit.Category) habit.Category {
	if c == "" {
		return habit.Categories[0]
	}
	for i, cat := range habit.Categories {
		if cat == c && i+1 < len(habit.Categories) {
			return habit.Categories[i+1]
		}
	}
	return ""
}

func (p habitsModel) showNewHabitForm() (habitsModel, tea.Cmd) {
	*p.formName = ""
	*p.formCategory = string(habit.Health)
	*p.formColor = habitColors[0]

	catOptions := make([]huh.Option[string], len(habit.Categories))
	for i, c := range habit.Categories {
		catOptions[i] = huh.NewOption(c.Label(), string(c))
	}
	colorOptions := make([]huh.Option[string], len(habitColors))
	for i, c := range habitColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Habit Name").Value(p.formName).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name is required")
				}
				return nil
			}),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(p.formCategory),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(p.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		if strings.TrimSpace(*p.formName) == "" {
			return p, nil
		}
		_, err := p.tracker.Create(*p.formName, habit.Category(*p.formCategory), *p.formColor)
		if err != nil {
			return p, tea.Batch(dataChanged, errorStatus(err))
		}
		return p, tea.Batch(dataChanged, status("Habit added successfully!"))
	}

	return p, cmd
}

func (p habitsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Habit")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}
	return p.renderList()
}

func (p habitsModel) renderList() string {
	w := p.width - 4
	filterLabel := "all"
	if p.filter != "" {
		filterLabel = p.filter.Label()
	}
	title := titleStyle.Render("Habits") + mutedStyle.Render("  filter: ") + accentStyle.Render(filterLabel)

	if len(p.habits) == 0 {
		hint := "No habits yet. Press n to add your first habit!"
		if p.filter != "" {
			hint = "No habits in this category. Press f to change the filter."
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render(hint))
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-2s %-26s %-13s %-9s %-7s %-12s", "", "Name", "Category", "Streak", "Total", "Progress"))
	rows = append(rows, header)

	for i, h := range p.habits {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := mutedStyle.Render("○")
		if h.CompletedToday {
			check = successStyle.Render("✓")
		}
		row := style.Render(fmt.Sprintf("%s%s %-26s %-13s %-9s %-7d ",
			cursor, dot(h.Color), truncate(h.Name, 26), h.Category.Label(), formatStreak(h.Streak), h.TotalCompletions))
		rows = append(rows, row+progressBar(p.tracker.Progress(h), 10)+"  "+check)
	}

	rows = append(rows, "")
	if p.confirming {
		h, _ := p.selected()
		rows = append(rows, warningStyle.Render(fmt.Sprintf("  Delete %q? y: yes  any key: cancel", h.Name)))
	} else {
		rows = append(rows, mutedStyle.Render("  space: done/undo  n: new  d: delete  f: filter"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// --- status helpers ---

func dataChanged() tea.Msg { return dataChangedMsg{} }

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorStatus(err error) tea.Cmd {
	var perr *habit.PersistenceError
	text := fmt.Sprintf("Error: %v", err)
	if errors.As(err, &perr) {
		text = fmt.Sprintf("Warning: changes not saved (%v)", perr.Err)
	}
	return func() tea.Msg { return statusMsg{text: text, isError: true} }
}

func toggleStatus(h habit.Habit, err error) tea.Cmd {
	if errors.Is(err, habit.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errorStatus(err)
	}
	if h.CompletedToday {
		return status(fmt.Sprintf("Great job! %s streak: %s", h.Name, formatStreak(h.Streak)))
	}
	return nil
}
