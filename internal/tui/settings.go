package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/habit"
)

type settingsModel struct {
	tracker   *habit.Tracker
	weekStart string
	dbPath    string
	exportDir string
	slots     SlotLister
	width     int
	height    int

	rows       []settingRow
	formActive bool
	form       *huh.Form

	// Form value as a pointer (survives value copies)
	theme *string
}

type settingRow struct {
	label string
	value string
}

func newSettingsModel(tr *habit.Tracker, opts Options) settingsModel {
	th := string(habit.ThemeLight)
	return settingsModel{
		tracker:   tr,
		weekStart: opts.WeekStart.String(),
		dbPath:    opts.DBPath,
		exportDir: opts.ExportDir,
		slots:     opts.Slots,
		theme:     &th,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	rows []settingRow
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		lastReset := s.tracker.LastReset()
		if lastReset == "" {
			lastReset = "never"
		}
		rows := []settingRow{
			{"Theme", string(s.tracker.Theme())},
			{"Week starts on", s.weekStart},
			{"Today", s.tracker.Today()},
			{"Last reset", lastReset},
			{"Habits stored", fmt.Sprintf("%d", len(s.tracker.List("")))},
			{"Database", s.dbPath},
			{"Export directory", s.exportDir},
		}
		if s.slots == nil {
			return settingsDataMsg{rows: rows}
		}
		slots, err := s.slots.All()
		if err != nil {
			rows = append(rows, settingRow{"Saved", "unavailable: " + err.Error()})
			return settingsDataMsg{rows: rows}
		}
		for _, sl := range slots {
			rows = append(rows, settingRow{"Saved " + sl.Key, sl.UpdatedAt.Local().Format("2006-01-02 15:04")})
		}
		return settingsDataMsg{rows: rows}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.rows = msg.rows
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.theme = string(s.tracker.Theme())

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Light", string(habit.ThemeLight)),
					huh.NewOption("Dark", string(habit.ThemeDark)),
				).Value(s.theme),
		).Title("Appearance"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if habit.Theme(*s.theme) == s.tracker.Theme() {
			return s, s.refresh()
		}
		return s, toggleTheme(s.tracker)
	}

	return s, cmd
}

// toggleTheme flips and persists the theme. The new theme is applied even
// when saving fails.
func toggleTheme(tr *habit.Tracker) tea.Cmd {
	return func() tea.Msg {
		th, err := tr.ToggleTheme()
		if err != nil {
			return tea.BatchMsg{
				func() tea.Msg { return themeChangedMsg{theme: th} },
				errorStatus(err),
			}
		}
		return themeChangedMsg{theme: th}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for _, r := range s.rows {
		label := lipgloss.NewStyle().Width(20).Render(r.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(r.value)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to change the theme, or t from any view"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
