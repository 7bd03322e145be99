package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/export"
	"github.com/sadopc/habitr/internal/habit"
	"github.com/sadopc/habitr/internal/store"
	"go.uber.org/zap"
)

var exportFormats = []string{"CSV", "JSON", "HTML"}

// Options configures the TUI.
type Options struct {
	WeekStart time.Weekday
	ExportDir string // defaults to the home directory
	DBPath    string
	Slots     SlotLister // optional; shows save times in settings
	Logger    *zap.Logger
}

// SlotLister reports the stored documents behind the tracker.
type SlotLister interface {
	All() ([]store.Slot, error)
}

// App is the root Bubble Tea model.
type App struct {
	tracker *habit.Tracker
	opts    Options
	log     *zap.Logger
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	habits   habitsModel
	stats    statsModel
	settings settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(tr *habit.Tracker, opts Options) App {
	if opts.ExportDir == "" {
		opts.ExportDir, _ = os.UserHomeDir()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	applyTheme(tr.Theme())

	h := help.New()
	h.ShowAll = false

	return App{
		tracker:    tr,
		opts:       opts,
		log:        opts.Logger,
		activeView: viewHabits,
		habits:     newHabitsModel(tr),
		stats:      newStatsModel(tr, opts.WeekStart),
		settings:   newSettingsModel(tr, opts),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.habits.refresh(),
		a.stats.refresh(),
		a.settings.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.habits.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (form or confirm), delegate first.
		if a.isCapturing() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Theme):
			return a, toggleTheme(a.tracker)
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewHabits
			return a, a.habits.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewStats
			return a, a.stats.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		// The day can roll over while the app stays open.
		reset, err := a.tracker.DailyReset()
		cmds := []tea.Cmd{tickCmd()}
		if err != nil {
			a.log.Warn("daily reset", zap.Error(err))
			cmds = append(cmds, errorStatus(err))
		}
		if reset {
			cmds = append(cmds, dataChanged, status("New day! Completions have been reset"))
		}
		return a, tea.Batch(cmds...)

	case dataChangedMsg:
		return a, tea.Batch(a.habits.refresh(), a.stats.refresh(), a.settings.refresh())

	case themeChangedMsg:
		applyTheme(msg.theme)
		a.status = fmt.Sprintf("Theme: %s", msg.theme)
		a.statusError = false
		// Charts cache their styles.
		a.stats.buildChart()
		return a, a.settings.refresh()

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil

	case habitsDataMsg:
		var cmd tea.Cmd
		a.habits, cmd = a.habits.update(msg)
		return a, cmd

	case statsDataMsg:
		var cmd tea.Cmd
		a.stats, cmd = a.stats.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHabits:
		a.habits, cmd = a.habits.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isCapturing() bool {
	switch a.activeView {
	case viewHabits:
		return a.habits.formActive || a.habits.confirming
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewHabits:
		return a.habits.refresh()
	case viewStats:
		return a.stats.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewHabits:
		content = a.habits.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("habitr")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	today := mutedStyle.Render(" " + a.tracker.Today())

	left := footerStyle.Render(helpView)
	right := status + today

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	tr, dir, weekStart, log := a.tracker, a.opts.ExportDir, a.opts.WeekStart, a.log
	return func() tea.Msg {
		habits := tr.List("")
		base := filepath.Join(dir, "habitr-export-"+tr.Today())

		var (
			path string
			err  error
		)
		switch format {
		case 0:
			path = base + ".csv"
			err = export.ToCSV(habits, path)
		case 1:
			path = base + ".json"
			err = export.ToJSON(habits, path)
		default:
			path = base + ".html"
			err = export.ToHTML(habits, tr.Week(weekStart), tr.Today(), path)
		}
		if err != nil {
			log.Warn("export failed", zap.String("format", exportFormats[format]), zap.Error(err))
			return statusMsg{text: fmt.Sprintf("%s error: %v", exportFormats[format], err), isError: true}
		}
		log.Info("exported habits", zap.String("path", path), zap.Int("count", len(habits)))
		return exportDoneMsg{path: path}
	}
}
