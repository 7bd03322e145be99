package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/habit"
)

type palette struct {
	primary   lipgloss.Color
	accent    lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	err       lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
}

var palettes = map[habit.Theme]palette{
	habit.ThemeDark: {
		primary:   lipgloss.Color("#818CF8"),
		accent:    lipgloss.Color("#F472B6"),
		muted:     lipgloss.Color("#666666"),
		success:   lipgloss.Color("#34D399"),
		warning:   lipgloss.Color("#FBBF24"),
		err:       lipgloss.Color("#F87171"),
		fg:        lipgloss.Color("#E2E8F0"),
		subtle:    lipgloss.Color("#414868"),
		highlight: lipgloss.Color("#7AA2F7"),
	},
	habit.ThemeLight: {
		primary:   lipgloss.Color("#4F46E5"),
		accent:    lipgloss.Color("#DB2777"),
		muted:     lipgloss.Color("#6B7280"),
		success:   lipgloss.Color("#059669"),
		warning:   lipgloss.Color("#D97706"),
		err:       lipgloss.Color("#DC2626"),
		fg:        lipgloss.Color("#1F2937"),
		subtle:    lipgloss.Color("#D1D5DB"),
		highlight: lipgloss.Color("#2563EB"),
	},
}

// Color palette
var (
	colorPrimary   lipgloss.Color
	colorAccent    lipgloss.Color
	colorMuted     lipgloss.Color
	colorSuccess   lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorFg        lipgloss.Color
	colorSubtle    lipgloss.Color
	colorHighlight lipgloss.Color
)

// Styles
var (
	activeTabStyle    lipgloss.Style
	inactiveTabStyle  lipgloss.Style
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	titleStyle        lipgloss.Style
	accentStyle       lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	mutedStyle        lipgloss.Style
	highlightStyle    lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
)

func init() {
	applyTheme(habit.ThemeLight)
}

// applyTheme rebuilds every style from the palette for th.
func applyTheme(th habit.Theme) {
	p, ok := palettes[th]
	if !ok {
		p = palettes[habit.ThemeLight]
	}

	colorPrimary = p.primary
	colorAccent = p.accent
	colorMuted = p.muted
	colorSuccess = p.success
	colorWarning = p.warning
	colorError = p.err
	colorFg = p.fg
	colorSubtle = p.subtle
	colorHighlight = p.highlight

	// Tabs
	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorPrimary).
		Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	// Text
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorFg)

	accentStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
		Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
		Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
		Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	normalItemStyle = lipgloss.NewStyle().
		Foreground(colorFg)
}

// dot renders a colored bullet in a habit's accent color.
func dot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}
