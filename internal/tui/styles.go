package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("#8B5CF6") // violet, levels and selection
	colorSecondary = lipgloss.Color("#14B8A6")
	colorAccent    = lipgloss.Color("#F97316") // streak flame, focus marker
	colorGold      = lipgloss.Color("#FACC15")
	colorSuccess   = lipgloss.Color("#22C55E")
	colorWarning   = lipgloss.Color("#EAB308")
	colorError     = lipgloss.Color("#EF4444")
	colorFg        = lipgloss.Color("#E2E8F0")
	colorMuted     = lipgloss.Color("#64748B")
	colorSubtle    = lipgloss.Color("#334155")
	colorHighlight = lipgloss.Color("#38BDF8")
)

// Chrome: header tabs, footer, panels.
var (
	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)
	activePanelStyle = panelStyle.BorderForeground(colorPrimary)
)

// Progression: level, XP, streak.
var (
	levelStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	xpStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorGold)
	streakStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

// Text and list rows.
var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	subtitleStyle  = lipgloss.NewStyle().Foreground(colorSecondary)
	accentStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	successStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	selectedItemStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorFg)
	doneItemStyle     = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
)

// badgeStyle colors a badge name with the badge's own hex color.
func badgeStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(hex))
}
