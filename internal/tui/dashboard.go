package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/tracker"
)

type dashboardModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	loaded bool
	stats  tracker.Stats
	focus  engine.FocusState
	err    error

	bar progress.Model
}

func newDashboardModel(tr *tracker.Tracker) dashboardModel {
	return dashboardModel{
		tracker: tr,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.bar.Width = max(10, w-30)
}

type dashboardDataMsg struct {
	stats tracker.Stats
	focus engine.FocusState
	err   error
}

type checkedInMsg struct {
	result engine.CheckInResult
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		st, err := d.tracker.Stats()
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		fs, err := d.tracker.FocusState()
		return dashboardDataMsg{stats: st, focus: fs, err: err}
	}
}

func (d dashboardModel) checkIn() tea.Cmd {
	return func() tea.Msg {
		res, err := d.tracker.CheckIn()
		if err != nil {
			return statusMsg{text: "Error: " + err.Error(), isError: true}
		}
		return checkedInMsg{result: res}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.err = msg.err
		if msg.err == nil {
			d.stats = msg.stats
			d.focus = msg.focus
			d.loaded = true
		}
		return d, nil

	case checkedInMsg:
		text := "Already checked in today"
		if msg.result.Changed {
			text = fmt.Sprintf("Checked in! Streak: %d", msg.result.State.Streak)
		}
		return d, tea.Batch(d.loadData(), statusCmd("%s", text))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CheckIn):
			return d, d.checkIn()
		}
	}
	return d, nil
}

func (d dashboardModel) levelLabel() string {
	if !d.loaded {
		return ""
	}
	return fmt.Sprintf("Lv %d  %d XP", d.stats.Level.Level, d.stats.TotalXP)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	contentWidth := d.width - 4

	if d.err != nil {
		return panelStyle.Width(contentWidth).Render(errorStyle.Render("Could not load stats: " + d.err.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderLevelPanel(contentWidth),
		d.renderTodayPanel(contentWidth),
		d.renderFocusPanel(contentWidth),
	)
}

func (d dashboardModel) renderLevelPanel(w int) string {
	st := d.stats
	lvl := st.Level

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		levelStyle.Render(fmt.Sprintf("Level %d", lvl.Level)),
		"  ",
		xpStyle.Render(fmt.Sprintf("%d XP", st.TotalXP)),
	)
	bar := d.bar.ViewAs(float64(lvl.Pct) / 100)
	toNext := mutedStyle.Render(fmt.Sprintf(" %d/%d  (%d to next level)", lvl.Progress, lvl.NextLevelXP, lvl.ToNext()))

	streak := streakStyle.Render(fmt.Sprintf("🔥 %d day streak", st.Streak))
	if st.CheckedInToday {
		streak += "  " + successStyle.Render("checked in today")
	} else {
		streak += "  " + warningStyle.Render("press c to check in")
	}

	var badges []string
	for _, b := range st.Badges {
		badges = append(badges, badgeStyle(b.Color).Render("★ "+b.Name))
	}
	badgeLine := mutedStyle.Render("No badges yet")
	if len(badges) > 0 {
		badgeLine = strings.Join(badges, "  ")
	}
	if st.NextBadge != nil {
		badgeLine += mutedStyle.Render(fmt.Sprintf("   next: %s in %d XP", st.NextBadge.Name, st.NextBadge.Threshold-st.TotalXP))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		bar+toNext,
		"",
		streak,
		badgeLine,
	)
	style := panelStyle
	if st.CheckedInToday {
		style = activePanelStyle
	}
	return style.Width(w).Render(content)
}

func (d dashboardModel) renderTodayPanel(w int) string {
	st := d.stats
	rows := []string{
		titleStyle.Render("Today"),
		goalLine("Pages", st.PagesToday, st.PageGoal),
		goalLine("Units", st.UnitsToday, st.UnitGoal),
		"",
		fmt.Sprintf("  %-8s %s", "Quests", highlightStyle.Render(fmt.Sprintf("%d/%d done", st.QuestsDone, st.QuestsTotal))),
		fmt.Sprintf("  %-8s %s", "Books", highlightStyle.Render(fmt.Sprintf("%d reading, %d finished, %d backlog",
			st.Books[engine.BookReading], st.Books[engine.BookFinished], st.Books[engine.BookBacklog]))),
		fmt.Sprintf("  %-8s %s", "Courses", highlightStyle.Render(fmt.Sprintf("%d learning, %d finished, %d backlog",
			st.Courses[engine.CourseLearning], st.Courses[engine.CourseFinished], st.Courses[engine.CourseBacklog]))),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func goalLine(label string, done, goal int) string {
	value := fmt.Sprintf("%d/%d", done, goal)
	if goal > 0 && done >= goal {
		value = successStyle.Render(value + " ✓")
	} else {
		value = warningStyle.Render(value)
	}
	return fmt.Sprintf("  %-8s %s", label, value)
}

func (d dashboardModel) renderFocusPanel(w int) string {
	fs := d.focus
	rows := []string{titleStyle.Render("Focus") + mutedStyle.Render("  (×1.2 XP)")}

	line := func(label, value string) string {
		if value == "" {
			value = mutedStyle.Render("none")
		} else {
			value = highlightStyle.Render(value)
		}
		return fmt.Sprintf("  %-8s %s", label, value)
	}

	var quest, book, course string
	if fs.Quest != nil {
		quest = fmt.Sprintf("#%d %s (%d XP)", fs.Quest.ID, fs.Quest.Title, fs.Quest.XP)
	}
	if fs.Book != nil {
		book = fmt.Sprintf("#%d %s (%d/%d)", fs.Book.ID, fs.Book.Title, fs.Book.CurrentPage, fs.Book.TotalPages)
	}
	if fs.Course != nil {
		course = fmt.Sprintf("#%d %s (%d/%d)", fs.Course.ID, fs.Course.Title, fs.Course.CompletedUnits, fs.Course.TotalUnits)
	}
	rows = append(rows, line("Quest", quest), line("Book", book), line("Course", course))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
