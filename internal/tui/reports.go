package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/levelup/internal/store"
	"github.com/sadopc/levelup/internal/tracker"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

// weeksShown is the number of 7-day buckets in the weekly report.
const weeksShown = 8

type reportBucket struct {
	Label string
	From  string
	XP    int
}

type reportsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	mode    reportMode
	days    int
	offset  int // windows back from today (0 = current)
	buckets []reportBucket

	chart barchart.Model
}

func newReportsModel(tr *tracker.Tracker) reportsModel {
	return reportsModel{
		tracker: tr,
		days:    7,
		chart:   barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	days    int
	buckets []reportBucket
}

func (r reportsModel) refresh() tea.Cmd {
	mode, offset := r.mode, r.offset
	return func() tea.Msg {
		days := r.tracker.IntSetting(tracker.SettingChartDays, 7)
		if mode == reportWeekly {
			series, err := r.tracker.DailyXP(7*weeksShown, offset)
			if err != nil {
				return statusMsg{text: "Error: " + err.Error(), isError: true}
			}
			return reportsDataMsg{days: days, buckets: weeklyBuckets(series)}
		}
		series, err := r.tracker.DailyXP(days, offset)
		if err != nil {
			return statusMsg{text: "Error: " + err.Error(), isError: true}
		}
		return reportsDataMsg{days: days, buckets: dailyBuckets(series)}
	}
}

func dailyBuckets(series []store.DayXP) []reportBucket {
	buckets := make([]reportBucket, 0, len(series))
	for _, d := range series {
		buckets = append(buckets, reportBucket{
			Label: d.Day.Format("Mon 02"),
			From:  d.Day.Format("2006-01-02"),
			XP:    d.XP,
		})
	}
	return buckets
}

// weeklyBuckets folds consecutive days into 7-day sums, oldest first.
func weeklyBuckets(series []store.DayXP) []reportBucket {
	var buckets []reportBucket
	for i := 0; i < len(series); i += 7 {
		end := min(i+7, len(series))
		b := reportBucket{
			Label: series[i].Day.Format("Jan 02"),
			From:  series[i].Day.Format("2006-01-02"),
		}
		for _, d := range series[i:end] {
			b.XP += d.XP
		}
		buckets = append(buckets, b)
	}
	return buckets
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.days = msg.days
		r.buckets = msg.buckets
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Enter):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	emptyStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	var bars []barchart.BarData
	for _, b := range r.buckets {
		style := barStyle
		if b.XP == 0 {
			style = emptyStyle
		}
		bars = append(bars, barchart.BarData{
			Label:  b.Label,
			Values: []barchart.BarValue{{Name: "XP", Value: float64(b.XP), Style: style}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) total() int {
	total := 0
	for _, b := range r.buckets {
		total += b.XP
	}
	return total
}

func (r reportsModel) best() (reportBucket, bool) {
	var best reportBucket
	found := false
	for _, b := range r.buckets {
		if b.XP > 0 && (!found || b.XP > best.XP) {
			best, found = b, true
		}
	}
	return best, found
}

func (r reportsModel) view() string {
	w := r.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	dateLabel := ""
	if len(r.buckets) > 0 {
		dateLabel = mutedStyle.Render(fmt.Sprintf("from %s, %d bucket(s)", r.buckets[0].From, len(r.buckets)))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("XP Report"), "  ", modeTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate  enter: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSummary(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummary(w int) string {
	total := r.total()
	if total == 0 {
		return mutedStyle.Render("  No XP earned in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s", "From", "XP")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 24))))
	for _, b := range r.buckets {
		if b.XP == 0 {
			continue
		}
		rows = append(rows, fmt.Sprintf("  %-12s %10d", b.From, b.XP))
	}
	rows = append(rows, "")

	avg := float64(total) / float64(max(len(r.buckets), 1))
	summary := fmt.Sprintf("  Total %s  avg %.1f", xpStyle.Render(fmt.Sprintf("%d XP", total)), avg)
	if best, ok := r.best(); ok {
		summary += fmt.Sprintf("  best %s (%d)", best.From, best.XP)
	}
	rows = append(rows, summary)
	return strings.Join(rows, "\n")
}
