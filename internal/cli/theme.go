package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	cPrimary = lipgloss.Color("#6C63FF")
	cGood    = lipgloss.Color("#2ECC71")
	cWarn    = lipgloss.Color("#F39C12")
	cBad     = lipgloss.Color("#E74C3C")
	cMuted   = lipgloss.Color("#666666")
	cGold    = lipgloss.Color("#FFD700")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	styleKey   = lipgloss.NewStyle().Bold(true)
	styleGood  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	styleWarn  = lipgloss.NewStyle().Foreground(cWarn)
	styleBad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	styleMuted = lipgloss.NewStyle().Foreground(cMuted)
	styleGold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
)

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, styleTitle.Render(title))
}

func labelValue(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s %v\n", styleKey.Render(label+":"), value)
}

// renderTable prints rows under headers, or a muted placeholder when empty.
func renderTable(w io.Writer, empty string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, styleMuted.Render(empty))
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(cMuted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(cPrimary).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseCount(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", name, s)
	}
	return n, nil
}

func xpGain(n int) string {
	if n < 0 {
		return styleWarn.Render(fmt.Sprintf("%d XP", n))
	}
	return styleGold.Render(fmt.Sprintf("+%d XP", n))
}

func badgeStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(hex))
}
