package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/levelup/internal/store"
	"github.com/sadopc/levelup/internal/tracker"
)

type settingsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	pageGoal  *string
	unitGoal  *string
	chartDays *string
}

func newSettingsModel(tr *tracker.Tracker) settingsModel {
	pg, ug, cd := "", "", ""
	return settingsModel{
		tracker:   tr,
		pageGoal:  &pg,
		unitGoal:  &ug,
		chartDays: &cd,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.tracker.Settings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.pageGoal = s.getVal(tracker.SettingPageGoal, "20")
	*s.unitGoal = s.getVal(tracker.SettingUnitGoal, "1")
	*s.chartDays = s.getVal(tracker.SettingChartDays, "7")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Daily page goal").Value(s.pageGoal).Validate(validatePositive),
			huh.NewInput().Title("Daily unit goal").Value(s.unitGoal).Validate(validatePositive),
		).Title("Goals"),
		huh.NewGroup(
			huh.NewInput().Title("Days in XP chart").Value(s.chartDays).Validate(validatePositive),
		).Title("Reports"),
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
		if err := s.saveSettings(); err != nil {
			return s, tea.Batch(s.refresh(), errorCmd(err))
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved"))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := map[string]string{
		tracker.SettingPageGoal:  *s.pageGoal,
		tracker.SettingUnitGoal:  *s.unitGoal,
		tracker.SettingChartDays: *s.chartDays,
	}
	for _, k := range tracker.SettingKeys {
		if err := s.tracker.SetSetting(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	for _, setting := range s.settings {
		if setting.Key == k {
			return setting.Value
		}
	}
	return fallback
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case tracker.SettingPageGoal:
		return v + " pages/day"
	case tracker.SettingUnitGoal:
		return v + " units/day"
	case tracker.SettingChartDays:
		return v + " days"
	}
	return v
}
