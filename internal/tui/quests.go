package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/tracker"
)

type questsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	quests []engine.Quest
	focus  engine.FocusSlot
	cursor int

	formActive bool
	form       *huh.Form
	formKind   string // "new", "focus"
	pending    focusRequest

	// Form field pointers (survive value copies)
	formTitle    *string
	formXP       *string
	formCategory *string
	formType     *engine.QuestType
	formConfirm  *bool
}

func newQuestsModel(tr *tracker.Tracker) questsModel {
	title, xp, cat := "", "50", ""
	typ := engine.QuestTopic
	confirm := false
	return questsModel{
		tracker:      tr,
		formTitle:    &title,
		formXP:       &xp,
		formCategory: &cat,
		formType:     &typ,
		formConfirm:  &confirm,
	}
}

func (q *questsModel) setSize(w, h int) {
	q.width = w
	q.height = h
}

type questsDataMsg struct {
	quests []engine.Quest
	focus  engine.FocusSlot
}

func (q questsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		quests, err := q.tracker.ListQuests(engine.Filter{})
		if err != nil {
			return statusMsg{text: "Error: " + err.Error(), isError: true}
		}
		focus, _ := q.tracker.Focus()
		return questsDataMsg{quests: quests, focus: focus}
	}
}

func (q questsModel) selected() (engine.Quest, bool) {
	if q.cursor < 0 || q.cursor >= len(q.quests) {
		return engine.Quest{}, false
	}
	return q.quests[q.cursor], true
}

func (q questsModel) update(msg tea.Msg) (questsModel, tea.Cmd) {
	if q.formActive && q.form != nil {
		return q.updateForm(msg)
	}

	switch msg := msg.(type) {
	case questsDataMsg:
		q.quests = msg.quests
		q.focus = msg.focus
		q.cursor = clampCursor(q.cursor, len(q.quests))
		return q, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if q.cursor > 0 {
				q.cursor--
			}
		case key.Matches(msg, keys.Down):
			if q.cursor < len(q.quests)-1 {
				q.cursor++
			}
		case key.Matches(msg, keys.New):
			return q.showNewQuestForm()
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
			if quest, ok := q.selected(); ok {
				return q, q.toggle(quest.ID)
			}
		case key.Matches(msg, keys.Focus):
			if quest, ok := q.selected(); ok {
				return q.toggleFocus(quest.ID)
			}
		case key.Matches(msg, keys.Delete):
			if quest, ok := q.selected(); ok {
				if err := q.tracker.DeleteQuest(quest.ID); err != nil {
					return q, errorCmd(err)
				}
				return q, tea.Batch(q.refresh(), statusCmd("Deleted quest #%d", quest.ID))
			}
		}
	}
	return q, nil
}

func (q questsModel) toggle(id int64) tea.Cmd {
	quest, delta, err := q.tracker.ToggleQuest(id)
	if err != nil {
		return errorCmd(err)
	}
	text := fmt.Sprintf("Completed %q  +%d XP", quest.Title, delta)
	if !quest.Done {
		text = fmt.Sprintf("Reopened %q  %d XP", quest.Title, delta)
	}
	return tea.Batch(q.refresh(), statusCmd("%s", text))
}

func (q questsModel) toggleFocus(id int64) (questsModel, tea.Cmd) {
	req, cmd := requestFocus(q.tracker, engine.FocusQuest, id, q.refresh())
	if req == nil {
		return q, cmd
	}
	q.pending = *req
	q.formKind = "focus"
	q.form = req.form(q.formConfirm)
	q.formActive = true
	return q, q.form.Init()
}

func (q questsModel) showNewQuestForm() (questsModel, tea.Cmd) {
	*q.formTitle = ""
	*q.formXP = "50"
	*q.formCategory = ""
	*q.formType = engine.QuestTopic
	q.formKind = "new"

	typeOptions := make([]huh.Option[engine.QuestType], len(engine.QuestTypes))
	for i, t := range engine.QuestTypes {
		typeOptions[i] = huh.NewOption(string(t), t)
	}

	q.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Quest").Value(q.formTitle).Validate(validateTitle),
			huh.NewInput().Title("XP reward").Value(q.formXP).Validate(validateCount),
			huh.NewInput().Title("Category").Value(q.formCategory),
			huh.NewSelect[engine.QuestType]().Title("Type").Options(typeOptions...).Value(q.formType),
		),
	).WithShowHelp(true).WithShowErrors(true)

	q.formActive = true
	return q, q.form.Init()
}

func (q questsModel) updateForm(msg tea.Msg) (questsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			q.formActive = false
			q.form = nil
			return q, nil
		}
	}

	form, cmd := q.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		q.form = f
	}

	if q.form.State == huh.StateCompleted {
		q.formActive = false
		if q.formKind == "focus" {
			return q, q.pending.resolve(q.tracker, *q.formConfirm, q.refresh())
		}
		return q, q.create()
	}

	return q, cmd
}

func (q questsModel) create() tea.Cmd {
	created, err := q.tracker.CreateQuest(tracker.QuestInput{
		Title:    *q.formTitle,
		XP:       atoi(*q.formXP),
		Category: *q.formCategory,
		Type:     *q.formType,
	})
	if err != nil {
		return errorCmd(err)
	}
	return tea.Batch(q.refresh(), statusCmd("Created quest #%d", created.ID))
}

func (q questsModel) view() string {
	w := q.width - 4
	if q.formActive && q.form != nil {
		title := "New Quest"
		if q.formKind == "focus" {
			title = "Replace Focus"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", q.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Quests")
	if len(q.quests) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No quests yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	done := 0
	for _, quest := range q.quests {
		if quest.Done {
			done++
		}
	}

	var rows []string
	rows = append(rows, title+mutedStyle.Render(fmt.Sprintf("  %d/%d done", done, len(q.quests))))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-4s %-5s %-32s %6s  %-12s %s", "", "#", "Title", "XP", "Category", "Type")))

	for i, quest := range q.quests {
		check := "[ ]"
		style := normalItemStyle
		if quest.Done {
			check = "[x]"
			style = doneItemStyle
		}
		cursor := "  "
		if i == q.cursor {
			cursor = "> "
			if !quest.Done {
				style = selectedItemStyle
			}
		}
		mark := " "
		if q.focus.IsInFocus(engine.FocusQuest, quest.ID) {
			mark = accentStyle.Render("*")
		}
		row := fmt.Sprintf("%s%s%s %-5d %-32s %6d  %-12s %s",
			cursor, mark, check, quest.ID, truncate(quest.Title, 32), quest.XP, truncate(quest.Category, 12), quest.Type)
		rows = append(rows, style.Render(row))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  space: toggle done  f: focus  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func validateTitle(s string) error {
	_, err := engine.NormalizeTitle(s)
	return err
}
