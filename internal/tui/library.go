package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/tracker"
)

// libraryItem is the list row shared by books and courses.
type libraryItem struct {
	ID       int64
	Title    string
	Byline   string // author or platform
	Done     int
	Total    int
	Status   string
	Category string
	Tags     []string
}

func (it libraryItem) pct() int {
	if it.Total == 0 {
		return 0
	}
	return it.Done * 100 / it.Total
}

type historyRow struct {
	When   string
	Detail string
	XP     int
	Notes  string
}

// libraryModel lists books or courses, depending on kind.
type libraryModel struct {
	tracker *tracker.Tracker
	kind    engine.FocusType
	width   int
	height  int

	items   []libraryItem
	focus   engine.FocusSlot
	cursor  int
	history []historyRow

	viewingHistory bool

	formActive bool
	form       *huh.Form
	formKind   string // "new", "log", "focus"
	pending    focusRequest

	// Form field pointers (survive value copies)
	formTitle    *string
	formByline   *string
	formURL      *string
	formTotal    *string
	formCategory *string
	formTags     *string
	formFrom     *string
	formTo       *string
	formNotes    *string
	formConfirm  *bool

	loggingID int64
}

func newLibraryModel(tr *tracker.Tracker, kind engine.FocusType) libraryModel {
	title, byline, url, total, cat, tags := "", "", "", "", "", ""
	from, to, notes := "", "", ""
	confirm := false
	return libraryModel{
		tracker:      tr,
		kind:         kind,
		formTitle:    &title,
		formByline:   &byline,
		formURL:      &url,
		formTotal:    &total,
		formCategory: &cat,
		formTags:     &tags,
		formFrom:     &from,
		formTo:       &to,
		formNotes:    &notes,
		formConfirm:  &confirm,
	}
}

func (l *libraryModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

func (l libraryModel) noun() string {
	return string(l.kind)
}

type libraryDataMsg struct {
	kind  engine.FocusType
	items []libraryItem
	focus engine.FocusSlot
}

type historyDataMsg struct {
	kind engine.FocusType
	rows []historyRow
}

func (l libraryModel) refresh() tea.Cmd {
	return func() tea.Msg {
		items, err := l.load()
		if err != nil {
			return statusMsg{text: "Error: " + err.Error(), isError: true}
		}
		focus, _ := l.tracker.Focus()
		return libraryDataMsg{kind: l.kind, items: items, focus: focus}
	}
}

func (l libraryModel) load() ([]libraryItem, error) {
	var items []libraryItem
	if l.kind == engine.FocusBook {
		books, err := l.tracker.ListBooks(engine.Filter{})
		if err != nil {
			return nil, err
		}
		for _, b := range books {
			items = append(items, libraryItem{
				ID: b.ID, Title: b.Title, Byline: b.Author,
				Done: b.CurrentPage, Total: b.TotalPages,
				Status: string(b.Status), Category: b.Category, Tags: b.Tags,
			})
		}
		return items, nil
	}
	courses, err := l.tracker.ListCourses(engine.Filter{})
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		items = append(items, libraryItem{
			ID: c.ID, Title: c.Title, Byline: c.Platform,
			Done: c.CompletedUnits, Total: c.TotalUnits,
			Status: string(c.Status), Category: c.Category, Tags: c.Tags,
		})
	}
	return items, nil
}

func (l libraryModel) refreshHistory() tea.Cmd {
	it, ok := l.selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		var rows []historyRow
		if l.kind == engine.FocusBook {
			entries, err := l.tracker.BookHistory(it.ID)
			if err != nil {
				return statusMsg{text: "Error: " + err.Error(), isError: true}
			}
			for _, e := range entries {
				rows = append(rows, historyRow{
					When:   e.CreatedAt.Local().Format("2006-01-02 15:04"),
					Detail: fmt.Sprintf("p.%d → %d (%d pages)", e.FromPage, e.ToPage, e.Pages()),
					XP:     e.XPAwarded,
					Notes:  e.Notes,
				})
			}
		} else {
			entries, err := l.tracker.CourseHistory(it.ID)
			if err != nil {
				return statusMsg{text: "Error: " + err.Error(), isError: true}
			}
			for _, e := range entries {
				rows = append(rows, historyRow{
					When:   e.CreatedAt.Local().Format("2006-01-02 15:04"),
					Detail: fmt.Sprintf("%d unit(s)", e.Units),
					XP:     e.XPAwarded,
					Notes:  e.Notes,
				})
			}
		}
		return historyDataMsg{kind: l.kind, rows: rows}
	}
}

func (l libraryModel) selected() (libraryItem, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return libraryItem{}, false
	}
	return l.items[l.cursor], true
}

func (l libraryModel) update(msg tea.Msg) (libraryModel, tea.Cmd) {
	if l.formActive && l.form != nil {
		return l.updateForm(msg)
	}

	switch msg := msg.(type) {
	case libraryDataMsg:
		if msg.kind != l.kind {
			return l, nil
		}
		l.items = msg.items
		l.focus = msg.focus
		l.cursor = clampCursor(l.cursor, len(l.items))
		return l, nil

	case historyDataMsg:
		if msg.kind == l.kind {
			l.history = msg.rows
		}
		return l, nil

	case tea.KeyMsg:
		if l.viewingHistory {
			if key.Matches(msg, keys.Back) {
				l.viewingHistory = false
			}
			return l, nil
		}
		return l.updateList(msg)
	}
	return l, nil
}

func (l libraryModel) updateList(msg tea.KeyMsg) (libraryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(msg, keys.Down):
		if l.cursor < len(l.items)-1 {
			l.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if _, ok := l.selected(); ok {
			l.viewingHistory = true
			l.history = nil
			return l, l.refreshHistory()
		}
	case key.Matches(msg, keys.New):
		return l.showNewForm()
	case key.Matches(msg, keys.Log):
		if it, ok := l.selected(); ok {
			return l.showLogForm(it)
		}
	case key.Matches(msg, keys.Focus):
		if it, ok := l.selected(); ok {
			req, cmd := requestFocus(l.tracker, l.kind, it.ID, l.refresh())
			if req == nil {
				return l, cmd
			}
			l.pending = *req
			l.formKind = "focus"
			l.form = req.form(l.formConfirm)
			l.formActive = true
			return l, l.form.Init()
		}
	case key.Matches(msg, keys.Delete):
		if it, ok := l.selected(); ok {
			var err error
			if l.kind == engine.FocusBook {
				err = l.tracker.DeleteBook(it.ID)
			} else {
				err = l.tracker.DeleteCourse(it.ID)
			}
			if err != nil {
				return l, errorCmd(err)
			}
			return l, tea.Batch(l.refresh(), statusCmd("Deleted %s #%d", l.noun(), it.ID))
		}
	}
	return l, nil
}

func (l libraryModel) showNewForm() (libraryModel, tea.Cmd) {
	*l.formTitle = ""
	*l.formByline = ""
	*l.formURL = ""
	*l.formTotal = ""
	*l.formCategory = ""
	*l.formTags = ""
	l.formKind = "new"

	fields := []huh.Field{
		huh.NewInput().Title("Title").Value(l.formTitle).Validate(validateTitle),
	}
	if l.kind == engine.FocusBook {
		fields = append(fields,
			huh.NewInput().Title("Author").Value(l.formByline),
			huh.NewInput().Title("Total pages").Value(l.formTotal).Validate(validateCount),
		)
	} else {
		fields = append(fields,
			huh.NewInput().Title("Platform").Value(l.formByline),
			huh.NewInput().Title("URL").Value(l.formURL),
			huh.NewInput().Title("Total units").Value(l.formTotal).Validate(validateCount),
		)
	}
	fields = append(fields,
		huh.NewInput().Title("Category").Value(l.formCategory),
		huh.NewInput().Title("Tags (comma-separated)").Value(l.formTags),
	)

	l.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
	l.formActive = true
	return l, l.form.Init()
}

func (l libraryModel) showLogForm(it libraryItem) (libraryModel, tea.Cmd) {
	*l.formNotes = ""
	l.formKind = "log"
	l.loggingID = it.ID

	var fields []huh.Field
	if l.kind == engine.FocusBook {
		*l.formFrom = strconv.Itoa(it.Done)
		*l.formTo = ""
		fields = []huh.Field{
			huh.NewInput().Title("From page").Value(l.formFrom).Validate(validateCount),
			huh.NewInput().Title(fmt.Sprintf("To page (of %d)", it.Total)).Value(l.formTo).Validate(validateCount),
		}
	} else {
		*l.formTo = "1"
		fields = []huh.Field{
			huh.NewInput().Title(fmt.Sprintf("Units completed (%d/%d so far)", it.Done, it.Total)).Value(l.formTo).Validate(validatePositive),
		}
	}
	fields = append(fields, huh.NewInput().Title("Notes").Value(l.formNotes))

	l.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
	l.formActive = true
	return l, l.form.Init()
}

func (l libraryModel) updateForm(msg tea.Msg) (libraryModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			l.formActive = false
			l.form = nil
			return l, nil
		}
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.formActive = false
		switch l.formKind {
		case "new":
			return l, l.create()
		case "log":
			return l, l.logProgress()
		case "focus":
			return l, l.pending.resolve(l.tracker, *l.formConfirm, l.refresh())
		}
	}

	return l, cmd
}

func (l libraryModel) create() tea.Cmd {
	var id int64
	if l.kind == engine.FocusBook {
		b, err := l.tracker.CreateBook(tracker.BookInput{
			Title:      *l.formTitle,
			Author:     *l.formByline,
			TotalPages: atoi(*l.formTotal),
			Category:   *l.formCategory,
			Tags:       engine.ParseTags(*l.formTags),
		})
		if err != nil {
			return errorCmd(err)
		}
		id = b.ID
	} else {
		c, err := l.tracker.CreateCourse(tracker.CourseInput{
			Title:      *l.formTitle,
			Platform:   *l.formByline,
			URL:        *l.formURL,
			TotalUnits: atoi(*l.formTotal),
			Category:   *l.formCategory,
			Tags:       engine.ParseTags(*l.formTags),
		})
		if err != nil {
			return errorCmd(err)
		}
		id = c.ID
	}
	return tea.Batch(l.refresh(), statusCmd("Created %s #%d", l.noun(), id))
}

func (l libraryModel) logProgress() tea.Cmd {
	var xp, bonus int
	var finished bool
	if l.kind == engine.FocusBook {
		res, err := l.tracker.LogBook(l.loggingID, engine.BookSession{
			FromPage: atoi(*l.formFrom),
			ToPage:   atoi(*l.formTo),
			Notes:    *l.formNotes,
		})
		if err != nil {
			return errorCmd(err)
		}
		xp, bonus, finished = res.SessionXP, res.FinishBonus, res.Finished
	} else {
		res, err := l.tracker.LogCourse(l.loggingID, engine.CourseSession{
			Units: atoi(*l.formTo),
			Notes: *l.formNotes,
		})
		if err != nil {
			return errorCmd(err)
		}
		xp, bonus, finished = res.SessionXP, res.FinishBonus, res.Finished
	}
	text := fmt.Sprintf("Logged %s #%d  +%d XP", l.noun(), l.loggingID, xp)
	if finished {
		text += fmt.Sprintf("  finished! +%d bonus", bonus)
	}
	return tea.Batch(l.refresh(), statusCmd("%s", text))
}

func (l libraryModel) title() string {
	if l.kind == engine.FocusBook {
		return "Books"
	}
	return "Courses"
}

func (l libraryModel) view() string {
	w := l.width - 4
	if l.formActive && l.form != nil {
		title := "New " + l.noun()
		switch l.formKind {
		case "log":
			title = fmt.Sprintf("Log progress: %s #%d", l.noun(), l.loggingID)
		case "focus":
			title = "Replace Focus"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", l.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if l.viewingHistory {
		return l.renderHistory()
	}
	return l.renderList()
}

func (l libraryModel) renderList() string {
	w := l.width - 4
	title := titleStyle.Render(l.title())

	if len(l.items) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render(fmt.Sprintf("No %ss yet. Press n to add one.", l.noun())),
		)
		return panelStyle.Width(w).Render(content)
	}

	unit := "pages"
	if l.kind == engine.FocusCourse {
		unit = "units"
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-2s %-5s %-30s %-16s %-10s %s", "", "#", "Title", "Progress", "Status", "Category")))

	for i, it := range l.items {
		cursor := "  "
		style := normalItemStyle
		if i == l.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mark := " "
		if l.focus.IsInFocus(l.kind, it.ID) {
			mark = accentStyle.Render("*")
		}
		progress := fmt.Sprintf("%d/%d %s", it.Done, it.Total, unit)
		row := fmt.Sprintf("%s%s %-5d %-30s %-16s %-10s %s",
			cursor, mark, it.ID, truncate(it.Title, 30), progress, it.Status, truncate(it.Category, 14))
		line := style.Render(row)
		if len(it.Tags) > 0 {
			line += mutedStyle.Render(" [" + strings.Join(it.Tags, ", ") + "]")
		}
		rows = append(rows, line)
	}

	if it, ok := l.selected(); ok {
		rows = append(rows, "")
		detail := fmt.Sprintf("  %s", highlightStyle.Render(it.Title))
		if it.Byline != "" {
			detail += subtitleStyle.Render(" · " + it.Byline)
		}
		detail += mutedStyle.Render(fmt.Sprintf(" · %d%%", it.pct()))
		rows = append(rows, detail)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  p: log progress  f: focus  enter: history  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (l libraryModel) renderHistory() string {
	w := l.width - 4
	it, _ := l.selected()
	title := titleStyle.Render(fmt.Sprintf("%s #%d: History", it.Title, it.ID))

	if len(l.history) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No progress logged yet."),
			"",
			mutedStyle.Render("  esc: back"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	total := 0
	for _, h := range l.history {
		total += h.XP
		row := fmt.Sprintf("  %s  %-26s %s", mutedStyle.Render(h.When), h.Detail, xpStyle.Render(fmt.Sprintf("+%d XP", h.XP)))
		if h.Notes != "" {
			row += mutedStyle.Render("  " + h.Notes)
		}
		rows = append(rows, row)
	}
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  %d session(s), %s", len(l.history), xpStyle.Render(fmt.Sprintf("%d XP", total))))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
