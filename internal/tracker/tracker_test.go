package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/levelup/internal/bulk"
	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/store"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestTracker(t *testing.T) (*Tracker, *clock) {
	t.Helper()
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	c := &clock{t: time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)}
	return New(s, WithClock(c.now)), c
}

// ============================================================
// Check-in
// ============================================================

func TestCheckInSameDayIsNoOp(t *testing.T) {
	tr, c := newTestTracker(t)

	res, err := tr.CheckIn()
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 1, res.State.Streak)

	c.t = c.t.Add(10 * time.Hour)
	res, err = tr.CheckIn()
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 1, res.State.Streak)
}

func TestCheckInAfterGapKeepsCounting(t *testing.T) {
	tr, c := newTestTracker(t)

	_, err := tr.CheckIn()
	require.NoError(t, err)
	c.t = c.t.AddDate(0, 0, 5)
	res, err := tr.CheckIn()
	require.NoError(t, err)
	assert.Equal(t, 2, res.State.Streak)

	st, err := tr.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Streak)
	assert.True(t, st.CheckedInToday)
}

// ============================================================
// Quests and XP
// ============================================================

func TestToggleQuestXP(t *testing.T) {
	tr, _ := newTestTracker(t)

	q, err := tr.CreateQuest(QuestInput{Title: "  Concurrency  ", XP: 120, Category: "Go"})
	require.NoError(t, err)
	assert.Equal(t, "Concurrency", q.Title)
	assert.Equal(t, engine.QuestTopic, q.Type)

	toggled, delta, err := tr.ToggleQuest(q.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)
	assert.Equal(t, 120, delta)

	total, err := tr.TotalXP()
	require.NoError(t, err)
	assert.Equal(t, 120, total)

	_, delta, err = tr.ToggleQuest(q.ID)
	require.NoError(t, err)
	assert.Equal(t, -120, delta)
	total, _ = tr.TotalXP()
	assert.Equal(t, 0, total)
}

func TestCreateQuestValidation(t *testing.T) {
	tr, _ := newTestTracker(t)

	_, err := tr.CreateQuest(QuestInput{Title: " ", XP: 10})
	assert.ErrorIs(t, err, engine.ErrValidation)

	_, err = tr.CreateQuest(QuestInput{Title: "x", XP: -3})
	assert.ErrorIs(t, err, engine.ErrInvalidInput)

	_, err = tr.CreateQuest(QuestInput{Title: "x", XP: 3, Type: "side"})
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestToggleMissingQuest(t *testing.T) {
	tr, _ := newTestTracker(t)
	_, _, err := tr.ToggleQuest(404)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestUpdateQuestKeepsDone(t *testing.T) {
	tr, _ := newTestTracker(t)
	q, _ := tr.CreateQuest(QuestInput{Title: "Old", XP: 10})
	tr.ToggleQuest(q.ID)

	updated, err := tr.UpdateQuest(q.ID, QuestInput{Title: "New", XP: 30, Type: engine.QuestBonus})
	require.NoError(t, err)
	assert.True(t, updated.Done)

	total, _ := tr.TotalXP()
	assert.Equal(t, 30, total)
}

// ============================================================
// Books and courses
// ============================================================

func TestLogBookFinishes(t *testing.T) {
	tr, _ := newTestTracker(t)
	b, err := tr.CreateBook(BookInput{Title: "Hundred", TotalPages: 100, Category: "Go"})
	require.NoError(t, err)

	res, err := tr.LogBook(b.ID, engine.BookSession{FromPage: 0, ToPage: 100})
	require.NoError(t, err)
	assert.Equal(t, 20, res.SessionXP)
	assert.Equal(t, 10, res.FinishBonus)
	assert.True(t, res.Finished)
	assert.NotZero(t, res.Entry.ID)

	got, _ := tr.GetBook(b.ID)
	assert.Equal(t, engine.BookFinished, got.Status)

	_, err = tr.LogBook(b.ID, engine.BookSession{FromPage: 10, ToPage: 20})
	assert.ErrorIs(t, err, engine.ErrAlreadyFinished)

	total, _ := tr.TotalXP()
	assert.Equal(t, 30, total)
}

func TestLogBookFocusBoost(t *testing.T) {
	tr, _ := newTestTracker(t)
	b, _ := tr.CreateBook(BookInput{Title: "Boosted", TotalPages: 500, Category: "Go"})
	_, err := tr.SetFocus(engine.FocusBook, b.ID)
	require.NoError(t, err)

	res, err := tr.LogBook(b.ID, engine.BookSession{FromPage: 0, ToPage: 50})
	require.NoError(t, err)
	assert.Equal(t, 12, res.SessionXP) // round(10 * 1.2)
}

func TestLogBookInvalidRangeAppliesNothing(t *testing.T) {
	tr, _ := newTestTracker(t)
	b, _ := tr.CreateBook(BookInput{Title: "Range", TotalPages: 50, Category: "Go"})

	_, err := tr.LogBook(b.ID, engine.BookSession{FromPage: 30, ToPage: 20})
	assert.ErrorIs(t, err, engine.ErrInvalidRange)

	history, err := tr.BookHistory(b.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	got, _ := tr.GetBook(b.ID)
	assert.Equal(t, engine.BookBacklog, got.Status)
}

func TestLogCourseFocusedFinish(t *testing.T) {
	tr, _ := newTestTracker(t)
	c, err := tr.CreateCourse(CourseInput{Title: "Ten units", TotalUnits: 10, Category: "CS"})
	require.NoError(t, err)
	_, err = tr.LogCourse(c.ID, engine.CourseSession{Units: 8})
	require.NoError(t, err)
	_, err = tr.SetFocus(engine.FocusCourse, c.ID)
	require.NoError(t, err)

	res, err := tr.LogCourse(c.ID, engine.CourseSession{Units: 2, Notes: " final "})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Course.CompletedUnits)
	assert.Equal(t, engine.CourseFinished, res.Course.Status)
	assert.Equal(t, 15, res.FinishBonus)
	assert.Equal(t, 36, res.SessionXP)

	history, _ := tr.CourseHistory(c.ID)
	require.Len(t, history, 2)
	assert.Equal(t, "final", history[0].Notes)
}

func TestFinishedCourseCannotReopen(t *testing.T) {
	tr, _ := newTestTracker(t)
	c, err := tr.CreateCourse(CourseInput{Title: "Once", TotalUnits: 10, Category: "CS"})
	require.NoError(t, err)
	res, err := tr.LogCourse(c.ID, engine.CourseSession{Units: 10})
	require.NoError(t, err)
	require.Equal(t, 15, res.FinishBonus)

	_, err = tr.UpdateCourse(c.ID, CourseInput{Title: "Once", TotalUnits: 20, Category: "CS"})
	assert.ErrorIs(t, err, engine.ErrAlreadyFinished)

	_, err = tr.LogCourse(c.ID, engine.CourseSession{Units: 5})
	assert.ErrorIs(t, err, engine.ErrAlreadyFinished)

	got, _ := tr.GetCourse(c.ID)
	assert.Equal(t, engine.CourseFinished, got.Status)
	assert.Equal(t, 10, got.TotalUnits)
	xp, _ := tr.TotalXP()
	assert.Equal(t, 150+15, xp)

	renamed, err := tr.UpdateCourse(c.ID, CourseInput{Title: "Once more", TotalUnits: 10, Category: "CS"})
	require.NoError(t, err)
	assert.Equal(t, "Once more", renamed.Title)
}

func TestFinishedBookKeepsTotal(t *testing.T) {
	tr, _ := newTestTracker(t)
	b, _ := tr.CreateBook(BookInput{Title: "Short", TotalPages: 20, Category: "Go"})
	_, err := tr.LogBook(b.ID, engine.BookSession{FromPage: 0, ToPage: 20})
	require.NoError(t, err)

	_, err = tr.UpdateBook(b.ID, BookInput{Title: "Short", TotalPages: 40, Category: "Go"})
	assert.ErrorIs(t, err, engine.ErrAlreadyFinished)
	_, err = tr.LogBook(b.ID, engine.BookSession{FromPage: 20, ToPage: 30})
	assert.ErrorIs(t, err, engine.ErrAlreadyFinished)
}

func TestImportFinishedCourseStoredComplete(t *testing.T) {
	tr, _ := newTestTracker(t)
	table := bulk.Table{
		Header: []string{"title", "category", "total_units", "completed_units", "status"},
		Rows:   [][]string{{"Imported", "CS", "10", "2", "finished"}},
	}
	report, err := tr.Import(bulk.TargetCourses, table, ImportAppend, false)
	require.NoError(t, err)
	assert.Len(t, report.Result.Warnings, 1)

	courses, _ := tr.ListCourses(engine.Filter{})
	require.Len(t, courses, 1)
	assert.Equal(t, 10, courses[0].CompletedUnits)
	assert.Equal(t, engine.CourseFinished, courses[0].Status)

	_, err = tr.LogCourse(courses[0].ID, engine.CourseSession{Units: 3})
	assert.ErrorIs(t, err, engine.ErrAlreadyFinished)
}

func TestUpdateBookRejectsShrinkBelowCurrent(t *testing.T) {
	tr, _ := newTestTracker(t)
	b, _ := tr.CreateBook(BookInput{Title: "Shrink", TotalPages: 100, Category: "Go"})
	tr.LogBook(b.ID, engine.BookSession{FromPage: 0, ToPage: 60})

	_, err := tr.UpdateBook(b.ID, BookInput{Title: "Shrink", TotalPages: 50, Category: "Go"})
	assert.ErrorIs(t, err, engine.ErrInvariant)

	updated, err := tr.UpdateBook(b.ID, BookInput{Title: "Shrunk", Author: "Someone", TotalPages: 80, Category: "Go"})
	require.NoError(t, err)
	assert.Equal(t, 60, updated.CurrentPage)
	assert.Equal(t, engine.BookReading, updated.Status)
}

func TestDeleteBookClearsFocusState(t *testing.T) {
	tr, _ := newTestTracker(t)
	b, _ := tr.CreateBook(BookInput{Title: "Gone", TotalPages: 10, Category: "Go"})
	tr.SetFocus(engine.FocusBook, b.ID)

	require.NoError(t, tr.DeleteBook(b.ID))
	slot, err := tr.Focus()
	require.NoError(t, err)
	assert.Nil(t, slot.BookID)

	assert.ErrorIs(t, tr.DeleteBook(b.ID), engine.ErrNotFound)
	_, err = tr.BookHistory(b.ID)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

// ============================================================
// Focus
// ============================================================

func TestSetFocusReportsReplacement(t *testing.T) {
	tr, _ := newTestTracker(t)
	a, _ := tr.CreateQuest(QuestInput{Title: "A", XP: 1})
	b, _ := tr.CreateQuest(QuestInput{Title: "B", XP: 1})

	change, err := tr.SetFocus(engine.FocusQuest, a.ID)
	require.NoError(t, err)
	assert.False(t, change.Replaced())

	change, err = tr.SetFocus(engine.FocusQuest, b.ID)
	require.NoError(t, err)
	assert.True(t, change.Replaced())
	assert.Equal(t, a.ID, *change.Previous)

	fs, err := tr.FocusState()
	require.NoError(t, err)
	require.NotNil(t, fs.Quest)
	assert.Equal(t, "B", fs.Quest.Title)
}

func TestFocusDanglingResolvesToNil(t *testing.T) {
	tr, _ := newTestTracker(t)
	_, err := tr.SetFocus(engine.FocusCourse, 999)
	require.NoError(t, err)

	fs, err := tr.FocusState()
	require.NoError(t, err)
	assert.Nil(t, fs.Course)

	slot, _ := tr.Focus()
	assert.True(t, slot.IsInFocus(engine.FocusCourse, 999))
}

func TestRemoveFocusIdempotent(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.SetFocus(engine.FocusBook, 1)

	_, err := tr.RemoveFocus(engine.FocusBook)
	require.NoError(t, err)
	_, err = tr.RemoveFocus(engine.FocusBook)
	require.NoError(t, err)

	slot, _ := tr.Focus()
	assert.Nil(t, slot.BookID)
}

func TestSetFocusUnknownType(t *testing.T) {
	tr, _ := newTestTracker(t)
	_, err := tr.SetFocus(engine.FocusType("habit"), 1)
	assert.ErrorIs(t, err, engine.ErrInvalidFocusType)
}

// ============================================================
// Import
// ============================================================

func questTable(rows ...[]string) bulk.Table {
	return bulk.Table{Header: []string{"title", "category", "xp", "type"}, Rows: rows}
}

func TestImportAppend(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.CreateQuest(QuestInput{Title: "Existing", XP: 5})

	report, err := tr.Import(bulk.TargetQuests, questTable(
		[]string{"Channels", "Go", "50", "topic"},
		[]string{"CLI tool", "Go", "200", "project"},
		[]string{"Blog post", "Writing", "25", "bonus"},
	), ImportAppend, false)
	require.NoError(t, err)
	assert.True(t, report.Result.Valid)
	assert.Equal(t, 3, report.Inserted)
	assert.NotEmpty(t, report.BatchID)

	quests, _ := tr.ListQuests(engine.Filter{})
	assert.Len(t, quests, 4)

	batches, err := tr.Imports()
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, report.BatchID, batches[0].ID)
	assert.Equal(t, "append", batches[0].Mode)
}

func TestImportAllOrNothing(t *testing.T) {
	tr, _ := newTestTracker(t)

	report, err := tr.Import(bulk.TargetQuests, questTable(
		[]string{"Good", "Go", "50", "topic"},
		[]string{"Bad", "Go", "-5", "topic"},
	), ImportAppend, false)
	assert.ErrorIs(t, err, engine.ErrValidation)
	assert.False(t, report.Result.Valid)
	assert.Contains(t, report.Result.Errors[0], "Row 2")

	quests, _ := tr.ListQuests(engine.Filter{})
	assert.Empty(t, quests)
	batches, _ := tr.Imports()
	assert.Empty(t, batches)
}

func TestImportReplaceNeedsConfirmation(t *testing.T) {
	tr, _ := newTestTracker(t)
	b, _ := tr.CreateBook(BookInput{Title: "Old", TotalPages: 10, Category: "Go"})
	tr.SetFocus(engine.FocusBook, b.ID)

	table := bulk.Table{
		Header: []string{"Title", "Category", "Total Pages", "Current Page", "Status"},
		Rows:   [][]string{{"New", "Go", "200", "250", "reading"}},
	}

	_, err := tr.Import(bulk.TargetBooks, table, ImportReplace, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	books, _ := tr.ListBooks(engine.Filter{})
	require.Len(t, books, 1)

	report, err := tr.Import(bulk.TargetBooks, table, ImportReplace, true)
	require.NoError(t, err)
	assert.Len(t, report.Result.Warnings, 1)

	books, _ = tr.ListBooks(engine.Filter{})
	require.Len(t, books, 1)
	assert.Equal(t, "New", books[0].Title)
	assert.Equal(t, 200, books[0].CurrentPage)

	slot, _ := tr.Focus()
	assert.Nil(t, slot.BookID)
}

func TestPreviewImportDoesNotWrite(t *testing.T) {
	tr, _ := newTestTracker(t)
	res, err := tr.PreviewImport(bulk.TargetQuests, questTable([]string{"Only", "Go", "10", "topic"}))
	require.NoError(t, err)
	assert.True(t, res.Valid)

	quests, _ := tr.ListQuests(engine.Filter{})
	assert.Empty(t, quests)
}

// ============================================================
// Stats
// ============================================================

func TestStatsSummary(t *testing.T) {
	tr, _ := newTestTracker(t)
	q, _ := tr.CreateQuest(QuestInput{Title: "Big", XP: 150})
	tr.ToggleQuest(q.ID)
	tr.CreateQuest(QuestInput{Title: "Open", XP: 10})
	b, _ := tr.CreateBook(BookInput{Title: "Reading", TotalPages: 300, Category: "Go"})
	tr.LogBook(b.ID, engine.BookSession{FromPage: 0, ToPage: 25})
	tr.CreateCourse(CourseInput{Title: "Later", TotalUnits: 4, Category: "CS"})

	st, err := tr.Stats()
	require.NoError(t, err)
	assert.Equal(t, 155, st.TotalXP)
	assert.Equal(t, 1, st.Level.Level)
	assert.Equal(t, 5, st.Level.Progress)
	require.Len(t, st.Badges, 1)
	assert.Equal(t, "Bronze", st.Badges[0].Name)
	require.NotNil(t, st.NextBadge)
	assert.Equal(t, "Silver", st.NextBadge.Name)
	assert.Equal(t, 1, st.QuestsDone)
	assert.Equal(t, 2, st.QuestsTotal)
	assert.Equal(t, 1, st.Books[engine.BookReading])
	assert.Equal(t, 1, st.Courses[engine.CourseBacklog])
	assert.Equal(t, 25, st.PagesToday)
	assert.Equal(t, 20, st.PageGoal)
	assert.False(t, st.CheckedInToday)
}

func TestDailyXPWindow(t *testing.T) {
	tr, c := newTestTracker(t)
	b, _ := tr.CreateBook(BookInput{Title: "Daily", TotalPages: 500, Category: "Go"})
	tr.LogBook(b.ID, engine.BookSession{FromPage: 0, ToPage: 50})
	c.t = c.t.AddDate(0, 0, 1)
	tr.LogBook(b.ID, engine.BookSession{FromPage: 50, ToPage: 75})

	days, err := tr.DailyXP(3, 0)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, []int{0, 10, 5}, []int{days[0].XP, days[1].XP, days[2].XP})

	prev, err := tr.DailyXP(1, 1)
	require.NoError(t, err)
	require.Len(t, prev, 1)
	assert.Equal(t, 10, prev[0].XP)
	assert.Equal(t, "2026-05-10", prev[0].Day.Format("2006-01-02"))
}

func TestSnapshot(t *testing.T) {
	tr, _ := newTestTracker(t)
	q, _ := tr.CreateQuest(QuestInput{Title: "Q", XP: 40})
	tr.ToggleQuest(q.ID)
	tr.CreateBook(BookInput{Title: "B", TotalPages: 10, Category: "Go"})
	tr.CheckIn()

	snap, err := tr.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Quests, 1)
	assert.Len(t, snap.Books, 1)
	assert.Empty(t, snap.Courses)
	assert.Equal(t, 40, snap.TotalXP)
	assert.Equal(t, 1, snap.Streak)
}

// ============================================================
// Settings
// ============================================================

func TestSetSetting(t *testing.T) {
	tr, _ := newTestTracker(t)

	require.NoError(t, tr.SetSetting(SettingChartDays, " 14 "))
	assert.Equal(t, 14, tr.IntSetting(SettingChartDays, 7))

	require.NoError(t, tr.SetSetting(SettingPageGoal, "40"))
	st, err := tr.Stats()
	require.NoError(t, err)
	assert.Equal(t, 40, st.PageGoal)
}

func TestSetSettingRejectsBadValues(t *testing.T) {
	tr, _ := newTestTracker(t)

	assert.ErrorIs(t, tr.SetSetting(SettingUnitGoal, "0"), engine.ErrInvalidInput)
	assert.ErrorIs(t, tr.SetSetting(SettingUnitGoal, "many"), engine.ErrValidation)
	assert.ErrorIs(t, tr.SetSetting("theme", "3"), engine.ErrInvalidInput)
	assert.Equal(t, 1, tr.IntSetting(SettingUnitGoal, 1))

	settings, err := tr.Settings()
	require.NoError(t, err)
	assert.Len(t, settings, len(SettingKeys))
}
