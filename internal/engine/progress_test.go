package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestBook(total, current int) Book {
	return Book{ID: 7, Title: "SICP", TotalPages: total, CurrentPage: current, Status: BookBacklog}
}

// ============================================================
// Books
// ============================================================

func TestApplyBookProgressFinishWholeBook(t *testing.T) {
	res, err := ApplyBookProgress(newTestBook(100, 0), BookSession{FromPage: 0, ToPage: 100}, false, testNow)
	require.NoError(t, err)

	assert.Equal(t, 20, res.SessionXP)
	assert.Equal(t, 10, res.FinishBonus)
	assert.Equal(t, 30, res.TotalXP())
	assert.True(t, res.Finished)
	assert.Equal(t, BookFinished, res.Book.Status)
	assert.Equal(t, 100, res.Book.CurrentPage)
	assert.Equal(t, 30, res.Entry.XPAwarded)
	assert.Equal(t, int64(7), res.Entry.BookID)
	assert.Equal(t, 100, res.Entry.Pages())
}

func TestApplyBookProgressPartial(t *testing.T) {
	res, err := ApplyBookProgress(newTestBook(300, 0), BookSession{FromPage: 0, ToPage: 12, Notes: "  ch1 "}, false, testNow)
	require.NoError(t, err)

	assert.Equal(t, 3, res.SessionXP) // ceil(12/5)
	assert.Zero(t, res.FinishBonus)
	assert.False(t, res.Finished)
	assert.Equal(t, BookReading, res.Book.Status)
	assert.Equal(t, "ch1", res.Entry.Notes)
	assert.Equal(t, testNow, res.Entry.CreatedAt)
}

func TestApplyBookProgressFocusBoostsSessionOnly(t *testing.T) {
	res, err := ApplyBookProgress(newTestBook(100, 0), BookSession{FromPage: 0, ToPage: 100}, true, testNow)
	require.NoError(t, err)

	assert.Equal(t, 24, res.SessionXP) // round(20 * 1.2)
	assert.Equal(t, 10, res.FinishBonus)
	assert.Equal(t, 34, res.TotalXP())
}

func TestApplyBookProgressFinishBonusCapped(t *testing.T) {
	res, err := ApplyBookProgress(newTestBook(1200, 1100), BookSession{FromPage: 1100, ToPage: 1200}, false, testNow)
	require.NoError(t, err)
	assert.Equal(t, BookFinishBonusCap, res.FinishBonus)
}

func TestApplyBookProgressInvalidRange(t *testing.T) {
	book := newTestBook(100, 10)
	cases := []BookSession{
		{FromPage: -1, ToPage: 5},
		{FromPage: 5, ToPage: 5},
		{FromPage: 20, ToPage: 10},
		{FromPage: 90, ToPage: 101},
	}
	for _, s := range cases {
		_, err := ApplyBookProgress(book, s, false, testNow)
		require.Error(t, err, "session %+v", s)
		assert.True(t, errors.Is(err, ErrInvalidRange))
		assert.True(t, errors.Is(err, ErrValidation))
	}
	assert.Equal(t, 10, book.CurrentPage, "input must not be mutated")
}

func TestApplyBookProgressMonotonic(t *testing.T) {
	for prev := 0; prev <= 50; prev += 5 {
		for from := 0; from < 50; from += 7 {
			for to := from + 1; to <= 50; to += 9 {
				book := newTestBook(50, prev)
				book.Status = BookReading
				res, err := ApplyBookProgress(book, BookSession{FromPage: from, ToPage: to}, false, testNow)
				require.NoError(t, err)
				require.Equal(t, max(prev, to), res.Book.CurrentPage)
			}
		}
	}
}

func TestApplyBookProgressRoundTrip(t *testing.T) {
	book := newTestBook(90, 0)
	for _, s := range []BookSession{{0, 30, ""}, {30, 60, ""}, {60, 90, ""}} {
		res, err := ApplyBookProgress(book, s, false, testNow)
		require.NoError(t, err)
		book = res.Book
	}
	assert.Equal(t, BookFinished, book.Status)
	assert.Equal(t, 90, book.CurrentPage)

	_, err := ApplyBookProgress(book, BookSession{FromPage: 90, ToPage: 91}, false, testNow)
	assert.Error(t, err)
	_, err = ApplyBookProgress(book, BookSession{FromPage: 0, ToPage: 10}, false, testNow)
	assert.ErrorIs(t, err, ErrAlreadyFinished)
}

func TestApplyBookProgressZeroPageBook(t *testing.T) {
	_, err := ApplyBookProgress(newTestBook(0, 0), BookSession{FromPage: 0, ToPage: 1}, false, testNow)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

// ============================================================
// Courses
// ============================================================

func TestApplyCourseProgressFinishFocused(t *testing.T) {
	course := Course{ID: 3, Title: "Go", TotalUnits: 10, CompletedUnits: 8, Status: CourseLearning}
	res, err := ApplyCourseProgress(course, CourseSession{Units: 2}, true, testNow)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Course.CompletedUnits)
	assert.Equal(t, CourseFinished, res.Course.Status)
	assert.True(t, res.Finished)
	assert.Equal(t, 15, res.FinishBonus)
	assert.Equal(t, 36, res.SessionXP) // round(30 * 1.2)
	assert.Equal(t, 51, res.Entry.XPAwarded)
}

func TestApplyCourseProgressFromBacklog(t *testing.T) {
	course := Course{Title: "Rust", TotalUnits: 20, Status: CourseBacklog}
	res, err := ApplyCourseProgress(course, CourseSession{Units: 3, Notes: "ownership"}, false, testNow)
	require.NoError(t, err)

	assert.Equal(t, CourseLearning, res.Course.Status)
	assert.Equal(t, 45, res.SessionXP)
	assert.Zero(t, res.FinishBonus)
	assert.Equal(t, "ownership", res.Entry.Notes)
}

func TestApplyCourseProgressInvalidDelta(t *testing.T) {
	course := Course{Title: "Rust", TotalUnits: 5, CompletedUnits: 4, Status: CourseLearning}
	for _, units := range []int{0, -1, 2} {
		_, err := ApplyCourseProgress(course, CourseSession{Units: units}, false, testNow)
		assert.ErrorIs(t, err, ErrInvalidDelta, "units=%d", units)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestApplyCourseProgressFinishedRejectsMore(t *testing.T) {
	course := Course{Title: "Done", TotalUnits: 4, CompletedUnits: 4, Status: CourseFinished}
	_, err := ApplyCourseProgress(course, CourseSession{Units: 1}, false, testNow)
	assert.ErrorIs(t, err, ErrAlreadyFinished)
}

func TestApplyCourseProgressFinishedWithHeadroom(t *testing.T) {
	course := Course{Title: "Edited", TotalUnits: 10, CompletedUnits: 2, Status: CourseFinished}
	_, err := ApplyCourseProgress(course, CourseSession{Units: 3}, false, testNow)
	assert.ErrorIs(t, err, ErrAlreadyFinished)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResizeFinishedRecords(t *testing.T) {
	_, err := ResizeBook(Book{Title: "B", TotalPages: 100, CurrentPage: 100, Status: BookFinished}, 200)
	assert.ErrorIs(t, err, ErrAlreadyFinished)
	_, err = ResizeCourse(Course{Title: "C", TotalUnits: 10, CompletedUnits: 10, Status: CourseFinished}, 20)
	assert.ErrorIs(t, err, ErrAlreadyFinished)

	same, err := ResizeCourse(Course{Title: "C", TotalUnits: 10, CompletedUnits: 10, Status: CourseFinished}, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, same.TotalUnits)
}

func TestResizeOpenRecords(t *testing.T) {
	b, err := ResizeBook(Book{Title: "B", TotalPages: 100, CurrentPage: 40, Status: BookReading}, 120)
	require.NoError(t, err)
	assert.Equal(t, 120, b.TotalPages)
	assert.Equal(t, 40, b.CurrentPage)

	_, err = ResizeCourse(Course{Title: "C", TotalUnits: 10, CompletedUnits: 6, Status: CourseLearning}, 5)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestCourseFinishBonusRoundsUp(t *testing.T) {
	assert.Equal(t, 13, CourseFinishBonus(5))
	assert.Equal(t, 10, CourseFinishBonus(0))
}
