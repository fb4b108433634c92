package engine

import (
	"math"
	"strings"
	"time"
)

const (
	// PagesPerXP is the number of pages that earn one session XP (rounded up).
	PagesPerXP = 5
	// BookFinishBonusCap caps the one-time bonus for finishing a book.
	BookFinishBonusCap = 50
	// CourseXPPerUnit is the session XP per completed course unit.
	CourseXPPerUnit = 15
	// CourseFinishBase is the fixed part of the course finish bonus.
	CourseFinishBase = 10
	// FocusBoost multiplies session XP for the item currently in focus.
	FocusBoost = 1.2
)

// BookSession is one logged reading session.
type BookSession struct {
	FromPage int
	ToPage   int
	Notes    string
}

// CourseSession is one logged study session.
type CourseSession struct {
	Units int
	Notes string
}

// BookProgressResult is the derived state after a reading session.
type BookProgressResult struct {
	Book        Book
	Entry       BookProgressEntry
	SessionXP   int
	FinishBonus int
	Finished    bool
}

func (r BookProgressResult) TotalXP() int { return r.SessionXP + r.FinishBonus }

// CourseProgressResult is the derived state after a study session.
type CourseProgressResult struct {
	Course      Course
	Entry       CourseProgressEntry
	SessionXP   int
	FinishBonus int
	Finished    bool
}

func (r CourseProgressResult) TotalXP() int { return r.SessionXP + r.FinishBonus }

// BookSessionXP returns the XP for reading the given number of pages.
func BookSessionXP(pages int, focused bool) int {
	xp := ceilDiv(pages, PagesPerXP)
	if focused {
		xp = boost(xp)
	}
	return xp
}

// BookFinishBonus returns the one-time bonus for finishing a book of totalPages.
func BookFinishBonus(totalPages int) int {
	return min(BookFinishBonusCap, ceilDiv(totalPages, 10))
}

// CourseSessionXP returns the XP for completing the given number of units.
func CourseSessionXP(units int, focused bool) int {
	xp := CourseXPPerUnit * units
	if focused {
		xp = boost(xp)
	}
	return xp
}

// CourseFinishBonus returns the one-time bonus for finishing a course of totalUnits.
func CourseFinishBonus(totalUnits int) int {
	return CourseFinishBase + ceilDiv(totalUnits, 2)
}

// ApplyBookProgress validates a reading session against the book and derives the
// updated book, its audit entry and the XP earned. The input book is not modified.
func ApplyBookProgress(book Book, s BookSession, focused bool, now time.Time) (BookProgressResult, error) {
	if book.Status == BookFinished {
		return BookProgressResult{}, validationf(ErrAlreadyFinished, "book %q is already finished", book.Title)
	}
	if s.FromPage < 0 || s.FromPage >= s.ToPage || s.ToPage > book.TotalPages {
		return BookProgressResult{}, validationf(ErrInvalidRange,
			"invalid page range %d-%d: need 0 <= from < to <= %d", s.FromPage, s.ToPage, book.TotalPages)
	}

	pages := s.ToPage - s.FromPage
	res := BookProgressResult{
		SessionXP: BookSessionXP(pages, focused),
		Finished:  s.ToPage >= book.TotalPages,
	}

	updated := book
	updated.CurrentPage = max(book.CurrentPage, s.ToPage)
	updated.UpdatedAt = now
	if res.Finished {
		updated.Status = BookFinished
		res.FinishBonus = BookFinishBonus(book.TotalPages)
	} else {
		updated.Status = BookReading
	}
	res.Book = updated

	res.Entry = BookProgressEntry{
		BookID:    book.ID,
		FromPage:  s.FromPage,
		ToPage:    s.ToPage,
		XPAwarded: res.TotalXP(),
		Notes:     strings.TrimSpace(s.Notes),
		CreatedAt: now,
	}
	return res, nil
}

// ApplyCourseProgress validates a study session against the course and derives the
// updated course, its audit entry and the XP earned. The input course is not modified.
func ApplyCourseProgress(course Course, s CourseSession, focused bool, now time.Time) (CourseProgressResult, error) {
	if course.Status == CourseFinished {
		return CourseProgressResult{}, validationf(ErrAlreadyFinished, "course %q is already finished", course.Title)
	}
	if s.Units <= 0 || course.CompletedUnits+s.Units > course.TotalUnits {
		return CourseProgressResult{}, validationf(ErrInvalidDelta,
			"invalid unit delta %d: need 0 < delta <= %d", s.Units, course.TotalUnits-course.CompletedUnits)
	}

	updated := course
	updated.CompletedUnits = course.CompletedUnits + s.Units
	updated.UpdatedAt = now

	res := CourseProgressResult{
		SessionXP: CourseSessionXP(s.Units, focused),
		Finished:  updated.CompletedUnits >= course.TotalUnits,
	}
	if res.Finished {
		updated.Status = CourseFinished
		res.FinishBonus = CourseFinishBonus(course.TotalUnits)
	} else {
		updated.Status = CourseLearning
	}
	res.Course = updated

	res.Entry = CourseProgressEntry{
		CourseID:  course.ID,
		Units:     s.Units,
		XPAwarded: res.TotalXP(),
		Notes:     strings.TrimSpace(s.Notes),
		CreatedAt: now,
	}
	return res, nil
}

// ResizeBook sets a new page total. A finished book keeps its total so it can
// never reopen and pay its finish bonus twice.
func ResizeBook(b Book, totalPages int) (Book, error) {
	if totalPages == b.TotalPages {
		return b, nil
	}
	if b.Status == BookFinished {
		return Book{}, validationf(ErrAlreadyFinished, "book %q is finished; total pages cannot change", b.Title)
	}
	b.TotalPages = totalPages
	if err := CheckBook(b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// ResizeCourse sets a new unit total, with the same rule as ResizeBook.
func ResizeCourse(c Course, totalUnits int) (Course, error) {
	if totalUnits == c.TotalUnits {
		return c, nil
	}
	if c.Status == CourseFinished {
		return Course{}, validationf(ErrAlreadyFinished, "course %q is finished; total units cannot change", c.Title)
	}
	c.TotalUnits = totalUnits
	if err := CheckCourse(c); err != nil {
		return Course{}, err
	}
	return c, nil
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

func boost(xp int) int {
	return int(math.Round(float64(xp) * FocusBoost))
}
