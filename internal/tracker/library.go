package tracker

import (
	"strings"

	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/store"
)

// BookInput is the user-editable part of a book.
type BookInput struct {
	Title      string
	Author     string
	TotalPages int
	Category   string
	Tags       []string
}

// CourseInput is the user-editable part of a course.
type CourseInput struct {
	Title      string
	Platform   string
	URL        string
	TotalUnits int
	Category   string
	Tags       []string
}

// ============================================================
// Books
// ============================================================

func (t *Tracker) CreateBook(in BookInput) (*engine.Book, error) {
	b, err := engine.NewBook(in.Title, in.TotalPages, in.Category, in.Tags)
	if err != nil {
		return nil, err
	}
	b.Author = strings.TrimSpace(in.Author)
	created, err := t.store.CreateBook(b)
	if err != nil {
		return nil, err
	}
	t.log.Info("book created", "op", "book.create", "book_id", created.ID, "pages", created.TotalPages)
	return created, nil
}

func (t *Tracker) GetBook(id int64) (*engine.Book, error) {
	return t.store.GetBook(id)
}

func (t *Tracker) ListBooks(f engine.Filter) ([]engine.Book, error) {
	return t.store.ListBooks(f)
}

// UpdateBook edits book metadata. Progress fields are untouched, so shrinking
// total pages below the current page is rejected as an invariant violation,
// and a finished book keeps its total.
func (t *Tracker) UpdateBook(id int64, in BookInput) (*engine.Book, error) {
	var updated engine.Book
	err := t.store.WithTx(func(tx *store.Store) error {
		cur, err := tx.GetBook(id)
		if err != nil {
			return err
		}
		title, err := engine.NormalizeTitle(in.Title)
		if err != nil {
			return err
		}
		b, err := engine.ResizeBook(*cur, in.TotalPages)
		if err != nil {
			return err
		}
		b.Title = title
		b.Author = strings.TrimSpace(in.Author)
		b.Category = strings.TrimSpace(in.Category)
		b.Tags = in.Tags
		if err := engine.CheckBook(b); err != nil {
			return err
		}
		updated = b
		return tx.UpdateBook(b)
	})
	if err != nil {
		return nil, err
	}
	t.log.Info("book updated", "op", "book.update", "book_id", id)
	return &updated, nil
}

// LogBook applies a reading session. The focus boost applies when the book
// holds the book focus slot at the time of logging.
func (t *Tracker) LogBook(id int64, s engine.BookSession) (engine.BookProgressResult, error) {
	var res engine.BookProgressResult
	err := t.store.WithTx(func(tx *store.Store) error {
		b, err := tx.GetBook(id)
		if err != nil {
			return err
		}
		focus, err := tx.GetFocus()
		if err != nil {
			return err
		}
		res, err = engine.ApplyBookProgress(*b, s, focus.IsInFocus(engine.FocusBook, id), t.now())
		if err != nil {
			return err
		}
		entry, err := tx.SaveBookProgress(res)
		if err != nil {
			return err
		}
		res.Entry = *entry
		return nil
	})
	if err != nil {
		return engine.BookProgressResult{}, err
	}
	t.log.Info("book progress logged", "op", "book.log", "book_id", id,
		"from", s.FromPage, "to", s.ToPage, "xp", res.TotalXP(), "finished", res.Finished)
	return res, nil
}

func (t *Tracker) BookHistory(id int64) ([]engine.BookProgressEntry, error) {
	if _, err := t.store.GetBook(id); err != nil {
		return nil, err
	}
	return t.store.ListBookProgress(id)
}

func (t *Tracker) DeleteBook(id int64) error {
	if err := t.store.DeleteBook(id); err != nil {
		return err
	}
	t.log.Info("book deleted", "op", "book.delete", "book_id", id)
	return nil
}

// ============================================================
// Courses
// ============================================================

func (t *Tracker) CreateCourse(in CourseInput) (*engine.Course, error) {
	c, err := engine.NewCourse(in.Title, in.TotalUnits, in.Category, in.Tags)
	if err != nil {
		return nil, err
	}
	c.Platform = strings.TrimSpace(in.Platform)
	c.URL = strings.TrimSpace(in.URL)
	created, err := t.store.CreateCourse(c)
	if err != nil {
		return nil, err
	}
	t.log.Info("course created", "op", "course.create", "course_id", created.ID, "units", created.TotalUnits)
	return created, nil
}

func (t *Tracker) GetCourse(id int64) (*engine.Course, error) {
	return t.store.GetCourse(id)
}

func (t *Tracker) ListCourses(f engine.Filter) ([]engine.Course, error) {
	return t.store.ListCourses(f)
}

// UpdateCourse edits course metadata without touching completed units. A
// finished course keeps its total.
func (t *Tracker) UpdateCourse(id int64, in CourseInput) (*engine.Course, error) {
	var updated engine.Course
	err := t.store.WithTx(func(tx *store.Store) error {
		cur, err := tx.GetCourse(id)
		if err != nil {
			return err
		}
		title, err := engine.NormalizeTitle(in.Title)
		if err != nil {
			return err
		}
		c, err := engine.ResizeCourse(*cur, in.TotalUnits)
		if err != nil {
			return err
		}
		c.Title = title
		c.Platform = strings.TrimSpace(in.Platform)
		c.URL = strings.TrimSpace(in.URL)
		c.Category = strings.TrimSpace(in.Category)
		c.Tags = in.Tags
		if err := engine.CheckCourse(c); err != nil {
			return err
		}
		updated = c
		return tx.UpdateCourse(c)
	})
	if err != nil {
		return nil, err
	}
	t.log.Info("course updated", "op", "course.update", "course_id", id)
	return &updated, nil
}

// LogCourse applies a study session, boosted when the course is in focus.
func (t *Tracker) LogCourse(id int64, s engine.CourseSession) (engine.CourseProgressResult, error) {
	var res engine.CourseProgressResult
	err := t.store.WithTx(func(tx *store.Store) error {
		c, err := tx.GetCourse(id)
		if err != nil {
			return err
		}
		focus, err := tx.GetFocus()
		if err != nil {
			return err
		}
		res, err = engine.ApplyCourseProgress(*c, s, focus.IsInFocus(engine.FocusCourse, id), t.now())
		if err != nil {
			return err
		}
		entry, err := tx.SaveCourseProgress(res)
		if err != nil {
			return err
		}
		res.Entry = *entry
		return nil
	})
	if err != nil {
		return engine.CourseProgressResult{}, err
	}
	t.log.Info("course progress logged", "op", "course.log", "course_id", id,
		"units", s.Units, "xp", res.TotalXP(), "finished", res.Finished)
	return res, nil
}

func (t *Tracker) CourseHistory(id int64) ([]engine.CourseProgressEntry, error) {
	if _, err := t.store.GetCourse(id); err != nil {
		return nil, err
	}
	return t.store.ListCourseProgress(id)
}

func (t *Tracker) DeleteCourse(id int64) error {
	if err := t.store.DeleteCourse(id); err != nil {
		return err
	}
	t.log.Info("course deleted", "op", "course.delete", "course_id", id)
	return nil
}
