package store

import (
	"fmt"
	"time"

	"github.com/sadopc/levelup/internal/engine"
)

// DayXP is the XP earned from logged progress on one UTC calendar day.
type DayXP struct {
	Day time.Time
	XP  int
}

// SaveBookProgress persists the updated book and appends the session entry in
// one transaction.
func (s *Store) SaveBookProgress(res engine.BookProgressResult) (*engine.BookProgressEntry, error) {
	entry := res.Entry
	err := s.WithTx(func(tx *Store) error {
		if err := tx.UpdateBook(res.Book); err != nil {
			return err
		}
		r, err := tx.q.Exec(
			`INSERT INTO book_progress (book_id, from_page, to_page, xp_awarded, notes, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			entry.BookID, entry.FromPage, entry.ToPage, entry.XPAwarded, entry.Notes, formatTime(entry.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert book progress: %w", err)
		}
		entry.ID, _ = r.LastInsertId()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveCourseProgress persists the updated course and appends the session entry
// in one transaction.
func (s *Store) SaveCourseProgress(res engine.CourseProgressResult) (*engine.CourseProgressEntry, error) {
	entry := res.Entry
	err := s.WithTx(func(tx *Store) error {
		if err := tx.UpdateCourse(res.Course); err != nil {
			return err
		}
		r, err := tx.q.Exec(
			`INSERT INTO course_progress (course_id, units, xp_awarded, notes, created_at) VALUES (?, ?, ?, ?, ?)`,
			entry.CourseID, entry.Units, entry.XPAwarded, entry.Notes, formatTime(entry.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert course progress: %w", err)
		}
		entry.ID, _ = r.LastInsertId()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListBookProgress returns the sessions logged against a book, newest first.
func (s *Store) ListBookProgress(bookID int64) ([]engine.BookProgressEntry, error) {
	rows, err := s.q.Query(
		`SELECT id, book_id, from_page, to_page, xp_awarded, notes, created_at
		 FROM book_progress WHERE book_id = ? ORDER BY created_at DESC, id DESC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list book progress %d: %w", bookID, err)
	}
	defer rows.Close()

	var entries []engine.BookProgressEntry
	for rows.Next() {
		var e engine.BookProgressEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.BookID, &e.FromPage, &e.ToPage, &e.XPAwarded, &e.Notes, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListCourseProgress returns the sessions logged against a course, newest first.
func (s *Store) ListCourseProgress(courseID int64) ([]engine.CourseProgressEntry, error) {
	rows, err := s.q.Query(
		`SELECT id, course_id, units, xp_awarded, notes, created_at
		 FROM course_progress WHERE course_id = ? ORDER BY created_at DESC, id DESC`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list course progress %d: %w", courseID, err)
	}
	defer rows.Close()

	var entries []engine.CourseProgressEntry
	for rows.Next() {
		var e engine.CourseProgressEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.CourseID, &e.Units, &e.XPAwarded, &e.Notes, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ProgressXP sums the XP awarded by every logged book and course session.
func (s *Store) ProgressXP() (int, error) {
	var total int
	err := s.q.QueryRow(`
		SELECT
			(SELECT COALESCE(SUM(xp_awarded), 0) FROM book_progress) +
			(SELECT COALESCE(SUM(xp_awarded), 0) FROM course_progress)
	`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum progress xp: %w", err)
	}
	return total, nil
}

// DailyXP returns one bucket per UTC day in [from, to], including empty days.
func (s *Store) DailyXP(from, to time.Time) ([]DayXP, error) {
	from, to = engine.UTCDay(from), engine.UTCDay(to)
	rows, err := s.q.Query(`
		SELECT substr(created_at, 1, 10) AS day, SUM(xp_awarded)
		FROM (
			SELECT created_at, xp_awarded FROM book_progress
			UNION ALL
			SELECT created_at, xp_awarded FROM course_progress
		)
		WHERE created_at >= ? AND created_at < ?
		GROUP BY day
	`, formatTime(from), formatTime(to.AddDate(0, 0, 1)))
	if err != nil {
		return nil, fmt.Errorf("daily xp: %w", err)
	}
	defer rows.Close()

	byDay := make(map[string]int)
	for rows.Next() {
		var day string
		var xp int
		if err := rows.Scan(&day, &xp); err != nil {
			return nil, err
		}
		byDay[day] = xp
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []DayXP
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, DayXP{Day: d, XP: byDay[d.Format(time.DateOnly)]})
	}
	return out, nil
}

// PagesReadOn returns the pages logged across all books on the UTC day of t.
func (s *Store) PagesReadOn(t time.Time) (int, error) {
	from, to := dayBounds(t)
	var pages int
	err := s.q.QueryRow(
		`SELECT COALESCE(SUM(to_page - from_page), 0) FROM book_progress WHERE created_at >= ? AND created_at < ?`,
		from, to,
	).Scan(&pages)
	if err != nil {
		return 0, fmt.Errorf("pages read: %w", err)
	}
	return pages, nil
}

// UnitsDoneOn returns the course units logged on the UTC day of t.
func (s *Store) UnitsDoneOn(t time.Time) (int, error) {
	from, to := dayBounds(t)
	var units int
	err := s.q.QueryRow(
		`SELECT COALESCE(SUM(units), 0) FROM course_progress WHERE created_at >= ? AND created_at < ?`,
		from, to,
	).Scan(&units)
	if err != nil {
		return 0, fmt.Errorf("units done: %w", err)
	}
	return units, nil
}

func dayBounds(t time.Time) (string, string) {
	day := engine.UTCDay(t)
	return formatTime(day), formatTime(day.AddDate(0, 0, 1))
}
