package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sadopc/levelup/internal/engine"
)

const courseColumns = `id, title, platform, url, total_units, completed_units, status, category, tags, created_at, updated_at`

func (s *Store) CreateCourse(c engine.Course) (*engine.Course, error) {
	ts := now()
	res, err := s.q.Exec(
		`INSERT INTO courses (title, platform, url, total_units, completed_units, status, category, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Title, c.Platform, c.URL, c.TotalUnits, c.CompletedUnits, string(c.Status), c.Category, engine.JoinTags(c.Tags), ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetCourse(id)
}

func (s *Store) GetCourse(id int64) (*engine.Course, error) {
	c, err := scanCourse(s.q.QueryRow(`SELECT `+courseColumns+` FROM courses WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &engine.NotFoundError{Entity: "course", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get course %d: %w", id, err)
	}
	return c, nil
}

// ListCourses returns courses matching f, most recently touched first.
func (s *Store) ListCourses(f engine.Filter) ([]engine.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE 1=1`
	var args []any
	if f.Status != "" {
		query += ` AND status = ? COLLATE NOCASE`
		args = append(args, f.Status)
	}
	if f.Category != "" {
		query += ` AND category = ? COLLATE NOCASE`
		args = append(args, f.Category)
	}
	query += ` ORDER BY updated_at DESC, id DESC`

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []engine.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		if f.MatchCourse(*c) {
			courses = append(courses, *c)
		}
	}
	return courses, rows.Err()
}

// UpdateCourse rewrites every mutable column of c.
func (s *Store) UpdateCourse(c engine.Course) error {
	res, err := s.q.Exec(
		`UPDATE courses SET title = ?, platform = ?, url = ?, total_units = ?, completed_units = ?, status = ?, category = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		c.Title, c.Platform, c.URL, c.TotalUnits, c.CompletedUnits, string(c.Status), c.Category, engine.JoinTags(c.Tags), now(), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update course %d: %w", c.ID, err)
	}
	return requireRow(res, "course", c.ID)
}

func (s *Store) DeleteCourse(id int64) error {
	return s.WithTx(func(tx *Store) error {
		res, err := tx.q.Exec(`DELETE FROM courses WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete course %d: %w", id, err)
		}
		if err := requireRow(res, "course", id); err != nil {
			return err
		}
		return tx.clearFocusRef("course_id", id)
	})
}

func scanCourse(r rowScanner) (*engine.Course, error) {
	var c engine.Course
	var status, tags, createdAt, updatedAt string
	if err := r.Scan(&c.ID, &c.Title, &c.Platform, &c.URL, &c.TotalUnits, &c.CompletedUnits, &status, &c.Category, &tags, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.Status = engine.CourseStatus(status)
	c.Tags = engine.ParseTags(tags)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}
