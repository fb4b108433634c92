package store

import (
	"fmt"
	"time"
)

// ImportBatch records one applied bulk import.
type ImportBatch struct {
	ID         string
	Target     string
	Mode       string
	RowCount   int
	Warnings   int
	ImportedAt time.Time
}

func (s *Store) RecordImport(b ImportBatch) error {
	_, err := s.q.Exec(
		`INSERT INTO import_batches (id, target, mode, row_count, warnings, imported_at) VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.Target, b.Mode, b.RowCount, b.Warnings, formatTime(b.ImportedAt),
	)
	if err != nil {
		return fmt.Errorf("record import %s: %w", b.ID, err)
	}
	return nil
}

// ListImports returns applied import batches, newest first.
func (s *Store) ListImports() ([]ImportBatch, error) {
	rows, err := s.q.Query(
		`SELECT id, target, mode, row_count, warnings, imported_at FROM import_batches ORDER BY imported_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var batches []ImportBatch
	for rows.Next() {
		var b ImportBatch
		var importedAt string
		if err := rows.Scan(&b.ID, &b.Target, &b.Mode, &b.RowCount, &b.Warnings, &importedAt); err != nil {
			return nil, err
		}
		b.ImportedAt = parseTime(importedAt)
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// ClearQuests deletes every quest and empties the quest focus.
func (s *Store) ClearQuests() error {
	return s.clearTable("quests", "quest_id")
}

// ClearBooks deletes every book with its progress history and empties the book focus.
func (s *Store) ClearBooks() error {
	return s.clearTable("books", "book_id")
}

// ClearCourses deletes every course with its progress history and empties the course focus.
func (s *Store) ClearCourses() error {
	return s.clearTable("courses", "course_id")
}

func (s *Store) clearTable(table, focusColumn string) error {
	return s.WithTx(func(tx *Store) error {
		if _, err := tx.q.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		if _, err := tx.q.Exec(`UPDATE focus SET `+focusColumn+` = NULL WHERE id = ?`, singletonID); err != nil {
			return fmt.Errorf("clear focus %s: %w", focusColumn, err)
		}
		return nil
	})
}
