package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sadopc/levelup/internal/engine"
)

const bookColumns = `id, title, author, total_pages, current_page, status, category, tags, created_at, updated_at`

func (s *Store) CreateBook(b engine.Book) (*engine.Book, error) {
	ts := now()
	res, err := s.q.Exec(
		`INSERT INTO books (title, author, total_pages, current_page, status, category, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Author, b.TotalPages, b.CurrentPage, string(b.Status), b.Category, engine.JoinTags(b.Tags), ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetBook(id)
}

func (s *Store) GetBook(id int64) (*engine.Book, error) {
	b, err := scanBook(s.q.QueryRow(`SELECT `+bookColumns+` FROM books WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &engine.NotFoundError{Entity: "book", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

// ListBooks returns books matching f. Status and category narrow the query in
// SQL; tag and search are applied with the engine predicate.
func (s *Store) ListBooks(f engine.Filter) ([]engine.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE 1=1`
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
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []engine.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		if f.MatchBook(*b) {
			books = append(books, *b)
		}
	}
	return books, rows.Err()
}

// UpdateBook rewrites every mutable column of b.
func (s *Store) UpdateBook(b engine.Book) error {
	res, err := s.q.Exec(
		`UPDATE books SET title = ?, author = ?, total_pages = ?, current_page = ?, status = ?, category = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		b.Title, b.Author, b.TotalPages, b.CurrentPage, string(b.Status), b.Category, engine.JoinTags(b.Tags), now(), b.ID,
	)
	if err != nil {
		return fmt.Errorf("update book %d: %w", b.ID, err)
	}
	return requireRow(res, "book", b.ID)
}

// DeleteBook removes the book, its progress history (through the foreign key)
// and any focus pointing at it.
func (s *Store) DeleteBook(id int64) error {
	return s.WithTx(func(tx *Store) error {
		res, err := tx.q.Exec(`DELETE FROM books WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete book %d: %w", id, err)
		}
		if err := requireRow(res, "book", id); err != nil {
			return err
		}
		return tx.clearFocusRef("book_id", id)
	})
}

func scanBook(r rowScanner) (*engine.Book, error) {
	var b engine.Book
	var status, tags, createdAt, updatedAt string
	if err := r.Scan(&b.ID, &b.Title, &b.Author, &b.TotalPages, &b.CurrentPage, &status, &b.Category, &tags, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	b.Status = engine.BookStatus(status)
	b.Tags = engine.ParseTags(tags)
	b.CreatedAt = parseTime(createdAt)
	b.UpdatedAt = parseTime(updatedAt)
	return &b, nil
}
