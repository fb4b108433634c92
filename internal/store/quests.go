package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sadopc/levelup/internal/engine"
)

const questColumns = `id, title, xp, category, type, done, created_at, updated_at`

func (s *Store) CreateQuest(q engine.Quest) (*engine.Quest, error) {
	ts := now()
	res, err := s.q.Exec(
		`INSERT INTO quests (title, xp, category, type, done, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.Title, q.XP, q.Category, string(q.Type), boolToInt(q.Done), ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert quest: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetQuest(id)
}

func (s *Store) GetQuest(id int64) (*engine.Quest, error) {
	q, err := scanQuest(s.q.QueryRow(`SELECT `+questColumns+` FROM quests WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &engine.NotFoundError{Entity: "quest", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get quest %d: %w", id, err)
	}
	return q, nil
}

// ListQuests returns quests matching f, oldest first.
func (s *Store) ListQuests(f engine.Filter) ([]engine.Quest, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE 1=1`
	var args []any
	if f.Category != "" {
		query += ` AND category = ? COLLATE NOCASE`
		args = append(args, f.Category)
	}
	query += ` ORDER BY id`

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}
	defer rows.Close()

	var quests []engine.Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		if f.MatchQuest(*q) {
			quests = append(quests, *q)
		}
	}
	return quests, rows.Err()
}

// UpdateQuest rewrites every mutable column of q.
func (s *Store) UpdateQuest(q engine.Quest) error {
	res, err := s.q.Exec(
		`UPDATE quests SET title = ?, xp = ?, category = ?, type = ?, done = ?, updated_at = ? WHERE id = ?`,
		q.Title, q.XP, q.Category, string(q.Type), boolToInt(q.Done), now(), q.ID,
	)
	if err != nil {
		return fmt.Errorf("update quest %d: %w", q.ID, err)
	}
	return requireRow(res, "quest", q.ID)
}

func (s *Store) DeleteQuest(id int64) error {
	return s.WithTx(func(tx *Store) error {
		res, err := tx.q.Exec(`DELETE FROM quests WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete quest %d: %w", id, err)
		}
		if err := requireRow(res, "quest", id); err != nil {
			return err
		}
		return tx.clearFocusRef("quest_id", id)
	})
}

// DoneQuestXP sums the XP of every completed quest.
func (s *Store) DoneQuestXP() (int, error) {
	var total int
	err := s.q.QueryRow(`SELECT COALESCE(SUM(xp), 0) FROM quests WHERE done = 1`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum quest xp: %w", err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuest(r rowScanner) (*engine.Quest, error) {
	var q engine.Quest
	var typ, createdAt, updatedAt string
	var done int
	if err := r.Scan(&q.ID, &q.Title, &q.XP, &q.Category, &typ, &done, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	q.Type = engine.QuestType(typ)
	q.Done = done == 1
	q.CreatedAt = parseTime(createdAt)
	q.UpdatedAt = parseTime(updatedAt)
	return &q, nil
}

func requireRow(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d rows affected: %w", entity, id, err)
	}
	if n == 0 {
		return &engine.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
