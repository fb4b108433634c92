package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/levelup/internal/engine"
)

func (s *Store) GetFocus() (engine.FocusSlot, error) {
	var quest, book, course sql.NullInt64
	err := s.q.QueryRow(`SELECT quest_id, book_id, course_id FROM focus WHERE id = ?`, singletonID).
		Scan(&quest, &book, &course)
	if err != nil {
		return engine.FocusSlot{}, fmt.Errorf("get focus: %w", err)
	}
	return engine.FocusSlot{
		QuestID:  nullableID(quest),
		BookID:   nullableID(book),
		CourseID: nullableID(course),
	}, nil
}

func (s *Store) SaveFocus(f engine.FocusSlot) error {
	_, err := s.q.Exec(
		`UPDATE focus SET quest_id = ?, book_id = ?, course_id = ? WHERE id = ?`,
		idArg(f.QuestID), idArg(f.BookID), idArg(f.CourseID), singletonID,
	)
	if err != nil {
		return fmt.Errorf("save focus: %w", err)
	}
	return nil
}

// clearFocusRef empties a focus column if it still points at id.
func (s *Store) clearFocusRef(column string, id int64) error {
	_, err := s.q.Exec(`UPDATE focus SET `+column+` = NULL WHERE id = ? AND `+column+` = ?`, singletonID, id)
	if err != nil {
		return fmt.Errorf("clear focus %s: %w", column, err)
	}
	return nil
}

func (s *Store) GetAppState() (engine.AppState, error) {
	var state engine.AppState
	var last sql.NullString
	err := s.q.QueryRow(`SELECT streak, last_check_in FROM app_state WHERE id = ?`, singletonID).
		Scan(&state.Streak, &last)
	if err != nil {
		return engine.AppState{}, fmt.Errorf("get app state: %w", err)
	}
	if last.Valid && last.String != "" {
		t := parseTime(last.String)
		state.LastCheckIn = &t
	}
	return state, nil
}

func (s *Store) SaveAppState(state engine.AppState) error {
	var last any
	if state.LastCheckIn != nil {
		last = state.LastCheckIn.UTC().Format(time.RFC3339)
	}
	_, err := s.q.Exec(`UPDATE app_state SET streak = ?, last_check_in = ? WHERE id = ?`, state.Streak, last, singletonID)
	if err != nil {
		return fmt.Errorf("save app state: %w", err)
	}
	return nil
}

func nullableID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	id := n.Int64
	return &id
}

func idArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
