package tracker

import (
	"errors"

	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/store"
)

// FocusChange describes a focus slot write. Previous is the id that was
// overwritten, if any, so callers can warn before replacing it.
type FocusChange struct {
	Type     engine.FocusType
	Previous *int64
	Current  *int64
}

// Replaced reports whether the write displaced a different item.
func (c FocusChange) Replaced() bool {
	return c.Previous != nil && (c.Current == nil || *c.Previous != *c.Current)
}

func (t *Tracker) Focus() (engine.FocusSlot, error) {
	return t.store.GetFocus()
}

// SetFocus puts id in the slot for typ, overwriting whatever was there. The id
// is not checked for existence.
func (t *Tracker) SetFocus(typ engine.FocusType, id int64) (FocusChange, error) {
	change := FocusChange{Type: typ}
	err := t.store.WithTx(func(tx *store.Store) error {
		slot, err := tx.GetFocus()
		if err != nil {
			return err
		}
		change.Previous = slot.Get(typ)
		slot, err = slot.Set(typ, id)
		if err != nil {
			return err
		}
		change.Current = slot.Get(typ)
		return tx.SaveFocus(slot)
	})
	if err != nil {
		return FocusChange{}, err
	}
	t.log.Info("focus set", "op", "focus.set", "type", string(typ), "id", id, "replaced", change.Replaced())
	return change, nil
}

// RemoveFocus clears the slot for typ. Clearing an empty slot is not an error.
func (t *Tracker) RemoveFocus(typ engine.FocusType) (FocusChange, error) {
	change := FocusChange{Type: typ}
	err := t.store.WithTx(func(tx *store.Store) error {
		slot, err := tx.GetFocus()
		if err != nil {
			return err
		}
		change.Previous = slot.Get(typ)
		slot, err = slot.Remove(typ)
		if err != nil {
			return err
		}
		return tx.SaveFocus(slot)
	})
	if err != nil {
		return FocusChange{}, err
	}
	t.log.Info("focus removed", "op", "focus.remove", "type", string(typ))
	return change, nil
}

// FocusState resolves the focus slot to records. Ids that no longer resolve
// come back as nil rather than as errors.
func (t *Tracker) FocusState() (engine.FocusState, error) {
	slot, err := t.store.GetFocus()
	if err != nil {
		return engine.FocusState{}, err
	}
	var fs engine.FocusState
	if id := slot.QuestID; id != nil {
		q, err := t.store.GetQuest(*id)
		if err != nil && !errors.Is(err, engine.ErrNotFound) {
			return engine.FocusState{}, err
		}
		fs.Quest = q
	}
	if id := slot.BookID; id != nil {
		b, err := t.store.GetBook(*id)
		if err != nil && !errors.Is(err, engine.ErrNotFound) {
			return engine.FocusState{}, err
		}
		fs.Book = b
	}
	if id := slot.CourseID; id != nil {
		c, err := t.store.GetCourse(*id)
		if err != nil && !errors.Is(err, engine.ErrNotFound) {
			return engine.FocusState{}, err
		}
		fs.Course = c
	}
	return fs, nil
}
