package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/tracker"
)

// focusRequest is a focus write held back until the user agrees to replace
// the item already in the slot.
type focusRequest struct {
	typ      engine.FocusType
	id       int64
	previous int64
}

// requestFocus toggles id in its focus slot. The slot is read fresh, and when
// it holds a different item nothing is written: the caller gets a request to
// confirm instead.
func requestFocus(tr *tracker.Tracker, typ engine.FocusType, id int64, refresh tea.Cmd) (*focusRequest, tea.Cmd) {
	slot, err := tr.Focus()
	if err != nil {
		return nil, errorCmd(err)
	}
	if slot.IsInFocus(typ, id) {
		if _, err := tr.RemoveFocus(typ); err != nil {
			return nil, errorCmd(err)
		}
		return nil, tea.Batch(refresh, statusCmd("Cleared %s focus", typ))
	}
	if cur := slot.Get(typ); cur != nil {
		return &focusRequest{typ: typ, id: id, previous: *cur}, nil
	}
	return nil, applyFocus(tr, typ, id, refresh)
}

func applyFocus(tr *tracker.Tracker, typ engine.FocusType, id int64, refresh tea.Cmd) tea.Cmd {
	change, err := tr.SetFocus(typ, id)
	if err != nil {
		return errorCmd(err)
	}
	if change.Replaced() {
		return tea.Batch(refresh, statusCmd("Focused %s #%d (replaced #%d)", typ, id, *change.Previous))
	}
	return tea.Batch(refresh, statusCmd("Focused %s #%d", typ, id))
}

func (r focusRequest) form(confirm *bool) *huh.Form {
	*confirm = false
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s #%d is in focus. Replace it with #%d?", r.typ, r.previous, r.id)).
				Description("Each type has a single focus slot.").
				Affirmative("Replace").
				Negative("Keep").
				Value(confirm),
		),
	).WithShowHelp(true)
}

func (r focusRequest) resolve(tr *tracker.Tracker, confirmed bool, refresh tea.Cmd) tea.Cmd {
	if !confirmed {
		return statusCmd("Kept %s #%d in focus", r.typ, r.previous)
	}
	return applyFocus(tr, r.typ, r.id, refresh)
}
