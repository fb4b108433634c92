package engine

import "strings"

type FocusType string

const (
	FocusQuest  FocusType = "quest"
	FocusBook   FocusType = "book"
	FocusCourse FocusType = "course"
)

var FocusTypes = []FocusType{FocusQuest, FocusBook, FocusCourse}

// ParseFocusType accepts singular or plural type names, case-insensitively.
func ParseFocusType(s string) (FocusType, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s") {
	case "quest":
		return FocusQuest, nil
	case "book":
		return FocusBook, nil
	case "course":
		return FocusCourse, nil
	default:
		return "", validationf(ErrInvalidFocusType, "unknown focus type %q", s)
	}
}

// FocusSlot holds at most one id per type. Ids are not existence-checked; a
// dangling id simply resolves to nothing on read.
type FocusSlot struct {
	QuestID  *int64
	BookID   *int64
	CourseID *int64
}

func (f *FocusSlot) field(t FocusType) (**int64, error) {
	switch t {
	case FocusQuest:
		return &f.QuestID, nil
	case FocusBook:
		return &f.BookID, nil
	case FocusCourse:
		return &f.CourseID, nil
	default:
		return nil, validationf(ErrInvalidFocusType, "unknown focus type %q", t)
	}
}

// Set overwrites the slot for t with id and returns the updated focus.
func (f FocusSlot) Set(t FocusType, id int64) (FocusSlot, error) {
	p, err := f.field(t)
	if err != nil {
		return f, err
	}
	*p = &id
	return f, nil
}

// Remove clears the slot for t. Clearing an empty slot is a no-op.
func (f FocusSlot) Remove(t FocusType) (FocusSlot, error) {
	p, err := f.field(t)
	if err != nil {
		return f, err
	}
	*p = nil
	return f, nil
}

// Get returns the id held for t, or nil.
func (f FocusSlot) Get(t FocusType) *int64 {
	p, err := f.field(t)
	if err != nil {
		return nil
	}
	return *p
}

// IsInFocus reports whether id currently occupies the slot for t.
func (f FocusSlot) IsInFocus(t FocusType, id int64) bool {
	cur := f.Get(t)
	return cur != nil && *cur == id
}

// FocusState is the focus slot resolved to records. A nil field means the slot
// is empty or points at a record that no longer exists.
type FocusState struct {
	Quest  *Quest
	Book   *Book
	Course *Course
}
