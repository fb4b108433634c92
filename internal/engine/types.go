package engine

import (
	"fmt"
	"strings"
	"time"
)

type QuestType string

const (
	QuestTopic   QuestType = "topic"
	QuestProject QuestType = "project"
	QuestBonus   QuestType = "bonus"
)

var QuestTypes = []QuestType{QuestTopic, QuestProject, QuestBonus}

func (t QuestType) IsValid() bool {
	switch t {
	case QuestTopic, QuestProject, QuestBonus:
		return true
	default:
		return false
	}
}

type BookStatus string

const (
	BookBacklog  BookStatus = "backlog"
	BookReading  BookStatus = "reading"
	BookFinished BookStatus = "finished"
)

var BookStatuses = []BookStatus{BookBacklog, BookReading, BookFinished}

func (s BookStatus) IsValid() bool {
	switch s {
	case BookBacklog, BookReading, BookFinished:
		return true
	default:
		return false
	}
}

type CourseStatus string

const (
	CourseBacklog  CourseStatus = "backlog"
	CourseLearning CourseStatus = "learning"
	CourseFinished CourseStatus = "finished"
)

var CourseStatuses = []CourseStatus{CourseBacklog, CourseLearning, CourseFinished}

func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseBacklog, CourseLearning, CourseFinished:
		return true
	default:
		return false
	}
}

// Quest is a discrete learning task worth a fixed XP reward while done.
type Quest struct {
	ID        int64
	Title     string
	XP        int
	Category  string
	Type      QuestType
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Book struct {
	ID          int64
	Title       string
	Author      string
	TotalPages  int
	CurrentPage int
	Status      BookStatus
	Category    string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Course struct {
	ID             int64
	Title          string
	Platform       string
	URL            string
	TotalUnits     int
	CompletedUnits int
	Status         CourseStatus
	Category       string
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BookProgressEntry is the append-only audit row of one reading session.
type BookProgressEntry struct {
	ID        int64
	BookID    int64
	FromPage  int
	ToPage    int
	XPAwarded int
	Notes     string
	CreatedAt time.Time
}

func (e BookProgressEntry) Pages() int { return e.ToPage - e.FromPage }

// CourseProgressEntry is the append-only audit row of one study session.
type CourseProgressEntry struct {
	ID        int64
	CourseID  int64
	Units     int
	XPAwarded int
	Notes     string
	CreatedAt time.Time
}

// AppState holds the check-in streak. LastCheckIn is nil until the first check-in.
type AppState struct {
	Streak      int
	LastCheckIn *time.Time
}

// ParseTags splits a comma-separated tag list, trimming blanks and duplicates.
func ParseTags(s string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		t := strings.TrimSpace(part)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		tags = append(tags, t)
	}
	return tags
}

func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// NormalizeTitle trims a title and rejects empty ones.
func NormalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", validationf(ErrInvalidInput, "title is required")
	}
	return t, nil
}

// NewQuest validates the fields of a quest about to be created.
func NewQuest(title string, xp int, category string, typ QuestType) (Quest, error) {
	t, err := NormalizeTitle(title)
	if err != nil {
		return Quest{}, err
	}
	if xp < 0 {
		return Quest{}, validationf(ErrInvalidInput, "xp must be non-negative, got %d", xp)
	}
	if !typ.IsValid() {
		return Quest{}, validationf(ErrInvalidInput, "invalid quest type %q", typ)
	}
	return Quest{Title: t, XP: xp, Category: strings.TrimSpace(category), Type: typ}, nil
}

// NewBook validates a book about to be created. New books start in backlog.
func NewBook(title string, totalPages int, category string, tags []string) (Book, error) {
	t, err := NormalizeTitle(title)
	if err != nil {
		return Book{}, err
	}
	if totalPages < 0 {
		return Book{}, validationf(ErrInvalidInput, "total pages must be non-negative, got %d", totalPages)
	}
	return Book{
		Title:      t,
		TotalPages: totalPages,
		Status:     BookBacklog,
		Category:   strings.TrimSpace(category),
		Tags:       tags,
	}, nil
}

// NewCourse validates a course about to be created. New courses start in backlog.
func NewCourse(title string, totalUnits int, category string, tags []string) (Course, error) {
	t, err := NormalizeTitle(title)
	if err != nil {
		return Course{}, err
	}
	if totalUnits < 0 {
		return Course{}, validationf(ErrInvalidInput, "total units must be non-negative, got %d", totalUnits)
	}
	return Course{
		Title:      t,
		TotalUnits: totalUnits,
		Status:     CourseBacklog,
		Category:   strings.TrimSpace(category),
		Tags:       tags,
	}, nil
}

// CheckBook verifies the stored-record invariants of a book.
func CheckBook(b Book) error {
	if b.TotalPages < 0 || b.CurrentPage < 0 || b.CurrentPage > b.TotalPages {
		return validationf(ErrInvariant, "book %q: current page %d outside [0,%d]", b.Title, b.CurrentPage, b.TotalPages)
	}
	if !b.Status.IsValid() {
		return validationf(ErrInvariant, "book %q: invalid status %q", b.Title, b.Status)
	}
	return nil
}

// CheckCourse verifies the stored-record invariants of a course.
func CheckCourse(c Course) error {
	if c.TotalUnits < 0 || c.CompletedUnits < 0 || c.CompletedUnits > c.TotalUnits {
		return validationf(ErrInvariant, "course %q: completed units %d outside [0,%d]", c.Title, c.CompletedUnits, c.TotalUnits)
	}
	if !c.Status.IsValid() {
		return validationf(ErrInvariant, "course %q: invalid status %q", c.Title, c.Status)
	}
	return nil
}

func (b Book) String() string {
	return fmt.Sprintf("%s (%d/%d, %s)", b.Title, b.CurrentPage, b.TotalPages, b.Status)
}

func (c Course) String() string {
	return fmt.Sprintf("%s (%d/%d, %s)", c.Title, c.CompletedUnits, c.TotalUnits, c.Status)
}
