// Package bulk turns tokenized tabular data into typed quest, book and course
// rows and validates them for all-or-nothing import.
package bulk

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/sadopc/levelup/internal/engine"
)

// Target selects which record type a table holds.
type Target string

const (
	TargetQuests  Target = "quests"
	TargetBooks   Target = "books"
	TargetCourses Target = "courses"
)

// ParseTarget accepts singular or plural names.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quest", "quests":
		return TargetQuests, nil
	case "book", "books":
		return TargetBooks, nil
	case "course", "courses":
		return TargetCourses, nil
	default:
		return "", &engine.ValidationError{Kind: engine.ErrInvalidInput, Message: fmt.Sprintf("unknown import type %q", s)}
	}
}

// Table is an already tokenized sheet: one header row plus data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Int is an optional numeric cell. Present is false for blank cells; Valid is
// false when the cell holds something that is not an integer.
type Int struct {
	Value   int
	Raw     string
	Present bool
	Valid   bool
}

func parseInt(raw string) Int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Int{}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Accept whole floats such as "120.0" written by spreadsheets.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return Int{Raw: raw, Present: true}
		}
		n = int(f)
	}
	return Int{Value: n, Raw: raw, Present: true, Valid: true}
}

type QuestRow struct {
	Line     int
	Title    string
	Category string
	XP       Int
	Type     string
}

type BookRow struct {
	Line        int
	Title       string
	Author      string
	Category    string
	Tags        []string
	TotalPages  Int
	CurrentPage Int
	Status      string
}

type CourseRow struct {
	Line           int
	Title          string
	Platform       string
	URL            string
	Category       string
	Tags           []string
	TotalUnits     Int
	CompletedUnits Int
	Status         string
}

// Batch holds the rows of one table. Exactly one of the slices is used,
// selected by Target.
type Batch struct {
	Target  Target
	Quests  []QuestRow
	Books   []BookRow
	Courses []CourseRow
}

// Len returns the number of data rows in the batch.
func (b Batch) Len() int {
	switch b.Target {
	case TargetQuests:
		return len(b.Quests)
	case TargetBooks:
		return len(b.Books)
	case TargetCourses:
		return len(b.Courses)
	}
	return 0
}

// Parse maps table columns by header name and builds the typed rows for target.
// Unknown columns are ignored. Fully blank rows are skipped.
func Parse(t Table, target Target) (Batch, error) {
	if _, err := ParseTarget(string(target)); err != nil {
		return Batch{}, err
	}
	cols := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		key := normalizeHeader(h)
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}

	b := Batch{Target: target}
	line := 0
	for _, rec := range t.Rows {
		if blank(rec) {
			continue
		}
		line++
		cell := func(names ...string) string {
			for _, n := range names {
				if i, ok := cols[n]; ok && i < len(rec) {
					return strings.TrimSpace(rec[i])
				}
			}
			return ""
		}

		switch target {
		case TargetQuests:
			b.Quests = append(b.Quests, QuestRow{
				Line:     line,
				Title:    cell("title", "name"),
				Category: cell("category"),
				XP:       parseInt(cell("xp", "reward")),
				Type:     strings.ToLower(cell("type")),
			})
		case TargetBooks:
			b.Books = append(b.Books, BookRow{
				Line:        line,
				Title:       cell("title", "name"),
				Author:      cell("author"),
				Category:    cell("category"),
				Tags:        engine.ParseTags(cell("tags")),
				TotalPages:  parseInt(cell("totalpages", "pages")),
				CurrentPage: parseInt(cell("currentpage")),
				Status:      strings.ToLower(cell("status")),
			})
		case TargetCourses:
			b.Courses = append(b.Courses, CourseRow{
				Line:           line,
				Title:          cell("title", "name"),
				Platform:       cell("platform"),
				URL:            cell("url", "link"),
				Category:       cell("category"),
				Tags:           engine.ParseTags(cell("tags")),
				TotalUnits:     parseInt(cell("totalunits", "units")),
				CompletedUnits: parseInt(cell("completedunits")),
				Status:         strings.ToLower(cell("status")),
			})
		}
	}
	return b, nil
}

// normalizeHeader folds "Total Pages", "total_pages" and "totalPages" to one key.
func normalizeHeader(h string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
