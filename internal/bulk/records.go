package bulk

import (
	"fmt"

	"github.com/sadopc/levelup/internal/engine"
)

// Records converts a validated batch into engine records ready to insert. It
// refuses batches that do not validate. Page and unit counts that exceed their
// totals (a warning during validation) are clamped so stored records keep
// 0 <= current <= total. A row marked finished is stored complete.
func (b Batch) Records() ([]engine.Quest, []engine.Book, []engine.Course, error) {
	if res := b.Validate(); !res.Valid {
		return nil, nil, nil, &engine.ValidationError{
			Kind:    engine.ErrInvalidInput,
			Message: fmt.Sprintf("import rejected: %d error(s), first: %s", len(res.Errors), res.Errors[0]),
		}
	}

	var (
		quests  []engine.Quest
		books   []engine.Book
		courses []engine.Course
	)
	for _, r := range b.Quests {
		quests = append(quests, engine.Quest{
			Title:    r.Title,
			XP:       r.XP.Value,
			Category: r.Category,
			Type:     engine.QuestType(r.Type),
		})
	}
	for _, r := range b.Books {
		total := r.TotalPages.Value
		current := min(r.CurrentPage.Value, total)
		status := engine.BookStatus(r.Status)
		if status == "" {
			status = engine.BookBacklog
		}
		if status == engine.BookFinished {
			current = total
		}
		books = append(books, engine.Book{
			Title:       r.Title,
			Author:      r.Author,
			TotalPages:  total,
			CurrentPage: current,
			Status:      status,
			Category:    r.Category,
			Tags:        r.Tags,
		})
	}
	for _, r := range b.Courses {
		total := r.TotalUnits.Value
		done := min(r.CompletedUnits.Value, total)
		status := engine.CourseStatus(r.Status)
		if status == "" {
			status = engine.CourseBacklog
		}
		if status == engine.CourseFinished {
			done = total
		}
		courses = append(courses, engine.Course{
			Title:          r.Title,
			Platform:       r.Platform,
			URL:            r.URL,
			TotalUnits:     total,
			CompletedUnits: done,
			Status:         status,
			Category:       r.Category,
			Tags:           r.Tags,
		})
	}
	return quests, books, courses, nil
}
