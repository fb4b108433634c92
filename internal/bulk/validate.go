package bulk

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sadopc/levelup/internal/engine"
)

// Result is the outcome of validating a batch. Valid is false as soon as any row
// has an error; warnings never block an import.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

type collector struct {
	errors   []string
	warnings []string
}

func (c *collector) errorf(line int, format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf("Row %d: ", line)+fmt.Sprintf(format, args...))
}

func (c *collector) warnf(line int, format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf("Row %d: ", line)+fmt.Sprintf(format, args...))
}

func (c *collector) result() Result {
	return Result{Valid: len(c.errors) == 0, Errors: orEmpty(c.errors), Warnings: orEmpty(c.warnings)}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Validate parses t as rows of target and validates them.
func Validate(t Table, target Target) (Batch, Result, error) {
	b, err := Parse(t, target)
	if err != nil {
		return Batch{}, Result{}, err
	}
	return b, b.Validate(), nil
}

// Validate checks every row and never stops at the first failure.
func (b Batch) Validate() Result {
	var c collector
	if b.Len() == 0 {
		c.errors = append(c.errors, "no data rows found")
		return c.result()
	}
	for _, r := range b.Quests {
		validateCommon(&c, r.Line, r.Title, r.Category)
		if !r.XP.Valid || r.XP.Value < 0 {
			c.errorf(r.Line, "XP must be a non-negative number (got %q)", r.XP.Raw)
		}
		if !engine.QuestType(r.Type).IsValid() {
			c.errorf(r.Line, "type must be one of %s (got %q)", joinEnum(engine.QuestTypes), r.Type)
		}
	}
	for _, r := range b.Books {
		validateCommon(&c, r.Line, r.Title, r.Category)
		checkCount(&c, r.Line, "total_pages", r.TotalPages)
		checkCount(&c, r.Line, "current_page", r.CurrentPage)
		if r.Status != "" && !engine.BookStatus(r.Status).IsValid() {
			c.errorf(r.Line, "status must be one of %s (got %q)", joinEnum(engine.BookStatuses), r.Status)
		}
		if usable(r.CurrentPage) && usable(r.TotalPages) && r.CurrentPage.Value > r.TotalPages.Value {
			c.warnf(r.Line, "current_page %d exceeds total_pages %d", r.CurrentPage.Value, r.TotalPages.Value)
		}
		if r.Status == string(engine.BookFinished) && usable(r.CurrentPage) && usable(r.TotalPages) &&
			r.CurrentPage.Value < r.TotalPages.Value {
			c.warnf(r.Line, "finished book at page %d of %d will be stored as complete", r.CurrentPage.Value, r.TotalPages.Value)
		}
	}
	for _, r := range b.Courses {
		validateCommon(&c, r.Line, r.Title, r.Category)
		checkCount(&c, r.Line, "total_units", r.TotalUnits)
		checkCount(&c, r.Line, "completed_units", r.CompletedUnits)
		if r.Status != "" && !engine.CourseStatus(r.Status).IsValid() {
			c.errorf(r.Line, "status must be one of %s (got %q)", joinEnum(engine.CourseStatuses), r.Status)
		}
		if usable(r.CompletedUnits) && usable(r.TotalUnits) && r.CompletedUnits.Value > r.TotalUnits.Value {
			c.warnf(r.Line, "completed_units %d exceeds total_units %d", r.CompletedUnits.Value, r.TotalUnits.Value)
		}
		if r.Status == string(engine.CourseFinished) && usable(r.CompletedUnits) && usable(r.TotalUnits) &&
			r.CompletedUnits.Value < r.TotalUnits.Value {
			c.warnf(r.Line, "finished course at unit %d of %d will be stored as complete", r.CompletedUnits.Value, r.TotalUnits.Value)
		}
		if r.URL != "" && !validURL(r.URL) {
			c.warnf(r.Line, "url %q does not look like a valid link", r.URL)
		}
	}
	return c.result()
}

func validateCommon(c *collector, line int, title, category string) {
	if title == "" {
		c.errorf(line, "title is required")
	}
	if category == "" {
		c.errorf(line, "category is required")
	}
}

func checkCount(c *collector, line int, name string, v Int) {
	if v.Present && (!v.Valid || v.Value < 0) {
		c.errorf(line, "%s must be a non-negative number (got %q)", name, v.Raw)
	}
}

func usable(v Int) bool {
	return v.Present && v.Valid && v.Value >= 0
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func joinEnum[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
