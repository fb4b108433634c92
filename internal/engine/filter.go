package engine

import "strings"

// Filter narrows record listings. Empty fields match everything. Status and
// Category compare case-insensitively, Tag must equal one of the record's tags,
// and Search is a case-insensitive substring of the title.
type Filter struct {
	Status   string
	Category string
	Tag      string
	Search   string
}

func (f Filter) MatchQuest(q Quest) bool {
	if f.Status != "" && !strings.EqualFold(f.Status, questStatus(q)) {
		return false
	}
	return f.matchCommon(q.Title, q.Category, nil)
}

func (f Filter) MatchBook(b Book) bool {
	if f.Status != "" && !strings.EqualFold(f.Status, string(b.Status)) {
		return false
	}
	return f.matchCommon(b.Title, b.Category, b.Tags)
}

func (f Filter) MatchCourse(c Course) bool {
	if f.Status != "" && !strings.EqualFold(f.Status, string(c.Status)) {
		return false
	}
	return f.matchCommon(c.Title, c.Category, c.Tags)
}

func (f Filter) matchCommon(title, category string, tags []string) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, category) {
		return false
	}
	if f.Tag != "" && !hasTag(tags, f.Tag) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(strings.TrimSpace(f.Search))) {
		return false
	}
	return true
}

// questStatus maps the done flag onto the status vocabulary used by filters.
func questStatus(q Quest) string {
	if q.Done {
		return "done"
	}
	return "open"
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, strings.TrimSpace(tag)) {
			return true
		}
	}
	return false
}
