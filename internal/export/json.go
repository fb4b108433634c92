package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/levelup/internal/engine"
)

// Snapshot is everything an export contains.
type Snapshot struct {
	Quests  []engine.Quest
	Books   []engine.Book
	Courses []engine.Course
	TotalXP int
	Streak  int
}

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	TotalXP    int          `json:"total_xp"`
	Level      int          `json:"level"`
	Streak     int          `json:"streak"`
	Quests     []jsonQuest  `json:"quests"`
	Books      []jsonBook   `json:"books"`
	Courses    []jsonCourse `json:"courses"`
}

type jsonQuest struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	XP       int    `json:"xp"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Done     bool   `json:"done"`
}

type jsonBook struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"`
	TotalPages  int      `json:"total_pages"`
	CurrentPage int      `json:"current_page"`
	Status      string   `json:"status"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
}

type jsonCourse struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Platform       string   `json:"platform,omitempty"`
	URL            string   `json:"url,omitempty"`
	TotalUnits     int      `json:"total_units"`
	CompletedUnits int      `json:"completed_units"`
	Status         string   `json:"status"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags,omitempty"`
}

func ToJSON(snap Snapshot, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		TotalXP:    snap.TotalXP,
		Level:      engine.GetLevelInfo(snap.TotalXP).Level,
		Streak:     snap.Streak,
		Quests:     []jsonQuest{},
		Books:      []jsonBook{},
		Courses:    []jsonCourse{},
	}

	for _, q := range snap.Quests {
		export.Quests = append(export.Quests, jsonQuest{
			ID:       q.ID,
			Title:    q.Title,
			XP:       q.XP,
			Category: q.Category,
			Type:     string(q.Type),
			Done:     q.Done,
		})
	}
	for _, b := range snap.Books {
		export.Books = append(export.Books, jsonBook{
			ID:          b.ID,
			Title:       b.Title,
			Author:      b.Author,
			TotalPages:  b.TotalPages,
			CurrentPage: b.CurrentPage,
			Status:      string(b.Status),
			Category:    b.Category,
			Tags:        b.Tags,
		})
	}
	for _, c := range snap.Courses {
		export.Courses = append(export.Courses, jsonCourse{
			ID:             c.ID,
			Title:          c.Title,
			Platform:       c.Platform,
			URL:            c.URL,
			TotalUnits:     c.TotalUnits,
			CompletedUnits: c.CompletedUnits,
			Status:         string(c.Status),
			Category:       c.Category,
			Tags:           c.Tags,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
