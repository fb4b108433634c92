package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sadopc/levelup/internal/engine"
)

// Column names match the bulk import headers so an exported file can be fed
// straight back into an import.
var (
	questHeader  = []string{"id", "title", "category", "xp", "type", "done", "created_at"}
	bookHeader   = []string{"id", "title", "author", "category", "tags", "total_pages", "current_page", "status", "updated_at"}
	courseHeader = []string{"id", "title", "platform", "url", "category", "tags", "total_units", "completed_units", "status", "updated_at"}
)

// Files written by ToCSVDir.
const (
	QuestsFile  = "quests.csv"
	BooksFile   = "books.csv"
	CoursesFile = "courses.csv"
)

func WriteQuestsCSV(w io.Writer, quests []engine.Quest) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(questHeader); err != nil {
		return err
	}
	for _, q := range quests {
		row := []string{
			itoa64(q.ID),
			q.Title,
			q.Category,
			strconv.Itoa(q.XP),
			string(q.Type),
			strconv.FormatBool(q.Done),
			formatTime(q.CreatedAt),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteBooksCSV(w io.Writer, books []engine.Book) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bookHeader); err != nil {
		return err
	}
	for _, b := range books {
		row := []string{
			itoa64(b.ID),
			b.Title,
			b.Author,
			b.Category,
			engine.JoinTags(b.Tags),
			strconv.Itoa(b.TotalPages),
			strconv.Itoa(b.CurrentPage),
			string(b.Status),
			formatTime(b.UpdatedAt),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteCoursesCSV(w io.Writer, courses []engine.Course) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(courseHeader); err != nil {
		return err
	}
	for _, c := range courses {
		row := []string{
			itoa64(c.ID),
			c.Title,
			c.Platform,
			c.URL,
			c.Category,
			engine.JoinTags(c.Tags),
			strconv.Itoa(c.TotalUnits),
			strconv.Itoa(c.CompletedUnits),
			string(c.Status),
			formatTime(c.UpdatedAt),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToCSVDir writes one CSV file per record type into dir and returns the paths.
func ToCSVDir(snap Snapshot, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{QuestsFile, func(w io.Writer) error { return WriteQuestsCSV(w, snap.Quests) }},
		{BooksFile, func(w io.Writer) error { return WriteBooksCSV(w, snap.Books) }},
		{CoursesFile, func(w io.Writer) error { return WriteCoursesCSV(w, snap.Courses) }},
	}

	var paths []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeFile(path, f.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}
