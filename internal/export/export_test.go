package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/levelup/internal/bulk"
	"github.com/sadopc/levelup/internal/engine"
)

func sampleSnapshot() Snapshot {
	now := time.Now().UTC()
	return Snapshot{
		Quests: []engine.Quest{
			{ID: 1, Title: "Goroutines", XP: 50, Category: "Go", Type: engine.QuestTopic, Done: true, CreatedAt: now},
			{ID: 2, Title: "Build a CLI", XP: 200, Category: "Go", Type: engine.QuestProject, CreatedAt: now},
		},
		Books: []engine.Book{
			{ID: 1, Title: "The Go Programming Language", Author: "Donovan", TotalPages: 380, CurrentPage: 120,
				Status: engine.BookReading, Category: "Go", Tags: []string{"backend", "classic"}, UpdatedAt: now},
		},
		Courses: []engine.Course{
			{ID: 1, Title: "Distributed Systems", Platform: "MIT", URL: "https://example.com/6.824", TotalUnits: 20,
				CompletedUnits: 20, Status: engine.CourseFinished, Category: "CS", UpdatedAt: now},
		},
		TotalXP: 310,
		Streak:  4,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSVDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := ToCSVDir(sampleSnapshot(), dir)
	if err != nil {
		t.Fatalf("ToCSVDir: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 files, got %d", len(paths))
	}

	quests := readCSV(t, filepath.Join(dir, QuestsFile))
	if len(quests) != 3 {
		t.Fatalf("expected 3 quest rows (1 header + 2 data), got %d", len(quests))
	}
	for i, h := range questHeader {
		if quests[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, quests[0][i], h)
		}
	}
	if quests[1][1] != "Goroutines" || quests[1][3] != "50" || quests[1][5] != "true" {
		t.Fatalf("unexpected quest row: %v", quests[1])
	}

	books := readCSV(t, filepath.Join(dir, BooksFile))
	if books[1][4] != "backend,classic" {
		t.Fatalf("tags = %q, want backend,classic", books[1][4])
	}
	if books[1][6] != "120" || books[1][7] != "reading" {
		t.Fatalf("unexpected book row: %v", books[1])
	}

	courses := readCSV(t, filepath.Join(dir, CoursesFile))
	if courses[1][3] != "https://example.com/6.824" || courses[1][8] != "finished" {
		t.Fatalf("unexpected course row: %v", courses[1])
	}
}

func TestToCSVDirEmpty(t *testing.T) {
	dir := t.TempDir()
	if _, err := ToCSVDir(Snapshot{}, dir); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{QuestsFile, BooksFile, CoursesFile} {
		if records := readCSV(t, filepath.Join(dir, name)); len(records) != 1 {
			t.Fatalf("%s: expected header only, got %d rows", name, len(records))
		}
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	var sb strings.Builder
	quests := []engine.Quest{{ID: 1, Title: `Read "Effective Go", again`, Category: "Go", Type: engine.QuestTopic}}
	if err := WriteQuestsCSV(&sb, quests); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `Read "Effective Go", again` {
		t.Fatalf("title mangled: %q", records[1][1])
	}
}

func TestToCSVDirBadPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	os.WriteFile(file, []byte("x"), 0o644)
	if _, err := ToCSVDir(Snapshot{}, filepath.Join(file, "sub")); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levelup.json")
	if err := ToJSON(sampleSnapshot(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got jsonExport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.TotalXP != 310 || got.Level != 2 || got.Streak != 4 {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if len(got.Quests) != 2 || len(got.Books) != 1 || len(got.Courses) != 1 {
		t.Fatalf("unexpected counts: %d quests, %d books, %d courses", len(got.Quests), len(got.Books), len(got.Courses))
	}
	if got.Books[0].Status != "reading" || got.Courses[0].Status != "finished" {
		t.Fatalf("status enums not preserved: %+v %+v", got.Books[0], got.Courses[0])
	}
	if _, err := time.Parse(time.RFC3339, got.ExportedAt); err != nil {
		t.Fatalf("exported_at not RFC3339: %q", got.ExportedAt)
	}
}

func TestToJSONEmptyArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(Snapshot{}, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"quests": []`) {
		t.Fatalf("expected empty quests array, got %s", data)
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(Snapshot{}, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Reading tables
// ============================================================

func TestParseTable(t *testing.T) {
	in := "\ufefftitle,category,xp\nChannels,Go,50\n\nShort,Go\n"
	table, err := ParseTable(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if table.Header[0] != "title" {
		t.Fatalf("BOM not stripped: %q", table.Header[0])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if len(table.Rows[1]) != 2 {
		t.Fatalf("short row should keep its width, got %v", table.Rows[1])
	}
}

func TestParseTableEmpty(t *testing.T) {
	if _, err := ParseTable(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if _, err := ToCSVDir(sampleSnapshot(), dir); err != nil {
		t.Fatal(err)
	}

	table, err := ReadTable(filepath.Join(dir, BooksFile))
	if err != nil {
		t.Fatal(err)
	}
	batch, res, err := bulk.Validate(table, bulk.TargetBooks)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid {
		t.Fatalf("exported books should re-import cleanly: %v", res.Errors)
	}
	if batch.Books[0].CurrentPage.Value != 120 || batch.Books[0].Status != "reading" {
		t.Fatalf("unexpected parsed row: %+v", batch.Books[0])
	}
}

func TestReadTableMissingFile(t *testing.T) {
	if _, err := ReadTable(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
