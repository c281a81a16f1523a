package notes

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hekang/thesis-tools/internal/literature"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "01-2023-张三-标题", "01-2023-张三-标题"},
		{"invalid chars", `a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"line breaks", "first\nsecond\rthird", "first second third"},
		{"trimmed", "  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
			// Idempotent on its own output.
			if again := SanitizeFilename(got); again != got {
				t.Errorf("not idempotent: %q then %q", got, again)
			}
		})
	}
}

func TestSanitizeFilenameCapsLength(t *testing.T) {
	long := strings.Repeat("标", 150)
	got := SanitizeFilename(long)
	runes := []rune(got)
	if len(runes) != 100 {
		t.Errorf("length = %d runes, want 100", len(runes))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated name %q should end with ellipsis", got)
	}
	if again := SanitizeFilename(got); again != got {
		t.Errorf("not idempotent after truncation: %q then %q", got, again)
	}
}

func TestExportable(t *testing.T) {
	tests := []struct {
		name string
		it   literature.Item
		want bool
	}{
		{"normal", literature.Item{Title: "某研究", ItemType: "journalArticle"}, true},
		{"attachment", literature.Item{Title: "x.pdf", ItemType: "attachment"}, false},
		{"empty title", literature.Item{ItemType: "journalArticle"}, false},
		{"placeholder", literature.Item{Title: "测试文献", ItemType: "journalArticle"}, false},
		{"duplicate import", literature.Item{Title: "某研究(1)", ItemType: "journalArticle"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Exportable(tt.it); got != tt.want {
				t.Errorf("Exportable(%q) = %v, want %v", tt.it.Title, got, tt.want)
			}
		})
	}
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	e := NewExporter(t.TempDir(), "{{title}} | {{authors}} | {{year}} | {{tags}} | {{collections}} | {{date}}")
	e.Now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }

	it := literature.Item{
		Title:    "某研究",
		Creators: []literature.Creator{{Name: "张三"}, {Name: "李四"}},
		Year:     2023,
		Tags:     []literature.Tag{{Tag: "AI"}, {Tag: "教育"}},
	}

	got := e.Render(it)
	want := "某研究 | 张三, 李四 | 2023 | AI, 教育 | 未分类 | 2026-08-28"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderUnknownYearBlank(t *testing.T) {
	e := NewExporter(t.TempDir(), "year={{year}}")
	got := e.Render(literature.Item{Title: "某研究"})
	if got != "year=" {
		t.Errorf("Render() = %q, want empty year", got)
	}
}

func TestNoteFilename(t *testing.T) {
	it := literature.Item{
		Title:    "AI支持的语文教学",
		Date:     "2023",
		Year:     2023,
		Creators: []literature.Creator{{Name: "张三"}},
	}
	if got := NoteFilename(3, it); got != "03-2023-张三-AI支持的语文教学.md" {
		t.Errorf("NoteFilename = %q", got)
	}

	anon := literature.Item{Title: "无作者研究"}
	if got := NoteFilename(12, anon); got != "12-未知-佚名-无作者研究.md" {
		t.Errorf("NoteFilename = %q", got)
	}
}

func TestExportWritesNotesAndIndex(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, "")
	e.Now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }

	items := []literature.Item{
		{
			Title:    "第一篇研究",
			Year:     2024,
			Creators: []literature.Creator{{Name: "张三"}},
			Abstract: "摘要内容",
		},
		{
			Title: "Second Study",
			Year:  2023,
			Creators: []literature.Creator{
				{FirstName: "Jane", LastName: "Smith"},
			},
		},
	}

	var progress bytes.Buffer
	n, err := e.Export(items, &progress)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != 2 {
		t.Fatalf("exported %d notes, want 2", n)
	}

	note, err := os.ReadFile(filepath.Join(dir, "01-2024-张三-第一篇研究.md"))
	if err != nil {
		t.Fatalf("reading note: %v", err)
	}
	if !strings.Contains(string(note), "# 第一篇研究") {
		t.Error("note missing title heading")
	}
	if !strings.Contains(string(note), "摘要内容") {
		t.Error("note missing abstract")
	}
	if strings.Contains(string(note), "{{") {
		t.Error("note contains unsubstituted placeholders")
	}

	index, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	if err != nil {
		t.Fatalf("reading index: %v", err)
	}
	if !strings.Contains(string(index), "[[01-2024-张三-第一篇研究|第一篇研究]]") {
		t.Errorf("index missing wiki link, got:\n%s", index)
	}
	if !strings.Contains(string(index), "2026-08-28") {
		t.Error("index missing update timestamp")
	}
}

func TestBibTeX(t *testing.T) {
	it := literature.Item{
		Key:              "ZKEY",
		Title:            "Rural Schooling",
		ItemType:         "journalArticle",
		Year:             2021,
		PublicationTitle: "Ed Review",
		Creators: []literature.Creator{
			{FirstName: "Jane", LastName: "Smith"},
		},
		DOI: "10.1000/xyz",
	}

	got := BibTeX(it)
	for _, want := range []string{
		"@article{Smith2021,",
		"title = {Rural Schooling}",
		"author = {Smith Jane}",
		"journal = {Ed Review}",
		"year = {2021}",
		"doi = {10.1000/xyz}",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("BibTeX missing %q in:\n%s", want, got)
		}
	}
}
