// Package notes renders literature items into Obsidian-flavored Markdown
// notes with template placeholder substitution.
package notes

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hekang/thesis-tools/internal/literature"
)

// IndexFileName is the vault file linking to every exported note.
const IndexFileName = "最新文献笔记索引.md"

// maxFilenameRunes caps the sanitized note filename length.
const maxFilenameRunes = 100

// DefaultTemplate is used when no vault template is configured.
const DefaultTemplate = `# {{title}}

## 基本信息

- **作者**: {{authors}}
- **期刊**: {{publication}}
- **年份**: {{year}}
- **类型**: {{itemType}}
- **DOI**: {{doi}}
- **标签**: {{tags}}
- **分类**: {{collections}}
- **添加日期**: {{dateAdded}}

## 摘要

{{abstract}}

## 引用

` + "```bibtex\n{{bibtex}}\n```" + `

## 笔记

`

// Exporter writes literature notes into an Obsidian vault folder.
type Exporter struct {
	Template string
	Dir      string // destination folder inside the vault
	Now      func() time.Time
}

// NewExporter returns an exporter writing to dir with the given template.
// An empty template falls back to DefaultTemplate.
func NewExporter(dir, template string) *Exporter {
	if template == "" {
		template = DefaultTemplate
	}
	return &Exporter{Template: template, Dir: dir, Now: time.Now}
}

// Exportable filters out records that cannot become useful notes:
// attachments, untitled items, the seeding placeholder and duplicate
// re-imports whose titles end in "(1)".
func Exportable(it literature.Item) bool {
	title := strings.TrimSpace(it.Title)
	switch {
	case it.ItemType == "attachment" || it.ItemType == "note":
		return false
	case title == "":
		return false
	case title == "测试文献":
		return false
	case strings.HasSuffix(title, "(1)"):
		return false
	}
	return true
}

// Export renders notes for the given items, newest first, writing one file
// per item plus an index file. Per-item failures are reported to progress
// and do not abort the batch. Returns the number of notes written.
func (e *Exporter) Export(items []literature.Item, progress io.Writer) (int, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating notes folder: %w", err)
	}

	type entry struct {
		filename string
		title    string
	}
	var written []entry
	for i, it := range items {
		name := NoteFilename(i+1, it)
		body := e.Render(it)
		path := filepath.Join(e.Dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			fmt.Fprintf(progress, "跳过 %s: %v\n", it.Title, err)
			continue
		}
		fmt.Fprintf(progress, "已导出 %s\n", name)
		written = append(written, entry{filename: name, title: it.Title})
	}

	var b strings.Builder
	b.WriteString("# 最新文献笔记索引\n\n")
	fmt.Fprintf(&b, "更新时间: %s\n\n", e.Now().Format("2006-01-02 15:04"))
	for _, en := range written {
		base := strings.TrimSuffix(en.filename, ".md")
		fmt.Fprintf(&b, "- [[%s|%s]]\n", base, en.title)
	}
	indexPath := filepath.Join(e.Dir, IndexFileName)
	if err := os.WriteFile(indexPath, []byte(b.String()), 0o644); err != nil {
		return len(written), fmt.Errorf("writing index file: %w", err)
	}
	return len(written), nil
}

// Render substitutes all template placeholders for one item.
func (e *Exporter) Render(it literature.Item) string {
	year := ""
	if it.Year != 0 {
		year = fmt.Sprintf("%d", it.Year)
	}
	collections := "未分类"

	replacements := map[string]string{
		"{{title}}":       it.Title,
		"{{authors}}":     authorList(it),
		"{{publication}}": it.PublicationTitle,
		"{{year}}":        year,
		"{{doi}}":         it.DOI,
		"{{citekey}}":     CiteKey(it),
		"{{itemType}}":    it.ItemType,
		"{{tags}}":        strings.Join(it.TagNames(), ", "),
		"{{collections}}": collections,
		"{{dateAdded}}":   it.DateAdded,
		"{{abstract}}":    it.Abstract,
		"{{bibtex}}":      BibTeX(it),
		"{{firstTag}}":    firstTag(it),
		"{{date}}":        e.Now().Format("2006-01-02"),
	}

	body := e.Template
	for placeholder, value := range replacements {
		body = strings.ReplaceAll(body, placeholder, value)
	}
	return body
}

// NoteFilename builds the note file name: a two-digit position, the year,
// the first author and the sanitized title.
func NoteFilename(index int, it literature.Item) string {
	year := "未知"
	if it.Year != 0 {
		year = fmt.Sprintf("%d", it.Year)
	}
	author := it.FirstAuthor()
	if author == "" {
		author = "佚名"
	}
	name := fmt.Sprintf("%02d-%s-%s-%s", index, year, author, it.Title)
	return SanitizeFilename(name) + ".md"
}

// SanitizeFilename strips characters that are invalid in file names,
// collapses line breaks to spaces and caps the length. Sanitizing an
// already-sanitized name is a no-op.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			// dropped
		case '\n', '\r', '\t':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	clean := strings.TrimSpace(b.String())

	runes := []rune(clean)
	if len(runes) > maxFilenameRunes {
		clean = string(runes[:maxFilenameRunes-3]) + "..."
	}
	return clean
}

// CiteKey derives a stable citation key from the first author's surname
// and the year, falling back to the item key.
func CiteKey(it literature.Item) string {
	author := it.FirstAuthor()
	if author == "" || it.Year == 0 {
		return it.Key
	}
	surname := strings.Fields(author)[0]
	return fmt.Sprintf("%s%d", surname, it.Year)
}

// BibTeX renders a minimal BibTeX entry for embedding in notes.
func BibTeX(it literature.Item) string {
	kind := "article"
	switch it.ItemType {
	case "thesis":
		kind = "phdthesis"
	case "book":
		kind = "book"
	case "conferencePaper":
		kind = "inproceedings"
	}

	var authors []string
	for _, c := range it.Creators {
		if name := c.DisplayName(); name != "" {
			authors = append(authors, name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", kind, CiteKey(it))
	fmt.Fprintf(&b, "  title = {%s},\n", it.Title)
	if len(authors) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(authors, " and "))
	}
	if it.PublicationTitle != "" {
		fmt.Fprintf(&b, "  journal = {%s},\n", it.PublicationTitle)
	}
	if it.Year != 0 {
		fmt.Fprintf(&b, "  year = {%d},\n", it.Year)
	}
	if it.DOI != "" {
		fmt.Fprintf(&b, "  doi = {%s},\n", it.DOI)
	}
	b.WriteString("}")
	return b.String()
}

func authorList(it literature.Item) string {
	var names []string
	for _, c := range it.Creators {
		if name := c.DisplayName(); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func firstTag(it literature.Item) string {
	names := it.TagNames()
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
