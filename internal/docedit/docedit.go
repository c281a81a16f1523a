// Package docedit rewrites reference sections and in-text citation
// paragraphs inside Word documents. Edits always go to a new output file,
// never back into the source document.
package docedit

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/unidoc/unioffice/document"
)

// OutputSuffix marks machine-edited copies of a document.
const OutputSuffix = "（AI）"

// ErrHeadingNotFound is returned when the reference heading cannot be
// located in the document body.
var ErrHeadingNotFound = errors.New("reference heading not found")

// Document wraps one open Word document.
type Document struct {
	doc *document.Document
}

// Open loads a .docx file for editing.
func Open(path string) (*Document, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}
	return &Document{doc: doc}, nil
}

// SaveAs writes the edited document to path.
func (d *Document) SaveAs(path string) error {
	if err := d.doc.SaveToFile(path); err != nil {
		return fmt.Errorf("saving document %s: %w", path, err)
	}
	return nil
}

// OutputPath derives the edited-copy path from the source path by
// appending the output suffix before the extension.
func OutputPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + OutputSuffix + ext
}

// paragraphText joins the run text of a paragraph.
func paragraphText(p document.Paragraph) string {
	var b strings.Builder
	for _, r := range p.Runs() {
		b.WriteString(r.Text())
	}
	return b.String()
}

// setParagraphText replaces all paragraph content with a single run,
// keeping paragraph-level formatting.
func setParagraphText(p document.Paragraph, text string) {
	p.X().EG_PContent = nil
	p.AddRun().AddText(text)
}

// isHeading reports whether a paragraph carries a heading style.
func isHeading(p document.Paragraph) bool {
	return strings.HasPrefix(strings.ToLower(p.Style()), "heading")
}

// RewriteReferenceSection finds the body paragraph whose text matches
// heading, removes every paragraph between it and the next heading (or
// the document end), and inserts the given entries in their place.
func (d *Document) RewriteReferenceSection(heading string, entries []string) error {
	paragraphs := d.doc.Paragraphs()

	headingIdx := -1
	for i, p := range paragraphs {
		if strings.TrimSpace(paragraphText(p)) == heading {
			headingIdx = i
			break
		}
	}
	if headingIdx == -1 {
		return fmt.Errorf("%w: %q", ErrHeadingNotFound, heading)
	}

	// Take the list style from the outgoing entries so the new ones match.
	entryStyle := ""
	if headingIdx+1 < len(paragraphs) && !isHeading(paragraphs[headingIdx+1]) {
		entryStyle = paragraphs[headingIdx+1].Style()
	}
	entryStyle = pickEntryStyle(entryStyle, paragraphs[headingIdx].Style())

	for i := headingIdx + 1; i < len(paragraphs); i++ {
		if isHeading(paragraphs[i]) {
			break
		}
		d.doc.RemoveParagraph(paragraphs[i])
	}

	anchor := paragraphs[headingIdx]
	for _, entry := range entries {
		p := d.doc.InsertParagraphAfter(anchor)
		if entryStyle != "" {
			p.SetStyle(entryStyle)
		}
		p.AddRun().AddText(entry)
		anchor = p
	}
	return nil
}

// RewriteReferenceRow regenerates the reference entries in every cell of
// one table row. The cell's own heading paragraph stays in place with its
// formatting; only the paragraphs after it are replaced, in the style of
// the outgoing entries (the heading's style when the cell held none).
// Documents that lay the proposal out in mirrored table columns get every
// column updated in one pass.
func (d *Document) RewriteReferenceRow(table, row int, heading string, entries []string) error {
	r, err := d.tableRow(table, row)
	if err != nil {
		return err
	}

	for _, cell := range r.Cells() {
		paras := cell.Paragraphs()
		secondStyle, firstStyle := "", ""
		if len(paras) > 1 {
			secondStyle = paras[1].Style()
		}
		if len(paras) > 0 {
			firstStyle = paras[0].Style()
		}
		entryStyle := pickEntryStyle(secondStyle, firstStyle)

		trimCellAfterFirst(cell)
		if len(paras) == 0 && heading != "" {
			cell.AddParagraph().AddRun().AddText(heading)
		}
		for _, entry := range entries {
			p := cell.AddParagraph()
			if entryStyle != "" {
				p.SetStyle(entryStyle)
			}
			p.AddRun().AddText(entry)
		}
	}
	return nil
}

// pickEntryStyle chooses the style for regenerated entries: the style of
// the existing entries when they have one, else the heading's own style,
// else the document default.
func pickEntryStyle(entryStyle, headingStyle string) string {
	if entryStyle != "" {
		return entryStyle
	}
	return headingStyle
}

// ReplaceCitationParagraph overwrites one paragraph, by position, in every
// cell of a table row.
func (d *Document) ReplaceCitationParagraph(table, row, paragraph int, text string) error {
	r, err := d.tableRow(table, row)
	if err != nil {
		return err
	}

	for i, cell := range r.Cells() {
		paras := cell.Paragraphs()
		if paragraph < 0 || paragraph >= len(paras) {
			return fmt.Errorf("table %d row %d column %d has %d paragraphs, index %d out of range",
				table, row, i, len(paras), paragraph)
		}
		setParagraphText(paras[paragraph], text)
	}
	return nil
}

// CellText returns the paragraph texts of the first cell in a table row,
// for verification and dry runs.
func (d *Document) CellText(table, row int) ([]string, error) {
	r, err := d.tableRow(table, row)
	if err != nil {
		return nil, err
	}
	cells := r.Cells()
	if len(cells) == 0 {
		return nil, fmt.Errorf("table %d row %d has no cells", table, row)
	}

	var texts []string
	for _, p := range cells[0].Paragraphs() {
		texts = append(texts, paragraphText(p))
	}
	return texts, nil
}

func (d *Document) tableRow(table, row int) (document.Row, error) {
	tables := d.doc.Tables()
	if table < 0 || table >= len(tables) {
		return document.Row{}, fmt.Errorf("document has %d tables, index %d out of range", len(tables), table)
	}
	rows := tables[table].Rows()
	if row < 0 || row >= len(rows) {
		return document.Row{}, fmt.Errorf("table %d has %d rows, index %d out of range", table, len(rows), row)
	}
	return rows[row], nil
}

// trimCellAfterFirst drops every cell paragraph after the first one,
// leaving the first paragraph and any nested tables untouched. Cell
// paragraphs live under block-level content groups, which RemoveParagraph
// does not reach.
func trimCellAfterFirst(cell document.Cell) {
	kept := false
	for _, blc := range cell.X().EG_BlockLevelElts {
		for _, cbc := range blc.EG_ContentBlockContent {
			if len(cbc.P) == 0 {
				continue
			}
			if !kept {
				cbc.P = cbc.P[:1]
				kept = true
				continue
			}
			cbc.P = nil
		}
	}
}
