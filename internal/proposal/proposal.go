// Package proposal drives the end-to-end rewrite of a thesis proposal
// document: selecting references from a pool, regenerating the reference
// section and re-anchoring in-text citation markers, all steered by a
// declarative plan file.
package proposal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hekang/thesis-tools/internal/citation"
	"github.com/hekang/thesis-tools/internal/docedit"
	"github.com/hekang/thesis-tools/internal/literature"
	"github.com/hekang/thesis-tools/internal/selection"
)

// DefaultHeading is the reference section heading when the plan leaves it
// unset.
const DefaultHeading = "参考文献"

// Plan describes where references and citation sentences live in one
// specific proposal document layout.
type Plan struct {
	// Table is the index of the proposal table, -1 selects the
	// heading-scan mode over body paragraphs instead.
	Table int `yaml:"table"`
	// Target is how many references the rewritten section should hold.
	Target int `yaml:"target"`
	// MinForeign is the foreign-literature floor.
	MinForeign int `yaml:"min_foreign"`

	References ReferencesPlan `yaml:"references"`
	Citations  []CitationPlan `yaml:"citations"`
}

// ReferencesPlan locates the reference section.
type ReferencesPlan struct {
	Row     int    `yaml:"row"`
	Heading string `yaml:"heading"`
}

// CitationPlan rewrites one body sentence and anchors it to references by
// title.
type CitationPlan struct {
	Row       int      `yaml:"row"`
	Paragraph int      `yaml:"paragraph"`
	Text      string   `yaml:"text"`
	Titles    []string `yaml:"titles"`
}

// LoadPlan reads a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}

	plan := Plan{Table: -1, Target: 20, MinForeign: 3}
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	if plan.References.Heading == "" {
		plan.References.Heading = DefaultHeading
	}
	if plan.Target <= 0 {
		return nil, fmt.Errorf("plan target must be positive, got %d", plan.Target)
	}
	if plan.Table < 0 && len(plan.Citations) > 0 {
		return nil, fmt.Errorf("citation edits require a table layout, plan has %d edits without a table", len(plan.Citations))
	}
	return &plan, nil
}

// Outcome reports what one Apply run did.
type Outcome struct {
	OutputPath   string
	Selected     []literature.Item
	Entries      []string
	ForeignCount int
	Shortfall    int
	QuotaMet     bool
	Citations    int
}

// Apply rewrites the document at docPath according to the plan, drawing
// references from pool, and writes the edited copy next to the source.
// The source document is never modified.
func Apply(plan *Plan, docPath string, pool []literature.Item) (*Outcome, error) {
	result := selection.Select(pool, plan.Target)
	entries := make([]string, len(result.Selected))
	for i, it := range result.Selected {
		entries[i] = citation.FormatReference(it, i+1)
	}

	doc, err := docedit.Open(docPath)
	if err != nil {
		return nil, err
	}

	if plan.Table < 0 {
		if err := doc.RewriteReferenceSection(plan.References.Heading, entries); err != nil {
			return nil, err
		}
	} else {
		if err := doc.RewriteReferenceRow(plan.Table, plan.References.Row, plan.References.Heading, entries); err != nil {
			return nil, err
		}
	}

	index := selection.IndexByTitle(result.Selected)
	applied := 0
	for _, c := range plan.Citations {
		text := citation.AppendCitationSuffix(c.Text, resolveIndices(index, c.Titles))
		if err := doc.ReplaceCitationParagraph(plan.Table, c.Row, c.Paragraph, text); err != nil {
			return nil, err
		}
		applied++
	}

	outPath := docedit.OutputPath(docPath)
	if err := doc.SaveAs(outPath); err != nil {
		return nil, err
	}

	return &Outcome{
		OutputPath:   outPath,
		Selected:     result.Selected,
		Entries:      entries,
		ForeignCount: result.ForeignCount,
		Shortfall:    result.Shortfall,
		QuotaMet:     result.MeetsQuota(plan.MinForeign),
		Citations:    applied,
	}, nil
}

// resolveIndices maps cited titles to reference positions, skipping titles
// that did not make the selected list.
func resolveIndices(index map[string]int, titles []string) []int {
	var indices []int
	for _, title := range titles {
		if i, ok := index[selection.NormalizeTitle(title)]; ok {
			indices = append(indices, i)
		}
	}
	return indices
}
