package main

import (
	"github.com/spf13/cobra"

	"github.com/hekang/thesis-tools/internal/citation"
	"github.com/hekang/thesis-tools/internal/docedit"
	"github.com/hekang/thesis-tools/internal/literature"
	"github.com/hekang/thesis-tools/internal/proposal"
	"github.com/hekang/thesis-tools/internal/selection"
	"github.com/hekang/thesis-tools/internal/source"
)

var (
	refsInput      string
	refsDB         string
	refsDoc        string
	refsHeading    string
	refsTarget     int
	refsMinForeign int
)

func init() {
	referencesCmd.Flags().StringVarP(&refsInput, "input", "i", "literature.json", "Literature pool file")
	referencesCmd.Flags().StringVar(&refsDB, "db", "", "Also pull foreign items from this Zotero database")
	referencesCmd.Flags().StringVarP(&refsDoc, "doc", "d", "", "Rewrite the reference section of this .docx")
	referencesCmd.Flags().StringVar(&refsHeading, "heading", proposal.DefaultHeading, "Reference section heading in the document")
	referencesCmd.Flags().IntVarP(&refsTarget, "target", "t", 20, "How many references to select")
	referencesCmd.Flags().IntVar(&refsMinForeign, "min-foreign", 3, "Foreign-literature floor")
	rootCmd.AddCommand(referencesCmd)
}

var referencesCmd = &cobra.Command{
	Use:   "references",
	Short: "Select and format a numbered reference list",
	Long: `Select references from the pool under the foreign-literature floor
and print them as numbered entries. With --doc, additionally rewrite the
reference section of the document, located by its heading text, and save
the edited copy next to the source.

Examples:
  thesis references
  thesis references -t 25 --min-foreign 5 --human
  thesis references -d 开题报告.docx
  thesis references --db ~/Zotero/zotero.sqlite`,
	RunE: runReferences,
}

// referencesResponse is the JSON output of the references command.
type referencesResponse struct {
	Entries      []string `json:"entries"`
	ForeignCount int      `json:"foreign_count"`
	Shortfall    int      `json:"shortfall,omitempty"`
	QuotaMet     bool     `json:"quota_met"`
	OutputPath   string   `json:"output_path,omitempty"`
}

func runReferences(cmd *cobra.Command, args []string) error {
	pool := loadPool(refsInput)
	pool = append(pool, loadForeignDB(refsDB)...)

	result := selection.Select(pool, refsTarget)
	entries := make([]string, len(result.Selected))
	for i, it := range result.Selected {
		entries[i] = citation.FormatReference(it, i+1)
	}

	if result.Shortfall > 0 {
		outputWarning("pool only covers %d of %d requested references", len(entries), refsTarget)
	}
	if !result.MeetsQuota(refsMinForeign) {
		outputWarning("only %d foreign references, floor is %d", result.ForeignCount, refsMinForeign)
	}

	outPath := ""
	if refsDoc != "" {
		outPath = rewriteReferenceDoc(refsDoc, refsHeading, entries)
	}

	if humanOutput {
		for _, entry := range entries {
			outputHuman("%s\n", entry)
		}
		outputHuman("\n%d entries, %d foreign\n", len(entries), result.ForeignCount)
		if outPath != "" {
			outputHuman("Wrote %s\n", outPath)
		}
		return nil
	}
	return outputJSON(referencesResponse{
		Entries:      entries,
		ForeignCount: result.ForeignCount,
		Shortfall:    result.Shortfall,
		QuotaMet:     result.MeetsQuota(refsMinForeign),
		OutputPath:   outPath,
	})
}

// rewriteReferenceDoc replaces the reference section of a document and
// returns the edited copy's path.
func rewriteReferenceDoc(docPath, heading string, entries []string) string {
	doc, err := docedit.Open(docPath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if err := doc.RewriteReferenceSection(heading, entries); err != nil {
		exitWithError(ExitDataError, "rewriting document: %v", err)
	}
	outPath := docedit.OutputPath(docPath)
	if err := doc.SaveAs(outPath); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return outPath
}

// loadForeignDB pulls the foreign records out of a local Zotero database.
// A missing database is a warning so the JSON pool still works alone.
func loadForeignDB(path string) []literature.Item {
	if path == "" {
		return nil
	}
	items, err := source.LoadForeignSQLite(path)
	if err != nil {
		outputWarning("zotero database not readable, continuing without it: %v", err)
		return nil
	}
	return items
}
