package main

import (
	"github.com/spf13/cobra"

	"github.com/hekang/thesis-tools/internal/proposal"
)

var (
	optimizeDoc   string
	optimizePlan  string
	optimizeInput string
	optimizeDB    string
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeDoc, "doc", "d", "", "Proposal document (.docx)")
	optimizeCmd.Flags().StringVarP(&optimizePlan, "plan", "p", "", "Citation plan file (.yml)")
	optimizeCmd.Flags().StringVarP(&optimizeInput, "input", "i", "literature.json", "Literature pool file")
	optimizeCmd.Flags().StringVar(&optimizeDB, "db", "", "Also pull foreign items from this Zotero database")
	optimizeCmd.MarkFlagRequired("doc")
	optimizeCmd.MarkFlagRequired("plan")
	rootCmd.AddCommand(optimizeCmd)
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rewrite the proposal's references and citation markers",
	Long: `Select references from the pool, regenerate the reference section of
the proposal document, and re-anchor the in-text citation markers the
plan file describes. The edited copy is written next to the source
document; the source itself is never touched.

Examples:
  thesis optimize -d 开题报告.docx -p plan.yml
  thesis optimize -d proposal.docx -p plan.yml -i pool.json`,
	RunE: runOptimize,
}

// optimizeResponse is the JSON output of the optimize command.
type optimizeResponse struct {
	OutputPath   string `json:"output_path"`
	References   int    `json:"references"`
	ForeignCount int    `json:"foreign_count"`
	Shortfall    int    `json:"shortfall,omitempty"`
	QuotaMet     bool   `json:"quota_met"`
	Citations    int    `json:"citations"`
}

func runOptimize(cmd *cobra.Command, args []string) error {
	plan, err := proposal.LoadPlan(optimizePlan)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	pool := loadPool(optimizeInput)
	pool = append(pool, loadForeignDB(optimizeDB)...)

	outcome, err := proposal.Apply(plan, optimizeDoc, pool)
	if err != nil {
		exitWithError(ExitDataError, "rewriting document: %v", err)
	}

	if outcome.Shortfall > 0 {
		outputWarning("pool only covers %d of %d requested references", len(outcome.Entries), plan.Target)
	}
	if !outcome.QuotaMet {
		outputWarning("only %d foreign references, floor is %d", outcome.ForeignCount, plan.MinForeign)
	}

	if humanOutput {
		outputHuman("Wrote %s\n", outcome.OutputPath)
		outputHuman("  %d references (%d foreign), %d citation paragraphs updated\n",
			len(outcome.Entries), outcome.ForeignCount, outcome.Citations)
		return nil
	}
	return outputJSON(optimizeResponse{
		OutputPath:   outcome.OutputPath,
		References:   len(outcome.Entries),
		ForeignCount: outcome.ForeignCount,
		Shortfall:    outcome.Shortfall,
		QuotaMet:     outcome.QuotaMet,
		Citations:    outcome.Citations,
	})
}
