package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hekang/thesis-tools/internal/analysis"
	"github.com/hekang/thesis-tools/internal/config"
)

// Default analyze report file names under the report directory.
const (
	RecentReportFileName  = "recent_literature_report.json"
	ForeignReportFileName = "foreign_literature_report.json"
)

var (
	analyzeInput  string
	analyzeOutput string
	foreignOnly   bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "literature.json", "Literature pool file")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Report file (default under report_dir)")
	analyzeCmd.Flags().BoolVar(&foreignOnly, "foreign-only", false, "Write the foreign-literature report instead of the pool summary")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Write literature analysis reports",
	Long: `Summarize the pool: newest additions and the year, journal and
item-type distributions. With --foreign-only, report the foreign-language
portion instead (total, five most recent, full list).

Examples:
  thesis analyze
  thesis analyze --foreign-only
  thesis analyze -i pool.json -o report.json --human`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	reportDir := cfg.ReportDir
	if reportDir == "" {
		reportDir = "."
	}

	pool := loadPool(analyzeInput)
	now := time.Now()

	if foreignOnly {
		report := analysis.Analyze(pool, now)
		outPath := analyzeOutput
		if outPath == "" {
			outPath = filepath.Join(reportDir, ForeignReportFileName)
		}
		if err := analysis.WriteReport(outPath, report); err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			outputHuman("%d foreign-language items, report in %s\n\n", report.TotalForeign, outPath)
			outputHuman("Most recently added:\n")
			for i, e := range report.RecentFive {
				outputHuman("%2d. %s", i+1, truncateString(e.Title, ListTitleMaxLen))
				if e.Year != 0 {
					outputHuman(" (%d)", e.Year)
				}
				outputHuman("\n")
			}
			return nil
		}
		return outputJSON(StatusResponse{Status: "ok", Path: outPath, Count: report.TotalForeign})
	}

	report := analysis.AnalyzeRecent(pool, now)
	outPath := analyzeOutput
	if outPath == "" {
		outPath = filepath.Join(reportDir, RecentReportFileName)
	}
	if err := analysis.WriteReport(outPath, report); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("%d items (%d foreign), report in %s\n\n", report.TotalItems, report.ForeignCount, outPath)
		outputHuman("Newest additions:\n")
		for i, e := range report.RecentItems {
			outputHuman("%2d. %s", i+1, truncateString(e.Title, ListTitleMaxLen))
			if e.Year != 0 {
				outputHuman(" (%d)", e.Year)
			}
			outputHuman("\n")
		}
		return nil
	}
	return outputJSON(StatusResponse{Status: "ok", Path: outPath, Count: report.TotalItems})
}
