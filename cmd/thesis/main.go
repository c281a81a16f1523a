// Package main provides the thesis CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "thesis",
	Short: "Thesis literature and document toolkit",
	Long: `thesis manages the literature workflow behind a graduate thesis:
pulling records out of Zotero, analyzing foreign-language coverage,
exporting Obsidian notes, and rewriting the reference section and
in-text citation markers of the proposal document.

Commands output JSON by default for scripting; pass --human for
readable summaries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
