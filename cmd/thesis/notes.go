package main

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hekang/thesis-tools/internal/config"
	"github.com/hekang/thesis-tools/internal/literature"
	"github.com/hekang/thesis-tools/internal/notes"
)

var (
	notesInput string
	notesLimit int
)

func init() {
	notesCmd.Flags().StringVarP(&notesInput, "input", "i", "literature.json", "Literature pool file")
	notesCmd.Flags().IntVarP(&notesLimit, "limit", "n", 10, "How many of the newest items to export")
	rootCmd.AddCommand(notesCmd)
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Export literature notes into the Obsidian vault",
	Long: `Render the newest pool items as Markdown notes in the configured
vault folder and refresh the note index file.

Examples:
  thesis notes
  thesis notes -i pool.json -n 20`,
	RunE: runNotes,
}

func runNotes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if _, err := cfg.RequireVault(); err != nil {
		exitWithError(ExitConfigError, "%v\n\n%s", err, config.HelpfulConfigMessage())
	}

	pool := loadPool(notesInput)

	var exportable []literature.Item
	for _, it := range pool {
		if notes.Exportable(it) {
			exportable = append(exportable, it)
		}
	}
	sort.SliceStable(exportable, func(i, j int) bool {
		return exportable[i].DateAdded > exportable[j].DateAdded
	})
	if notesLimit > 0 && len(exportable) > notesLimit {
		exportable = exportable[:notesLimit]
	}

	template := loadTemplate(cfg)
	exporter := notes.NewExporter(cfg.NotesDir(), template)

	written, err := exporter.Export(exportable, os.Stderr)
	if err != nil {
		exitWithError(ExitError, "exporting notes: %v", err)
	}

	if humanOutput {
		outputHuman("Exported %d notes to %s\n", written, cfg.NotesDir())
		return nil
	}
	return outputJSON(StatusResponse{Status: "ok", Path: cfg.NotesDir(), Count: written})
}

// loadTemplate reads the configured note template. Missing template files
// fall back to the built-in one with a warning.
func loadTemplate(cfg *config.Config) string {
	if cfg.TemplateFile == "" {
		return ""
	}
	path := cfg.TemplateFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.VaultPath, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		outputWarning("note template %s not readable, using the built-in template", path)
		return ""
	}
	return string(raw)
}
