package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hekang/thesis-tools/internal/config"
	"github.com/hekang/thesis-tools/internal/literature"
	"github.com/hekang/thesis-tools/internal/source"
	"github.com/hekang/thesis-tools/internal/zotero"
)

// Default ingest output file names under the report directory.
const (
	PoolFileName         = "zotero_items.json"
	WithoutNotesFileName = "zotero_items_without_notes.json"
)

var (
	ingestOutput     string
	ingestFromSQLite bool
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestOutput, "output", "o", "", "Pool output file (default <report_dir>/"+PoolFileName+")")
	ingestCmd.Flags().BoolVar(&ingestFromSQLite, "from-sqlite", false, "Read the local Zotero database instead of the Web API")
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull the literature pool out of Zotero",
	Long: `Fetch every regular item from the Zotero library, save the pool as
JSON, and save a second file listing the items that still have no
attached notes.

Examples:
  thesis ingest
  thesis ingest --from-sqlite
  thesis ingest -o pool.json`,
	RunE: runIngest,
}

// ingestResponse is the JSON output of the ingest command.
type ingestResponse struct {
	Path             string `json:"path"`
	WithoutNotesPath string `json:"without_notes_path,omitempty"`
	Total            int    `json:"total"`
	WithNotes        int    `json:"with_notes"`
	WithoutNotes     int    `json:"without_notes"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	reportDir := cfg.ReportDir
	if reportDir == "" {
		reportDir = "."
	}
	outPath := ingestOutput
	if outPath == "" {
		outPath = filepath.Join(reportDir, PoolFileName)
	}

	var (
		items     []literature.Item
		withNotes map[string]bool
	)
	if ingestFromSQLite {
		dbPath := cfg.SQLitePath()
		if dbPath == "" {
			exitWithError(ExitConfigError, "zotero_data_dir not configured")
		}
		items, err = source.LoadItemsSQLite(dbPath)
		if err != nil {
			exitWithError(ExitDataError, "reading zotero database: %v", err)
		}
		withNotes = notedKeys(items)
	} else {
		items, withNotes = fetchLibrary(cmd.Context(), cfg)
	}

	if err := source.SaveItemsJSON(outPath, items); err != nil {
		exitWithError(ExitError, "saving pool: %v", err)
	}

	var withoutNotes []literature.Item
	for _, it := range items {
		if !withNotes[it.Key] {
			withoutNotes = append(withoutNotes, it)
		}
	}
	withoutPath := filepath.Join(filepath.Dir(outPath), WithoutNotesFileName)
	if err := source.SaveItemsJSON(withoutPath, withoutNotes); err != nil {
		exitWithError(ExitError, "saving without-notes list: %v", err)
	}

	resp := ingestResponse{
		Path:             outPath,
		WithoutNotesPath: withoutPath,
		Total:            len(items),
		WithNotes:        len(items) - len(withoutNotes),
		WithoutNotes:     len(withoutNotes),
	}
	if humanOutput {
		outputHuman("Saved %d items to %s\n", resp.Total, resp.Path)
		outputHuman("  with notes:    %d\n", resp.WithNotes)
		outputHuman("  without notes: %d (%s)\n", resp.WithoutNotes, resp.WithoutNotesPath)
		return nil
	}
	return outputJSON(resp)
}

// fetchLibrary pulls all items through the Web API, flattens the envelopes
// into the pool shape, and records which parents have child notes.
func fetchLibrary(ctx context.Context, cfg *config.Config) ([]literature.Item, map[string]bool) {
	if err := cfg.RequireLibrary(); err != nil {
		exitWithError(ExitConfigError, "%v\n\n%s", err, config.HelpfulConfigMessage())
	}

	client := newZoteroClient(cfg)
	envelopes, err := client.Items(ctx)
	if err != nil {
		exitWithError(ExitError, "fetching library: %v", err)
	}

	var items []literature.Item
	withNotes := make(map[string]bool)
	for _, env := range envelopes {
		it := env.Data
		if it.Key == "" {
			it.Key = env.Key
		}
		switch it.ItemType {
		case "note":
			if it.ParentItem != "" {
				withNotes[it.ParentItem] = true
			}
			continue
		case "attachment":
			continue
		}
		source.Derive(&it)
		items = append(items, it)
	}
	return items, withNotes
}

// notedKeys marks items carrying notes in the local-database shape, where
// note bodies ride along on the item itself.
func notedKeys(items []literature.Item) map[string]bool {
	withNotes := make(map[string]bool)
	for _, it := range items {
		if len(it.Notes) > 0 {
			withNotes[it.Key] = true
		}
	}
	return withNotes
}

// newZoteroClient builds an API client from configuration.
func newZoteroClient(cfg *config.Config) *zotero.Client {
	opts := []zotero.ClientOption{zotero.WithAPIKey(cfg.ZoteroAPIKey)}
	if cfg.ZoteroBaseURL != "" {
		opts = append(opts, zotero.WithBaseURL(cfg.ZoteroBaseURL))
	}
	return zotero.NewClient(cfg.ZoteroLibraryID, opts...)
}
