package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hekang/thesis-tools/internal/config"
	"github.com/hekang/thesis-tools/internal/pdfmeta"
	"github.com/hekang/thesis-tools/internal/zotero"
)

var attachParent string

func init() {
	attachCmd.Flags().StringVar(&attachParent, "parent", "", "Attach to this item key instead of matching by DOI/title")
	rootCmd.AddCommand(attachCmd)
}

var attachCmd = &cobra.Command{
	Use:   "attach <file.pdf>",
	Short: "Upload a PDF as an attachment to its library item",
	Long: `Match a local PDF to a library item by the DOI (or failing that the
title) found inside the file, create an attachment item under it, and
upload the file through the Zotero storage flow.

Examples:
  thesis attach paper.pdf
  thesis attach --parent AB12CD34 paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runAttach,
}

func runAttach(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if err := cfg.RequireLibrary(); err != nil {
		exitWithError(ExitConfigError, "%v\n\n%s", err, config.HelpfulConfigMessage())
	}
	client := newZoteroClient(cfg)

	parentKey := attachParent
	if parentKey == "" {
		parentKey = matchParent(cmd, client, pdfPath)
	}

	filename := filepath.Base(pdfPath)
	attachKey, err := client.CreateAttachment(cmd.Context(), parentKey, filename, "application/pdf")
	if err != nil {
		exitWithError(ExitError, "creating attachment item: %v", err)
	}
	if err := client.UploadAttachment(cmd.Context(), attachKey, pdfPath); err != nil {
		exitWithError(ExitError, "uploading %s: %v", filename, err)
	}

	if humanOutput {
		outputHuman("Attached %s to item %s (attachment %s)\n", filename, parentKey, attachKey)
		return nil
	}
	return outputJSON(StatusResponse{Status: "ok", Path: parentKey})
}

// matchParent finds the library item a PDF belongs to, by DOI first, then
// by guessed title.
func matchParent(cmd *cobra.Command, client *zotero.Client, pdfPath string) string {
	query := ""
	if doi, err := pdfmeta.ExtractDOI(pdfPath); err != nil {
		exitWithError(ExitDataError, "reading %s: %v", pdfPath, err)
	} else if doi != "" {
		query = doi
	}

	if query == "" {
		title, err := pdfmeta.GuessTitle(pdfPath)
		if err != nil || title == "" {
			exitWithError(ExitDataError, "no DOI or title found in %s, pass --parent explicitly", pdfPath)
		}
		query = title
	}

	matches, err := client.SearchItems(cmd.Context(), query, 5)
	if err != nil {
		exitWithError(ExitError, "searching library: %v", err)
	}
	for _, m := range matches {
		if m.Data.ItemType != "attachment" && m.Data.ItemType != "note" {
			return m.Key
		}
	}

	exitWithError(ExitError, "no library item matches %q, pass --parent explicitly", strings.TrimSpace(query))
	return ""
}
