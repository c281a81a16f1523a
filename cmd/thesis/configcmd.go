package main

import (
	"github.com/spf13/cobra"

	"github.com/hekang/thesis-tools/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the resolved configuration after file and environment
overrides, plus the config file location.

Examples:
  thesis config
  thesis config --human`,
	RunE: runConfig,
}

// configResponse is the JSON output of the config command. The API key is
// reported as present or absent, never echoed.
type configResponse struct {
	ConfigPath      string `json:"config_path"`
	VaultPath       string `json:"vault_path,omitempty"`
	NotesFolder     string `json:"notes_folder,omitempty"`
	TemplateFile    string `json:"template_file,omitempty"`
	ReportDir       string `json:"report_dir,omitempty"`
	ZoteroDataDir   string `json:"zotero_data_dir,omitempty"`
	ZoteroLibraryID string `json:"zotero_library_id,omitempty"`
	APIKeySet       bool   `json:"api_key_set"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	resp := configResponse{
		ConfigPath:      config.Path(),
		VaultPath:       cfg.VaultPath,
		NotesFolder:     cfg.NotesFolder,
		TemplateFile:    cfg.TemplateFile,
		ReportDir:       cfg.ReportDir,
		ZoteroDataDir:   cfg.ZoteroDataDir,
		ZoteroLibraryID: cfg.ZoteroLibraryID,
		APIKeySet:       cfg.ZoteroAPIKey != "",
	}

	if humanOutput {
		outputHuman("Config file: %s\n", resp.ConfigPath)
		outputHuman("  vault_path:        %s\n", resp.VaultPath)
		outputHuman("  notes_folder:      %s\n", resp.NotesFolder)
		outputHuman("  report_dir:        %s\n", resp.ReportDir)
		outputHuman("  zotero_data_dir:   %s\n", resp.ZoteroDataDir)
		outputHuman("  zotero_library_id: %s\n", resp.ZoteroLibraryID)
		outputHuman("  api key set:       %v\n", resp.APIKeySet)
		return nil
	}
	return outputJSON(resp)
}
