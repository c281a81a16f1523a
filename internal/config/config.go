// Package config handles the global thesis-tools configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in
// ~/.config/thesis-tools/config.yml. Environment variables override the
// file, see Load.
type Config struct {
	// VaultPath is the Obsidian vault root for note export.
	VaultPath string `yaml:"vault_path,omitempty"`
	// NotesFolder is the vault subfolder receiving literature notes.
	NotesFolder string `yaml:"notes_folder,omitempty"`
	// TemplateFile is an optional note template inside the vault.
	TemplateFile string `yaml:"template_file,omitempty"`
	// ReportDir is where analysis reports and exported pools land.
	ReportDir string `yaml:"report_dir,omitempty"`
	// ZoteroDataDir holds the local zotero.sqlite database.
	ZoteroDataDir string `yaml:"zotero_data_dir,omitempty"`
	// ZoteroAPIKey authenticates Web API requests.
	ZoteroAPIKey string `yaml:"zotero_api_key,omitempty"`
	// ZoteroLibraryID is the numeric user library ID.
	ZoteroLibraryID string `yaml:"zotero_library_id,omitempty"`
	// ZoteroBaseURL overrides the Web API endpoint.
	ZoteroBaseURL string `yaml:"zotero_base_url,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "thesis-tools"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// DefaultNotesFolder is used when notes_folder is not configured.
	DefaultNotesFolder = "文献笔记"
)

// cache holds the loaded config for the process lifetime.
var cache *Config

// Path returns the path to the global config file. Respects
// XDG_CONFIG_HOME, defaults to ~/.config/thesis-tools/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the configuration file, then applies environment overrides.
// A missing file yields an empty config, not an error.
func Load() (*Config, error) {
	if cache != nil {
		return cache, nil
	}

	var cfg Config
	path := Path()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err != nil && os.IsNotExist(err):
			// no file, env overrides may still apply
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	cfg.VaultPath = ExpandTilde(cfg.VaultPath)
	cfg.ReportDir = ExpandTilde(cfg.ReportDir)
	cfg.ZoteroDataDir = ExpandTilde(cfg.ZoteroDataDir)
	if cfg.NotesFolder == "" {
		cfg.NotesFolder = DefaultNotesFolder
	}

	cache = &cfg
	return &cfg, nil
}

// ResetCache clears the cached config. Useful for testing.
func ResetCache() {
	cache = nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"THESIS_OBSIDIAN_VAULT": &cfg.VaultPath,
		"THESIS_NOTES_FOLDER":   &cfg.NotesFolder,
		"THESIS_REPORT_DIR":     &cfg.ReportDir,
		"ZOTERO_DATA_DIR":       &cfg.ZoteroDataDir,
		"ZOTERO_API_KEY":        &cfg.ZoteroAPIKey,
		"ZOTERO_LIBRARY_ID":     &cfg.ZoteroLibraryID,
		"ZOTERO_BASE_URL":       &cfg.ZoteroBaseURL,
	}
	for name, field := range overrides {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}

// ExpandTilde expands a leading ~/ to the user home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// SQLitePath returns the expected zotero.sqlite location under the data
// directory.
func (c *Config) SQLitePath() string {
	if c.ZoteroDataDir == "" {
		return ""
	}
	return filepath.Join(c.ZoteroDataDir, "zotero.sqlite")
}

// NotesDir returns the absolute notes folder inside the vault.
func (c *Config) NotesDir() string {
	if c.VaultPath == "" {
		return ""
	}
	return filepath.Join(c.VaultPath, c.NotesFolder)
}

// ErrVaultNotConfigured is returned when vault_path is not set.
var ErrVaultNotConfigured = errors.New("vault_path not configured")

// ErrLibraryNotConfigured is returned when the Zotero library ID or API
// key is missing.
var ErrLibraryNotConfigured = errors.New("zotero library not configured")

// RequireVault validates that the configured vault exists on disk.
func (c *Config) RequireVault() (string, error) {
	if c.VaultPath == "" {
		return "", ErrVaultNotConfigured
	}
	if _, err := os.Stat(c.VaultPath); err != nil {
		return "", fmt.Errorf("vault_path does not exist: %s", c.VaultPath)
	}
	return c.VaultPath, nil
}

// RequireLibrary validates that Web API credentials are present.
func (c *Config) RequireLibrary() error {
	if c.ZoteroLibraryID == "" || c.ZoteroAPIKey == "" {
		return ErrLibraryNotConfigured
	}
	return nil
}

// HelpfulConfigMessage explains how to create the config file.
func HelpfulConfigMessage() string {
	configPath := Path()
	return fmt.Sprintf(`No thesis-tools configuration found.

Tip: Create %s to set defaults:
  mkdir -p %s
  cat > %s <<'EOF'
  vault_path: /path/to/your/vault
  zotero_library_id: "12345"
  zotero_api_key: your-key
  EOF`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
