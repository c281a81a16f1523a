package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, ConfigDir, ConfigFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	ResetCache()
	t.Cleanup(ResetCache)
}

func TestLoadFromFile(t *testing.T) {
	writeConfig(t, `
vault_path: /data/vault
notes_folder: 论文笔记
zotero_library_id: "12345"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.VaultPath != "/data/vault" {
		t.Errorf("VaultPath = %q", cfg.VaultPath)
	}
	if cfg.NotesFolder != "论文笔记" {
		t.Errorf("NotesFolder = %q", cfg.NotesFolder)
	}
	if got := cfg.NotesDir(); got != filepath.Join("/data/vault", "论文笔记") {
		t.Errorf("NotesDir = %q", got)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ResetCache()
	t.Cleanup(ResetCache)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.VaultPath != "" {
		t.Errorf("VaultPath = %q, want empty", cfg.VaultPath)
	}
	if cfg.NotesFolder != DefaultNotesFolder {
		t.Errorf("NotesFolder = %q, want default", cfg.NotesFolder)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	writeConfig(t, "zotero_api_key: from-file\n")
	t.Setenv("ZOTERO_API_KEY", "from-env")
	ResetCache()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ZoteroAPIKey != "from-env" {
		t.Errorf("ZoteroAPIKey = %q, want env override", cfg.ZoteroAPIKey)
	}
}

func TestRequireLibrary(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireLibrary(); err == nil {
		t.Error("expected error without credentials")
	}

	cfg = &Config{ZoteroLibraryID: "12345", ZoteroAPIKey: "k"}
	if err := cfg.RequireLibrary(); err != nil {
		t.Errorf("RequireLibrary: %v", err)
	}
}

func TestSQLitePath(t *testing.T) {
	cfg := &Config{ZoteroDataDir: "/data/Zotero"}
	if got := cfg.SQLitePath(); got != filepath.Join("/data/Zotero", "zotero.sqlite") {
		t.Errorf("SQLitePath = %q", got)
	}
	if got := (&Config{}).SQLitePath(); got != "" {
		t.Errorf("SQLitePath on empty config = %q", got)
	}
}
