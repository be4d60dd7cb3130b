package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: 0.0.0.0
  port: 9090
storage:
  database_path: ./data/reports.db
report:
  bio_fields: ["Name", "Hired On"]
  date_fields: ["Hired On"]
watch:
  directories:
    - ./drops
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true")
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9090 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath != filepath.Join(dir, "data/reports.db") {
		t.Errorf("database path not expanded: %s", cfg.Storage.DatabasePath)
	}
	if len(cfg.Watch.Directories) != 1 || cfg.Watch.Directories[0] != filepath.Join(dir, "drops") {
		t.Errorf("watch directories = %v", cfg.Watch.Directories)
	}
	if !cfg.Watch.RecursiveOrDefault() {
		t.Error("recursive should default to true with directories set")
	}

	schema := cfg.Report.Schema()
	if _, ok := schema.Canonical("name"); !ok {
		t.Error("custom schema should include Name")
	}
	if !schema.IsDate("Hired On") {
		t.Error("Hired On should be date-valued")
	}
	if _, ok := schema.Canonical("Email"); ok {
		t.Error("custom schema should replace the defaults")
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database path default missing")
	}
	if len(cfg.Watch.Extensions) != 2 {
		t.Errorf("watch extensions = %v", cfg.Watch.Extensions)
	}

	schema := cfg.Report.Schema()
	if _, ok := schema.Canonical("email"); !ok {
		t.Error("default schema should include Email")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Watch.Directories = []string{filepath.Join(dir, "drops")}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Watch.Directories) != 1 {
		t.Errorf("directories lost on round trip: %v", loaded.Watch.Directories)
	}
}
