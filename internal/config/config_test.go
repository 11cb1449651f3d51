package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ALPACA_API_KEY", "ALPACA_API_SECRET", "ALPACA_BASE_URL",
		"ALPACA_DATA_URL", "ALPACA_STREAM_URL", "ALPACA_FEED",
		"JOURNAL_PATH", "EXPORT_DATA_DIR", "LOG_LEVEL", "LOG_FORMAT",
		"APCA_API_KEY_ID", "APCA_API_SECRET_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)

	yamlContent := []byte(`
alpaca:
  api_key: "test-key"
  api_secret: "test-secret"
  paper: true
  base_url: "https://paper-api.alpaca.markets"
  data_url: "https://data.alpaca.markets"
  feed: "sip"
logging:
  level: "debug"
  format: "text"
journal:
  path: "/tmp/orders.db"
export:
  data_dir: "/tmp/bars"
`)

	path := filepath.Join(t.TempDir(), "alpaca.yaml")
	if err := os.WriteFile(path, yamlContent, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Alpaca.APIKey != "test-key" || cfg.Alpaca.APISecret != "test-secret" {
		t.Errorf("credentials = %q/%q", cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
	}
	if !cfg.Alpaca.Paper {
		t.Error("Paper should be true")
	}
	if cfg.Alpaca.Feed != "sip" {
		t.Errorf("Feed = %q", cfg.Alpaca.Feed)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Journal.Path != "/tmp/orders.db" {
		t.Errorf("Journal.Path = %q", cfg.Journal.Path)
	}
	if cfg.Export.DataDir != "/tmp/bars" {
		t.Errorf("Export.DataDir = %q", cfg.Export.DataDir)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load of missing file should not fail: %v", err)
	}
	if !cfg.Alpaca.Paper {
		t.Error("default Paper should be true")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("default logging = %+v", cfg.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALPACA_API_KEY", "env-key")
	t.Setenv("ALPACA_API_SECRET", "env-secret")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Alpaca.APIKey != "env-key" || cfg.Alpaca.APISecret != "env-secret" {
		t.Errorf("credentials = %q/%q", cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestAPCAEnvVarsTakePriority(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALPACA_API_KEY", "generic-key")
	t.Setenv("APCA_API_KEY_ID", "canonical-key")
	t.Setenv("APCA_API_SECRET_KEY", "canonical-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Alpaca.APIKey != "canonical-key" {
		t.Errorf("APIKey = %q, want the APCA_ value", cfg.Alpaca.APIKey)
	}
	if cfg.Alpaca.APISecret != "canonical-secret" {
		t.Errorf("APISecret = %q", cfg.Alpaca.APISecret)
	}
}
