package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("telemetry disabled by default")
	}
	p := cfg.Player
	if !p.Autoplay || !p.Inline || !p.NoRelated || !p.MinimalBranding {
		t.Errorf("player defaults = %+v", p)
	}
	if cfg.DataDir != "" {
		t.Errorf("DataDir = %q, want empty (home fallback)", cfg.DataDir)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Telemetry.CollectorURL = "https://collector.example/v1"
	cfg.Player.Autoplay = false
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Telemetry.CollectorURL != cfg.Telemetry.CollectorURL {
		t.Errorf("collector = %q", got.Telemetry.CollectorURL)
	}
	if got.Player.Autoplay {
		t.Error("autoplay override lost")
	}
}

func TestLoadCorruptFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	writeConfig(t, home, "{not json")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("corrupt file should fall back to defaults")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BOBFRIEND_DATA_DIR", "/tmp/bf-data")
	t.Setenv("BOBFRIEND_COLLECTOR_URL", "https://env.example")
	t.Setenv("BOBFRIEND_TELEMETRY", "off")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/tmp/bf-data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Telemetry.CollectorURL != "https://env.example" {
		t.Errorf("collector = %q", cfg.Telemetry.CollectorURL)
	}
	if cfg.Telemetry.Enabled {
		t.Error("BOBFRIEND_TELEMETRY=off did not disable telemetry")
	}
}

func TestResolveDataDir(t *testing.T) {
	base := t.TempDir()
	cfg := DefaultConfig()
	cfg.DataDir = filepath.Join(base, "nested", "data")

	dir, err := cfg.ResolveDataDir()
	if err != nil {
		t.Fatalf("ResolveDataDir: %v", err)
	}
	if dir != cfg.DataDir {
		t.Errorf("dir = %q, want %q", dir, cfg.DataDir)
	}
}

func TestResolveCatalogOverlay(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ResolveCatalogOverlay("/data"); got != filepath.Join("/data", "catalog.yaml") {
		t.Errorf("default overlay = %q", got)
	}
	cfg.CatalogOverlay = "/etc/bobfriend/catalog.yaml"
	if got := cfg.ResolveCatalogOverlay("/data"); got != "/etc/bobfriend/catalog.yaml" {
		t.Errorf("explicit overlay = %q", got)
	}
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".bobfriend")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
