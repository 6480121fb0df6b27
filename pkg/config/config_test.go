package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/regulomics/grnscope/pkg/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Limits.MaxNodes != 250 || cfg.Limits.MaxEdges != 800 {
		t.Errorf("unexpected default limits: %+v", cfg.Limits)
	}
	if cfg.Slider.Minimum != 0.14 {
		t.Errorf("slider minimum = %v, want 0.14", cfg.Slider.Minimum)
	}
	if cfg.Debounce() != 300*time.Millisecond {
		t.Errorf("debounce = %v, want 300ms", cfg.Debounce())
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %q, want dark", cfg.UI.Theme)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Limits.MaxNodes != 250 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
limits:
  max_nodes: 100
slider:
  minimum: 0.2
special_tfs:
  - id: YDL999W
    name: PHANTOM1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Limits.MaxNodes != 100 {
		t.Errorf("max_nodes = %d, want 100", cfg.Limits.MaxNodes)
	}
	// absent fields keep defaults
	if cfg.Limits.MaxEdges != 800 {
		t.Errorf("max_edges = %d, want default 800", cfg.Limits.MaxEdges)
	}
	if cfg.Slider.Minimum != 0.2 {
		t.Errorf("slider minimum = %v, want 0.2", cfg.Slider.Minimum)
	}
	if cfg.Slider.DebounceMS != 300 {
		t.Errorf("debounce_ms = %d, want default 300", cfg.Slider.DebounceMS)
	}
	if len(cfg.SpecialTFs) != 1 || cfg.SpecialTFs[0].Name != "PHANTOM1" {
		t.Errorf("special_tfs = %+v", cfg.SpecialTFs)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("limits: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalizeRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
limits:
  max_nodes: -5
slider:
  minimum: 1.5
  step: 0
ui:
  theme: neon
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	def := DefaultConfig()
	if cfg.Limits.MaxNodes != def.Limits.MaxNodes {
		t.Errorf("max_nodes = %d, want default", cfg.Limits.MaxNodes)
	}
	if cfg.Slider.Minimum != def.Slider.Minimum {
		t.Errorf("minimum = %v, want default", cfg.Slider.Minimum)
	}
	if cfg.Slider.Step != def.Slider.Step {
		t.Errorf("step = %v, want default", cfg.Slider.Step)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %q, want dark", cfg.UI.Theme)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.DataPath = "/data/network.tsv"
	cfg.Limits.MaxNodes = 500
	cfg.SpecialTFs = []model.SpecialTF{{ID: "YBR123C", Name: "TFC1"}}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.DataPath != cfg.DataPath {
		t.Errorf("data_path = %q, want %q", got.DataPath, cfg.DataPath)
	}
	if got.Limits.MaxNodes != 500 {
		t.Errorf("max_nodes = %d, want 500", got.Limits.MaxNodes)
	}
	if len(got.SpecialTFs) != 1 || got.SpecialTFs[0].ID != "YBR123C" {
		t.Errorf("special_tfs = %+v", got.SpecialTFs)
	}
}
