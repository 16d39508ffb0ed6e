package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfigFindsParent(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	cfgPath := filepath.Join(root, projectConfigFileName)
	content := `
mode = "exact"
output = "./clips"  # kesimler buraya
ffmpeg_dir = "/opt/ffmpeg/bin"
audio = 1
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, foundPath, err := LoadProjectConfig(nested)
	if err != nil {
		t.Fatalf("LoadProjectConfig failed: %v", err)
	}
	if cfg == nil {
		t.Fatalf("expected config, got nil")
	}
	if foundPath != cfgPath {
		t.Fatalf("unexpected config path: %s", foundPath)
	}
	if cfg.Mode != "exact" {
		t.Fatalf("unexpected mode: %s", cfg.Mode)
	}
	if cfg.OutputDir != "./clips" {
		t.Fatalf("unexpected output dir: %s", cfg.OutputDir)
	}
	if cfg.FFmpegDir != "/opt/ffmpeg/bin" {
		t.Fatalf("unexpected ffmpeg dir: %s", cfg.FFmpegDir)
	}
	if cfg.Audio != 1 {
		t.Fatalf("unexpected audio order: %d", cfg.Audio)
	}
}

func TestLoadProjectConfigMissingFile(t *testing.T) {
	cfg, path, err := LoadProjectConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProjectConfig failed: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected nil config for missing file")
	}
	if path != "" {
		t.Fatalf("expected empty path, got: %s", path)
	}
}

func TestLoadProjectConfigInvalidMode(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, projectConfigFileName)
	content := `mode = "fast"`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	_, _, err := LoadProjectConfig(root)
	if err == nil {
		t.Fatalf("expected error for invalid mode")
	}
}
