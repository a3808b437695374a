package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cutout/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsWhenMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.toml")
	cfg, path, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("expected exists=false for %s", path)
	}
	if cfg.Limits.MaxRetries != 2 {
		t.Errorf("default max_retries = %d, want 2", cfg.Limits.MaxRetries)
	}
	if cfg.Canvas.Shape != "circle" {
		t.Errorf("default shape = %q, want circle", cfg.Canvas.Shape)
	}
	if cfg.Server.MaxZipFiles != 150 {
		t.Errorf("default max_zip_files = %d, want 150", cfg.Server.MaxZipFiles)
	}
	if !filepath.IsAbs(cfg.Paths.WorkspaceDir) {
		t.Errorf("workspace dir not expanded: %q", cfg.Paths.WorkspaceDir)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	path := writeConfig(t, `
[canvas]
shape = "rounded"
frame_size = 512

[export]
format = "webp"
quality = 75

[limits]
max_items = 10
`)
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Canvas.Shape != "rounded" || cfg.Canvas.FrameSize != 512 {
		t.Errorf("canvas overrides not applied: %+v", cfg.Canvas)
	}
	if cfg.Export.Format != "webp" || cfg.Export.Quality != 75 {
		t.Errorf("export overrides not applied: %+v", cfg.Export)
	}
	if cfg.Limits.MaxItems != 10 {
		t.Errorf("limits override not applied: %+v", cfg.Limits)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		fragment string
	}{
		{
			"bad shape",
			"[canvas]\nshape = \"triangle\"\n",
			"canvas.shape",
		},
		{
			"bad format",
			"[export]\nformat = \"gif\"\n",
			"export.format",
		},
		{
			"bad quality",
			"[export]\nquality = 250\n",
			"export.quality",
		},
		{
			"bad log level",
			"[logging]\nlevel = \"verbose\"\n",
			"logging.level",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.contents)
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("error %q does not mention %q", err, tc.fragment)
			}
		})
	}
}

func TestRemovalAPIKeyEnvFallback(t *testing.T) {
	t.Setenv("CUTOUT_REMOVAL_API_KEY", "env-key")
	path := writeConfig(t, "[removal]\napi_key = \"\"\n")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Removal.APIKey != "env-key" {
		t.Fatalf("api key = %q, want env fallback", cfg.Removal.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[removal]") {
		t.Fatal("sample config missing removal section")
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
