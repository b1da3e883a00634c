package config

import (
	"os"
	"path/filepath"
	"testing"

	"appicon/internal/catalog"
	"appicon/internal/encode"
	apperrors "appicon/internal/errors"
)

func noEnv(string) (string, bool) { return "", false }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "appicon.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsValidate(t *testing.T) {
	cfg, err := NewLoader().WithDotEnv(false).WithLookup(noEnv).Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Upload.MaxBytes != 10<<20 || cfg.Batch.Workers != 3 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	platforms, err := cfg.Platforms()
	if err != nil || len(platforms) != 1 || platforms[0] != catalog.PlatformIOS {
		t.Fatalf("platforms = %v, %v", platforms, err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
defaults:
  padding: 12
  background: "#112233"
  platforms: [ios, android, web]
  format: jpg
  quality: 80
custom_sizes:
  - name: Toolbar
    width: 4
    height: 5000
upload:
  max_bytes: 2048
batch:
  workers: 2
output:
  dir: out
`)
	cfg, err := NewLoader().WithDotEnv(false).WithLookup(noEnv).Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log section %+v", cfg.Log)
	}
	opts := cfg.PipelineOptions(catalog.PlatformAndroid)
	if opts.Padding != 12 || opts.BackgroundColor != "#112233" || opts.Format != encode.FormatJPEG || opts.Quality != 80 {
		t.Fatalf("pipeline options %+v", opts)
	}
	if opts.Platform != catalog.PlatformAndroid {
		t.Fatalf("platform %s", opts.Platform)
	}
	if cfg.Upload.MaxBytes != 2048 || cfg.Upload.MinDimension != 64 {
		t.Fatalf("upload %+v", cfg.Upload)
	}

	custom := cfg.CustomSizes()
	if len(custom) != 1 || custom[0].Width != 8 || custom[0].Height != 2048 || custom[0].Name != "Toolbar" {
		t.Fatalf("custom sizes %+v", custom)
	}
	if cfg.Output.Dir != "out" || !cfg.Output.Zip {
		t.Fatalf("output %+v", cfg.Output)
	}
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"APPICON_PADDING":    "4.5",
		"APPICON_PLATFORMS":  "watchos, web",
		"APPICON_WORKERS":    "1",
		"APPICON_LOG_LEVEL":  "warn",
		"APPICON_OUTPUT_DIR": "/tmp/icons",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg, err := NewLoader().WithDotEnv(false).WithLookup(lookup).Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Defaults.Padding != 4.5 || cfg.Batch.Workers != 1 || cfg.Log.Level != "warn" || cfg.Output.Dir != "/tmp/icons" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	platforms, _ := cfg.Platforms()
	if len(platforms) != 2 || platforms[0] != catalog.PlatformWatchOS || platforms[1] != catalog.PlatformWeb {
		t.Fatalf("platforms %v", platforms)
	}
}

func TestDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("APPICON_TEST_DOTENV_QUALITY=42\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("APPICON_TEST_DOTENV_QUALITY") })

	lookup := func(k string) (string, bool) {
		if k == "APPICON_QUALITY" {
			return os.LookupEnv("APPICON_TEST_DOTENV_QUALITY")
		}
		return "", false
	}
	cfg, err := NewLoader().WithDotEnv(true, path).WithLookup(lookup).Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Defaults.Quality != 42 {
		t.Fatalf("quality %d", cfg.Defaults.Quality)
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"bad platform": "defaults:\n  platforms: [symbian]\n",
		"bad padding":  "defaults:\n  padding: 500\n",
		"bad color":    "defaults:\n  background: \"#zzz\"\n",
		"bad format":   "defaults:\n  format: gif\n",
		"bad custom":   "custom_sizes:\n  - width: 0\n    height: 10\n",
		"bad log":      "log:\n  level: chatty\n",
		"bad yaml":     "defaults: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader().WithDotEnv(false).WithLookup(noEnv).Load(writeConfig(t, body))
			if !apperrors.IsKind(err, apperrors.KindConfig) {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}

	bad := func(k string) (string, bool) {
		if k == "APPICON_WORKERS" {
			return "many", true
		}
		return "", false
	}
	if _, err := NewLoader().WithDotEnv(false).WithLookup(bad).Load(""); !apperrors.IsKind(err, apperrors.KindConfig) {
		t.Fatalf("expected config error for bad env, got %v", err)
	}
}
