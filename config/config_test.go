package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write dashboard.yaml: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "ui:\n  mode: TView\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.UI.Mode != UIModeTView {
		t.Fatalf("expected normalized mode tview, got %q", cfg.UI.Mode)
	}
	if cfg.Source.URL != DefaultStatusURL {
		t.Fatalf("expected default url, got %q", cfg.Source.URL)
	}
	if cfg.Source.PollIntervalMS != 1000 || cfg.Source.RequestTimeout() != 0 {
		t.Fatalf("unexpected source defaults %+v", cfg.Source)
	}
	if cfg.UI.TargetFPS != 30 || cfg.UI.RefreshMS != 250 || !cfg.UI.Color {
		t.Fatalf("unexpected ui defaults %+v", cfg.UI)
	}
	if cfg.Mirror.Enabled || cfg.Mirror.Listen == "" {
		t.Fatalf("unexpected mirror defaults %+v", cfg.Mirror)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad mode":     "ui:\n  mode: curses\n",
		"relative url": "source:\n  url: /Api/Status\n",
		"ftp url":      "source:\n  url: ftp://db/Api/Status\n",
		"neg timeout":  "source:\n  request_timeout_ms: -1\n",
		"mirror":       "mirror:\n  enabled: true\n  listen: \"\"\n",
	}
	for name, text := range cases {
		if _, err := Load(writeConfig(t, text)); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "source: [\n")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestZeroIntervalFallsBack(t *testing.T) {
	cfg, err := Load(writeConfig(t, "source:\n  poll_interval_ms: 0\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source.PollIntervalMS != 1000 {
		t.Fatalf("expected fallback interval, got %d", cfg.Source.PollIntervalMS)
	}
}
