// Package config loads the dashboard's YAML configuration. A path may name a
// single file or a directory whose *.yaml / *.yml files are merged in name
// order, later files overriding earlier ones.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tabledash/strutil"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	UIModeTView    = "tview"
	UIModeANSI     = "ansi"
	UIModeHeadless = "headless"

	DefaultStatusURL      = "http://localhost:5123/Api/Status"
	defaultPollIntervalMS = 1000
	defaultRefreshMS      = 250
	defaultTargetFPS      = 30
	defaultMirrorListen   = "127.0.0.1:8090"
	defaultLogDir         = "data/logs"
	defaultRetentionDays  = 7
)

// Config is the complete dashboard configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	UI      UIConfig      `yaml:"ui"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	Logging LoggingConfig `yaml:"logging"`

	// LoadedFrom records the file or directory the config came from.
	LoadedFrom string `yaml:"-"`
}

// SourceConfig points at the cluster status endpoint.
type SourceConfig struct {
	URL              string `yaml:"url"`
	PollIntervalMS   int    `yaml:"poll_interval_ms"`
	RequestTimeoutMS int    `yaml:"request_timeout_ms"`
}

// PollInterval is the fixed fetch cadence.
func (s SourceConfig) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMS) * time.Millisecond
}

// RequestTimeout is zero when fetches may run unbounded.
func (s SourceConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutMS) * time.Millisecond
}

// UIConfig selects and tunes the console renderer.
type UIConfig struct {
	Mode        string `yaml:"mode"`
	RefreshMS   int    `yaml:"refresh_ms"`
	Color       bool   `yaml:"color"`
	ClearScreen bool   `yaml:"clear_screen"`
	TargetFPS   int    `yaml:"target_fps"`
	EnableMouse bool   `yaml:"enable_mouse"`
}

// MirrorConfig controls the optional browser mirror.
type MirrorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Dir           string `yaml:"dir"`
	RetentionDays int    `yaml:"retention_days"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:            DefaultStatusURL,
			PollIntervalMS: defaultPollIntervalMS,
		},
		UI: UIConfig{
			Mode:        UIModeTView,
			RefreshMS:   defaultRefreshMS,
			Color:       true,
			ClearScreen: true,
			TargetFPS:   defaultTargetFPS,
		},
		Mirror: MirrorConfig{
			Listen: defaultMirrorListen,
		},
		Logging: LoggingConfig{
			Dir:           defaultLogDir,
			RetentionDays: defaultRetentionDays,
		},
	}
}

// Load reads a file or a directory of YAML files on top of the defaults.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	files := []string{path}
	if info.IsDir() {
		files, err = yamlFiles(path)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no yaml files in %s: %w", path, os.ErrNotExist)
		}
	}

	cfg := Default()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", file, err)
		}
	}
	cfg.LoadedFrom = path
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (c *Config) normalize() error {
	c.Source.URL = strings.TrimSpace(c.Source.URL)
	if c.Source.URL == "" {
		c.Source.URL = DefaultStatusURL
	}
	u, err := url.Parse(c.Source.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("source.url %q must be an absolute http(s) URL: %w", c.Source.URL, ErrInvalidConfig)
	}
	if c.Source.PollIntervalMS <= 0 {
		c.Source.PollIntervalMS = defaultPollIntervalMS
	}
	if c.Source.RequestTimeoutMS < 0 {
		return fmt.Errorf("source.request_timeout_ms must be >= 0: %w", ErrInvalidConfig)
	}

	c.UI.Mode = strutil.NormalizeLower(c.UI.Mode)
	switch c.UI.Mode {
	case "":
		c.UI.Mode = UIModeTView
	case UIModeTView, UIModeANSI, UIModeHeadless:
	default:
		return fmt.Errorf("ui.mode %q (want tview, ansi or headless): %w", c.UI.Mode, ErrInvalidConfig)
	}
	if c.UI.RefreshMS <= 0 {
		c.UI.RefreshMS = defaultRefreshMS
	}
	if c.UI.TargetFPS <= 0 {
		c.UI.TargetFPS = defaultTargetFPS
	}

	c.Mirror.Listen = strings.TrimSpace(c.Mirror.Listen)
	if c.Mirror.Enabled && c.Mirror.Listen == "" {
		return fmt.Errorf("mirror.listen is required when mirror is enabled: %w", ErrInvalidConfig)
	}

	c.Logging.Dir = strings.TrimSpace(c.Logging.Dir)
	if c.Logging.Enabled && c.Logging.Dir == "" {
		c.Logging.Dir = defaultLogDir
	}
	if c.Logging.RetentionDays <= 0 {
		c.Logging.RetentionDays = defaultRetentionDays
	}
	return nil
}

// Print displays the configuration
func (c *Config) Print() {
	fmt.Printf("Source: %s (every %s", c.Source.URL, c.Source.PollInterval())
	if c.Source.RequestTimeoutMS > 0 {
		fmt.Printf(", timeout %s", c.Source.RequestTimeout())
	}
	fmt.Printf(")\n")
	fmt.Printf("UI: mode=%s color=%v\n", c.UI.Mode, c.UI.Color)
	if c.Mirror.Enabled {
		fmt.Printf("Mirror: http://%s/\n", c.Mirror.Listen)
	}
	if c.Logging.Enabled {
		fmt.Printf("Logging: %s (retention %d days)\n", c.Logging.Dir, c.Logging.RetentionDays)
	}
}
