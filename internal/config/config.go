package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const DefaultManifest = "download_data_index.csv"

type Config struct {
	ManifestPath string        `yaml:"manifest"`
	BaseDir      string        `yaml:"base_dir"`
	Verbose      bool          `yaml:"verbose"`
	TUI          bool          `yaml:"tui"`
	Progress     bool          `yaml:"progress"`
	Timeout      time.Duration `yaml:"timeout"`
	ReportPath   string        `yaml:"report"`
	ConfigPath   string        `yaml:"-"`
}

// BindFlags registers the fetch flags on fs and returns the config they fill.
func BindFlags(fs *pflag.FlagSet) *Config {
	cfg := &Config{}
	fs.StringVarP(&cfg.ManifestPath, "manifest", "m", "", "Manifest file (filename,URL,folder,MD5)")
	fs.StringVarP(&cfg.BaseDir, "base-dir", "b", "", "Directory destinations are resolved against (default: manifest directory)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVar(&cfg.TUI, "tui", false, "Show an interactive progress view")
	fs.BoolVar(&cfg.Progress, "progress", false, "Show a byte progress bar per download")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Per-download timeout, 0 disables it")
	fs.StringVar(&cfg.ReportPath, "report", "", "Write a YAML run report to this path")
	fs.StringVarP(&cfg.ConfigPath, "config", "c", "", "YAML config file")
	return cfg
}

// Resolve fills unset values from the environment, then from the config file,
// then from defaults, and validates the result. Flags set on fs always win.
func Resolve(fs *pflag.FlagSet, cfg Config) (Config, error) {
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = envOrEmpty("DSFETCH_CONFIG")
	}

	var file Config
	if cfg.ConfigPath != "" {
		loaded, err := LoadFile(cfg.ConfigPath)
		if err != nil {
			return Config{}, err
		}
		file = loaded
	}

	changed := func(name string) bool {
		return fs != nil && fs.Changed(name)
	}

	if !changed("manifest") && cfg.ManifestPath == "" {
		cfg.ManifestPath = firstNonEmpty(envOrEmpty("DSFETCH_MANIFEST"), file.ManifestPath, DefaultManifest)
	}
	if !changed("base-dir") && cfg.BaseDir == "" {
		cfg.BaseDir = firstNonEmpty(envOrEmpty("DSFETCH_BASE_DIR"), file.BaseDir)
	}
	if !changed("verbose") && !cfg.Verbose {
		cfg.Verbose = envTruthy("DSFETCH_VERBOSE") || file.Verbose
	}
	if !changed("tui") && !cfg.TUI {
		cfg.TUI = file.TUI
	}
	if !changed("progress") && !cfg.Progress {
		cfg.Progress = file.Progress
	}
	if !changed("report") && cfg.ReportPath == "" {
		cfg.ReportPath = file.ReportPath
	}
	if !changed("timeout") && cfg.Timeout == 0 {
		if raw := envOrEmpty("DSFETCH_TIMEOUT"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				return Config{}, fmt.Errorf("invalid DSFETCH_TIMEOUT %q: %w", raw, err)
			}
			cfg.Timeout = parsed
		} else {
			cfg.Timeout = file.Timeout
		}
	}

	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(cfg.ManifestPath)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ManifestPath == "" {
		return errors.New("manifest is required")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if c.TUI && c.Progress {
		return errors.New("--tui and --progress cannot be combined")
	}
	return nil
}

// LoadFile reads a YAML config file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
