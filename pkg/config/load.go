package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/onehand/pkg/tier"
)

const appName = "onehand"

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/onehand/config.toml (then config.yaml)
//  2. ~/.config/onehand/config.toml (then config.yaml)
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. Files ending
// in .yaml or .yml are decoded as YAML, everything else as TOML.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return LoadFromReader(f)
	}
}

// LoadFromReader reads TOML configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode toml: %w", err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadYAML reads YAML configuration from an io.Reader.
func LoadYAML(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Tiers: TiersConfig{
			Variant: tier.VariantStandard,
		},
		Ramp: RampConfig{
			ZoomInitialSpeed: 0.01,
			ZoomAcceleration: 1.05,
			ZoomMaxSpeed:     0.1,
			RotationSpeed:    2,
			RotationStep:     45,
			MaxDt:            Duration{100 * time.Millisecond},
		},
		Motion: MotionConfig{
			DeadZone:       0.05,
			MaxAngle:       0.5,
			Sensitivity:    30,
			SampleInterval: Duration{time.Second / 60},
			Debounce:       Duration{4 * time.Millisecond},
			Orientation:    "portrait",
		},
		Ingest: IngestConfig{
			Budget:  "auto",
			Workers: 2,
			CacheMB: 32,
		},
		UI: UIConfig{
			Hand:          "right",
			AutoHide:      true,
			AutoHideDelay: Duration{3 * time.Second},
			ShowGuide:     true,
			Protocol:      "auto",
			Tick:          Duration{time.Second / 60},
			LongPress:     Duration{300 * time.Millisecond},
			DoubleTap:     Duration{300 * time.Millisecond},
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ONEHAND_VARIANT"); v != "" {
		cfg.Tiers.Variant = v
	}
	if v := os.Getenv("ONEHAND_BUDGET"); v != "" {
		cfg.Ingest.Budget = v
	}
	if v := os.Getenv("ONEHAND_PROTOCOL"); v != "" {
		cfg.UI.Protocol = v
	}
	if v := os.Getenv("ONEHAND_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	dirs := []string{xdgConfigHome(home)}

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if dirs[0] != defaultXDG {
		dirs = append(dirs, defaultXDG)
	}

	var paths []string
	for _, d := range dirs {
		paths = append(paths,
			filepath.Join(d, appName, "config.toml"),
			filepath.Join(d, appName, "config.yaml"),
		)
	}
	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// DefaultLogFile returns the log path used while the interactive viewer
// owns the terminal: $XDG_CACHE_HOME/onehand/onehand.log.
func DefaultLogFile() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(xdgCacheHome(home), appName, appName+".log")
}

// xdgCacheHome returns XDG_CACHE_HOME or ~/.cache as fallback.
func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
