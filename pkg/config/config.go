// Package config provides TOML and YAML configuration for the viewer.
package config

// Config is the complete viewer configuration.
type Config struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`

	Tiers  TiersConfig  `toml:"tiers" yaml:"tiers"`
	Ramp   RampConfig   `toml:"ramp" yaml:"ramp"`
	Motion MotionConfig `toml:"motion" yaml:"motion"`
	Ingest IngestConfig `toml:"ingest" yaml:"ingest"`
	UI     UIConfig     `toml:"ui" yaml:"ui"`
}

// TiersConfig selects the zoom tier table.
type TiersConfig struct {
	// Variant is "standard" (1x-10x) or "extreme" (adds 15x and 20x).
	Variant string `toml:"variant" yaml:"variant"`
	// ExtremeImpliesPro lets an extreme-zoom purchase unlock pro tiers.
	ExtremeImpliesPro bool `toml:"extreme_implies_pro" yaml:"extreme_implies_pro"`
}

// RampConfig tunes press-and-hold zoom and rotation. Speeds are per 1/60 s.
type RampConfig struct {
	ZoomInitialSpeed float64  `toml:"zoom_initial_speed" yaml:"zoom_initial_speed"`
	ZoomAcceleration float64  `toml:"zoom_acceleration" yaml:"zoom_acceleration"`
	ZoomMaxSpeed     float64  `toml:"zoom_max_speed" yaml:"zoom_max_speed"`
	RotationSpeed    float64  `toml:"rotation_speed" yaml:"rotation_speed"`
	RotationStep     float64  `toml:"rotation_step" yaml:"rotation_step"`
	MaxDt            Duration `toml:"max_dt" yaml:"max_dt"`
}

// MotionConfig tunes tilt panning. Angles are in radians.
type MotionConfig struct {
	DeadZone       float64  `toml:"dead_zone" yaml:"dead_zone"`
	MaxAngle       float64  `toml:"max_angle" yaml:"max_angle"`
	Sensitivity    float64  `toml:"sensitivity" yaml:"sensitivity"`
	SampleInterval Duration `toml:"sample_interval" yaml:"sample_interval"`
	Debounce       Duration `toml:"debounce" yaml:"debounce"`
	Orientation    string   `toml:"orientation" yaml:"orientation"`
}

// IngestConfig controls working-copy preparation.
type IngestConfig struct {
	// Budget is "auto", "low", "medium" or "high".
	Budget  string `toml:"budget" yaml:"budget"`
	Workers int    `toml:"workers" yaml:"workers"`
	CacheMB int    `toml:"cache_mb" yaml:"cache_mb"`
}

// UIConfig holds application-layer preferences. The viewport engine never
// reads these.
type UIConfig struct {
	// Hand is "right" or "left" and mirrors the control bar.
	Hand          string   `toml:"hand" yaml:"hand"`
	AutoHide      bool     `toml:"auto_hide" yaml:"auto_hide"`
	AutoHideDelay Duration `toml:"auto_hide_delay" yaml:"auto_hide_delay"`
	ShowGuide     bool     `toml:"show_guide" yaml:"show_guide"`
	// Protocol is "auto", "kitty", "iterm2", "sixel", "halfblocks" or "none".
	Protocol  string   `toml:"protocol" yaml:"protocol"`
	Tick      Duration `toml:"tick" yaml:"tick"`
	LongPress Duration `toml:"long_press" yaml:"long_press"`
	DoubleTap Duration `toml:"double_tap" yaml:"double_tap"`
}
