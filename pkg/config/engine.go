package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gitlab.com/tinyland/lab/onehand/pkg/ingest"
	"gitlab.com/tinyland/lab/onehand/pkg/motion"
	"gitlab.com/tinyland/lab/onehand/pkg/ramp"
	"gitlab.com/tinyland/lab/onehand/pkg/terminal"
	"gitlab.com/tinyland/lab/onehand/pkg/tier"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if !tier.KnownVariant(c.Tiers.Variant) {
		errs = append(errs, fmt.Errorf("tiers.variant: unknown variant %q", c.Tiers.Variant))
	}
	if c.Ramp.ZoomInitialSpeed <= 0 || c.Ramp.ZoomMaxSpeed <= 0 || c.Ramp.RotationSpeed <= 0 {
		errs = append(errs, errors.New("ramp: speeds must be positive"))
	}
	if c.Ramp.ZoomAcceleration < 1 {
		errs = append(errs, fmt.Errorf("ramp.zoom_acceleration: %v is below 1", c.Ramp.ZoomAcceleration))
	}
	if c.Ramp.ZoomMaxSpeed < c.Ramp.ZoomInitialSpeed {
		errs = append(errs, errors.New("ramp.zoom_max_speed: below zoom_initial_speed"))
	}
	if c.Ramp.RotationStep <= 0 {
		errs = append(errs, errors.New("ramp.rotation_step: must be positive"))
	}
	if c.Motion.DeadZone < 0 || c.Motion.DeadZone >= c.Motion.MaxAngle {
		errs = append(errs, errors.New("motion: dead_zone must be in [0, max_angle)"))
	}
	if c.Motion.Sensitivity <= 0 {
		errs = append(errs, errors.New("motion.sensitivity: must be positive"))
	}
	if _, err := motion.ParseOrientation(c.Motion.Orientation); err != nil {
		errs = append(errs, fmt.Errorf("motion.orientation: %w", err))
	}
	if !strings.EqualFold(c.Ingest.Budget, "auto") {
		if _, err := ingest.ParseBudget(c.Ingest.Budget); err != nil {
			errs = append(errs, fmt.Errorf("ingest.budget: %w", err))
		}
	}
	if c.Ingest.Workers < 0 || c.Ingest.CacheMB < 0 {
		errs = append(errs, errors.New("ingest: workers and cache_mb must not be negative"))
	}
	if _, _, err := terminal.ParseProtocol(c.UI.Protocol); err != nil {
		errs = append(errs, fmt.Errorf("ui.protocol: %w", err))
	}
	switch c.UI.Hand {
	case "left", "right":
	default:
		errs = append(errs, fmt.Errorf("ui.hand: %q is neither left nor right", c.UI.Hand))
	}
	return errors.Join(errs...)
}

// Policy builds the tier policy for the configured variant.
func (c *Config) Policy() *tier.Policy {
	p := tier.NewPolicy(tier.Preset(c.Tiers.Variant))
	p.ExtremeImpliesPro = c.Tiers.ExtremeImpliesPro
	return p
}

// ZoomRamp returns the accelerating zoom ramp settings.
func (c *Config) ZoomRamp() ramp.Config {
	return ramp.Config{
		Mode:         ramp.Accelerating,
		InitialSpeed: c.Ramp.ZoomInitialSpeed,
		Acceleration: c.Ramp.ZoomAcceleration,
		MaxSpeed:     c.Ramp.ZoomMaxSpeed,
		MaxDt:        c.Ramp.MaxDt.Seconds(),
	}
}

// RotationRamp returns the constant rotation ramp settings.
func (c *Config) RotationRamp() ramp.Config {
	return ramp.Config{
		Mode:         ramp.Constant,
		InitialSpeed: c.Ramp.RotationSpeed,
		Acceleration: 1,
		MaxSpeed:     c.Ramp.RotationSpeed,
		MaxDt:        c.Ramp.MaxDt.Seconds(),
	}
}

// MotionMapper returns the tilt mapper settings.
func (c *Config) MotionMapper() motion.Config {
	return motion.Config{
		DeadZone:    c.Motion.DeadZone,
		MaxAngle:    c.Motion.MaxAngle,
		Sensitivity: c.Motion.Sensitivity,
	}
}

// Orientation returns the configured interface orientation, portrait when
// the value does not parse.
func (c *Config) Orientation() motion.Orientation {
	o, err := motion.ParseOrientation(c.Motion.Orientation)
	if err != nil {
		return motion.Portrait
	}
	return o
}

// Budget resolves the ingest budget. "auto" probes installed memory; a
// failed probe still yields a usable budget alongside the error.
func (c *Config) Budget(ctx context.Context) (ingest.Budget, error) {
	if strings.EqualFold(c.Ingest.Budget, "auto") || c.Ingest.Budget == "" {
		return ingest.DetectBudget(ctx)
	}
	return ingest.ParseBudget(c.Ingest.Budget)
}

// SlogLevel maps LogLevel onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
