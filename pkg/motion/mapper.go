// Package motion turns device attitude samples into pan deltas for the
// viewport: calibration against a baseline, a dead zone around it, angle
// clamping, orientation correction and boundary clamping.
package motion

import (
	"fmt"
	"math"

	"gitlab.com/tinyland/lab/onehand/pkg/boundary"
)

// Attitude is a device tilt reading in radians.
type Attitude struct {
	Pitch float64
	Roll  float64
}

// Sub returns a - b on both axes.
func (a Attitude) Sub(b Attitude) Attitude {
	return Attitude{Pitch: a.Pitch - b.Pitch, Roll: a.Roll - b.Roll}
}

// Valid reports whether both axes are finite.
func (a Attitude) Valid() bool {
	return !math.IsNaN(a.Pitch) && !math.IsInf(a.Pitch, 0) &&
		!math.IsNaN(a.Roll) && !math.IsInf(a.Roll, 0)
}

// Orientation is how the device is being held.
type Orientation int

const (
	Portrait Orientation = iota
	LandscapeLeft
	LandscapeRight
	PortraitUpsideDown
)

// String returns the orientation name used in configuration.
func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case LandscapeLeft:
		return "landscape-left"
	case LandscapeRight:
		return "landscape-right"
	case PortraitUpsideDown:
		return "portrait-upside-down"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// ParseOrientation maps a configuration name to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "", "portrait":
		return Portrait, nil
	case "landscape-left":
		return LandscapeLeft, nil
	case "landscape-right":
		return LandscapeRight, nil
	case "portrait-upside-down":
		return PortraitUpsideDown, nil
	default:
		return Portrait, fmt.Errorf("motion: unknown orientation %q", s)
	}
}

// Correct rotates a relative attitude into screen axes for o.
//
//	portrait:             ( p,  r)
//	landscape-right:      (-r,  p)
//	landscape-left:       ( r, -p)
//	portrait-upside-down: (-p, -r)
func (o Orientation) Correct(a Attitude) Attitude {
	switch o {
	case LandscapeRight:
		return Attitude{Pitch: -a.Roll, Roll: a.Pitch}
	case LandscapeLeft:
		return Attitude{Pitch: a.Roll, Roll: -a.Pitch}
	case PortraitUpsideDown:
		return Attitude{Pitch: -a.Pitch, Roll: -a.Roll}
	default:
		return a
	}
}

// Config tunes a Mapper.
type Config struct {
	// DeadZone is the per-axis threshold (rad) below which both axes
	// together count as "no input".
	DeadZone float64
	// MaxAngle clamps each relative axis (rad).
	MaxAngle float64
	// Sensitivity converts radians into points per sample.
	Sensitivity float64
}

// DefaultConfig returns the mapper defaults.
func DefaultConfig() Config {
	return Config{
		DeadZone:    0.05,
		MaxAngle:    0.5,
		Sensitivity: 30,
	}
}

// Frame is the viewport geometry the mapper clamps against.
type Frame struct {
	Scale    float64
	Rotation float64
	Viewport boundary.Size
	Image    boundary.Size
}

// Result is the outcome of mapping one sample.
type Result struct {
	// Delta is the raw (unclamped) pan delta after orientation correction.
	Delta boundary.Offset
	// Offset is the candidate offset clamped against the frame.
	Offset boundary.Offset
	// Relative is the corrected tilt relative to the baseline.
	Relative Attitude
	// InDeadZone is set when both axes were inside the dead zone.
	InDeadZone bool
	// Clamped is set when the boundary clamp changed the candidate.
	Clamped bool
	// Invalid is set when the reading had a NaN or infinite axis and was
	// ignored.
	Invalid bool
}

// Mapper holds calibration state. Not safe for concurrent use.
type Mapper struct {
	cfg         Config
	orientation Orientation
	baseline    Attitude
	calibrated  bool
}

// NewMapper returns an uncalibrated Mapper.
func NewMapper(cfg Config) *Mapper {
	def := DefaultConfig()
	if cfg.DeadZone < 0 {
		cfg.DeadZone = def.DeadZone
	}
	if cfg.MaxAngle <= 0 {
		cfg.MaxAngle = def.MaxAngle
	}
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = def.Sensitivity
	}
	return &Mapper{cfg: cfg}
}

// Calibrate records a as the baseline all later readings are relative to.
func (m *Mapper) Calibrate(a Attitude) {
	m.baseline = a
	m.calibrated = true
}

// Calibrated reports whether a baseline is set.
func (m *Mapper) Calibrated() bool {
	return m.calibrated
}

// Baseline returns the calibration baseline.
func (m *Mapper) Baseline() Attitude {
	return m.baseline
}

// Reset forgets the baseline.
func (m *Mapper) Reset() {
	m.baseline = Attitude{}
	m.calibrated = false
}

// SetOrientation changes the correction applied to later samples.
func (m *Mapper) SetOrientation(o Orientation) {
	m.orientation = o
}

// Orientation returns the current device orientation.
func (m *Mapper) Orientation() Orientation {
	return m.orientation
}

// Delta computes the pan delta for a raw reading without clamping to a
// frame. ok is false inside the dead zone and for non-finite readings.
func (m *Mapper) Delta(raw Attitude) (delta boundary.Offset, rel Attitude, ok bool) {
	if !raw.Valid() {
		return boundary.Offset{}, Attitude{}, false
	}
	rel = raw.Sub(m.baseline)
	if math.Abs(rel.Pitch) < m.cfg.DeadZone && math.Abs(rel.Roll) < m.cfg.DeadZone {
		return boundary.Offset{}, Attitude{}, false
	}
	rel = Attitude{
		Pitch: clampAngle(rel.Pitch, m.cfg.MaxAngle),
		Roll:  clampAngle(rel.Roll, m.cfg.MaxAngle),
	}
	rel = m.orientation.Correct(rel)
	return boundary.Offset{
		X: rel.Roll * m.cfg.Sensitivity,
		Y: rel.Pitch * m.cfg.Sensitivity,
	}, rel, true
}

// Map applies one raw reading to current and returns the clamped result.
// Inside the dead zone the offset is returned unchanged. Non-finite readings
// return current with Invalid set.
func (m *Mapper) Map(raw Attitude, current boundary.Offset, f Frame) Result {
	if !raw.Valid() {
		return Result{Offset: current, Invalid: true}
	}
	delta, rel, ok := m.Delta(raw)
	if !ok {
		return Result{Offset: current, InDeadZone: true}
	}
	max := boundary.MaxOffset(f.Image, f.Viewport, f.Scale, f.Rotation)
	candidate := current.Add(delta)
	next := boundary.Clamp(candidate, max)
	return Result{
		Delta:    delta,
		Offset:   next,
		Relative: rel,
		Clamped:  next != candidate,
	}
}

func clampAngle(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
