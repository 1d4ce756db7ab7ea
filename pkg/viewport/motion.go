package viewport

import (
	"time"

	"gitlab.com/tinyland/lab/onehand/pkg/motion"
)

// ToggleMotionTracking enables or disables tilt panning and reports the new
// state. Enabling needs an image and an available sensor; otherwise it is a
// no-op. Disabling keeps the current offset.
func (v *Viewport) ToggleMotionTracking() bool {
	if v.motionEnabled {
		v.stopMotion()
		v.logger.Debug("motion tracking disabled")
		v.notify()
		return false
	}
	if v.asset == nil {
		return false
	}
	if v.source == nil || !v.source.Available() {
		v.logger.Warn("motion tracking unavailable", "error", motion.ErrSensorUnavailable)
		return false
	}
	if err := v.source.Start(); err != nil {
		v.logger.Warn("start attitude sensor", "error", err)
		return false
	}

	v.sampler.Reset()
	if a, ok := v.source.Current(); ok && a.Valid() {
		v.mapper.Calibrate(a)
		v.needsCalibration = false
	} else {
		v.mapper.Reset()
		v.needsCalibration = true
	}
	v.motionEnabled = true
	v.logger.Debug("motion tracking enabled", "baseline_pitch", v.mapper.Baseline().Pitch,
		"baseline_roll", v.mapper.Baseline().Roll)
	v.notify()
	return true
}

// MotionTracking reports whether tilt panning is on.
func (v *Viewport) MotionTracking() bool {
	return v.motionEnabled
}

// Recalibrate makes the next attitude sample the new baseline.
func (v *Viewport) Recalibrate() {
	if !v.motionEnabled {
		return
	}
	v.needsCalibration = true
	v.sampler.Reset()
}

// SetOrientation changes how tilt axes map onto screen axes.
func (v *Viewport) SetOrientation(o motion.Orientation) {
	if o == v.mapper.Orientation() {
		return
	}
	v.mapper.SetOrientation(o)
	v.notify()
}

// PushAttitude feeds one raw sensor reading. Readings are coalesced and
// applied by Tick at the sampler's rate. Readings arriving while tracking
// is off and non-finite readings are dropped.
func (v *Viewport) PushAttitude(a motion.Attitude, now time.Time) {
	if !v.motionEnabled || !a.Valid() {
		return
	}
	if v.needsCalibration {
		v.mapper.Calibrate(a)
		v.needsCalibration = false
	}
	v.sampler.Push(a, now)
}

// applyAttitude maps one sample into the offset.
func (v *Viewport) applyAttitude(a motion.Attitude) bool {
	if v.asset == nil {
		return false
	}
	res := v.mapper.Map(a, v.offset, v.frame())
	if res.Invalid {
		return false
	}
	changed := res.Offset != v.offset || res.InDeadZone != v.inDeadZone

	v.offset = res.Offset
	v.inDeadZone = res.InDeadZone
	compass := motion.Compass{}
	if !res.InDeadZone {
		compass = motion.CompassFor(res.Relative)
	}
	if compass != v.compass {
		changed = true
	}
	v.compass = compass
	return changed
}

func (v *Viewport) stopMotion() {
	if v.motionEnabled && v.source != nil {
		v.source.Stop()
	}
	v.motionEnabled = false
	v.needsCalibration = false
	v.sampler.Reset()
	v.inDeadZone = false
	v.compass = motion.Compass{}
}
