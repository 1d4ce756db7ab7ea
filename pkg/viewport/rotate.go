package viewport

import (
	"math"

	"gitlab.com/tinyland/lab/onehand/pkg/boundary"
)

// Rotate adds delta degrees to the rotation accumulator and re-clamps the
// offset for the new orientation of the axes. The accumulator is never
// wrapped; boundary math reads it modulo 360. A single call is limited to
// one full turn.
func (v *Viewport) Rotate(delta float64) {
	if v.asset == nil || math.IsNaN(delta) || delta == 0 {
		return
	}
	delta = math.Max(-maxRotationDelta, math.Min(maxRotationDelta, delta))
	v.rotation += delta
	v.reclamp()
	v.notify()
}

// RotateStep rotates by the configured step: clockwise for dir > 0.
func (v *Viewport) RotateStep(dir int) {
	switch {
	case dir > 0:
		v.Rotate(v.rotationStep)
	case dir < 0:
		v.Rotate(-v.rotationStep)
	}
}

// StartContinuousRotation begins a press-and-hold rotation in dir.
func (v *Viewport) StartContinuousRotation(dir int) {
	if v.asset == nil || dir == 0 {
		return
	}
	v.rotationRamp.Start(dir)
	v.notify()
}

// StopRotation ends a continuous rotation.
func (v *Viewport) StopRotation() {
	if !v.rotationRamp.Running() {
		return
	}
	v.rotationRamp.Stop()
	v.notify()
}

func (v *Viewport) tickRotation(dt float64) bool {
	if !v.rotationRamp.Running() {
		return false
	}
	if v.asset == nil {
		v.rotationRamp.Stop()
		return true
	}
	d := v.rotationRamp.Tick(dt)
	if d == 0 {
		return false
	}
	v.rotation += d
	v.reclamp()
	return true
}

// DragChanged pans by translation measured from where the drag began.
func (v *Viewport) DragChanged(translation boundary.Offset) {
	if v.asset == nil || math.IsNaN(translation.X) || math.IsNaN(translation.Y) {
		return
	}
	if !v.dragging {
		v.dragging = true
		v.dragStart = v.offset
	}
	v.offset = boundary.Clamp(v.dragStart.Add(translation), v.maxOffset())
	v.notify()
}

// DragEnded closes the current drag. The offset stays where it is.
func (v *Viewport) DragEnded() {
	if !v.dragging {
		return
	}
	v.dragging = false
	v.dragStart = boundary.Offset{}
	v.notify()
}
