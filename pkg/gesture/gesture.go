// Package gesture translates control gestures (tap, double tap, long press,
// drag) into viewport operations.
package gesture

import (
	"fmt"
	"log/slog"

	"gitlab.com/tinyland/lab/onehand/pkg/boundary"
	"gitlab.com/tinyland/lab/onehand/pkg/tier"
)

// Target identifies the on-screen control a gesture engaged.
type Target int

const (
	TargetNone Target = iota
	ZoomIn
	ZoomOut
	RotateCW
	RotateCCW
	Reset
	MotionToggle
)

var targetNames = map[Target]string{
	TargetNone:   "none",
	ZoomIn:       "zoom-in",
	ZoomOut:      "zoom-out",
	RotateCW:     "rotate-cw",
	RotateCCW:    "rotate-ccw",
	Reset:        "reset",
	MotionToggle: "motion-toggle",
}

// String returns the control name.
func (t Target) String() string {
	if n, ok := targetNames[t]; ok {
		return n
	}
	return fmt.Sprintf("target(%d)", int(t))
}

// Targets lists every control in display order.
func Targets() []Target {
	return []Target{ZoomIn, ZoomOut, RotateCCW, RotateCW, Reset, MotionToggle}
}

// Kind is the gesture type.
type Kind int

const (
	Tap Kind = iota
	DoubleTap
	LongPressStart
	LongPressEnd
	DragChanged
	DragEnded
)

// String returns the gesture name.
func (k Kind) String() string {
	switch k {
	case Tap:
		return "tap"
	case DoubleTap:
		return "double-tap"
	case LongPressStart:
		return "long-press-start"
	case LongPressEnd:
		return "long-press-end"
	case DragChanged:
		return "drag-changed"
	case DragEnded:
		return "drag-ended"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one recognized gesture. Translation is only set for drags and
// is measured from where the drag began.
type Event struct {
	Kind        Kind
	Target      Target
	Translation boundary.Offset
}

// Controller is the set of viewport operations gestures drive.
type Controller interface {
	StepZoom(dir tier.Direction) bool
	ZoomToMax() bool
	ZoomToMin() bool
	StartContinuousZoom(dir tier.Direction)
	StopZoom()
	RotateStep(dir int)
	StartContinuousRotation(dir int)
	StopRotation()
	Reset()
	ToggleMotionTracking() bool
	Recalibrate()
	DragChanged(translation boundary.Offset)
	DragEnded()
}

// Router dispatches gestures to a Controller.
type Router struct {
	ctrl   Controller
	logger *slog.Logger
}

// NewRouter returns a Router for ctrl. A nil logger uses slog.Default.
func NewRouter(ctrl Controller, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{ctrl: ctrl, logger: logger}
}

// Handle applies ev. Gestures a control does not respond to are ignored.
//
//	tap:        zoom step, rotate step, reset, toggle motion
//	double tap: zoom to max/min, recalibrate motion
//	long press: continuous zoom or rotation until released
//	drag:       pan
func (r *Router) Handle(ev Event) {
	r.logger.Debug("gesture", "kind", ev.Kind.String(), "target", ev.Target.String())

	switch ev.Kind {
	case Tap:
		r.tap(ev.Target)
	case DoubleTap:
		r.doubleTap(ev.Target)
	case LongPressStart:
		r.longPressStart(ev.Target)
	case LongPressEnd:
		r.longPressEnd(ev.Target)
	case DragChanged:
		r.ctrl.DragChanged(ev.Translation)
	case DragEnded:
		r.ctrl.DragEnded()
	}
}

func (r *Router) tap(t Target) {
	switch t {
	case ZoomIn:
		r.ctrl.StepZoom(tier.In)
	case ZoomOut:
		r.ctrl.StepZoom(tier.Out)
	case RotateCW:
		r.ctrl.RotateStep(1)
	case RotateCCW:
		r.ctrl.RotateStep(-1)
	case Reset:
		r.ctrl.Reset()
	case MotionToggle:
		r.ctrl.ToggleMotionTracking()
	}
}

func (r *Router) doubleTap(t Target) {
	switch t {
	case ZoomIn:
		r.ctrl.ZoomToMax()
	case ZoomOut:
		r.ctrl.ZoomToMin()
	case MotionToggle:
		r.ctrl.Recalibrate()
	default:
		r.tap(t)
	}
}

func (r *Router) longPressStart(t Target) {
	switch t {
	case ZoomIn:
		r.ctrl.StartContinuousZoom(tier.In)
	case ZoomOut:
		r.ctrl.StartContinuousZoom(tier.Out)
	case RotateCW:
		r.ctrl.StartContinuousRotation(1)
	case RotateCCW:
		r.ctrl.StartContinuousRotation(-1)
	}
}

func (r *Router) longPressEnd(t Target) {
	switch t {
	case ZoomIn, ZoomOut:
		r.ctrl.StopZoom()
	case RotateCW, RotateCCW:
		r.ctrl.StopRotation()
	}
}
