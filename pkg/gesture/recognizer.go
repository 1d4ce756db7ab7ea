package gesture

import (
	"time"

	"gitlab.com/tinyland/lab/onehand/pkg/boundary"
)

// Default recognizer timings.
const (
	DefaultLongPressDelay  = 300 * time.Millisecond
	DefaultDoubleTapWindow = 300 * time.Millisecond
)

// Recognizer turns raw press/release pairs on controls into gestures. A
// press held past the long-press delay becomes LongPressStart (reported by
// Poll) and its release LongPressEnd. A shorter press is a Tap, or a
// DoubleTap when it follows a tap on the same control within the window.
// Not safe for concurrent use.
type Recognizer struct {
	longPress time.Duration
	doubleTap time.Duration

	pressed   Target
	pressedAt time.Time
	longing   bool

	lastTap   Target
	lastTapAt time.Time

	dragging bool
	dragFrom boundary.Offset
}

// NewRecognizer returns a Recognizer. Non-positive durations use defaults.
func NewRecognizer(longPress, doubleTap time.Duration) *Recognizer {
	if longPress <= 0 {
		longPress = DefaultLongPressDelay
	}
	if doubleTap <= 0 {
		doubleTap = DefaultDoubleTapWindow
	}
	return &Recognizer{longPress: longPress, doubleTap: doubleTap}
}

// Press records a press on t. A press while another is held releases the
// earlier one first.
func (r *Recognizer) Press(t Target, now time.Time) []Event {
	var out []Event
	if r.pressed != TargetNone {
		out = r.Release(now)
	}
	r.pressed = t
	r.pressedAt = now
	r.longing = false
	return out
}

// Release ends the current press.
func (r *Recognizer) Release(now time.Time) []Event {
	t := r.pressed
	if t == TargetNone {
		return nil
	}
	r.pressed = TargetNone

	if r.longing {
		r.longing = false
		r.lastTap = TargetNone
		return []Event{{Kind: LongPressEnd, Target: t}}
	}

	if r.lastTap == t && now.Sub(r.lastTapAt) <= r.doubleTap {
		r.lastTap = TargetNone
		return []Event{{Kind: DoubleTap, Target: t}}
	}
	r.lastTap = t
	r.lastTapAt = now
	return []Event{{Kind: Tap, Target: t}}
}

// Poll reports LongPressStart once a press has been held long enough.
// The host calls it from its tick.
func (r *Recognizer) Poll(now time.Time) []Event {
	if r.pressed == TargetNone || r.longing {
		return nil
	}
	if now.Sub(r.pressedAt) < r.longPress {
		return nil
	}
	r.longing = true
	return []Event{{Kind: LongPressStart, Target: r.pressed}}
}

// Held returns the control currently pressed.
func (r *Recognizer) Held() Target {
	return r.pressed
}

// DragMotion reports a pointer position during a drag over the image.
// The first call anchors the drag.
func (r *Recognizer) DragMotion(x, y float64) Event {
	if !r.dragging {
		r.dragging = true
		r.dragFrom = boundary.Offset{X: x, Y: y}
	}
	return Event{
		Kind:        DragChanged,
		Translation: boundary.Offset{X: x - r.dragFrom.X, Y: y - r.dragFrom.Y},
	}
}

// DragRelease ends a drag. ok is false when no drag was active.
func (r *Recognizer) DragRelease() (Event, bool) {
	if !r.dragging {
		return Event{}, false
	}
	r.dragging = false
	return Event{Kind: DragEnded}, true
}
