// Package boundary computes how far a displayed image may be panned before
// one of its edges would come into view.
//
// The image is laid out with "fit" scaling inside the viewport and then
// multiplied by the user's zoom scale. Rotation is applied visually by the
// renderer, but the pan coordinate system stays unrotated, so the x and y
// limits exchange roles when the image is turned sideways.
package boundary

import "math"

// Size is a width/height pair in points.
type Size struct {
	W float64
	H float64
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// LongEdge returns the larger of the two dimensions.
func (s Size) LongEdge() float64 {
	return math.Max(s.W, s.H)
}

// Offset is a pan translation from the centered position.
type Offset struct {
	X float64
	Y float64
}

// Add returns o translated by d.
func (o Offset) Add(d Offset) Offset {
	return Offset{X: o.X + d.X, Y: o.Y + d.Y}
}

// Scale returns o multiplied by f on both axes.
func (o Offset) Scale(f float64) Offset {
	return Offset{X: o.X * f, Y: o.Y * f}
}

// IsZero reports whether o is the centered position.
func (o Offset) IsZero() bool {
	return o.X == 0 && o.Y == 0
}

// FitSize returns the size of img when scaled uniformly to fit entirely
// inside viewport. An empty image or viewport yields the zero Size.
func FitSize(img, viewport Size) Size {
	if img.Empty() || viewport.Empty() {
		return Size{}
	}
	fit := math.Min(viewport.W/img.W, viewport.H/img.H)
	return Size{W: img.W * fit, H: img.H * fit}
}

// DisplayedSize returns the on-screen size of img at the given zoom scale,
// before rotation.
func DisplayedSize(img, viewport Size, scale float64) Size {
	fit := FitSize(img, viewport)
	return Size{W: fit.W * scale, H: fit.H * scale}
}

// NormalizeRotation maps an unbounded rotation accumulator onto [0, 360)
// using the absolute value, so -90 and 90 normalize alike.
func NormalizeRotation(degrees float64) float64 {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return 0
	}
	return math.Mod(math.Abs(degrees), 360)
}

// AxesSwapped reports whether the displayed width and height have exchanged
// roles at the given rotation: normalized rotation in [90, 270).
func AxesSwapped(degrees float64) bool {
	n := NormalizeRotation(degrees)
	return n >= 90 && n < 270
}

// MaxOffset returns the largest allowed |offset| on each axis. It never
// fails: an empty image or viewport yields {0, 0}.
//
// Odd angles such as 45 degrees use the unrotated fit box; this is not a
// true rotated bounding box.
func MaxOffset(img, viewport Size, scale, rotationDegrees float64) Offset {
	if img.Empty() || viewport.Empty() || scale <= 0 {
		return Offset{}
	}
	shown := DisplayedSize(img, viewport, scale)
	slack := Offset{
		X: math.Max((shown.W-viewport.W)/2, 0),
		Y: math.Max((shown.H-viewport.H)/2, 0),
	}
	if AxesSwapped(rotationDegrees) {
		slack.X, slack.Y = slack.Y, slack.X
	}
	return slack
}

// Clamp limits each axis of o to [-max, +max] independently.
func Clamp(o, max Offset) Offset {
	return Offset{
		X: clampAxis(o.X, max.X),
		Y: clampAxis(o.Y, max.Y),
	}
}

// Clamped reports whether Clamp(o, max) would change o.
func Clamped(o, max Offset) bool {
	return Clamp(o, max) != o
}

func clampAxis(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if limit <= 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
