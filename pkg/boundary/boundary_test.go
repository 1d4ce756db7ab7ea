package boundary

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// --- MaxOffset scenarios ----------------------------------------------------

func TestMaxOffsetPortraitImageExactFit(t *testing.T) {
	img := Size{W: 800, H: 1200}
	vp := Size{W: 400, H: 800}

	got := MaxOffset(img, vp, 1.0, 0)
	if diff := cmp.Diff(Offset{}, got, approx); diff != "" {
		t.Errorf("scale 1.0 max offset mismatch (-want +got):\n%s", diff)
	}

	zoomed := MaxOffset(img, vp, 2.0, 0)
	if zoomed.Y <= 0 {
		t.Errorf("expected maxOffset.y > 0 at scale 2, got %v", zoomed.Y)
	}
	// Fit box is 400x600, doubled to 800x1200.
	if diff := cmp.Diff(Offset{X: 200, Y: 200}, zoomed, approx); diff != "" {
		t.Errorf("scale 2.0 max offset mismatch (-want +got):\n%s", diff)
	}
}

func TestMaxOffsetNoImage(t *testing.T) {
	got := MaxOffset(Size{}, Size{W: 400, H: 800}, 3, 0)
	if !got.IsZero() {
		t.Errorf("expected zero offset without an image, got %+v", got)
	}
}

func TestMaxOffsetEmptyViewport(t *testing.T) {
	got := MaxOffset(Size{W: 100, H: 100}, Size{}, 3, 0)
	if !got.IsZero() {
		t.Errorf("expected zero offset for empty viewport, got %+v", got)
	}
}

func TestMaxOffsetSmallImageAtMinScale(t *testing.T) {
	// Fit scaling enlarges small images, so they still never exceed the
	// viewport at scale 1.
	for _, img := range []Size{{50, 50}, {100, 100}, {200, 200}} {
		got := MaxOffset(img, Size{W: 390, H: 844}, 1, 0)
		if !got.IsZero() {
			t.Errorf("image %v: expected zero offset at scale 1, got %+v", img, got)
		}
	}
}

func TestMaxOffsetGrowsWithScale(t *testing.T) {
	img := Size{W: 1200, H: 800}
	vp := Size{W: 390, H: 844}
	prev := MaxOffset(img, vp, 1, 0)
	for s := 1.5; s <= 10; s += 0.5 {
		cur := MaxOffset(img, vp, s, 0)
		if cur.X < prev.X || cur.Y < prev.Y {
			t.Fatalf("max offset shrank from %+v to %+v at scale %v", prev, cur, s)
		}
		prev = cur
	}
}

// --- rotation axis swap -----------------------------------------------------

func TestMaxOffsetRotationSwap(t *testing.T) {
	img := Size{W: 800, H: 1200}
	vp := Size{W: 400, H: 800}
	base := MaxOffset(img, vp, 3, 0)
	// 1200x1800 shown in 400x800: slack 400, 500.
	if diff := cmp.Diff(Offset{X: 400, Y: 500}, base, approx); diff != "" {
		t.Fatalf("unrotated slack mismatch (-want +got):\n%s", diff)
	}
	swapped := Offset{X: base.Y, Y: base.X}

	tests := []struct {
		rotation float64
		want     Offset
	}{
		{0, base},
		{45, base},
		{89.9, base},
		{90, swapped},
		{135, swapped},
		{180, swapped},
		{269.9, swapped},
		{270, base},
		{315, base},
		{360, base},
		{450, swapped},
		{-90, swapped},
		{-270, base},
		{720, base},
	}
	for _, tt := range tests {
		got := MaxOffset(img, vp, 3, tt.rotation)
		if diff := cmp.Diff(tt.want, got, approx); diff != "" {
			t.Errorf("rotation %v: mismatch (-want +got):\n%s", tt.rotation, diff)
		}
	}
}

func TestAxesSwappedMatchesNormalizedRange(t *testing.T) {
	for r := -720.0; r <= 720; r += 15 {
		n := NormalizeRotation(r)
		want := n >= 90 && n < 270
		if AxesSwapped(r) != want {
			t.Errorf("rotation %v (normalized %v): expected swapped=%v", r, n, want)
		}
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		45:   45,
		360:  0,
		405:  45,
		-45:  45,
		-720: 0,
	}
	for in, want := range tests {
		if got := NormalizeRotation(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("NormalizeRotation(%v): expected %v, got %v", in, want, got)
		}
	}
	if got := NormalizeRotation(math.Inf(1)); got != 0 {
		t.Errorf("expected 0 for +Inf, got %v", got)
	}
}

// --- Clamp ------------------------------------------------------------------

func TestClampPerAxisIndependent(t *testing.T) {
	max := Offset{X: 100, Y: 10}
	got := Clamp(Offset{X: 50, Y: 40}, max)
	// Only y is limited; x keeps its value rather than being rescaled.
	if diff := cmp.Diff(Offset{X: 50, Y: 10}, got); diff != "" {
		t.Errorf("clamp mismatch (-want +got):\n%s", diff)
	}
	got = Clamp(Offset{X: -500, Y: -3}, max)
	if diff := cmp.Diff(Offset{X: -100, Y: -3}, got); diff != "" {
		t.Errorf("clamp mismatch (-want +got):\n%s", diff)
	}
}

func TestClampZeroRange(t *testing.T) {
	got := Clamp(Offset{X: 12, Y: -7}, Offset{})
	if !got.IsZero() {
		t.Errorf("expected zero with zero-width range, got %+v", got)
	}
}

func TestClampNaN(t *testing.T) {
	got := Clamp(Offset{X: math.NaN(), Y: 5}, Offset{X: 10, Y: 10})
	if got.X != 0 || got.Y != 5 {
		t.Errorf("expected NaN axis to reset to 0, got %+v", got)
	}
}

func TestClamped(t *testing.T) {
	if Clamped(Offset{X: 1, Y: 1}, Offset{X: 2, Y: 2}) {
		t.Error("in-range offset reported as clamped")
	}
	if !Clamped(Offset{X: 3, Y: 1}, Offset{X: 2, Y: 2}) {
		t.Error("out-of-range offset not reported as clamped")
	}
}

func TestDisplayedSize(t *testing.T) {
	got := DisplayedSize(Size{W: 800, H: 600}, Size{W: 800, H: 600}, 2)
	if diff := cmp.Diff(Size{W: 1600, H: 1200}, got, approx); diff != "" {
		t.Errorf("displayed size mismatch (-want +got):\n%s", diff)
	}
}
