package gesture

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gitlab.com/tinyland/lab/onehand/pkg/boundary"
	"gitlab.com/tinyland/lab/onehand/pkg/tier"
)

// --- helpers ---------------------------------------------------------------

// fakeController records the calls it receives.
type fakeController struct {
	calls []string
	drag  boundary.Offset
}

func (f *fakeController) record(s string) { f.calls = append(f.calls, s) }

func (f *fakeController) StepZoom(dir tier.Direction) bool {
	if dir == tier.In {
		f.record("step-in")
	} else {
		f.record("step-out")
	}
	return true
}
func (f *fakeController) ZoomToMax() bool { f.record("max"); return true }
func (f *fakeController) ZoomToMin() bool { f.record("min"); return true }
func (f *fakeController) StartContinuousZoom(dir tier.Direction) {
	if dir == tier.In {
		f.record("zoom-in-start")
	} else {
		f.record("zoom-out-start")
	}
}
func (f *fakeController) StopZoom() { f.record("zoom-stop") }
func (f *fakeController) RotateStep(dir int) {
	if dir > 0 {
		f.record("rotate-cw")
	} else {
		f.record("rotate-ccw")
	}
}
func (f *fakeController) StartContinuousRotation(dir int) {
	if dir > 0 {
		f.record("spin-cw-start")
	} else {
		f.record("spin-ccw-start")
	}
}
func (f *fakeController) StopRotation() { f.record("spin-stop") }
func (f *fakeController) Reset() { f.record("reset") }
func (f *fakeController) ToggleMotionTracking() bool { f.record("motion"); return true }
func (f *fakeController) Recalibrate() { f.record("recalibrate") }
func (f *fakeController) DragChanged(o boundary.Offset) {
	f.record("drag")
	f.drag = o
}
func (f *fakeController) DragEnded() { f.record("drag-end") }

func newRouter() (*Router, *fakeController) {
	f := &fakeController{}
	return NewRouter(f, slog.New(slog.NewTextHandler(io.Discard, nil))), f
}

// --- Router ----------------------------------------------------------------

func TestRouterDispatch(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Kind: Tap, Target: ZoomIn}, "step-in"},
		{Event{Kind: Tap, Target: ZoomOut}, "step-out"},
		{Event{Kind: Tap, Target: RotateCW}, "rotate-cw"},
		{Event{Kind: Tap, Target: RotateCCW}, "rotate-ccw"},
		{Event{Kind: Tap, Target: Reset}, "reset"},
		{Event{Kind: Tap, Target: MotionToggle}, "motion"},
		{Event{Kind: DoubleTap, Target: ZoomIn}, "max"},
		{Event{Kind: DoubleTap, Target: ZoomOut}, "min"},
		{Event{Kind: DoubleTap, Target: MotionToggle}, "recalibrate"},
		{Event{Kind: DoubleTap, Target: RotateCW}, "rotate-cw"},
		{Event{Kind: LongPressStart, Target: ZoomIn}, "zoom-in-start"},
		{Event{Kind: LongPressStart, Target: ZoomOut}, "zoom-out-start"},
		{Event{Kind: LongPressStart, Target: RotateCW}, "spin-cw-start"},
		{Event{Kind: LongPressStart, Target: RotateCCW}, "spin-ccw-start"},
		{Event{Kind: LongPressEnd, Target: ZoomOut}, "zoom-stop"},
		{Event{Kind: LongPressEnd, Target: RotateCCW}, "spin-stop"},
		{Event{Kind: DragEnded}, "drag-end"},
	}
	for _, tt := range tests {
		r, f := newRouter()
		r.Handle(tt.ev)
		if len(f.calls) != 1 || f.calls[0] != tt.want {
			t.Errorf("%s %s: expected [%s], got %v", tt.ev.Kind, tt.ev.Target, tt.want, f.calls)
		}
	}
}

func TestRouterIgnoresUnboundGestures(t *testing.T) {
	r, f := newRouter()
	r.Handle(Event{Kind: LongPressStart, Target: Reset})
	r.Handle(Event{Kind: LongPressEnd, Target: MotionToggle})
	r.Handle(Event{Kind: Tap, Target: TargetNone})
	if len(f.calls) != 0 {
		t.Errorf("expected no calls, got %v", f.calls)
	}
}

func TestRouterDragTranslation(t *testing.T) {
	r, f := newRouter()
	r.Handle(Event{Kind: DragChanged, Translation: boundary.Offset{X: 3, Y: -4}})
	if f.drag != (boundary.Offset{X: 3, Y: -4}) {
		t.Errorf("expected translation {3 -4}, got %+v", f.drag)
	}
}

// --- Recognizer ------------------------------------------------------------

func TestRecognizerTapAndDoubleTap(t *testing.T) {
	r := NewRecognizer(0, 0)
	t0 := time.Unix(0, 0)

	r.Press(ZoomIn, t0)
	got := r.Release(t0.Add(50 * time.Millisecond))
	got = append(got, r.Press(ZoomIn, t0.Add(100*time.Millisecond))...)
	got = append(got, r.Release(t0.Add(150*time.Millisecond))...)

	want := []Event{{Kind: Tap, Target: ZoomIn}, {Kind: DoubleTap, Target: ZoomIn}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestRecognizerSlowSecondTapIsTap(t *testing.T) {
	r := NewRecognizer(0, 0)
	t0 := time.Unix(0, 0)
	r.Press(ZoomOut, t0)
	r.Release(t0.Add(10 * time.Millisecond))
	r.Press(ZoomOut, t0.Add(time.Second))
	got := r.Release(t0.Add(time.Second + 10*time.Millisecond))
	if len(got) != 1 || got[0].Kind != Tap {
		t.Errorf("expected a plain tap, got %+v", got)
	}
}

func TestRecognizerDifferentTargetsAreTaps(t *testing.T) {
	r := NewRecognizer(0, 0)
	t0 := time.Unix(0, 0)
	r.Press(ZoomIn, t0)
	r.Release(t0.Add(10 * time.Millisecond))
	r.Press(ZoomOut, t0.Add(20*time.Millisecond))
	got := r.Release(t0.Add(30 * time.Millisecond))
	if len(got) != 1 || got[0] != (Event{Kind: Tap, Target: ZoomOut}) {
		t.Errorf("expected tap on zoom-out, got %+v", got)
	}
}

func TestRecognizerLongPress(t *testing.T) {
	r := NewRecognizer(300*time.Millisecond, 0)
	t0 := time.Unix(0, 0)
	r.Press(RotateCW, t0)

	if ev := r.Poll(t0.Add(100 * time.Millisecond)); len(ev) != 0 {
		t.Fatalf("long press reported early: %+v", ev)
	}
	ev := r.Poll(t0.Add(300 * time.Millisecond))
	if len(ev) != 1 || ev[0] != (Event{Kind: LongPressStart, Target: RotateCW}) {
		t.Fatalf("expected long-press-start, got %+v", ev)
	}
	if ev := r.Poll(t0.Add(400 * time.Millisecond)); len(ev) != 0 {
		t.Errorf("long-press-start must fire once, got %+v", ev)
	}
	ev = r.Release(t0.Add(time.Second))
	if len(ev) != 1 || ev[0] != (Event{Kind: LongPressEnd, Target: RotateCW}) {
		t.Errorf("expected long-press-end, got %+v", ev)
	}
	if r.Held() != TargetNone {
		t.Error("expected nothing held after release")
	}
}

func TestRecognizerPressWhileHeldReleasesFirst(t *testing.T) {
	r := NewRecognizer(0, 0)
	t0 := time.Unix(0, 0)
	r.Press(ZoomIn, t0)
	got := r.Press(Reset, t0.Add(10*time.Millisecond))
	if len(got) != 1 || got[0].Target != ZoomIn {
		t.Errorf("expected the earlier press to resolve, got %+v", got)
	}
	if r.Held() != Reset {
		t.Errorf("expected reset held, got %s", r.Held())
	}
}

func TestRecognizerReleaseWithoutPress(t *testing.T) {
	r := NewRecognizer(0, 0)
	if ev := r.Release(time.Unix(0, 0)); ev != nil {
		t.Errorf("expected nil, got %+v", ev)
	}
}

func TestRecognizerDrag(t *testing.T) {
	r := NewRecognizer(0, 0)
	r.DragMotion(10, 10)
	ev := r.DragMotion(14, 7)
	if ev.Kind != DragChanged || ev.Translation != (boundary.Offset{X: 4, Y: -3}) {
		t.Errorf("unexpected drag event %+v", ev)
	}
	if _, ok := r.DragRelease(); !ok {
		t.Error("expected drag end")
	}
	if _, ok := r.DragRelease(); ok {
		t.Error("second release should report no drag")
	}
}

func TestTargetString(t *testing.T) {
	for _, target := range Targets() {
		if strings.HasPrefix(target.String(), "target(") {
			t.Errorf("missing name for %d", int(target))
		}
	}
	if got := Target(99).String(); got != "target(99)" {
		t.Errorf("expected target(99), got %q", got)
	}
}
