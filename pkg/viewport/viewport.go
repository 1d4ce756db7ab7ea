// Package viewport owns the transform of the single displayed image: zoom
// scale, rotation and pan offset. Every input (ramp ticks, attitude
// samples, gestures, ingest results, entitlement updates) is applied through
// a Viewport method, and every committed change is announced to subscribers
// before the method returns.
//
// A Viewport is not safe for concurrent use. The host event loop is its
// single owner and serializes all calls.
package viewport

import (
	"log/slog"
	"math"
	"time"

	"gitlab.com/tinyland/lab/onehand/pkg/boundary"
	"gitlab.com/tinyland/lab/onehand/pkg/ingest"
	"gitlab.com/tinyland/lab/onehand/pkg/motion"
	"gitlab.com/tinyland/lab/onehand/pkg/ramp"
	"gitlab.com/tinyland/lab/onehand/pkg/tier"
)

// DefaultRotationStep is the angle applied by RotateStep, in degrees.
const DefaultRotationStep = 45

// maxRotationDelta bounds a single Rotate call.
const maxRotationDelta = 360

// Flags are the activity indicators the UI highlights controls with.
type Flags struct {
	Zooming        bool
	Rotating       bool
	MotionTracking bool
	Dragging       bool
}

// Snapshot is a read-only copy of the viewport state.
type Snapshot struct {
	HasImage bool
	AssetID  uint64
	// ImageSize is the native size of the picked image.
	ImageSize boundary.Size
	// WorkingSize is the size of the bitmap being displayed.
	WorkingSize boundary.Size
	Viewport    boundary.Size

	Scale    float64
	Rotation float64
	Offset   boundary.Offset

	MaxOffset     boundary.Offset
	DisplayedSize boundary.Size

	Flags
	InDeadZone  bool
	Compass     motion.Compass
	Orientation motion.Orientation
	Entitlement tier.Entitlement
}

// EventKind distinguishes notifications.
type EventKind int

const (
	// StateChanged follows every committed mutation.
	StateChanged EventKind = iota
	// UpsellRequested is emitted once per rejected attempt to reach a
	// locked tier.
	UpsellRequested
)

// Event is delivered to listeners.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	Upsell   tier.Upsell
}

// Listener receives events synchronously on the owner goroutine.
type Listener func(Event)

// Option configures a Viewport.
type Option func(*Viewport)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Viewport) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithZoomRamp replaces the continuous zoom ramp settings.
func WithZoomRamp(cfg ramp.Config) Option {
	return func(v *Viewport) { v.zoomRamp = ramp.New(cfg) }
}

// WithRotationRamp replaces the continuous rotation ramp settings.
func WithRotationRamp(cfg ramp.Config) Option {
	return func(v *Viewport) { v.rotationRamp = ramp.New(cfg) }
}

// WithRotationStep sets the angle used by RotateStep.
func WithRotationStep(deg float64) Option {
	return func(v *Viewport) {
		if deg > 0 {
			v.rotationStep = deg
		}
	}
}

// WithMotion replaces the mapper settings.
func WithMotion(cfg motion.Config) Option {
	return func(v *Viewport) { v.mapper = motion.NewMapper(cfg) }
}

// WithSampler replaces the attitude throttle and debounce.
func WithSampler(interval, debounce time.Duration) Option {
	return func(v *Viewport) { v.sampler = motion.NewSampler(interval, debounce) }
}

// WithSource sets the attitude sensor. Without one, motion tracking cannot
// be enabled.
func WithSource(s motion.Source) Option {
	return func(v *Viewport) { v.source = s }
}

// WithPipeline sets the ingest pipeline used by SelectImage.
func WithPipeline(p *ingest.Pipeline) Option {
	return func(v *Viewport) {
		if p != nil {
			v.pipeline = p
		}
	}
}

// WithCache attaches the render variant cache trimmed on memory pressure.
func WithCache(c *ingest.VariantCache) Option {
	return func(v *Viewport) { v.cache = c }
}

// WithEntitlement sets the initial entitlement.
func WithEntitlement(e tier.Entitlement) Option {
	return func(v *Viewport) { v.entitlement = e }
}

// WithViewportSize sets the initial viewport size.
func WithViewportSize(s boundary.Size) Option {
	return func(v *Viewport) { v.viewport = s }
}

type subscription struct {
	id int
	fn Listener
}

// Viewport is the transform orchestrator.
type Viewport struct {
	policy      *tier.Policy
	entitlement tier.Entitlement

	zoomRamp     *ramp.Ramp
	rotationRamp *ramp.Ramp
	rotationStep float64

	mapper  *motion.Mapper
	sampler *motion.Sampler
	source  motion.Source

	pipeline *ingest.Pipeline
	cache    *ingest.VariantCache

	asset      *ingest.Asset
	generation uint64
	viewport   boundary.Size

	scale    float64
	rotation float64
	offset   boundary.Offset

	motionEnabled    bool
	needsCalibration bool
	inDeadZone       bool
	compass          motion.Compass

	dragging  bool
	dragStart boundary.Offset

	listeners []subscription
	nextSub   int
	logger    *slog.Logger
}

// New returns a Viewport with no image at the policy's minimum scale.
func New(policy *tier.Policy, opts ...Option) *Viewport {
	if policy == nil {
		policy = tier.NewPolicy(tier.Preset(tier.VariantStandard))
	}
	v := &Viewport{
		policy:       policy,
		zoomRamp:     ramp.New(ramp.ZoomDefaults()),
		rotationRamp: ramp.New(ramp.RotationDefaults()),
		rotationStep: DefaultRotationStep,
		mapper:       motion.NewMapper(motion.DefaultConfig()),
		sampler:      motion.NewSampler(motion.DefaultSampleInterval, motion.DefaultDebounce),
		logger:       slog.Default(),
	}
	for _, o := range opts {
		o(v)
	}
	if v.pipeline == nil {
		v.pipeline = ingest.NewPipeline(ingest.WithLogger(v.logger))
	}
	v.scale = policy.MinScale()
	return v
}

// Policy returns the tier policy.
func (v *Viewport) Policy() *tier.Policy {
	return v.policy
}

// Subscribe registers l and returns a func that removes it.
func (v *Viewport) Subscribe(l Listener) (unsubscribe func()) {
	id := v.nextSub
	v.nextSub++
	v.listeners = append(v.listeners, subscription{id: id, fn: l})
	return func() {
		for i, s := range v.listeners {
			if s.id == id {
				v.listeners = append(v.listeners[:i], v.listeners[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns the current state.
func (v *Viewport) Snapshot() Snapshot {
	s := Snapshot{
		Viewport:    v.viewport,
		Scale:       v.scale,
		Rotation:    v.rotation,
		Offset:      v.offset,
		InDeadZone:  v.inDeadZone,
		Compass:     v.compass,
		Orientation: v.mapper.Orientation(),
		Entitlement: v.entitlement,
		Flags: Flags{
			Zooming:        v.zoomRamp.Running(),
			Rotating:       v.rotationRamp.Running(),
			MotionTracking: v.motionEnabled,
			Dragging:       v.dragging,
		},
	}
	if v.asset != nil {
		s.HasImage = true
		s.AssetID = v.asset.ID
		s.ImageSize = v.asset.NativeSize
		s.WorkingSize = v.asset.WorkingSize
		s.MaxOffset = v.maxOffset()
		d := boundary.DisplayedSize(v.asset.WorkingSize, v.viewport, v.scale)
		s.DisplayedSize = boundary.Size{W: math.Round(d.W), H: math.Round(d.H)}
	}
	return s
}

// Asset returns the current working image, or nil.
func (v *Viewport) Asset() *ingest.Asset {
	return v.asset
}

// SetViewportSize updates the on-screen rectangle and re-clamps the offset.
func (v *Viewport) SetViewportSize(s boundary.Size) {
	if s == v.viewport {
		return
	}
	v.viewport = s
	v.reclamp()
	v.notify()
}

// SetEntitlement merges a purchase result. If the current scale belongs to
// a tier that is no longer reachable, the scale drops to the highest
// reachable tier.
func (v *Viewport) SetEntitlement(e tier.Entitlement) {
	v.entitlement = e
	v.logger.Info("entitlement updated", "pro", e.IsPro, "extreme", e.HasExtremeZoom)
	if _, ok := v.policy.Check(v.scale, e); !ok {
		v.commitScale(v.policy.Ceiling(e).Multiplier, true)
	}
	v.notify()
}

// Entitlement returns the current entitlement.
func (v *Viewport) Entitlement() tier.Entitlement {
	return v.entitlement
}

// Tick advances the ramps by dt and applies at most one pending attitude
// sample. It is the single entry point of the host scheduler.
func (v *Viewport) Tick(dt time.Duration, now time.Time) {
	changed := false
	if v.tickZoom(dt.Seconds()) {
		changed = true
	}
	if v.tickRotation(dt.Seconds()) {
		changed = true
	}
	if v.motionEnabled {
		if a, ok := v.sampler.Poll(now); ok && v.applyAttitude(a) {
			changed = true
		}
	}
	if changed {
		v.notify()
	}
}

// Reset returns the transform to its initial state and stops every
// running input. The image is kept.
func (v *Viewport) Reset() {
	v.resetTransform()
	v.notify()
}

// ResetAll also discards the image and any in-flight ingest.
func (v *Viewport) ResetAll() {
	v.resetTransform()
	v.asset = nil
	v.generation++
	if v.cache != nil {
		v.cache.Invalidate()
	}
	v.logger.Debug("viewport cleared")
	v.notify()
}

// OnMemoryPressure drops every cached variant except those of the
// displayed image. The transform is unchanged.
func (v *Viewport) OnMemoryPressure() {
	if v.cache == nil {
		return
	}
	if v.asset == nil {
		v.cache.Invalidate()
	} else {
		v.cache.RetainOnly(v.asset.ID)
	}
	st := v.cache.Stats()
	v.logger.Warn("memory pressure, trimmed variant cache", "entries", st.Entries, "bytes", st.SizeBytes)
}

func (v *Viewport) resetTransform() {
	v.zoomRamp.Stop()
	v.rotationRamp.Stop()
	v.stopMotion()
	v.dragging = false
	v.dragStart = boundary.Offset{}
	v.scale = v.policy.MinScale()
	v.rotation = 0
	v.offset = boundary.Offset{}
}

func (v *Viewport) maxOffset() boundary.Offset {
	if v.asset == nil {
		return boundary.Offset{}
	}
	return boundary.MaxOffset(v.asset.WorkingSize, v.viewport, v.scale, v.rotation)
}

func (v *Viewport) reclamp() {
	v.offset = boundary.Clamp(v.offset, v.maxOffset())
}

func (v *Viewport) frame() motion.Frame {
	f := motion.Frame{Scale: v.scale, Rotation: v.rotation, Viewport: v.viewport}
	if v.asset != nil {
		f.Image = v.asset.WorkingSize
	}
	return f
}

func (v *Viewport) notify() {
	if len(v.listeners) == 0 {
		return
	}
	ev := Event{Kind: StateChanged, Snapshot: v.Snapshot()}
	v.dispatch(ev)
}

func (v *Viewport) emitUpsell(u tier.Upsell) {
	v.logger.Debug("locked tier requested", "tier", u.Tier.String(), "upsell", u.Kind.String())
	if len(v.listeners) == 0 {
		return
	}
	ev := Event{Kind: UpsellRequested, Snapshot: v.Snapshot(), Upsell: u}
	v.dispatch(ev)
}

func (v *Viewport) dispatch(ev Event) {
	for _, s := range v.listeners {
		s.fn(ev)
	}
}
