package viewport

import (
	"math"

	"gitlab.com/tinyland/lab/onehand/pkg/tier"
)

// SetZoom jumps to tier t. A locked tier leaves the state unchanged and
// raises one upsell. The offset is rescaled by the scale ratio so the same
// region stays near the center. It reports whether the scale was committed.
func (v *Viewport) SetZoom(t tier.Tier) bool {
	if v.asset == nil {
		return false
	}
	known, ok := v.policy.Lookup(t.Multiplier)
	if !ok {
		return v.SetScale(t.Multiplier)
	}
	if !v.policy.IsTierReachable(known, v.entitlement) {
		v.emitUpsell(tier.Upsell{Kind: upsellKind(known), Tier: known})
		return false
	}
	v.commitScale(known.Multiplier, true)
	v.notify()
	return true
}

// SetScale sets an arbitrary scale, clamped into [MinScale, MaxScale]. A
// value whose nearest tier is locked is rejected with one upsell.
func (v *Viewport) SetScale(s float64) bool {
	if v.asset == nil || math.IsNaN(s) {
		return false
	}
	s = v.clampScale(s)
	if u, ok := v.policy.Check(s, v.entitlement); !ok {
		v.emitUpsell(u)
		return false
	}
	v.commitScale(s, true)
	v.notify()
	return true
}

// StepZoom moves to the next tier in dir. Stepping into a locked tier
// raises one upsell instead.
func (v *Viewport) StepZoom(dir tier.Direction) bool {
	if v.asset == nil {
		return false
	}
	next, upsell, ok := v.policy.NextReachableTier(v.scale, dir, v.entitlement)
	if !ok {
		return false
	}
	if upsell != nil {
		v.emitUpsell(*upsell)
		return false
	}
	v.commitScale(next.Multiplier, true)
	v.notify()
	return true
}

// ZoomToMax jumps to the highest tier reachable with the current
// entitlement.
func (v *Viewport) ZoomToMax() bool {
	return v.SetZoom(v.policy.Ceiling(v.entitlement))
}

// ZoomToMin jumps back to the minimum scale.
func (v *Viewport) ZoomToMin() bool {
	if v.asset == nil {
		return false
	}
	v.commitScale(v.policy.MinScale(), true)
	v.notify()
	return true
}

// StartContinuousZoom begins a press-and-hold zoom in dir.
func (v *Viewport) StartContinuousZoom(dir tier.Direction) {
	if v.asset == nil {
		return
	}
	v.zoomRamp.Start(int(dir.Sign()))
	v.notify()
}

// StopZoom ends a continuous zoom. No further ticks change the scale.
func (v *Viewport) StopZoom() {
	if !v.zoomRamp.Running() {
		return
	}
	v.zoomRamp.Stop()
	v.notify()
}

// tickZoom applies one ramp step. A candidate in a locked tier stops the
// ramp at the last committed value and raises one upsell.
func (v *Viewport) tickZoom(dt float64) bool {
	if !v.zoomRamp.Running() {
		return false
	}
	if v.asset == nil {
		v.zoomRamp.Stop()
		return true
	}
	d := v.zoomRamp.Tick(dt)
	if d == 0 {
		return false
	}
	candidate := v.clampScale(v.scale + d)
	if u, ok := v.policy.Check(candidate, v.entitlement); !ok {
		v.zoomRamp.Stop()
		v.emitUpsell(u)
		return true
	}
	if candidate == v.scale {
		return false
	}
	v.commitScale(candidate, false)
	return true
}

// commitScale sets the scale and re-clamps the offset. With proportional
// set, the offset is first multiplied by new/old scale.
func (v *Viewport) commitScale(s float64, proportional bool) {
	old := v.scale
	v.scale = v.clampScale(s)
	if proportional && old > 0 {
		v.offset = v.offset.Scale(v.scale / old)
	}
	v.reclamp()
}

func (v *Viewport) clampScale(s float64) float64 {
	return math.Max(v.policy.MinScale(), math.Min(v.policy.MaxScale(), s))
}

func upsellKind(t tier.Tier) tier.UpsellKind {
	if t.Requirement == tier.ExtremeRequired {
		return tier.UpsellExtreme
	}
	return tier.UpsellPro
}
