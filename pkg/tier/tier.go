// Package tier decides which discrete zoom multipliers a user may reach
// given their purchased entitlements, and which upsell to raise when a
// locked multiplier is requested.
package tier

import (
	"fmt"
	"math"
	"sort"
)

// Requirement is the entitlement a tier needs.
type Requirement int

const (
	Free Requirement = iota
	ProRequired
	ExtremeRequired
)

// String returns the requirement name.
func (r Requirement) String() string {
	switch r {
	case Free:
		return "free"
	case ProRequired:
		return "pro"
	case ExtremeRequired:
		return "extreme"
	default:
		return fmt.Sprintf("requirement(%d)", int(r))
	}
}

// Tier is a named zoom multiplier.
type Tier struct {
	Multiplier  float64
	Requirement Requirement
}

// String formats the tier as "6x".
func (t Tier) String() string {
	return fmt.Sprintf("%gx", t.Multiplier)
}

// Entitlement is the set of purchased capabilities. It is supplied by the
// purchase collaborator and treated as read-only by the engine.
type Entitlement struct {
	IsPro          bool
	HasExtremeZoom bool
}

// UpsellKind identifies which purchase prompt the UI should present.
type UpsellKind int

const (
	UpsellPro UpsellKind = iota + 1
	UpsellExtreme
)

// String returns "pro" or "extreme".
func (k UpsellKind) String() string {
	switch k {
	case UpsellPro:
		return "pro"
	case UpsellExtreme:
		return "extreme"
	default:
		return "none"
	}
}

// Upsell is raised instead of a scale change when the requested tier is
// locked.
type Upsell struct {
	Kind UpsellKind
	Tier Tier
}

// Direction selects zoom-in (+1) or zoom-out (-1).
type Direction int

const (
	In  Direction = 1
	Out Direction = -1
)

// Sign returns +1 or -1.
func (d Direction) Sign() float64 {
	if d < 0 {
		return -1
	}
	return 1
}

// tierEpsilon absorbs float noise when matching a scale to a tier.
const tierEpsilon = 1e-6

// Policy holds the ordered tier table of one product variant.
type Policy struct {
	tiers []Tier

	// ExtremeImpliesPro makes an extreme-zoom purchase unlock pro tiers too.
	// Off by default: the two products are sold separately and the engine
	// does not assume one includes the other.
	ExtremeImpliesPro bool
}

// NewPolicy builds a policy from tiers, sorted by multiplier. Duplicate
// multipliers keep the first occurrence.
func NewPolicy(tiers []Tier) *Policy {
	sorted := make([]Tier, 0, len(tiers))
	seen := make(map[float64]bool, len(tiers))
	for _, t := range tiers {
		if t.Multiplier <= 0 || seen[t.Multiplier] {
			continue
		}
		seen[t.Multiplier] = true
		sorted = append(sorted, t)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Multiplier < sorted[j].Multiplier
	})
	return &Policy{tiers: sorted}
}

// Tiers returns a copy of the ordered tier table.
func (p *Policy) Tiers() []Tier {
	out := make([]Tier, len(p.tiers))
	copy(out, p.tiers)
	return out
}

// MinScale is the lowest tier multiplier (1 when the table is empty).
func (p *Policy) MinScale() float64 {
	if len(p.tiers) == 0 {
		return 1
	}
	return p.tiers[0].Multiplier
}

// MaxScale is the highest tier multiplier (1 when the table is empty).
func (p *Policy) MaxScale() float64 {
	if len(p.tiers) == 0 {
		return 1
	}
	return p.tiers[len(p.tiers)-1].Multiplier
}

// IsTierReachable reports whether t is unlocked for ent.
func (p *Policy) IsTierReachable(t Tier, ent Entitlement) bool {
	switch t.Requirement {
	case Free:
		return true
	case ProRequired:
		return ent.IsPro || (p.ExtremeImpliesPro && ent.HasExtremeZoom)
	case ExtremeRequired:
		return ent.HasExtremeZoom
	default:
		return false
	}
}

// Lookup returns the tier whose multiplier equals m.
func (p *Policy) Lookup(m float64) (Tier, bool) {
	for _, t := range p.tiers {
		if math.Abs(t.Multiplier-m) < tierEpsilon {
			return t, true
		}
	}
	return Tier{}, false
}

// NearestTier returns the tier closest to scale. Ties go to the lower tier.
func (p *Policy) NearestTier(scale float64) (Tier, bool) {
	if len(p.tiers) == 0 {
		return Tier{}, false
	}
	best := p.tiers[0]
	bestDist := math.Abs(scale - best.Multiplier)
	for _, t := range p.tiers[1:] {
		d := math.Abs(scale - t.Multiplier)
		if d < bestDist-tierEpsilon {
			best, bestDist = t, d
		}
	}
	return best, true
}

// Check reports whether scale may be committed for ent. When the nearest
// tier is locked the returned Upsell names the purchase that unlocks it.
func (p *Policy) Check(scale float64, ent Entitlement) (Upsell, bool) {
	t, ok := p.NearestTier(scale)
	if !ok || p.IsTierReachable(t, ent) {
		return Upsell{}, true
	}
	return p.upsellFor(t), false
}

// NextReachableTier returns the next tier strictly beyond currentScale in
// dir. If that tier is locked an Upsell is returned instead. ok is false
// when there is no further tier in that direction.
func (p *Policy) NextReachableTier(currentScale float64, dir Direction, ent Entitlement) (next Tier, upsell *Upsell, ok bool) {
	t, found := p.neighbor(currentScale, dir)
	if !found {
		return Tier{}, nil, false
	}
	if !p.IsTierReachable(t, ent) {
		u := p.upsellFor(t)
		return Tier{}, &u, true
	}
	return t, nil, true
}

// Ceiling returns the highest reachable tier reachable from the bottom of
// the table without crossing a locked tier.
func (p *Policy) Ceiling(ent Entitlement) Tier {
	if len(p.tiers) == 0 {
		return Tier{Multiplier: 1}
	}
	top := p.tiers[0]
	for _, t := range p.tiers {
		if !p.IsTierReachable(t, ent) {
			break
		}
		top = t
	}
	return top
}

func (p *Policy) neighbor(scale float64, dir Direction) (Tier, bool) {
	if dir >= 0 {
		for _, t := range p.tiers {
			if t.Multiplier > scale+tierEpsilon {
				return t, true
			}
		}
		return Tier{}, false
	}
	for i := len(p.tiers) - 1; i >= 0; i-- {
		if p.tiers[i].Multiplier < scale-tierEpsilon {
			return p.tiers[i], true
		}
	}
	return Tier{}, false
}

func (p *Policy) upsellFor(t Tier) Upsell {
	kind := UpsellPro
	if t.Requirement == ExtremeRequired {
		kind = UpsellExtreme
	}
	return Upsell{Kind: kind, Tier: t}
}
