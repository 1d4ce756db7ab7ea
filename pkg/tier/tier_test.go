package tier

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	free    = Entitlement{}
	pro     = Entitlement{IsPro: true}
	extreme = Entitlement{IsPro: true, HasExtremeZoom: true}
	// extremeOnly is representable: the two purchases are independent.
	extremeOnly = Entitlement{HasExtremeZoom: true}
)

func newExtremePolicy() *Policy {
	return NewPolicy(Preset(VariantExtreme))
}

// --- reachability -----------------------------------------------------------

func TestIsTierReachable(t *testing.T) {
	p := newExtremePolicy()
	tests := []struct {
		name string
		m    float64
		ent  Entitlement
		want bool
	}{
		{"free tier free user", 5, free, true},
		{"pro tier free user", 6, free, false},
		{"pro tier pro user", 10, pro, true},
		{"extreme tier pro user", 15, pro, false},
		{"extreme tier extreme user", 20, extreme, true},
		{"pro tier extreme-only user", 6, extremeOnly, false},
		{"extreme tier extreme-only user", 15, extremeOnly, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, ok := p.Lookup(tt.m)
			if !ok {
				t.Fatalf("tier %v not found", tt.m)
			}
			if got := p.IsTierReachable(tier, tt.ent); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExtremeImpliesProOption(t *testing.T) {
	p := newExtremePolicy()
	six, _ := p.Lookup(6)
	if p.IsTierReachable(six, extremeOnly) {
		t.Fatal("extreme must not imply pro by default")
	}
	p.ExtremeImpliesPro = true
	if !p.IsTierReachable(six, extremeOnly) {
		t.Error("expected pro tier reachable when ExtremeImpliesPro is set")
	}
}

// --- Check ------------------------------------------------------------------

func TestCheckFreeUserRequestsSix(t *testing.T) {
	p := newExtremePolicy()
	u, ok := p.Check(6, free)
	if ok {
		t.Fatal("expected 6x to be rejected for a free user")
	}
	if u.Kind != UpsellPro {
		t.Errorf("expected pro upsell, got %s", u.Kind)
	}
}

func TestCheckProUserRequestsFifteen(t *testing.T) {
	p := newExtremePolicy()
	u, ok := p.Check(15, pro)
	if ok {
		t.Fatal("expected 15x to be rejected without extreme zoom")
	}
	if u.Kind != UpsellExtreme {
		t.Errorf("expected extreme upsell, got %s", u.Kind)
	}
}

func TestCheckUsesNearestTier(t *testing.T) {
	p := newExtremePolicy()
	if _, ok := p.Check(5.4, free); !ok {
		t.Error("5.4 is nearest 5x and should be allowed")
	}
	if _, ok := p.Check(5.5, free); !ok {
		t.Error("5.5 ties between 5x and 6x and should resolve to the lower tier")
	}
	if _, ok := p.Check(5.6, free); ok {
		t.Error("5.6 is nearest 6x and should be rejected")
	}
}

func TestNearestTier(t *testing.T) {
	p := newExtremePolicy()
	tests := map[float64]float64{
		0.2:  1,
		1.49: 1,
		7.7:  8,
		12.4: 10,
		12.6: 15,
		99:   20,
	}
	for scale, want := range tests {
		got, ok := p.NearestTier(scale)
		if !ok || got.Multiplier != want {
			t.Errorf("NearestTier(%v): expected %v, got %v", scale, want, got.Multiplier)
		}
	}
}

// --- NextReachableTier ------------------------------------------------------

func TestNextReachableTierSteps(t *testing.T) {
	p := newExtremePolicy()
	next, u, ok := p.NextReachableTier(1, In, free)
	if !ok || u != nil || next.Multiplier != 2 {
		t.Fatalf("expected 2x, got %v upsell=%v ok=%v", next, u, ok)
	}
	next, u, ok = p.NextReachableTier(3.4, Out, free)
	if !ok || u != nil || next.Multiplier != 3 {
		t.Fatalf("expected 3x, got %v upsell=%v ok=%v", next, u, ok)
	}
}

func TestNextReachableTierLocked(t *testing.T) {
	p := newExtremePolicy()
	_, u, ok := p.NextReachableTier(5, In, free)
	if !ok || u == nil {
		t.Fatal("expected an upsell when stepping into 6x")
	}
	want := Upsell{Kind: UpsellPro, Tier: Tier{Multiplier: 6, Requirement: ProRequired}}
	if diff := cmp.Diff(want, *u); diff != "" {
		t.Errorf("upsell mismatch (-want +got):\n%s", diff)
	}

	_, u, ok = p.NextReachableTier(10, In, pro)
	if !ok || u == nil || u.Kind != UpsellExtreme {
		t.Errorf("expected extreme upsell from 10x, got %v", u)
	}
}

func TestNextReachableTierAtEnds(t *testing.T) {
	p := newExtremePolicy()
	if _, _, ok := p.NextReachableTier(20, In, extreme); ok {
		t.Error("expected no tier above 20x")
	}
	if _, _, ok := p.NextReachableTier(1, Out, extreme); ok {
		t.Error("expected no tier below 1x")
	}
}

// --- Ceiling / presets ------------------------------------------------------

func TestCeiling(t *testing.T) {
	p := newExtremePolicy()
	tests := []struct {
		ent  Entitlement
		want float64
	}{
		{free, 5},
		{pro, 10},
		{extreme, 20},
		{extremeOnly, 5},
	}
	for _, tt := range tests {
		if got := p.Ceiling(tt.ent).Multiplier; got != tt.want {
			t.Errorf("ceiling for %+v: expected %v, got %v", tt.ent, tt.want, got)
		}
	}
}

func TestPresetBounds(t *testing.T) {
	std := NewPolicy(Preset(VariantStandard))
	if std.MinScale() != 1 || std.MaxScale() != 10 {
		t.Errorf("standard: expected [1, 10], got [%v, %v]", std.MinScale(), std.MaxScale())
	}
	ext := newExtremePolicy()
	if ext.MaxScale() != 20 {
		t.Errorf("extreme: expected max 20, got %v", ext.MaxScale())
	}
	unknown := NewPolicy(Preset("bogus"))
	if unknown.MaxScale() != 10 {
		t.Errorf("unknown variant should fall back to standard, got max %v", unknown.MaxScale())
	}
}

func TestNewPolicySortsAndDedupes(t *testing.T) {
	p := NewPolicy([]Tier{
		{Multiplier: 3},
		{Multiplier: 1},
		{Multiplier: 3, Requirement: ProRequired},
		{Multiplier: -2},
	})
	want := []Tier{{Multiplier: 1}, {Multiplier: 3}}
	if diff := cmp.Diff(want, p.Tiers()); diff != "" {
		t.Errorf("tiers mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyPolicy(t *testing.T) {
	p := NewPolicy(nil)
	if _, ok := p.Check(4, free); !ok {
		t.Error("empty policy should not lock anything")
	}
	if p.MinScale() != 1 || p.MaxScale() != 1 {
		t.Errorf("expected [1, 1], got [%v, %v]", p.MinScale(), p.MaxScale())
	}
}
