package tier

// Variant names accepted by Preset.
const (
	VariantStandard = "standard"
	VariantExtreme  = "extreme"
)

// Preset returns the tier table for a named product variant. Unknown names
// fall back to the standard table.
//
//	standard: 1x-5x free, 6x-10x pro
//	extreme:  standard + 15x, 20x extreme
func Preset(name string) []Tier {
	switch name {
	case VariantExtreme:
		return extremeTiers()
	default:
		return standardTiers()
	}
}

// KnownVariant reports whether name is a recognized variant.
func KnownVariant(name string) bool {
	return name == VariantStandard || name == VariantExtreme
}

func standardTiers() []Tier {
	tiers := make([]Tier, 0, 10)
	for m := 1; m <= 10; m++ {
		req := Free
		if m > 5 {
			req = ProRequired
		}
		tiers = append(tiers, Tier{Multiplier: float64(m), Requirement: req})
	}
	return tiers
}

func extremeTiers() []Tier {
	return append(standardTiers(),
		Tier{Multiplier: 15, Requirement: ExtremeRequired},
		Tier{Multiplier: 20, Requirement: ExtremeRequired},
	)
}
