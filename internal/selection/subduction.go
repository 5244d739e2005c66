package selection

import (
	"math"

	"github.com/quakemetrics/gmpe-select/internal/domain"
)

// subductionSplit decomposes a subduction classification into crustal,
// interface, and intraslab probabilities. The three terms sum to exactly 1:
// intraslab is defined as the complement of the other two, and the triple is
// clamped and renormalized if intermediate products push a term outside
// [0, 1].
//
// Slab-present mode combines three interface cues: the hypocentral distance
// to the slab (widened by the slab-depth uncertainty), the Kagan angle
// between the moment tensor and the interface (a configured constant when
// the angle is undefined), and the event's position relative to the bottom
// of the seismogenic zone. Slab-absent mode substitutes the configured
// default slab depth and estimates the interface probability from magnitude
// and a two-part depth function whose summed ramps are clamped to [0, 1];
// the sum is not otherwise well-formed for all ramp parameters.
func subductionSplit(cls domain.Classification, depth, mag float64, cfg *SubductionConfig) domain.SubductionSplit {
	var pInt float64
	slabDepth := cfg.DefaultSlabDepth

	if cls.HasSlabModel {
		slabDepth = cls.SlabDepth

		dz := math.Abs(depth - cls.SlabDepth)
		pIntHypo := cfg.IntHypo.Shifted(cls.SlabDepthUncertainty).At(dz)

		pIntKagan := cfg.KaganDefault
		if cls.KaganAngle != nil {
			pIntKagan = cfg.IntKagan.At(*cls.KaganAngle)
		}

		// Probability the event lies above the effective bottom of the
		// seismogenic zone, anchored at the slab model's maximum depth.
		pIntSZ := cfg.IntSZ.Shifted(cls.MaxInterfaceDepth).At(depth)

		pInt = pIntHypo * pIntKagan * pIntSZ
	} else {
		pIntMag := cfg.IntMag.At(mag)
		pIntDepth := clamp01(cfg.IntDepthUpper.At(depth) + cfg.IntDepthLower.At(depth))
		pInt = pIntMag * pIntDepth
	}

	pCrustal := (1 - pInt) * cfg.CrustSlab.At(depth-slabDepth) * cfg.CrustHypo.At(depth)
	pIntraslab := 1 - (pInt + pCrustal)

	split := domain.SubductionSplit{
		Crustal:   clamp01(pCrustal),
		Interface: clamp01(pInt),
		Intraslab: clamp01(pIntraslab),
	}
	if sum := split.Crustal + split.Interface + split.Intraslab; sum > 0 && math.Abs(sum-1) > 1e-12 {
		split.Crustal /= sum
		split.Interface /= sum
		split.Intraslab /= sum
	}
	return split
}
