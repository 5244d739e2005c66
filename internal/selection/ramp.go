// Package selection implements the tectonic-region classification and
// GMPE-weighting engine.
//
// An evaluation composes layered probability estimates: top-level tectonic
// category weights from distance-based ramp functions, per-category
// depth-layer weights, and a crustal/interface/intraslab split driven by
// slab geometry and focal-mechanism cues when the subduction category
// contributes. Geographic override layers can then replace or blend
// into the composed set with distance-proportional weighting. Normalization
// holds at every level: the final weighted set always sums to 1.
package selection

// Probability evaluates the piecewise-linear ramp through (x1, p1) and
// (x2, p2): p1 for x <= x1, p2 for x >= x2, linear interpolation between.
//
//	p1 |----x1
//	   |      \
//	p2 |       x2------
//
// The function is a pure linear map with flat tails. No ordering of the
// break points or probabilities is enforced, so a rising ramp (p1 < p2) is
// equally valid.
func Probability(x, x1, p1, x2, p2 float64) float64 {
	if x <= x1 {
		return p1
	}
	if x >= x2 {
		return p2
	}
	slope := (p1 - p2) / (x1 - x2)
	return p1 + slope*(x-x1)
}

// Ramp holds the four parameters of one configured ramp function.
type Ramp struct {
	X1 float64 `yaml:"x1"`
	P1 float64 `yaml:"p1"`
	X2 float64 `yaml:"x2"`
	P2 float64 `yaml:"p2"`
}

// At evaluates the ramp at x.
func (r Ramp) At(x float64) float64 {
	return Probability(x, r.X1, r.P1, r.X2, r.P2)
}

// Shifted returns a copy with both break points moved by dx. Used to widen
// the interface-depth ramp by the slab-depth uncertainty and to anchor the
// seismogenic-zone ramp at the maximum interface depth.
func (r Ramp) Shifted(dx float64) Ramp {
	r.X1 += dx
	r.X2 += dx
	return r
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
