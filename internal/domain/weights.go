package domain

import (
	"fmt"
	"math"
	"time"
)

// WeightTolerance is the floating tolerance for normalization invariants.
const WeightTolerance = 1e-9

// WeightedGMPE pairs a GMPE identifier with its selection weight.
type WeightedGMPE struct {
	GMPE   string  `json:"gmpe"`
	Weight float64 `json:"weight"`
}

// WeightedSet is an ordered list of weighted GMPEs. A non-empty set's
// weights sum to 1 within WeightTolerance.
type WeightedSet []WeightedGMPE

// Total returns the sum of all weights.
func (s WeightedSet) Total() float64 {
	var sum float64
	for _, g := range s {
		sum += g.Weight
	}
	return sum
}

// Validate checks the normalization invariant. An empty set is valid; a
// non-empty set must sum to 1 and contain no negative weights.
func (s WeightedSet) Validate() error {
	if len(s) == 0 {
		return nil
	}
	for _, g := range s {
		if g.Weight < 0 {
			return fmt.Errorf("gmpe %q has negative weight %g", g.GMPE, g.Weight)
		}
		if g.GMPE == "" {
			return fmt.Errorf("weighted set contains an empty gmpe identifier")
		}
	}
	if total := s.Total(); math.Abs(total-1) > WeightTolerance {
		return fmt.Errorf("weights sum to %.12f, expected 1.0", total)
	}
	return nil
}

// RegionWeight is one category's contribution: its normalized top-level
// weight and, for crustal-shaped categories, the normalized per-depth-layer
// weights before scaling by the category weight.
type RegionWeight struct {
	Weight float64   `json:"weight"`
	Layers []float64 `json:"layers,omitempty"`
}

// SubductionSplit holds the crustal/interface/intraslab decomposition of the
// subduction category. The three terms always sum to the subduction weight
// they were scaled by (1.0 when unscaled).
type SubductionSplit struct {
	Crustal   float64 `json:"crustal"`
	Interface float64 `json:"interface"`
	Intraslab float64 `json:"intraslab"`
}

// Provenance records how a weighted set was composed, for audit logging and
// for event-specific configuration fragments written downstream.
type Provenance struct {
	// Regions is the composition the final set was assembled from. When an
	// override layer fully replaced the global set, this is the override
	// composition.
	Regions map[Region]RegionWeight `json:"regions"`

	// Subduction is the sub-type split scaled by the subduction category
	// weight, present only when the category contributed.
	Subduction *SubductionSplit `json:"subduction,omitempty"`

	// OverrideLayer names the geographic layer that replaced or blended into
	// the set; BlendWeight is 1 for full replacement, in (0, 1) for a blend.
	OverrideLayer string  `json:"override_layer,omitempty"`
	BlendWeight   float64 `json:"blend_weight,omitempty"`

	// OverrideRegions is the override composition when the set is a blend of
	// global and override contributions.
	OverrideRegions map[Region]RegionWeight `json:"override_regions,omitempty"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Assignment is the full evaluation result for one origin.
type Assignment struct {
	EventID    string      `json:"event_id"`
	GMPEs      WeightedSet `json:"gmpes"`
	Provenance Provenance  `json:"provenance"`
}
