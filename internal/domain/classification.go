package domain

import "context"

// Region is one of the four top-level tectonic categories.
type Region string

const (
	RegionActiveCrustal Region = "acr"
	RegionStableCrustal Region = "scr"
	RegionVolcanic      Region = "volcanic"
	RegionSubduction    Region = "subduction"
)

// Regions lists the categories in the canonical order used for weighted-set
// assembly and provenance. The order is fixed so identical inputs always
// produce identical output lists.
var Regions = []Region{
	RegionActiveCrustal,
	RegionStableCrustal,
	RegionVolcanic,
	RegionSubduction,
}

// Valid reports whether r names a known tectonic category.
func (r Region) Valid() bool {
	switch r {
	case RegionActiveCrustal, RegionStableCrustal, RegionVolcanic, RegionSubduction:
		return true
	}
	return false
}

// Classification is the answer of the external tectonic classification
// service for one hypocenter. Distances are km to the nearest region of each
// category, zero when the point lies inside one.
type Classification struct {
	DistanceToActive     float64 `json:"distance_to_active"`
	DistanceToStable     float64 `json:"distance_to_stable"`
	DistanceToVolcanic   float64 `json:"distance_to_volcanic"`
	DistanceToSubduction float64 `json:"distance_to_subduction"`

	// Subduction geometry, meaningful only when HasSlabModel is true.
	SlabDepth            float64 `json:"slab_depth,omitempty"`
	SlabDepthUncertainty float64 `json:"slab_depth_uncertainty,omitempty"`
	MaxInterfaceDepth    float64 `json:"max_interface_depth,omitempty"`
	HasSlabModel         bool    `json:"has_slab_model"`

	// KaganAngle is nil when no moment tensor is available for the event.
	KaganAngle *float64 `json:"kagan_angle,omitempty"`
}

// RegionDistance returns the distance to the named category.
func (c Classification) RegionDistance(r Region) float64 {
	switch r {
	case RegionActiveCrustal:
		return c.DistanceToActive
	case RegionStableCrustal:
		return c.DistanceToStable
	case RegionVolcanic:
		return c.DistanceToVolcanic
	case RegionSubduction:
		return c.DistanceToSubduction
	}
	return 0
}

// TectonicClassifier looks up the tectonic-region classification of an
// origin from an external service.
type TectonicClassifier interface {
	Classify(ctx context.Context, origin Origin) (Classification, error)
}

// LayerDistancer reports the distance from a point to each named geographic
// override layer, zero when the point is inside the layer's polygon.
type LayerDistancer interface {
	LayerDistances(ctx context.Context, lat, lon float64) (map[string]float64, error)
}
