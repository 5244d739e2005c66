package selection

import "github.com/quakemetrics/gmpe-select/internal/domain"

// composition carries the normalized top-level category weights and, for
// each crustal-shaped category with nonzero weight, its normalized
// depth-layer weights (before scaling by the category weight).
type composition struct {
	regions map[domain.Region]float64
	layers  map[domain.Region][]float64
}

// composeRegions computes the normalized probabilities across the configured
// tectonic categories and within each crustal-shaped category's depth
// layers.
//
// A crustal-shaped category's presence decays linearly from 1 at distance 0
// to 0 at its horizontal buffer. Subduction presence is binary: 1 inside the
// region, 0 outside, regardless of any buffer.
func composeRegions(cls domain.Classification, depth float64, regions RegionSet) (composition, error) {
	comp := composition{
		regions: make(map[domain.Region]float64, len(domain.Regions)),
		layers:  make(map[domain.Region][]float64, 3),
	}

	var total float64
	for _, reg := range domain.Regions {
		dist := cls.RegionDistance(reg)
		var p float64
		if reg == domain.RegionSubduction {
			if regions.Subduction == nil {
				continue
			}
			if dist <= 0 {
				p = 1
			}
		} else {
			rc := regions.crustal(reg)
			if rc == nil {
				continue
			}
			p = Probability(dist, 0, 1, rc.HorizontalBuffer, 0)
		}
		comp.regions[reg] = p
		total += p
	}

	if total <= 0 {
		return composition{}, &NoMatchingRegionError{Depth: depth, Classification: cls}
	}
	for reg := range comp.regions {
		comp.regions[reg] /= total
	}

	for _, reg := range domain.Regions {
		rc := regions.crustal(reg)
		if rc == nil || comp.regions[reg] == 0 {
			continue
		}
		probs := make([]float64, len(rc.Layers))
		var sum float64
		for i, layer := range rc.Layers {
			probs[i] = layerProbability(depth, layer, rc.VerticalBuffer)
			sum += probs[i]
		}
		if sum <= 0 {
			return composition{}, &ZeroWeightError{Region: reg, Depth: depth, Layers: rc.Layers}
		}
		for i := range probs {
			probs[i] /= sum
		}
		comp.layers[reg] = probs
	}

	return comp, nil
}

// layerProbability is the two-sided depth ramp of one layer: probability
// rises from 0 at min_depth-vbuf to 1 at min_depth, holds 1 through
// max_depth, and falls back to 0 at max_depth+vbuf.
func layerProbability(depth float64, layer DepthLayer, vbuf float64) float64 {
	if depth < layer.MinDepth {
		return Probability(depth, layer.MinDepth-vbuf, 0, layer.MinDepth, 1)
	}
	return Probability(depth, layer.MaxDepth, 1, layer.MaxDepth+vbuf, 0)
}
