package selection

import (
	"log/slog"
	"math"
	"sort"
)

// overrideDecision identifies the geographic override layer nearest to the
// event, if any.
type overrideDecision struct {
	name  string
	dist  float64
	layer LayerOverride
	found bool
}

// nearestOverride scans the configured override layers against the distances
// reported by the geometry service and returns the nearest one. Layers are
// visited in sorted name order so identical inputs always resolve the same
// way; the scan stops at the first layer containing the point. A configured
// layer missing from the lookup is logged and skipped.
func nearestOverride(layers map[string]LayerOverride, distances map[string]float64, logger *slog.Logger) overrideDecision {
	names := make([]string, 0, len(layers))
	for name := range layers {
		names = append(names, name)
	}
	sort.Strings(names)

	best := overrideDecision{dist: math.MaxFloat64}
	for _, name := range names {
		dist, ok := distances[name]
		if !ok {
			logger.Warn("override layer missing from distance lookup", "layer", name)
			continue
		}
		if dist < best.dist {
			best = overrideDecision{name: name, dist: dist, layer: layers[name], found: true}
		}
		if best.dist == 0 {
			break
		}
	}
	return best
}

// blendWeight is the override layer's share at the given distance: 1 inside
// the polygon, decaying linearly to 0 at the layer's horizontal buffer. A
// zero buffer only matters at distance 0, where the override replaces
// outright.
func (d overrideDecision) blendWeight() float64 {
	if d.dist == 0 {
		return 1
	}
	if d.layer.HorizontalBuffer == 0 {
		return 0
	}
	return 1 - d.dist/d.layer.HorizontalBuffer
}

// applies reports whether the layer is close enough to modify the result.
func (d overrideDecision) applies() bool {
	return d.found && d.dist <= d.layer.HorizontalBuffer
}
