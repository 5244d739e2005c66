package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quakemetrics/gmpe-select/internal/domain"
)

// NoMatchingRegionError means every category's distance exceeds its buffer,
// so no tectonic region can contribute. Fatal for the event; the message
// carries the full classification dump for diagnosis.
type NoMatchingRegionError struct {
	Depth          float64
	Classification domain.Classification
}

func (e *NoMatchingRegionError) Error() string {
	c := e.Classification
	return fmt.Sprintf(
		"no tectonic region within range at depth %g km "+
			"(distances km: acr=%g scr=%g volcanic=%g subduction=%g, slab model: %t)",
		e.Depth, c.DistanceToActive, c.DistanceToStable,
		c.DistanceToVolcanic, c.DistanceToSubduction, c.HasSlabModel)
}

// ZeroWeightError means a category carries nonzero top-level weight but all
// of its depth layers evaluate to zero probability at the event depth.
type ZeroWeightError struct {
	Region domain.Region
	Depth  float64
	Layers []DepthLayer
}

func (e *ZeroWeightError) Error() string {
	bounds := make([]string, len(e.Layers))
	for i, l := range e.Layers {
		bounds[i] = fmt.Sprintf("[%g, %g]", l.MinDepth, l.MaxDepth)
	}
	return fmt.Sprintf("region %q has weight but no depth layer matches depth %g km (layers: %s)",
		e.Region, e.Depth, strings.Join(bounds, " "))
}

// IsEvaluationError reports whether err is fatal for a single event but safe
// for a batch caller to skip and report: the event simply cannot be matched
// to the configured regions. Configuration and transport errors are not
// evaluation errors.
func IsEvaluationError(err error) bool {
	var noRegion *NoMatchingRegionError
	var zeroWeight *ZeroWeightError
	return errors.As(err, &noRegion) || errors.As(err, &zeroWeight)
}
