package selection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quakemetrics/gmpe-select/internal/domain"
)

// Selector orchestrates one earthquake evaluation: classify the origin,
// compose region and depth-layer probabilities, refine the subduction branch
// into sub-types, apply geographic overrides, and assemble the final
// weighted GMPE set with its provenance.
//
// A Selector is immutable after construction and safe for concurrent use;
// evaluations share no state.
type Selector struct {
	cfg        Config
	classifier domain.TectonicClassifier
	distancer  domain.LayerDistancer
	logger     *slog.Logger
}

// New validates the configuration and builds a Selector. distancer may be
// nil when no geographic override layers are configured.
func New(cfg Config, classifier domain.TectonicClassifier, distancer domain.LayerDistancer, logger *slog.Logger) (*Selector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if classifier == nil {
		return nil, errors.New("selection: tectonic classifier is required")
	}
	if len(cfg.Layers) > 0 && distancer == nil {
		return nil, errors.New("selection: override layers configured but no layer distancer provided")
	}
	return &Selector{cfg: cfg, classifier: classifier, distancer: distancer, logger: logger}, nil
}

// Select evaluates one origin and returns the weighted GMPE set and its
// provenance. It fails fast: no partial set is ever returned. Evaluation
// errors (no matching region, zero layer weight) are fatal for the event but
// identifiable via IsEvaluationError so batch callers can skip and report.
func (s *Selector) Select(ctx context.Context, origin domain.Origin) (domain.WeightedSet, domain.Provenance, error) {
	cls, err := s.classifier.Classify(ctx, origin)
	if err != nil {
		return nil, domain.Provenance{}, fmt.Errorf("classify origin: %w", err)
	}

	set, prov, err := s.compose(origin, cls, s.cfg.Regions)
	if err != nil {
		return nil, domain.Provenance{}, err
	}

	if len(s.cfg.Layers) > 0 {
		distances, derr := s.distancer.LayerDistances(ctx, origin.Lat, origin.Lon)
		if derr != nil {
			return nil, domain.Provenance{}, fmt.Errorf("override layer distances: %w", derr)
		}
		set, prov, err = s.applyOverride(origin, cls, set, prov, distances)
		if err != nil {
			return nil, domain.Provenance{}, err
		}
	}

	prov.EvaluatedAt = domain.Now()
	return set, prov, nil
}

// compose runs the region composer and, for the subduction branch, the
// sub-type estimator against one region set, then assembles the ordered
// weighted list. Zero-weight entries are dropped.
func (s *Selector) compose(origin domain.Origin, cls domain.Classification, regions RegionSet) (domain.WeightedSet, domain.Provenance, error) {
	comp, err := composeRegions(cls, origin.Depth, regions)
	if err != nil {
		return nil, domain.Provenance{}, err
	}

	prov := domain.Provenance{Regions: make(map[domain.Region]domain.RegionWeight, len(comp.regions))}
	set := make(domain.WeightedSet, 0, regions.maxEntries())

	for _, reg := range domain.Regions {
		weight, ok := comp.regions[reg]
		if !ok {
			continue
		}

		if reg == domain.RegionSubduction {
			prov.Regions[reg] = domain.RegionWeight{Weight: weight}
			if weight == 0 {
				continue
			}
			sub := regions.Subduction
			split := subductionSplit(cls, origin.Depth, origin.Magnitude, sub)
			scaled := domain.SubductionSplit{
				Crustal:   split.Crustal * weight,
				Interface: split.Interface * weight,
				Intraslab: split.Intraslab * weight,
			}
			prov.Subduction = &scaled
			set = appendWeighted(set, sub.CrustalGMPE, scaled.Crustal)
			set = appendWeighted(set, sub.InterfaceGMPE, scaled.Interface)
			set = appendWeighted(set, sub.IntraslabGMPE, scaled.Intraslab)
			continue
		}

		layerWeights := comp.layers[reg]
		prov.Regions[reg] = domain.RegionWeight{Weight: weight, Layers: layerWeights}
		if weight == 0 {
			continue
		}
		rc := regions.crustal(reg)
		for i, lw := range layerWeights {
			set = appendWeighted(set, rc.Layers[i].GMPE, lw*weight)
		}
	}

	return set, prov, nil
}

// applyOverride resolves the nearest geographic override layer. Inside the
// layer's polygon the override composition replaces the global set; inside
// its buffer the two sets are concatenated with distance-proportional
// scaling, which preserves normalization without a further pass.
func (s *Selector) applyOverride(origin domain.Origin, cls domain.Classification, global domain.WeightedSet, prov domain.Provenance, distances map[string]float64) (domain.WeightedSet, domain.Provenance, error) {
	dec := nearestOverride(s.cfg.Layers, distances, s.logger)
	if !dec.applies() {
		return global, prov, nil
	}

	merged := s.cfg.Regions.withOverrides(dec.layer.Regions)
	overrideSet, overrideProv, err := s.compose(origin, cls, merged)
	if err != nil {
		return nil, domain.Provenance{}, fmt.Errorf("override layer %q: %w", dec.name, err)
	}

	blend := dec.blendWeight()
	if blend >= 1 {
		overrideProv.OverrideLayer = dec.name
		overrideProv.BlendWeight = 1
		return overrideSet, overrideProv, nil
	}
	if blend <= 0 {
		return global, prov, nil
	}

	out := make(domain.WeightedSet, 0, len(global)+len(overrideSet))
	for _, g := range global {
		out = appendWeighted(out, g.GMPE, g.Weight*(1-blend))
	}
	for _, g := range overrideSet {
		out = appendWeighted(out, g.GMPE, g.Weight*blend)
	}
	prov.OverrideLayer = dec.name
	prov.BlendWeight = blend
	prov.OverrideRegions = overrideProv.Regions
	return out, prov, nil
}

func appendWeighted(set domain.WeightedSet, gmpe string, weight float64) domain.WeightedSet {
	if weight <= 0 {
		return set
	}
	return append(set, domain.WeightedGMPE{GMPE: gmpe, Weight: weight})
}
