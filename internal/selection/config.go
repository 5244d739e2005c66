package selection

import (
	"errors"
	"fmt"

	"github.com/quakemetrics/gmpe-select/internal/domain"
)

// ErrInvalidConfig wraps all structural configuration errors. These are
// raised before any probability computation begins and are never recovered.
var ErrInvalidConfig = errors.New("invalid selection config")

// DepthLayer is one depth interval of a crustal-shaped category, mapped to
// exactly one GMPE identifier.
type DepthLayer struct {
	MinDepth float64 `yaml:"min_depth"`
	MaxDepth float64 `yaml:"max_depth"`
	GMPE     string  `yaml:"gmpe"`
}

// RegionConfig describes one of the three crustal-shaped categories (active
// crustal, stable continental, volcanic): a horizontal buffer over which the
// category's influence decays, a vertical buffer softening the depth-layer
// edges, and an ordered list of depth layers.
type RegionConfig struct {
	HorizontalBuffer float64      `yaml:"horizontal_buffer"`
	VerticalBuffer   float64      `yaml:"vertical_buffer"`
	Layers           []DepthLayer `yaml:"layers"`
}

// SubductionConfig is structurally different from the crustal categories:
// instead of depth layers it carries one GMPE per sub-type and the ramp
// parameters of the crustal/interface/intraslab estimator. Subduction has no
// horizontal buffer; presence is binary.
type SubductionConfig struct {
	CrustalGMPE   string `yaml:"crustal_gmpe"`
	InterfaceGMPE string `yaml:"interface_gmpe"`
	IntraslabGMPE string `yaml:"intraslab_gmpe"`

	// DefaultSlabDepth substitutes for the slab-model depth where no slab
	// model is defined. KaganDefault is the interface probability used when
	// the Kagan angle is undefined (no moment tensor).
	DefaultSlabDepth float64 `yaml:"default_slab_depth"`
	KaganDefault     float64 `yaml:"p_kagan_default"`

	IntHypo       Ramp `yaml:"p_int_hypo"`
	IntKagan      Ramp `yaml:"p_int_kagan"`
	IntSZ         Ramp `yaml:"p_int_sz"`
	IntMag        Ramp `yaml:"p_int_mag"`
	IntDepthUpper Ramp `yaml:"p_int_dep_no_slab_upper"`
	IntDepthLower Ramp `yaml:"p_int_dep_no_slab_lower"`
	CrustSlab     Ramp `yaml:"p_crust_slab"`
	CrustHypo     Ramp `yaml:"p_crust_hypo"`
}

// RegionSet groups the per-category configurations. A nil category is not
// considered during composition.
type RegionSet struct {
	ActiveCrustal *RegionConfig     `yaml:"acr"`
	StableCrustal *RegionConfig     `yaml:"scr"`
	Volcanic      *RegionConfig     `yaml:"volcanic"`
	Subduction    *SubductionConfig `yaml:"subduction"`
}

// crustal returns the crustal-shaped config for r, nil for subduction or an
// unconfigured category.
func (rs RegionSet) crustal(r domain.Region) *RegionConfig {
	switch r {
	case domain.RegionActiveCrustal:
		return rs.ActiveCrustal
	case domain.RegionStableCrustal:
		return rs.StableCrustal
	case domain.RegionVolcanic:
		return rs.Volcanic
	}
	return nil
}

// empty reports whether no category is configured at all.
func (rs RegionSet) empty() bool {
	return rs.ActiveCrustal == nil && rs.StableCrustal == nil &&
		rs.Volcanic == nil && rs.Subduction == nil
}

// withOverrides returns rs with every category that o configures replaced by
// o's version. Categories o leaves nil keep the base configuration.
func (rs RegionSet) withOverrides(o RegionSet) RegionSet {
	if o.ActiveCrustal != nil {
		rs.ActiveCrustal = o.ActiveCrustal
	}
	if o.StableCrustal != nil {
		rs.StableCrustal = o.StableCrustal
	}
	if o.Volcanic != nil {
		rs.Volcanic = o.Volcanic
	}
	if o.Subduction != nil {
		rs.Subduction = o.Subduction
	}
	return rs
}

// maxEntries bounds the number of weighted entries one composition can emit:
// every configured depth layer plus the three subduction sub-types.
func (rs RegionSet) maxEntries() int {
	n := 0
	for _, rc := range []*RegionConfig{rs.ActiveCrustal, rs.StableCrustal, rs.Volcanic} {
		if rc != nil {
			n += len(rc.Layers)
		}
	}
	if rs.Subduction != nil {
		n += 3
	}
	return n
}

// LayerOverride is a named geographic override region: a horizontal buffer
// over which its influence decays and a partial RegionSet merged over the
// global one when the override applies.
type LayerOverride struct {
	HorizontalBuffer float64   `yaml:"horizontal_buffer"`
	Regions          RegionSet `yaml:"regions"`
}

// Config is the full selection configuration: the global tectonic-region
// set and the optional geographic override layers keyed by name.
type Config struct {
	Regions RegionSet                `yaml:"tectonic_regions"`
	Layers  map[string]LayerOverride `yaml:"layers,omitempty"`
}

// Validate checks the structural invariants of the configuration. It must
// pass before any evaluation runs.
func (c Config) Validate() error {
	if c.Regions.empty() {
		return fmt.Errorf("%w: no tectonic region configured", ErrInvalidConfig)
	}
	if err := c.Regions.validate(); err != nil {
		return err
	}
	for name, layer := range c.Layers {
		if name == "" {
			return fmt.Errorf("%w: override layer with empty name", ErrInvalidConfig)
		}
		if layer.HorizontalBuffer < 0 {
			return fmt.Errorf("%w: override layer %q: negative horizontal buffer", ErrInvalidConfig, name)
		}
		if layer.Regions.empty() {
			return fmt.Errorf("%w: override layer %q configures no region", ErrInvalidConfig, name)
		}
		if err := layer.Regions.validate(); err != nil {
			return fmt.Errorf("override layer %q: %w", name, err)
		}
	}
	return nil
}

func (rs RegionSet) validate() error {
	crustal := map[domain.Region]*RegionConfig{
		domain.RegionActiveCrustal: rs.ActiveCrustal,
		domain.RegionStableCrustal: rs.StableCrustal,
		domain.RegionVolcanic:      rs.Volcanic,
	}
	for _, reg := range domain.Regions {
		rc, ok := crustal[reg]
		if !ok || rc == nil {
			continue
		}
		if rc.HorizontalBuffer < 0 {
			return fmt.Errorf("%w: region %q: negative horizontal buffer", ErrInvalidConfig, reg)
		}
		if rc.VerticalBuffer < 0 {
			return fmt.Errorf("%w: region %q: negative vertical buffer", ErrInvalidConfig, reg)
		}
		if len(rc.Layers) == 0 {
			return fmt.Errorf("%w: region %q has no depth layers", ErrInvalidConfig, reg)
		}
		for i, layer := range rc.Layers {
			if layer.GMPE == "" {
				return fmt.Errorf("%w: region %q layer %d has no gmpe", ErrInvalidConfig, reg, i)
			}
			if layer.MaxDepth < layer.MinDepth {
				return fmt.Errorf("%w: region %q layer %d: max_depth %g < min_depth %g",
					ErrInvalidConfig, reg, i, layer.MaxDepth, layer.MinDepth)
			}
		}
	}
	if sub := rs.Subduction; sub != nil {
		if sub.CrustalGMPE == "" || sub.InterfaceGMPE == "" || sub.IntraslabGMPE == "" {
			return fmt.Errorf("%w: subduction requires crustal, interface, and intraslab gmpes", ErrInvalidConfig)
		}
		if sub.DefaultSlabDepth <= 0 {
			return fmt.Errorf("%w: subduction default_slab_depth must be positive", ErrInvalidConfig)
		}
		if sub.KaganDefault < 0 || sub.KaganDefault > 1 {
			return fmt.Errorf("%w: subduction p_kagan_default %g outside [0, 1]", ErrInvalidConfig, sub.KaganDefault)
		}
	}
	return nil
}
