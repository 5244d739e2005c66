package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quakemetrics/gmpe-select/internal/domain"
)

// subductionConfig mirrors a production parameterization: the slab-absent
// depth function peaks at intermediate depths, and the crustal ramp is
// centered on the slab depth.
func subductionConfig() *SubductionConfig {
	return &SubductionConfig{
		CrustalGMPE:   "sub_crustal",
		InterfaceGMPE: "sub_interface",
		IntraslabGMPE: "sub_intraslab",

		DefaultSlabDepth: 20,
		KaganDefault:     0.5,

		IntHypo:  Ramp{X1: 0, P1: 1, X2: 20, P2: 0},
		IntKagan: Ramp{X1: 15, P1: 1, X2: 75, P2: 0},
		IntSZ:    Ramp{X1: 0, P1: 1, X2: 10, P2: 0},

		IntMag:        Ramp{X1: 5, P1: 0, X2: 7, P2: 1},
		IntDepthUpper: Ramp{X1: 0, P1: 0.1, X2: 20, P2: 0.8},
		IntDepthLower: Ramp{X1: 40, P1: 0, X2: 100, P2: -0.7},

		CrustSlab: Ramp{X1: -20, P1: 8.0 / 9.0, X2: 20, P2: 1.0 / 9.0},
		CrustHypo: Ramp{X1: 250, P1: 1, X2: 300, P2: 0},
	}
}

func assertSplit(t *testing.T, split domain.SubductionSplit, crustal, iface, intraslab float64) {
	t.Helper()
	assert.InDelta(t, crustal, split.Crustal, 1e-9, "crustal")
	assert.InDelta(t, iface, split.Interface, 1e-9, "interface")
	assert.InDelta(t, intraslab, split.Intraslab, 1e-9, "intraslab")
	assert.InDelta(t, 1.0, split.Crustal+split.Interface+split.Intraslab, 1e-12, "sum")
}

func TestSubductionSplitNoSlabModel(t *testing.T) {
	cfg := subductionConfig()
	cls := domain.Classification{HasSlabModel: false}

	t.Run("surface event is crustal", func(t *testing.T) {
		assertSplit(t, subductionSplit(cls, 0, 7.5, cfg), 0.8, 0.1, 0.1)
	})

	t.Run("default slab depth is interface", func(t *testing.T) {
		assertSplit(t, subductionSplit(cls, 20, 7.5, cfg), 0.1, 0.8, 0.1)
	})

	t.Run("deep event is intraslab", func(t *testing.T) {
		assertSplit(t, subductionSplit(cls, 100, 7.5, cfg), 0.1, 0.1, 0.8)
	})

	t.Run("small magnitude suppresses interface", func(t *testing.T) {
		split := subductionSplit(cls, 20, 5, cfg)
		assert.Equal(t, 0.0, split.Interface)
		// With pInt = 0 the crustal term is the bare depth ramp product.
		assert.InDelta(t, 0.5, split.Crustal, 1e-9)
		assert.InDelta(t, 0.5, split.Intraslab, 1e-9)
	})
}

func TestSubductionSplitWithSlabModel(t *testing.T) {
	cfg := subductionConfig()
	zero := 0.0

	t.Run("on-slab event with aligned mechanism is pure interface", func(t *testing.T) {
		cls := domain.Classification{
			HasSlabModel:      true,
			SlabDepth:         20,
			MaxInterfaceDepth: 50,
			KaganAngle:        &zero,
		}
		assertSplit(t, subductionSplit(cls, 20, 7.5, cfg), 0, 1, 0)
	})

	t.Run("missing moment tensor falls back to default kagan probability", func(t *testing.T) {
		cls := domain.Classification{
			HasSlabModel:      true,
			SlabDepth:         20,
			MaxInterfaceDepth: 50,
		}
		// 10 km off-slab halves the hypocentral term; the Kagan default
		// halves it again.
		assertSplit(t, subductionSplit(cls, 30, 7.5, cfg),
			0.75*11.0/36.0, 0.25, 1-0.25-0.75*11.0/36.0)
	})

	t.Run("slab depth uncertainty widens the interface ramp", func(t *testing.T) {
		cls := domain.Classification{
			HasSlabModel:         true,
			SlabDepth:            20,
			SlabDepthUncertainty: 10,
			MaxInterfaceDepth:    50,
			KaganAngle:           &zero,
		}
		// 10 km off-slab but inside the widened plateau.
		assertSplit(t, subductionSplit(cls, 30, 7.5, cfg), 0, 1, 0)
	})

	t.Run("below the seismogenic zone the interface term vanishes", func(t *testing.T) {
		cls := domain.Classification{
			HasSlabModel:      true,
			SlabDepth:         65,
			MaxInterfaceDepth: 50,
			KaganAngle:        &zero,
		}
		assertSplit(t, subductionSplit(cls, 70, 7.5, cfg), 29.0/72.0, 0, 43.0/72.0)
	})
}
