package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, testConfig().Validate())
	})

	t.Run("empty config", func(t *testing.T) {
		err := Config{}.Validate()
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "no tectonic region")
	})

	t.Run("negative horizontal buffer", func(t *testing.T) {
		cfg := testConfig()
		cfg.Regions.ActiveCrustal.HorizontalBuffer = -1
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("region without depth layers", func(t *testing.T) {
		cfg := testConfig()
		cfg.Regions.StableCrustal.Layers = nil
		err := cfg.Validate()
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "scr")
	})

	t.Run("layer without gmpe", func(t *testing.T) {
		cfg := testConfig()
		cfg.Regions.ActiveCrustal.Layers[0].GMPE = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("inverted layer bounds", func(t *testing.T) {
		cfg := testConfig()
		cfg.Regions.ActiveCrustal.Layers[0] = DepthLayer{MinDepth: 50, MaxDepth: 10, GMPE: "x"}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("subduction missing a sub-type gmpe", func(t *testing.T) {
		cfg := testConfig()
		cfg.Regions.Subduction.IntraslabGMPE = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("subduction default slab depth must be positive", func(t *testing.T) {
		cfg := testConfig()
		cfg.Regions.Subduction.DefaultSlabDepth = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("kagan default outside unit interval", func(t *testing.T) {
		cfg := testConfig()
		cfg.Regions.Subduction.KaganDefault = 1.5
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("override layer without regions", func(t *testing.T) {
		cfg := testConfig()
		cfg.Layers = map[string]LayerOverride{"empty": {HorizontalBuffer: 10}}
		err := cfg.Validate()
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("override layer regions validated recursively", func(t *testing.T) {
		cfg := testConfig()
		cfg.Layers = map[string]LayerOverride{
			"bad": {HorizontalBuffer: 10, Regions: RegionSet{
				Volcanic: &RegionConfig{HorizontalBuffer: 10},
			}},
		}
		err := cfg.Validate()
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), `override layer "bad"`)
	})
}

func TestRegionSetWithOverrides(t *testing.T) {
	base := testConfig().Regions
	override := RegionSet{
		Volcanic: &RegionConfig{
			HorizontalBuffer: 25,
			Layers:           []DepthLayer{{MinDepth: 0, MaxDepth: 30, GMPE: "volcanic_local"}},
		},
	}

	merged := base.withOverrides(override)
	assert.Same(t, base.ActiveCrustal, merged.ActiveCrustal)
	assert.Same(t, base.Subduction, merged.Subduction)
	assert.Same(t, override.Volcanic, merged.Volcanic)
}

func TestRegionSetMaxEntries(t *testing.T) {
	assert.Equal(t, 6, testConfig().Regions.maxEntries()) // 2 + 1 + 3
	assert.Equal(t, 0, RegionSet{}.maxEntries())
}
