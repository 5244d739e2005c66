package selection

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNearestOverride(t *testing.T) {
	layers := map[string]LayerOverride{
		"california": {HorizontalBuffer: 100},
		"cascadia":   {HorizontalBuffer: 200},
	}

	t.Run("picks the nearest layer", func(t *testing.T) {
		dec := nearestOverride(layers, map[string]float64{"california": 80, "cascadia": 30}, discardLogger())
		assert.True(t, dec.found)
		assert.Equal(t, "cascadia", dec.name)
		assert.Equal(t, 30.0, dec.dist)
	})

	t.Run("ties resolve to the first sorted name", func(t *testing.T) {
		dec := nearestOverride(layers, map[string]float64{"california": 50, "cascadia": 50}, discardLogger())
		assert.Equal(t, "california", dec.name)
	})

	t.Run("skips layers missing from the lookup", func(t *testing.T) {
		dec := nearestOverride(layers, map[string]float64{"cascadia": 10}, discardLogger())
		assert.Equal(t, "cascadia", dec.name)
	})

	t.Run("no distances at all", func(t *testing.T) {
		dec := nearestOverride(layers, map[string]float64{}, discardLogger())
		assert.False(t, dec.found)
		assert.False(t, dec.applies())
	})
}

func TestOverrideDecision(t *testing.T) {
	layer := LayerOverride{HorizontalBuffer: 100}

	t.Run("inside polygon replaces outright", func(t *testing.T) {
		dec := overrideDecision{name: "x", dist: 0, layer: layer, found: true}
		assert.True(t, dec.applies())
		assert.Equal(t, 1.0, dec.blendWeight())
	})

	t.Run("blend decays linearly across the buffer", func(t *testing.T) {
		dec := overrideDecision{name: "x", dist: 25, layer: layer, found: true}
		assert.True(t, dec.applies())
		assert.InDelta(t, 0.75, dec.blendWeight(), 1e-12)

		dec.dist = 100
		assert.True(t, dec.applies())
		assert.InDelta(t, 0.0, dec.blendWeight(), 1e-12)
	})

	t.Run("outside the buffer does not apply", func(t *testing.T) {
		dec := overrideDecision{name: "x", dist: 100.001, layer: layer, found: true}
		assert.False(t, dec.applies())
	})

	t.Run("zero buffer applies only inside the polygon", func(t *testing.T) {
		dec := overrideDecision{name: "x", dist: 0, layer: LayerOverride{}, found: true}
		assert.True(t, dec.applies())
		assert.Equal(t, 1.0, dec.blendWeight())
	})
}
