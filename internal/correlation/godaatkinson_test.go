package correlation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGodaAtkinson2010(t *testing.T) {
	var m GodaAtkinson2010

	t.Run("zero separation is fully correlated", func(t *testing.T) {
		assert.Equal(t, 0.0, m.PGA(0))
		assert.Equal(t, 0.0, m.PGV(0))
		assert.Equal(t, 0.0, m.SA(1.0, 0))
	})

	t.Run("decorrelation grows monotonically with distance", func(t *testing.T) {
		prev := -1.0
		for _, d := range []float64{0, 1, 5, 10, 50, 100, 500} {
			v := m.PGA(d)
			assert.Greater(t, v, prev, "d=%g", d)
			assert.LessOrEqual(t, v, 1.0)
			prev = v
		}
	})

	t.Run("fully decorrelated at large separation", func(t *testing.T) {
		assert.InDelta(t, 1.0, m.PGA(10000), 1e-6)
		assert.InDelta(t, 1.0, m.SA(3.0, 10000), 1e-6)
	})

	t.Run("pga reference value", func(t *testing.T) {
		assert.InDelta(t, 0.7374, m.PGA(10), 1e-4)
	})

	t.Run("tabulated periods use their own coefficients", func(t *testing.T) {
		// 0.2 s and 0.5 s share published coefficients; 2.0 s differs.
		assert.Equal(t, m.SA(0.2, 25), m.SA(0.5, 25))
		assert.NotEqual(t, m.SA(0.2, 25), m.SA(2.0, 25))
	})

	t.Run("untabulated periods fall back to the average model", func(t *testing.T) {
		assert.Equal(t, m.SA(0.7, 25), m.PGV(25))
	})

	t.Run("negative distance is treated as zero", func(t *testing.T) {
		assert.Equal(t, 0.0, m.PGA(-5))
	})
}
