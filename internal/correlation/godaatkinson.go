// Package correlation implements spatial cross-correlation models for
// ground-motion residuals. The correlation length feeds the same downstream
// interpolation that consumes GMPE assignments.
package correlation

import "math"

// gaCoeff holds the alpha, beta, gamma parameters of the Goda and Atkinson
// (2010) correlation function for one intensity measure.
type gaCoeff struct {
	alpha, beta, gamma float64
}

var (
	gaPGA     = gaCoeff{alpha: 0.060, beta: 0.283, gamma: 5.0}
	gaPGV     = gaCoeff{alpha: 0.054, beta: 0.319, gamma: 5.0}
	gaDefault = gaCoeff{alpha: 0.054, beta: 0.319, gamma: 5.0}

	// Spectral acceleration coefficients by period in seconds.
	gaSA = map[float64]gaCoeff{
		0.1: {alpha: 0.062, beta: 0.276, gamma: 5.0},
		0.2: {alpha: 0.073, beta: 0.248, gamma: 5.0},
		0.3: {alpha: 0.086, beta: 0.219, gamma: 5.0},
		0.5: {alpha: 0.073, beta: 0.248, gamma: 5.0},
		1.0: {alpha: 0.051, beta: 0.329, gamma: 5.0},
		2.0: {alpha: 0.061, beta: 0.421, gamma: 3.035},
		3.0: {alpha: 0.092, beta: 0.671, gamma: 1.189},
		5.0: {alpha: 0.071, beta: 0.741, gamma: 1.201},
	}
)

// GodaAtkinson2010 is the Goda and Atkinson (2010) intra-event spatial
// correlation model.
type GodaAtkinson2010 struct{}

// PGA returns the correlation of PGA residuals at separation d km.
func (GodaAtkinson2010) PGA(d float64) float64 {
	return gaCorrelation(gaPGA, d)
}

// PGV returns the correlation of PGV residuals at separation d km.
func (GodaAtkinson2010) PGV(d float64) float64 {
	return gaCorrelation(gaPGV, d)
}

// SA returns the correlation of spectral-acceleration residuals at the given
// period (seconds) and separation d km. Periods without tabulated
// coefficients use the published average model.
func (GodaAtkinson2010) SA(period, d float64) float64 {
	c, ok := gaSA[period]
	if !ok {
		c = gaDefault
	}
	return gaCorrelation(c, d)
}

// gaCorrelation evaluates sqrt(1 - max(gamma*exp(-alpha*d^beta) - gamma + 1, 0)),
// which is 0 at d = 0 and approaches 1 at large separation. The published
// form expresses decorrelation; callers wanting similarity use 1 - rho^2
// semantics as the model defines them.
func gaCorrelation(c gaCoeff, d float64) float64 {
	if d < 0 {
		d = 0
	}
	inner := c.gamma*math.Exp(-c.alpha*math.Pow(d, c.beta)) - c.gamma + 1
	if inner < 0 {
		inner = 0
	}
	return math.Sqrt(1 - inner)
}
