// Package gmice implements ground-motion intensity conversion equations,
// which relate instrumental ground-motion amplitudes to macroseismic
// intensity. Downstream consumers of GMPE assignments use these conversions
// when intensity observations must be folded into amplitude-based
// interpolation.
package gmice

import (
	"fmt"
	"math"
)

// IMT is an intensity measure type supported by the conversion equations.
type IMT string

const (
	PGA IMT = "PGA" // peak ground acceleration, natural-log g
	PGV IMT = "PGV" // peak ground velocity, natural-log cm/s
)

// wald99Coeff holds one IMT's regression coefficients. C1/C2 are the slope
// and intercept of the MMI >= 5 branch, C3/C4 of the lower branch. T1 is the
// log-amplitude breakpoint between branches, T2 the MMI breakpoint used when
// inverting. SMMI and SPGM are the reported conversion sigmas.
type wald99Coeff struct {
	c1, c2, c3, c4 float64
	t1, t2         float64
	smmi, spgm     float64
	units          float64 // multiplier from g (or native unit) to cm/s/s
}

var wald99Coeffs = map[IMT]wald99Coeff{
	PGA: {c1: 3.66, c2: -1.66, c3: 2.20, c4: 1.00, t1: 1.82, t2: 5.00, smmi: 1.08, spgm: 0.295, units: 981},
	PGV: {c1: 3.47, c2: 2.35, c3: 2.10, c4: 3.40, t1: 0.76, t2: 5.00, smmi: 0.98, spgm: 0.282, units: 1},
}

// Wald99 is the Wald et al. (1999) bilinear GMICE for California, defined for
// PGA and PGV.
type Wald99 struct{}

const (
	minMMI = 1.0
	maxMMI = 10.0
)

var log10e = math.Log10(math.E)

// MMI converts a natural-log ground-motion amplitude to modified Mercalli
// intensity, clipped to [1, 10].
func (Wald99) MMI(imt IMT, amp float64) (float64, error) {
	c, ok := wald99Coeffs[imt]
	if !ok {
		return 0, fmt.Errorf("gmice: wald99 does not define %q", imt)
	}

	lamp := math.Log10(c.units) + amp*log10e
	var mmi float64
	if lamp < c.t1 {
		mmi = c.c3*lamp + c.c4
	} else {
		mmi = c.c1*lamp + c.c2
	}
	return math.Min(math.Max(mmi, minMMI), maxMMI), nil
}

// Amplitude inverts the conversion: it returns the natural-log ground-motion
// amplitude corresponding to an intensity.
func (Wald99) Amplitude(imt IMT, mmi float64) (float64, error) {
	c, ok := wald99Coeffs[imt]
	if !ok {
		return 0, fmt.Errorf("gmice: wald99 does not define %q", imt)
	}

	mmi = math.Min(math.Max(mmi, minMMI), maxMMI)
	var lamp float64
	if mmi < c.t2 {
		lamp = (mmi - c.c4) / c.c3
	} else {
		lamp = (mmi - c.c2) / c.c1
	}
	return (lamp - math.Log10(c.units)) / log10e, nil
}

// MMISigma is the standard deviation of a converted intensity, in MMI units.
func (Wald99) MMISigma(imt IMT) (float64, error) {
	c, ok := wald99Coeffs[imt]
	if !ok {
		return 0, fmt.Errorf("gmice: wald99 does not define %q", imt)
	}
	return c.smmi, nil
}

// AmplitudeSigma is the standard deviation of an inverted amplitude, in
// natural-log units.
func (Wald99) AmplitudeSigma(imt IMT) (float64, error) {
	c, ok := wald99Coeffs[imt]
	if !ok {
		return 0, fmt.Errorf("gmice: wald99 does not define %q", imt)
	}
	return math.Ln10 * c.spgm, nil
}
