// Package cooling implements the 2-D log(T)-log(Z) cooling-rate lookup
// of spec §4.3: eight metallicity rows x 91 temperature bins, linear
// interpolation, no extrapolation.
package cooling

import (
	"math"

	"github.com/cosmotree/sage/internal/numeric"
)

// NumMetalBins and NumTempBins match the table geometry spec §4.3 fixes.
const (
	NumMetalBins = 8
	NumTempBins  = 91

	logTMin  = 4.00
	logTMax  = 8.50
	logTStep = 0.05
)

// MetalBinValues are the eight [Fe/H] sample points the table is indexed
// by (the first, -5, represents primordial composition; bracketMetal
// shifts the rest by log10(0.02) into absolute metallicity).
var MetalBinValues = [NumMetalBins]float64{-5.0, -3.0, -2.0, -1.5, -1.0, -0.5, 0.0, 0.5}

// Table holds log10(Lambda_norm) samples for each of the eight
// metallicity rows across 91 temperature bins spanning logTMin..logTMax.
type Table struct {
	// logLambda[row][bin] = log10(cooling rate normalisation)
	logLambda [NumMetalBins][NumTempBins]float64
}

// NewTable builds a Table from raw sample data; samples[row] must have
// exactly NumTempBins entries in increasing log10(T) order.
func NewTable(samples [NumMetalBins][NumTempBins]float64) *Table {
	return &Table{logLambda: samples}
}

// bracketMetal returns the pair of row indices bracketing logZ, and the
// interpolation fraction between them. Rows sit at their absolute
// metallicities (MetalBinValues, every row but the first shifted by
// log10(0.02)); logZ is clamped to the table extrema first (no
// extrapolation).
func bracketMetal(logZ float64) (lo, hi int, frac float64) {
	var bins [NumMetalBins]float64
	for i, v := range MetalBinValues {
		bins[i] = v
		if i > 0 {
			bins[i] += math.Log10(0.02)
		}
	}
	logZ = numeric.Clamp(logZ, bins[0], bins[NumMetalBins-1])

	for i := 0; i < NumMetalBins-1; i++ {
		if logZ >= bins[i] && logZ <= bins[i+1] {
			span := bins[i+1] - bins[i]
			frac = numeric.SafeDiv(logZ-bins[i], span, 0)
			return i, i + 1, frac
		}
	}
	return NumMetalBins - 2, NumMetalBins - 1, 1
}

// bracketTemp returns the pair of bin indices bracketing logT, and the
// interpolation fraction between them. logT is clamped to [4.0, 8.5]
// first.
func bracketTemp(logT float64) (lo, hi int, frac float64) {
	logT = numeric.Clamp(logT, logTMin, logTMax)

	j := int((logT - logTMin) / logTStep)
	if j > NumTempBins-2 {
		j = NumTempBins - 2
	}
	if j < 0 {
		j = 0
	}

	binLo := logTMin + float64(j)*logTStep
	frac = numeric.SafeDiv(logT-binLo, logTStep, 0)
	return j, j + 1, frac
}

func (t *Table) interpRow(row int, logT float64) float64 {
	lo, hi, frac := bracketTemp(logT)
	a := t.logLambda[row][lo]
	b := t.logLambda[row][hi]
	return a + frac*(b-a)
}

// CoolingRate returns Lambda (physical cgs units) for the given
// log10(T/K) and log10(Z) (Z absolute metallicity of the hot gas),
// per spec §4.3's five-step lookup.
func (t *Table) CoolingRate(logT, logZ float64) float64 {
	rowLo, rowHi, rowFrac := bracketMetal(logZ)

	lambdaLo := t.interpRow(rowLo, logT)
	lambdaHi := t.interpRow(rowHi, logT)

	logLambda := lambdaLo + rowFrac*(lambdaHi-lambdaLo)
	return math.Pow(10, logLambda)
}
