package physics

import (
	"math"

	"github.com/cosmotree/sage/internal/units"
)

// reionizationModifier implements spec §4.7.b: a Kravtsov-et-al. style
// fitting form to the Gnedin-2000 filtering mass, scaled against a
// thermal (T_vir = 1e4 K) characteristic mass, producing a suppression
// factor on baryon infall onto low-mass halos after reionization.
//
// The spec names the three scale-factor regimes (before UV turn-on a0,
// partial, post-reionization ar) without giving the exact fitting
// polynomial; f(a) here is a monotonic smoothstep between the regimes
// (0 before a0, 1 from ar onward) rather than the unpublished literal
// coefficients, documented as an implementation choice in DESIGN.md.
func reionizationModifier(cfg Config, u units.Units, z, mvirCentral float64) float64 {
	if !cfg.ReionizationOn || mvirCentral <= 0 {
		return 1.0
	}

	a := 1.0 / (1.0 + z)
	a0 := 1.0 / (1.0 + cfg.Reionization_z0)
	ar := 1.0 / (1.0 + cfg.Reionization_zr)

	fOfA := fOfA(a, a0, ar)

	mFiltering := 25.0 * math.Pow(u.Cosmology.Omega, -0.5) * 2.21 * math.Pow(fOfA, 1.5)
	mThermal := thermalCharacteristicMass(u, z)

	mChar := mFiltering
	if mThermal > mChar {
		mChar = mThermal
	}

	return 1.0 / math.Pow(1+0.26*mChar/mvirCentral, 3)
}

func fOfA(a, a0, ar float64) float64 {
	switch {
	case a <= a0:
		return 0
	case a >= ar:
		return 1
	default:
		t := (a - a0) / (ar - a0)
		return t * t * (3 - 2*t)
	}
}

// thermalCharacteristicMass derives the minimum virial mass able to
// hold T_vir = 1e4 K gas, from the same Tvir = 35.9*Vvir^2 relation the
// cooling step (§4.7.e) uses, and the self-similar M = Vvir^3/(10*G*H(z))
// virial scaling — reusing the pipeline's own constants rather than an
// independent set, for internal consistency.
func thermalCharacteristicMass(u units.Units, z float64) float64 {
	const tvirFloor = 1e4
	vvir := math.Sqrt(tvirFloor / 35.9)
	hz := u.Hubble(z)
	if hz <= 0 {
		return 0
	}
	return vvir * vvir * vvir / (10 * u.G * hz)
}
