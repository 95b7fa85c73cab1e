package physics

import (
	"math"

	"github.com/cosmotree/sage/internal/cooling"
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/numeric"
	"github.com/cosmotree/sage/internal/units"
)

// protonMassG and boltzmannErgPerK are the proton mass and Boltzmann
// constant in cgs; x is computed in cgs from these and then converted to
// code units via units.Units.DensityTimeCGS (spec §4.7.e).
const (
	protonMassG      = 1.6726e-24
	boltzmannErgPerK = 1.380658e-16
)

// coolingStep implements spec §4.7.e for any galaxy with residual hot
// gas (centrals and satellites alike): an isothermal-beta hot halo
// profile gives the cooling radius, from which coolingGas follows
// either the infall-limited or hot-halo-regime branch.
func coolingStep(table *cooling.Table, g *galaxy.Galaxy, u units.Units, dt float64) (coolingGas, rcool, x float64) {
	if g.HotGas <= 0 || g.Vvir <= 0 || g.Rvir <= 0 {
		return 0, 0, 0
	}

	tvir := 35.9 * g.Vvir * g.Vvir
	tcool := g.Rvir / g.Vvir

	logZ := numeric.Clamp(math.Log10(numeric.SafeDiv(g.MetalsHotGas, g.HotGas, 0)), -10, 10)
	logT := math.Log10(tvir)
	lambda := table.CoolingRate(logT, logZ)

	xCGS := numeric.SafeDiv(protonMassG*boltzmannErgPerK*tvir, lambda, 0)
	x = numeric.SafeDiv(xCGS, u.DensityTimeCGS(), 0)

	rho0 := numeric.SafeDiv(g.HotGas, 4*math.Pi*g.Rvir, 0)
	rhoRcool := numeric.SafeDiv(x, 0.28086*tcool, 0)

	if rhoRcool <= 0 {
		return 0, 0, x
	}

	rcool = math.Sqrt(numeric.SafeDiv(rho0, rhoRcool, 0))
	if rcool > g.Rvir {
		coolingGas = g.HotGas * (g.Vvir / g.Rvir) * dt
	} else {
		coolingGas = (g.HotGas / g.Rvir) * (rcool / tcool) * dt
	}

	coolingGas = numeric.Clamp(coolingGas, 0, g.HotGas)
	g.Cooling += 0.5 * coolingGas * g.Vvir * g.Vvir
	return coolingGas, rcool, x
}
