package physics

import (
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/numeric"
	"github.com/cosmotree/sage/internal/treedata"
	"github.com/cosmotree/sage/internal/units"
)

// totalBaryons sums the baryon content spec §4.7.a counts toward a
// group's infall budget: StellarMass already carries BulgeMass, so
// Bulge is not added again.
func totalBaryons(g *galaxy.Galaxy) float64 {
	return g.StellarMass + g.ColdGas + g.HotGas + g.EjectedMass + g.BlackHole + g.ICS
}

// computeInfallBudget implements spec §4.7.a: folds every satellite's
// Ejected and ICS reservoirs into the central (the "pre-existing
// conservation convention"), sums the group's baryon content, and
// returns the total infall to be spread over the substeps of this
// interval.
func computeInfallBudget(cfg Config, u units.Units, z float64, store *treedata.Store, members []int, central *galaxy.Galaxy) float64 {
	totBaryons := 0.0
	for _, idx := range members {
		g := store.Working(idx)
		if g.Type == galaxy.TypeMerged {
			continue
		}
		if g != central {
			galaxy.TransferAllCross(g, central, galaxy.ReservoirEjectedMass)
			galaxy.TransferAllCross(g, central, galaxy.ReservoirICS)
		}
		totBaryons += totalBaryons(g)
	}

	modifier := reionizationModifier(cfg, u, z, central.Mvir)
	expected := modifier * u.Cosmology.BaryonFrac * central.Mvir
	return expected - totBaryons
}

// applyInfallIncrement adds one substep's share of the group's infall
// budget to the central's hot halo. A negative increment drains mass
// in the order spec §4.7.a prescribes: central Ejected (with metal
// proportion), then central Hot metals, then central Hot mass, never
// below zero.
func applyInfallIncrement(central *galaxy.Galaxy, amount float64) {
	if amount >= 0 {
		galaxy.AddToHot(central, amount, 0)
		return
	}
	drainCentralDeficit(central, -amount)
}

// drainCentralDeficit removes deficit mass from the central, preferring
// Ejected (metal-proportional), then Hot's own metals, then Hot's bulk
// mass, clamping every reservoir non-negative as it goes.
func drainCentralDeficit(central *galaxy.Galaxy, deficit float64) {
	if deficit <= 0 {
		return
	}

	takeEjected := numeric.Clamp(deficit, 0, central.EjectedMass)
	if takeEjected > 0 {
		z := numeric.Metallicity(central.EjectedMass, central.MetalsEjectedMass)
		central.EjectedMass -= takeEjected
		central.MetalsEjectedMass -= takeEjected * z
		deficit -= takeEjected
	}

	if deficit <= 0 {
		return
	}
	takeMetals := numeric.Clamp(deficit, 0, central.MetalsHotGas)
	central.MetalsHotGas -= takeMetals
	deficit -= takeMetals

	if deficit <= 0 {
		return
	}
	takeHot := numeric.Clamp(deficit, 0, central.HotGas)
	central.HotGas -= takeHot
}
