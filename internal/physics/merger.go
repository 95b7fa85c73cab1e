package physics

import (
	"math"

	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/numeric"
	"github.com/cosmotree/sage/internal/treedata"
	"github.com/cosmotree/sage/internal/units"
)

// lightspeedCMPerSec is c in cgs, converted to code velocity units for
// the quasar-wind energy term of spec §4.7.j.
const lightspeedCMPerSec = 2.99792458e10

// resolveMerger implements spec §4.7.j for one Type-1 or Type-2 galaxy:
// decrements its merger clock, disrupts it to the central's ICS if its
// baryon content has grown disproportionate to its halo, or otherwise
// waits for MergTime to expire and then merges it into its central.
func resolveMerger(cfg Config, store *treedata.Store, u units.Units, g *galaxy.Galaxy, dt float64, age float64, step int) error {
	if g.MergTime == galaxy.MergeTimeUnknown {
		return &faults.InvariantViolation{Reason: "satellite galaxy has no merger-time estimate at resolution time"}
	}
	g.MergTime -= dt

	central := store.Working(g.CentralGal)
	if central == g {
		return nil
	}

	if g.InfallMvir > 0 {
		ratio := numeric.SafeDiv(totalBaryons(g), g.InfallMvir, 0)
		if ratio > cfg.ThresholdSatDisruption {
			disruptToICS(central, g)
			return nil
		}
	}

	if g.MergTime > 0 {
		return nil
	}

	mergeGalaxy(cfg, central, g, u, dt, age, step)
	return nil
}

// disruptToICS implements spec §4.7.j's disruption branch: cold and hot
// gas join the central's hot halo, stars join the central's
// intracluster stars, and g retires as a Type-3 merge record.
func disruptToICS(central, g *galaxy.Galaxy) {
	galaxy.TransferCross(g, central, galaxy.ReservoirColdGas, galaxy.ReservoirHotGas, g.ColdGas)
	galaxy.TransferCross(g, central, galaxy.ReservoirHotGas, galaxy.ReservoirHotGas, g.HotGas)
	galaxy.TransferCross(g, central, galaxy.ReservoirStellarMass, galaxy.ReservoirICS, g.StellarMass)
	galaxy.TransferCross(g, central, galaxy.ReservoirBlackHole, galaxy.ReservoirBlackHole, g.BlackHole)

	g.Type = galaxy.TypeMerged
	g.MergeType = galaxy.MergeDisruptedToICS
	g.MergeIntoID = central.GalaxyNr
	g.MergeIntoSnapNum = central.SnapNum
}

// mergeGalaxy implements spec §4.7.j's galaxy-merger branch.
func mergeGalaxy(cfg Config, central, g *galaxy.Galaxy, u units.Units, dt, age float64, step int) {
	satMass := g.StellarMass + g.ColdGas
	centralMass := central.StellarMass + central.ColdGas
	ratio := 0.0
	if satMass > 0 || centralMass > 0 {
		if satMass <= centralMass {
			ratio = numeric.SafeDiv(satMass, centralMass, 0)
		} else {
			ratio = numeric.SafeDiv(centralMass, satMass, 0)
		}
	}

	beforeStellar, beforeMetals := central.StellarMass, central.MetalsStellarMass
	galaxy.TransferCross(g, central, galaxy.ReservoirStellarMass, galaxy.ReservoirStellarMass, g.StellarMass)
	grown := central.StellarMass - beforeStellar
	grownMetals := central.MetalsStellarMass - beforeMetals
	central.BulgeMass += grown
	central.MetalsBulgeMass += grownMetals

	galaxy.TransferCross(g, central, galaxy.ReservoirColdGas, galaxy.ReservoirColdGas, g.ColdGas)
	galaxy.TransferCross(g, central, galaxy.ReservoirHotGas, galaxy.ReservoirHotGas, g.HotGas)
	galaxy.TransferCross(g, central, galaxy.ReservoirEjectedMass, galaxy.ReservoirEjectedMass, g.EjectedMass)
	galaxy.TransferCross(g, central, galaxy.ReservoirICS, galaxy.ReservoirICS, g.ICS)
	galaxy.TransferCross(g, central, galaxy.ReservoirBlackHole, galaxy.ReservoirBlackHole, g.BlackHole)

	accrete := growBlackHole(cfg, central, ratio)
	triggerQuasarWind(cfg, central, u, accrete)

	eburst := 0.56 * math.Pow(ratio, 0.7)
	collisionalStarburst(cfg, central, u, dt, step, eburst)

	if ratio > cfg.ThreshMajorMerger {
		diskToBulge(central)
		central.TimeOfLastMajorMerger = age
		g.MergeType = galaxy.MergeMajor
	} else {
		g.MergeType = galaxy.MergeMinor
		if ratio > 0.1 {
			central.TimeOfLastMinorMerger = age
		}
	}

	g.Type = galaxy.TypeMerged
	g.MergeIntoID = central.GalaxyNr
	g.MergeIntoSnapNum = central.SnapNum
}

// growBlackHole implements spec §4.7.j's merger-driven BH growth and
// returns the mass actually accreted this merger, the BHaccrete
// triggerQuasarWind's energy term is driven by.
func growBlackHole(cfg Config, central *galaxy.Galaxy, ratio float64) float64 {
	if central.Vvir <= 0 || central.ColdGas <= 0 {
		return 0
	}
	accrete := cfg.BlackHoleGrowthRate * ratio / (1 + math.Pow(280/central.Vvir, 2)) * central.ColdGas
	accrete = numeric.Clamp(accrete, 0, central.ColdGas)
	galaxy.Transfer(central, galaxy.ReservoirColdGas, galaxy.ReservoirBlackHole, accrete)
	central.QuasarModeBHaccretionMass += accrete
	return accrete
}

func triggerQuasarWind(cfg Config, central *galaxy.Galaxy, u units.Units, bhAccrete float64) {
	if central.Vvir <= 0 {
		return
	}
	cCode := lightspeedCMPerSec / u.System.UnitVelocityCM
	eQ := cfg.QuasarModeEfficiency * 0.1 * bhAccrete * cCode * cCode

	coldBinding := 0.5 * central.ColdGas * central.Vvir * central.Vvir
	if eQ > coldBinding {
		ejected := central.ColdGas
		galaxy.Transfer(central, galaxy.ReservoirColdGas, galaxy.ReservoirEjectedMass, ejected)
		central.OutflowRate += ejected
	}

	hotBinding := coldBinding + 0.5*central.HotGas*central.Vvir*central.Vvir
	if eQ > hotBinding {
		ejected := central.HotGas
		galaxy.Transfer(central, galaxy.ReservoirHotGas, galaxy.ReservoirEjectedMass, ejected)
		central.OutflowRate += ejected
	}
}

// diskToBulge reclassifies every remaining disk star into the bulge
// tag, the major-merger remnant transformation of spec §4.7.j.
func diskToBulge(central *galaxy.Galaxy) {
	diskStars := central.StellarMass - central.BulgeMass
	if diskStars <= 0 {
		return
	}
	z := numeric.Metallicity(central.StellarMass, central.MetalsStellarMass)
	central.BulgeMass += diskStars
	central.MetalsBulgeMass += diskStars * z
}
