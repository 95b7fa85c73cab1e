package physics

import (
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/numeric"
	"github.com/cosmotree/sage/internal/units"
)

// collisionalStarburst is the shared starburst recipe spec §4.7.i and
// §4.7.j both reference: a fraction eburst of g's own cold gas first
// feeds the black hole, then the remainder forms stars that land
// directly in the bulge (both StellarMass and BulgeMass grow together,
// since BulgeMass is a subset tag on StellarMass, not an independent
// reservoir).
func collisionalStarburst(cfg Config, g *galaxy.Galaxy, u units.Units, dt float64, step int, eburst float64) {
	if g.ColdGas <= 0 || eburst <= 0 {
		return
	}

	burstMass := numeric.Clamp(eburst*g.ColdGas, 0, g.ColdGas)
	if burstMass <= 0 {
		return
	}

	bhAccrete := numeric.Clamp(cfg.BlackHoleGrowthRate*burstMass, 0, burstMass)
	galaxy.Transfer(g, galaxy.ReservoirColdGas, galaxy.ReservoirBlackHole, bhAccrete)

	stars := burstMass - bhAccrete
	if stars <= 0 {
		return
	}

	reheated := cfg.FeedbackReheatingEpsilon * stars
	ejected := 0.0
	if cfg.SupernovaRecipeOn && g.Vvir > 0 {
		ejected = cfg.FeedbackEjectionEfficiency*u.EtaSNCode*u.EnergySNCode/(g.Vvir*g.Vvir) - cfg.FeedbackReheatingEpsilon
		ejected = numeric.Clamp(ejected, 0, ejected) * stars
	}
	if stars+reheated > g.ColdGas {
		scale := g.ColdGas / (stars + reheated)
		stars *= scale
		reheated *= scale
	}

	beforeStellar, beforeMetals := g.StellarMass, g.MetalsStellarMass
	galaxy.Transfer(g, galaxy.ReservoirColdGas, galaxy.ReservoirStellarMass, (1-cfg.RecycleFraction)*stars)
	grown := g.StellarMass - beforeStellar
	grownMetals := g.MetalsStellarMass - beforeMetals
	g.BulgeMass += grown
	g.MetalsBulgeMass += grownMetals

	galaxy.Transfer(g, galaxy.ReservoirColdGas, galaxy.ReservoirHotGas, reheated)
	if ejected > 0 {
		galaxy.Transfer(g, galaxy.ReservoirHotGas, galaxy.ReservoirEjectedMass, ejected)
		g.OutflowRate += ejected
	}

	galaxy.RecordSFR(g, step, grown, g.ColdGas, g.MetalsColdGas, true)
}
