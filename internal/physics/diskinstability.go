package physics

import (
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/numeric"
	"github.com/cosmotree/sage/internal/units"
)

// diskInstability implements spec §4.7.i, the Mo-Mao-White stability
// criterion, for any galaxy (central or satellite): disk mass above
// M_crit_disk is unstable. The stellar excess is reclassified into the
// bulge tag without creating new stellar mass (BulgeMass is a subset
// of StellarMass, not an independent reservoir); the gas excess burns
// through the shared collisional-starburst recipe.
func diskInstability(cfg Config, g *galaxy.Galaxy, u units.Units, dt float64, step int) {
	if !cfg.DiskInstabilityOn || g.Vmax <= 0 || g.DiskScaleRadius <= 0 || u.G <= 0 {
		return
	}

	mcrit := g.Vmax * g.Vmax * 3 * g.DiskScaleRadius / u.G
	diskMass := g.ColdGas + g.StellarMass - g.BulgeMass
	excess := diskMass - mcrit
	if excess <= 0 {
		return
	}

	diskStars := g.StellarMass - g.BulgeMass
	starFrac := numeric.Clamp(numeric.SafeDiv(diskStars, diskMass, 0), 0, 1)

	excessStars := numeric.Clamp(excess*starFrac, 0, diskStars)
	if excessStars > 0 {
		z := numeric.Metallicity(g.StellarMass, g.MetalsStellarMass)
		g.BulgeMass += excessStars
		g.MetalsBulgeMass += excessStars * z
	}

	excessGas := numeric.Clamp(excess*(1-starFrac), 0, g.ColdGas)
	if excessGas > 0 && g.ColdGas > 0 {
		eburst := excessGas / g.ColdGas
		collisionalStarburst(cfg, g, u, dt, step, eburst)
	}
}
