package physics

import (
	"math"

	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/numeric"
	"github.com/cosmotree/sage/internal/units"
)

// eddingtonCoeff and the recipe coefficients are spec §4.7.f's literal
// constants for the three accretion recipes and the Eddington cap.
const eddingtonCoeff = 1.3e38

// radioModeHeating implements spec §4.7.f, central galaxies only: folds
// the AGN's accumulated heating radius memory (RHeat) into coolingGas,
// accretes onto the black hole per the configured recipe, and heats the
// remaining cooling flow.
func radioModeHeating(cfg Config, g *galaxy.Galaxy, u units.Units, coolingGas, rcool, x, dt float64) float64 {
	if g.Type != galaxy.TypeCentral || cfg.AGNrecipeOn == AGNOff {
		return coolingGas
	}

	if rcool > 0 {
		if g.RHeat < rcool {
			coolingGas *= 1 - g.RHeat/rcool
		} else {
			coolingGas = 0
		}
	}
	coolingGas = numeric.Clamp(coolingGas, 0, coolingGas)

	rate := accretionRate(cfg, g, u, x, coolingGas, dt)
	rate = math.Min(rate, eddingtonCoeff*g.BlackHole)
	if rate <= 0 {
		return coolingGas
	}

	accreted := numeric.Clamp(rate*dt, 0, g.HotGas)
	galaxy.Transfer(g, galaxy.ReservoirHotGas, galaxy.ReservoirBlackHole, accreted)

	if g.Vvir > 0 {
		heating := math.Pow(1.34e5/g.Vvir, 2) * accreted
		heating = numeric.Clamp(heating, 0, coolingGas)
		if rcool > 0 {
			g.RHeat += heating / coolingGas * rcool
		}
		coolingGas -= heating
		g.Heating += heating
	}

	return coolingGas
}

// accretionRate dispatches to the configured black-hole accretion
// recipe of spec §4.7.f.
func accretionRate(cfg Config, g *galaxy.Galaxy, u units.Units, x, coolingGas, dt float64) float64 {
	switch cfg.AGNrecipeOn {
	case AGNBondiHoyle:
		return 2.5 * math.Pi * u.G * 0.375 * 0.6 * x * g.BlackHole * cfg.RadioModeEfficiency
	case AGNColdCloud:
		if g.HotGas <= 0 || g.Vvir <= 0 {
			return 0
		}
		return 1e-4 * numeric.SafeDiv(coolingGas, dt, 0)
	case AGNEmpirical:
		if g.Mvir <= 0 || g.Vvir <= 0 {
			return 0
		}
		return cfg.RadioModeEfficiency * (g.BlackHole / 0.01) * math.Pow(g.Vvir/200, 3) * numeric.SafeDiv(g.HotGas, g.Mvir, 0) / 0.1
	default:
		return 0
	}
}
