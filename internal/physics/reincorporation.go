package physics

import (
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/numeric"
)

// reincorporate implements spec §4.7.c, central galaxies only. The
// threshold variant (Vvir above a critical velocity) and the simpler
// linear variant both appear in the source; Config.Reincorporation
// selects one, recorded in DESIGN.md as the Open-Question decision.
func reincorporate(cfg Config, g *galaxy.Galaxy, dt float64) {
	if g.Type != galaxy.TypeCentral || g.EjectedMass <= 0 || g.Rvir <= 0 {
		return
	}

	var amount float64
	switch cfg.Reincorporation {
	case ReincorporationThreshold:
		vcrit := 445.48 * cfg.ReIncorporationFactor
		if g.Vvir <= vcrit {
			return
		}
		amount = (g.Vvir/vcrit - 1) * g.EjectedMass * (g.Vvir / g.Rvir) * dt
	default: // ReincorporationLinear
		amount = cfg.ReIncorporationFactor * g.EjectedMass * (g.Vvir / g.Rvir) * dt
	}

	amount = numeric.Clamp(amount, 0, g.EjectedMass)
	galaxy.Transfer(g, galaxy.ReservoirEjectedMass, galaxy.ReservoirHotGas, amount)
}
