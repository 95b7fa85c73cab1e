package physics

import (
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/numeric"
)

// stripSatellite implements spec §4.7.d: a Type-1 satellite with
// residual hot gas loses it toward central at a rate set by the gap
// between its subhalo's own expected baryon fraction and its current
// baryon content, capped by what it actually holds.
func stripSatellite(g, central *galaxy.Galaxy, baryonFrac float64) {
	if g.Type != galaxy.TypeSatellite || g.HotGas <= 0 {
		return
	}

	expected := baryonFrac * g.Mvir
	current := totalBaryons(g)
	strip := (expected - current) / float64(galaxy.Steps)
	strip = numeric.Clamp(strip, 0, g.HotGas)
	if strip <= 0 {
		return
	}

	galaxy.TransferCross(g, central, galaxy.ReservoirHotGas, galaxy.ReservoirHotGas, strip)
}
