package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/units"
)

func testAGNUnits() units.Units {
	u := units.Units{}
	u.G = 1.0
	return u
}

func TestRadioModeHeatingOffRecipeIsNoOp(t *testing.T) {
	g := &galaxy.Galaxy{Type: galaxy.TypeCentral}
	g.HotGas = 10
	cfg := Config{AGNrecipeOn: AGNOff}

	out := radioModeHeating(cfg, g, testAGNUnits(), 5.0, 1.0, 1.0, 0.01)

	assert.Equal(t, 5.0, out)
	assert.Zero(t, g.BlackHole)
}

func TestRadioModeHeatingIgnoresNonCentrals(t *testing.T) {
	g := &galaxy.Galaxy{Type: galaxy.TypeSatellite}
	g.HotGas = 10
	cfg := Config{AGNrecipeOn: AGNEmpirical, RadioModeEfficiency: 1.0}

	out := radioModeHeating(cfg, g, testAGNUnits(), 5.0, 1.0, 1.0, 0.01)

	assert.Equal(t, 5.0, out)
	assert.Zero(t, g.BlackHole)
}

func TestRadioModeHeatingRHeatMemoryCutsCoolingFlow(t *testing.T) {
	g := &galaxy.Galaxy{Type: galaxy.TypeCentral}
	g.HotGas = 10
	g.BlackHole = 0 // no accretion possible: Bondi-Hoyle needs nonzero BH seed
	cfg := Config{AGNrecipeOn: AGNBondiHoyle, RadioModeEfficiency: 1.0}

	g.RHeat = 0.5
	out := radioModeHeating(cfg, g, testAGNUnits(), 4.0, 1.0, 1.0, 0.01)
	assert.InDelta(t, 4.0*(1-0.5/1.0), out, 1e-9)
}

func TestRadioModeHeatingRHeatAtOrAboveRcoolZeroesFlow(t *testing.T) {
	g := &galaxy.Galaxy{Type: galaxy.TypeCentral}
	g.HotGas = 10
	cfg := Config{AGNrecipeOn: AGNOff}
	_ = cfg

	g2 := &galaxy.Galaxy{Type: galaxy.TypeCentral}
	g2.HotGas = 10
	g2.RHeat = 2.0
	cfg2 := Config{AGNrecipeOn: AGNBondiHoyle, RadioModeEfficiency: 1.0}
	out := radioModeHeating(cfg2, g2, testAGNUnits(), 4.0, 1.0, 1.0, 0.01)
	assert.Zero(t, out)
}

func TestRadioModeHeatingEddingtonCapLimitsAccretion(t *testing.T) {
	g := &galaxy.Galaxy{Type: galaxy.TypeCentral}
	g.HotGas = 1e20
	g.BlackHole = 1e-30 // tiny seed drives an astronomically small Eddington cap
	g.Vvir = 200
	cfg := Config{AGNrecipeOn: AGNBondiHoyle, RadioModeEfficiency: 1.0}

	_ = radioModeHeating(cfg, g, testAGNUnits(), 1e10, 1.0, 1e40, 0.01)

	assert.LessOrEqual(t, g.BlackHole, 1e-30+eddingtonCoeff*1e-30*0.01+1e-20)
}

func TestAccretionRateRecipesDispatch(t *testing.T) {
	g := &galaxy.Galaxy{}
	g.BlackHole = 1.0
	g.HotGas = 10
	g.Mvir = 100
	g.Vvir = 200
	u := testAGNUnits()

	bondi := accretionRate(Config{AGNrecipeOn: AGNBondiHoyle, RadioModeEfficiency: 1.0}, g, u, 1.0, 5.0, 0.01)
	assert.Greater(t, bondi, 0.0)

	coldCloud := accretionRate(Config{AGNrecipeOn: AGNColdCloud}, g, u, 1.0, 5.0, 0.01)
	assert.InDelta(t, 1e-4*5.0/0.01, coldCloud, 1e-6)

	empirical := accretionRate(Config{AGNrecipeOn: AGNEmpirical, RadioModeEfficiency: 1.0}, g, u, 1.0, 5.0, 0.01)
	assert.Greater(t, empirical, 0.0)

	none := accretionRate(Config{AGNrecipeOn: AGNOff}, g, u, 1.0, 5.0, 0.01)
	assert.Zero(t, none)
}
