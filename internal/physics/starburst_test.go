package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/units"
)

func TestCollisionalStarburstScalesStellarGrowthByRecycleFraction(t *testing.T) {
	g := &galaxy.Galaxy{}
	g.ColdGas = 100
	g.Vvir = 200

	cfg := Config{BlackHoleGrowthRate: 0.01, RecycleFraction: 0.4}
	collisionalStarburst(cfg, g, units.Units{}, 0.01, 0, 0.5)

	burstMass := 0.5 * 100.0
	bhAccrete := cfg.BlackHoleGrowthRate * burstMass
	wantStars := (burstMass - bhAccrete) * (1 - cfg.RecycleFraction)

	assert.InDelta(t, wantStars, g.StellarMass, 1e-6)
	assert.InDelta(t, wantStars, g.BulgeMass, 1e-6)
}

func TestCollisionalStarburstNoOpWithoutColdGasOrEburst(t *testing.T) {
	g := &galaxy.Galaxy{}
	collisionalStarburst(Config{}, g, units.Units{}, 0.01, 0, 0.5)
	assert.Zero(t, g.StellarMass)

	g2 := &galaxy.Galaxy{}
	g2.ColdGas = 10
	collisionalStarburst(Config{}, g2, units.Units{}, 0.01, 0, 0)
	assert.Zero(t, g2.StellarMass)
}
