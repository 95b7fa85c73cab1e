package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cosmotree/sage/internal/galaxy"
)

// TestReincorporateLiteralScenario reproduces spec §8 end-to-end
// scenario 6: Vvir=500, Vcrit=445.48, Ejected=1.0, Rvir=0.1, dt=0.01.
func TestReincorporateLiteralScenario(t *testing.T) {
	g := &galaxy.Galaxy{
		Type:        galaxy.TypeCentral,
		Vvir:        500,
		Rvir:        0.1,
		EjectedMass: 1.0,
	}
	cfg := Config{Reincorporation: ReincorporationThreshold, ReIncorporationFactor: 1.0}

	reincorporate(cfg, g, 0.01)

	wantMoved := (500.0/445.48 - 1) * 1.0 * (500.0 / 0.1) * 0.01
	wantEjected := 1.0 - wantMoved

	assert.InDelta(t, wantEjected, g.EjectedMass, 1e-9)
	assert.InDelta(t, wantMoved, g.HotGas, 1e-9)
}

func TestReincorporateNoOpBelowVcrit(t *testing.T) {
	g := &galaxy.Galaxy{Type: galaxy.TypeCentral, Vvir: 100, Rvir: 0.1, EjectedMass: 1.0}
	cfg := Config{Reincorporation: ReincorporationThreshold, ReIncorporationFactor: 1.0}

	reincorporate(cfg, g, 0.01)

	assert.Equal(t, 1.0, g.EjectedMass)
	assert.Zero(t, g.HotGas)
}

func TestReincorporateLinearVariant(t *testing.T) {
	g := &galaxy.Galaxy{Type: galaxy.TypeCentral, Vvir: 200, Rvir: 0.1, EjectedMass: 2.0}
	cfg := Config{Reincorporation: ReincorporationLinear, ReIncorporationFactor: 0.3}

	reincorporate(cfg, g, 0.01)

	want := 0.3 * 2.0 * (200.0 / 0.1) * 0.01
	assert.InDelta(t, 2.0-want, g.EjectedMass, 1e-9)
	assert.InDelta(t, want, g.HotGas, 1e-9)
}

func TestReincorporateSatelliteNoOp(t *testing.T) {
	g := &galaxy.Galaxy{Type: galaxy.TypeSatellite, Vvir: 500, Rvir: 0.1, EjectedMass: 1.0}
	cfg := Config{Reincorporation: ReincorporationThreshold, ReIncorporationFactor: 1.0}

	reincorporate(cfg, g, 0.01)

	assert.Equal(t, 1.0, g.EjectedMass)
	assert.Zero(t, g.HotGas)
}
