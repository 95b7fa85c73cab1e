package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/treedata"
	"github.com/cosmotree/sage/internal/units"
)

func testMergerUnits() units.Units {
	u := units.Units{}
	u.System.UnitVelocityCM = 1e5 // 1 km/s, so c in code units is finite
	u.EtaSNCode = 5e-3
	u.EnergySNCode = 1e51
	return u
}

func newMergerStore(t *testing.T) (*treedata.Store, int, int) {
	t.Helper()
	halos := make([]treedata.Halo, 1)
	s := treedata.NewStore(halos, 0, 0)

	centralIdx, err := s.NewWorkingGalaxy(faults.Coordinates{})
	require.NoError(t, err)
	satIdx, err := s.NewWorkingGalaxy(faults.Coordinates{})
	require.NoError(t, err)

	s.Working(satIdx).CentralGal = centralIdx
	s.Working(centralIdx).Type = galaxy.TypeCentral
	s.Working(satIdx).Type = galaxy.TypeSatellite

	return s, centralIdx, satIdx
}

func TestResolveMergerMissingMergTimeIsInvariantViolation(t *testing.T) {
	s, _, satIdx := newMergerStore(t)
	g := s.Working(satIdx)
	g.MergTime = galaxy.MergeTimeUnknown

	err := resolveMerger(Config{}, s, testMergerUnits(), g, 0.01, 1.0, 0)
	require.Error(t, err)
	var iv *faults.InvariantViolation
	assert.ErrorAs(t, err, &iv)
}

func TestResolveMergerDecrementsClockAndWaits(t *testing.T) {
	s, _, satIdx := newMergerStore(t)
	g := s.Working(satIdx)
	g.MergTime = 1.0

	err := resolveMerger(Config{}, s, testMergerUnits(), g, 0.1, 1.0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, g.MergTime, 1e-12)
	assert.Equal(t, galaxy.TypeSatellite, g.Type)
}

func TestResolveMergerDisruptsToICSWhenOverDisruptionThreshold(t *testing.T) {
	s, centralIdx, satIdx := newMergerStore(t)
	g := s.Working(satIdx)
	g.MergTime = 1.0
	g.InfallMvir = 1.0
	g.StellarMass = 10
	g.ColdGas = 5
	central := s.Working(centralIdx)

	cfg := Config{ThresholdSatDisruption: 1.0}
	err := resolveMerger(cfg, s, testMergerUnits(), g, 0.1, 1.0, 0)
	require.NoError(t, err)

	assert.Equal(t, galaxy.TypeMerged, g.Type)
	assert.Equal(t, galaxy.MergeDisruptedToICS, g.MergeType)
	assert.InDelta(t, 10.0, central.ICS, 1e-9)
	assert.InDelta(t, 5.0, central.HotGas, 1e-9)
}

func TestResolveMergerMergesAfterClockExpires(t *testing.T) {
	s, centralIdx, satIdx := newMergerStore(t)
	g := s.Working(satIdx)
	g.MergTime = 0
	g.StellarMass = 1
	g.ColdGas = 1
	central := s.Working(centralIdx)
	central.StellarMass = 100
	central.ColdGas = 10
	central.Vvir = 200

	cfg := Config{ThreshMajorMerger: 0.3}
	err := resolveMerger(cfg, s, testMergerUnits(), g, 0.01, 5.0, 0)
	require.NoError(t, err)

	assert.Equal(t, galaxy.TypeMerged, g.Type)
	assert.Equal(t, galaxy.MergeMinor, g.MergeType)
	// 100 + the satellite's 1, plus the merger's collisional starburst:
	// eburst = 0.56*ratio^0.7 of the central's 11 cold gas, ratio 2/110.
	burst := 0.56 * math.Pow(2.0/110.0, 0.7) * 11.0
	assert.InDelta(t, 101.0+burst, central.StellarMass, 1e-6)
}

func TestResolveMergerCentralIsNoOp(t *testing.T) {
	s, centralIdx, _ := newMergerStore(t)
	central := s.Working(centralIdx)
	central.MergTime = 5.0

	err := resolveMerger(Config{}, s, testMergerUnits(), central, 0.1, 1.0, 0)
	require.NoError(t, err)
	assert.Equal(t, galaxy.TypeCentral, central.Type)
}

func TestMergeGalaxyMajorMergerReclassifiesDiskToBulge(t *testing.T) {
	s, centralIdx, satIdx := newMergerStore(t)
	g := s.Working(satIdx)
	g.StellarMass = 90
	g.ColdGas = 10
	central := s.Working(centralIdx)
	central.StellarMass = 100
	central.ColdGas = 10
	central.Vvir = 200

	cfg := Config{ThreshMajorMerger: 0.3}
	mergeGalaxy(cfg, central, g, testMergerUnits(), 0.01, 7.0, 0)

	assert.Equal(t, galaxy.MergeMajor, g.MergeType)
	assert.InDelta(t, 7.0, central.TimeOfLastMajorMerger, 1e-12)
	assert.InDelta(t, central.StellarMass, central.BulgeMass, 1e-6, "major merger bulge-ifies the entire remnant disk")
}

func TestMergeGalaxyMinorMergerKeepsCentralDisk(t *testing.T) {
	s, centralIdx, satIdx := newMergerStore(t)
	g := s.Working(satIdx)
	g.StellarMass = 1
	g.ColdGas = 1
	central := s.Working(centralIdx)
	central.StellarMass = 100
	central.ColdGas = 10
	central.Vvir = 200

	cfg := Config{ThreshMajorMerger: 0.3}
	mergeGalaxy(cfg, central, g, testMergerUnits(), 0.01, 7.0, 0)

	assert.Equal(t, galaxy.MergeMinor, g.MergeType)
	assert.Less(t, central.BulgeMass, central.StellarMass)
}

func TestTriggerQuasarWindUsesThisMergersAccretionNotCumulativeBH(t *testing.T) {
	central := &galaxy.Galaxy{}
	central.Vvir = 200
	central.ColdGas = 10
	central.HotGas = 10
	// A large pre-existing BlackHole from earlier mergers must not feed
	// into this merger's quasar-wind energy term.
	central.BlackHole = 1e6

	u := testMergerUnits()
	triggerQuasarWind(Config{QuasarModeEfficiency: 0.005}, central, u, 0)

	assert.InDelta(t, 10.0, central.ColdGas, 1e-9, "zero accretion this merger must not blow out any gas")
	assert.InDelta(t, 10.0, central.HotGas, 1e-9)
	assert.Zero(t, central.OutflowRate)
}

func TestTriggerQuasarWindEjectsGasWhenAccretionIsLarge(t *testing.T) {
	central := &galaxy.Galaxy{}
	central.Vvir = 200
	central.ColdGas = 10
	central.HotGas = 10

	u := testMergerUnits()
	triggerQuasarWind(Config{QuasarModeEfficiency: 0.005}, central, u, 1.0)

	assert.Zero(t, central.ColdGas)
	assert.Zero(t, central.HotGas)
	assert.InDelta(t, 20.0, central.OutflowRate, 1e-9)
}

func TestGrowBlackHoleReturnsAccretedMass(t *testing.T) {
	central := &galaxy.Galaxy{}
	central.Vvir = 200
	central.ColdGas = 10

	accrete := growBlackHole(Config{BlackHoleGrowthRate: 0.015}, central, 0.5)

	assert.Greater(t, accrete, 0.0)
	assert.InDelta(t, accrete, central.BlackHole, 1e-9)
	assert.InDelta(t, accrete, central.QuasarModeBHaccretionMass, 1e-9)
}

func TestDisruptToICSMovesEveryReservoir(t *testing.T) {
	s, centralIdx, satIdx := newMergerStore(t)
	g := s.Working(satIdx)
	g.ColdGas = 1
	g.HotGas = 2
	g.StellarMass = 3
	g.BlackHole = 0.5
	central := s.Working(centralIdx)

	disruptToICS(central, g)

	assert.Equal(t, galaxy.TypeMerged, g.Type)
	assert.InDelta(t, 3.0, central.HotGas, 1e-9)
	assert.InDelta(t, 3.0, central.ICS, 1e-9)
	assert.InDelta(t, 0.5, central.BlackHole, 1e-9)
	assert.Zero(t, g.ColdGas)
	assert.Zero(t, g.HotGas)
	assert.Zero(t, g.StellarMass)
	assert.Zero(t, g.BlackHole)
}
