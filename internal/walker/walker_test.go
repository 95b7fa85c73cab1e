package walker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/treedata"
	"github.com/cosmotree/sage/internal/units"
	"github.com/cosmotree/sage/internal/walker"
)

func testUnits() units.Units {
	cos := units.Cosmology{Omega: 0.25, OmegaLambda: 0.75, Hubble_h: 0.73, BaryonFrac: 0.17, PartMass: 0.01}
	sys := units.UnitSystem{UnitLengthCM: 3.08568e24, UnitMassG: 1.989e43, UnitVelocityCM: 1e5}
	sn := units.SNConstants{EnergySNErg: 1e51, EtaSN: 5e-3}
	return units.NewUnits(cos, sys, sn)
}

func testTimes(u units.Units) units.SnapshotTimes {
	return units.NewSnapshotTimes(u, []float64{0.5, 1.0})
}

func runTree(t *testing.T, halos []treedata.Halo) *treedata.Store {
	t.Helper()
	store := treedata.NewStore(halos, 0, 0)
	store.ResetAux()
	u := testUnits()
	w := walker.New(store, u, testTimes(u), nil, 0, 0)
	require.NoError(t, w.Run())
	return store
}

func TestGenesisCreatesSoleCentralGalaxy(t *testing.T) {
	halos := []treedata.Halo{
		{Mvir: 10, Len: 1000, FirstProgenitor: treedata.NoIndex, NextProgenitor: treedata.NoIndex,
			Descendant: treedata.NoIndex, FirstHaloInFOFgroup: 0, NextHaloInFOFgroup: treedata.NoIndex, SnapNum: 0},
	}
	store := runTree(t, halos)

	require.Len(t, store.Permanent, 1)
	assert.Equal(t, galaxy.TypeCentral, store.Permanent[0].Type)
	assert.Zero(t, store.Permanent[0].ColdGas)
	assert.Zero(t, store.Permanent[0].StellarMass)
	assert.Zero(t, store.Permanent[0].HotGas)
}

func TestInheritanceAcrossSnapshotsNoSubhalo(t *testing.T) {
	halos := []treedata.Halo{
		{Mvir: 10, Len: 1000, FirstProgenitor: treedata.NoIndex, NextProgenitor: treedata.NoIndex,
			Descendant: 1, FirstHaloInFOFgroup: 0, NextHaloInFOFgroup: treedata.NoIndex, SnapNum: 0},
		{Mvir: 20, Len: 2000, FirstProgenitor: 0, NextProgenitor: treedata.NoIndex,
			Descendant: treedata.NoIndex, FirstHaloInFOFgroup: 1, NextHaloInFOFgroup: treedata.NoIndex, SnapNum: 1},
	}
	store := runTree(t, halos)

	require.Len(t, store.Permanent, 2)
	assert.Equal(t, galaxy.TypeCentral, store.Permanent[0].Type)
	assert.Equal(t, galaxy.TypeCentral, store.Permanent[1].Type)
	assert.Equal(t, 0, store.Permanent[0].GalaxyNr)
	assert.Equal(t, 0, store.Permanent[1].GalaxyNr, "inherited galaxy keeps its identity")
	assert.InDelta(t, 20.0, store.Permanent[1].Mvir, 1e-9)
}

func TestWalkerDeterministic(t *testing.T) {
	halos := []treedata.Halo{
		{Mvir: 10, Len: 1000, FirstProgenitor: treedata.NoIndex, NextProgenitor: treedata.NoIndex,
			Descendant: 1, FirstHaloInFOFgroup: 0, NextHaloInFOFgroup: treedata.NoIndex, SnapNum: 0},
		{Mvir: 20, Len: 2000, FirstProgenitor: 0, NextProgenitor: treedata.NoIndex,
			Descendant: treedata.NoIndex, FirstHaloInFOFgroup: 1, NextHaloInFOFgroup: treedata.NoIndex, SnapNum: 1},
	}

	s1 := runTree(t, append([]treedata.Halo(nil), halos...))
	s2 := runTree(t, append([]treedata.Halo(nil), halos...))

	require.Len(t, s2.Permanent, len(s1.Permanent))
	for i := range s1.Permanent {
		assert.Equal(t, s1.Permanent[i].GalaxyNr, s2.Permanent[i].GalaxyNr)
		assert.Equal(t, s1.Permanent[i].Type, s2.Permanent[i].Type)
		assert.Equal(t, s1.Permanent[i].HaloNr, s2.Permanent[i].HaloNr)
	}
}

func TestMissingCentralRaisesInvariantViolation(t *testing.T) {
	// Two subhalos in one FOF group at the first snapshot, neither with
	// a progenitor: genesis only fires for the FOF-background halo, so
	// the satellite subhalo ends up with no Type-0/1 occupant.
	halos := []treedata.Halo{
		{Mvir: 10, Len: 1000, FirstProgenitor: treedata.NoIndex, NextProgenitor: treedata.NoIndex,
			Descendant: treedata.NoIndex, FirstHaloInFOFgroup: 0, NextHaloInFOFgroup: 1, SnapNum: 0},
		{Mvir: 1, Len: 100, FirstProgenitor: treedata.NoIndex, NextProgenitor: treedata.NoIndex,
			Descendant: treedata.NoIndex, FirstHaloInFOFgroup: 0, NextHaloInFOFgroup: treedata.NoIndex, SnapNum: 0},
	}
	store := treedata.NewStore(halos, 0, 0)
	store.ResetAux()
	u := testUnits()
	w := walker.New(store, u, testTimes(u), nil, 0, 0)

	err := w.Run()
	require.Error(t, err)
	var iv *faults.InvariantViolation
	require.ErrorAs(t, err, &iv)
}
