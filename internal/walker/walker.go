// Package walker implements the tree traversal of spec §4.6: depth-first
// progenitor-first recursion, FOF-group assembly, galaxy inheritance and
// demotion, the genesis rule, and the dynamical-friction merger-time
// estimate. It produces, for every halo, the working set of galaxies it
// hosts, then hands each finished FOF group to an injected evolver
// (internal/physics, wired by internal/driver) before finalizing the
// group's galaxies into the permanent array.
package walker

import (
	"math"

	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/treedata"
	"github.com/cosmotree/sage/internal/units"
)

// GroupEvolver runs the physics pipeline (spec §4.7) over one FOF
// group's working galaxies for one snapshot interval. members indexes
// into store's working array. The walker does not know how to evolve
// galaxies itself; internal/physics supplies this, internal/driver wires
// it in, keeping C6 and C7 independently testable.
type GroupEvolver interface {
	EvolveGroup(store *treedata.Store, u units.Units, times units.SnapshotTimes, fofHead int32, members []int, fileNr, treeNr int32) error
}

// Walker drives one tree's traversal against a Store already loaded
// with that tree's halos.
type Walker struct {
	Store   *treedata.Store
	Units   units.Units
	Times   units.SnapshotTimes
	Evolver GroupEvolver
	FileNr  int32
	TreeNr  int32

	nextGalaxyNr int
	origins      map[int]origin
}

// origin records, for a working-array galaxy copied from a progenitor,
// where it came from in the permanent array and whether it was already
// retired (Type 3) when copied — finalizeGroup uses this to write merge
// results back to the correct ancestor entry instead of re-appending it
// (spec §4.6 "FOF-group finalisation").
type origin struct {
	permanentIdx int
	wasMerged    bool
}

// New constructs a Walker for one tree.
func New(store *treedata.Store, u units.Units, times units.SnapshotTimes, evolver GroupEvolver, fileNr, treeNr int32) *Walker {
	return &Walker{Store: store, Units: u, Times: times, Evolver: evolver, FileNr: fileNr, TreeNr: treeNr}
}

// Run traverses every halo in the tree, evolving every FOF group
// exactly once. Call once per tree after Store.ResetAux.
func (w *Walker) Run() error {
	for i := range w.Store.Halos {
		if err := w.construct(int32(i)); err != nil {
			return err
		}
	}
	return nil
}

// construct implements the traversal contract of spec §4.6: recurse
// into this halo's own progenitors, then (once per FOF group) recurse
// into every other member's progenitors, then, once the group's
// background halo is reached, assemble and evolve the whole group.
func (w *Walker) construct(haloNr int32) error {
	if w.Store.Aux[haloNr].DoneFlag {
		return nil
	}
	w.Store.Aux[haloNr].DoneFlag = true

	for prog := w.Store.Halos[haloNr].FirstProgenitor; prog != treedata.NoIndex; prog = w.Store.Halos[prog].NextProgenitor {
		if err := w.construct(prog); err != nil {
			return err
		}
	}

	if w.Store.Aux[haloNr].HaloFlag == 0 {
		w.Store.Aux[haloNr].HaloFlag = 1
		for member := w.Store.Halos[haloNr].FirstHaloInFOFgroup; member != treedata.NoIndex; member = w.Store.Halos[member].NextHaloInFOFgroup {
			if w.Store.Aux[member].HaloFlag != 0 {
				continue
			}
			w.Store.Aux[member].HaloFlag = 1
			for prog := w.Store.Halos[member].FirstProgenitor; prog != treedata.NoIndex; prog = w.Store.Halos[prog].NextProgenitor {
				if err := w.construct(prog); err != nil {
					return err
				}
			}
		}
	}

	if haloNr == w.Store.Halos[haloNr].FirstHaloInFOFgroup {
		members, err := w.joinGroup(haloNr)
		if err != nil {
			return err
		}
		if w.Evolver != nil {
			if err := w.Evolver.EvolveGroup(w.Store, w.Units, w.Times, haloNr, members, w.FileNr, w.TreeNr); err != nil {
				return err
			}
		}
		return w.finalizeGroup(haloNr, members)
	}

	return nil
}

// joinGroup assembles the working galaxy array for one FOF group,
// applying per-halo galaxy inheritance (spec §4.6) and the genesis
// rule, and returns the working-array indices of every galaxy now
// resident in the group.
func (w *Walker) joinGroup(fofHead int32) ([]int, error) {
	var members []int

	for haloNr := fofHead; haloNr != treedata.NoIndex; haloNr = w.Store.Halos[haloNr].NextHaloInFOFgroup {
		mostMassive := mostMassiveProgenitorWithGalaxies(w.Store, haloNr)

		bornAny := false
		for prog := w.Store.Halos[haloNr].FirstProgenitor; prog != treedata.NoIndex; prog = w.Store.Halos[prog].NextProgenitor {
			firstGal := w.Store.Aux[prog].FirstGalaxy
			n := w.Store.Aux[prog].NGalaxies
			for gi := 0; gi < n; gi++ {
				bornAny = true
				permIdx := firstGal + gi
				src := w.Store.Permanent[permIdx]
				idx, err := w.inherit(src, haloNr, prog, mostMassive, fofHead)
				if err != nil {
					return nil, err
				}
				if w.origins == nil {
					w.origins = make(map[int]origin)
				}
				w.origins[idx] = origin{permanentIdx: permIdx, wasMerged: src.Type == galaxy.TypeMerged}
				members = append(members, idx)
			}
		}

		if !bornAny && haloNr == fofHead {
			idx, err := w.genesis(haloNr)
			if err != nil {
				return nil, err
			}
			members = append(members, idx)
		}
	}

	return members, nil
}

// genesis implements spec §4.6's "Genesis rule".
func (w *Walker) genesis(haloNr int32) (int, error) {
	coords := faults.Coordinates{FileNr: int(w.FileNr), TreeNr: int(w.TreeNr), HaloNr: int(haloNr)}
	idx, err := w.Store.NewWorkingGalaxy(coords)
	if err != nil {
		return 0, err
	}

	h := w.Store.Halos[haloNr]
	hv := w.Store.HaloView(haloNr)
	z := w.Times.Redshift(h.SnapNum)
	mvir := w.Units.VirialMass(hv)
	rvir := w.Units.VirialRadius(mvir, z)
	vvir := w.Units.VirialVelocity(mvir, rvir)
	scaleRadius := diskScaleRadius(h, rvir, vvir)

	g := galaxy.InitGalaxy(w.nextGalaxyNr, int(haloNr), h.SnapNum, h.MostBoundID, scaleRadius)
	w.nextGalaxyNr++
	g.Mvir, g.Rvir, g.Vvir = mvir, rvir, vvir
	g.MvirMax, g.RvirMax, g.VvirMax = mvir, rvir, vvir
	g.Vmax = float64(h.Vmax)
	g.Len = h.Len
	g.Pos, g.Vel, g.Spin = h.Pos, h.Vel, h.Spin
	*w.Store.Working(idx) = g

	return idx, nil
}

// diskScaleRadius derives a once-only birth scale radius from the
// halo's spin magnitude and virial velocity, following the standard
// angular-momentum-support estimate `lambda_spin * Rvir / sqrt(2)` with
// `lambda_spin = |Spin| / (sqrt(2) * Vvir * Rvir)`: the spec leaves the
// exact coefficient to implementation, only requiring it be set once at
// birth.
func diskScaleRadius(h treedata.Halo, rvir, vvir float64) float64 {
	if rvir <= 0 || vvir <= 0 {
		return 0
	}
	spinMag := math.Sqrt(float64(h.Spin[0])*float64(h.Spin[0]) + float64(h.Spin[1])*float64(h.Spin[1]) + float64(h.Spin[2])*float64(h.Spin[2]))
	lambda := spinMag / (1.41421356237 * vvir * rvir)
	return lambda * rvir / 1.41421356237
}

// mostMassiveProgenitorWithGalaxies implements spec §4.6's
// "Most-massive-progenitor selection": among haloNr's direct
// progenitors, the one with the largest Len that hosts at least one
// galaxy, falling back to FirstProgenitor (possibly empty) if none
// qualify.
func mostMassiveProgenitorWithGalaxies(s *treedata.Store, haloNr int32) int32 {
	best := int32(treedata.NoIndex)
	var bestLen int32 = -1
	for prog := s.Halos[haloNr].FirstProgenitor; prog != treedata.NoIndex; prog = s.Halos[prog].NextProgenitor {
		if s.Aux[prog].NGalaxies > 0 && s.Halos[prog].Len > bestLen {
			best = prog
			bestLen = s.Halos[prog].Len
		}
	}
	if best != treedata.NoIndex {
		return best
	}
	return s.Halos[haloNr].FirstProgenitor
}
