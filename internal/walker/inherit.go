package walker

import (
	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/treedata"
)

// inherit copies one progenitor galaxy into the descendant halo's
// working slot and applies the Type transition rules of spec §4.6:
// only the galaxy donated by the most-massive-progenitor-with-galaxies
// keeps tracking its halo (becoming Type 0 or 1 depending on whether the
// descendant is the FOF-background subhalo); every other Type 0/1
// galaxy loses its subhalo and becomes an orphan (Type 2). Type 3
// galaxies are carried over unchanged.
func (w *Walker) inherit(src galaxy.Galaxy, haloNr, progNr, mostMassive, fofHead int32) (int, error) {
	coords := faults.Coordinates{FileNr: int(w.FileNr), TreeNr: int(w.TreeNr), HaloNr: int(haloNr), GalaxyNr: src.GalaxyNr}
	idx, err := w.Store.NewWorkingGalaxy(coords)
	if err != nil {
		return 0, err
	}
	g := w.Store.Working(idx)
	*g = src
	g.HaloNr = int(haloNr)
	g.SnapNum = w.Store.Halos[haloNr].SnapNum

	if g.Type == galaxy.TypeMerged {
		return idx, nil
	}

	if g.Type != galaxy.TypeCentral && g.Type != galaxy.TypeSatellite {
		return idx, nil
	}

	g.PreviousMvir, g.PreviousVvir, g.PreviousVmax = g.Mvir, g.Vvir, g.Vmax

	if progNr != mostMassive {
		g.Mvir = 0
		if src.Type == galaxy.TypeCentral || src.MergTime == galaxy.MergeTimeUnknown {
			g.MergTime = 0.0
			g.InfallMvir, g.InfallVvir, g.InfallVmax = g.PreviousMvir, g.PreviousVvir, g.PreviousVmax
		}
		g.Type = galaxy.TypeOrphan
		return idx, nil
	}

	h := w.Store.Halos[haloNr]
	hv := w.Store.HaloView(haloNr)
	z := w.Times.Redshift(h.SnapNum)
	newMvir := w.Units.VirialMass(hv)
	newRvir := w.Units.VirialRadius(newMvir, z)
	newVvir := w.Units.VirialVelocity(newMvir, newRvir)

	g.Mvir = newMvir
	if newMvir > g.MvirMax {
		g.MvirMax = newMvir
	}
	if newRvir > g.Rvir {
		g.Rvir = newRvir
	}
	if newVvir > g.Vvir {
		g.Vvir = newVvir
	}
	if g.Rvir > g.RvirMax {
		g.RvirMax = g.Rvir
	}
	if g.Vvir > g.VvirMax {
		g.VvirMax = g.Vvir
	}
	g.Vmax = float64(h.Vmax)
	g.Len = h.Len
	g.Pos, g.Vel, g.Spin = h.Pos, h.Vel, h.Spin

	if haloNr == fofHead {
		g.Type = galaxy.TypeCentral
		g.MergeType = galaxy.MergeNone
		g.MergeIntoID = -1
		g.MergeIntoSnapNum = 0
		g.MergTime = galaxy.MergeTimeUnknown
		return idx, nil
	}

	if src.Type == galaxy.TypeCentral {
		g.InfallMvir, g.InfallVvir, g.InfallVmax = g.PreviousMvir, g.PreviousVvir, g.PreviousVmax
	}
	if g.MergTime == galaxy.MergeTimeUnknown {
		g.MergTime = mergerTime(w.Store, w.Units, w.Times, haloNr, fofHead, *g)
	}
	g.Type = galaxy.TypeSatellite

	return idx, nil
}

// satelliteHaloCounts reports the particle counts of the satellite's
// host subhalo and the FOF-group background halo, used by mergerTime.
func satelliteHaloCounts(s *treedata.Store, haloNr, fofHead int32) (nSat, nHost int32) {
	return s.Halos[haloNr].Len, s.Halos[fofHead].Len
}
