package walker

import (
	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/treedata"
)

// finalizeGroup implements spec §4.6's "FOF-group finalisation": checks
// the one-Type-0-or-1-per-subhalo invariant, copies every non-Type-3
// galaxy into the permanent array (recording the aux window of its host
// halo), and writes merge results for galaxies that retired this step
// back into their progenitor's already-permanent entry.
func (w *Walker) finalizeGroup(fofHead int32, members []int) error {
	if err := w.checkOneCentralPerHalo(fofHead, members); err != nil {
		return err
	}

	centralPermIdx := -1
	var freshPermIdx []int

	for _, idx := range members {
		g := w.Store.Working(idx)
		g.FOFHaloNr = int(fofHead)
		orig, hasOrigin := w.origins[idx]

		if hasOrigin && orig.wasMerged {
			// Already retired before this step; nothing to do.
			continue
		}

		if g.Type == galaxy.TypeMerged {
			if hasOrigin {
				w.Store.Permanent[orig.permanentIdx].MergeType = g.MergeType
				w.Store.Permanent[orig.permanentIdx].MergeIntoID = g.MergeIntoID
				w.Store.Permanent[orig.permanentIdx].MergeIntoSnapNum = g.MergeIntoSnapNum
			}
			continue
		}

		permIdx := w.Store.Finalize(idx)
		if g.Type == galaxy.TypeCentral {
			centralPermIdx = permIdx
		}
		freshPermIdx = append(freshPermIdx, permIdx)

		aux := &w.Store.Aux[g.HaloNr]
		if aux.NGalaxies == 0 {
			aux.FirstGalaxy = permIdx
		}
		aux.NGalaxies++
	}

	if centralPermIdx >= 0 {
		for _, permIdx := range freshPermIdx {
			w.Store.Permanent[permIdx].CentralGal = centralPermIdx
		}
	}

	return nil
}

// checkOneCentralPerHalo enforces spec §4.6's invariant: exactly one
// Type-0-or-1 galaxy per (sub)halo of the group.
func (w *Walker) checkOneCentralPerHalo(fofHead int32, members []int) error {
	counts := make(map[int32]int)
	for _, idx := range members {
		g := w.Store.Working(idx)
		if g.Type == galaxy.TypeCentral || g.Type == galaxy.TypeSatellite {
			counts[int32(g.HaloNr)]++
		}
	}

	for haloNr := fofHead; haloNr != treedata.NoIndex; haloNr = w.Store.Halos[haloNr].NextHaloInFOFgroup {
		if counts[haloNr] != 1 {
			return &faults.InvariantViolation{
				Coords: faults.Coordinates{FileNr: int(w.FileNr), TreeNr: int(w.TreeNr), HaloNr: int(haloNr)},
				Reason: "expected exactly one Type-0-or-1 galaxy per subhalo",
			}
		}
	}
	return nil
}
