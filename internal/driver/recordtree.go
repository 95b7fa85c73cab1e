package driver

import (
	"github.com/cosmotree/sage/internal/snapshot"
	"github.com/cosmotree/sage/internal/treedata"
	"github.com/cosmotree/sage/internal/units"
)

// recordTree implements spec §4.8 for one just-walked tree: select and
// translate the tree's permanent galaxies for every requested output
// snapshot, writing each snapshot's records to its own writer. Returns
// the total galaxy count finalized in this tree (across all snapshots,
// matching the driver's run-summary convention), for the caller's
// progress event.
func recordTree(store *treedata.Store, u units.Units, times units.SnapshotTimes, treeIdx, fileNr int32, writers map[int32]*outputWriter) (int, error) {
	total := 0
	for snap, w := range writers {
		selected := snapshot.Select(store.Permanent, snap)
		records := snapshot.BuildRecords(store.Permanent, selected, u, times, treeIdx, fileNr)
		if err := w.writeTree(treeIdx, records); err != nil {
			return total, err
		}
		total += len(records)
	}
	return total, nil
}
