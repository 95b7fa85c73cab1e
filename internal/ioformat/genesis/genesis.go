// Package genesis defines the TreeFileReader contract the driver needs
// to interoperate with the Genesis HDF5 tree format of spec §6 (dataset
// group /Header with Ntrees/totNHalos/TreeNHalos[] attributes, per-tree
// groups holding Descendant/FirstProgenitor/.../SubHalfMass datasets).
// No HDF5 backend is vendored in this build (spec §1 treats the table
// itself, and by extension this format's C library dependency, as an
// external collaborator); NewReader documents that gap with a
// ConfigError instead of silently no-opping.
package genesis

import (
	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/treedata"
)

// TreeFileReader is the interface internal/driver depends on for any
// tree input format; internal/ioformat/lhalo satisfies it today, and a
// real HDF5-backed implementation of this package could be dropped in
// later without changing the driver.
type TreeFileReader interface {
	NumTrees() int32
	TreeHaloCount(treeIdx int32) int32
	ReadTree(treeIdx int32) ([]treedata.Halo, error)
	Close() error
}

// NewReader always fails: this build carries no HDF5 C binding. The
// error names the specific missing capability so a ConfigError surfaces
// at startup (spec §7's ConfigError scope) instead of a confusing
// failure the first time a tree is read.
func NewReader(path string) (TreeFileReader, error) {
	return nil, &faults.ConfigError{
		Key:    "TreeType",
		Reason: "genesis_lhalo_hdf5 requires an HDF5 backend not vendored in this build",
	}
}
