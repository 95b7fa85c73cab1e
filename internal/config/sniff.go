package config

import (
	"github.com/gabriel-vasile/mimetype"

	"github.com/cosmotree/sage/internal/faults"
)

// hdf5MIME is the MIME type mimetype.Detect reports for HDF5 container
// files (magic bytes \x89HDF\r\n\x1a\n).
const hdf5MIME = "application/x-hdf"

// CorroborateTreeType sniffs the tree input file's content (not just
// its configured TreeType) and raises a ConfigError immediately when
// they disagree, rather than letting a mismatched TreeType surface as a
// confusing FormatError deep inside the per-format reader.
func CorroborateTreeType(sample []byte, treeType TreeType) error {
	detected := mimetype.Detect(sample)
	isHDF5 := detected.Is(hdf5MIME)

	switch treeType {
	case TreeTypeGenesisLHaloHDF5:
		if !isHDF5 {
			return &faults.ConfigError{Key: "TreeType", Reason: "configured as genesis_lhalo_hdf5 but tree file is not HDF5 (detected " + detected.String() + ")"}
		}
	case TreeTypeLHaloBinary:
		if isHDF5 {
			return &faults.ConfigError{Key: "TreeType", Reason: "configured as lhalo_binary but tree file is HDF5"}
		}
	default:
		return &faults.ConfigError{Key: "TreeType", Reason: "unsupported tree type: " + string(treeType)}
	}
	return nil
}
