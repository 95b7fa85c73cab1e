// Package gout implements the binary GalaxyOutput writer of spec §6: a
// per-snapshot file holding a (Ntrees, TotGalaxies, TreeNgals[Ntrees])
// header followed by fixed-layout Record values, one per output galaxy.
package gout

import (
	"encoding/binary"
	"io"
)

// Record mirrors the on-disk GalaxyOutput layout of spec §6, field order
// and types exactly as listed there. The blank field after Type is the
// 4-byte alignment padding that places GalaxyIndex on an 8-byte offset.
type Record struct {
	Type             int32
	_                int32
	GalaxyIndex      int64
	HaloIndex        int32
	FOFHaloIndex     int32
	TreeIndex        int32
	SnapNum          int32
	CentralGal       int32
	CentralMvir      float32
	MergeType        int32
	MergeIntoID      int32
	MergeIntoSnapNum int32
	DT               float32

	Pos  [3]float32
	Vel  [3]float32
	Spin [3]float32

	Len     int32
	Mvir    float32
	Rvir    float32
	Vvir    float32
	Vmax    float32
	VelDisp float32

	ColdGas         float32
	StellarMass     float32
	ClassicalBulge  float32
	SecularBulge    float32
	HotGas          float32
	EjectedMass     float32
	BlackHoleMass   float32
	ICS             float32

	MetalsColdGas     float32
	MetalsStellarMass float32
	MetalsBulgeMass   float32
	MetalsHotGas      float32
	MetalsEjectedMass float32
	MetalsICS         float32

	SfrDisk    float32
	SfrBulge   float32
	SfrDiskZ   float32
	SfrBulgeZ  float32

	DiskScaleRadius float32
	Cooling         float32
	Heating         float32

	LastMajorMerger float32
	LastMinorMerger float32
	OutflowRate     float32

	InfallMvir float32
	InfallVvir float32
	InfallVmax float32
}

// WriteAll writes one snapshot's GalaxyOutput file: header then records,
// in the natural little-endian layout spec §6 fixes: every field sits at
// an offset that is a multiple of its own size, which takes the one
// padding word after Type and no other (the record is 224 bytes).
func WriteAll(w io.Writer, treeNgals []int32, records []Record) error {
	ntrees := int32(len(treeNgals))
	totGalaxies := int32(len(records))

	if err := binary.Write(w, binary.LittleEndian, ntrees); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, totGalaxies); err != nil {
		return err
	}
	if len(treeNgals) > 0 {
		if err := binary.Write(w, binary.LittleEndian, treeNgals); err != nil {
			return err
		}
	}

	for i := range records {
		if err := binary.Write(w, binary.LittleEndian, &records[i]); err != nil {
			return err
		}
	}
	return nil
}
