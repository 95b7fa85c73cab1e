// Package snapshot implements the Snapshot Recorder of spec §4.8: after
// a tree completes, select its permanent galaxies by requested output
// snapshot, translate them into the external GalaxyOutput record
// (internal/ioformat/gout), and remap mergeIntoID to index positions
// within the same snapshot's output rather than the tree's permanent
// array.
package snapshot

import (
	"math"

	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/ioformat/gout"
	"github.com/cosmotree/sage/internal/units"
)

// TreeFactor and FileFactor are spec §4.8's GalaxyIndex components:
// GalaxyIndex = GalaxyNr + TreeFactor*treeIdx + FileFactor*fileIdx,
// chosen large enough that the three components are bijectively
// recoverable for any run under 1e9 galaxies/tree and 1e3 trees/file.
const (
	TreeFactor = int64(1_000_000_000)
	FileFactor = int64(1_000_000_000_000)
)

// GalaxyIndex computes spec §4.8's global galaxy index.
func GalaxyIndex(galaxyNr int, treeIdx, fileIdx int32) int64 {
	return int64(galaxyNr) + TreeFactor*int64(treeIdx) + FileFactor*int64(fileIdx)
}

// Select returns, in permanent-array order, the indices of galaxies in
// permanent whose SnapNum matches snapNum.
func Select(permanent []galaxy.Galaxy, snapNum int32) []int {
	var out []int
	for i := range permanent {
		if permanent[i].SnapNum == snapNum {
			out = append(out, i)
		}
	}
	return out
}

// BuildRecords converts one tree's selected galaxies into output
// records for a single snapshot, performing the unit conversions spec
// §4.8 requires (SFR to M_sun/yr, cooling/heating to log10(erg/s),
// merger times to Myr, outflow to M_sun/yr) and the two-pass
// mergeIntoID remap: mergeIntoID on a selected galaxy must index into
// this same output slice, not the tree's permanent array, so a
// permanent-index -> output-slice-index map is built first.
func BuildRecords(permanent []galaxy.Galaxy, selected []int, u units.Units, times units.SnapshotTimes, treeIdx, fileIdx int32) []gout.Record {
	remap := make(map[int]int32, len(selected))
	for outIdx, permIdx := range selected {
		remap[permIdx] = int32(outIdx)
	}

	records := make([]gout.Record, len(selected))
	for outIdx, permIdx := range selected {
		g := permanent[permIdx]
		dt := intervalDT(times, g.SnapNum)
		records[outIdx] = buildRecord(g, permanent, remap, u, dt, treeIdx, fileIdx)
	}
	return records
}

// intervalDT returns the snapshot interval (in code time units) that
// produced snapNum's galaxies, mirroring the width physics.Pipeline
// integrates over; snapshot 0 has no prior interval.
func intervalDT(times units.SnapshotTimes, snapNum int32) float64 {
	if snapNum <= 0 {
		return 0
	}
	return times.Age(snapNum-1) - times.Age(snapNum)
}

func buildRecord(g galaxy.Galaxy, permanent []galaxy.Galaxy, remap map[int]int32, u units.Units, dt float64, treeIdx, fileIdx int32) gout.Record {
	mergeIntoID := int32(-1)
	if g.MergeIntoID >= 0 {
		if remapped, ok := remap[g.MergeIntoID]; ok {
			mergeIntoID = remapped
		}
	}

	centralMvir := g.Mvir
	if g.CentralGal >= 0 && g.CentralGal < len(permanent) {
		centralMvir = permanent[g.CentralGal].Mvir
	}

	years := secondsToYears(u)

	return gout.Record{
		Type:             int32(g.Type),
		GalaxyIndex:      GalaxyIndex(g.GalaxyNr, treeIdx, fileIdx),
		HaloIndex:        int32(g.HaloNr),
		FOFHaloIndex:     int32(g.FOFHaloNr),
		TreeIndex:        treeIdx,
		SnapNum:          g.SnapNum,
		CentralGal:       int32(g.CentralGal),
		CentralMvir:      float32(centralMvir),
		MergeType:        int32(g.MergeType),
		MergeIntoID:      mergeIntoID,
		MergeIntoSnapNum: g.MergeIntoSnapNum,
		DT:               float32(dt),

		Pos:  g.Pos,
		Vel:  g.Vel,
		Spin: g.Spin,

		Len:     g.Len,
		Mvir:    float32(g.Mvir),
		Rvir:    float32(g.Rvir),
		Vvir:    float32(g.Vvir),
		Vmax:    float32(g.Vmax),
		VelDisp: 0,

		ColdGas:        float32(g.ColdGas),
		StellarMass:    float32(g.StellarMass),
		ClassicalBulge: float32(g.BulgeMass),
		SecularBulge:   0,
		HotGas:         float32(g.HotGas),
		EjectedMass:    float32(g.EjectedMass),
		BlackHoleMass:  float32(g.BlackHole),
		ICS:            float32(g.ICS),

		MetalsColdGas:     float32(g.MetalsColdGas),
		MetalsStellarMass: float32(g.MetalsStellarMass),
		MetalsBulgeMass:   float32(g.MetalsBulgeMass),
		MetalsHotGas:      float32(g.MetalsHotGas),
		MetalsEjectedMass: float32(g.MetalsEjectedMass),
		MetalsICS:         float32(g.MetalsICS),

		SfrDisk:   float32(sfrRate(g.SFR.DiskSFR[:], dt, years)),
		SfrBulge:  float32(sfrRate(g.SFR.BulgeSFR[:], dt, years)),
		SfrDiskZ:  float32(safeMetallicity(sumHistory(g.SFR.ColdMetals[:]), sumHistory(g.SFR.ColdGas[:]))),
		SfrBulgeZ: float32(safeMetallicity(sumHistory(g.SFR.ColdMetals[:]), sumHistory(g.SFR.ColdGas[:]))),

		DiskScaleRadius: float32(g.DiskScaleRadius),
		Cooling:         log10OrFloor(g.Cooling),
		Heating:         log10OrFloor(g.Heating),

		LastMajorMerger: float32(codeTimeToMyr(u, g.TimeOfLastMajorMerger)),
		LastMinorMerger: float32(codeTimeToMyr(u, g.TimeOfLastMinorMerger)),
		OutflowRate:     float32(g.OutflowRate * years),

		InfallMvir: float32(g.InfallMvir),
		InfallVvir: float32(g.InfallVvir),
		InfallVmax: float32(g.InfallVmax),
	}
}

// sfrRate converts a substep history's total mass formed over the
// interval into a rate in M_sun/yr: total mass divided by the
// interval's width (converted from code time to years).
func sfrRate(history []float64, dt, unitTimeYears float64) float64 {
	if dt <= 0 {
		return 0
	}
	return sumHistory(history) / (dt * unitTimeYears)
}

func sumHistory(history []float64) float64 {
	var total float64
	for _, v := range history {
		total += v
	}
	return total
}

func safeMetallicity(metals, mass float64) float64 {
	if mass <= 0 {
		return 0
	}
	return metals / mass
}

// log10OrFloor implements spec §4.8's "cooling/heating as log10(erg/s)"
// conversion; non-positive accumulators (nothing cooled/heated this
// interval) have no defined log and are floored to 0 rather than -Inf.
func log10OrFloor(v float64) float32 {
	if v <= 0 {
		return 0
	}
	return float32(math.Log10(v))
}

// secondsToYears converts a code-unit rate (mass per code time) to mass
// per year, via the unit system's UnitTime expressed in seconds.
func secondsToYears(u units.Units) float64 {
	const secondsPerYear = 3.1556952e7
	return u.UnitTime / secondsPerYear
}

// codeTimeToMyr converts a code-unit time (age, as stamped by
// physics.Pipeline's TimeOfLastMajor/MinorMerger) into megayears.
func codeTimeToMyr(u units.Units, t float64) float64 {
	return t * u.UnitTime / units.SecondsPerMegayear
}
