// Package treedata holds the per-tree working state the walker
// (internal/walker) and recorder (internal/snapshot) operate over: the
// immutable halo array read from the tree file, its mutable traversal
// aux array, and the growable galaxy arrays. Pointer graphs in the
// source format become (array, index) pairs here (spec §9).
package treedata

// NoIndex marks the absence of a tree-local pointer.
const NoIndex = -1

// Halo is one tree-local node, read-only for the lifetime of a tree
// traversal. Fields and types mirror the LHalo/Genesis on-disk record
// (spec §3, §6).
type Halo struct {
	Len  int32
	Mvir float32

	Pos [3]float32
	Vel [3]float32

	VelDisp float32
	Vmax    float32
	Spin    [3]float32

	MostBoundID int64
	SnapNum     int32
	FileNr      int32
	SubHaloIdx  int32

	FirstProgenitor     int32
	NextProgenitor      int32
	Descendant          int32
	FirstHaloInFOFgroup int32
	NextHaloInFOFgroup  int32
}

// IsFOFBackground reports whether this halo is the background (first)
// subhalo of its FOF group, the "FirstHaloInFOFgroup == self" test.
func (h Halo) IsFOFBackground(selfIdx int32) bool {
	return h.FirstHaloInFOFgroup == selfIdx
}

// HaloMvir and HaloLen satisfy units.HaloLike for virial-quantity
// formulas; IsFOFBackground needs the halo's own index, which Halo does
// not carry, so Store exposes a bound adapter (see store.go).
func (h Halo) HaloMvir() float64 { return float64(h.Mvir) }
func (h Halo) HaloLen() int      { return int(h.Len) }

// HaloAux is the mutable per-halo traversal state the walker resets to
// zero before processing each tree (spec §3, §4.6).
type HaloAux struct {
	DoneFlag bool
	HaloFlag int // 0 untouched, 1 progenitors done

	NGalaxies   int
	FirstGalaxy int
}
