// Package lhalo implements the LHalo binary tree reader of spec §6:
// header (Ntrees, totNHalos, NHalosPerTree[Ntrees]), then packed halo
// records in tree order, with endianness auto-detected from a sanity
// check on Ntrees.
package lhalo

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/treedata"
)

// RecordSize is the on-disk byte size of one packed halo record: five
// int32 links, Len, three float32 masses, Pos/Vel/Spin float32 triples,
// VelDisp, Vmax, an int64 most-bound particle ID, and three trailing
// int32 fields plus SubHalfMass.
const RecordSize = 4*5 + 4 + 4*3 + 4*3 + 4*3 + 4 + 4 + 4*3 + 8 + 4 + 4 + 4 + 4

// Reader maps one LHalo binary tree file and exposes its per-tree halo
// slices without copying the whole file into the heap up front (spec
// §5's "All per-tree allocations released before the next tree is
// loaded" discipline starts from a single read-only mapping).
type Reader struct {
	data     mmap.MMap
	order    binary.ByteOrder
	ntrees   int32
	totHalos int32
	counts   []int32
	offsets  []int

	headerBytes int
}

// Open memory-maps path and parses its header, auto-detecting
// endianness from Ntrees alone (see detectEndianness). Per-tree counts
// that do not sum to totNHalos are a FormatError; the other byte order
// is not tried. The file descriptor is closed once the mapping is
// established; the mapping itself stays valid until Close.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &faults.MissingDataFile{Path: path, Err: err}
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, &faults.MissingDataFile{Path: path, Err: err}
	}

	r, err := parse(path, m)
	if err != nil {
		_ = m.Unmap()
		return nil, err
	}
	return r, nil
}

func parse(path string, data []byte) (*Reader, error) {
	if len(data) < 4 {
		return nil, &faults.FormatError{Reason: fmt.Sprintf("%s: file too short for header", path)}
	}

	order, err := detectEndianness(data)
	if err != nil {
		return nil, &faults.FormatError{Reason: fmt.Sprintf("%s: %v", path, err)}
	}

	ntrees := int32(order.Uint32(data[0:4]))
	if len(data) < 8+int(ntrees)*4 {
		return nil, &faults.FormatError{Reason: fmt.Sprintf("%s: header truncated", path)}
	}
	totHalos := int32(order.Uint32(data[4:8]))

	counts := make([]int32, ntrees)
	offsets := make([]int, ntrees)
	headerBytes := 8 + int(ntrees)*4

	cursor := 0
	for i := 0; i < int(ntrees); i++ {
		c := int32(order.Uint32(data[8+4*i : 12+4*i]))
		counts[i] = c
		offsets[i] = cursor
		cursor += int(c)
	}
	if int32(cursor) != totHalos {
		return nil, &faults.FormatError{Reason: fmt.Sprintf("%s: per-tree counts sum to %d, header says %d", path, cursor, totHalos)}
	}

	needed := headerBytes + int(totHalos)*RecordSize
	if len(data) < needed {
		return nil, &faults.FormatError{Reason: fmt.Sprintf("%s: expected at least %d bytes, file has %d", path, needed, len(data))}
	}

	return &Reader{
		data: data, order: order,
		ntrees: ntrees, totHalos: totHalos,
		counts: counts, offsets: offsets,
		headerBytes: headerBytes,
	}, nil
}

// detectEndianness reads Ntrees in both orders and picks the one that
// yields a plausible (positive, not absurdly large) tree count,
// matching spec §6's "Endianness auto-detected" requirement.
func detectEndianness(data []byte) (binary.ByteOrder, error) {
	le := int32(binary.LittleEndian.Uint32(data[0:4]))
	be := int32(binary.BigEndian.Uint32(data[0:4]))

	lePlausible := le > 0 && le < 1<<24
	bePlausible := be > 0 && be < 1<<24

	switch {
	case lePlausible && !bePlausible:
		return binary.LittleEndian, nil
	case bePlausible && !lePlausible:
		return binary.BigEndian, nil
	case lePlausible && bePlausible:
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("cannot determine endianness from Ntrees header")
	}
}

// NumTrees reports the number of trees in the file.
func (r *Reader) NumTrees() int32 { return r.ntrees }

// TreeHaloCount reports treeIdx's halo count.
func (r *Reader) TreeHaloCount(treeIdx int32) int32 { return r.counts[treeIdx] }

// ReadTree decodes treeIdx's halo records into a fresh []treedata.Halo,
// released by the caller once the tree finishes (spec §5 memory
// discipline).
func (r *Reader) ReadTree(treeIdx int32) ([]treedata.Halo, error) {
	n := int(r.counts[treeIdx])
	start := r.headerBytes + r.offsets[treeIdx]*RecordSize

	halos := make([]treedata.Halo, n)
	for i := 0; i < n; i++ {
		off := start + i*RecordSize
		if off+RecordSize > len(r.data) {
			return nil, &faults.FormatError{Reason: fmt.Sprintf("tree %d halo %d: record runs past end of file", treeIdx, i)}
		}
		halos[i] = decodeRecord(r.data[off:off+RecordSize], r.order)
	}
	return halos, nil
}

func decodeRecord(b []byte, order binary.ByteOrder) treedata.Halo {
	i32 := func(off int) int32 { return int32(order.Uint32(b[off : off+4])) }
	f32 := func(off int) float32 { return math.Float32frombits(order.Uint32(b[off : off+4])) }
	i64 := func(off int) int64 { return int64(order.Uint64(b[off : off+8])) }

	var h treedata.Halo
	h.Descendant = i32(0)
	h.FirstProgenitor = i32(4)
	h.NextProgenitor = i32(8)
	h.FirstHaloInFOFgroup = i32(12)
	h.NextHaloInFOFgroup = i32(16)

	h.Len = i32(20)

	// MMean200(24), Mvir(28), MTopHat(32)
	h.Mvir = f32(28)

	h.Pos[0], h.Pos[1], h.Pos[2] = f32(36), f32(40), f32(44)
	h.Vel[0], h.Vel[1], h.Vel[2] = f32(48), f32(52), f32(56)

	h.VelDisp = f32(60)
	h.Vmax = f32(64)
	h.Spin[0], h.Spin[1], h.Spin[2] = f32(68), f32(72), f32(76)

	h.MostBoundID = i64(80)

	h.SnapNum = i32(88)
	h.FileNr = i32(92)
	h.SubHaloIdx = i32(96)
	// SubHalfMass(100) unused by treedata.Halo

	return h
}

// Close unmaps the file.
func (r *Reader) Close() error { return r.data.Unmap() }
