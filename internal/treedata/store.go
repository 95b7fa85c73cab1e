package treedata

import (
	"github.com/c2h5oh/datasize"

	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/units"
)

// MaxGalFac sets the initial working-array capacity relative to the
// halo count: max(MaxGalFac*haloCount, minInitialCapacity).
const MaxGalFac = 2

const minInitialCapacity = 10000

// growthFactor and growthFloor implement the spec §4.4/§9 capacity
// policy: grow by x1.25 with a minimum additive floor of 1000.
const (
	growthFactor = 1.25
	growthFloor  = 1000
)

// Store holds everything one tree traversal needs: the read-only halo
// array, its mutable aux array, the growable working galaxy array, and
// the permanent galaxy array appended to as galaxies finalize.
type Store struct {
	Halos []Halo
	Aux   []HaloAux

	working    []galaxy.Galaxy
	workingCap int
	hardCap    int

	Permanent []galaxy.Galaxy

	FileNr int32
}

// NewStore allocates a Store for a tree with the given halo count.
// hardCap <= 0 means unbounded (subject only to available memory).
func NewStore(halos []Halo, fileNr int32, hardCap int) *Store {
	initial := MaxGalFac * len(halos)
	if initial < minInitialCapacity {
		initial = minInitialCapacity
	}
	if hardCap > 0 && initial > hardCap {
		initial = hardCap
	}

	aux := make([]HaloAux, len(halos))

	return &Store{
		Halos:      halos,
		Aux:        aux,
		working:    make([]galaxy.Galaxy, 0, initial),
		workingCap: initial,
		hardCap:    hardCap,
		FileNr:     fileNr,
	}
}

// HaloView binds a halo to its tree-local index so it satisfies
// units.HaloLike (IsFOFBackground needs the halo's own position).
type HaloView struct {
	h   Halo
	idx int32
}

func (s *Store) HaloView(idx int32) HaloView { return HaloView{h: s.Halos[idx], idx: idx} }

func (v HaloView) IsFOFBackground() bool { return v.h.IsFOFBackground(v.idx) }
func (v HaloView) HaloMvir() float64     { return v.h.HaloMvir() }
func (v HaloView) HaloLen() int          { return v.h.HaloLen() }

var _ units.HaloLike = HaloView{}

// NumWorking returns the number of galaxies currently live in the
// working array.
func (s *Store) NumWorking() int { return len(s.working) }

// Working returns the working galaxy at index i.
func (s *Store) Working(i int) *galaxy.Galaxy { return &s.working[i] }

// NewWorkingGalaxy appends a zero-value galaxy to the working array,
// growing it per the x1.25/+1000 policy if full, and returns its index.
// Raises ResourceExhaustion if growth would exceed the configured hard
// cap.
func (s *Store) NewWorkingGalaxy(coords faults.Coordinates) (int, error) {
	if len(s.working) == cap(s.working) {
		if err := s.grow(coords); err != nil {
			return 0, err
		}
	}
	s.working = append(s.working, galaxy.Galaxy{})
	return len(s.working) - 1, nil
}

func (s *Store) grow(coords faults.Coordinates) error {
	cur := cap(s.working)
	next := int(float64(cur) * growthFactor)
	if next-cur < growthFloor {
		next = cur + growthFloor
	}
	if s.hardCap > 0 && next > s.hardCap {
		next = s.hardCap
	}
	if next <= cur {
		limit := datasize.ByteSize(uint64(s.hardCap) * galaxySize).HumanReadable()
		return &faults.ResourceExhaustion{
			Coords:   coords,
			Resource: "working galaxy array",
			Limit:    limit,
		}
	}

	grown := make([]galaxy.Galaxy, len(s.working), next)
	copy(grown, s.working)
	s.working = grown
	s.workingCap = next
	return nil
}

// galaxySize is an estimate used only for the human-readable diagnostic
// in ResourceExhaustion messages, not for any allocation decision.
const galaxySize = 512

// WorkingCapacityBytes reports the current working-array capacity as a
// human-readable byte size, for startup/progress diagnostics.
func (s *Store) WorkingCapacityBytes() string {
	return datasize.ByteSize(uint64(cap(s.working)) * galaxySize).HumanReadable()
}

// Finalize appends a working galaxy to the permanent array and returns
// its permanent index.
func (s *Store) Finalize(workingIdx int) int {
	s.Permanent = append(s.Permanent, s.working[workingIdx])
	return len(s.Permanent) - 1
}

// ResetAux zeroes the aux array for a fresh traversal; Halos is
// read-only and never reset.
func (s *Store) ResetAux() {
	for i := range s.Aux {
		s.Aux[i] = HaloAux{FirstGalaxy: NoIndex}
	}
}
