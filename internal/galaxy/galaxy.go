// Package galaxy implements the Galaxy entity of spec §3: its
// reservoirs, dynamical state, and lifecycle, plus the reservoir
// operations the physics pipeline (internal/physics) drives.
package galaxy

// Msun is a code-unit solar mass. The alias documents intent at call
// sites without introducing a distinct numeric type.
type Msun = float64

// Type classifies a galaxy's place in its (sub)halo (spec §3).
type Type int32

const (
	// TypeCentral is the central galaxy of a FOF-group background halo.
	TypeCentral Type = 0
	// TypeSatellite is a satellite still inside a resolved subhalo.
	TypeSatellite Type = 1
	// TypeOrphan is a satellite whose subhalo has been disrupted; its
	// body is still carried pending merger or further disruption.
	TypeOrphan Type = 2
	// TypeMerged is a retired galaxy: inert, never touched again.
	TypeMerged Type = 3
)

// MergeTimeUnknown is the sentinel value for MergTime before a
// dynamical-friction estimate has been computed (spec §3).
const MergeTimeUnknown = 999.9

// MergeKind records why/how a galaxy finished (spec §3).
type MergeKind int32

const (
	MergeNone            MergeKind = 0
	MergeMinor           MergeKind = 1
	MergeMajor           MergeKind = 2
	MergeDiskInstability MergeKind = 3
	MergeDisruptedToICS  MergeKind = 4
)

// Reservoirs holds the seven mass reservoirs of spec §3, each paired
// with an absolute-metal-mass counterpart.
type Reservoirs struct {
	ColdGas     Msun
	StellarMass Msun
	BulgeMass   Msun
	HotGas      Msun
	EjectedMass Msun
	ICS         Msun
	BlackHole   Msun

	MetalsColdGas     Msun
	MetalsStellarMass Msun
	MetalsBulgeMass   Msun
	MetalsHotGas      Msun
	MetalsEjectedMass Msun
	MetalsICS         Msun
	MetalsBlackHole   Msun
}

// Steps is the substep count per snapshot interval (spec §4.7).
const Steps = 10

// SFRHistory tracks the per-substep star-formation record spec §3
// requires: disk and bulge SFR, plus the cold gas/metals consumed.
type SFRHistory struct {
	DiskSFR     [Steps]Msun
	BulgeSFR    [Steps]Msun
	ColdGas     [Steps]Msun
	ColdMetals  [Steps]Msun
}

// Galaxy is a mutable tree-lifetime entity; see spec §3 for the full
// field inventory.
type Galaxy struct {
	// Identity.
	GalaxyNr    int // unique per-tree sequence number
	HaloNr      int // host-halo tree-local index
	SnapNum     int32
	MostBoundID int64

	Type       Type
	CentralGal int // working-array index of this FOF group's central
	FOFHaloNr  int // tree-local halo index of this FOF group's background halo

	// Dynamical state.
	Pos  [3]float32
	Vel  [3]float32
	Spin [3]float32
	Mvir float64
	Rvir float64
	Vvir float64
	Vmax float64
	Len  int32

	MvirMax float64 // sticky maxima: never shrink on a central
	RvirMax float64
	VvirMax float64

	DiskScaleRadius float64 // set once at birth from halo spin

	Reservoirs
	SFR SFRHistory

	// Merger/timing.
	MergTime          float64
	MergeType         MergeKind
	MergeIntoID       int // index in output order of destination, -1 none
	MergeIntoSnapNum  int32
	TimeOfLastMajorMerger Msun
	TimeOfLastMinorMerger Msun

	QuasarModeBHaccretionMass Msun
	Cooling                   float64
	Heating                   float64
	OutflowRate               float64
	RHeat                     float64 // cumulative AGN heating radius

	// Infall snapshot: properties when the galaxy last became a
	// satellite.
	InfallMvir float64
	InfallVvir float64
	InfallVmax float64

	// previousMvir/Vvir/Vmax recorded by the walker each step a Type 0/1
	// galaxy is carried forward (spec §4.6), consumed by the disruption
	// and infall-stamping rules.
	PreviousMvir float64
	PreviousVvir float64
	PreviousVmax float64
}

// InitGalaxy constructs a freshly-born central galaxy (spec §4.6
// "Genesis rule"), with all reservoirs at zero and MergTime unknown.
func InitGalaxy(galaxyNr, haloNr int, snapNum int32, mostBoundID int64, diskScaleRadius float64) Galaxy {
	return Galaxy{
		GalaxyNr:        galaxyNr,
		HaloNr:          haloNr,
		SnapNum:         snapNum,
		MostBoundID:     mostBoundID,
		Type:            TypeCentral,
		DiskScaleRadius: diskScaleRadius,
		MergTime:        MergeTimeUnknown,
		MergeIntoID:     -1,
	}
}
