// Package physics implements the per-substep baryonic physics pipeline
// of spec §4.7: infall, reionization suppression, reincorporation,
// satellite stripping, cooling, radio-mode AGN heating, star formation
// and feedback, disk instability, and satellite merger/disruption
// resolution. Pipeline satisfies internal/walker.GroupEvolver, so
// internal/driver is the only place that wires C6 and C7 together.
package physics

// AGNRecipe selects the black-hole accretion model used by radio-mode
// heating (spec §4.7.f / §6 AGNrecipeOn).
type AGNRecipe int

const (
	AGNOff AGNRecipe = iota
	AGNEmpirical
	AGNBondiHoyle
	AGNColdCloud
)

// SFPrescription selects between the two star-formation variants spec
// §9's Open Questions leaves coexisting in the source (plain Kennicutt
// threshold vs. clumping-factor-weighted).
type SFPrescription int

const (
	SFPlain SFPrescription = iota
	SFClumping
)

// ReincorporationModel selects between the two reincorporation
// variants of spec §4.7.c (an Open Question the spec leaves to the
// implementation to pick and document).
type ReincorporationModel int

const (
	ReincorporationThreshold ReincorporationModel = iota
	ReincorporationLinear
)

// Config holds every physics switch and tunable parameter recognized
// from the parameter file (spec §6), passed explicitly rather than held
// in package globals (spec §9 "Global mutable config").
type Config struct {
	ReionizationOn     bool
	SupernovaRecipeOn  bool
	DiskInstabilityOn  bool
	SFprescription     SFPrescription
	AGNrecipeOn        AGNRecipe
	Reincorporation    ReincorporationModel

	SfrEfficiency              float64
	FeedbackReheatingEpsilon   float64
	FeedbackEjectionEfficiency float64
	RecycleFraction            float64
	Yield                      float64
	FracZleaveDisk             float64
	ReIncorporationFactor      float64
	RadioModeEfficiency        float64
	QuasarModeEfficiency       float64
	BlackHoleGrowthRate        float64
	ThreshMajorMerger          float64
	ThresholdSatDisruption     float64
	Reionization_z0            float64
	Reionization_zr            float64
	ClumpingFactor             float64
}
