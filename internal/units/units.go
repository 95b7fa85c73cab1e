// Package units computes the cosmology and unit-system constants the
// physics pipeline consults (internal/physics) and the virial quantities
// derived from a halo record. All derived quantities are computed once,
// at construction, into a Units value passed explicitly through the
// pipeline rather than held in package-level globals (spec §9, "Unit
// duality").
package units

import "math"

// GravityCGS is Newton's constant in cm^3 g^-1 s^-2.
const GravityCGS = 6.672e-8

// SolarMassGrams is one solar mass in grams.
const SolarMassGrams = 1.989e33

// SecondsPerMegayear converts Myr to seconds.
const SecondsPerMegayear = 3.1556952e13

// Cosmology holds the cosmological parameters a run is configured with.
type Cosmology struct {
	Omega        float64 // matter density parameter
	OmegaLambda  float64
	Hubble_h     float64
	BaryonFrac   float64
	PartMass     float64 // code-unit mass of one simulation particle
}

// OmegaK returns the curvature density parameter implied by Omega and
// OmegaLambda.
func (c Cosmology) OmegaK() float64 { return 1 - c.Omega - c.OmegaLambda }

// UnitSystem holds the physical scale of the code's length/mass/velocity
// units, as configured by UnitLength_in_cm etc.
type UnitSystem struct {
	UnitLengthCM   float64
	UnitMassG      float64
	UnitVelocityCM float64
}

// Units holds every derived quantity computed once from a Cosmology and
// UnitSystem: code-unit gravity, critical density, Hubble constant, and
// the supernova energy/efficiency constants used by internal/physics.
type Units struct {
	Cosmology Cosmology
	System    UnitSystem

	UnitTime       float64 // UnitLength / UnitVelocity
	G              float64 // gravitational constant in code units
	HubbleCode     float64 // H0 in code units
	RhoCritCode    float64 // present-day critical density, code units
	UnitDensityCGS float64 // UnitMass / UnitLength^3, cgs density of one code-unit density

	EnergySNCode float64 // supernova energy per event, code units
	EtaSNCode    float64 // supernovae per solar mass formed, code units
}

// SNConstants are the physical supernova feedback inputs from the
// parameter file (EnergySN in erg, EtaSN in SN per solar mass).
type SNConstants struct {
	EnergySNErg float64
	EtaSN       float64
}

// NewUnits computes every derived quantity once.
func NewUnits(cos Cosmology, sys UnitSystem, sn SNConstants) Units {
	u := Units{Cosmology: cos, System: sys}

	u.UnitTime = sys.UnitLengthCM / sys.UnitVelocityCM
	u.UnitDensityCGS = sys.UnitMassG / (sys.UnitLengthCM * sys.UnitLengthCM * sys.UnitLengthCM)

	// G in code units: G_cgs * (UnitMass / UnitLength^3) * UnitTime^2
	u.G = GravityCGS * sys.UnitMassG * u.UnitTime * u.UnitTime / (sys.UnitLengthCM * sys.UnitLengthCM * sys.UnitLengthCM)

	// H0 in code units: 100 h km/s/Mpc converted through UnitVelocity/UnitLength.
	const hubbleCGS = 3.2407789e-18 // 100 km/s/Mpc in s^-1
	u.HubbleCode = hubbleCGS * cos.Hubble_h * u.UnitTime

	// Present-day critical density: 3 H0^2 / (8 pi G), code units.
	u.RhoCritCode = 3 * u.HubbleCode * u.HubbleCode / (8 * math.Pi * u.G)

	u.EnergySNCode = sn.EnergySNErg / (sys.UnitMassG * sys.UnitVelocityCM * sys.UnitVelocityCM)
	u.EtaSNCode = sn.EtaSN

	return u
}

// DensityTimeCGS returns the cgs value of one code-unit density times one
// code-unit time, the conversion factor spec §4.7.e's "x = proton*k_B*T/Λ
// converted to code units" divides through by.
func (u Units) DensityTimeCGS() float64 {
	return u.UnitDensityCGS * u.UnitTime
}

// Hubble returns H(z) in code units: H0 * E(a), a = 1/(1+z).
func (u Units) Hubble(z float64) float64 {
	a := 1.0 / (1.0 + z)
	return u.HubbleCode * EOfA(u.Cosmology, a)
}

// CriticalDensity returns rho_crit(z) in code units.
func (u Units) CriticalDensity(z float64) float64 {
	a := 1.0 / (1.0 + z)
	e := EOfA(u.Cosmology, a)
	return u.RhoCritCode * e * e
}

// EOfA evaluates E(a) = sqrt(Omega_m/a^3 + Omega_k/a^2 + Omega_Lambda).
func EOfA(c Cosmology, a float64) float64 {
	ok := c.OmegaK()
	return math.Sqrt(c.Omega/(a*a*a) + ok/(a*a) + c.OmegaLambda)
}
