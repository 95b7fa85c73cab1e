package galaxy

import (
	"github.com/cosmotree/sage/internal/numeric"
)

// Reservoir names one of the seven mass reservoirs of spec §3, so the
// pipeline can address "this one" and "that one" without a named method
// per pair.
type Reservoir int

const (
	ReservoirColdGas Reservoir = iota
	ReservoirStellarMass
	ReservoirBulgeMass
	ReservoirHotGas
	ReservoirEjectedMass
	ReservoirICS
	ReservoirBlackHole
)

func massPtr(g *Galaxy, r Reservoir) *Msun {
	switch r {
	case ReservoirColdGas:
		return &g.ColdGas
	case ReservoirStellarMass:
		return &g.StellarMass
	case ReservoirBulgeMass:
		return &g.BulgeMass
	case ReservoirHotGas:
		return &g.HotGas
	case ReservoirEjectedMass:
		return &g.EjectedMass
	case ReservoirICS:
		return &g.ICS
	case ReservoirBlackHole:
		return &g.BlackHole
	default:
		panic("galaxy: unknown reservoir")
	}
}

func metalsPtr(g *Galaxy, r Reservoir) *Msun {
	switch r {
	case ReservoirColdGas:
		return &g.MetalsColdGas
	case ReservoirStellarMass:
		return &g.MetalsStellarMass
	case ReservoirBulgeMass:
		return &g.MetalsBulgeMass
	case ReservoirHotGas:
		return &g.MetalsHotGas
	case ReservoirEjectedMass:
		return &g.MetalsEjectedMass
	case ReservoirICS:
		return &g.MetalsICS
	case ReservoirBlackHole:
		return &g.MetalsBlackHole
	default:
		panic("galaxy: unknown reservoir")
	}
}

// snapNonNegative clamps tiny negative values below epsilon to zero,
// the "clamp-and-log" edge case of spec §7/§9 rather than an abort.
func snapNonNegative(v Msun) Msun {
	if numeric.IsZero(v) || v < 0 {
		return 0
	}
	return v
}

// AddToHot adds mass to HotGas, carrying metals proportional to the
// metallicity of the mass being added (srcMetallicity, typically the
// donor reservoir's own metallicity).
func AddToHot(g *Galaxy, mass Msun, srcMetallicity float64) {
	g.HotGas += mass
	g.MetalsHotGas += mass * srcMetallicity
	g.HotGas = snapNonNegative(g.HotGas)
	g.MetalsHotGas = snapNonNegative(g.MetalsHotGas)
}

// RemoveFromHot removes mass from HotGas, removing metals at HotGas's
// own current metallicity, capped so neither reservoir goes negative.
func RemoveFromHot(g *Galaxy, mass Msun) {
	if mass > g.HotGas {
		mass = g.HotGas
	}
	z := numeric.Metallicity(g.HotGas, g.MetalsHotGas)
	g.HotGas -= mass
	g.MetalsHotGas -= mass * z
	g.HotGas = snapNonNegative(g.HotGas)
	g.MetalsHotGas = snapNonNegative(g.MetalsHotGas)
}

// Transfer moves mass from src to dst with metal proportionality (the
// metallicity of src's own content), capped so src never goes negative.
// The destination's post-transfer mass is snapped non-negative, the
// "asserts post-condition non-negative" contract of spec §4.5.
func Transfer(g *Galaxy, src, dst Reservoir, mass Msun) {
	srcMass := massPtr(g, src)
	srcMetals := metalsPtr(g, src)
	dstMass := massPtr(g, dst)
	dstMetals := metalsPtr(g, dst)

	if mass > *srcMass {
		mass = *srcMass
	}
	if mass <= 0 {
		return
	}

	z := numeric.Metallicity(*srcMass, *srcMetals)
	metalMass := mass * z

	*srcMass -= mass
	*srcMetals -= metalMass
	*dstMass += mass
	*dstMetals += metalMass

	*srcMass = snapNonNegative(*srcMass)
	*srcMetals = snapNonNegative(*srcMetals)
	*dstMass = snapNonNegative(*dstMass)
	*dstMetals = snapNonNegative(*dstMetals)
}

// TransferAllCross moves the entirety of reservoir r (mass and metals)
// from src to dst, two distinct galaxies, zeroing src's copy. Used by
// the infall step to fold satellite Ejected/ICS into the FOF-group
// central before computing the group's baryon budget (spec §4.7.a).
func TransferAllCross(src, dst *Galaxy, r Reservoir) {
	srcMass := massPtr(src, r)
	srcMetals := metalsPtr(src, r)
	*massPtr(dst, r) += *srcMass
	*metalsPtr(dst, r) += *srcMetals
	*srcMass = 0
	*srcMetals = 0
}

// TransferCross moves mass (metal-proportional to src's metallicity in
// srcR) from src's srcR reservoir into dst's dstR reservoir, two
// distinct galaxies, capped at what src holds. Generalizes Transfer
// across both galaxy and reservoir boundaries: same reservoir on both
// sides (e.g. satellite stripping into central Hot) or different ones
// (e.g. a satellite's reheated Cold gas landing in the central's Hot).
func TransferCross(src, dst *Galaxy, srcR, dstR Reservoir, mass Msun) {
	srcMass := massPtr(src, srcR)
	srcMetals := metalsPtr(src, srcR)
	dstMass := massPtr(dst, dstR)
	dstMetals := metalsPtr(dst, dstR)

	if mass > *srcMass {
		mass = *srcMass
	}
	if mass <= 0 {
		return
	}

	z := numeric.Metallicity(*srcMass, *srcMetals)
	metalMass := mass * z

	*srcMass -= mass
	*srcMetals -= metalMass
	*dstMass += mass
	*dstMetals += metalMass

	*srcMass = snapNonNegative(*srcMass)
	*srcMetals = snapNonNegative(*srcMetals)
	*dstMass = snapNonNegative(*dstMass)
	*dstMetals = snapNonNegative(*dstMetals)
}

// ZeroReservoir clears both the mass and metals of r.
func ZeroReservoir(g *Galaxy, r Reservoir) {
	*massPtr(g, r) = 0
	*metalsPtr(g, r) = 0
}

// RecordSFR accumulates stars/cold-gas/cold-metals into the history
// arrays at the given substep, spec §4.5.
func RecordSFR(g *Galaxy, step int, stars, coldGas, coldMetals Msun, bulge bool) {
	if bulge {
		g.SFR.BulgeSFR[step] += stars
	} else {
		g.SFR.DiskSFR[step] += stars
	}
	g.SFR.ColdGas[step] += coldGas
	g.SFR.ColdMetals[step] += coldMetals
}
