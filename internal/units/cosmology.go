package units

import "math"

// TimeToPresent integrates 1/(a^2 E(a)) from 1/(1+z) to 1 and scales by
// 1/H0, per spec §4.2.
func (u Units) TimeToPresent(z float64) float64 {
	integrand := func(a float64) float64 {
		e := EOfA(u.Cosmology, a)
		return 1.0 / (a * a * e)
	}
	aStart := 1.0 / (1.0 + z)
	return AdaptiveIntegrate(integrand, aStart, 1.0) / u.HubbleCode
}

// HaloLike is the minimal view of a Halo the virial-quantity formulas
// need; internal/treedata.Halo satisfies it.
type HaloLike interface {
	IsFOFBackground() bool
	HaloMvir() float64
	HaloLen() int
}

// VirialMass returns halo.Mvir when the halo is the FOF background
// subhalo and Mvir is positive, else Len*PartMass, per spec §4.2.
func (u Units) VirialMass(h HaloLike) float64 {
	if h.IsFOFBackground() && h.HaloMvir() > 0 {
		return h.HaloMvir()
	}
	return float64(h.HaloLen()) * u.Cosmology.PartMass
}

// VirialRadius returns the radius of a sphere of mean density 200*rhoCrit(z)
// enclosing mass mvir.
func (u Units) VirialRadius(mvir, z float64) float64 {
	if mvir <= 0 {
		return 0
	}
	rhoCrit := u.CriticalDensity(z)
	return math.Cbrt(3 * mvir / (4 * math.Pi * 200 * rhoCrit))
}

// VirialVelocity returns sqrt(G*Mvir/Rvir), or 0 when Rvir <= 0.
func (u Units) VirialVelocity(mvir, rvir float64) float64 {
	if rvir <= 0 {
		return 0
	}
	return math.Sqrt(u.G * mvir / rvir)
}
