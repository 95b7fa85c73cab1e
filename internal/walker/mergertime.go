package walker

import (
	"math"

	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/treedata"
	"github.com/cosmotree/sage/internal/units"
)

// mergerTime implements spec §4.7.h's dynamical-friction estimate, set
// once at satellite birth: t_merge = 2*1.17*R^2*Vvir_host /
// (ln(Nhost/Nsat + 1) * G * Msat), with Msat = Mvir_sat + Stellar +
// Cold and R the host FOF group's virial radius (the orbital scale a
// freshly-infalling satellite decays from). Returns the unknown
// sentinel when the host and satellite coincide or the Coulomb
// logarithm is non-positive.
func mergerTime(s *treedata.Store, u units.Units, times units.SnapshotTimes, haloNr, fofHead int32, g galaxy.Galaxy) float64 {
	if haloNr == fofHead {
		return galaxy.MergeTimeUnknown
	}

	nSat, nHost := satelliteHaloCounts(s, haloNr, fofHead)
	if nSat <= 0 {
		return galaxy.MergeTimeUnknown
	}

	coulomb := math.Log(float64(nHost)/float64(nSat) + 1)
	if coulomb <= 0 {
		return galaxy.MergeTimeUnknown
	}

	hostHv := s.HaloView(fofHead)
	zHost := times.Redshift(s.Halos[fofHead].SnapNum)
	mvirHost := u.VirialMass(hostHv)
	rvirHost := u.VirialRadius(mvirHost, zHost)
	vvirHost := u.VirialVelocity(mvirHost, rvirHost)

	msat := g.Mvir + g.StellarMass + g.ColdGas
	if msat <= 0 {
		return galaxy.MergeTimeUnknown
	}

	return 2 * 1.17 * rvirHost * rvirHost * vvirHost / (coulomb * u.G * msat)
}
