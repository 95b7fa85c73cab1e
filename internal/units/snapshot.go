package units

// SnapshotTimes holds the scale-factor list a run is configured with
// (spec §6 "Snapshot list") and the lookback time to each snapshot,
// computed once (spec §9 "Unit duality": the source's duplicated global
// Age[] becomes this single table held alongside Units).
type SnapshotTimes struct {
	scaleFactors []float64
	ages         []float64
}

// NewSnapshotTimes precomputes TimeToPresent for every snapshot.
func NewSnapshotTimes(u Units, scaleFactors []float64) SnapshotTimes {
	ages := make([]float64, len(scaleFactors))
	for i, a := range scaleFactors {
		z := 1/a - 1
		ages[i] = u.TimeToPresent(z)
	}
	return SnapshotTimes{scaleFactors: append([]float64(nil), scaleFactors...), ages: ages}
}

// Redshift returns z for the given snapshot index.
func (s SnapshotTimes) Redshift(snap int32) float64 { return 1/s.scaleFactors[snap] - 1 }

// Age returns the precomputed lookback time to the given snapshot.
func (s SnapshotTimes) Age(snap int32) float64 { return s.ages[snap] }

// NumSnapshots returns the number of configured snapshots.
func (s SnapshotTimes) NumSnapshots() int { return len(s.scaleFactors) }
