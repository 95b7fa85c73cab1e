package physics

import (
	"github.com/cosmotree/sage/internal/cooling"
	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/galaxy"
	"github.com/cosmotree/sage/internal/treedata"
	"github.com/cosmotree/sage/internal/units"
)

// Pipeline runs the per-substep baryonic physics of spec §4.7 over one
// FOF group. It satisfies internal/walker.GroupEvolver; cmd/sage
// constructs one Pipeline per run and internal/driver shares it
// read-only across every tree (spec §5, "the cooling table and config are immutable after
// initialisation").
type Pipeline struct {
	Cfg     Config
	Cooling *cooling.Table
}

// New builds a Pipeline from a resolved Config and the loaded cooling
// table.
func New(cfg Config, table *cooling.Table) *Pipeline {
	return &Pipeline{Cfg: cfg, Cooling: table}
}

// EvolveGroup implements walker.GroupEvolver.
func (p *Pipeline) EvolveGroup(store *treedata.Store, u units.Units, times units.SnapshotTimes, fofHead int32, members []int, fileNr, treeNr int32) error {
	if len(members) == 0 {
		return nil
	}

	centralIdx := -1
	for _, idx := range members {
		if store.Working(idx).Type == galaxy.TypeCentral {
			centralIdx = idx
			break
		}
	}
	if centralIdx < 0 {
		return &faults.InvariantViolation{
			Coords: faults.Coordinates{FileNr: int(fileNr), TreeNr: int(treeNr), HaloNr: int(fofHead)},
			Reason: "FOF group has no Type-0 central to evolve",
		}
	}
	for _, idx := range members {
		store.Working(idx).CentralGal = centralIdx
	}

	curSnap := store.Halos[fofHead].SnapNum
	if curSnap == 0 {
		// Birth snapshot: nothing has had a chance to evolve yet.
		return nil
	}
	prevSnap := curSnap - 1
	dt := (times.Age(prevSnap) - times.Age(curSnap)) / float64(galaxy.Steps)
	if dt <= 0 {
		return nil
	}

	z := times.Redshift(curSnap)
	age := times.Age(curSnap)
	central := store.Working(centralIdx)

	infallTotal := computeInfallBudget(p.Cfg, u, z, store, members, central)
	infallPerStep := infallTotal / float64(galaxy.Steps)

	for step := 0; step < galaxy.Steps; step++ {
		applyInfallIncrement(central, infallPerStep)

		for _, idx := range members {
			g := store.Working(idx)
			if g.Type == galaxy.TypeMerged {
				continue
			}

			reincorporate(p.Cfg, g, dt)
			stripSatellite(g, central, u.Cosmology.BaryonFrac)

			coolingGas, rcool, x := coolingStep(p.Cooling, g, u, dt)
			coolingGas = radioModeHeating(p.Cfg, g, u, coolingGas, rcool, x, dt)
			galaxy.Transfer(g, galaxy.ReservoirHotGas, galaxy.ReservoirColdGas, coolingGas)

			starFormationAndFeedback(p.Cfg, g, central, u, dt, step)
			diskInstability(p.Cfg, g, u, dt, step)
		}

		for _, idx := range members {
			g := store.Working(idx)
			if g.Type != galaxy.TypeSatellite && g.Type != galaxy.TypeOrphan {
				continue
			}
			if err := resolveMerger(p.Cfg, store, u, g, dt, age, step); err != nil {
				return err
			}
		}
	}

	return nil
}
