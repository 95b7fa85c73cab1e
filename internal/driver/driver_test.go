package driver_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmotree/sage/internal/config"
	"github.com/cosmotree/sage/internal/cooling"
	"github.com/cosmotree/sage/internal/driver"
	"github.com/cosmotree/sage/internal/ioformat/gout"
	"github.com/cosmotree/sage/internal/physics"
	"github.com/cosmotree/sage/internal/units"
)

func testUnits() units.Units {
	cos := units.Cosmology{Omega: 0.25, OmegaLambda: 0.75, Hubble_h: 0.73, BaryonFrac: 0.17, PartMass: 0.01}
	sys := units.UnitSystem{UnitLengthCM: 3.08568e24, UnitMassG: 1.989e43, UnitVelocityCM: 1e5}
	sn := units.SNConstants{EnergySNErg: 1e51, EtaSN: 5e-3}
	return units.NewUnits(cos, sys, sn)
}

func flatCoolingTable(logLambda float64) *cooling.Table {
	var samples [cooling.NumMetalBins][cooling.NumTempBins]float64
	for m := range samples {
		for i := range samples[m] {
			samples[m][i] = logLambda
		}
	}
	return cooling.NewTable(samples)
}

// writeOneTreeLHaloFile writes a minimal one-tree, one-halo-per-snapshot
// LHalo binary file (two snapshots: a birth halo descending into a
// second halo) to dir/trees.0.
func writeOneTreeLHaloFile(t *testing.T, dir string) {
	t.Helper()
	var buf bytes.Buffer
	order := binary.LittleEndian
	write := func(v any) { require.NoError(t, binary.Write(&buf, order, v)) }

	write(int32(1)) // Ntrees
	write(int32(2)) // totNHalos
	write(int32(2)) // NHalosPerTree[0]

	writeHalo := func(descendant, firstProg, fof, nextFOF int32, snap int32, mvir float32) {
		write(descendant)
		write(firstProg)
		write(int32(-1)) // NextProgenitor
		write(fof)
		write(nextFOF)
		write(int32(1000)) // Len
		write(float32(0))  // MMean200
		write(mvir)
		write(float32(0))               // MTopHat
		write([3]float32{1, 2, 3})      // Pos
		write([3]float32{0, 0, 0})      // Vel
		write(float32(0))               // VelDisp
		write(float32(200))             // Vmax
		write([3]float32{0.1, 0.1, 0.1}) // Spin
		write(int64(7))                 // MostBoundID
		write(snap)                     // SnapNum
		write(int32(0))                 // FileNr
		write(int32(0))                 // SubHaloIdx
		write(float32(0))               // SubHalfMass
	}

	writeHalo(1, -1, 0, -1, 0, 10.0)
	writeHalo(-1, 0, 1, -1, 1, 12.0)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "trees.0"), buf.Bytes(), 0o644))
}

func TestDriverRunProducesGalaxyOutputPerSnapshot(t *testing.T) {
	treeDir := t.TempDir()
	outDir := t.TempDir()
	writeOneTreeLHaloFile(t, treeDir)

	u := testUnits()
	times := units.NewSnapshotTimes(u, []float64{0.5, 1.0})
	pipeline := physics.New(physics.Config{}, flatCoolingTable(-23.0))

	cfg := driver.Config{
		Run: config.RunConfig{
			OutputDir:  outDir,
			FilePrefix: "model",
			TreeDir:    treeDir,
			TreeName:   "trees",
			FirstFile:  0,
			LastFile:   0,
			NumOutputs: -1,
			TreeType:   config.TreeTypeLHaloBinary,
		},
		Units:      u,
		Times:      times,
		Pipeline:   pipeline,
		MaxWorkers: 1,
		Overwrite:  true,
	}

	d := driver.New(cfg)
	summary, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 1, summary.TreesProcessed)
	assert.Equal(t, int64(2), summary.TotalGalaxies)

	snap0Path := filepath.Join(outDir, "model_z1.000_0")
	data, err := os.ReadFile(snap0Path)
	require.NoError(t, err)

	var ntrees, totGalaxies int32
	r := bytes.NewReader(data)
	require.NoError(t, binary.Read(r, binary.LittleEndian, &ntrees))
	require.NoError(t, binary.Read(r, binary.LittleEndian, &totGalaxies))
	assert.Equal(t, int32(1), ntrees)
	assert.Equal(t, int32(1), totGalaxies)

	var rec gout.Record
	require.NoError(t, binary.Read(r, binary.LittleEndian, &ntrees)) // TreeNgals[0]
	require.NoError(t, binary.Read(r, binary.LittleEndian, &rec))
	assert.Equal(t, int32(0), rec.SnapNum)

	manifestPath := snap0Path + ".manifest.yaml"
	_, err = os.Stat(manifestPath)
	require.NoError(t, err)
}

func TestDriverMissingTreeFileIsFatal(t *testing.T) {
	outDir := t.TempDir()
	u := testUnits()
	times := units.NewSnapshotTimes(u, []float64{1.0})
	pipeline := physics.New(physics.Config{}, flatCoolingTable(-23.0))

	cfg := driver.Config{
		Run: config.RunConfig{
			OutputDir:  outDir,
			FilePrefix: "model",
			TreeDir:    t.TempDir(),
			TreeName:   "trees",
			FirstFile:  0,
			LastFile:   0,
			NumOutputs: -1,
			TreeType:   config.TreeTypeLHaloBinary,
		},
		Units:    u,
		Times:    times,
		Pipeline: pipeline,
	}

	d := driver.New(cfg)
	_, err := d.Run(context.Background())
	require.Error(t, err)
}

func TestResolveOutputSnapshotsAll(t *testing.T) {
	snaps := driver.ResolveOutputSnapshots(5, -1)
	assert.Equal(t, []int32{0, 1, 2, 3, 4}, snaps)
}

func TestResolveOutputSnapshotsLastN(t *testing.T) {
	snaps := driver.ResolveOutputSnapshots(5, 2)
	assert.Equal(t, []int32{3, 4}, snaps)
}

func TestResolveOutputSnapshotsZero(t *testing.T) {
	assert.Nil(t, driver.ResolveOutputSnapshots(5, 0))
}
