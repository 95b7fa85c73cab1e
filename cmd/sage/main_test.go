package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleParamFileTemplate = `
% sample parameter file
OutputDir              %[1]s
FileNameGalaxies        model
SimulationDir           %[2]s
TreeName                trees
FirstFile               0
LastFile                0
LastSnapShotNr          1
NumOutputs              -1
FileWithSnapList        %[3]s
TreeType                lhalo_binary

Omega                   0.25
OmegaLambda             0.75
Hubble_h                0.73
BaryonFrac              0.17
PartMass                0.01

UnitLength_in_cm        3.08568e24
UnitMass_in_g           1.989e43
UnitVelocity_in_cm_per_s 1e5

EnergySN                1e51
EtaSN                   5e-3

ReionizationOn          1
SupernovaRecipeOn       1
DiskInstabilityOn       1
SFprescription          0
AGNrecipeOn             1

SfrEfficiency              0.05
FeedbackReheatingEpsilon   3.0
FeedbackEjectionEfficiency 0.3
RecycleFraction            0.43
Yield                      0.025
FracZleaveDisk             0.0
ReIncorporationFactor      0.15
RadioModeEfficiency        0.08
QuasarModeEfficiency       0.005
BlackHoleGrowthRate        0.015
ThreshMajorMerger          0.3
ThresholdSatDisruption     1.0
Reionization_z0            8.0
Reionization_zr            7.0
ClumpingFactor             1.0
`

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	treeDir := filepath.Join(dir, "trees")
	outputDir := filepath.Join(dir, "output")
	snapList := filepath.Join(dir, "snaplist.txt")

	require.NoError(t, os.Mkdir(treeDir, 0o755))
	require.NoError(t, os.Mkdir(outputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(treeDir, "trees.0"), []byte{0x01, 0, 0, 0}, 0o644))
	require.NoError(t, os.WriteFile(snapList, []byte("0.5 1.0\n"), 0o644))

	paramPath := filepath.Join(dir, "params.txt")
	content := fmt.Sprintf(sampleParamFileTemplate, outputDir, treeDir, snapList)
	require.NoError(t, os.WriteFile(paramPath, []byte(content), 0o644))
	return paramPath
}

func TestValidateConfigAcceptsGoodFixture(t *testing.T) {
	dir := t.TempDir()
	paramPath := writeFixture(t, dir)

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate-config", paramPath})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "ok:")
	assert.Contains(t, out.String(), "2 snapshots configured")
}

func TestValidateConfigRejectsMissingTreeFile(t *testing.T) {
	dir := t.TempDir()
	outputDir := filepath.Join(dir, "output")
	treeDir := filepath.Join(dir, "trees")
	snapList := filepath.Join(dir, "snaplist.txt")
	require.NoError(t, os.Mkdir(outputDir, 0o755))
	require.NoError(t, os.WriteFile(snapList, []byte("0.5 1.0\n"), 0o644))
	paramPath := filepath.Join(dir, "params.txt")
	content := fmt.Sprintf(sampleParamFileTemplate, outputDir, treeDir, snapList)
	require.NoError(t, os.WriteFile(paramPath, []byte(content), 0o644))

	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate-config", paramPath})
	require.Error(t, cmd.Execute())
}

func TestVersionCommandPrintsVersion(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "sage")
}

func TestRootCauseUnwrapsWrappedError(t *testing.T) {
	base := assertErr{}
	wrapped := wrapErr{err: base}
	assert.Equal(t, base, rootCause(wrapped))
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

type wrapErr struct{ err error }

func (w wrapErr) Error() string { return "wrapped: " + w.err.Error() }
func (w wrapErr) Unwrap() error { return w.err }
