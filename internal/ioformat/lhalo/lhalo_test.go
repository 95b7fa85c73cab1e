package lhalo_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/ioformat/lhalo"
)

// writeSyntheticFile builds a minimal one-tree, two-halo LHalo binary
// file for a given byte order and writes it under dir, returning its
// path.
func writeSyntheticFile(t *testing.T, dir string, order binary.ByteOrder) string {
	t.Helper()
	var buf bytes.Buffer

	write := func(v any) {
		require.NoError(t, binary.Write(&buf, order, v))
	}

	write(int32(1))  // Ntrees
	write(int32(2))  // totNHalos
	write(int32(2))  // NHalosPerTree[0]

	writeHalo := func(descendant, firstProg int32, len_ int32, mvir float32) {
		write(descendant)
		write(firstProg)
		write(int32(-1)) // NextProgenitor
		write(int32(0))  // FirstHaloInFOFgroup
		write(int32(-1)) // NextHaloInFOFgroup
		write(len_)
		write(float32(0)) // MMean200
		write(mvir)
		write(float32(0)) // MTopHat
		write([3]float32{1, 2, 3})  // Pos
		write([3]float32{4, 5, 6})  // Vel
		write(float32(0)) // VelDisp
		write(float32(200)) // Vmax
		write([3]float32{0.1, 0.2, 0.3}) // Spin
		write(int64(42)) // MostBoundID
		write(int32(63)) // SnapNum
		write(int32(0))  // FileNr
		write(int32(0))  // SubHaloIdx
		write(float32(0)) // SubHalfMass
	}

	writeHalo(-1, -1, 1000, 10.0)
	writeHalo(-1, -1, 500, 5.0)

	path := filepath.Join(dir, "trees.0")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestOpenLittleEndianParsesHeaderAndRecords(t *testing.T) {
	path := writeSyntheticFile(t, t.TempDir(), binary.LittleEndian)

	r, err := lhalo.Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, int32(1), r.NumTrees())
	assert.Equal(t, int32(2), r.TreeHaloCount(0))

	halos, err := r.ReadTree(0)
	require.NoError(t, err)
	require.Len(t, halos, 2)
	assert.InDelta(t, 10.0, float64(halos[0].Mvir), 1e-6)
	assert.Equal(t, int32(1000), halos[0].Len)
	assert.InDelta(t, 5.0, float64(halos[1].Mvir), 1e-6)
	assert.Equal(t, int32(63), halos[0].SnapNum)
}

func TestOpenBigEndianAutoDetected(t *testing.T) {
	path := writeSyntheticFile(t, t.TempDir(), binary.BigEndian)

	r, err := lhalo.Open(path)
	require.NoError(t, err)
	defer r.Close()

	halos, err := r.ReadTree(0)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, float64(halos[0].Mvir), 1e-6)
}

func TestOpenMissingFileIsMissingDataFile(t *testing.T) {
	_, err := lhalo.Open(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	var missing *faults.MissingDataFile
	assert.ErrorAs(t, err, &missing)
}

func TestOpenTruncatedFileIsFormatError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trees.0")
	require.NoError(t, os.WriteFile(path, []byte{1, 0, 0, 0, 2, 0}, 0o644))

	_, err := lhalo.Open(path)
	require.Error(t, err)
	var formatErr *faults.FormatError
	assert.ErrorAs(t, err, &formatErr)
}
