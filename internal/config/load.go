package config

import (
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/cosmotree/sage/internal/faults"
)

// Load reads and validates the parameter file at path through fs (an
// afero.Fs, real or in-memory for tests), then resolves its snapshot
// list (YAML if the path ends in .yml/.yaml, the flat format
// otherwise) and corroborates TreeType against the configured tree
// file's sniffed content.
func Load(fs afero.Fs, path string) (RunConfig, []float64, error) {
	f, err := fs.Open(path)
	if err != nil {
		return RunConfig{}, nil, &faults.MissingDataFile{Path: path, Err: err}
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return RunConfig{}, nil, err
	}
	if err := Validate(cfg); err != nil {
		return RunConfig{}, nil, err
	}

	scaleFactors, err := loadSnapshotList(fs, cfg.SnapshotList)
	if err != nil {
		return RunConfig{}, nil, err
	}

	if err := corroborateFromFile(fs, cfg); err != nil {
		return RunConfig{}, nil, err
	}

	return cfg, scaleFactors, nil
}

func loadSnapshotList(fs afero.Fs, path string) ([]float64, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, &faults.MissingDataFile{Path: path, Err: err}
	}
	defer f.Close()

	if strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") {
		return LoadSnapshotListYAML(f)
	}
	return LoadSnapshotList(f)
}

// sniffSampleBytes is enough to reach mimetype's HDF5 magic-byte check
// well past the 8-byte signature, without reading the whole (possibly
// huge) tree file.
const sniffSampleBytes = 512

func corroborateFromFile(fs afero.Fs, cfg RunConfig) error {
	treePath := TreeFilePath(cfg, cfg.FirstFile)
	f, err := fs.Open(treePath)
	if err != nil {
		return &faults.MissingDataFile{Path: treePath, Err: err}
	}
	defer f.Close()

	buf := make([]byte, sniffSampleBytes)
	n, _ := f.Read(buf)
	return CorroborateTreeType(buf[:n], cfg.TreeType)
}

// TreeFilePath builds the path to fileNr's tree file, the convention
// SAGE's {TreeDir}/{TreeName}.{filenr} naming follows. Exported for
// internal/driver, which opens every file in [FirstFile, LastFile], not
// just FirstFile.
func TreeFilePath(cfg RunConfig, fileNr int) string {
	return cfg.TreeDir + "/" + cfg.TreeName + "." + strconv.Itoa(fileNr)
}
