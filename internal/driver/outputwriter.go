package driver

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cosmotree/sage/internal/faults"
	"github.com/cosmotree/sage/internal/ioformat/gout"
)

// outputWriter implements spec §4.9 steps 2 and 4: reserve a
// (Ntrees+2)-int placeholder header, stream each tree's records as it
// completes, and rewrite the header with final counts once every tree
// in the file has been visited. Streaming avoids holding every
// snapshot's galaxies for the whole file in memory at once.
type outputWriter struct {
	f         *os.File
	path      string
	ntrees    int32
	treeNgals []int32
	total     int32
}

func newOutputWriter(path string, ntrees int32, overwrite bool) (*outputWriter, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil, &faults.ConfigError{Reason: fmt.Sprintf("output file %q already exists (pass --overwrite to replace it)", path)}
		}
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, &faults.MissingDataFile{Path: path, Err: err}
	}

	headerBytes := int(2+ntrees) * 4
	if _, err := f.Write(make([]byte, headerBytes)); err != nil {
		f.Close()
		return nil, &faults.FormatError{Reason: fmt.Sprintf("writing placeholder header for %q: %v", path, err)}
	}

	return &outputWriter{f: f, path: path, ntrees: ntrees, treeNgals: make([]int32, ntrees)}, nil
}

// writeTree appends one tree's records and records its count in the
// header's TreeNgals slot.
func (w *outputWriter) writeTree(treeIdx int32, records []gout.Record) error {
	for i := range records {
		if err := binary.Write(w.f, binary.LittleEndian, &records[i]); err != nil {
			return &faults.FormatError{Reason: fmt.Sprintf("writing record to %q: %v", w.path, err)}
		}
	}
	w.treeNgals[treeIdx] = int32(len(records))
	w.total += int32(len(records))
	return nil
}

// finalize rewrites the header in place with the final counts (spec
// §4.9 step 4) and closes the file.
func (w *outputWriter) finalize() error {
	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		return &faults.FormatError{Reason: fmt.Sprintf("rewriting header for %q: %v", w.path, err)}
	}
	if err := binary.Write(w.f, binary.LittleEndian, w.ntrees); err != nil {
		return err
	}
	if err := binary.Write(w.f, binary.LittleEndian, w.total); err != nil {
		return err
	}
	if len(w.treeNgals) > 0 {
		if err := binary.Write(w.f, binary.LittleEndian, w.treeNgals); err != nil {
			return err
		}
	}

	manifestPath := w.path + ".manifest.yaml"
	if mf, err := os.Create(manifestPath); err == nil {
		_ = gout.WriteManifest(mf, gout.Manifest{Ntrees: w.ntrees, TotGalaxies: w.total, TreeNgals: w.treeNgals})
		mf.Close()
	}

	return w.f.Close()
}

// abort closes a partially-written file without rewriting its header,
// used when a sibling writer for the same file failed to open.
func (w *outputWriter) abort() error {
	return w.f.Close()
}
