package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cosmotree/sage/internal/cooling"
)

// coolingRowFile is the naming convention for the 8 metallicity-row
// files a --cooling-dir must hold: mz00.dat (lowest Z) .. mz07.dat
// (highest). Open Question decision (spec §1 treats the table as an
// external collaborator and names no file layout): documented here
// rather than left implicit, since cmd/sage is the one place that must
// commit to a concrete convention.
func coolingRowFile(dir string, row int) string {
	return filepath.Join(dir, fmt.Sprintf("mz%02d.dat", row))
}

func loadCoolingTable(dir string) (*cooling.Table, error) {
	return cooling.LoadSimpleASCII(func(row int) (io.ReadCloser, error) {
		return os.Open(coolingRowFile(dir, row))
	})
}
