// Command treeinspect is a read-only diagnostic for LHalo binary tree
// files: it opens the header, prints per-tree halo counts, and exits.
// No output is written and no physics is evolved.
//
// Usage:
//
//	treeinspect <path/to/trees.N>
package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/cosmotree/sage/internal/cliutil"
	"github.com/cosmotree/sage/internal/ioformat/lhalo"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: treeinspect <path/to/trees.N>")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "treeinspect:", err)
		os.Exit(1)
	}
}

func run(path string) error {
	reader, err := lhalo.Open(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	ntrees := reader.NumTrees()
	var totHalos int64

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Tree", "Halos"})
	for i := int32(0); i < ntrees; i++ {
		n := reader.TreeHaloCount(i)
		totHalos += int64(n)
		t.AppendRow(table.Row{i, n})
	}
	t.AppendFooter(table.Row{"Total", totHalos})
	t.Render()

	fmt.Printf("%d trees, %s of halo records\n", ntrees, cliutil.HumanBytes(uint64(totHalos)*uint64(lhalo.RecordSize)))
	return nil
}
