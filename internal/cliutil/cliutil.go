// Package cliutil renders the end-of-run summary table and startup CPU
// diagnostics, matching the ambient tooling feel of large Go batch
// processors (SPEC_FULL.md §1.4): purely presentational, no physics
// requirement.
package cliutil

import (
	"fmt"
	"io"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/klauspost/cpuid/v2"
)

// RunSummary is the set of figures the driver accumulates over one
// invocation, rendered by WriteSummary at the end of the run.
type RunSummary struct {
	FilesProcessed int
	TreesProcessed int
	TotalGalaxies  int64
	WallTime       time.Duration
	PeakWorkingCap uint64
}

// WriteSummary renders a run's totals as a table, in the pack's
// convention of ASCII-table run reports.
func WriteSummary(w io.Writer, s RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Files processed", s.FilesProcessed})
	t.AppendRow(table.Row{"Trees processed", s.TreesProcessed})
	t.AppendRow(table.Row{"Total galaxies", s.TotalGalaxies})
	t.AppendRow(table.Row{"Wall time", s.WallTime.Round(time.Millisecond)})
	t.AppendRow(table.Row{"Peak working-array capacity", datasize.ByteSize(s.PeakWorkingCap).HumanReadable()})
	t.Render()
}

// CPUFeatureLine formats a one-line CPU feature diagnostic logged once
// at startup, kept alongside the run's cosmology/unit parameters so
// numeric-reproducibility records (spec §9 "Deterministic numerics")
// are auditable across machines.
func CPUFeatureLine() string {
	return fmt.Sprintf("cpu=%s family=%d model=%d features=[AVX2:%v AVX512F:%v FMA3:%v]",
		cpuid.CPU.BrandName, cpuid.CPU.Family, cpuid.CPU.Model,
		cpuid.CPU.Supports(cpuid.AVX2), cpuid.CPU.Supports(cpuid.AVX512F), cpuid.CPU.Supports(cpuid.FMA3))
}

// HumanBytes formats n bytes as a human-readable size, used by
// diagnostics outside internal/faults (which formats its own
// ResourceExhaustion messages directly).
func HumanBytes(n uint64) string {
	return datasize.ByteSize(n).HumanReadable()
}
