// Package faults implements the typed error taxonomy of spec §7:
// ConfigError, MissingDataFile, FormatError, InvariantViolation,
// NumericFault, and ResourceExhaustion. Each carries enough structured
// context for the driver (internal/driver) to decide whether a failure
// aborts a tree, a file, or the whole run.
package faults

import "fmt"

// Coordinates identifies where in the corpus a fault was raised.
type Coordinates struct {
	FileNr   int
	TreeNr   int
	HaloNr   int
	GalaxyNr int
}

func (c Coordinates) String() string {
	return fmt.Sprintf("file=%d tree=%d halo=%d galaxy=%d", c.FileNr, c.TreeNr, c.HaloNr, c.GalaxyNr)
}

// ConfigError signals a missing or invalid parameter, or an unsupported
// TreeType. Fatal at startup.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config: %s", e.Reason)
	}
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// MissingDataFile signals a cooling table, tree file, or snapshot list
// that could not be found. Fatal, aborts the current file.
type MissingDataFile struct {
	Path string
	Err  error
}

func (e *MissingDataFile) Error() string {
	return fmt.Sprintf("missing data file %q: %v", e.Path, e.Err)
}

func (e *MissingDataFile) Unwrap() error { return e.Err }

// FormatError signals a header mismatch, short record, or bad
// endianness. Fatal per file; other files continue.
type FormatError struct {
	FileNr int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error in file %d: %s", e.FileNr, e.Reason)
}

// InvariantViolation signals an unrecoverable invariant failure: two
// centrals in one halo, a missing merge time on a satellite that
// required one, a negative Mvir on a FOF-background halo, or a
// mergeIntoID out of range. Fatal per tree, with diagnostic coordinates.
type InvariantViolation struct {
	Coords Coordinates
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation (%s): %s", e.Coords, e.Reason)
}

// NumericFault signals a NaN surviving past a clamp point. Fatal per
// tree.
type NumericFault struct {
	Coords Coordinates
	Op     string
}

func (e *NumericFault) Error() string {
	return fmt.Sprintf("numeric fault (%s) in %s", e.Coords, e.Op)
}

// ResourceExhaustion signals a growable array exceeding its hard cap, or
// an allocation failure. Fatal per tree.
type ResourceExhaustion struct {
	Coords   Coordinates
	Resource string
	Limit    string
}

func (e *ResourceExhaustion) Error() string {
	return fmt.Sprintf("resource exhaustion (%s): %s exceeded limit %s", e.Coords, e.Resource, e.Limit)
}

// Scope classifies how far a fault propagates, used by the driver to
// decide whether to skip a tree, skip a file, or abort the run.
type Scope int

const (
	ScopeFatal Scope = iota
	ScopePerFile
	ScopePerTree
)

// ScopeOf classifies err per the Recovery Policy table in spec §7.
func ScopeOf(err error) Scope {
	switch err.(type) {
	case *ConfigError, *MissingDataFile:
		return ScopeFatal
	case *FormatError:
		return ScopePerFile
	case *InvariantViolation, *NumericFault, *ResourceExhaustion:
		return ScopePerTree
	default:
		return ScopeFatal
	}
}

// ExitCode maps a terminal error to the CLI exit-code classes spec §6
// documents: missing-file, bad-parameter, arithmetic-assertion.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch err.(type) {
	case *MissingDataFile:
		return 2
	case *ConfigError:
		return 3
	case *InvariantViolation, *NumericFault, *ResourceExhaustion:
		return 4
	case *FormatError:
		return 5
	default:
		return 1
	}
}
