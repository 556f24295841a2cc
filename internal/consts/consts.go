// Package consts holds the small set of numeric constants shared across the
// solver, assembler and analysis driver. The teacher repo keeps tolerances
// and temperature as literal fields on device.CircuitStatus rather than a
// config file; this core follows the same convention, just centralized so
// every package agrees on one value.
package consts

const (
	// DefaultTolRel is the default relative residual tolerance for solve().
	DefaultTolRel = 1e-6
	// DefaultTolAbs is the default absolute residual tolerance for solve().
	DefaultTolAbs = 1e-9
	// DefaultMaxIter bounds iterative solver iterations.
	DefaultMaxIter = 1000

	// StampDropThreshold is the magnitude below which a staged dense entry
	// is dropped when compressing to sparse storage.
	StampDropThreshold = 1e-12

	// SymmetryTolerance bounds |A[i,j] - A[j,i]| for the auto-select probe.
	SymmetryTolerance = 1e-12

	// MaxComponentValue rejects component values with implausible magnitude.
	MaxComponentValue = 1e30
	// MinNonzeroComponentValue rejects subnormal-near-zero values where a
	// nonzero is required (e.g. resistance).
	MinNonzeroComponentValue = 1e-30
)
