package analysis

import (
	"github.com/icmhg/spicesim/pkg/circuit"
	"github.com/icmhg/spicesim/pkg/mna"
	"github.com/icmhg/spicesim/pkg/solver"
)

// extractVoltages reads every non-ground node's voltage out of x via the
// index maps. Ground is never included — it is fixed at 0 and excluded from
// the unknown vector (spec §3).
func extractVoltages(idx mna.IndexMaps, x []float64) map[string]float64 {
	out := make(map[string]float64, len(idx.NodeRow))
	for name, row := range idx.NodeRow {
		out[name] = x[row]
	}
	return out
}

// extractCurrents reads every V-source branch current, and — resolving
// spec §9's open question in favor of exposing it — every inductor branch
// current when the system was assembled in transient mode.
func extractCurrents(idx mna.IndexMaps, x []float64) map[string]float64 {
	out := make(map[string]float64, len(idx.SourceRow)+len(idx.InductorRow))
	for name, row := range idx.SourceRow {
		out[name] = x[row]
	}
	for name, row := range idx.InductorRow {
		out[name] = x[row]
	}
	return out
}

// snapshotPrev builds the mode.Prev map a following transient step needs:
// every node's voltage plus every inductor's branch current, keyed by name.
func snapshotPrev(idx mna.IndexMaps, x []float64) map[string]float64 {
	prev := make(map[string]float64, len(idx.NodeRow)+len(idx.InductorRow))
	for name, row := range idx.NodeRow {
		prev[name] = x[row]
	}
	for name, row := range idx.InductorRow {
		prev[name] = x[row]
	}
	return prev
}

func diagnosticsFrom(stats solver.Stats) PointDiagnostics {
	return PointDiagnostics{
		Method:       stats.Method.String(),
		Iterations:   stats.Iterations,
		ResidualNorm: stats.ResidualNorm,
		Success:      stats.Success,
	}
}

// solveSystem assembles and solves circ under mode with cfg, returning the
// solution vector, the index maps it must be interpreted through, and
// diagnostics.
func solveSystem(circ *circuit.Circuit, mode mna.Mode, cfg solver.Config) ([]float64, mna.IndexMaps, PointDiagnostics, error) {
	sys, err := mna.Assemble(circ, mode)
	if err != nil {
		return nil, mna.IndexMaps{}, PointDiagnostics{}, err
	}
	defer sys.Matrix.Destroy()

	x, stats, err := solver.Solve(sys.Matrix, cfg)
	diag := diagnosticsFrom(stats)
	if err != nil {
		return nil, sys.Indexes, diag, err
	}
	return x, sys.Indexes, diag, nil
}
