package analysis

import (
	"time"

	"github.com/icmhg/spicesim/pkg/circuit"
	"github.com/icmhg/spicesim/pkg/mna"
	"github.com/icmhg/spicesim/pkg/solver"
)

// OperatingPoint validates circ, assembles the DC MNA system once, solves
// it, and returns a Result with a single sweep point [0.0] (spec §4.3).
func OperatingPoint(circ *circuit.Circuit, cfg solver.Config) (*Result, error) {
	start := time.Now()

	if err := circ.Validate(); err != nil {
		return nil, err
	}

	x, idx, diag, err := solveSystem(circ, mna.DC(), cfg)
	if err != nil {
		r := newResult(OperatingPointKind)
		r.FailedAt = 0
		r.Diagnostics = append(r.Diagnostics, diag)
		r.WallTime = time.Since(start).Seconds()
		return r, err
	}

	r := newResult(OperatingPointKind)
	r.appendPoint(0.0, extractVoltages(idx, x), extractCurrents(idx, x), diag)
	r.Success = true
	r.WallTime = time.Since(start).Seconds()
	return r, nil
}
