package analysis

import (
	"math"
	"time"

	"github.com/icmhg/spicesim/pkg/circuit"
	"github.com/icmhg/spicesim/pkg/mna"
	"github.com/icmhg/spicesim/pkg/solver"
)

// DCSweep sweeps sourceName's value from vStart to vStop in steps of vStep
// (inclusive when a step lands exactly on vStop, within tolerance
// |vStep|*1e-9), per spec §4.3. sourceName may name either a V or an I
// source — SPEC_FULL's supplement over spec.md, which only ever sweeps V
// sources in its worked examples but never restricts the data model to one.
func DCSweep(circ *circuit.Circuit, sourceName string, vStart, vStop, vStep float64, cfg solver.Config) (*Result, error) {
	start := time.Now()

	comp, ok := circ.Component(sourceName)
	if !ok {
		return nil, newRequestError("unknown sweep source %q", sourceName)
	}
	if comp.Kind != circuit.KindVoltageSource && comp.Kind != circuit.KindCurrentSource {
		return nil, newRequestError("sweep source %q is not a V or I source", sourceName)
	}
	if vStep == 0 {
		return nil, newRequestError("sweep step must be nonzero")
	}
	if span := vStop - vStart; span != 0 && (span > 0) != (vStep > 0) {
		return nil, newRequestError("sweep step sign %v inconsistent with range %v -> %v", vStep, vStart, vStop)
	}

	if err := circ.Validate(); err != nil {
		return nil, err
	}

	tol := math.Abs(vStep) * 1e-9
	r := newResult(DCSweepKind)

	for k := 0; ; k++ {
		vk := vStart + float64(k)*vStep
		if vStep > 0 && vk > vStop+tol {
			break
		}
		if vStep < 0 && vk < vStop-tol {
			break
		}

		pointCirc, err := circ.WithSourceValue(sourceName, vk)
		if err != nil {
			r.WallTime = time.Since(start).Seconds()
			return r, err
		}

		x, idx, diag, err := solveSystem(pointCirc, mna.DC(), cfg)
		if err != nil {
			r.FailedAt = k
			r.Diagnostics = append(r.Diagnostics, diag)
			r.WallTime = time.Since(start).Seconds()
			return r, err
		}
		r.appendPoint(vk, extractVoltages(idx, x), extractCurrents(idx, x), diag)
	}

	r.Success = true
	r.WallTime = time.Since(start).Seconds()
	return r, nil
}
