// Package analysis is the driver layer: OperatingPoint, DCSweep and
// Transient compose pkg/mna and pkg/solver into a single Result record, in
// the spirit of edp1096-toy-spice/pkg/analysis's Analysis implementations —
// generalized from that package's map[string][]float64-keyed store into a
// typed Result, since this core has a fixed, known observable set (node
// voltages, V-source currents and, in transient runs, inductor currents)
// rather than the teacher's open device set.
package analysis

// Kind names which of the three analyses produced a Result.
type Kind int

const (
	OperatingPointKind Kind = iota
	DCSweepKind
	TransientKind
)

func (k Kind) String() string {
	switch k {
	case DCSweepKind:
		return "dc"
	case TransientKind:
		return "tran"
	default:
		return "op"
	}
}

// PointDiagnostics carries the solver stats for a single sweep/time point.
type PointDiagnostics struct {
	Method       string
	Iterations   int
	ResidualNorm float64
	Success      bool
}

// Result is the outcome of one analysis run: sweep axis, per-node voltage
// sequences and per-V-source current sequences (plus per-inductor current
// sequences for a transient run), all parallel to SweepPoints,
// plus per-point solver diagnostics (spec §3's Result record).
type Result struct {
	Kind        Kind
	SweepPoints []float64
	Voltages    map[string][]float64
	Currents    map[string][]float64

	Diagnostics []PointDiagnostics
	WallTime    float64 // seconds
	Success     bool

	// FailedAt is the 0-based sweep/time index of the step that aborted the
	// run, or -1 if the run completed. Partial results up to but excluding
	// this index are still returned, per spec §4.3's per-step state machine.
	FailedAt int
}

func newResult(kind Kind) *Result {
	return &Result{
		Kind:     kind,
		Voltages: make(map[string][]float64),
		Currents: make(map[string][]float64),
		FailedAt: -1,
	}
}

func (r *Result) appendPoint(sweepVal float64, voltages, currents map[string]float64, diag PointDiagnostics) {
	r.SweepPoints = append(r.SweepPoints, sweepVal)
	for name, v := range voltages {
		r.Voltages[name] = append(r.Voltages[name], v)
	}
	for name, v := range currents {
		r.Currents[name] = append(r.Currents[name], v)
	}
	r.Diagnostics = append(r.Diagnostics, diag)
}
