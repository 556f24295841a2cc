package mna

import (
	"fmt"

	"github.com/icmhg/spicesim/pkg/circuit"
	"github.com/icmhg/spicesim/pkg/matrix"
)

// IndexMaps carries the stable row/column assignments produced by Assemble,
// value-copied out of the assembler so the returned System is self-contained
// (spec §9: "Index maps are value-copied into the MNA system"), matching
// original_source/src/mna.rs's MnaSystem.node_map/voltage_source_map fields.
type IndexMaps struct {
	N int

	// NodeRow maps a non-ground node name to its row/column in A.
	NodeRow map[string]int
	// SourceRow maps a V-source name to its branch-current row/column in A.
	SourceRow map[string]int
	// InductorRow maps an L name to its branch-current row/column in A.
	// Populated only in Transient mode (supplement, spec §9).
	InductorRow map[string]int
}

// System is the assembled MNA system: the staging matrix plus the index
// maps needed to interpret its solution.
type System struct {
	Matrix  *matrix.Matrix
	Indexes IndexMaps
}

// InternalInvariantError is spec §7's InternalInvariant taxonomy entry:
// index-map mismatches between assembler and solver are bugs, not user
// errors.
type InternalInvariantError struct {
	Reason string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("internal invariant: %s", e.Reason)
}

// Assemble builds the MNA matrix and RHS for circ under mode. circ MUST
// already have passed circuit.Validate(); Assemble does not re-validate.
func Assemble(circ *circuit.Circuit, mode Mode) (*System, error) {
	idx := buildIndexMaps(circ, mode)

	m, err := matrix.New(idx.N)
	if err != nil {
		return nil, &InternalInvariantError{Reason: err.Error()}
	}

	for _, comp := range circ.Components() {
		if err := stamp(m, idx, comp, mode); err != nil {
			m.Destroy()
			return nil, err
		}
	}

	return &System{Matrix: m, Indexes: idx}, nil
}

func buildIndexMaps(circ *circuit.Circuit, mode Mode) IndexMaps {
	idx := IndexMaps{
		NodeRow:     make(map[string]int),
		SourceRow:   make(map[string]int),
		InductorRow: make(map[string]int),
	}

	row := 0
	for _, n := range circ.Nodes() {
		if n.ID == circ.GroundID() {
			continue
		}
		idx.NodeRow[n.Name] = row
		row++
	}

	for _, comp := range circ.Components() {
		if comp.Kind == circuit.KindVoltageSource {
			idx.SourceRow[comp.Name] = row
			row++
		}
	}

	if mode.Transient {
		for _, comp := range circ.Components() {
			if comp.Kind == circuit.KindInductor {
				idx.InductorRow[comp.Name] = row
				row++
			}
		}
	}

	idx.N = row
	return idx
}

// rowOf resolves a node name to its MNA row, or -1 for the ground node —
// NodeRow never contains the ground node's name, so a lookup miss always
// means "this terminal is ground" given a validated circuit (spec §4.1's
// "omit rows/columns for ground terminals").
func rowOf(idx IndexMaps, nodeName string) int {
	r, ok := idx.NodeRow[nodeName]
	if !ok {
		return -1
	}
	return r
}

func stamp(m *matrix.Matrix, idx IndexMaps, comp circuit.Component, mode Mode) error {
	switch comp.Kind {
	case circuit.KindResistor:
		stampConductance(m, idx, comp.NodePos, comp.NodeNeg, 1.0/comp.Value)

	case circuit.KindCurrentSource:
		val := currentValueAt(comp, mode)
		i := rowOf(idx, comp.NodePos)
		j := rowOf(idx, comp.NodeNeg)
		if i >= 0 {
			m.AddRHS(i, -val)
		}
		if j >= 0 {
			m.AddRHS(j, val)
		}

	case circuit.KindVoltageSource:
		k, ok := idx.SourceRow[comp.Name]
		if !ok {
			return &InternalInvariantError{Reason: fmt.Sprintf("no branch row assigned for V source %q", comp.Name)}
		}
		i := rowOf(idx, comp.NodePos)
		j := rowOf(idx, comp.NodeNeg)
		stampBranchCoupling(m, i, j, k)
		m.AddRHS(k, voltageValueAt(comp, mode))

	case circuit.KindCapacitor:
		if !mode.Transient {
			return nil // open circuit at DC, spec §4.1
		}
		if mode.Step <= 0 {
			return &InternalInvariantError{Reason: "transient step must be positive"}
		}
		gEq := comp.Value / mode.Step
		if gEq == 0 {
			return nil
		}
		vPrev := previousVoltage(mode, comp.NodePos) - previousVoltage(mode, comp.NodeNeg)
		stampConductance(m, idx, comp.NodePos, comp.NodeNeg, gEq)
		i := rowOf(idx, comp.NodePos)
		j := rowOf(idx, comp.NodeNeg)
		if i >= 0 {
			m.AddRHS(i, gEq*vPrev)
		}
		if j >= 0 {
			m.AddRHS(j, -gEq*vPrev)
		}

	case circuit.KindInductor:
		if !mode.Transient {
			// No stamp at DC (spec §4.1's deliberate simplification): the
			// inductor is an open branch in the DC system, not a short.
			return nil
		}
		return stampInductorTransient(m, idx, comp, mode)

	default:
		return &InternalInvariantError{Reason: fmt.Sprintf("unsupported component kind %q", comp.Kind)}
	}

	return nil
}

// stampConductance adds the R-stamp pattern for a conductance g between the
// two named nodes, omitting ground rows/columns (spec §4.1).
func stampConductance(m *matrix.Matrix, idx IndexMaps, posName, negName string, g float64) {
	i := rowOf(idx, posName)
	j := rowOf(idx, negName)
	if i >= 0 {
		m.AddElement(i, i, g)
	}
	if j >= 0 {
		m.AddElement(j, j, g)
	}
	if i >= 0 && j >= 0 {
		m.AddElement(i, j, -g)
		m.AddElement(j, i, -g)
	}
}

// stampBranchCoupling is the V-source stamp pattern shared by voltage
// sources and (in transient mode) inductors: a branch row k whose unknown
// couples into the KCL rows at i and j (spec §4.1, §9).
func stampBranchCoupling(m *matrix.Matrix, i, j, k int) {
	if i >= 0 {
		m.AddElement(i, k, 1)
		m.AddElement(k, i, 1)
	}
	if j >= 0 {
		m.AddElement(j, k, -1)
		m.AddElement(k, j, -1)
	}
}

// stampInductorTransient implements spec §9's supplemented companion model:
// v - (L/h)(i - i_prev) = 0, i.e. a branch row coupled like a V source with
// a -L/h diagonal and a -L/h*i_prev historical-current RHS term.
func stampInductorTransient(m *matrix.Matrix, idx IndexMaps, comp circuit.Component, mode Mode) error {
	if mode.Step <= 0 {
		return &InternalInvariantError{Reason: "transient step must be positive"}
	}
	k, ok := idx.InductorRow[comp.Name]
	if !ok {
		return &InternalInvariantError{Reason: fmt.Sprintf("no branch row assigned for inductor %q", comp.Name)}
	}
	i := rowOf(idx, comp.NodePos)
	j := rowOf(idx, comp.NodeNeg)
	stampBranchCoupling(m, i, j, k)

	lOverH := comp.Value / mode.Step
	m.AddElement(k, k, -lOverH)
	iPrev := previousCurrent(mode, comp.Name)
	m.AddRHS(k, -lOverH*iPrev)
	return nil
}

func previousVoltage(mode Mode, nodeName string) float64 {
	if mode.Prev == nil {
		return 0
	}
	return mode.Prev[nodeName]
}

func previousCurrent(mode Mode, branchName string) float64 {
	if mode.Prev == nil {
		return 0
	}
	return mode.Prev[branchName]
}

func voltageValueAt(comp circuit.Component, mode Mode) float64 {
	if mode.Transient && comp.Waveform != nil {
		return comp.Waveform.ValueAt(mode.Time)
	}
	return comp.Value
}

func currentValueAt(comp circuit.Component, mode Mode) float64 {
	if mode.Transient && comp.Waveform != nil {
		return comp.Waveform.ValueAt(mode.Time)
	}
	return comp.Value
}
