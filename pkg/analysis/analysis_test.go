package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icmhg/spicesim/pkg/circuit"
	"github.com/icmhg/spicesim/pkg/solver"
	"github.com/icmhg/spicesim/pkg/waveform"
)

func voltageDivider(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.New("divider")
	require.NoError(t, c.AddComponent(circuit.Component{Name: "V1", NodePos: "1", NodeNeg: "0", Value: 10}))
	require.NoError(t, c.AddComponent(circuit.Component{Name: "R1", NodePos: "1", NodeNeg: "2", Value: 1000}))
	require.NoError(t, c.AddComponent(circuit.Component{Name: "R2", NodePos: "2", NodeNeg: "0", Value: 1000}))
	return c
}

func currentDivider(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.New("current divider")
	require.NoError(t, c.AddComponent(circuit.Component{Name: "I1", NodePos: "0", NodeNeg: "1", Value: 1e-3}))
	require.NoError(t, c.AddComponent(circuit.Component{Name: "R1", NodePos: "1", NodeNeg: "0", Value: 1000}))
	require.NoError(t, c.AddComponent(circuit.Component{Name: "R2", NodePos: "1", NodeNeg: "0", Value: 3000}))
	return c
}

// TestOperatingPointVoltageDivider is spec §8's voltage divider scenario:
// V1=10V through equal 1k resistors halves at node 2.
func TestOperatingPointVoltageDivider(t *testing.T) {
	c := voltageDivider(t)
	r, err := OperatingPoint(c, solver.DefaultConfig())
	require.NoError(t, err)
	require.True(t, r.Success)

	assert.InDelta(t, 10, r.Voltages["1"][0], 1e-9)
	assert.InDelta(t, 5, r.Voltages["2"][0], 1e-9)
	assert.InDelta(t, -5e-3, r.Currents["V1"][0], 1e-9)
}

// TestOperatingPointCurrentDivider is spec §8's current divider scenario:
// 1mA source into 1k || 3k splits proportionally to conductance.
func TestOperatingPointCurrentDivider(t *testing.T) {
	c := currentDivider(t)
	r, err := OperatingPoint(c, solver.DefaultConfig())
	require.NoError(t, err)
	want := 1e-3 / (1.0/1000 + 1.0/3000)
	assert.InDelta(t, want, r.Voltages["1"][0], 1e-9)
}

// TestDCSweepElevenPoints is spec §8's DC sweep scenario: sweeping V1 from
// 0 to 10 in steps of 1 produces 11 points, each consistent with its
// equivalent OperatingPoint.
func TestDCSweepElevenPoints(t *testing.T) {
	c := voltageDivider(t)
	r, err := DCSweep(c, "V1", 0, 10, 1, solver.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, r.SweepPoints, 11)
	for k, vk := range r.SweepPoints {
		want := vk / 2
		assert.InDelta(t, want, r.Voltages["2"][k], 1e-9, "point %d", k)
	}
}

func TestDCSweepRejectsUnknownSource(t *testing.T) {
	c := voltageDivider(t)
	_, err := DCSweep(c, "V9", 0, 5, 1, solver.DefaultConfig())
	require.Error(t, err)
	assert.IsType(t, &AnalysisRequestError{}, err)
}

func TestDCSweepRejectsZeroStep(t *testing.T) {
	c := voltageDivider(t)
	_, err := DCSweep(c, "V1", 0, 5, 0, solver.DefaultConfig())
	assert.Error(t, err)
}

func TestDCSweepRejectsInconsistentStepSign(t *testing.T) {
	c := voltageDivider(t)
	_, err := DCSweep(c, "V1", 0, 5, -1, solver.DefaultConfig())
	assert.Error(t, err)
}

// TestOperatingPointRejectsDisconnectedCircuit is spec §8's disconnected
// circuit rejection scenario.
func TestOperatingPointRejectsDisconnectedCircuit(t *testing.T) {
	c := circuit.New("split")
	require.NoError(t, c.AddComponent(circuit.Component{Name: "R1", NodePos: "1", NodeNeg: "0", Value: 10}))
	require.NoError(t, c.AddComponent(circuit.Component{Name: "R2", NodePos: "3", NodeNeg: "4", Value: 10}))

	_, err := OperatingPoint(c, solver.DefaultConfig())
	assert.Error(t, err)
}

// TestTransientRCCharging is spec §8's RC transient scenario: an initially
// uncharged capacitor charged through a resistor by a 5V step follows
// 5*(1-exp(-t/tau)) to within 5% at t=3*tau.
func TestTransientRCCharging(t *testing.T) {
	tau := 1000.0 * 1e-6
	tStep := tau / 100
	tStop := 3 * tau

	// V1's DC value is 0, so the operating point that seeds the transient
	// leaves C1 uncharged; the PULSE holds V1 at 5V from t=0 onward.
	step := &waveform.Pulse{V1: 0, V2: 5, Width: 2 * tStop}
	c := circuit.New("rc")
	require.NoError(t, c.AddComponent(circuit.Component{Name: "V1", NodePos: "1", NodeNeg: "0", Value: 0, Waveform: step}))
	require.NoError(t, c.AddComponent(circuit.Component{Name: "R1", NodePos: "1", NodeNeg: "2", Value: 1000}))
	require.NoError(t, c.AddComponent(circuit.Component{Name: "C1", NodePos: "2", NodeNeg: "0", Value: 1e-6}))

	r, err := Transient(c, tStep, tStop, solver.DefaultConfig())
	require.NoError(t, err)
	require.True(t, r.Success)
	last := r.Voltages["2"][len(r.Voltages["2"])-1]
	want := 5 * (1 - math.Exp(-r.SweepPoints[len(r.SweepPoints)-1]/tau))
	assert.InDelta(t, want, last, want*0.05, "V(2) at t=3tau")
}

func TestTransientRejectsNonPositiveStep(t *testing.T) {
	c := voltageDivider(t)
	_, err := Transient(c, 0, 1e-6, solver.DefaultConfig())
	assert.Error(t, err)
}

func TestTransientRejectsStepExceedingStop(t *testing.T) {
	c := voltageDivider(t)
	_, err := Transient(c, 1e-3, 1e-6, solver.DefaultConfig())
	assert.Error(t, err)
}

// TestOperatingPointIsIdempotent runs OperatingPoint twice on the same
// circuit and requires identical results.
func TestOperatingPointIsIdempotent(t *testing.T) {
	c := voltageDivider(t)
	r1, err := OperatingPoint(c, solver.DefaultConfig())
	require.NoError(t, err)
	r2, err := OperatingPoint(c, solver.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, r1.Voltages["2"][0], r2.Voltages["2"][0])
}

// TestDCSweepSinglePointMatchesOperatingPoint checks that a one-point sweep
// agrees with OperatingPoint at the same source value, within tolerance.
func TestDCSweepSinglePointMatchesOperatingPoint(t *testing.T) {
	c := voltageDivider(t)
	op, err := OperatingPoint(c, solver.DefaultConfig())
	require.NoError(t, err)

	_, err = c.WithSourceValue("V1", 10)
	require.NoError(t, err)

	dc, err := DCSweep(c, "V1", 10, 10, 1, solver.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, dc.SweepPoints, 1)
	assert.InDelta(t, op.Voltages["2"][0], dc.Voltages["2"][0], 1e-9)
}

func TestResultVoltageSequenceLengthMatchesSweepPoints(t *testing.T) {
	c := voltageDivider(t)
	r, err := DCSweep(c, "V1", 0, 5, 1, solver.DefaultConfig())
	require.NoError(t, err)
	for name, seq := range r.Voltages {
		assert.Len(t, seq, len(r.SweepPoints), "Voltages[%q]", name)
	}
}
