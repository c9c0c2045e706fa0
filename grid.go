package main

import (
	"fmt"
	"math"
	"slices"

	"qvecsim/quantum"
)

// PlacedGate is one gate positioned on the editor grid. The grid is a
// drawing: step/wire placement for rendering and QASM round-trips. The
// simulation semantics live in quantum.Circuit, produced by Compile.
type PlacedGate struct {
	Type     string
	Target   int
	Control  int   // -1 if not a controlled gate
	Controls []int // multiple control wires (Toffoli and friends)
	Step     int   // position on the circuit timeline
	Params   []float64
	IsDagger bool
}

// Diagram holds the editor's circuit drawing.
type Diagram struct {
	NumQubits int
	Gates     []PlacedGate
	MaxSteps  int
}

// NewDiagram returns an empty drawing over the given number of wires.
func NewDiagram(numQubits int) *Diagram {
	return &Diagram{NumQubits: numQubits}
}

func (d *Diagram) bumpSteps(step int) {
	if step >= d.MaxSteps {
		d.MaxSteps = step + 1
	}
}

// AddGate places a single- or two-qubit gate at the given step.
func (d *Diagram) AddGate(gateType string, target, step int, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	d.Gates = append(d.Gates, PlacedGate{
		Type:    gateType,
		Target:  target,
		Control: ctrl,
		Step:    step,
	})
	d.bumpSteps(step)
}

// AddParameterizedGate places a gate carrying rotation parameters.
func (d *Diagram) AddParameterizedGate(gateType string, target, step int, params []float64, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	d.Gates = append(d.Gates, PlacedGate{
		Type:    gateType,
		Target:  target,
		Control: ctrl,
		Step:    step,
		Params:  params,
	})
	d.bumpSteps(step)
}

// AddMultiControlGate places a gate with several control wires.
func (d *Diagram) AddMultiControlGate(gateType string, target, step int, controls []int) {
	d.Gates = append(d.Gates, PlacedGate{
		Type:     gateType,
		Target:   target,
		Control:  -1,
		Controls: controls,
		Step:     step,
	})
	d.bumpSteps(step)
}

// AddDaggerGate places the adjoint of a named gate.
func (d *Diagram) AddDaggerGate(gateType string, target, step int) {
	d.Gates = append(d.Gates, PlacedGate{
		Type:     gateType,
		Target:   target,
		Control:  -1,
		Step:     step,
		IsDagger: true,
	})
	d.bumpSteps(step)
}

// references reports whether the gate touches the given wire.
func (g PlacedGate) references(qubit int) bool {
	if g.Target == qubit || g.Control == qubit {
		return true
	}
	return slices.Contains(g.Controls, qubit)
}

// RemoveGateAt removes any gate occupying (step, qubit).
func (d *Diagram) RemoveGateAt(step, qubit int) {
	d.Gates = slices.DeleteFunc(d.Gates, func(g PlacedGate) bool {
		return g.Step == step && g.references(qubit)
	})
}

// RemoveGatesOnQubit removes every gate referencing the wire (used when
// the register shrinks).
func (d *Diagram) RemoveGatesOnQubit(qubit int) {
	d.Gates = slices.DeleteFunc(d.Gates, func(g PlacedGate) bool {
		return g.references(qubit)
	})
}

// GetGateAt returns the gate at (step, qubit), or nil.
func (d *Diagram) GetGateAt(step, qubit int) *PlacedGate {
	for i := range d.Gates {
		g := &d.Gates[i]
		if g.Step == step && g.references(qubit) {
			return g
		}
	}
	return nil
}

// CanPlaceAt reports whether every listed wire is free at the step.
func (d *Diagram) CanPlaceAt(step int, qubits []int) bool {
	for _, q := range qubits {
		if d.GetGateAt(step, q) != nil {
			return false
		}
	}
	return true
}

// sortedGates returns the gates ordered by step (stable for equal steps).
func (d *Diagram) sortedGates() []PlacedGate {
	gates := slices.Clone(d.Gates)
	slices.SortStableFunc(gates, func(a, b PlacedGate) int { return a.Step - b.Step })
	return gates
}

// param returns the i-th parameter or 0.
func (g PlacedGate) param(i int) float64 {
	if i < len(g.Params) {
		return g.Params[i]
	}
	return 0
}

// Compile lowers the drawing into a quantum.Circuit, applying gates in
// step order. Gates with a step beyond upToStep are skipped when upToStep
// is >= 0, which is how the editor shows the state "at the cursor".
func (d *Diagram) Compile(upToStep int) (*quantum.Circuit, error) {
	c := quantum.NewCircuit(max(d.NumQubits, 1))
	for _, g := range d.sortedGates() {
		if upToStep >= 0 && g.Step > upToStep {
			continue
		}
		if err := appendGate(c, g); err != nil {
			return nil, fmt.Errorf("step %d: %w", g.Step, err)
		}
	}
	return c, nil
}

func appendGate(c *quantum.Circuit, g PlacedGate) error {
	single, ok := singleGate(g)
	if ok {
		if g.IsDagger {
			single = single.Adjoint()
		}
		var controls []int
		if g.Control >= 0 {
			controls = append(controls, g.Control)
		}
		controls = append(controls, g.Controls...)
		return c.AddOperation(single, []int{g.Target}, controls...)
	}

	switch g.Type {
	case "CX":
		return c.CX(g.Control, g.Target)
	case "CZ":
		return c.CZ(g.Control, g.Target)
	case "CH":
		return c.AddOperation(quantum.H(), []int{g.Target}, g.Control)
	case "SWAP":
		return c.SWAP(g.Control, g.Target)
	case "CCX", "TOFFOLI":
		controls := g.Controls
		if g.Control >= 0 {
			controls = append([]int{g.Control}, controls...)
		}
		return c.AddOperation(quantum.X(), []int{g.Target}, controls...)
	case "CRX":
		return c.AddOperation(quantum.RX(g.param(0)), []int{g.Target}, g.Control)
	case "CRY":
		return c.AddOperation(quantum.RY(g.param(0)), []int{g.Target}, g.Control)
	case "CRZ":
		return c.AddOperation(quantum.RZ(g.param(0)), []int{g.Target}, g.Control)
	case "CP", "CU1":
		return c.AddOperation(quantum.Phase(g.param(0)), []int{g.Target}, g.Control)
	default:
		return fmt.Errorf("unsupported gate type %q", g.Type)
	}
}

// singleGate maps a placed gate's name to a library single-qubit gate.
// Controlled variants of these are handled by the caller via control
// wires.
func singleGate(g PlacedGate) (quantum.Gate, bool) {
	switch g.Type {
	case "I", "ID":
		return quantum.I(), true
	case "X":
		return quantum.X(), true
	case "Y":
		return quantum.Y(), true
	case "Z":
		return quantum.Z(), true
	case "H":
		return quantum.H(), true
	case "S":
		return quantum.S(), true
	case "SDG":
		return quantum.SDagger(), true
	case "T":
		return quantum.T(), true
	case "TDG":
		return quantum.TDagger(), true
	case "SX":
		return quantum.SX(), true
	case "RX":
		return quantum.RX(g.param(0)), true
	case "RY":
		return quantum.RY(g.param(0)), true
	case "RZ":
		return quantum.RZ(g.param(0)), true
	case "P", "U1":
		return quantum.Phase(g.param(0)), true
	case "U2":
		return quantum.U(math.Pi/2, g.param(0), g.param(1)), true
	case "U3", "U":
		return quantum.U(g.param(0), g.param(1), g.param(2)), true
	}
	return quantum.Gate{}, false
}

// Simulate compiles and runs the drawing up to the given step, returning
// the resulting state.
func (d *Diagram) Simulate(eng *quantum.Engine, upToStep int) (*quantum.StateVector, error) {
	c, err := d.Compile(upToStep)
	if err != nil {
		return nil, err
	}
	state := quantum.NewStateVector(c.QubitCount())
	if err := eng.Run(state, c); err != nil {
		return nil, err
	}
	return state, nil
}

// isParameterizedGate reports whether the gate type takes angle input.
func isParameterizedGate(gateType string) bool {
	switch gateType {
	case "RX", "RY", "RZ", "P", "U1", "U2", "U3", "CRX", "CRY", "CRZ", "CP", "CU1":
		return true
	}
	return false
}
