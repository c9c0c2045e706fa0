package quantum

import (
	"fmt"
	"slices"
)

// Operation is one placed gate: a unitary, the target wires it acts on,
// and optional control wires with per-control required values.
type Operation struct {
	Gate          Gate
	Targets       []int
	Controls      []int
	ControlValues []uint8 // required value (0 or 1) per control wire
}

// Circuit is an ordered sequence of operations on a fixed-width register.
// It is a pure data structure; Engine.Run performs the simulation. Order
// is significant: operations are applied left to right.
type Circuit struct {
	numQubits int
	ops       []Operation
}

// NewCircuit returns an empty circuit over numQubits wires. numQubits must
// be at least 1; anything else is a programmer error and panics.
func NewCircuit(numQubits int) *Circuit {
	if numQubits < 1 {
		panic(fmt.Sprintf("quantum: NewCircuit: numQubits must be >= 1, got %d", numQubits))
	}
	return &Circuit{numQubits: numQubits}
}

// QubitCount returns the declared register width.
func (c *Circuit) QubitCount() int { return c.numQubits }

// Len returns the number of operations.
func (c *Circuit) Len() int { return len(c.ops) }

// Operations returns a copy of the operation list, so a circuit handed to
// the engine stays immutable even if the caller keeps appending.
func (c *Circuit) Operations() []Operation {
	out := make([]Operation, len(c.ops))
	for i, op := range c.ops {
		out[i] = Operation{
			Gate:          op.Gate,
			Targets:       slices.Clone(op.Targets),
			Controls:      slices.Clone(op.Controls),
			ControlValues: slices.Clone(op.ControlValues),
		}
	}
	return out
}

// AddOperation appends gate applied to targets, optionally controlled by
// the given wires (required value 1). It fails with ErrArityMismatch when
// len(targets) != gate arity, ErrWireOutOfRange for wires outside
// [0, QubitCount()), and ErrWireCollision when any wire is referenced
// twice across targets and controls.
func (c *Circuit) AddOperation(g Gate, targets []int, controls ...int) error {
	values := make([]uint8, len(controls))
	for i := range values {
		values[i] = 1
	}
	return c.AddControlled(g, targets, controls, values)
}

// AddControlled appends gate applied to targets, controlled by the given
// wires with explicit required values (0 or 1 per control wire). A nil
// values slice means all controls require 1.
func (c *Circuit) AddControlled(g Gate, targets, controls []int, values []uint8) error {
	if values == nil {
		values = make([]uint8, len(controls))
		for i := range values {
			values[i] = 1
		}
	}
	if err := c.validate(g, targets, controls, values); err != nil {
		return err
	}
	c.ops = append(c.ops, Operation{
		Gate:          g,
		Targets:       slices.Clone(targets),
		Controls:      slices.Clone(controls),
		ControlValues: slices.Clone(values),
	})
	return nil
}

func (c *Circuit) validate(g Gate, targets, controls []int, values []uint8) error {
	if len(targets) != g.Arity() {
		return fmt.Errorf("%w: gate %q has arity %d, got %d target wires",
			ErrArityMismatch, g.Name(), g.Arity(), len(targets))
	}
	if len(values) != len(controls) {
		return fmt.Errorf("%w: %d control values for %d control wires",
			ErrArityMismatch, len(values), len(controls))
	}
	for _, v := range values {
		if v > 1 {
			return fmt.Errorf("%w: control value %d (want 0 or 1)", ErrArityMismatch, v)
		}
	}
	seen := make(map[int]bool, len(targets)+len(controls))
	for _, w := range targets {
		if w < 0 || w >= c.numQubits {
			return fmt.Errorf("%w: gate %q target wire %d on %d-qubit circuit",
				ErrWireOutOfRange, g.Name(), w, c.numQubits)
		}
		if seen[w] {
			return fmt.Errorf("%w: gate %q references wire %d twice",
				ErrWireCollision, g.Name(), w)
		}
		seen[w] = true
	}
	for _, w := range controls {
		if w < 0 || w >= c.numQubits {
			return fmt.Errorf("%w: gate %q control wire %d on %d-qubit circuit",
				ErrWireOutOfRange, g.Name(), w, c.numQubits)
		}
		if seen[w] {
			return fmt.Errorf("%w: gate %q control wire %d collides with another wire",
				ErrWireCollision, g.Name(), w)
		}
		seen[w] = true
	}
	return nil
}

// ──────────────────────────── Convenience appenders ────────────────────────────

// H appends a Hadamard on wire q.
func (c *Circuit) H(q int) error { return c.AddOperation(H(), []int{q}) }

// X appends a Pauli-X on wire q.
func (c *Circuit) X(q int) error { return c.AddOperation(X(), []int{q}) }

// Y appends a Pauli-Y on wire q.
func (c *Circuit) Y(q int) error { return c.AddOperation(Y(), []int{q}) }

// Z appends a Pauli-Z on wire q.
func (c *Circuit) Z(q int) error { return c.AddOperation(Z(), []int{q}) }

// S appends the phase gate on wire q.
func (c *Circuit) S(q int) error { return c.AddOperation(S(), []int{q}) }

// T appends the T gate on wire q.
func (c *Circuit) T(q int) error { return c.AddOperation(T(), []int{q}) }

// RX appends a rotation about X by theta on wire q.
func (c *Circuit) RX(q int, theta float64) error { return c.AddOperation(RX(theta), []int{q}) }

// RY appends a rotation about Y by theta on wire q.
func (c *Circuit) RY(q int, theta float64) error { return c.AddOperation(RY(theta), []int{q}) }

// RZ appends a rotation about Z by theta on wire q.
func (c *Circuit) RZ(q int, theta float64) error { return c.AddOperation(RZ(theta), []int{q}) }

// CX appends an X on target controlled by control. Implemented as a
// controlled operation so only control-consistent amplitude groups are
// touched during simulation.
func (c *Circuit) CX(control, target int) error {
	return c.AddOperation(X(), []int{target}, control)
}

// CZ appends a Z on target controlled by control.
func (c *Circuit) CZ(control, target int) error {
	return c.AddOperation(Z(), []int{target}, control)
}

// SWAP appends a swap of wires a and b.
func (c *Circuit) SWAP(a, b int) error { return c.AddOperation(SWAP(), []int{a, b}) }

// Toffoli appends a doubly-controlled X (CCX).
func (c *Circuit) Toffoli(control0, control1, target int) error {
	return c.AddOperation(X(), []int{target}, control0, control1)
}
