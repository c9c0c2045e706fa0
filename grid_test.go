package main

import (
	"math"
	"testing"

	"qvecsim/quantum"
)

func TestCompileOrdersBySteps(t *testing.T) {
	d := NewDiagram(2)
	// Placed out of order on purpose.
	d.AddGate("X", 1, 2)
	d.AddGate("H", 0, 0)
	d.AddGate("CX", 1, 1, 0)

	c, err := d.Compile(-1)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	ops := c.Operations()
	if len(ops) != 3 {
		t.Fatalf("expected 3 operations, got %d", len(ops))
	}
	// CNOT lowers to an X kernel with a control wire.
	want := []string{"H", "X", "X"}
	for i, op := range ops {
		if op.Gate.Name() != want[i] {
			t.Errorf("operation %d: got %s, want %s", i, op.Gate.Name(), want[i])
		}
	}
	if len(ops[1].Controls) != 1 || ops[1].Controls[0] != 0 {
		t.Errorf("middle operation should be controlled by q[0], got %v", ops[1].Controls)
	}
	if len(ops[2].Controls) != 0 {
		t.Errorf("last operation should be uncontrolled, got %v", ops[2].Controls)
	}
}

func TestCompileUpToStep(t *testing.T) {
	d := NewDiagram(1)
	d.AddGate("H", 0, 0)
	d.AddGate("X", 0, 1)

	c, err := d.Compile(0)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 operation up to step 0, got %d", c.Len())
	}
	if c.Operations()[0].Gate.Name() != "H" {
		t.Errorf("expected H, got %s", c.Operations()[0].Gate.Name())
	}
}

func TestCompileControlledRotation(t *testing.T) {
	d := NewDiagram(2)
	d.AddParameterizedGate("CRZ", 1, 0, []float64{math.Pi / 2}, 0)

	c, err := d.Compile(-1)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	op := c.Operations()[0]
	if op.Gate.Name() != "RZ" {
		t.Errorf("expected RZ kernel, got %s", op.Gate.Name())
	}
	if len(op.Controls) != 1 || op.Controls[0] != 0 {
		t.Errorf("expected control on q[0], got %v", op.Controls)
	}
}

func TestCompileDagger(t *testing.T) {
	d := NewDiagram(1)
	d.AddDaggerGate("S", 0, 0)

	c, err := d.Compile(-1)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if got := c.Operations()[0].Gate.Name(); got != "SDG" {
		t.Errorf("expected SDG, got %s", got)
	}
}

func TestCompileUnsupportedGate(t *testing.T) {
	d := NewDiagram(1)
	d.AddGate("WARP", 0, 0)
	if _, err := d.Compile(-1); err == nil {
		t.Fatal("expected error for unsupported gate type")
	}
}

func TestSimulateBell(t *testing.T) {
	d := NewDiagram(2)
	d.AddGate("H", 0, 0)
	d.AddGate("CX", 1, 1, 0)

	state, err := d.Simulate(quantum.NewEngine(), -1)
	if err != nil {
		t.Fatalf("Simulate error: %v", err)
	}

	probs, err := quantum.Probabilities(state)
	if err != nil {
		t.Fatalf("Probabilities error: %v", err)
	}
	if math.Abs(probs[0]-0.5) > 1e-8 || math.Abs(probs[3]-0.5) > 1e-8 {
		t.Errorf("Bell state: P(00)=%g P(11)=%g, want 0.5 each", probs[0], probs[3])
	}
	if probs[1] > 1e-12 || probs[2] > 1e-12 {
		t.Errorf("Bell state: cross terms should vanish, got %g and %g", probs[1], probs[2])
	}
}

func TestSimulateToffoli(t *testing.T) {
	d := NewDiagram(3)
	d.AddGate("X", 0, 0)
	d.AddGate("X", 1, 0)
	d.AddMultiControlGate("CCX", 2, 1, []int{0, 1})

	state, err := d.Simulate(quantum.NewEngine(), -1)
	if err != nil {
		t.Fatalf("Simulate error: %v", err)
	}
	probs, err := quantum.Probabilities(state)
	if err != nil {
		t.Fatalf("Probabilities error: %v", err)
	}
	if math.Abs(probs[7]-1) > 1e-8 {
		t.Errorf("expected |111⟩ with probability 1, got %g", probs[7])
	}
}

func TestGridPlacement(t *testing.T) {
	d := NewDiagram(3)
	d.AddGate("H", 0, 0)
	d.AddGate("CX", 2, 0, 1)

	if d.CanPlaceAt(0, []int{0}) {
		t.Error("q[0] at step 0 should be occupied")
	}
	if d.CanPlaceAt(0, []int{1}) || d.CanPlaceAt(0, []int{2}) {
		t.Error("CX wires at step 0 should be occupied")
	}
	if !d.CanPlaceAt(1, []int{0, 1, 2}) {
		t.Error("step 1 should be free")
	}

	if g := d.GetGateAt(0, 1); g == nil || g.Type != "CX" {
		t.Errorf("expected CX at (0, q[1]), got %+v", g)
	}

	d.RemoveGateAt(0, 1)
	if d.GetGateAt(0, 2) != nil {
		t.Error("removing via the control wire should drop the whole CX")
	}
	if d.GetGateAt(0, 0) == nil {
		t.Error("H on q[0] should survive")
	}
}

func TestRemoveGatesOnQubit(t *testing.T) {
	d := NewDiagram(3)
	d.AddGate("H", 0, 0)
	d.AddGate("CX", 1, 1, 2)
	d.AddGate("X", 2, 2)

	d.RemoveGatesOnQubit(2)
	if len(d.Gates) != 1 {
		t.Fatalf("expected only H to survive, got %d gates", len(d.Gates))
	}
	if d.Gates[0].Type != "H" {
		t.Errorf("expected H, got %s", d.Gates[0].Type)
	}
}
