package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// Gate is an immutable unitary acting on a fixed number of wires. The
// matrix is row-major with dimension 2^arity. For multi-wire gates, bit j
// of a row/column index corresponds to the j-th wire the gate is applied
// to (so for CX the control is the first wire and the target the second).
type Gate struct {
	name   string
	arity  int
	matrix []Complex
	params []float64
}

// Name returns the gate's display name ("H", "CX", "RX", ...).
func (g Gate) Name() string { return g.name }

// Arity returns the number of wires the gate acts on.
func (g Gate) Arity() int { return g.arity }

// Dim returns the matrix dimension, 2^arity.
func (g Gate) Dim() int { return 1 << g.arity }

// Matrix returns a copy of the row-major unitary matrix.
func (g Gate) Matrix() []Complex {
	out := make([]Complex, len(g.matrix))
	copy(out, g.matrix)
	return out
}

// Params returns the real parameters the gate was constructed with
// (rotation angles), or nil for fixed gates.
func (g Gate) Params() []float64 {
	if g.params == nil {
		return nil
	}
	out := make([]float64, len(g.params))
	copy(out, g.params)
	return out
}

// Adjoint returns the conjugate transpose U†. For the named phase gates
// the adjoint keeps the conventional name (S ↔ SDG, T ↔ TDG); rotations
// keep their name with negated parameters.
func (g Gate) Adjoint() Gate {
	dim := g.Dim()
	m := make([]Complex, len(g.matrix))
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			m[c*dim+r] = cmplx.Conj(g.matrix[r*dim+c])
		}
	}
	var params []float64
	if g.params != nil {
		params = make([]float64, len(g.params))
		for i, p := range g.params {
			params[i] = -p
		}
	}
	return Gate{name: adjointName(g.name), arity: g.arity, matrix: m, params: params}
}

func adjointName(name string) string {
	switch {
	case name == "S", name == "T", name == "SX":
		return name + "DG"
	case strings.HasSuffix(name, "DG"):
		return strings.TrimSuffix(name, "DG")
	default:
		return name
	}
}

func gate1(name string, m [4]Complex, params ...float64) Gate {
	return Gate{name: name, arity: 1, matrix: m[:], params: params}
}

func gate2(name string, m [16]Complex, params ...float64) Gate {
	return Gate{name: name, arity: 2, matrix: m[:], params: params}
}

// ──────────────────────────── Fixed single-qubit gates ────────────────────────────

// I returns the single-qubit identity.
func I() Gate { return gate1("I", [4]Complex{1, 0, 0, 1}) }

// X returns the Pauli-X (NOT) gate.
func X() Gate { return gate1("X", [4]Complex{0, 1, 1, 0}) }

// Y returns the Pauli-Y gate.
func Y() Gate { return gate1("Y", [4]Complex{0, -1i, 1i, 0}) }

// Z returns the Pauli-Z gate.
func Z() Gate { return gate1("Z", [4]Complex{1, 0, 0, -1}) }

// H returns the Hadamard gate.
func H() Gate {
	h := complex(1/math.Sqrt2, 0)
	return gate1("H", [4]Complex{h, h, h, -h})
}

// S returns the phase gate diag(1, i).
func S() Gate { return gate1("S", [4]Complex{1, 0, 0, 1i}) }

// SDagger returns S†, diag(1, -i).
func SDagger() Gate { return gate1("SDG", [4]Complex{1, 0, 0, -1i}) }

// T returns the π/8 gate diag(1, e^{iπ/4}).
func T() Gate {
	return gate1("T", [4]Complex{1, 0, 0, cmplx.Exp(complex(0, math.Pi/4))})
}

// TDagger returns T†.
func TDagger() Gate {
	return gate1("TDG", [4]Complex{1, 0, 0, cmplx.Exp(complex(0, -math.Pi/4))})
}

// SX returns the square root of X.
func SX() Gate {
	p := complex(0.5, 0.5)  // (1+i)/2
	q := complex(0.5, -0.5) // (1-i)/2
	return gate1("SX", [4]Complex{p, q, q, p})
}

// ──────────────────────────── Parameterized rotations ────────────────────────────

// RX returns exp(-iθX/2), the rotation about the X axis.
func RX(theta float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	return gate1("RX", [4]Complex{c, js, js, c}, theta)
}

// RY returns exp(-iθY/2), the rotation about the Y axis.
func RY(theta float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return gate1("RY", [4]Complex{c, -s, s, c}, theta)
}

// RZ returns exp(-iθZ/2), the rotation about the Z axis.
func RZ(theta float64) Gate {
	p := cmplx.Exp(complex(0, theta/2))
	return gate1("RZ", [4]Complex{cmplx.Conj(p), 0, 0, p}, theta)
}

// Phase returns diag(1, e^{iθ}), the phase-shift gate (QASM's p/u1).
func Phase(theta float64) Gate {
	return gate1("P", [4]Complex{1, 0, 0, cmplx.Exp(complex(0, theta))}, theta)
}

// U returns the general single-qubit rotation U(θ, φ, λ); every
// single-qubit unitary is U(θ, φ, λ) up to global phase.
func U(theta, phi, lambda float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return gate1("U3", [4]Complex{
		c, -cmplx.Exp(complex(0, lambda)) * s,
		cmplx.Exp(complex(0, phi)) * s, cmplx.Exp(complex(0, phi+lambda)) * c,
	}, theta, phi, lambda)
}

// ──────────────────────────── Fixed two-qubit gates ────────────────────────────
//
// Wire order is (control, target) where applicable: bit 0 of the matrix
// index is the first wire passed to Circuit.AddOperation.

// CX returns the controlled-X gate.
func CX() Gate {
	var m [16]Complex
	m[0*4+0], m[2*4+2] = 1, 1 // control 0: identity
	m[1*4+3], m[3*4+1] = 1, 1 // control 1: flip target bit
	return gate2("CX", m)
}

// CZ returns the controlled-Z gate.
func CZ() Gate {
	var m [16]Complex
	m[0*4+0], m[1*4+1], m[2*4+2] = 1, 1, 1
	m[3*4+3] = -1
	return gate2("CZ", m)
}

// CH returns the controlled-Hadamard gate.
func CH() Gate {
	h := complex(1/math.Sqrt2, 0)
	var m [16]Complex
	m[0*4+0], m[2*4+2] = 1, 1
	m[1*4+1], m[1*4+3] = h, h
	m[3*4+1], m[3*4+3] = h, -h
	return gate2("CH", m)
}

// SWAP returns the two-qubit swap gate.
func SWAP() Gate {
	var m [16]Complex
	m[0*4+0], m[3*4+3] = 1, 1
	m[1*4+2], m[2*4+1] = 1, 1
	return gate2("SWAP", m)
}

// ──────────────────────────── Constructors ────────────────────────────

// NewUnitary wraps a caller-supplied row-major matrix as a gate after
// validating its shape and unitarity (tolerance DefaultTolerance). It
// fails with ErrInvalidUnitary when U·U† deviates from the identity.
func NewUnitary(name string, arity int, matrix []Complex) (Gate, error) {
	return NewUnitaryTol(name, arity, matrix, DefaultTolerance)
}

// NewUnitaryTol is NewUnitary with an explicit tolerance.
func NewUnitaryTol(name string, arity int, matrix []Complex, tol float64) (Gate, error) {
	if arity < 1 {
		panic(fmt.Sprintf("quantum: NewUnitary: arity must be >= 1, got %d", arity))
	}
	if tol <= 0 {
		panic(fmt.Sprintf("quantum: NewUnitary: tolerance must be positive, got %v", tol))
	}
	dim := 1 << arity
	if len(matrix) != dim*dim {
		return Gate{}, fmt.Errorf("%w: %q has %d entries, want %dx%d",
			ErrInvalidUnitary, name, len(matrix), dim, dim)
	}
	m := make([]Complex, len(matrix))
	copy(m, matrix)
	if dev := unitarityDefect(m, dim); dev > tol {
		return Gate{}, fmt.Errorf("%w: %q deviates from U·U†=I by %v (tolerance %v)",
			ErrInvalidUnitary, name, dev, tol)
	}
	return Gate{name: name, arity: arity, matrix: m}, nil
}

// unitarityDefect returns max |(U·U† - I)[r][c]| over all entries.
func unitarityDefect(m []Complex, dim int) float64 {
	defect := 0.0
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			var sum Complex
			for k := 0; k < dim; k++ {
				sum += m[r*dim+k] * cmplx.Conj(m[c*dim+k])
			}
			if r == c {
				sum -= 1
			}
			d := cmplx.Abs(sum)
			if math.IsNaN(d) {
				return math.Inf(1)
			}
			if d > defect {
				defect = d
			}
		}
	}
	return defect
}

// Controlled lifts g to a gate with numControls additional control wires.
// The returned gate's first numControls wires are the controls (required
// value 1) and the remaining wires are g's targets; it acts as identity
// unless every control wire is |1⟩. Any number of controls is supported:
// Controlled(X(), 2) is the Toffoli gate.
//
// Per-control required values of 0 are expressed at the circuit level via
// Circuit.AddControlled rather than baked into the matrix.
func Controlled(g Gate, numControls int) Gate {
	if numControls < 1 {
		panic(fmt.Sprintf("quantum: Controlled: numControls must be >= 1, got %d", numControls))
	}
	arity := numControls + g.arity
	dim := 1 << arity
	gdim := g.Dim()
	cmask := (1 << numControls) - 1
	m := make([]Complex, dim*dim)
	for r := 0; r < dim; r++ {
		if r&cmask != cmask {
			m[r*dim+r] = 1
			continue
		}
		tr := r >> numControls
		for tc := 0; tc < gdim; tc++ {
			c := tc<<numControls | cmask
			m[r*dim+c] = g.matrix[tr*gdim+tc]
		}
	}
	return Gate{
		name:   strings.Repeat("C", numControls) + g.name,
		arity:  arity,
		matrix: m,
		params: g.Params(),
	}
}
