package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Complex is the amplitude type used throughout the package.
type Complex = complex128

// DefaultTolerance is the numerical tolerance used for norm and unitarity
// checks unless overridden.
const DefaultTolerance = 1e-8

// StateVector holds the 2^n complex amplitudes of an n-qubit register.
// Bit i of a basis index is the value of wire i.
//
// A StateVector is mutated in place by Engine.Run and read (never mutated)
// by the measurement functions.
type StateVector struct {
	amps      []Complex
	numQubits int
}

// NewStateVector returns an n-qubit register initialized to |0...0⟩.
// numQubits must be at least 1; anything else is a programmer error and
// panics.
func NewStateVector(numQubits int) *StateVector {
	if numQubits < 1 {
		panic(fmt.Sprintf("quantum: NewStateVector: numQubits must be >= 1, got %d", numQubits))
	}
	amps := make([]Complex, 1<<numQubits)
	amps[0] = 1
	return &StateVector{amps: amps, numQubits: numQubits}
}

// NewStateVectorFrom builds an n-qubit register from caller-supplied
// amplitudes, normalizing them. The input slice is not retained. It fails
// with ErrDegenerateState when the amplitudes cannot be normalized, and
// with ErrCircuitStateMismatch when len(amps) != 2^numQubits.
func NewStateVectorFrom(numQubits int, amps []Complex) (*StateVector, error) {
	if numQubits < 1 {
		panic(fmt.Sprintf("quantum: NewStateVectorFrom: numQubits must be >= 1, got %d", numQubits))
	}
	if len(amps) != 1<<numQubits {
		return nil, fmt.Errorf("%w: %d amplitudes for %d qubits (want %d)",
			ErrCircuitStateMismatch, len(amps), numQubits, 1<<numQubits)
	}
	normalized, err := Normalize(amps)
	if err != nil {
		return nil, err
	}
	return &StateVector{amps: normalized, numQubits: numQubits}, nil
}

// Normalize returns a copy of amps scaled to unit L2 norm. It is pure: the
// input is never modified. A zero or non-finite norm fails with
// ErrDegenerateState.
func Normalize(amps []Complex) ([]Complex, error) {
	norm := l2norm(amps)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, fmt.Errorf("%w: L2 norm %v", ErrDegenerateState, norm)
	}
	out := make([]Complex, len(amps))
	inv := complex(1/norm, 0)
	for i, a := range amps {
		out[i] = a * inv
	}
	return out, nil
}

// InnerProduct returns ⟨a|b⟩ = Σ conj(aᵢ)·bᵢ. It is conjugate-linear in a
// and linear in b; InnerProduct(a, a) is real and non-negative. The two
// states must have the same width.
func InnerProduct(a, b *StateVector) (Complex, error) {
	if a.numQubits != b.numQubits {
		return 0, fmt.Errorf("%w: inner product of %d-qubit and %d-qubit states",
			ErrCircuitStateMismatch, a.numQubits, b.numQubits)
	}
	return innerRaw(a.amps, b.amps), nil
}

func innerRaw(a, b []Complex) Complex {
	var sum Complex
	for i := range a {
		sum += cmplx.Conj(a[i]) * b[i]
	}
	return sum
}

func l2norm(amps []Complex) float64 {
	sum := 0.0
	for _, a := range amps {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(sum)
}

// NumQubits returns the register width.
func (s *StateVector) NumQubits() int { return s.numQubits }

// Dim returns the amplitude count, 2^n.
func (s *StateVector) Dim() int { return len(s.amps) }

// Amplitude returns the amplitude of basis index i.
func (s *StateVector) Amplitude(i int) Complex { return s.amps[i] }

// Amplitudes returns a copy of the amplitude buffer. Callers may not reach
// into the live buffer; the engine owns mutation.
func (s *StateVector) Amplitudes() []Complex {
	out := make([]Complex, len(s.amps))
	copy(out, s.amps)
	return out
}

// Clone returns an independent deep copy of the state.
func (s *StateVector) Clone() *StateVector {
	return &StateVector{amps: s.Amplitudes(), numQubits: s.numQubits}
}

// Norm returns the L2 norm of the amplitudes. 1 for a valid state.
func (s *StateVector) Norm() float64 { return l2norm(s.amps) }

// CheckNorm verifies the normalization invariant within tol, failing with
// ErrStateCorrupted on violation. A violation indicates a non-unitary
// "gate" or corrupted input, not a recoverable condition.
func (s *StateVector) CheckNorm(tol float64) error {
	norm := s.Norm()
	if math.IsNaN(norm) || math.Abs(norm-1) > tol {
		return fmt.Errorf("%w: L2 norm %v (tolerance %v)", ErrStateCorrupted, norm, tol)
	}
	return nil
}
