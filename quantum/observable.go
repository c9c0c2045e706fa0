package quantum

import (
	"fmt"
	"math"
)

// Pauli identifies one of the four single-qubit Pauli operators.
type Pauli uint8

const (
	PauliI Pauli = iota
	PauliX
	PauliY
	PauliZ
)

// String returns "I", "X", "Y" or "Z".
func (p Pauli) String() string {
	switch p {
	case PauliI:
		return "I"
	case PauliX:
		return "X"
	case PauliY:
		return "Y"
	case PauliZ:
		return "Z"
	}
	return fmt.Sprintf("Pauli(%d)", uint8(p))
}

// PauliOp is one Pauli operator placed on a wire.
type PauliOp struct {
	Wire int
	P    Pauli
}

// XOn, YOn and ZOn build placed Pauli operators for observable terms.
func XOn(wire int) PauliOp { return PauliOp{Wire: wire, P: PauliX} }
func YOn(wire int) PauliOp { return PauliOp{Wire: wire, P: PauliY} }
func ZOn(wire int) PauliOp { return PauliOp{Wire: wire, P: PauliZ} }

// Term is a real-weighted tensor product of Pauli operators on distinct
// wires. Wires not mentioned carry the identity.
type Term struct {
	Coeff float64
	Ops   []PauliOp
}

// NewTerm builds a term. The coefficient must be finite and the operators
// must sit on distinct wires; violations panic (observables are
// constructed from literals, not runtime data).
func NewTerm(coeff float64, ops ...PauliOp) Term {
	if math.IsNaN(coeff) || math.IsInf(coeff, 0) {
		panic(fmt.Sprintf("quantum: NewTerm: non-finite coefficient %v", coeff))
	}
	seen := make(map[int]bool, len(ops))
	for _, op := range ops {
		if seen[op.Wire] {
			panic(fmt.Sprintf("quantum: NewTerm: wire %d carries two Pauli operators", op.Wire))
		}
		seen[op.Wire] = true
	}
	return Term{Coeff: coeff, Ops: ops}
}

// Observable is a Hermitian operator expressed as a weighted sum of Pauli
// tensor products. Hermiticity is guaranteed by construction: coefficients
// are real and Pauli operators are self-adjoint.
type Observable struct {
	terms []Term
}

// NewObservable builds an observable from terms.
func NewObservable(terms ...Term) Observable {
	return Observable{terms: terms}
}

// PauliZObs returns the single-wire Z observable (eigenvalues ±1).
func PauliZObs(wire int) Observable {
	return NewObservable(NewTerm(1, ZOn(wire)))
}

// PauliXObs returns the single-wire X observable.
func PauliXObs(wire int) Observable {
	return NewObservable(NewTerm(1, XOn(wire)))
}

// PauliYObs returns the single-wire Y observable.
func PauliYObs(wire int) Observable {
	return NewObservable(NewTerm(1, YOn(wire)))
}

// TensorZ returns the Z⊗Z⊗... observable over the given wires.
func TensorZ(wires ...int) Observable {
	ops := make([]PauliOp, len(wires))
	for i, w := range wires {
		ops[i] = ZOn(w)
	}
	return NewObservable(NewTerm(1, ops...))
}

// Add returns a new observable with one more term appended; the receiver
// is not modified.
func (o Observable) Add(coeff float64, ops ...PauliOp) Observable {
	terms := make([]Term, len(o.terms), len(o.terms)+1)
	copy(terms, o.terms)
	return Observable{terms: append(terms, NewTerm(coeff, ops...))}
}

// Terms returns a copy of the term list.
func (o Observable) Terms() []Term {
	out := make([]Term, len(o.terms))
	copy(out, o.terms)
	return out
}

// Diagonal reports whether the observable is diagonal in the computational
// basis, i.e. contains only I and Z operators. Only diagonal observables
// can be estimated from computational-basis samples.
func (o Observable) Diagonal() bool {
	for _, t := range o.terms {
		for _, op := range t.Ops {
			if op.P == PauliX || op.P == PauliY {
				return false
			}
		}
	}
	return true
}

// maxWire returns the highest wire index referenced, or -1 for the empty
// observable.
func (o Observable) maxWire() int {
	maxW := -1
	for _, t := range o.terms {
		for _, op := range t.Ops {
			if op.Wire > maxW {
				maxW = op.Wire
			}
		}
	}
	return maxW
}

// applyPauli left-multiplies a single-wire Pauli into amps in place, using
// the same bit-pair kernels as the engine.
func applyPauli(amps []Complex, wire int, p Pauli) {
	bit := 1 << wire
	switch p {
	case PauliI:
	case PauliX:
		for i := range amps {
			if i&bit == 0 {
				j := i | bit
				amps[i], amps[j] = amps[j], amps[i]
			}
		}
	case PauliY:
		for i := range amps {
			if i&bit == 0 {
				j := i | bit
				amps[i], amps[j] = -1i*amps[j], 1i*amps[i]
			}
		}
	case PauliZ:
		for i := range amps {
			if i&bit != 0 {
				amps[i] = -amps[i]
			}
		}
	}
}

// eigenvalue returns the term's eigenvalue (excluding the coefficient) for
// a computational-basis outcome. Valid only for diagonal terms: Z on a
// wire contributes +1 for bit 0 and -1 for bit 1.
func (t Term) eigenvalue(outcome int) float64 {
	v := 1.0
	for _, op := range t.Ops {
		if op.P == PauliZ && outcome&(1<<op.Wire) != 0 {
			v = -v
		}
	}
	return v
}
