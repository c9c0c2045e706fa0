package quantum

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Probabilities returns the Born-rule distribution over all 2^n basis
// indices: probabilities[i] = |amplitude(i)|². A negative or NaN entry, or
// a total deviating from 1 beyond DefaultTolerance, fails with
// ErrStateCorrupted; such values are surfaced, never clamped.
func Probabilities(s *StateVector) ([]float64, error) {
	probs := make([]float64, s.Dim())
	for i, a := range s.amps {
		p := real(a)*real(a) + imag(a)*imag(a)
		if math.IsNaN(p) {
			return nil, fmt.Errorf("%w: NaN probability at basis index %d", ErrStateCorrupted, i)
		}
		probs[i] = p
	}
	if total := floats.Sum(probs); math.Abs(total-1) > DefaultTolerance {
		return nil, fmt.Errorf("%w: probabilities sum to %v", ErrStateCorrupted, total)
	}
	return probs, nil
}

// WireProbability is the marginal distribution of a single wire.
type WireProbability struct {
	Zero float64
	One  float64
}

// MarginalProbabilities returns, per wire, the probability of observing 0
// and 1 when all other wires are traced out.
func MarginalProbabilities(s *StateVector) ([]WireProbability, error) {
	probs, err := Probabilities(s)
	if err != nil {
		return nil, err
	}
	out := make([]WireProbability, s.numQubits)
	for i, p := range probs {
		for q := 0; q < s.numQubits; q++ {
			if i&(1<<q) != 0 {
				out[q].One += p
			} else {
				out[q].Zero += p
			}
		}
	}
	return out, nil
}

// Sample draws shots independent basis-index outcomes from the state's
// Born-rule distribution using the supplied random source. The source is
// injected precisely so that a fixed seed reproduces the same sequence;
// the package never touches a global generator. rng must not be nil.
// shots <= 0 returns an empty slice.
func Sample(s *StateVector, shots int, rng *rand.Rand) ([]int, error) {
	if rng == nil {
		panic("quantum: Sample: nil random source")
	}
	probs, err := Probabilities(s)
	if err != nil {
		return nil, err
	}
	outcomes := make([]int, 0, max(shots, 0))
	for range shots {
		outcomes = append(outcomes, drawOutcome(probs, rng.Float64()))
	}
	return outcomes, nil
}

// drawOutcome inverts the cumulative distribution at u ∈ [0, 1). Floating
// residue can leave the cumulative total marginally below u; the draw then
// falls back to the last outcome with nonzero probability.
func drawOutcome(probs []float64, u float64) int {
	cum := 0.0
	last := 0
	for i, p := range probs {
		if p <= 0 {
			continue
		}
		cum += p
		last = i
		if u < cum {
			return i
		}
	}
	return last
}

// Counts aggregates sampled basis indices into bitstring counts. Bitstring
// characters are ordered wire 0 first, matching the index convention
// (bit i of the index is wire i).
func Counts(samples []int, numQubits int) map[string]int {
	counts := make(map[string]int)
	for _, outcome := range samples {
		counts[Bitstring(outcome, numQubits)]++
	}
	return counts
}

// Bitstring renders a basis index with wire 0 as the leftmost character.
func Bitstring(index, numQubits int) string {
	var sb strings.Builder
	for q := 0; q < numQubits; q++ {
		if index&(1<<q) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Expectation computes ⟨ψ|O|ψ⟩ exactly, term by term: each Pauli string is
// applied to a scratch copy of the state, the inner product with the
// original state is taken, and the real results are summed with their
// coefficients. Linear in the number of terms. Fails with
// ErrWireOutOfRange when the observable references wires the state does
// not have.
func Expectation(s *StateVector, o Observable) (float64, error) {
	if maxW := o.maxWire(); maxW >= s.numQubits {
		return 0, fmt.Errorf("%w: observable wire %d on %d-qubit state",
			ErrWireOutOfRange, maxW, s.numQubits)
	}
	total := 0.0
	scratch := make([]Complex, s.Dim())
	for _, t := range o.terms {
		copy(scratch, s.amps)
		for _, op := range t.Ops {
			applyPauli(scratch, op.Wire, op.P)
		}
		total += t.Coeff * real(innerRaw(s.amps, scratch))
	}
	return total, nil
}

// ExpectationFromSamples estimates ⟨O⟩ as the sample mean of the
// eigenvalues assigned to each observed outcome. This only works for
// observables diagonal in the measurement basis that produced the samples
// (I/Z tensor terms); anything else fails with ErrUnsupportedObservable.
// Callers wanting ⟨X⟩ or ⟨Y⟩ must apply a basis-change circuit before
// sampling. The sample set must be non-empty.
func ExpectationFromSamples(samples []int, o Observable, numQubits int) (float64, error) {
	if !o.Diagonal() {
		return 0, fmt.Errorf("%w: contains X or Y terms", ErrUnsupportedObservable)
	}
	if maxW := o.maxWire(); maxW >= numQubits {
		return 0, fmt.Errorf("%w: observable wire %d with %d qubits",
			ErrWireOutOfRange, maxW, numQubits)
	}
	if len(samples) == 0 {
		return 0, fmt.Errorf("quantum: expectation from empty sample set")
	}
	eigs := make([]float64, len(samples))
	for i, outcome := range samples {
		v := 0.0
		for _, t := range o.terms {
			v += t.Coeff * t.eigenvalue(outcome)
		}
		eigs[i] = v
	}
	return stat.Mean(eigs, nil), nil
}
