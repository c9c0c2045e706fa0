package quantum

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestSampleDeterministicWithSeed(t *testing.T) {
	c := NewCircuit(2)
	require.NoError(t, c.H(0))
	require.NoError(t, c.RY(1, 0.9))
	s := runCircuit(t, c)

	first, err := Sample(s, 1000, seededRNG(42))
	require.NoError(t, err)
	second, err := Sample(s, 1000, seededRNG(42))
	require.NoError(t, err)
	assert.Equal(t, first, second, "same seed and state must reproduce the sequence")

	third, err := Sample(s, 1000, seededRNG(7))
	require.NoError(t, err)
	assert.NotEqual(t, first, third, "different seeds should diverge")
}

func TestSampleZeroShots(t *testing.T) {
	out, err := Sample(NewStateVector(1), 0, seededRNG(1))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSampleDeterministicState(t *testing.T) {
	// |111⟩ via the Toffoli circuit: every shot must be outcome 7.
	c := NewCircuit(3)
	require.NoError(t, c.X(0))
	require.NoError(t, c.X(1))
	require.NoError(t, c.Toffoli(0, 1, 2))
	s := runCircuit(t, c)

	for _, shots := range []int{1, 17, 500} {
		out, err := Sample(s, shots, seededRNG(99))
		require.NoError(t, err)
		require.Len(t, out, shots)
		for _, o := range out {
			assert.Equal(t, 7, o)
		}
	}
}

func TestSampleFrequencies(t *testing.T) {
	c := NewCircuit(1)
	require.NoError(t, c.H(0))
	s := runCircuit(t, c)

	out, err := Sample(s, 10000, seededRNG(42))
	require.NoError(t, err)
	ones := 0
	for _, o := range out {
		ones += o
	}
	// 3-sigma band around 5000 for p=0.5.
	assert.InDelta(t, 5000, ones, 150)
}

func TestSampleNilRNGPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = Sample(NewStateVector(1), 1, nil) })
}

func TestProbabilitiesRejectCorruption(t *testing.T) {
	s := NewStateVector(1)
	s.amps[0] = complex(math.NaN(), 0)
	_, err := Probabilities(s)
	require.ErrorIs(t, err, ErrStateCorrupted)

	s = NewStateVector(1)
	s.amps[0] = 2 // norm 2, not a state
	_, err = Probabilities(s)
	require.ErrorIs(t, err, ErrStateCorrupted)
}

func TestMarginalProbabilities(t *testing.T) {
	c := NewCircuit(2)
	require.NoError(t, c.H(0))
	require.NoError(t, c.CX(0, 1))
	s := runCircuit(t, c)

	marg, err := MarginalProbabilities(s)
	require.NoError(t, err)
	require.Len(t, marg, 2)
	for q, wp := range marg {
		assert.InDelta(t, 0.5, wp.Zero, 1e-8, "wire %d", q)
		assert.InDelta(t, 0.5, wp.One, 1e-8, "wire %d", q)
	}
}

func TestCountsAndBitstring(t *testing.T) {
	assert.Equal(t, "10", Bitstring(1, 2), "wire 0 is the leftmost character")
	assert.Equal(t, "01", Bitstring(2, 2))
	assert.Equal(t, "111", Bitstring(7, 3))

	counts := Counts([]int{0, 3, 3, 1}, 2)
	assert.Equal(t, map[string]int{"00": 1, "11": 2, "10": 1}, counts)
}

func TestExpectationAnalytic(t *testing.T) {
	// |0⟩ --RX(π/4)--H--Z--⟨Y⟩ evaluates to -1/√2.
	c := NewCircuit(1)
	require.NoError(t, c.RX(0, math.Pi/4))
	require.NoError(t, c.H(0))
	require.NoError(t, c.Z(0))
	s := runCircuit(t, c)

	y, err := Expectation(s, PauliYObs(0))
	require.NoError(t, err)
	assert.InDelta(t, -1/math.Sqrt2, y, 1e-8)
}

func TestExpectationPauliSum(t *testing.T) {
	// ⟨0|Z|0⟩ = 1, ⟨0|X|0⟩ = 0; weighted sum over both wires of |01⟩.
	s := basisState(2, 2) // wire 0 = 0, wire 1 = 1
	obs := NewObservable(
		NewTerm(0.5, ZOn(0)),
		NewTerm(2.0, ZOn(1)),
		NewTerm(3.0, XOn(0)),
	)
	got, err := Expectation(s, obs)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*1+2.0*(-1)+3.0*0, got, 1e-8)
}

func TestExpectationWireOutOfRange(t *testing.T) {
	_, err := Expectation(NewStateVector(1), PauliZObs(3))
	require.ErrorIs(t, err, ErrWireOutOfRange)
}

func TestExpectationFromSamples(t *testing.T) {
	// 75% outcome 0 (+1), 25% outcome 1 (-1) → ⟨Z⟩ = 0.5.
	samples := []int{0, 0, 0, 1}
	got, err := ExpectationFromSamples(samples, PauliZObs(0), 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-12)
}

func TestExpectationFromSamplesZZ(t *testing.T) {
	// Bell-like counts: only 00 and 11, Z⊗Z eigenvalue +1 everywhere.
	samples := []int{0, 3, 3, 0, 0, 3}
	got, err := ExpectationFromSamples(samples, TensorZ(0, 1), 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestExpectationFromSamplesRejectsNonDiagonal(t *testing.T) {
	_, err := ExpectationFromSamples([]int{0}, PauliXObs(0), 1)
	require.ErrorIs(t, err, ErrUnsupportedObservable)
	_, err = ExpectationFromSamples([]int{0}, PauliYObs(0), 1)
	require.ErrorIs(t, err, ErrUnsupportedObservable)
}

func TestExpectationFromSamplesEmpty(t *testing.T) {
	_, err := ExpectationFromSamples(nil, PauliZObs(0), 1)
	require.Error(t, err)
}

func TestAnalyticMatchesSampledEstimate(t *testing.T) {
	c := NewCircuit(1)
	require.NoError(t, c.RY(0, 1.1))
	s := runCircuit(t, c)

	analytic, err := Expectation(s, PauliZObs(0))
	require.NoError(t, err)

	samples, err := Sample(s, 20000, seededRNG(42))
	require.NoError(t, err)
	estimated, err := ExpectationFromSamples(samples, PauliZObs(0), 1)
	require.NoError(t, err)

	assert.InDelta(t, analytic, estimated, 0.03)
}
