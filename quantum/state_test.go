package quantum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		amps []Complex
	}{
		{"real", []Complex{0.8, 0.6}},
		{"complex", []Complex{complex(2, 1), complex(-0.3, 0.4)}},
		{"pure imaginary", []Complex{1i, -2i}},
		{"negative real", []Complex{-3, 4}},
		{"two qubit", []Complex{1, 1i, -1, -1i}},
		{"already normalized", []Complex{complex(1/math.Sqrt2, 0), complex(0, 1/math.Sqrt2)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Normalize(tc.amps)
			require.NoError(t, err)
			require.Len(t, out, len(tc.amps))
			assert.InDelta(t, 1.0, l2norm(out), 1e-8)
		})
	}
}

func TestNormalizePure(t *testing.T) {
	in := []Complex{3, 4}
	_, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, []Complex{3, 4}, in, "input must not be mutated")
}

func TestNormalizeDegenerate(t *testing.T) {
	_, err := Normalize([]Complex{0, 0})
	require.ErrorIs(t, err, ErrDegenerateState)

	_, err = Normalize([]Complex{complex(math.NaN(), 0), 1})
	require.ErrorIs(t, err, ErrDegenerateState)

	_, err = Normalize([]Complex{complex(math.Inf(1), 0), 1})
	require.ErrorIs(t, err, ErrDegenerateState)
}

func TestInnerProductOrthonormality(t *testing.T) {
	const n = 2
	for i := 0; i < 1<<n; i++ {
		for j := 0; j < 1<<n; j++ {
			a := basisState(n, i)
			b := basisState(n, j)
			got, err := InnerProduct(a, b)
			require.NoError(t, err)
			want := Complex(0)
			if i == j {
				want = 1
			}
			assert.InDelta(t, real(want), real(got), 1e-12, "⟨e%d|e%d⟩", i, j)
			assert.InDelta(t, imag(want), imag(got), 1e-12, "⟨e%d|e%d⟩", i, j)
		}
	}
}

func TestInnerProductConjugateLinearity(t *testing.T) {
	a, err := NewStateVectorFrom(1, []Complex{complex(0.6, 0), complex(0, 0.8)})
	require.NoError(t, err)
	b, err := NewStateVectorFrom(1, []Complex{complex(0, 1), 0})
	require.NoError(t, err)

	ab, err := InnerProduct(a, b)
	require.NoError(t, err)
	ba, err := InnerProduct(b, a)
	require.NoError(t, err)

	// ⟨a|b⟩ = conj(⟨b|a⟩)
	assert.InDelta(t, real(ab), real(ba), 1e-12)
	assert.InDelta(t, imag(ab), -imag(ba), 1e-12)

	// ⟨a|a⟩ real and non-negative
	aa, err := InnerProduct(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 0, imag(aa), 1e-12)
	assert.GreaterOrEqual(t, real(aa), 0.0)
}

func TestInnerProductWidthMismatch(t *testing.T) {
	_, err := InnerProduct(NewStateVector(1), NewStateVector(2))
	require.ErrorIs(t, err, ErrCircuitStateMismatch)
}

func TestNewStateVector(t *testing.T) {
	s := NewStateVector(3)
	assert.Equal(t, 3, s.NumQubits())
	assert.Equal(t, 8, s.Dim())
	assert.Equal(t, Complex(1), s.Amplitude(0))
	require.NoError(t, s.CheckNorm(1e-12))

	assert.Panics(t, func() { NewStateVector(0) })
}

func TestNewStateVectorFrom(t *testing.T) {
	s, err := NewStateVectorFrom(1, []Complex{2, 0})
	require.NoError(t, err)
	assert.Equal(t, Complex(1), s.Amplitude(0))

	_, err = NewStateVectorFrom(2, []Complex{1, 0})
	require.ErrorIs(t, err, ErrCircuitStateMismatch)

	_, err = NewStateVectorFrom(1, []Complex{0, 0})
	require.ErrorIs(t, err, ErrDegenerateState)
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewStateVector(2)
	c := s.Clone()
	s.amps[0] = 0
	s.amps[3] = 1
	assert.Equal(t, Complex(1), c.Amplitude(0))
	assert.Equal(t, Complex(0), c.Amplitude(3))
}

func TestAmplitudesIsCopy(t *testing.T) {
	s := NewStateVector(1)
	amps := s.Amplitudes()
	amps[0] = 42
	assert.Equal(t, Complex(1), s.Amplitude(0))
}

func TestCheckNorm(t *testing.T) {
	s := NewStateVector(1)
	require.NoError(t, s.CheckNorm(1e-8))

	s.amps[0] = 2 // simulate a non-unitary "gate"
	err := s.CheckNorm(1e-8)
	require.ErrorIs(t, err, ErrStateCorrupted)
}

// basisState builds |index⟩ over n qubits.
func basisState(n, index int) *StateVector {
	s := NewStateVector(n)
	s.amps[0] = 0
	s.amps[index] = 1
	return s
}
