package quantum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allGates enumerates every constructor the library exposes, including
// representative parameterized and controlled instances.
func allGates() []Gate {
	return []Gate{
		I(), X(), Y(), Z(), H(), S(), SDagger(), T(), TDagger(), SX(),
		CX(), CZ(), CH(), SWAP(),
		RX(0.3), RY(-1.2), RZ(math.Pi / 5), Phase(2.1),
		U(0.7, -0.4, 1.9),
		Controlled(X(), 1),
		Controlled(H(), 2),
		Controlled(X(), 3),
		Controlled(SWAP(), 1),
	}
}

func TestGateUnitarity(t *testing.T) {
	for _, g := range allGates() {
		t.Run(g.Name(), func(t *testing.T) {
			assert.Less(t, unitarityDefect(g.matrix, g.Dim()), 1e-8,
				"‖U·U† − I‖ for %s", g.Name())
		})
	}
}

func TestGateAdjointRoundTrip(t *testing.T) {
	pairs := []struct {
		name string
		g, a Gate
	}{
		{"RX", RX(0.7), RX(-0.7)},
		{"S", S(), SDagger()},
		{"T", T(), TDagger()},
		{"RZ adjoint", RZ(1.1), RZ(1.1).Adjoint()},
		{"U adjoint", U(0.5, 0.2, -0.9), U(0.5, 0.2, -0.9).Adjoint()},
		{"CH adjoint", CH(), CH().Adjoint()},
	}
	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewStateVectorFrom(tc.g.Arity(), randomishAmps(1<<tc.g.Arity()))
			require.NoError(t, err)
			orig := s.Amplitudes()

			eng := NewEngine()
			c := NewCircuit(tc.g.Arity())
			targets := make([]int, tc.g.Arity())
			for i := range targets {
				targets[i] = i
			}
			require.NoError(t, c.AddOperation(tc.g, targets))
			require.NoError(t, c.AddOperation(tc.a, targets))
			require.NoError(t, eng.Run(s, c))

			for i, a := range s.Amplitudes() {
				assert.InDelta(t, real(orig[i]), real(a), 1e-8, "amp %d", i)
				assert.InDelta(t, imag(orig[i]), imag(a), 1e-8, "amp %d", i)
			}
		})
	}
}

func TestAdjointNames(t *testing.T) {
	assert.Equal(t, "SDG", S().Adjoint().Name())
	assert.Equal(t, "S", SDagger().Adjoint().Name())
	assert.Equal(t, "TDG", T().Adjoint().Name())
	assert.Equal(t, "RX", RX(0.5).Adjoint().Name())
	assert.Equal(t, []float64{-0.5}, RX(0.5).Adjoint().Params())
}

func TestNewUnitary(t *testing.T) {
	h := complex(1/math.Sqrt2, 0)
	g, err := NewUnitary("MYH", 1, []Complex{h, h, h, -h})
	require.NoError(t, err)
	assert.Equal(t, 1, g.Arity())
	assert.Equal(t, "MYH", g.Name())

	// Not unitary: rows are not orthonormal.
	_, err = NewUnitary("BAD", 1, []Complex{1, 1, 0, 1})
	require.ErrorIs(t, err, ErrInvalidUnitary)

	// Wrong shape.
	_, err = NewUnitary("SHORT", 1, []Complex{1, 0})
	require.ErrorIs(t, err, ErrInvalidUnitary)

	// Looser tolerance admits a slightly-off matrix.
	almost := []Complex{complex(1+1e-6, 0), 0, 0, 1}
	_, err = NewUnitary("DRIFT", 1, almost)
	require.ErrorIs(t, err, ErrInvalidUnitary)
	_, err = NewUnitaryTol("DRIFT", 1, almost, 1e-4)
	require.NoError(t, err)
}

func TestNewUnitaryRejectsNaN(t *testing.T) {
	_, err := NewUnitary("NAN", 1, []Complex{complex(math.NaN(), 0), 0, 0, 1})
	require.ErrorIs(t, err, ErrInvalidUnitary)
}

func TestControlledMatchesCX(t *testing.T) {
	ccx := Controlled(X(), 1)
	assert.Equal(t, "CX", ccx.Name())
	assert.Equal(t, CX().Matrix(), ccx.Matrix())
}

func TestControlledToffoliMatrix(t *testing.T) {
	ccx := Controlled(X(), 2)
	assert.Equal(t, "CCX", ccx.Name())
	assert.Equal(t, 3, ccx.Arity())

	m := ccx.Matrix()
	dim := 8
	// Identity except the controls-both-1 block: |110⟩(3) ↔ |111⟩(7).
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			want := Complex(0)
			switch {
			case r == 3 && c == 7, r == 7 && c == 3:
				want = 1
			case r == c && r != 3 && r != 7:
				want = 1
			}
			assert.Equal(t, want, m[r*dim+c], "entry (%d,%d)", r, c)
		}
	}
}

func TestMatrixIsCopy(t *testing.T) {
	g := H()
	m := g.Matrix()
	m[0] = 0
	assert.NotEqual(t, Complex(0), g.matrix[0])
}

// randomishAmps returns a fixed, norm-varied amplitude vector; tests
// normalize it through NewStateVectorFrom.
func randomishAmps(n int) []Complex {
	amps := make([]Complex, n)
	for i := range amps {
		amps[i] = complex(float64(i%3)+0.5, float64((i*7)%5)-2)
	}
	return amps
}
