package quantum

import (
	"math"
	"testing"
)

func benchCircuit(n int) *Circuit {
	c := NewCircuit(n)
	for q := 0; q < n; q++ {
		_ = c.H(q)
	}
	for q := 0; q < n-1; q++ {
		_ = c.CX(q, q+1)
	}
	for q := 0; q < n; q++ {
		_ = c.RZ(q, math.Pi/float64(q+2))
	}
	return c
}

func benchmarkRun(b *testing.B, n, workers int) {
	eng := NewEngine(WithWorkers(workers))
	c := benchCircuit(n)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := NewStateVector(n)
		if err := eng.Run(s, c); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRun10Qubits(b *testing.B)        { benchmarkRun(b, 10, 1) }
func BenchmarkRun14Qubits(b *testing.B)        { benchmarkRun(b, 14, 1) }
func BenchmarkRun14QubitsWorkers(b *testing.B) { benchmarkRun(b, 14, 4) }

func BenchmarkProbabilities(b *testing.B) {
	s := NewStateVector(14)
	if err := NewEngine().Run(s, benchCircuit(14)); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Probabilities(s); err != nil {
			b.Fatal(err)
		}
	}
}
