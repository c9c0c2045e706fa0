// Package quantum implements a dense statevector simulator for quantum
// circuits on small registers (the kind of circuits a terminal editor or a
// variational-optimization loop produces).
//
// The package is organized around five pieces:
//
//   - StateVector: 2^n complex amplitudes for an n-qubit register. Bit i of
//     a basis index is the value of wire i; this convention is fixed
//     everywhere, including sampling output and QASM round-trips performed
//     by callers.
//   - Gates: immutable unitary value objects. Fixed gates (X, H, CX, ...),
//     parameterized rotations (RX, RY, RZ, Phase, U), an arbitrary-unitary
//     injector, and a multi-controlled constructor.
//   - Circuit: an ordered, validated list of (gate, targets, controls)
//     operations. Pure data; it performs no simulation.
//   - Engine: applies a circuit to a state in declared order. A k-wire gate
//     is applied group-by-group over the 2^(n-k) amplitude sub-blocks, never
//     materializing a 2^n x 2^n matrix. Group application may be spread
//     across worker goroutines with a barrier between gates.
//   - Measurement: Born-rule probabilities, seeded shot sampling, and
//     expectation values of Pauli-sum observables (analytic or estimated
//     from samples).
//
// All failures are synchronous and fatal to the call: malformed circuits
// are rejected before any amplitude is touched, numerical preconditions
// (non-unitary matrices, zero-norm states, NaN probabilities) surface as
// errors rather than being silently corrected, and the engine never
// renormalizes mid-circuit.
package quantum
