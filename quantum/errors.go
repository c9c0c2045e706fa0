package quantum

import "errors"

// Sentinel errors returned by this package. Call sites wrap these with
// gate names and wire indices via fmt.Errorf("...: %w", Err...), so match
// with errors.Is.
var (
	// ErrDegenerateState reports an amplitude vector whose L2 norm is zero
	// or non-finite, which cannot be normalized into a quantum state.
	ErrDegenerateState = errors.New("quantum: degenerate state (zero or non-finite norm)")

	// ErrInvalidUnitary reports a caller-supplied matrix that fails the
	// unitarity check U·U† = I within tolerance.
	ErrInvalidUnitary = errors.New("quantum: matrix is not unitary")

	// ErrWireOutOfRange reports a wire index outside [0, qubit count).
	ErrWireOutOfRange = errors.New("quantum: wire index out of range")

	// ErrWireCollision reports overlapping target and control wires in a
	// single operation.
	ErrWireCollision = errors.New("quantum: target and control wires overlap")

	// ErrArityMismatch reports a target wire count that does not match the
	// gate's arity.
	ErrArityMismatch = errors.New("quantum: wire count does not match gate arity")

	// ErrCircuitStateMismatch reports a circuit that does not fit the state
	// it is being applied to (width mismatch or structurally malformed
	// operation). Detected before any amplitude is mutated.
	ErrCircuitStateMismatch = errors.New("quantum: circuit does not fit state")

	// ErrStateCorrupted reports a state whose amplitudes violate the Born
	// rule (negative or NaN probability, norm drifted outside tolerance).
	// This indicates a programming error upstream, typically a non-unitary
	// injected matrix; it is never auto-corrected.
	ErrStateCorrupted = errors.New("quantum: state vector corrupted")

	// ErrUnsupportedObservable reports a sample-based expectation request
	// for an observable that is not diagonal in the computational basis.
	ErrUnsupportedObservable = errors.New("quantum: observable not diagonal in measurement basis")

	// ErrTooManyQubits reports a register wider than the engine's
	// configured maximum.
	ErrTooManyQubits = errors.New("quantum: qubit count exceeds configured maximum")
)
