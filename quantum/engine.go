package quantum

import (
	"fmt"
	"sync"
)

// Engine applies circuits to state vectors. It is a pure function of
// (initial state, circuit): no I/O, no suspension points, no reordering.
// Downstream unitaries generally do not commute, so operations run
// strictly in declared order.
//
// An Engine is stateless apart from its configuration and is safe for
// concurrent use on distinct StateVectors.
type Engine struct {
	cfg engineConfig
}

// NewEngine returns an engine with the given options applied over the
// defaults.
func NewEngine(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{cfg: cfg}
}

// Run applies every operation of c to state, in order, mutating state in
// place. Structural problems (width mismatch, out-of-range wires, arity
// mismatch) fail with ErrCircuitStateMismatch before any amplitude is
// touched. After the final gate the normalization invariant is verified;
// a violation is reported as ErrStateCorrupted rather than silently
// renormalized, so a non-unitary injected matrix stays observable. After
// such a failure the state contents are undefined and must not be read.
func (e *Engine) Run(state *StateVector, c *Circuit) error {
	n := state.NumQubits()
	if n > e.cfg.maxQubits {
		return fmt.Errorf("%w: %d qubits (maximum %d)", ErrTooManyQubits, n, e.cfg.maxQubits)
	}
	if c.QubitCount() != n {
		return fmt.Errorf("%w: %d-qubit circuit on %d-qubit state",
			ErrCircuitStateMismatch, c.QubitCount(), n)
	}
	ops := c.Operations()
	for i, op := range ops {
		if err := checkOperation(op, n); err != nil {
			return fmt.Errorf("%w: operation %d (%s): %v",
				ErrCircuitStateMismatch, i, op.Gate.Name(), err)
		}
	}

	for i := range ops {
		e.apply(state, ops[i])
	}

	if err := state.CheckNorm(e.cfg.tolerance); err != nil {
		return fmt.Errorf("after %d operations: %w", len(ops), err)
	}
	return nil
}

// checkOperation re-validates an operation against the concrete state
// width. Circuits built through the Circuit API are already consistent;
// this is the engine's own fail-fast guarantee.
func checkOperation(op Operation, numQubits int) error {
	if len(op.Targets) != op.Gate.Arity() {
		return fmt.Errorf("arity %d, %d target wires", op.Gate.Arity(), len(op.Targets))
	}
	if len(op.ControlValues) != len(op.Controls) {
		return fmt.Errorf("%d control values for %d controls", len(op.ControlValues), len(op.Controls))
	}
	seen := make(map[int]bool, len(op.Targets)+len(op.Controls))
	for _, w := range append(append([]int{}, op.Targets...), op.Controls...) {
		if w < 0 || w >= numQubits {
			return fmt.Errorf("wire %d on %d-qubit state", w, numQubits)
		}
		if seen[w] {
			return fmt.Errorf("wire %d referenced twice", w)
		}
		seen[w] = true
	}
	return nil
}

// apply left-multiplies the operation's unitary into every amplitude group
// addressed by its target wires, without materializing the full 2^n x 2^n
// matrix. Groups whose control bits do not match the required values pass
// through unchanged; that is the whole of controlled application.
func (e *Engine) apply(s *StateVector, op Operation) {
	var cmask, cwant int
	for i, w := range op.Controls {
		cmask |= 1 << w
		if op.ControlValues[i] == 1 {
			cwant |= 1 << w
		}
	}

	if len(op.Targets) == 1 {
		e.apply1(s, op.Gate.matrix, op.Targets[0], cmask, cwant)
		return
	}
	e.applyK(s, op.Gate.matrix, op.Targets, cmask, cwant)
}

// apply1 is the single-qubit kernel: amplitudes pair up as (i, i|bit) over
// indices with the target bit clear.
func (e *Engine) apply1(s *StateVector, m []Complex, target, cmask, cwant int) {
	bit := 1 << target
	e.forEachBase(s.Dim(), func(lo, hi int) {
		amps := s.amps
		for i := lo; i < hi; i++ {
			if i&bit != 0 || i&cmask != cwant {
				continue
			}
			j := i | bit
			a0, a1 := amps[i], amps[j]
			amps[i] = m[0]*a0 + m[1]*a1
			amps[j] = m[2]*a0 + m[3]*a1
		}
	})
}

// applyK is the general k-wire kernel. Every index with all target bits
// clear is the base of one group of 2^k amplitudes; the group members are
// base|offs[j] where bit j of the gate's sub-index maps to target wire j.
func (e *Engine) applyK(s *StateVector, m []Complex, targets []int, cmask, cwant int) {
	k := len(targets)
	dim := 1 << k
	tmask := 0
	for _, w := range targets {
		tmask |= 1 << w
	}
	offs := make([]int, dim)
	for j := 1; j < dim; j++ {
		off := 0
		for b := 0; b < k; b++ {
			if j&(1<<b) != 0 {
				off |= 1 << targets[b]
			}
		}
		offs[j] = off
	}

	e.forEachBase(s.Dim(), func(lo, hi int) {
		amps := s.amps
		in := make([]Complex, dim)
		for base := lo; base < hi; base++ {
			if base&tmask != 0 || base&cmask != cwant {
				continue
			}
			for j := 0; j < dim; j++ {
				in[j] = amps[base|offs[j]]
			}
			for r := 0; r < dim; r++ {
				var sum Complex
				row := m[r*dim:]
				for q := 0; q < dim; q++ {
					sum += row[q] * in[q]
				}
				amps[base|offs[r]] = sum
			}
		}
	})
}

// forEachBase runs fn over chunks of [0, size). With one worker it is a
// plain call; with more, chunks go to goroutines joined before return,
// which is the barrier between successive gate applications. Distinct bases address
// disjoint amplitude groups, so workers never write the same index even
// when a group's members land outside the worker's own chunk.
func (e *Engine) forEachBase(size int, fn func(lo, hi int)) {
	workers := e.cfg.workers
	if workers <= 1 || size < workers*2 {
		fn(0, size)
		return
	}
	chunk := (size + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < size; lo += chunk {
		hi := min(lo+chunk, size)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
