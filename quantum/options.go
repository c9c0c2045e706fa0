package quantum

import "fmt"

// Engine defaults. Each default is overridable through a With* option;
// option constructors panic on nonsensical values (programmer error, not a
// runtime condition).
const (
	// DefaultMaxQubits bounds register width before the 2^n amplitude
	// buffer is even allocated. 24 qubits is 256 MiB of complex128.
	DefaultMaxQubits = 24

	// DefaultWorkers runs gate application single-threaded.
	DefaultWorkers = 1
)

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	tolerance float64
	maxQubits int
	workers   int
}

func defaultConfig() engineConfig {
	return engineConfig{
		tolerance: DefaultTolerance,
		maxQubits: DefaultMaxQubits,
		workers:   DefaultWorkers,
	}
}

// WithTolerance sets the norm tolerance used for the post-run invariant
// check. tol must be positive.
func WithTolerance(tol float64) Option {
	if tol <= 0 {
		panic(fmt.Sprintf("quantum: WithTolerance: tolerance must be positive, got %v", tol))
	}
	return func(c *engineConfig) { c.tolerance = tol }
}

// WithMaxQubits sets the resource guard: Run rejects states wider than n
// with ErrTooManyQubits. n must be at least 1.
func WithMaxQubits(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("quantum: WithMaxQubits: n must be >= 1, got %d", n))
	}
	return func(c *engineConfig) { c.maxQubits = n }
}

// WithWorkers sets the number of goroutines used to apply a gate across
// its independent amplitude groups. Workers write disjoint index sets and
// are joined at a barrier before the next gate; 1 disables parallelism.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("quantum: WithWorkers: n must be >= 1, got %d", n))
	}
	return func(c *engineConfig) { c.workers = n }
}
