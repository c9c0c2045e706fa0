package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"qvecsim/quantum"
)

func main() {
	var (
		file    = flag.String("file", "", "QASM file to load")
		qubits  = flag.Int("qubits", 4, "number of qubits for a new circuit")
		shots   = flag.Int("shots", 1024, "shots per sampling run")
		seed    = flag.Uint64("seed", 0, "RNG seed (0 seeds from entropy)")
		workers = flag.Int("workers", 1, "goroutines per gate application")
		run     = flag.Bool("run", false, "run headless: simulate, print results, exit")
	)
	flag.Parse()

	if os.Getenv("QVECSIM_DEBUG") != "" {
		f, err := tea.LogToFile("qvecsim-debug.log", "debug")
		if err != nil {
			fmt.Fprintln(os.Stderr, "debug log:", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	diagram := NewDiagram(*qubits)
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load:", err)
			os.Exit(1)
		}
		if err := diagram.ParseQASM(string(data)); err != nil {
			fmt.Fprintln(os.Stderr, "parse:", err)
			os.Exit(1)
		}
	}

	eng := quantum.NewEngine(quantum.WithWorkers(*workers))

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	if *run {
		if err := runHeadless(diagram, eng, rng, *shots); err != nil {
			fmt.Fprintln(os.Stderr, "run:", err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(newModel(diagram, eng, rng, *shots), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runHeadless simulates the whole circuit once and prints amplitudes,
// probabilities, and a sampled histogram to stdout.
func runHeadless(d *Diagram, eng *quantum.Engine, rng *rand.Rand, shots int) error {
	state, err := d.Simulate(eng, -1)
	if err != nil {
		return err
	}
	n := state.NumQubits()

	probs, err := quantum.Probabilities(state)
	if err != nil {
		return err
	}

	fmt.Printf("qubits: %d  gates: %d\n\n", n, len(d.Gates))
	for i, p := range probs {
		if p < 1e-9 {
			continue
		}
		fmt.Printf("|%s⟩  %+.6f%+.6fi  p=%.6f\n",
			quantum.Bitstring(i, n), real(state.Amplitude(i)), imag(state.Amplitude(i)), p)
	}

	marg, err := quantum.MarginalProbabilities(state)
	if err != nil {
		return err
	}
	fmt.Println()
	for q, wp := range marg {
		fmt.Printf("q[%d]  P(0)=%.6f  P(1)=%.6f\n", q, wp.Zero, wp.One)
	}

	if shots > 0 {
		samples, err := quantum.Sample(state, shots, rng)
		if err != nil {
			return err
		}
		fmt.Printf("\ncounts (%d shots):\n", shots)
		counts := quantum.Counts(samples, n)
		for i := range probs {
			bits := quantum.Bitstring(i, n)
			if c, ok := counts[bits]; ok {
				fmt.Printf("%s  %d\n", bits, c)
			}
		}
	}
	return nil
}
