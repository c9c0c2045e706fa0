package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	singleGateParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `(?:\s*,\s*` + paramPattern + `)*)\s*\)\s+q\[(\d+)\];?$`)
	twoQubitRegex        = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	twoQubitParamRegex   = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	threeQubitRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qregRegex            = regexp.MustCompile(`qreg\s+(\w+)\[(\d+)\]`)
)

// ToQASM generates QASM 2.0 text for the drawing. Only the unitary
// subset the simulator understands is emitted; there is no creg,
// measurement, or classical control.
func (d *Diagram) ToQASM() string {
	maxQubit := -1
	for _, g := range d.Gates {
		maxQubit = max(maxQubit, g.Target, g.Control)
		for _, ctrl := range g.Controls {
			maxQubit = max(maxQubit, ctrl)
		}
	}
	numQubits := max(maxQubit+1, d.NumQubits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", numQubits)

	for _, g := range d.sortedGates() {
		writeQASMGate(&sb, g)
	}
	return sb.String()
}

func writeQASMGate(sb *strings.Builder, g PlacedGate) {
	name := strings.ToLower(g.Type)
	switch {
	case len(g.Controls) >= 2 && (g.Type == "CCX" || g.Type == "TOFFOLI"):
		fmt.Fprintf(sb, "ccx q[%d], q[%d], q[%d];\n", g.Controls[0], g.Controls[1], g.Target)
	case g.Control >= 0 && len(g.Params) > 0:
		fmt.Fprintf(sb, "%s(%s) q[%d], q[%d];\n", name, formatParam(g.Params[0]), g.Control, g.Target)
	case g.Control >= 0:
		fmt.Fprintf(sb, "%s q[%d], q[%d];\n", name, g.Control, g.Target)
	case len(g.Params) > 0:
		parts := make([]string, len(g.Params))
		for i, p := range g.Params {
			parts[i] = formatParam(p)
		}
		fmt.Fprintf(sb, "%s(%s) q[%d];\n", name, strings.Join(parts, ", "), g.Target)
	case g.IsDagger:
		fmt.Fprintf(sb, "%sdg q[%d];\n", name, g.Target)
	default:
		fmt.Fprintf(sb, "%s q[%d];\n", name, g.Target)
	}
}

// ParseQASM rebuilds the drawing from QASM 2.0 text. Lines the simulator
// has no semantics for (creg, measure, barrier, reset, if) are skipped.
func (d *Diagram) ParseQASM(qasm string) error {
	d.Gates = nil
	d.MaxSteps = 0
	step := 0

	for _, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "", strings.HasPrefix(line, "//"):
			continue
		case strings.HasPrefix(line, "OPENQASM"), strings.HasPrefix(line, "include"):
			continue
		case strings.HasPrefix(line, "qreg"):
			if matches := qregRegex.FindStringSubmatch(line); len(matches) > 2 {
				n, _ := strconv.Atoi(matches[2])
				d.NumQubits = n
			}
			continue
		case strings.HasPrefix(line, "creg"),
			strings.HasPrefix(line, "barrier"),
			strings.HasPrefix(line, "measure"),
			strings.HasPrefix(line, "reset"),
			strings.HasPrefix(line, "if"):
			continue
		}

		// Two-qubit gates: cx, cz, swap, ch
		if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			qubit1, _ := strconv.Atoi(matches[2])
			qubit2, _ := strconv.Atoi(matches[3])
			d.AddGate(gateType, qubit2, step, qubit1)
			step++
			continue
		}

		// Single-qubit parameterized gates (rx, ry, rz, p, u1, u2, u3)
		if matches := singleGateParamRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			target, _ := strconv.Atoi(matches[3])

			var params []float64
			for _, pStr := range strings.Split(matches[2], ",") {
				if p, ok := parseParamExpr(strings.TrimSpace(pStr)); ok {
					params = append(params, p)
				}
			}
			d.AddParameterizedGate(gateType, target, step, params)
			step++
			continue
		}

		// Two-qubit parameterized gates (crx, cry, crz, cu1/cp)
		if matches := twoQubitParamRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			param, _ := parseParamExpr(matches[2])
			qubit1, _ := strconv.Atoi(matches[3])
			qubit2, _ := strconv.Atoi(matches[4])
			d.AddParameterizedGate(gateType, qubit2, step, []float64{param}, qubit1)
			step++
			continue
		}

		// Three-qubit gates (ccx/toffoli)
		if matches := threeQubitRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			qubit1, _ := strconv.Atoi(matches[2])
			qubit2, _ := strconv.Atoi(matches[3])
			qubit3, _ := strconv.Atoi(matches[4])
			if gateType == "CCX" || gateType == "TOFFOLI" {
				d.AddMultiControlGate("CCX", qubit3, step, []int{qubit1, qubit2})
				step++
			}
			continue
		}

		// Single-qubit gates, including dagger forms (sdg, tdg, sxdg)
		if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			target, _ := strconv.Atoi(matches[2])
			if base, ok := strings.CutSuffix(gateType, "DG"); ok {
				d.AddDaggerGate(base, target, step)
			} else {
				d.AddGate(gateType, target, step)
			}
			step++
			continue
		}

		return fmt.Errorf("unrecognized QASM statement: %q", line)
	}

	if d.NumQubits < 1 {
		d.NumQubits = 1
	}
	for _, g := range d.Gates {
		hi := max(g.Target, g.Control)
		for _, ctrl := range g.Controls {
			hi = max(hi, ctrl)
		}
		if hi >= d.NumQubits {
			d.NumQubits = hi + 1
		}
	}
	return nil
}
