package main

import (
	"fmt"
	"math/cmplx"
	"slices"
	"strings"

	"qvecsim/quantum"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// gateDisplayName returns a short display name for a gate type.
func gateDisplayName(g *PlacedGate) string {
	if g.IsDagger {
		return g.Type + "†"
	}
	return g.Type
}

// controlSymbol returns the wire symbol for the control qubit of a two-qubit gate.
func controlSymbol(gateType string) string {
	if gateType == "SWAP" {
		return "×"
	}
	return "●"
}

// targetSymbol returns the wire symbol for the target qubit of a two-qubit gate.
func targetSymbol(gateType string) string {
	switch gateType {
	case "CZ":
		return "●"
	case "SWAP":
		return "×"
	default:
		return "⊕"
	}
}

// ──────────────────────────── Cell rendering ────────────────────────────

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate        *PlacedGate
	isControl   bool
	isTarget    bool
	vertAbove   bool
	vertBelow   bool
	passThrough bool
}

// getCellInfo returns rendering information for the cell at (step, qubit).
func (d *Diagram) getCellInfo(step, qubit int) cellInfo {
	var info cellInfo

	gate := d.GetGateAt(step, qubit)
	if gate != nil {
		info.gate = gate
		info.isControl = gate.Control == qubit || slices.Contains(gate.Controls, qubit)
		info.isTarget = gate.Target == qubit && (gate.Control >= 0 || len(gate.Controls) > 0)
	}

	// Vertical connections for multi-qubit gates spanning this wire.
	for _, g := range d.Gates {
		if g.Step != step {
			continue
		}
		minQ, maxQ := g.Target, g.Target
		if g.Control >= 0 {
			minQ, maxQ = min(minQ, g.Control), max(maxQ, g.Control)
		}
		for _, ctrl := range g.Controls {
			minQ, maxQ = min(minQ, ctrl), max(maxQ, ctrl)
		}
		if minQ == maxQ {
			continue
		}
		if qubit >= minQ && qubit <= maxQ {
			if qubit > minQ {
				info.vertAbove = true
			}
			if qubit < maxQ {
				info.vertBelow = true
			}
			if qubit > minQ && qubit < maxQ && info.gate == nil {
				info.passThrough = true
			}
		}
	}

	return info
}

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	// ── Highlighted cell (cursor or target selection) ──
	if hl == hlCursor || hl == hlTargetSelect {
		bdr := cursorBoxStyle
		if hl == hlTargetSelect {
			bdr = targetSelectStyle
		}
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		switch {
		case info.gate != nil && info.isControl:
			sym := controlSymbol(info.gate.Type)
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.gate != nil && info.isTarget:
			sym := targetSymbol(info.gate.Type)
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.gate != nil:
			name := padCenter(gateDisplayName(info.gate), gateNameW)
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(name) + "├─" + bdr.Render("║")
		case info.passThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	// ── Normal (non-highlighted) cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.gate != nil && (info.isControl || info.isTarget):
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		sym := controlSymbol(info.gate.Type)
		if info.isTarget {
			sym = targetSymbol(info.gate.Type)
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}

	case info.gate != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(gateDisplayName(info.gate), gateNameW)

		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)

	case info.passThrough:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	default:
		// Empty wire
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}
	}

	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Quantum Circuit"))
	sb.WriteString("\n\n")

	// How many steps fit
	availWidth := width - labelVisualW - 4
	maxSteps := max(availWidth/cellW, 1)

	startStep := 0
	if m.cursorStep >= maxSteps {
		startStep = m.cursorStep - maxSteps + 1
	}

	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", startStep, startStep+maxSteps-1)
	}

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+maxSteps; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := range m.diagram.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+maxSteps; step++ {
			info := m.diagram.getCellInfo(step, qubit)

			hl := hlNone
			switch {
			case step == m.cursorStep && qubit == m.cursorQubit &&
				(m.focus == focusCircuit || m.focus == focusMenu):
				hl = hlCursor
			case step == m.cursorStep && qubit == m.targetQubit &&
				(m.focus == focusSelectTarget || m.focus == focusSelectControls):
				hl = hlTargetSelect
			case step == m.cursorStep && qubit == m.cursorQubit &&
				(m.focus == focusSelectTarget || m.focus == focusSelectControls):
				hl = hlCursor
			}

			top, mid, bot := renderCell(info, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Status line
	switch {
	case m.focus == focusSelectTarget:
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s", activeGateStyle.Render(m.pendingGate))
		sb.WriteString("  Select target qubit: ")
		fmt.Fprintf(&sb, "%s", targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	case m.focus == focusSelectControls:
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s", activeGateStyle.Render(m.pendingGate))
		sb.WriteString("  Select control qubit: ")
		fmt.Fprintf(&sb, "%s", targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	default:
		fmt.Fprintf(&sb, "\n  Position: Step %d, Qubit %d", m.cursorStep, m.cursorQubit)
		if m.statusMsg != "" {
			fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// formatAmp formats a complex amplitude for the state panel.
func formatAmp(a quantum.Complex) string {
	return fmt.Sprintf("%+.3f%+.3fi", real(a), imag(a))
}

// probBar draws a probability as a bar of block characters.
func probBar(p float64) string {
	filled := min(int(p*probBarW+0.5), probBarW)
	return probBarStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("·", probBarW-filled))
}

// renderStatePanel renders the live state vector panel: the amplitudes of
// the state after the step under the cursor, per-wire marginals, and the
// latest sampling run if one exists.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s", titleStyle.Render(fmt.Sprintf("State After Step %d", m.cursorStep)))
	sb.WriteString("\n\n")

	switch {
	case m.simErr != nil:
		sb.WriteString(errorStyle.Render("simulation error"))
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(m.simErr.Error()))

	case m.state != nil:
		sb.WriteString(m.renderAmplitudes())
		sb.WriteString("\n")
		sb.WriteString(m.renderMarginals())
		if m.lastCounts != nil {
			sb.WriteString("\n")
			sb.WriteString(m.renderCounts())
		}
	}

	return stateStyle.Width(width).Height(height).Render(sb.String())
}

// renderAmplitudes lists the most probable basis states with their
// amplitudes. Indices are ordered so the display stays stable while a
// parameter is tuned.
func (m Model) renderAmplitudes() string {
	dim := m.state.Dim()
	idx := make([]int, dim)
	probs := make([]float64, dim)
	for i := range dim {
		idx[i] = i
		a := m.state.Amplitude(i)
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case probs[a] > probs[b]:
			return -1
		case probs[a] < probs[b]:
			return 1
		}
		return a - b
	})
	shown := idx[:min(maxStateRows, dim)]
	slices.Sort(shown)

	var sb strings.Builder
	n := m.state.NumQubits()
	for _, i := range shown {
		a := m.state.Amplitude(i)
		if cmplx.Abs(a) < 1e-6 && dim > maxStateRows {
			continue
		}
		fmt.Fprintf(&sb, "%s %s  %s %s\n",
			qubitLabelStyle.Render("|"+quantum.Bitstring(i, n)+"⟩"),
			ampStyle.Render(formatAmp(a)),
			probBar(probs[i]),
			dimStyle.Render(fmt.Sprintf("%5.1f%%", probs[i]*100)))
	}
	if dim > maxStateRows {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("… %d basis states total\n", dim)))
	}
	return sb.String()
}

// renderMarginals shows P(1) for each wire.
func (m Model) renderMarginals() string {
	marg, err := quantum.MarginalProbabilities(m.state)
	if err != nil {
		return errorStyle.Render(err.Error()) + "\n"
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Per-Qubit P(1)"))
	sb.WriteString("\n")
	for q, wp := range marg {
		fmt.Fprintf(&sb, "%s %s %s\n",
			qubitLabelStyle.Render(fmt.Sprintf("q[%d]", q)),
			probBar(wp.One),
			dimStyle.Render(fmt.Sprintf("%5.1f%%", wp.One*100)))
	}
	return sb.String()
}

// renderCounts shows the histogram from the last sampling run.
func (m Model) renderCounts() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s", titleStyle.Render(fmt.Sprintf("Counts (%d shots)", m.shots)))
	sb.WriteString("\n")
	keys := make([]string, 0, len(m.lastCounts))
	for k := range m.lastCounts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		c := m.lastCounts[k]
		fmt.Fprintf(&sb, "%s %s %s\n",
			qubitLabelStyle.Render(k),
			probBar(float64(c)/float64(m.shots)),
			dimStyle.Render(fmt.Sprintf("%d", c)))
	}
	return sb.String()
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Move qubit  ←→/hl Move step  +/- Qubits")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Add gate\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("e Edit  Bksp Delete  s Sample  ^R Reset  ^S Save QASM  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at
// position (x, y), tracking visible columns through ANSI escapes.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns starting at position x in bgLine
// with the overlay content, preserving ANSI escape sequences around it.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix strings.Builder
	var suffix strings.Builder

	col := 0
	i := 0
	inEsc := false

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			inEsc = true
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				if inEsc && runes[i] != '\x1b' && runes[i] != '[' && ((runes[i] >= 'A' && runes[i] <= 'Z') || (runes[i] >= 'a' && runes[i] <= 'z')) {
					inEsc = false
					i++
					break
				}
				i++
			}
		} else {
			prefix.WriteRune(runes[i])
			col++
			i++
		}
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if i > 0 && runes[i-1] != '\x1b' && runes[i-1] != '[' && ((runes[i-1] >= 'A' && runes[i-1] <= 'Z') || (runes[i-1] >= 'a' && runes[i-1] <= 'z')) {
					break
				}
			}
		} else {
			skipped++
			i++
		}
	}

	// Collect suffix: rest of the background line
	for i < len(runes) {
		suffix.WriteRune(runes[i])
		i++
	}

	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
