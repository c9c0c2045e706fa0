package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qvecsim/quantum"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusMenu
	focusSelectTarget
	focusSelectControls
	focusInputParam
	focusEditGate
	focusEditParam
	focusEditTarget
	focusEditControl
)

// Model represents the TUI application state.
type Model struct {
	diagram *Diagram
	engine  *quantum.Engine
	rng     *rand.Rand
	shots   int

	// Simulation of the drawing up to the cursor step.
	state      *quantum.StateVector
	simErr     error
	lastCounts map[string]int

	cursorQubit int
	cursorStep  int
	width       int
	height      int
	focus       focus
	statusMsg   string

	// Menu state
	menuCat  int
	menuItem int

	// Placement state (multi-qubit and parameterized gates)
	pendingGate   string
	targetQubit   int
	paramInput    textinput.Model
	pendingParams []float64
	controlQubits []int

	// Edit gate state
	editGate       *PlacedGate // pointer into diagram.Gates
	editMenuIdx    int
	editOrigStep   int
	editControlIdx int // -1 for the single Control field
}

func newModel(diagram *Diagram, eng *quantum.Engine, rng *rand.Rand, shots int) Model {
	ti := textinput.New()
	ti.Placeholder = "pi/2"
	ti.CharLimit = 40
	ti.Width = 24

	m := Model{
		diagram:    diagram,
		engine:     eng,
		rng:        rng,
		shots:      shots,
		paramInput: ti,
		focus:      focusCircuit,
	}
	m.refreshState()
	return m
}

// refreshState re-simulates the drawing up to the cursor step. Any
// stale sampling histogram is discarded.
func (m *Model) refreshState() {
	m.state, m.simErr = m.diagram.Simulate(m.engine, m.cursorStep)
	m.lastCounts = nil
}

// sample draws shots from the currently displayed state.
func (m *Model) sample() {
	if m.state == nil {
		return
	}
	samples, err := quantum.Sample(m.state, m.shots, m.rng)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Sampling error: %v", err)
		return
	}
	m.lastCounts = quantum.Counts(samples, m.state.NumQubits())
}

func (m *Model) clearPending() {
	m.pendingGate = ""
	m.pendingParams = nil
	m.controlQubits = nil
	m.paramInput.SetValue("")
	m.paramInput.Blur()
}

// placeGate places a gate on the drawing at the cursor position.
// targetQ is the target qubit for multi-qubit gates (-1 for single-qubit).
func (m *Model) placeGate(gateType string, targetQ int) bool {
	var qubitsNeeded []int
	switch gateType {
	case "CX", "CZ", "SWAP", "CH", "CRX", "CRY", "CRZ", "CP":
		qubitsNeeded = []int{m.cursorQubit, targetQ}
	case "CCX":
		qubitsNeeded = append([]int{m.cursorQubit, targetQ}, m.controlQubits...)
	default:
		qubitsNeeded = []int{m.cursorQubit}
	}

	if !m.diagram.CanPlaceAt(m.cursorStep, qubitsNeeded) {
		m.statusMsg = "Cannot place: qubit already used by another gate at this step"
		m.clearPending()
		return false
	}

	params := m.pendingParams
	switch gateType {
	case "CX", "CZ", "SWAP", "CH":
		m.diagram.AddGate(gateType, targetQ, m.cursorStep, m.cursorQubit)
	case "CRX", "CRY", "CRZ", "CP":
		if len(params) == 0 {
			params = []float64{0}
		}
		m.diagram.AddParameterizedGate(gateType, targetQ, m.cursorStep, params[:1], m.cursorQubit)
	case "CCX":
		controls := append([]int{m.cursorQubit}, m.controlQubits...)
		m.diagram.AddMultiControlGate("CCX", targetQ, m.cursorStep, controls)
	case "RX", "RY", "RZ", "P":
		if len(params) == 0 {
			params = []float64{0}
		}
		m.diagram.AddParameterizedGate(gateType, m.cursorQubit, m.cursorStep, params[:1])
	case "U2":
		for len(params) < 2 {
			params = append(params, 0)
		}
		m.diagram.AddParameterizedGate(gateType, m.cursorQubit, m.cursorStep, params[:2])
	case "U3":
		for len(params) < 3 {
			params = append(params, 0)
		}
		m.diagram.AddParameterizedGate(gateType, m.cursorQubit, m.cursorStep, params[:3])
	case "SDG", "TDG":
		m.diagram.AddDaggerGate(strings.TrimSuffix(gateType, "DG"), m.cursorQubit, m.cursorStep)
	default:
		m.diagram.AddGate(gateType, m.cursorQubit, m.cursorStep)
	}

	m.clearPending()
	m.cursorStep++
	m.diagram.bumpSteps(m.cursorStep)
	m.refreshState()
	return true
}

// pickTargetAfterMenu moves into target selection for a two-qubit gate.
func (m *Model) pickTargetAfterMenu() {
	m.focus = focusSelectTarget
	m.targetQubit = m.cursorQubit + 1
	if m.targetQubit >= m.diagram.NumQubits {
		m.targetQubit = m.cursorQubit - 1
	}
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "ctrl+r":
				m.diagram.Gates = nil
				m.diagram.MaxSteps = 0
				m.cursorStep = 0
				m.refreshState()
			case "ctrl+s":
				qasm := m.diagram.ToQASM()
				if err := os.WriteFile("circuit.qasm", []byte(qasm), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved circuit.qasm"
				}
			case "s":
				m.sample()
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.diagram.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
					m.refreshState()
				}
			case "right", "l":
				m.cursorStep++
				m.diagram.bumpSteps(m.cursorStep)
				m.refreshState()
			case "+", "=":
				m.diagram.NumQubits++
				m.refreshState()
			case "-":
				if m.diagram.NumQubits > 1 {
					m.diagram.NumQubits--
					m.cursorQubit = min(m.cursorQubit, m.diagram.NumQubits-1)
					m.diagram.RemoveGatesOnQubit(m.diagram.NumQubits)
					m.refreshState()
				}
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				m.diagram.RemoveGateAt(m.cursorStep, m.cursorQubit)
				m.refreshState()
			case "e":
				gate := m.diagram.GetGateAt(m.cursorStep, m.cursorQubit)
				if gate != nil {
					m.editGate = gate
					m.editMenuIdx = 0
					m.editOrigStep = m.cursorStep
					m.focus = focusEditGate
				}
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(gateMenu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := gateMenu[m.menuCat].items[m.menuItem]
				m.pendingGate = item.gateType

				if item.needsParams {
					m.paramInput.SetValue("")
					m.paramInput.Placeholder = item.paramHint.example
					m.paramInput.Focus()
					m.focus = focusInputParam
					break
				}

				if item.gateType == "CCX" {
					if m.diagram.NumQubits < 3 {
						m.statusMsg = "Toffoli needs at least 3 qubits"
						break
					}
					m.controlQubits = nil
					m.focus = focusSelectControls
					m.targetQubit = m.cursorQubit + 1
					if m.targetQubit >= m.diagram.NumQubits {
						m.targetQubit = m.cursorQubit - 1
					}
					break
				}

				if item.needsTarget {
					if m.diagram.NumQubits < 2 {
						m.statusMsg = "Two-qubit gates need at least 2 qubits"
						break
					}
					m.pickTargetAfterMenu()
				} else if m.placeGate(item.gateType, -1) {
					m.focus = focusCircuit
				}
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.clearPending()
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if next != m.cursorQubit && !slicesContains(m.controlQubits, next) {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.diagram.NumQubits; next++ {
					if next != m.cursorQubit && !slicesContains(m.controlQubits, next) {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				if m.placeGate(m.pendingGate, m.targetQubit) {
					m.focus = focusCircuit
				}
			}

		case focusSelectControls:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.clearPending()
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.diagram.NumQubits; next++ {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				m.controlQubits = append(m.controlQubits, m.targetQubit)
				m.focus = focusSelectTarget
				for q := 0; q < m.diagram.NumQubits; q++ {
					if q != m.cursorQubit && !slicesContains(m.controlQubits, q) {
						m.targetQubit = q
						break
					}
				}
			}

		case focusInputParam:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.clearPending()
			case "enter":
				input := m.paramInput.Value()
				params := parseParamList(input)
				if input != "" && params == nil {
					m.statusMsg = "Invalid parameter — use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
					break
				}
				m.pendingParams = params
				m.paramInput.Blur()

				item := gateMenu[m.menuCat].items[m.menuItem]
				if item.needsTarget {
					if m.diagram.NumQubits < 2 {
						m.statusMsg = "Two-qubit gates need at least 2 qubits"
						m.focus = focusCircuit
						m.clearPending()
						break
					}
					m.pickTargetAfterMenu()
				} else if m.placeGate(m.pendingGate, -1) {
					m.focus = focusCircuit
				}
			default:
				var cmd tea.Cmd
				m.paramInput, cmd = m.paramInput.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusEditGate:
			if m.editGate == nil {
				m.focus = focusCircuit
				break
			}
			editOptions := m.getEditOptions()
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.editGate = nil
			case "up", "k":
				if m.editMenuIdx > 0 {
					m.editMenuIdx--
				}
			case "down", "j":
				if m.editMenuIdx < len(editOptions)-1 {
					m.editMenuIdx++
				}
			case "enter":
				if m.editMenuIdx >= len(editOptions) {
					break
				}
				switch opt := editOptions[m.editMenuIdx]; opt.action {
				case "edit_param":
					m.paramInput.SetValue("")
					m.paramInput.Focus()
					m.focus = focusEditParam
				case "edit_target":
					m.targetQubit = m.editGate.Target
					m.focus = focusEditTarget
				case "edit_control":
					m.editControlIdx = opt.ctrlIdx
					if opt.ctrlIdx == -1 {
						m.targetQubit = m.editGate.Control
					} else {
						m.targetQubit = m.editGate.Controls[opt.ctrlIdx]
					}
					m.focus = focusEditControl
				case "delete":
					m.diagram.RemoveGateAt(m.editOrigStep, m.editGate.Target)
					m.editGate = nil
					m.focus = focusCircuit
					m.refreshState()
				}
			}

		case focusEditParam:
			switch key {
			case "esc":
				m.paramInput.SetValue("")
				m.paramInput.Blur()
				m.focus = focusEditGate
			case "enter":
				input := m.paramInput.Value()
				if m.editGate != nil {
					params := parseParamList(input)
					if input != "" && params == nil {
						m.statusMsg = "Invalid parameter — use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
						break
					}
					if len(params) > 0 {
						m.editGate.Params = params
					}
					m.refreshState()
				}
				m.paramInput.SetValue("")
				m.paramInput.Blur()
				m.focus = focusEditGate
			default:
				var cmd tea.Cmd
				m.paramInput, cmd = m.paramInput.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusEditTarget:
			switch key {
			case "esc":
				m.focus = focusEditGate
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if next != m.editGate.Control && !slicesContains(m.editGate.Controls, next) {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.diagram.NumQubits; next++ {
					if next != m.editGate.Control && !slicesContains(m.editGate.Controls, next) {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				if m.editGate != nil {
					m.editGate.Target = m.targetQubit
					m.refreshState()
				}
				m.focus = focusEditGate
			}

		case focusEditControl:
			unavailable := map[int]bool{m.editGate.Target: true}
			for ci, cq := range m.editGate.Controls {
				if ci != m.editControlIdx {
					unavailable[cq] = true
				}
			}
			switch key {
			case "esc":
				m.focus = focusEditGate
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if !unavailable[next] {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.diagram.NumQubits; next++ {
					if !unavailable[next] {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				if m.editGate != nil {
					if m.editControlIdx == -1 {
						m.editGate.Control = m.targetQubit
					} else if m.editControlIdx < len(m.editGate.Controls) {
						m.editGate.Controls[m.editControlIdx] = m.targetQubit
					}
					m.refreshState()
				}
				m.focus = focusEditGate
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// Helper function
func slicesContains(slice []int, val int) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}

// editOption represents an option in the edit gate menu.
type editOption struct {
	label   string
	action  string
	ctrlIdx int
}

// getEditOptions returns available edit options for the current gate.
func (m *Model) getEditOptions() []editOption {
	if m.editGate == nil {
		return nil
	}
	var opts []editOption

	if len(m.editGate.Params) > 0 || isParameterizedGate(m.editGate.Type) {
		var parts []string
		for _, p := range m.editGate.Params {
			parts = append(parts, formatParam(p))
		}
		paramStr := strings.Join(parts, ", ")
		if paramStr == "" {
			paramStr = "none"
		}
		opts = append(opts, editOption{
			label:  fmt.Sprintf("Parameters: %s", paramStr),
			action: "edit_param",
		})
	}

	opts = append(opts, editOption{
		label:  fmt.Sprintf("Target: q[%d]", m.editGate.Target),
		action: "edit_target",
	})

	if m.editGate.Control >= 0 {
		opts = append(opts, editOption{
			label:   fmt.Sprintf("Control: q[%d]", m.editGate.Control),
			action:  "edit_control",
			ctrlIdx: -1,
		})
	}
	for i, ctrl := range m.editGate.Controls {
		opts = append(opts, editOption{
			label:   fmt.Sprintf("Control %d: q[%d]", i+1, ctrl),
			action:  "edit_control",
			ctrlIdx: i,
		})
	}

	opts = append(opts, editOption{
		label:  "Delete gate",
		action: "delete",
	})

	return opts
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	stateWidth := m.width / 3
	circuitWidth := m.width - stateWidth - 4
	controlsHeight := 6
	panelHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, panelHeight)
	statePanel := m.renderStatePanel(stateWidth, panelHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, statePanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusInputParam, focusEditParam:
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	case focusEditGate:
		frame = overlayAt(frame, m.renderEditGateMenu(), 2, 2)
	}

	return frame
}

// renderParamInput renders the angle input overlay.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Enter Parameter"))
	sb.WriteString("\n\n")
	sb.WriteString(m.paramInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Examples: pi/2, 3*pi/4, 1.57"))
	return menuBorderStyle.Render(sb.String())
}

// renderEditGateMenu renders the edit gate menu overlay.
func (m Model) renderEditGateMenu() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Edit Gate"))
	sb.WriteString("\n\n")
	for i, opt := range m.getEditOptions() {
		if i == m.editMenuIdx {
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("▸ %s", opt.label)))
		} else {
			sb.WriteString(fmt.Sprintf("  %s", opt.label))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("↑↓ Select  ⏎ Ok  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}
