package main

import (
	"fmt"
	"strings"
)

// parameterHint describes the angle input a gate expects.
type parameterHint struct {
	example string
}

// menuItem represents a single gate choice in the menu.
type menuItem struct {
	name        string
	gateType    string
	symbol      string
	needsTarget bool
	needsParams bool
	paramHint   parameterHint
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// gateMenu defines the gate picker categories and items. Every entry
// lowers to a unitary the engine can run.
var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", gateType: "H", symbol: "H"},
			{name: "Pauli-X (NOT)", gateType: "X", symbol: "X"},
			{name: "Pauli-Y", gateType: "Y", symbol: "Y"},
			{name: "Pauli-Z", gateType: "Z", symbol: "Z"},
			{name: "Identity", gateType: "I", symbol: "I"},
			{name: "Phase (S)", gateType: "S", symbol: "S"},
			{name: "Phase Dagger (S†)", gateType: "SDG", symbol: "S†"},
			{name: "T Gate", gateType: "T", symbol: "T"},
			{name: "T Dagger (T†)", gateType: "TDG", symbol: "T†"},
			{name: "√X (SX)", gateType: "SX", symbol: "√X"},
		},
	},
	{
		name: "Rotation",
		items: []menuItem{
			{name: "Rotate X", gateType: "RX", symbol: "RX", needsParams: true, paramHint: parameterHint{example: "pi/2"}},
			{name: "Rotate Y", gateType: "RY", symbol: "RY", needsParams: true, paramHint: parameterHint{example: "pi/2"}},
			{name: "Rotate Z", gateType: "RZ", symbol: "RZ", needsParams: true, paramHint: parameterHint{example: "pi/2"}},
			{name: "Phase Shift", gateType: "P", symbol: "P", needsParams: true, paramHint: parameterHint{example: "pi/4"}},
			{name: "Universal U2", gateType: "U2", symbol: "U2", needsParams: true, paramHint: parameterHint{example: "phi,lambda"}},
			{name: "Universal U3", gateType: "U3", symbol: "U3", needsParams: true, paramHint: parameterHint{example: "theta,phi,lambda"}},
		},
	},
	{
		name: "Multi Qubit",
		items: []menuItem{
			{name: "CNOT", gateType: "CX", symbol: "●─⊕", needsTarget: true},
			{name: "Controlled-Z", gateType: "CZ", symbol: "●─●", needsTarget: true},
			{name: "Controlled-H", gateType: "CH", symbol: "●─H", needsTarget: true},
			{name: "SWAP", gateType: "SWAP", symbol: "×─×", needsTarget: true},
			{name: "Toffoli (CCX)", gateType: "CCX", symbol: "●─●─⊕", needsTarget: true},
			{name: "C-Rotate X", gateType: "CRX", symbol: "●─RX", needsTarget: true, needsParams: true, paramHint: parameterHint{example: "pi/2"}},
			{name: "C-Rotate Y", gateType: "CRY", symbol: "●─RY", needsTarget: true, needsParams: true, paramHint: parameterHint{example: "pi/2"}},
			{name: "C-Rotate Z", gateType: "CRZ", symbol: "●─RZ", needsTarget: true, needsParams: true, paramHint: parameterHint{example: "pi/2"}},
			{name: "C-Phase (CP)", gateType: "CP", symbol: "●─P", needsTarget: true, needsParams: true, paramHint: parameterHint{example: "lambda"}},
		},
	},
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 42)))
	sb.WriteString("\n")

	// Items in the selected category
	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.needsTarget {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		if item.needsParams {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", item.paramHint.example)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
