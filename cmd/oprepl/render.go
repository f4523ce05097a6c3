package main

import (
	"strings"

	"github.com/npillmayer/opgen/op/parser"
	"github.com/pterm/pterm"
)

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// stepTable converts a step trace into table rows, headers first.
func stepTable(steps []parser.Step, m messages) pterm.TableData {
	header := []string{"Stack", "Input", "Action"}
	if base, _ := m.lang.Base(); base.String() == "es" {
		header = []string{"Pila", "Entrada", "Acción"}
	}
	data := pterm.TableData{header}
	for _, st := range steps {
		data = append(data, []string{st.Stack, st.Input, st.Action})
	}
	return data
}

func renderSteps(steps []parser.Step, m messages) {
	if len(steps) == 0 {
		return
	}
	pterm.DefaultTable.WithHasHeader().WithData(stepTable(steps, m)).Render()
}

// leveledTree flattens a parse tree into a leveled list, the input format for
// pterm trees.
func leveledTree(root *parser.Node) pterm.LeveledList {
	var ll pterm.LeveledList
	root.Each(func(n *parser.Node, depth int) {
		text := n.Symbol.String()
		if n.Rule != nil {
			text = n.Rule.String()
		}
		ll = append(ll, pterm.LeveledListItem{
			Level: depth,
			Text:  text,
		})
	})
	return ll
}

func renderTree(root *parser.Node) {
	if root == nil {
		return
	}
	tree := pterm.NewTreeFromLeveledList(leveledTree(root))
	pterm.DefaultTree.WithRoot(tree).Render()
}

func renderDerivation(result *parser.Result, m messages) {
	var b strings.Builder
	b.WriteString(m.text(msgDerivation))
	for i, rule := range result.Derivation {
		b.WriteString("\n    ")
		b.WriteString(pterm.Sprintf("%2d. %v", i+1, rule))
	}
	pterm.Println(b.String())
}
