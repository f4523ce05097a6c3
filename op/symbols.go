package op

import (
	"strings"

	"github.com/emirpasic/gods/utils"
)

// Symbol is a grammar symbol. Every symbol is a single printable ASCII character.
type Symbol rune

// EndMarker bounds the input and the parse stack. It is present in every
// grammar and may not be used in productions.
const EndMarker Symbol = '$'

// SymbolKind classifies characters with respect to the grammar alphabet.
type SymbolKind int8

// Every character is of exactly one kind.
const (
	Invalid SymbolKind = iota
	Terminal
	NonTerminal
)

func (k SymbolKind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case NonTerminal:
		return "non-terminal"
	}
	return "invalid"
}

// IsTerminal is true for lower case ASCII letters and the symbols in '!'…'#'
// and '%'…'/'. The end marker '$' is not a terminal in this sense.
func IsTerminal(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= '!' && c <= '#' || c >= '%' && c <= '/'
}

// IsNonTerminal is true for upper case ASCII letters.
func IsNonTerminal(c rune) bool {
	return c >= 'A' && c <= 'Z'
}

// Classify returns the kind of a character.
func Classify(c rune) SymbolKind {
	if IsTerminal(c) {
		return Terminal
	} else if IsNonTerminal(c) {
		return NonTerminal
	}
	return Invalid
}

// IsTerminal is true for terminals and for the end marker.
func (s Symbol) IsTerminal() bool {
	return s == EndMarker || IsTerminal(rune(s))
}

// IsNonTerminal is true for non-terminals.
func (s Symbol) IsNonTerminal() bool {
	return IsNonTerminal(rune(s))
}

func (s Symbol) String() string {
	return string(rune(s))
}

// symbolComparator orders symbols by code point, for treesets of symbols.
func symbolComparator(s1, s2 interface{}) int {
	return utils.IntComparator(int(s1.(Symbol)), int(s2.(Symbol)))
}

// symbolString joins symbols, separated by blanks.
func symbolString(syms []Symbol) string {
	var b strings.Builder
	for i, s := range syms {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(rune(s))
	}
	return b.String()
}

// --- Rules -----------------------------------------------------------------

// Rule is a production rule LHS → RHS of an operator grammar.
type Rule struct {
	Serial int      // order of registration
	LHS    Symbol   // a non-terminal
	RHS    []Symbol // at least one symbol, no two adjacent non-terminals
}

// Projection returns the terminals of the RHS, in order. The parser collects
// exactly these symbols from its stack for a reduce.
func (r *Rule) Projection() string {
	return Projection(r.RHS)
}

func (r *Rule) String() string {
	return r.LHS.String() + " → " + symbolString(r.RHS)
}

// Projection returns the terminal-only projection of a sequence of symbols.
// It is the key under which a grammar stores rules.
func Projection(syms []Symbol) string {
	var b strings.Builder
	for _, s := range syms {
		if s.IsTerminal() {
			b.WriteRune(rune(s))
		}
	}
	return b.String()
}
