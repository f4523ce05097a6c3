package opgen

import "fmt"

// --- Tokens ----------------------------------------------------------------

// TokType is a category type for a Token.
type TokType int8

// Token categories produced by the scanners of this module. Every lexeme
// delimited by whitespace is a SymbolTok, regardless of its length; it is up
// to the grammar to decide if the lexeme denotes a valid symbol.
const (
	EOF        TokType = -1
	IllegalTok TokType = 0
	SymbolTok  TokType = 1
)

func (tt TokType) String() string {
	switch tt {
	case EOF:
		return "EOF"
	case SymbolTok:
		return "symbol"
	}
	return "illegal"
}

// Tokens represent input tokens. They are produced by a scanner and
// reflect terminals of a grammar.
//
// An example would be the token for an operator:
//
//    TokType = SymbolTok   // every whitespace-delimited lexeme
//    Lexeme  = "+"         // lexeme how it appeared in the input stream
//    Span    = 4…5         // occured at byte position 4 in the input
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a run of input bytes. A span denotes a
// start position and the position just behind the end. Diagnostics use spans
// to point at offending symbols.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering both s and other. Null spans
// do not contribute.
func (s Span) Extend(other Span) Span {
	if s.IsNull() {
		return other
	}
	if other.IsNull() {
		return s
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
