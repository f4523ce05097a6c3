package op

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/opgen"
)

// ErrorKind enumerates the failures of grammar registration, build and parse.
type ErrorKind int8

// Error kinds. Rejected, IncomparableSymbols and SymbolNotInGrammar are outcomes
// of a parse run, all others stem from grammar construction or from malformed
// input.
const (
	NoError               ErrorKind = iota
	InvalidSymbol                   // character outside of the grammar's alphabet
	InvalidToken                    // lexeme is not a single character
	NotAnOperatorGrammar            // two adjacent non-terminals in a production
	SymbolNotRegistered             // precedence declared for an unknown symbol
	CyclicPrecedenceGraph           // precedence functions do not exist
	NotBuilt                        // parse attempted before build
	IncomparableSymbols             // no relation for a pair of terminals
	Rejected                        // no production matches at reduce time
	SymbolNotInGrammar              // input symbol is not a terminal of the grammar
	GrammarFrozen                   // grammar modified after build
)

var kindNames = [...]string{
	"no error",
	"invalid symbol",
	"invalid token",
	"not an operator grammar",
	"symbol not registered",
	"cyclic precedence graph",
	"grammar not built",
	"incomparable symbols",
	"input rejected",
	"symbol not in grammar",
	"grammar frozen",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown error"
	}
	return kindNames[k]
}

// Error is the error type for all failures of this package and of package parser.
// Clients may switch on Kind or use errors.Is with one of the Err… sentinels.
type Error struct {
	Kind    ErrorKind
	Symbols []Symbol   // offending symbol(s), e.g. an incomparable pair
	Lexeme  string     // offending input lexeme, if any
	Span    opgen.Span // position of Lexeme in the input, if known
	Detail  string     // additional context, e.g. the nodes of a cycle
}

// Sentinels to match errors by kind:
//
//     if errors.Is(err, op.ErrRejected) { … }
//
var (
	ErrInvalidSymbol         = &Error{Kind: InvalidSymbol}
	ErrInvalidToken          = &Error{Kind: InvalidToken}
	ErrNotAnOperatorGrammar  = &Error{Kind: NotAnOperatorGrammar}
	ErrSymbolNotRegistered   = &Error{Kind: SymbolNotRegistered}
	ErrCyclicPrecedenceGraph = &Error{Kind: CyclicPrecedenceGraph}
	ErrNotBuilt              = &Error{Kind: NotBuilt}
	ErrIncomparableSymbols   = &Error{Kind: IncomparableSymbols}
	ErrRejected              = &Error{Kind: Rejected}
	ErrSymbolNotInGrammar    = &Error{Kind: SymbolNotInGrammar}
	ErrGrammarFrozen         = &Error{Kind: GrammarFrozen}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	switch e.Kind {
	case IncomparableSymbols:
		if len(e.Symbols) == 2 {
			fmt.Fprintf(&b, ": %q is not comparable with %q", e.Symbols[0], e.Symbols[1])
		}
	default:
		if e.Lexeme != "" {
			fmt.Fprintf(&b, ": %q", e.Lexeme)
		} else if len(e.Symbols) > 0 {
			fmt.Fprintf(&b, ": %q", symbolString(e.Symbols))
		}
	}
	if !e.Span.IsNull() {
		fmt.Fprintf(&b, " at %v", e.Span)
	}
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	return b.String()
}

// Is makes errors of equal kind match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of an error of this package, found anywhere in the
// chain of wrapped errors, or NoError.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return NoError
}

// NewError creates an error of a given kind for offending symbols.
func NewError(kind ErrorKind, detail string, syms ...Symbol) *Error {
	return &Error{Kind: kind, Symbols: syms, Detail: detail}
}

// TokenError creates an error of a given kind for an offending input token.
func TokenError(kind ErrorKind, token opgen.Token, detail string) *Error {
	return &Error{Kind: kind, Lexeme: token.Lexeme(), Span: token.Span(), Detail: detail}
}
