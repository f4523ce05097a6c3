/*
Package scanner defines an interface for scanners to be used with the parsers of
package op, together with a default implementation.

Input for operator grammars is a sequence of symbols separated by whitespace.
The default scanner is backed by a lexmachine DFA and produces one token per
whitespace-delimited lexeme. It does not check the length of lexemes: deciding
if a lexeme denotes a symbol is left to the grammar.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"
	"sync"

	"github.com/npillmayer/opgen"
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'opgen.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("opgen.scanner")
}

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() opgen.Token
	SetErrorHandler(func(error))
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used by the symbol scanner.
type DefaultToken struct {
	kind   opgen.TokType
	lexeme string
	span   opgen.Span
}

// MakeDefaultToken creates a token from its parts.
func MakeDefaultToken(typ opgen.TokType, lexeme string, span opgen.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

// TokType is part of interface opgen.Token.
func (t DefaultToken) TokType() opgen.TokType {
	return t.kind
}

// Lexeme is part of interface opgen.Token.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Span is part of interface opgen.Token.
func (t DefaultToken) Span() opgen.Span {
	return t.span
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("%s%q%v", t.kind, t.lexeme, t.span)
}

// --- lexmachine DFA --------------------------------------------------------

// The DFA is shared between all scanners. Once compiled, a lexmachine lexer
// is only read from.
var symbolLexer struct {
	once  sync.Once
	lexer *lexmachine.Lexer
	err   error
}

func compiledLexer() (*lexmachine.Lexer, error) {
	symbolLexer.once.Do(func() {
		lexer := lexmachine.NewLexer()
		lexer.Add([]byte(`( |\t|\n|\r)+`), skip)
		lexer.Add([]byte(`[!-~]+`), makeToken(opgen.SymbolTok))
		lexer.Add([]byte(`.`), makeToken(opgen.IllegalTok))
		if err := lexer.Compile(); err != nil {
			tracer().Errorf("error compiling DFA: %v", err)
			symbolLexer.err = err
			return
		}
		symbolLexer.lexer = lexer
	})
	return symbolLexer.lexer, symbolLexer.err
}

// skip is a pre-defined action which ignores the scanned match.
func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// makeToken is a pre-defined action which wraps a scanned match into a token.
func makeToken(typ opgen.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(typ), string(m.Bytes), m), nil
	}
}

// --- Symbol scanner --------------------------------------------------------

// SymbolScanner is a scanner type for whitespace-separated symbols, implementing
// the Tokenizer interface. Create one with NewSymbolScanner.
type SymbolScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error) // error handler
	length  uint64      // input length in bytes
}

var _ Tokenizer = (*SymbolScanner)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: %v", e)
}

// NewSymbolScanner creates a scanner for a given input.
func NewSymbolScanner(input string) (*SymbolScanner, error) {
	lexer, err := compiledLexer()
	if err != nil {
		return nil, err
	}
	s, err := lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &SymbolScanner{scanner: s, Error: logError, length: uint64(len(input))}, nil
}

// SetErrorHandler sets an error handler for the scanner.
func (sc *SymbolScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		sc.Error = logError
		return
	}
	sc.Error = h
}

// NextToken is part of the Tokenizer interface. At the end of input it returns
// a token of type opgen.EOF with an empty span positioned behind the input.
func (sc *SymbolScanner) NextToken() opgen.Token {
	tok, err, eof := sc.scanner.Next()
	for err != nil {
		sc.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			sc.scanner.TC = ui.FailTC
			if ui.FailTC <= ui.StartTC { // make progress
				sc.scanner.TC = ui.StartTC + 1
			}
		}
		tok, err, eof = sc.scanner.Next()
	}
	if eof {
		return DefaultToken{kind: opgen.EOF, span: opgen.Span{sc.length, sc.length}}
	}
	token := tok.(*lexmachine.Token)
	tracer().Debugf("token %q at %d", token.Lexeme, token.TC)
	from := uint64(token.TC)
	return DefaultToken{
		kind:   opgen.TokType(token.Type),
		lexeme: string(token.Lexeme),
		span:   opgen.Span{from, from + uint64(len(token.Lexeme))},
	}
}

// Split tokenizes a complete input string. Whitespace-only input results in
// an empty slice. The first scanner error, if any, is returned.
func Split(input string) ([]opgen.Token, error) {
	sc, err := NewSymbolScanner(input)
	if err != nil {
		return nil, err
	}
	var scanErr error
	sc.SetErrorHandler(func(e error) {
		if scanErr == nil {
			scanErr = e
		}
	})
	tokens := make([]opgen.Token, 0, len(input)/2+1)
	for token := sc.NextToken(); token.TokType() != opgen.EOF; token = sc.NextToken() {
		tokens = append(tokens, token)
	}
	return tokens, scanErr
}
