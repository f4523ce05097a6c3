/*
Package engine bundles the operations of an operator-precedence parser
generator into a single object, to be driven by an interactive command loop or
by a script.

An engine owns a grammar builder until the grammar is built; afterwards it
owns the frozen grammar and a parser for it. All operations accept their
arguments as strings, just as they appear on a command line:

    e := engine.New(engine.WithName("Arithmetic"))
    e.AddRule("E", "E + E")
    e.AddRule("E", "n")
    e.SetInitial("E")
    e.SetPrecedence("+", ">", "+")
    …
    g, err := e.Build()
    result, err := e.Parse("n + n")

Errors are of type *op.Error, possibly wrapped, and may be inspected with
op.KindOf or errors.Is.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package engine

import (
	"fmt"

	"github.com/npillmayer/opgen/op"
	"github.com/npillmayer/opgen/op/parser"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'opgen.engine'.
func tracer() tracing.Trace {
	return tracing.Select("opgen.engine")
}

// Engine drives grammar construction and parsing. Create one with New.
type Engine struct {
	name    string
	builder *op.GrammarBuilder
	grammar *op.Grammar // nil until built
	parser  *parser.Parser
	popts   []parser.Option
}

// Option configures an engine.
type Option func(*Engine)

// WithName sets the name of the grammar.
func WithName(name string) Option {
	return func(e *Engine) {
		e.name = name
	}
}

// WithParserOptions sets options for the parser created at build time.
func WithParserOptions(opts ...parser.Option) Option {
	return func(e *Engine) {
		e.popts = append(e.popts, opts...)
	}
}

// New creates an engine with an empty grammar.
func New(opts ...Option) *Engine {
	e := &Engine{name: "G"}
	for _, opt := range opts {
		opt(e)
	}
	e.builder = op.NewGrammarBuilder(e.name)
	return e
}

// Name returns the name of the grammar.
func (e *Engine) Name() string {
	return e.name
}

// Reset discards the grammar, including a built one.
func (e *Engine) Reset() {
	tracer().Infof("resetting grammar %q", e.name)
	e.builder = op.NewGrammarBuilder(e.name)
	e.grammar = nil
	e.parser = nil
}

// symbolArg converts a command argument to a single character.
func symbolArg(arg string) (rune, error) {
	if len(arg) != 1 {
		return 0, &op.Error{Kind: op.InvalidToken, Lexeme: arg, Detail: "symbols must be single characters"}
	}
	return rune(arg[0]), nil
}

// AddRule adds a rule lhs → production.
func (e *Engine) AddRule(lhs, production string) error {
	nt, err := symbolArg(lhs)
	if err != nil {
		return err
	}
	if err := e.builder.AddRule(nt, production); err != nil {
		return fmt.Errorf("rule %s → %s: %w", lhs, production, err)
	}
	return nil
}

// SetInitial sets the start symbol.
func (e *Engine) SetInitial(nt string) error {
	S, err := symbolArg(nt)
	if err != nil {
		return err
	}
	return e.builder.SetInitial(S)
}

// SetPrecedence declares a relation "<", "=" or ">" between two terminals.
func (e *Engine) SetPrecedence(a, rel, b string) error {
	r, err := op.ParseRelation(rel)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrRelation, rel)
	}
	sa, err := symbolArg(a)
	if err != nil {
		return err
	}
	sb, err := symbolArg(b)
	if err != nil {
		return err
	}
	if err := e.builder.SetPrecedence(sa, r, sb); err != nil {
		return fmt.Errorf("precedence %s %s %s: %w", a, rel, b, err)
	}
	return nil
}

// Build builds the grammar and prepares a parser for it. Calling Build again
// returns the same grammar.
func (e *Engine) Build() (*op.Grammar, error) {
	g, err := e.builder.Build()
	if err != nil {
		return nil, err
	}
	if e.grammar != g {
		e.grammar = g
		e.parser = parser.NewParser(g, e.popts...)
		tracer().Infof("parser ready for grammar %q", g.Name)
	}
	return g, nil
}

// Built is true if the grammar has been built.
func (e *Engine) Built() bool {
	return e.grammar != nil
}

// Grammar returns the built grammar, or nil.
func (e *Engine) Grammar() *op.Grammar {
	return e.grammar
}

// Parse parses an input string. The grammar must have been built, otherwise
// an error of kind op.NotBuilt is returned.
func (e *Engine) Parse(input string) (*parser.Result, error) {
	if e.parser == nil {
		return nil, op.NewError(op.NotBuilt, "grammar "+e.name+" has not been built")
	}
	return e.parser.Parse(input)
}
