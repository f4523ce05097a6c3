/*
Package parser provides a shift-reduce parser for operator-precedence grammars.
Clients have to use the tools of package op to prepare a grammar. The parser
utilizes the grammar's precedence table to create a derivation for a given
input string.

The parser keeps a stack of symbols, starting with the end marker $. It
compares the topmost terminal p on the stack with the lookahead terminal e:

    p <· e  or  p ≐ e   →  shift e
    p ·> e              →  reduce the handle on top of the stack
    p == e == $         →  accept

A handle is delimited by the first pair of terminals related by <· beneath the
top of the stack. Its terminals select a rule of the grammar, and the shape of
the rule's production has to match the handle. The derivation is the sequence
of rules in the order they have been applied, i.e. the reverse of a rightmost
derivation.

Usage

Clients construct a grammar, usually by using a grammar builder:

    b := op.NewGrammarBuilder("Arithmetic")
    b.AddRule('E', "E + E")
    b.AddRule('E', "n")
    b.SetPrecedence('+', op.HigherThan, '+')
    …
    g, err := b.Build()

Then parse some input:

    p := parser.NewParser(g)
    result, err := p.Parse("n + n")
    for _, rule := range result.Derivation { … }

Parsers hold no state between calls. A single parser (or several parsers for
the same grammar) may be used from concurrent goroutines.

Precedence Functions

By default, the precedence table is the only source for shift/reduce
decisions, and pairs missing from the table result in an error of kind
op.IncomparableSymbols. With option FunctionFallback, the parser compares
f(p) and g(e) for pairs absent from the table. Setting configuration flag
"function-fallback" switches the option on for all parsers.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	pool "github.com/jolestar/go-commons-pool"
	"github.com/npillmayer/opgen"
	"github.com/npillmayer/opgen/op"
	"github.com/npillmayer/opgen/op/scanner"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'opgen.parser'.
func tracer() tracing.Trace {
	return tracing.Select("opgen.parser")
}

// Parser is an operator-precedence parser type. Create and initialize one with
// parser.NewParser(...)
type Parser struct {
	G        *op.Grammar
	fallback bool // compare precedence functions for pairs missing in the table
	steps    bool // record a step trace
}

// Option configures a parser.
type Option func(*Parser)

// FunctionFallback lets the parser compare precedence functions f and g for
// pairs of terminals without a declared relation.
func FunctionFallback(on bool) Option {
	return func(p *Parser) {
		p.fallback = on
	}
}

// RecordSteps lets the parser record every shift, reduce and accept
// in Result.Steps.
func RecordSteps(on bool) Option {
	return func(p *Parser) {
		p.steps = on
	}
}

// NewParser creates a parser for a built grammar. Defaults for the options are
// taken from the global configuration flags "function-fallback" and
// "record-steps".
func NewParser(g *op.Grammar, opts ...Option) *Parser {
	p := &Parser{
		G:        g,
		fallback: gconf.GetBool("function-fallback"),
		steps:    gconf.GetBool("record-steps"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// --- Results ---------------------------------------------------------------

// Result is the outcome of a parse.
type Result struct {
	Accepted   bool
	Derivation []*op.Rule // rules in order of application
	Tree       *Node      // parse tree, if accepted
	Steps      []Step     // step trace, if requested
}

// Node is a node of a parse tree. Terminals are leaves and carry their input
// token, non-terminals carry the rule they have been reduced with.
type Node struct {
	Symbol   op.Symbol
	Rule     *op.Rule
	Token    opgen.Token
	Children []*Node
	Span     opgen.Span
}

func (n *Node) String() string {
	if n.Rule != nil {
		return fmt.Sprintf("%v%v", n.Symbol, n.Span)
	}
	return fmt.Sprintf("%q%v", n.Symbol, n.Span)
}

// Each walks the tree in depth-first pre-order, calling f with each node and its
// depth.
func (n *Node) Each(f func(node *Node, depth int)) {
	var walk func(*Node, int)
	walk = func(node *Node, depth int) {
		f(node, depth)
		for _, ch := range node.Children {
			walk(ch, depth+1)
		}
	}
	walk(n, 0)
}

// Step is a snapshot of the parser, taken before an action is performed.
type Step struct {
	Stack  string // bottom to top
	Input  string // remaining lookahead symbols
	Action string
}

// --- Run state -------------------------------------------------------------

// run is the state of a single parse. Parsers borrow run states from a pool,
// thus parses never share any mutable data.
type run struct {
	stack      *arraystack.Stack // of *Node
	input      []*Node           // leaves for the input symbols and the end marker
	pos        int               // lookahead position within input
	derivation []*op.Rule
	steps      []Step
	record     bool
}

// runPool is a pool for parse run states. Parse runs are frequent, short-lived
// objects, so we pool them.
type runPool struct {
	opool *pool.ObjectPool
	ctx   context.Context
}

var globalRunPool *runPool

func init() {
	globalRunPool = &runPool{}
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			r := &run{stack: arraystack.New()}
			return r, nil
		})
	globalRunPool.ctx = context.Background()
	config := pool.NewDefaultPoolConfig()
	config.MaxTotal = -1 // infinity
	config.BlockWhenExhausted = false
	globalRunPool.opool = pool.NewObjectPool(globalRunPool.ctx, factory, config)
}

// borrowRun returns an empty run state from the pool.
func borrowRun(record bool) *run {
	o, err := globalRunPool.opool.BorrowObject(globalRunPool.ctx)
	if err != nil {
		tracer().Errorf("run state pool: %v", err)
		return &run{stack: arraystack.New(), record: record}
	}
	r := o.(*run)
	r.record = record
	return r
}

// Clears the run state and puts it back into the pool.
func (r *run) releaseIntoPool() {
	r.stack.Clear()
	r.input = nil
	r.pos = 0
	r.derivation = nil
	r.steps = nil
	r.record = false
	if err := globalRunPool.opool.ReturnObject(globalRunPool.ctx, r); err != nil {
		tracer().Errorf("run state pool: %v", err)
	}
}

func (r *run) top() *Node {
	n, _ := r.stack.Peek()
	return n.(*Node)
}

// topmostTerminal finds the terminal nearest to the top of the stack. The end
// marker at the bottom guarantees that there always is one.
func (r *run) topmostTerminal() *Node {
	it := r.stack.Iterator()
	for it.Next() {
		if n := it.Value().(*Node); n.Symbol.IsTerminal() {
			return n
		}
	}
	panic("parse stack lost its end marker")
}

func (r *run) lookahead() *Node {
	return r.input[r.pos]
}

func (r *run) step(action string) {
	if r.record {
		st := r.snapshot()
		st.Action = action
		r.steps = append(r.steps, st)
	}
}

// snapshot renders the stack and the remaining input.
func (r *run) snapshot() Step {
	values := r.stack.Values() // top first
	var st strings.Builder
	for i := len(values) - 1; i >= 0; i-- {
		st.WriteString(values[i].(*Node).Symbol.String())
		if i > 0 {
			st.WriteByte(' ')
		}
	}
	var in strings.Builder
	for i, n := range r.input[r.pos:] {
		if i > 0 {
			in.WriteByte(' ')
		}
		in.WriteString(n.Symbol.String())
	}
	return Step{Stack: st.String(), Input: in.String()}
}

func (r *run) result(accepted bool) *Result {
	res := &Result{
		Accepted:   accepted,
		Derivation: r.derivation,
		Steps:      r.steps,
	}
	if accepted && r.stack.Size() > 1 {
		res.Tree = r.top()
	}
	return res
}

// --- Parsing ---------------------------------------------------------------

// Parse parses an input string, consisting of symbols separated by whitespace.
// If the input is accepted, the result contains the derivation and the parse
// tree. Otherwise an error is returned, of kind op.Rejected for input not in the
// language, or op.IncomparableSymbols for a pair of terminals without a
// relation. For these two kinds the result still carries the partial
// derivation up to the point of failure.
func (p *Parser) Parse(input string) (*Result, error) {
	if p.G == nil {
		return nil, op.NewError(op.NotBuilt, "parser has no grammar")
	}
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	tokens, err := scanner.Split(input)
	if err != nil {
		return nil, &op.Error{Kind: op.InvalidToken, Lexeme: input, Detail: err.Error()}
	}
	r := borrowRun(p.steps)
	defer r.releaseIntoPool()
	r.input = make([]*Node, 0, len(tokens)+1)
	for _, token := range tokens {
		sym, err := inputSymbol(token)
		if err != nil {
			return nil, err
		}
		r.input = append(r.input, &Node{Symbol: sym, Token: token, Span: token.Span()})
	}
	end := uint64(len(input))
	eof := scanner.MakeDefaultToken(opgen.EOF, "", opgen.Span{end, end})
	r.input = append(r.input, &Node{Symbol: op.EndMarker, Token: eof, Span: eof.Span()})
	r.stack.Push(&Node{Symbol: op.EndMarker})
	accepted, err := p.loop(r)
	return r.result(accepted), err
}

// inputSymbol converts an input token to a lookahead symbol. Any single
// character will do; characters which are not terminals of the grammar are
// reported as soon as they become the lookahead. The end marker is reserved
// for the end of input.
func inputSymbol(token opgen.Token) (op.Symbol, error) {
	lexeme := token.Lexeme()
	if len(lexeme) != 1 {
		return 0, op.TokenError(op.InvalidToken, token, "symbols must be single characters")
	}
	sym := op.Symbol(lexeme[0])
	if sym == op.EndMarker {
		return 0, op.TokenError(op.SymbolNotInGrammar, token, "$ is reserved as end marker")
	}
	return sym, nil
}

func (p *Parser) loop(r *run) (bool, error) {
	for {
		pn, en := r.topmostTerminal(), r.lookahead()
		if pn.Symbol == op.EndMarker && en.Symbol == op.EndMarker {
			return p.accept(r)
		}
		if !p.G.IsTerminal(en.Symbol) {
			tracer().Errorf("symbol %v is not a terminal of grammar %s", en.Symbol, p.G.Name)
			return false, op.TokenError(op.SymbolNotInGrammar, en.Token, "")
		}
		rel, ok := p.relation(pn.Symbol, en.Symbol)
		if !ok {
			return false, p.incomparable(pn, en)
		}
		tracer().Debugf("%v %v %v", pn.Symbol, rel, en.Symbol)
		switch rel {
		case op.LowerThan, op.EqualThan:
			r.step("shift")
			r.stack.Push(en)
			r.pos++
		case op.HigherThan:
			if err := p.reduce(r); err != nil {
				return false, err
			}
		}
	}
}

// accept checks the stack when both the stack and the input are exhausted. If
// the grammar has a start symbol, the stack has to be [$ S].
func (p *Parser) accept(r *run) (bool, error) {
	if S, ok := p.G.Initial(); ok {
		if r.stack.Size() != 2 || r.top().Symbol != S {
			tracer().Infof("input rejected: not reduced to %v", S)
			return false, op.NewError(op.Rejected, "input does not reduce to "+S.String(), S)
		}
	}
	r.step("accept")
	tracer().Infof("input accepted")
	return true, nil
}

// reduce pops a handle off the stack and replaces it by the left hand side of
// the matching rule.
//
// Symbols are popped until the terminal nearest to the top of the stack is <·
// the last popped terminal. A non-terminal just above this boundary belongs to
// the handle as well.
func (p *Parser) reduce(r *run) error {
	var before Step
	if r.record {
		before = r.snapshot()
	}
	var handle []*Node // in pop order
	for r.top().Symbol != op.EndMarker {
		n, _ := r.stack.Pop()
		popped := n.(*Node)
		handle = append(handle, popped)
		if popped.Symbol.IsTerminal() {
			below := r.topmostTerminal()
			rel, ok := p.relation(below.Symbol, popped.Symbol)
			if !ok {
				return p.incomparable(below, popped)
			}
			if rel == op.LowerThan {
				break
			}
		}
	}
	if r.top().Symbol.IsNonTerminal() {
		n, _ := r.stack.Pop()
		handle = append(handle, n.(*Node))
	}
	for i, j := 0, len(handle)-1; i < j; i, j = i+1, j-1 {
		handle[i], handle[j] = handle[j], handle[i]
	}
	syms := make([]op.Symbol, len(handle))
	for i, n := range handle {
		syms[i] = n.Symbol
	}
	key := op.Projection(syms)
	rule, ok := p.G.RuleByProjection(key)
	if key == "" || !ok || !matches(rule, syms) {
		tracer().Infof("input rejected: no rule for handle %v", syms)
		return &op.Error{
			Kind:    op.Rejected,
			Symbols: syms,
			Span:    handleSpan(handle),
			Detail:  "no matching rule",
		}
	}
	if r.record {
		before.Action = "reduce " + rule.String()
		r.steps = append(r.steps, before)
	}
	tracer().Debugf("reduce %v", rule)
	r.stack.Push(&Node{
		Symbol:   rule.LHS,
		Rule:     rule,
		Children: handle,
		Span:     handleSpan(handle),
	})
	r.derivation = append(r.derivation, rule)
	return nil
}

// matches checks the shape of a handle against a rule. Terminals have to be
// equal, and the handle has to have a non-terminal wherever the production has
// one. Non-terminals are not distinguished: an operator-precedence parser does
// not know which non-terminal a handle has been reduced to.
func matches(rule *op.Rule, handle []op.Symbol) bool {
	if len(rule.RHS) != len(handle) {
		return false
	}
	for i, s := range rule.RHS {
		if s.IsNonTerminal() {
			if !handle[i].IsNonTerminal() {
				return false
			}
		} else if s != handle[i] {
			return false
		}
	}
	return true
}

func handleSpan(handle []*Node) opgen.Span {
	var span opgen.Span
	for _, n := range handle {
		span = span.Extend(n.Span)
	}
	return span
}

// relation consults the precedence table and, if enabled, the precedence
// functions.
func (p *Parser) relation(a, b op.Symbol) (op.Relation, bool) {
	if rel, ok := p.G.Relation(a, b); ok {
		return rel, true
	}
	if !p.fallback {
		return op.NoRelation, false
	}
	fa, ok := p.G.F(a)
	if !ok {
		return op.NoRelation, false
	}
	gb, ok := p.G.G(b)
	if !ok {
		return op.NoRelation, false
	}
	switch {
	case fa < gb:
		return op.LowerThan, true
	case fa == gb:
		return op.EqualThan, true
	}
	return op.HigherThan, true
}

func (p *Parser) incomparable(a, b *Node) error {
	tracer().Errorf("%v is not comparable with %v", a.Symbol, b.Symbol)
	return &op.Error{
		Kind:    op.IncomparableSymbols,
		Symbols: []op.Symbol{a.Symbol, b.Symbol},
		Span:    b.Span,
	}
}
