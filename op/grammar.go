package op

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/opgen"
	"github.com/npillmayer/opgen/op/scanner"
)

// === Grammar Builder =======================================================

// GrammarBuilder is a mutable registry of symbols, rules and precedence
// relations. Create one with NewGrammarBuilder, then add rules and
// precedences and call Build. After a successful build, all further
// modifications are rejected with an error of kind GrammarFrozen.
type GrammarBuilder struct {
	name         string
	terminals    *treeset.Set       // of Symbol, without end marker
	nonterminals *treeset.Set       // of Symbol
	initial      Symbol             // 0 if not set
	rules        *linkedhashmap.Map // projection → *Rule
	serial       int                // serial number for the next rule
	graph        *Graph
	table        *Table
	grammar      *Grammar // result of a successful build
}

// NewGrammarBuilder creates a builder for a named grammar. The end marker is
// registered from the start.
func NewGrammarBuilder(name string) *GrammarBuilder {
	b := &GrammarBuilder{
		name:         name,
		terminals:    treeset.NewWith(symbolComparator),
		nonterminals: treeset.NewWith(symbolComparator),
		rules:        linkedhashmap.New(),
		graph:        NewGraph(),
		table:        newTable(),
	}
	b.graph.AddNode(EndMarker)
	return b
}

// SymbolOf converts an input token to a symbol. The token must consist of a
// single terminal or non-terminal character; the end marker is reserved and
// results in an error of kind InvalidSymbol.
func SymbolOf(token opgen.Token) (Symbol, error) {
	if token.TokType() == opgen.IllegalTok {
		return 0, TokenError(InvalidSymbol, token, "not an ASCII symbol")
	}
	lexeme := token.Lexeme()
	if len(lexeme) != 1 {
		return 0, TokenError(InvalidToken, token, "symbols must be single characters")
	}
	c := rune(lexeme[0])
	if Symbol(c) == EndMarker {
		return 0, TokenError(InvalidSymbol, token, "$ is reserved as end marker")
	}
	if Classify(c) == Invalid {
		return 0, TokenError(InvalidSymbol, token, "neither terminal nor non-terminal")
	}
	return Symbol(c), nil
}

// Built is true after a successful call to Build.
func (b *GrammarBuilder) Built() bool {
	return b.grammar != nil
}

func (b *GrammarBuilder) frozen(op string) error {
	if b.grammar != nil {
		return NewError(GrammarFrozen, op+" after build")
	}
	return nil
}

// AddRule adds a rule lhs → production to the grammar. The production is a string
// of symbols separated by whitespace. Symbols not seen before are registered
// with the grammar.
//
// A rule is stored under the terminals of its production. If another rule has
// been registered with the same terminals, it is replaced.
func (b *GrammarBuilder) AddRule(lhs rune, production string) error {
	if err := b.frozen("rule"); err != nil {
		return err
	}
	if !IsNonTerminal(lhs) {
		return NewError(InvalidSymbol, "left hand side must be a non-terminal", Symbol(lhs))
	}
	tokens, err := scanner.Split(production)
	if err != nil {
		return &Error{Kind: InvalidSymbol, Lexeme: production, Detail: err.Error()}
	}
	if len(tokens) == 0 {
		return &Error{Kind: InvalidToken, Symbols: []Symbol{Symbol(lhs)}, Detail: "empty production"}
	}
	rhs := make([]Symbol, 0, len(tokens))
	afterNonTerm := false
	for _, token := range tokens {
		sym, err := SymbolOf(token)
		if err != nil {
			return err
		}
		if sym.IsNonTerminal() {
			if afterNonTerm {
				e := TokenError(NotAnOperatorGrammar, token, "adjacent non-terminals")
				e.Symbols = []Symbol{rhs[len(rhs)-1], sym}
				return e
			}
			afterNonTerm = true
		} else {
			afterNonTerm = false
		}
		rhs = append(rhs, sym)
	}
	// production is valid, now register its symbols
	b.nonterminals.Add(Symbol(lhs))
	for _, sym := range rhs {
		if sym.IsNonTerminal() {
			b.nonterminals.Add(sym)
		} else {
			b.terminals.Add(sym)
		}
		b.graph.AddNode(sym)
	}
	rule := &Rule{Serial: b.serial, LHS: Symbol(lhs), RHS: rhs}
	b.serial++
	key := rule.Projection()
	if old, found := b.rules.Get(key); found {
		tracer().Infof("rule %v replaces %v", rule, old)
	}
	b.rules.Put(key, rule)
	tracer().Debugf("added rule %v", rule)
	return nil
}

// SetInitial sets the start symbol of the grammar. The symbol is not required to
// appear in any rule (yet).
func (b *GrammarBuilder) SetInitial(nt rune) error {
	if err := b.frozen("initial symbol"); err != nil {
		return err
	}
	if !IsNonTerminal(nt) {
		return NewError(InvalidSymbol, "initial symbol must be a non-terminal", Symbol(nt))
	}
	b.nonterminals.Add(Symbol(nt))
	b.initial = Symbol(nt)
	tracer().Debugf("initial symbol is %v", b.initial)
	return nil
}

// SetPrecedence declares the precedence relation between terminals a and c.
// Both symbols must be terminals or the end marker, and must have been registered
// by a rule before. Relations are recorded per ordered pair; a second declaration
// for the same pair replaces the first one in the table.
func (b *GrammarBuilder) SetPrecedence(a rune, rel Relation, c rune) error {
	if err := b.frozen("precedence"); err != nil {
		return err
	}
	for _, s := range [2]Symbol{Symbol(a), Symbol(c)} {
		if !s.IsTerminal() {
			return NewError(InvalidSymbol, "precedence relations are defined for terminals only", s)
		}
	}
	if rel < LowerThan || rel > HigherThan {
		return NewError(InvalidSymbol, fmt.Sprintf("invalid precedence relation %d", rel), Symbol(a), Symbol(c))
	}
	fa, ok := b.graph.FNode(Symbol(a))
	if !ok {
		return NewError(SymbolNotRegistered, "", Symbol(a))
	}
	gc, ok := b.graph.GNode(Symbol(c))
	if !ok {
		return NewError(SymbolNotRegistered, "", Symbol(c))
	}
	switch rel {
	case LowerThan:
		err := b.graph.AddConnection(gc, fa)
		if err != nil {
			return err
		}
	case HigherThan:
		err := b.graph.AddConnection(fa, gc)
		if err != nil {
			return err
		}
	}
	b.table.set(Symbol(a), Symbol(c), rel)
	tracer().Debugf("precedence %v %v %v", Symbol(a), rel, Symbol(c))
	return nil
}

// Build computes the precedence functions f and g for every terminal, including
// the end marker, and freezes the grammar. If the precedence graph contains a
// cycle, an error of kind CyclicPrecedenceGraph is returned and the builder
// stays open for modifications.
//
// Build is idempotent: once it has succeeded, subsequent calls return the same
// grammar without recomputing anything.
func (b *GrammarBuilder) Build() (*Grammar, error) {
	if b.grammar != nil {
		return b.grammar, nil
	}
	terminals := symbols(b.terminals)
	nonterminals := symbols(b.nonterminals)
	f := make(map[Symbol]int, len(terminals)+1)
	g := make(map[Symbol]int, len(terminals)+1)
	for _, a := range append(terminals, EndMarker) {
		fa, _ := b.graph.FNode(a)
		fval, err := b.graph.LongestPathLength(fa)
		if err != nil {
			return nil, err
		}
		ga, _ := b.graph.GNode(a)
		gval, err := b.graph.LongestPathLength(ga)
		if err != nil {
			return nil, err
		}
		f[a], g[a] = fval, gval
	}
	G := &Grammar{
		Name:         b.name,
		terminals:    terminals,
		nonterminals: nonterminals,
		initial:      b.initial,
		isTerminal:   make(map[Symbol]bool, len(terminals)+1),
		byProjection: make(map[string]*Rule, b.rules.Size()),
		table:        b.table.copy(),
		graph:        b.graph,
		f:            f,
		g:            g,
	}
	G.isTerminal[EndMarker] = true
	for _, a := range terminals {
		G.isTerminal[a] = true
	}
	it := b.rules.Iterator()
	for it.Next() {
		rule := it.Value().(*Rule)
		G.rules = append(G.rules, rule)
		G.byProjection[it.Key().(string)] = rule
	}
	b.grammar = G
	tracer().Infof("grammar %q built with %d rules", G.Name, len(G.rules))
	for _, a := range append(terminals, EndMarker) {
		tracer().Infof("    f(%v) = %d, g(%v) = %d", a, f[a], a, g[a])
	}
	return G, nil
}

func symbols(set *treeset.Set) []Symbol {
	syms := make([]Symbol, 0, set.Size())
	for _, x := range set.Values() {
		syms = append(syms, x.(Symbol))
	}
	return syms
}

// === Grammar ===============================================================

// Grammar is a built operator grammar. It is immutable and may be shared freely
// between parsers, including concurrent ones.
type Grammar struct {
	Name         string
	terminals    []Symbol // sorted, without end marker
	nonterminals []Symbol // sorted
	initial      Symbol
	isTerminal   map[Symbol]bool // terminals and end marker
	rules        []*Rule         // in order of registration
	byProjection map[string]*Rule
	table        *Table
	graph        *Graph
	f, g         map[Symbol]int
}

// Initial returns the start symbol, if one has been set.
func (G *Grammar) Initial() (Symbol, bool) {
	return G.initial, G.initial != 0
}

// Terminals returns the terminals of the grammar, without the end marker.
func (G *Grammar) Terminals() []Symbol {
	return append([]Symbol(nil), G.terminals...)
}

// NonTerminals returns the non-terminals of the grammar.
func (G *Grammar) NonTerminals() []Symbol {
	return append([]Symbol(nil), G.nonterminals...)
}

// Rules returns the rules of the grammar.
func (G *Grammar) Rules() []*Rule {
	return append([]*Rule(nil), G.rules...)
}

// RuleByProjection finds the rule whose terminals are exactly key.
func (G *Grammar) RuleByProjection(key string) (*Rule, bool) {
	r, ok := G.byProjection[key]
	return r, ok
}

// IsTerminal is true for the terminals of the grammar and for the end marker.
func (G *Grammar) IsTerminal(s Symbol) bool {
	return G.isTerminal[s]
}

// Relation returns the declared relation between a and b, or false for
// incomparable symbols.
func (G *Grammar) Relation(a, b Symbol) (Relation, bool) {
	return G.table.Relation(a, b)
}

// F returns f(a).
func (G *Grammar) F(a Symbol) (int, bool) {
	v, ok := G.f[a]
	return v, ok
}

// G returns g(a).
func (G *Grammar) G(a Symbol) (int, bool) {
	v, ok := G.g[a]
	return v, ok
}

// Functions returns the precedence functions f and g as maps, covering all
// terminals and the end marker.
func (G *Grammar) Functions() (f, g map[Symbol]int) {
	f = make(map[Symbol]int, len(G.f))
	g = make(map[Symbol]int, len(G.g))
	for a, v := range G.f {
		f[a] = v
	}
	for a, v := range G.g {
		g[a] = v
	}
	return f, g
}

// GraphViz exports the precedence graph in Dot format.
func (G *Grammar) GraphViz(w io.Writer) error {
	return G.graph.GraphViz(w)
}

// TableString renders the precedence table as text.
func (G *Grammar) TableString() string {
	return G.table.tableString(append(G.Terminals(), EndMarker))
}

// FunctionsString renders the precedence functions as text.
func (G *Grammar) FunctionsString() string {
	data := [][]string{{"", "f", "g"}}
	for _, a := range append(G.Terminals(), EndMarker) {
		data = append(data, []string{a.String(), strconv.Itoa(G.f[a]), strconv.Itoa(G.g[a])})
	}
	return renderTable(data, 40, false)
}

type grammarDigest struct {
	Name      string
	Initial   string
	Rules     []string
	Relations []string
	F         map[string]int
	G         map[string]int
}

// Fingerprint returns a hash over rules, relations and precedence functions.
// Grammars with equal fingerprints behave identically.
func (G *Grammar) Fingerprint() string {
	d := grammarDigest{
		Name:    G.Name,
		Initial: fmt.Sprintf("%q", rune(G.initial)),
		F:       make(map[string]int, len(G.f)),
		G:       make(map[string]int, len(G.g)),
	}
	for _, r := range G.rules {
		d.Rules = append(d.Rules, r.String())
	}
	G.table.Each(func(a, b Symbol, r Relation) {
		d.Relations = append(d.Relations, a.String()+r.String()+b.String())
	})
	for a, v := range G.f {
		d.F[a.String()] = v
	}
	for a, v := range G.g {
		d.G[a.String()] = v
	}
	h, err := structhash.Hash(d, 1)
	if err != nil {
		tracer().Errorf("cannot hash grammar %q: %v", G.Name, err)
		return ""
	}
	return h
}

// Dump is a debugging helper, tracing the grammar rules and relations.
func (G *Grammar) Dump() {
	tracer().Debugf("--- grammar %s -------------------------------", G.Name)
	for _, r := range G.rules {
		tracer().Debugf("%3d: %v", r.Serial, r)
	}
	G.table.Each(func(a, b Symbol, r Relation) {
		tracer().Debugf("     %v %v %v", a, r, b)
	})
	tracer().Debugf("-------------------------------------------------")
}
