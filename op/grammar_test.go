package op

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// arithmetic sets up E → E + E | E * E | n with the usual precedences.
func arithmetic(t *testing.T) *GrammarBuilder {
	b := NewGrammarBuilder("Arithmetic")
	require.NoError(t, b.AddRule('E', "E + E"))
	require.NoError(t, b.AddRule('E', "E * E"))
	require.NoError(t, b.AddRule('E', "n"))
	require.NoError(t, b.SetInitial('E'))
	prec := []struct {
		a   rune
		rel string
		b   rune
	}{
		{'n', ">", '+'}, {'n', ">", '*'}, {'n', ">", '$'},
		{'+', "<", 'n'}, {'+', ">", '+'}, {'+', "<", '*'}, {'+', ">", '$'},
		{'*', "<", 'n'}, {'*', ">", '+'}, {'*', ">", '*'}, {'*', ">", '$'},
		{'$', "<", 'n'}, {'$', "<", '+'}, {'$', "<", '*'},
	}
	for _, p := range prec {
		rel, err := ParseRelation(p.rel)
		require.NoError(t, err)
		require.NoError(t, b.SetPrecedence(p.a, rel, p.b))
	}
	return b
}

func TestClassification(t *testing.T) {
	for c := rune(0); c < 128; c++ {
		assert.False(t, IsTerminal(c) && IsNonTerminal(c), "%q classified twice", c)
	}
	assert.Equal(t, Terminal, Classify('+'))
	assert.Equal(t, Terminal, Classify('n'))
	assert.Equal(t, Terminal, Classify('('))
	assert.Equal(t, NonTerminal, Classify('E'))
	assert.Equal(t, Invalid, Classify('$'))
	assert.Equal(t, Invalid, Classify('0'))
	assert.Equal(t, Invalid, Classify(':'))
	assert.True(t, EndMarker.IsTerminal())
	assert.False(t, EndMarker.IsNonTerminal())
}

func TestAddRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.op")
	defer teardown()
	//
	tests := []struct {
		lhs  rune
		prod string
		kind ErrorKind
	}{
		{'E', "E + E", NoError},
		{'E', "( E )", NoError},
		{'S', "a S b", NoError},
		{'A', "B C", NotAnOperatorGrammar},
		{'A', "a B C", NotAnOperatorGrammar},
		{'e', "n", InvalidSymbol},
		{'$', "n", InvalidSymbol},
		{'E', "", InvalidToken},
		{'E', "   ", InvalidToken},
		{'E', "E ++ E", InvalidToken},
		{'E', "E $ E", InvalidSymbol},
		{'E', "E : E", InvalidSymbol},
		{'E', "E 1 E", InvalidSymbol},
	}
	for _, test := range tests {
		b := NewGrammarBuilder("G")
		err := b.AddRule(test.lhs, test.prod)
		assert.Equal(t, test.kind, KindOf(err), "%c → %q: %v", test.lhs, test.prod, err)
	}
}

func TestFailedRuleRegistersNothing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.op")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	require.Error(t, b.AddRule('A', "x B C"))
	err := b.SetPrecedence('x', LowerThan, '$')
	assert.True(t, errors.Is(err, ErrSymbolNotRegistered), "x should be unknown, error is %v", err)
}

func TestRuleReplacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.op")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	require.NoError(t, b.AddRule('E', "E + E"))
	require.NoError(t, b.AddRule('E', "n"))
	require.NoError(t, b.AddRule('F', "F + F"))
	g, err := b.Build()
	require.NoError(t, err)
	rules := g.Rules()
	require.Len(t, rules, 2)
	r, ok := g.RuleByProjection("+")
	require.True(t, ok)
	assert.Equal(t, Symbol('F'), r.LHS)
	assert.Equal(t, "F → F + F", r.String())
	_, ok = g.RuleByProjection("-")
	assert.False(t, ok)
}

func TestSetPrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.op")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	assert.Equal(t, SymbolNotRegistered, KindOf(b.SetPrecedence('+', LowerThan, '*')))
	require.NoError(t, b.AddRule('E', "E + E"))
	assert.Equal(t, InvalidSymbol, KindOf(b.SetPrecedence('E', LowerThan, '+')))
	assert.Equal(t, InvalidSymbol, KindOf(b.SetPrecedence('+', LowerThan, ':')))
	assert.Equal(t, SymbolNotRegistered, KindOf(b.SetPrecedence('+', LowerThan, '*')))
	assert.NoError(t, b.SetPrecedence('$', LowerThan, '+'))
	assert.NoError(t, b.SetPrecedence('+', HigherThan, '$'))
	assert.Equal(t, InvalidSymbol, KindOf(b.SetPrecedence('+', NoRelation, '+')))
	assert.Equal(t, InvalidSymbol, KindOf(b.SetPrecedence('+', Relation(17), '$')))
	assert.Equal(t, InvalidSymbol, KindOf(b.SetInitial('e')))
}

func TestBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.op")
	defer teardown()
	//
	b := arithmetic(t)
	assert.False(t, b.Built())
	g, err := b.Build()
	require.NoError(t, err)
	assert.True(t, b.Built())
	assert.Equal(t, []Symbol{'*', '+', 'n'}, g.Terminals())
	assert.Equal(t, []Symbol{'E'}, g.NonTerminals())
	S, ok := g.Initial()
	assert.True(t, ok)
	assert.Equal(t, Symbol('E'), S)
	expected := map[Symbol][2]int{'n': {4, 5}, '+': {2, 1}, '*': {4, 3}, '$': {0, 0}}
	for a, fg := range expected {
		f, ok := g.F(a)
		assert.True(t, ok)
		assert.Equal(t, fg[0], f, "f(%v)", a)
		gv, ok := g.G(a)
		assert.True(t, ok)
		assert.Equal(t, fg[1], gv, "g(%v)", a)
	}
	_, ok = g.F('E')
	assert.False(t, ok, "non-terminals have no precedence function")
	rel, ok := g.Relation('+', '*')
	assert.True(t, ok)
	assert.Equal(t, LowerThan, rel)
	_, ok = g.Relation('n', 'n')
	assert.False(t, ok)
	assert.True(t, g.IsTerminal('$'))
	assert.True(t, g.IsTerminal('n'))
	assert.False(t, g.IsTerminal('x'))
	assert.False(t, g.IsTerminal('E'))
	g.Dump()
}

func TestBuildIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.op")
	defer teardown()
	//
	b := arithmetic(t)
	g1, err := b.Build()
	require.NoError(t, err)
	fp := g1.Fingerprint()
	assert.NotEmpty(t, fp)
	g2, err := b.Build()
	require.NoError(t, err)
	assert.Same(t, g1, g2)
	assert.Equal(t, fp, g2.Fingerprint())
	g3, err := arithmetic(t).Build()
	require.NoError(t, err)
	assert.Equal(t, fp, g3.Fingerprint(), "equal grammars should have equal fingerprints")
}

func TestFingerprintDiffers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.op")
	defer teardown()
	//
	g1, err := arithmetic(t).Build()
	require.NoError(t, err)
	b := arithmetic(t)
	require.NoError(t, b.SetPrecedence('+', LowerThan, '+')) // right associative
	g2, err := b.Build()
	require.Error(t, err, "+ < + together with + > + is cyclic")
	assert.Nil(t, g2)
	b = arithmetic(t)
	require.NoError(t, b.AddRule('E', "( E )"))
	g2, err = b.Build()
	require.NoError(t, err)
	assert.NotEqual(t, g1.Fingerprint(), g2.Fingerprint())
}

func TestFrozen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.op")
	defer teardown()
	//
	b := arithmetic(t)
	_, err := b.Build()
	require.NoError(t, err)
	assert.True(t, errors.Is(b.AddRule('E', "E - E"), ErrGrammarFrozen))
	assert.True(t, errors.Is(b.SetInitial('S'), ErrGrammarFrozen))
	assert.True(t, errors.Is(b.SetPrecedence('+', LowerThan, '*'), ErrGrammarFrozen))
}

func TestCyclicBuildStaysOpen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.op")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	require.NoError(t, b.AddRule('S', "a S b"))
	require.NoError(t, b.SetPrecedence('a', LowerThan, 'b'))
	require.NoError(t, b.SetPrecedence('a', HigherThan, 'b'))
	_, err := b.Build()
	require.Error(t, err)
	assert.Equal(t, CyclicPrecedenceGraph, KindOf(err))
	assert.False(t, b.Built())
	assert.NoError(t, b.AddRule('S', "c"))
}

func TestRendering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.op")
	defer teardown()
	//
	g, err := arithmetic(t).Build()
	require.NoError(t, err)
	table := g.TableString()
	t.Logf("\n%s", table)
	assert.Contains(t, table, "<")
	assert.Contains(t, table, ">")
	lines := strings.Split(table, "\n")
	require.True(t, len(lines) > 3)
	assert.Contains(t, lines[1], "n", "terminals in the header keep their case")
	assert.NotContains(t, lines[1], "N")
	assert.Equal(t, lines[0], lines[2], "header row is followed by a rule")
	fg := g.FunctionsString()
	t.Logf("\n%s", fg)
	lines = strings.Split(fg, "\n")
	require.True(t, len(lines) > 2)
	assert.Contains(t, lines[0], "f")
	assert.Contains(t, lines[0], "g")
	assert.NotContains(t, lines[0], "F")
	assert.True(t, strings.HasPrefix(lines[1], "---"))
	assert.Contains(t, lines[2], "*")
	var dot strings.Builder
	require.NoError(t, g.GraphViz(&dot))
	assert.Contains(t, dot.String(), "digraph")
}

func TestParseRelation(t *testing.T) {
	for _, s := range []string{"<", "=", ">"} {
		r, err := ParseRelation(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
	}
	_, err := ParseRelation("<=")
	assert.Error(t, err)
}
