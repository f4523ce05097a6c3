/*
Package op implements prerequisites for operator-precedence parsing.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of a non-terminal left hand side and a production. Every symbol
is a single ASCII character: upper case letters are non-terminals, lower case
letters and the symbols ! " # % & ' ( ) * + , - . / are terminals. '$' is
reserved as the end marker and is part of every grammar.
Productions are given as strings of symbols separated by whitespace and must not
contain two adjacent non-terminals (operator grammars).

Example:

    b := op.NewGrammarBuilder("Arithmetic")
    b.AddRule('E', "E + E")     // E  ->  E + E
    b.AddRule('E', "E * E")     // E  ->  E * E
    b.AddRule('E', "n")         // E  ->  n
    b.SetInitial('E')

Precedence Relations

Clients relate pairs of terminals with one of the relations <·, ≐ and ·>.
Every declaration is recorded in a precedence table, which is the single source
of truth for shift/reduce decisions, and wired into a precedence graph with two
nodes f(a) and g(a) per symbol:

    b.SetPrecedence('+', op.LowerThan, '*')   // edge g(*) → f(+)
    b.SetPrecedence('*', op.HigherThan, '+')  // edge f(*) → g(+)

Building

Calling Build computes the precedence functions f and g as longest paths in the
precedence graph. A cycle in the graph makes the build fail. After a successful
build the builder is frozen and the resulting Grammar is an immutable snapshot,
which may be shared between concurrent parsers (see package op/parser).

    g, err := b.Build()
    fplus, _ := g.F('+')

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package op

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'opgen.op'.
func tracer() tracing.Trace {
	return tracing.Select("opgen.op")
}
