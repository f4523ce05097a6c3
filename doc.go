/*
Package opgen is a generator and runtime for operator-precedence parsers.

Clients register production rules of an operator grammar (no two adjacent
non-terminals in any right-hand side) together with precedence relations between
terminals. From these, opgen derives precedence functions f and g by longest-path
computation on a precedence graph, and drives a shift-reduce automaton over input
strings, yielding the sequence of productions applied. Package structure is
as follows:

■ op: Package op implements grammar registration, the precedence graph and table,
and the build step which freezes a grammar.

■ op/parser: Package parser implements the shift-reduce automaton for
frozen operator grammars.

■ engine: Package engine bundles the operations of op and op/parser into a single
object, suitable for command interpreters.

■ cmd/oprepl: An interactive command line tool to define grammars and parse input.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package opgen
