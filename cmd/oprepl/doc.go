/*
Command oprepl provides an interactive command line tool for
operator-precedence grammars. Users enter rules and precedence relations,
build the grammar and parse input strings, watching the parser's stack and
input as it shifts and reduces.

    oprepl [--trace Info] [--init script.op] [--config oprepl.toml] [--lang es] [--fallback]

Commands are RULE, INIT, PREC, BUILD, PARSE, TABLE, GRAPH, RESET, HELP and
EXIT. Type HELP for details. Messages are available in English and Spanish;
the language is taken from the user's locale unless flag --lang is given.

A configuration file in TOML format may set the following keys:

    prompt            = "op> "
    trace             = "Error"
    lang              = "en"
    function_fallback = false
    show_steps        = true
    width             = 80

Flags given on the command line take precedence over the configuration file.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'opgen.repl'
func tracer() tracing.Trace {
	return tracing.Select("opgen.repl")
}
