/*
Command derivrepl is an interactive sandbox for the deriv package: it
loads one of a handful of bundled demo syntaxes, lets the user feed it
single-character tokens line by line, and prints the resulting
ParseResult; the :grammar command prints the syntax's extracted BNF
grammar.

It exists for exploring FIRST/nullable behavior and grammar extraction
by hand, not as a language front-end: none of the bundled demos define
a real input language, they are the same toy syntaxes used in the
package's own tests (balanced parentheses, arithmetic sums, a bare
disjunction).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("deriv.repl")
}
