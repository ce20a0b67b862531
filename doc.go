/*
Package deriv implements an LL(1) parser-combinator engine based on
Brzozowski-style derivatives with an explicit continuation stack.

Clients build a Syntax[T] from a handful of primitives:

	digit := deriv.Elem(KindDigit)
	plus  := deriv.Elem(KindPlus)
	sum   := deriv.Map(deriv.Then(digit, deriv.Many(deriv.Then(plus, digit))),
		func(p deriv.Pair[Token, []Pair[Token, Token]]) int { ... })

and drive the resulting syntax with a token source:

	eng := deriv.New(sum, kindOf)
	result := eng.Parse(tokens)

	switch result.Kind {
	case deriv.Parsed:
		fmt.Println(result.Value)
	case deriv.UnexpectedToken:
		fmt.Println("no continuation at", result.Token)
	case deriv.UnexpectedEnd:
		fmt.Println("input ended early")
	}

Building a Syntax

Syntaxes are built bottom-up from Fail, Epsilon, Elem, Or, Then, Concat,
Map and Recursive. Every node precomputes whether it accepts the empty
input (nullable) and which token kinds may begin a non-empty match
(FIRST), the way a bottom-up parser generator precomputes FIRST/FOLLOW
sets from a grammar. For non-recursive nodes this happens immediately at
construction; Recursive nodes are resolved and brought to a fixed point
by an explicit Analyze pass (see analyze.go), mirroring the way this
family of packages separates grammar *construction* from grammar
*analysis*.

Driving a Syntax

An Engine binds a Syntax to a kindOf function and hands out States. A
State is an immutable snapshot of "what remains to be parsed"; feeding it
a token produces either a further State or one of the two error shapes
above, together with a residual State that is always safe to keep
feeding (restartable).

Extracting a Grammar

GrammarOf walks a Syntax and produces a finite BNF-shaped Grammar,
introducing a non-terminal for the body of every Recursive node and for
every Disjunction nested inside an alternative (a top-level chain of
disjunctions becomes the alternatives of one rule), using node identity
(not structural equality) to detect sharing. Pretty renders a Grammar the way
a compiler textbook would.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2019-2026 The Deriv Authors

*/
package deriv

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'deriv'.
func tracer() tracing.Trace {
	return tracing.Select("deriv")
}
