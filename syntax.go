package deriv

// Syntax is a statically typed handle onto an immutable syntax graph
// whose runtime shape has been erased into *node (see node.go). Once
// built, a Syntax's nullability and FIRST set never change: composing
// two syntaxes never mutates either operand, it only ever builds a new
// node that points at them.
type Syntax[T any] struct {
	n *node
}

// Fail is the syntax that accepts nothing, not even the empty input.
func Fail[T any]() *Syntax[T] {
	return &Syntax[T]{n: &node{
		kind:       kindFailure,
		analyzed:   true,
		nullableOK: false,
		first:      newFirstSet(),
	}}
}

// Epsilon is the syntax that accepts only the empty input, yielding v.
func Epsilon[T any](v T) *Syntax[T] {
	return &Syntax[T]{n: &node{
		kind:          kindEpsilon,
		value:         v,
		analyzed:      true,
		nullableOK:    true,
		nullableValue: v,
		first:         newFirstSet(),
	}}
}

// Elem is the syntax that accepts exactly one token of kind k, yielding
// that token.
func Elem(k Kind) *Syntax[Token] {
	return &Syntax[Token]{n: &node{
		kind:       kindElem,
		elemKind:   k,
		analyzed:   true,
		nullableOK: false,
		first:      newFirstSet(k),
	}}
}

// Accept is sugar for Elem(k) followed by a partial, filtering Map: it
// accepts a token of kind k and turns it into a T via f, which reports
// false to signal the token's payload cannot be converted (a defect the
// caller is expected not to trigger for tokens of that kind).
func Accept[T any](k Kind, f func(Token) (T, bool)) *Syntax[T] {
	inner := Elem(k)
	return Map(inner, func(t Token) T {
		v, ok := f(t)
		if !ok {
			panic(&StructuralError{Kind: UnreachableFailure, Message: "Accept: conversion rejected a token of its own kind"})
		}
		return v
	})
}

// Or is left-biased disjunction: both operands must be disjoint in
// FIRST and not both nullable. When both operands are already analyzed,
// Or panics with a *StructuralError on a violation (§7: structural
// defects are fatal programmer errors, diagnosed here at construction
// time); when either still depends on an unresolved Recursive node, the
// check is left to Analyze. Use Validate to check a syntax for defects
// without risking that panic.
func Or[T any](l, r *Syntax[T]) *Syntax[T] {
	checkDisjoint(l.n, r.n)
	n := &node{kind: kindDisjunction, left: l.n, right: r.n}
	finalizeEager(n)
	return &Syntax[T]{n: n}
}

// checkDisjoint enforces the LL(1) disjointness invariant eagerly when
// both operands are already fully analyzed (i.e. neither depends on an
// unresolved Recursive node). Operands that still depend on a Recursive
// node are checked later, by Analyze, once their FIRST sets and
// nullability have reached a fixed point.
func checkDisjoint(l, r *node) {
	if !l.analyzed || !r.analyzed {
		return
	}
	if err := disjointConflict(l, r); err != nil {
		panic(err)
	}
}

// Then is ordered sequencing: l, then r, yielding the pair of both
// results.
func Then[A, B any](l *Syntax[A], r *Syntax[B]) *Syntax[Pair[A, B]] {
	n := &node{
		kind:  kindSequence,
		left:  l.n,
		right: r.n,
		combine: func(a, b any) any {
			return Pair[A, B]{First: a.(A), Second: b.(B)}
		},
	}
	finalizeEager(n)
	return &Syntax[Pair[A, B]]{n: n}
}

// Concat is ordered concatenation of two syntaxes that each produce a
// slice of the same element type.
func Concat[E any](l, r *Syntax[[]E]) *Syntax[[]E] {
	n := &node{
		kind:  kindConcat,
		left:  l.n,
		right: r.n,
		combine: func(a, b any) any {
			prefix := a.([]E)
			suffix := b.([]E)
			out := make([]E, 0, len(prefix)+len(suffix))
			out = append(out, prefix...)
			out = append(out, suffix...)
			return out
		},
	}
	finalizeEager(n)
	return &Syntax[[]E]{n: n}
}

// Map applies f to the result of s.
func Map[A, B any](s *Syntax[A], f func(A) B) *Syntax[B] {
	n := &node{
		kind: kindTransform,
		left: s.n,
		fn: func(v any) any {
			return f(v.(A))
		},
	}
	finalizeEager(n)
	return &Syntax[B]{n: n}
}

// Recursive builds a by-need reference to another syntax, allowing that
// syntax to refer back to itself. thunk is invoked exactly once, on
// first need (either an explicit Analyze/Validate call, or the first
// time the returned Syntax is driven or extracted). The grammar
// extractor introduces a single non-terminal for the body a Recursive
// node resolves to, keyed by that body's identity (§4.3): sharing the
// same *Syntax[T] value denotes the same non-terminal, while two
// separate Recursive values whose thunks build separate bodies do not.
func Recursive[T any](thunk func() *Syntax[T]) *Syntax[T] {
	n := &node{
		kind:       kindRecursive,
		nullableOK: false,
		first:      newFirstSet(),
	}
	n.resolve = func() *node { return thunk().n }
	return &Syntax[T]{n: n}
}

// Or is the method form of Or, kept alongside the free function so that
// `a.Or(b)` reads the way `a | b` does in the source language.
func (s *Syntax[T]) Or(other *Syntax[T]) *Syntax[T] {
	return Or(s, other)
}

// finalizeEager computes nullable/first immediately when every child is
// already analyzed, i.e. does not (yet) depend on an unresolved
// Recursive node. Nodes that do depend on one are left with the
// placeholder None/∅ state and marked unanalyzed; Analyze brings the
// whole reachable graph to a fixed point in one pass (analyze.go).
func finalizeEager(n *node) {
	if !dependsOnUnresolved(n) {
		recompute(n)
		n.analyzed = true
	} else {
		n.first = newFirstSet()
	}
}

func dependsOnUnresolved(n *node) bool {
	switch n.kind {
	case kindFailure, kindEpsilon, kindElem:
		return false
	case kindTransform:
		return !n.left.analyzed
	case kindDisjunction, kindSequence, kindConcat:
		return !n.left.analyzed || !n.right.analyzed
	case kindRecursive:
		return true
	}
	return true
}

// recompute derives n's nullable/first from its already-known children,
// per the table in §3. It is safe to call repeatedly (idempotent for a
// stable graph, monotone otherwise), which is exactly what Analyze
// relies on to drive recursive nodes to a fixed point.
func recompute(n *node) {
	switch n.kind {
	case kindFailure:
		n.nullableOK = false
		if n.first == nil {
			n.first = newFirstSet()
		}
	case kindEpsilon:
		n.nullableOK = true
		if n.first == nil {
			n.first = newFirstSet()
		}
	case kindElem:
		n.nullableOK = false
		if n.first == nil {
			n.first = newFirstSet(n.elemKind)
		}
	case kindTransform:
		inner := n.left
		n.first = inner.first
		if inner.nullableOK {
			n.nullableOK = true
			n.nullableValue = n.fn(inner.nullableValue)
		} else {
			n.nullableOK = false
		}
	case kindDisjunction:
		l, r := n.left, n.right
		n.first = unionFirstSets(l.first, r.first)
		if l.nullableOK {
			n.nullableOK = true
			n.nullableValue = l.nullableValue
		} else if r.nullableOK {
			n.nullableOK = true
			n.nullableValue = r.nullableValue
		} else {
			n.nullableOK = false
		}
	case kindSequence:
		l, r := n.left, n.right
		if l.nullableOK {
			n.first = unionFirstSets(l.first, r.first)
		} else {
			n.first = l.first
		}
		if l.nullableOK && r.nullableOK {
			n.nullableOK = true
			n.nullableValue = n.combine(l.nullableValue, r.nullableValue)
		} else {
			n.nullableOK = false
		}
	case kindConcat:
		l, r := n.left, n.right
		if l.nullableOK {
			n.first = unionFirstSets(l.first, r.first)
		} else {
			n.first = l.first
		}
		if l.nullableOK && r.nullableOK {
			n.nullableOK = true
			n.nullableValue = n.combine(l.nullableValue, r.nullableValue)
		} else {
			n.nullableOK = false
		}
	case kindRecursive:
		inner := n.child()
		n.first = inner.first
		n.nullableOK = inner.nullableOK
		n.nullableValue = inner.nullableValue
	}
}
