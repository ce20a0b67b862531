package deriv

// Optional makes s acceptable zero times, yielding (v, false) when
// absent and (result, true) when present. Built from Or + Epsilon like
// any other derived combinator: it introduces no new node kind.
func Optional[T any](s *Syntax[T]) *Syntax[Pair[T, bool]] {
	present := Map(s, func(v T) Pair[T, bool] { return Pair[T, bool]{First: v, Second: true} })
	var zero T
	absent := Epsilon(Pair[T, bool]{First: zero, Second: false})
	return Or(present, absent)
}

// Many is Kleene star: zero or more repetitions of s, collected in
// order. It is defined the way a recursive-descent grammar would write
// `many = () | (s, many)`, using Recursive to tie the knot, Then plus
// Map to prepend one more element, and Or with Epsilon for "done".
//
// Many(s) is well-formed for exactly the same reason `s* ::= ε |
// s s*` is LL(1): it requires that s itself is never nullable, since a
// nullable repeated element could not be told apart from "no more
// repetitions" by looking at FIRST alone. Many over a nullable s does
// not panic when built, because Or's eager check cannot see through the
// unresolved Recursive node; the disjointness defect is raised once the
// syntax is analyzed (Analyze, Validate or New).
func Many[T any](s *Syntax[T]) *Syntax[[]T] {
	var self *Syntax[[]T]
	self = Recursive(func() *Syntax[[]T] {
		one := Map(Then(s, self), func(p Pair[T, []T]) []T {
			return append([]T{p.First}, p.Second...)
		})
		return Or(one, Epsilon([]T{}))
	})
	return self
}

// Many1 is one-or-more repetitions of s.
func Many1[T any](s *Syntax[T]) *Syntax[[]T] {
	return Map(Then(s, Many(s)), func(p Pair[T, []T]) []T {
		return append([]T{p.First}, p.Second...)
	})
}
