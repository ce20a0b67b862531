package deriv

import (
	"sync"

	"github.com/emirpasic/gods/sets/hashset"
)

// nodeKind tags the variant of an erased syntax node. This is the
// runtime shadow of the Syntax[T] algebra described in the package
// documentation: everything below this line has forgotten its static
// T, the way gorgo's LR tables forget the semantic type of a
// grammar symbol once it has been turned into a *Symbol.
type nodeKind int

const (
	kindFailure nodeKind = iota
	kindEpsilon
	kindElem
	kindDisjunction
	kindSequence
	kindConcat
	kindTransform
	kindRecursive
)

// node is the type-erased representation of one Syntax[T] value. The
// public Syntax[T] wrapper (see syntax.go) is a thin, statically typed
// handle around a *node; every combinator that needs to change the
// carried type stores a closure on the node at construction time (fn,
// combine) so that the derivative engine, which only ever manipulates
// *node and `any`, never needs a type parameter of its own. This is the
// "erase at the boundary, re-check at the boundary of user-supplied map
// functions" strategy the design notes call for when a language lacks
// higher-rank polymorphism.
type node struct {
	kind nodeKind

	// Epsilon
	value any

	// Elem
	elemKind Kind

	// Disjunction / Sequence / Concat / Transform (left only) / Recursive (left only)
	left  *node
	right *node

	// Transform
	fn func(any) any

	// Sequence / Concat: combine(leftValue, rightValue) -> Pair or
	// concatenated slice, still erased.
	combine func(a, b any) any

	// Recursive
	resolve  func() *node
	once     sync.Once
	resolved bool

	// precomputed LL(1) properties, valid once analyzed==true
	analyzed      bool
	nullableOK    bool
	nullableValue any
	first         *hashset.Set

	// diagnostics
	label string
}

// inner returns the node a Recursive node refers to, resolving its
// thunk exactly once. Safe for concurrent first use.
func (n *node) inner() *node {
	n.once.Do(func() {
		n.left = n.resolve()
		n.resolved = true
	})
	return n.left
}

// child returns the single node the derivative walk should descend into
// for kinds that only ever have one live child (Transform, Recursive).
func (n *node) child() *node {
	if n.kind == kindRecursive {
		return n.inner()
	}
	return n.left
}

func newFirstSet(kinds ...Kind) *hashset.Set {
	s := hashset.New()
	for _, k := range kinds {
		s.Add(k)
	}
	return s
}

func unionFirstSets(a, b *hashset.Set) *hashset.Set {
	s := hashset.New()
	for _, v := range a.Values() {
		s.Add(v)
	}
	for _, v := range b.Values() {
		s.Add(v)
	}
	return s
}

func firstContains(s *hashset.Set, k Kind) bool {
	return s.Contains(k)
}

// --- continuation chain -----------------------------------------------

type frameTag int

const (
	tagApply frameTag = iota
	tagPrepend
	tagFollowBy
	tagConcatPrepend
	tagConcatFollowBy
)

// frame is one entry of the continuation chain (§3, "Continuation
// chain"). Reductive frames (tagApply, tagPrepend, tagConcatPrepend)
// consume a value and yield the next one; redirecting frames
// (tagFollowBy, tagConcatFollowBy) switch the syntax under derivation
// and push a reductive frame that will finish the job once the new
// syntax completes.
type frame struct {
	tag     frameTag
	fn      func(any) any   // tagApply
	val     any             // tagPrepend / tagConcatPrepend: the already-known left value
	next    *node           // tagFollowBy / tagConcatFollowBy: the syntax to switch to
	combine func(a, b any) any
}

// chain is an ordered stack of frames, top of stack at the end of the
// slice. An empty chain is the identity continuation.
type chain []frame

// push returns a new chain with f on top, without mutating c's backing
// array. A residual State may be retained and fed two different tails
// (§5, §7 restartability); a bare append would happily reuse spare
// capacity and let one branch's push clobber a slot the other branch
// still reads, so this is copy-on-write via a full-capacity slice
// expression that forces append to allocate.
func (c chain) push(f frame) chain {
	return append(c[:len(c):len(c)], f)
}

// contState is a ContinuedState: the syntax that remains to be parsed,
// plus the chain of deferred operations that turns its eventual value
// into the overall result.
type contState struct {
	cur   *node
	chain chain
}

// epsilonNode builds a fresh, already-analyzed Epsilon(v) node. This is
// how foldStack represents "the whole parse has produced v": per §4.2,
// an empty chain consuming v yields the terminal state (epsilon(v),
// EmptyChain).
func epsilonNode(v any) *node {
	return &node{
		kind:          kindEpsilon,
		value:         v,
		analyzed:      true,
		nullableOK:    true,
		nullableValue: v,
		first:         hashset.New(),
	}
}

// foldStack pops frames off chain, feeding v through each reductive
// frame in turn, until either a redirecting frame is found (in which
// case derivation switches to that frame's syntax) or the chain runs
// dry (in which case the parse, from this point of view, is complete).
func foldStack(c chain, v any) contState {
	for len(c) > 0 {
		top := c[len(c)-1]
		c = c[:len(c)-1]
		switch top.tag {
		case tagApply:
			v = top.fn(v)
		case tagPrepend, tagConcatPrepend:
			v = top.combine(top.val, v)
		case tagFollowBy:
			c = c.push(frame{tag: tagPrepend, val: v, combine: top.combine})
			return contState{cur: top.next, chain: c}
		case tagConcatFollowBy:
			c = c.push(frame{tag: tagConcatPrepend, val: v, combine: top.combine})
			return contState{cur: top.next, chain: c}
		}
	}
	return contState{cur: epsilonNode(v), chain: nil}
}
