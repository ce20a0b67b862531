package deriv

// Analyze brings a syntax graph's nullable/first fields to a fixed
// point and validates the LL(1) disjointness invariant across the whole
// graph, including the parts that could not be finalized eagerly at
// construction time because they passed through an unresolved Recursive
// node (§4.1: "for recursive cycles they are computed as least fixed
// points"). It is idempotent and safe to call more than once; Engine's
// constructor calls it automatically, so most callers never need to.
//
// Analyze panics with a *StructuralError if the graph violates LL(1)
// disjointness anywhere. Use Validate to get that same check back as an
// error instead of a panic.
func Analyze[T any](s *Syntax[T]) *Syntax[T] {
	nodes := reachable(s.n)
	runFixpoint(nodes)
	for _, n := range nodes {
		if n.kind == kindDisjunction {
			if err := disjointConflict(n.left, n.right); err != nil {
				panic(err)
			}
		}
		n.analyzed = true
	}
	return s
}

// Validate runs the same analysis as Analyze but reports a structural
// defect as an error rather than a panic, for callers (such as the
// bundled REPL) that build syntaxes from data they do not fully trust.
func Validate[T any](s *Syntax[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*StructuralError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()
	Analyze(s)
	return nil
}

// reachable collects every node reachable from root, resolving
// Recursive thunks as it goes, visiting each distinct node identity
// exactly once.
func reachable(root *node) []*node {
	var order []*node
	seen := make(map[*node]bool)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		order = append(order, n)
		switch n.kind {
		case kindTransform:
			walk(n.left)
		case kindDisjunction, kindSequence, kindConcat:
			walk(n.left)
			walk(n.right)
		case kindRecursive:
			walk(n.inner())
		}
	}
	walk(root)
	return order
}

// runFixpoint repeatedly recomputes every node's nullable/first from its
// children's current cached values until a full pass makes no change.
// Termination follows the monotone-lattice argument in §4.1: nullable
// only ever flips false→true once per node, and first only ever grows,
// both bounded by the finite node count and finite kind alphabet
// touched by this graph.
func runFixpoint(nodes []*node) {
	changed := true
	for changed {
		changed = false
		for _, n := range nodes {
			wasNullable := n.nullableOK
			wasFirstSize := 0
			if n.first != nil {
				wasFirstSize = n.first.Size()
			}
			recompute(n)
			if n.nullableOK != wasNullable {
				changed = true
			}
			if n.first.Size() != wasFirstSize {
				changed = true
			}
		}
	}
}

// disjointConflict reports the LL(1) violation between l and r, if any,
// without panicking.
func disjointConflict(l, r *node) *StructuralError {
	if l.nullableOK && r.nullableOK {
		return newDisjointnessError(0, true)
	}
	for _, v := range l.first.Values() {
		if r.first.Contains(v) {
			return newDisjointnessError(v.(Kind), false)
		}
	}
	return nil
}
