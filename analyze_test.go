package deriv

import "testing"

// TestAnalyzeIsIdempotent checks that calling Analyze twice on the same
// graph doesn't change its nullable/first fields the second time
// around, which New relies on implicitly by calling Analyze on
// every construction even when a caller already validated the syntax.
func TestAnalyzeIsIdempotent(t *testing.T) {
	s := balancedParens()
	Analyze(s)
	firstNullable := s.n.nullableOK
	firstSize := s.n.first.Size()
	Analyze(s)
	if s.n.nullableOK != firstNullable || s.n.first.Size() != firstSize {
		t.Fatalf("expected Analyze to be idempotent")
	}
}

// TestValidateAcceptsWellFormedRecursiveGrammar exercises Validate
// against a genuinely LL(1) self-recursive syntax, confirming the
// fixpoint pass converges cleanly with no reported defect.
func TestValidateAcceptsWellFormedRecursiveGrammar(t *testing.T) {
	if err := Validate(balancedParens()); err != nil {
		t.Fatalf("expected no structural defect, got %v", err)
	}
}

// TestReachableVisitsEachNodeOnce ensures a syntax value used twice in
// one graph (shared by reference, not by Recursive) is only walked
// once, which is what keeps Analyze's fixpoint pass linear rather than
// exponential in the presence of sharing.
func TestReachableVisitsEachNodeOnce(t *testing.T) {
	leaf := Elem('a')
	shared := Then(leaf, Epsilon(charToken('x')))
	top := Then(shared, shared)
	nodes := reachable(top.n)
	seen := make(map[*node]bool)
	for _, n := range nodes {
		if seen[n] {
			t.Fatalf("node visited twice: %+v", n)
		}
		seen[n] = true
	}
}
