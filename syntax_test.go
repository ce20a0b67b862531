package deriv

import "testing"

// TestNullableMatchesEmptyParse is invariant 2: nullable(s) = Some(v)
// iff parse(s, []) is Parsed(v, _).
func TestNullableMatchesEmptyParse(t *testing.T) {
	nullableSyntax := Or(Elem('a'), Epsilon[Token](charToken('z')))
	Analyze(nullableSyntax)
	if !nullableSyntax.n.nullableOK {
		t.Fatalf("expected nullableSyntax to be nullable")
	}
	eng := New(nullableSyntax, kindOfChar)
	res := eng.Parse(chars(""))
	if res.Kind != Parsed || res.Value != charToken('z') {
		t.Fatalf("expected Parsed('z') on empty input, got %v %v", res.Kind, res.Value)
	}

	nonNullable := Elem('a')
	Analyze(nonNullable)
	if nonNullable.n.nullableOK {
		t.Fatalf("expected Elem to be non-nullable")
	}
	eng2 := New(nonNullable, kindOfChar)
	if res := eng2.Parse(chars("")); res.Kind != UnexpectedEnd {
		t.Fatalf("expected UnexpectedEnd on empty input, got %v", res.Kind)
	}
}

// TestFirstSetMatchesAcceptedLeadingTokens is invariant 3: k is in
// first(s) iff some stream beginning with a token of kind k parses.
func TestFirstSetMatchesAcceptedLeadingTokens(t *testing.T) {
	s := Or(Elem('a'), Elem('b'))
	Analyze(s)
	if !firstContains(s.n.first, 'a') || !firstContains(s.n.first, 'b') {
		t.Fatalf("expected first(s) = {a, b}")
	}
	if firstContains(s.n.first, 'c') {
		t.Fatalf("expected 'c' not in first(s)")
	}
	eng := New(s, kindOfChar)
	if res := eng.Parse(chars("a")); res.Kind != Parsed {
		t.Fatalf("expected leading 'a' to parse")
	}
	if res := eng.Parse(chars("c")); res.Kind != UnexpectedToken {
		t.Fatalf("expected leading 'c' to be rejected")
	}
}

// TestSequenceAssociativity is invariant 5: (a~b)~c and a~(b~c) accept
// the same inputs and produce the same values up to pair regrouping.
func TestSequenceAssociativity(t *testing.T) {
	a, b, c := Elem('a'), Elem('b'), Elem('c')

	left := Then(Then(a, b), c)
	leftVal := Map(left, func(p Pair[Pair[Token, Token], Token]) string {
		return string(rune(p.First.First.(charToken))) + string(rune(p.First.Second.(charToken))) + string(rune(p.Second.(charToken)))
	})

	right := Then(a, Then(b, c))
	rightVal := Map(right, func(p Pair[Token, Pair[Token, Token]]) string {
		return string(rune(p.First.(charToken))) + string(rune(p.Second.First.(charToken))) + string(rune(p.Second.Second.(charToken)))
	})

	leftEng := New(leftVal, kindOfChar)
	rightEng := New(rightVal, kindOfChar)

	leftRes := leftEng.Parse(chars("abc"))
	rightRes := rightEng.Parse(chars("abc"))
	if leftRes.Kind != Parsed || rightRes.Kind != Parsed {
		t.Fatalf("expected both groupings to parse, got %v and %v", leftRes.Kind, rightRes.Kind)
	}
	if leftRes.Value != rightRes.Value {
		t.Fatalf("expected equal values under regrouping, got %q and %q", leftRes.Value, rightRes.Value)
	}
}

// TestMapFusion is invariant 6: s.map(f).map(g) behaves like
// s.map(compose(g, f)).
func TestMapFusion(t *testing.T) {
	base := Elem('a')
	f := func(tok Token) int { return int(tok.(charToken)) }
	g := func(n int) string { return string(rune(n + 1)) }

	fused := Map(base, func(tok Token) string { return g(f(tok)) })
	unfused := Map(Map(base, f), g)

	fusedEng := New(fused, kindOfChar)
	unfusedEng := New(unfused, kindOfChar)

	fr := fusedEng.Parse(chars("a"))
	ur := unfusedEng.Parse(chars("a"))
	if fr.Kind != Parsed || ur.Kind != Parsed {
		t.Fatalf("expected both to parse, got %v and %v", fr.Kind, ur.Kind)
	}
	if fr.Value != ur.Value {
		t.Fatalf("expected fused and unfused maps to agree, got %q vs %q", fr.Value, ur.Value)
	}
}

// TestDisjunctionCommutativity is invariant 4: when two disjoint,
// not-both-nullable alternatives swap sides, parse results agree.
func TestDisjunctionCommutativity(t *testing.T) {
	ab := Or(Elem('a'), Elem('b'))
	ba := Or(Elem('b'), Elem('a'))

	abEng := New(ab, kindOfChar)
	baEng := New(ba, kindOfChar)

	for _, input := range []string{"a", "b", "c", ""} {
		abRes := abEng.Parse(chars(input))
		baRes := baEng.Parse(chars(input))
		if abRes.Kind != baRes.Kind {
			t.Fatalf("input %q: expected same ResultKind under commutation, got %v vs %v", input, abRes.Kind, baRes.Kind)
		}
	}
}

func TestAcceptPanicsOnBrokenConversion(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Accept to panic when its conversion rejects a token of its own kind")
		}
	}()
	broken := Accept('a', func(Token) (int, bool) { return 0, false })
	eng := New(broken, kindOfChar)
	eng.Parse(chars("a"))
}

// TestConcatJoinsSequences exercises Concat directly: two syntaxes each
// producing a []Token are joined into one ordered []Token.
func TestConcatJoinsSequences(t *testing.T) {
	toSlice := func(k Kind) *Syntax[[]Token] {
		return Map(Elem(k), func(tok Token) []Token { return []Token{tok} })
	}
	joined := Concat(toSlice('a'), toSlice('b'))
	eng := New(joined, kindOfChar)
	res := eng.Parse(chars("ab"))
	if res.Kind != Parsed {
		t.Fatalf("expected Parsed, got %v", res.Kind)
	}
	if len(res.Value) != 2 || res.Value[0].(charToken) != 'a' || res.Value[1].(charToken) != 'b' {
		t.Fatalf("expected [a b], got %v", res.Value)
	}
}

func TestFailAcceptsNothing(t *testing.T) {
	f := Fail[Token]()
	Analyze(f)
	if f.n.nullableOK {
		t.Fatalf("expected Fail to be non-nullable")
	}
	eng := New(f, kindOfChar)
	if res := eng.Parse(chars("")); res.Kind != UnexpectedEnd {
		t.Fatalf("expected UnexpectedEnd on empty input against Fail, got %v", res.Kind)
	}
	if res := eng.Parse(chars("a")); res.Kind != UnexpectedToken {
		t.Fatalf("expected UnexpectedToken for any token against Fail, got %v", res.Kind)
	}
}
