package deriv

import "fmt"

// ResultKind classifies the shape of a ParseResult (§4.2).
type ResultKind int

const (
	// Parsed means the input stream was exhausted and the residual
	// syntax admitted a nullable value.
	Parsed ResultKind = iota
	// UnexpectedToken means the next token had no acceptable
	// continuation from the state prior to consuming it.
	UnexpectedToken
	// UnexpectedEnd means input ended while the residual state was not
	// nullable.
	UnexpectedEnd
)

func (k ResultKind) String() string {
	switch k {
	case Parsed:
		return "Parsed"
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnexpectedEnd:
		return "UnexpectedEnd"
	default:
		return "ResultKind(?)"
	}
}

// ParseResult is the outcome of driving a State with some tokens. Per
// §7, Residual is always a valid, restartable driver state: feeding it
// more tokens produces either a further ParseResult or another
// diagnostic, never a corrupted engine.
type ParseResult[T any] struct {
	Kind     ResultKind
	Value    T
	Token    Token
	Residual *State[T]
}

// Option configures an Engine at construction time, following the same
// functional-options idiom gorgo's scanner package uses for
// things like SkipComments.
type Option func(*engineConfig)

type engineConfig struct {
	trace bool
}

// WithTracing turns on Debugf-level tracing of findFirst/derive
// transitions, off by default to keep quiet parses quiet.
func WithTracing(on bool) Option {
	return func(c *engineConfig) { c.trace = on }
}

// Engine binds a Syntax to a host's kindOf classifier — the "module
// instantiation" referred to in §6 — and hands out restartable States.
type Engine[T any] struct {
	syntax *Syntax[T]
	kindOf func(Token) Kind
	cfg    engineConfig
}

// New creates an Engine for syntax, eagerly analyzing it (§5: "either by
// eager computation on construction of the root, or publication-safe
// lazy computation" — this implementation chooses the former for
// New, and lazily-but-safely for Syntax combinators used outside
// an Engine, e.g. by the grammar extractor).
func New[T any](syntax *Syntax[T], kindOf func(Token) Kind, opts ...Option) *Engine[T] {
	Analyze(syntax)
	e := &Engine[T]{syntax: syntax, kindOf: kindOf}
	for _, opt := range opts {
		opt(&e.cfg)
	}
	return e
}

// NewState returns the initial State for this engine's syntax: the
// whole syntax, with an empty continuation chain.
func (e *Engine[T]) NewState() *State[T] {
	return &State[T]{engine: e, cur: e.syntax.n, chain: nil}
}

// Parse drives tokens to completion, per §6's `parse(syntax, tokens) ->
// ParseResult`.
func (e *Engine[T]) Parse(tokens TokenSource) ParseResult[T] {
	return e.NewState().Parse(tokens)
}

// State is a ContinuedState: an immutable snapshot of what remains to
// be parsed. Old states may be retained and re-driven with a different
// tail of tokens (§5, restartability).
type State[T any] struct {
	engine *Engine[T]
	cur    *node
	chain  chain
}

// Parse consumes tokens from ts until it is exhausted or a token is
// rejected.
func (st *State[T]) Parse(ts TokenSource) ParseResult[T] {
	cur := st
	for {
		tok, ok := ts.Next()
		if !ok {
			return cur.end()
		}
		next, accepted := cur.Feed(tok)
		if !accepted {
			return ParseResult[T]{Kind: UnexpectedToken, Token: tok, Residual: cur}
		}
		cur = next
	}
}

// Feed advances the state by one token. On success it returns the
// residual state and true. On rejection it returns (st, false): the
// residual is exactly the state prior to consuming tok (§7), so a
// caller building its own ParseResult can use either the returned state
// (identical to st) or st directly.
func (st *State[T]) Feed(tok Token) (*State[T], bool) {
	k := st.engine.kindOf(tok)
	cur, c, ok := findFirst(st.cur, st.chain, k)
	if !ok {
		if st.engine.cfg.trace {
			tracer().Debugf("deriv: no continuation for kind %v", k)
		}
		return st, false
	}
	c2, err := derive(cur, c, k)
	if err != nil {
		panic(err)
	}
	next := foldStack(c2, any(tok))
	if st.engine.cfg.trace {
		tracer().Debugf("deriv: consumed kind %v, chain depth now %d", k, len(next.chain))
	}
	return &State[T]{engine: st.engine, cur: next.cur, chain: next.chain}, true
}

// Apply feeds a single token and reports the outcome as a ParseResult
// whose Kind is always Parsed on success — meaning here "this token was
// accepted", not "the whole input is exhausted" — or UnexpectedToken on
// rejection. Parse (above) is almost always the more useful entry
// point; Apply exists for callers driving one token at a time and
// wanting the result back in ParseResult shape rather than Feed's bare
// (*State[T], bool) — cmd/derivrepl does this to report each keystroke.
func (st *State[T]) Apply(tok Token) ParseResult[T] {
	next, ok := st.Feed(tok)
	if !ok {
		return ParseResult[T]{Kind: UnexpectedToken, Token: tok, Residual: st}
	}
	return ParseResult[T]{Kind: Parsed, Residual: next}
}

// end implements result(state) from §4.2: it decides, with no more
// input available, whether the state is a completed parse or an
// unexpected end.
func (st *State[T]) end() ParseResult[T] {
	s := contState{cur: st.cur, chain: st.chain}
	for {
		if !s.cur.nullableOK {
			return ParseResult[T]{Kind: UnexpectedEnd, Residual: &State[T]{engine: st.engine, cur: s.cur, chain: s.chain}}
		}
		next := foldStack(s.chain, s.cur.nullableValue)
		if len(next.chain) == 0 && next.cur.kind == kindEpsilon {
			v, _ := next.cur.value.(T)
			return ParseResult[T]{
				Kind:     Parsed,
				Value:    v,
				Residual: &State[T]{engine: st.engine, cur: next.cur, chain: next.chain},
			}
		}
		s = next
	}
}

// findFirst walks structurally from (cur, c) to locate the sub-state
// whose FIRST set contains k, folding nullable prefixes out of the way
// as it goes (§4.2, step 1).
func findFirst(cur *node, c chain, k Kind) (*node, chain, bool) {
	for {
		if firstContains(cur.first, k) {
			return cur, c, true
		}
		if !cur.nullableOK || len(c) == 0 {
			return cur, c, false
		}
		next := foldStack(c, cur.nullableValue)
		cur, c = next.cur, next.chain
	}
}

// derive descends into cur consuming a token of kind k, growing the
// chain with whatever obligations that descent leaves behind (§4.2,
// step 2). It returns the chain to fold the eventually-consumed token
// through; the consumed token itself is folded in by the caller.
func derive(cur *node, c chain, k Kind) (chain, error) {
	switch cur.kind {
	case kindElem:
		return c, nil
	case kindTransform:
		c = c.push(frame{tag: tagApply, fn: cur.fn})
		return derive(cur.left, c, k)
	case kindDisjunction:
		if firstContains(cur.left.first, k) {
			return derive(cur.left, c, k)
		}
		return derive(cur.right, c, k)
	case kindSequence:
		if firstContains(cur.left.first, k) {
			c = c.push(frame{tag: tagFollowBy, next: cur.right, combine: cur.combine})
			return derive(cur.left, c, k)
		}
		c = c.push(frame{tag: tagPrepend, val: cur.left.nullableValue, combine: cur.combine})
		return derive(cur.right, c, k)
	case kindConcat:
		if firstContains(cur.left.first, k) {
			c = c.push(frame{tag: tagConcatFollowBy, next: cur.right, combine: cur.combine})
			return derive(cur.left, c, k)
		}
		c = c.push(frame{tag: tagConcatPrepend, val: cur.left.nullableValue, combine: cur.combine})
		return derive(cur.right, c, k)
	case kindRecursive:
		return derive(cur.inner(), c, k)
	case kindFailure:
		return nil, newUnreachableFailureError()
	default:
		return nil, fmt.Errorf("deriv: unknown node kind %d", cur.kind)
	}
}
