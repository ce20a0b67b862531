package deriv

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/utils"
)

// SymbolKind classifies one element of a grammar alternative, mirroring
// the terminal/non-terminal/epsilon distinction gorgo's lr.Symbol
// makes for LALR grammars.
type SymbolKind int

const (
	// SymTerminal is a token kind, printed via the host's Kind display.
	SymTerminal SymbolKind = iota
	// SymNonTerminal is a reference to another Rule by Id.
	SymNonTerminal
	// SymEpsilon marks an alternative that matches the empty input.
	SymEpsilon
)

// Symbol is one element of a Grammar alternative.
type Symbol struct {
	Kind SymbolKind
	Term Kind // valid when Kind == SymTerminal
	Ref  int  // valid when Kind == SymNonTerminal: the referenced Rule's Id
}

func (s Symbol) String(nonTerminal func(int) string, terminal func(Kind) string) string {
	switch s.Kind {
	case SymTerminal:
		return terminal(s.Term)
	case SymEpsilon:
		return "ε"
	case SymNonTerminal:
		return nonTerminal(s.Ref)
	}
	return "?"
}

// defaultTerminalNaming is used by Pretty when a caller has no display
// routine of its own for Kind; it just prints the underlying int.
func defaultTerminalNaming(k Kind) string {
	return fmt.Sprintf("%v", int(k))
}

// Alternative is one sequence of symbols in a Rule's right-hand side. A
// nil or empty Alternative denotes an unreachable rule (§9, Open
// Question ii): a Failure node encountered at the top produces no
// alternative at all, not an alternative with zero symbols, so Rule
// distinguishes the two — see Rule.Alts.
type Alternative []Symbol

// Rule is the right-hand side of one non-terminal: a disjunction of
// Alternatives, exactly the shape produced by flattening a top-level
// Disjunction chain (§4.3, step 2).
type Rule struct {
	Id   int
	Alts []Alternative
}

// Grammar is the finite BNF view of a Syntax, in extraction order (the
// root is always Id 0).
type Grammar struct {
	Rules []Rule
}

// worklistEntry pairs a syntax-graph node with the non-terminal id it
// was enqueued under.
type worklistEntry struct {
	id int
	n  *node
}

// GrammarOf extracts a finite BNF grammar from a syntax, per §4.3. It
// never reads the FIRST/nullable fields and resolves Recursive thunks
// itself, so s need not be analyzed first and need not be LL(1).
func GrammarOf[T any](s *Syntax[T]) Grammar {
	ids := make(map[*node]int)
	worklist := arraylist.New()

	// A root that is itself a Recursive node (the common shape produced
	// by the `var self *Syntax[T]; self = Recursive(...)` tie-the-knot
	// idiom, see Many) would otherwise cost an extra indirection rule:
	// resolve it once up front so id 0 names the same node that a
	// self-reference inside the body resolves to.
	root := s.n
	if root.kind == kindRecursive {
		root = root.inner()
	}
	ids[root] = 0
	worklist.Add(worklistEntry{id: 0, n: root})
	nextID := 1

	nonTerminalFor := func(n *node) int {
		if id, ok := ids[n]; ok {
			return id
		}
		id := nextID
		nextID++
		ids[n] = id
		worklist.Add(worklistEntry{id: id, n: n})
		return id
	}

	var rules []Rule
	for !worklist.Empty() {
		v, _ := worklist.Get(0)
		worklist.Remove(0)
		entry := v.(worklistEntry)
		rules = append(rules, Rule{
			Id:   entry.id,
			Alts: flattenDisjunction(entry.n, nonTerminalFor),
		})
	}

	// Ids are handed out in enqueue order and the worklist is FIFO, so
	// rules are already collected in id order; the sort makes that
	// ordering explicit for Pretty.
	sort.Slice(rules, func(i, j int) bool {
		return utils.IntComparator(rules[i].Id, rules[j].Id) < 0
	})

	return Grammar{Rules: rules}
}

// flattenDisjunction flattens a chain of top-level Disjunction nodes
// into one Rule's alternatives, then flattens each alternative in turn.
// A Disjunction found again while flattening one *alternative* (i.e.
// not at the very top) is not top-level from this call's point of view
// and is handled by flattenAlternative introducing a fresh
// non-terminal for it instead.
func flattenDisjunction(n *node, freshNonTerminal func(*node) int) []Alternative {
	switch n.kind {
	case kindDisjunction:
		left := flattenDisjunction(n.left, freshNonTerminal)
		right := flattenDisjunction(n.right, freshNonTerminal)
		return append(left, right...)
	case kindFailure:
		return nil
	}
	return []Alternative{flattenAlternative(n, freshNonTerminal)}
}

// flattenAlternative flattens one non-disjunctive node into a sequence
// of symbols (§4.3, step 3). Sequence/Concat contribute both sides'
// symbols in order; Transform is transparent; Recursive and any nested
// Disjunction become a single non-terminal reference, keyed by node
// identity so that repeated references collapse onto the same rule.
func flattenAlternative(n *node, freshNonTerminal func(*node) int) Alternative {
	switch n.kind {
	case kindFailure:
		return nil
	case kindEpsilon:
		return Alternative{{Kind: SymEpsilon}}
	case kindElem:
		return Alternative{{Kind: SymTerminal, Term: n.elemKind}}
	case kindTransform:
		return flattenAlternative(n.left, freshNonTerminal)
	case kindSequence, kindConcat:
		out := flattenAlternative(n.left, freshNonTerminal)
		out = append(out, flattenAlternative(n.right, freshNonTerminal)...)
		return out
	case kindDisjunction:
		id := freshNonTerminal(n)
		return Alternative{{Kind: SymNonTerminal, Ref: id}}
	case kindRecursive:
		id := freshNonTerminal(n.inner())
		return Alternative{{Kind: SymNonTerminal, Ref: id}}
	}
	return nil
}

// Pretty renders a Grammar in BNF shape, one rule per line: `N ::= a b
// | c`. naming maps a rule Id to its displayed non-terminal name; a
// caller with no naming preference can pass a func that just formats
// the id, e.g. `func(id int) string { return fmt.Sprintf("N%d", id) }`.
//
// termNaming optionally overrides how terminal Kinds print — per §6,
// "terminals print via the host's Kind display routine" — and defaults
// to the underlying int when omitted.
func Pretty(g Grammar, naming func(int) string, termNaming ...func(Kind) string) string {
	terminal := defaultTerminalNaming
	if len(termNaming) > 0 && termNaming[0] != nil {
		terminal = termNaming[0]
	}
	var b strings.Builder
	for _, r := range g.Rules {
		fmt.Fprintf(&b, "%s ::= ", naming(r.Id))
		if len(r.Alts) == 0 {
			b.WriteString("(unreachable)")
		}
		for i, alt := range r.Alts {
			if i > 0 {
				b.WriteString(" | ")
			}
			if len(alt) == 0 {
				b.WriteString("ε")
				continue
			}
			for j, sym := range alt {
				if j > 0 {
					b.WriteString(" ")
				}
				b.WriteString(sym.String(naming, terminal))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
