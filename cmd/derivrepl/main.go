package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/tavistock-lang/deriv"
)

func charKindOf(t deriv.Token) deriv.Kind {
	return deriv.Kind(t.(rune))
}

func chars(s string) deriv.TokenSource {
	toks := make([]deriv.Token, 0, len(s))
	for _, r := range s {
		toks = append(toks, r)
	}
	return deriv.Tokens(toks)
}

func termName(k deriv.Kind) string {
	return fmt.Sprintf("%q", rune(k))
}

func ruleName(id int) string {
	if id == 0 {
		return "S"
	}
	return fmt.Sprintf("N%d", id)
}

// runtime is the type-erased handle a demo hands back to the REPL loop:
// its own Syntax[T] has been forgotten the same way the derivative
// engine forgets it internally (see the package doc's note on erasing
// at the boundary), so the REPL can hold a slice of these regardless of
// what T each demo happens to use.
type runtime struct {
	name    string
	about   string
	grammar string
	feed    func(rune) bool
	finish  func() (kind string, value string)
	reset   func()
}

func makeRuntime[T any](name, about string, syn *deriv.Syntax[T], format func(T) string) *runtime {
	if err := deriv.Validate(syn); err != nil {
		tracer().Errorf("demo %q failed validation: %v", name, err)
		os.Exit(1)
	}
	eng := deriv.New(syn, charKindOf)
	grammar := deriv.Pretty(deriv.GrammarOf(syn), ruleName, termName)
	st := eng.NewState()
	return &runtime{
		name:    name,
		about:   about,
		grammar: grammar,
		feed: func(r rune) bool {
			res := st.Apply(r)
			st = res.Residual
			return res.Kind != deriv.UnexpectedToken
		},
		finish: func() (string, string) {
			res := st.Parse(chars(""))
			if res.Kind == deriv.Parsed {
				return res.Kind.String(), format(res.Value)
			}
			return res.Kind.String(), ""
		},
		reset: func() { st = eng.NewState() },
	}
}

func balancedParensDemo() *runtime {
	var p *deriv.Syntax[int]
	p = deriv.Recursive(func() *deriv.Syntax[int] {
		nested := deriv.Map(
			deriv.Then(deriv.Then(deriv.Elem('('), p), deriv.Elem(')')),
			func(pr deriv.Pair[deriv.Pair[deriv.Token, int], deriv.Token]) int { return pr.First.Second + 1 },
		)
		return deriv.Or(nested, deriv.Epsilon(0))
	})
	return makeRuntime("parens", "P = '(' P ')' | ε, value = nesting depth", p,
		func(depth int) string { return fmt.Sprintf("depth %d", depth) })
}

func arithmeticSumDemo() *runtime {
	digit := deriv.Or(
		deriv.Or(deriv.Map(deriv.Elem('0'), digitValue), deriv.Map(deriv.Elem('1'), digitValue)),
		deriv.Or(deriv.Map(deriv.Elem('2'), digitValue), deriv.Map(deriv.Elem('3'), digitValue)),
	)
	plusDigit := deriv.Map(deriv.Then(deriv.Elem('+'), digit), func(p deriv.Pair[deriv.Token, int]) int { return p.Second })
	sum := deriv.Map(deriv.Then(digit, deriv.Many(plusDigit)), func(p deriv.Pair[int, []int]) int {
		total := p.First
		for _, v := range p.Second {
			total += v
		}
		return total
	})
	return makeRuntime("sum", "digit ('+' digit)*, value = running total (digits 0-3 only)", sum,
		func(total int) string { return fmt.Sprintf("total %d", total) })
}

func digitValue(t deriv.Token) int {
	return int(t.(rune) - '0')
}

func disjunctionDemo() *runtime {
	ab := deriv.Or(deriv.Elem('a'), deriv.Elem('b'))
	return makeRuntime("ab", "'a' | 'b'", ab, func(t deriv.Token) string { return string(t.(rune)) })
}

func demos() map[string]func() *runtime {
	return map[string]func() *runtime{
		"parens": balancedParensDemo,
		"sum":    arithmeticSumDemo,
		"ab":     disjunctionDemo,
	}
}

func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
	pterm.Success.Prefix = pterm.Prefix{
		Text:  "  OK",
		Style: pterm.NewStyle(pterm.BgGreen, pterm.FgBlack),
	}
}

// session holds the REPL's mutable state: which demo is active and its
// live driver state.
type session struct {
	active *runtime
	table  map[string]func() *runtime
}

func newSession(start string) *session {
	s := &session{table: demos()}
	if !s.switchTo(start) {
		pterm.Error.Printfln("unknown demo %q, falling back to \"parens\"", start)
		s.switchTo("parens")
	}
	return s
}

func (s *session) switchTo(name string) bool {
	factory, ok := s.table[name]
	if !ok {
		return false
	}
	s.active = factory()
	pterm.Info.Printfln("switched to demo %q — %s", s.active.name, s.active.about)
	return true
}

func (s *session) handleLine(line string) (quit bool) {
	switch {
	case line == ":quit" || line == ":q":
		return true
	case line == ":grammar" || line == ":g":
		pterm.Println(s.active.grammar)
	case line == ":reset" || line == ":r":
		s.active.reset()
		pterm.Success.Println("state reset")
	case line == ":demos":
		names := make([]string, 0, len(s.table))
		for n := range s.table {
			names = append(names, n)
		}
		pterm.Println(strings.Join(names, ", "))
	case strings.HasPrefix(line, ":demo "):
		name := strings.TrimSpace(strings.TrimPrefix(line, ":demo "))
		if !s.switchTo(name) {
			pterm.Error.Printfln("no such demo %q", name)
		}
	default:
		s.feedLine(line)
	}
	return false
}

func (s *session) feedLine(line string) {
	for _, r := range line {
		if !s.active.feed(r) {
			pterm.Error.Printfln("UnexpectedToken(%q) — no continuation accepts it here", r)
			return
		}
	}
	kind, value := s.active.finish()
	if value != "" {
		pterm.Success.Printfln("%s: %s", kind, value)
	} else {
		pterm.Info.Printfln("%s (residual state kept — feed more tokens or :reset)", kind)
	}
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	start := flag.String("demo", "parens", "Initial demo: parens, sum, ab")
	flag.Parse()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))

	pterm.Info.Println("Welcome to derivrepl — feed characters, see how the derivative moves")
	pterm.Info.Println("Commands: :demos  :demo <name>  :grammar  :reset  :quit")

	sess := newSession(*start)

	repl, err := readline.New("deriv> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()

	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF or ctrl-D
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if sess.handleLine(line) {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}
