// Package regexc implements the Regex Compiler: it lexes a pattern into
// regex tokens and drives its own private LR(1) table (built over a
// fixed meta-grammar) to build a Thompson NFA via per-rule semantic
// handlers.
//
// The meta-grammar, its rule order, and the handler bodies below are
// grounded in the regex sub-language's fixed Thompson-construction
// design, since original_source/ptree/lexer/regex.py's handlers are
// all NotImplementedError stubs (see DESIGN.md). Driver shape grounded
// on internal/ictiobus/parse/lr.go's lrParser.Parse, specialized to pop
// a parallel NFA-fragment stack on reduce instead of building a
// parse.Tree.
package regexc

import (
	"fmt"

	"github.com/alumik/parse-tree/internal/automaton"
	"github.com/alumik/parse-tree/internal/grammar"
	"github.com/alumik/parse-tree/internal/parse"
	"github.com/alumik/parse-tree/internal/pterr"
)

// metaTerminals and metaNonterminals are the regex sub-language's
// symbol sets.
var metaTerminals = []string{"|", "(", ")", "*", "+", "[", "]", "-", "char", "^", "."}
var metaNonterminals = []string{"E", "T", "F", "P", "Px"}

// metaRules is the exact rule list and order the handler vtable below
// is indexed against.
var metaRules = []string{
	"E -> E | T",
	"E -> T",
	"T -> T F",
	"T -> F",
	"F -> ( E )",
	"F -> F *",
	"F -> F +",
	"F -> P",
	"P -> .",
	"P -> char",
	"P -> char - char",
	"Px -> Px P",
	"Px -> P",
	"F -> [ Px ]",
	"F -> [ ^ Px ]",
}

// Engine owns the regex meta-grammar's table and its fixed handler
// vtable, built once and reused for every Compile call.
type Engine struct {
	table    *parse.Table
	handlers []handlerFunc
	trace    func(string)
}

// WithTrace installs a listener invoked with one line per
// shift/goto/reduce/accept step of the regex meta-grammar's driver,
// mirroring parse.Parser's trace hook.
func (e *Engine) WithTrace(fn func(string)) *Engine {
	e.trace = fn
	return e
}

func (e *Engine) notify(format string, args ...any) {
	if e.trace != nil {
		e.trace(fmt.Sprintf(format, args...))
	}
}

// NewEngine builds the regex meta-grammar and its canonical LR(1)
// table.
func NewEngine() (*Engine, error) {
	g := grammar.New()
	for _, term := range metaTerminals {
		g.AddTerm(term)
	}
	for _, nt := range metaNonterminals {
		g.AddNonterm(nt)
	}
	for _, rs := range metaRules {
		if err := g.AddRuleString(rs); err != nil {
			return nil, err
		}
	}
	if err := g.Init("E"); err != nil {
		return nil, err
	}

	tbl, err := parse.Build(g)
	if err != nil {
		return nil, err
	}

	return &Engine{table: tbl, handlers: handlerVtable()}, nil
}

// Compile lexes pattern and drives the meta-grammar's LR table to build
// a Thompson NFA, then tags every accepting state with name so unioned
// NFAs later carry per-terminal identity.
func (e *Engine) Compile(pattern, name string) (*automaton.NFA, error) {
	tokens, err := Tokens(pattern)
	if err != nil {
		return nil, err
	}

	nfa := automaton.New()
	result, err := e.drive(nfa, tokens, pattern)
	if err != nil {
		return nil, err
	}

	nfa.Start = result.start
	for _, end := range result.ends {
		nfa.AddAccept(end, name)
	}
	return nfa, nil
}

// frag is an NFA fragment: a start state id and the set of its "end"
// states, i.e. the (start, end) handle a Thompson-construction step
// passes up to its caller.
type frag struct {
	start int
	ends  []int
}

// semItem is one entry on the semantic stack the driver maintains
// alongside the state stack: either a terminal leaf (value set) or a
// reduced nonterminal fragment (frag set).
type semItem struct {
	value string
	frag  frag
}

func (e *Engine) drive(nfa *automaton.NFA, tokens []Token, pattern string) (frag, error) {
	stateStack := []int{0}
	var semStack []semItem

	get := func(i int) parse.Token {
		if i < len(tokens) {
			return tokens[i]
		}
		return endToken{}
	}

	i := 0
	for {
		tok := get(i)
		top := stateStack[len(stateStack)-1]

		act, ok := e.table.Action(top, tok.TermName())
		if !ok {
			return frag{}, &pterr.InvalidRegexError{Pattern: pattern, Reason: "no transition for token " + tok.TermName()}
		}

		switch act.Kind {
		case parse.Shift:
			e.notify("shift %s %q -> state %d", tok.TermName(), tok.Text(), act.Target)
			semStack = append(semStack, semItem{value: tok.Text()})
			stateStack = append(stateStack, act.Target)
			i++

		case parse.Reduce:
			k := len(act.Rule.Right)
			if act.Rule.IsEpsilon() {
				k = 0
			}
			children := append([]semItem(nil), semStack[len(semStack)-k:]...)
			semStack = semStack[:len(semStack)-k]
			stateStack = stateStack[:len(stateStack)-k]

			handler := e.handlers[act.Rule.ID]
			if handler == nil {
				return frag{}, &pterr.InvalidRegexError{Pattern: pattern, Reason: "no semantic handler bound to rule " + act.Rule.String()}
			}
			result := handler(nfa, children)
			semStack = append(semStack, semItem{frag: result})

			gotoState, ok := e.table.Goto(stateStack[len(stateStack)-1], act.Rule.Left.Name)
			if !ok {
				return frag{}, &pterr.InvalidRegexError{Pattern: pattern, Reason: "no goto for " + act.Rule.Left.Name}
			}
			e.notify("reduce by %s -> state %d", act.Rule.String(), gotoState)
			stateStack = append(stateStack, gotoState)

		case parse.Accept:
			e.notify("accept")
			return semStack[len(semStack)-1].frag, nil
		}
	}
}

type endToken struct{}

func (endToken) TermName() string { return "$" }
func (endToken) Text() string     { return "" }
