package parse

import (
	"fmt"
	"sort"

	"github.com/alumik/parse-tree/internal/pterr"
	"github.com/alumik/parse-tree/internal/symbol"
)

// Token is the minimal surface the LR Driver needs from a lexed token:
// its terminal name and its literal text. internal/lex.Token satisfies
// this interface structurally.
type Token interface {
	TermName() string
	Text() string
}

// simpleToken is a bare Token, used to synthesize the end-of-input
// marker.
type simpleToken struct {
	name, text string
}

func (t simpleToken) TermName() string { return t.name }
func (t simpleToken) Text() string     { return t.text }

var endToken Token = simpleToken{name: symbol.EndSymbolName}

// Tree is a parse-tree node: a leaf carries a lexed token verbatim, an
// internal node carries a nonterminal label with empty text.
type Tree struct {
	Terminal bool
	Symbol   string
	Value    string
	Children []*Tree
}

// Parser executes an LR(1) table against a bounded token list. Grounded
// on internal/ictiobus/parse/lr.go's lrParser.Parse for the stack
// shapes and trace-hook idiom.
type Parser struct {
	Table *Table
	trace func(string)
}

// WithTrace installs a listener invoked with one line per
// shift/goto/reduce/accept step, mirroring the teacher's optional trace
// hook.
func (p *Parser) WithTrace(fn func(string)) *Parser {
	p.trace = fn
	return p
}

func (p *Parser) notify(format string, args ...any) {
	if p.trace != nil {
		p.trace(fmt.Sprintf(format, args...))
	}
}

// Parse executes the two-stack LR driver loop over tokens.
//
// The reduce step folds the corresponding goto into the same stack
// operation rather than rewriting the token list and decrementing an
// index the way original_source/ptree/parser/parser.py does; the two
// are observationally identical as long as the accept transition stays
// distinct from a reduce on the augmented start rule. See DESIGN.md.
func (p *Parser) Parse(tokens []Token) (*Tree, error) {
	stateStack := []int{0}
	nodeStack := []*Tree{}

	get := func(i int) Token {
		if i < len(tokens) {
			return tokens[i]
		}
		return endToken
	}

	i := 0
	for {
		tok := get(i)
		top := stateStack[len(stateStack)-1]

		act, ok := p.Table.Action(top, tok.TermName())
		if !ok {
			var allowed []string
			for name := range p.Table.action[top] {
				allowed = append(allowed, name)
			}
			sort.Strings(allowed)
			return nil, &pterr.UnexpectedTokenError{
				Symbol:  tok.TermName(),
				Value:   tok.Text(),
				Pos:     i,
				Allowed: allowed,
			}
		}

		switch act.Kind {
		case Shift:
			p.notify("shift %s %q -> state %d", tok.TermName(), tok.Text(), act.Target)
			nodeStack = append(nodeStack, &Tree{Terminal: true, Symbol: tok.TermName(), Value: tok.Text()})
			stateStack = append(stateStack, act.Target)
			i++

		case Reduce:
			k := len(act.Rule.Right)
			if act.Rule.IsEpsilon() {
				k = 0
			}
			children := append([]*Tree(nil), nodeStack[len(nodeStack)-k:]...)
			nodeStack = nodeStack[:len(nodeStack)-k]
			stateStack = stateStack[:len(stateStack)-k]

			node := &Tree{Symbol: act.Rule.Left.Name, Children: children}
			nodeStack = append(nodeStack, node)

			gotoState, ok := p.Table.Goto(stateStack[len(stateStack)-1], act.Rule.Left.Name)
			if !ok {
				return nil, fmt.Errorf("no goto transition for %s from state %d", act.Rule.Left.Name, stateStack[len(stateStack)-1])
			}
			p.notify("reduce by %s -> state %d", act.Rule.String(), gotoState)
			stateStack = append(stateStack, gotoState)

		case Accept:
			p.notify("accept")
			return &Tree{Symbol: symbol.StartSymbolName, Children: nodeStack}, nil
		}
	}
}
