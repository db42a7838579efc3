// Package symbol implements the Symbol Pool: interned terminal and
// nonterminal identities shared by a Grammar and everything built on top
// of it (closures, automata, parse trees).
//
// Grounded on original_source/ptree/symbol/symbol.py and
// original_source/ptree/symbol/pool.py.
package symbol

import (
	"github.com/alumik/parse-tree/internal/pterr"
	"github.com/alumik/parse-tree/internal/util"
)

// Kind discriminates a Symbol as a terminal or a nonterminal.
type Kind int

const (
	Terminal Kind = iota
	Nonterminal
)

func (k Kind) String() string {
	if k == Terminal {
		return "terminal"
	}
	return "nonterminal"
}

// Reserved names. The pool creates these unconditionally and rejects any
// user-supplied name that collides with one of them.
const (
	StartSymbolName = "_S"
	NullSymbolName  = "null"
	EndSymbolName   = "$"
)

// Symbol is an interned identity with a name and a kind. Equality is by
// (name, kind); two Symbols obtained from the same Pool for the same name
// are always the same pointer, so pointer equality suffices in practice,
// but Equal is provided for callers holding copies.
type Symbol struct {
	Name string
	Kind Kind

	// First is this symbol's FIRST set, keyed by terminal name. For a
	// terminal it is always exactly {self}. For a nonterminal it is
	// populated by grammar.Grammar's fixed-point computation and may
	// come to include NullSymbolName if the nonterminal is nullable.
	First util.StringSet

	// Nullable is set only for nonterminals.
	Nullable bool

	// Rules lists, in registration order, every production rule whose
	// left-hand side is this symbol. Only meaningful for nonterminals;
	// populated by grammar.Grammar as rules are registered.
	Rules []int
}

func (s *Symbol) Equal(other *Symbol) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Name == other.Name && s.Kind == other.Kind
}

func (s *Symbol) String() string {
	return s.Name
}

// Pool interns terminals and nonterminals by name.
type Pool struct {
	terminals    map[string]*Symbol
	nonterminals map[string]*Symbol
}

// NewPool builds a Pool from disjoint sets of terminal and nonterminal
// names, rejecting any name equal to a reserved name, and unconditionally
// adding the three reserved symbols (null, $ as terminals; _S as a
// nonterminal).
func NewPool(terminalNames, nonterminalNames []string) (*Pool, error) {
	p := &Pool{
		terminals:    make(map[string]*Symbol),
		nonterminals: make(map[string]*Symbol),
	}

	for _, name := range terminalNames {
		if isReserved(name) {
			return nil, &pterr.NameConflictError{Name: name}
		}
		p.terminals[name] = newTerminal(name)
	}
	for _, name := range nonterminalNames {
		if isReserved(name) {
			return nil, &pterr.NameConflictError{Name: name}
		}
		p.nonterminals[name] = &Symbol{Name: name, Kind: Nonterminal, First: util.NewStringSet()}
	}

	p.terminals[NullSymbolName] = newTerminal(NullSymbolName)
	p.terminals[EndSymbolName] = newTerminal(EndSymbolName)
	p.nonterminals[StartSymbolName] = &Symbol{Name: StartSymbolName, Kind: Nonterminal, First: util.NewStringSet()}

	return p, nil
}

func newTerminal(name string) *Symbol {
	return &Symbol{Name: name, Kind: Terminal, First: util.StringSet{name: true}}
}

func isReserved(name string) bool {
	return name == StartSymbolName || name == NullSymbolName || name == EndSymbolName
}

// GetTerminal looks up a terminal by name.
func (p *Pool) GetTerminal(name string) (*Symbol, error) {
	if s, ok := p.terminals[name]; ok {
		return s, nil
	}
	return nil, &pterr.UnknownSymbolError{Name: name}
}

// GetNonterminal looks up a nonterminal by name.
func (p *Pool) GetNonterminal(name string) (*Symbol, error) {
	if s, ok := p.nonterminals[name]; ok {
		return s, nil
	}
	return nil, &pterr.UnknownSymbolError{Name: name}
}

// GetSymbol looks up a symbol by name, preferring a terminal on
// collision (structurally impossible given disjoint input sets, but the
// preference order is defined for safety).
func (p *Pool) GetSymbol(name string) (*Symbol, error) {
	if s, ok := p.terminals[name]; ok {
		return s, nil
	}
	if s, ok := p.nonterminals[name]; ok {
		return s, nil
	}
	return nil, &pterr.UnknownSymbolError{Name: name}
}

// Terminals returns every interned terminal, including the reserved
// null and $ symbols.
func (p *Pool) Terminals() []*Symbol {
	out := make([]*Symbol, 0, len(p.terminals))
	for _, s := range p.terminals {
		out = append(out, s)
	}
	return out
}

// Nonterminals returns every interned nonterminal, including the
// reserved _S symbol.
func (p *Pool) Nonterminals() []*Symbol {
	out := make([]*Symbol, 0, len(p.nonterminals))
	for _, s := range p.nonterminals {
		out = append(out, s)
	}
	return out
}
