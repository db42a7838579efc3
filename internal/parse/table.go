// Package parse implements the canonical LR(1) Table Builder and the
// two-stack LR Driver that executes it.
//
// Table construction is grounded on internal/ictiobus/automaton.go's
// NewLR1ViablePrefixDFA and internal/ictiobus/parse/clr1.go's
// constructCanonicalLR1ParseTable (closure/goto/conflict-scan idiom,
// rosed-based String()), and on
// original_source/ptree/parser/grammar.py's ParseState.closure and
// ParseTable.__init__ for the exact closure/goto/construction algorithm.
package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/emirpasic/gods/queues/linkedlistqueue"

	"github.com/alumik/parse-tree/internal/grammar"
	"github.com/alumik/parse-tree/internal/pterr"
	"github.com/alumik/parse-tree/internal/symbol"
)

// Item is an LR(1) item: a rule, a dot position, and a single terminal
// lookahead.
type Item struct {
	Rule      *grammar.Rule
	Dot       int
	Lookahead *symbol.Symbol
}

// Reducible reports whether the item's dot has reached the end of the
// rule, or the rule is the epsilon production.
func (it Item) Reducible() bool {
	return it.Dot >= len(it.Rule.Right) || it.Rule.IsEpsilon()
}

// NextSymbol returns the symbol immediately after the dot, or nil if the
// item is reducible.
func (it Item) NextSymbol() *symbol.Symbol {
	if it.Reducible() {
		return nil
	}
	return it.Rule.Right[it.Dot]
}

func (it Item) key() string {
	return fmt.Sprintf("%d|%d|%s", it.Rule.ID, it.Dot, it.Lookahead.Name)
}

func (it Item) String() string {
	parts := make([]string, len(it.Rule.Right))
	for i, s := range it.Rule.Right {
		parts[i] = s.Name
	}
	var sb strings.Builder
	sb.WriteString(it.Rule.Left.Name)
	sb.WriteString(" -> ")
	for i := 0; i <= len(parts); i++ {
		if i == it.Dot {
			sb.WriteString(". ")
		}
		if i < len(parts) {
			sb.WriteString(parts[i])
			sb.WriteString(" ")
		}
	}
	sb.WriteString(", ")
	sb.WriteString(it.Lookahead.Name)
	return sb.String()
}

// itemSet is a closed set of items, with a stable key for interning.
type itemSet struct {
	items []Item
	byKey map[string]bool
}

func newItemSet() *itemSet {
	return &itemSet{byKey: map[string]bool{}}
}

func (s *itemSet) add(it Item) bool {
	k := it.key()
	if s.byKey[k] {
		return false
	}
	s.byKey[k] = true
	s.items = append(s.items, it)
	return true
}

func (s *itemSet) key() string {
	keys := make([]string, 0, len(s.items))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ";")
}

// closure computes the LR(1) closure of a seed item set (purple dragon
// book's CLOSURE): for each item [A -> α·Bβ, a] with B a nonterminal, for
// each rule B -> γ, for each terminal b in Head(β ++ [a]), add
// [B -> ·γ, b]. Fixed point.
func closure(g *grammar.Grammar, seed []Item) *itemSet {
	set := newItemSet()
	q := linkedlistqueue.New()
	for _, it := range seed {
		if set.add(it) {
			q.Enqueue(it)
		}
	}

	for !q.Empty() {
		v, _ := q.Dequeue()
		it := v.(Item)
		if it.Reducible() {
			continue
		}
		b := it.NextSymbol()
		if b.Kind != symbol.Nonterminal {
			continue
		}

		beta := it.Rule.Right[it.Dot+1:]
		seq := make([]*symbol.Symbol, 0, len(beta)+1)
		seq = append(seq, beta...)
		seq = append(seq, it.Lookahead)
		heads := grammar.Head(seq)

		for _, ruleID := range b.Rules {
			rule := g.Rules[ruleID]
			for name := range heads {
				lookahead, err := g.Pool.GetTerminal(name)
				if err != nil {
					continue
				}
				newItem := Item{Rule: rule, Dot: 0, Lookahead: lookahead}
				if set.add(newItem) {
					q.Enqueue(newItem)
				}
			}
		}
	}

	return set
}

// gotoSet computes GOTO(I, X): advance every item in I whose next symbol
// is X, then close the result.
func gotoSet(g *grammar.Grammar, set *itemSet, x *symbol.Symbol) *itemSet {
	var advanced []Item
	for _, it := range set.items {
		if it.Reducible() {
			continue
		}
		if it.NextSymbol().Equal(x) {
			advanced = append(advanced, Item{Rule: it.Rule, Dot: it.Dot + 1, Lookahead: it.Lookahead})
		}
	}
	if len(advanced) == 0 {
		return nil
	}
	return closure(g, advanced)
}

// ActionKind enumerates the ACTION-table transition kinds.
type ActionKind int

const (
	Shift ActionKind = iota
	Reduce
	Accept
)

// Action is one ACTION-table cell.
type Action struct {
	Kind   ActionKind
	Target int           // state id, for Shift
	Rule   *grammar.Rule // production, for Reduce/Accept
}

// Table is the canonical LR(1) ACTION/GOTO table.
type Table struct {
	G      *grammar.Grammar
	States [][]Item

	action map[int]map[string]Action
	goTo   map[int]map[string]int
}

// Build constructs the canonical LR(1) table for g. g.Init must already
// have run.
func Build(g *grammar.Grammar) (*Table, error) {
	dollar, err := g.Pool.GetTerminal(symbol.EndSymbolName)
	if err != nil {
		return nil, err
	}

	startItem := Item{Rule: g.Rules[0], Dot: 0, Lookahead: dollar}
	startSet := closure(g, []Item{startItem})

	t := &Table{
		G:      g,
		action: map[int]map[string]Action{},
		goTo:   map[int]map[string]int{},
	}

	keyToID := map[string]int{startSet.key(): 0}
	t.States = [][]Item{startSet.items}

	q := linkedlistqueue.New()
	q.Enqueue(0)

	for !q.Empty() {
		v, _ := q.Dequeue()
		id := v.(int)
		set := &itemSet{byKey: map[string]bool{}}
		for _, it := range t.States[id] {
			set.items = append(set.items, it)
			set.byKey[it.key()] = true
		}

		t.action[id] = map[string]Action{}
		t.goTo[id] = map[string]int{}

		nextSymbols := map[string]*symbol.Symbol{}

		for _, it := range set.items {
			if it.Reducible() {
				if it.Rule.Left.Name == symbol.StartSymbolName && it.Lookahead.Name == symbol.EndSymbolName {
					if err := t.setAction(id, symbol.EndSymbolName, Action{Kind: Accept, Rule: it.Rule}); err != nil {
						return nil, err
					}
				} else {
					if err := t.setAction(id, it.Lookahead.Name, Action{Kind: Reduce, Rule: it.Rule}); err != nil {
						return nil, err
					}
				}
				continue
			}
			x := it.NextSymbol()
			nextSymbols[x.Name] = x
		}

		for name, x := range nextSymbols {
			target := gotoSet(g, set, x)
			if target == nil {
				continue
			}
			tKey := target.key()
			targetID, ok := keyToID[tKey]
			if !ok {
				targetID = len(t.States)
				keyToID[tKey] = targetID
				t.States = append(t.States, target.items)
				q.Enqueue(targetID)
			}

			if x.Kind == symbol.Terminal {
				if err := t.setAction(id, name, Action{Kind: Shift, Target: targetID}); err != nil {
					return nil, err
				}
			} else {
				if existing, ok := t.goTo[id][name]; ok && existing != targetID {
					return nil, &pterr.GrammarConflictError{Kind: pterr.ConflictShiftShift, State: id, Symbol: name}
				}
				t.goTo[id][name] = targetID
			}
		}
	}

	return t, nil
}

// NewTableFromData constructs a Table shell around a pre-computed state
// list, for internal/ptcache to hydrate a serialized table without
// re-running closure/goto construction. Action/GOTO cells are populated
// afterward via SetActionRaw/SetGotoRaw.
func NewTableFromData(g *grammar.Grammar, states [][]Item) *Table {
	return &Table{
		G:      g,
		States: states,
		action: map[int]map[string]Action{},
		goTo:   map[int]map[string]int{},
	}
}

// SetActionRaw installs an ACTION-table cell without conflict checking,
// for internal/ptcache's hydration path (the table was already validated
// conflict-free when it was first built and cached).
func (t *Table) SetActionRaw(state int, symName string, a Action) {
	if t.action[state] == nil {
		t.action[state] = map[string]Action{}
	}
	t.action[state][symName] = a
}

// SetGotoRaw installs a GOTO-table cell without conflict checking, for
// internal/ptcache's hydration path.
func (t *Table) SetGotoRaw(state int, symName string, target int) {
	if t.goTo[state] == nil {
		t.goTo[state] = map[string]int{}
	}
	t.goTo[state][symName] = target
}

func (t *Table) setAction(state int, symName string, a Action) error {
	existing, ok := t.action[state][symName]
	if !ok {
		t.action[state][symName] = a
		return nil
	}
	if existing.Kind == a.Kind && existing.Target == a.Target && existing.Rule.Equal(a.Rule) {
		return nil
	}

	var kind pterr.ConflictKind
	switch {
	case existing.Kind == Shift && a.Kind == Shift:
		kind = pterr.ConflictShiftShift
	case existing.Kind == Reduce && a.Kind == Reduce:
		kind = pterr.ConflictReduceReduce
	default:
		kind = pterr.ConflictShiftReduce
	}
	return &pterr.GrammarConflictError{Kind: kind, State: state, Symbol: symName}
}

// Action looks up the ACTION-table cell for (state, terminal).
func (t *Table) Action(state int, terminal string) (Action, bool) {
	a, ok := t.action[state][terminal]
	return a, ok
}

// Goto looks up the GOTO-table cell for (state, nonterminal).
func (t *Table) Goto(state int, nonterminal string) (int, bool) {
	id, ok := t.goTo[state][nonterminal]
	return id, ok
}

// String renders the ACTION/GOTO table via rosed, matching the teacher's
// internal/ictiobus/parse/clr1.go canonicalLR1Table.String() idiom.
func (t *Table) String() string {
	terms := make([]string, 0)
	for _, s := range t.G.Pool.Terminals() {
		if s.Name == symbol.NullSymbolName {
			continue
		}
		terms = append(terms, s.Name)
	}
	sort.Strings(terms)

	nonterms := make([]string, 0)
	for _, s := range t.G.Pool.Nonterminals() {
		nonterms = append(nonterms, s.Name)
	}
	sort.Strings(nonterms)

	header := append([]string{"state"}, append(append([]string{}, terms...), nonterms...)...)
	data := [][]string{header}

	for id := range t.States {
		row := []string{fmt.Sprintf("%d", id)}
		for _, term := range terms {
			if a, ok := t.action[id][term]; ok {
				switch a.Kind {
				case Shift:
					row = append(row, fmt.Sprintf("s%d", a.Target))
				case Reduce:
					row = append(row, fmt.Sprintf("r%d", a.Rule.ID))
				case Accept:
					row = append(row, "acc")
				}
			} else {
				row = append(row, "")
			}
		}
		for _, nt := range nonterms {
			if gt, ok := t.goTo[id][nt]; ok {
				row = append(row, fmt.Sprintf("%d", gt))
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{TableHeaders: true, NoTrailingLineSeparators: true}).
		String()
}
