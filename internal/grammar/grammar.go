// Package grammar implements the Grammar Analyzer: production-rule
// registration, augmentation, and nullable/FIRST computation.
//
// Grounded on original_source/ptree/parser/grammar.py (Grammar.init,
// _compute_nullable, _compute_first, ParseState._compute_head) for exact
// algorithmic semantics, and on internal/ictiobus/grammar/item.go plus its
// usage across internal/ictiobus/automaton and internal/ictiobus/parse
// (the teacher's own Grammar type was not present in the retrieval pack)
// for the Go-native AddTerm/AddRule/Rule surface.
package grammar

import (
	"fmt"
	"strings"

	"github.com/alumik/parse-tree/internal/symbol"
)

// Production is the right-hand side of a rule, as symbol names in
// left-to-right order. A production of exactly [null] is the epsilon
// rule.
type Production []string

// Rule is a single production, resolved against a Pool once Init has
// run. Rule equality is structural on (Left, Right).
type Rule struct {
	ID    int
	Left  *symbol.Symbol
	Right []*symbol.Symbol

	leftName  string
	rightName []string
}

// IsEpsilon reports whether this rule's right-hand side is the sole
// terminal null.
func (r *Rule) IsEpsilon() bool {
	return len(r.Right) == 1 && r.Right[0].Kind == symbol.Terminal && r.Right[0].Name == symbol.NullSymbolName
}

func (r *Rule) Equal(other *Rule) bool {
	if r == nil || other == nil {
		return r == other
	}
	if !r.Left.Equal(other.Left) || len(r.Right) != len(other.Right) {
		return false
	}
	for i := range r.Right {
		if !r.Right[i].Equal(other.Right[i]) {
			return false
		}
	}
	return true
}

func (r *Rule) String() string {
	parts := make([]string, len(r.Right))
	for i, s := range r.Right {
		parts[i] = s.Name
	}
	return fmt.Sprintf("%s -> %s", r.Left.Name, strings.Join(parts, " "))
}

// ParseRuleString splits a "LHS -> s1 s2 ... sk" rule string into its
// left-hand-side name and whitespace-separated right-hand-side names.
func ParseRuleString(s string) (left string, right []string, err error) {
	parts := strings.SplitN(s, "->", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("rule %q missing \"->\" separator", s)
	}
	left = strings.TrimSpace(parts[0])
	if left == "" {
		return "", nil, fmt.Errorf("rule %q has empty left-hand side", s)
	}
	right = strings.Fields(parts[1])
	if len(right) == 0 {
		return "", nil, fmt.Errorf("rule %q has empty right-hand side", s)
	}
	return left, right, nil
}

// Grammar owns a Pool and an ordered list of resolved production rules,
// plus the augmented start symbol.
type Grammar struct {
	Pool  *symbol.Pool
	Rules []*Rule
	Start *symbol.Symbol

	terminalNames    []string
	nonterminalNames []string
	pending          []*Rule
	startName        string
}

// New returns an empty, not-yet-initialized Grammar.
func New() *Grammar {
	return &Grammar{}
}

// AddTerm declares a terminal name. Order of calls is the declaration
// (priority) order used downstream by the Lexer.
func (g *Grammar) AddTerm(name string) {
	g.terminalNames = append(g.terminalNames, name)
}

// AddNonterm declares a nonterminal name.
func (g *Grammar) AddNonterm(name string) {
	g.nonterminalNames = append(g.nonterminalNames, name)
}

// AddRule registers one production for the given left-hand-side
// nonterminal. Rules are assigned ids in call order, after the implicit
// augmented start rule (id 0).
func (g *Grammar) AddRule(left string, right Production) {
	g.pending = append(g.pending, &Rule{leftName: left, rightName: []string(right)})
}

// AddRuleString parses and registers a single "LHS -> s1 s2 ... sk" rule
// string.
func (g *Grammar) AddRuleString(s string) error {
	left, right, err := ParseRuleString(s)
	if err != nil {
		return err
	}
	g.AddRule(left, right)
	return nil
}

// Init builds the Pool, prepends the augmented start rule "_S -> start"
// as rule 0, resolves every rule's symbols, and computes nullable/FIRST.
//
// Both the configuration path and the regex compiler's private
// meta-grammar path go through Init uniformly: both register their rules
// as "LHS -> ..." strings via AddRuleString, and augmentation with _S is
// applied unconditionally in both cases, since table construction always
// starts from the closure of {[_S -> ·start, $]} regardless of which
// grammar is being compiled.
func (g *Grammar) Init(startName string) error {
	g.startName = startName

	pool, err := symbol.NewPool(g.terminalNames, g.nonterminalNames)
	if err != nil {
		return err
	}
	g.Pool = pool

	if _, err := pool.GetNonterminal(startName); err != nil {
		return err
	}

	augmented := &Rule{leftName: symbol.StartSymbolName, rightName: []string{startName}}
	allRules := append([]*Rule{augmented}, g.pending...)

	g.Rules = make([]*Rule, len(allRules))
	for i, r := range allRules {
		r.ID = i
		left, err := pool.GetNonterminal(r.leftName)
		if err != nil {
			return err
		}
		r.Left = left
		r.Right = make([]*symbol.Symbol, len(r.rightName))
		for j, name := range r.rightName {
			sym, err := pool.GetSymbol(name)
			if err != nil {
				return err
			}
			r.Right[j] = sym
		}
		left.Rules = append(left.Rules, r.ID)
		g.Rules[i] = r
	}

	g.Start, _ = pool.GetNonterminal(symbol.StartSymbolName)

	g.computeNullable()
	g.computeFirst()

	return nil
}

// computeNullable is a least fixed point: a nonterminal is nullable if
// some rule's right-hand side is either the epsilon marker or consists
// entirely of already-nullable symbols. The null terminal seeds the set.
func (g *Grammar) computeNullable() {
	nullable := map[string]bool{symbol.NullSymbolName: true}

	changed := true
	for changed {
		changed = false
		for _, r := range g.Rules {
			if nullable[r.Left.Name] {
				continue
			}
			allNullable := true
			for _, s := range r.Right {
				if !nullable[s.Name] {
					allNullable = false
					break
				}
			}
			if allNullable {
				nullable[r.Left.Name] = true
				r.Left.Nullable = true
				changed = true
			}
		}
	}
}

// computeFirst is a least fixed point: for each rule L -> s1 s2 ... sk,
// add first(si) \ {null} to first(L) for the smallest i such that
// s1..s(i-1) are all nullable; if the entire right-hand side is
// nullable, add null to first(L) as well. Terminals' FIRST is the
// singleton of themselves, including null itself.
//
// This literally allows null into a nullable nonterminal's FIRST set,
// matching original_source/ptree/parser/grammar.py's _compute_first.
// Downstream lookahead computation (Head, below) strips it back out,
// so a symbol's raw FIRST set and its lookahead contribution differ by
// exactly that one marker.
func (g *Grammar) computeFirst() {
	changed := true
	for changed {
		changed = false
		for _, r := range g.Rules {
			allNullable := true
			for _, s := range r.Right {
				for name := range s.First {
					if name == symbol.NullSymbolName {
						continue
					}
					if !r.Left.First[name] {
						r.Left.First[name] = true
						changed = true
					}
				}
				if !s.First[symbol.NullSymbolName] {
					allNullable = false
					break
				}
			}
			if allNullable && !r.Left.First[symbol.NullSymbolName] {
				r.Left.First[symbol.NullSymbolName] = true
				changed = true
			}
		}
	}
}

// Head computes the FIRST-set of a symbol sequence for LR(1) lookahead
// purposes: unions in FIRST of each leading symbol until a non-nullable
// one is hit (inclusive), then discards null from the result. Callers
// building a closure lookahead pass seq = append(beta, lookaheadSymbol).
//
// Grounded on original_source/ptree/parser/grammar.py's
// ParseState._compute_head.
func Head(seq []*symbol.Symbol) map[string]bool {
	head := map[string]bool{}
	for _, s := range seq {
		if s.Kind == symbol.Nonterminal {
			for name := range s.First {
				head[name] = true
			}
			if !s.Nullable {
				break
			}
		} else {
			head[s.Name] = true
			if s.Name != symbol.NullSymbolName {
				break
			}
		}
	}
	delete(head, symbol.NullSymbolName)
	return head
}

// Validate checks Invariant 1: every nonterminal reachable from the
// augmented start has a non-empty rule list.
func (g *Grammar) Validate() error {
	if g.Start == nil {
		return fmt.Errorf("grammar not initialized")
	}
	seen := map[string]bool{}
	var walk func(s *symbol.Symbol) error
	walk = func(s *symbol.Symbol) error {
		if s.Kind != symbol.Nonterminal || seen[s.Name] {
			return nil
		}
		seen[s.Name] = true
		if s.Name != symbol.NullSymbolName && len(s.Rules) == 0 {
			return fmt.Errorf("nonterminal %q has no production rules", s.Name)
		}
		for _, id := range s.Rules {
			for _, sym := range g.Rules[id].Right {
				if err := walk(sym); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(g.Start)
}
