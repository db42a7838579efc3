// Package automaton implements the generic Finite Automaton component:
// an NFA with ε-moves, subset construction to a DFA, and longest-match
// scanning with priority-ordered accept lists.
//
// Grounded on internal/ictiobus/automaton/automaton.go (state/transition
// shape, ToDFA subset construction, EpsilonClosure/MOVE worklist idiom)
// and internal/ictiobus/automaton/nfa.go (Join/NumberStates/
// AcceptingStates, the union-by-renumbering idiom) for Go generics and
// API shape; longest-match and accept-list priority semantics grounded
// on original_source/ptree/lexer/fsm.py's FSMState/NFA/DFA.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// Epsilon is the sentinel input symbol for ε-transitions, disjoint from
// the usable alphabet ("\0" falls outside the 7-bit charset below).
const Epsilon rune = 0

// Charset returns the automaton's usable alphabet: ASCII code points
// 1..127 excluding \r and \n.
//
// Preserves original_source/ptree/lexer/fsm.py and regex.py's literal
// exclusion of \r/\n from `.`/`[^...]` expansions — treated as
// intentional rather than a bug, and kept that way here; see DESIGN.md.
func Charset() []rune {
	out := make([]rune, 0, 125)
	for c := rune(1); c <= 127; c++ {
		if c == '\r' || c == '\n' {
			continue
		}
		out = append(out, c)
	}
	return out
}

// State is a single automaton node. NFAs may populate multiple targets
// per input rune; DFAs populate at most one.
type State struct {
	ID          int
	Transitions map[rune][]int
	Accept      []string // names of terminals this state accepts, priority-ordered
}

func newState(id int) *State {
	return &State{ID: id, Transitions: make(map[rune][]int)}
}

func (s *State) addTransition(on rune, to int) {
	s.Transitions[on] = append(s.Transitions[on], to)
}

// NFA is a nondeterministic finite automaton with ε-moves.
type NFA struct {
	States []*State
	Start  int
}

// New returns an NFA with a single, non-accepting start state.
func New() *NFA {
	return &NFA{States: []*State{newState(0)}, Start: 0}
}

// AddState appends a fresh, non-accepting state and returns its id.
func (n *NFA) AddState() int {
	id := len(n.States)
	n.States = append(n.States, newState(id))
	return id
}

// AddTransition adds an edge from -> on -> to. on == Epsilon for an
// ε-move.
func (n *NFA) AddTransition(from int, on rune, to int) {
	n.States[from].addTransition(on, to)
}

// AddAccept appends name to state's accept list, if not already present.
func (n *NFA) AddAccept(state int, name string) {
	for _, existing := range n.States[state].Accept {
		if existing == name {
			return
		}
	}
	n.States[state].Accept = append(n.States[state].Accept, name)
}

// EpsilonClosure returns the set of states reachable from any member of
// start via ε-transitions alone (inclusive of start itself).
func (n *NFA) EpsilonClosure(start map[int]bool) map[int]bool {
	closure := make(map[int]bool, len(start))
	q := linkedlistqueue.New()
	for id := range start {
		closure[id] = true
		q.Enqueue(id)
	}
	for !q.Empty() {
		v, _ := q.Dequeue()
		id := v.(int)
		for _, next := range n.States[id].Transitions[Epsilon] {
			if !closure[next] {
				closure[next] = true
				q.Enqueue(next)
			}
		}
	}
	return closure
}

// Move returns the set of states reachable from any member of set via a
// single on-transition (on must not be Epsilon).
func (n *NFA) Move(set map[int]bool, on rune) map[int]bool {
	out := map[int]bool{}
	for id := range set {
		for _, next := range n.States[id].Transitions[on] {
			out[next] = true
		}
	}
	return out
}

// inputSymbols returns every non-ε rune appearing on any transition.
func (n *NFA) inputSymbols() []rune {
	seen := map[rune]bool{}
	for _, s := range n.States {
		for on := range s.Transitions {
			if on != Epsilon {
				seen[on] = true
			}
		}
	}
	out := make([]rune, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// closureKey builds a stable map key for a state subset, for interning
// DFA states during subset construction.
func closureKey(set map[int]bool) string {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", id)
	}
	return sb.String()
}

// mergedAccept returns the sorted-by-priority union of accept names
// across every state in set. priority maps a terminal name to its
// declaration order (lower = higher priority).
func (n *NFA) mergedAccept(set map[int]bool, priority map[string]int) []string {
	seen := map[string]bool{}
	var names []string
	for id := range set {
		for _, name := range n.States[id].Accept {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Slice(names, func(i, j int) bool { return priority[names[i]] < priority[names[j]] })
	return names
}

// ToDFA performs subset construction (purple dragon book Algorithm
// 3.20): build ε-closures iteratively, starting from the ε-closure of
// the NFA's start state, and for each closure and each input symbol
// compute the ε-closure of the move-set, interning new DFA states as
// they're discovered. Each DFA state's accept list is the
// priority-sorted union of the accept lists of its underlying NFA
// states.
func (n *NFA) ToDFA(priority map[string]int) *DFA {
	d := &DFA{}
	key2id := map[string]int{}

	startClosure := n.EpsilonClosure(map[int]bool{n.Start: true})
	startKey := closureKey(startClosure)
	startID := d.addState(n.mergedAccept(startClosure, priority))
	key2id[startKey] = startID
	d.Start = startID

	symbols := n.inputSymbols()

	q := linkedlistqueue.New()
	q.Enqueue(startClosure)
	seen := map[string]bool{startKey: true}

	for !q.Empty() {
		v, _ := q.Dequeue()
		closure := v.(map[int]bool)
		fromID := key2id[closureKey(closure)]

		for _, sym := range symbols {
			moved := n.Move(closure, sym)
			if len(moved) == 0 {
				continue
			}
			target := n.EpsilonClosure(moved)
			tKey := closureKey(target)

			targetID, ok := key2id[tKey]
			if !ok {
				targetID = d.addState(n.mergedAccept(target, priority))
				key2id[tKey] = targetID
			}
			d.States[fromID].Transitions[sym] = []int{targetID}

			if !seen[tKey] {
				seen[tKey] = true
				q.Enqueue(target)
			}
		}
	}

	return d
}

// Union creates a fresh start state with ε-edges to each input NFA's
// start, renumbering every input's states into a disjoint id space. The
// resulting automaton's accept lists are exactly the union of the
// inputs' (a state accepting in only one input keeps that name).
//
// Grounded on internal/ictiobus/automaton/nfa.go's Join, simplified from
// arbitrary pairwise joins (used there for regex composition operators
// too) to an n-ary union, which is the only composition the Lexer needs.
// The regex Thompson-construction handlers do not call it; they build
// their alternations directly inside one shared NFA.
func Union(parts ...*NFA) *NFA {
	out := New()
	out.States[0].Accept = nil

	for _, part := range parts {
		offset := len(out.States)
		for _, s := range part.States {
			ns := newState(s.ID + offset)
			ns.Accept = append([]string(nil), s.Accept...)
			for on, targets := range s.Transitions {
				for _, t := range targets {
					ns.Transitions[on] = append(ns.Transitions[on], t+offset)
				}
			}
			out.States = append(out.States, ns)
		}
		out.AddTransition(out.Start, Epsilon, part.Start+offset)
	}

	return out
}

// DOT renders the NFA as a Graphviz DOT source string — the minimal
// in-scope piece of rendering (building the graph source, not invoking
// a graphviz binary): original_source/ptree/utils.py's render() builds
// exactly this graph shape before handing it to the external graphviz
// binary, which this module does not invoke.
func (n *NFA) DOT() string {
	var sb strings.Builder
	sb.WriteString("digraph NFA {\n\trankdir=LR;\n")
	for _, s := range n.States {
		shape := "circle"
		if len(s.Accept) > 0 {
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "\t%d [shape=%s];\n", s.ID, shape)
	}
	fmt.Fprintf(&sb, "\tstart [shape=point];\n\tstart -> %d;\n", n.Start)
	for _, s := range n.States {
		for on, targets := range s.Transitions {
			label := string(on)
			if on == Epsilon {
				label = "ε"
			}
			for _, t := range targets {
				fmt.Fprintf(&sb, "\t%d -> %d [label=%q];\n", s.ID, t, label)
			}
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}
