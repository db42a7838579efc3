package regexc

import (
	"github.com/alumik/parse-tree/internal/automaton"
)

// handlerFunc builds a new fragment from a reduced rule's
// right-hand-side semantic stack items, in left-to-right order.
type handlerFunc func(nfa *automaton.NFA, rhs []semItem) frag

// handlerVtable returns the fixed, rule-id-indexed dispatch table for
// the 15 regex meta-grammar productions, avoiding per-rule late-bound
// lookups by name. Index 0 (the augmented _S -> E rule) is never
// reduced through directly — it only ever triggers Accept — so it is
// left nil.
func handlerVtable() []handlerFunc {
	return []handlerFunc{
		nil,                  // 0: _S -> E (augmented; never reduced)
		handleAlternation,    // 1: E -> E | T
		handleIdentity1,      // 2: E -> T
		handleConcat,         // 3: T -> T F
		handleIdentity1,      // 4: T -> F
		handleGroup,          // 5: F -> ( E )
		handleStar,           // 6: F -> F *
		handlePlus,           // 7: F -> F +
		handleIdentity1,      // 8: F -> P
		handleAnyChar,        // 9: P -> .
		handleChar,           // 10: P -> char
		handleCharRange,      // 11: P -> char - char
		handleAlternation1,   // 12: Px -> Px P (same shape as |)
		handleIdentity1,      // 13: Px -> P
		handleBracket,        // 14: F -> [ Px ]
		handleNegatedBracket, // 15: F -> [ ^ Px ]
	}
}

// handleIdentity1 passes through the first right-hand-side child's
// fragment unchanged (E -> T, T -> F, F -> P, Px -> P).
func handleIdentity1(nfa *automaton.NFA, rhs []semItem) frag {
	return rhs[0].frag
}

// handleAlternation implements E -> E | T: fresh start with ε-edges to
// each child start; fresh end with ε-edges from each child end.
func handleAlternation(nfa *automaton.NFA, rhs []semItem) frag {
	return union(nfa, rhs[0].frag, rhs[2].frag)
}

// handleAlternation1 implements Px -> Px P: union of left and right via
// fresh start/end, the same shape as handleAlternation.
func handleAlternation1(nfa *automaton.NFA, rhs []semItem) frag {
	return union(nfa, rhs[0].frag, rhs[1].frag)
}

func union(nfa *automaton.NFA, a, b frag) frag {
	start := nfa.AddState()
	end := nfa.AddState()
	nfa.AddTransition(start, automaton.Epsilon, a.start)
	nfa.AddTransition(start, automaton.Epsilon, b.start)
	for _, e := range a.ends {
		nfa.AddTransition(e, automaton.Epsilon, end)
	}
	for _, e := range b.ends {
		nfa.AddTransition(e, automaton.Epsilon, end)
	}
	return frag{start: start, ends: []int{end}}
}

// handleConcat implements T -> T F: ε-edge from each left-end to
// right-start; end-set = right end-set.
func handleConcat(nfa *automaton.NFA, rhs []semItem) frag {
	left, right := rhs[0].frag, rhs[1].frag
	for _, e := range left.ends {
		nfa.AddTransition(e, automaton.Epsilon, right.start)
	}
	return frag{start: left.start, ends: right.ends}
}

// handleGroup implements F -> ( E ): the child E fragment, unchanged.
func handleGroup(nfa *automaton.NFA, rhs []semItem) frag {
	return rhs[1].frag
}

// handleStar implements F -> F *: fresh start with ε to child-start and
// ε to fresh end; each child-end gets ε back to child-start and ε to
// end.
func handleStar(nfa *automaton.NFA, rhs []semItem) frag {
	child := rhs[0].frag
	start := nfa.AddState()
	end := nfa.AddState()
	nfa.AddTransition(start, automaton.Epsilon, child.start)
	nfa.AddTransition(start, automaton.Epsilon, end)
	for _, e := range child.ends {
		nfa.AddTransition(e, automaton.Epsilon, child.start)
		nfa.AddTransition(e, automaton.Epsilon, end)
	}
	return frag{start: start, ends: []int{end}}
}

// handlePlus implements F -> F +: identical to * but without the
// start->end ε (one or more).
func handlePlus(nfa *automaton.NFA, rhs []semItem) frag {
	child := rhs[0].frag
	start := nfa.AddState()
	end := nfa.AddState()
	nfa.AddTransition(start, automaton.Epsilon, child.start)
	for _, e := range child.ends {
		nfa.AddTransition(e, automaton.Epsilon, child.start)
		nfa.AddTransition(e, automaton.Epsilon, end)
	}
	return frag{start: start, ends: []int{end}}
}

// handleAnyChar implements P -> .: fresh start with c-edges to a shared
// target for every c in the Charset.
func handleAnyChar(nfa *automaton.NFA, rhs []semItem) frag {
	start := nfa.AddState()
	target := nfa.AddState()
	for _, c := range automaton.Charset() {
		nfa.AddTransition(start, c, target)
	}
	return frag{start: start, ends: []int{target}}
}

// handleChar implements P -> char: fresh start with a single c-edge
// where c is the child token's value.
func handleChar(nfa *automaton.NFA, rhs []semItem) frag {
	start := nfa.AddState()
	target := nfa.AddState()
	c := []rune(rhs[0].value)[0]
	nfa.AddTransition(start, c, target)
	return frag{start: start, ends: []int{target}}
}

// handleCharRange implements P -> char - char: fresh start with edges
// for every code point in the inclusive range [ord(a), ord(b)].
func handleCharRange(nfa *automaton.NFA, rhs []semItem) frag {
	start := nfa.AddState()
	target := nfa.AddState()
	a := []rune(rhs[0].value)[0]
	b := []rune(rhs[2].value)[0]
	for c := a; c <= b; c++ {
		nfa.AddTransition(start, c, target)
	}
	return frag{start: start, ends: []int{target}}
}

// handleBracket implements F -> [ Px ]: the child Px fragment,
// unchanged.
func handleBracket(nfa *automaton.NFA, rhs []semItem) frag {
	return rhs[1].frag
}

// handleNegatedBracket implements F -> [ ^ Px ]: fresh start with
// transitions for every charset member not present on Px's start to the
// same inner target.
//
// "Present on Px's start" is read literally against Px's start state's
// own direct transitions. For a Px built purely from P -> char /
// P -> char-char / P -> . fragments this matches the intended
// negated-class semantics; for a Px built via the Px -> Px P union rule
// (whose start only carries ε-edges to its members) this literal
// reading treats every charset member as absent, which original_source
// leaves unimplemented entirely (see DESIGN.md).
func handleNegatedBracket(nfa *automaton.NFA, rhs []semItem) frag {
	px := rhs[2].frag
	start := nfa.AddState()
	target := nfa.AddState()

	present := map[rune]bool{}
	for on := range nfa.States[px.start].Transitions {
		if on != automaton.Epsilon {
			present[on] = true
		}
	}

	for _, c := range automaton.Charset() {
		if !present[c] {
			nfa.AddTransition(start, c, target)
		}
	}

	return frag{start: start, ends: []int{target}}
}
