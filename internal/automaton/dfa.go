package automaton

// DFA is a deterministic finite automaton produced by NFA.ToDFA. Every
// state has at most one target per input rune.
type DFA struct {
	States []*State
	Start  int
}

func (d *DFA) addState(accept []string) int {
	id := len(d.States)
	d.States = append(d.States, &State{
		ID:          id,
		Transitions: make(map[rune][]int),
		Accept:      accept,
	})
	return id
}

func (d *DFA) next(state int, on rune) (int, bool) {
	targets := d.States[state].Transitions[on]
	if len(targets) == 0 {
		return 0, false
	}
	return targets[0], true
}

// Match walks the DFA from the start state over text, tracking the most
// recent accepting position. It returns the winning terminal name
// (accept_list[0] at that position, which is priority-minimum) and the
// matched length. ok is false if no prefix of text is accepted.
//
// Grounded on original_source/ptree/lexer/fsm.py's DFA.match.
func (d *DFA) Match(text []rune) (name string, length int, ok bool) {
	state := d.Start
	bestName := ""
	bestLen := 0
	found := false

	if len(d.States[state].Accept) > 0 {
		bestName = d.States[state].Accept[0]
		bestLen = 0
		found = true
	}

	for i, c := range text {
		next, moved := d.next(state, c)
		if !moved {
			break
		}
		state = next
		if len(d.States[state].Accept) > 0 {
			bestName = d.States[state].Accept[0]
			bestLen = i + 1
			found = true
		}
	}

	return bestName, bestLen, found
}

// DOT renders the DFA as a Graphviz DOT source string, same shape as
// NFA.DOT (supplemented feature, see automaton.go's NFA.DOT doc).
func (d *DFA) DOT() string {
	n := &NFA{States: d.States, Start: d.Start}
	return n.DOT()
}
