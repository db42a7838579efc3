package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildAlternationStarABB builds a 14-state NFA for (a|b)*abb (two of
// its states, s2 and s4, are unused) and determinizes it.
func buildAlternationStarABB(t *testing.T) *DFA {
	t.Helper()
	n := New()
	n.States[0].Accept = nil

	// (a|b) fragment: states 1..4
	aStart, aEnd := n.AddState(), n.AddState()
	n.AddTransition(aStart, 'a', aEnd)
	bStart, bEnd := n.AddState(), n.AddState()
	n.AddTransition(bStart, 'b', bEnd)

	altStart, altEnd := n.AddState(), n.AddState()
	n.AddTransition(altStart, Epsilon, aStart)
	n.AddTransition(altStart, Epsilon, bStart)
	n.AddTransition(aEnd, Epsilon, altEnd)
	n.AddTransition(bEnd, Epsilon, altEnd)

	// Kleene star over the alternation
	starStart, starEnd := n.AddState(), n.AddState()
	n.AddTransition(starStart, Epsilon, altStart)
	n.AddTransition(starStart, Epsilon, starEnd)
	n.AddTransition(altEnd, Epsilon, altStart)
	n.AddTransition(altEnd, Epsilon, starEnd)

	// concatenate with literal "abb"
	s1, s2 := n.AddState(), n.AddState()
	n.AddTransition(starEnd, 'a', s1)
	s3, s4 := n.AddState(), n.AddState()
	n.AddTransition(s1, 'b', s3)
	s5 := n.AddState()
	n.AddTransition(s3, 'b', s5)
	n.AddAccept(s5, "name")
	_ = s2
	_ = s4

	n.AddTransition(n.Start, Epsilon, starStart)

	return n.ToDFA(map[string]int{"name": 0})
}

func Test_DFA_Match_LongestMatch(t *testing.T) {
	d := buildAlternationStarABB(t)

	testCases := []struct {
		text      string
		wantName  string
		wantLen   int
		wantFound bool
	}{
		{"abb", "name", 3, true},
		{"abbabb", "name", 6, true},
		{"abbbababbabb", "name", 12, true},
		{"aabbefg", "name", 4, true},
		{"abab", "", 0, false},
		{"abdsffgabb", "", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			assert := assert.New(t)
			name, length, ok := d.Match([]rune(tc.text))
			assert.Equal(tc.wantFound, ok)
			if tc.wantFound {
				assert.Equal(tc.wantName, name)
				assert.Equal(tc.wantLen, length)
			}
		})
	}
}

func Test_Union_MergesAcceptLists(t *testing.T) {
	assert := assert.New(t)

	a := New()
	a.States[0].Accept = nil
	aMid := a.AddState()
	a.AddTransition(a.Start, 'a', aMid)
	a.AddAccept(aMid, "A")

	b := New()
	b.States[0].Accept = nil
	bMid := b.AddState()
	b.AddTransition(b.Start, 'b', bMid)
	b.AddAccept(bMid, "B")

	u := Union(a, b)
	d := u.ToDFA(map[string]int{"A": 0, "B": 1})

	name, length, ok := d.Match([]rune("a"))
	assert.True(ok)
	assert.Equal("A", name)
	assert.Equal(1, length)

	name, length, ok = d.Match([]rune("b"))
	assert.True(ok)
	assert.Equal("B", name)
	assert.Equal(1, length)
}

func Test_Charset_ExcludesCRLF(t *testing.T) {
	assert := assert.New(t)
	cs := Charset()
	for _, c := range cs {
		assert.NotEqual('\r', c)
		assert.NotEqual('\n', c)
	}
	assert.Equal(125, len(cs))
}
