package ptcache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alumik/parse-tree/internal/grammar"
	"github.com/alumik/parse-tree/internal/parse"
)

func arithmeticGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g := grammar.New()
	for _, term := range []string{"+", "-", "*", "/", "(", ")", "num"} {
		g.AddTerm(term)
	}
	for _, nt := range []string{"E", "T", "F"} {
		g.AddNonterm(nt)
	}
	rules := []string{
		"E -> E + T", "E -> E - T", "E -> T",
		"T -> T * F", "T -> T / F", "T -> F",
		"F -> ( E )", "F -> num",
	}
	for _, r := range rules {
		if err := g.AddRuleString(r); err != nil {
			t.Fatalf("AddRuleString(%q): %v", r, err)
		}
	}
	if err := g.Init("E"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return g
}

func Test_Key_StableAcrossCalls(t *testing.T) {
	assert := assert.New(t)
	g1 := arithmeticGrammar(t)
	g2 := arithmeticGrammar(t)
	assert.Equal(Key(g1), Key(g2))
}

func Test_Store_SaveLoad_RoundTrips(t *testing.T) {
	assert := assert.New(t)

	g := arithmeticGrammar(t)
	tbl, err := parse.Build(g)
	if !assert.NoError(err) {
		return
	}

	store, err := NewStore(t.TempDir())
	if !assert.NoError(err) {
		return
	}

	if !assert.NoError(store.Save(g, tbl)) {
		return
	}

	loaded, ok := store.Load(g)
	if !assert.True(ok) {
		return
	}

	a, ok := tbl.Action(0, "num")
	b, ok2 := loaded.Action(0, "num")
	assert.Equal(ok, ok2)
	assert.Equal(a.Kind, b.Kind)
	assert.Equal(a.Target, b.Target)
}

func Test_Store_Load_MissOnEmptyDir(t *testing.T) {
	assert := assert.New(t)
	g := arithmeticGrammar(t)
	store, err := NewStore(t.TempDir())
	if !assert.NoError(err) {
		return
	}
	_, ok := store.Load(g)
	assert.False(ok)
}
