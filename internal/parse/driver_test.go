package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// leaves returns the left-to-right leaf values of a parse tree.
func leaves(tree *Tree) []string {
	if tree.Terminal {
		return []string{tree.Value}
	}
	var out []string
	for _, c := range tree.Children {
		out = append(out, leaves(c)...)
	}
	return out
}

// Test_Parse_Arithmetic checks that parsing "3*(6+(4/2)-5)+8" against
// the conflict-free arithmetic grammar yields a tree whose leaves, read
// left to right, are the original token sequence, and whose root's
// leftmost spine is _S -> E -> E + T.
func Test_Parse_Arithmetic(t *testing.T) {
	assert := assert.New(t)
	g := arithmeticGrammar(t)
	tbl, err := Build(g)
	if !assert.NoError(err) {
		return
	}

	lit := func(name, value string) Token { return simpleToken{name: name, text: value} }
	tokens := []Token{
		lit("num", "3"), lit("*", "*"), lit("(", "("), lit("num", "6"), lit("+", "+"),
		lit("(", "("), lit("num", "4"), lit("/", "/"), lit("num", "2"), lit(")", ")"),
		lit("-", "-"), lit("num", "5"), lit(")", ")"), lit("+", "+"), lit("num", "8"),
	}

	p := &Parser{Table: tbl}
	tree, err := p.Parse(tokens)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("_S", tree.Symbol)
	want := []string{"3", "*", "(", "6", "+", "(", "4", "/", "2", ")", "-", "5", ")", "+", "8"}
	assert.Equal(want, leaves(tree))

	// leftmost spine: _S -> E -> E + T
	assert.Equal(1, len(tree.Children))
	e := tree.Children[0]
	assert.Equal("E", e.Symbol)
	assert.Equal(3, len(e.Children))
	assert.Equal("E", e.Children[0].Symbol)
	assert.Equal("+", e.Children[1].Symbol)
	assert.Equal("T", e.Children[2].Symbol)
}

// Test_Parse_UnexpectedToken checks that a token with no ACTION-table
// cell is a fatal, unrecoverable error.
func Test_Parse_UnexpectedToken(t *testing.T) {
	assert := assert.New(t)
	g := arithmeticGrammar(t)
	tbl, err := Build(g)
	if !assert.NoError(err) {
		return
	}

	p := &Parser{Table: tbl}
	_, err = p.Parse([]Token{simpleToken{name: "+", text: "+"}})
	assert.Error(err)
}
