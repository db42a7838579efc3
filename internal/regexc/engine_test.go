package regexc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_Compile_S3 checks that pattern "a+[bcd]ef*[g-j]k+" accepts
// "acehkd" with length 5 and rejects "efg".
func Test_Compile_S3(t *testing.T) {
	assert := assert.New(t)

	eng, err := NewEngine()
	if !assert.NoError(err) {
		return
	}

	nfa, err := eng.Compile("a+[bcd]ef*[g-j]k+", "name")
	if !assert.NoError(err) {
		return
	}

	priority := map[string]int{"name": 0}
	dfa := nfa.ToDFA(priority)

	name, length, ok := dfa.Match([]rune("acehkd"))
	assert.True(ok)
	assert.Equal("name", name)
	assert.Equal(5, length)

	_, _, ok = dfa.Match([]rune("efg"))
	assert.False(ok)
}

func Test_Tokens_Escapes(t *testing.T) {
	assert := assert.New(t)

	toks, err := Tokens(`a\.b`)
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]Token{
		{Name: "char", Value: "a"},
		{Name: "char", Value: "."},
		{Name: "char", Value: "b"},
	}, toks)

	_, err = Tokens(`a\`)
	assert.Error(err)

	_, err = Tokens(`a\q`)
	assert.Error(err)
}

func Test_Compile_SimpleConcatenation(t *testing.T) {
	assert := assert.New(t)

	eng, err := NewEngine()
	if !assert.NoError(err) {
		return
	}

	nfa, err := eng.Compile("abc", "abc")
	if !assert.NoError(err) {
		return
	}

	dfa := nfa.ToDFA(map[string]int{"abc": 0})
	name, length, ok := dfa.Match([]rune("abcd"))
	assert.True(ok)
	assert.Equal("abc", name)
	assert.Equal(3, length)
}
