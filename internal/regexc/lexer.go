package regexc

import (
	"fmt"

	"github.com/alumik/parse-tree/internal/pterr"
)

// metaChars are the regex sub-language's metacharacters; each produces a
// terminal token named identically to itself.
var metaChars = map[rune]bool{
	'|': true, '(': true, ')': true, '*': true, '+': true,
	'[': true, ']': true, '-': true, '^': true, '.': true,
}

// controlEscapes maps a backslash-escaped letter to the control
// character it represents.
var controlEscapes = map[rune]rune{
	'r': '\r', 'n': '\n', 't': '\t', 'f': '\f', '\\': '\\',
}

// Token is a lexed regex token: a pair (value, terminal name). It
// implements parse.Token structurally.
type Token struct {
	Name  string
	Value string
}

func (t Token) TermName() string { return t.Name }
func (t Token) Text() string     { return t.Value }

// Tokens lexes a regex pattern into a stream of Token values. Every
// non-metacharacter produces a char token; every metacharacter produces
// a terminal named identically;
// backslash escapes map metachars to char tokens and the r/n/t/f/\
// letters to the corresponding control character as a char token. An
// unterminated backslash is InvalidRegexError.
//
// Grounded on original_source/ptree/lexer/regex.py's Regex.get_symbols.
func Tokens(pattern string) ([]Token, error) {
	runes := []rune(pattern)
	var out []Token

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' {
			if i+1 >= len(runes) {
				return nil, &pterr.InvalidRegexError{Pattern: pattern, Reason: "dangling backslash at end of pattern"}
			}
			next := runes[i+1]
			i++
			if metaChars[next] {
				out = append(out, Token{Name: "char", Value: string(next)})
				continue
			}
			if ctrl, ok := controlEscapes[next]; ok {
				out = append(out, Token{Name: "char", Value: string(ctrl)})
				continue
			}
			return nil, &pterr.InvalidRegexError{Pattern: pattern, Reason: fmt.Sprintf("unsupported escape \\%c", next)}
		}

		if metaChars[c] {
			out = append(out, Token{Name: string(c), Value: string(c)})
			continue
		}
		out = append(out, Token{Name: "char", Value: string(c)})
	}

	return out, nil
}
