// Package lex implements the Lexer: it unions every per-terminal NFA
// produced by the Regex Compiler, determinizes, and tokenizes input
// text with a greedy longest-match policy.
//
// Grounded on original_source/ptree/lexer/lexer.py's Lexer.__init__ and
// tokenize (union-then-determinize-then-sort, greedy longest-match loop
// with ignored-symbol filtering); Go-side constructor/interface idiom
// grounded on internal/ictiobus/lex/lex.go's Lexer surface (NOT its
// stdlib-regexp delegation — this package self-hosts the automaton
// instead of delegating to Go's regexp package; see DESIGN.md).
package lex

import (
	"github.com/alumik/parse-tree/internal/automaton"
	"github.com/alumik/parse-tree/internal/pterr"
	"github.com/alumik/parse-tree/internal/regexc"
	"github.com/alumik/parse-tree/internal/symbol"
)

// TerminalSpec is one (name, pattern) entry from the configuration's
// terminal_symbols table; slice order is declaration (priority) order.
type TerminalSpec struct {
	Name    string
	Pattern string
}

// Token is a lexed (value, symbol) pair. It implements parse.Token
// structurally (TermName/Text).
type Token struct {
	ValueText string
	Sym       *symbol.Symbol
}

func (t Token) TermName() string { return t.Sym.Name }
func (t Token) Text() string     { return t.ValueText }

// Lexer is a compiled DFA plus the symbol pool used to tag matched
// lexemes with interned terminal symbols.
type Lexer struct {
	dfa     *automaton.DFA
	pool    *symbol.Pool
	ignored map[string]bool
}

// Compile builds a Lexer from an ordered terminal-name/pattern list and
// a set of ignored terminal names. Each pattern is compiled to an NFA
// via the Regex Compiler; the resulting NFAs are unioned, determinized,
// and (via automaton.NFA.ToDFA) every accept list is already sorted by
// declaration order.
func Compile(pool *symbol.Pool, terminals []TerminalSpec, ignored []string) (*Lexer, error) {
	eng, err := regexc.NewEngine()
	if err != nil {
		return nil, err
	}

	priority := make(map[string]int, len(terminals))
	nfas := make([]*automaton.NFA, 0, len(terminals))
	for i, t := range terminals {
		priority[t.Name] = i
		nfa, err := eng.Compile(t.Pattern, t.Name)
		if err != nil {
			return nil, err
		}
		nfas = append(nfas, nfa)
	}

	union := automaton.Union(nfas...)
	dfa := union.ToDFA(priority)

	ignoredSet := make(map[string]bool, len(ignored))
	for _, name := range ignored {
		ignoredSet[name] = true
	}

	return &Lexer{dfa: dfa, pool: pool, ignored: ignoredSet}, nil
}

// Tokenize performs greedy longest-match scanning over text, emitting
// one Token per non-ignored match and discarding ignored-symbol matches
// entirely.
func (l *Lexer) Tokenize(text string) ([]Token, error) {
	runes := []rune(text)
	var out []Token

	pos := 0
	for pos < len(runes) {
		name, length, ok := l.dfa.Match(runes[pos:])
		if !ok {
			return nil, &pterr.UnexpectedCharacterError{Char: runes[pos], Pos: pos}
		}
		if length == 0 {
			// A terminal whose pattern accepts the empty string would
			// otherwise loop forever at this position; no valid config
			// should produce one, so this is reported the same way a
			// dead end is.
			return nil, &pterr.UnexpectedCharacterError{Char: runes[pos], Pos: pos}
		}

		if !l.ignored[name] {
			sym, err := l.pool.GetTerminal(name)
			if err != nil {
				return nil, err
			}
			out = append(out, Token{ValueText: string(runes[pos : pos+length]), Sym: sym})
		}

		pos += length
	}

	return out, nil
}
