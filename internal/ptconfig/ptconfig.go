// Package ptconfig loads the TOML configuration document a grammar is
// declared in: an ordered terminal-symbol table, a nonterminal list, a
// start symbol, an ordered production-rule list, and an ignored-symbol
// list.
//
// Grounded on server/config.go's load-then-Validate idiom (parse into a
// plain struct, then a dedicated Validate() error pass before the value
// is handed to the rest of the system); TOML decoding via
// github.com/BurntSushi/toml, the ambient config format this pack's
// repos use wherever one loads settings from a file (e.g.
// odvcencio-mane and shadowCow-cow-lang-go both reach for TOML/YAML
// document config rather than hand-rolled flag parsing for anything
// beyond a handful of settings).
package ptconfig

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/alumik/parse-tree/internal/pterr"
	"github.com/alumik/parse-tree/internal/symbol"
)

// TerminalEntry is one (name, pattern) row of the terminal_symbols
// table; TOML's own key ordering is not guaranteed stable across
// implementations, so the document represents it as an explicit array
// of tables to preserve priority order.
type TerminalEntry struct {
	Name    string `toml:"name"`
	Pattern string `toml:"pattern"`
}

// Config mirrors the recognized configuration document fields.
type Config struct {
	TerminalSymbols    []TerminalEntry `toml:"terminal_symbols"`
	NonterminalSymbols []string        `toml:"nonterminal_symbols"`
	StartSymbol        string          `toml:"start_symbol"`
	ProductionRules    []string        `toml:"production_rules"`
	IgnoredSymbols     []string        `toml:"ignored_symbols"`
}

// Load reads and decodes a TOML document at path into a Config,
// then Validates it.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects the three reserved names anywhere they could enter
// user input, and checks that start_symbol actually names a declared
// nonterminal.
func (c Config) Validate() error {
	reserved := map[string]bool{
		symbol.StartSymbolName: true,
		symbol.NullSymbolName:  true,
		symbol.EndSymbolName:   true,
	}

	check := func(name string) error {
		if reserved[name] {
			return &pterr.NameConflictError{Name: name}
		}
		return nil
	}

	for _, term := range c.TerminalSymbols {
		if err := check(term.Name); err != nil {
			return err
		}
	}
	for _, nt := range c.NonterminalSymbols {
		if err := check(nt); err != nil {
			return err
		}
	}
	if err := check(c.StartSymbol); err != nil {
		return err
	}

	if c.StartSymbol == "" {
		return fmt.Errorf("start_symbol not set")
	}
	found := false
	for _, nt := range c.NonterminalSymbols {
		if nt == c.StartSymbol {
			found = true
			break
		}
	}
	if !found {
		return &pterr.UnknownSymbolError{Name: c.StartSymbol}
	}

	return nil
}

// TerminalNames returns the declared terminal names in priority order,
// for Symbol Pool construction.
func (c Config) TerminalNames() []string {
	names := make([]string, len(c.TerminalSymbols))
	for i, t := range c.TerminalSymbols {
		names[i] = t.Name
	}
	return names
}
