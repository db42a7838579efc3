/*
Ptree compiles a configuration-driven grammar (lexer + LR(1) parser) and
runs it against an input string, printing the resulting parse tree.

Usage:

	ptree [flags]

The flags are:

	-v, --version
		Give the current version of the toolkit and then exit.

	-c, --config FILE
		TOML configuration file describing terminal_symbols,
		nonterminal_symbols, start_symbol, production_rules, and
		ignored_symbols. Required.

	-i, --input TEXT
		Tokenize and parse the given text, print the resulting tree, and
		exit. Mutually exclusive with --interactive.

	--interactive
		Start a REPL that reads one input line at a time (with line
		editing via github.com/chzyer/readline) and prints the parse tree
		for each.

	--dump-table
		Print the ACTION/GOTO table for the configured grammar and exit.

	--trace
		Print one line per shift/goto/reduce/accept step through pterm's
		debug printer.

	--cache-dir DIR
		Directory used to memoize compiled LR(1) tables across runs of an
		unchanged grammar. Defaults to "$TMPDIR/ptree-cache".
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/alumik/parse-tree/internal/lex"
	"github.com/alumik/parse-tree/internal/parse"
	"github.com/alumik/parse-tree/internal/ptcache"
	"github.com/alumik/parse-tree/internal/ptconfig"
	"github.com/alumik/parse-tree/internal/ptrace"
	"github.com/alumik/parse-tree/internal/version"

	"github.com/alumik/parse-tree/internal/grammar"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates a failure building the grammar, table, or
	// lexer from the configuration.
	ExitInitError

	// ExitRunError indicates a failure tokenizing or parsing input.
	ExitRunError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Print the current version and exit")
	configFile  = pflag.StringP("config", "c", "", "TOML configuration file for the grammar")
	inputText   = pflag.StringP("input", "i", "", "Tokenize and parse this text, then exit")
	interactive = pflag.Bool("interactive", false, "Start a REPL reading one input line at a time")
	dumpTable   = pflag.Bool("dump-table", false, "Print the ACTION/GOTO table and exit")
	traceFlag   = pflag.Bool("trace", false, "Print one line per driver step to stderr")
	cacheDir    = pflag.String("cache-dir", filepath.Join(os.TempDir(), "ptree-cache"), "Directory for memoized compiled tables")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *configFile == "" {
		pterm.Error.Println("a --config file is required")
		returnCode = ExitInitError
		return
	}

	cfg, err := ptconfig.Load(*configFile)
	if err != nil {
		pterm.Error.Printfln("load config: %s", err.Error())
		returnCode = ExitInitError
		return
	}

	g, l, err := build(cfg)
	if err != nil {
		pterm.Error.Printfln("build grammar: %s", err.Error())
		returnCode = ExitInitError
		return
	}

	tbl, err := compileTable(g)
	if err != nil {
		pterm.Error.Printfln("build table: %s", err.Error())
		returnCode = ExitInitError
		return
	}

	if *dumpTable {
		fmt.Println(tbl.String())
		return
	}

	parser := &parse.Parser{Table: tbl}
	if *traceFlag {
		parser.WithTrace(ptrace.PTermSink())
	}

	if *interactive && *inputText != "" {
		pterm.Error.Println("--input and --interactive are mutually exclusive")
		returnCode = ExitInitError
		return
	}

	switch {
	case *interactive:
		if err := runInteractive(l, parser); err != nil {
			pterm.Error.Printfln("%s", err.Error())
			returnCode = ExitRunError
		}
	case *inputText != "":
		if err := runOnce(l, parser, *inputText); err != nil {
			pterm.Error.Printfln("%s", err.Error())
			returnCode = ExitRunError
		}
	default:
		pterm.Error.Println("one of --input or --interactive is required")
		returnCode = ExitInitError
	}
}

func build(cfg ptconfig.Config) (*grammar.Grammar, *lex.Lexer, error) {
	g := grammar.New()
	for _, term := range cfg.TerminalNames() {
		g.AddTerm(term)
	}
	for _, nt := range cfg.NonterminalSymbols {
		g.AddNonterm(nt)
	}
	for _, rule := range cfg.ProductionRules {
		if err := g.AddRuleString(rule); err != nil {
			return nil, nil, err
		}
	}
	if err := g.Init(cfg.StartSymbol); err != nil {
		return nil, nil, err
	}

	terminals := make([]lex.TerminalSpec, len(cfg.TerminalSymbols))
	for i, t := range cfg.TerminalSymbols {
		terminals[i] = lex.TerminalSpec{Name: t.Name, Pattern: t.Pattern}
	}
	l, err := lex.Compile(g.Pool, terminals, cfg.IgnoredSymbols)
	if err != nil {
		return nil, nil, err
	}

	return g, l, nil
}

func compileTable(g *grammar.Grammar) (*parse.Table, error) {
	store, err := ptcache.NewStore(*cacheDir)
	if err != nil {
		return nil, err
	}
	if tbl, ok := store.Load(g); ok {
		return tbl, nil
	}

	tbl, err := parse.Build(g)
	if err != nil {
		return nil, err
	}
	_ = store.Save(g, tbl)
	return tbl, nil
}

func runOnce(l *lex.Lexer, p *parse.Parser, text string) error {
	correlationID := uuid.New().String()
	pterm.Debug.Printfln("run %s: %q", correlationID, text)

	toks, err := l.Tokenize(text)
	if err != nil {
		return err
	}
	driverTokens := make([]parse.Token, len(toks))
	for i, t := range toks {
		driverTokens[i] = t
	}

	tree, err := p.Parse(driverTokens)
	if err != nil {
		return err
	}
	printTree(tree, 0)
	return nil
}

func runInteractive(l *lex.Lexer, p *parse.Parser) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "ptree> "})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := runOnce(l, p, line); err != nil {
			pterm.Error.Printfln("%s", err.Error())
		}
	}
}

func printTree(t *parse.Tree, depth int) {
	indent := strings.Repeat("  ", depth)
	if t.Terminal {
		fmt.Printf("%s%s %q\n", indent, t.Symbol, t.Value)
		return
	}
	fmt.Printf("%s%s\n", indent, t.Symbol)
	for _, child := range t.Children {
		printTree(child, depth+1)
	}
}
