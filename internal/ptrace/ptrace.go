// Package ptrace provides the optional trace/debug logging hook that
// parse.Parser and regexc.Engine accept via their WithTrace functional
// option: one callback invoked with a single line per driver step.
//
// Grounded on internal/ictiobus/parse/lr.go's trace func(s string)
// listener idiom for the hook shape, and on
// _examples/npillmayer-gorgo/terex/terexlang/trepl/repl.go's
// pterm.Info/pterm.Debug usage for colorized line output.
package ptrace

import "github.com/pterm/pterm"

// Sink is the callback signature WithTrace accepts: one line per
// driver step (shift/goto/reduce/accept).
type Sink func(string)

// PTermSink returns a Sink that prints each line through pterm's debug
// printer, so trace output is visually distinct from ordinary program
// output without requiring the caller to wire up its own logger.
func PTermSink() Sink {
	return func(line string) {
		pterm.Debug.Println(line)
	}
}

// Discard is a Sink that drops every line. When tracing is not
// requested, callers leave the trace hook unset rather than installing
// Discard.
func Discard(string) {}
