// Package ptcache memoizes compiled LR(1) tables on disk, keyed by a
// structural hash of the grammar that produced them, so repeated runs
// of the same configuration skip table construction.
//
// Key derivation is grounded on
// _examples/npillmayer-gorgo/lr/earley/earley.go's structhash.Hash use
// for item/state identity; the binary blob format is grounded on
// internal/ictiobus-adjacent teacher idiom of shipping rezi.EncBinary/
// DecBinary for serializing parser-relevant state
// (server/dao/sqlite/sqlite.go's game-state snapshot and
// server/dao/sqlite/sessions.go's session-state snapshot use the same
// pair of calls for a persisted blob).
package ptcache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cnf/structhash"
	"github.com/dekarrin/rezi"

	"github.com/alumik/parse-tree/internal/grammar"
	"github.com/alumik/parse-tree/internal/parse"
)

// Key derives a stable cache key from a grammar's rule list and start
// symbol, hashed with structhash so any change to a production,
// terminal, or start symbol invalidates the cache.
func Key(g *grammar.Grammar) string {
	type ruleShape struct {
		Left  string
		Right []string
	}
	shapes := make([]ruleShape, len(g.Rules))
	for i, r := range g.Rules {
		right := make([]string, len(r.Right))
		for j, s := range r.Right {
			right[j] = s.Name
		}
		shapes[i] = ruleShape{Left: r.Left.Name, Right: right}
	}

	hash, err := structhash.Hash(struct {
		Start string
		Rules []ruleShape
	}{
		Start: g.Start.Name,
		Rules: shapes,
	}, 1)
	if err != nil {
		// structhash.Hash only errors on unsupported reflect kinds; the
		// shape above is plain strings and slices, so this cannot happen.
		panic(err)
	}
	return hash
}

// actionData and tableData are the rezi-serializable mirror of
// parse.Table's unexported maps: plain strings/ints only, rule
// identity carried as a rule ID to be resolved against the grammar on
// load rather than against a live *grammar.Rule pointer.
type actionData struct {
	Kind   int
	Target int
	RuleID int
}

type tableData struct {
	States [][]itemData
	Action map[int]map[string]actionData
	Goto   map[int]map[string]int
}

type itemData struct {
	RuleID    int
	Dot       int
	Lookahead string
}

// Store persists and retrieves compiled tables under a directory on
// disk, one file per cache key.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir, creating it if absent.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Dir, key+".tbl")
}

// Load reads a cached table for g, if one exists and matches g's
// current rule shape. Ok is false on any miss (file absent, corrupt,
// or built from a differently-shaped grammar would already be a
// different key, so this only reports presence/decode success).
func (s *Store) Load(g *grammar.Grammar) (*parse.Table, bool) {
	raw, err := os.ReadFile(s.path(Key(g)))
	if err != nil {
		return nil, false
	}

	var data tableData
	if _, err := rezi.DecBinary(raw, &data); err != nil {
		return nil, false
	}

	t := hydrate(g, data)
	if t == nil {
		return nil, false
	}
	return t, true
}

// Save serializes t and writes it under g's cache key.
func (s *Store) Save(g *grammar.Grammar, t *parse.Table) error {
	data := dehydrate(t)
	blob := rezi.EncBinary(data)
	return os.WriteFile(s.path(Key(g)), blob, 0o644)
}

func dehydrate(t *parse.Table) tableData {
	data := tableData{
		States: make([][]itemData, len(t.States)),
		Action: make(map[int]map[string]actionData),
		Goto:   make(map[int]map[string]int),
	}

	for i, items := range t.States {
		row := make([]itemData, len(items))
		for j, it := range items {
			row[j] = itemData{RuleID: it.Rule.ID, Dot: it.Dot, Lookahead: it.Lookahead.Name}
		}
		data.States[i] = row
	}

	for state := 0; state < len(t.States); state++ {
		for _, term := range t.G.Pool.Terminals() {
			a, ok := t.Action(state, term.Name)
			if !ok {
				continue
			}
			if data.Action[state] == nil {
				data.Action[state] = map[string]actionData{}
			}
			ruleID := -1
			if a.Rule != nil {
				ruleID = a.Rule.ID
			}
			data.Action[state][term.Name] = actionData{Kind: int(a.Kind), Target: a.Target, RuleID: ruleID}
		}
		for _, nt := range t.G.Pool.Nonterminals() {
			id, ok := t.Goto(state, nt.Name)
			if !ok {
				continue
			}
			if data.Goto[state] == nil {
				data.Goto[state] = map[string]int{}
			}
			data.Goto[state][nt.Name] = id
		}
	}

	return data
}

// hydrate rebuilds a *parse.Table from its serialized mirror, resolving
// rule IDs and lookahead names back against the live grammar g.
func hydrate(g *grammar.Grammar, data tableData) *parse.Table {
	states := make([][]parse.Item, len(data.States))
	for i, row := range data.States {
		items := make([]parse.Item, len(row))
		for j, it := range row {
			lookahead, err := g.Pool.GetTerminal(it.Lookahead)
			if err != nil {
				return nil
			}
			items[j] = parse.Item{Rule: g.Rules[it.RuleID], Dot: it.Dot, Lookahead: lookahead}
		}
		states[i] = items
	}

	t := parse.NewTableFromData(g, states)
	for state, row := range data.Action {
		for sym, a := range row {
			var rule *grammar.Rule
			if a.RuleID >= 0 {
				rule = g.Rules[a.RuleID]
			}
			t.SetActionRaw(state, sym, parse.Action{Kind: parse.ActionKind(a.Kind), Target: a.Target, Rule: rule})
		}
	}
	for state, row := range data.Goto {
		for sym, id := range row {
			t.SetGotoRaw(state, sym, id)
		}
	}

	return t
}
