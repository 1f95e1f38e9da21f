package syntax

import (
	_ "embed"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fusion/common"
)

// ptableCacheDir is the directory within the installation directory holding
// cached parsing tables
const ptableCacheDir = "cache"

// ParsingTable is the action/goto table of an LALR(1) grammar along with the
// reductions it refers to.  A table is never modified once built so it can be
// shared by any number of parsers.
type ParsingTable struct {
	Rows  []*PTableRow
	Rules []PTableRule
}

// PTableRow is the row of a single parser state.  A token with no action is a
// syntax error in that state.
type PTableRow struct {
	Actions map[int]Action
	Gotos   map[string]int
}

// Action is a parser action.  Operand is the state to shift to or the rule to
// reduce by; accept actions have no operand.
type Action struct {
	Kind    int
	Operand int
}

// Enumeration of action kinds
const (
	AKReduce = iota
	AKShift
	AKAccept
)

// PTableRule is a reduction: the parser only needs the name of the branch to
// build and how many nodes it takes off the stack.
type PTableRule struct {
	Name  string
	Count int
}

// NewParsingTable returns the parsing table for the grammar file at
// grammarPath.  The table is loaded from its cache unless a rebuild is forced
// or the cache can't be read, in which case it is built and cached again.
func NewParsingTable(grammarPath string, forceRebuild bool) (*ParsingTable, error) {
	if !forceRebuild {
		if ptable, err := loadParsingTable(grammarPath); err == nil {
			return ptable, nil
		}
	}

	f, err := os.Open(grammarPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ptable, err := BuildParsingTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", grammarPath, err)
	}

	if err := saveParsingTable(ptable, grammarPath); err != nil {
		return nil, fmt.Errorf("caching parsing table: %w", err)
	}

	return ptable, nil
}

// BuildParsingTable loads the EBNF grammar read from r and builds its LALR(1)
// parsing table
func BuildParsingTable(r io.Reader) (*ParsingTable, error) {
	g, err := loadGrammar(r)
	if err != nil {
		return nil, err
	}

	if _, ok := g.Productions[_goalSymbol]; !ok {
		return nil, fmt.Errorf("grammar has no `%s` production", _goalSymbol)
	}

	if err := g.checkReferences(); err != nil {
		return nil, err
	}

	return constructParsingTable(expandGrammar(g))
}

//go:embed grammar.ebnf
var grammarSource string

var (
	defaultTable    *ParsingTable
	defaultTableErr error
	defaultOnce     sync.Once
)

// DefaultParsingTable returns the parsing table of the built-in grammar.  It is
// built the first time it is requested.
func DefaultParsingTable() (*ParsingTable, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultTableErr = BuildParsingTable(strings.NewReader(grammarSource))
	})

	return defaultTable, defaultTableErr
}

// GrammarSource returns the text of the built-in grammar
func GrammarSource() string {
	return grammarSource
}

// loadParsingTable decodes the cached table of a grammar
func loadParsingTable(grammarPath string) (*ParsingTable, error) {
	f, err := os.Open(parsingTablePath(grammarPath))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ptable := &ParsingTable{}
	if err := gob.NewDecoder(f).Decode(ptable); err != nil {
		return nil, err
	}

	return ptable, nil
}

// saveParsingTable writes the cached table of a grammar, replacing any
// previous one
func saveParsingTable(ptable *ParsingTable, grammarPath string) error {
	ptablePath := parsingTablePath(grammarPath)
	if err := os.MkdirAll(filepath.Dir(ptablePath), 0755); err != nil {
		return err
	}

	f, err := os.Create(ptablePath)
	if err != nil {
		return err
	}
	defer f.Close()

	return gob.NewEncoder(f).Encode(ptable)
}

// parsingTablePath gets the path of the cached table for a grammar.  Tables are
// cached in the installation directory if there is one and next to the grammar
// otherwise.
func parsingTablePath(grammarPath string) string {
	if common.FusionPath != "" {
		if abspath, err := filepath.Abs(grammarPath); err == nil {
			return filepath.Join(common.FusionPath, ptableCacheDir, common.CacheFileName(abspath, ".ptable"))
		}
	}

	return strings.TrimSuffix(grammarPath, ".ebnf") + ".ptable"
}
