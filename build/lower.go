package build

import (
	"fmt"

	"fusion/ast"
	"fusion/logging"
	"fusion/syntax"
	"fusion/walk"
)

// Lower parses and lowers the Fusion file at path into its AST
func (c *Compiler) Lower(path string) (*ast.Program, error) {
	prog, _, err := c.lowerFile(path)
	return prog, err
}

// loadParsingTable loads the parsing table used by the compiler.  A module may
// override the built-in grammar with its own.
func (c *Compiler) loadParsingTable() error {
	if c.parsingTable != nil {
		return nil
	}

	var err error
	if c.mod != nil && c.mod.GrammarPath != "" {
		c.parsingTable, err = syntax.NewParsingTable(c.mod.GrammarPath, false)
	} else {
		c.parsingTable, err = syntax.DefaultParsingTable()
	}

	if err != nil {
		logging.LogConfigError("Grammar", "error building parsing table: "+err.Error())
		return fmt.Errorf("error building parsing table: %w", err)
	}

	return nil
}

// lowerFile loads, parses and lowers a file.  It returns the log context of
// the file so that later phases can report errors against it.
func (c *Compiler) lowerFile(path string) (*ast.Program, *logging.LogContext, error) {
	if err := c.loadParsingTable(); err != nil {
		return nil, nil, err
	}

	lctx := &logging.LogContext{FilePath: path}

	logging.LogBeginPhase("Parsing")
	sc, err := syntax.NewScanner(path, lctx)
	if err != nil {
		logging.LogConfigError("File", fmt.Sprintf("unable to open file at %s: %s", path, err))
		return nil, nil, err
	}
	defer sc.Close()

	tree, err := syntax.NewParser(c.parsingTable, sc).Parse()
	if err != nil {
		logging.LogError(lctx, err)
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	logging.LogEndPhase()

	logging.LogBeginPhase("Lowering")
	w := walk.NewWalker(lctx)
	prog, err := w.WalkProgram(tree)
	if err != nil {
		w.LogError(err)
		return nil, nil, fmt.Errorf("lowering %s: %w", path, err)
	}
	logging.LogEndPhase()

	return prog, lctx, nil
}
