package walk

import (
	"fusion/ast"
	"fusion/logging"
	"fusion/syntax"
)

// Walker is the construct responsible for lowering the parse tree of a file
// into its AST.  It holds no state between statements: every walk method is a
// pure function of the branch it is given.
type Walker struct {
	// lctx is the log context of the file being walked
	lctx *logging.LogContext
}

// NewWalker creates a new walker for a given file
func NewWalker(lctx *logging.LogContext) *Walker {
	return &Walker{
		lctx: lctx,
	}
}

// Lower lowers the root of a parse tree into a program
func Lower(root syntax.ASTNode) (*ast.Program, error) {
	return NewWalker(nil).WalkProgram(root)
}

// WalkProgram walks the root `program` node of a file
func (w *Walker) WalkProgram(root syntax.ASTNode) (*ast.Program, error) {
	branch, ok := root.(*syntax.ASTBranch)
	if !ok || branch.Name != "program" {
		return nil, unexpectedNode(root)
	}

	prog := &ast.Program{}
	for _, item := range branch.Content {
		stmtBranch, err := expectBranch(branch, item, "statement")
		if err != nil {
			return nil, err
		}

		stmt, err := w.walkStatement(stmtBranch)
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}
