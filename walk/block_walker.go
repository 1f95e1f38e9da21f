package walk

import (
	"fusion/ast"
	"fusion/syntax"
)

// walkBlock walks a `block` node: `{ statement* }`
func (w *Walker) walkBlock(branch *syntax.ASTBranch) (*ast.Block, error) {
	if _, err := expectLeaf(branch, 0, syntax.LBRACE); err != nil {
		return nil, err
	}

	if _, err := expectLeaf(branch, branch.Len()-1, syntax.RBRACE); err != nil {
		return nil, err
	}

	block := &ast.Block{ASTBase: ast.NewASTBaseOn(branch.Position())}
	for _, item := range branch.Content[1 : branch.Len()-1] {
		stmtBranch, err := expectBranch(branch, item, "statement")
		if err != nil {
			return nil, err
		}

		stmt, err := w.walkStatement(stmtBranch)
		if err != nil {
			return nil, err
		}

		block.Statements = append(block.Statements, stmt)
	}

	return block, nil
}
