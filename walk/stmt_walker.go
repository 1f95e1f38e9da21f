package walk

import (
	"fusion/ast"
	"fusion/syntax"
)

// walkStatement walks a `statement` node.  This is the only place where the
// kinds of statement are dispatched on.
func (w *Walker) walkStatement(branch *syntax.ASTBranch) (ast.Expression, error) {
	if branch.Len() != 1 {
		return nil, malformedNode(branch, "expected exactly one statement")
	}

	stmt, ok := branch.Content[0].(*syntax.ASTBranch)
	if !ok {
		return nil, unexpectedNode(branch.Content[0])
	}

	switch stmt.Name {
	case "import_dir":
		return w.walkImport(stmt)
	case "func_def":
		return w.walkFuncDef(stmt)
	case "var_decl":
		return w.walkVarDecl(stmt)
	case "return_stmt":
		return w.walkReturn(stmt)
	case "expr_stmt":
		return w.walkExprStmt(stmt)
	default:
		return nil, unexpectedNode(stmt)
	}
}

// walkImport walks an `import_dir` node.  Header names are kept exactly as
// written; string literal paths get their quotes back.
func (w *Walker) walkImport(branch *syntax.ASTBranch) (ast.Expression, error) {
	if _, err := expectLeaf(branch, 0, syntax.IMPORT); err != nil {
		return nil, err
	}

	modNode, err := childAt(branch, 1, "header name")
	if err != nil {
		return nil, err
	}

	leaf, ok := modNode.(*syntax.ASTLeaf)
	if !ok {
		return nil, unexpectedNode(modNode)
	}

	var module string
	switch leaf.Kind {
	case syntax.HEADERLIT:
		module = leaf.Value
	case syntax.STRINGLIT:
		module = "\"" + leaf.Value + "\""
	default:
		return nil, malformedNode(branch, "expected a header name")
	}

	return &ast.ImportDirective{
		ASTBase: ast.NewASTBaseOn(branch.Position()),
		Module:  module,
	}, nil
}

// walkVarDecl walks a `var_decl` node: `let name = value;`
func (w *Walker) walkVarDecl(branch *syntax.ASTBranch) (ast.Expression, error) {
	if _, err := expectLeaf(branch, 0, syntax.LET); err != nil {
		return nil, err
	}

	name, err := expectLeaf(branch, 1, syntax.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	if _, err := expectLeaf(branch, 2, syntax.ASSIGN); err != nil {
		return nil, err
	}

	value, err := w.walkExprAt(branch, 3)
	if err != nil {
		return nil, err
	}

	return &ast.VariableDeclaration{
		ASTBase: ast.NewASTBaseOn(branch.Position()),
		Name:    name.Value,
		Value:   value,
	}, nil
}

// walkReturn walks a `return_stmt` node
func (w *Walker) walkReturn(branch *syntax.ASTBranch) (ast.Expression, error) {
	if _, err := expectLeaf(branch, 0, syntax.RETURN); err != nil {
		return nil, err
	}

	value, err := w.walkExprAt(branch, 1)
	if err != nil {
		return nil, err
	}

	return &ast.ReturnExpression{
		ASTBase: ast.NewASTBaseOn(branch.Position()),
		Value:   value,
	}, nil
}

// walkExprStmt walks an `expr_stmt` node
func (w *Walker) walkExprStmt(branch *syntax.ASTBranch) (ast.Expression, error) {
	return w.walkExprAt(branch, 0)
}

// walkExprAt walks the `expr` child of parent at ndx
func (w *Walker) walkExprAt(parent *syntax.ASTBranch, ndx int) (*ast.AdditiveExpression, error) {
	node, err := childAt(parent, ndx, "expression")
	if err != nil {
		return nil, err
	}

	exprBranch, err := expectBranch(parent, node, "expr")
	if err != nil {
		return nil, err
	}

	return w.walkExpr(exprBranch)
}
