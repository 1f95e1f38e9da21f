package walk

import (
	"fusion/ast"
	"fusion/syntax"
)

// walkExpr walks an `expr` node.  Every value expression is lowered to an
// additive chain: a lone operand is a chain with no terms.
func (w *Walker) walkExpr(branch *syntax.ASTBranch) (*ast.AdditiveExpression, error) {
	if branch.Len() != 1 {
		return nil, malformedNode(branch, "expected a single operand chain")
	}

	addBranch, err := expectBranch(branch, branch.Content[0], "add_expr")
	if err != nil {
		return nil, err
	}

	return w.walkAddExpr(addBranch)
}

// walkAddExpr walks an `add_expr` node.  The children of the node alternate
// between operands and operators, left to right, and they are folded in that
// order: `a - b + c` is `(a - b) + c`.
func (w *Walker) walkAddExpr(branch *syntax.ASTBranch) (*ast.AdditiveExpression, error) {
	left, err := w.walkMulOperand(branch, 0)
	if err != nil {
		return nil, err
	}

	chain := &ast.AdditiveExpression{
		ASTBase: ast.NewASTBaseOn(branch.Position()),
		Left:    left,
	}

	for i := 1; i < branch.Len(); i += 2 {
		var op ast.AddOp
		switch operatorKind(branch.Content[i]) {
		case syntax.PLUS:
			op = ast.Add
		case syntax.MINUS:
			op = ast.Subtract
		default:
			return nil, malformedNode(branch, "expected `+` or `-` between operands")
		}

		if i+1 == branch.Len() {
			return nil, malformedNode(branch, "operator `%s` has no right operand", op.Symbol())
		}

		operand, err := w.walkMulOperand(branch, i+1)
		if err != nil {
			return nil, err
		}

		chain.Terms = append(chain.Terms, ast.AddTerm{Op: op, Operand: operand})
	}

	return chain, nil
}

// walkMulOperand walks the `mul_expr` child of an additive chain at ndx
func (w *Walker) walkMulOperand(parent *syntax.ASTBranch, ndx int) (*ast.MultiplicativeExpression, error) {
	node, err := childAt(parent, ndx, "operand")
	if err != nil {
		return nil, err
	}

	mulBranch, err := expectBranch(parent, node, "mul_expr")
	if err != nil {
		return nil, err
	}

	return w.walkMulExpr(mulBranch)
}

// walkMulExpr walks a `mul_expr` node.  It is folded the same way as an
// `add_expr` node.
func (w *Walker) walkMulExpr(branch *syntax.ASTBranch) (*ast.MultiplicativeExpression, error) {
	left, err := w.walkPrimaryOperand(branch, 0)
	if err != nil {
		return nil, err
	}

	chain := &ast.MultiplicativeExpression{
		ASTBase: ast.NewASTBaseOn(branch.Position()),
		Left:    left,
	}

	for i := 1; i < branch.Len(); i += 2 {
		var op ast.MulOp
		switch operatorKind(branch.Content[i]) {
		case syntax.STAR:
			op = ast.Multiply
		case syntax.DIVIDE:
			op = ast.Divide
		default:
			return nil, malformedNode(branch, "expected `*` or `/` between operands")
		}

		if i+1 == branch.Len() {
			return nil, malformedNode(branch, "operator `%s` has no right operand", op.Symbol())
		}

		operand, err := w.walkPrimaryOperand(branch, i+1)
		if err != nil {
			return nil, err
		}

		chain.Terms = append(chain.Terms, ast.MulTerm{Op: op, Operand: operand})
	}

	return chain, nil
}

// walkPrimaryOperand walks the `primary` child of a multiplicative chain at ndx
func (w *Walker) walkPrimaryOperand(parent *syntax.ASTBranch, ndx int) (ast.Primary, error) {
	node, err := childAt(parent, ndx, "operand")
	if err != nil {
		return nil, err
	}

	primBranch, err := expectBranch(parent, node, "primary")
	if err != nil {
		return nil, err
	}

	return w.walkPrimary(primBranch)
}

// operatorKind gets the token kind of an operator node or -1 if the node is
// not a leaf
func operatorKind(node syntax.ASTNode) int {
	if leaf, ok := node.(*syntax.ASTLeaf); ok {
		return leaf.Kind
	}

	return -1
}
