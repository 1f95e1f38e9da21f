package walk

import (
	"strconv"

	"fusion/ast"
	"fusion/syntax"
)

// walkPrimary walks a `primary` node
func (w *Walker) walkPrimary(branch *syntax.ASTBranch) (ast.Primary, error) {
	if branch.Len() == 0 {
		return nil, malformedNode(branch, "missing operand")
	}

	switch v := branch.Content[0].(type) {
	case *syntax.ASTLeaf:
		switch v.Kind {
		case syntax.INTLIT:
			return w.walkIntLit(v)
		case syntax.FLOATLIT:
			return w.walkFloatLit(v)
		case syntax.STRINGLIT:
			return w.walkStringLit(v)
		case syntax.IDENTIFIER:
			return &ast.VariableAccess{
				ASTBase: ast.NewASTBaseOn(v.Position()),
				Name:    v.Value,
			}, nil
		case syntax.LPAREN:
			return w.walkParenExpr(branch)
		}
	case *syntax.ASTBranch:
		switch v.Name {
		case "func_call":
			return w.walkFuncCall(v)
		case "block":
			return w.walkBlock(v)
		}
	}

	return nil, unexpectedNode(branch.Content[0])
}

// walkParenExpr walks a primary of the form `( expr )`
func (w *Walker) walkParenExpr(branch *syntax.ASTBranch) (ast.Primary, error) {
	inner, err := w.walkExprAt(branch, 1)
	if err != nil {
		return nil, err
	}

	if _, err := expectLeaf(branch, 2, syntax.RPAREN); err != nil {
		return nil, err
	}

	return &ast.ParenExpression{
		ASTBase: ast.NewASTBaseOn(branch.Position()),
		Inner:   inner,
	}, nil
}

// walkFuncCall walks a `func_call` node: `name ( args? )`
func (w *Walker) walkFuncCall(branch *syntax.ASTBranch) (*ast.FunctionCall, error) {
	name, err := expectLeaf(branch, 0, syntax.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	if _, err := expectLeaf(branch, 1, syntax.LPAREN); err != nil {
		return nil, err
	}

	call := &ast.FunctionCall{
		ASTBase: ast.NewASTBaseOn(branch.Position()),
		Name:    name.Value,
	}

	// function takes arguments
	if argsBranch, ok := branch.FirstBranch("args"); ok {
		for i, item := range argsBranch.Content {
			if i%2 == 1 {
				if operatorKind(item) != syntax.COMMA {
					return nil, malformedNode(argsBranch, "expected `,` between arguments")
				}

				continue
			}

			exprBranch, err := expectBranch(argsBranch, item, "expr")
			if err != nil {
				return nil, err
			}

			arg, err := w.walkExpr(exprBranch)
			if err != nil {
				return nil, err
			}

			call.Params = append(call.Params, arg)
		}

		if argsBranch.Len()%2 == 0 {
			return nil, malformedNode(argsBranch, "trailing `,` in arguments")
		}
	}

	if _, err := expectLeaf(branch, branch.Len()-1, syntax.RPAREN); err != nil {
		return nil, err
	}

	return call, nil
}

// -----------------------------------------------------------------------------

// walkIntLit converts an integer literal into a 32 bit signed integer
func (w *Walker) walkIntLit(leaf *syntax.ASTLeaf) (*ast.IntegerLiteral, error) {
	n, err := strconv.ParseInt(leaf.Value, 10, 32)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return nil, literalError(leaf, "value out of range for a 32 bit integer")
		}

		return nil, literalError(leaf, "not a decimal integer")
	}

	return &ast.IntegerLiteral{
		ASTBase: ast.NewASTBaseOn(leaf.Position()),
		Value:   int32(n),
	}, nil
}

// walkFloatLit converts a float literal into a 32 bit float
func (w *Walker) walkFloatLit(leaf *syntax.ASTLeaf) (*ast.FloatLiteral, error) {
	f, err := strconv.ParseFloat(leaf.Value, 32)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return nil, literalError(leaf, "value out of range for a 32 bit float")
		}

		return nil, literalError(leaf, "not a floating point number")
	}

	return &ast.FloatLiteral{
		ASTBase: ast.NewASTBaseOn(leaf.Position()),
		Value:   float32(f),
	}, nil
}

// walkStringLit decodes the C escape sequences of a string literal.  The
// scanner leaves them exactly as they were written.
func (w *Walker) walkStringLit(leaf *syntax.ASTLeaf) (*ast.StringLiteral, error) {
	value, err := syntax.UnescapeString(leaf.Value)
	if err != nil {
		return nil, literalError(leaf, err.Error())
	}

	return &ast.StringLiteral{
		ASTBase: ast.NewASTBaseOn(leaf.Position()),
		Value:   value,
	}, nil
}
