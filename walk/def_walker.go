package walk

import (
	"fusion/ast"
	"fusion/syntax"
)

// walkFuncDef walks a `func_def` node.  The parameters and the return type are
// optional but the body is not.
func (w *Walker) walkFuncDef(branch *syntax.ASTBranch) (*ast.FunctionDefinition, error) {
	if _, err := expectLeaf(branch, 0, syntax.FN); err != nil {
		return nil, err
	}

	name, err := expectLeaf(branch, 1, syntax.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	fd := &ast.FunctionDefinition{
		ASTBase: ast.NewASTBaseOn(branch.Position()),
		Name:    name.Value,
	}

	for i := 2; i < branch.Len(); i++ {
		switch v := branch.Content[i].(type) {
		case *syntax.ASTBranch:
			switch v.Name {
			case "params":
				if fd.Params, err = w.walkParams(v); err != nil {
					return nil, err
				}
			case "block":
				if fd.Body, err = w.walkBlock(v); err != nil {
					return nil, err
				}
			default:
				return nil, unexpectedNode(v)
			}
		case *syntax.ASTLeaf:
			switch v.Kind {
			case syntax.LPAREN, syntax.RPAREN:
			case syntax.COLON:
				typeName, err := expectLeaf(branch, i+1, syntax.IDENTIFIER)
				if err != nil {
					return nil, err
				}

				fd.ReturnType = typeName.Value
				i++
			default:
				return nil, unexpectedNode(v)
			}
		}
	}

	if fd.Body == nil {
		return nil, malformedNode(branch, "function `%s` has no body", fd.Name)
	}

	return fd, nil
}

// walkParams walks a `params` node.  The identifiers of the node are taken in
// (name, type) pairs in source order.
func (w *Walker) walkParams(branch *syntax.ASTBranch) ([]ast.Param, error) {
	idents := branch.Leaves(syntax.IDENTIFIER)
	if len(idents)%2 != 0 {
		return nil, malformedNode(branch, "parameter is missing a type")
	}

	params := make([]ast.Param, len(idents)/2)
	for i := range params {
		params[i] = ast.Param{
			Name:     idents[2*i].Value,
			TypeName: idents[2*i+1].Value,
		}
	}

	return params, nil
}
