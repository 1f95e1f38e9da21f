package walk

import (
	"fmt"

	"fusion/logging"
	"fusion/syntax"
)

// LogError logs an error produced while walking in the current file
func (w *Walker) LogError(err error) {
	logging.LogError(w.lctx, err)
}

// unexpectedNode creates a structural error for a node that can't appear where
// it was found
func unexpectedNode(node syntax.ASTNode) error {
	switch v := node.(type) {
	case *syntax.ASTBranch:
		return &logging.StructuralError{Rule: v.Name, Position: v.Position()}
	case *syntax.ASTLeaf:
		return &logging.StructuralError{
			Rule:     syntax.TokenKindName(v.Kind),
			Message:  fmt.Sprintf("unexpected token `%s`", v.Value),
			Position: v.Position(),
		}
	default:
		return &logging.StructuralError{Rule: "<nil>", Message: "missing node"}
	}
}

// malformedNode creates a structural error for a branch whose children are not
// what its lowering expects
func malformedNode(branch *syntax.ASTBranch, msg string, args ...interface{}) error {
	return &logging.StructuralError{
		Rule:     branch.Name,
		Message:  fmt.Sprintf(msg, args...),
		Position: branch.Position(),
	}
}

// literalError creates an error for a literal whose text can't be converted
func literalError(leaf *syntax.ASTLeaf, msg string) error {
	return &logging.LiteralError{
		Text:     leaf.Value,
		Message:  msg,
		Position: leaf.Position(),
	}
}
