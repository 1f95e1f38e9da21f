package ast

import "fusion/logging"

// Node is the abstract interface for all AST nodes.
type Node interface {
	// Position returns the text position spanned by the node.  Nodes built
	// outside of lowering may have no position.
	Position() *logging.TextPosition
}

// ASTBase is a utility base struct for all AST nodes.
type ASTBase struct {
	pos *logging.TextPosition
}

// NewASTBaseOn creates a new AST base with the given position.
func NewASTBaseOn(pos *logging.TextPosition) ASTBase {
	return ASTBase{pos: pos}
}

func (ab ASTBase) Position() *logging.TextPosition {
	return ab.pos
}

// Expression is a node which can appear as a statement: at the top level of a
// program or inside of a block.
type Expression interface {
	Node

	expressionNode()
}

// Primary is a node which can appear as an operand of a multiplicative chain.
type Primary interface {
	Node

	primaryNode()
}

// Program is the root of the AST: the ordered top-level expressions of a file.
type Program struct {
	Statements []Expression
}

// Block is a nested, ordered statement list.
type Block struct {
	ASTBase

	Statements []Expression
}

func (*Block) primaryNode() {}

// KindName returns the name of the kind of the given node.  It is used to name
// constructs in diagnostics.
func KindName(n Node) string {
	switch n.(type) {
	case *VariableDeclaration:
		return "VariableDeclaration"
	case *AdditiveExpression:
		return "AdditiveExpression"
	case *MultiplicativeExpression:
		return "MultiplicativeExpression"
	case *FunctionDefinition:
		return "FunctionDefinition"
	case *ReturnExpression:
		return "ReturnExpression"
	case *ImportDirective:
		return "ImportDirective"
	case *FunctionCall:
		return "FunctionCall"
	case *IntegerLiteral:
		return "IntegerLiteral"
	case *FloatLiteral:
		return "FloatLiteral"
	case *StringLiteral:
		return "StringLiteral"
	case *VariableAccess:
		return "VariableAccess"
	case *StructInit:
		return "StructInit"
	case *Block:
		return "Block"
	case *ParenExpression:
		return "ParenExpression"
	case nil:
		return "<nil>"
	default:
		return "<unknown>"
	}
}
