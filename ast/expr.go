package ast

// AddOp is an additive operator
type AddOp int

// Enumeration of additive operators
const (
	Add AddOp = iota
	Subtract
)

// Symbol returns the source (and C) text of the operator
func (op AddOp) Symbol() string {
	if op == Subtract {
		return "-"
	}

	return "+"
}

// MulOp is a multiplicative operator
type MulOp int

// Enumeration of multiplicative operators
const (
	Multiply MulOp = iota
	Divide
)

// Symbol returns the source (and C) text of the operator
func (op MulOp) Symbol() string {
	if op == Divide {
		return "/"
	}

	return "*"
}

// AdditiveExpression is a left-fold chain of multiplicative operands: `Left
// op0 term0 op1 term1 ...`.  A single operand is a chain with no terms.
type AdditiveExpression struct {
	ASTBase

	Left  *MultiplicativeExpression
	Terms []AddTerm
}

// AddTerm is an operator and the operand that follows it in an additive chain
type AddTerm struct {
	Op      AddOp
	Operand *MultiplicativeExpression
}

func (*AdditiveExpression) expressionNode() {}

// MultiplicativeExpression is a left-fold chain of primary operands.  It binds
// tighter than an additive chain because it only ever appears as one of its
// operands.
type MultiplicativeExpression struct {
	ASTBase

	Left  Primary
	Terms []MulTerm
}

// MulTerm is an operator and the operand that follows it in a multiplicative
// chain
type MulTerm struct {
	Op      MulOp
	Operand Primary
}

// NewChain wraps a single primary in an additive chain with no terms
func NewChain(p Primary) *AdditiveExpression {
	mul := &MultiplicativeExpression{ASTBase: NewASTBaseOn(p.Position()), Left: p}
	return &AdditiveExpression{ASTBase: mul.ASTBase, Left: mul}
}

// -----------------------------------------------------------------------------

// IntegerLiteral is a 32 bit signed integer literal
type IntegerLiteral struct {
	ASTBase

	Value int32
}

func (*IntegerLiteral) expressionNode() {}
func (*IntegerLiteral) primaryNode()    {}

// FloatLiteral is a 32 bit floating point literal
type FloatLiteral struct {
	ASTBase

	Value float32
}

func (*FloatLiteral) primaryNode() {}

// StringLiteral is a string literal.  Value holds the text of the string with
// all escape sequences already interpreted.
type StringLiteral struct {
	ASTBase

	Value string
}

func (*StringLiteral) expressionNode() {}
func (*StringLiteral) primaryNode()    {}

// VariableAccess is a reference to a named value.  Names are not resolved.
type VariableAccess struct {
	ASTBase

	Name string
}

func (*VariableAccess) primaryNode() {}

// FunctionCall calls a function by name.  Arguments are in evaluation order.
type FunctionCall struct {
	ASTBase

	Name   string
	Params []Expression
}

func (*FunctionCall) expressionNode() {}
func (*FunctionCall) primaryNode()    {}

// StructInit is reserved for struct initializers.  It has no lowering or
// rendering yet.
type StructInit struct {
	ASTBase

	Name   string
	Fields []Expression
}

func (*StructInit) primaryNode() {}

// ParenExpression is a parenthesized expression used as an operand
type ParenExpression struct {
	ASTBase

	Inner Expression
}

func (*ParenExpression) primaryNode() {}
