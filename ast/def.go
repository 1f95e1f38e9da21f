package ast

// FunctionDefinition defines a named function.  Type names are opaque: they
// are copied into generated code as written.
type FunctionDefinition struct {
	ASTBase

	Name   string
	Params []Param
	Body   *Block

	// ReturnType is empty if the function has no return type annotation
	ReturnType string
}

func (*FunctionDefinition) expressionNode() {}
func (*FunctionDefinition) primaryNode()    {}

// Param is a single function parameter
type Param struct {
	Name     string
	TypeName string
}

// ReturnExpression returns a value from the enclosing function
type ReturnExpression struct {
	ASTBase

	Value Expression
}

func (*ReturnExpression) expressionNode() {}

// ImportDirective embeds a C header include.  Module is the header name as
// written, including its quotes or angle brackets.
type ImportDirective struct {
	ASTBase

	Module string
}

func (*ImportDirective) expressionNode() {}

// VariableDeclaration binds a name to a value: `let name = value;`
type VariableDeclaration struct {
	ASTBase

	Name  string
	Value Expression
}

func (*VariableDeclaration) expressionNode() {}
