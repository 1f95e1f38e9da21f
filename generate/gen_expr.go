package generate

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"fusion/ast"
	"fusion/logging"
)

// genExpr renders an expression at its current position.  Definitions and
// imports render as nothing since they are hoisted.
func (g *Generator) genExpr(expr ast.Expression) (string, error) {
	if expr != nil && isNilNode(expr) {
		return "", missingNode(expr)
	}

	switch v := expr.(type) {
	case *ast.AdditiveExpression:
		return g.genAddExpr(v)
	case *ast.FunctionCall:
		return g.genFuncCall(v)
	case *ast.IntegerLiteral:
		return genIntLit(v), nil
	case *ast.StringLiteral:
		return quoteC(v.Value), nil
	case *ast.ReturnExpression:
		return g.genReturn(v)
	case *ast.FunctionDefinition:
		return "", g.genFuncDef(v)
	case *ast.ImportDirective:
		g.genImport(v)
		return "", nil
	}

	return "", unsupported(expr)
}

// genAddExpr renders an additive chain in source order: `a-b+c`
func (g *Generator) genAddExpr(chain *ast.AdditiveExpression) (string, error) {
	if chain.Left == nil {
		return "", logging.NewCodeGenError(nodePosition(chain), "additive expression has no left operand")
	}

	sb := strings.Builder{}

	left, err := g.genMulExpr(chain.Left)
	if err != nil {
		return "", err
	}

	if len(chain.Terms) > 0 {
		if err := requireValue(left, chain.Left); err != nil {
			return "", err
		}
	}
	sb.WriteString(left)

	for _, term := range chain.Terms {
		operand, err := g.genMulExpr(term.Operand)
		if err != nil {
			return "", err
		}

		if err := requireValue(operand, term.Operand); err != nil {
			return "", err
		}

		writeTerm(&sb, term.Op.Symbol(), operand)
	}

	return sb.String(), nil
}

// genMulExpr renders a multiplicative chain in source order: `a*b/c`
func (g *Generator) genMulExpr(chain *ast.MultiplicativeExpression) (string, error) {
	if chain == nil || chain.Left == nil {
		return "", logging.NewCodeGenError(nil, "multiplicative expression has no left operand")
	}

	sb := strings.Builder{}

	left, err := g.genPrimary(chain.Left)
	if err != nil {
		return "", err
	}

	if len(chain.Terms) > 0 {
		if err := requireValue(left, chain.Left); err != nil {
			return "", err
		}
	}
	sb.WriteString(left)

	for _, term := range chain.Terms {
		operand, err := g.genPrimary(term.Operand)
		if err != nil {
			return "", err
		}

		if err := requireValue(operand, term.Operand); err != nil {
			return "", err
		}

		writeTerm(&sb, term.Op.Symbol(), operand)
	}

	return sb.String(), nil
}

// writeTerm writes an operator and its right operand.  A negative operand after
// `-` is separated by a space so the two don't read as `--`.
func writeTerm(sb *strings.Builder, op, operand string) {
	sb.WriteString(op)

	if op == "-" && strings.HasPrefix(operand, "-") {
		sb.WriteRune(' ')
	}

	sb.WriteString(operand)
}

// genPrimary renders an operand of a multiplicative chain.  A definition
// renders as nothing which is only valid when it is the whole statement.
func (g *Generator) genPrimary(prim ast.Primary) (string, error) {
	if prim != nil && isNilNode(prim) {
		return "", missingNode(prim)
	}

	switch v := prim.(type) {
	case *ast.IntegerLiteral:
		return genIntLit(v), nil
	case *ast.FloatLiteral:
		return genFloatLit(v)
	case *ast.StringLiteral:
		return quoteC(v.Value), nil
	case *ast.VariableAccess:
		return v.Name, nil
	case *ast.FunctionCall:
		return g.genFuncCall(v)
	case *ast.Block:
		return g.genBlock(v)
	case *ast.FunctionDefinition:
		return "", g.genFuncDef(v)
	case *ast.ParenExpression:
		inner, err := g.genExpr(v.Inner)
		if err != nil {
			return "", err
		}

		if err := requireValue(inner, v.Inner); err != nil {
			return "", err
		}

		return "(" + inner + ")", nil
	}

	return "", unsupported(prim)
}

// genFuncCall renders a function call: `name(a, b)`
func (g *Generator) genFuncCall(call *ast.FunctionCall) (string, error) {
	args := make([]string, len(call.Params))
	for i, param := range call.Params {
		arg, err := g.genExpr(param)
		if err != nil {
			return "", err
		}

		if err := requireValue(arg, param); err != nil {
			return "", err
		}

		args[i] = arg
	}

	return call.Name + "(" + strings.Join(args, ", ") + ")", nil
}

// genReturn renders a return statement.  The rendering includes its own `;`.
func (g *Generator) genReturn(ret *ast.ReturnExpression) (string, error) {
	if ret.Value == nil {
		return "return;", nil
	}

	value, err := g.genExpr(ret.Value)
	if err != nil {
		return "", err
	}

	if err := requireValue(value, ret.Value); err != nil {
		return "", err
	}

	return "return " + value + ";", nil
}

// genBlock renders a nested statement list: `{ a; b; }`
func (g *Generator) genBlock(block *ast.Block) (string, error) {
	sb := strings.Builder{}
	sb.WriteString("{ ")

	for _, stmt := range block.Statements {
		text, err := g.genStatement(stmt)
		if err != nil {
			return "", err
		}

		if text != "" {
			sb.WriteString(text)
			sb.WriteRune(' ')
		}
	}

	sb.WriteRune('}')
	return sb.String(), nil
}

// -----------------------------------------------------------------------------

func genIntLit(lit *ast.IntegerLiteral) string {
	return strconv.FormatInt(int64(lit.Value), 10)
}

// genFloatLit renders a float literal with the shortest text that reads back
// as the same float: `1.5f`, `3.0f`, `1e+20f`
func genFloatLit(lit *ast.FloatLiteral) (string, error) {
	f := float64(lit.Value)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", logging.NewCodeGenError(lit.Position(), "float literal is not finite")
	}

	text := strconv.FormatFloat(f, 'g', -1, 32)
	if !strings.ContainsAny(text, ".e") {
		text += ".0"
	}

	return text + "f", nil
}

// unsupported creates the error for a node that has no rendering
func unsupported(n ast.Node) error {
	return &logging.UnsupportedConstructError{
		Construct: ast.KindName(n),
		Position:  nodePosition(n),
	}
}

// requireValue rejects an operand that rendered as nothing, ie. a hoisted
// definition or an import, where C needs a value
func requireValue(text string, n ast.Node) error {
	if text != "" {
		return nil
	}

	return logging.NewCodeGenError(nodePosition(n), "%s cannot be used as a value", ast.KindName(valueNode(n)))
}

// valueNode unwraps the chains around a lone operand
func valueNode(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.AdditiveExpression:
		if v != nil && v.Left != nil && len(v.Terms) == 0 {
			return valueNode(v.Left)
		}
	case *ast.MultiplicativeExpression:
		if v != nil && v.Left != nil && len(v.Terms) == 0 {
			return valueNode(v.Left)
		}
	}

	return n
}

// missingNode creates the error for a typed nil node
func missingNode(n ast.Node) error {
	return logging.NewCodeGenError(nil, "missing %s", ast.KindName(n))
}

// isNilNode reports whether n is nil.  A typed nil pointer still satisfies the
// node interface so it is checked for explicitly.
func isNilNode(n ast.Node) bool {
	if n == nil {
		return true
	}

	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// nodePosition returns the position of n or nil if n is nil
func nodePosition(n ast.Node) *logging.TextPosition {
	if isNilNode(n) {
		return nil
	}

	return n.Position()
}
