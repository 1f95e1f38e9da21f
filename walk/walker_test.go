package walk

import (
	"errors"
	"strings"
	"testing"

	"fusion/ast"
	"fusion/logging"
	"fusion/syntax"
)

func lowerSource(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()

	ptable, err := syntax.DefaultParsingTable()
	if err != nil {
		t.Fatalf("failed to build parsing table: %v", err)
	}

	root, err := syntax.ParseReader(ptable, strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", src, err)
	}

	return Lower(root)
}

func mustLower(t *testing.T, src string) *ast.Program {
	t.Helper()

	prog, err := lowerSource(t, src)
	if err != nil {
		t.Fatalf("failed to lower %q: %v", src, err)
	}

	return prog
}

func leaf(kind int, value string) *syntax.ASTLeaf {
	return &syntax.ASTLeaf{Kind: kind, Value: value, Line: 1, Col: len(value)}
}

func branch(name string, content ...syntax.ASTNode) *syntax.ASTBranch {
	return &syntax.ASTBranch{Name: name, Content: content}
}

// intPrimary builds the parse tree of a lone integer operand
func intPrimary(value string) *syntax.ASTBranch {
	return branch("primary", leaf(syntax.INTLIT, value))
}

func TestLowerLeftFold(t *testing.T) {
	prog := mustLower(t, "a - b + c;")

	chain, ok := prog.Statements[0].(*ast.AdditiveExpression)
	if !ok {
		t.Fatalf("expected an additive expression, got %T", prog.Statements[0])
	}

	if name := chain.Left.Left.(*ast.VariableAccess).Name; name != "a" {
		t.Errorf("expected left operand `a`, got `%s`", name)
	}

	if len(chain.Terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(chain.Terms))
	}

	if chain.Terms[0].Op != ast.Subtract || chain.Terms[1].Op != ast.Add {
		t.Errorf("expected terms in source order: -, +")
	}

	if name := chain.Terms[1].Operand.Left.(*ast.VariableAccess).Name; name != "c" {
		t.Errorf("expected last operand `c`, got `%s`", name)
	}
}

func TestLowerPrecedence(t *testing.T) {
	prog := mustLower(t, "1 + 2 * 3 / 4;")

	chain := prog.Statements[0].(*ast.AdditiveExpression)
	if len(chain.Terms) != 1 {
		t.Fatalf("expected a single additive term, got %d", len(chain.Terms))
	}

	mul := chain.Terms[0].Operand
	if len(mul.Terms) != 2 || mul.Terms[0].Op != ast.Multiply || mul.Terms[1].Op != ast.Divide {
		t.Fatalf("expected `2 * 3 / 4` as one multiplicative chain")
	}

	if v := mul.Left.(*ast.IntegerLiteral).Value; v != 2 {
		t.Errorf("expected 2, got %d", v)
	}
}

func TestLowerLoneLiteralIsChain(t *testing.T) {
	prog := mustLower(t, "5;")

	chain, ok := prog.Statements[0].(*ast.AdditiveExpression)
	if !ok {
		t.Fatalf("expected an additive expression, got %T", prog.Statements[0])
	}

	if len(chain.Terms) != 0 || len(chain.Left.Terms) != 0 {
		t.Error("expected a chain with no terms")
	}

	if lit, ok := chain.Left.Left.(*ast.IntegerLiteral); !ok || lit.Value != 5 {
		t.Errorf("expected integer literal 5, got %#v", chain.Left.Left)
	}
}

func TestLowerStatements(t *testing.T) {
	prog := mustLower(t, `
import <stdio.h>
import "local.h"
fn add(a: int, b: int): int { return a + b; }
fn noop() {}
let x = 1.5;
add(2, 3);
`)

	if len(prog.Statements) != 6 {
		t.Fatalf("expected 6 statements, got %d", len(prog.Statements))
	}

	if imp := prog.Statements[0].(*ast.ImportDirective); imp.Module != "<stdio.h>" {
		t.Errorf("expected `<stdio.h>`, got `%s`", imp.Module)
	}

	if imp := prog.Statements[1].(*ast.ImportDirective); imp.Module != `"local.h"` {
		t.Errorf("expected `\"local.h\"`, got `%s`", imp.Module)
	}

	add := prog.Statements[2].(*ast.FunctionDefinition)
	if add.Name != "add" || add.ReturnType != "int" {
		t.Errorf("bad function definition: %s: %s", add.Name, add.ReturnType)
	}

	expectedParams := []ast.Param{{Name: "a", TypeName: "int"}, {Name: "b", TypeName: "int"}}
	if len(add.Params) != 2 || add.Params[0] != expectedParams[0] || add.Params[1] != expectedParams[1] {
		t.Errorf("bad parameters: %v", add.Params)
	}

	if _, ok := add.Body.Statements[0].(*ast.ReturnExpression); !ok {
		t.Errorf("expected a return in the body, got %T", add.Body.Statements[0])
	}

	noop := prog.Statements[3].(*ast.FunctionDefinition)
	if noop.ReturnType != "" || len(noop.Params) != 0 || len(noop.Body.Statements) != 0 {
		t.Errorf("expected an empty function with no return type")
	}

	decl := prog.Statements[4].(*ast.VariableDeclaration)
	if decl.Name != "x" {
		t.Errorf("expected `x`, got `%s`", decl.Name)
	}

	if f := decl.Value.(*ast.AdditiveExpression).Left.Left.(*ast.FloatLiteral); f.Value != 1.5 {
		t.Errorf("expected 1.5, got %v", f.Value)
	}

	call := prog.Statements[5].(*ast.AdditiveExpression).Left.Left.(*ast.FunctionCall)
	if call.Name != "add" || len(call.Params) != 2 {
		t.Errorf("bad call: %s with %d arguments", call.Name, len(call.Params))
	}
}

func TestLowerStringEscapes(t *testing.T) {
	tests := []struct {
		src, expected string
	}{
		{`puts("a\tb\"c\\");`, "a\tb\"c\\"},
		{`puts("it\'s");`, "it's"},
		{`puts("a\0b");`, "a\x00b"},
		{`puts("\e[0m\x41");`, "\x1b[0mA"},
	}

	for _, test := range tests {
		prog := mustLower(t, test.src)

		call := prog.Statements[0].(*ast.AdditiveExpression).Left.Left.(*ast.FunctionCall)
		str := call.Params[0].(*ast.AdditiveExpression).Left.Left.(*ast.StringLiteral)
		if str.Value != test.expected {
			t.Errorf("%s: expected %q, got %q", test.src, test.expected, str.Value)
		}
	}
}

func TestLowerParenAndBlock(t *testing.T) {
	prog := mustLower(t, "(1 + 2) * 3; { f(); };")

	mul := prog.Statements[0].(*ast.AdditiveExpression).Left
	paren, ok := mul.Left.(*ast.ParenExpression)
	if !ok {
		t.Fatalf("expected a parenthesized operand, got %T", mul.Left)
	}

	if inner := paren.Inner.(*ast.AdditiveExpression); len(inner.Terms) != 1 {
		t.Errorf("expected `1 + 2` inside parentheses")
	}

	block, ok := prog.Statements[1].(*ast.AdditiveExpression).Left.Left.(*ast.Block)
	if !ok || len(block.Statements) != 1 {
		t.Errorf("expected a block with one statement")
	}
}

func TestLowerLiteralErrors(t *testing.T) {
	for _, src := range []string{
		"2147483648;",
		"99999999999999999999;",
		"1e99;",
	} {
		_, err := lowerSource(t, src)

		var le *logging.LiteralError
		if !errors.As(err, &le) {
			t.Errorf("%q: expected a literal error, got %v", src, err)
			continue
		}

		if le.Position == nil {
			t.Errorf("%q: literal error has no position", src)
		}
	}
}

func TestLowerIntBounds(t *testing.T) {
	prog := mustLower(t, "2147483647;")

	lit := prog.Statements[0].(*ast.AdditiveExpression).Left.Left.(*ast.IntegerLiteral)
	if lit.Value != 2147483647 {
		t.Errorf("expected max int32, got %d", lit.Value)
	}
}

func TestLowerStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		root syntax.ASTNode
		rule string
	}{
		{
			"root not program",
			branch("statement"),
			"statement",
		},
		{
			"unknown statement",
			branch("program", branch("statement", branch("while_loop", leaf(syntax.IDENTIFIER, "x")))),
			"while_loop",
		},
		{
			"trailing operator",
			branch("program", branch("statement", branch("expr_stmt",
				branch("expr", branch("add_expr",
					branch("mul_expr", intPrimary("1")),
					leaf(syntax.PLUS, "+"),
				)),
				leaf(syntax.SEMICOLON, ";"),
			))),
			"add_expr",
		},
		{
			"operand where operator expected",
			branch("program", branch("statement", branch("expr_stmt",
				branch("expr", branch("add_expr",
					branch("mul_expr", intPrimary("1")),
					branch("mul_expr", intPrimary("2")),
				)),
				leaf(syntax.SEMICOLON, ";"),
			))),
			"add_expr",
		},
		{
			"wrong level operator",
			branch("program", branch("statement", branch("expr_stmt",
				branch("expr", branch("add_expr",
					branch("mul_expr", intPrimary("1"), leaf(syntax.PLUS, "+"), intPrimary("2")),
				)),
				leaf(syntax.SEMICOLON, ";"),
			))),
			"mul_expr",
		},
		{
			"function without body",
			branch("program", branch("statement", branch("func_def",
				leaf(syntax.FN, "fn"),
				leaf(syntax.IDENTIFIER, "f"),
				leaf(syntax.LPAREN, "("),
				leaf(syntax.RPAREN, ")"),
			))),
			"func_def",
		},
		{
			"parameter without type",
			branch("program", branch("statement", branch("func_def",
				leaf(syntax.FN, "fn"),
				leaf(syntax.IDENTIFIER, "f"),
				leaf(syntax.LPAREN, "("),
				branch("params", leaf(syntax.IDENTIFIER, "a")),
				leaf(syntax.RPAREN, ")"),
				branch("block", leaf(syntax.LBRACE, "{"), leaf(syntax.RBRACE, "}")),
			))),
			"params",
		},
	}

	for _, test := range tests {
		_, err := Lower(test.root)

		var se *logging.StructuralError
		if !errors.As(err, &se) {
			t.Errorf("%s: expected a structural error, got %v", test.name, err)
			continue
		}

		if se.Rule != test.rule {
			t.Errorf("%s: expected rule `%s`, got `%s`", test.name, test.rule, se.Rule)
		}
	}
}

func TestLowerEmptyProgram(t *testing.T) {
	prog, err := Lower(branch("program"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(prog.Statements) != 0 {
		t.Errorf("expected no statements, got %d", len(prog.Statements))
	}
}

// The scanner rejects bad escapes so only a hand-built tree can carry one
func TestLowerBadEscape(t *testing.T) {
	root := branch("program", branch("statement", branch("expr_stmt",
		branch("expr", branch("add_expr",
			branch("mul_expr", branch("primary", leaf(syntax.STRINGLIT, `\q`))),
		)),
		leaf(syntax.SEMICOLON, ";"),
	)))

	_, err := Lower(root)

	var le *logging.LiteralError
	if !errors.As(err, &le) {
		t.Fatalf("expected a literal error, got %v", err)
	}

	if le.Text != `\q` {
		t.Errorf("expected the literal text, got %q", le.Text)
	}
}
