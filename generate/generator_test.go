package generate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"fusion/ast"
	"fusion/logging"
)

func intLit(n int32) *ast.IntegerLiteral {
	return &ast.IntegerLiteral{Value: n}
}

func varAccess(name string) *ast.VariableAccess {
	return &ast.VariableAccess{Name: name}
}

func mulChain(left ast.Primary) *ast.MultiplicativeExpression {
	return &ast.MultiplicativeExpression{Left: left}
}

// addChain builds an additive chain of single-operand multiplicative chains
func addChain(left ast.Primary, ops []ast.AddOp, operands ...ast.Primary) *ast.AdditiveExpression {
	chain := &ast.AdditiveExpression{Left: mulChain(left)}
	for i, operand := range operands {
		chain.Terms = append(chain.Terms, ast.AddTerm{Op: ops[i], Operand: mulChain(operand)})
	}

	return chain
}

func addFunc() *ast.FunctionDefinition {
	return &ast.FunctionDefinition{
		Name:   "add",
		Params: []ast.Param{{Name: "a", TypeName: "int"}, {Name: "b", TypeName: "int"}},
		Body: &ast.Block{Statements: []ast.Expression{
			&ast.ReturnExpression{Value: addChain(varAccess("a"), []ast.AddOp{ast.Add}, varAccess("b"))},
		}},
		ReturnType: "int",
	}
}

func generate(t *testing.T, stmts ...ast.Expression) string {
	t.Helper()

	src, err := GenerateC(&ast.Program{Statements: stmts})
	if err != nil {
		t.Fatalf("unexpected generation error: %v", err)
	}

	return src
}

// mainBody extracts the text between `int main(){` and `return 0; }`
func mainBody(t *testing.T, src string) string {
	t.Helper()

	start := strings.Index(src, "int main(){ ")
	end := strings.LastIndex(src, "return 0; }")
	if start == -1 || end == -1 || end < start {
		t.Fatalf("generated source has no main:\n%s", src)
	}

	return src[start+len("int main(){ ") : end]
}

func assertContains(t *testing.T, src, expected string) {
	t.Helper()

	if !strings.Contains(src, expected) {
		t.Errorf("expected generated source to contain %q:\n%s", expected, src)
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	src := generate(t,
		&ast.ImportDirective{Module: "<stdio.h>"},
		addFunc(),
		&ast.FunctionCall{Name: "add", Params: []ast.Expression{intLit(2), intLit(3)}},
	)

	expected := "typedef char* string;\n" +
		"#include <stdio.h>\n" +
		"int add(int a, int b) { return a+b; }\n" +
		"int main(){ add(2, 3); return 0; }\n"

	if src != expected {
		t.Errorf("unexpected translation unit:\n%s\nexpected:\n%s", src, expected)
	}
}

func TestGenerateEmptyProgram(t *testing.T) {
	src := generate(t)

	if src != "typedef char* string;\nint main(){ return 0; }\n" {
		t.Errorf("unexpected translation unit for empty program:\n%s", src)
	}
}

func TestGenerateLeftFold(t *testing.T) {
	src := generate(t, addChain(intLit(5), []ast.AddOp{ast.Subtract, ast.Add}, intLit(2), intLit(1)))

	if body := mainBody(t, src); body != "5-2+1; " {
		t.Errorf("expected `5-2+1; `, got %q", body)
	}
}

func TestGeneratePrecedence(t *testing.T) {
	// 2 + 3*4
	chain := &ast.AdditiveExpression{
		Left: mulChain(intLit(2)),
		Terms: []ast.AddTerm{{
			Op: ast.Add,
			Operand: &ast.MultiplicativeExpression{
				Left:  intLit(3),
				Terms: []ast.MulTerm{{Op: ast.Multiply, Operand: intLit(4)}},
			},
		}},
	}

	if body := mainBody(t, generate(t, chain)); body != "2+3*4; " {
		t.Errorf("expected `2+3*4; `, got %q", body)
	}
}

func TestGenerateParenthesized(t *testing.T) {
	// (1 - 2) / 3
	chain := ast.NewChain(&ast.ParenExpression{
		Inner: addChain(intLit(1), []ast.AddOp{ast.Subtract}, intLit(2)),
	})
	chain.Left.Terms = []ast.MulTerm{{Op: ast.Divide, Operand: intLit(3)}}

	if body := mainBody(t, generate(t, chain)); body != "(1-2)/3; " {
		t.Errorf("expected `(1-2)/3; `, got %q", body)
	}
}

func TestGenerateIntegerRoundTrip(t *testing.T) {
	tests := map[int32]string{
		0:             "0",
		7:             "7",
		-42:           "-42",
		math.MaxInt32: "2147483647",
		math.MinInt32: "-2147483648",
	}

	for n, expected := range tests {
		if body := mainBody(t, generate(t, intLit(n))); body != expected+"; " {
			t.Errorf("%d: expected %q, got %q", n, expected+"; ", body)
		}
	}
}

func TestGenerateNegativeOperand(t *testing.T) {
	src := generate(t, addChain(intLit(5), []ast.AddOp{ast.Subtract}, intLit(-5)))

	if body := mainBody(t, src); body != "5- -5; " {
		t.Errorf("expected `5- -5; `, got %q", body)
	}
}

func TestGenerateFloatLiterals(t *testing.T) {
	tests := map[float32]string{
		1.5:  "1.5f",
		3:    "3.0f",
		0.1:  "0.1f",
		1e20: "1e+20f",
	}

	for f, expected := range tests {
		src := generate(t, ast.NewChain(&ast.FloatLiteral{Value: f}))
		if body := mainBody(t, src); body != expected+"; " {
			t.Errorf("%v: expected %q, got %q", f, expected+"; ", body)
		}
	}

	_, err := GenerateC(&ast.Program{Statements: []ast.Expression{
		ast.NewChain(&ast.FloatLiteral{Value: float32(math.Inf(1))}),
	}})

	var cge *logging.CodeGenError
	if !errors.As(err, &cge) {
		t.Errorf("expected a code generation error for infinity, got %v", err)
	}
}

func TestGenerateStringEscaping(t *testing.T) {
	src := generate(t, &ast.StringLiteral{Value: `say "hi" \ bye`})

	if body := mainBody(t, src); body != `"say \"hi\" \\ bye"; ` {
		t.Errorf("unexpected string rendering: %q", body)
	}
}

func TestGenerateDeclarationHoisting(t *testing.T) {
	src := generate(t,
		&ast.FunctionCall{Name: "first"},
		addFunc(),
		&ast.FunctionCall{Name: "second"},
	)

	body := mainBody(t, src)
	if body != "first(); second(); " {
		t.Errorf("expected both calls in order in main, got %q", body)
	}

	if strings.Count(src, "int add(") != 1 {
		t.Errorf("expected exactly one declaration of `add`:\n%s", src)
	}

	if strings.Index(src, "int add(") > strings.Index(src, "int main(") {
		t.Errorf("expected declarations before main:\n%s", src)
	}
}

func TestGenerateNestedDefinitionHoisted(t *testing.T) {
	outer := &ast.FunctionDefinition{
		Name: "outer",
		Body: &ast.Block{Statements: []ast.Expression{
			addFunc(),
			&ast.ReturnExpression{Value: ast.NewChain(&ast.FunctionCall{Name: "add", Params: []ast.Expression{intLit(1), intLit(2)}})},
		}},
	}

	src := generate(t, outer)

	assertContains(t, src, "int add(int a, int b) { return a+b; }\n")
	assertContains(t, src, "int outer() { return add(1, 2); }\n")

	// the inner definition is complete before the outer one
	if strings.Index(src, "int add(") > strings.Index(src, "int outer(") {
		t.Errorf("expected inner definition to be hoisted first:\n%s", src)
	}
}

func TestGenerateEmptyFunction(t *testing.T) {
	src := generate(t, &ast.FunctionDefinition{Name: "noop", Body: &ast.Block{}, ReturnType: "float"})

	assertContains(t, src, "float noop() { }\n")
}

func TestGenerateImportIsolation(t *testing.T) {
	src := generate(t,
		&ast.FunctionCall{Name: "a"},
		&ast.ImportDirective{Module: `"local.h"`},
		&ast.FunctionCall{Name: "b"},
	)

	if strings.Count(src, "#include") != 1 {
		t.Errorf("expected exactly one include:\n%s", src)
	}

	assertContains(t, src, "#include \"local.h\"\n")

	if body := mainBody(t, src); body != "a(); b(); " {
		t.Errorf("expected import to contribute nothing to main, got %q", body)
	}
}

func TestGenerateBlockOperand(t *testing.T) {
	block := &ast.Block{Statements: []ast.Expression{
		&ast.FunctionCall{Name: "f"},
		&ast.ReturnExpression{Value: intLit(1)},
	}}

	if body := mainBody(t, generate(t, ast.NewChain(block))); body != "{ f(); return 1; }; " {
		t.Errorf("unexpected block rendering: %q", body)
	}
}

func TestGenerateUnsupportedConstructs(t *testing.T) {
	tests := []struct {
		stmt      ast.Expression
		construct string
	}{
		{&ast.VariableDeclaration{Name: "x", Value: intLit(1)}, "VariableDeclaration"},
		{ast.NewChain(&ast.StructInit{Name: "point"}), "StructInit"},
		{nil, "<nil>"},
	}

	for _, test := range tests {
		src, err := GenerateC(&ast.Program{Statements: []ast.Expression{
			&ast.FunctionCall{Name: "before"},
			test.stmt,
		}})

		var ue *logging.UnsupportedConstructError
		if !errors.As(err, &ue) {
			t.Errorf("%s: expected an unsupported construct error, got %v", test.construct, err)
			continue
		}

		if ue.Construct != test.construct {
			t.Errorf("expected construct %s, got %s", test.construct, ue.Construct)
		}

		if src != "" {
			t.Errorf("%s: expected no partial output, got %q", test.construct, src)
		}
	}
}

func TestGenerateFunctionWithoutBody(t *testing.T) {
	_, err := GenerateC(&ast.Program{Statements: []ast.Expression{&ast.FunctionDefinition{Name: "f"}}})

	var cge *logging.CodeGenError
	if !errors.As(err, &cge) {
		t.Errorf("expected a code generation error, got %v", err)
	}
}

func TestGeneratorsAreIndependent(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Expression{addFunc(), &ast.ImportDirective{Module: "<math.h>"}}}

	first, err := GenerateC(prog)
	if err != nil {
		t.Fatal(err)
	}

	second, err := GenerateC(prog)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("expected repeated generations to match:\n%s\n%s", first, second)
	}
}

func TestGenerateNilNodes(t *testing.T) {
	tests := []struct {
		name string
		stmt ast.Expression
	}{
		{"return of nil chain", &ast.ReturnExpression{Value: (*ast.AdditiveExpression)(nil)}},
		{"nil chain", (*ast.AdditiveExpression)(nil)},
		{"nil call", (*ast.FunctionCall)(nil)},
		{"nil definition", (*ast.FunctionDefinition)(nil)},
		{"nil operand", &ast.AdditiveExpression{Left: mulChain((*ast.FunctionCall)(nil))}},
		{"nil argument", &ast.FunctionCall{Name: "f", Params: []ast.Expression{(*ast.AdditiveExpression)(nil)}}},
		{"chain without operand", &ast.AdditiveExpression{}},
	}

	for _, test := range tests {
		src, err := GenerateC(&ast.Program{Statements: []ast.Expression{test.stmt}})

		var cge *logging.CodeGenError
		if !errors.As(err, &cge) {
			t.Errorf("%s: expected a code generation error, got %v", test.name, err)
			continue
		}

		if src != "" {
			t.Errorf("%s: expected no output, got %q", test.name, src)
		}
	}
}

func TestGenerateDefinitionAsValue(t *testing.T) {
	def := &ast.FunctionDefinition{Name: "f", Body: &ast.Block{}}

	tests := []struct {
		name string
		stmt ast.Expression
	}{
		{"add operand", addChain(intLit(1), []ast.AddOp{ast.Add}, def)},
		{"add left", addChain(def, []ast.AddOp{ast.Subtract}, intLit(1))},
		{"mul operand", &ast.AdditiveExpression{Left: &ast.MultiplicativeExpression{
			Left:  intLit(2),
			Terms: []ast.MulTerm{{Op: ast.Multiply, Operand: def}},
		}}},
		{"argument", &ast.FunctionCall{Name: "g", Params: []ast.Expression{ast.NewChain(def)}}},
		{"parenthesized", ast.NewChain(&ast.ParenExpression{Inner: ast.NewChain(def)})},
		{"returned", &ast.ReturnExpression{Value: ast.NewChain(def)}},
	}

	for _, test := range tests {
		_, err := GenerateC(&ast.Program{Statements: []ast.Expression{test.stmt}})

		var cge *logging.CodeGenError
		if !errors.As(err, &cge) {
			t.Errorf("%s: expected a code generation error, got %v", test.name, err)
			continue
		}

		if !strings.Contains(cge.Error(), "FunctionDefinition cannot be used as a value") {
			t.Errorf("%s: unexpected message %q", test.name, cge.Error())
		}
	}

	// a definition that is a whole statement is hoisted as usual
	src := generate(t, ast.NewChain(def))
	assertContains(t, src, "int f() { }\n")
}
