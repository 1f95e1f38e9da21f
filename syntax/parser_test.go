package syntax

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fusion/logging"
)

func testDefaultTable(t *testing.T) *ParsingTable {
	t.Helper()

	ptable, err := DefaultParsingTable()
	if err != nil {
		t.Fatalf("failed to build the built-in parsing table: %v", err)
	}

	return ptable
}

func parse(t *testing.T, src string) *ASTBranch {
	t.Helper()

	root, err := ParseReader(testDefaultTable(t), strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", src, err)
	}

	branch, ok := root.(*ASTBranch)
	if !ok || branch.Name != "program" {
		t.Fatalf("expected a `program` branch, got %#v", root)
	}

	return branch
}

// child walks down a tree by branch indices
func child(t *testing.T, branch *ASTBranch, path ...int) *ASTBranch {
	t.Helper()

	for _, ndx := range path {
		if ndx >= branch.Len() {
			t.Fatalf("`%s` has no child %d", branch.Name, ndx)
		}

		next, ok := branch.Content[ndx].(*ASTBranch)
		if !ok {
			t.Fatalf("child %d of `%s` is not a branch", ndx, branch.Name)
		}

		branch = next
	}

	return branch
}

func TestDefaultParsingTableIsShared(t *testing.T) {
	a, b := testDefaultTable(t), testDefaultTable(t)
	if a != b {
		t.Error("expected the built-in table to be built once")
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog := parse(t, "  # nothing here\n")
	if prog.Len() != 0 {
		t.Errorf("expected no statements, got %d", prog.Len())
	}
}

func TestParseStatements(t *testing.T) {
	prog := parse(t, `
import <stdio.h>
fn add(a: int, b: int): int { return a + b; }
let x = 2;
add(2, 3);
`)

	if prog.Len() != 4 {
		t.Fatalf("expected 4 statements, got %d", prog.Len())
	}

	expected := []string{"import_dir", "func_def", "var_decl", "expr_stmt"}
	for i, name := range expected {
		stmt := child(t, prog, i)
		if stmt.Name != "statement" {
			t.Fatalf("statement %d: expected `statement`, got `%s`", i, stmt.Name)
		}

		if inner := child(t, stmt, 0); inner.Name != name {
			t.Errorf("statement %d: expected `%s`, got `%s`", i, name, inner.Name)
		}
	}
}

func TestParseOperatorChainIsFlat(t *testing.T) {
	prog := parse(t, "a - b + c * d / e;")

	addExpr := child(t, prog, 0, 0, 0, 0)
	if addExpr.Name != "add_expr" {
		t.Fatalf("expected `add_expr`, got `%s`", addExpr.Name)
	}

	// a - b + (c * d / e)
	if addExpr.Len() != 5 {
		t.Fatalf("expected 5 children in additive chain, got %d", addExpr.Len())
	}

	ops := []int{MINUS, PLUS}
	for i, op := range ops {
		leaf, ok := addExpr.Content[2*i+1].(*ASTLeaf)
		if !ok || leaf.Kind != op {
			t.Errorf("expected operator %s at %d", TokenKindName(op), 2*i+1)
		}
	}

	mulExpr := child(t, addExpr, 4)
	if mulExpr.Name != "mul_expr" || mulExpr.Len() != 5 {
		t.Errorf("expected a 5 element `mul_expr`, got `%s` with %d", mulExpr.Name, mulExpr.Len())
	}
}

func TestParseFuncCallArgs(t *testing.T) {
	prog := parse(t, "f(1, g(2), 3);")

	primary := child(t, prog, 0, 0, 0, 0, 0, 0)
	call := child(t, primary, 0)
	if call.Name != "func_call" {
		t.Fatalf("expected `func_call`, got `%s`", call.Name)
	}

	args, ok := call.FirstBranch("args")
	if !ok {
		t.Fatal("expected `args` branch")
	}

	// expr , expr , expr
	if args.Len() != 5 {
		t.Errorf("expected 5 children in args, got %d", args.Len())
	}
}

func TestParseCallWithoutArgs(t *testing.T) {
	prog := parse(t, "f();")

	call := child(t, prog, 0, 0, 0, 0, 0, 0, 0)
	if _, ok := call.FirstBranch("args"); ok {
		t.Error("expected no `args` branch")
	}

	if call.Len() != 3 {
		t.Errorf("expected `f ( )`, got %d children", call.Len())
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	for _, src := range []string{
		"let = 5;",
		"a + ;",
		"fn f( {}",
		"f(1,);",
		"return 1",
	} {
		_, err := ParseReader(testDefaultTable(t), strings.NewReader(src), nil)
		if err == nil {
			t.Errorf("%q: expected a syntax error", src)
			continue
		}

		var ce *logging.CompileError
		if !errors.As(err, &ce) {
			t.Errorf("%q: expected a compile error, got %T", src, err)
			continue
		}

		if ce.Kind != logging.LMKSyntax {
			t.Errorf("%q: expected a syntax error, got kind %d", src, ce.Kind)
		}
	}
}

func TestBuildParsingTableErrors(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
	}{
		{"empty", ""},
		{"no goal", "statement = 'IDENTIFIER' ;"},
		{"unknown terminal", "program = 'NOTATOKEN' ;"},
		{"redefined", "program = 'INTLIT' ;\nprogram = 'FLOATLIT' ;"},
	}

	for _, test := range tests {
		if _, err := BuildParsingTable(strings.NewReader(test.grammar)); err == nil {
			t.Errorf("%s: expected an error", test.name)
		}
	}
}

func TestNewParsingTableCachesTable(t *testing.T) {
	dir, err := ioutil.TempDir("", "fusion-grammar")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	grammarPath := filepath.Join(dir, "grammar.ebnf")
	if err := ioutil.WriteFile(grammarPath, []byte(GrammarSource()), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewParsingTable(grammarPath, true); err != nil {
		t.Fatalf("failed to build table: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "grammar.ptable")); err != nil {
		t.Fatalf("expected cached table: %v", err)
	}

	ptable, err := NewParsingTable(grammarPath, false)
	if err != nil {
		t.Fatalf("failed to load cached table: %v", err)
	}

	if _, err := ParseReader(ptable, strings.NewReader("f(1);"), nil); err != nil {
		t.Errorf("cached table failed to parse: %v", err)
	}
}
