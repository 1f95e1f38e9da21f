package generate

import (
	"strings"

	"fusion/ast"
)

// cPrelude is the first line of every generated translation unit
const cPrelude = "typedef char* string;"

// Generator is responsible for converting a program into a C translation unit.
// A generator accumulates the state of exactly one generation: it must not be
// reused or shared between concurrent generations.
type Generator struct {
	// imports is the list of `#include` lines in the order they were
	// encountered
	imports []string

	// decls is the list of hoisted function definitions in the order they were
	// rendered
	decls []string

	// mainBody accumulates the statements of the synthesized `main`
	mainBody strings.Builder
}

// NewGenerator creates a new generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateC renders a program as a complete C translation unit.  No text is
// returned if any part of the program can't be rendered.
func GenerateC(prog *ast.Program) (string, error) {
	return NewGenerator().Generate(prog)
}

// Generate walks the top-level statements of prog in order and assembles the
// translation unit: the prelude, the includes, the hoisted definitions and
// finally `main`.
func (g *Generator) Generate(prog *ast.Program) (string, error) {
	for _, stmt := range prog.Statements {
		text, err := g.genStatement(stmt)
		if err != nil {
			return "", err
		}

		// definitions and imports route themselves to their accumulators
		if text != "" {
			g.mainBody.WriteString(text)
			g.mainBody.WriteRune(' ')
		}
	}

	sb := strings.Builder{}
	sb.WriteString(cPrelude)
	sb.WriteRune('\n')

	for _, imp := range g.imports {
		sb.WriteString(imp)
		sb.WriteRune('\n')
	}

	for _, decl := range g.decls {
		sb.WriteString(decl)
		sb.WriteRune('\n')
	}

	sb.WriteString("int main(){ ")
	sb.WriteString(g.mainBody.String())
	sb.WriteString("return 0; }\n")

	return sb.String(), nil
}

// genStatement renders an expression as a `;` terminated statement.  Empty
// renderings stay empty.
func (g *Generator) genStatement(expr ast.Expression) (string, error) {
	text, err := g.genExpr(expr)
	if err != nil {
		return "", err
	}

	if text == "" || strings.HasSuffix(text, ";") {
		return text, nil
	}

	return text + ";", nil
}
