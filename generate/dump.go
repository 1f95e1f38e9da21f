package generate

import (
	"strings"

	"fusion/ast"

	"github.com/kr/pretty"
)

// DumpAST renders a program as an indented tree of its nodes.  It is used for
// debugging lowering and never fed to a compiler.
func DumpAST(prog *ast.Program) string {
	sb := strings.Builder{}

	for i, stmt := range prog.Statements {
		pretty.Fprintf(&sb, "[%d] %s: %# v\n", i, ast.KindName(stmt), stmt)
	}

	return sb.String()
}
