package generate

import (
	"strings"

	"fusion/ast"
	"fusion/logging"
)

// defaultReturnType is used for functions without a return type annotation
const defaultReturnType = "int"

// genFuncDef renders a function definition and hoists it above `main`.  The
// definition leaves no text at the point it was defined.
func (g *Generator) genFuncDef(fd *ast.FunctionDefinition) error {
	if fd.Body == nil {
		return logging.NewCodeGenError(fd.Position(), "function `%s` has no body", fd.Name)
	}

	retType := fd.ReturnType
	if retType == "" {
		retType = defaultReturnType
	}

	params := make([]string, len(fd.Params))
	for i, param := range fd.Params {
		params[i] = param.TypeName + " " + param.Name
	}

	body, err := g.genFuncBody(fd.Body)
	if err != nil {
		return err
	}

	sb := strings.Builder{}
	sb.WriteString(retType)
	sb.WriteRune(' ')
	sb.WriteString(fd.Name)
	sb.WriteRune('(')
	sb.WriteString(strings.Join(params, ", "))
	sb.WriteString(") ")
	sb.WriteString(body)

	g.decls = append(g.decls, sb.String())
	return nil
}

// genFuncBody renders the body of a function.  An empty body is `{ }`.
func (g *Generator) genFuncBody(body *ast.Block) (string, error) {
	if len(body.Statements) == 0 {
		return "{ }", nil
	}

	return g.genBlock(body)
}

// genImport records the include line of an import directive
func (g *Generator) genImport(imp *ast.ImportDirective) {
	g.imports = append(g.imports, "#include "+imp.Module)
}
