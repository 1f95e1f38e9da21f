package generate

import (
	"fmt"

	"fusion/ast"
	"fusion/logging"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// LLVMGenerator converts a program into an LLVM module.  Like the C generator,
// it holds the state of a single generation.
type LLVMGenerator struct {
	// mod is the LLVM module being generated.
	mod *ir.Module

	// funcs stores the functions defined in the program by name.
	funcs map[string]*ir.Func

	// defs maps function definitions to their predeclared LLVM functions.
	defs map[*ast.FunctionDefinition]*ir.Func

	// externs stores the functions called but not defined by the program.  These
	// are assumed to come from included C headers.
	externs map[string]*ir.Func

	// enclosingFunc is function enclosing the block being compiled.
	enclosingFunc *ir.Func

	// locals stores the parameters of the enclosing function.
	locals map[string]value.Value

	// block stores the current block being generated.
	block *ir.Block

	// globalCounter is used to name interned string literals.
	globalCounter int
}

// NewLLVMGenerator creates a new LLVM generator
func NewLLVMGenerator() *LLVMGenerator {
	return &LLVMGenerator{
		mod:     ir.NewModule(),
		funcs:   make(map[string]*ir.Func),
		defs:    make(map[*ast.FunctionDefinition]*ir.Func),
		externs: make(map[string]*ir.Func),
	}
}

// GenerateLLVM converts a program into an LLVM module
func GenerateLLVM(prog *ast.Program) (*ir.Module, error) {
	return NewLLVMGenerator().Generate(prog)
}

// Generate runs the generation algorithm.  All function definitions are
// declared before any code is generated so calls may precede definitions.
func (g *LLVMGenerator) Generate(prog *ast.Program) (*ir.Module, error) {
	if err := g.declareFuncs(prog.Statements); err != nil {
		return nil, err
	}

	mainFunc := g.mod.NewFunc("main", types.I32)
	g.enclosingFunc = mainFunc
	g.locals = make(map[string]value.Value)
	g.block = mainFunc.NewBlock("entry")

	for _, stmt := range prog.Statements {
		if err := g.genStatement(stmt); err != nil {
			return nil, err
		}
	}

	if g.block.Term == nil {
		g.block.NewRet(constant.NewInt(types.I32, 0))
	}

	return g.mod, nil
}

// declareFuncs declares every function definition in stmts and in the bodies
// of those definitions.
func (g *LLVMGenerator) declareFuncs(stmts []ast.Expression) error {
	for _, stmt := range stmts {
		fd, ok := stmt.(*ast.FunctionDefinition)
		if !ok {
			continue
		}

		if err := g.declareFunc(fd); err != nil {
			return err
		}

		if fd.Body != nil {
			if err := g.declareFuncs(fd.Body.Statements); err != nil {
				return err
			}
		}
	}

	return nil
}

// declareFunc creates the LLVM function for a definition without its body
func (g *LLVMGenerator) declareFunc(fd *ast.FunctionDefinition) error {
	if fd.Name == "main" {
		return logging.NewCodeGenError(fd.Position(), "`main` is reserved for top-level statements")
	}

	if _, ok := g.funcs[fd.Name]; ok {
		return logging.NewCodeGenError(fd.Position(), "function `%s` defined multiple times", fd.Name)
	}

	retType, err := convType(fd.ReturnType, fd)
	if err != nil {
		return err
	}

	params := make([]*ir.Param, len(fd.Params))
	for i, param := range fd.Params {
		paramType, err := convType(param.TypeName, fd)
		if err != nil {
			return err
		}

		params[i] = ir.NewParam(param.Name, paramType)
	}

	llvmFunc := g.mod.NewFunc(fd.Name, retType, params...)
	g.funcs[fd.Name] = llvmFunc
	g.defs[fd] = llvmFunc
	return nil
}

// -----------------------------------------------------------------------------

// genStatement generates a single statement in the current block
func (g *LLVMGenerator) genStatement(expr ast.Expression) error {
	if g.block.Term != nil {
		return logging.NewCodeGenError(nodePosition(expr), "unreachable statement after return")
	}

	switch v := expr.(type) {
	case *ast.FunctionDefinition:
		return g.genFuncDef(v)
	case *ast.ImportDirective:
		// headers only matter to the C backend
		return nil
	case *ast.ReturnExpression:
		return g.genReturn(v)
	}

	_, err := g.genValue(expr)
	return err
}

// genFuncDef generates the body of a predeclared function
func (g *LLVMGenerator) genFuncDef(fd *ast.FunctionDefinition) error {
	if fd.Body == nil {
		return logging.NewCodeGenError(fd.Position(), "function `%s` has no body", fd.Name)
	}

	llvmFunc, ok := g.defs[fd]
	if !ok {
		// definitions nested in expressions are not predeclared
		if err := g.declareFunc(fd); err != nil {
			return err
		}

		llvmFunc = g.defs[fd]
	}

	prevFunc, prevBlock, prevLocals := g.enclosingFunc, g.block, g.locals
	defer func() {
		g.enclosingFunc, g.block, g.locals = prevFunc, prevBlock, prevLocals
	}()

	g.enclosingFunc = llvmFunc
	g.block = llvmFunc.NewBlock("entry")
	g.locals = make(map[string]value.Value)
	for _, param := range llvmFunc.Params {
		g.locals[param.Name()] = param
	}

	for _, stmt := range fd.Body.Statements {
		if err := g.genStatement(stmt); err != nil {
			return err
		}
	}

	if g.block.Term == nil {
		g.block.NewRet(zeroValue(llvmFunc.Sig.RetType))
	}

	return nil
}

// genReturn generates a return from the enclosing function
func (g *LLVMGenerator) genReturn(ret *ast.ReturnExpression) error {
	retType := g.enclosingFunc.Sig.RetType

	if ret.Value == nil {
		g.block.NewRet(zeroValue(retType))
		return nil
	}

	val, err := g.genValue(ret.Value)
	if err != nil {
		return err
	}

	if !val.Type().Equal(retType) {
		return logging.NewCodeGenError(
			ret.Position(),
			"cannot return a value of type `%s` from a function returning `%s`",
			val.Type().LLString(),
			retType.LLString(),
		)
	}

	g.block.NewRet(val)
	return nil
}

// -----------------------------------------------------------------------------

// genValue generates an expression that produces a value
func (g *LLVMGenerator) genValue(expr ast.Expression) (value.Value, error) {
	switch v := expr.(type) {
	case *ast.AdditiveExpression:
		return g.genAddExpr(v)
	case *ast.FunctionCall:
		return g.genCall(v)
	case *ast.IntegerLiteral:
		return constant.NewInt(types.I32, int64(v.Value)), nil
	case *ast.StringLiteral:
		return g.genStringLit(v.Value), nil
	case *ast.FunctionDefinition, *ast.ReturnExpression, *ast.ImportDirective:
		return nil, logging.NewCodeGenError(nodePosition(expr), "%s cannot be used as a value", ast.KindName(expr))
	}

	return nil, unsupported(expr)
}

func (g *LLVMGenerator) genAddExpr(chain *ast.AdditiveExpression) (value.Value, error) {
	if chain.Left == nil {
		return nil, logging.NewCodeGenError(chain.Position(), "additive expression has no left operand")
	}

	lhs, err := g.genMulExpr(chain.Left)
	if err != nil {
		return nil, err
	}

	for _, term := range chain.Terms {
		rhs, err := g.genMulExpr(term.Operand)
		if err != nil {
			return nil, err
		}

		lhs, err = g.genArith(term.Op.Symbol(), lhs, rhs, chain)
		if err != nil {
			return nil, err
		}
	}

	return lhs, nil
}

func (g *LLVMGenerator) genMulExpr(chain *ast.MultiplicativeExpression) (value.Value, error) {
	if chain == nil || chain.Left == nil {
		return nil, logging.NewCodeGenError(nil, "multiplicative expression has no left operand")
	}

	lhs, err := g.genPrimary(chain.Left)
	if err != nil {
		return nil, err
	}

	for _, term := range chain.Terms {
		rhs, err := g.genPrimary(term.Operand)
		if err != nil {
			return nil, err
		}

		lhs, err = g.genArith(term.Op.Symbol(), lhs, rhs, chain)
		if err != nil {
			return nil, err
		}
	}

	return lhs, nil
}

// genArith generates a single arithmetic instruction.  Both operands must have
// the same numeric type.
func (g *LLVMGenerator) genArith(op string, lhs, rhs value.Value, at ast.Node) (value.Value, error) {
	if !lhs.Type().Equal(rhs.Type()) {
		return nil, logging.NewCodeGenError(
			nodePosition(at),
			"mismatched operand types `%s` and `%s` for `%s`",
			lhs.Type().LLString(),
			rhs.Type().LLString(),
			op,
		)
	}

	switch {
	case types.IsInt(lhs.Type()):
		switch op {
		case "+":
			return g.block.NewAdd(lhs, rhs), nil
		case "-":
			return g.block.NewSub(lhs, rhs), nil
		case "*":
			return g.block.NewMul(lhs, rhs), nil
		case "/":
			return g.block.NewSDiv(lhs, rhs), nil
		}
	case types.IsFloat(lhs.Type()):
		switch op {
		case "+":
			return g.block.NewFAdd(lhs, rhs), nil
		case "-":
			return g.block.NewFSub(lhs, rhs), nil
		case "*":
			return g.block.NewFMul(lhs, rhs), nil
		case "/":
			return g.block.NewFDiv(lhs, rhs), nil
		}
	default:
		return nil, logging.NewCodeGenError(
			nodePosition(at),
			"operator `%s` is not defined for `%s`",
			op,
			lhs.Type().LLString(),
		)
	}

	return nil, logging.NewCodeGenError(nodePosition(at), "unknown operator `%s`", op)
}

func (g *LLVMGenerator) genPrimary(prim ast.Primary) (value.Value, error) {
	switch v := prim.(type) {
	case *ast.IntegerLiteral:
		return constant.NewInt(types.I32, int64(v.Value)), nil
	case *ast.FloatLiteral:
		return constant.NewFloat(types.Float, float64(v.Value)), nil
	case *ast.StringLiteral:
		return g.genStringLit(v.Value), nil
	case *ast.VariableAccess:
		if val, ok := g.locals[v.Name]; ok {
			return val, nil
		}

		return nil, logging.NewCodeGenError(v.Position(), "undefined variable `%s`", v.Name)
	case *ast.FunctionCall:
		return g.genCall(v)
	case *ast.ParenExpression:
		return g.genValue(v.Inner)
	case *ast.FunctionDefinition:
		return nil, logging.NewCodeGenError(v.Position(), "FunctionDefinition cannot be used as a value")
	}

	return nil, unsupported(prim)
}

// genCall generates a function call.  Calls to functions the program does not
// define are declared as external variadic functions returning `i32`.
func (g *LLVMGenerator) genCall(call *ast.FunctionCall) (value.Value, error) {
	args := make([]value.Value, len(call.Params))
	for i, param := range call.Params {
		arg, err := g.genValue(param)
		if err != nil {
			return nil, err
		}

		args[i] = arg
	}

	if llvmFunc, ok := g.funcs[call.Name]; ok {
		if len(args) != len(llvmFunc.Params) {
			return nil, logging.NewCodeGenError(
				call.Position(),
				"function `%s` expects %d arguments but got %d",
				call.Name,
				len(llvmFunc.Params),
				len(args),
			)
		}

		for i, arg := range args {
			if !arg.Type().Equal(llvmFunc.Params[i].Type()) {
				return nil, logging.NewCodeGenError(
					call.Position(),
					"argument %d of `%s` must be of type `%s`",
					i+1,
					call.Name,
					llvmFunc.Params[i].Type().LLString(),
				)
			}
		}

		return g.block.NewCall(llvmFunc, args...), nil
	}

	extern, ok := g.externs[call.Name]
	if !ok {
		extern = g.mod.NewFunc(call.Name, types.I32)
		extern.Sig.Variadic = true
		g.externs[call.Name] = extern
	}

	// C promotes variadic float arguments to double
	for i, arg := range args {
		if arg.Type().Equal(types.Float) {
			args[i] = g.block.NewFPExt(arg, types.Double)
		}
	}

	return g.block.NewCall(extern, args...), nil
}

// genStringLit interns a string as a private null terminated global and
// returns a pointer to its first byte.
func (g *LLVMGenerator) genStringLit(s string) value.Value {
	strBytes := g.mod.NewGlobalDef(
		fmt.Sprintf("__strlit.%d", g.globalCounter),
		constant.NewCharArrayFromString(s+"\x00"),
	)
	strBytes.Linkage = enum.LinkagePrivate
	strBytes.Immutable = true
	g.globalCounter++

	return g.block.NewBitCast(strBytes, types.I8Ptr)
}

// -----------------------------------------------------------------------------

// convType converts a source type name to its LLVM type.  An empty name is the
// default `int` return type.
func convType(name string, at ast.Node) (types.Type, error) {
	switch name {
	case "", "int":
		return types.I32, nil
	case "float":
		return types.Float, nil
	case "string":
		return types.I8Ptr, nil
	}

	return nil, logging.NewCodeGenError(nodePosition(at), "unknown type `%s`", name)
}

// zeroValue returns the implicit return value for a type
func zeroValue(t types.Type) value.Value {
	switch v := t.(type) {
	case *types.FloatType:
		return constant.NewFloat(v, 0)
	case *types.PointerType:
		return constant.NewNull(v)
	case *types.IntType:
		return constant.NewInt(v, 0)
	}

	return constant.NewInt(types.I32, 0)
}
