package llvmgen

import (
	"fmt"

	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/token"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Error is a construct the generator cannot lower. Analyzed programs never
// produce one.
type Error struct {
	Message string
	Token   token.Token
}

func (e *Error) ErrorToken() token.Token { return e.Token }

func (e *Error) Error() string {
	return fmt.Sprintf("codegen-error: %d:%d: %s", e.Token.Pos.Line, e.Token.Pos.Column, e.Message)
}

func genError(t token.Token, format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...), Token: t}
}

// printf format constants, shared by every print in a module.
const (
	printfString  = "PRINTF_STRING"
	printfInteger = "PRINTF_INTEGER"
	printfFloat   = "PRINTF_FLOAT"
)

var printfFormats = map[string]string{
	printfString:  "%s\n",
	printfInteger: "%d\n",
	printfFloat:   "%f\n",
}

type generator struct {
	module *ir.Module
	entry  string

	printf     *ir.Func
	signatures map[string]*ast.FunctionSignature
	funcs      map[string]*ir.Func
	formats    map[string]*llvmStr
	strings    map[string]*llvmStr
}

// function is the state of the body being emitted.
type function struct {
	fun       *ir.Func
	block     *ir.Block
	signature *ast.FunctionSignature

	params map[string]*ir.Param
	locals map[string]*ir.InstAlloca
}

type Option func(*generator)

func WithEntry(name string) Option {
	return func(g *generator) {
		g.entry = name
	}
}

func WithSourceFilename(path string) Option {
	return func(g *generator) {
		g.module.SourceFilename = path
	}
}

func llvmType(t ast.BuiltinType) (types.Type, bool) {
	switch t {
	case ast.Int:
		return types.I32, true
	case ast.Float:
		return types.Double, true
	case ast.Bool:
		return types.I1, true
	case ast.String:
		return types.I8Ptr, true
	case ast.Void:
		return types.Void, true
	}
	return nil, false
}

type llvmStr struct {
	raw string
	def *ir.Global
}

func (l *llvmStr) gep() constant.Constant {
	return constant.NewGetElementPtr(
		types.NewArray(uint64(len(l.raw)), types.I8),
		l.def,
		constant.NewInt(types.I32, 0),
		constant.NewInt(types.I32, 0),
	)
}

func (g *generator) createLLVMStr(name, raw string) *llvmStr {
	l := llvmStr{raw: raw}
	l.def = g.module.NewGlobalDef(name, constant.NewCharArrayFromString(raw))
	l.def.Linkage = enum.LinkagePrivate
	l.def.Immutable = true
	return &l
}

func (g *generator) format(name string) *llvmStr {
	if l, ok := g.formats[name]; ok {
		return l
	}

	l := g.createLLVMStr(name, printfFormats[name]+"\x00")
	g.formats[name] = l
	return l
}

func (g *generator) stringLiteral(s string) *llvmStr {
	if l, ok := g.strings[s]; ok {
		return l
	}

	l := g.createLLVMStr("", s+"\x00")
	g.strings[s] = l
	return l
}

// genFunDecl declares the function for signature. It is memoized by name so
// forward declarations and definitions share one *ir.Func.
func (g *generator) genFunDecl(signature *ast.FunctionSignature) (*ir.Func, error) {
	name := signature.Name()
	if fun, ok := g.funcs[name]; ok {
		return fun, nil
	}

	irParams := []*ir.Param{}
	for _, param := range signature.Parameters {
		typ, ok := llvmType(param.Type())
		if !ok || typ == types.Void {
			return nil, genError(param.Identifier, "parameter `%s` has no storable type", param.Name())
		}
		irParams = append(irParams, ir.NewParam(param.Name(), typ))
	}

	retType, ok := llvmType(signature.ReturnType)
	if !ok {
		return nil, genError(signature.Identifier, "function `%s` has no return type", name)
	}
	if name == g.entry {
		retType = types.Void
	}

	fun := g.module.NewFunc(name, retType, irParams...)
	g.funcs[name] = fun
	return fun, nil
}

func (g *generator) genFunction(decl *ast.FunctionDeclaration) error {
	signature := decl.Signature
	if current, ok := g.signatures[signature.Name()]; ok && current != signature {
		// A later declaration with the same name replaced this one.
		signature = current
	}

	fun, err := g.genFunDecl(signature)
	if err != nil {
		return err
	}

	if len(fun.Blocks) > 0 {
		return genError(signature.Identifier, "function `%s` is defined more than once", signature.Name())
	}

	if signature.Name() != g.entry {
		fun.Linkage = enum.LinkagePrivate
	}

	f := &function{
		fun:       fun,
		block:     fun.NewBlock(""),
		signature: signature,
		params:    make(map[string]*ir.Param, len(fun.Params)),
		locals:    make(map[string]*ir.InstAlloca),
	}
	for _, param := range fun.Params {
		f.params[param.Name()] = param
	}

	if err := g.genBody(f, decl.Body); err != nil {
		return err
	}

	if f.block.Term == nil && (signature.ReturnType == ast.Void || signature.Name() == g.entry) {
		f.block.NewRet(nil)
	}

	return nil
}

// genBody emits statements into the current block until one of them
// terminates it.
func (g *generator) genBody(f *function, body []ast.Expression) error {
	for _, expr := range body {
		if err := g.genStatement(f, expr); err != nil {
			return err
		}
		if f.block.Term != nil {
			break
		}
	}
	return nil
}

func (g *generator) genStatement(f *function, expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.Assignment:
		v, err := g.genExpression(f, e.Value)
		if err != nil {
			return err
		}

		alloca := f.block.NewAlloca(v.Type())
		f.block.NewStore(v, alloca)
		f.locals[e.Variable.Name()] = alloca
	case *ast.PrintStatement:
		return g.genPrint(f, e)
	case *ast.ReturnStatement:
		v, err := g.genExpression(f, e.Value)
		if err != nil {
			return err
		}

		if v.Type().Equal(types.Void) || f.fun.Sig.RetType.Equal(types.Void) {
			f.block.NewRet(nil)
		} else {
			f.block.NewRet(v)
		}
	case *ast.IfStatement:
		return g.genIf(f, e)
	case *ast.VariableDeclaration:
		return genError(e.Identifier, "variable `%s` is declared without a value", e.Name())
	case *ast.FunctionDeclaration, *ast.FunctionSignature:
		return genError(e.ErrorToken(), "nested functions are not supported")
	default:
		_, err := g.genExpression(f, expr)
		return err
	}

	return nil
}

func (g *generator) genIf(f *function, e *ast.IfStatement) error {
	condition, err := g.genExpression(f, e.Condition)
	if err != nil {
		return err
	}

	if !condition.Type().Equal(types.I1) {
		return genError(e.IfToken, "condition has type %s", condition.Type())
	}

	thenBlock := f.fun.NewBlock("")
	mergeBlock := f.fun.NewBlock("")
	f.block.NewCondBr(condition, thenBlock, mergeBlock)

	f.block = thenBlock
	if err := g.genBody(f, e.Body); err != nil {
		return err
	}
	if f.block.Term == nil {
		f.block.NewBr(mergeBlock)
	}

	f.block = mergeBlock
	return nil
}

func (g *generator) genPrint(f *function, e *ast.PrintStatement) error {
	if len(e.Arguments) == 0 {
		return genError(e.PrintToken, "print requires an argument")
	}

	v, err := g.genExpression(f, e.Arguments[0])
	if err != nil {
		return err
	}

	var format *llvmStr
	switch {
	case v.Type().Equal(types.I1):
		v = f.block.NewZExt(v, types.I32)
		format = g.format(printfInteger)
	case v.Type().Equal(types.I32):
		format = g.format(printfInteger)
	case v.Type().Equal(types.Double):
		format = g.format(printfFloat)
	case v.Type().Equal(types.I8Ptr):
		format = g.format(printfString)
	default:
		return genError(e.PrintToken, "cannot print a value of type %s", v.Type())
	}

	f.block.NewCall(g.printf, format.gep(), v)
	return nil
}

func (g *generator) genExpression(f *function, expr ast.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return constant.NewInt(types.I32, int64(e.Value)), nil
	case *ast.FloatLiteral:
		return constant.NewFloat(types.Double, e.Value), nil
	case *ast.BoolLiteral:
		return constant.NewBool(e.Value), nil
	case *ast.StringLiteral:
		return g.stringLiteral(e.Value).gep(), nil
	case *ast.PropertyAccess:
		name := e.Identifier.Lexeme
		if param, ok := f.params[name]; ok {
			return param, nil
		}
		if local, ok := f.locals[name]; ok {
			return f.block.NewLoad(local.ElemType, local), nil
		}
		return nil, genError(e.Identifier, "`%s` is not defined", name)
	case *ast.BinaryOperation:
		return g.genBinaryOperation(f, e)
	case *ast.FunctionCall:
		return g.genCall(f, e)
	}

	return nil, genError(expr.ErrorToken(), "cannot lower %T as a value", expr)
}

func (g *generator) genBinaryOperation(f *function, e *ast.BinaryOperation) (value.Value, error) {
	lhs, err := g.genExpression(f, e.Left)
	if err != nil {
		return nil, err
	}

	rhs, err := g.genExpression(f, e.Right)
	if err != nil {
		return nil, err
	}

	if !lhs.Type().Equal(rhs.Type()) {
		return nil, genError(e.Operator, "operands have types %s and %s", lhs.Type(), rhs.Type())
	}

	b := f.block
	switch {
	case lhs.Type().Equal(types.I32):
		switch e.Operator.Type {
		case token.PLUS:
			return b.NewAdd(lhs, rhs), nil
		case token.MINUS:
			return b.NewSub(lhs, rhs), nil
		case token.STAR:
			return b.NewMul(lhs, rhs), nil
		case token.SLASH:
			return b.NewSDiv(lhs, rhs), nil
		}
	case lhs.Type().Equal(types.Double):
		switch e.Operator.Type {
		case token.PLUS:
			return b.NewFAdd(lhs, rhs), nil
		case token.MINUS:
			return b.NewFSub(lhs, rhs), nil
		case token.STAR:
			return b.NewFMul(lhs, rhs), nil
		case token.SLASH:
			return b.NewFDiv(lhs, rhs), nil
		}
	default:
		return nil, genError(e.Operator, "operator '%s' on non-numeric type %s", e.Operator.Lexeme, lhs.Type())
	}

	return nil, genError(e.Operator, "unknown operator '%s'", e.Operator.Lexeme)
}

func (g *generator) genCall(f *function, e *ast.FunctionCall) (value.Value, error) {
	name := e.Identifier.Lexeme

	signature, ok := g.signatures[name]
	if !ok {
		return nil, genError(e.Identifier, "call to undeclared function `%s`", name)
	}

	callee, err := g.genFunDecl(signature)
	if err != nil {
		return nil, err
	}

	if len(e.Arguments) != len(callee.Params) {
		return nil, genError(e.Identifier, "`%s` takes %d arguments, got %d", name, len(callee.Params), len(e.Arguments))
	}

	args := make([]value.Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		v, err := g.genExpression(f, arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	return f.block.NewCall(callee, args...), nil
}

// Gen lowers an analyzed program to an LLVM module. Forward declarations
// become external functions; every definition other than the entry
// function is private to the module.
func Gen(program []ast.Expression, opts ...Option) (*Module, error) {
	g := &generator{
		module:     ir.NewModule(),
		entry:      ast.EntryFunctionName,
		signatures: make(map[string]*ast.FunctionSignature),
		funcs:      make(map[string]*ir.Func),
		formats:    make(map[string]*llvmStr),
		strings:    make(map[string]*llvmStr),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.printf = g.module.NewFunc("printf", types.I32, ir.NewParam("", types.I8Ptr))
	g.printf.Sig.Variadic = true

	for _, expr := range program {
		switch e := expr.(type) {
		case *ast.FunctionSignature:
			g.signatures[e.Name()] = e
		case *ast.FunctionDeclaration:
			g.signatures[e.Signature.Name()] = e.Signature
		}
	}

	for _, expr := range program {
		if signature, ok := expr.(*ast.FunctionSignature); ok {
			if _, err := g.genFunDecl(g.signatures[signature.Name()]); err != nil {
				return nil, err
			}
		}
	}

	for _, expr := range program {
		switch e := expr.(type) {
		case *ast.FunctionDeclaration:
			if err := g.genFunction(e); err != nil {
				return nil, err
			}
		case *ast.FunctionSignature:
		default:
			return nil, genError(expr.ErrorToken(), "unexpected top-level %T", expr)
		}
	}

	return &Module{module: g.module}, nil
}
