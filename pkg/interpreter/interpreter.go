package interpreter

import (
	"fmt"
	"io"
	"os"

	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/token"
)

// MaxCallDepth bounds how deeply calls may nest before Run gives up.
const MaxCallDepth = 10000

// frame is one active function call. Arguments are kept unevaluated and are
// only evaluated, in the caller's frame, when the callee first reads the
// matching parameter.
type frame struct {
	signature *ast.FunctionSignature
	arguments []ast.Expression
	caller    *frame
	depth     int

	cache   map[string]Result
	results []ExpressionResult
}

func newFrame(signature *ast.FunctionSignature, arguments []ast.Expression, caller *frame) *frame {
	depth := 0
	if caller != nil {
		depth = caller.depth + 1
	}

	return &frame{
		signature: signature,
		arguments: arguments,
		caller:    caller,
		depth:     depth,
		cache:     make(map[string]Result),
	}
}

type Interpreter struct {
	program []ast.Expression
	entry   string
	out     io.Writer

	results []ExpressionResult
}

type Option func(*Interpreter)

// WithOutput sets where print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

func WithEntry(name string) Option {
	return func(in *Interpreter) {
		in.entry = name
	}
}

// New prepares an interpreter for an analyzed program. The program is only
// read, never modified.
func New(program []ast.Expression, opts ...Option) *Interpreter {
	in := &Interpreter{
		program: program,
		entry:   ast.EntryFunctionName,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run evaluates the body of the entry function top to bottom. Every
// top-level statement of the body is logged and can be read back with
// Results.
func (in *Interpreter) Run() (Result, error) {
	in.results = nil

	entry, ok := ast.FindFunction(in.program, in.entry)
	if !ok {
		return Result{}, invariant(token.Token{}, "entry function `%s` not found", in.entry)
	}

	f := newFrame(entry.Signature, nil, nil)
	result, _, err := in.runBody(f, entry.Body)
	in.results = f.results
	if err != nil {
		return Result{}, err
	}

	return result, nil
}

// Results returns the log of the last Run, one entry per evaluated
// statement of the entry function.
func (in *Interpreter) Results() []ExpressionResult {
	return in.results
}

// runBody evaluates body in f and reports whether a return statement was
// reached, in which case result is the returned value.
func (in *Interpreter) runBody(f *frame, body []ast.Expression) (result Result, returned bool, err error) {
	for _, expr := range body {
		switch e := expr.(type) {
		case *ast.IfStatement:
			result, returned, err = in.runIfStatement(f, e)
		default:
			result, err = in.evaluate(f, expr)
			_, returned = expr.(*ast.ReturnStatement)
		}

		if err != nil {
			return Result{}, false, err
		}

		f.results = append(f.results, ExpressionResult{Expression: expr, Result: result})

		if returned {
			return result, true, nil
		}
	}

	return VoidResult(), false, nil
}

func (in *Interpreter) runIfStatement(f *frame, e *ast.IfStatement) (Result, bool, error) {
	condition, err := in.evaluate(f, e.Condition)
	if err != nil {
		return Result{}, false, err
	}

	if condition.Type() != BoolValue {
		return Result{}, false, invariant(e.IfToken, "condition evaluated to %s", condition.Type())
	}

	if !condition.Bool() {
		return VoidResult(), false, nil
	}

	return in.runBody(f, e.Body)
}

func (in *Interpreter) evaluate(f *frame, expr ast.Expression) (Result, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return IntResult(e.Value), nil
	case *ast.FloatLiteral:
		return FloatResult(e.Value), nil
	case *ast.StringLiteral:
		return StringResult(e.Value), nil
	case *ast.BoolLiteral:
		return BoolResult(e.Value), nil
	case *ast.Assignment:
		return in.evaluate(f, e.Value)
	case *ast.BinaryOperation:
		return in.evaluateBinaryOperation(f, e)
	case *ast.PrintStatement:
		return in.evaluatePrintStatement(f, e)
	case *ast.PropertyAccess:
		return in.lookup(f, e.Identifier)
	case *ast.ReturnStatement:
		return in.evaluate(f, e.Value)
	case *ast.FunctionCall:
		return in.evaluateFunctionCall(f, e)
	case *ast.IfStatement:
		result, _, err := in.runIfStatement(f, e)
		return result, err
	}

	return Result{}, invariant(expr.ErrorToken(), "cannot evaluate %T", expr)
}

func (in *Interpreter) evaluateBinaryOperation(f *frame, e *ast.BinaryOperation) (Result, error) {
	lhs, err := in.evaluate(f, e.Left)
	if err != nil {
		return Result{}, err
	}

	rhs, err := in.evaluate(f, e.Right)
	if err != nil {
		return Result{}, err
	}

	if !lhs.IsNumber() || !rhs.IsNumber() {
		return Result{}, nil
	}

	switch {
	case lhs.Type() == IntValue && rhs.Type() == IntValue:
		v, ok := arithmetic(e.Operator.Type, lhs.Int(), rhs.Int())
		if ok {
			return IntResult(v), nil
		}
	case lhs.Type() == FloatValue && rhs.Type() == FloatValue:
		v, ok := arithmetic(e.Operator.Type, lhs.Float(), rhs.Float())
		if ok {
			return FloatResult(v), nil
		}
	default:
		return Result{}, invariant(e.Operator, "mixed operands %s and %s", lhs.Type(), rhs.Type())
	}

	return Result{}, invariant(e.Operator, "unknown operator '%s'", e.Operator.Lexeme)
}

func (in *Interpreter) evaluatePrintStatement(f *frame, e *ast.PrintStatement) (Result, error) {
	if len(e.Arguments) == 0 {
		return Result{}, invariant(e.PrintToken, "print without an argument")
	}

	value, err := in.evaluate(f, e.Arguments[0])
	if err != nil {
		return Result{}, err
	}

	if !value.IsValid() {
		return Result{}, invariant(e.PrintToken, "cannot print an invalid value")
	}

	if _, err := fmt.Fprintln(in.out, value.String()); err != nil {
		return Result{}, err
	}

	return VoidResult(), nil
}

func (in *Interpreter) evaluateFunctionCall(f *frame, e *ast.FunctionCall) (Result, error) {
	name := e.Identifier.Lexeme

	decl, ok := ast.FindFunction(in.program, name)
	if !ok {
		return Result{}, invariant(e.Identifier, "function `%s` has no body", name)
	}

	if f.depth+1 > MaxCallDepth {
		return Result{}, ErrCallDepth
	}

	callee := newFrame(decl.Signature, e.Arguments, f)
	result, returned, err := in.runBody(callee, decl.Body)
	if err != nil {
		return Result{}, err
	}

	if !returned {
		return VoidResult(), nil
	}
	return result, nil
}

// lookup resolves a name in f: the argument cache first, then the
// parameters of the running function, then the latest assignment logged in
// the frame.
func (in *Interpreter) lookup(f *frame, identifier token.Token) (Result, error) {
	name := identifier.Lexeme

	if cached, ok := f.cache[name]; ok {
		return cached, nil
	}

	if i, _, ok := f.signature.Parameter(name); ok && f.caller != nil {
		if i >= len(f.arguments) {
			return Result{}, invariant(identifier, "missing argument for parameter `%s`", name)
		}

		result, err := in.evaluate(f.caller, f.arguments[i])
		if err != nil {
			return Result{}, err
		}

		f.cache[name] = result
		return result, nil
	}

	for i := len(f.results) - 1; i >= 0; i-- {
		assignment, ok := f.results[i].Expression.(*ast.Assignment)
		if ok && assignment.Variable.Name() == name {
			return f.results[i].Result, nil
		}
	}

	return Result{}, invariant(identifier, "`%s` has no value", name)
}
