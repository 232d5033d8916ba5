package analyzer

import (
	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/token"
)

// ScopeVariable is a name that is valid inside the body of one function.
// Scopes are flat: every binding of a function shares one namespace.
type ScopeVariable struct {
	Scope    *ast.FunctionSignature
	Variable *ast.VariableDeclaration
}

type Analyzer struct {
	program []ast.Expression
	entry   string

	signatures map[string]*ast.FunctionSignature
	variables  []ScopeVariable
}

type Option func(*Analyzer)

// WithEntry changes the name of the function the program must start with.
func WithEntry(name string) Option {
	return func(a *Analyzer) {
		a.entry = name
	}
}

// scope tracks which bindings of the function being checked are visible at
// the current point of its body. Bindings made inside an `if` body do not
// leak into the enclosing body.
type scope struct {
	signature *ast.FunctionSignature
	visible   map[string]*ast.VariableDeclaration
}

func (s *scope) child() *scope {
	visible := make(map[string]*ast.VariableDeclaration, len(s.visible))
	for name, v := range s.visible {
		visible[name] = v
	}
	return &scope{signature: s.signature, visible: visible}
}

// Analyze checks program and resolves the placeholder type of every
// inferred declaration in place. It returns the first semantic error found;
// the program must not be handed to a backend in that case.
//
//  1. The entry function is validated.
//  2. Function signatures and scope variables are collected.
//  3. Every function body is type checked.
func Analyze(program []ast.Expression, opts ...Option) error {
	a := Analyzer{
		program:    program,
		entry:      ast.EntryFunctionName,
		signatures: make(map[string]*ast.FunctionSignature),
	}
	for _, opt := range opts {
		opt(&a)
	}

	if err := a.visitEntryFunction(); err != nil {
		return err
	}

	for _, expr := range program {
		if err := a.collect(expr); err != nil {
			return err
		}
	}

	for _, expr := range program {
		if decl, ok := expr.(*ast.FunctionDeclaration); ok {
			if err := a.visitFunction(decl); err != nil {
				return err
			}
		}
	}

	return a.checkResolved()
}

func (a *Analyzer) visitEntryFunction() error {
	if len(a.program) == 0 {
		return &EntryPointError{Name: a.entry}
	}

	entry, ok := a.program[0].(*ast.FunctionDeclaration)
	if !ok || entry.Signature.Name() != a.entry {
		return &EntryPointError{Name: a.entry, Token: a.program[0].ErrorToken()}
	}

	count := 0
	var duplicate token.Token
	for _, expr := range a.program {
		if decl, ok := expr.(*ast.FunctionDeclaration); ok && decl.Signature.Name() == a.entry {
			count++
			if count == 2 {
				duplicate = decl.Signature.Identifier
			}
		}
	}

	if count > 1 {
		return &FunctionRedeclarationError{Name: a.entry, Count: count, Token: duplicate}
	}

	if arity := len(entry.Signature.Parameters); arity != 0 {
		return &ArityMismatchError{
			Name:     a.entry,
			Expected: 0,
			Got:      arity,
			Token:    entry.Signature.Identifier,
		}
	}

	if entry.Signature.ReturnType != ast.Void {
		return &TypeMismatchError{
			Expected: ast.Void,
			Got:      entry.Signature.ReturnType,
			Token:    entry.Signature.Identifier,
		}
	}

	return nil
}

func (a *Analyzer) collect(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.FunctionSignature:
		a.signatures[e.Name()] = e
		return a.checkParameters(e)
	case *ast.FunctionDeclaration:
		a.signatures[e.Signature.Name()] = e.Signature
		if err := a.checkParameters(e.Signature); err != nil {
			return err
		}

		for _, param := range e.Signature.Parameters {
			a.variables = append(a.variables, ScopeVariable{Scope: e.Signature, Variable: param})
		}

		return a.collectBody(e.Signature, e.Body)
	}

	return &InvalidExpressionError{
		Reason: "Only function declarations are allowed at the top level.",
		Token:  expr.ErrorToken(),
	}
}

func (a *Analyzer) checkParameters(signature *ast.FunctionSignature) error {
	seen := make(map[string]bool, len(signature.Parameters))
	for _, param := range signature.Parameters {
		if param.Type() == ast.Void {
			return &InvalidTypeError{
				Reason: "Parameters cannot have type `Void`.",
				Token:  param.Identifier,
			}
		}
		if seen[param.Name()] {
			return &VariableRedeclarationError{Name: param.Name(), Token: param.Identifier}
		}
		seen[param.Name()] = true
	}
	return nil
}

func (a *Analyzer) collectBody(signature *ast.FunctionSignature, body []ast.Expression) error {
	for _, expr := range body {
		switch e := expr.(type) {
		case *ast.VariableDeclaration:
			return &UnassignedVariableError{Name: e.Name(), Token: e.Identifier}
		case *ast.Assignment:
			name := e.Variable.Name()
			if _, _, ok := signature.Parameter(name); ok {
				return &ImmutableVariableError{Name: name, Token: e.Variable.Identifier}
			}
			if _, ok := a.lookupVariable(signature, name); ok {
				return &VariableRedeclarationError{Name: name, Token: e.Variable.Identifier}
			}

			a.variables = append(a.variables, ScopeVariable{Scope: signature, Variable: e.Variable})
		case *ast.IfStatement:
			if err := a.collectBody(signature, e.Body); err != nil {
				return err
			}
		}
	}

	return nil
}

func (a *Analyzer) lookupVariable(signature *ast.FunctionSignature, name string) (*ast.VariableDeclaration, bool) {
	for _, v := range a.variables {
		if v.Scope == signature && v.Variable.Name() == name {
			return v.Variable, true
		}
	}
	return nil, false
}

func (a *Analyzer) visitFunction(decl *ast.FunctionDeclaration) error {
	s := &scope{
		signature: decl.Signature,
		visible:   make(map[string]*ast.VariableDeclaration),
	}
	for _, param := range decl.Signature.Parameters {
		s.visible[param.Name()] = param
	}

	return a.visitBody(s, decl.Body)
}

func (a *Analyzer) visitBody(s *scope, body []ast.Expression) error {
	for _, expr := range body {
		if _, err := a.visit(s, expr); err != nil {
			return err
		}
	}
	return nil
}

// visitValue types an expression that must produce a value.
func (a *Analyzer) visitValue(s *scope, expr ast.Expression) (ast.BuiltinType, error) {
	t, err := a.visit(s, expr)
	if err != nil {
		return ast.Placeholder, err
	}

	if t == ast.Void || t == ast.Placeholder {
		return ast.Placeholder, &InvalidTypeError{
			Reason: "Expression of type `Void` cannot be used as a value.",
			Token:  expr.ErrorToken(),
		}
	}

	return t, nil
}

func (a *Analyzer) visit(s *scope, expr ast.Expression) (ast.BuiltinType, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.BoolLiteral, *ast.StringLiteral:
		t, _ := ast.LiteralType(e)
		return t, nil
	case *ast.VariableDeclaration:
		return e.Type(), nil
	case *ast.Assignment:
		return a.visitAssignment(s, e)
	case *ast.PropertyAccess:
		return a.visitPropertyAccess(s, e)
	case *ast.BinaryOperation:
		return a.visitBinaryOperation(s, e)
	case *ast.FunctionCall:
		return a.visitFunctionCall(s, e)
	case *ast.PrintStatement:
		return a.visitPrintStatement(s, e)
	case *ast.ReturnStatement:
		return a.visitReturnStatement(s, e)
	case *ast.IfStatement:
		return a.visitIfStatement(s, e)
	case *ast.FunctionDeclaration, *ast.FunctionSignature:
		return ast.Placeholder, &InvalidExpressionError{
			Reason: "Functions can only be declared at the top level.",
			Token:  e.ErrorToken(),
		}
	}

	return ast.Placeholder, &InvalidExpressionError{
		Reason: "Unsupported expression.",
		Token:  expr.ErrorToken(),
	}
}

func (a *Analyzer) visitAssignment(s *scope, e *ast.Assignment) (ast.BuiltinType, error) {
	valueType, err := a.visitValue(s, e.Value)
	if err != nil {
		return ast.Placeholder, err
	}

	if !e.Variable.IsResolved() {
		if err := e.Variable.ResolveType(valueType); err != nil {
			return ast.Placeholder, &UnresolvedPlaceholderError{Name: e.Variable.Name(), Token: e.Variable.Identifier}
		}
	} else if e.Variable.Type() != valueType {
		return ast.Placeholder, &TypeMismatchError{
			Expected: e.Variable.Type(),
			Got:      valueType,
			Token:    e.Value.ErrorToken(),
		}
	}

	s.visible[e.Variable.Name()] = e.Variable
	return e.Variable.Type(), nil
}

func (a *Analyzer) visitPropertyAccess(s *scope, e *ast.PropertyAccess) (ast.BuiltinType, error) {
	name := e.Identifier.Lexeme

	if _, param, ok := s.signature.Parameter(name); ok {
		return param.Type(), nil
	}

	if _, ok := a.lookupVariable(s.signature, name); !ok {
		return ast.Placeholder, &UndeclaredVariableError{Name: name, Token: e.Identifier}
	}

	visible, ok := s.visible[name]
	if !ok {
		return ast.Placeholder, &UseBeforeDeclarationError{Name: name, Token: e.Identifier}
	}

	return visible.Type(), nil
}

func (a *Analyzer) visitBinaryOperation(s *scope, e *ast.BinaryOperation) (ast.BuiltinType, error) {
	lhs, err := a.visitValue(s, e.Left)
	if err != nil {
		return ast.Placeholder, err
	}

	rhs, err := a.visitValue(s, e.Right)
	if err != nil {
		return ast.Placeholder, err
	}

	if lhs != rhs {
		return ast.Placeholder, &TypeMismatchError{Expected: lhs, Got: rhs, Token: e.Operator}
	}

	if !lhs.IsNumeric() {
		return ast.Placeholder, &InvalidOperandError{Operator: e.Operator.Lexeme, Type: lhs, Token: e.Operator}
	}

	return lhs, nil
}

func (a *Analyzer) visitFunctionCall(s *scope, e *ast.FunctionCall) (ast.BuiltinType, error) {
	name := e.Identifier.Lexeme

	signature, ok := a.signatures[name]
	if !ok {
		return ast.Placeholder, &UnknownFunctionError{Name: name, Token: e.Identifier}
	}

	if len(e.Arguments) != len(signature.Parameters) {
		return ast.Placeholder, &ArityMismatchError{
			Name:     name,
			Expected: len(signature.Parameters),
			Got:      len(e.Arguments),
			Token:    e.Identifier,
		}
	}

	for i, arg := range e.Arguments {
		argType, err := a.visitValue(s, arg)
		if err != nil {
			return ast.Placeholder, err
		}

		if paramType := signature.Parameters[i].Type(); argType != paramType {
			return ast.Placeholder, &ArgumentTypeError{
				Name:     name,
				Position: i,
				Expected: paramType,
				Got:      argType,
				Token:    arg.ErrorToken(),
			}
		}
	}

	return signature.ReturnType, nil
}

// visitPrintStatement only checks the first argument. The backends print
// nothing else either.
func (a *Analyzer) visitPrintStatement(s *scope, e *ast.PrintStatement) (ast.BuiltinType, error) {
	if len(e.Arguments) == 0 {
		return ast.Placeholder, &EmptyPrintError{Token: e.PrintToken}
	}

	if _, err := a.visitValue(s, e.Arguments[0]); err != nil {
		return ast.Placeholder, err
	}

	return ast.Void, nil
}

func (a *Analyzer) visitReturnStatement(s *scope, e *ast.ReturnStatement) (ast.BuiltinType, error) {
	t, err := a.visit(s, e.Value)
	if err != nil {
		return ast.Placeholder, err
	}

	if expected := s.signature.ReturnType; t != expected {
		return ast.Placeholder, &TypeMismatchError{Expected: expected, Got: t, Token: e.Value.ErrorToken()}
	}

	return t, nil
}

func (a *Analyzer) visitIfStatement(s *scope, e *ast.IfStatement) (ast.BuiltinType, error) {
	condition, err := a.visit(s, e.Condition)
	if err != nil {
		return ast.Placeholder, err
	}

	if condition != ast.Bool {
		return ast.Placeholder, &TypeMismatchError{Expected: ast.Bool, Got: condition, Token: e.Condition.ErrorToken()}
	}

	if err := a.visitBody(s.child(), e.Body); err != nil {
		return ast.Placeholder, err
	}

	return ast.Void, nil
}

// checkResolved makes sure no declaration is left with a placeholder type.
func (a *Analyzer) checkResolved() error {
	for _, v := range a.variables {
		if !v.Variable.IsResolved() {
			return &UnresolvedPlaceholderError{Name: v.Variable.Name(), Token: v.Variable.Identifier}
		}
	}
	return nil
}
